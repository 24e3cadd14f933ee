// Package hash implements a generic in-memory extendible hash table,
// used by the buffer pool manager as its page table (page id -> frame
// id). Grown entirely in memory and never shrunk (Remove does not merge
// buckets or halve the directory); nothing here touches disk.
package hash

import (
	"encoding/binary"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// HashInt64 hashes a fixed-width integer key (PageID and friends)
// without going through reflection.
func HashInt64(v int64) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(v))
	return xxhash.Sum64(buf[:])
}

// HashString hashes a string key.
func HashString(s string) uint64 {
	return xxhash.Sum64String(s)
}

type entry[K comparable, V any] struct {
	key K
	val V
}

type bucket[K comparable, V any] struct {
	localDepth int
	size       int
	items      []entry[K, V]
}

func newBucket[K comparable, V any](size, localDepth int) *bucket[K, V] {
	return &bucket[K, V]{localDepth: localDepth, size: size}
}

func (b *bucket[K, V]) find(key K) (V, bool) {
	for _, e := range b.items {
		if e.key == key {
			return e.val, true
		}
	}
	var zero V
	return zero, false
}

func (b *bucket[K, V]) remove(key K) bool {
	for i, e := range b.items {
		if e.key == key {
			b.items = append(b.items[:i], b.items[i+1:]...)
			return true
		}
	}
	return false
}

// insert returns false when the bucket is full and key is not already
// present, signalling the caller must split.
func (b *bucket[K, V]) insert(key K, val V) bool {
	for i, e := range b.items {
		if e.key == key {
			b.items[i].val = val
			return true
		}
	}
	if len(b.items) >= b.size {
		return false
	}
	b.items = append(b.items, entry[K, V]{key: key, val: val})
	return true
}

func (b *bucket[K, V]) isFull() bool {
	return len(b.items) >= b.size
}

// HashTable is a generic extendible hash table: a directory of
// 2^globalDepth slots pointing at buckets, each bucket holding up to
// bucketSize entries at its own localDepth <= globalDepth. Every
// public method holds the table's own mutex for its whole duration,
// so concurrent callers are serialized; buckets have no lock of their
// own and are only reached under that mutex.
type HashTable[K comparable, V any] struct {
	mu          sync.Mutex
	globalDepth int
	bucketSize  int
	numBuckets  int
	dir         []*bucket[K, V]
	hashFn      func(K) uint64
}

func NewHashTable[K comparable, V any](bucketSize int, hashFn func(K) uint64) *HashTable[K, V] {
	b := newBucket[K, V](bucketSize, 0)
	return &HashTable[K, V]{
		bucketSize: bucketSize,
		numBuckets: 1,
		dir:        []*bucket[K, V]{b},
		hashFn:     hashFn,
	}
}

func (h *HashTable[K, V]) indexOf(key K) int {
	mask := uint64(1)<<uint(h.globalDepth) - 1
	return int(h.hashFn(key) & mask)
}

// Find returns the value mapped to key, if present.
func (h *HashTable[K, V]) Find(key K) (V, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	b := h.dir[h.indexOf(key)]
	return b.find(key)
}

// Remove deletes key from the table, returning whether it was present.
func (h *HashTable[K, V]) Remove(key K) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	b := h.dir[h.indexOf(key)]
	return b.remove(key)
}

// Insert adds or updates key -> val, splitting buckets (and doubling
// the directory when needed) until the insert fits.
func (h *HashTable[K, V]) Insert(key K, val V) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for {
		idx := h.indexOf(key)
		b := h.dir[idx]
		if b.insert(key, val) {
			return
		}
		h.splitBucket(idx)
	}
}

// splitBucket splits the bucket at directory slot idx into two
// buckets at localDepth+1, doubling the directory first if the
// bucket's local depth has caught up to the global depth.
func (h *HashTable[K, V]) splitBucket(idx int) {
	old := h.dir[idx]

	if old.localDepth == h.globalDepth {
		h.dir = append(h.dir, h.dir...)
		h.globalDepth++
	}

	newLocalDepth := old.localDepth + 1
	zeroBucket := newBucket[K, V](h.bucketSize, newLocalDepth)
	oneBucket := newBucket[K, V](h.bucketSize, newLocalDepth)

	splitBit := uint(newLocalDepth - 1)
	for _, e := range old.items {
		if (h.hashFn(e.key)>>splitBit)&1 == 1 {
			oneBucket.items = append(oneBucket.items, e)
		} else {
			zeroBucket.items = append(zeroBucket.items, e)
		}
	}

	for i, b := range h.dir {
		if b != old {
			continue
		}
		if (uint(i)>>splitBit)&1 == 1 {
			h.dir[i] = oneBucket
		} else {
			h.dir[i] = zeroBucket
		}
	}

	h.numBuckets++
}

// GlobalDepth returns the current directory depth.
func (h *HashTable[K, V]) GlobalDepth() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.globalDepth
}

// LocalDepth returns the local depth of the bucket holding key.
func (h *HashTable[K, V]) LocalDepth(key K) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.dir[h.indexOf(key)].localDepth
}

// NumBuckets returns the number of distinct buckets currently
// referenced by the directory (directory length can exceed this once
// global depth outpaces every bucket's local depth).
func (h *HashTable[K, V]) NumBuckets() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.numBuckets
}

// DirectorySize returns the directory's slot count, 2^globalDepth.
func (h *HashTable[K, V]) DirectorySize() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.dir)
}
