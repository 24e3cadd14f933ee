package index

import (
	"github.com/lintang-b-s/bptreedb/lib/disk"
	"github.com/lintang-b-s/bptreedb/lib/tree"
)

// Iterator walks leaf entries in key order, following sibling links.
// It pins its current leaf page for as long as it's positioned there;
// callers must call Close (or exhaust the iterator) to release it.
type Iterator[K comparable, V any] struct {
	tree *BPlusTree[K, V]

	leafID disk.PageID
	page   *disk.Page
	leaf   *tree.LeafNode[K, V]
	idx    int
	done   bool
}

// Begin returns an iterator positioned at the smallest key.
func (t *BPlusTree[K, V]) Begin() (*Iterator[K, V], error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.rootPageID == disk.InvalidPageID {
		return &Iterator[K, V]{tree: t, done: true}, nil
	}

	leafID, page, leaf, err := t.findLeftmostLeaf()
	if err != nil {
		return nil, err
	}
	it := &Iterator[K, V]{tree: t, leafID: leafID, page: page, leaf: leaf}
	it.skipEmptyLeaves()
	return it, nil
}

// BeginAt returns an iterator positioned at the first key >= key.
func (t *BPlusTree[K, V]) BeginAt(key K) (*Iterator[K, V], error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.rootPageID == disk.InvalidPageID {
		return &Iterator[K, V]{tree: t, done: true}, nil
	}

	leafID, page, leaf, err := t.findLeaf(key)
	if err != nil {
		return nil, err
	}
	idx := 0
	for idx < leaf.Size && t.cmp(leaf.Keys[idx], key) < 0 {
		idx++
	}
	it := &Iterator[K, V]{tree: t, leafID: leafID, page: page, leaf: leaf, idx: idx}
	it.skipEmptyLeaves()
	return it, nil
}

// skipEmptyLeaves advances across leaf boundaries while the current
// leaf has no entry left at idx, releasing exhausted pages as it goes.
func (it *Iterator[K, V]) skipEmptyLeaves() {
	for !it.done && it.idx >= it.leaf.Size {
		next := it.leaf.NextPageID
		it.tree.bpm.UnpinPage(it.leafID, false)
		if next == disk.InvalidPageID {
			it.done = true
			it.leaf = nil
			it.page = nil
			return
		}
		page, leaf, err := it.tree.fetchLeaf(next)
		if err != nil {
			it.done = true
			it.leaf = nil
			it.page = nil
			return
		}
		it.leafID = next
		it.page = page
		it.leaf = leaf
		it.idx = 0
	}
}

// Valid reports whether Key/Value may be called.
func (it *Iterator[K, V]) Valid() bool { return !it.done }

func (it *Iterator[K, V]) Key() K   { return it.leaf.Keys[it.idx] }
func (it *Iterator[K, V]) Value() V { return it.leaf.Values[it.idx] }

// Next advances to the following entry.
func (it *Iterator[K, V]) Next() {
	if it.done {
		return
	}
	it.idx++
	it.skipEmptyLeaves()
}

// Close releases the page the iterator currently holds pinned, if any.
func (it *Iterator[K, V]) Close() {
	if !it.done && it.leafID != disk.InvalidPageID {
		it.tree.bpm.UnpinPage(it.leafID, false)
	}
	it.done = true
	it.leaf = nil
	it.page = nil
}
