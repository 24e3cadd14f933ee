// Package replacer implements the LRU-K eviction policy used by the
// buffer pool manager to pick a victim frame when it needs to free one.
package replacer

import (
	"sync"
)

// FrameID identifies a frame slot in the buffer pool's frame array.
type FrameID int

type frameInfo struct {
	// history holds the timestamps of the last (up to) k accesses,
	// oldest first. history[0] is the k-th most recent access once
	// len(history) == k.
	history   []uint64
	evictable bool
}

// LRUKReplacer tracks access history per frame and picks the frame
// with the largest backward k-distance as the eviction victim. Frames
// with fewer than k recorded accesses have infinite k-distance; ties
// go to the frame whose oldest retained access timestamp is smallest.
type LRUKReplacer struct {
	mu sync.Mutex

	k         uint64
	numFrames int
	currTs    uint64
	frames    map[FrameID]*frameInfo
	evictable int // count of frames currently marked evictable
}

func NewLRUKReplacer(numFrames int, k uint64) *LRUKReplacer {
	return &LRUKReplacer{
		k:         k,
		numFrames: numFrames,
		frames:    make(map[FrameID]*frameInfo),
	}
}

// RecordAccess. catat satu akses ke frameID pada timestamp sekarang.
// frameID di luar [0, numFrames) diabaikan diam-diam.
func (r *LRUKReplacer) RecordAccess(frameID FrameID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if frameID < 0 || int(frameID) >= r.numFrames {
		return
	}

	r.currTs++

	fi, ok := r.frames[frameID]
	if !ok {
		fi = &frameInfo{}
		r.frames[frameID] = fi
	}

	fi.history = append(fi.history, r.currTs)
	if uint64(len(fi.history)) > r.k {
		fi.history = fi.history[1:]
	}
}

// SetEvictable. ubah status evictable suatu frame. no-op jika frame
// tidak pernah diakses lewat RecordAccess.
func (r *LRUKReplacer) SetEvictable(frameID FrameID, evictable bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fi, ok := r.frames[frameID]
	if !ok {
		return
	}
	if fi.evictable == evictable {
		return
	}
	fi.evictable = evictable
	if evictable {
		r.evictable++
	} else {
		r.evictable--
	}
}

// Evict. pilih victim frame dengan k-distance terbesar di antara frame
// yang evictable; +Inf k-distance (history < k) menang dulu, tiebreak
// oleh timestamp akses paling lama (LRU classic di antara frame +Inf).
// return false jika tidak ada frame evictable.
func (r *LRUKReplacer) Evict(frameID *FrameID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	var (
		found       bool
		victim      FrameID
		victimInf   bool
		victimOldTs uint64
	)

	for fid, fi := range r.frames {
		if !fi.evictable {
			continue
		}

		isInf := uint64(len(fi.history)) < r.k
		oldest := fi.history[0]

		if !found {
			found = true
			victim, victimInf, victimOldTs = fid, isInf, oldest
			continue
		}

		switch {
		case isInf && !victimInf:
			victim, victimInf, victimOldTs = fid, isInf, oldest
		case isInf == victimInf && oldest < victimOldTs:
			victim, victimInf, victimOldTs = fid, isInf, oldest
		}
	}

	if !found {
		return false
	}

	*frameID = victim
	delete(r.frames, victim)
	r.evictable--
	return true
}

// Remove. stop tracking frame sepenuhnya. frame harus evictable; jika
// tidak, Remove diam-diam tidak melakukan apa-apa.
func (r *LRUKReplacer) Remove(frameID FrameID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fi, ok := r.frames[frameID]
	if !ok {
		return
	}
	if !fi.evictable {
		return
	}
	delete(r.frames, frameID)
	r.evictable--
}

// Size. jumlah frame yang evictable sekarang (calon victim Evict).
func (r *LRUKReplacer) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.evictable
}
