package replacer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLRUKReplacerBasicEviction(t *testing.T) {
	r := NewLRUKReplacer(3, 2)

	t.Run("k-distance picks the frame with the oldest 2nd-to-last access", func(t *testing.T) {
		for _, frameID := range []FrameID{0, 1, 2, 0, 1, 2, 0} {
			r.RecordAccess(frameID)
		}
		r.SetEvictable(0, true)
		r.SetEvictable(1, true)
		r.SetEvictable(2, true)

		assert.Equal(t, 3, r.Size())

		var victim FrameID
		ok := r.Evict(&victim)
		assert.True(t, ok)
		assert.Equal(t, FrameID(1), victim)
		assert.Equal(t, 2, r.Size())
	})
}

func TestLRUKReplacerPrefersInfiniteDistance(t *testing.T) {
	r := NewLRUKReplacer(4, 2)

	r.RecordAccess(0)
	r.RecordAccess(0)
	r.RecordAccess(1)
	r.SetEvictable(0, true)
	r.SetEvictable(1, true)

	var victim FrameID
	ok := r.Evict(&victim)
	assert.True(t, ok)
	assert.Equal(t, FrameID(1), victim, "frame with fewer than k accesses has +inf k-distance and evicts first")
}

func TestLRUKReplacerSetEvictableTracksSize(t *testing.T) {
	r := NewLRUKReplacer(2, 2)

	r.RecordAccess(0)
	r.RecordAccess(1)
	assert.Equal(t, 0, r.Size())

	r.SetEvictable(0, true)
	assert.Equal(t, 1, r.Size())

	r.SetEvictable(0, false)
	assert.Equal(t, 0, r.Size())
}

func TestLRUKReplacerRemoveRequiresEvictable(t *testing.T) {
	r := NewLRUKReplacer(2, 2)

	r.RecordAccess(0)
	r.Remove(0) // not evictable yet, silently ignored

	var victim FrameID
	ok := r.Evict(&victim)
	assert.False(t, ok)

	r.SetEvictable(0, true)
	r.Remove(0)
	assert.Equal(t, 0, r.Size())
}

func TestLRUKReplacerOutOfRangeFrameIgnored(t *testing.T) {
	r := NewLRUKReplacer(2, 2)

	r.RecordAccess(FrameID(5)) // >= numFrames, ignored per spec's corrected bound check
	r.SetEvictable(5, true)    // no tracked frame, no-op

	var victim FrameID
	ok := r.Evict(&victim)
	assert.False(t, ok)
}

func TestLRUKReplacerEvictPopsTracking(t *testing.T) {
	r := NewLRUKReplacer(2, 1)

	r.RecordAccess(0)
	r.RecordAccess(1)
	r.SetEvictable(0, true)
	r.SetEvictable(1, true)

	var victim FrameID
	require := assert.New(t)
	require.True(r.Evict(&victim))
	require.Equal(FrameID(0), victim)
	require.Equal(1, r.Size())

	require.True(r.Evict(&victim))
	require.Equal(FrameID(1), victim)
	require.Equal(0, r.Size())

	require.False(r.Evict(&victim))
}
