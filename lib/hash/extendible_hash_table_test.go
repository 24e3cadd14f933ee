package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func identityHash(k int) uint64 { return uint64(k) }

func TestHashTableSplitsOnOverflow(t *testing.T) {
	h := NewHashTable[int, string](2, identityHash)

	h.Insert(1, "a")
	h.Insert(5, "b")
	h.Insert(9, "c")

	v, ok := h.Find(1)
	require.True(t, ok)
	assert.Equal(t, "a", v)

	v, ok = h.Find(5)
	require.True(t, ok)
	assert.Equal(t, "b", v)

	v, ok = h.Find(9)
	require.True(t, ok)
	assert.Equal(t, "c", v)

	assert.GreaterOrEqual(t, h.DirectorySize(), 2)
}

func TestHashTableFindMissing(t *testing.T) {
	h := NewHashTable[int, string](2, identityHash)
	h.Insert(1, "a")

	_, ok := h.Find(42)
	assert.False(t, ok)
}

func TestHashTableUpdateExistingKey(t *testing.T) {
	h := NewHashTable[int, string](2, identityHash)
	h.Insert(1, "a")
	h.Insert(1, "a-updated")

	v, ok := h.Find(1)
	require.True(t, ok)
	assert.Equal(t, "a-updated", v)
}

func TestHashTableRemove(t *testing.T) {
	h := NewHashTable[int, string](2, identityHash)
	h.Insert(1, "a")
	h.Insert(5, "b")

	assert.True(t, h.Remove(1))
	_, ok := h.Find(1)
	assert.False(t, ok)

	assert.False(t, h.Remove(1), "removing an absent key returns false")
}

func TestHashTableGrowsUnderManyInserts(t *testing.T) {
	h := NewHashTable[int64, int](4, HashInt64)

	const n = 500
	for i := int64(0); i < n; i++ {
		h.Insert(i, int(i))
	}

	for i := int64(0); i < n; i++ {
		v, ok := h.Find(i)
		require.True(t, ok, "key %d should be found", i)
		assert.Equal(t, int(i), v)
	}

	assert.Greater(t, h.GlobalDepth(), 0)
	assert.Greater(t, h.NumBuckets(), 1)
}
