package index

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/lintang-b-s/bptreedb/lib/buffer"
	"github.com/lintang-b-s/bptreedb/lib/catalog"
	"github.com/lintang-b-s/bptreedb/lib/disk"
	"github.com/lintang-b-s/bptreedb/lib/log"
	"github.com/lintang-b-s/bptreedb/lib/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTree(t *testing.T, leafMaxSize, internalMaxSize int) *BPlusTree[int64, tree.RID] {
	t.Helper()
	dir := t.TempDir()
	dm, err := disk.NewDiskManager(dir, disk.PageSize)
	require.NoError(t, err)
	lm, err := log.NewLogManager(dm)
	require.NoError(t, err)
	bpm := buffer.NewBufferPoolManager(64, dm, lm, 2)

	header, err := catalog.NewHeaderCatalog(bpm)
	require.NoError(t, err)

	bt, err := NewBPlusTree[int64, tree.RID]("t1", bpm, header, Int64Comparator, tree.Int64Codec{}, tree.RIDCodec{}, leafMaxSize, internalMaxSize)
	require.NoError(t, err)
	return bt
}

func rid(slot int32) tree.RID { return tree.RID{PageID: disk.PageID(slot), Slot: slot} }

// S4 — leaf split propagation.
func TestBPlusTreeLeafSplitPropagation(t *testing.T) {
	bt := newTestTree(t, 3, 3)

	for _, k := range []int64{1, 2, 3, 4} {
		ok, err := bt.Insert(k, rid(int32(k)))
		require.NoError(t, err)
		assert.True(t, ok)
	}

	debug, err := bt.DebugString()
	require.NoError(t, err)
	t.Log(debug)

	it, err := bt.Begin()
	require.NoError(t, err)
	defer it.Close()

	var got []int64
	for it.Valid() {
		got = append(got, it.Key())
		it.Next()
	}
	assert.Equal(t, []int64{1, 2, 3, 4}, got)
}

// S5 — delete with coalesce collapsing the root.
func TestBPlusTreeDeleteWithCoalesce(t *testing.T) {
	bt := newTestTree(t, 3, 3)
	for _, k := range []int64{1, 2, 3, 4} {
		_, err := bt.Insert(k, rid(int32(k)))
		require.NoError(t, err)
	}

	require.NoError(t, bt.Remove(2))
	require.NoError(t, bt.Remove(1))

	assert.False(t, bt.IsEmpty())

	it, err := bt.Begin()
	require.NoError(t, err)
	defer it.Close()

	var got []int64
	for it.Valid() {
		got = append(got, it.Key())
		it.Next()
	}
	assert.Equal(t, []int64{3, 4}, got)
}

func TestBPlusTreeRoundTrip(t *testing.T) {
	bt := newTestTree(t, 4, 4)

	ok, err := bt.Insert(42, rid(42))
	require.NoError(t, err)
	assert.True(t, ok)

	v, found, err := bt.GetValue(42)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, rid(42), v)

	require.NoError(t, bt.Remove(42))
	_, found, err = bt.GetValue(42)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestBPlusTreeInsertDuplicateRejected(t *testing.T) {
	bt := newTestTree(t, 4, 4)

	ok, err := bt.Insert(1, rid(1))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = bt.Insert(1, rid(99))
	require.NoError(t, err)
	assert.False(t, ok, "inserting an existing key must report false, not overwrite")
}

func TestBPlusTreeIdempotentRemove(t *testing.T) {
	bt := newTestTree(t, 4, 4)
	_, err := bt.Insert(7, rid(7))
	require.NoError(t, err)

	require.NoError(t, bt.Remove(7))
	require.NoError(t, bt.Remove(7))

	_, found, err := bt.GetValue(7)
	require.NoError(t, err)
	assert.False(t, found)
}

// TestBPlusTreeBulkRandomRoundTrip inserts a shuffled key set large
// enough to force repeated splits and coalesces in both directions,
// then verifies every surviving key is retrievable in order and every
// removed key is gone.
func TestBPlusTreeBulkRandomRoundTrip(t *testing.T) {
	bt := newTestTree(t, 5, 5)

	const n = 300
	keys := make([]int64, n)
	for i := range keys {
		keys[i] = int64(i)
	}
	rand.New(rand.NewSource(1)).Shuffle(n, func(i, j int) { keys[i], keys[j] = keys[j], keys[i] })

	for _, k := range keys {
		ok, err := bt.Insert(k, rid(int32(k)))
		require.NoError(t, err)
		require.True(t, ok)
	}

	removed := make(map[int64]bool)
	for i, k := range keys {
		if i%3 == 0 {
			require.NoError(t, bt.Remove(k))
			removed[k] = true
		}
	}

	it, err := bt.Begin()
	require.NoError(t, err)
	defer it.Close()

	var got []int64
	for it.Valid() {
		got = append(got, it.Key())
		it.Next()
	}

	var want []int64
	for i := int64(0); i < n; i++ {
		if !removed[i] {
			want = append(want, i)
		}
	}
	assert.Equal(t, want, got)

	for _, k := range want {
		_, found, err := bt.GetValue(k)
		require.NoError(t, err)
		assert.True(t, found, "key %d should still be present", k)
	}
	for k := range removed {
		_, found, err := bt.GetValue(k)
		require.NoError(t, err)
		assert.False(t, found, "key %d should be gone", k)
	}
}

func TestBPlusTreeBeginAtSeeksToFirstGreaterOrEqual(t *testing.T) {
	bt := newTestTree(t, 4, 4)
	for _, k := range []int64{10, 20, 30, 40, 50} {
		_, err := bt.Insert(k, rid(int32(k)))
		require.NoError(t, err)
	}

	it, err := bt.BeginAt(25)
	require.NoError(t, err)
	defer it.Close()

	var got []int64
	for it.Valid() {
		got = append(got, it.Key())
		it.Next()
	}
	assert.Equal(t, []int64{30, 40, 50}, got)
}

func TestBPlusTreeGofakeitKeys(t *testing.T) {
	bt := newTestTree(t, 4, 4)
	seen := map[int64]bool{}

	for len(seen) < 50 {
		k := int64(gofakeit.Number(1, 1_000_000))
		if seen[k] {
			continue
		}
		seen[k] = true
		ok, err := bt.Insert(k, rid(int32(len(seen))))
		require.NoError(t, err)
		require.True(t, ok, fmt.Sprintf("key %d should be newly inserted", k))
	}

	for k := range seen {
		_, found, err := bt.GetValue(k)
		require.NoError(t, err)
		assert.True(t, found)
	}
}
