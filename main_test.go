package main

import (
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/lintang-b-s/bptreedb/lib/buffer"
	"github.com/lintang-b-s/bptreedb/lib/catalog"
	"github.com/lintang-b-s/bptreedb/lib/concurrent"
	"github.com/lintang-b-s/bptreedb/lib/disk"
	"github.com/lintang-b-s/bptreedb/lib/index"
	"github.com/lintang-b-s/bptreedb/lib/log"
	"github.com/lintang-b-s/bptreedb/lib/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// go test -v . --race

// TestEndToEndConcurrentInsert builds the full stack (disk manager,
// log manager, buffer pool, header catalog, B+Tree) and drives
// concurrent inserts through a worker pool, then checks the
// round-trip and iterator-fidelity laws against the surviving keys.
func TestEndToEndConcurrentInsert(t *testing.T) {
	dir := t.TempDir()
	dm, err := disk.NewDiskManager(dir, disk.PageSize)
	require.NoError(t, err)
	defer dm.Close()

	lm, err := log.NewLogManager(dm)
	require.NoError(t, err)

	bpm := buffer.NewBufferPoolManager(64, dm, lm, 2)
	header, err := catalog.NewHeaderCatalog(bpm)
	require.NoError(t, err)

	bt, err := index.NewBPlusTree[int64, tree.RID](
		"end_to_end", bpm, header, index.Int64Comparator, tree.Int64Codec{}, tree.RIDCodec{}, 8, 8,
	)
	require.NoError(t, err)

	const n = 2000
	faker := gofakeit.New(0)
	keys := make(map[int64]bool)
	for len(keys) < n {
		keys[int64(faker.Number(0, n*10))] = true
	}

	unique := make([]int64, 0, n)
	for k := range keys {
		unique = append(unique, k)
	}

	pool := concurrent.NewWorkerPool[int64](16, len(unique))
	pool.Start(func(key int64) error {
		_, err := bt.Insert(key, tree.RID{PageID: disk.PageID(key), Slot: 0})
		return err
	})
	for _, k := range unique {
		pool.AddJob(k)
	}
	pool.Close()
	for err := range pool.Wait() {
		require.NoError(t, err)
	}

	for _, k := range unique {
		v, found, err := bt.GetValue(k)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, k, int64(v.PageID))
	}

	it, err := bt.Begin()
	require.NoError(t, err)
	defer it.Close()

	var prev int64
	count := 0
	for it.Valid() {
		if count > 0 {
			assert.Less(t, prev, it.Key())
		}
		prev = it.Key()
		count++
		it.Next()
	}
	assert.Equal(t, len(unique), count)

	for _, k := range unique[:n/2] {
		require.NoError(t, bt.Remove(k))
		require.NoError(t, bt.Remove(k), "second remove of the same key must be a no-op")
	}
	for _, k := range unique[:n/2] {
		_, found, err := bt.GetValue(k)
		require.NoError(t, err)
		assert.False(t, found)
	}
	for _, k := range unique[n/2:] {
		_, found, err := bt.GetValue(k)
		require.NoError(t, err)
		assert.True(t, found)
	}
}
