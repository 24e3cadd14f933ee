package disk

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadWritePage(t *testing.T) {
	dir := t.TempDir()
	dm, err := NewDiskManager(dir, PageSize)
	require.NoError(t, err)
	defer dm.Close()

	id := dm.AllocatePage()

	page := NewPage(PageSize)
	page.PutInt(0, 1)
	page.PutInt(4, 2)
	page.PutInt(8, 3)
	page.PutString(12, "lintang")

	require.NoError(t, dm.WritePage(id, page))

	pageReader := NewPage(PageSize)
	require.NoError(t, dm.ReadPage(id, pageReader))
	assert.EqualValues(t, 1, pageReader.GetInt(0))
	assert.EqualValues(t, 2, pageReader.GetInt(4))
	assert.EqualValues(t, 3, pageReader.GetInt(8))
	assert.Equal(t, "lintang", pageReader.GetString(12))
}

func TestAllocatePageReusesDeallocated(t *testing.T) {
	dir := t.TempDir()
	dm, err := NewDiskManager(dir, PageSize)
	require.NoError(t, err)
	defer dm.Close()

	a := dm.AllocatePage()
	b := dm.AllocatePage()
	assert.NotEqual(t, a, b)

	dm.DeallocatePage(b)
	c := dm.AllocatePage()
	assert.Equal(t, b, c, "reallocated page id should reuse the deallocated one")
}

func TestNewDiskManagerResumesNextPageID(t *testing.T) {
	dir := t.TempDir()
	dm, err := NewDiskManager(dir, PageSize)
	require.NoError(t, err)

	id := dm.AllocatePage()
	page := NewPage(PageSize)
	page.PutInt(0, 42)
	require.NoError(t, dm.WritePage(id, page))
	require.NoError(t, dm.Close())

	dm2, err := NewDiskManager(dir, PageSize)
	require.NoError(t, err)
	defer dm2.Close()

	next := dm2.AllocatePage()
	assert.Greater(t, next, id)

	_, statErr := os.Stat(dir + "/pages.db")
	require.NoError(t, statErr)
}
