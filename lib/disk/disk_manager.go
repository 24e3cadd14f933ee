package disk

import (
	"fmt"
	"os"
	"sync"
)

// DiskManager. synchronous page I/O terhadap satu file database per
// instance. page diakses lewat offset = PageID * PageSize, bukan lewat
// banyak file per blockID seperti versi lama.
type DiskManager struct {
	dbDir    string
	pageSize int
	file     *os.File

	latch      sync.Mutex
	nextPageID PageID
	freeList   []PageID
}

func NewDiskManager(dbDir string, pageSize int) (*DiskManager, error) {
	if _, err := os.Stat(dbDir); os.IsNotExist(err) {
		if err := os.Mkdir(dbDir, 0755); err != nil {
			return nil, fmt.Errorf("disk manager: create db dir: %w", err)
		}
	}

	path := dbDir + "/pages.db"
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, fmt.Errorf("disk manager: open db file: %w", err)
	}

	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("disk manager: stat db file: %w", err)
	}

	return &DiskManager{
		dbDir:      dbDir,
		pageSize:   pageSize,
		file:       f,
		nextPageID: PageID(fi.Size() / int64(pageSize)),
	}, nil
}

// ReadPage. membaca satu page dari disk ke dalam page, disk I/O
// langsung ke offset id*PageSize.
func (dm *DiskManager) ReadPage(id PageID, page *Page) error {
	offset := int64(id) * int64(dm.pageSize)
	_, err := dm.file.ReadAt(page.Contents(), offset)
	if err != nil {
		return fmt.Errorf("disk manager: read page %d: %w", id, err)
	}
	return nil
}

// WritePage. menulis satu page ke disk secara synchronous.
func (dm *DiskManager) WritePage(id PageID, page *Page) error {
	offset := int64(id) * int64(dm.pageSize)
	_, err := dm.file.WriteAt(page.Contents(), offset)
	if err != nil {
		return fmt.Errorf("disk manager: write page %d: %w", id, err)
	}
	return nil
}

// AllocatePage. reserve satu PageID baru, reuse dari page yang pernah
// dideallocate dulu (LIFO) sebelum mengambil page id baru dari counter.
func (dm *DiskManager) AllocatePage() PageID {
	dm.latch.Lock()
	defer dm.latch.Unlock()

	if n := len(dm.freeList); n > 0 {
		id := dm.freeList[n-1]
		dm.freeList = dm.freeList[:n-1]
		return id
	}

	id := dm.nextPageID
	dm.nextPageID++
	return id
}

// DeallocatePage. tandai page sebagai free, boleh dipakai ulang oleh
// AllocatePage berikutnya. isi page di disk tidak langsung dihapus.
func (dm *DiskManager) DeallocatePage(id PageID) {
	dm.latch.Lock()
	defer dm.latch.Unlock()
	dm.freeList = append(dm.freeList, id)
}

func (dm *DiskManager) PageSize() int {
	return dm.pageSize
}

func (dm *DiskManager) GetDBDir() string {
	return dm.dbDir
}

func (dm *DiskManager) Close() error {
	if dm.file == nil {
		return nil
	}
	if err := dm.file.Sync(); err != nil {
		return fmt.Errorf("disk manager: sync db file: %w", err)
	}
	err := dm.file.Close()
	dm.file = nil
	if err != nil {
		return fmt.Errorf("disk manager: close db file: %w", err)
	}
	return nil
}
