package buffer

import (
	"fmt"
	"log"
	"sync"

	"github.com/lintang-b-s/bptreedb/lib/disk"
	"github.com/lintang-b-s/bptreedb/lib/hash"
	"github.com/lintang-b-s/bptreedb/lib/replacer"
)

// https://15445.courses.cs.cmu.edu/spring2023/slides/06-bufferpool.pdf

// LogManager is carried as an opaque handle; the buffer pool manager
// stores it but never calls it, so evicting a dirty frame does not
// flush the log first, and nothing here replays it.
type LogManager interface {
	Flush(lsn int) error
}

// BufferPoolManager keeps a fixed number of frames in memory, backed
// by DiskManager, with an extendible-hash page table and an LRU-K
// replacer choosing eviction victims.
type BufferPoolManager struct {
	mu sync.Mutex

	frames     []*Frame
	freeList   []replacer.FrameID
	pageTable  *hash.HashTable[disk.PageID, replacer.FrameID]
	replacer   *replacer.LRUKReplacer
	diskMgr    *disk.DiskManager
	logMgr     LogManager
	poolSize   int
}

const pageTableBucketSize = 4

// NewBufferPoolManager. initialize buffer pool manager dengan poolSize
// frame & replacer LRU-K dengan history window k.
func NewBufferPoolManager(poolSize int, diskMgr *disk.DiskManager, logMgr LogManager, k uint64) *BufferPoolManager {
	frames := make([]*Frame, poolSize)
	freeList := make([]replacer.FrameID, poolSize)
	for i := 0; i < poolSize; i++ {
		frames[i] = NewFrame(diskMgr.PageSize())
		freeList[i] = replacer.FrameID(i)
	}

	return &BufferPoolManager{
		frames:   frames,
		freeList: freeList,
		pageTable: hash.NewHashTable[disk.PageID, replacer.FrameID](pageTableBucketSize, func(id disk.PageID) uint64 {
			return hash.HashInt64(int64(id))
		}),
		replacer: replacer.NewLRUKReplacer(poolSize, k),
		diskMgr:  diskMgr,
		logMgr:   logMgr,
		poolSize: poolSize,
	}
}

// findVictimFrame. ambil frameID dari freelist kalau ada, atau evict
// frame dari replacer. flush dulu kalau frame yang dievict dirty.
func (bpm *BufferPoolManager) findVictimFrame() (replacer.FrameID, bool) {
	if n := len(bpm.freeList); n > 0 {
		frameID := bpm.freeList[n-1]
		bpm.freeList = bpm.freeList[:n-1]
		return frameID, true
	}

	var frameID replacer.FrameID
	if !bpm.replacer.Evict(&frameID) {
		return 0, false
	}

	victim := bpm.frames[frameID]
	if victim.getIsDirty() {
		if err := bpm.diskMgr.WritePage(victim.getPageID(), victim.getContents()); err != nil {
			log.Printf("buffer pool: error flushing victim frame before reuse: %v", err)
		}
	}
	bpm.pageTable.Remove(victim.getPageID())
	victim.reset()
	return frameID, true
}

// NewPage. allocate page baru di disk & pin frame-nya di buffer pool.
func (bpm *BufferPoolManager) NewPage() (*disk.Page, disk.PageID, error) {
	bpm.mu.Lock()
	defer bpm.mu.Unlock()

	frameID, ok := bpm.findVictimFrame()
	if !ok {
		return nil, disk.InvalidPageID, fmt.Errorf("buffer pool: no free frame available")
	}

	pageID := bpm.diskMgr.AllocatePage()

	frame := bpm.frames[frameID]
	frame.pageID = pageID
	frame.incrementPin()

	// eagerly persist the zeroed page so a later FetchPage can read it
	// back even if it's evicted before ever being marked dirty.
	if err := bpm.diskMgr.WritePage(pageID, frame.getContents()); err != nil {
		bpm.freeList = append(bpm.freeList, frameID)
		frame.reset()
		return nil, disk.InvalidPageID, fmt.Errorf("buffer pool: initialize new page %d: %w", pageID, err)
	}

	bpm.pageTable.Insert(pageID, frameID)
	bpm.replacer.RecordAccess(frameID)
	bpm.replacer.SetEvictable(frameID, false)

	return frame.getContents(), pageID, nil
}

// FetchPage. ambil page dari buffer pool kalau sudah ada, atau read
// dari disk ke frame kosong/evicted.
func (bpm *BufferPoolManager) FetchPage(pageID disk.PageID) (*disk.Page, error) {
	bpm.mu.Lock()
	defer bpm.mu.Unlock()

	if frameID, ok := bpm.pageTable.Find(pageID); ok {
		frame := bpm.frames[frameID]
		frame.incrementPin()
		bpm.replacer.RecordAccess(frameID)
		bpm.replacer.SetEvictable(frameID, false)
		return frame.getContents(), nil
	}

	frameID, ok := bpm.findVictimFrame()
	if !ok {
		return nil, fmt.Errorf("buffer pool: no free frame available")
	}

	frame := bpm.frames[frameID]
	if err := bpm.diskMgr.ReadPage(pageID, frame.getContents()); err != nil {
		bpm.freeList = append(bpm.freeList, frameID)
		return nil, fmt.Errorf("buffer pool: fetch page %d: %w", pageID, err)
	}

	frame.pageID = pageID
	frame.incrementPin()

	bpm.pageTable.Insert(pageID, frameID)
	bpm.replacer.RecordAccess(frameID)
	bpm.replacer.SetEvictable(frameID, false)

	return frame.getContents(), nil
}

// UnpinPage. unpin page dengan pageID. kalau pinCount jatuh ke 0,
// frame-nya jadi evictable di replacer.
func (bpm *BufferPoolManager) UnpinPage(pageID disk.PageID, isDirty bool) bool {
	bpm.mu.Lock()
	defer bpm.mu.Unlock()

	frameID, ok := bpm.pageTable.Find(pageID)
	if !ok {
		return false
	}

	frame := bpm.frames[frameID]
	if frame.getPinCount() <= 0 {
		return false
	}

	if isDirty {
		frame.setDirty(true)
	}

	frame.decrementPin()
	if frame.getPinCount() == 0 {
		bpm.replacer.SetEvictable(frameID, true)
	}
	return true
}

// FlushPage. write page ke disk apapun status dirty-nya.
func (bpm *BufferPoolManager) FlushPage(pageID disk.PageID) error {
	bpm.mu.Lock()
	defer bpm.mu.Unlock()

	frameID, ok := bpm.pageTable.Find(pageID)
	if !ok {
		return fmt.Errorf("buffer pool: page %d not in buffer pool", pageID)
	}

	frame := bpm.frames[frameID]
	if err := bpm.diskMgr.WritePage(pageID, frame.getContents()); err != nil {
		return fmt.Errorf("buffer pool: flush page %d: %w", pageID, err)
	}
	frame.setDirty(false)
	return nil
}

// FlushAll. flush semua page dirty yang lagi ada di buffer pool ke disk;
// page yang tidak dirty dilewati.
func (bpm *BufferPoolManager) FlushAll() error {
	bpm.mu.Lock()
	defer bpm.mu.Unlock()

	for _, frame := range bpm.frames {
		if frame.getPageID() == disk.InvalidPageID {
			continue
		}
		if !frame.getIsDirty() {
			continue
		}
		if err := bpm.diskMgr.WritePage(frame.getPageID(), frame.getContents()); err != nil {
			return fmt.Errorf("buffer pool: flush page %d: %w", frame.getPageID(), err)
		}
		frame.setDirty(false)
	}
	return nil
}

// DeletePage. hapus page dari buffer pool & dealokasi di disk. gagal
// (return false) kalau page masih dipin oleh caller lain.
func (bpm *BufferPoolManager) DeletePage(pageID disk.PageID) bool {
	bpm.mu.Lock()
	defer bpm.mu.Unlock()

	frameID, ok := bpm.pageTable.Find(pageID)
	if !ok {
		bpm.diskMgr.DeallocatePage(pageID)
		return true
	}

	frame := bpm.frames[frameID]
	if frame.getPinCount() > 0 {
		return false
	}

	bpm.pageTable.Remove(pageID)
	bpm.replacer.Remove(frameID)
	frame.reset()
	bpm.freeList = append(bpm.freeList, frameID)

	bpm.diskMgr.DeallocatePage(pageID)
	return true
}

func (bpm *BufferPoolManager) PoolSize() int {
	return bpm.poolSize
}
