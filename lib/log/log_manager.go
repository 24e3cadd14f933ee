// Package log is an opaque write-ahead-log handle carried for texture
// and constructor-compatibility with the buffer pool manager. it is
// not wired into crash recovery; nothing outside this package reads
// its records back for replay.
package log

import "github.com/lintang-b-s/bptreedb/lib/disk"

type DiskManager interface {
	ReadPage(id disk.PageID, page *disk.Page) error
	WritePage(id disk.PageID, page *disk.Page) error
	AllocatePage() disk.PageID
	PageSize() int
}

// logHeaderSize. 4 bytes buat free-space boundary + 8 bytes buat
// prevPage, ditulis di awal tiap log page.
const logHeaderSize = 12

// LogManager buat write & read log records ke log page-page di disk,
// lewat DiskManager yang sama dengan buffer pool manager. page-page
// log dihubungkan sebagai linked list mundur (prevPage), karena
// PageID tidak lagi dijamin berurutan seperti blockNum dulu.
type LogManager struct {
	diskManager  DiskManager
	logPage      *disk.Page
	currentPage  disk.PageID
	latestLSN    int
	lastSavedLSN int
}

func NewLogManager(diskManager DiskManager) (*LogManager, error) {
	lm := &LogManager{diskManager: diskManager}

	pageID, err := lm.appendNewPage(disk.InvalidPageID)
	if err != nil {
		return nil, err
	}
	lm.currentPage = pageID

	return lm, nil
}

// Flush. flush logPage ke disk kalau lsn belum pernah di save.
func (lm *LogManager) Flush(lsn int) error {
	if lsn > lm.lastSavedLSN {
		return lm.Flush2()
	}
	return nil
}

// Flush2. flush logPage ke disk di page currentPage.
func (lm *LogManager) Flush2() error {
	if err := lm.diskManager.WritePage(lm.currentPage, lm.logPage); err != nil {
		return err
	}
	lm.lastSavedLSN = lm.latestLSN
	return nil
}

// appendNewPage. allocate page baru kosong buat log, link ke prevPage,
// & write logPage ke disk di page itu.
func (lm *LogManager) appendNewPage(prevPage disk.PageID) (disk.PageID, error) {
	pageID := lm.diskManager.AllocatePage()

	lm.logPage = disk.NewPage(lm.diskManager.PageSize())
	lm.logPage.PutInt(0, int32(lm.diskManager.PageSize()))
	lm.logPage.PutPageID(4, prevPage)

	if err := lm.diskManager.WritePage(pageID, lm.logPage); err != nil {
		return disk.InvalidPageID, err
	}
	return pageID, nil
}

func (lm *LogManager) GetIterator() (*LogIterator, error) {
	lm.Flush2()
	return NewLogIterator(lm.diskManager, lm.currentPage)
}

func (lm *LogManager) GetLatestLSN() int {
	return lm.latestLSN
}

/*
append. append log record ke log buffer. log record ditulis dari kanan ke kiri pada log buffer per page.
pada awal buffer terdapat lokasi record yang ditulis paling terakhir.
*/
func (lm *LogManager) append(logRecord []byte) (int, error) {
	boundary := lm.logPage.GetInt(0)
	recordSize := len(logRecord)
	bytesNeeded := int32(recordSize + 4)

	if boundary-bytesNeeded < logHeaderSize {
		prevPage := lm.currentPage
		if err := lm.Flush2(); err != nil {
			return 0, err
		}
		pageID, err := lm.appendNewPage(prevPage)
		if err != nil {
			return 0, err
		}
		lm.currentPage = pageID
		boundary = lm.logPage.GetInt(0)
	}

	recordPosition := boundary - bytesNeeded

	lm.logPage.PutBytes(recordPosition, logRecord)
	lm.logPage.PutInt(0, recordPosition)
	lm.latestLSN++
	return lm.latestLSN, nil
}
