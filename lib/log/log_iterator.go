package log

import (
	"iter"

	"github.com/lintang-b-s/bptreedb/lib/disk"
)

// LogIterator. buat iterate log record yang udah ditulis di log
// pages. iteratenya dari yang terakhir ditulis ke yang terdahulu,
// mengikuti link prevPage yang disimpan di header tiap page.
type LogIterator struct {
	diskManager DiskManager
	page        disk.PageID
	contents    *disk.Page
	currentPos  int32
	err         error
}

func NewLogIterator(diskManager DiskManager, page disk.PageID) (*LogIterator, error) {
	contents := disk.NewPageFromByteSlice(make([]byte, diskManager.PageSize()))
	lit := &LogIterator{
		diskManager: diskManager,
		page:        page,
		contents:    contents,
	}
	if err := lit.moveToPage(page); err != nil {
		return &LogIterator{}, err
	}
	return lit, nil
}

// moveToPage. move iterator ke page.
func (lit *LogIterator) moveToPage(page disk.PageID) error {
	if err := lit.diskManager.ReadPage(page, lit.contents); err != nil {
		return err
	}
	lit.page = page
	lit.currentPos = lit.contents.GetInt(0)
	return nil
}

func (lit *LogIterator) prevPage() disk.PageID {
	return lit.contents.GetPageID(4)
}

/*
IterateLog. iterate next log record di dalam page dari yang terkini ke
yang terdahulu. jika sudah habis, maka pindah ke prevPage.
*/
func (lit *LogIterator) IterateLog() iter.Seq[[]byte] {
	return func(yield func([]byte) bool) {
		for lit.page != disk.InvalidPageID {

			if int(lit.currentPos) >= lit.diskManager.PageSize() {
				prev := lit.prevPage()
				if prev == disk.InvalidPageID {
					break
				}
				if err := lit.moveToPage(prev); err != nil {
					lit.err = err
					break
				}
			}

			record := lit.contents.GetBytes(lit.currentPos)
			lit.currentPos += 4 + int32(len(record))

			if !yield(record) {
				return
			}
		}
	}
}

func (lit *LogIterator) GetError() error {
	return lit.err
}
