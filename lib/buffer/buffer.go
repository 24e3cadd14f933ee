package buffer

import (
	"github.com/lintang-b-s/bptreedb/lib/disk"
)

// Frame . menyimpan satu page yang diambil dari disk ke memori selama
// status nya masih pinned (pinCount > 0). kalau di unpin sampai
// pinCount = 0, frame jadi calon victim buat LRU-K replacer.
type Frame struct {
	contents *disk.Page
	pageID   disk.PageID
	pinCount int
	isDirty  bool
}

func NewFrame(pageSize int) *Frame {
	return &Frame{
		contents: disk.NewPage(pageSize),
		pageID:   disk.InvalidPageID,
	}
}

func (f *Frame) getContents() *disk.Page {
	return f.contents
}

func (f *Frame) getPageID() disk.PageID {
	return f.pageID
}

func (f *Frame) isPinned() bool {
	return f.pinCount > 0
}

func (f *Frame) incrementPin() {
	f.pinCount++
}

func (f *Frame) decrementPin() {
	if f.pinCount > 0 {
		f.pinCount--
	}
}

func (f *Frame) getPinCount() int {
	return f.pinCount
}

func (f *Frame) setDirty(dirty bool) {
	f.isDirty = dirty
}

func (f *Frame) getIsDirty() bool {
	return f.isDirty
}

// reset. kosongkan frame, siap dipakai oleh page lain.
func (f *Frame) reset() {
	f.contents.Reset()
	f.pageID = disk.InvalidPageID
	f.pinCount = 0
	f.isDirty = false
}
