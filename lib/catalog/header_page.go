// Package catalog owns the single header page every B+Tree index
// shares: a small persisted table mapping index name to its root
// page id, the same role BusTub's HeaderPage plays for
// UpdateRootPageId.
package catalog

import (
	"bytes"
	"fmt"

	"github.com/lintang-b-s/bptreedb/lib/buffer"
	"github.com/lintang-b-s/bptreedb/lib/disk"
)

// HeaderPageID is the fixed page id of the header page. it must be
// the very first page a fresh database allocates.
const HeaderPageID disk.PageID = 0

const (
	nameSlotSize = 64
	entrySize    = nameSlotSize + 8 // name + PageID
	countOffset  = 0
	entriesOff   = 4
)

// HeaderCatalog persists a map[string]PageID of index-name to
// root-page-id at HeaderPageID.
type HeaderCatalog struct {
	bpm *buffer.BufferPoolManager
}

// NewHeaderCatalog initializes the header page on a fresh database.
// it must be called before any other page is allocated.
func NewHeaderCatalog(bpm *buffer.BufferPoolManager) (*HeaderCatalog, error) {
	page, id, err := bpm.NewPage()
	if err != nil {
		return nil, fmt.Errorf("catalog: allocate header page: %w", err)
	}
	if id != HeaderPageID {
		return nil, fmt.Errorf("catalog: header page must be the first page allocated, got %d", id)
	}

	page.PutInt(countOffset, 0)
	bpm.UnpinPage(id, true)
	return &HeaderCatalog{bpm: bpm}, nil
}

// OpenHeaderCatalog attaches to an already-initialized header page on
// an existing database file.
func OpenHeaderCatalog(bpm *buffer.BufferPoolManager) *HeaderCatalog {
	return &HeaderCatalog{bpm: bpm}
}

func encodeName(name string) [nameSlotSize]byte {
	var buf [nameSlotSize]byte
	copy(buf[:], name)
	return buf
}

func decodeName(b []byte) string {
	i := bytes.IndexByte(b, 0)
	if i < 0 {
		i = len(b)
	}
	return string(b[:i])
}

// GetRootPageID looks up the root page id for an index name.
func (h *HeaderCatalog) GetRootPageID(name string) (disk.PageID, bool, error) {
	page, err := h.bpm.FetchPage(HeaderPageID)
	if err != nil {
		return disk.InvalidPageID, false, fmt.Errorf("catalog: fetch header page: %w", err)
	}
	defer h.bpm.UnpinPage(HeaderPageID, false)

	count := int(page.GetInt(countOffset))
	contents := page.Contents()
	for i := 0; i < count; i++ {
		off := entriesOff + i*entrySize
		if decodeName(contents[off:off+nameSlotSize]) == name {
			return page.GetPageID(int32(off + nameSlotSize)), true, nil
		}
	}
	return disk.InvalidPageID, false, nil
}

// SetRootPageID inserts or updates the root page id for an index name.
func (h *HeaderCatalog) SetRootPageID(name string, root disk.PageID) error {
	page, err := h.bpm.FetchPage(HeaderPageID)
	if err != nil {
		return fmt.Errorf("catalog: fetch header page: %w", err)
	}
	defer h.bpm.UnpinPage(HeaderPageID, true)

	count := int(page.GetInt(countOffset))
	contents := page.Contents()
	for i := 0; i < count; i++ {
		off := entriesOff + i*entrySize
		if decodeName(contents[off:off+nameSlotSize]) == name {
			page.PutPageID(int32(off+nameSlotSize), root)
			return nil
		}
	}

	off := entriesOff + count*entrySize
	if off+entrySize > disk.PageSize {
		return fmt.Errorf("catalog: header page full, cannot register index %q", name)
	}
	nameBuf := encodeName(name)
	copy(contents[off:off+nameSlotSize], nameBuf[:])
	page.PutPageID(int32(off+nameSlotSize), root)
	page.PutInt(countOffset, int32(count+1))
	return nil
}
