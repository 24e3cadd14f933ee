package tree

import (
	"github.com/lintang-b-s/bptreedb/lib/disk"
)

// header layout shared by leaf and internal pages.
const (
	offIsLeaf   = 0
	offSize     = 1
	offMaxSize  = 5
	offParent   = 9
	offNextPage = 17
	HeaderSize  = 25
)

// LeafNode holds size key/value pairs and a link to the next leaf for
// the forward iterator. keys[i] maps to values[i].
type LeafNode[K any, V any] struct {
	Size         int
	MaxSize      int
	ParentPageID disk.PageID
	NextPageID   disk.PageID

	Keys   []K
	Values []V
}

func NewLeafNode[K any, V any](maxSize int, parent disk.PageID) *LeafNode[K, V] {
	return &LeafNode[K, V]{
		MaxSize:      maxSize,
		ParentPageID: parent,
		NextPageID:   disk.InvalidPageID,
	}
}

func (n *LeafNode[K, V]) IsFull() bool { return n.Size >= n.MaxSize }

// Serialize writes the leaf node's header and key/value slots into
// page using keyCodec/valCodec for fixed-width encoding.
func (n *LeafNode[K, V]) Serialize(page *disk.Page, keyCodec Codec[K], valCodec Codec[V]) {
	page.PutBool(offIsLeaf, true)
	page.PutInt(offSize, int32(n.Size))
	page.PutInt(offMaxSize, int32(n.MaxSize))
	page.PutPageID(offParent, n.ParentPageID)
	page.PutPageID(offNextPage, n.NextPageID)

	slotSize := keyCodec.Size() + valCodec.Size()
	contents := page.Contents()
	for i := 0; i < n.Size; i++ {
		off := HeaderSize + i*slotSize
		keyCodec.Encode(n.Keys[i], contents[off:off+keyCodec.Size()])
		valCodec.Encode(n.Values[i], contents[off+keyCodec.Size():off+slotSize])
	}
}

func DeserializeLeafNode[K any, V any](page *disk.Page, keyCodec Codec[K], valCodec Codec[V]) *LeafNode[K, V] {
	n := &LeafNode[K, V]{
		Size:         int(page.GetInt(offSize)),
		MaxSize:      int(page.GetInt(offMaxSize)),
		ParentPageID: page.GetPageID(offParent),
		NextPageID:   page.GetPageID(offNextPage),
	}

	slotSize := keyCodec.Size() + valCodec.Size()
	contents := page.Contents()
	n.Keys = make([]K, n.Size)
	n.Values = make([]V, n.Size)
	for i := 0; i < n.Size; i++ {
		off := HeaderSize + i*slotSize
		n.Keys[i] = keyCodec.Decode(contents[off : off+keyCodec.Size()])
		n.Values[i] = valCodec.Decode(contents[off+keyCodec.Size() : off+slotSize])
	}
	return n
}

// InternalNode holds Size entries; index 0's key is a sentinel (never
// compared against), only Children[0] is meaningful there. For
// i in [1, Size), Keys[i] separates Children[i-1] and Children[i].
type InternalNode[K any] struct {
	Size         int
	MaxSize      int
	ParentPageID disk.PageID

	Keys     []K
	Children []disk.PageID
}

func NewInternalNode[K any](maxSize int, parent disk.PageID) *InternalNode[K] {
	return &InternalNode[K]{
		MaxSize:      maxSize,
		ParentPageID: parent,
	}
}

func (n *InternalNode[K]) IsFull() bool { return n.Size >= n.MaxSize }

func (n *InternalNode[K]) Serialize(page *disk.Page, keyCodec Codec[K]) {
	page.PutBool(offIsLeaf, false)
	page.PutInt(offSize, int32(n.Size))
	page.PutInt(offMaxSize, int32(n.MaxSize))
	page.PutPageID(offParent, n.ParentPageID)
	page.PutPageID(offNextPage, disk.InvalidPageID)

	slotSize := keyCodec.Size() + 8
	contents := page.Contents()
	for i := 0; i < n.Size; i++ {
		off := HeaderSize + i*slotSize
		if i > 0 {
			keyCodec.Encode(n.Keys[i], contents[off:off+keyCodec.Size()])
		}
		page.PutPageID(int32(off+keyCodec.Size()), n.Children[i])
	}
}

func DeserializeInternalNode[K any](page *disk.Page, keyCodec Codec[K]) *InternalNode[K] {
	n := &InternalNode[K]{
		Size:         int(page.GetInt(offSize)),
		MaxSize:      int(page.GetInt(offMaxSize)),
		ParentPageID: page.GetPageID(offParent),
	}

	slotSize := keyCodec.Size() + 8
	contents := page.Contents()
	n.Keys = make([]K, n.Size)
	n.Children = make([]disk.PageID, n.Size)
	for i := 0; i < n.Size; i++ {
		off := HeaderSize + i*slotSize
		if i > 0 {
			n.Keys[i] = keyCodec.Decode(contents[off : off+keyCodec.Size()])
		}
		n.Children[i] = page.GetPageID(int32(off + keyCodec.Size()))
	}
	return n
}

// IsLeafPage peeks at a page's header without fully deserializing it.
func IsLeafPage(page *disk.Page) bool {
	return page.GetBool(offIsLeaf)
}
