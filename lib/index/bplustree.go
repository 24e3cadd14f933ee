// Package index implements a disk-backed B+Tree keyed through the
// buffer pool manager: every node lives on a page, fetched/deserialized
// on each visit and re-serialized/unpinned on the way out. Single
// writer at a time; readers never crab-latch, which is safe because
// every public method holds the tree's mutex for its whole duration.
package index

import (
	"fmt"
	"sync"

	"github.com/lintang-b-s/bptreedb/lib/buffer"
	"github.com/lintang-b-s/bptreedb/lib/catalog"
	"github.com/lintang-b-s/bptreedb/lib/disk"
	"github.com/lintang-b-s/bptreedb/lib/tree"
)

// BPlusTree is a generic disk-backed B+Tree index. K must be
// comparable (used as a Go map/slice element) and is ordered entirely
// through cmp; V is the value type stored in leaves, typically a
// tree.RID.
type BPlusTree[K comparable, V any] struct {
	mu sync.Mutex

	name   string
	bpm    *buffer.BufferPoolManager
	header *catalog.HeaderCatalog

	cmp      Comparator[K]
	keyCodec tree.Codec[K]
	valCodec tree.Codec[V]

	leafMaxSize     int
	internalMaxSize int

	rootPageID disk.PageID
}

// NewBPlusTree opens (or creates, if absent) the named index backed
// by bpm/header. leafMaxSize/internalMaxSize bound node fan-out the
// same way BusTub's constructor parameters do.
func NewBPlusTree[K comparable, V any](
	name string,
	bpm *buffer.BufferPoolManager,
	header *catalog.HeaderCatalog,
	cmp Comparator[K],
	keyCodec tree.Codec[K],
	valCodec tree.Codec[V],
	leafMaxSize, internalMaxSize int,
) (*BPlusTree[K, V], error) {
	if internalMaxSize < 3 {
		panic("index: internalMaxSize must be >= 3 so a node always has room for a separator and two children")
	}
	if leafMaxSize < 2 {
		panic("index: leafMaxSize must be >= 2")
	}

	root, found, err := header.GetRootPageID(name)
	if err != nil {
		return nil, fmt.Errorf("index: load root page for %q: %w", name, err)
	}
	if !found {
		root = disk.InvalidPageID
	}

	return &BPlusTree[K, V]{
		name:            name,
		bpm:             bpm,
		header:          header,
		cmp:             cmp,
		keyCodec:        keyCodec,
		valCodec:        valCodec,
		leafMaxSize:     leafMaxSize,
		internalMaxSize: internalMaxSize,
		rootPageID:      root,
	}, nil
}

// min_size = ceil(max_size/2), per spec.
func (t *BPlusTree[K, V]) leafMinSize() int     { return (t.leafMaxSize + 1) / 2 }
func (t *BPlusTree[K, V]) internalMinSize() int { return (t.internalMaxSize + 1) / 2 }

func (t *BPlusTree[K, V]) IsEmpty() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.rootPageID == disk.InvalidPageID
}

// GetRootPageID returns the page holding the tree's current root, or
// disk.InvalidPageID if the tree is empty.
func (t *BPlusTree[K, V]) GetRootPageID() disk.PageID {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.rootPageID
}

func indexOfKey[K comparable](keys []K, key K, cmp Comparator[K]) (int, bool) {
	for i, k := range keys {
		if cmp(k, key) == 0 {
			return i, true
		}
	}
	return -1, false
}

// childIndexOf returns which child pointer to follow for key, per the
// sentinel-at-index-0 convention: keys[1:size] separate children.
func childIndexOf[K comparable](node *tree.InternalNode[K], key K, cmp Comparator[K]) disk.PageID {
	for i := 1; i < node.Size; i++ {
		if cmp(key, node.Keys[i]) < 0 {
			return node.Children[i-1]
		}
	}
	return node.Children[node.Size-1]
}

func (t *BPlusTree[K, V]) fetchLeaf(id disk.PageID) (*disk.Page, *tree.LeafNode[K, V], error) {
	page, err := t.bpm.FetchPage(id)
	if err != nil {
		return nil, nil, err
	}
	return page, tree.DeserializeLeafNode[K, V](page, t.keyCodec, t.valCodec), nil
}

func (t *BPlusTree[K, V]) fetchInternal(id disk.PageID) (*disk.Page, *tree.InternalNode[K], error) {
	page, err := t.bpm.FetchPage(id)
	if err != nil {
		return nil, nil, err
	}
	return page, tree.DeserializeInternalNode[K](page, t.keyCodec), nil
}

// findLeaf descends from root to the leaf that would hold key,
// unpinning every internal page along the way and returning the leaf
// page still pinned (caller must unpin it).
func (t *BPlusTree[K, V]) findLeaf(key K) (disk.PageID, *disk.Page, *tree.LeafNode[K, V], error) {
	id := t.rootPageID
	for {
		page, err := t.bpm.FetchPage(id)
		if err != nil {
			return disk.InvalidPageID, nil, nil, err
		}
		if tree.IsLeafPage(page) {
			return id, page, tree.DeserializeLeafNode[K, V](page, t.keyCodec, t.valCodec), nil
		}
		node := tree.DeserializeInternalNode[K](page, t.keyCodec)
		childID := childIndexOf(node, key, t.cmp)
		t.bpm.UnpinPage(id, false)
		id = childID
	}
}

// findLeftmostLeaf descends always via Children[0], used by Begin().
func (t *BPlusTree[K, V]) findLeftmostLeaf() (disk.PageID, *disk.Page, *tree.LeafNode[K, V], error) {
	id := t.rootPageID
	for {
		page, err := t.bpm.FetchPage(id)
		if err != nil {
			return disk.InvalidPageID, nil, nil, err
		}
		if tree.IsLeafPage(page) {
			return id, page, tree.DeserializeLeafNode[K, V](page, t.keyCodec, t.valCodec), nil
		}
		node := tree.DeserializeInternalNode[K](page, t.keyCodec)
		childID := node.Children[0]
		t.bpm.UnpinPage(id, false)
		id = childID
	}
}

// GetValue looks up key, returning its value if present.
func (t *BPlusTree[K, V]) GetValue(key K) (V, bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var zero V
	if t.rootPageID == disk.InvalidPageID {
		return zero, false, nil
	}

	leafID, _, leaf, err := t.findLeaf(key)
	if err != nil {
		return zero, false, err
	}
	defer t.bpm.UnpinPage(leafID, false)

	idx, found := indexOfKey(leaf.Keys, key, t.cmp)
	if !found {
		return zero, false, nil
	}
	return leaf.Values[idx], true, nil
}

func (t *BPlusTree[K, V]) updateChildParent(childID, parentID disk.PageID) error {
	page, err := t.bpm.FetchPage(childID)
	if err != nil {
		return err
	}
	if tree.IsLeafPage(page) {
		leaf := tree.DeserializeLeafNode[K, V](page, t.keyCodec, t.valCodec)
		leaf.ParentPageID = parentID
		leaf.Serialize(page, t.keyCodec, t.valCodec)
	} else {
		node := tree.DeserializeInternalNode[K](page, t.keyCodec)
		node.ParentPageID = parentID
		node.Serialize(page, t.keyCodec)
	}
	t.bpm.UnpinPage(childID, true)
	return nil
}

// Insert adds key -> value, returning false without error if key is
// already present.
func (t *BPlusTree[K, V]) Insert(key K, value V) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.rootPageID == disk.InvalidPageID {
		return true, t.startNewTree(key, value)
	}

	leafID, leafPage, leaf, err := t.findLeaf(key)
	if err != nil {
		return false, err
	}

	if _, found := indexOfKey(leaf.Keys, key, t.cmp); found {
		t.bpm.UnpinPage(leafID, false)
		return false, nil
	}

	insertIntoLeafSorted(leaf, key, value, t.cmp)

	if leaf.Size >= leaf.MaxSize {
		newID, newLeaf, promotedKey, err := t.splitLeaf(leaf)
		if err != nil {
			t.bpm.UnpinPage(leafID, false)
			return false, err
		}

		leaf.Serialize(leafPage, t.keyCodec, t.valCodec)
		t.bpm.UnpinPage(leafID, true)

		newPage, err := t.bpm.FetchPage(newID)
		if err != nil {
			return false, err
		}
		newLeaf.Serialize(newPage, t.keyCodec, t.valCodec)
		t.bpm.UnpinPage(newID, true)

		if err := t.insertIntoParent(leafID, promotedKey, newID, leaf.ParentPageID); err != nil {
			return false, err
		}
		return true, nil
	}

	leaf.Serialize(leafPage, t.keyCodec, t.valCodec)
	t.bpm.UnpinPage(leafID, true)
	return true, nil
}

func insertIntoLeafSorted[K comparable, V any](leaf *tree.LeafNode[K, V], key K, value V, cmp Comparator[K]) {
	idx := 0
	for idx < leaf.Size && cmp(leaf.Keys[idx], key) < 0 {
		idx++
	}
	leaf.Keys = append(leaf.Keys, key)
	copy(leaf.Keys[idx+1:], leaf.Keys[idx:len(leaf.Keys)-1])
	leaf.Keys[idx] = key

	leaf.Values = append(leaf.Values, value)
	copy(leaf.Values[idx+1:], leaf.Values[idx:len(leaf.Values)-1])
	leaf.Values[idx] = value

	leaf.Size++
}

func insertIntoInternalSorted[K comparable](node *tree.InternalNode[K], key K, childID disk.PageID, cmp Comparator[K]) {
	idx := 1
	for idx < node.Size && cmp(node.Keys[idx], key) < 0 {
		idx++
	}
	node.Keys = append(node.Keys, key)
	copy(node.Keys[idx+1:], node.Keys[idx:len(node.Keys)-1])
	node.Keys[idx] = key

	node.Children = append(node.Children, childID)
	copy(node.Children[idx+1:], node.Children[idx:len(node.Children)-1])
	node.Children[idx] = childID

	node.Size++
}

// splitLeaf moves entries from index size/2 onward into a freshly
// allocated leaf (original_source's MoveHalfTo split point); the
// promoted separator is the new leaf's first key.
func (t *BPlusTree[K, V]) splitLeaf(leaf *tree.LeafNode[K, V]) (disk.PageID, *tree.LeafNode[K, V], K, error) {
	var zero K
	splitAt := leaf.Size / 2

	newLeaf := tree.NewLeafNode[K, V](t.leafMaxSize, leaf.ParentPageID)
	newLeaf.Keys = append([]K{}, leaf.Keys[splitAt:]...)
	newLeaf.Values = append([]V{}, leaf.Values[splitAt:]...)
	newLeaf.Size = leaf.Size - splitAt
	newLeaf.NextPageID = leaf.NextPageID

	leaf.Keys = leaf.Keys[:splitAt]
	leaf.Values = leaf.Values[:splitAt]
	leaf.Size = splitAt

	newPage, newID, err := t.bpm.NewPage()
	if err != nil {
		return disk.InvalidPageID, nil, zero, err
	}
	leaf.NextPageID = newID
	newLeaf.Serialize(newPage, t.keyCodec, t.valCodec)
	t.bpm.UnpinPage(newID, true)

	return newID, newLeaf, newLeaf.Keys[0], nil
}

// splitInternal moves children from index max(1, size/2) onward into a
// new internal node; the key at the split point is pulled up (not
// duplicated), the same structural move as BusTub's internal Split.
func (t *BPlusTree[K, V]) splitInternal(node *tree.InternalNode[K]) (disk.PageID, *tree.InternalNode[K], K, error) {
	var zero K
	splitAt := node.Size / 2
	if splitAt < 1 {
		splitAt = 1
	}

	newNode := tree.NewInternalNode[K](t.internalMaxSize, node.ParentPageID)
	newSize := node.Size - splitAt
	newNode.Children = append([]disk.PageID{}, node.Children[splitAt:]...)
	newNode.Keys = make([]K, newSize)
	for i := 1; i < newSize; i++ {
		newNode.Keys[i] = node.Keys[splitAt+i]
	}
	newNode.Size = newSize

	promotedKey := node.Keys[splitAt]

	node.Children = node.Children[:splitAt]
	node.Keys = node.Keys[:splitAt]
	node.Size = splitAt

	newPage, newID, err := t.bpm.NewPage()
	if err != nil {
		return disk.InvalidPageID, nil, zero, err
	}
	newNode.Serialize(newPage, t.keyCodec)
	t.bpm.UnpinPage(newID, true)

	for _, childID := range newNode.Children {
		if err := t.updateChildParent(childID, newID); err != nil {
			return disk.InvalidPageID, nil, zero, err
		}
	}

	return newID, newNode, promotedKey, nil
}

func (t *BPlusTree[K, V]) startNewTree(key K, value V) error {
	leaf := tree.NewLeafNode[K, V](t.leafMaxSize, disk.InvalidPageID)
	leaf.Keys = []K{key}
	leaf.Values = []V{value}
	leaf.Size = 1

	page, id, err := t.bpm.NewPage()
	if err != nil {
		return err
	}
	leaf.Serialize(page, t.keyCodec, t.valCodec)
	t.bpm.UnpinPage(id, true)

	t.rootPageID = id
	return t.header.SetRootPageID(t.name, id)
}

// insertIntoParent links (leftID, key, rightID) into leftID's parent,
// splitting the parent (and recursing) or creating a new root as
// needed. parentID is the parent leftID had before this split.
func (t *BPlusTree[K, V]) insertIntoParent(leftID disk.PageID, key K, rightID disk.PageID, parentID disk.PageID) error {
	if parentID == disk.InvalidPageID {
		newRoot := tree.NewInternalNode[K](t.internalMaxSize, disk.InvalidPageID)
		newRoot.Keys = make([]K, 2)
		newRoot.Keys[1] = key
		newRoot.Children = []disk.PageID{leftID, rightID}
		newRoot.Size = 2

		page, newRootID, err := t.bpm.NewPage()
		if err != nil {
			return err
		}
		newRoot.Serialize(page, t.keyCodec)
		t.bpm.UnpinPage(newRootID, true)

		if err := t.updateChildParent(leftID, newRootID); err != nil {
			return err
		}
		if err := t.updateChildParent(rightID, newRootID); err != nil {
			return err
		}

		t.rootPageID = newRootID
		return t.header.SetRootPageID(t.name, newRootID)
	}

	parentPage, parent, err := t.fetchInternal(parentID)
	if err != nil {
		return err
	}

	insertIntoInternalSorted(parent, key, rightID, t.cmp)
	if err := t.updateChildParent(rightID, parentID); err != nil {
		return err
	}

	if parent.Size >= parent.MaxSize {
		newParentID, newParent, promotedKey, err := t.splitInternal(parent)
		if err != nil {
			t.bpm.UnpinPage(parentID, false)
			return err
		}

		parent.Serialize(parentPage, t.keyCodec)
		t.bpm.UnpinPage(parentID, true)

		newParentPage, err := t.bpm.FetchPage(newParentID)
		if err != nil {
			return err
		}
		newParent.Serialize(newParentPage, t.keyCodec)
		t.bpm.UnpinPage(newParentID, true)

		return t.insertIntoParent(parentID, promotedKey, newParentID, parent.ParentPageID)
	}

	parent.Serialize(parentPage, t.keyCodec)
	t.bpm.UnpinPage(parentID, true)
	return nil
}

// Remove deletes key if present; removing an absent key is a silent
// no-op, matching the idempotent-remove law.
func (t *BPlusTree[K, V]) Remove(key K) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.rootPageID == disk.InvalidPageID {
		return nil
	}

	leafID, leafPage, leaf, err := t.findLeaf(key)
	if err != nil {
		return err
	}

	idx, found := indexOfKey(leaf.Keys, key, t.cmp)
	if !found {
		t.bpm.UnpinPage(leafID, false)
		return nil
	}

	leaf.Keys = append(leaf.Keys[:idx], leaf.Keys[idx+1:]...)
	leaf.Values = append(leaf.Values[:idx], leaf.Values[idx+1:]...)
	leaf.Size--

	if leafID == t.rootPageID {
		if leaf.Size == 0 {
			t.bpm.UnpinPage(leafID, false)
			t.bpm.DeletePage(leafID)
			t.rootPageID = disk.InvalidPageID
			return t.header.SetRootPageID(t.name, disk.InvalidPageID)
		}
		leaf.Serialize(leafPage, t.keyCodec, t.valCodec)
		t.bpm.UnpinPage(leafID, true)
		return nil
	}

	if leaf.Size < t.leafMinSize() {
		return t.coalesceOrRedistributeLeaf(leafID, leafPage, leaf)
	}

	leaf.Serialize(leafPage, t.keyCodec, t.valCodec)
	t.bpm.UnpinPage(leafID, true)
	return nil
}

// findSiblingIdx returns the index in parent.Children of id, plus its
// preferred sibling (left/predecessor when possible) and whether that
// sibling is the predecessor.
func findSiblingIdx(children []disk.PageID, id disk.PageID) (myIdx, siblingIdx int, siblingIsLeft bool) {
	for i, c := range children {
		if c == id {
			if i == 0 {
				return i, i + 1, false
			}
			return i, i - 1, true
		}
	}
	return -1, -1, false
}

func (t *BPlusTree[K, V]) coalesceOrRedistributeLeaf(id disk.PageID, page *disk.Page, node *tree.LeafNode[K, V]) error {
	parentPage, parent, err := t.fetchInternal(node.ParentPageID)
	if err != nil {
		return err
	}

	myIdx, sibIdx, siblingIsLeft := findSiblingIdx(parent.Children, id)
	siblingID := parent.Children[sibIdx]
	siblingPage, sibling, err := t.fetchLeaf(siblingID)
	if err != nil {
		return err
	}

	if sibling.Size+node.Size <= t.leafMaxSize {
		// coalesce: merge right into left, drop right's page, pull
		// the separator key out of parent.
		var leftID, rightID disk.PageID
		var left, right *tree.LeafNode[K, V]
		var sepParentIdx int
		if siblingIsLeft {
			leftID, left = siblingID, sibling
			rightID, right = id, node
			sepParentIdx = myIdx
		} else {
			leftID, left = id, node
			rightID, right = siblingID, sibling
			sepParentIdx = sibIdx
		}

		left.Keys = append(left.Keys, right.Keys...)
		left.Values = append(left.Values, right.Values...)
		left.Size += right.Size
		left.NextPageID = right.NextPageID

		var leftPage *disk.Page
		if leftID == id {
			leftPage = page
		} else {
			leftPage = siblingPage
		}
		left.Serialize(leftPage, t.keyCodec, t.valCodec)
		t.bpm.UnpinPage(leftID, true)

		t.bpm.UnpinPage(rightID, false)
		t.bpm.DeletePage(rightID)

		parent.Keys = append(parent.Keys[:sepParentIdx], parent.Keys[sepParentIdx+1:]...)
		parent.Children = append(parent.Children[:sepParentIdx], parent.Children[sepParentIdx+1:]...)
		parent.Size--

		return t.shrinkInternalAfterRemoval(node.ParentPageID, parentPage, parent)
	}

	// redistribute: borrow one entry across, update the separator.
	if siblingIsLeft {
		lastIdx := sibling.Size - 1
		borrowedKey := sibling.Keys[lastIdx]
		borrowedVal := sibling.Values[lastIdx]
		sibling.Keys = sibling.Keys[:lastIdx]
		sibling.Values = sibling.Values[:lastIdx]
		sibling.Size--

		node.Keys = append([]K{borrowedKey}, node.Keys...)
		node.Values = append([]V{borrowedVal}, node.Values...)
		node.Size++

		parent.Keys[myIdx] = node.Keys[0]
	} else {
		borrowedKey := sibling.Keys[0]
		borrowedVal := sibling.Values[0]
		sibling.Keys = sibling.Keys[1:]
		sibling.Values = sibling.Values[1:]
		sibling.Size--

		node.Keys = append(node.Keys, borrowedKey)
		node.Values = append(node.Values, borrowedVal)
		node.Size++

		parent.Keys[sibIdx] = sibling.Keys[0]
	}

	node.Serialize(page, t.keyCodec, t.valCodec)
	t.bpm.UnpinPage(id, true)
	sibling.Serialize(siblingPage, t.keyCodec, t.valCodec)
	t.bpm.UnpinPage(siblingID, true)
	parent.Serialize(parentPage, t.keyCodec)
	t.bpm.UnpinPage(node.ParentPageID, true)
	return nil
}

// shrinkInternalAfterRemoval persists parent after it lost a child,
// recursing into coalesce/adjust-root if it now underflows.
func (t *BPlusTree[K, V]) shrinkInternalAfterRemoval(id disk.PageID, page *disk.Page, node *tree.InternalNode[K]) error {
	if id == t.rootPageID {
		return t.adjustRootInternal(id, page, node)
	}
	if node.Size < t.internalMinSize() {
		return t.coalesceOrRedistributeInternal(id, page, node)
	}
	node.Serialize(page, t.keyCodec)
	t.bpm.UnpinPage(id, true)
	return nil
}

// coalesceOrRedistributeInternal merges node into its sibling when the
// result still fits within internalMaxSize, otherwise borrows a single
// child across the parent separator (see redistributeInternal).
func (t *BPlusTree[K, V]) coalesceOrRedistributeInternal(id disk.PageID, page *disk.Page, node *tree.InternalNode[K]) error {
	parentPage, parent, err := t.fetchInternal(node.ParentPageID)
	if err != nil {
		return err
	}

	myIdx, sibIdx, siblingIsLeft := findSiblingIdx(parent.Children, id)
	siblingID := parent.Children[sibIdx]
	siblingPage, sibling, err := t.fetchInternal(siblingID)
	if err != nil {
		return err
	}

	if sibling.Size+node.Size > t.internalMaxSize {
		return t.redistributeInternal(id, page, node, siblingID, siblingPage, sibling, parentPage, parent, myIdx, sibIdx, siblingIsLeft)
	}

	var leftID, rightID disk.PageID
	var left, right *tree.InternalNode[K]
	var leftPage *disk.Page
	var sepParentIdx int
	if siblingIsLeft {
		leftID, left, leftPage = siblingID, sibling, siblingPage
		rightID, right = id, node
		sepParentIdx = myIdx
	} else {
		leftID, left, leftPage = id, node, page
		rightID, right = siblingID, sibling
		sepParentIdx = sibIdx
	}

	separatorKey := parent.Keys[sepParentIdx]
	right.Keys[0] = separatorKey

	left.Keys = append(left.Keys, right.Keys...)
	left.Children = append(left.Children, right.Children...)
	left.Size += right.Size

	for _, childID := range right.Children {
		if err := t.updateChildParent(childID, leftID); err != nil {
			return err
		}
	}

	left.Serialize(leftPage, t.keyCodec)
	t.bpm.UnpinPage(leftID, true)

	t.bpm.UnpinPage(rightID, false)
	t.bpm.DeletePage(rightID)

	parent.Keys = append(parent.Keys[:sepParentIdx], parent.Keys[sepParentIdx+1:]...)
	parent.Children = append(parent.Children[:sepParentIdx], parent.Children[sepParentIdx+1:]...)
	parent.Size--

	return t.shrinkInternalAfterRemoval(node.ParentPageID, parentPage, parent)
}

// redistributeInternal borrows exactly one child across the parent
// separator, the internal-node counterpart of the leaf redistribute
// path: a merge would overflow internalMaxSize, so instead the
// separator is pulled down into node and the key it displaces in
// sibling is pushed back up into parent.
func (t *BPlusTree[K, V]) redistributeInternal(
	id disk.PageID, page *disk.Page, node *tree.InternalNode[K],
	siblingID disk.PageID, siblingPage *disk.Page, sibling *tree.InternalNode[K],
	parentPage *disk.Page, parent *tree.InternalNode[K],
	myIdx, sibIdx int, siblingIsLeft bool,
) error {
	if siblingIsLeft {
		lastIdx := sibling.Size - 1
		borrowedChild := sibling.Children[lastIdx]
		borrowedKey := sibling.Keys[lastIdx]
		sibling.Children = sibling.Children[:lastIdx]
		sibling.Keys = sibling.Keys[:lastIdx]
		sibling.Size--

		oldNodeSize := node.Size
		node.Children = append([]disk.PageID{borrowedChild}, node.Children...)
		newKeys := make([]K, oldNodeSize+1)
		newKeys[1] = parent.Keys[myIdx]
		copy(newKeys[2:], node.Keys[1:])
		node.Keys = newKeys
		node.Size = oldNodeSize + 1

		parent.Keys[myIdx] = borrowedKey

		if err := t.updateChildParent(borrowedChild, id); err != nil {
			return err
		}
	} else {
		borrowedChild := sibling.Children[0]
		promoted := sibling.Keys[1]

		oldSibSize := sibling.Size
		sibling.Children = sibling.Children[1:]
		newSibKeys := make([]K, oldSibSize-1)
		copy(newSibKeys[1:], sibling.Keys[2:])
		sibling.Keys = newSibKeys
		sibling.Size = oldSibSize - 1

		node.Children = append(node.Children, borrowedChild)
		node.Keys = append(node.Keys, parent.Keys[sibIdx])
		node.Size++

		parent.Keys[sibIdx] = promoted

		if err := t.updateChildParent(borrowedChild, id); err != nil {
			return err
		}
	}

	node.Serialize(page, t.keyCodec)
	t.bpm.UnpinPage(id, true)
	sibling.Serialize(siblingPage, t.keyCodec)
	t.bpm.UnpinPage(siblingID, true)
	parent.Serialize(parentPage, t.keyCodec)
	t.bpm.UnpinPage(node.ParentPageID, true)
	return nil
}

func (t *BPlusTree[K, V]) adjustRootInternal(id disk.PageID, page *disk.Page, node *tree.InternalNode[K]) error {
	if node.Size > 1 {
		node.Serialize(page, t.keyCodec)
		t.bpm.UnpinPage(id, true)
		return nil
	}

	onlyChild := node.Children[0]
	t.bpm.UnpinPage(id, false)
	t.bpm.DeletePage(id)

	if err := t.updateChildParent(onlyChild, disk.InvalidPageID); err != nil {
		return err
	}

	t.rootPageID = onlyChild
	return t.header.SetRootPageID(t.name, onlyChild)
}
