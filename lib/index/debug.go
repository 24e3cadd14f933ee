package index

import (
	"fmt"
	"strings"

	"github.com/lintang-b-s/bptreedb/lib/disk"
	"github.com/lintang-b-s/bptreedb/lib/tree"
)

// DebugString renders the tree depth-first, one node per line indented
// by depth. Scoped down from BusTub's ToString (no CLI/dot-file output,
// just enough to eyeball structure in a test failure).
func (t *BPlusTree[K, V]) DebugString() (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var sb strings.Builder
	if t.rootPageID == disk.InvalidPageID {
		sb.WriteString("(empty)\n")
		return sb.String(), nil
	}
	if err := t.writeNode(&sb, t.rootPageID, 0); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (t *BPlusTree[K, V]) writeNode(sb *strings.Builder, id disk.PageID, depth int) error {
	indent := strings.Repeat("  ", depth)

	page, err := t.bpm.FetchPage(id)
	if err != nil {
		return err
	}

	if tree.IsLeafPage(page) {
		leaf := tree.DeserializeLeafNode[K, V](page, t.keyCodec, t.valCodec)
		fmt.Fprintf(sb, "%sleaf(page=%d size=%d keys=%v next=%d)\n", indent, id, leaf.Size, leaf.Keys, leaf.NextPageID)
		t.bpm.UnpinPage(id, false)
		return nil
	}

	node := tree.DeserializeInternalNode[K](page, t.keyCodec)
	fmt.Fprintf(sb, "%sinternal(page=%d size=%d keys=%v)\n", indent, id, node.Size, node.Keys[1:node.Size])
	children := append([]disk.PageID{}, node.Children...)
	t.bpm.UnpinPage(id, false)

	for _, child := range children {
		if err := t.writeNode(sb, child, depth+1); err != nil {
			return err
		}
	}
	return nil
}
