package bplustree

import (
	"fmt"

	"github.com/lanterndb/coredb/storage/page"
	"github.com/lanterndb/coredb/types"
)

// BulkInsertForTest inserts each of keys in slice order, giving each a RID
// of (page id = key, slot = its position in keys), stopping at the first
// duplicate key Insert rejects.
func BulkInsertForTest(tree *BPlusTree, keys []int64) error {
	for i, k := range keys {
		rid := page.NewRID(types.PageID(k), uint32(i))
		if !tree.Insert(Key(k), rid) {
			return fmt.Errorf("bplustree: duplicate key %d at position %d", k, i)
		}
	}
	return nil
}
