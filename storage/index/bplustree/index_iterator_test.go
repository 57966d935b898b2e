package bplustree

import (
	"testing"

	"github.com/lanterndb/coredb/internal/testutil"
)

func TestIndexIteratorCrossesLeafPageBoundary(t *testing.T) {
	// leaf_max_size=3 forces at least two leaf pages once 7 keys are
	// inserted, so a full Begin()..End() walk must cross the next-page
	// link at least once: Next() must reassign the iterator's own guard
	// field here, not a shadowing local, or the walk would stall at the
	// first leaf's end.
	tree, _ := newTestTree(t, 3, 3)
	testutil.Ok(t, BulkInsertForTest(tree, []int64{1, 2, 3, 4, 5, 6, 7}))

	count := 0
	it := tree.Begin()
	for !it.IsEnd() {
		count++
		it.Next()
	}
	testutil.Equals(t, 7, count)
}

func TestIndexIteratorBeginOnEmptyTreeIsEnd(t *testing.T) {
	tree, _ := newTestTree(t, 3, 3)
	it := tree.Begin()
	testutil.Assert(t, it.IsEnd(), "expected Begin() on an empty tree to already be End")
}

func TestIndexIteratorCloseIsIdempotent(t *testing.T) {
	tree, _ := newTestTree(t, 3, 3)
	testutil.Ok(t, BulkInsertForTest(tree, []int64{1, 2, 3}))

	it := tree.Begin()
	it.Close()
	it.Close()
	testutil.Assert(t, it.IsEnd(), "expected a closed iterator to report End")
}
