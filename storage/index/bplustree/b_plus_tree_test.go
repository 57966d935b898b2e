package bplustree

import (
	"testing"

	"github.com/lanterndb/coredb/internal/testutil"
	"github.com/lanterndb/coredb/storage/buffer"
	"github.com/lanterndb/coredb/storage/disk"
	"github.com/lanterndb/coredb/storage/page"
	"github.com/lanterndb/coredb/types"
)

// testRID builds a distinguishable RID from a key, so assertions can tell
// values apart without caring about real tuple storage.
func testRID(k int64) page.RID {
	return page.NewRID(types.PageID(k), uint32(k))
}

func newTestTree(t *testing.T, leafMaxSize, internalMaxSize int) (*BPlusTree, *buffer.BufferPoolManager) {
	t.Helper()
	dm := disk.NewVirtualDiskManagerTest()
	t.Cleanup(dm.ShutDown)
	bpm := buffer.NewBufferPoolManager(64, dm, 2)
	headerGuard := bpm.NewPageGuarded()
	headerPageID := headerGuard.PageID()
	headerGuard.Drop()

	tree := NewBPlusTree("test", headerPageID, bpm, DefaultComparator, leafMaxSize, internalMaxSize)
	return tree, bpm
}

func TestBPlusTreeEmptyTreeLookupMisses(t *testing.T) {
	tree, _ := newTestTree(t, 3, 3)
	testutil.Assert(t, tree.IsEmpty(), "expected a fresh tree to be empty")

	_, ok := tree.GetValue(Key(1))
	testutil.Assert(t, !ok, "expected lookup on an empty tree to miss")
}

func TestBPlusTreeInsertAndLookupSingleKey(t *testing.T) {
	tree, _ := newTestTree(t, 3, 3)
	rid := testRID(1)
	testutil.Assert(t, tree.Insert(Key(1), rid), "expected first insert to succeed")
	testutil.Assert(t, !tree.IsEmpty(), "expected tree to be non-empty after insert")

	got, ok := tree.GetValue(Key(1))
	testutil.Assert(t, ok, "expected to find key 1")
	testutil.Equals(t, rid, got)
}

func TestBPlusTreeRejectsDuplicateKey(t *testing.T) {
	tree, _ := newTestTree(t, 3, 3)
	testutil.Assert(t, tree.Insert(Key(1), testRID(1)), "expected first insert to succeed")
	testutil.Assert(t, !tree.Insert(Key(1), testRID(2)), "expected duplicate insert to be rejected")
}

// TestBPlusTreeWorkedExample inserts keys 1..7 in order with
// leaf_max_size=3, internal_max_size=3, forcing at least two leaf splits
// and a root split along the way, and checks every key still resolves
// correctly afterward.
func TestBPlusTreeWorkedExample(t *testing.T) {
	tree, _ := newTestTree(t, 3, 3)

	for k := int64(1); k <= 7; k++ {
		testutil.Assert(t, tree.Insert(Key(k), testRID(k)), "expected insert of key %d to succeed", k)
	}

	for k := int64(1); k <= 7; k++ {
		got, ok := tree.GetValue(Key(k))
		testutil.Assert(t, ok, "expected to find key %d", k)
		testutil.Equals(t, testRID(k), got)
	}

	_, ok := tree.GetValue(Key(99))
	testutil.Assert(t, !ok, "expected lookup of an absent key to miss")
}

func TestBPlusTreeRangeIterationIsSorted(t *testing.T) {
	tree, _ := newTestTree(t, 3, 3)
	order := []int64{5, 3, 1, 4, 2, 7, 6}
	for _, k := range order {
		testutil.Assert(t, tree.Insert(Key(k), testRID(k)), "expected insert of key %d to succeed", k)
	}

	var seen []int64
	it := tree.Begin()
	for !it.IsEnd() {
		seen = append(seen, int64(it.Key()))
		it.Next()
	}

	testutil.Equals(t, []int64{1, 2, 3, 4, 5, 6, 7}, seen)
}

func TestBPlusTreeBeginAtPositionsMidRange(t *testing.T) {
	tree, _ := newTestTree(t, 3, 3)
	testutil.Ok(t, BulkInsertForTest(tree, []int64{1, 2, 3, 4, 5, 6, 7}))

	it := tree.BeginAt(Key(4))
	testutil.Assert(t, !it.IsEnd(), "expected BeginAt an existing key to not be End")

	var seen []int64
	for !it.IsEnd() {
		seen = append(seen, int64(it.Key()))
		it.Next()
	}
	testutil.Equals(t, []int64{4, 5, 6, 7}, seen)
}

func TestBPlusTreeBeginAtMissingKeyIsEnd(t *testing.T) {
	tree, _ := newTestTree(t, 3, 3)
	testutil.Ok(t, BulkInsertForTest(tree, []int64{1, 2, 3}))

	it := tree.BeginAt(Key(42))
	testutil.Assert(t, it.IsEnd(), "expected BeginAt a missing key to be End")
}

func TestBPlusTreeLargeSequentialInsertPreservesOrder(t *testing.T) {
	tree, _ := newTestTree(t, 4, 4)
	const n = 200
	keys := make([]int64, n)
	for i := range keys {
		keys[i] = int64(i)
	}
	testutil.Ok(t, BulkInsertForTest(tree, keys))

	var seen []int64
	it := tree.Begin()
	for !it.IsEnd() {
		seen = append(seen, int64(it.Key()))
		it.Next()
	}
	testutil.Equals(t, n, len(seen))
	for i, k := range seen {
		testutil.Equals(t, int64(i), k)
	}
}

func TestBPlusTreeRemoveIsAStub(t *testing.T) {
	tree, _ := newTestTree(t, 3, 3)
	testutil.Ok(t, BulkInsertForTest(tree, []int64{1, 2, 3}))

	tree.Remove(Key(2))

	_, ok := tree.GetValue(Key(2))
	testutil.Assert(t, ok, "expected Remove to be a no-op stub, leaving the key in place")
}
