// Deletion stays an intentional stub: descend-and-delete isn't implemented.
package bplustree

import (
	"fmt"
	"strings"

	"github.com/lanterndb/coredb/internal/corelog"
	"github.com/lanterndb/coredb/storage/buffer"
	"github.com/lanterndb/coredb/storage/page"
	"github.com/lanterndb/coredb/types"
)

// BPlusTree is an ordered map from Key to page.RID, persisted as a tree
// of buffer-pooled pages reachable from a dedicated header page.
type BPlusTree struct {
	name            string
	bpm             *buffer.BufferPoolManager
	comparator      Comparator
	leafMaxSize     int
	internalMaxSize int
	headerPageID    types.PageID
}

// NewBPlusTree wraps headerPageID (already allocated via bpm.NewPage) as
// the root pointer for a fresh, empty index.
func NewBPlusTree(name string, headerPageID types.PageID, bpm *buffer.BufferPoolManager, comparator Comparator, leafMaxSize, internalMaxSize int) *BPlusTree {
	guard := bpm.FetchPageWrite(headerPageID)
	newHeaderPage(guard.Page()).SetRootPageID(types.InvalidPageID)
	guard.MarkDirty()
	guard.Drop()

	return &BPlusTree{
		name:            name,
		bpm:             bpm,
		comparator:      comparator,
		leafMaxSize:     leafMaxSize,
		internalMaxSize: internalMaxSize,
		headerPageID:    headerPageID,
	}
}

// IsEmpty reports whether the tree currently has no root page.
func (t *BPlusTree) IsEmpty() bool {
	guard := t.bpm.FetchPageRead(t.headerPageID)
	defer guard.Drop()
	return newHeaderPage(guard.Page()).RootPageID() == types.InvalidPageID
}

// GetRootPageID returns the current root page id, or types.InvalidPageID
// for an empty tree.
func (t *BPlusTree) GetRootPageID() types.PageID {
	guard := t.bpm.FetchPageRead(t.headerPageID)
	defer guard.Drop()
	return newHeaderPage(guard.Page()).RootPageID()
}

// internalKeyIndex returns i such that k[i] <= key < k[i+1], per the
// (-inf, k[1]), [k[1],k[2]), ... sentinel convention slot 0 implies.
func (t *BPlusTree) internalKeyIndex(p internalPage, key Key) int {
	i := 1
	for ; i < p.GetSize(); i++ {
		if t.comparator(key, p.KeyAt(i)) < 0 {
			return i - 1
		}
	}
	return p.GetSize() - 1
}

// leafKeyIndex returns the slot holding key, or -1 if absent.
func (t *BPlusTree) leafKeyIndex(p leafPage, key Key) int {
	for i := 0; i < p.GetSize(); i++ {
		if t.comparator(key, p.KeyAt(i)) == 0 {
			return i
		}
	}
	return -1
}

// GetValue performs a point lookup, read-latch-crabbing from the header
// down to the leaf.
func (t *BPlusTree) GetValue(key Key) (page.RID, bool) {
	headerGuard := t.bpm.FetchPageRead(t.headerPageID)
	rootID := newHeaderPage(headerGuard.Page()).RootPageID()

	if rootID == types.InvalidPageID {
		headerGuard.Drop()
		return page.RID{}, false
	}

	guard := t.bpm.FetchPageRead(rootID)
	headerGuard.Drop()
	for {
		tp := treePage{pg: guard.Page()}
		if tp.IsLeafPage() {
			leaf := newLeafPage(guard.Page())
			idx := t.leafKeyIndex(leaf, key)
			defer guard.Drop()
			if idx == -1 {
				return page.RID{}, false
			}
			return leaf.ValueAt(idx), true
		}

		internal := newInternalPage(guard.Page())
		idx := t.internalKeyIndex(internal, key)
		childID := internal.ValueAt(idx)
		next := t.bpm.FetchPageRead(childID)
		guard.Drop()
		guard = next
	}
}

// isSafeForInsert reports whether p can absorb one more entry without
// splitting.
func isSafeForInsert(p treePage) bool { return p.GetSize()+1 <= p.GetMaxSize() }

// Insert places (key, value) into the tree, returning false if key
// already exists (unique-key semantics; not an error).
func (t *BPlusTree) Insert(key Key, value page.RID) bool {
	headerGuard := t.bpm.FetchPageWrite(t.headerPageID)
	header := newHeaderPage(headerGuard.Page())

	if header.RootPageID() == types.InvalidPageID {
		leafGuard := t.bpm.NewPageGuarded()
		leaf := newLeafPage(leafGuard.Page())
		leaf.Init(t.leafMaxSize)
		leaf.SetSize(1)
		leaf.SetKeyAt(0, key)
		leaf.SetValueAt(0, value)
		leafGuard.MarkDirty()
		header.SetRootPageID(leafGuard.PageID())
		headerGuard.MarkDirty()
		leafGuard.Drop()
		headerGuard.Drop()
		return true
	}

	// writeSet holds *pointers* to the guard variable of each page latched
	// on the way down, internal ancestors first and the leaf last (never a copy, so dropping it here and headerGuard's own
	// later Drop() stay idempotent operations on the same instance). The
	// header guard is tracked separately via headerHeld: it is a stand-in
	// for "might still need to grow the root", not a tree-node ancestor,
	// so it must not be counted alongside real ancestors when deciding
	// whether the propagation loop below still has work to do.
	headerHeld := true
	writeSet := []*buffer.WritePageGuard{}
	currentPageID := header.RootPageID()

	var leaf leafPage
	var leafPos int
	for {
		guard := t.bpm.FetchPageWrite(currentPageID)
		tp := treePage{pg: guard.Page()}
		if isSafeForInsert(tp) {
			for _, g := range writeSet {
				g.Drop()
			}
			writeSet = writeSet[:0]
			if headerHeld {
				headerGuard.Drop()
				headerHeld = false
			}
		}
		writeSet = append(writeSet, &guard)

		if !tp.IsLeafPage() {
			internal := newInternalPage(guard.Page())
			currentPageID = internal.ValueAt(t.internalKeyIndex(internal, key))
			continue
		}

		leaf = newLeafPage(guard.Page())
		leafPos = leaf.GetSize()
		found := false
		for i := 0; i < leaf.GetSize(); i++ {
			cmp := t.comparator(key, leaf.KeyAt(i))
			if cmp == 0 {
				found = true
				break
			}
			if cmp < 0 {
				leafPos = i
				break
			}
		}
		if found {
			for _, g := range writeSet {
				g.Drop()
			}
			if headerHeld {
				headerGuard.Drop()
			}
			return false
		}
		break
	}

	if isSafeForInsert(leaf.treePage) {
		insertIntoLeaf(leaf, leafPos, key, value)
		for _, g := range writeSet {
			g.MarkDirty()
			g.Drop()
		}
		return true
	}

	leafGuard := writeSet[len(writeSet)-1]
	writeSet = writeSet[:len(writeSet)-1]

	splitChildPID, splitKey := t.splitLeafWithInsert(leaf, leafPos, key, value)
	splitOriginPID := leafGuard.PageID()
	leafGuard.MarkDirty()
	leafGuard.Drop()

	// Every remaining entry in writeSet is a real internal-node ancestor
	// (the header guard is tracked separately via headerHeld); drain them
	// from the bottom up, splitting again wherever an ancestor is itself
	// full, until one absorbs the propagated separator or none are left.
	for len(writeSet) > 0 {
		ancestorGuard := writeSet[len(writeSet)-1]
		writeSet = writeSet[:len(writeSet)-1]
		internal := newInternalPage(ancestorGuard.Page())
		idx := t.internalKeyIndex(internal, splitKey) + 1

		if isSafeForInsert(internal.treePage) {
			insertIntoInternal(internal, idx, splitKey, splitChildPID)
			ancestorGuard.MarkDirty()
			ancestorGuard.Drop()
			for _, g := range writeSet {
				g.Drop()
			}
			if headerHeld {
				headerGuard.Drop()
			}
			return true
		}

		splitOriginPID = ancestorGuard.PageID()
		splitChildPID, splitKey = t.splitInternalWithInsert(internal, idx, splitKey, splitChildPID)
		ancestorGuard.MarkDirty()
		ancestorGuard.Drop()
	}

	// Every real ancestor absorbed a split and still overflowed, right up
	// to the former root: grow the tree by one level. headerHeld is still
	// true here, since any earlier safe ancestor would have returned
	// already, so headerGuard is still ours to use.
	newRootGuard := t.bpm.NewPageGuarded()
	newRoot := newInternalPage(newRootGuard.Page())
	newRoot.Init(t.internalMaxSize)
	newRoot.SetSize(2)
	newRoot.SetValueAt(0, splitOriginPID)
	newRoot.SetKeyAt(1, splitKey)
	newRoot.SetValueAt(1, splitChildPID)
	newRootGuard.MarkDirty()

	header.SetRootPageID(newRootGuard.PageID())
	headerGuard.MarkDirty()
	newRootGuard.Drop()
	headerGuard.Drop()
	return true
}

// splitLeafWithInsert inserts (key, value) into a full leaf and its
// freshly allocated right sibling together, as one balanced operation:
// conceptually build the max_size+1 sorted entries, then give the lower
// half to leaf and the upper half to the sibling. This guarantees both
// sides end up at or above min_size, which splitting before inserting
// (and placing the new entry into whichever side its position falls in)
// cannot: a full leaf's min_size-biased pre-insert split can leave the
// insert landing entirely in one side, undershooting min_size on the
// other. Returns the sibling's page id and its first key, the separator
// promoted to the parent.
func (t *BPlusTree) splitLeafWithInsert(leaf leafPage, pos int, key Key, value page.RID) (types.PageID, Key) {
	max := leaf.GetMaxSize()
	keys := make([]Key, max+1)
	values := make([]page.RID, max+1)
	for i := 0; i < pos; i++ {
		keys[i] = leaf.KeyAt(i)
		values[i] = leaf.ValueAt(i)
	}
	keys[pos] = key
	values[pos] = value
	for i := pos; i < max; i++ {
		keys[i+1] = leaf.KeyAt(i)
		values[i+1] = leaf.ValueAt(i)
	}

	leftSize := (max + 2) / 2
	rightSize := (max + 1) - leftSize

	leaf.SetSize(leftSize)
	for i := 0; i < leftSize; i++ {
		leaf.SetKeyAt(i, keys[i])
		leaf.SetValueAt(i, values[i])
	}

	guard := t.bpm.NewPageGuarded()
	sibling := newLeafPage(guard.Page())
	sibling.Init(t.leafMaxSize)
	sibling.SetSize(rightSize)
	for i := 0; i < rightSize; i++ {
		sibling.SetKeyAt(i, keys[leftSize+i])
		sibling.SetValueAt(i, values[leftSize+i])
	}
	sibling.SetNextPageID(leaf.GetNextPageID())
	leaf.SetNextPageID(guard.PageID())

	guard.MarkDirty()
	splitKey := sibling.KeyAt(0)
	pid := guard.PageID()
	guard.Drop()
	return pid, splitKey
}

// splitInternalWithInsert is splitLeafWithInsert's internal-page
// counterpart: it inserts (key, value) into the max_size+1 logical slots
// and splits the result evenly. The sibling's slot 0 key is the promoted
// separator; internalKeyIndex never reads a page's own slot 0, so
// leaving a real key there (rather than the usual unused sentinel) is
// harmless.
func (t *BPlusTree) splitInternalWithInsert(internal internalPage, pos int, key Key, value types.PageID) (types.PageID, Key) {
	max := internal.GetMaxSize()
	keys := make([]Key, max+1)
	values := make([]types.PageID, max+1)
	for i := 0; i < pos; i++ {
		keys[i] = internal.KeyAt(i)
		values[i] = internal.ValueAt(i)
	}
	keys[pos] = key
	values[pos] = value
	for i := pos; i < max; i++ {
		keys[i+1] = internal.KeyAt(i)
		values[i+1] = internal.ValueAt(i)
	}

	leftSize := (max + 2) / 2
	rightSize := (max + 1) - leftSize

	internal.SetSize(leftSize)
	for i := 0; i < leftSize; i++ {
		internal.SetKeyAt(i, keys[i])
		internal.SetValueAt(i, values[i])
	}

	guard := t.bpm.NewPageGuarded()
	sibling := newInternalPage(guard.Page())
	sibling.Init(t.internalMaxSize)
	sibling.SetSize(rightSize)
	for i := 0; i < rightSize; i++ {
		sibling.SetKeyAt(i, keys[leftSize+i])
		sibling.SetValueAt(i, values[leftSize+i])
	}

	guard.MarkDirty()
	splitKey := sibling.KeyAt(0)
	pid := guard.PageID()
	guard.Drop()
	return pid, splitKey
}

func insertIntoLeaf(leaf leafPage, i int, key Key, value page.RID) {
	leaf.IncreaseSize(1)
	moveEntries(leaf, i, leaf, i+1, leaf.GetSize()-1-i)
	leaf.SetKeyAt(i, key)
	leaf.SetValueAt(i, value)
}

func insertIntoInternal(internal internalPage, i int, key Key, value types.PageID) {
	internal.IncreaseSize(1)
	moveChildren(internal, i, internal, i+1, internal.GetSize()-1-i)
	internal.SetKeyAt(i, key)
	internal.SetValueAt(i, value)
}

// Remove is an intentional stub: deletion is not implemented. Callers
// that need it should follow the pattern documented alongside this
// method: descend with write-crabbing, use size >= min_size+1 as the
// safe-for-delete release predicate, and redistribute-then-merge with
// the left sibling preferred.
func (t *BPlusTree) Remove(key Key) {
	corelog.Printf(corelog.Warn, "bplustree: Remove(%v) is unimplemented", key)
}

// Begin returns an iterator positioned at the leftmost leaf's first
// entry, or End() for an empty tree.
func (t *BPlusTree) Begin() *IndexIterator {
	headerGuard := t.bpm.FetchPageRead(t.headerPageID)
	rootID := newHeaderPage(headerGuard.Page()).RootPageID()

	if rootID == types.InvalidPageID {
		headerGuard.Drop()
		return t.End()
	}

	guard := t.bpm.FetchPageRead(rootID)
	headerGuard.Drop()
	for {
		tp := treePage{pg: guard.Page()}
		if tp.IsLeafPage() {
			return newIndexIterator(t.bpm, guard, 0)
		}
		internal := newInternalPage(guard.Page())
		next := t.bpm.FetchPageRead(internal.ValueAt(0))
		guard.Drop()
		guard = next
	}
}

// BeginAt returns an iterator positioned at key's slot, or End() if the
// key is absent.
func (t *BPlusTree) BeginAt(key Key) *IndexIterator {
	headerGuard := t.bpm.FetchPageRead(t.headerPageID)
	rootID := newHeaderPage(headerGuard.Page()).RootPageID()

	if rootID == types.InvalidPageID {
		headerGuard.Drop()
		return t.End()
	}

	guard := t.bpm.FetchPageRead(rootID)
	headerGuard.Drop()
	for {
		tp := treePage{pg: guard.Page()}
		if tp.IsLeafPage() {
			leaf := newLeafPage(guard.Page())
			idx := t.leafKeyIndex(leaf, key)
			if idx == -1 {
				guard.Drop()
				return t.End()
			}
			return newIndexIterator(t.bpm, guard, idx)
		}
		internal := newInternalPage(guard.Page())
		idx := t.internalKeyIndex(internal, key)
		next := t.bpm.FetchPageRead(internal.ValueAt(idx))
		guard.Drop()
		guard = next
	}
}

// End returns an iterator representing one-past-the-last entry.
func (t *BPlusTree) End() *IndexIterator {
	return newEndIndexIterator()
}

// DebugString renders the tree depth-first, for tests and diagnostics.
func (t *BPlusTree) DebugString() string {
	if t.IsEmpty() {
		return "()"
	}
	var sb strings.Builder
	t.debugPrint(&sb, t.GetRootPageID(), 0)
	return sb.String()
}

func (t *BPlusTree) debugPrint(sb *strings.Builder, pageID types.PageID, depth int) {
	guard := t.bpm.FetchPageBasic(pageID)
	defer guard.Drop()
	tp := treePage{pg: guard.Page()}
	indent := strings.Repeat("  ", depth)

	if tp.IsLeafPage() {
		leaf := newLeafPage(guard.Page())
		keys := make([]string, leaf.GetSize())
		for i := range keys {
			keys[i] = fmt.Sprintf("%d", leaf.KeyAt(i))
		}
		fmt.Fprintf(sb, "%sleaf(%d): [%s]\n", indent, pageID, strings.Join(keys, ", "))
		return
	}

	internal := newInternalPage(guard.Page())
	fmt.Fprintf(sb, "%sinternal(%d):\n", indent, pageID)
	for i := 0; i < internal.GetSize(); i++ {
		t.debugPrint(sb, internal.ValueAt(i), depth+1)
	}
}
