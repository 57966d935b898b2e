// Next() assigns straight into the receiver's own guard field, never a
// shadowing local, so advancing across a leaf boundary actually sticks.
package bplustree

import (
	"github.com/lanterndb/coredb/storage/buffer"
	"github.com/lanterndb/coredb/storage/page"
	"github.com/lanterndb/coredb/types"
)

// IndexIterator walks leaf entries in key order, crossing leaf-page
// boundaries via each leaf's next-page link. A zero-value guard (pg nil)
// marks the end position.
type IndexIterator struct {
	bpm   *buffer.BufferPoolManager
	guard buffer.ReadPageGuard
	pos   int
	ended bool
}

func newIndexIterator(bpm *buffer.BufferPoolManager, guard buffer.ReadPageGuard, pos int) *IndexIterator {
	return &IndexIterator{bpm: bpm, guard: guard, pos: pos}
}

func newEndIndexIterator() *IndexIterator {
	return &IndexIterator{ended: true}
}

// IsEnd reports whether the iterator has advanced past the last entry.
func (it *IndexIterator) IsEnd() bool { return it.ended }

// Key returns the current entry's key. Undefined at end.
func (it *IndexIterator) Key() Key {
	return newLeafPage(it.guard.Page()).KeyAt(it.pos)
}

// Value returns the current entry's RID. Undefined at end.
func (it *IndexIterator) Value() page.RID {
	return newLeafPage(it.guard.Page()).ValueAt(it.pos)
}

// Next advances to the following entry, crossing into the next leaf page
// when the current one is exhausted, and closing the iterator at the end
// of the last leaf.
func (it *IndexIterator) Next() {
	if it.ended {
		return
	}

	leaf := newLeafPage(it.guard.Page())
	it.pos++
	if it.pos < leaf.GetSize() {
		return
	}

	nextID := leaf.GetNextPageID()
	it.guard.Drop()
	if nextID == types.InvalidPageID {
		it.ended = true
		it.guard = buffer.ReadPageGuard{}
		return
	}

	it.guard = it.bpm.FetchPageRead(nextID)
	it.pos = 0
}

// Close releases the iterator's held page latch, if any. Callers that
// run an iterator to completion (IsEnd() becomes true) do not need to
// call this; it exists for early abandonment.
func (it *IndexIterator) Close() {
	if it.ended {
		return
	}
	it.guard.Drop()
	it.ended = true
}
