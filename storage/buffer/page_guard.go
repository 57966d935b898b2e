// Page guards have no destructor to rely on, so callers must explicitly
// defer Drop(). A dropped flag makes repeated or moved-from drops a no-op.
package buffer

import (
	"github.com/lanterndb/coredb/internal/corelog"
	"github.com/lanterndb/coredb/storage/page"
	"github.com/lanterndb/coredb/types"
)

// BasicPageGuard owns a pin on a fetched page and unpins it on Drop,
// propagating whatever dirty flag the caller set via MarkDirty. It applies
// no latch of its own; ReadPageGuard and WritePageGuard add that.
type BasicPageGuard struct {
	bpm     *BufferPoolManager
	pg      *page.Page
	isDirty bool
	dropped bool
}

// NewBasicPageGuard wraps an already-fetched page. pg may be nil, mirroring
// a failed Fetch/NewPage call; such a guard's Drop is a no-op.
func NewBasicPageGuard(bpm *BufferPoolManager, pg *page.Page) BasicPageGuard {
	return BasicPageGuard{bpm: bpm, pg: pg}
}

// PageID returns the guarded page's id, or types.InvalidPageID if the
// guard holds no page.
func (g *BasicPageGuard) PageID() types.PageID {
	if g.pg == nil {
		return types.InvalidPageID
	}
	return g.pg.ID()
}

// Page returns the underlying page, or nil.
func (g *BasicPageGuard) Page() *page.Page { return g.pg }

// MarkDirty records that the caller mutated the page, so Drop unpins it
// with the dirty flag set.
func (g *BasicPageGuard) MarkDirty() { g.isDirty = true }

// Drop unpins the page. Safe to call more than once, and safe on a
// zero-value or already-dropped guard.
func (g *BasicPageGuard) Drop() {
	if g.dropped || g.pg == nil {
		return
	}
	if err := g.bpm.UnpinPage(g.pg.ID(), g.isDirty); err != nil {
		corelog.FatalStack("page guard: drop of page %v failed: %v", g.pg.ID(), err)
	}
	g.dropped = true
	g.pg = nil
	g.bpm = nil
}

// Release transfers ownership of the page to a new guard sharing its pin,
// as if the original guard had been moved from; the receiver becomes a
// dropped no-op guard without unpinning.
func (g *BasicPageGuard) Release() BasicPageGuard {
	out := BasicPageGuard{bpm: g.bpm, pg: g.pg, isDirty: g.isDirty}
	g.dropped = true
	g.pg = nil
	g.bpm = nil
	return out
}

// ReadPageGuard holds a page's pin plus its shared read latch, released
// together on Drop.
type ReadPageGuard struct {
	guard BasicPageGuard
}

// NewReadPageGuard RLatches pg (if non-nil) and wraps it.
func NewReadPageGuard(bpm *BufferPoolManager, pg *page.Page) ReadPageGuard {
	if pg != nil {
		pg.RLatch()
	}
	return ReadPageGuard{guard: NewBasicPageGuard(bpm, pg)}
}

// PageID returns the guarded page's id, or types.InvalidPageID.
func (g *ReadPageGuard) PageID() types.PageID { return g.guard.PageID() }

// Page returns the underlying page, still read-latched.
func (g *ReadPageGuard) Page() *page.Page { return g.guard.pg }

// Drop releases the read latch, then unpins the page. Safe to call more
// than once.
func (g *ReadPageGuard) Drop() {
	if g.guard.dropped || g.guard.pg == nil {
		return
	}
	pg := g.guard.pg
	pg.RUnlatch()
	g.guard.Drop()
}

// WritePageGuard holds a page's pin plus its exclusive write latch,
// released together on Drop.
type WritePageGuard struct {
	guard BasicPageGuard
}

// NewWritePageGuard WLatches pg (if non-nil) and wraps it.
func NewWritePageGuard(bpm *BufferPoolManager, pg *page.Page) WritePageGuard {
	if pg != nil {
		pg.WLatch()
	}
	return WritePageGuard{guard: NewBasicPageGuard(bpm, pg)}
}

// PageID returns the guarded page's id, or types.InvalidPageID.
func (g *WritePageGuard) PageID() types.PageID { return g.guard.PageID() }

// Page returns the underlying page, still write-latched.
func (g *WritePageGuard) Page() *page.Page { return g.guard.pg }

// MarkDirty records that the caller mutated the page, so Drop unpins it
// with the dirty flag set.
func (g *WritePageGuard) MarkDirty() { g.guard.MarkDirty() }

// Drop releases the write latch, then unpins the page. Safe to call more
// than once.
func (g *WritePageGuard) Drop() {
	if g.guard.dropped || g.guard.pg == nil {
		return
	}
	pg := g.guard.pg
	pg.WUnlatch()
	g.guard.Drop()
}

// FetchPageBasic fetches a page and wraps it in a BasicPageGuard.
func (b *BufferPoolManager) FetchPageBasic(pageID types.PageID) BasicPageGuard {
	return NewBasicPageGuard(b, b.FetchPage(pageID))
}

// FetchPageRead fetches a page and wraps it in a ReadPageGuard.
func (b *BufferPoolManager) FetchPageRead(pageID types.PageID) ReadPageGuard {
	return NewReadPageGuard(b, b.FetchPage(pageID))
}

// FetchPageWrite fetches a page and wraps it in a WritePageGuard.
func (b *BufferPoolManager) FetchPageWrite(pageID types.PageID) WritePageGuard {
	return NewWritePageGuard(b, b.FetchPage(pageID))
}

// NewPageGuarded allocates a new page and wraps it in a BasicPageGuard.
func (b *BufferPoolManager) NewPageGuarded() BasicPageGuard {
	return NewBasicPageGuard(b, b.NewPage())
}
