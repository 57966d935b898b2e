// The pool mutex is held across disk I/O, a simpler single-critical-section
// style than unlocking around each read/write would give.
package buffer

import (
	"errors"

	deadlock "github.com/sasha-s/go-deadlock"

	"github.com/lanterndb/coredb/internal/corecfg"
	"github.com/lanterndb/coredb/internal/corelog"
	"github.com/lanterndb/coredb/storage/disk"
	"github.com/lanterndb/coredb/storage/page"
	"github.com/lanterndb/coredb/types"
)

// LogSink receives notice of page flushes the buffer pool performs, for a
// caller that wants to interleave write-ahead logging with buffer pool
// writeback. It is entirely optional: nothing in this package calls a method
// on it other than LogFlush, and a nil sink is always valid.
type LogSink interface {
	// LogFlush is called after pageID's contents have been successfully
	// written to disk.
	LogFlush(pageID types.PageID)
}

// BufferPoolManager mediates all access to on-disk pages: it fetches pages
// into fixed in-memory frames, tracks pin counts, and picks eviction
// victims via an LRU-K replacer when every frame is in use.
type BufferPoolManager struct {
	mu          deadlock.Mutex
	poolSize    int
	diskManager disk.DiskManager
	pages       []*page.Page
	replacer    *LRUKReplacer
	freeList    []types.FrameID
	pageTable   map[types.PageID]types.FrameID
	logSink     LogSink
}

// NewBufferPoolManager returns a buffer pool with poolSize frames, backed
// by diskManager, whose replacer tracks replacerK-length access history.
// logSink is optional: pass none, or nil, for a pool that doesn't notify
// anything of its flushes.
func NewBufferPoolManager(poolSize int, diskManager disk.DiskManager, replacerK int, logSink ...LogSink) *BufferPoolManager {
	freeList := make([]types.FrameID, poolSize)
	pages := make([]*page.Page, poolSize)
	for i := 0; i < poolSize; i++ {
		freeList[i] = types.FrameID(i)
	}

	var sink LogSink
	if len(logSink) > 0 {
		sink = logSink[0]
	}

	return &BufferPoolManager{
		poolSize:    poolSize,
		diskManager: diskManager,
		pages:       pages,
		replacer:    NewLRUKReplacer(poolSize, replacerK),
		freeList:    freeList,
		pageTable:   make(map[types.PageID]types.FrameID),
		logSink:     sink,
	}
}

// logFlush notifies the log sink, if any, that pageID was just written back.
func (b *BufferPoolManager) logFlush(pageID types.PageID) {
	if b.logSink != nil {
		b.logSink.LogFlush(pageID)
	}
}

// NewDefaultBufferPoolManager applies corecfg.DefaultOptions' pool size and
// replacer k.
func NewDefaultBufferPoolManager(diskManager disk.DiskManager) *BufferPoolManager {
	opts := corecfg.DefaultOptions()
	return NewBufferPoolManager(opts.PoolSize, diskManager, opts.ReplacerK)
}

// grabFrame returns a free frame, evicting one via the replacer if the
// free list is empty. The caller must hold mu.
func (b *BufferPoolManager) grabFrame() (types.FrameID, bool) {
	if len(b.freeList) > 0 {
		n := len(b.freeList)
		fid := b.freeList[n-1]
		b.freeList = b.freeList[:n-1]
		return fid, true
	}

	fid, ok := b.replacer.Evict()
	if !ok {
		return 0, false
	}

	victim := b.pages[fid]
	if victim != nil {
		if victim.IsDirty() {
			data := victim.Data()
			if err := b.diskManager.WritePage(victim.ID(), data[:]); err != nil {
				corelog.Printf(corelog.Error, "buffer pool: flush evicted page %v failed: %v", victim.ID(), err)
			} else {
				b.logFlush(victim.ID())
			}
		}
		delete(b.pageTable, victim.ID())
	}
	return fid, true
}

// NewPage allocates a fresh page on disk and pins it into the pool.
func (b *BufferPoolManager) NewPage() *page.Page {
	b.mu.Lock()
	defer b.mu.Unlock()

	fid, ok := b.grabFrame()
	if !ok {
		return nil
	}

	pageID := b.diskManager.AllocatePage()
	pg := b.reuseOrAllocate(fid, pageID, nil)
	b.pages[fid] = pg
	b.pageTable[pageID] = fid

	corelog.Assert(b.replacer.RecordAccess(fid) == nil, "buffer pool: RecordAccess(%v) out of range", fid)
	corelog.Assert(b.replacer.SetEvictable(fid, false) == nil, "buffer pool: SetEvictable(%v) out of range", fid)
	return pg
}

// FetchPage returns the requested page, reading it from disk into a frame
// if it isn't already resident, and increments its pin count either way.
func (b *BufferPoolManager) FetchPage(pageID types.PageID) *page.Page {
	b.mu.Lock()
	defer b.mu.Unlock()

	if fid, ok := b.pageTable[pageID]; ok {
		pg := b.pages[fid]
		pg.IncPinCount()
		if pg.PinCount() == 1 {
			corelog.Assert(b.replacer.SetEvictable(fid, false) == nil, "buffer pool: SetEvictable(%v) out of range", fid)
		}
		corelog.Assert(b.replacer.RecordAccess(fid) == nil, "buffer pool: RecordAccess(%v) out of range", fid)
		return pg
	}

	fid, ok := b.grabFrame()
	if !ok {
		return nil
	}

	data := make([]byte, page.PageSize)
	if err := b.diskManager.ReadPage(pageID, data); err != nil {
		b.freeList = append(b.freeList, fid)
		return nil
	}

	pg := b.reuseOrAllocate(fid, pageID, data)
	b.pages[fid] = pg
	b.pageTable[pageID] = fid

	corelog.Assert(b.replacer.RecordAccess(fid) == nil, "buffer pool: RecordAccess(%v) out of range", fid)
	corelog.Assert(b.replacer.SetEvictable(fid, false) == nil, "buffer pool: SetEvictable(%v) out of range", fid)
	return pg
}

// reuseOrAllocate returns the *page.Page frame fid should hold for pageID.
// If the frame still has an evicted page object sitting in it, that object
// is reset and reused in place rather than discarded; otherwise a fresh one
// is allocated. data, if non-nil, is the page's just-read disk contents;
// nil means a brand-new, zero-filled page.
func (b *BufferPoolManager) reuseOrAllocate(fid types.FrameID, pageID types.PageID, data []byte) *page.Page {
	if existing := b.pages[fid]; existing != nil {
		existing.ResetForReuse(pageID)
		if data != nil {
			existing.Copy(0, data)
		}
		return existing
	}
	if data == nil {
		return page.NewEmpty(pageID)
	}
	var buf [page.PageSize]byte
	copy(buf[:], data)
	return page.New(pageID, &buf)
}

// UnpinPage decrements a page's pin count, folding in an is-dirty signal
// from the caller, and makes it evictable once nobody holds it.
func (b *BufferPoolManager) UnpinPage(pageID types.PageID, isDirty bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	fid, ok := b.pageTable[pageID]
	if !ok {
		return errors.New("buffer pool: page not found")
	}

	pg := b.pages[fid]
	if pg.PinCount() == 0 {
		return errors.New("buffer pool: page already unpinned")
	}

	pg.DecPinCount()
	if isDirty {
		pg.SetIsDirty(true)
	}
	if pg.PinCount() == 0 {
		corelog.Assert(b.replacer.SetEvictable(fid, true) == nil, "buffer pool: SetEvictable(%v) out of range", fid)
	}
	return nil
}

// FlushPage writes a page's current contents to disk regardless of its
// dirty flag, then clears the flag.
func (b *BufferPoolManager) FlushPage(pageID types.PageID) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	fid, ok := b.pageTable[pageID]
	if !ok {
		return false
	}

	pg := b.pages[fid]
	data := pg.Data()
	if err := b.diskManager.WritePage(pageID, data[:]); err != nil {
		corelog.Printf(corelog.Error, "buffer pool: flush page %v failed: %v", pageID, err)
		return false
	}
	pg.SetIsDirty(false)
	b.logFlush(pageID)
	return true
}

// FlushAllPages writes every resident page to disk unconditionally, clean or
// dirty, and clears each one's dirty flag.
func (b *BufferPoolManager) FlushAllPages() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for pageID, fid := range b.pageTable {
		pg := b.pages[fid]
		data := pg.Data()
		if err := b.diskManager.WritePage(pageID, data[:]); err != nil {
			corelog.Printf(corelog.Error, "buffer pool: flush page %v failed: %v", pageID, err)
			continue
		}
		pg.SetIsDirty(false)
		b.logFlush(pageID)
	}
}

// FlushAllDirtyPages writes every currently dirty resident page to disk.
// Unlike FlushAllPages it skips pages that are already clean, which matters
// when called periodically rather than as a full unconditional sweep.
func (b *BufferPoolManager) FlushAllDirtyPages() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for pageID, fid := range b.pageTable {
		pg := b.pages[fid]
		if !pg.IsDirty() {
			continue
		}
		data := pg.Data()
		if err := b.diskManager.WritePage(pageID, data[:]); err != nil {
			corelog.Printf(corelog.Error, "buffer pool: flush page %v failed: %v", pageID, err)
			continue
		}
		pg.SetIsDirty(false)
		b.logFlush(pageID)
	}
}

// DeletePage evicts a page from the pool and deallocates its backing
// storage, failing if the page is still pinned.
func (b *BufferPoolManager) DeletePage(pageID types.PageID) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	fid, ok := b.pageTable[pageID]
	if !ok {
		return nil
	}

	pg := b.pages[fid]
	if pg.PinCount() > 0 {
		return errors.New("buffer pool: page is pinned")
	}

	delete(b.pageTable, pageID)
	corelog.Assert(b.replacer.Remove(fid) == nil, "buffer pool: Remove(%v) on a pinned frame", fid)
	b.diskManager.DeallocatePage(pageID)
	b.freeList = append(b.freeList, fid)
	return nil
}

// PageDebugInfo is one resident page's buffer-pool status, as returned by
// DebugPages for tests and the property checks it backs.
type PageDebugInfo struct {
	PageID    types.PageID
	FrameID   types.FrameID
	PinCount  int32
	Dirty     bool
	Evictable bool
}

// DebugPages returns a snapshot of every resident page's buffer-pool
// status, for tests and diagnostics.
func (b *BufferPoolManager) DebugPages() []PageDebugInfo {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]PageDebugInfo, 0, len(b.pageTable))
	for pageID, fid := range b.pageTable {
		pg := b.pages[fid]
		out = append(out, PageDebugInfo{
			PageID:    pageID,
			FrameID:   fid,
			PinCount:  pg.PinCount(),
			Dirty:     pg.IsDirty(),
			Evictable: b.replacer.IsEvictable(fid),
		})
	}
	return out
}

// PoolSize returns the number of frames in the pool.
func (b *BufferPoolManager) PoolSize() int { return b.poolSize }
