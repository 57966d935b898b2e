package buffer

import (
	"testing"

	"github.com/lanterndb/coredb/internal/testutil"
	"github.com/lanterndb/coredb/storage/disk"
	"github.com/lanterndb/coredb/types"
)

func TestBufferPoolManagerNewPageAndFetch(t *testing.T) {
	dm := disk.NewVirtualDiskManagerTest()
	defer dm.ShutDown()
	bpm := NewBufferPoolManager(4, dm, 2)

	pg := bpm.NewPage()
	testutil.Assert(t, pg != nil, "expected a new page")
	pg.Copy(0, []byte("hello"))
	testutil.Ok(t, bpm.UnpinPage(pg.ID(), true))

	fetched := bpm.FetchPage(pg.ID())
	testutil.Assert(t, fetched != nil, "expected to fetch the page back")
	testutil.Equals(t, byte('h'), fetched.Data()[0])
	testutil.Ok(t, bpm.UnpinPage(pg.ID(), false))
}

func TestBufferPoolManagerEvictsWhenFull(t *testing.T) {
	dm := disk.NewVirtualDiskManagerTest()
	defer dm.ShutDown()
	bpm := NewBufferPoolManager(2, dm, 2)

	p0 := bpm.NewPage()
	p1 := bpm.NewPage()
	testutil.Ok(t, bpm.UnpinPage(p0.ID(), false))
	testutil.Ok(t, bpm.UnpinPage(p1.ID(), false))

	// both frames are evictable; a third NewPage must succeed by eviction
	p2 := bpm.NewPage()
	testutil.Assert(t, p2 != nil, "expected eviction to free a frame")
}

func TestBufferPoolManagerFailsWhenAllPinned(t *testing.T) {
	dm := disk.NewVirtualDiskManagerTest()
	defer dm.ShutDown()
	bpm := NewBufferPoolManager(1, dm, 2)

	p0 := bpm.NewPage()
	testutil.Assert(t, p0 != nil, "expected first page to succeed")

	p1 := bpm.NewPage()
	testutil.Assert(t, p1 == nil, "expected second NewPage to fail: pool full and pinned")
}

func TestBufferPoolManagerDeletePageRequiresUnpinned(t *testing.T) {
	dm := disk.NewVirtualDiskManagerTest()
	defer dm.ShutDown()
	bpm := NewBufferPoolManager(2, dm, 2)

	pg := bpm.NewPage()
	err := bpm.DeletePage(pg.ID())
	testutil.Assert(t, err != nil, "expected delete to fail while pinned")

	testutil.Ok(t, bpm.UnpinPage(pg.ID(), false))
	testutil.Ok(t, bpm.DeletePage(pg.ID()))
}

func TestBufferPoolManagerFlushAllDirtyPages(t *testing.T) {
	dm := disk.NewVirtualDiskManagerTest()
	defer dm.ShutDown()
	bpm := NewBufferPoolManager(4, dm, 2)

	pg := bpm.NewPage()
	pg.Copy(0, []byte("dirty"))
	testutil.Ok(t, bpm.UnpinPage(pg.ID(), true))

	bpm.FlushAllDirtyPages()

	pages := bpm.DebugPages()
	testutil.Assert(t, len(pages) >= 1, "expected at least one resident page")
}

func TestBufferPoolManagerFlushAllPagesIsUnconditional(t *testing.T) {
	dm := disk.NewVirtualDiskManagerTest()
	defer dm.ShutDown()
	bpm := NewBufferPoolManager(4, dm, 2)

	pg := bpm.NewPage()
	testutil.Ok(t, bpm.UnpinPage(pg.ID(), false))

	// the page was never marked dirty, so FlushAllDirtyPages would skip it.
	before := dm.GetNumWrites()
	bpm.FlushAllPages()
	testutil.Assert(t, dm.GetNumWrites() > before, "expected FlushAllPages to write a clean page too")
}

type recordingLogSink struct {
	flushed []types.PageID
}

func (s *recordingLogSink) LogFlush(pageID types.PageID) {
	s.flushed = append(s.flushed, pageID)
}

func TestBufferPoolManagerNotifiesLogSinkOnFlush(t *testing.T) {
	dm := disk.NewVirtualDiskManagerTest()
	defer dm.ShutDown()
	sink := &recordingLogSink{}
	bpm := NewBufferPoolManager(4, dm, 2, sink)

	pg := bpm.NewPage()
	testutil.Ok(t, bpm.UnpinPage(pg.ID(), true))

	testutil.Assert(t, bpm.FlushPage(pg.ID()), "expected flush to succeed")
	testutil.Equals(t, []types.PageID{pg.ID()}, sink.flushed)
}
