package buffer

import (
	"testing"

	"github.com/lanterndb/coredb/internal/testutil"
	"github.com/lanterndb/coredb/storage/disk"
)

func TestBasicPageGuardDropUnpins(t *testing.T) {
	dm := disk.NewVirtualDiskManagerTest()
	defer dm.ShutDown()
	bpm := NewBufferPoolManager(4, dm, 2)

	guard := bpm.NewPageGuarded()
	pageID := guard.PageID()
	testutil.Equals(t, int32(1), guard.Page().PinCount())

	guard.Drop()
	pages := bpm.DebugPages()
	var found bool
	for _, p := range pages {
		if p.PageID == pageID {
			testutil.Equals(t, int32(0), p.PinCount)
			found = true
		}
	}
	testutil.Assert(t, found, "expected DebugPages to report page %v", pageID)

	// dropping twice must not panic or double-unpin
	guard.Drop()
}

func TestReadPageGuardRoundTrip(t *testing.T) {
	dm := disk.NewVirtualDiskManagerTest()
	defer dm.ShutDown()
	bpm := NewBufferPoolManager(4, dm, 2)

	basic := bpm.NewPageGuarded()
	pageID := basic.PageID()
	basic.Drop()

	rg := bpm.FetchPageRead(pageID)
	testutil.Assert(t, rg.Page() != nil, "expected to fetch the page")
	rg.Drop()
}

func TestWritePageGuardMarksDirty(t *testing.T) {
	dm := disk.NewVirtualDiskManagerTest()
	defer dm.ShutDown()
	bpm := NewBufferPoolManager(4, dm, 2)

	basic := bpm.NewPageGuarded()
	pageID := basic.PageID()
	basic.Drop()

	write := bpm.FetchPageWrite(pageID)
	write.Page().Copy(0, []byte("x"))
	write.MarkDirty()
	write.Drop()

	rg := bpm.FetchPageRead(pageID)
	testutil.Assert(t, rg.Page().IsDirty(), "expected dirty flag to survive the write guard drop")
	rg.Drop()
}
