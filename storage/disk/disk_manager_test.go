package disk

import (
	"testing"

	"github.com/lanterndb/coredb/internal/corecfg"
	"github.com/lanterndb/coredb/internal/testutil"
	"github.com/lanterndb/coredb/types"
)

func TestFileDiskManagerReadWrite(t *testing.T) {
	dm := NewDiskManagerTest()
	defer dm.ShutDown()

	pageID := dm.AllocatePage()
	write := make([]byte, corecfg.PageSize)
	copy(write, []byte("hello disk manager"))

	testutil.Ok(t, dm.WritePage(pageID, write))

	read := make([]byte, corecfg.PageSize)
	testutil.Ok(t, dm.ReadPage(pageID, read))
	testutil.Equals(t, write, read)
	testutil.Equals(t, uint64(1), dm.GetNumWrites())
}

func TestFileDiskManagerAllocateIsMonotonic(t *testing.T) {
	dm := NewDiskManagerTest()
	defer dm.ShutDown()

	first := dm.AllocatePage()
	second := dm.AllocatePage()
	testutil.Assert(t, second > first, "expected increasing page ids, got %v then %v", first, second)
}

func TestMemoryDiskManagerReadWrite(t *testing.T) {
	dm := NewVirtualDiskManagerTest()
	defer dm.ShutDown()

	pageID := dm.AllocatePage()
	write := make([]byte, corecfg.PageSize)
	copy(write, []byte("hello memory disk"))

	testutil.Ok(t, dm.WritePage(pageID, write))

	read := make([]byte, corecfg.PageSize)
	testutil.Ok(t, dm.ReadPage(pageID, read))
	testutil.Equals(t, write, read)
}

func TestMemoryDiskManagerReadPastEndFails(t *testing.T) {
	dm := NewVirtualDiskManagerTest()
	defer dm.ShutDown()

	read := make([]byte, corecfg.PageSize)
	err := dm.ReadPage(types.PageID(5), read)
	testutil.Assert(t, err != nil, "expected an error reading past end of virtual disk")
}
