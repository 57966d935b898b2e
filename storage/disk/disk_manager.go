package disk

import (
	"github.com/lanterndb/coredb/types"
)

// DiskManager is responsible for reading and writing fixed-size pages to
// whatever backing store sits below the buffer pool. There is deliberately
// no WriteLog/ReadLog here: ARIES-style recovery is out of scope, and
// nothing in this tree calls them.
type DiskManager interface {
	ReadPage(types.PageID, []byte) error
	WritePage(types.PageID, []byte) error
	AllocatePage() types.PageID
	DeallocatePage(types.PageID)
	GetNumWrites() uint64
	ShutDown()
	Size() int64
}
