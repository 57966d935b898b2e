// Deallocated pages are simply never revisited: there is no free-space
// bitmap to record their space for reuse.
package disk

import (
	"errors"
	"io"
	"sync"

	"github.com/dsnet/golib/memfile"

	"github.com/lanterndb/coredb/internal/corecfg"
	"github.com/lanterndb/coredb/types"
)

// MemoryDiskManager is a DiskManager backed by an in-memory byte buffer
// instead of a real file, for fast tests that don't want to touch the
// filesystem.
type MemoryDiskManager struct {
	mu         sync.Mutex
	db         *memfile.File
	nextPageID types.PageID
	numWrites  uint64
	size       int64
}

// NewMemoryDiskManager returns a DiskManager instance with nothing backing
// it but RAM.
func NewMemoryDiskManager() DiskManager {
	return &MemoryDiskManager{db: memfile.New(make([]byte, 0))}
}

// WritePage writes a page into the in-memory buffer.
func (d *MemoryDiskManager) WritePage(pageID types.PageID, pageData []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	offset := int64(pageID) * corecfg.PageSize
	if _, err := d.db.WriteAt(pageData, offset); err != nil {
		return err
	}

	if offset+int64(len(pageData)) > d.size {
		d.size = offset + int64(len(pageData))
	}

	d.numWrites++
	return nil
}

// ReadPage reads a page from the in-memory buffer. A page that was
// allocated but never written has no bytes backing it yet; rather than
// fail, the unwritten tail is zero-filled, matching FileDiskManager.
func (d *MemoryDiskManager) ReadPage(pageID types.PageID, pageData []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	offset := int64(pageID) * corecfg.PageSize
	if offset > d.size && pageID >= d.nextPageID {
		return errors.New("disk: I/O error past end of file")
	}

	available := d.size - offset
	if available < 0 {
		available = 0
	}
	if available > int64(len(pageData)) {
		available = int64(len(pageData))
	}
	if available > 0 {
		if _, err := d.db.ReadAt(pageData[:available], offset); err != nil && err != io.EOF {
			return err
		}
	}
	for i := available; i < int64(len(pageData)); i++ {
		pageData[i] = 0
	}
	return nil
}

// AllocatePage hands out the next page id.
func (d *MemoryDiskManager) AllocatePage() types.PageID {
	d.mu.Lock()
	defer d.mu.Unlock()

	ret := d.nextPageID
	d.nextPageID++
	return ret
}

// DeallocatePage is a no-op, matching FileDiskManager.
func (d *MemoryDiskManager) DeallocatePage(pageID types.PageID) {}

// GetNumWrites returns the number of WritePage calls that have completed.
func (d *MemoryDiskManager) GetNumWrites() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.numWrites
}

// Size returns the logical size of the in-memory buffer.
func (d *MemoryDiskManager) Size() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.size
}

// ShutDown is a no-op: there is no file descriptor to close.
func (d *MemoryDiskManager) ShutDown() {}
