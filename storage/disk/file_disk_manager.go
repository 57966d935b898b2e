package disk

import (
	"errors"
	"io"
	"os"

	"github.com/lanterndb/coredb/internal/corecfg"
	"github.com/lanterndb/coredb/types"
)

// FileDiskManager persists pages to a real OS file, seeking to
// pageID*PageSize for every read and write.
type FileDiskManager struct {
	db         *os.File
	fileName   string
	nextPageID types.PageID
	numWrites  uint64
	size       int64
}

// NewFileDiskManager opens (creating if necessary) dbFilename and returns a
// DiskManager backed by it.
func NewFileDiskManager(dbFilename string) DiskManager {
	file, err := os.OpenFile(dbFilename, os.O_RDWR|os.O_CREATE, 0666)
	if err != nil {
		panic("disk: can't open db file: " + err.Error())
	}

	fileInfo, err := file.Stat()
	if err != nil {
		panic("disk: file info error: " + err.Error())
	}

	fileSize := fileInfo.Size()
	nPages := fileSize / corecfg.PageSize

	nextPageID := types.PageID(0)
	if nPages > 0 {
		nextPageID = types.PageID(int32(nPages + 1))
	}

	return &FileDiskManager{db: file, fileName: dbFilename, nextPageID: nextPageID, size: fileSize}
}

// ShutDown closes the database file.
func (d *FileDiskManager) ShutDown() {
	d.db.Close()
}

// WritePage writes a page to the database file and fsyncs it.
func (d *FileDiskManager) WritePage(pageID types.PageID, pageData []byte) error {
	offset := int64(pageID) * corecfg.PageSize
	if _, err := d.db.Seek(offset, io.SeekStart); err != nil {
		return err
	}
	bytesWritten, err := d.db.Write(pageData)
	if err != nil {
		return err
	}

	if bytesWritten != corecfg.PageSize {
		return errors.New("disk: bytes written not equal to page size")
	}

	if offset >= d.size {
		d.size = offset + int64(bytesWritten)
	}

	d.numWrites++
	return d.db.Sync()
}

// ReadPage reads a page from the database file. Short reads (e.g. a page
// that was allocated but never written) are zero-filled.
func (d *FileDiskManager) ReadPage(pageID types.PageID, pageData []byte) error {
	offset := int64(pageID) * corecfg.PageSize

	fileInfo, err := d.db.Stat()
	if err != nil {
		return errors.New("disk: file info error")
	}

	if offset > fileInfo.Size() && pageID >= d.nextPageID {
		return errors.New("disk: I/O error past end of file")
	}

	if _, err := d.db.Seek(offset, io.SeekStart); err != nil {
		return err
	}

	bytesRead, err := d.db.Read(pageData)
	if err != nil && err != io.EOF {
		return errors.New("disk: I/O error while reading")
	}

	if bytesRead < corecfg.PageSize {
		for i := range pageData {
			pageData[i] = 0
		}
	}
	return nil
}

// AllocatePage hands out the next page id. For now this is just a monotonic
// counter; there is no free-space bitmap.
func (d *FileDiskManager) AllocatePage() types.PageID {
	ret := d.nextPageID
	d.nextPageID++
	return ret
}

// DeallocatePage is a no-op: without a free-space bitmap there is nowhere
// to record that pageID's space can be reused.
func (d *FileDiskManager) DeallocatePage(pageID types.PageID) {}

// GetNumWrites returns the number of WritePage calls that have completed.
func (d *FileDiskManager) GetNumWrites() uint64 { return d.numWrites }

// Size returns the logical size of the database file.
func (d *FileDiskManager) Size() int64 { return d.size }

// RemoveDBFile deletes the backing file. Only safe after ShutDown.
func (d *FileDiskManager) RemoveDBFile() {
	os.Remove(d.fileName)
}
