package disk

import (
	"os"
)

// diskManagerTest wraps a FileDiskManager rooted at a disposable temp file,
// so tests get real file I/O semantics without leaving files behind.
type diskManagerTest struct {
	path string
	DiskManager
}

// NewDiskManagerTest returns a file-backed DiskManager rooted at a fresh
// temp file that ShutDown removes.
func NewDiskManagerTest() DiskManager {
	f, err := os.CreateTemp("", "coredb-disk-test-")
	if err != nil {
		panic(err)
	}
	path := f.Name()
	f.Close()
	os.Remove(path)

	return &diskManagerTest{path: path, DiskManager: NewFileDiskManager(path)}
}

// ShutDown closes the database file and removes the temp file backing it.
func (d *diskManagerTest) ShutDown() {
	defer os.Remove(d.path)
	d.DiskManager.ShutDown()
}

// NewVirtualDiskManagerTest returns an in-memory DiskManager, useful for
// tests that want to avoid the filesystem entirely.
func NewVirtualDiskManagerTest() DiskManager {
	return NewMemoryDiskManager()
}
