// Package corecfg holds the small set of tunables this storage core recognizes.
// There is no CLI surface or environment variable binding here: callers
// construct an Options value directly.
package corecfg

// PageSize is the fixed size, in bytes, of every page moved between disk and the
// buffer pool. It is a process-wide constant, not a per-instance option.
const PageSize = 4096

// InvalidPageID is the sentinel for "no page."
const InvalidPageID = -1

// Defaults applied by DefaultOptions. The module's own tests pass their own,
// smaller sizes instead.
const (
	DefaultPoolSize        = 64
	DefaultReplacerK       = 2
	DefaultLeafMaxSize     = 254
	DefaultInternalMaxSize = 254
)

// Options bundles the buffer pool and B+ tree tunables a caller assembling this
// core into a larger system would set once at startup.
type Options struct {
	// PoolSize is the number of frames in the buffer pool.
	PoolSize int
	// ReplacerK is the history depth (k) for the LRU-K replacer.
	ReplacerK int
	// LeafMaxSize is the maximum number of entries a B+ tree leaf page holds.
	LeafMaxSize int
	// InternalMaxSize is the maximum number of entries a B+ tree internal page holds.
	InternalMaxSize int
}

// DefaultOptions returns the default configuration built from the constants above.
func DefaultOptions() Options {
	return Options{
		PoolSize:        DefaultPoolSize,
		ReplacerK:       DefaultReplacerK,
		LeafMaxSize:     DefaultLeafMaxSize,
		InternalMaxSize: DefaultInternalMaxSize,
	}
}

// MinSize is ceil(maxSize/2), the minimum occupancy of a non-root B+ tree page.
func MinSize(maxSize int) int {
	return (maxSize + 1) / 2
}
