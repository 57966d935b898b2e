package page

import (
	"sync/atomic"

	"github.com/lanterndb/coredb/internal/corecfg"
	"github.com/lanterndb/coredb/types"
)

// PageSize is the fixed size, in bytes, of every page.
const PageSize = corecfg.PageSize

// Page is the in-memory copy of one on-disk page, plus the bookkeeping the
// buffer pool and the page guards need: pin count, dirty flag, and a
// reader/writer latch distinct from the buffer pool's own mutex.
type Page struct {
	id       types.PageID
	pinCount int32
	isDirty  bool
	data     *[PageSize]byte
	latch    latch
}

// New wraps an existing byte buffer as a resident page with pin count 1.
func New(id types.PageID, data *[PageSize]byte) *Page {
	return &Page{id: id, pinCount: 1, data: data}
}

// NewEmpty allocates a zeroed page with pin count 1.
func NewEmpty(id types.PageID) *Page {
	return &Page{id: id, pinCount: 1, data: &[PageSize]byte{}}
}

// IncPinCount increments the pin count. Only the buffer pool, under its own
// mutex, may call this.
func (p *Page) IncPinCount() { atomic.AddInt32(&p.pinCount, 1) }

// DecPinCount decrements the pin count. Only the buffer pool, under its own
// mutex, may call this.
func (p *Page) DecPinCount() {
	if atomic.LoadInt32(&p.pinCount) > 0 {
		atomic.AddInt32(&p.pinCount, -1)
	}
}

// PinCount returns the current pin count.
func (p *Page) PinCount() int32 { return atomic.LoadInt32(&p.pinCount) }

// ID returns the page id.
func (p *Page) ID() types.PageID { return p.id }

// Data returns the raw backing buffer.
func (p *Page) Data() *[PageSize]byte { return p.data }

// Copy overwrites data starting at offset.
func (p *Page) Copy(offset int, data []byte) {
	copy(p.data[offset:], data)
}

// SetIsDirty sets the dirty flag.
func (p *Page) SetIsDirty(isDirty bool) { p.isDirty = isDirty }

// IsDirty reports the dirty flag.
func (p *Page) IsDirty() bool { return p.isDirty }

// ResetForReuse zeroes the buffer and metadata so a frame can be reassigned
// to a different page id without leaking the previous page's bytes.
func (p *Page) ResetForReuse(id types.PageID) {
	for i := range p.data {
		p.data[i] = 0
	}
	p.id = id
	atomic.StoreInt32(&p.pinCount, 1)
	p.isDirty = false
}

// RLatch acquires the page's shared reader latch.
func (p *Page) RLatch() { p.latch.RLock() }

// RUnlatch releases the page's shared reader latch.
func (p *Page) RUnlatch() { p.latch.RUnlock() }

// WLatch acquires the page's exclusive writer latch.
func (p *Page) WLatch() { p.latch.WLock() }

// WUnlatch releases the page's exclusive writer latch.
func (p *Page) WUnlatch() { p.latch.WUnlock() }
