package bplustree

import (
	"encoding/binary"

	"github.com/lanterndb/coredb/storage/page"
	"github.com/lanterndb/coredb/types"
)

const keyWidth = 8   // bytes per Key (int64)
const valueWidth = 4 // bytes per child page id (int32)

// internalPage holds `size` child pointers and `size-1` separator keys:
// slot 0's key is unused (a "−∞" sentinel), so keys and values are both
// indexed 0..size-1 with keys[0] meaningless.
type internalPage struct {
	treePage
}

func newInternalPage(pg *page.Page) internalPage {
	return internalPage{treePage: treePage{pg: pg}}
}

// Init formats a freshly allocated page as an empty internal page.
func (p internalPage) Init(maxSize int) {
	p.setPageType(internalType)
	p.SetSize(0)
	p.setMaxSize(maxSize)
}

func (p internalPage) keyOffset(i int) int { return commonHeaderSize + i*keyWidth }
func (p internalPage) valueOffset(i int) int {
	return commonHeaderSize + p.GetMaxSize()*keyWidth + i*valueWidth
}

func (p internalPage) KeyAt(i int) Key {
	off := p.keyOffset(i)
	return Key(int64(binary.LittleEndian.Uint64(p.pg.Data()[off : off+8])))
}

func (p internalPage) SetKeyAt(i int, k Key) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(int64(k)))
	p.pg.Copy(p.keyOffset(i), buf[:])
}

func (p internalPage) ValueAt(i int) types.PageID {
	off := p.valueOffset(i)
	return types.PageID(int32(binary.LittleEndian.Uint32(p.pg.Data()[off : off+4])))
}

func (p internalPage) SetValueAt(i int, v types.PageID) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(int32(v)))
	p.pg.Copy(p.valueOffset(i), buf[:])
}

// moveChildren shifts `size` (key, value) pairs starting at fromPos into
// toPos, in the same relative order, within or between pages. Used both
// for the right-shift a plain insert needs and the bulk copy a split
// needs; when from and to are the same page and toPos > fromPos, it copies
// back to front so overlapping slots are not overwritten before being read.
func moveChildren(from internalPage, fromPos int, to internalPage, toPos int, size int) {
	if from.pg == to.pg && toPos > fromPos {
		for i := size - 1; i >= 0; i-- {
			to.SetKeyAt(toPos+i, from.KeyAt(fromPos+i))
			to.SetValueAt(toPos+i, from.ValueAt(fromPos+i))
		}
		return
	}
	for i := 0; i < size; i++ {
		to.SetKeyAt(toPos+i, from.KeyAt(fromPos+i))
		to.SetValueAt(toPos+i, from.ValueAt(fromPos+i))
	}
}
