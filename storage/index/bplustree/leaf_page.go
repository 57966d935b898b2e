package bplustree

import (
	"encoding/binary"

	"github.com/lanterndb/coredb/storage/page"
	"github.com/lanterndb/coredb/types"
)

// leafHeaderSize extends the common header with the next-leaf link that
// forms the singly linked level of leaf pages.
const leafHeaderSize = commonHeaderSize + 4

const ridWidth = 8 // bytes per RID (page id int32 + slot uint32)

// leafPage holds `size` sorted (key, value) pairs plus a pointer to the
// next leaf in key order, or types.InvalidPageID for the rightmost leaf.
type leafPage struct {
	treePage
}

func newLeafPage(pg *page.Page) leafPage {
	return leafPage{treePage: treePage{pg: pg}}
}

// Init formats a freshly allocated page as an empty leaf page.
func (p leafPage) Init(maxSize int) {
	p.setPageType(leafType)
	p.SetSize(0)
	p.setMaxSize(maxSize)
	p.SetNextPageID(types.InvalidPageID)
}

func (p leafPage) GetNextPageID() types.PageID {
	return types.PageID(int32(binary.LittleEndian.Uint32(p.pg.Data()[commonHeaderSize : commonHeaderSize+4])))
}

func (p leafPage) SetNextPageID(id types.PageID) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(int32(id)))
	p.pg.Copy(commonHeaderSize, buf[:])
}

func (p leafPage) keyOffset(i int) int { return leafHeaderSize + i*keyWidth }
func (p leafPage) valueOffset(i int) int {
	return leafHeaderSize + p.GetMaxSize()*keyWidth + i*ridWidth
}

func (p leafPage) KeyAt(i int) Key {
	off := p.keyOffset(i)
	return Key(int64(binary.LittleEndian.Uint64(p.pg.Data()[off : off+8])))
}

func (p leafPage) SetKeyAt(i int, k Key) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(int64(k)))
	p.pg.Copy(p.keyOffset(i), buf[:])
}

func (p leafPage) ValueAt(i int) page.RID {
	off := p.valueOffset(i)
	data := p.pg.Data()
	pid := types.PageID(int32(binary.LittleEndian.Uint32(data[off : off+4])))
	slot := binary.LittleEndian.Uint32(data[off+4 : off+8])
	return page.NewRID(pid, slot)
}

func (p leafPage) SetValueAt(i int, v page.RID) {
	var buf [8]byte
	binary.LittleEndian.PutUint32(buf[0:4], uint32(int32(v.PageID())))
	binary.LittleEndian.PutUint32(buf[4:8], v.Slot())
	p.pg.Copy(p.valueOffset(i), buf[:])
}

// moveEntries shifts `size` (key, value) pairs starting at fromPos into
// toPos, in the same relative order, within or between pages.
func moveEntries(from leafPage, fromPos int, to leafPage, toPos int, size int) {
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
