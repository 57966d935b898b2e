// treePage's fields are the common header every B+ tree page (internal or
// leaf) carries, laid out directly over the fixed page byte buffer.
package bplustree

import (
	"encoding/binary"

	"github.com/lanterndb/coredb/storage/page"
)

// pageType distinguishes an internal page from a leaf page when a caller
// holds only a *page.Page and needs to know how to interpret it.
type pageType int32

const (
	invalidPageType pageType = 0
	internalType    pageType = 1
	leafType        pageType = 2
)

// commonHeaderSize is the size, in bytes, of the pageType/size/maxSize
// triple every tree page starts with.
const commonHeaderSize = 12

// treePage wraps the 12-byte header (page type, current size, max size)
// shared by internal and leaf pages.
type treePage struct {
	pg *page.Page
}

func (t treePage) PageType() pageType {
	return pageType(int32(binary.LittleEndian.Uint32(t.pg.Data()[0:4])))
}

func (t treePage) setPageType(pt pageType) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(pt))
	t.pg.Copy(0, buf[:])
}

func (t treePage) IsLeafPage() bool { return t.PageType() == leafType }

func (t treePage) GetSize() int {
	return int(int32(binary.LittleEndian.Uint32(t.pg.Data()[4:8])))
}

func (t treePage) SetSize(size int) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(int32(size)))
	t.pg.Copy(4, buf[:])
}

func (t treePage) IncreaseSize(delta int) { t.SetSize(t.GetSize() + delta) }

func (t treePage) GetMaxSize() int {
	return int(int32(binary.LittleEndian.Uint32(t.pg.Data()[8:12])))
}

func (t treePage) setMaxSize(maxSize int) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(int32(maxSize)))
	t.pg.Copy(8, buf[:])
}

// GetMinSize is ceil(maxSize/2), the minimum occupancy of a non-root page.
func (t treePage) GetMinSize() int {
	return (t.GetMaxSize() + 1) / 2
}
