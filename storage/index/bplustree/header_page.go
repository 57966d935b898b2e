package bplustree

import (
	"encoding/binary"

	"github.com/lanterndb/coredb/storage/page"
	"github.com/lanterndb/coredb/types"
)

// headerPage is a one-entry page, private to a single B+ tree index, that
// stores the id of the tree's current root page (or types.InvalidPageID
// when the tree is empty).
type headerPage struct {
	pg *page.Page
}

func newHeaderPage(pg *page.Page) headerPage { return headerPage{pg: pg} }

func (h headerPage) RootPageID() types.PageID {
	return types.PageID(int32(binary.LittleEndian.Uint32(h.pg.Data()[0:4])))
}

func (h headerPage) SetRootPageID(id types.PageID) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(int32(id)))
	h.pg.Copy(0, buf[:])
}
