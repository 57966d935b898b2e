package page

import "github.com/lanterndb/coredb/types"

// RID is a record identifier: the page it lives on plus its slot within that
// page. The B+ tree index stores RIDs as its value type.
type RID struct {
	pageID types.PageID
	slot   uint32
}

// NewRID builds a RID from a page id and slot number.
func NewRID(pageID types.PageID, slot uint32) RID {
	return RID{pageID: pageID, slot: slot}
}

// Set overwrites the record identifier's fields.
func (r *RID) Set(pageID types.PageID, slot uint32) {
	r.pageID = pageID
	r.slot = slot
}

// PageID returns the page id component.
func (r RID) PageID() types.PageID { return r.pageID }

// Slot returns the slot number component.
func (r RID) Slot() uint32 { return r.slot }
