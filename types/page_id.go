package types

import (
	"bytes"
	"encoding/binary"
)

// PageID identifies a page across its lifetime on disk.
type PageID int32

// InvalidPageID is the sentinel returned where no page applies.
const InvalidPageID = PageID(-1)

// IsValid reports whether id is usable as a real page id.
func (id PageID) IsValid() bool {
	return id != InvalidPageID
}

// Serialize casts id to its little-endian byte representation.
func (id PageID) Serialize() []byte {
	buf := new(bytes.Buffer)
	_ = binary.Write(buf, binary.LittleEndian, id)
	return buf.Bytes()
}

// NewPageIDFromBytes decodes a PageID previously written by Serialize.
func NewPageIDFromBytes(data []byte) (ret PageID) {
	_ = binary.Read(bytes.NewReader(data), binary.LittleEndian, &ret)
	return ret
}
