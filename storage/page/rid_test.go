package page

import (
	"testing"

	"github.com/lanterndb/coredb/internal/testutil"
	"github.com/lanterndb/coredb/types"
)

func TestRID(t *testing.T) {
	rid := RID{}
	rid.Set(types.PageID(0), uint32(0))
	testutil.Equals(t, types.PageID(0), rid.PageID())
	testutil.Equals(t, uint32(0), rid.Slot())

	rid2 := NewRID(types.PageID(3), 7)
	testutil.Equals(t, types.PageID(3), rid2.PageID())
	testutil.Equals(t, uint32(7), rid2.Slot())
}
