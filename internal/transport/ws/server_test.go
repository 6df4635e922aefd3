package ws

import (
	"io"
	"log"
	"testing"

	"voxedit.dev/internal/edit"
	"voxedit.dev/internal/protocol"
	"voxedit.dev/internal/region"
	"voxedit.dev/internal/world"
)

func newTestServer() *Server {
	store := world.NewStore(world.Gen{Height: 64, Ground: 0})
	ed := edit.NewEditor(store, edit.Config{Order: region.OrderChunk, Preload: true})
	return NewServer(ed, protocol.WorldParams{Height: 64}, log.New(io.Discard, "", 0))
}

func TestHandleEdit_Fill(t *testing.T) {
	s := newTestServer()
	res := s.handleEdit(protocol.EditMsg{
		Type: protocol.TypeEdit, ProtocolVersion: protocol.Version,
		ID: "e1", Op: protocol.OpFill,
		Pos1: [3]int{0, 5, 0}, Pos2: [3]int{3, 7, 3},
		Block: world.Stone,
	})
	if !res.OK {
		t.Fatalf("fill failed: %+v", res.Error)
	}
	if res.ID != "e1" || res.Changed != 48 || res.Volume != 48 {
		t.Fatalf("bad result: %+v", res)
	}
}

func TestHandleEdit_ExpandKeepsCornerIdentity(t *testing.T) {
	s := newTestServer()
	res := s.handleEdit(protocol.EditMsg{
		Type: protocol.TypeEdit, ProtocolVersion: protocol.Version,
		Op:   protocol.OpExpand,
		Pos1: [3]int{0, 0, 0}, Pos2: [3]int{1, 1, 1},
		Deltas: [][3]int{{3, 0, 0}},
	})
	if !res.OK {
		t.Fatalf("expand failed: %+v", res.Error)
	}
	if res.Pos1 != [3]int{0, 0, 0} || res.Pos2 != [3]int{4, 1, 1} {
		t.Fatalf("corners = %v / %v", res.Pos1, res.Pos2)
	}
}

func TestHandleEdit_Errors(t *testing.T) {
	s := newTestServer()

	res := s.handleEdit(protocol.EditMsg{
		Type: protocol.TypeEdit, ProtocolVersion: protocol.Version,
		Op: protocol.OpShift, Pos1: [3]int{0, 0, 0}, Pos2: [3]int{1, 1, 1},
	})
	if res.OK || res.Error == nil || res.Error.Code != protocol.ErrBadRequest {
		t.Fatalf("empty delta batch: %+v", res)
	}

	res = s.handleEdit(protocol.EditMsg{
		Type: protocol.TypeEdit, ProtocolVersion: protocol.Version,
		Op: "SCULPT", Pos1: [3]int{0, 0, 0}, Pos2: [3]int{1, 1, 1},
	})
	if res.OK || res.Error.Code != protocol.ErrUnknownOp {
		t.Fatalf("unknown op: %+v", res)
	}
	if !protocol.IsKnownCode(res.Error.Code) {
		t.Fatalf("emitted unknown error code %q", res.Error.Code)
	}

	res = s.handleEdit(protocol.EditMsg{
		Type: protocol.TypeEdit, ProtocolVersion: protocol.Version,
		Op: protocol.OpFill, Pos1: [3]int{0, 0, 0}, Pos2: [3]int{1, 1, 1},
		Order: "spiral",
	})
	if res.OK || res.Error.Code != protocol.ErrBadOrder {
		t.Fatalf("bad order: %+v", res)
	}
}
