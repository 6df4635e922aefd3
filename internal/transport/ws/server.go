// Package ws exposes the edit service over a websocket: one HELLO/WELCOME
// handshake, then EDIT requests answered with RESULT, in order, on the same
// connection.
package ws

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"voxedit.dev/internal/chunk"
	"voxedit.dev/internal/edit"
	"voxedit.dev/internal/geom"
	"voxedit.dev/internal/protocol"
	"voxedit.dev/internal/region"
	"voxedit.dev/internal/tuning"
)

type Server struct {
	editor *edit.Editor
	params protocol.WorldParams
	log    *log.Logger

	// The block store is single-threaded: edits from all connections are
	// serialized here.
	mu sync.Mutex

	nextSession atomic.Uint64
	upgrader    websocket.Upgrader
}

func NewServer(editor *edit.Editor, params protocol.WorldParams, logger *log.Logger) *Server {
	return &Server{
		editor: editor,
		params: params,
		log:    logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  64 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
	}
}

func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		session, ok := s.handshake(conn)
		if !ok {
			return
		}
		s.log.Printf("session %s connected from %s", session, r.RemoteAddr)

		for {
			_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				break
			}
			base, err := protocol.DecodeBase(msg)
			if err != nil || base.Type != protocol.TypeEdit {
				continue
			}

			var req protocol.EditMsg
			res := protocol.ResultMsg{Type: protocol.TypeResult}
			if err := json.Unmarshal(msg, &req); err != nil {
				res.Error = &protocol.ResultError{Code: protocol.ErrProtoBadRequest, Message: err.Error()}
			} else if req.ProtocolVersion != protocol.Version {
				res.ID = req.ID
				res.Error = &protocol.ResultError{Code: protocol.ErrProtoBadRequest, Message: "bad protocol_version"}
			} else {
				res = s.handleEdit(req)
			}

			_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
			if err := conn.WriteJSON(res); err != nil {
				break
			}
		}
		s.log.Printf("session %s disconnected", session)
	}
}

func (s *Server) handshake(conn *websocket.Conn) (string, bool) {
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return "", false
	}

	base, err := protocol.DecodeBase(msg)
	if err != nil || base.Type != protocol.TypeHello {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "expected HELLO"),
			time.Now().Add(time.Second))
		return "", false
	}

	var hello protocol.HelloMsg
	if err := json.Unmarshal(msg, &hello); err != nil {
		return "", false
	}
	if hello.ProtocolVersion != protocol.Version {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "bad protocol_version"),
			time.Now().Add(time.Second))
		return "", false
	}

	session := fmt.Sprintf("S%d", s.nextSession.Add(1))
	welcome := protocol.WelcomeMsg{
		Type:            protocol.TypeWelcome,
		ProtocolVersion: protocol.Version,
		SessionID:       session,
		WorldParams:     s.params,
	}
	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	if err := conn.WriteJSON(welcome); err != nil {
		return "", false
	}
	return session, true
}

func vec3(a [3]int) geom.Vec3 { return geom.Vec3{X: a[0], Y: a[1], Z: a[2]} }

func arr3(v geom.Vec3) [3]int { return [3]int{v.X, v.Y, v.Z} }

func (s *Server) handleEdit(req protocol.EditMsg) protocol.ResultMsg {
	res := protocol.ResultMsg{Type: protocol.TypeResult, ID: req.ID}
	fail := func(code, msg string) protocol.ResultMsg {
		res.OK = false
		res.Error = &protocol.ResultError{Code: code, Message: msg}
		return res
	}

	ed := s.editor
	if req.Order != "" {
		o, err := tuning.ParseOrder(req.Order)
		if err != nil {
			return fail(protocol.ErrBadOrder, err.Error())
		}
		ed = ed.WithOrder(o)
	}

	start := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	// Region transforms: corner identity matters, so the cuboid keeps the
	// request's corner order.
	switch req.Op {
	case protocol.OpExpand, protocol.OpContract, protocol.OpShift:
		if len(req.Deltas) == 0 {
			return fail(protocol.ErrBadRequest, "delta batch required")
		}
		c := region.NewCuboidIn(ed.Store(), vec3(req.Pos1), vec3(req.Pos2))
		deltas := make([]geom.Vec3, len(req.Deltas))
		for i, d := range req.Deltas {
			deltas[i] = vec3(d)
		}
		switch req.Op {
		case protocol.OpExpand:
			c.Expand(deltas...)
		case protocol.OpContract:
			c.Contract(deltas...)
		case protocol.OpShift:
			c.Shift(deltas...)
		}
		res.OK = true
		res.Pos1 = arr3(c.Pos1())
		res.Pos2 = arr3(c.Pos2())
		res.Volume = c.Volume()
		res.TookUs = time.Since(start).Microseconds()
		return res
	}

	c := ed.Cuboid(vec3(req.Pos1), vec3(req.Pos2))
	var (
		changed int
		err     error
	)
	switch req.Op {
	case protocol.OpFill:
		changed, err = ed.Fill(c, req.Block)
	case protocol.OpReplace:
		changed, err = ed.Replace(c, req.From, req.To)
	case protocol.OpOutline:
		changed, err = ed.Outline(c, req.Block)
	case protocol.OpWalls:
		changed, err = ed.Walls(c, req.Block)
	case protocol.OpHollow:
		changed, err = ed.Hollow(c)
	default:
		return fail(protocol.ErrUnknownOp, "unknown edit op "+req.Op)
	}
	if err != nil {
		s.log.Printf("edit %s failed: %v", req.Op, err)
		return fail(protocol.ErrInternal, err.Error())
	}

	res.OK = true
	res.Changed = changed
	res.Volume = c.Volume()
	res.TookUs = time.Since(start).Microseconds()
	return res
}

// Params builds the WELCOME world parameters from tuning.
func Params(t tuning.Tuning) protocol.WorldParams {
	order, _ := t.Order()
	return protocol.WorldParams{
		Height:         t.WorldHeight,
		GroundLevel:    t.GroundLevel,
		ChunkSize:      [2]int{chunk.Size, chunk.Size},
		IterationOrder: order.String(),
	}
}
