package protocol

import "encoding/json"

const Version = "1.0"

// Message types.
const (
	TypeHello   = "HELLO"
	TypeWelcome = "WELCOME"
	TypeEdit    = "EDIT"
	TypeResult  = "RESULT"
)

// Edit operations. FILL through HOLLOW mutate blocks; EXPAND, CONTRACT and
// SHIFT transform the supplied corners and return them without touching the
// world.
const (
	OpFill     = "FILL"
	OpReplace  = "REPLACE"
	OpOutline  = "OUTLINE"
	OpWalls    = "WALLS"
	OpHollow   = "HOLLOW"
	OpExpand   = "EXPAND"
	OpContract = "CONTRACT"
	OpShift    = "SHIFT"
)

// BaseMessage lets us route unknown JSON messages by type.
type BaseMessage struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version,omitempty"`
}

func DecodeBase(b []byte) (BaseMessage, error) {
	var m BaseMessage
	err := json.Unmarshal(b, &m)
	return m, err
}
