package protocol

// HELLO (client -> server)
type HelloMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	ClientName      string `json:"client_name,omitempty"`
}

// WELCOME (server -> client)
type WelcomeMsg struct {
	Type            string      `json:"type"`
	ProtocolVersion string      `json:"protocol_version"`
	SessionID       string      `json:"session_id"`
	WorldParams     WorldParams `json:"world_params"`
}

type WorldParams struct {
	Height         int    `json:"height"`
	GroundLevel    int    `json:"ground_level"`
	ChunkSize      [2]int `json:"chunk_size"`
	IterationOrder string `json:"iteration_order"`
}

// EDIT (client -> server). Pos1 and Pos2 are the named corners of the
// selection; corner order is significant for EXPAND and CONTRACT.
type EditMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	ID              string `json:"id,omitempty"`

	Op   string `json:"op"`
	Pos1 [3]int `json:"pos1"`
	Pos2 [3]int `json:"pos2"`

	Block uint16 `json:"block,omitempty"`
	From  uint16 `json:"from,omitempty"`
	To    uint16 `json:"to,omitempty"`

	// Delta batch for EXPAND/CONTRACT/SHIFT, applied in order.
	Deltas [][3]int `json:"deltas,omitempty"`

	// Optional per-request override of the server's iteration order.
	Order string `json:"order,omitempty"`
}

// RESULT (server -> client)
type ResultMsg struct {
	Type string `json:"type"`
	ID   string `json:"id,omitempty"`
	OK   bool   `json:"ok"`

	// Set on failure.
	Error *ResultError `json:"error,omitempty"`

	// Block ops.
	Changed int `json:"changed,omitempty"`
	Volume  int `json:"volume,omitempty"`

	// Region ops: the corners after the transform.
	Pos1 [3]int `json:"pos1,omitempty"`
	Pos2 [3]int `json:"pos2,omitempty"`

	TookUs int64 `json:"took_us,omitempty"`
}

type ResultError struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
}
