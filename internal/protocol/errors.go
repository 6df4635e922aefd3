package protocol

const (
	// Protocol/transport validation.
	ErrProtoBadRequest = "E_PROTO_BAD_REQUEST"

	// Edit layer.
	ErrBadRequest = "E_BAD_REQUEST"
	ErrUnknownOp  = "E_UNKNOWN_OP"
	ErrBadOrder   = "E_BAD_ORDER"
	ErrInternal   = "E_INTERNAL"
)

var knownCodes = map[string]struct{}{
	ErrProtoBadRequest: {},
	ErrBadRequest:      {},
	ErrUnknownOp:       {},
	ErrBadOrder:        {},
	ErrInternal:        {},
}

func IsKnownCode(code string) bool {
	if code == "" {
		return true
	}
	_, ok := knownCodes[code]
	return ok
}
