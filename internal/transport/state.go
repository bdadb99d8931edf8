package transport

import (
	"time"

	"github.com/aerovent/ventcore/internal/logging"
	"github.com/aerovent/ventcore/internal/wire"
)

// State is a transport session's position in the shared state machine
// (§5 of the wire protocol's concurrency model).
type State int

const (
	StateClosed State = iota
	StateConfiguring
	StateStreaming
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateConfiguring:
		return "configuring"
	case StateStreaming:
		return "streaming"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// reopenBackoff is the minimum time a session waits in CLOSED before
// attempting to reopen its link, preventing a tight loop on a
// permanently broken port or peer.
const reopenBackoff = 1 * time.Second

func logSessionTransition(adapter string, from, to State) {
	if from == to {
		return
	}
	logging.LogSessionEvent(adapter, from.String(), to.String())
}

// Event is one item delivered on a session's Events channel: either a
// successfully decoded record, or a high-level error surfaced from the
// parser (CRC mismatch, unsupported version, or a transport I/O
// failure). Exactly one of Record or Err is set.
type Event struct {
	Record wire.Record
	Err    error
}
