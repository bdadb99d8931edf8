package transport

import (
	"context"
	"time"

	"github.com/aerovent/ventcore/internal/wire"
)

// DefaultHeartbeatPeriod is how often RunHeartbeat emits a Heartbeat
// command absent an explicit override (§9 open question: the protocol
// leaves the interval to the host; 30s matches the config registry's
// default).
const DefaultHeartbeatPeriod = 30 * time.Second

// RunHeartbeat periodically sends a Heartbeat command (value 0, the
// ordinary "still alive" signal as opposed to the DisableRPiWatchdog
// sentinel) on commands until ctx is cancelled. It is meant to run on
// its own goroutine alongside a session's Run loop, feeding the same
// Commands() channel the application uses, since that channel is
// multi-producer by design (§5).
func RunHeartbeat(ctx context.Context, commands chan<- wire.Command, period time.Duration) {
	if period <= 0 {
		period = DefaultHeartbeatPeriod
	}
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			select {
			case commands <- wire.Command{Setting: wire.Heartbeat, Value: 0}:
			case <-ctx.Done():
				return
			}
		case <-ctx.Done():
			return
		}
	}
}
