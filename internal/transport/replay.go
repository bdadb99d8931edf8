package transport

import (
	"context"
	"time"

	"github.com/aerovent/ventcore/internal/logging"
	"github.com/aerovent/ventcore/internal/protocol"
	"github.com/aerovent/ventcore/internal/wire"
)

// ReplayOptions configures a file-replay session.
type ReplayOptions struct {
	Path string

	// EnableTimeSimulation, when true, sleeps after dispatching certain
	// record kinds to approximate the device's native emission cadence:
	// 10ms after a DataSnapshot, 100ms after a StoppedMessage.
	EnableTimeSimulation bool
}

const (
	dataSnapshotPace = 10 * time.Millisecond
	stoppedPace      = 100 * time.Millisecond
)

// ReplaySession reads a capture file line by line (§4.4.2) and feeds
// each decoded frame through the parser exactly once; it performs no
// byte-level resync since every line is already a complete frame.
type ReplaySession struct {
	*sessionCore
	opts ReplayOptions
}

// NewReplaySession creates a session bound to a capture file.
func NewReplaySession(opts ReplayOptions) *ReplaySession {
	return &ReplaySession{
		sessionCore: newSessionCore("replay"),
		opts:        opts,
	}
}

// Run plays the capture file once and then terminates the session.
// Unlike the other adapters there is nothing to reopen on failure: a
// malformed capture file is a configuration error, not a transient I/O
// fault.
func (r *ReplaySession) Run(ctx context.Context) {
	r.setState(StateConfiguring)
	frames, err := ReadCaptureFrames(r.opts.Path)
	if err != nil {
		r.emit(Event{Err: wire.NewIOError(err)})
		r.setState(StateClosed)
		return
	}

	r.setState(StateStreaming)
	defer r.setState(StateTerminated)

	for _, frame := range frames {
		if r.stopped() || ctx.Err() != nil {
			return
		}
		rec, _, err := protocol.Decode(frame)
		if err != nil {
			if perr, ok := err.(*wire.ProtocolError); err == protocol.ErrNeedMore || (ok && perr.Kind == wire.ErrorKindParser) {
				logging.LogRawBytes("skipping undecodable capture line", frame)
				continue
			}
			r.emit(Event{Err: err})
			continue
		}
		r.emit(Event{Record: rec})

		if !r.opts.EnableTimeSimulation {
			continue
		}
		switch rec.(type) {
		case wire.DataSnapshot:
			r.sleep(ctx, dataSnapshotPace)
		case wire.StoppedMessage:
			r.sleep(ctx, stoppedPace)
		}
	}
}

func (r *ReplaySession) sleep(ctx context.Context, d time.Duration) {
	select {
	case <-time.After(d):
	case <-ctx.Done():
	case <-r.stopCh:
	}
}
