package transport

import (
	"context"
	"sync"
	"time"

	"github.com/aerovent/ventcore/internal/logging"
	"github.com/aerovent/ventcore/internal/protocol"
	"github.com/aerovent/ventcore/internal/wire"
	"go.bug.st/serial"
)

// SerialOptions configures a serial transport session.
type SerialOptions struct {
	BaudRate int    // defaults to 115200
	CaptureFile string // optional; empty disables capture
	ReadTimeout time.Duration // defaults to 100ms
}

func (o SerialOptions) withDefaults() SerialOptions {
	if o.BaudRate == 0 {
		o.BaudRate = 115200
	}
	if o.ReadTimeout == 0 {
		o.ReadTimeout = 100 * time.Millisecond
	}
	return o
}

// SerialSession drives the wire protocol over a serial port, per §4.4.1:
// open 115200 8N1 no flow control, read one byte at a time with a
// timeout, drain frames out of the accumulated buffer after every
// successful read, and non-blockingly drain the command channel between
// reads. The port is guarded by a single mutex shared across reads and
// writes, so a command write can never race a read.
type SerialSession struct {
	*sessionCore
	portName string
	opts     SerialOptions
	portMu   sync.Mutex
}

// NewSerialSession creates a session bound to portName. Call Run to
// start the loop and Stop to terminate it.
func NewSerialSession(portName string, opts SerialOptions) *SerialSession {
	return &SerialSession{
		sessionCore: newSessionCore("serial"),
		portName:    portName,
		opts:        opts.withDefaults(),
	}
}

// Run executes the session loop until ctx is cancelled or Stop is
// called. It blocks; callers invoke it on its own goroutine.
func (s *SerialSession) Run(ctx context.Context) {
	capture, err := openCapture(s.opts.CaptureFile)
	if err != nil {
		s.emit(Event{Err: wire.NewIOError(err)})
		return
	}
	defer capture.close()
	defer s.setState(StateTerminated)

	for {
		if s.stopped() || ctx.Err() != nil {
			s.setState(StateTerminated)
			return
		}

		s.setState(StateConfiguring)
		mode := &serial.Mode{
			BaudRate: s.opts.BaudRate,
			DataBits: 8,
			Parity:   serial.NoParity,
			StopBits: serial.OneStopBit,
		}
		port, err := serial.Open(s.portName, mode)
		if err != nil {
			logging.Warn("failed to open serial port")
			s.recordReconnectError(err)
			s.emit(Event{Err: wire.NewIOError(err)})
			s.setState(StateClosed)
			if !s.sleepBackoff(ctx) {
				return
			}
			continue
		}
		if err := port.SetReadTimeout(s.opts.ReadTimeout); err != nil {
			_ = port.Close()
			s.emit(Event{Err: wire.NewIOError(err)})
			s.setState(StateClosed)
			if !s.sleepBackoff(ctx) {
				return
			}
			continue
		}

		s.setState(StateStreaming)
		s.streamUntilError(ctx, port, capture)
		_ = port.Close()
		s.setState(StateClosed)
		if !s.sleepBackoff(ctx) {
			return
		}
	}
}

func (s *SerialSession) streamUntilError(ctx context.Context, port serial.Port, capture *captureWriter) {
	buf := make([]byte, 0, 256)
	one := make([]byte, 1)
	for {
		if s.stopped() || ctx.Err() != nil {
			return
		}

		s.portMu.Lock()
		n, err := port.Read(one)
		s.portMu.Unlock()
		if err != nil {
			s.emit(Event{Err: wire.NewIOError(err)})
			return
		}
		if n == 0 {
			// Read timeout: no byte arrived. Drain any pending command
			// and keep waiting.
			s.drainOneCommand(port)
			continue
		}
		buf = append(buf, one[0])
		buf = drainBuffer(buf, capture, s.emit)

		s.drainOneCommand(port)
	}
}

func (s *SerialSession) drainOneCommand(port serial.Port) {
	select {
	case cmd := <-s.commands:
		frame := protocol.EncodeCommand(cmd)
		s.portMu.Lock()
		_, err := port.Write(frame)
		s.portMu.Unlock()
		if err != nil {
			logging.Warn("failed to write command to serial port")
		}
	default:
	}
}

// sleepBackoff waits reopenBackoff before the next reopen attempt,
// returning false if ctx or Stop fired during the wait.
func (s *SerialSession) sleepBackoff(ctx context.Context) bool {
	select {
	case <-time.After(reopenBackoff):
		return true
	case <-ctx.Done():
		return false
	case <-s.stopCh:
		return false
	}
}
