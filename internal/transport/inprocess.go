package transport

import (
	"context"

	"github.com/aerovent/ventcore/internal/protocol"
)

// ByteSession drives the wire protocol over a pair of in-process byte
// channels (§4.4.4), for hosts that already own their I/O (an embedded
// firmware bridge, a test harness) and just want the codec. It is
// identical to SerialSession except "read a byte" becomes "receive a
// byte slice from Input" and "write a frame" becomes "send bytes on
// Output".
type ByteSession struct {
	*sessionCore
	Input   chan []byte
	Output  chan []byte
	capture *captureWriter
}

// NewByteSession creates a byte-channel session. capturePath is
// optional; an empty string disables capture.
func NewByteSession(capturePath string) (*ByteSession, error) {
	capture, err := openCapture(capturePath)
	if err != nil {
		return nil, err
	}
	return &ByteSession{
		sessionCore: newSessionCore("inprocess"),
		Input:       make(chan []byte, 64),
		Output:      make(chan []byte, 64),
		capture:     capture,
	}, nil
}

// Run executes the loop until ctx is cancelled, Stop is called, or
// Input is closed.
func (b *ByteSession) Run(ctx context.Context) {
	defer b.capture.close()
	b.setState(StateStreaming)
	defer b.setState(StateTerminated)

	buf := make([]byte, 0, 256)
	for {
		select {
		case chunk, ok := <-b.Input:
			if !ok {
				return
			}
			buf = append(buf, chunk...)
			buf = drainBuffer(buf, b.capture, b.emit)
		case cmd := <-b.commands:
			frame := protocol.EncodeCommand(cmd)
			select {
			case b.Output <- frame:
			case <-ctx.Done():
				return
			case <-b.stopCh:
				return
			}
		case <-ctx.Done():
			return
		case <-b.stopCh:
			return
		}
	}
}
