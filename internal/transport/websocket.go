package transport

import (
	"context"
	"time"

	"github.com/aerovent/ventcore/internal/logging"
	"github.com/aerovent/ventcore/internal/protocol"
	"github.com/aerovent/ventcore/internal/wire"
	"github.com/gorilla/websocket"
)

// WebSocketOptions configures a WebSocket transport session.
type WebSocketOptions struct {
	URL         string
	CaptureFile string // optional
}

// WebSocketSession drives the wire protocol over a WebSocket connection
// (§4.4.3). Each inbound binary message is fed to the parser as a
// single, complete frame: NeedMore on a WS message is treated as a
// corrupt message and discarded rather than buffered across messages,
// since WS already delivers message boundaries. The connection is
// reopened 1 second after any socket error.
type WebSocketSession struct {
	*sessionCore
	opts WebSocketOptions
}

// NewWebSocketSession creates a session that connects to opts.URL.
func NewWebSocketSession(opts WebSocketOptions) *WebSocketSession {
	return &WebSocketSession{
		sessionCore: newSessionCore("websocket"),
		opts:        opts,
	}
}

// Run executes the session loop until ctx is cancelled or Stop is
// called.
func (w *WebSocketSession) Run(ctx context.Context) {
	capture, err := openCapture(w.opts.CaptureFile)
	if err != nil {
		w.emit(Event{Err: wire.NewIOError(err)})
		return
	}
	defer capture.close()
	defer w.setState(StateTerminated)

	for {
		if w.stopped() || ctx.Err() != nil {
			w.setState(StateTerminated)
			return
		}

		w.setState(StateConfiguring)
		conn, _, err := websocket.DefaultDialer.DialContext(ctx, w.opts.URL, nil)
		if err != nil {
			logging.Warn("failed to dial websocket peer")
			w.recordReconnectError(err)
			w.emit(Event{Err: wire.NewIOError(err)})
			w.setState(StateClosed)
			if !w.sleepBackoff(ctx) {
				return
			}
			continue
		}

		w.setState(StateStreaming)
		w.streamUntilError(ctx, conn, capture)
		_ = conn.Close()
		w.setState(StateClosed)
		if !w.sleepBackoff(ctx) {
			return
		}
	}
}

func (w *WebSocketSession) streamUntilError(ctx context.Context, conn *websocket.Conn, capture *captureWriter) {
	done := make(chan struct{})
	defer close(done)

	go func() {
		for {
			select {
			case <-done:
				return
			case cmd, ok := <-w.commands:
				if !ok {
					return
				}
				frame := protocol.EncodeCommand(cmd)
				if err := conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
					logging.Warn("failed to write command to websocket peer")
				}
			}
		}
	}()

	for {
		if w.stopped() || ctx.Err() != nil {
			return
		}
		msgType, payload, err := conn.ReadMessage()
		if err != nil {
			w.emit(Event{Err: wire.NewIOError(err)})
			return
		}
		if msgType != websocket.BinaryMessage {
			continue
		}

		rec, consumed, err := protocol.Decode(payload)
		switch {
		case err == nil:
			capture.write(payload[:consumed])
			w.emit(Event{Record: rec})
		case err == protocol.ErrNeedMore:
			logging.LogRawBytes("discarding undersized websocket message", payload)
		default:
			if perr, ok := err.(*wire.ProtocolError); ok && perr.Kind == wire.ErrorKindParser {
				logging.LogRawBytes("discarding malformed websocket message", payload)
				continue
			}
			w.emit(Event{Err: err})
		}
	}
}

func (w *WebSocketSession) sleepBackoff(ctx context.Context) bool {
	select {
	case <-time.After(reopenBackoff):
		return true
	case <-ctx.Done():
		return false
	case <-w.stopCh:
		return false
	}
}
