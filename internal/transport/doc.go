// Package transport drives the wire protocol over four kinds of link:
// a serial port, a WebSocket connection, a recorded capture file played
// back for replay, and an in-process byte channel for hosts that manage
// their own I/O. Each adapter runs a loop on its own goroutine, feeding
// bytes to internal/protocol.Decode and forwarding the result — a
// decoded record or a high-level error — on an Events channel. The
// serial, WebSocket and in-process adapters also drain operator Commands
// from a second channel and write them to the peer; the replay adapter
// has no peer and does not read Commands.
//
// All four adapters share the same session state machine:
//
//	CLOSED --open--> CONFIGURING --ok--> STREAMING --io_error--> CLOSED
//	  ^                  |                    |
//	  |                  +-fail--> CLOSED     +-stop--> TERMINATED
//	  |                                       |
//	  +------- 1s backoff -------------------+
//
// Re-entry to CLOSED always waits at least one second before retrying,
// so a permanently broken port does not spin the loop. TERMINATED is
// entered when the host ends the session (Stop, cancelling Run's context,
// or closing a ByteSession's Input) and when a ReplaySession has played
// its whole file; the serial and WebSocket loops never enter it on their
// own after an I/O error.
//
// # Usage Example
//
//	sess := transport.NewSerialSession("/dev/ttyUSB0", transport.SerialOptions{
//	    CaptureFile: "capture.jsonl",
//	})
//	go sess.Run(ctx)
//	for ev := range sess.Events() {
//	    if ev.Err != nil {
//	        log.Println(ev.Err)
//	        continue
//	    }
//	    fmt.Printf("%+v\n", ev.Record)
//	}
package transport
