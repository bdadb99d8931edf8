package transport

import (
	"errors"
	"fmt"

	"github.com/aerovent/ventcore/internal/logging"
	"github.com/aerovent/ventcore/internal/protocol"
	"github.com/aerovent/ventcore/internal/wire"
)

// drainBuffer repeatedly attempts to decode frames out of buf, emitting
// one Event per outcome and applying the resync policy from §4.2:
// NeedMore stops and preserves the buffer, a CRC or unsupported-version
// error advances past the attempted frame and is still surfaced, and
// any other parser error drops a single leading byte and retries. It
// returns the remaining, not-yet-decoded tail of buf.
func drainBuffer(buf []byte, capture *captureWriter, emit func(Event)) []byte {
	for {
		if len(buf) == 0 {
			return buf
		}
		rec, consumed, err := protocol.Decode(buf)
		switch {
		case err == nil:
			capture.write(buf[:consumed])
			emit(Event{Record: rec})
			buf = buf[consumed:]
		case errors.Is(err, protocol.ErrNeedMore):
			return buf
		default:
			perr, ok := err.(*wire.ProtocolError)
			if !ok {
				emit(Event{Err: err})
				buf = buf[1:]
				continue
			}
			switch perr.Kind {
			case wire.ErrorKindCrc:
				logging.LogCrcMismatch(perr.CrcExpected, perr.CrcComputed, perr.Consumed)
				emit(Event{Err: perr})
				buf = advance(buf, perr.Consumed)
			case wire.ErrorKindUnsupportedVersion:
				logging.LogUnsupportedVersion(perr.MaxSupported, perr.Found)
				emit(Event{Err: perr})
				buf = advance(buf, perr.Consumed)
			default:
				// ProtocolVersionOf peeks at the version byte without
				// running the body grammar, so the drop-one-byte resync
				// still reports what the frame claimed to be.
				if version, ok := protocol.ProtocolVersionOf(buf); ok {
					logging.LogRawBytes(fmt.Sprintf("dropping malformed byte, probed protocol version %d", version), buf)
				} else {
					logging.LogRawBytes("dropping malformed byte during resync", buf)
				}
				buf = advance(buf, maxInt(perr.Consumed, 1))
			}
		}
	}
}

func advance(buf []byte, n int) []byte {
	if n <= 0 || n > len(buf) {
		drop := 1
		if len(buf) < drop {
			drop = len(buf)
		}
		return buf[drop:]
	}
	return buf[n:]
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
