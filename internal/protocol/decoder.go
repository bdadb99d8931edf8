package protocol

import (
	"encoding/binary"
	"errors"

	"github.com/aerovent/ventcore/internal/wire"
)

// parseStatus is the internal three-way outcome a body parser reports,
// before Decode turns it into the public (record, consumed, error) shape.
type parseStatus int

const (
	statusOK parseStatus = iota
	statusNeedMore
	statusMalformed
)

// ErrNeedMore signals that buf does not yet contain a complete frame; the
// caller should append more bytes and call Decode again with the same
// (unmodified) buffer contents.
var ErrNeedMore = errors.New("protocol: need more bytes")

// Decode attempts to parse exactly one telemetry frame from the front of
// buf. It returns one of three outcomes:
//
//   - a decoded record and the number of bytes consumed, err == nil
//   - err == ErrNeedMore, consumed == 0: wait for more bytes, buf is untouched
//   - a non-nil *wire.ProtocolError: the caller resyncs per its Kind —
//     ErrorKindParser means drop exactly one byte and retry; ErrorKindCrc
//     and ErrorKindUnsupportedVersion carry a Consumed count to advance by
//     (which may be zero, meaning the same one-byte drop as ParserError
//     when the frame's body length could not be determined, e.g. an
//     unsupported version with no matching grammar to measure it with).
func Decode(buf []byte) (wire.Record, int, error) {
	if len(buf) < 2 {
		return nil, 0, ErrNeedMore
	}
	if buf[0] != telemetryHeader[0] || buf[1] != telemetryHeader[1] {
		return nil, 0, wire.NewParserError("bad telemetry header", 0)
	}

	rest := buf[2:]
	if len(rest) < 3 {
		return nil, 0, ErrNeedMore
	}
	kind := rest[0]
	if rest[1] != ':' {
		return nil, 0, wire.NewParserError("missing kind separator", 0)
	}
	version := rest[2]
	body := rest[3:]

	r := newBodyReader(body)
	var rec wire.Record
	var status parseStatus
	switch version {
	case protocolV2:
		rec, status = parseV2Body(kind, wire.Envelope{}, r)
	case protocolV1:
		rec, status = parseV1Body(kind, wire.Envelope{}, r)
	default:
		if version > wire.MaxSupportedProtocolVersion {
			return nil, 0, wire.NewUnsupportedVersionError(version, 0)
		}
		return nil, 0, wire.NewParserError("unrecognized protocol version", 0)
	}

	switch status {
	case statusNeedMore:
		return nil, 0, ErrNeedMore
	case statusMalformed:
		return nil, 0, wire.NewParserError("malformed record body", 0)
	}

	bodyLen := 3 + r.consumed()
	tail := rest[bodyLen:]
	if len(tail) < 6 {
		return nil, 0, ErrNeedMore
	}
	embeddedCRC := binary.BigEndian.Uint32(tail[0:4])
	footer := tail[4:6]
	totalConsumed := 2 + bodyLen + 6

	if footer[0] != telemetryFooter[0] || footer[1] != telemetryFooter[1] {
		return nil, 0, wire.NewParserError("missing telemetry footer", 0)
	}

	computedCRC := crcOf(rest[:bodyLen])
	if embeddedCRC != computedCRC {
		return nil, totalConsumed, wire.NewCrcError(embeddedCRC, computedCRC, totalConsumed)
	}

	return rec, totalConsumed, nil
}

// ProtocolVersionOf extracts the version byte of the frame at the front of
// buf without running any body grammar or CRC check. The resync path in
// internal/transport calls this to log what protocol version a malformed
// frame claimed before dropping it. It returns ok=false if buf does not yet
// contain enough bytes.
func ProtocolVersionOf(buf []byte) (uint8, bool) {
	if len(buf) < 5 || buf[0] != telemetryHeader[0] || buf[1] != telemetryHeader[1] {
		return 0, false
	}
	return ProbeProtocolVersion(buf[2:])
}
