// Package protocol implements the ventilator wire codec: frame detection,
// CRC-32 integrity, the coexisting v1/v2 body grammars, and the streaming
// decoder that ties them together with the resync policy described in
// internal/wire's error taxonomy.
//
// # Frame layout
//
// Both directions share one envelope shape: a 2-byte header, a variable
// body, a big-endian CRC-32 of the body, and a 2-byte footer. Telemetry
// (device to host) uses header 03 0C / footer 30 C0; control (host to
// device) uses header 05 0A / footer 50 A0. See frame.go.
//
// # Decoding
//
//	var buf []byte
//	for {
//	    buf = append(buf, nextByte())
//	    rec, consumed, err := protocol.Decode(buf)
//	    switch {
//	    case errors.Is(err, protocol.ErrNeedMore):
//	        continue
//	    case err != nil:
//	        // err is a *wire.ProtocolError; log it, then advance by
//	        // consumed, or by one byte when consumed is zero
//	        if consumed == 0 {
//	            consumed = 1
//	        }
//	        buf = buf[consumed:]
//	    default:
//	        buf = buf[consumed:]
//	        handle(rec)
//	    }
//	}
//
// Decode always tries the v2 body grammar before v1; the two are
// disambiguated by the version byte immediately following the message-kind
// prefix, not by anything in the framing itself.
//
// # Encoding
//
// Serialize encodes a wire.Record back to an unframed body for a given
// protocol version; EncodeCommand encodes a wire.Command as a complete
// control frame. Records introduced in v2 serialize to an empty body under
// v1 (and log a warning), per the coexistence policy.
package protocol
