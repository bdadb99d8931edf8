package protocol

import (
	"encoding/binary"
	"hash/crc32"
)

// Telemetry and control frame header/footer tags (§4.1, §6.1, §6.2).
var (
	telemetryHeader = [2]byte{0x03, 0x0C}
	telemetryFooter = [2]byte{0x30, 0xC0}
	controlHeader   = [2]byte{0x05, 0x0A}
	controlFooter   = [2]byte{0x50, 0xA0}
)

// crcOf computes the CRC-32 (IEEE 802.3 polynomial, reflected) of body. No
// third-party CRC library is wired here: hash/crc32's IEEE table is exactly
// this polynomial and the computation is a single pure function, so a
// dependency would add an import with no behavior the standard library
// lacks (see DESIGN.md).
func crcOf(body []byte) uint32 {
	return crc32.ChecksumIEEE(body)
}

// wrapFrame concatenates header, body, the big-endian CRC-32 of body, and
// footer into one complete frame.
func wrapFrame(header [2]byte, body []byte, footer [2]byte) []byte {
	out := make([]byte, 0, 2+len(body)+4+2)
	out = append(out, header[:]...)
	out = append(out, body...)
	var crcBytes [4]byte
	binary.BigEndian.PutUint32(crcBytes[:], crcOf(body))
	out = append(out, crcBytes[:]...)
	out = append(out, footer[:]...)
	return out
}

// WrapTelemetry frames a telemetry body (used by tests and loopback
// fixtures; a real device, not this module, emits these frames).
func WrapTelemetry(body []byte) []byte {
	return wrapFrame(telemetryHeader, body, telemetryFooter)
}

// WrapControl frames a control body for transmission to the device.
func WrapControl(body []byte) []byte {
	return wrapFrame(controlHeader, body, controlFooter)
}

// ProbeProtocolVersion extracts the version byte that follows a message-kind
// prefix (K:) without validating CRC or footer, given input positioned
// right after the 2-byte telemetry header. Returns ok=false if input is too
// short to contain a kind byte, separator, and version byte.
func ProbeProtocolVersion(afterHeader []byte) (version uint8, ok bool) {
	if len(afterHeader) < 3 {
		return 0, false
	}
	if afterHeader[1] != ':' {
		return 0, false
	}
	return afterHeader[2], true
}
