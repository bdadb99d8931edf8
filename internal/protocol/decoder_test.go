package protocol

import (
	"testing"

	"github.com/aerovent/ventcore/internal/wire"
)

func sampleBoot(version uint8) wire.BootMessage {
	return wire.BootMessage{
		Envelope: wire.Envelope{
			TelemetryVersion: version,
			FirmwareVersion:  "test",
			DeviceID:         wire.DeviceID{A: 0, B: 0, C: 0},
			Systick:          10,
		},
		Mode:     wire.ModeProduction,
		Value128: 128,
	}
}

func TestBootRoundTripV2(t *testing.T) {
	rec := sampleBoot(2)
	body, err := Serialize(rec, 2)
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	frame := WrapTelemetry(body)
	got, consumed, err := Decode(frame)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if consumed != len(frame) {
		t.Fatalf("consumed = %d, want %d", consumed, len(frame))
	}
	boot, ok := got.(wire.BootMessage)
	if !ok {
		t.Fatalf("got %T, want wire.BootMessage", got)
	}
	if !boot.Value128Valid() {
		t.Fatalf("value128 = %d, want 128", boot.Value128)
	}
	if boot.Mode != wire.ModeProduction {
		t.Fatalf("mode = %v, want production", boot.Mode)
	}
}

func TestBootRoundTripV1(t *testing.T) {
	rec := sampleBoot(1)
	body, err := Serialize(rec, 1)
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	frame := WrapTelemetry(body)
	got, _, err := Decode(frame)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.(wire.BootMessage).Envelope.TelemetryVersion != 1 {
		t.Fatalf("expected v1 envelope")
	}
}

func TestDecodeNeedMoreOnTruncatedFrame(t *testing.T) {
	rec := sampleBoot(2)
	body, _ := Serialize(rec, 2)
	frame := WrapTelemetry(body)
	for i := 1; i < len(frame); i++ {
		_, _, err := Decode(frame[:i])
		if err != ErrNeedMore {
			t.Fatalf("at length %d: got err %v, want ErrNeedMore", i, err)
		}
	}
	_, consumed, err := Decode(frame)
	if err != nil {
		t.Fatalf("final decode: %v", err)
	}
	if consumed != len(frame) {
		t.Fatalf("consumed = %d, want %d", consumed, len(frame))
	}
}

func TestDecodeCrcMismatch(t *testing.T) {
	rec := sampleBoot(2)
	body, _ := Serialize(rec, 2)
	frame := WrapTelemetry(body)
	// Flip a bit in the CRC field (4 bytes before the footer).
	crcStart := len(frame) - 6
	frame[crcStart] ^= 0xFF

	_, consumed, err := Decode(frame)
	if err == nil {
		t.Fatal("expected crc error")
	}
	perr, ok := err.(*wire.ProtocolError)
	if !ok || perr.Kind != wire.ErrorKindCrc {
		t.Fatalf("err = %v, want crc error", err)
	}
	if consumed != len(frame) {
		t.Fatalf("consumed = %d, want %d", consumed, len(frame))
	}
	if perr.CrcComputed == perr.CrcExpected {
		t.Fatal("expected and computed crc should differ")
	}
}

func TestDecodeUnsupportedVersion(t *testing.T) {
	rec := sampleBoot(2)
	body, _ := Serialize(rec, 2)
	body[2] = 3 // mutate version byte
	frame := WrapTelemetry(body)

	_, _, err := Decode(frame)
	perr, ok := err.(*wire.ProtocolError)
	if !ok || perr.Kind != wire.ErrorKindUnsupportedVersion {
		t.Fatalf("err = %v, want unsupported version error", err)
	}
	if perr.Found != 3 || perr.MaxSupported != wire.MaxSupportedProtocolVersion {
		t.Fatalf("found=%d maxSupported=%d", perr.Found, perr.MaxSupported)
	}
}

func TestDecodeResyncAfterGarbage(t *testing.T) {
	rec := sampleBoot(2)
	body, _ := Serialize(rec, 2)
	valid := WrapTelemetry(body)
	garbage := []byte{0xFF, 0xFF, 0x00, 0x01}
	stream := append(append([]byte{}, garbage...), valid...)

	consumedTotal := 0
	var got wire.Record
	for consumedTotal < len(stream) {
		rec, n, err := Decode(stream[consumedTotal:])
		if err == ErrNeedMore {
			t.Fatal("should not need more with full stream present")
		}
		if err != nil {
			perr := err.(*wire.ProtocolError)
			if perr.Consumed > 0 {
				consumedTotal += perr.Consumed
			} else {
				consumedTotal++
			}
			continue
		}
		got = rec
		consumedTotal += n
		break
	}
	if got == nil {
		t.Fatal("expected to eventually decode the valid frame")
	}
	if _, ok := got.(wire.BootMessage); !ok {
		t.Fatalf("got %T, want wire.BootMessage", got)
	}
}

// TestDecodeMalformedSeparatorIsParserError covers the case the garbage-prefix
// test above doesn't: a frame whose header and kind/version prefix matched
// fine, but a separator byte inside the body is corrupted. This must report
// a recoverable ParserError, not ErrNeedMore — a present-but-wrong byte is
// not the same as buffer exhaustion, and misreporting it as NeedMore would
// wedge the decoder on this frame forever no matter how many more bytes
// arrive.
func TestDecodeMalformedSeparatorIsParserError(t *testing.T) {
	rec := sampleBoot(2)
	body, _ := Serialize(rec, 2)
	frame := WrapTelemetry(body)

	// First separator sits right after kind(1)+':'(1)+version(1)+str(1+4)+deviceID(12).
	sepOffset := 2 + 3 + 1 + len(rec.Envelope.FirmwareVersion) + 12
	if frame[sepOffset] != 0x09 {
		t.Fatalf("test setup: frame[%d] = %#x, want separator 0x09", sepOffset, frame[sepOffset])
	}
	frame[sepOffset] = 0x41 // corrupt, but still a present byte

	_, consumed, err := Decode(frame)
	if err == ErrNeedMore {
		t.Fatal("a present-but-wrong separator byte must not report NeedMore")
	}
	perr, ok := err.(*wire.ProtocolError)
	if !ok || perr.Kind != wire.ErrorKindParser {
		t.Fatalf("err = %v, want a parser error", err)
	}
	if consumed != 0 {
		t.Fatalf("consumed = %d, want 0 (caller drops one byte and retries)", consumed)
	}

	// Appending more bytes must not change the outcome: the corruption is
	// at a fixed offset, so this is genuinely malformed, not truncated.
	longer := append(append([]byte{}, frame...), frame...)
	_, _, err2 := Decode(longer)
	if err2 == ErrNeedMore {
		t.Fatal("appending more bytes must not turn a malformed frame into NeedMore")
	}
}

// TestDecodeResyncAfterMalformedSeparator exercises the full drop-one-byte
// resync loop (as decodeloop.drainBuffer performs it) against a frame whose
// "03 0C" header matched but whose body separator was corrupted, followed
// by a clean valid frame. The decoder must eventually recover and decode
// the valid frame rather than getting permanently stuck on the first one.
func TestDecodeResyncAfterMalformedSeparator(t *testing.T) {
	rec := sampleBoot(2)
	body, _ := Serialize(rec, 2)
	bad := WrapTelemetry(body)
	sepOffset := 3 + 1 + len(rec.Envelope.FirmwareVersion) + 12 // offset within bad[2:]
	bad[2+sepOffset] = 0x41

	good := WrapTelemetry(body)
	stream := append(append([]byte{}, bad...), good...)

	consumedTotal := 0
	var got wire.Record
	iterations := 0
	for consumedTotal < len(stream) {
		iterations++
		if iterations > len(stream)+1 {
			t.Fatal("resync loop did not converge: decoder is wedged")
		}
		rec, n, err := Decode(stream[consumedTotal:])
		if err == ErrNeedMore {
			t.Fatal("should not need more with full stream present")
		}
		if err != nil {
			perr := err.(*wire.ProtocolError)
			if perr.Consumed > 0 {
				consumedTotal += perr.Consumed
			} else {
				consumedTotal++
			}
			continue
		}
		got = rec
		consumedTotal += n
		break
	}
	if got == nil {
		t.Fatal("expected to eventually decode the valid frame")
	}
	if _, ok := got.(wire.BootMessage); !ok {
		t.Fatalf("got %T, want wire.BootMessage", got)
	}
}

func TestMachineStateSnapshotVolumeSentinel(t *testing.T) {
	m := wire.MachineStateSnapshot{
		Envelope:          wire.Envelope{TelemetryVersion: 2, FirmwareVersion: "t", DeviceID: wire.DeviceID{}, Systick: 1},
		Cycle:             1,
		CurrentAlarmCodes: []uint8{},
		PreviousVolume:    nil,
		Settings:          &wire.StoppedSettings{VentilationMode: wire.ModePCAC},
	}
	body, err := Serialize(m, 2)
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	frame := WrapTelemetry(body)
	got, _, err := Decode(frame)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	snap := got.(wire.MachineStateSnapshot)
	if snap.PreviousVolume != nil {
		t.Fatalf("expected nil previous volume, got %v", *snap.PreviousVolume)
	}
}

func TestEncodeCommand(t *testing.T) {
	cmd := wire.Command{Setting: wire.PeepCommand, Value: 0}
	frame := EncodeCommand(cmd)
	if frame[0] != 0x05 || frame[1] != 0x0A {
		t.Fatalf("bad control header: % x", frame[:2])
	}
	if frame[len(frame)-2] != 0x50 || frame[len(frame)-1] != 0xA0 {
		t.Fatalf("bad control footer: % x", frame[len(frame)-2:])
	}
}
