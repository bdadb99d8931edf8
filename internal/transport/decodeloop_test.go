package transport

import (
	"testing"

	"github.com/aerovent/ventcore/internal/protocol"
	"github.com/aerovent/ventcore/internal/wire"
)

func TestDrainBufferEmitsRecordAndConsumesFrame(t *testing.T) {
	rec := wire.BootMessage{
		Envelope: wire.Envelope{TelemetryVersion: 2, FirmwareVersion: "t", DeviceID: wire.DeviceID{A: 1}, Systick: 9},
		Mode:     wire.ModeProduction,
		Value128: 128,
	}
	body, _ := protocol.Serialize(rec, 2)
	frame := protocol.WrapTelemetry(body)

	var events []Event
	rest := drainBuffer(append([]byte{}, frame...), nil, func(ev Event) {
		events = append(events, ev)
	})

	if len(rest) != 0 {
		t.Fatalf("leftover buffer = %d bytes, want 0", len(rest))
	}
	if len(events) != 1 || events[0].Err != nil {
		t.Fatalf("events = %+v, want one successful event", events)
	}
	if _, ok := events[0].Record.(wire.BootMessage); !ok {
		t.Fatalf("record type = %T, want wire.BootMessage", events[0].Record)
	}
}

func TestDrainBufferWaitsOnPartialFrame(t *testing.T) {
	rec := wire.BootMessage{
		Envelope: wire.Envelope{TelemetryVersion: 2, FirmwareVersion: "t", DeviceID: wire.DeviceID{A: 1}, Systick: 9},
		Mode:     wire.ModeProduction,
		Value128: 128,
	}
	body, _ := protocol.Serialize(rec, 2)
	frame := protocol.WrapTelemetry(body)
	partial := frame[:len(frame)-1]

	var events []Event
	rest := drainBuffer(append([]byte{}, partial...), nil, func(ev Event) {
		events = append(events, ev)
	})

	if len(events) != 0 {
		t.Fatalf("expected no events on a partial frame, got %+v", events)
	}
	if len(rest) != len(partial) {
		t.Fatalf("drainBuffer should preserve a partial frame untouched, got %d bytes, want %d", len(rest), len(partial))
	}
}

func TestDrainBufferResyncsPastGarbage(t *testing.T) {
	rec := wire.BootMessage{
		Envelope: wire.Envelope{TelemetryVersion: 2, FirmwareVersion: "t", DeviceID: wire.DeviceID{A: 1}, Systick: 9},
		Mode:     wire.ModeProduction,
		Value128: 128,
	}
	body, _ := protocol.Serialize(rec, 2)
	frame := protocol.WrapTelemetry(body)
	garbage := append([]byte{0xFF, 0xFF, 0x00}, frame...)

	var events []Event
	rest := drainBuffer(garbage, nil, func(ev Event) {
		events = append(events, ev)
	})

	if len(rest) != 0 {
		t.Fatalf("leftover buffer = %d bytes, want 0", len(rest))
	}
	if len(events) != 1 || events[0].Err != nil {
		t.Fatalf("events = %+v, want exactly one successful event after resync", events)
	}
}

// TestDrainBufferResyncsPastMalformedHeaderedFrame covers a frame whose
// "03 0C" header matched but whose body holds a corrupted separator byte,
// followed by a clean frame. Misclassifying the corrupted separator as
// NeedMore would make drainBuffer return immediately and never advance,
// permanently wedging the stream on this frame.
func TestDrainBufferResyncsPastMalformedHeaderedFrame(t *testing.T) {
	rec := wire.BootMessage{
		Envelope: wire.Envelope{TelemetryVersion: 2, FirmwareVersion: "t", DeviceID: wire.DeviceID{A: 1}, Systick: 9},
		Mode:     wire.ModeProduction,
		Value128: 128,
	}
	body, _ := protocol.Serialize(rec, 2)
	bad := protocol.WrapTelemetry(body)
	sepOffset := 2 + 3 + 1 + len(rec.Envelope.FirmwareVersion) + 12
	bad[sepOffset] = 0x41 // corrupt the first body separator

	good := protocol.WrapTelemetry(body)
	stream := append(append([]byte{}, bad...), good...)

	var events []Event
	rest := drainBuffer(stream, nil, func(ev Event) {
		events = append(events, ev)
	})

	if len(rest) != 0 {
		t.Fatalf("leftover buffer = %d bytes, want 0 (decoder must not wedge)", len(rest))
	}
	var gotRecord bool
	for _, ev := range events {
		if ev.Record != nil {
			gotRecord = true
		}
	}
	if !gotRecord {
		t.Fatalf("events = %+v, want the trailing valid frame to eventually decode", events)
	}
}
