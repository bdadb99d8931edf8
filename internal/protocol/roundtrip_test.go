package protocol

import (
	"testing"

	"github.com/aerovent/ventcore/internal/wire"
	"pgregory.net/rapid"
)

func genDeviceID(t *rapid.T) wire.DeviceID {
	return wire.DeviceID{
		A: uint32(rapid.Uint32().Draw(t, "a")),
		B: uint32(rapid.Uint32().Draw(t, "b")),
		C: uint32(rapid.Uint32().Draw(t, "c")),
	}
}

func genEnvelope(t *rapid.T, version uint8) wire.Envelope {
	return wire.Envelope{
		TelemetryVersion: version,
		FirmwareVersion:  rapid.StringOfN(rapid.RuneFrom(nil, rapid.CharRange('a', 'z')), 0, 20, -1).Draw(t, "firmware"),
		DeviceID:         genDeviceID(t),
		Systick:          rapid.Uint64().Draw(t, "systick"),
	}
}

func genBoot(t *rapid.T, version uint8) wire.BootMessage {
	modes := []wire.Mode{wire.ModeProduction, wire.ModeQualification, wire.ModeIntegrationTest}
	return wire.BootMessage{
		Envelope: genEnvelope(t, version),
		Mode:     rapid.SampledFrom(modes).Draw(t, "mode"),
		Value128: rapid.Uint8().Draw(t, "value128"),
	}
}

func genAlarmTrap(t *rapid.T, version uint8) wire.AlarmTrap {
	priorities := []wire.AlarmPriority{wire.PriorityHigh, wire.PriorityMedium, wire.PriorityLow}
	return wire.AlarmTrap{
		Envelope:           genEnvelope(t, version),
		Code:               rapid.Uint8().Draw(t, "code"),
		Priority:           rapid.SampledFrom(priorities).Draw(t, "priority"),
		Triggered:          rapid.Bool().Draw(t, "triggered"),
		ExpectedValue:      rapid.Uint32().Draw(t, "expected"),
		MeasuredValue:      rapid.Uint32().Draw(t, "measured"),
		CyclesSinceTrigger: rapid.Uint32().Draw(t, "cycles"),
	}
}

func genControlAck(t *rapid.T, version uint8) wire.ControlAck {
	return wire.ControlAck{
		Envelope: genEnvelope(t, version),
		Setting:  wire.Setting(rapid.IntRange(0, 30).Draw(t, "setting")),
		Value:    uint16(rapid.Uint16().Draw(t, "value")),
	}
}

// P1: round-trip for Boot, AlarmTrap, ControlAck under both versions.
func TestP1RoundTrip(t *testing.T) {
	for _, version := range []uint8{1, 2} {
		version := version
		t.Run("boot", func(t *testing.T) {
			rapid.Check(t, func(t *rapid.T) {
				rec := genBoot(t, version)
				assertRoundTrips(t, rec, version)
			})
		})
		t.Run("alarm_trap", func(t *testing.T) {
			rapid.Check(t, func(t *rapid.T) {
				rec := genAlarmTrap(t, version)
				assertRoundTrips(t, rec, version)
			})
		})
		t.Run("control_ack", func(t *testing.T) {
			rapid.Check(t, func(t *rapid.T) {
				rec := genControlAck(t, version)
				assertRoundTrips(t, rec, version)
			})
		})
	}
}

func assertRoundTrips(t *rapid.T, rec wire.Record, version uint8) {
	body, err := Serialize(rec, version)
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	frame := WrapTelemetry(body)
	got, consumed, err := Decode(frame)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if consumed != len(frame) {
		t.Fatalf("consumed %d, want %d", consumed, len(frame))
	}
	if got != rec {
		t.Fatalf("round trip mismatch:\n  in:  %+v\n  out: %+v", rec, got)
	}
}

// P2: a mutated CRC is always rejected, and the expected/computed values
// reported are distinct from one another.
func TestP2CrcRejection(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		rec := genBoot(t, 2)
		body, _ := Serialize(rec, 2)
		frame := WrapTelemetry(body)
		crcStart := len(frame) - 6
		mutation := rapid.Uint8Range(1, 255).Draw(t, "mutation")
		frame[crcStart+3] ^= mutation

		_, consumed, err := Decode(frame)
		perr, ok := err.(*wire.ProtocolError)
		if !ok || perr.Kind != wire.ErrorKindCrc {
			t.Fatalf("err = %v, want crc error", err)
		}
		if perr.CrcExpected == perr.CrcComputed {
			t.Fatal("mutated crc should not equal the computed one")
		}
		if consumed != len(frame) {
			t.Fatalf("consumed %d, want %d", consumed, len(frame))
		}
	})
}

// P3: a version byte beyond MaxSupportedProtocolVersion always yields
// ErrorKindUnsupportedVersion, never a plain parser error.
func TestP3VersionRejection(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		rec := genBoot(t, 2)
		body, _ := Serialize(rec, 2)
		body[2] = rapid.Uint8Range(wire.MaxSupportedProtocolVersion+1, 255).Draw(t, "version")
		frame := WrapTelemetry(body)

		_, _, err := Decode(frame)
		perr, ok := err.(*wire.ProtocolError)
		if !ok || perr.Kind != wire.ErrorKindUnsupportedVersion {
			t.Fatalf("err = %v, want unsupported version error", err)
		}
	})
}

// P4: for garbage ++ valid_frame of any composition, repeatedly dropping one
// byte per non-NeedMore, non-success Decode invocation reaches the valid
// frame in at most len(garbage) invocations. This also guards against any
// single Decode invocation reporting NeedMore when the frame it's looking at
// is not actually truncated — doing so would stall the loop below forever
// rather than just taking until len(garbage) iterations.
func TestP4Resync(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		rec := genBoot(t, 2)
		body, _ := Serialize(rec, 2)
		valid := WrapTelemetry(body)

		garbageLen := rapid.IntRange(0, 32).Draw(t, "garbage_len")
		garbage := make([]byte, garbageLen)
		for i := range garbage {
			garbage[i] = byte(rapid.IntRange(0, 255).Draw(t, "garbage_byte"))
		}
		stream := append(append([]byte{}, garbage...), valid...)

		consumedTotal := 0
		iterations := 0
		maxIterations := garbageLen + 1
		for consumedTotal < len(stream) {
			if iterations > maxIterations {
				t.Fatalf("exceeded %d invocations without reaching the valid frame: decoder is stuck", maxIterations)
			}
			iterations++
			rec, n, err := Decode(stream[consumedTotal:])
			if err == ErrNeedMore {
				t.Fatalf("Decode reported NeedMore at offset %d, but the full stream is present", consumedTotal)
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
			if _, ok := rec.(wire.BootMessage); !ok {
				t.Fatalf("got %T, want wire.BootMessage", rec)
			}
			return
		}
		t.Fatal("consumed the whole stream without decoding the valid frame")
	})
}

// P5: alarm priority has a strict total order, High > Medium > Low, with
// reflexive equality.
func TestP5AlarmPriorityOrdering(t *testing.T) {
	if wire.PriorityHigh.Compare(wire.PriorityMedium) <= 0 {
		t.Fatal("high should outrank medium")
	}
	if wire.PriorityMedium.Compare(wire.PriorityLow) <= 0 {
		t.Fatal("medium should outrank low")
	}
	if wire.PriorityHigh.Compare(wire.PriorityLow) <= 0 {
		t.Fatal("high should outrank low")
	}
	for _, p := range []wire.AlarmPriority{wire.PriorityHigh, wire.PriorityMedium, wire.PriorityLow} {
		if p.Compare(p) != 0 {
			t.Fatalf("%v should compare equal to itself", p)
		}
	}
}

// P6: the four documented adjacency pairs hold, and a medium-priority code
// has no adjacent counterpart of its own.
func TestP6AlarmAdjacency(t *testing.T) {
	pairs := map[uint8]uint8{13: 21, 11: 24, 12: 22, 14: 23}
	for high, medium := range pairs {
		hc, ok := wire.LookupAlarmCode(high)
		if !ok {
			t.Fatalf("code %d missing from table", high)
		}
		adj, ok := hc.Adjacent()
		if !ok || adj.Code != medium {
			t.Fatalf("adjacent(%d) = %v, want %d", high, adj, medium)
		}
		mc, ok := wire.LookupAlarmCode(medium)
		if !ok {
			t.Fatalf("code %d missing from table", medium)
		}
		if _, ok := mc.Adjacent(); ok {
			t.Fatalf("medium code %d should have no adjacent counterpart", medium)
		}
	}
}

// P7: every two-letter lowercase locale round-trips through its wire form.
func TestP7LocaleRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := rapid.RuneFrom(nil, rapid.CharRange('a', 'z')).Draw(t, "a")
		b := rapid.RuneFrom(nil, rapid.CharRange('a', 'z')).Draw(t, "b")
		s := string([]rune{a, b})
		loc, err := wire.NewLocale(s)
		if err != nil {
			t.Fatalf("NewLocale(%q): %v", s, err)
		}
		if loc.String() != s {
			t.Fatalf("round trip: %q -> %q", s, loc.String())
		}
	})
}

// P8: a nil PreviousVolume serializes to the 0xFFFF sentinel and parses
// back to nil.
func TestP8VolumeSentinel(t *testing.T) {
	m := wire.MachineStateSnapshot{
		Envelope:          wire.Envelope{TelemetryVersion: 2, FirmwareVersion: "fw", DeviceID: wire.DeviceID{A: 1, B: 2, C: 3}, Systick: 99},
		Cycle:             7,
		CurrentAlarmCodes: []uint8{11, 21},
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
		t.Fatalf("expected nil, got %v", *snap.PreviousVolume)
	}
}

// P9: feeding one byte at a time yields ErrNeedMore for every prefix except
// the full frame, which yields the record.
func TestP9Incremental(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		rec := genBoot(t, 2)
		body, _ := Serialize(rec, 2)
		frame := WrapTelemetry(body)

		for i := 1; i < len(frame); i++ {
			if _, _, err := Decode(frame[:i]); err != ErrNeedMore {
				t.Fatalf("prefix length %d: err = %v, want ErrNeedMore", i, err)
			}
		}
		got, consumed, err := Decode(frame)
		if err != nil {
			t.Fatalf("full frame: %v", err)
		}
		if consumed != len(frame) {
			t.Fatalf("consumed %d, want %d", consumed, len(frame))
		}
		if got != wire.Record(rec) {
			t.Fatalf("mismatch after incremental feed")
		}
	})
}
