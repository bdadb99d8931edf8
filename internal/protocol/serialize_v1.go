package protocol

import (
	"fmt"

	"github.com/aerovent/ventcore/internal/wire"
	"github.com/aerovent/ventcore/internal/logging"
)

// Serialize encodes rec as a frame body (no header/CRC/footer) for the
// given protocol version. Records introduced in v2 (FatalError,
// EolTestSnapshot) serialize to an empty body under version 1 and log a
// warning, per the coexistence policy; they are never rejected outright,
// since a host that doesn't yet know about a v2-only record kind should
// still be able to round-trip everything else on the wire.
func Serialize(rec wire.Record, version uint8) ([]byte, error) {
	switch version {
	case protocolV2:
		return serializeV2(rec)
	case protocolV1:
		return serializeV1(rec)
	default:
		return nil, fmt.Errorf("protocol: unsupported serialization version %d", version)
	}
}

func serializeV1(rec wire.Record) ([]byte, error) {
	switch v := rec.(type) {
	case wire.BootMessage:
		return serializeBootBody(v, protocolV1), nil
	case wire.StoppedMessage:
		return serializeStoppedV1Body(v), nil
	case wire.DataSnapshot:
		return serializeDataSnapshotV1Body(v), nil
	case wire.MachineStateSnapshot:
		return serializeMachineStateV1Body(v), nil
	case wire.AlarmTrap:
		return serializeAlarmTrapBody(v, protocolV1), nil
	case wire.ControlAck:
		return serializeControlAckBody(v, protocolV1), nil
	case wire.FatalError:
		logging.Warn("fatal error record has no v1 encoding, serializing empty body")
		return nil, nil
	case wire.EolTestSnapshot:
		logging.Warn("eol test snapshot has no v1 encoding, serializing empty body")
		return nil, nil
	default:
		return nil, fmt.Errorf("protocol: unrecognized record type %T", rec)
	}
}

func serializeStoppedV1Body(m wire.StoppedMessage) []byte {
	w := &bodyWriter{}
	w.bytes([]byte{'O', ':', protocolV1})
	writeEnvelopeHead(w, m.Envelope)
	w.end()
	return w.bytesOut()
}

func phaseSubphaseWireV1(p wire.Phase, sp *wire.SubPhase) uint8 {
	if p == wire.PhaseExhalation {
		return 68
	}
	if sp != nil && *sp == wire.SubPhaseHoldInspiration {
		return 18
	}
	return 17
}

func serializeDataSnapshotV1Body(d wire.DataSnapshot) []byte {
	w := &bodyWriter{}
	w.bytes([]byte{'D', ':', protocolV1})
	writeEnvelopeHead(w, d.Envelope)
	w.sep()
	w.u16(d.Centile)
	w.sep()
	w.u16(uint16(d.Pressure))
	w.sep()
	w.u8(phaseSubphaseWireV1(d.Phase, d.SubPhase))
	w.sep()
	w.u8(d.BlowerValvePosition)
	w.sep()
	w.u8(d.PatientValvePosition)
	w.sep()
	w.u16(d.BlowerRpm)
	w.sep()
	w.u16(d.BatteryLevel)
	w.end()
	return w.bytesOut()
}

func serializeMachineStateV1Body(m wire.MachineStateSnapshot) []byte {
	w := &bodyWriter{}
	w.bytes([]byte{'S', ':', protocolV1})
	writeEnvelopeHead(w, m.Envelope)
	w.sep()
	w.u32(m.Cycle)
	w.sep()
	w.u8(m.PeakCommand)
	w.sep()
	w.u8(m.PeakMeasured)
	w.sep()
	w.u8(m.PlateauCommand)
	w.sep()
	w.u8(m.PlateauMeasured)
	w.sep()
	w.u8(m.PeepCommand)
	w.sep()
	w.u8(m.PeepMeasured)
	w.sep()
	w.byteArray(m.CurrentAlarmCodes)
	w.sep()
	if m.PreviousVolume != nil {
		w.u16(*m.PreviousVolume)
	} else {
		w.u16(wire.VolumeSentinel)
	}
	w.end()
	return w.bytesOut()
}
