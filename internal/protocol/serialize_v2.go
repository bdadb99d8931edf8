package protocol

import (
	"fmt"

	"github.com/aerovent/ventcore/internal/wire"
)

// serializeV2 encodes rec as a v2 frame body (no header/CRC/footer).
func serializeV2(rec wire.Record) ([]byte, error) {
	switch v := rec.(type) {
	case wire.BootMessage:
		return serializeBootBody(v, protocolV2), nil
	case wire.StoppedMessage:
		return serializeStoppedV2Body(v), nil
	case wire.DataSnapshot:
		return serializeDataSnapshotV2Body(v), nil
	case wire.MachineStateSnapshot:
		return serializeMachineStateV2Body(v), nil
	case wire.AlarmTrap:
		return serializeAlarmTrapBody(v, protocolV2), nil
	case wire.ControlAck:
		return serializeControlAckBody(v, protocolV2), nil
	case wire.FatalError:
		return serializeFatalErrorBody(v), nil
	case wire.EolTestSnapshot:
		return serializeEolTestSnapshotBody(v), nil
	default:
		return nil, fmt.Errorf("protocol: unrecognized record type %T", rec)
	}
}

func writeEnvelopeHead(w *bodyWriter, env wire.Envelope) {
	w.str(env.FirmwareVersion)
	w.deviceID(env.DeviceID)
	w.sep()
	w.u64(env.Systick)
}

func serializeBootBody(b wire.BootMessage, version uint8) []byte {
	w := &bodyWriter{}
	w.bytes([]byte{'B', ':', version})
	writeEnvelopeHead(w, b.Envelope)
	w.sep()
	w.u8(uint8(b.Mode))
	w.sep()
	w.u8(b.Value128)
	w.end()
	return w.bytesOut()
}

func writeStoppedSettings(w *bodyWriter, s *wire.StoppedSettings) {
	w.u8(s.PeakPressureCommand)
	w.sep()
	w.u8(s.PlateauPressureCommand)
	w.sep()
	w.u8(s.PeepCommand)
	w.sep()
	w.u8(s.CyclesPerMinuteCommand)
	w.sep()
	w.u8(s.ExpiratoryTerm)
	w.sep()
	w.u8(s.TriggerEnabled)
	w.sep()
	w.u8(s.TriggerOffset)
	w.sep()
	w.u8(s.AlarmSnoozed)
	w.sep()
	w.u8(s.CPULoad)
	w.sep()
	w.u8(uint8(s.VentilationMode))
	w.sep()
	w.u8(s.InspiratoryTriggerFlow)
	w.sep()
	w.u8(s.ExpiratoryTriggerFlow)
	w.sep()
	w.u16(s.TiMin)
	w.sep()
	w.u16(s.TiMax)
	w.sep()
	w.u8(s.LowInspiratoryMinuteVolumeAlarmThreshold)
	w.sep()
	w.u8(s.HighInspiratoryMinuteVolumeAlarmThreshold)
	w.sep()
	w.u8(s.LowExpiratoryMinuteVolumeAlarmThreshold)
	w.sep()
	w.u8(s.HighExpiratoryMinuteVolumeAlarmThreshold)
	w.sep()
	w.u8(s.LowRespiratoryRateAlarmThreshold)
	w.sep()
	w.u8(s.HighRespiratoryRateAlarmThreshold)
	w.sep()
	w.u16(s.TargetTidalVolume)
	w.sep()
	w.u16(s.LowTidalVolumeAlarmThreshold)
	w.sep()
	w.u16(s.HighTidalVolumeAlarmThreshold)
	w.sep()
	w.u16(s.PlateauDuration)
	w.sep()
	w.u16(s.LeakAlarmThreshold)
	w.sep()
	w.u8(s.TargetInspiratoryFlow)
	w.sep()
	w.u16(s.InspiratoryDurationCommand)
	w.sep()
	w.u16(s.BatteryLevel)
	w.sep()
	w.byteArray(s.CurrentAlarmCodes)
	w.sep()
	w.u16(s.Locale.Wire())
	w.sep()
	w.u8(s.PatientHeight)
	w.sep()
	w.u8(s.PatientGender)
	w.sep()
	w.u16(s.PeakPressureAlarmThreshold)
}

func serializeStoppedV2Body(m wire.StoppedMessage) []byte {
	w := &bodyWriter{}
	w.bytes([]byte{'O', ':', protocolV2})
	writeEnvelopeHead(w, m.Envelope)
	w.sep()
	settings := m.Settings
	if settings == nil {
		settings = &wire.StoppedSettings{}
	}
	writeStoppedSettings(w, settings)
	w.end()
	return w.bytesOut()
}

func phaseWireV2(p wire.Phase) uint8 {
	if p == wire.PhaseExhalation {
		return 68
	}
	return 17
}

func serializeDataSnapshotV2Body(d wire.DataSnapshot) []byte {
	w := &bodyWriter{}
	w.bytes([]byte{'D', ':', protocolV2})
	writeEnvelopeHead(w, d.Envelope)
	w.sep()
	w.u16(d.Centile)
	w.sep()
	w.i16(d.Pressure)
	w.sep()
	w.u8(phaseWireV2(d.Phase))
	w.sep()
	w.u8(d.BlowerValvePosition)
	w.sep()
	w.u8(d.PatientValvePosition)
	w.sep()
	w.u16(d.BlowerRpm)
	w.sep()
	w.u16(d.BatteryLevel)
	w.sep()
	inspFlow := int16(0)
	if d.InspiratoryFlow != nil {
		inspFlow = *d.InspiratoryFlow
	}
	w.i16(inspFlow)
	w.sep()
	expFlow := int16(0)
	if d.ExpiratoryFlow != nil {
		expFlow = *d.ExpiratoryFlow
	}
	w.i16(expFlow)
	w.end()
	return w.bytesOut()
}

func serializeMachineStateV2Body(m wire.MachineStateSnapshot) []byte {
	w := &bodyWriter{}
	w.bytes([]byte{'S', ':', protocolV2})
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
	w.sep()
	settings := m.Settings
	if settings == nil {
		settings = &wire.StoppedSettings{}
	}
	writeStoppedSettings(w, settings)
	w.end()
	return w.bytesOut()
}

func serializeAlarmTrapBody(a wire.AlarmTrap, version uint8) []byte {
	w := &bodyWriter{}
	w.bytes([]byte{'T', ':', version})
	writeEnvelopeHead(w, a.Envelope)
	w.sep()
	w.u8(a.Code)
	w.sep()
	w.u8(wire.PriorityWireByte(a.Priority))
	w.sep()
	if a.Triggered {
		w.u8(0xF0)
	} else {
		w.u8(0x0F)
	}
	w.sep()
	w.u32(a.ExpectedValue)
	w.sep()
	w.u32(a.MeasuredValue)
	w.sep()
	w.u32(a.CyclesSinceTrigger)
	w.end()
	return w.bytesOut()
}

func serializeControlAckBody(c wire.ControlAck, version uint8) []byte {
	w := &bodyWriter{}
	w.bytes([]byte{'A', ':', version})
	writeEnvelopeHead(w, c.Envelope)
	w.sep()
	w.u8(uint8(c.Setting))
	w.sep()
	w.u16(c.Value)
	w.end()
	return w.bytesOut()
}

func serializeFatalErrorBody(f wire.FatalError) []byte {
	w := &bodyWriter{}
	w.bytes([]byte{'E', ':', protocolV2})
	writeEnvelopeHead(w, f.Envelope)
	w.sep()
	w.u8(uint8(f.Kind))
	switch f.Kind {
	case wire.FatalCalibrationError:
		w.sep()
		w.i16(f.PressureOffset)
		w.sep()
		w.i16(f.MinPressure)
		w.sep()
		w.i16(f.MaxPressure)
		w.sep()
		if f.FlowAtStarting != nil {
			w.i16(*f.FlowAtStarting)
		} else {
			w.i16(wire.FlowSentinel)
		}
		w.sep()
		if f.FlowWithBlowerOn != nil {
			w.i16(*f.FlowWithBlowerOn)
		} else {
			w.i16(wire.FlowSentinel)
		}
	case wire.FatalBatteryDeeplyDischarged:
		w.sep()
		w.u16(f.BatteryLevel)
	case wire.FatalInconsistentPressure:
		w.sep()
		w.i16(f.Pressure)
	}
	w.end()
	return w.bytesOut()
}

func serializeEolTestSnapshotBody(e wire.EolTestSnapshot) []byte {
	w := &bodyWriter{}
	w.bytes([]byte{'L', ':', protocolV2})
	writeEnvelopeHead(w, e.Envelope)
	w.sep()
	w.u8(uint8(e.Step))
	w.sep()
	w.u8(uint8(e.Content.Kind))
	w.sep()
	w.str(e.Content.Text)
	w.end()
	return w.bytesOut()
}
