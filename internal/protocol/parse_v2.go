package protocol

import (
	"github.com/aerovent/ventcore/internal/wire"
)

const protocolV2 uint8 = 2

// parseV2Body parses the body bytes that follow the "K:2" prefix (kind
// byte, ':', version byte 2 already consumed by the caller). It returns the
// decoded record and a status; r.consumed() reports how many body bytes
// were read.
func parseV2Body(kind byte, env wire.Envelope, r *bodyReader) (wire.Record, parseStatus) {
	env.TelemetryVersion = protocolV2
	switch kind {
	case 'B':
		return parseBootBody(env, r)
	case 'O':
		return parseStoppedV2Body(env, r)
	case 'D':
		return parseDataSnapshotV2Body(env, r)
	case 'S':
		return parseMachineStateV2Body(env, r)
	case 'T':
		return parseAlarmTrapBody(env, r)
	case 'A':
		return parseControlAckBody(env, r)
	case 'E':
		return parseFatalErrorBody(env, r)
	case 'L':
		return parseEolTestSnapshotBody(env, r)
	default:
		return nil, statusMalformed
	}
}

// fillEnvelopeHead reads the firmware version string and device_id shared
// by every record kind, with no separator between them (per §6.1's Boot
// grammar, which all other kinds follow).
func fillEnvelopeHead(env *wire.Envelope, r *bodyReader) bool {
	fw, ok := r.str()
	if !ok {
		return false
	}
	env.FirmwareVersion = fw
	id, ok := r.deviceID()
	if !ok {
		return false
	}
	env.DeviceID = id
	return true
}

func parseBootBody(env wire.Envelope, r *bodyReader) (wire.Record, parseStatus) {
	if !fillEnvelopeHead(&env, r) {
		return needMoreOrMalformed(r)
	}
	if !r.sep() {
		return needMoreOrMalformed(r)
	}
	systick, ok := r.u64()
	if !ok {
		return needMoreOrMalformed(r)
	}
	env.Systick = systick
	if !r.sep() {
		return needMoreOrMalformed(r)
	}
	modeByte, ok := r.u8()
	if !ok {
		return needMoreOrMalformed(r)
	}
	mode := wire.Mode(modeByte)
	if !mode.Valid() {
		return nil, statusMalformed
	}
	if !r.sep() {
		return needMoreOrMalformed(r)
	}
	value128, ok := r.u8()
	if !ok {
		return needMoreOrMalformed(r)
	}
	if !r.end() {
		return needMoreOrMalformed(r)
	}
	return wire.BootMessage{Envelope: env, Mode: mode, Value128: value128}, statusOK
}

func readStoppedSettings(r *bodyReader) (*wire.StoppedSettings, bool) {
	s := &wire.StoppedSettings{}
	var ok bool
	if s.PeakPressureCommand, ok = r.u8(); !ok {
		return nil, false
	}
	if !r.sep() {
		return nil, false
	}
	if s.PlateauPressureCommand, ok = r.u8(); !ok {
		return nil, false
	}
	if !r.sep() {
		return nil, false
	}
	if s.PeepCommand, ok = r.u8(); !ok {
		return nil, false
	}
	if !r.sep() {
		return nil, false
	}
	if s.CyclesPerMinuteCommand, ok = r.u8(); !ok {
		return nil, false
	}
	if !r.sep() {
		return nil, false
	}
	if s.ExpiratoryTerm, ok = r.u8(); !ok {
		return nil, false
	}
	if !r.sep() {
		return nil, false
	}
	if s.TriggerEnabled, ok = r.u8(); !ok {
		return nil, false
	}
	if !r.sep() {
		return nil, false
	}
	if s.TriggerOffset, ok = r.u8(); !ok {
		return nil, false
	}
	if !r.sep() {
		return nil, false
	}
	if s.AlarmSnoozed, ok = r.u8(); !ok {
		return nil, false
	}
	if !r.sep() {
		return nil, false
	}
	if s.CPULoad, ok = r.u8(); !ok {
		return nil, false
	}
	if !r.sep() {
		return nil, false
	}
	ventByte, ok := r.u8()
	if !ok {
		return nil, false
	}
	s.VentilationMode = wire.VentilationMode(ventByte)
	if !r.sep() {
		return nil, false
	}
	if s.InspiratoryTriggerFlow, ok = r.u8(); !ok {
		return nil, false
	}
	if !r.sep() {
		return nil, false
	}
	if s.ExpiratoryTriggerFlow, ok = r.u8(); !ok {
		return nil, false
	}
	if !r.sep() {
		return nil, false
	}
	if s.TiMin, ok = r.u16(); !ok {
		return nil, false
	}
	if !r.sep() {
		return nil, false
	}
	if s.TiMax, ok = r.u16(); !ok {
		return nil, false
	}
	if !r.sep() {
		return nil, false
	}
	if s.LowInspiratoryMinuteVolumeAlarmThreshold, ok = r.u8(); !ok {
		return nil, false
	}
	if !r.sep() {
		return nil, false
	}
	if s.HighInspiratoryMinuteVolumeAlarmThreshold, ok = r.u8(); !ok {
		return nil, false
	}
	if !r.sep() {
		return nil, false
	}
	if s.LowExpiratoryMinuteVolumeAlarmThreshold, ok = r.u8(); !ok {
		return nil, false
	}
	if !r.sep() {
		return nil, false
	}
	if s.HighExpiratoryMinuteVolumeAlarmThreshold, ok = r.u8(); !ok {
		return nil, false
	}
	if !r.sep() {
		return nil, false
	}
	if s.LowRespiratoryRateAlarmThreshold, ok = r.u8(); !ok {
		return nil, false
	}
	if !r.sep() {
		return nil, false
	}
	if s.HighRespiratoryRateAlarmThreshold, ok = r.u8(); !ok {
		return nil, false
	}
	if !r.sep() {
		return nil, false
	}
	if s.TargetTidalVolume, ok = r.u16(); !ok {
		return nil, false
	}
	if !r.sep() {
		return nil, false
	}
	if s.LowTidalVolumeAlarmThreshold, ok = r.u16(); !ok {
		return nil, false
	}
	if !r.sep() {
		return nil, false
	}
	if s.HighTidalVolumeAlarmThreshold, ok = r.u16(); !ok {
		return nil, false
	}
	if !r.sep() {
		return nil, false
	}
	if s.PlateauDuration, ok = r.u16(); !ok {
		return nil, false
	}
	if !r.sep() {
		return nil, false
	}
	if s.LeakAlarmThreshold, ok = r.u16(); !ok {
		return nil, false
	}
	if !r.sep() {
		return nil, false
	}
	if s.TargetInspiratoryFlow, ok = r.u8(); !ok {
		return nil, false
	}
	if !r.sep() {
		return nil, false
	}
	if s.InspiratoryDurationCommand, ok = r.u16(); !ok {
		return nil, false
	}
	if !r.sep() {
		return nil, false
	}
	if s.BatteryLevel, ok = r.u16(); !ok {
		return nil, false
	}
	if !r.sep() {
		return nil, false
	}
	codes, ok := r.byteArray()
	if !ok {
		return nil, false
	}
	s.CurrentAlarmCodes = codes
	if !r.sep() {
		return nil, false
	}
	localeVal, ok := r.u16()
	if !ok {
		return nil, false
	}
	s.Locale = wire.LocaleFromWire(localeVal)
	if !r.sep() {
		return nil, false
	}
	if s.PatientHeight, ok = r.u8(); !ok {
		return nil, false
	}
	if !r.sep() {
		return nil, false
	}
	if s.PatientGender, ok = r.u8(); !ok {
		return nil, false
	}
	if !r.sep() {
		return nil, false
	}
	if s.PeakPressureAlarmThreshold, ok = r.u16(); !ok {
		return nil, false
	}
	return s, true
}

func parseStoppedV2Body(env wire.Envelope, r *bodyReader) (wire.Record, parseStatus) {
	if !fillEnvelopeHead(&env, r) {
		return needMoreOrMalformed(r)
	}
	if !r.sep() {
		return needMoreOrMalformed(r)
	}
	systick, ok := r.u64()
	if !ok {
		return needMoreOrMalformed(r)
	}
	env.Systick = systick
	if !r.sep() {
		return needMoreOrMalformed(r)
	}
	settings, ok := readStoppedSettings(r)
	if !ok {
		return needMoreOrMalformed(r)
	}
	if !settings.VentilationMode.Valid() {
		return nil, statusMalformed
	}
	if s := settings.PatientGender; s > 1 {
		return nil, statusMalformed
	}
	if !r.end() {
		return needMoreOrMalformed(r)
	}
	return wire.StoppedMessage{Envelope: env, Settings: settings}, statusOK
}

func parsePhaseV2(b uint8) (wire.Phase, bool) {
	switch b {
	case 17:
		return wire.PhaseInhalation, true
	case 68:
		return wire.PhaseExhalation, true
	default:
		return 0, false
	}
}

func parseDataSnapshotV2Body(env wire.Envelope, r *bodyReader) (wire.Record, parseStatus) {
	if !fillEnvelopeHead(&env, r) {
		return needMoreOrMalformed(r)
	}
	if !r.sep() {
		return needMoreOrMalformed(r)
	}
	systick, ok := r.u64()
	if !ok {
		return needMoreOrMalformed(r)
	}
	env.Systick = systick
	if !r.sep() {
		return needMoreOrMalformed(r)
	}
	centile, ok := r.u16()
	if !ok {
		return needMoreOrMalformed(r)
	}
	if !r.sep() {
		return needMoreOrMalformed(r)
	}
	pressure, ok := r.i16()
	if !ok {
		return needMoreOrMalformed(r)
	}
	if !r.sep() {
		return needMoreOrMalformed(r)
	}
	phaseByte, ok := r.u8()
	if !ok {
		return needMoreOrMalformed(r)
	}
	phase, validPhase := parsePhaseV2(phaseByte)
	if !validPhase {
		return nil, statusMalformed
	}
	if !r.sep() {
		return needMoreOrMalformed(r)
	}
	blowerValve, ok := r.u8()
	if !ok {
		return needMoreOrMalformed(r)
	}
	if !r.sep() {
		return needMoreOrMalformed(r)
	}
	patientValve, ok := r.u8()
	if !ok {
		return needMoreOrMalformed(r)
	}
	if !r.sep() {
		return needMoreOrMalformed(r)
	}
	blowerRpm, ok := r.u16()
	if !ok {
		return needMoreOrMalformed(r)
	}
	if !r.sep() {
		return needMoreOrMalformed(r)
	}
	batteryLevel, ok := r.u16()
	if !ok {
		return needMoreOrMalformed(r)
	}
	if !r.sep() {
		return needMoreOrMalformed(r)
	}
	inspFlow, ok := r.i16()
	if !ok {
		return needMoreOrMalformed(r)
	}
	if !r.sep() {
		return needMoreOrMalformed(r)
	}
	expFlow, ok := r.i16()
	if !ok {
		return needMoreOrMalformed(r)
	}
	if !r.end() {
		return needMoreOrMalformed(r)
	}
	return wire.DataSnapshot{
		Envelope:             env,
		Centile:              centile,
		Pressure:             pressure,
		Phase:                phase,
		BlowerValvePosition:  blowerValve,
		PatientValvePosition: patientValve,
		BlowerRpm:            blowerRpm,
		BatteryLevel:         batteryLevel,
		InspiratoryFlow:      &inspFlow,
		ExpiratoryFlow:       &expFlow,
	}, statusOK
}

func parseMachineStateV2Body(env wire.Envelope, r *bodyReader) (wire.Record, parseStatus) {
	if !fillEnvelopeHead(&env, r) {
		return needMoreOrMalformed(r)
	}
	if !r.sep() {
		return needMoreOrMalformed(r)
	}
	systick, ok := r.u64()
	if !ok {
		return needMoreOrMalformed(r)
	}
	env.Systick = systick
	if !r.sep() {
		return needMoreOrMalformed(r)
	}
	cycle, ok := r.u32()
	if !ok {
		return needMoreOrMalformed(r)
	}
	if !r.sep() {
		return needMoreOrMalformed(r)
	}
	peakCmd, ok := r.u8()
	if !ok {
		return needMoreOrMalformed(r)
	}
	if !r.sep() {
		return needMoreOrMalformed(r)
	}
	peakMeasured, ok := r.u8()
	if !ok {
		return needMoreOrMalformed(r)
	}
	if !r.sep() {
		return needMoreOrMalformed(r)
	}
	plateauCmd, ok := r.u8()
	if !ok {
		return needMoreOrMalformed(r)
	}
	if !r.sep() {
		return needMoreOrMalformed(r)
	}
	plateauMeasured, ok := r.u8()
	if !ok {
		return needMoreOrMalformed(r)
	}
	if !r.sep() {
		return needMoreOrMalformed(r)
	}
	peepCmd, ok := r.u8()
	if !ok {
		return needMoreOrMalformed(r)
	}
	if !r.sep() {
		return needMoreOrMalformed(r)
	}
	peepMeasured, ok := r.u8()
	if !ok {
		return needMoreOrMalformed(r)
	}
	if !r.sep() {
		return needMoreOrMalformed(r)
	}
	codes, ok := r.byteArray()
	if !ok {
		return needMoreOrMalformed(r)
	}
	if !r.sep() {
		return needMoreOrMalformed(r)
	}
	volumeWire, ok := r.u16()
	if !ok {
		return needMoreOrMalformed(r)
	}
	if !r.sep() {
		return needMoreOrMalformed(r)
	}
	settings, ok := readStoppedSettings(r)
	if !ok {
		return needMoreOrMalformed(r)
	}
	if !settings.VentilationMode.Valid() {
		return nil, statusMalformed
	}
	if !r.end() {
		return needMoreOrMalformed(r)
	}
	var previousVolume *uint16
	if volumeWire != wire.VolumeSentinel {
		v := volumeWire
		previousVolume = &v
	}
	return wire.MachineStateSnapshot{
		Envelope:          env,
		Cycle:             cycle,
		PeakCommand:       peakCmd,
		PeakMeasured:      peakMeasured,
		PlateauCommand:    plateauCmd,
		PlateauMeasured:   plateauMeasured,
		PeepCommand:       peepCmd,
		PeepMeasured:      peepMeasured,
		CurrentAlarmCodes: codes,
		PreviousVolume:    previousVolume,
		Settings:          settings,
	}, statusOK
}

func parseAlarmTrapBody(env wire.Envelope, r *bodyReader) (wire.Record, parseStatus) {
	if !fillEnvelopeHead(&env, r) {
		return needMoreOrMalformed(r)
	}
	if !r.sep() {
		return needMoreOrMalformed(r)
	}
	systick, ok := r.u64()
	if !ok {
		return needMoreOrMalformed(r)
	}
	env.Systick = systick
	if !r.sep() {
		return needMoreOrMalformed(r)
	}
	code, ok := r.u8()
	if !ok {
		return needMoreOrMalformed(r)
	}
	if !r.sep() {
		return needMoreOrMalformed(r)
	}
	priorityByte, ok := r.u8()
	if !ok {
		return needMoreOrMalformed(r)
	}
	priority, err := wire.AlarmPriorityFromWire(priorityByte)
	if err != nil {
		return nil, statusMalformed
	}
	if !r.sep() {
		return needMoreOrMalformed(r)
	}
	triggeredByte, ok := r.u8()
	if !ok {
		return needMoreOrMalformed(r)
	}
	var triggered bool
	switch triggeredByte {
	case 0xF0:
		triggered = true
	case 0x0F:
		triggered = false
	default:
		return nil, statusMalformed
	}
	if !r.sep() {
		return needMoreOrMalformed(r)
	}
	expected, ok := r.u32()
	if !ok {
		return needMoreOrMalformed(r)
	}
	if !r.sep() {
		return needMoreOrMalformed(r)
	}
	measured, ok := r.u32()
	if !ok {
		return needMoreOrMalformed(r)
	}
	if !r.sep() {
		return needMoreOrMalformed(r)
	}
	cyclesSince, ok := r.u32()
	if !ok {
		return needMoreOrMalformed(r)
	}
	if !r.end() {
		return needMoreOrMalformed(r)
	}
	return wire.AlarmTrap{
		Envelope:           env,
		Code:               code,
		Priority:           priority,
		Triggered:          triggered,
		ExpectedValue:      expected,
		MeasuredValue:      measured,
		CyclesSinceTrigger: cyclesSince,
	}, statusOK
}

func parseControlAckBody(env wire.Envelope, r *bodyReader) (wire.Record, parseStatus) {
	if !fillEnvelopeHead(&env, r) {
		return needMoreOrMalformed(r)
	}
	if !r.sep() {
		return needMoreOrMalformed(r)
	}
	systick, ok := r.u64()
	if !ok {
		return needMoreOrMalformed(r)
	}
	env.Systick = systick
	if !r.sep() {
		return needMoreOrMalformed(r)
	}
	settingByte, ok := r.u8()
	if !ok {
		return needMoreOrMalformed(r)
	}
	if !r.sep() {
		return needMoreOrMalformed(r)
	}
	value, ok := r.u16()
	if !ok {
		return needMoreOrMalformed(r)
	}
	if !r.end() {
		return needMoreOrMalformed(r)
	}
	return wire.ControlAck{Envelope: env, Setting: wire.Setting(settingByte), Value: value}, statusOK
}

func parseFatalErrorBody(env wire.Envelope, r *bodyReader) (wire.Record, parseStatus) {
	if !fillEnvelopeHead(&env, r) {
		return needMoreOrMalformed(r)
	}
	if !r.sep() {
		return needMoreOrMalformed(r)
	}
	systick, ok := r.u64()
	if !ok {
		return needMoreOrMalformed(r)
	}
	env.Systick = systick
	if !r.sep() {
		return needMoreOrMalformed(r)
	}
	kindByte, ok := r.u8()
	if !ok {
		return needMoreOrMalformed(r)
	}
	out := wire.FatalError{Envelope: env}
	switch kindByte {
	case 0:
		out.Kind = wire.FatalWatchdogRestart
	case 1:
		out.Kind = wire.FatalCalibrationError
		if !r.sep() {
			return needMoreOrMalformed(r)
		}
		v, ok := r.i16()
		if !ok {
			return needMoreOrMalformed(r)
		}
		out.PressureOffset = v
		if !r.sep() {
			return needMoreOrMalformed(r)
		}
		if v, ok = r.i16(); !ok {
			return needMoreOrMalformed(r)
		}
		out.MinPressure = v
		if !r.sep() {
			return needMoreOrMalformed(r)
		}
		if v, ok = r.i16(); !ok {
			return needMoreOrMalformed(r)
		}
		out.MaxPressure = v
		if !r.sep() {
			return needMoreOrMalformed(r)
		}
		if v, ok = r.i16(); !ok {
			return needMoreOrMalformed(r)
		}
		if v != wire.FlowSentinel {
			f := v
			out.FlowAtStarting = &f
		}
		if !r.sep() {
			return needMoreOrMalformed(r)
		}
		if v, ok = r.i16(); !ok {
			return needMoreOrMalformed(r)
		}
		if v != wire.FlowSentinel {
			f := v
			out.FlowWithBlowerOn = &f
		}
	case 2:
		out.Kind = wire.FatalBatteryDeeplyDischarged
		if !r.sep() {
			return needMoreOrMalformed(r)
		}
		v, ok := r.u16()
		if !ok {
			return needMoreOrMalformed(r)
		}
		out.BatteryLevel = v
	case 3:
		out.Kind = wire.FatalMassFlowMeterError
	case 4:
		out.Kind = wire.FatalInconsistentPressure
		if !r.sep() {
			return needMoreOrMalformed(r)
		}
		v, ok := r.i16()
		if !ok {
			return needMoreOrMalformed(r)
		}
		out.Pressure = v
	default:
		return nil, statusMalformed
	}
	if !r.end() {
		return needMoreOrMalformed(r)
	}
	return out, statusOK
}

func parseEolTestSnapshotBody(env wire.Envelope, r *bodyReader) (wire.Record, parseStatus) {
	if !fillEnvelopeHead(&env, r) {
		return needMoreOrMalformed(r)
	}
	if !r.sep() {
		return needMoreOrMalformed(r)
	}
	systick, ok := r.u64()
	if !ok {
		return needMoreOrMalformed(r)
	}
	env.Systick = systick
	if !r.sep() {
		return needMoreOrMalformed(r)
	}
	stepByte, ok := r.u8()
	if !ok {
		return needMoreOrMalformed(r)
	}
	step := wire.EolTestStep(stepByte)
	if !step.Valid() {
		return nil, statusMalformed
	}
	if !r.sep() {
		return needMoreOrMalformed(r)
	}
	contentKind, ok := r.u8()
	if !ok {
		return needMoreOrMalformed(r)
	}
	if contentKind > uint8(wire.EolContentSuccess) {
		return nil, statusMalformed
	}
	if !r.sep() {
		return needMoreOrMalformed(r)
	}
	text, ok := r.str()
	if !ok {
		return needMoreOrMalformed(r)
	}
	if !r.end() {
		return needMoreOrMalformed(r)
	}
	return wire.EolTestSnapshot{
		Envelope: env,
		Step:     step,
		Content:  wire.EolTestContent{Kind: wire.EolTestContentKind(contentKind), Text: text},
	}, statusOK
}

// needMoreOrMalformed distinguishes a truncated buffer (NeedMore) from a
// value that was fully read but failed a grammar check (Malformed). Plain
// field reads (u8/u16/u32/u64/str/byteArray/deviceID) fail only on buffer
// exhaustion, so those always mean NeedMore. sep() and end() can also fail
// on a byte that is present but wrong — a corrupted or garbage frame body —
// and flag that on r.malformed so a matched-header, bad-body frame yields a
// recoverable ParserError (drop one byte) instead of wedging the decoder in
// NeedMore forever. Callers that detect a bad enum value after a successful
// read return statusMalformed directly instead of calling this helper.
func needMoreOrMalformed(r *bodyReader) (wire.Record, parseStatus) {
	if r.malformed {
		r.malformed = false
		return nil, statusMalformed
	}
	return nil, statusNeedMore
}
