package protocol

import (
	"github.com/aerovent/ventcore/internal/wire"
)

const protocolV1 uint8 = 1

// parseV1Body mirrors parseV2Body for the older, smaller v1 grammar: no
// FatalError or EolTestSnapshot kind, no settings snapshot, a combined
// phase+subphase byte, and pressure widened from an unsigned 16-bit wire
// value.
func parseV1Body(kind byte, env wire.Envelope, r *bodyReader) (wire.Record, parseStatus) {
	env.TelemetryVersion = protocolV1
	switch kind {
	case 'B':
		return parseBootBody(env, r)
	case 'O':
		return parseStoppedV1Body(env, r)
	case 'D':
		return parseDataSnapshotV1Body(env, r)
	case 'S':
		return parseMachineStateV1Body(env, r)
	case 'T':
		return parseAlarmTrapBody(env, r)
	case 'A':
		return parseControlAckBody(env, r)
	default:
		return nil, statusMalformed
	}
}

func parseStoppedV1Body(env wire.Envelope, r *bodyReader) (wire.Record, parseStatus) {
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
	if !r.end() {
		return needMoreOrMalformed(r)
	}
	return wire.StoppedMessage{Envelope: env, Settings: nil}, statusOK
}

// parsePhaseSubphaseV1 decodes the combined v1 phase byte: 17=Inhalation
// (Inspiration), 18=Inhalation (HoldInspiration), 68=Exhalation (Exhale).
func parsePhaseSubphaseV1(b uint8) (wire.Phase, wire.SubPhase, bool) {
	switch b {
	case 17:
		return wire.PhaseInhalation, wire.SubPhaseInspiration, true
	case 18:
		return wire.PhaseInhalation, wire.SubPhaseHoldInspiration, true
	case 68:
		return wire.PhaseExhalation, wire.SubPhaseExhale, true
	default:
		return 0, 0, false
	}
}

func parseDataSnapshotV1Body(env wire.Envelope, r *bodyReader) (wire.Record, parseStatus) {
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
	pressureWire, ok := r.u16() // unsigned on the wire under v1
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
	phase, subphase, validPhase := parsePhaseSubphaseV1(phaseByte)
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
	if !r.end() {
		return needMoreOrMalformed(r)
	}
	return wire.DataSnapshot{
		Envelope:             env,
		Centile:              centile,
		Pressure:             int16(pressureWire),
		Phase:                phase,
		SubPhase:             &subphase,
		BlowerValvePosition:  blowerValve,
		PatientValvePosition: patientValve,
		BlowerRpm:            blowerRpm,
		BatteryLevel:         batteryLevel,
	}, statusOK
}

func parseMachineStateV1Body(env wire.Envelope, r *bodyReader) (wire.Record, parseStatus) {
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
	}, statusOK
}
