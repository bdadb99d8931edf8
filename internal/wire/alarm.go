package wire

import "fmt"

// AlarmPriority is the clinical severity of an alarm, decoded from the wire
// byte values 4 (High), 2 (Medium), 1 (Low). It has a total order distinct
// from its numeric wire encoding: High > Medium > Low.
type AlarmPriority uint8

const (
	PriorityLow AlarmPriority = iota
	PriorityMedium
	PriorityHigh
)

// Compare returns a negative number, zero, or a positive number as p is
// less than, equal to, or greater than q.
func (p AlarmPriority) Compare(q AlarmPriority) int {
	return int(p) - int(q)
}

func (p AlarmPriority) String() string {
	switch p {
	case PriorityHigh:
		return "high"
	case PriorityMedium:
		return "medium"
	case PriorityLow:
		return "low"
	default:
		return fmt.Sprintf("priority(%d)", uint8(p))
	}
}

// AlarmPriorityFromWire decodes the wire byte values 4/2/1 into an
// AlarmPriority. The open question of whether range 40-49 maps to High is
// resolved in favor of the current wire encoding: only the three literal
// values below are ever produced by the framing layer described in §6.1.
func AlarmPriorityFromWire(b uint8) (AlarmPriority, error) {
	switch b {
	case 4:
		return PriorityHigh, nil
	case 2:
		return PriorityMedium, nil
	case 1:
		return PriorityLow, nil
	default:
		return 0, fmt.Errorf("wire: alarm priority byte %d out of range", b)
	}
}

// PriorityWireByte returns the wire encoding of p (the inverse of
// AlarmPriorityFromWire).
func PriorityWireByte(p AlarmPriority) uint8 {
	switch p {
	case PriorityHigh:
		return 4
	case PriorityMedium:
		return 2
	default:
		return 1
	}
}

// AlarmCode is one entry of the fixed 22-code alarm table. Some codes come
// in adjacent pairs reporting the same clinical condition at two priority
// levels (see Adjacent); most do not.
type AlarmCode struct {
	Code        uint8
	Priority    AlarmPriority
	Description string
}

var alarmTable = []AlarmCode{
	{11, PriorityHigh, "patient circuit disconnected"},
	{12, PriorityHigh, "plateau pressure not reached"},
	{13, PriorityHigh, "battery critically low"},
	{14, PriorityHigh, "PEEP pressure not reached"},
	{15, PriorityHigh, "tidal volume not reached"},
	{16, PriorityHigh, "apnea detected"},
	{17, PriorityHigh, "pressure too high"},
	{18, PriorityHigh, "mass flow meter failure"},
	{19, PriorityHigh, "fatal calibration error"},
	{21, PriorityMedium, "battery low"},
	{22, PriorityMedium, "plateau pressure exceeded tolerance"},
	{23, PriorityMedium, "PEEP pressure exceeded tolerance"},
	{24, PriorityMedium, "patient valve leak suspected"},
	{25, PriorityMedium, "respiratory rate out of range"},
	{26, PriorityMedium, "expiratory minute volume out of range"},
	{27, PriorityMedium, "inspiratory minute volume out of range"},
	{28, PriorityMedium, "administered oxygen concentration drift"},
	{31, PriorityLow, "power cable unplugged"},
	{32, PriorityLow, "user interface unresponsive"},
	{33, PriorityLow, "alarm buzzer self-test failed"},
	{34, PriorityLow, "inspiratory filter due for replacement"},
	{35, PriorityLow, "CPU load elevated"},
}

// adjacentPairs maps a high-priority code to its medium-priority counterpart
// reporting the same condition, per the four documented pairs.
var adjacentPairs = map[uint8]uint8{
	11: 24,
	12: 22,
	13: 21,
	14: 23,
}

// LookupAlarmCode returns the table entry for a wire alarm code.
func LookupAlarmCode(code uint8) (AlarmCode, bool) {
	for _, c := range alarmTable {
		if c.Code == code {
			return c, true
		}
	}
	return AlarmCode{}, false
}

// Adjacent returns the lower-priority counterpart alarm code reporting the
// same clinical condition as c, if one is documented. Only the four
// high-priority codes in adjacentPairs have a counterpart; calling Adjacent
// on a medium- or low-priority code, or on a high-priority code with no
// documented pair, returns (AlarmCode{}, false).
func (c AlarmCode) Adjacent() (AlarmCode, bool) {
	medium, ok := adjacentPairs[c.Code]
	if !ok {
		return AlarmCode{}, false
	}
	return LookupAlarmCode(medium)
}

// AlarmCodes returns a copy of the full 22-entry alarm table.
func AlarmCodes() []AlarmCode {
	out := make([]AlarmCode, len(alarmTable))
	copy(out, alarmTable)
	return out
}
