package wire

import "fmt"

// Setting identifies one of the thirty-one controllable operational
// parameters. Wire codes run 0 (Heartbeat) through 30 (PeakPressureAlarmThreshold)
// and follow the same order as the Stopped-v2 snapshot body in §6.1, since
// that body reports the device's current value for every settable
// parameter in one pass.
type Setting uint8

const (
	Heartbeat Setting = iota
	PeakPressureCommand
	PlateauPressureCommand
	PeepCommand
	CyclesPerMinuteCommand
	ExpiratoryTerm
	TriggerEnabled
	TriggerOffset
	AlarmSnoozed
	VentilationModeSetting
	InspiratoryTriggerFlow
	ExpiratoryTriggerFlow
	TiMin
	TiMax
	LowInspiratoryMinuteVolumeAlarmThreshold
	HighInspiratoryMinuteVolumeAlarmThreshold
	LowExpiratoryMinuteVolumeAlarmThreshold
	HighExpiratoryMinuteVolumeAlarmThreshold
	LowRespiratoryRateAlarmThreshold
	HighRespiratoryRateAlarmThreshold
	TargetTidalVolume
	LowTidalVolumeAlarmThreshold
	HighTidalVolumeAlarmThreshold
	PlateauDuration
	LeakAlarmThreshold
	TargetInspiratoryFlow
	InspiratoryDurationCommand
	LocaleSetting
	PatientHeight
	PatientGender
	PeakPressureAlarmThreshold
)

// DisableRPiWatchdog is the special Heartbeat value that suppresses the
// host-side watchdog reset (§4.5).
const DisableRPiWatchdog uint16 = 43690

// SettingInfo is one row of the settings table: the default value applied
// at boot and the inclusive range of values the device accepts.
type SettingInfo struct {
	Name    string
	Default uint16
	Min     uint16
	Max     uint16
}

var settingsTable = map[Setting]SettingInfo{
	Heartbeat:                                 {"heartbeat", 0, 0, 65535},
	PeakPressureCommand:                       {"peak_pressure_command", 30, 0, 70},
	PlateauPressureCommand:                    {"plateau_pressure_command", 25, 0, 60},
	PeepCommand:                               {"peep_command", 5, 0, 30},
	CyclesPerMinuteCommand:                    {"cycles_per_minute_command", 20, 5, 35},
	ExpiratoryTerm:                            {"expiratory_term", 2, 1, 5},
	TriggerEnabled:                            {"trigger_enabled", 1, 0, 1},
	TriggerOffset:                             {"trigger_offset", 2, 0, 100},
	AlarmSnoozed:                              {"alarm_snoozed", 0, 0, 1},
	VentilationModeSetting:                    {"ventilation_mode", uint16(ModePCAC), uint16(ModePCCMV), uint16(ModeVCAC)},
	InspiratoryTriggerFlow:                    {"inspiratory_trigger_flow", 10, 0, 100},
	ExpiratoryTriggerFlow:                     {"expiratory_trigger_flow", 30, 0, 100},
	TiMin:                                     {"ti_min", 200, 100, 3000},
	TiMax:                                     {"ti_max", 1500, 100, 3000},
	LowInspiratoryMinuteVolumeAlarmThreshold:  {"low_inspiratory_minute_volume_alarm_threshold", 3, 0, 100},
	HighInspiratoryMinuteVolumeAlarmThreshold: {"high_inspiratory_minute_volume_alarm_threshold", 20, 0, 150},
	LowExpiratoryMinuteVolumeAlarmThreshold:   {"low_expiratory_minute_volume_alarm_threshold", 3, 0, 100},
	HighExpiratoryMinuteVolumeAlarmThreshold:  {"high_expiratory_minute_volume_alarm_threshold", 20, 0, 150},
	LowRespiratoryRateAlarmThreshold:          {"low_respiratory_rate_alarm_threshold", 10, 0, 60},
	HighRespiratoryRateAlarmThreshold:         {"high_respiratory_rate_alarm_threshold", 30, 0, 90},
	TargetTidalVolume:                         {"target_tidal_volume", 400, 50, 2000},
	LowTidalVolumeAlarmThreshold:              {"low_tidal_volume_alarm_threshold", 200, 0, 2000},
	HighTidalVolumeAlarmThreshold:             {"high_tidal_volume_alarm_threshold", 700, 0, 2500},
	PlateauDuration:                           {"plateau_duration", 200, 0, 2000},
	LeakAlarmThreshold:                        {"leak_alarm_threshold", 20, 0, 10000},
	TargetInspiratoryFlow:                     {"target_inspiratory_flow", 60, 0, 150},
	InspiratoryDurationCommand:                {"inspiratory_duration_command", 800, 100, 3000},
	LocaleSetting:                             {"locale", uint16(DefaultLocale), 0, 65535},
	PatientHeight:                             {"patient_height", 170, 0, 250},
	PatientGender:                             {"patient_gender", 0, 0, 1},
	PeakPressureAlarmThreshold:                {"peak_pressure_alarm_threshold", 40, 0, 100},
}

// Info returns the name, default, and allowed range for s. The zero value
// is returned with ok=false for a code outside 0-30.
func (s Setting) Info() (SettingInfo, bool) {
	info, ok := settingsTable[s]
	return info, ok
}

func (s Setting) String() string {
	if info, ok := settingsTable[s]; ok {
		return info.Name
	}
	return fmt.Sprintf("setting(%d)", uint8(s))
}

// InRange reports whether v falls within s's declared allowed range.
// Unknown settings are treated as unconstrained (always in range), since
// the device, not the host, is authoritative.
func (s Setting) InRange(v uint16) bool {
	info, ok := settingsTable[s]
	if !ok {
		return true
	}
	return v >= info.Min && v <= info.Max
}

// Command is a single control instruction: set one Setting to one value.
type Command struct {
	Setting Setting
	Value   uint16
}

// ValidateCommand checks c.Value against c.Setting's declared range. Per
// §4.5 an out-of-range value is never rejected outright — the
// microcontroller remains the authority — so the boolean return only
// informs whether the caller should log a warning before sending it.
func ValidateCommand(c Command) bool {
	return c.Setting.InRange(c.Value)
}
