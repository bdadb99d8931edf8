package wire

// BootMessage is the device handshake. value128 is a sanity byte the
// device always sends as 128; a different value signals a framing or
// endianness problem upstream but the record is still delivered (see the
// end-to-end scenario in §8).
type BootMessage struct {
	Envelope
	Mode      Mode
	Value128  uint8
}

func (BootMessage) isRecord() {}

// Value128Valid reports whether the sanity byte carries its expected literal.
func (b BootMessage) Value128Valid() bool {
	return b.Value128 == 128
}

// StoppedSettings is the full settings snapshot reported by a v2
// StoppedMessage (and embedded in a v2 MachineStateSnapshot). Field order
// matches the wire grammar in §6.1 exactly.
type StoppedSettings struct {
	PeakPressureCommand    uint8
	PlateauPressureCommand uint8
	PeepCommand            uint8
	CyclesPerMinuteCommand uint8
	ExpiratoryTerm         uint8
	TriggerEnabled         uint8
	TriggerOffset          uint8
	AlarmSnoozed           uint8
	CPULoad                uint8
	VentilationMode        VentilationMode
	InspiratoryTriggerFlow uint8
	ExpiratoryTriggerFlow  uint8
	TiMin                  uint16
	TiMax                  uint16

	LowInspiratoryMinuteVolumeAlarmThreshold  uint8
	HighInspiratoryMinuteVolumeAlarmThreshold uint8
	LowExpiratoryMinuteVolumeAlarmThreshold   uint8
	HighExpiratoryMinuteVolumeAlarmThreshold  uint8
	LowRespiratoryRateAlarmThreshold          uint8
	HighRespiratoryRateAlarmThreshold         uint8

	TargetTidalVolume             uint16
	LowTidalVolumeAlarmThreshold  uint16
	HighTidalVolumeAlarmThreshold uint16
	PlateauDuration               uint16
	LeakAlarmThreshold            uint16

	TargetInspiratoryFlow      uint8
	InspiratoryDurationCommand uint16
	BatteryLevel               uint16
	CurrentAlarmCodes          []uint8
	Locale                     Locale
	PatientHeight              uint8
	PatientGender              uint8
	PeakPressureAlarmThreshold uint16
}

// StoppedMessage is emitted every 100ms while the ventilator is halted. The
// Settings pointer is nil under protocol v1, which reports only the
// envelope.
type StoppedMessage struct {
	Envelope
	Settings *StoppedSettings
}

func (StoppedMessage) isRecord() {}

// DataSnapshot is emitted every 10ms during ventilation.
type DataSnapshot struct {
	Envelope
	Centile              uint16
	Pressure             int16
	Phase                Phase
	SubPhase             *SubPhase // present under v1 only
	BlowerValvePosition  uint8
	PatientValvePosition uint8
	BlowerRpm            uint16
	BatteryLevel         uint16
	InspiratoryFlow      *int16 // v2 only, centiliters/minute
	ExpiratoryFlow       *int16 // v2 only, centiliters/minute
}

func (DataSnapshot) isRecord() {}

// MachineStateSnapshot is emitted at the end of every breathing cycle.
type MachineStateSnapshot struct {
	Envelope
	Cycle              uint32
	PeakCommand        uint8
	PeakMeasured       uint8
	PlateauCommand     uint8
	PlateauMeasured    uint8
	PeepCommand        uint8
	PeepMeasured       uint8
	CurrentAlarmCodes  []uint8
	PreviousVolume     *uint16 // nil iff absent (wire sentinel 0xFFFF)
	Settings           *StoppedSettings // v2 only
}

func (MachineStateSnapshot) isRecord() {}

// AlarmTrap is emitted on an alarm edge (rising or falling).
type AlarmTrap struct {
	Envelope
	Code               uint8
	Priority           AlarmPriority
	Triggered          bool
	ExpectedValue      uint32
	MeasuredValue      uint32
	CyclesSinceTrigger uint32
}

func (AlarmTrap) isRecord() {}

// ControlAck is emitted after the device applies a control setting.
type ControlAck struct {
	Envelope
	Setting Setting
	Value   uint16
}

func (ControlAck) isRecord() {}

// FatalErrorKind discriminates the FatalError tagged union (v2 only).
type FatalErrorKind uint8

const (
	FatalWatchdogRestart FatalErrorKind = iota
	FatalCalibrationError
	FatalBatteryDeeplyDischarged
	FatalMassFlowMeterError
	FatalInconsistentPressure
)

// FatalError is a v2-only record reporting an unrecoverable device
// condition. Only the fields relevant to Kind are populated.
type FatalError struct {
	Envelope
	Kind FatalErrorKind

	// CalibrationError fields. FlowAtStarting and FlowWithBlowerOn are nil
	// iff their wire sentinel (i16::MAX) was present.
	PressureOffset      int16
	MinPressure         int16
	MaxPressure         int16
	FlowAtStarting      *int16
	FlowWithBlowerOn    *int16

	// BatteryDeeplyDischarged field.
	BatteryLevel uint16

	// InconsistentPressure field.
	Pressure int16
}

func (FatalError) isRecord() {}

// FlowSentinel is the i16::MAX value denoting an absent calibration flow
// reading.
const FlowSentinel int16 = 1<<15 - 1

// VolumeSentinel is the 0xFFFF value denoting an absent measured volume.
const VolumeSentinel uint16 = 0xFFFF

// EolTestStep enumerates the 28 stages of the end-of-line test procedure.
type EolTestStep uint8

const (
	EolStart EolTestStep = iota
	EolCheckFan
	EolTestBatteryDead
	EolDisconnectMassFlowMeter
	EolCheckMassFlowMeter
	EolConnectMassFlowMeter
	EolCheckBuzzer
	EolCheckAllButtons
	EolCheckUIScreen
	EolPlugAirTestSystem
	EolReachExpiratoryUnregulatedPressure
	EolMaximumExpiratoryPressureReached
	EolStartExpiratoryPressureCalibration
	EolInviteConnectPatientCircuit
	EolReachSafetyPressure
	EolStartInspiratoryPressureCalibration
	EolDisconnectPatientCircuit
	EolCheckPatientCircuit
	EolConnectPatientCircuit
	EolCheckFiO2Sensor
	EolStartFlowVerification
	EolCheckFlowAtStarting
	EolCheckFlowWithBlowerOn
	EolConfirmBeforeOxygenTest
	EolStartOxygenTest
	EolWaitOxygenResult
	EolCheckOxygenResult
	EolDisplayFlow
)

func (s EolTestStep) Valid() bool {
	return s <= EolDisplayFlow
}

// EolTestContentKind discriminates the three states an EolTestSnapshot's
// content can report.
type EolTestContentKind uint8

const (
	EolContentInProgress EolTestContentKind = iota
	EolContentError
	EolContentSuccess
)

// EolTestContent is the free-text status payload of an EolTestSnapshot.
type EolTestContent struct {
	Kind EolTestContentKind
	Text string
}

// EolTestSnapshot reports end-of-line self-test progress (v2 only).
type EolTestSnapshot struct {
	Envelope
	Step    EolTestStep
	Content EolTestContent
}

func (EolTestSnapshot) isRecord() {}
