package wire

import "fmt"

// VentilationMode is the device's active ventilation strategy. Wire values
// match the original device firmware's numbering and must not be reordered.
type VentilationMode uint8

const (
	ModePCCMV  VentilationMode = 1
	ModePCAC   VentilationMode = 2
	ModeVCCMV  VentilationMode = 3
	ModePCVSAI VentilationMode = 4
	ModeVCAC   VentilationMode = 5
)

func (m VentilationMode) Valid() bool {
	return m >= ModePCCMV && m <= ModeVCAC
}

func (m VentilationMode) String() string {
	switch m {
	case ModePCCMV:
		return "PC_CMV"
	case ModePCAC:
		return "PC_AC"
	case ModeVCCMV:
		return "VC_CMV"
	case ModePCVSAI:
		return "PC_VSAI"
	case ModeVCAC:
		return "VC_AC"
	default:
		return fmt.Sprintf("ventilation_mode(%d)", uint8(m))
	}
}

// VentilationClass is the pressure/volume classification of a VentilationMode.
type VentilationClass uint8

const (
	ClassPressure VentilationClass = iota
	ClassVolume
)

func (c VentilationClass) String() string {
	if c == ClassVolume {
		return "volume"
	}
	return "pressure"
}

// Class reports whether m is a pressure-controlled or volume-controlled mode.
func (m VentilationMode) Class() VentilationClass {
	switch m {
	case ModeVCCMV, ModeVCAC:
		return ClassVolume
	default:
		return ClassPressure
	}
}

// VentilationKind is the cycling strategy classification of a VentilationMode.
type VentilationKind uint8

const (
	KindCMV VentilationKind = iota
	KindAC
	KindVSAI
)

func (k VentilationKind) String() string {
	switch k {
	case KindAC:
		return "ac"
	case KindVSAI:
		return "vsai"
	default:
		return "cmv"
	}
}

// Kind reports the cycling strategy of m, independent of its pressure/volume class.
func (m VentilationMode) Kind() VentilationKind {
	switch m {
	case ModePCAC, ModeVCAC:
		return KindAC
	case ModePCVSAI:
		return KindVSAI
	default:
		return KindCMV
	}
}
