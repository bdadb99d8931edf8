// Package replaydump renders one decoded telemetry record as a boxed,
// human-readable summary for `ventcore play`: a single Render call per
// record, no event loop.
package replaydump

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/aerovent/ventcore/internal/wire"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7D56F4")).
			Bold(true).
			PaddingLeft(1)

	fieldKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262")).
			PaddingLeft(1)

	fieldValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7D56F4"))
)

// Render returns a boxed, multi-line summary of rec: its kind, its
// common envelope fields, and a one-line %+v dump of the whole record.
func Render(rec wire.Record) string {
	kind := recordKind(rec)
	env := envelopeOf(rec)

	lines := []string{
		titleStyle.Render(kind),
		field("device", env.DeviceID.String()),
		field("firmware", env.FirmwareVersion),
		field("systick", fmt.Sprintf("%d", env.Systick)),
		field("version", fmt.Sprintf("%d", env.TelemetryVersion)),
		field("detail", fmt.Sprintf("%+v", rec)),
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}

func field(key, value string) string {
	return fieldKeyStyle.Render(key+":") + " " + fieldValueStyle.Render(value)
}

func recordKind(rec wire.Record) string {
	switch rec.(type) {
	case wire.BootMessage:
		return "BOOT"
	case wire.StoppedMessage:
		return "STOPPED"
	case wire.DataSnapshot:
		return "DATA SNAPSHOT"
	case wire.MachineStateSnapshot:
		return "MACHINE STATE"
	case wire.AlarmTrap:
		return "ALARM TRAP"
	case wire.ControlAck:
		return "CONTROL ACK"
	case wire.FatalError:
		return "FATAL ERROR"
	case wire.EolTestSnapshot:
		return "EOL TEST SNAPSHOT"
	default:
		return "UNKNOWN"
	}
}

func envelopeOf(rec wire.Record) wire.Envelope {
	switch v := rec.(type) {
	case wire.BootMessage:
		return v.Envelope
	case wire.StoppedMessage:
		return v.Envelope
	case wire.DataSnapshot:
		return v.Envelope
	case wire.MachineStateSnapshot:
		return v.Envelope
	case wire.AlarmTrap:
		return v.Envelope
	case wire.ControlAck:
		return v.Envelope
	case wire.FatalError:
		return v.Envelope
	case wire.EolTestSnapshot:
		return v.Envelope
	default:
		return wire.Envelope{}
	}
}
