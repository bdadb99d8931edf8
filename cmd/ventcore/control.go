package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.bug.st/serial"

	"github.com/aerovent/ventcore/internal/logging"
	"github.com/aerovent/ventcore/internal/protocol"
	"github.com/aerovent/ventcore/internal/wire"
)

var (
	controlPort    string
	controlBaud    int
	controlSetting string
	controlValue   uint16
)

var controlCmd = &cobra.Command{
	Use:   "control",
	Short: "Send a single control command over a serial port",
	Long: `Opens a serial port, sends one Command frame for the named setting,
and exits. Out-of-range values are logged but still sent: the device
remains the authority over its own settings.`,
	Example: `  ventcore control --port /dev/ttyUSB0 --setting peep_command --value 5`,
	RunE:    runControl,
}

func init() {
	controlCmd.Flags().StringVar(&controlPort, "port", "", "serial port path (required)")
	controlCmd.Flags().IntVar(&controlBaud, "baud", 115200, "serial baud rate")
	controlCmd.Flags().StringVar(&controlSetting, "setting", "", "setting name, e.g. peep_command (required)")
	controlCmd.Flags().Uint16Var(&controlValue, "value", 0, "value to send")
	_ = controlCmd.MarkFlagRequired("port")
	_ = controlCmd.MarkFlagRequired("setting")
}

func runControl(cmd *cobra.Command, args []string) error {
	setting, ok := lookupSettingByName(controlSetting)
	if !ok {
		return fmt.Errorf("unknown setting %q", controlSetting)
	}

	c := wire.Command{Setting: setting, Value: controlValue}
	if !wire.ValidateCommand(c) {
		logging.Warn("command value out of declared range, sending anyway")
	}

	return sendControlFrame(controlPort, controlBaud, c)
}

func lookupSettingByName(name string) (wire.Setting, bool) {
	for s := wire.Heartbeat; s <= wire.PeakPressureAlarmThreshold; s++ {
		if s.String() == name {
			return s, true
		}
	}
	return 0, false
}

func sendControlFrame(port string, baud int, c wire.Command) error {
	mode := &serial.Mode{BaudRate: baud, DataBits: 8, Parity: serial.NoParity, StopBits: serial.OneStopBit}
	p, err := serial.Open(port, mode)
	if err != nil {
		return fmt.Errorf("open serial port: %w", err)
	}
	defer func() { _ = p.Close() }()

	if err := p.SetReadTimeout(500 * time.Millisecond); err != nil {
		return fmt.Errorf("set read timeout: %w", err)
	}

	frame := protocol.EncodeCommand(c)
	if _, err := p.Write(frame); err != nil {
		return fmt.Errorf("write command: %w", err)
	}
	fmt.Printf("sent %s = %d\n", c.Setting, c.Value)
	return nil
}
