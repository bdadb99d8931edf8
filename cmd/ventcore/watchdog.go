package main

import (
	"github.com/spf13/cobra"

	"github.com/aerovent/ventcore/internal/wire"
)

var (
	watchdogPort string
	watchdogBaud int
)

var disableWatchdogCmd = &cobra.Command{
	Use:   "disable-rpi-watchdog",
	Short: "Send the special Heartbeat value that suppresses the host watchdog",
	Long: `Sends a single Heartbeat command carrying the DISABLE_RPI_WATCHDOG
sentinel value (43690), per §4.5. Useful when running the core under a
debugger where normal heartbeat cadence cannot be maintained.`,
	Example: `  ventcore disable-rpi-watchdog --port /dev/ttyUSB0`,
	RunE:    runDisableWatchdog,
}

func init() {
	disableWatchdogCmd.Flags().StringVar(&watchdogPort, "port", "", "serial port path (required)")
	disableWatchdogCmd.Flags().IntVar(&watchdogBaud, "baud", 115200, "serial baud rate")
	_ = disableWatchdogCmd.MarkFlagRequired("port")
}

func runDisableWatchdog(cmd *cobra.Command, args []string) error {
	c := wire.Command{Setting: wire.Heartbeat, Value: wire.DisableRPiWatchdog}
	return sendControlFrame(watchdogPort, watchdogBaud, c)
}
