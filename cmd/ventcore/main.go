// Command ventcore is a thin host over the ventilator telemetry and
// control core. It exposes only direct, semantics-free calls into the
// core's exported entry points: recording a serial stream to a capture
// file, replaying a capture file to a decoded log, and sending a single
// control command. Statistics, format conversion, and randomized
// traffic generation are out of scope and live elsewhere.
//
// Usage:
//
//	ventcore record --port /dev/ttyUSB0 --out capture.jsonl
//	ventcore play --in capture.jsonl
//	ventcore control --port /dev/ttyUSB0 --setting peep_command --value 5
//	ventcore disable-rpi-watchdog --port /dev/ttyUSB0
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aerovent/ventcore/internal/logging"
	"github.com/aerovent/ventcore/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "ventcore",
	Short:   "Ventilator telemetry and control core",
	Version: version.Full(),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logging.InitializeFromEnv()
	},
}

func init() {
	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(controlCmd)
	rootCmd.AddCommand(disableWatchdogCmd)
}
