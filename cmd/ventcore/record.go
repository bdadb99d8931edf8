package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aerovent/ventcore/internal/transport"
)

var (
	recordPort     string
	recordOut      string
	recordBaud     int
	recordHeartbeat time.Duration
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Stream a serial ventilator connection to a capture file",
	Long: `Opens a serial port, decodes telemetry frames, and appends each
frame (base64-encoded) to a capture file for later replay with 'play'.
A periodic Heartbeat command is sent on the control channel so the
device does not trip its host-watchdog alarm while recording.

Runs until interrupted (Ctrl-C).`,
	Example: `  ventcore record --port /dev/ttyUSB0 --out capture.jsonl`,
	RunE:    runRecord,
}

func init() {
	recordCmd.Flags().StringVar(&recordPort, "port", "", "serial port path (required)")
	recordCmd.Flags().StringVar(&recordOut, "out", "", "capture file to append to (required)")
	recordCmd.Flags().IntVar(&recordBaud, "baud", 115200, "serial baud rate")
	recordCmd.Flags().DurationVar(&recordHeartbeat, "heartbeat", transport.DefaultHeartbeatPeriod, "heartbeat command interval")
	_ = recordCmd.MarkFlagRequired("port")
	_ = recordCmd.MarkFlagRequired("out")
}

func runRecord(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sess := transport.NewSerialSession(recordPort, transport.SerialOptions{
		BaudRate:    recordBaud,
		CaptureFile: recordOut,
	})

	go transport.RunHeartbeat(ctx, sess.Commands(), recordHeartbeat)
	go sess.Run(ctx)

	for {
		select {
		case ev := <-sess.Events():
			if ev.Err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", ev.Err)
				continue
			}
			fmt.Printf("%+v\n", ev.Record)
		case <-ctx.Done():
			sess.Stop()
			return nil
		}
	}
}
