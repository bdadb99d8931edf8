package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aerovent/ventcore/internal/transport"
	"github.com/aerovent/ventcore/internal/transport/replaydump"
)

var (
	playIn   string
	playPace bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Replay a capture file and print each decoded record",
	Long: `Reads a capture file written by 'record', decodes every frame, and
prints a boxed human-readable summary of each record to stdout.`,
	Example: `  ventcore play --in capture.jsonl
  ventcore play --in capture.jsonl --pace`,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&playIn, "in", "", "capture file to replay (required)")
	playCmd.Flags().BoolVar(&playPace, "pace", false, "sleep between records to approximate the device's native cadence")
	_ = playCmd.MarkFlagRequired("in")
}

func runPlay(cmd *cobra.Command, args []string) error {
	sess := transport.NewReplaySession(transport.ReplayOptions{
		Path:                 playIn,
		EnableTimeSimulation: playPace,
	})

	ctx := context.Background()
	done := make(chan struct{})
	go func() {
		sess.Run(ctx)
		close(done)
	}()

	for {
		select {
		case ev := <-sess.Events():
			if ev.Err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", ev.Err)
				continue
			}
			fmt.Println(replaydump.Render(ev.Record))
		case <-done:
			// Drain whatever is left buffered before returning.
			for {
				select {
				case ev := <-sess.Events():
					if ev.Err != nil {
						fmt.Fprintf(os.Stderr, "error: %v\n", ev.Err)
						continue
					}
					fmt.Println(replaydump.Render(ev.Record))
				default:
					return nil
				}
			}
		}
	}
}
