package transport

import (
	"context"
	"testing"
	"time"

	"github.com/aerovent/ventcore/internal/wire"
)

func TestRunHeartbeatEmitsPeriodically(t *testing.T) {
	commands := make(chan wire.Command, 4)
	ctx, cancel := context.WithTimeout(context.Background(), 35*time.Millisecond)
	defer cancel()

	go RunHeartbeat(ctx, commands, 10*time.Millisecond)

	select {
	case cmd := <-commands:
		if cmd.Setting != wire.Heartbeat {
			t.Fatalf("setting = %v, want Heartbeat", cmd.Setting)
		}
		if cmd.Value != 0 {
			t.Fatalf("value = %v, want 0", cmd.Value)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("timed out waiting for heartbeat command")
	}
}

func TestRunHeartbeatStopsOnContextDone(t *testing.T) {
	commands := make(chan wire.Command, 4)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		RunHeartbeat(ctx, commands, 5*time.Millisecond)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("RunHeartbeat did not return after context cancellation")
	}
}
