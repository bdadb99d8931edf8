package transport

import (
	"sync"
	"sync/atomic"

	"go.uber.org/multierr"

	"github.com/aerovent/ventcore/internal/wire"
)

// maxRetainedReconnectErrors bounds how many reconnect failures
// ReconnectErrors() combines, so a port that never comes back
// doesn't grow the combined error without bound.
const maxRetainedReconnectErrors = 8

// sessionCore holds the channels and state bookkeeping shared by every
// transport adapter (serial, WebSocket, replay, in-process).
type sessionCore struct {
	events   chan Event
	commands chan wire.Command
	state    atomic.Int32
	stopOnce sync.Once
	stopCh   chan struct{}
	name     string

	reconnectMu     sync.Mutex
	reconnectErrors []error
}

func newSessionCore(name string) *sessionCore {
	c := &sessionCore{
		events:   make(chan Event, 64),
		commands: make(chan wire.Command, 16),
		stopCh:   make(chan struct{}),
		name:     name,
	}
	c.state.Store(int32(StateClosed))
	return c
}

// Events returns the channel on which decoded records and high-level
// errors are delivered, single-producer (the transport loop) /
// single-consumer (the application).
func (c *sessionCore) Events() <-chan Event {
	return c.events
}

// Commands returns the channel operators use to send Commands to the
// peer. It is safe for multiple goroutines to send on this channel
// (e.g. the application and a periodic heartbeat producer).
func (c *sessionCore) Commands() chan<- wire.Command {
	return c.commands
}

// State returns the session's current position in the shared state
// machine.
func (c *sessionCore) State() State {
	return State(c.state.Load())
}

func (c *sessionCore) setState(s State) {
	from := c.State()
	c.state.Store(int32(s))
	logSessionTransition(c.name, from, s)
}

// Stop requests the loop terminate after its current iteration. It is
// safe to call more than once.
func (c *sessionCore) Stop() {
	c.stopOnce.Do(func() {
		close(c.stopCh)
	})
}

func (c *sessionCore) stopped() bool {
	select {
	case <-c.stopCh:
		return true
	default:
		return false
	}
}

func (c *sessionCore) emit(ev Event) {
	select {
	case c.events <- ev:
	case <-c.stopCh:
	}
}

// recordReconnectError appends to the rolling window of recent
// open/dial failures, kept so a caller can inspect why a session has
// been stuck cycling CLOSED -> CONFIGURING -> CLOSED.
func (c *sessionCore) recordReconnectError(err error) {
	c.reconnectMu.Lock()
	defer c.reconnectMu.Unlock()
	c.reconnectErrors = append(c.reconnectErrors, err)
	if len(c.reconnectErrors) > maxRetainedReconnectErrors {
		c.reconnectErrors = c.reconnectErrors[len(c.reconnectErrors)-maxRetainedReconnectErrors:]
	}
}

// ReconnectErrors returns the combined recent open/dial failures as a
// single multierr-joined error, or nil if there have been none.
func (c *sessionCore) ReconnectErrors() error {
	c.reconnectMu.Lock()
	defer c.reconnectMu.Unlock()
	return multierr.Combine(c.reconnectErrors...)
}
