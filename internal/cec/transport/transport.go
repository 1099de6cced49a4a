// Package transport defines the bus access contract the conformance
// engine drives, plus the built-in loopback adapter used for
// self-testing the harness. Framing, arbitration, and physical
// addressing live below this boundary.
package transport

import (
	"errors"
	"fmt"
	"time"

	"github.com/cectools/cecomply/internal/cec"
)

// ErrTimeout is returned by Receive when the window elapses with no
// message delivered.
var ErrTimeout = errors.New("receive timed out")

// Mode selects which traffic the adapter delivers to Receive.
type Mode int

const (
	ModeInitiator Mode = iota
	ModeFollower
)

// Transport is the narrow bus contract: blocking transmit with bus-ack
// reporting, blocking receive with a timeout, and initiator/follower
// mode selection. Implementations need not be safe for concurrent use;
// the engine is single-threaded.
type Transport interface {
	// Transmit sends one frame and reports whether the bus (the
	// destination's ack for directed frames) accepted it. A false
	// return with nil error means the destination did not ack.
	Transmit(msg cec.Message) (bool, error)

	// Receive blocks up to timeout for the next delivered frame.
	Receive(timeout time.Duration) (cec.Message, error)

	// SetMode switches between initiator-only and follower delivery.
	SetMode(mode Mode) error
}

// Factory builds a transport from an adapter spec string.
type Factory func(spec string) (Transport, error)

var factories = map[string]Factory{}

// Register installs a named adapter factory. Duplicate registration is
// a programming error.
func Register(name string, f Factory) {
	if _, dup := factories[name]; dup {
		panic(fmt.Sprintf("transport: duplicate adapter %q", name))
	}
	factories[name] = f
}

// Open builds the transport named by adapter ("name" or "name:spec").
func Open(adapter string) (Transport, error) {
	name, spec := adapter, ""
	for i := 0; i < len(adapter); i++ {
		if adapter[i] == ':' {
			name, spec = adapter[:i], adapter[i+1:]
			break
		}
	}
	f, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown adapter %q", name)
	}
	return f(spec)
}
