// Package client implements the send/await-reply transaction primitive
// on top of the bus transport: one transmit, one correlation window,
// timeout and feature-abort classification, no retries.
package client

import (
	"errors"
	"fmt"
	"time"

	"github.com/cectools/cecomply/internal/cec"
	"github.com/cectools/cecomply/internal/cec/transport"
)

// DefaultTimeout is the standard reply window. It is adjusted once at
// startup when the suite config sets a different window.
var DefaultTimeout = 2 * time.Second

// ExtendedTimeout is the window for operations CEC allows several
// seconds to answer accurately, such as starting a recording or
// programming a timer.
const ExtendedTimeout = 10 * time.Second

// OpRecorder receives the per-opcode recognized/unrecognized
// classification derived from each reply. Both calls are idempotent.
type OpRecorder interface {
	MarkRecognized(la cec.LogicalAddr, op cec.Opcode)
	MarkUnrecognized(la cec.LogicalAddr, op cec.Opcode)
}

// Client drives one transaction at a time over a Transport. The zero
// value is not usable; construct with New.
type Client struct {
	bus transport.Transport
	rec OpRecorder

	// WakeTimeout is the window for operations that may require the
	// remote to come out of standby first.
	WakeTimeout time.Duration

	// Unsolicited, when set, observes every frame delivered during a
	// wait window that is not the one being matched.
	Unsolicited func(cec.Message)
}

// New returns a Client on the given transport. rec may be nil when no
// capability tracking is wanted.
func New(bus transport.Transport, rec OpRecorder) *Client {
	return &Client{bus: bus, rec: rec, WakeTimeout: 60 * time.Second}
}

// Bus exposes the underlying transport for subtests that need raw
// follower-mode receive windows.
func (c *Client) Bus() transport.Transport { return c.bus }

// Result is the outcome of one Exchange: at most one of Replied,
// Aborted, or TimedOut describes the terminal condition.
type Result struct {
	Reply       cec.Message
	Replied     bool
	TimedOut    bool
	Aborted     bool
	AbortReason cec.AbortReason
}

// TimedOutOrAbort reports a missing or negative reply.
func (r Result) TimedOutOrAbort() bool { return r.TimedOut || r.Aborted }

// Unrecognized reports a Feature Abort with reason Unrecognized Opcode.
func (r Result) Unrecognized() bool {
	return r.Aborted && r.AbortReason == cec.AbortUnrecognizedOp
}

// Refused reports a Feature Abort with reason Refused.
func (r Result) Refused() bool {
	return r.Aborted && r.AbortReason == cec.AbortRefused
}

// IncorrectMode reports a Feature Abort with reason Not In Correct Mode.
func (r Result) IncorrectMode() bool {
	return r.Aborted && r.AbortReason == cec.AbortIncorrectMode
}

// InvalidOperand reports a Feature Abort with reason Invalid Operand.
func (r Result) InvalidOperand() bool {
	return r.Aborted && r.AbortReason == cec.AbortInvalidOperand
}

// Send transmits without awaiting any reply and reports whether the bus
// accepted the frame.
func (c *Client) Send(msg cec.Message) (bool, error) {
	return c.bus.Transmit(msg)
}

// Exchange transmits msg and blocks until the correlated reply
// (msg.WantReply) or a Feature Abort for msg.Op arrives from msg.To, or
// the window elapses. The deadline is computed once up front and never
// extended. Unsolicited frames delivered during the window are passed
// to the Unsolicited observer and skipped.
//
// For broadcast destinations a timeout is an expected outcome, not an
// error; the caller decides what silence means.
func (c *Client) Exchange(msg cec.Message, timeout time.Duration) (Result, error) {
	if msg.Poll {
		return Result{}, fmt.Errorf("exchange: polling messages carry no reply, use Send")
	}
	acked, err := c.bus.Transmit(msg)
	if err != nil {
		return Result{}, fmt.Errorf("transmit %s: %w", msg.Op, err)
	}
	if !acked && !msg.Broadcast() {
		return Result{}, fmt.Errorf("transmit %s: destination %s did not ack", msg.Op, msg.To)
	}

	deadline := time.Now().Add(timeout)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return Result{TimedOut: true}, nil
		}
		rx, err := c.bus.Receive(remaining)
		if errors.Is(err, transport.ErrTimeout) {
			return Result{TimedOut: true}, nil
		}
		if err != nil {
			return Result{}, fmt.Errorf("receive: %w", err)
		}

		if rx.From == msg.To && rx.IsFeatureAbortFor(msg.Op) {
			_, reason, perr := cec.ParseFeatureAbort(rx)
			if perr != nil {
				return Result{}, perr
			}
			c.classify(msg.To, msg.Op, reason)
			return Result{Reply: rx, Aborted: true, AbortReason: reason}, nil
		}
		if msg.WantReply != 0 && rx.Op == msg.WantReply &&
			(rx.From == msg.To || msg.Broadcast()) {
			if c.rec != nil && rx.From != cec.AddrBroadcast {
				c.rec.MarkRecognized(rx.From, msg.Op)
			}
			return Result{Reply: rx, Replied: true}, nil
		}
		if c.Unsolicited != nil {
			c.Unsolicited(rx)
		}
	}
}

// classify feeds the capability tracker from an abort reason: only an
// Unrecognized Opcode abort marks the opcode unrecognized; any other
// reason proves the device acted on the opcode.
func (c *Client) classify(la cec.LogicalAddr, op cec.Opcode, reason cec.AbortReason) {
	if c.rec == nil || la == cec.AddrBroadcast {
		return
	}
	if reason == cec.AbortUnrecognizedOp {
		c.rec.MarkUnrecognized(la, op)
	} else {
		c.rec.MarkRecognized(la, op)
	}
}
