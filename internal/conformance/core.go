package conformance

import (
	"github.com/cectools/cecomply/internal/cec"
	"github.com/cectools/cecomply/internal/cec/client"
)

// Core behavior: how the remote deals with messages it cannot know.

func coreUnknown(n *Node, me, la cec.LogicalAddr, interactive bool) (Outcome, error) {
	// Unknown opcodes must be responded to with Feature Abort, reason
	// Unrecognized Opcode. 0xfe is unused through CEC 2.0; this needs
	// revisiting for future CEC versions.
	const unknownOpcode cec.Opcode = 0xfe

	res, err := n.Exchange(cec.Message{From: me, To: la, Op: unknownOpcode}, client.DefaultTimeout)
	if err != nil {
		return 0, err
	}
	if res.TimedOut {
		return n.failOrWarn("unknown opcode 0x%02x timed out", uint8(unknownOpcode))
	}
	if !res.Aborted {
		return n.fail("unknown opcode was not feature aborted")
	}
	abortedOp, reason, err := cec.ParseFeatureAbort(res.Reply)
	if err != nil {
		return n.fail("%v", err)
	}
	if reason != cec.AbortUnrecognizedOp {
		return n.fail("abort reason was %s, not Unrecognized Opcode", reason)
	}
	if abortedOp != unknownOpcode {
		return n.fail("abort echoed opcode 0x%02x", uint8(abortedOp))
	}

	// Broadcast unknown opcodes must be ignored.
	res, err = n.Exchange(cec.Message{From: me, To: cec.AddrBroadcast, Op: unknownOpcode}, client.DefaultTimeout)
	if err != nil {
		return 0, err
	}
	if !res.TimedOut {
		return n.fail("broadcast unknown opcode was answered")
	}
	return Pass, nil
}

func coreAbort(n *Node, me, la cec.LogicalAddr, interactive bool) (Outcome, error) {
	// The Abort message must always be feature aborted, with any
	// reason.
	res, err := n.Exchange(cec.BuildAbort(me, la), client.DefaultTimeout)
	if err != nil {
		return 0, err
	}
	if res.TimedOut {
		return n.failOrWarn("Abort timed out")
	}
	if !res.Aborted {
		return n.fail("Abort was not feature aborted")
	}
	return Pass, nil
}

var coreSubtests = []Subtest{
	{Name: "Feature aborts unknown messages", LAMask: cec.MaskAll, Run: coreUnknown},
	{Name: "Feature aborts Abort message", LAMask: cec.MaskAll, Run: coreAbort},
}
