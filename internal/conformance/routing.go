package conformance

import (
	"time"

	"github.com/cectools/cecomply/internal/cec"
	"github.com/cectools/cecomply/internal/cec/client"
	"github.com/cectools/cecomply/internal/cec/transport"
)

/* Routing Control */

func routingActiveSource(n *Node, me, la cec.LogicalAddr, interactive bool) (Outcome, error) {
	if err := n.announce(interactive, "Please switch the TV to another source."); err != nil {
		return 0, err
	}
	msg := cec.BuildActiveSource(me, n.PhysAddr)
	if _, err := n.Exchange(msg, client.DefaultTimeout); err != nil {
		return 0, err
	}
	asked, ok, err := n.confirm(interactive, "Did the TV switch to this source?")
	if err != nil {
		return 0, err
	}
	if asked && !ok {
		return n.fail("TV did not switch to this source")
	}
	if interactive {
		return Pass, nil
	}
	return Presumed, nil
}

func routingReqActiveSource(n *Node, me, la cec.LogicalAddr, interactive bool) (Outcome, error) {
	// We have declared ourselves active source, so nobody may answer
	// Request Active Source.
	res, err := n.Exchange(cec.BuildRequestActiveSource(me), client.DefaultTimeout)
	if err != nil {
		return 0, err
	}
	if !res.TimedOut {
		return n.fail("got an Active Source reply while being active source")
	}
	return Pass, nil
}

func routingInactiveSource(n *Node, me, la cec.LogicalAddr, interactive bool) (Outcome, error) {
	if err := n.announce(interactive, "Please make sure that the TV is currently viewing this source."); err != nil {
		return 0, err
	}
	bus := n.Client.Bus()
	if err := bus.SetMode(transport.ModeFollower); err != nil {
		return 0, err
	}
	defer bus.SetMode(transport.ModeInitiator)

	res, err := n.Exchange(cec.BuildInactiveSource(me, la, n.PhysAddr), client.DefaultTimeout)
	if err != nil {
		return 0, err
	}
	if res.Unrecognized() {
		return NotSupported, nil
	}
	if res.Refused() {
		return Refused, nil
	}

	// The TV may take a moment to act on Inactive Source.
	reacted := false
	deadline := time.Now().Add(3 * time.Second)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			break
		}
		rx, err := bus.Receive(remaining)
		if err != nil {
			break
		}
		if rx.From == cec.AddrTV &&
			(rx.Op == cec.OpActiveSource || rx.Op == cec.OpSetStreamPath || rx.Op == cec.OpInactiveSource) {
			reacted = true
			break
		}
	}
	if me == cec.AddrTV {
		// Inactive Source must be ignored by everyone but the TV.
		if reacted {
			return n.fail("unexpected reply to Inactive Source")
		}
	} else {
		if !reacted {
			n.Warn("expected Active Source or Set Stream Path reply to Inactive Source")
		}
		asked, ok, err := n.confirm(interactive, "Did the TV switch away from or stop showing this source?")
		if err != nil {
			return 0, err
		}
		if asked && !ok {
			return n.fail("TV kept showing this source")
		}
	}
	return Pass, nil
}

func routingSetStreamPath(n *Node, me, la cec.LogicalAddr, interactive bool) (Outcome, error) {
	dev := n.Dev(la)

	// The long window is necessary because the device might have to
	// wake up from standby. In CEC 2.0 sources must send Active
	// Source in response.
	if cec.IsTV(la, dev.PrimType) {
		if err := n.announce(interactive, "Please ensure that the device is in standby."); err != nil {
			return 0, err
		}
	}
	res, err := n.Exchange(cec.BuildSetStreamPath(me, dev.PhysAddr), n.Client.WakeTimeout)
	if err != nil {
		return 0, err
	}
	if res.TimedOut && cec.IsTV(la, dev.PrimType) {
		return NotSupported, nil
	}
	if res.TimedOut && dev.CECVersion < cec.Version2_0 {
		n.Warn("device did not respond to Set Stream Path")
		return NotSupported, nil
	}
	if n.checkV2(dev.CECVersion, res.TimedOut, "CEC 2.0 source did not send Active Source") {
		return Fail, nil
	}
	pa, err := cec.ParseActiveSource(res.Reply)
	if err != nil {
		return n.fail("%v", err)
	}
	if pa != dev.PhysAddr {
		return n.fail("Active Source reported %s, expected %s", pa, dev.PhysAddr)
	}
	if cec.IsTV(la, dev.PrimType) {
		asked, ok, err := n.confirm(interactive, "Did the device go out of standby?")
		if err != nil {
			return 0, err
		}
		if asked && !ok {
			return n.fail("device stayed in standby")
		}
	}
	if interactive || dev.CECVersion >= cec.Version2_0 {
		return Pass, nil
	}
	return Presumed, nil
}

var routingSubtests = []Subtest{
	{Name: "Active Source", LAMask: cec.MaskTV, Run: routingActiveSource},
	{Name: "Request Active Source", LAMask: cec.MaskAll, Run: routingReqActiveSource},
	{Name: "Inactive Source", LAMask: cec.MaskTV, Run: routingInactiveSource},
	{Name: "Set Stream Path", LAMask: cec.MaskAll, Run: routingSetStreamPath},
}
