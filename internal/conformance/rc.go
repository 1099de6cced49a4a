package conformance

import (
	"github.com/cectools/cecomply/internal/cec"
	"github.com/cectools/cecomply/internal/cec/client"
)

/* Remote Control Passthrough */

func rcUserCtrlPressed(n *Node, me, la cec.LogicalAddr, interactive bool) (Outcome, error) {
	// The key itself is not crucial, Volume Up is just always defined.
	res, err := n.Exchange(cec.BuildUserControlPressed(me, la, cec.UICmdVolumeUp), client.DefaultTimeout)
	if err != nil {
		return 0, err
	}
	// Mandatory for everything except devices on logical address 15.
	if n.checkV2(n.Dev(la).CECVersion,
		res.Unrecognized() && !cec.IsUnregistered(la.Mask()),
		"User Control Pressed is mandatory for CEC 2.0") {
		return Fail, nil
	}
	if res.Unrecognized() {
		return NotSupported, nil
	}
	if res.Refused() {
		return Refused, nil
	}
	return Presumed, nil
}

func rcUserCtrlReleased(n *Node, me, la cec.LogicalAddr, interactive bool) (Outcome, error) {
	res, err := n.Exchange(cec.BuildUserControlReleased(me, la), client.DefaultTimeout)
	if err != nil {
		return 0, err
	}
	if n.checkV2(n.Dev(la).CECVersion,
		res.Aborted && !cec.IsUnregistered(la.Mask()),
		"User Control Released is mandatory for CEC 2.0") {
		return Fail, nil
	}
	if res.Unrecognized() {
		return NotSupported, nil
	}
	if res.Refused() {
		return Refused, nil
	}
	n.Dev(la).HasRCPassthrough = true
	return Presumed, nil
}

var rcPassthroughSubtests = []Subtest{
	{Name: "User Control Pressed", LAMask: cec.MaskAll, Run: rcUserCtrlPressed},
	{Name: "User Control Released", LAMask: cec.MaskAll, Run: rcUserCtrlReleased},
}

/* Device Menu Control */

func menuCtlRequest(n *Node, me, la cec.LogicalAddr, interactive bool) (Outcome, error) {
	res, err := n.Exchange(cec.BuildMenuRequest(me, la, cec.MenuRequestQuery), client.DefaultTimeout)
	if err != nil {
		return 0, err
	}
	if res.Unrecognized() {
		return NotSupported, nil
	}
	if res.Refused() {
		return Refused, nil
	}
	if res.Aborted {
		return Presumed, nil
	}
	if _, err := cec.ParseMenuStatus(res.Reply); err != nil {
		return n.fail("%v", err)
	}
	if n.Dev(la).CECVersion >= cec.Version2_0 {
		n.Warn("the Device Menu Control feature is deprecated in CEC 2.0")
	}
	return Pass, nil
}

var menuCtlSubtests = []Subtest{
	{Name: "Menu Request", LAMask: ^cec.MaskTV, Run: menuCtlRequest},
	{Name: "User Control Pressed", LAMask: cec.MaskAll, Run: rcUserCtrlPressed},
	{Name: "User Control Released", LAMask: cec.MaskAll, Run: rcUserCtrlReleased},
}
