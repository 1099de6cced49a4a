package conformance

import (
	"fmt"
	"time"

	"github.com/cectools/cecomply/internal/cec"
	"github.com/cectools/cecomply/internal/cec/client"
)

/* Device OSD Transfer */

func osdTransferSet(n *Node, me, la cec.LogicalAddr, interactive bool) (Outcome, error) {
	res, err := n.Exchange(cec.BuildSetOSDName(me, la, "Whatever"), client.DefaultTimeout)
	if err != nil {
		return 0, err
	}
	dev := n.Dev(la)
	if res.Unrecognized() {
		if cec.IsTV(la, dev.PrimType) && dev.CECVersion >= cec.Version2_0 {
			n.Warn("TV feature aborted Set OSD Name")
		}
		return NotSupported, nil
	}
	if res.Refused() {
		return Refused, nil
	}
	return Presumed, nil
}

func osdTransferGive(n *Node, me, la cec.LogicalAddr, interactive bool) (Outcome, error) {
	// TODO: CEC 2.0 devices with several logical addresses shall
	// report the same name for each of them.
	res, err := n.Exchange(cec.BuildGiveOSDName(me, la), client.DefaultTimeout)
	if err != nil {
		return 0, err
	}
	if res.TimedOut {
		return n.failOrWarn("Give OSD Name timed out")
	}
	dev := n.Dev(la)
	if !cec.IsTV(la, dev.PrimType) && res.Unrecognized() {
		return n.fail("non-TV device must support Give OSD Name")
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
	name, err := cec.ParseSetOSDName(res.Reply)
	if err != nil {
		return n.fail("%v", err)
	}
	if name == "" {
		return n.fail("empty OSD name")
	}
	if name != dev.OSDName {
		return n.fail("OSD name changed from %q to %q", dev.OSDName, name)
	}
	return Pass, nil
}

var osdTransferSubtests = []Subtest{
	{Name: "Set OSD Name", LAMask: cec.MaskAll, Run: osdTransferSet},
	{Name: "Give OSD Name", LAMask: cec.MaskAll, Run: osdTransferGive},
}

/* OSD Display */

func osdStringSetDefault(n *Node, me, la cec.LogicalAddr, interactive bool) (Outcome, error) {
	osd := fmt.Sprintf("Rept %x from %x", uint8(la), uint8(me))
	unsuitable := false

	if err := n.announce(interactive, fmt.Sprintf("You should see %q appear on the screen", osd)); err != nil {
		return 0, err
	}
	res, err := n.Exchange(cec.BuildSetOSDString(me, la, cec.DispCtlDefault, osd), client.DefaultTimeout)
	if err != nil {
		return 0, err
	}
	dev := n.Dev(la)
	// In CEC 2.0 a TV that announces Set OSD String in its device
	// features must support it.
	if n.checkV2(dev.CECVersion,
		res.Unrecognized() && dev.DevFeatures&cec.FeatDevHasSetOSDString != 0,
		"device features announce Set OSD String but it was aborted") {
		return Fail, nil
	}
	if res.Unrecognized() {
		return NotSupported, nil
	}
	if res.Refused() {
		return Refused, nil
	}
	if res.Aborted {
		n.Warn("the device is in an unsuitable state or cannot display the complete message")
		unsuitable = true
	}
	dev.HasOSD = true
	if !interactive {
		return Presumed, nil
	}

	// The CEC 1.4b CTS says to wait at least 20 s for the string to
	// be cleared on the remote device.
	if err := n.announce(interactive, "Waiting 20s for the OSD string to be cleared on the remote device"); err != nil {
		return 0, err
	}
	time.Sleep(20 * time.Second)
	asked, ok, err := n.confirm(interactive, "Did the string appear and then disappear?")
	if err != nil {
		return 0, err
	}
	if !unsuitable && asked && !ok {
		return n.fail("operator did not see the string appear and disappear")
	}
	return Pass, nil
}

func osdStringSetUntilClear(n *Node, me, la cec.LogicalAddr, interactive bool) (Outcome, error) {
	if !n.Dev(la).HasOSD {
		return NotApplicable, nil
	}
	// Maximum-length string.
	const osd = "Appears 1 sec"
	unsuitable := false

	if err := n.announce(interactive, fmt.Sprintf("You should see %q appear on the screen for approximately three seconds", osd)); err != nil {
		return 0, err
	}
	res, err := n.Exchange(cec.BuildSetOSDString(me, la, cec.DispCtlUntilCleared, osd), client.DefaultTimeout)
	if err != nil {
		return 0, err
	}
	if res.Aborted && !res.Unrecognized() {
		n.Warn("the device is in an unsuitable state or cannot display the complete message")
		unsuitable = true
	}
	time.Sleep(3 * time.Second)

	res, err = n.Exchange(cec.BuildSetOSDString(me, la, cec.DispCtlClear, ""), 250*time.Millisecond)
	if err != nil {
		return 0, err
	}
	if res.Aborted {
		return n.fail("clearing the OSD string was aborted")
	}
	asked, ok, err := n.confirm(interactive, "Did the string appear?")
	if err != nil {
		return 0, err
	}
	if !unsuitable && asked && !ok {
		return n.fail("operator did not see the string")
	}
	if interactive {
		return Pass, nil
	}
	return Presumed, nil
}

func osdStringInvalid(n *Node, me, la cec.LogicalAddr, interactive bool) (Outcome, error) {
	if !n.Dev(la).HasOSD {
		return NotApplicable, nil
	}
	// An undefined Display Control operand must be feature aborted.
	if err := n.announce(interactive, "You should observe no change on the on screen display"); err != nil {
		return 0, err
	}
	res, err := n.Exchange(cec.BuildSetOSDString(me, la, 0xff, ""), client.DefaultTimeout)
	if err != nil {
		return 0, err
	}
	if res.TimedOut {
		return n.fail("Set OSD String with invalid operand timed out")
	}
	if !res.Aborted {
		return n.fail("invalid Display Control operand was not aborted")
	}
	asked, changed, err := n.confirm(interactive, "Did the display change?")
	if err != nil {
		return 0, err
	}
	if asked && changed {
		return n.fail("display changed on an invalid operand")
	}
	return Pass, nil
}

var osdStringSubtests = []Subtest{
	{Name: "Set OSD String with default timeout", LAMask: cec.MaskTV, Run: osdStringSetDefault},
	{Name: "Set OSD String with no timeout", LAMask: cec.MaskTV, Run: osdStringSetUntilClear},
	{Name: "Set OSD String with invalid operand", LAMask: cec.MaskTV, Run: osdStringInvalid},
}
