package conformance

import (
	"github.com/cectools/cecomply/internal/cec"
	"github.com/cectools/cecomply/internal/cec/client"
)

/* Vendor Specific Commands */

func vendorCommandsID(n *Node, me, la cec.LogicalAddr, interactive bool) (Outcome, error) {
	res, err := n.Exchange(cec.BuildGiveDeviceVendorID(me, la), client.DefaultTimeout)
	if err != nil {
		return 0, err
	}
	if res.TimedOut {
		return n.failOrWarn("Give Device Vendor ID timed out")
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
	vendorID, err := cec.ParseDeviceVendorID(res.Reply)
	if err != nil {
		return n.fail("%v", err)
	}
	if vendorID != n.Dev(la).VendorID {
		return n.fail("vendor ID changed from 0x%06x to 0x%06x", n.Dev(la).VendorID, vendorID)
	}
	return Pass, nil
}

var vendorSubtests = []Subtest{
	{Name: "Give Device Vendor ID", LAMask: cec.MaskAll, Run: vendorCommandsID},
}
