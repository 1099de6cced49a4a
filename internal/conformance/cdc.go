package conformance

import (
	"strconv"
	"time"

	"github.com/cectools/cecomply/internal/cec"
	"github.com/cectools/cecomply/internal/cec/transport"
)

/* Capability Discovery and Control */

func hecFuncStateName(s uint8) string {
	switch s {
	case cec.HECFuncStateNotSupported:
		return "HEC Not Supported"
	case cec.HECFuncStateInactive:
		return "HEC Inactive"
	case cec.HECFuncStateActive:
		return "HEC Active"
	case cec.HECFuncStateActivationField:
		return "HEC Activation Field"
	}
	return "Unknown"
}

func hostFuncStateName(s uint8) string {
	switch s {
	case cec.HostFuncStateNotSupported:
		return "Host Not Supported"
	case cec.HostFuncStateInactive:
		return "Host Inactive"
	case cec.HostFuncStateActive:
		return "Host Active"
	}
	return "Unknown"
}

func encFuncStateName(s uint8) string {
	switch s {
	case cec.ENCFuncStateNotSupported:
		return "Ext Con Not Supported"
	case cec.ENCFuncStateInactive:
		return "Ext Con Inactive"
	case cec.ENCFuncStateActive:
		return "Ext Con Active"
	}
	return "Unknown"
}

func cdcErrCodeName(c uint8) string {
	switch c {
	case cec.CDCErrCodeNone:
		return "No error"
	case cec.CDCErrCodeCapUnsupported:
		return "Initiator does not have requested capability"
	case cec.CDCErrCodeWrongState:
		return "Initiator is in wrong state"
	case cec.CDCErrCodeOther:
		return "Other error"
	}
	return "Unknown"
}

// cdcHECDiscover broadcasts CDC HEC Discover and collects state reports
// for up to 5 seconds, extending the per-message wait by 1 second after
// each frame.
func cdcHECDiscover(n *Node, me, la cec.LogicalAddr, interactive bool) (Outcome, error) {
	bus := n.Client.Bus()
	if err := bus.SetMode(transport.ModeFollower); err != nil {
		return 0, err
	}
	defer bus.SetMode(transport.ModeInitiator)

	if _, err := n.Client.Send(cec.BuildCDCHECDiscover(me, n.PhysAddr)); err != nil {
		return 0, err
	}

	hasCDC := false
	deadline := time.Now().Add(5 * time.Second)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			break
		}
		if remaining > time.Second {
			remaining = time.Second
		}
		rx, err := bus.Receive(remaining)
		if err != nil {
			break
		}
		if rx.Op == cec.OpFeatureAbort {
			if rx.From == la {
				return n.fail("device replied Feature Abort to broadcast message")
			}
			n.Warn("device %s replied Feature Abort to broadcast message", rx.From)
			continue
		}
		if rx.Op != cec.OpCDCMessage {
			continue
		}
		state, err := cec.ParseCDCHECReportState(rx)
		if err != nil {
			continue
		}
		if state.TargetPhysAddr != n.PhysAddr {
			continue
		}
		if state.PhysAddr == n.Dev(la).PhysAddr {
			hasCDC = true
		}

		n.Info("Received CDC HEC State report from device %s:", rx.From)
		n.Info("Physical address        : %s", state.PhysAddr)
		n.Info("Target physical address : %s", state.TargetPhysAddr)
		n.Info("HEC Functionality State : %s", hecFuncStateName(state.HECFuncState))
		n.Info("Host Functionality State: %s", hostFuncStateName(state.HostFuncState))
		n.Info("ENC Functionality State : %s", encFuncStateName(state.ENCFuncState))
		n.Info("CDC Error Code          : %s", cdcErrCodeName(state.CDCErrCode))
		if state.HasField {
			n.Info("HEC Support Field       : %s", hecFieldString(state.HECField))
		}
	}

	if !hasCDC {
		return NotSupported, nil
	}
	n.Dev(la).HasCDC = true
	return Pass, nil
}

// hecFieldString renders the HEC support bitmap. Bit 14 is the HDMI
// output, bits 13..0 are inputs 1..14.
func hecFieldString(field uint16) string {
	if field == 0 {
		return "None"
	}
	s := ""
	if field&(1<<14) != 0 {
		s = "out"
	}
	for i := 13; i >= 0; i-- {
		if field&(1<<i) == 0 {
			continue
		}
		if s != "" {
			s += ", "
		}
		s += "in" + strconv.Itoa(14-i)
	}
	return s
}

var cdcSubtests = []Subtest{
	{Name: "CDC_HEC_Discover", LAMask: cec.MaskAll, Run: cdcHECDiscover},
}
