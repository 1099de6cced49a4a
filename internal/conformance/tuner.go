package conformance

import (
	"fmt"

	"github.com/cectools/cecomply/internal/cec"
	"github.com/cectools/cecomply/internal/cec/client"
)

/* Tuner Control */

func bcastTypeName(bcastType uint8) string {
	switch bcastType {
	case cec.AnaBcastTypeCable:
		return "Cable"
	case cec.AnaBcastTypeSatellite:
		return "Satellite"
	case cec.AnaBcastTypeTerrestrial:
		return "Terrestrial"
	default:
		return "Future use"
	}
}

// logTunerService prints the tuned service and validates its operands.
func logTunerService(n *Node, info cec.TunerDeviceStatus, prefix string) (Outcome, error) {
	if info.IsAnalogue {
		freqMHz := float64(info.AnaFreq) * 625 / 10000.0
		n.Info("%sanalogue channel %.2f MHz (system %d, %s)", prefix, freqMHz,
			info.BcastSystem, bcastTypeName(info.AnaBcastType))
		if info.BcastSystem > cec.BcastSystemPALDK {
			return n.fail("invalid analogue broadcast system %d", info.BcastSystem)
		}
		if info.AnaBcastType > cec.AnaBcastTypeTerrestrial {
			return n.fail("invalid analogue broadcast type %d", info.AnaBcastType)
		}
		if info.AnaFreq == 0 {
			return n.fail("zero analogue frequency")
		}
		return Pass, nil
	}

	d := info.Digital
	if d.ServiceIDMethod == cec.ServiceIDMethodByChannel {
		n.Info("%sdigital channel %d.%d", prefix, d.ChannelMajor, d.ChannelMinor)
		if d.ChannelFmt < cec.ChannelNumberFmt1Part || d.ChannelFmt > cec.ChannelNumberFmt2Part {
			return n.fail("invalid channel number format %d", d.ChannelFmt)
		}
		return Pass, nil
	}
	switch d.BcastSystem {
	case cec.DigBcastSystemARIBGen, cec.DigBcastSystemATSCGen, cec.DigBcastSystemDVBGen:
		n.Warn("generic digital broadcast systems should not be used")
	case cec.DigBcastSystemARIBBS, cec.DigBcastSystemARIBCS, cec.DigBcastSystemARIBT,
		cec.DigBcastSystemATSCCable, cec.DigBcastSystemATSCSat, cec.DigBcastSystemATSCT,
		cec.DigBcastSystemDVBC, cec.DigBcastSystemDVBS, cec.DigBcastSystemDVBS2,
		cec.DigBcastSystemDVBT:
	default:
		return n.fail("invalid digital broadcast system %d", d.BcastSystem)
	}
	n.Info("%sdigital service TSID %d SID %d ONID %d PN %d", prefix,
		d.TransportID, d.ServiceID, d.OrigNetworkID, d.ProgramNumber)
	return Pass, nil
}

func tunerStatus(n *Node, me, la cec.LogicalAddr) (cec.TunerDeviceStatus, Outcome, error) {
	res, err := n.Exchange(cec.BuildGiveTunerDeviceStatus(me, la, cec.StatusReqOnce), client.DefaultTimeout)
	if err != nil {
		return cec.TunerDeviceStatus{}, 0, err
	}
	if res.TimedOutOrAbort() {
		out, ferr := n.fail("no tuner device status report")
		return cec.TunerDeviceStatus{}, out, ferr
	}
	info, err := cec.ParseTunerDeviceStatus(res.Reply)
	if err != nil {
		out, ferr := n.fail("%v", err)
		return cec.TunerDeviceStatus{}, out, ferr
	}
	return info, Pass, nil
}

func tunerCtlTest(n *Node, me, la cec.LogicalAddr, interactive bool) (Outcome, error) {
	hasTuner := la.Mask()&(cec.MaskTV|cec.MaskTuner) != 0

	res, err := n.Exchange(cec.BuildGiveTunerDeviceStatus(me, la, cec.StatusReqOnce), client.DefaultTimeout)
	if err != nil {
		return 0, err
	}
	if !hasTuner && !res.TimedOutOrAbort() {
		return n.fail("non-tuner device answered Give Tuner Device Status")
	}
	if !hasTuner || res.TimedOut || res.Unrecognized() {
		return NotSupported, nil
	}
	if res.Aborted {
		return Refused, nil
	}

	fmt.Fprintf(n.Out, "\t\tstart channel scan\n")
	first, err := cec.ParseTunerDeviceStatus(res.Reply)
	if err != nil {
		return n.fail("%v", err)
	}
	services := []cec.TunerDeviceStatus{first}
	if out, err := logTunerService(n, first, ""); out != Pass || err != nil {
		return out, err
	}

	// Step through the service list until it wraps back to the first
	// service or the tuner refuses to step further.
	for {
		res, err := n.Exchange(cec.BuildTunerStepIncrement(me, la), client.DefaultTimeout)
		if err != nil {
			return 0, err
		}
		if res.Aborted {
			if res.Unrecognized() {
				return n.fail("Tuner Step Increment was not recognized")
			}
			if res.Refused() {
				n.Warn("tuner step increment does not wrap")
			} else {
				n.Warn("tuner at end of service list did not abort with Refused")
			}
			break
		}
		info, out, err := tunerStatus(n, me, la)
		if out != Pass || err != nil {
			return out, err
		}
		if info == first {
			break
		}
		if out, err := logTunerService(n, info, ""); out != Pass || err != nil {
			return out, err
		}
		services = append(services, info)
	}
	fmt.Fprintf(n.Out, "\t\tfinished channel scan\n")

	fmt.Fprintf(n.Out, "\t\tstart channel test\n")
	for _, service := range services {
		if out, err := logTunerService(n, service, "select "); out != Pass || err != nil {
			return out, err
		}
		var sel cec.Message
		if service.IsAnalogue {
			sel = cec.BuildSelectAnalogueService(me, la, service.AnaBcastType,
				service.AnaFreq, service.BcastSystem)
		} else {
			sel = cec.BuildSelectDigitalService(me, la, service.Digital)
		}
		res, err := n.Exchange(sel, client.DefaultTimeout)
		if err != nil {
			return 0, err
		}
		if res.Aborted {
			return n.fail("service selection was aborted")
		}
		info, out, err := tunerStatus(n, me, la)
		if out != Pass || err != nil {
			return out, err
		}
		if info != service {
			return n.fail("reselected service does not match the scanned one")
		}
	}
	fmt.Fprintf(n.Out, "\t\tfinished channel test\n")

	n.Info("select invalid analogue channel")
	res, err = n.Exchange(cec.BuildSelectAnalogueService(me, la, 3, 16000, 9), client.DefaultTimeout)
	if err != nil {
		return 0, err
	}
	if !res.Aborted || res.AbortReason != cec.AbortInvalidOperand {
		return n.fail("invalid analogue selection was not aborted with Invalid Operand")
	}

	n.Info("select invalid digital channel")
	invalid := cec.DigitalServiceID{
		ServiceIDMethod: cec.ServiceIDMethodByDigID,
		BcastSystem:     cec.DigBcastSystemDVBS2,
	}
	res, err = n.Exchange(cec.BuildSelectDigitalService(me, la, invalid), client.DefaultTimeout)
	if err != nil {
		return 0, err
	}
	if !res.Aborted || res.AbortReason != cec.AbortInvalidOperand {
		return n.fail("invalid digital selection was not aborted with Invalid Operand")
	}
	return Pass, nil
}

var tunerCtlSubtests = []Subtest{
	{Name: "Tuner Control", LAMask: cec.MaskTuner | cec.MaskTV, Run: tunerCtlTest},
}
