package conformance

import (
	"github.com/cectools/cecomply/internal/cec"
	"github.com/cectools/cecomply/internal/cec/client"
)

/* One Touch Record */

func recTVScreen(n *Node, me, la cec.LogicalAddr, interactive bool) (Outcome, error) {
	res, err := n.Exchange(cec.BuildRecordTVScreen(me, la), client.DefaultTimeout)
	if err != nil {
		return 0, err
	}
	dev := n.Dev(la)
	if n.checkV2(dev.CECVersion, dev.HasRecTVScreen && res.Unrecognized(),
		"device announces Record TV Screen but aborted it") {
		return Fail, nil
	}
	if n.checkV2(dev.CECVersion, !dev.HasRecTVScreen && !res.Unrecognized(),
		"device without Record TV Screen accepted it") {
		return Fail, nil
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
	// The follower must ignore Record TV Screen unless it came from a
	// recording device.
	if n.PrimType != cec.PrimDevTypeRecord {
		if !res.TimedOut {
			return n.fail("Record TV Screen from a non-recording device was answered")
		}
		return Pass, nil
	}
	if res.TimedOut {
		return n.fail("Record TV Screen timed out")
	}

	src, err := cec.ParseRecordOn(res.Reply)
	if err != nil {
		return n.fail("%v", err)
	}
	if src.Type < cec.RecordSrcOwn || src.Type > cec.RecordSrcExtPhysAddr {
		return n.fail("invalid record source type %d", src.Type)
	}
	if src.Type == cec.RecordSrcDigital {
		if !cec.DigBcastSystemIsValid(src.Digital.BcastSystem) {
			return n.fail("invalid digital service broadcast system operand")
		}
		if src.Digital.ServiceIDMethod == cec.ServiceIDMethodByChannel &&
			(src.Digital.ChannelFmt < cec.ChannelNumberFmt1Part ||
				src.Digital.ChannelFmt > cec.ChannelNumberFmt2Part) {
			return n.fail("invalid channel number format operand")
		}
	}
	if src.Type == cec.RecordSrcAnalogue {
		if src.AnaBcastType > cec.AnaBcastTypeTerrestrial {
			return n.fail("invalid analogue broadcast type")
		}
		if src.BcastSystem > cec.BcastSystemPALDK && src.BcastSystem != cec.BcastSystemOther {
			return n.fail("invalid analogue broadcast system")
		}
		if src.AnaFreq == 0 || src.AnaFreq == 0xffff {
			return n.fail("invalid analogue frequency")
		}
	}
	if src.Type == cec.RecordSrcExtPlug && src.Plug == 0 {
		return n.fail("invalid external plug 0")
	}
	return Pass, nil
}

// recOnSend terminates any active recording, then requests recording
// from src and returns the record status. The long window covers
// devices that take several seconds to respond accurately.
func recOnSend(n *Node, me, la cec.LogicalAddr, src cec.RecordSrc) (uint8, Outcome, error) {
	if _, err := n.Exchange(cec.BuildRecordOff(me, la, false), client.DefaultTimeout); err != nil {
		return 0, 0, err
	}
	res, err := n.Exchange(cec.BuildRecordOn(me, la, src), client.ExtendedTimeout)
	if err != nil {
		return 0, 0, err
	}
	if res.TimedOutOrAbort() {
		out, ferr := n.fail("Record On got no record status")
		return 0, out, ferr
	}
	status, err := cec.ParseRecordStatus(res.Reply)
	if err != nil {
		out, ferr := n.fail("%v", err)
		return 0, out, ferr
	}
	return status, Pass, nil
}

func recOnSendInvalid(n *Node, me, la cec.LogicalAddr, src cec.RecordSrc) (Outcome, error) {
	res, err := n.Exchange(cec.BuildRecordOn(me, la, src), client.DefaultTimeout)
	if err != nil {
		return 0, err
	}
	if !res.Aborted || res.AbortReason != cec.AbortInvalidOperand {
		return n.fail("invalid record source was not aborted with Invalid Operand")
	}
	return Pass, nil
}

// checkRecStatus accepts the wanted per-source success status or any
// defined error status for a failed recording start.
func checkRecStatus(n *Node, status, want uint8) (Outcome, error) {
	if status == want {
		return Pass, nil
	}
	if !cec.RecordStatusIsError(status) {
		return n.fail("record status 0x%02x is neither 0x%02x nor a valid error", status, want)
	}
	return Pass, nil
}

func recOn(n *Node, me, la cec.LogicalAddr, interactive bool) (Outcome, error) {
	own := cec.RecordSrc{Type: cec.RecordSrcOwn}
	res, err := n.Exchange(cec.BuildRecordOn(me, la, own), client.ExtendedTimeout)
	if err != nil {
		return 0, err
	}
	if res.TimedOut {
		return n.fail("Record On timed out")
	}
	if res.Unrecognized() {
		if n.Dev(la).PrimType == cec.PrimDevTypeRecord {
			return n.fail("recording device aborted Record On")
		}
		return NotSupported, nil
	}
	if res.Refused() {
		return Refused, nil
	}
	if res.Aborted {
		return Presumed, nil
	}
	status, err := cec.ParseRecordStatus(res.Reply)
	if err != nil {
		return n.fail("%v", err)
	}
	if out, err := checkRecStatus(n, status, cec.RecordStatusCurSrc); out != Pass || err != nil {
		return out, err
	}

	// The digital services and analogue channels below match the
	// cec-follower tuner emulation.
	digital := []cec.RecordSrc{
		{Type: cec.RecordSrcDigital, Digital: cec.DigitalServiceID{
			ServiceIDMethod: cec.ServiceIDMethodByDigID,
			BcastSystem:     cec.DigBcastSystemARIBBS,
			TransportID:     1032, ServiceID: 30203, OrigNetworkID: 1,
		}},
		{Type: cec.RecordSrcDigital, Digital: cec.DigitalServiceID{
			ServiceIDMethod: cec.ServiceIDMethodByChannel,
			BcastSystem:     cec.DigBcastSystemATSCT,
			ChannelFmt:      cec.ChannelNumberFmt2Part,
			ChannelMajor:    4, ChannelMinor: 1,
		}},
		{Type: cec.RecordSrcDigital, Digital: cec.DigitalServiceID{
			ServiceIDMethod: cec.ServiceIDMethodByDigID,
			BcastSystem:     cec.DigBcastSystemDVBT,
			TransportID:     1004, ServiceID: 1040, OrigNetworkID: 8945,
		}},
	}
	for _, src := range digital {
		status, out, err := recOnSend(n, me, la, src)
		if out != Pass || err != nil {
			return out, err
		}
		if out, err := checkRecStatus(n, status, cec.RecordStatusDigService); out != Pass || err != nil {
			return out, err
		}
	}

	analogue := []cec.RecordSrc{
		{Type: cec.RecordSrcAnalogue, AnaBcastType: cec.AnaBcastTypeCable,
			AnaFreq: 471250 * 10 / 625, BcastSystem: cec.BcastSystemPALBG},
		{Type: cec.RecordSrcAnalogue, AnaBcastType: cec.AnaBcastTypeSatellite,
			AnaFreq: 551250 * 10 / 625, BcastSystem: cec.BcastSystemSECAMBG},
		{Type: cec.RecordSrcAnalogue, AnaBcastType: cec.AnaBcastTypeTerrestrial,
			AnaFreq: 185250 * 10 / 625, BcastSystem: cec.BcastSystemPALDK},
	}
	for _, src := range analogue {
		status, out, err := recOnSend(n, me, la, src)
		if out != Pass || err != nil {
			return out, err
		}
		if out, err := checkRecStatus(n, status, cec.RecordStatusAnaService); out != Pass || err != nil {
			return out, err
		}
	}

	for _, src := range []cec.RecordSrc{
		{Type: cec.RecordSrcExtPlug, Plug: 1},
		{Type: cec.RecordSrcExtPhysAddr},
	} {
		status, out, err := recOnSend(n, me, la, src)
		if out != Pass || err != nil {
			return out, err
		}
		if out, err := checkRecStatus(n, status, cec.RecordStatusExtInput); out != Pass || err != nil {
			return out, err
		}
	}
	return Pass, nil
}

func recOnInvalid(n *Node, me, la cec.LogicalAddr, interactive bool) (Outcome, error) {
	// Source type 0 and 6 are outside the defined range.
	res, err := n.Exchange(cec.Message{From: me, To: la, Op: cec.OpRecordOn,
		WantReply: cec.OpRecordStatus, Operands: []byte{0}}, client.DefaultTimeout)
	if err != nil {
		return 0, err
	}
	if res.Unrecognized() {
		return NotSupported, nil
	}
	if !res.Aborted || res.AbortReason != cec.AbortInvalidOperand {
		return n.fail("invalid record source type 0 was not aborted with Invalid Operand")
	}
	res, err = n.Exchange(cec.Message{From: me, To: la, Op: cec.OpRecordOn,
		WantReply: cec.OpRecordStatus, Operands: []byte{6}}, client.DefaultTimeout)
	if err != nil {
		return 0, err
	}
	if !res.Aborted || res.AbortReason != cec.AbortInvalidOperand {
		return n.fail("invalid record source type 6 was not aborted with Invalid Operand")
	}

	invalid := []cec.RecordSrc{
		// Invalid digital service broadcast system.
		{Type: cec.RecordSrcDigital, Digital: cec.DigitalServiceID{
			ServiceIDMethod: cec.ServiceIDMethodByChannel,
			BcastSystem:     0x7f,
			ChannelFmt:      cec.ChannelNumberFmt1Part,
			ChannelMinor:    30203,
		}},
		// Invalid channel number format.
		{Type: cec.RecordSrcDigital, Digital: cec.DigitalServiceID{
			ServiceIDMethod: cec.ServiceIDMethodByChannel,
			BcastSystem:     cec.DigBcastSystemARIBBS,
			ChannelFmt:      0,
			ChannelMinor:    30609,
		}},
		// Invalid analogue broadcast type.
		{Type: cec.RecordSrcAnalogue, AnaBcastType: 0xff,
			AnaFreq: 519250 * 10 / 625, BcastSystem: cec.BcastSystemPALBG},
		// Invalid analogue broadcast system.
		{Type: cec.RecordSrcAnalogue, AnaBcastType: cec.AnaBcastTypeSatellite,
			AnaFreq: 703250 * 10 / 625, BcastSystem: 0xff},
		// Invalid frequencies.
		{Type: cec.RecordSrcAnalogue, AnaBcastType: cec.AnaBcastTypeTerrestrial,
			AnaFreq: 0, BcastSystem: cec.BcastSystemNTSCM},
		{Type: cec.RecordSrcAnalogue, AnaBcastType: cec.AnaBcastTypeCable,
			AnaFreq: 0xffff, BcastSystem: cec.BcastSystemSECAML},
		// Invalid external plug.
		{Type: cec.RecordSrcExtPlug, Plug: 0},
	}
	for _, src := range invalid {
		if out, err := recOnSendInvalid(n, me, la, src); out != Pass || err != nil {
			return out, err
		}
	}
	return Pass, nil
}

func recOff(n *Node, me, la cec.LogicalAddr, interactive bool) (Outcome, error) {
	res, err := n.Exchange(cec.BuildRecordOff(me, la, true), client.ExtendedTimeout)
	if err != nil {
		return 0, err
	}
	if res.Unrecognized() {
		if n.Dev(la).PrimType == cec.PrimDevTypeRecord {
			return n.fail("recording device aborted Record Off")
		}
		return NotSupported, nil
	}
	if res.Refused() {
		return Refused, nil
	}
	if res.Aborted || res.TimedOut {
		return Presumed, nil
	}
	status, err := cec.ParseRecordStatus(res.Reply)
	if err != nil {
		return n.fail("%v", err)
	}
	if status != cec.RecordStatusTerminatedOK && status != cec.RecordStatusAlreadyTerminated {
		return n.fail("record status 0x%02x after Record Off", status)
	}
	return Pass, nil
}

var oneTouchRecSubtests = []Subtest{
	{Name: "Record TV Screen", LAMask: cec.MaskTV, Run: recTVScreen},
	{Name: "Record On", LAMask: cec.MaskRecord | cec.MaskBackup, Run: recOn},
	{Name: "Record On Invalid Operand", LAMask: cec.MaskRecord | cec.MaskBackup, Run: recOnInvalid},
	{Name: "Record Off", LAMask: cec.MaskRecord | cec.MaskBackup, Run: recOff},
}
