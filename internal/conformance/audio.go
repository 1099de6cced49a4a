package conformance

import (
	"github.com/cectools/cecomply/internal/cec"
	"github.com/cectools/cecomply/internal/cec/client"
)

/* Dynamic Auto Lipsync */

func dalRequestLatency(n *Node, me, la cec.LogicalAddr, interactive bool) (Outcome, error) {
	dev := n.Dev(la)
	if dev.PhysAddr == cec.PhysAddrInvalid {
		return NotApplicable, nil
	}
	res, err := n.Exchange(cec.BuildRequestCurrentLatency(me, dev.PhysAddr), client.DefaultTimeout)
	if err != nil {
		return 0, err
	}
	if res.TimedOut {
		return NotSupported, nil
	}
	pa, latency, err := cec.ParseReportCurrentLatency(res.Reply)
	if err != nil {
		return n.fail("%v", err)
	}
	if pa != dev.PhysAddr {
		return n.fail("Report Current Latency echoed physical address %s, expected %s", pa, dev.PhysAddr)
	}
	// Video latency is (value - 1) * 2 ms, valid range 1..251.
	if latency < 1 || latency > 251 {
		return n.fail("invalid video latency operand 0x%02x", latency)
	}
	n.Info("Video latency: %d ms", (int(latency)-1)*2)
	return Pass, nil
}

// dalRequestLatencyMismatch sends Request Current Latency for a
// physical address belonging to nobody. The device must not answer for
// an address that is not its own.
func dalRequestLatencyMismatch(n *Node, me, la cec.LogicalAddr, interactive bool) (Outcome, error) {
	dev := n.Dev(la)
	if dev.PhysAddr == cec.PhysAddrInvalid {
		return NotApplicable, nil
	}
	other := cec.PhysAddr(0xefff)
	if dev.PhysAddr == other {
		other = 0xdfff
	}
	res, err := n.Exchange(cec.BuildRequestCurrentLatency(me, other), client.DefaultTimeout)
	if err != nil {
		return 0, err
	}
	if res.Replied {
		pa, _, err := cec.ParseReportCurrentLatency(res.Reply)
		if err == nil && res.Reply.From == la && pa == other {
			return n.fail("device answered a latency request for a foreign physical address")
		}
	}
	return Pass, nil
}

var dalSubtests = []Subtest{
	{Name: "Request Current Latency", LAMask: cec.MaskAll, Run: dalRequestLatency},
	{Name: "Request Current Latency with invalid PA", LAMask: cec.MaskAll, Run: dalRequestLatencyMismatch},
}

/* Audio Return Channel */

func arcInitiate(n *Node, me, la cec.LogicalAddr, interactive bool) (Outcome, error) {
	res, err := n.Exchange(cec.BuildRequestARCInitiation(me, la), client.DefaultTimeout)
	if err != nil {
		return 0, err
	}
	dev := n.Dev(la)
	if res.Unrecognized() {
		if n.checkV2(dev.CECVersion, dev.HasARCTx, "device claims ARC Tx but aborted Request ARC Initiation") {
			return Fail, nil
		}
		return NotSupported, nil
	}
	if res.Refused() {
		return Refused, nil
	}
	if res.Aborted {
		return Presumed, nil
	}
	if res.TimedOut {
		return n.fail("Request ARC Initiation got no Initiate ARC")
	}
	if _, err := n.Client.Send(cec.BuildReportARCInitiated(me, la)); err != nil {
		return 0, err
	}
	dev.HasARCTx = true
	return Pass, nil
}

func arcTerminate(n *Node, me, la cec.LogicalAddr, interactive bool) (Outcome, error) {
	res, err := n.Exchange(cec.BuildRequestARCTermination(me, la), client.DefaultTimeout)
	if err != nil {
		return 0, err
	}
	if res.Unrecognized() {
		if n.Dev(la).HasARCTx {
			return n.fail("device initiated ARC but aborted Request ARC Termination")
		}
		return NotSupported, nil
	}
	if res.Refused() {
		return Refused, nil
	}
	if res.Aborted {
		return Presumed, nil
	}
	if res.TimedOut {
		return n.fail("Request ARC Termination got no Terminate ARC")
	}
	if _, err := n.Client.Send(cec.BuildReportARCTerminated(me, la)); err != nil {
		return 0, err
	}
	return Pass, nil
}

var arcSubtests = []Subtest{
	{Name: "Request ARC Initiation", LAMask: cec.MaskAudioSystem | cec.MaskTV, Run: arcInitiate},
	{Name: "Request ARC Termination", LAMask: cec.MaskAudioSystem | cec.MaskTV, Run: arcTerminate},
}

/* System Audio Control */

func sacGiveModeStatus(n *Node, me, la cec.LogicalAddr, interactive bool) (Outcome, error) {
	res, err := n.Exchange(cec.BuildGiveSystemAudioModeStatus(me, la), client.DefaultTimeout)
	if err != nil {
		return 0, err
	}
	if res.TimedOut {
		return n.fail("Give System Audio Mode Status timed out")
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
	status, err := cec.ParseSystemAudioModeStatus(res.Reply)
	if err != nil {
		return n.fail("%v", err)
	}
	if status > cec.SystemAudioStatusOn {
		return n.fail("invalid system audio mode status 0x%02x", status)
	}
	return Pass, nil
}

func sacModeRequest(n *Node, me, la cec.LogicalAddr, interactive bool) (Outcome, error) {
	// With a physical address the audio system turns system audio mode
	// on for that source.
	res, err := n.Exchange(cec.BuildSystemAudioModeRequest(me, la, n.PhysAddr, true),
		client.DefaultTimeout)
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
	if res.TimedOut {
		return n.fail("System Audio Mode Request got no Set System Audio Mode")
	}
	mode, err := cec.ParseSetSystemAudioMode(res.Reply)
	if err != nil {
		return n.fail("%v", err)
	}
	if mode != cec.SystemAudioStatusOn {
		return n.fail("system audio mode is off after a request with a physical address")
	}

	// Without a physical address the request turns system audio mode
	// off again.
	res, err = n.Exchange(cec.BuildSystemAudioModeRequest(me, la, 0, false),
		client.DefaultTimeout)
	if err != nil {
		return 0, err
	}
	if res.TimedOutOrAbort() {
		return n.fail("System Audio Mode Request without an address got no Set System Audio Mode")
	}
	mode, err = cec.ParseSetSystemAudioMode(res.Reply)
	if err != nil {
		return n.fail("%v", err)
	}
	if mode != cec.SystemAudioStatusOff {
		return n.fail("system audio mode is still on after the terminating request")
	}
	return Pass, nil
}

func sacGiveAudioStatus(n *Node, me, la cec.LogicalAddr, interactive bool) (Outcome, error) {
	res, err := n.Exchange(cec.BuildGiveAudioStatus(me, la), client.DefaultTimeout)
	if err != nil {
		return 0, err
	}
	if res.TimedOut {
		return n.fail("Give Audio Status timed out")
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
	status, err := cec.ParseReportAudioStatus(res.Reply)
	if err != nil {
		return n.fail("%v", err)
	}
	if status.Volume > 100 && status.Volume != 0x7f {
		return n.fail("invalid audio volume %d", status.Volume)
	}
	if status.Mute {
		n.Info("Audio status: muted")
	} else {
		n.Info("Audio status: volume %d", status.Volume)
	}
	return Pass, nil
}

var sacSubtests = []Subtest{
	{Name: "Give System Audio Mode Status", LAMask: cec.MaskAudioSystem, Run: sacGiveModeStatus},
	{Name: "System Audio Mode Request", LAMask: cec.MaskAudioSystem, Run: sacModeRequest},
	{Name: "Give Audio Status", LAMask: cec.MaskAudioSystem, Run: sacGiveAudioStatus},
}

/* Audio Rate Control */

func audioRateCtl(n *Node, me, la cec.LogicalAddr, interactive bool) (Outcome, error) {
	res, err := n.Exchange(cec.BuildSetAudioRate(me, la, cec.AudioRateWideStd), client.DefaultTimeout)
	if err != nil {
		return 0, err
	}
	dev := n.Dev(la)
	if res.Unrecognized() {
		if n.checkV2(dev.CECVersion, dev.HasSetAudioRate, "device claims Set Audio Rate but aborted it") {
			return Fail, nil
		}
		return NotSupported, nil
	}
	if res.Refused() {
		return Refused, nil
	}
	// Restore normal rate control.
	if _, err := n.Client.Send(cec.BuildSetAudioRate(me, la, cec.AudioRateOff)); err != nil {
		return 0, err
	}
	return Presumed, nil
}

var audioRateSubtests = []Subtest{
	{Name: "Set Audio Rate", LAMask: cec.MaskAudioSystem, Run: audioRateCtl},
}
