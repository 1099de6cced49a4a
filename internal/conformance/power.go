package conformance

import (
	"time"

	"github.com/cectools/cecomply/internal/cec"
	"github.com/cectools/cecomply/internal/cec/client"
	"github.com/cectools/cecomply/internal/progress"
)

/* Give Device Power Status */

func powerStatusGive(n *Node, me, la cec.LogicalAddr, interactive bool) (Outcome, error) {
	res, err := n.Exchange(cec.BuildGiveDevicePowerStatus(me, la), client.DefaultTimeout)
	if err != nil {
		return 0, err
	}
	if res.TimedOut {
		return n.fail("Give Device Power Status timed out")
	}
	dev := n.Dev(la)
	if res.Unrecognized() {
		if n.checkV2(dev.CECVersion, true, "Give Device Power Status is mandatory") {
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
	status, err := cec.ParseReportPowerStatus(res.Reply)
	if err != nil {
		return n.fail("%v", err)
	}
	if status > cec.PowerToStandby {
		return n.fail("invalid power status 0x%02x", uint8(status))
	}
	dev.HasPowerStatus = true
	return Pass, nil
}

var powerStatusSubtests = []Subtest{
	{Name: "Give Device Power Status", LAMask: cec.MaskAll, Run: powerStatusGive},
}

/* Standby/Resume */

// pollPowerStatus polls Give Device Power Status once a second until the
// device reports want or the window closes.
func pollPowerStatus(n *Node, me, la cec.LogicalAddr, want cec.PowerStatus, window time.Duration) (bool, error) {
	bar := progress.NewBar(int(window/time.Second), "Waiting")
	defer bar.Finish()
	start := time.Now()
	deadline := start.Add(window)
	for time.Now().Before(deadline) {
		bar.Set(int(time.Since(start) / time.Second))
		res, err := n.Exchange(cec.BuildGiveDevicePowerStatus(me, la), client.DefaultTimeout)
		if err != nil {
			return false, err
		}
		if res.Replied {
			status, err := cec.ParseReportPowerStatus(res.Reply)
			if err == nil && status == want {
				return true, nil
			}
		}
		time.Sleep(time.Second)
	}
	return false, nil
}

func standbyResumeStandby(n *Node, me, la cec.LogicalAddr, interactive bool) (Outcome, error) {
	res, err := n.Exchange(cec.BuildStandby(me, la), client.DefaultTimeout)
	if err != nil {
		return 0, err
	}
	if res.Unrecognized() {
		return NotSupported, nil
	}
	if res.Refused() {
		return Refused, nil
	}
	dev := n.Dev(la)
	if !dev.HasPowerStatus {
		n.Warn("device does not report power status, standby cannot be verified")
		asked, ok, err := n.confirm(interactive, "Is the device in standby?")
		if err != nil {
			return 0, err
		}
		if asked && !ok {
			return n.fail("device did not enter standby")
		}
		dev.InStandby = true
		return Presumed, nil
	}
	// Entering standby may take a while on real hardware.
	reached, err := pollPowerStatus(n, me, la, cec.PowerStandby, n.Client.WakeTimeout)
	if err != nil {
		return 0, err
	}
	if !reached {
		return n.fail("device did not report standby after Standby")
	}
	dev.InStandby = true
	return Pass, nil
}

func standbyResumeWakeup(n *Node, me, la cec.LogicalAddr, interactive bool) (Outcome, error) {
	wake := cec.BuildImageViewOn(me, la)
	if la == cec.AddrAudioSystem {
		// Image View On targets display devices. An audio system wakes
		// on User Control Pressed (Power On Function).
		wake = cec.BuildUserControlPressed(me, la, cec.UICmdPowerOnFunction)
	}
	res, err := n.Exchange(wake, client.DefaultTimeout)
	if err != nil {
		return 0, err
	}
	if la == cec.AddrAudioSystem {
		if _, err := n.Client.Send(cec.BuildUserControlReleased(me, la)); err != nil {
			return 0, err
		}
	}
	if res.Unrecognized() {
		return NotSupported, nil
	}
	if res.Refused() {
		return Refused, nil
	}
	dev := n.Dev(la)
	if !dev.HasPowerStatus {
		asked, ok, err := n.confirm(interactive, "Did the device wake up?")
		if err != nil {
			return 0, err
		}
		if asked && !ok {
			return n.fail("device did not wake up")
		}
		dev.InStandby = false
		return Presumed, nil
	}
	reached, err := pollPowerStatus(n, me, la, cec.PowerOn, n.Client.WakeTimeout)
	if err != nil {
		return 0, err
	}
	if !reached {
		return n.fail("device did not report power on after wakeup")
	}
	dev.InStandby = false
	return Pass, nil
}

// standbyResumeRepeated checks that a second Standby while already in
// standby is harmless and the device stays in standby.
func standbyResumeRepeated(n *Node, me, la cec.LogicalAddr, interactive bool) (Outcome, error) {
	if _, err := n.Exchange(cec.BuildStandby(me, la), client.DefaultTimeout); err != nil {
		return 0, err
	}
	if !n.Dev(la).HasPowerStatus {
		return Presumed, nil
	}
	reached, err := pollPowerStatus(n, me, la, cec.PowerStandby, client.ExtendedTimeout)
	if err != nil {
		return 0, err
	}
	if !reached {
		return n.fail("device left standby on a repeated Standby")
	}
	return Pass, nil
}

var standbyResumeSubtests = []Subtest{
	{Name: "Standby", LAMask: cec.MaskAll, Run: standbyResumeStandby},
	{Name: "Repeated Standby message", LAMask: cec.MaskAll, InStandby: true, Run: standbyResumeRepeated},
	{Name: "Wakeup", LAMask: cec.MaskAll, InStandby: true, Run: standbyResumeWakeup},
}
