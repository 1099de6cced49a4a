package conformance

import (
	"github.com/cectools/cecomply/internal/cec"
	"github.com/cectools/cecomply/internal/cec/client"
)

/* System Information */

func sysInfoPolling(n *Node, me, la cec.LogicalAddr, interactive bool) (Outcome, error) {
	acked, err := n.Client.Send(cec.BuildPoll(me, la))
	if err != nil {
		return 0, err
	}
	if n.RemoteMask&la.Mask() != 0 {
		if !acked {
			return n.failCritical("polling a valid remote LA failed")
		}
		return Pass, nil
	}
	if acked {
		return n.failCritical("polling a vacant remote LA was acked")
	}
	return NotSupported, nil
}

func sysInfoPhysAddr(n *Node, me, la cec.LogicalAddr, interactive bool) (Outcome, error) {
	res, err := n.Exchange(cec.BuildGivePhysicalAddr(me, la), client.DefaultTimeout)
	if err != nil {
		return 0, err
	}
	if res.TimedOutOrAbort() {
		n.Warn("Give Physical Address timed out")
		if n.InStandby {
			return Pass, nil
		}
		return CriticalFail, nil
	}
	pa, prim, err := cec.ParseReportPhysicalAddr(res.Reply)
	if err != nil {
		return n.fail("%v", err)
	}
	dev := n.Dev(la)
	if pa != dev.PhysAddr {
		return n.fail("physical address changed from %s to %s", dev.PhysAddr, pa)
	}
	if prim != dev.PrimType {
		return n.fail("primary device type changed from %d to %d", dev.PrimType, prim)
	}
	return Pass, nil
}

func sysInfoVersion(n *Node, me, la cec.LogicalAddr, interactive bool) (Outcome, error) {
	res, err := n.Exchange(cec.BuildGetCECVersion(me, la), client.DefaultTimeout)
	if err != nil {
		return 0, err
	}
	if res.TimedOut {
		return n.failOrWarn("Get CEC Version timed out")
	}
	if res.Unrecognized() {
		return NotSupported, nil
	}
	if res.Refused() {
		return Refused, nil
	}
	version, err := cec.ParseCECVersion(res.Reply)
	if err != nil {
		return n.fail("%v", err)
	}
	// Needs to be kept in sync with newer CEC versions.
	if version < cec.Version1_3A || version > cec.Version2_0 {
		return n.fail("reported version 0x%02x out of range", uint8(version))
	}
	if version != n.Dev(la).CECVersion {
		return n.fail("version changed from %s to %s", n.Dev(la).CECVersion, version)
	}
	return Pass, nil
}

func sysInfoGetMenuLang(n *Node, me, la cec.LogicalAddr, interactive bool) (Outcome, error) {
	res, err := n.Exchange(cec.BuildGetMenuLanguage(me, la), client.DefaultTimeout)
	if err != nil {
		return 0, err
	}
	if res.TimedOut {
		return n.failOrWarn("Get Menu Language timed out")
	}
	dev := n.Dev(la)

	// Devices other than TVs shall feature abort Get Menu Language
	// with Unrecognized Opcode.
	if !cec.IsTV(la, dev.PrimType) && !res.Unrecognized() {
		return n.fail("non-TV device answered Get Menu Language")
	}
	if res.Unrecognized() {
		if cec.IsTV(la, dev.PrimType) {
			n.Warn("TV did not respond to Get Menu Language")
		}
		return NotSupported, nil
	}
	if res.Refused() {
		return Refused, nil
	}
	if res.Aborted {
		return Presumed, nil
	}
	language, err := cec.ParseSetMenuLanguage(res.Reply)
	if err != nil {
		return n.fail("%v", err)
	}
	if language != dev.Language {
		return n.fail("menu language changed from %q to %q", dev.Language, language)
	}
	return Pass, nil
}

func sysInfoSetMenuLang(n *Node, me, la cec.LogicalAddr, interactive bool) (Outcome, error) {
	msg := cec.BuildSetMenuLanguage(me, "eng")
	msg.To = la
	res, err := n.Exchange(msg, client.DefaultTimeout)
	if err != nil {
		return 0, err
	}
	if res.Unrecognized() {
		return NotSupported, nil
	}
	if res.Refused() {
		return Refused, nil
	}
	return Presumed, nil
}

func sysInfoGiveFeatures(n *Node, me, la cec.LogicalAddr, interactive bool) (Outcome, error) {
	res, err := n.Exchange(cec.BuildGiveFeatures(me, la), client.DefaultTimeout)
	if err != nil {
		return 0, err
	}
	if res.TimedOut {
		return n.failOrWarn("Give Features timed out")
	}
	dev := n.Dev(la)
	if res.Unrecognized() {
		if dev.CECVersion < cec.Version2_0 {
			return NotSupported, nil
		}
		if n.checkV2(dev.CECVersion, true, "CEC 2.0 device feature aborted Give Features") {
			return Fail, nil
		}
	}
	if res.Refused() {
		return Refused, nil
	}
	if dev.CECVersion < cec.Version2_0 {
		n.Info("device has CEC version < 2.0 but supports Give Features")
	}

	feat, err := cec.ParseReportFeatures(res.Reply)
	if err != nil {
		return n.fail("%v", err)
	}
	n.Info("all device types 0x%02x, RC profile 0x%02x, device features 0x%02x",
		feat.AllDeviceTypes, feat.RCProfile, feat.DevFeatures)

	mask := la.Mask()
	playRecTuner := cec.HasPlayback(mask) || cec.HasRecord(mask) || cec.HasTuner(mask)
	if !playRecTuner && feat.DevFeatures&cec.FeatDevHasSetAudioRate != 0 {
		return n.fail("only playback, recording or tuner devices may set the Set Audio Rate bit")
	}
	if !(cec.HasPlayback(mask) || cec.HasRecord(mask)) && feat.DevFeatures&cec.FeatDevHasDeckControl != 0 {
		return n.fail("only playback and recording devices may set the Supports Deck Control bit")
	}
	if !cec.HasTV(mask) && dev.HasRecTVScreen {
		return n.fail("only TVs may set the Record TV Screen bit")
	}
	if cec.HasPlayback(mask) && feat.DevFeatures&cec.FeatDevSinkHasARCTx != 0 {
		return n.fail("a playback device cannot set the Sink Supports ARC Tx bit")
	}
	if cec.HasTV(mask) && feat.DevFeatures&cec.FeatDevSourceHasARCRx != 0 {
		return n.fail("a TV cannot set the Source Supports ARC Rx bit")
	}

	if feat.Version != dev.CECVersion {
		return n.fail("feature report version %s disagrees with %s", feat.Version, dev.CECVersion)
	}
	if feat.RCProfile != dev.RCProfile || feat.DevFeatures != dev.DevFeatures ||
		feat.AllDeviceTypes != dev.AllDevTypes {
		return n.fail("feature report changed since discovery")
	}
	return Pass, nil
}

var sysInfoSubtests = []Subtest{
	{Name: "Polling Message", LAMask: cec.MaskAll, Run: sysInfoPolling},
	{Name: "Give Physical Address", LAMask: cec.MaskAll, Run: sysInfoPhysAddr},
	{Name: "Give CEC Version", LAMask: cec.MaskAll, Run: sysInfoVersion},
	{Name: "Get Menu Language", LAMask: cec.MaskAll, Run: sysInfoGetMenuLang},
	{Name: "Set Menu Language", LAMask: cec.MaskAll, Run: sysInfoSetMenuLang},
	{Name: "Give Device Features", LAMask: cec.MaskAll, Run: sysInfoGiveFeatures},
}
