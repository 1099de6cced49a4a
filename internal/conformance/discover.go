package conformance

import (
	"github.com/cectools/cecomply/internal/cec"
	"github.com/cectools/cecomply/internal/cec/client"
	"github.com/cectools/cecomply/internal/progress"
)

// Discover polls every logical address and builds the baseline record
// the subtests compare against: physical address, CEC version, vendor
// ID, OSD name, menu language, feature bits, and power state.
func (n *Node) Discover(me cec.LogicalAddr) error {
	bar := progress.NewBar(int(cec.AddrBroadcast), "Polling")
	defer bar.Finish()
	for la := cec.LogicalAddr(0); la < cec.AddrBroadcast; la++ {
		bar.Increment()
		if la == me {
			continue
		}
		acked, err := n.Client.Send(cec.BuildPoll(me, la))
		if err != nil {
			return err
		}
		if !acked {
			continue
		}
		n.RemoteMask |= 1 << la
		if err := n.probe(me, la); err != nil {
			return err
		}
	}
	return nil
}

func (n *Node) probe(me, la cec.LogicalAddr) error {
	dev := n.Dev(la)

	res, err := n.Exchange(cec.BuildGivePhysicalAddr(me, la), client.DefaultTimeout)
	if err != nil {
		return err
	}
	if res.Replied {
		if pa, prim, err := cec.ParseReportPhysicalAddr(res.Reply); err == nil {
			dev.PhysAddr = pa
			dev.PrimType = prim
		}
	}

	// A device that does not answer Get CEC Version predates 2.0 and is
	// treated as 1.4.
	dev.CECVersion = cec.Version1_4
	res, err = n.Exchange(cec.BuildGetCECVersion(me, la), client.DefaultTimeout)
	if err != nil {
		return err
	}
	if res.Replied {
		if v, err := cec.ParseCECVersion(res.Reply); err == nil {
			dev.CECVersion = v
		}
	}

	res, err = n.Exchange(cec.BuildGiveDeviceVendorID(me, la), client.DefaultTimeout)
	if err != nil {
		return err
	}
	if res.Replied {
		if id, err := cec.ParseDeviceVendorID(res.Reply); err == nil {
			dev.VendorID = id
		}
	}

	res, err = n.Exchange(cec.BuildGiveOSDName(me, la), client.DefaultTimeout)
	if err != nil {
		return err
	}
	if res.Replied {
		if name, err := cec.ParseSetOSDName(res.Reply); err == nil {
			dev.OSDName = name
		}
	}

	if la == cec.AddrTV {
		res, err = n.Exchange(cec.BuildGetMenuLanguage(me, la), client.DefaultTimeout)
		if err != nil {
			return err
		}
		if res.Replied {
			if lang, err := cec.ParseSetMenuLanguage(res.Reply); err == nil {
				dev.Language = lang
			}
		}
	}

	res, err = n.Exchange(cec.BuildGiveFeatures(me, la), client.DefaultTimeout)
	if err != nil {
		return err
	}
	if res.Replied {
		if feat, err := cec.ParseReportFeatures(res.Reply); err == nil {
			dev.AllDevTypes = feat.AllDeviceTypes
			dev.RCProfile = feat.RCProfile
			dev.DevFeatures = feat.DevFeatures
			dev.HasDeckCtl = feat.DevFeatures&cec.FeatDevHasDeckControl != 0
			dev.HasRecTVScreen = feat.DevFeatures&cec.FeatDevHasRecordTVScreen != 0
			dev.HasSetAudioRate = feat.DevFeatures&cec.FeatDevHasSetAudioRate != 0
			dev.HasARCTx = feat.DevFeatures&cec.FeatDevSinkHasARCTx != 0
			dev.HasARCRx = feat.DevFeatures&cec.FeatDevSourceHasARCRx != 0
		}
	}

	res, err = n.Exchange(cec.BuildGiveDevicePowerStatus(me, la), client.DefaultTimeout)
	if err != nil {
		return err
	}
	if res.Replied {
		if status, err := cec.ParseReportPowerStatus(res.Reply); err == nil {
			dev.HasPowerStatus = true
			dev.InStandby = status == cec.PowerStandby || status == cec.PowerToStandby
		}
	}
	return nil
}

// Prepare brings la into a testable state before the suite runs: wake
// it if needed and make sure it knows the local physical address and
// device type.
func (n *Node) Prepare(me, la cec.LogicalAddr, interactive bool) (bool, error) {
	dev := n.Dev(la)
	if dev.InStandby {
		if interactive {
			if err := n.announce(interactive, "The remote device is in standby. Waking it up."); err != nil {
				return false, err
			}
		}
		if _, err := n.Client.Send(cec.BuildImageViewOn(me, la)); err != nil {
			return false, err
		}
		if dev.HasPowerStatus {
			awake, err := pollPowerStatus(n, me, la, cec.PowerOn, n.Client.WakeTimeout)
			if err != nil {
				return false, err
			}
			if !awake {
				n.Info("The remote device stayed in standby. Aborting.")
				return false, nil
			}
		}
		dev.InStandby = false
	}
	if !dev.HasPowerStatus {
		n.Info("The device didn't support Give Device Power Status.")
		n.Info("Assuming that the device is powered on.")
	}

	// Make sure the remote knows who is talking to it.
	if _, err := n.Client.Send(cec.BuildReportPhysicalAddr(me, n.PhysAddr, n.PrimType)); err != nil {
		return false, err
	}
	return true, nil
}
