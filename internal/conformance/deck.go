package conformance

import (
	"time"

	"github.com/cectools/cecomply/internal/cec"
	"github.com/cectools/cecomply/internal/cec/client"
)

/* Deck Control */

// deckStatus asks for a one-shot deck status report.
func deckStatus(n *Node, me, la cec.LogicalAddr) (uint8, Outcome, error) {
	res, err := n.Exchange(cec.BuildGiveDeckStatus(me, la, cec.StatusReqOnce), client.DefaultTimeout)
	if err != nil {
		return 0, 0, err
	}
	if res.TimedOutOrAbort() {
		out, err := n.fail("no deck status report")
		return 0, out, err
	}
	info, err := cec.ParseDeckStatus(res.Reply)
	if err != nil {
		out, ferr := n.fail("%v", err)
		return 0, out, ferr
	}
	return info, Pass, nil
}

func deckCtlGiveStatus(n *Node, me, la cec.LogicalAddr, interactive bool) (Outcome, error) {
	res, err := n.Exchange(cec.BuildGiveDeckStatus(me, la, cec.StatusReqOnce), client.DefaultTimeout)
	if err != nil {
		return 0, err
	}
	if res.TimedOut {
		return n.fail("Give Deck Status timed out")
	}
	dev := n.Dev(la)
	if n.checkV2(dev.CECVersion, dev.HasDeckCtl && res.Aborted,
		"device announces deck control but aborted Give Deck Status") {
		return Fail, nil
	}
	if n.checkV2(dev.CECVersion, !dev.HasDeckCtl && !res.Unrecognized(),
		"device without deck control answered Give Deck Status") {
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
	info, err := cec.ParseDeckStatus(res.Reply)
	if err != nil {
		return n.fail("%v", err)
	}
	if info < cec.DeckInfoPlay || info > cec.DeckInfoOther {
		return n.fail("deck info 0x%02x out of range", info)
	}

	res, err = n.Exchange(cec.BuildGiveDeckStatus(me, la, cec.StatusReqOn), client.DefaultTimeout)
	if err != nil {
		return 0, err
	}
	if res.TimedOut {
		return n.fail("status reporting on: no report")
	}
	info, err = cec.ParseDeckStatus(res.Reply)
	if err != nil {
		return n.fail("%v", err)
	}
	if info < cec.DeckInfoPlay || info > cec.DeckInfoOther {
		return n.fail("deck info 0x%02x out of range", info)
	}

	// No reply is expected for the off request. If one arrives, the
	// follower failed to turn off status reporting.
	off := cec.BuildGiveDeckStatus(me, la, cec.StatusReqOff)
	off.WantReply = cec.OpDeckStatus
	res, err = n.Exchange(off, client.DefaultTimeout)
	if err != nil {
		return 0, err
	}
	if !res.TimedOut {
		return n.fail("status reporting was not turned off")
	}
	return Pass, nil
}

func deckCtlGiveStatusInvalid(n *Node, me, la cec.LogicalAddr, interactive bool) (Outcome, error) {
	for _, operand := range []uint8{0, 4} {
		res, err := n.Exchange(cec.BuildGiveDeckStatus(me, la, operand), client.DefaultTimeout)
		if err != nil {
			return 0, err
		}
		if operand == 0 && res.Unrecognized() {
			return NotSupported, nil
		}
		if !res.Aborted {
			return n.fail("invalid status request %d was not aborted", operand)
		}
		if res.AbortReason != cec.AbortInvalidOperand {
			return n.fail("invalid status request %d aborted with %s", operand, res.AbortReason)
		}
	}
	return Pass, nil
}

func deckCtlControl(n *Node, me, la cec.LogicalAddr, interactive bool) (Outcome, error) {
	res, err := n.Exchange(cec.BuildDeckControl(me, la, cec.DeckCtlStop), client.DefaultTimeout)
	if err != nil {
		return 0, err
	}
	dev := n.Dev(la)
	if n.checkV2(dev.CECVersion, dev.HasDeckCtl && res.Unrecognized(),
		"device announces deck control but aborted Deck Control") {
		return Fail, nil
	}
	if n.checkV2(dev.CECVersion, !dev.HasDeckCtl && !res.Unrecognized(),
		"device without deck control accepted Deck Control") {
		return Fail, nil
	}
	if res.Unrecognized() {
		return NotSupported, nil
	}
	if res.Refused() {
		return Refused, nil
	}
	info, out, err := deckStatus(n, me, la)
	if out != Pass || err != nil {
		return out, err
	}
	if res.Aborted {
		if !res.IncorrectMode() {
			return Fail, nil
		}
		if info == cec.DeckInfoNoMedia {
			n.Info("stop: no media")
		} else {
			n.Warn("deck has media but aborted Stop with Incorrect Mode")
		}
		return Pass, nil
	}
	if info != cec.DeckInfoStop && info != cec.DeckInfoNoMedia {
		return n.fail("deck did not stop")
	}

	res, err = n.Exchange(cec.BuildDeckControl(me, la, cec.DeckCtlSkipForward), client.DefaultTimeout)
	if err != nil {
		return 0, err
	}
	info, out, err = deckStatus(n, me, la)
	if out != Pass || err != nil {
		return out, err
	}
	// With no media, Skip Forward must abort with Incorrect Mode even
	// if Stop did not. No abort means the deck has media.
	if res.IncorrectMode() {
		if info != cec.DeckInfoNoMedia {
			return n.fail("Incorrect Mode with media present")
		}
		return Pass, nil
	}
	if res.Aborted {
		return n.fail("Skip Forward aborted with %s", res.AbortReason)
	}
	for i := 0; info == cec.DeckInfoSkipForward && i < 60; i++ {
		time.Sleep(time.Second)
		if info, out, err = deckStatus(n, me, la); out != Pass || err != nil {
			return out, err
		}
	}
	if info != cec.DeckInfoPlay {
		return n.fail("deck did not resume play after Skip Forward")
	}

	res, err = n.Exchange(cec.BuildDeckControl(me, la, cec.DeckCtlSkipReverse), client.DefaultTimeout)
	if err != nil {
		return 0, err
	}
	if res.Aborted { // Deck is assumed to have media by now.
		return n.fail("Skip Reverse aborted with %s", res.AbortReason)
	}
	if info, out, err = deckStatus(n, me, la); out != Pass || err != nil {
		return out, err
	}
	for i := 0; info == cec.DeckInfoSkipReverse && i < 60; i++ {
		time.Sleep(time.Second)
		if info, out, err = deckStatus(n, me, la); out != Pass || err != nil {
			return out, err
		}
	}
	if info != cec.DeckInfoPlay {
		return n.fail("deck did not resume play after Skip Reverse")
	}

	res, err = n.Exchange(cec.BuildDeckControl(me, la, cec.DeckCtlEject), client.DefaultTimeout)
	if err != nil {
		return 0, err
	}
	if res.Aborted {
		return n.fail("Eject aborted with %s", res.AbortReason)
	}
	if info, out, err = deckStatus(n, me, la); out != Pass || err != nil {
		return out, err
	}
	if info != cec.DeckInfoNoMedia {
		return n.fail("deck reports media after Eject")
	}
	return Pass, nil
}

func deckCtlControlInvalid(n *Node, me, la cec.LogicalAddr, interactive bool) (Outcome, error) {
	for _, operand := range []uint8{0, 5} {
		res, err := n.Exchange(cec.BuildDeckControl(me, la, operand), client.DefaultTimeout)
		if err != nil {
			return 0, err
		}
		if operand == 0 && res.Unrecognized() {
			return NotSupported, nil
		}
		if !res.Aborted || res.AbortReason != cec.AbortInvalidOperand {
			return n.fail("invalid deck control %d was not aborted with Invalid Operand", operand)
		}
	}
	return Pass, nil
}

// playMode plays in the given mode and verifies the resulting deck
// status.
func playMode(n *Node, me, la cec.LogicalAddr, mode, expected uint8) (Outcome, error) {
	res, err := n.Exchange(cec.BuildPlay(me, la, mode), client.DefaultTimeout)
	if err != nil {
		return 0, err
	}
	if res.Aborted { // Deck is assumed to have media.
		return n.fail("Play 0x%02x aborted with %s", mode, res.AbortReason)
	}
	info, out, err := deckStatus(n, me, la)
	if out != Pass || err != nil {
		return out, err
	}
	if info != expected {
		return n.fail("Play 0x%02x: deck info 0x%02x, expected 0x%02x", mode, info, expected)
	}
	return Pass, nil
}

func deckCtlPlay(n *Node, me, la cec.LogicalAddr, interactive bool) (Outcome, error) {
	res, err := n.Exchange(cec.BuildPlay(me, la, cec.PlayModeForward), client.DefaultTimeout)
	if err != nil {
		return 0, err
	}
	dev := n.Dev(la)
	if n.checkV2(dev.CECVersion, dev.HasDeckCtl && res.Unrecognized(),
		"device announces deck control but aborted Play") {
		return Fail, nil
	}
	if n.checkV2(dev.CECVersion, !dev.HasDeckCtl && !res.Unrecognized(),
		"device without deck control accepted Play") {
		return Fail, nil
	}
	if res.Unrecognized() {
		return NotSupported, nil
	}
	if res.Refused() {
		return Refused, nil
	}
	info, out, err := deckStatus(n, me, la)
	if out != Pass || err != nil {
		return out, err
	}
	if res.Aborted {
		if !res.IncorrectMode() {
			return Fail, nil
		}
		if info == cec.DeckInfoNoMedia {
			n.Info("play: no media")
		} else {
			n.Warn("deck has media but aborted Play with Incorrect Mode")
		}
		return Pass, nil
	}
	if info != cec.DeckInfoPlay {
		return n.fail("deck is not playing")
	}

	modes := []struct{ mode, expected uint8 }{
		{cec.PlayModeStill, cec.DeckInfoStill},
		{cec.PlayModeReverse, cec.DeckInfoPlayReverse},
		{cec.PlayModeFastFwdMin, cec.DeckInfoFastForward},
		{cec.PlayModeFastRevMin, cec.DeckInfoFastReverse},
		{cec.PlayModeFastFwdMed, cec.DeckInfoFastForward},
		{cec.PlayModeFastRevMed, cec.DeckInfoFastReverse},
		{cec.PlayModeFastFwdMax, cec.DeckInfoFastForward},
		{cec.PlayModeFastRevMax, cec.DeckInfoFastReverse},
		{cec.PlayModeSlowFwdMin, cec.DeckInfoSlow},
		{cec.PlayModeSlowRevMin, cec.DeckInfoSlowReverse},
		{cec.PlayModeSlowFwdMed, cec.DeckInfoSlow},
		{cec.PlayModeSlowRevMed, cec.DeckInfoSlowReverse},
		{cec.PlayModeSlowFwdMax, cec.DeckInfoSlow},
		{cec.PlayModeSlowRevMax, cec.DeckInfoSlowReverse},
	}
	for _, m := range modes {
		if out, err := playMode(n, me, la, m.mode, m.expected); out != Pass || err != nil {
			return out, err
		}
	}

	if _, err := n.Exchange(cec.BuildDeckControl(me, la, cec.DeckCtlStop), client.DefaultTimeout); err != nil {
		return 0, err
	}
	return Pass, nil
}

func deckCtlPlayInvalid(n *Node, me, la cec.LogicalAddr, interactive bool) (Outcome, error) {
	for _, operand := range []uint8{0, 4, 0x26} {
		res, err := n.Exchange(cec.BuildPlay(me, la, operand), client.DefaultTimeout)
		if err != nil {
			return 0, err
		}
		if operand == 0 && res.Unrecognized() {
			return NotSupported, nil
		}
		if !res.Aborted || res.AbortReason != cec.AbortInvalidOperand {
			return n.fail("invalid play mode 0x%02x was not aborted with Invalid Operand", operand)
		}
	}
	return Pass, nil
}

var deckCtlSubtests = []Subtest{
	{Name: "Give Deck Status", LAMask: cec.MaskPlayback | cec.MaskRecord, Run: deckCtlGiveStatus},
	{Name: "Give Deck Status Invalid Operand", LAMask: cec.MaskPlayback | cec.MaskRecord, Run: deckCtlGiveStatusInvalid},
	{Name: "Deck Control", LAMask: cec.MaskPlayback | cec.MaskRecord, Run: deckCtlControl},
	{Name: "Deck Control Invalid Operand", LAMask: cec.MaskPlayback | cec.MaskRecord, Run: deckCtlControlInvalid},
	{Name: "Play", LAMask: cec.MaskPlayback | cec.MaskRecord, Run: deckCtlPlay},
	{Name: "Play Invalid Operand", LAMask: cec.MaskPlayback | cec.MaskRecord, Run: deckCtlPlayInvalid},
}
