package conformance

import (
	"time"

	"github.com/cectools/cecomply/internal/cec"
	"github.com/cectools/cecomply/internal/cec/client"
)

/* Timer Programming */

// analogueTimerFreq is 479.25 MHz in the 62.5 kHz units the analogue
// frequency operand uses.
const analogueTimerFreq uint16 = 7668

func timerStatusValid(n *Node, ts cec.TimerStatus) (Outcome, error) {
	if ts.MediaInfo > cec.MediaInfoNoMedia {
		return n.fail("invalid media info 0x%02x in timer status", ts.MediaInfo)
	}
	if ts.ProgInfo != 0 {
		if ts.ProgInfo < cec.ProgInfoEnoughSpace || ts.ProgInfo > cec.ProgInfoMightNotBeEnoughSpace {
			return n.fail("invalid programmed info 0x%02x in timer status", ts.ProgInfo)
		}
	} else if ts.ProgError < cec.ProgErrorNoFreeTimer ||
		(ts.ProgError > cec.ProgErrorClockFailure && ts.ProgError != cec.ProgErrorDuplicate) {
		return n.fail("invalid programmed error 0x%02x in timer status", ts.ProgError)
	}
	return Pass, nil
}

func timerClearedValid(n *Node, status uint8) (Outcome, error) {
	switch status {
	case cec.TimerClearedRecording, cec.TimerClearedNoMatching,
		cec.TimerClearedNoInfo, cec.TimerClearedCleared:
		return Pass, nil
	}
	return n.fail("invalid timer cleared status 0x%02x", status)
}

// setLadder maps the common abort responses of the Set/Clear Timer
// messages to outcomes. ok is false when the caller should return out.
func setLadder(n *Node, res client.Result) (out Outcome, ok bool, err error) {
	if res.TimedOut {
		out, err := n.fail("timer message timed out")
		return out, false, err
	}
	if res.Unrecognized() {
		return NotSupported, false, nil
	}
	if res.Refused() {
		return Refused, false, nil
	}
	if res.Aborted {
		return Presumed, false, nil
	}
	return Pass, true, nil
}

func timerSetAnalogue(n *Node, me, la cec.LogicalAddr, interactive bool) (Outcome, error) {
	// Start tomorrow, at the current time, for 2 hr 30 min, every day.
	t := time.Now().AddDate(0, 0, 1)
	res, err := n.Exchange(cec.BuildSetAnalogueTimer(me, la,
		uint8(t.Day()), uint8(t.Month()), uint8(t.Hour()), uint8(t.Minute()), 2, 30,
		0x7f, cec.AnaBcastTypeCable, analogueTimerFreq, n.Dev(la).BcastSystem),
		client.ExtendedTimeout)
	if err != nil {
		return 0, err
	}
	if out, ok, err := setLadder(n, res); !ok {
		return out, err
	}
	ts, err := cec.ParseTimerStatus(res.Reply)
	if err != nil {
		return n.fail("%v", err)
	}
	return timerStatusValid(n, ts)
}

func digitalTimerService(n *Node, la cec.LogicalAddr) cec.DigitalServiceID {
	return cec.DigitalServiceID{
		ServiceIDMethod: cec.ServiceIDMethodByChannel,
		BcastSystem:     n.Dev(la).DigBcastSystem,
		ChannelFmt:      cec.ChannelNumberFmt1Part,
		ChannelMinor:    1,
	}
}

func timerSetDigital(n *Node, me, la cec.LogicalAddr, interactive bool) (Outcome, error) {
	// Start 2 days from now, at the current time, for 4 hr 30 min.
	t := time.Now().AddDate(0, 0, 2)
	res, err := n.Exchange(cec.BuildSetDigitalTimer(me, la,
		uint8(t.Day()), uint8(t.Month()), uint8(t.Hour()), uint8(t.Minute()), 4, 30,
		cec.RecSeqOnceOnly, digitalTimerService(n, la)), client.ExtendedTimeout)
	if err != nil {
		return 0, err
	}
	if out, ok, err := setLadder(n, res); !ok {
		return out, err
	}
	ts, err := cec.ParseTimerStatus(res.Reply)
	if err != nil {
		return n.fail("%v", err)
	}
	return timerStatusValid(n, ts)
}

func timerSetExt(n *Node, me, la cec.LogicalAddr, interactive bool) (Outcome, error) {
	// Start 3 days from now, at the current time, for 6 hr 30 min.
	t := time.Now().AddDate(0, 0, 3)
	res, err := n.Exchange(cec.BuildSetExtTimer(me, la,
		uint8(t.Day()), uint8(t.Month()), uint8(t.Hour()), uint8(t.Minute()), 6, 30,
		cec.RecSeqOnceOnly, cec.ExtSrcPhysAddr, 0, n.PhysAddr), client.ExtendedTimeout)
	if err != nil {
		return 0, err
	}
	if out, ok, err := setLadder(n, res); !ok {
		return out, err
	}
	ts, err := cec.ParseTimerStatus(res.Reply)
	if err != nil {
		return n.fail("%v", err)
	}
	return timerStatusValid(n, ts)
}

func timerSetProgTitle(n *Node, me, la cec.LogicalAddr, interactive bool) (Outcome, error) {
	res, err := n.Exchange(cec.BuildSetTimerProgramTitle(me, la, "Super-Hans II"),
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
	return Presumed, nil
}

func timerClearAnalogue(n *Node, me, la cec.LogicalAddr, interactive bool) (Outcome, error) {
	t := time.Now().AddDate(0, 0, 1)
	res, err := n.Exchange(cec.BuildClearAnalogueTimer(me, la,
		uint8(t.Day()), uint8(t.Month()), uint8(t.Hour()), uint8(t.Minute()), 2, 30,
		0x7f, cec.AnaBcastTypeCable, analogueTimerFreq, n.Dev(la).BcastSystem),
		client.ExtendedTimeout)
	if err != nil {
		return 0, err
	}
	if out, ok, err := setLadder(n, res); !ok {
		return out, err
	}
	status, err := cec.ParseTimerClearedStatus(res.Reply)
	if err != nil {
		return n.fail("%v", err)
	}
	return timerClearedValid(n, status)
}

func timerClearDigital(n *Node, me, la cec.LogicalAddr, interactive bool) (Outcome, error) {
	t := time.Now().AddDate(0, 0, 2)
	res, err := n.Exchange(cec.BuildClearDigitalTimer(me, la,
		uint8(t.Day()), uint8(t.Month()), uint8(t.Hour()), uint8(t.Minute()), 4, 30,
		cec.RecSeqOnceOnly, digitalTimerService(n, la)), client.ExtendedTimeout)
	if err != nil {
		return 0, err
	}
	if out, ok, err := setLadder(n, res); !ok {
		return out, err
	}
	status, err := cec.ParseTimerClearedStatus(res.Reply)
	if err != nil {
		return n.fail("%v", err)
	}
	return timerClearedValid(n, status)
}

func timerClearExt(n *Node, me, la cec.LogicalAddr, interactive bool) (Outcome, error) {
	t := time.Now().AddDate(0, 0, 3)
	res, err := n.Exchange(cec.BuildClearExtTimer(me, la,
		uint8(t.Day()), uint8(t.Month()), uint8(t.Hour()), uint8(t.Minute()), 6, 30,
		cec.RecSeqOnceOnly, cec.ExtSrcPhysAddr, 0, n.PhysAddr), client.ExtendedTimeout)
	if err != nil {
		return 0, err
	}
	if out, ok, err := setLadder(n, res); !ok {
		return out, err
	}
	status, err := cec.ParseTimerClearedStatus(res.Reply)
	if err != nil {
		return n.fail("%v", err)
	}
	return timerClearedValid(n, status)
}

// sendTimerError sends a Set Analogue Timer with a broken operand and
// requires either an Invalid Operand abort or an error timer status.
func sendTimerError(n *Node, me, la cec.LogicalAddr, day, month, startHr, startMin, durHr, durMin, recSeq uint8) (Outcome, error) {
	res, err := n.Exchange(cec.BuildSetAnalogueTimer(me, la,
		day, month, startHr, startMin, durHr, durMin,
		recSeq, cec.AnaBcastTypeCable, analogueTimerFreq, n.Dev(la).BcastSystem),
		client.ExtendedTimeout)
	if err != nil {
		return 0, err
	}
	if res.TimedOut {
		return n.fail("invalid timer timed out")
	}
	if res.Aborted {
		if res.AbortReason != cec.AbortInvalidOperand {
			return n.fail("invalid timer aborted with reason 0x%02x", res.AbortReason)
		}
		return Pass, nil
	}
	ts, err := cec.ParseTimerStatus(res.Reply)
	if err != nil {
		return n.fail("%v", err)
	}
	if !ts.HasError() {
		return n.fail("invalid timer was accepted")
	}
	return Pass, nil
}

// sendTimerOverlap sets an analogue timer that collides with an
// existing one and requires it to be accepted with the overlap warning
// bit set.
func sendTimerOverlap(n *Node, me, la cec.LogicalAddr, day, month, startHr, startMin, durHr, durMin, recSeq uint8) (Outcome, error) {
	res, err := n.Exchange(cec.BuildSetAnalogueTimer(me, la,
		day, month, startHr, startMin, durHr, durMin,
		recSeq, cec.AnaBcastTypeCable, analogueTimerFreq, n.Dev(la).BcastSystem),
		client.ExtendedTimeout)
	if err != nil {
		return 0, err
	}
	if res.TimedOutOrAbort() {
		return n.fail("overlapping timer got no timer status")
	}
	ts, err := cec.ParseTimerStatus(res.Reply)
	if err != nil {
		return n.fail("%v", err)
	}
	if ts.HasError() {
		return n.fail("overlapping timer was rejected with error 0x%02x", ts.ProgError)
	}
	if !ts.OverlapWarning {
		return n.fail("overlapping timer accepted without overlap warning")
	}
	return Pass, nil
}

func clearAnaTimer(n *Node, me, la cec.LogicalAddr, day, month, startHr, startMin, durHr, durMin, recSeq uint8) (Outcome, error) {
	res, err := n.Exchange(cec.BuildClearAnalogueTimer(me, la,
		day, month, startHr, startMin, durHr, durMin,
		recSeq, cec.AnaBcastTypeCable, analogueTimerFreq, n.Dev(la).BcastSystem),
		client.ExtendedTimeout)
	if err != nil {
		return 0, err
	}
	if res.TimedOutOrAbort() {
		return n.fail("clear timer got no cleared status")
	}
	status, err := cec.ParseTimerClearedStatus(res.Reply)
	if err != nil {
		return n.fail("%v", err)
	}
	return timerClearedValid(n, status)
}

func timerErrors(n *Node, me, la cec.LogicalAddr, interactive bool) (Outcome, error) {
	type vec struct {
		day, month, startHr, startMin, durHr, durMin, recSeq uint8
	}
	// Each vector breaks exactly one operand range.
	vectors := []vec{
		{31, 11, 6, 0, 1, 0, cec.RecSeqOnceOnly}, // November 31
		{32, 12, 6, 0, 1, 0, cec.RecSeqOnceOnly}, // December 32
		{0, 1, 6, 0, 1, 0, cec.RecSeqOnceOnly},   // day range begins at 1
		{5, 0, 6, 0, 1, 0, cec.RecSeqOnceOnly},   // month range is 1-12
		{5, 13, 6, 0, 1, 0, cec.RecSeqOnceOnly},
		{5, 8, 24, 0, 1, 0, cec.RecSeqOnceOnly}, // start hour range is 0-23
		{5, 8, 0, 60, 1, 0, cec.RecSeqOnceOnly}, // start minute range is 0-59
		{5, 8, 6, 0, 0, 0, cec.RecSeqOnceOnly},  // zero duration
	}
	for _, v := range vectors {
		out, err := sendTimerError(n, me, la, v.day, v.month, v.startHr, v.startMin, v.durHr, v.durMin, v.recSeq)
		if out != Pass || err != nil {
			return out, err
		}
	}

	// Duplicate timer: the first one must be accepted cleanly.
	t := time.Now().Add(2 * time.Hour)
	day, month := uint8(t.Day()), uint8(t.Month())
	hr, min := uint8(t.Hour()), uint8(t.Minute())
	res, err := n.Exchange(cec.BuildSetAnalogueTimer(me, la, day, month, hr, min, 1, 0,
		cec.RecSeqOnceOnly, cec.AnaBcastTypeCable, analogueTimerFreq, n.Dev(la).BcastSystem),
		client.ExtendedTimeout)
	if err != nil {
		return 0, err
	}
	if res.TimedOutOrAbort() {
		return n.fail("timer set for duplicate test got no timer status")
	}
	ts, err := cec.ParseTimerStatus(res.Reply)
	if err != nil {
		return n.fail("%v", err)
	}
	if ts.HasError() {
		return n.fail("first timer of the duplicate pair was rejected")
	}
	if out, err := sendTimerError(n, me, la, day, month, hr, min, 1, 0, cec.RecSeqOnceOnly); out != Pass || err != nil {
		return out, err
	}
	if out, err := clearAnaTimer(n, me, la, day, month, hr, min, 1, 0, cec.RecSeqOnceOnly); out != Pass || err != nil {
		return out, err
	}

	// Recording sequence 0xff has reserved bits set.
	if out, err := sendTimerError(n, me, la, 5, 8, 6, 0, 1, 0, 0xff); out != Pass || err != nil {
		return out, err
	}

	// Last day of February, adjusted for leap years. A timer for a
	// month already past belongs to next year.
	year := n.Year
	if time.Now().Month() > time.February {
		year++
	}
	febDay := uint8(29)
	if year%4 == 0 && (year%100 != 0 || year%400 == 0) {
		febDay = 30
	}
	return sendTimerError(n, me, la, febDay, 2, 6, 0, 1, 0, cec.RecSeqOnceOnly)
}

func timerOverlap(n *Node, me, la cec.LogicalAddr, interactive bool) (Outcome, error) {
	t := time.Now().AddDate(0, 0, 1)
	day, month := uint8(t.Day()), uint8(t.Month())

	// Base timer, tomorrow 8:00 for 2 hr. No overlap yet.
	res, err := n.Exchange(cec.BuildSetAnalogueTimer(me, la, day, month, 8, 0, 2, 0,
		cec.RecSeqOnceOnly, cec.AnaBcastTypeCable, analogueTimerFreq, n.Dev(la).BcastSystem),
		client.ExtendedTimeout)
	if err != nil {
		return 0, err
	}
	if res.Unrecognized() {
		return NotSupported, nil
	}
	if res.TimedOutOrAbort() {
		return n.fail("base timer got no timer status")
	}
	ts, err := cec.ParseTimerStatus(res.Reply)
	if err != nil {
		return n.fail("%v", err)
	}
	if ts.HasError() {
		return n.fail("base timer was rejected")
	}
	if ts.OverlapWarning {
		return n.fail("base timer reported an overlap")
	}

	// Adjacent timers share an endpoint but never a minute.
	adjacent := []struct {
		startHr, startMin, durHr, durMin uint8
	}{
		{10, 0, 0, 15},
		{7, 45, 0, 15},
	}
	for _, a := range adjacent {
		res, err := n.Exchange(cec.BuildSetAnalogueTimer(me, la, day, month,
			a.startHr, a.startMin, a.durHr, a.durMin,
			cec.RecSeqOnceOnly, cec.AnaBcastTypeCable, analogueTimerFreq, n.Dev(la).BcastSystem),
			client.ExtendedTimeout)
		if err != nil {
			return 0, err
		}
		if res.TimedOutOrAbort() {
			return n.fail("adjacent timer got no timer status")
		}
		ts, err := cec.ParseTimerStatus(res.Reply)
		if err != nil {
			return n.fail("%v", err)
		}
		if ts.HasError() {
			return n.fail("adjacent timer was rejected")
		}
		if ts.OverlapWarning {
			return n.fail("adjacent timer reported an overlap")
		}
	}

	// Tail, front, same start, same end, and a timer covering all.
	overlaps := []struct {
		startHr, startMin, durHr, durMin, recSeq uint8
	}{
		{9, 0, 2, 0, 0x01}, // repeats on Sunday
		{7, 0, 1, 30, 0x01},
		{8, 0, 0, 30, 0x01},
		{9, 30, 0, 30, 0x01},
		{6, 0, 6, 0, 0x01},
	}
	for _, o := range overlaps {
		out, err := sendTimerOverlap(n, me, la, day, month, o.startHr, o.startMin, o.durHr, o.durMin, o.recSeq)
		if out != Pass || err != nil {
			return out, err
		}
	}

	clears := []struct {
		startHr, startMin, durHr, durMin, recSeq uint8
	}{
		{8, 0, 2, 0, cec.RecSeqOnceOnly},
		{10, 0, 0, 15, cec.RecSeqOnceOnly},
		{7, 45, 0, 15, cec.RecSeqOnceOnly},
		{9, 0, 2, 0, 0x01},
		{7, 0, 1, 30, 0x01},
		{8, 0, 0, 30, 0x01},
		{9, 30, 0, 30, 0x01},
		{6, 0, 6, 0, 0x01},
	}
	for _, c := range clears {
		out, err := clearAnaTimer(n, me, la, day, month, c.startHr, c.startMin, c.durHr, c.durMin, c.recSeq)
		if out != Pass || err != nil {
			return out, err
		}
	}
	return Pass, nil
}

var timerProgSubtests = []Subtest{
	{Name: "Set Analogue Timer", LAMask: cec.MaskRecord | cec.MaskBackup, Run: timerSetAnalogue},
	{Name: "Set Digital Timer", LAMask: cec.MaskRecord | cec.MaskBackup, Run: timerSetDigital},
	{Name: "Set Timer Program Title", LAMask: cec.MaskRecord | cec.MaskBackup, Run: timerSetProgTitle},
	{Name: "Set External Timer", LAMask: cec.MaskRecord | cec.MaskBackup, Run: timerSetExt},
	{Name: "Clear Analogue Timer", LAMask: cec.MaskRecord | cec.MaskBackup, Run: timerClearAnalogue},
	{Name: "Clear Digital Timer", LAMask: cec.MaskRecord | cec.MaskBackup, Run: timerClearDigital},
	{Name: "Clear External Timer", LAMask: cec.MaskRecord | cec.MaskBackup, Run: timerClearExt},
	{Name: "Set Timers with Errors", LAMask: cec.MaskRecord | cec.MaskBackup, Run: timerErrors},
	{Name: "Set Overlapping Timers", LAMask: cec.MaskRecord | cec.MaskBackup, Run: timerOverlap},
}
