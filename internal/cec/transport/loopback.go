package transport

import (
	"time"

	"github.com/cectools/cecomply/internal/cec"
	"github.com/cectools/cecomply/internal/timers"
)

func init() {
	Register("loopback", func(spec string) (Transport, error) {
		return NewLoopback(), nil
	})
}

// Loopback emulates a single well-behaved recording device on the bus,
// used to self-test the harness end to end without adapter hardware.
// It answers at logical address 1 (Recording Device 1), physical
// address 1.0.0.0, CEC 2.0, with deck control but no media loaded.
type Loopback struct {
	queue []cec.Message

	la       cec.LogicalAddr
	physAddr cec.PhysAddr
	power    cec.PowerStatus
	schedule *timers.Schedule
}

// NewLoopback returns a Loopback with an empty timer schedule for the
// current year.
func NewLoopback() *Loopback {
	return &Loopback{
		la:       cec.AddrRecord1,
		physAddr: 0x1000,
		power:    cec.PowerOn,
		schedule: timers.NewSchedule(time.Now().Year()),
	}
}

// Addr returns the emulated device's logical address.
func (l *Loopback) Addr() cec.LogicalAddr { return l.la }

func (l *Loopback) SetMode(Mode) error { return nil }

func (l *Loopback) Receive(timeout time.Duration) (cec.Message, error) {
	if len(l.queue) == 0 {
		return cec.Message{}, ErrTimeout
	}
	next := l.queue[0]
	l.queue = l.queue[1:]
	return next, nil
}

func (l *Loopback) Transmit(msg cec.Message) (bool, error) {
	if msg.Poll {
		return msg.To == l.la, nil
	}
	if !msg.Broadcast() && msg.To != l.la {
		return false, nil
	}
	l.handle(msg)
	return true, nil
}

func (l *Loopback) reply(m cec.Message) { l.queue = append(l.queue, m) }

func (l *Loopback) abort(to cec.LogicalAddr, op cec.Opcode, reason cec.AbortReason) {
	l.reply(cec.BuildFeatureAbort(l.la, to, op, reason))
}

func (l *Loopback) handle(msg cec.Message) {
	from := msg.From

	switch msg.Op {
	case cec.OpGivePhysicalAddr:
		l.reply(cec.BuildReportPhysicalAddr(l.la, l.physAddr, cec.PrimDevTypeRecord))
	case cec.OpGetCECVersion:
		l.reply(cec.BuildCECVersion(l.la, from, cec.Version2_0))
	case cec.OpGiveFeatures:
		l.reply(cec.Message{From: l.la, To: from, Op: cec.OpReportFeatures,
			Operands: []byte{byte(cec.Version2_0), 1 << 1, 0x00, cec.FeatDevHasDeckControl}})
	case cec.OpGiveDeviceVendorID:
		l.reply(cec.Message{From: l.la, To: cec.AddrBroadcast, Op: cec.OpDeviceVendorID,
			Operands: []byte{0x00, 0x15, 0x82}})
	case cec.OpGiveOSDName:
		l.reply(cec.BuildSetOSDName(l.la, from, "Loopback"))
	case cec.OpGiveDevicePowerStatus:
		l.reply(cec.Message{From: l.la, To: from, Op: cec.OpReportPowerStatus,
			Operands: []byte{byte(l.power)}})
	case cec.OpStandby:
		l.power = cec.PowerStandby
	case cec.OpImageViewOn, cec.OpTextViewOn:
		l.power = cec.PowerOn
	case cec.OpAbort:
		l.abort(from, cec.OpAbort, cec.AbortRefused)

	case cec.OpGiveDeckStatus:
		l.handleGiveDeckStatus(msg)
	case cec.OpDeckControl:
		l.handleDeckControl(msg)
	case cec.OpPlay:
		l.handlePlay(msg)

	case cec.OpRecordOn:
		l.handleRecordOn(msg)
	case cec.OpRecordOff:
		l.reply(cec.Message{From: l.la, To: from, Op: cec.OpRecordStatus,
			Operands: []byte{cec.RecordStatusAlreadyTerminated}})

	case cec.OpSetAnalogueTimer:
		l.handleSetTimer(msg, timerInterval(msg.Operands))
	case cec.OpSetDigitalTimer:
		l.handleSetTimer(msg, timerInterval(msg.Operands))
	case cec.OpSetExtTimer:
		l.handleSetTimer(msg, timerInterval(msg.Operands))
	case cec.OpClearAnalogueTimer, cec.OpClearDigitalTimer, cec.OpClearExtTimer:
		l.handleClearTimer(msg, timerInterval(msg.Operands))

	case cec.OpMenuRequest:
		l.reply(cec.Message{From: l.la, To: from, Op: cec.OpMenuStatus,
			Operands: []byte{cec.MenuStateDeactivated}})
	case cec.OpUserControlPressed, cec.OpUserControlReleased:
		// Acted on silently.
	case cec.OpSetStreamPath:
		if len(msg.Operands) >= 2 {
			pa := cec.PhysAddr(uint16(msg.Operands[0])<<8 | uint16(msg.Operands[1]))
			if pa == l.physAddr {
				l.power = cec.PowerOn
				l.reply(cec.BuildActiveSource(l.la, l.physAddr))
			}
		}
	case cec.OpRequestCurrentLatency:
		if len(msg.Operands) >= 2 {
			pa := cec.PhysAddr(uint16(msg.Operands[0])<<8 | uint16(msg.Operands[1]))
			if pa == l.physAddr {
				l.reply(cec.Message{From: l.la, To: cec.AddrBroadcast,
					Op: cec.OpReportCurrentLatency,
					Operands: []byte{msg.Operands[0], msg.Operands[1], 0x02}})
			}
		}

	case cec.OpActiveSource, cec.OpInactiveSource, cec.OpRequestActiveSource,
		cec.OpSetMenuLanguage, cec.OpReportPhysicalAddr, cec.OpRoutingChange,
		cec.OpRoutingInformation, cec.OpFeatureAbort, cec.OpCDCMessage:
		// Observed, no reply.

	default:
		// Everything else is unimplemented; directed messages get the
		// mandated Feature Abort, broadcasts are ignored.
		if !msg.Broadcast() {
			l.abort(from, msg.Op, cec.AbortUnrecognizedOp)
		}
	}
}

func (l *Loopback) handleGiveDeckStatus(msg cec.Message) {
	switch msg.Operand(0) {
	case cec.StatusReqOn, cec.StatusReqOnce:
		l.reply(cec.Message{From: l.la, To: msg.From, Op: cec.OpDeckStatus,
			Operands: []byte{cec.DeckInfoNoMedia}})
	case cec.StatusReqOff:
		// Status reporting off: stay silent.
	default:
		l.abort(msg.From, cec.OpGiveDeckStatus, cec.AbortInvalidOperand)
	}
}

func (l *Loopback) handleDeckControl(msg cec.Message) {
	switch msg.Operand(0) {
	case cec.DeckCtlStop, cec.DeckCtlEject:
		// Acted on; deck already has no media.
	case cec.DeckCtlSkipForward, cec.DeckCtlSkipReverse:
		l.abort(msg.From, cec.OpDeckControl, cec.AbortIncorrectMode)
	default:
		l.abort(msg.From, cec.OpDeckControl, cec.AbortInvalidOperand)
	}
}

func (l *Loopback) handlePlay(msg cec.Message) {
	switch mode := msg.Operand(0); mode {
	case cec.PlayModeForward, cec.PlayModeReverse, cec.PlayModeStill,
		cec.PlayModeFastFwdMin, cec.PlayModeFastFwdMed, cec.PlayModeFastFwdMax,
		cec.PlayModeFastRevMin, cec.PlayModeFastRevMed, cec.PlayModeFastRevMax,
		cec.PlayModeSlowFwdMin, cec.PlayModeSlowFwdMed, cec.PlayModeSlowFwdMax,
		cec.PlayModeSlowRevMin, cec.PlayModeSlowRevMed, cec.PlayModeSlowRevMax:
		l.abort(msg.From, cec.OpPlay, cec.AbortIncorrectMode)
	default:
		l.abort(msg.From, cec.OpPlay, cec.AbortInvalidOperand)
	}
}

func (l *Loopback) handleRecordOn(msg cec.Message) {
	src, err := cec.DecodeRecordSrc(msg.Operands)
	if err != nil {
		l.abort(msg.From, cec.OpRecordOn, cec.AbortInvalidOperand)
		return
	}
	status, ok := recordSrcStatus(src)
	if !ok {
		l.abort(msg.From, cec.OpRecordOn, cec.AbortInvalidOperand)
		return
	}
	l.reply(cec.Message{From: l.la, To: msg.From, Op: cec.OpRecordStatus,
		Operands: []byte{status}})
}

// recordSrcStatus validates a record source and picks the status a
// device with no media would report, favoring the per-source success
// codes so the initiator can exercise the full source matrix.
func recordSrcStatus(src cec.RecordSrc) (uint8, bool) {
	switch src.Type {
	case cec.RecordSrcOwn:
		return cec.RecordStatusCurSrc, true
	case cec.RecordSrcDigital:
		if !cec.DigBcastSystemIsValid(src.Digital.BcastSystem) {
			return 0, false
		}
		if src.Digital.ServiceIDMethod == cec.ServiceIDMethodByChannel &&
			(src.Digital.ChannelFmt < cec.ChannelNumberFmt1Part ||
				src.Digital.ChannelFmt > cec.ChannelNumberFmt2Part) {
			return 0, false
		}
		return cec.RecordStatusDigService, true
	case cec.RecordSrcAnalogue:
		if src.AnaBcastType > cec.AnaBcastTypeTerrestrial {
			return 0, false
		}
		if src.BcastSystem > cec.BcastSystemPALDK && src.BcastSystem != cec.BcastSystemOther {
			return 0, false
		}
		if src.AnaFreq == 0 || src.AnaFreq == 0xffff {
			return 0, false
		}
		return cec.RecordStatusAnaService, true
	case cec.RecordSrcExtPlug:
		if src.Plug == 0 {
			return 0, false
		}
		return cec.RecordStatusExtInput, true
	case cec.RecordSrcExtPhysAddr:
		return cec.RecordStatusExtInput, true
	default:
		return 0, false
	}
}

func timerInterval(operands []byte) timers.Interval {
	iv := timers.Interval{}
	if len(operands) >= 7 {
		iv.Day = operands[0]
		iv.Month = operands[1]
		iv.StartHr = operands[2]
		iv.StartMin = operands[3]
		iv.DurHr = operands[4]
		iv.DurMin = operands[5]
		iv.RecSeq = operands[6]
	}
	return iv
}

func (l *Loopback) handleSetTimer(msg cec.Message, iv timers.Interval) {
	disp, _ := l.schedule.Propose(iv)

	var status byte
	switch disp {
	case timers.Accepted:
		status = 0x10 | cec.ProgInfoEnoughSpace
	case timers.AcceptedOverlap:
		status = 0x80 | 0x10 | cec.ProgInfoEnoughSpace
	case timers.RejectedDuplicate:
		status = cec.ProgErrorDuplicate
	case timers.RejectedInvalid:
		if iv.RecSeq > 0x7f {
			status = cec.ProgErrorRecSeqError
		} else {
			status = cec.ProgErrorDateOutOfRange
		}
	}
	l.reply(cec.Message{From: l.la, To: msg.From, Op: cec.OpTimerStatus,
		Operands: []byte{status}})
}

func (l *Loopback) handleClearTimer(msg cec.Message, iv timers.Interval) {
	status := cec.TimerClearedNoMatching
	if l.schedule.Clear(iv) {
		status = cec.TimerClearedCleared
	}
	l.reply(cec.Message{From: l.la, To: msg.From, Op: cec.OpTimerClearedStatus,
		Operands: []byte{status}})
}
