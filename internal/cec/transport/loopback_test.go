package transport

import (
	"testing"
	"time"

	"github.com/cectools/cecomply/internal/cec"
)

func exchangeOne(t *testing.T, l *Loopback, msg cec.Message) cec.Message {
	t.Helper()
	acked, err := l.Transmit(msg)
	if err != nil {
		t.Fatalf("transmit %s: %v", msg.Op, err)
	}
	if !acked && !msg.Broadcast() {
		t.Fatalf("transmit %s: not acked", msg.Op)
	}
	reply, err := l.Receive(time.Second)
	if err != nil {
		t.Fatalf("no reply to %s: %v", msg.Op, err)
	}
	return reply
}

func TestLoopbackPoll(t *testing.T) {
	l := NewLoopback()
	acked, err := l.Transmit(cec.BuildPoll(cec.AddrPlayback1, l.Addr()))
	if err != nil || !acked {
		t.Fatalf("poll of emulated device: acked=%v err=%v", acked, err)
	}
	acked, err = l.Transmit(cec.BuildPoll(cec.AddrPlayback1, cec.AddrTuner2))
	if err != nil || acked {
		t.Fatalf("poll of vacant address: acked=%v err=%v", acked, err)
	}
}

func TestLoopbackSystemInformation(t *testing.T) {
	l := NewLoopback()
	me := cec.AddrPlayback1

	reply := exchangeOne(t, l, cec.BuildGivePhysicalAddr(me, l.Addr()))
	pa, prim, err := cec.ParseReportPhysicalAddr(reply)
	if err != nil {
		t.Fatal(err)
	}
	if pa != 0x1000 || prim != cec.PrimDevTypeRecord {
		t.Errorf("reported %s type %d, want 1.0.0.0 record", pa, prim)
	}

	reply = exchangeOne(t, l, cec.BuildGetCECVersion(me, l.Addr()))
	version, err := cec.ParseCECVersion(reply)
	if err != nil {
		t.Fatal(err)
	}
	if version != cec.Version2_0 {
		t.Errorf("version = %s, want 2.0", version)
	}

	// A recording device must Feature Abort Get Menu Language.
	reply = exchangeOne(t, l, cec.BuildGetMenuLanguage(me, l.Addr()))
	if !reply.IsFeatureAbortFor(cec.OpGetMenuLanguage) {
		t.Errorf("Get Menu Language answered with %s, want Feature Abort", reply.Op)
	}
}

func TestLoopbackStandbyAndWake(t *testing.T) {
	l := NewLoopback()
	me := cec.AddrPlayback1

	if _, err := l.Transmit(cec.BuildStandby(me, l.Addr())); err != nil {
		t.Fatal(err)
	}
	reply := exchangeOne(t, l, cec.BuildGiveDevicePowerStatus(me, l.Addr()))
	if status, _ := cec.ParseReportPowerStatus(reply); status != cec.PowerStandby {
		t.Errorf("after Standby: power = %s", status)
	}

	if _, err := l.Transmit(cec.BuildImageViewOn(me, l.Addr())); err != nil {
		t.Fatal(err)
	}
	reply = exchangeOne(t, l, cec.BuildGiveDevicePowerStatus(me, l.Addr()))
	if status, _ := cec.ParseReportPowerStatus(reply); status != cec.PowerOn {
		t.Errorf("after Image View On: power = %s", status)
	}
}

func TestLoopbackTimerLifecycle(t *testing.T) {
	l := NewLoopback()
	me := cec.AddrPlayback1
	set := func(day, month, startHr, startMin, durHr, durMin, recSeq uint8) cec.TimerStatus {
		reply := exchangeOne(t, l, cec.BuildSetAnalogueTimer(me, l.Addr(),
			day, month, startHr, startMin, durHr, durMin, recSeq,
			cec.AnaBcastTypeCable, 0x1234, cec.BcastSystemPALBG))
		ts, err := cec.ParseTimerStatus(reply)
		if err != nil {
			t.Fatal(err)
		}
		return ts
	}

	if ts := set(10, 8, 8, 0, 2, 0, cec.RecSeqOnceOnly); !ts.Programmed || ts.OverlapWarning {
		t.Errorf("first timer: %+v", ts)
	}
	if ts := set(10, 8, 9, 0, 2, 0, cec.RecSeqOnceOnly); !ts.Programmed || !ts.OverlapWarning {
		t.Errorf("overlapping timer: %+v", ts)
	}
	if ts := set(10, 8, 8, 0, 2, 0, cec.RecSeqOnceOnly); ts.Programmed || ts.ProgError != cec.ProgErrorDuplicate {
		t.Errorf("duplicate timer: %+v", ts)
	}
	if ts := set(31, 11, 8, 0, 2, 0, cec.RecSeqOnceOnly); ts.Programmed || ts.ProgError != cec.ProgErrorDateOutOfRange {
		t.Errorf("Nov 31 timer: %+v", ts)
	}
	if ts := set(10, 8, 8, 30, 2, 0, 0xff); ts.Programmed || ts.ProgError != cec.ProgErrorRecSeqError {
		t.Errorf("bad recording sequence: %+v", ts)
	}

	reply := exchangeOne(t, l, cec.BuildClearAnalogueTimer(me, l.Addr(),
		10, 8, 8, 0, 2, 0, cec.RecSeqOnceOnly,
		cec.AnaBcastTypeCable, 0x1234, cec.BcastSystemPALBG))
	if status, _ := cec.ParseTimerClearedStatus(reply); status != cec.TimerClearedCleared {
		t.Errorf("clear existing timer: status 0x%02x", status)
	}
	reply = exchangeOne(t, l, cec.BuildClearAnalogueTimer(me, l.Addr(),
		10, 8, 8, 0, 2, 0, cec.RecSeqOnceOnly,
		cec.AnaBcastTypeCable, 0x1234, cec.BcastSystemPALBG))
	if status, _ := cec.ParseTimerClearedStatus(reply); status != cec.TimerClearedNoMatching {
		t.Errorf("clear cleared timer: status 0x%02x", status)
	}
}

func TestLoopbackUnrecognizedOpcode(t *testing.T) {
	l := NewLoopback()
	reply := exchangeOne(t, l, cec.BuildGiveAudioStatus(cec.AddrPlayback1, l.Addr()))
	op, reason, err := cec.ParseFeatureAbort(reply)
	if err != nil {
		t.Fatal(err)
	}
	if op != cec.OpGiveAudioStatus || reason != cec.AbortUnrecognizedOp {
		t.Errorf("abort = (%s, %s)", op, reason)
	}
}

func TestOpenAdapterSpec(t *testing.T) {
	if _, err := Open("loopback"); err != nil {
		t.Fatalf("open loopback: %v", err)
	}
	if _, err := Open("nosuch:dev"); err == nil {
		t.Fatal("open of unregistered adapter succeeded")
	}
}
