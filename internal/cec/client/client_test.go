package client

import (
	"testing"
	"time"

	"github.com/cectools/cecomply/internal/cec"
	"github.com/cectools/cecomply/internal/cec/transport"
)

// scriptTransport replays a fixed sequence of frames, one per Receive
// call, then times out.
type scriptTransport struct {
	sent   []cec.Message
	script []cec.Message
	ack    bool
}

func newScript(frames ...cec.Message) *scriptTransport {
	return &scriptTransport{script: frames, ack: true}
}

func (s *scriptTransport) Transmit(msg cec.Message) (bool, error) {
	s.sent = append(s.sent, msg)
	return s.ack, nil
}

func (s *scriptTransport) Receive(timeout time.Duration) (cec.Message, error) {
	if len(s.script) == 0 {
		return cec.Message{}, transport.ErrTimeout
	}
	next := s.script[0]
	s.script = s.script[1:]
	return next, nil
}

func (s *scriptTransport) SetMode(transport.Mode) error { return nil }

// marks records capability classifications.
type marks struct {
	recognized   map[cec.Opcode]int
	unrecognized map[cec.Opcode]int
}

func newMarks() *marks {
	return &marks{recognized: map[cec.Opcode]int{}, unrecognized: map[cec.Opcode]int{}}
}

func (m *marks) MarkRecognized(la cec.LogicalAddr, op cec.Opcode)   { m.recognized[op]++ }
func (m *marks) MarkUnrecognized(la cec.LogicalAddr, op cec.Opcode) { m.unrecognized[op]++ }

func TestExchangeMatchesReply(t *testing.T) {
	bus := newScript(cec.BuildCECVersion(cec.AddrTV, cec.AddrPlayback1, cec.Version2_0))
	rec := newMarks()
	c := New(bus, rec)

	res, err := c.Exchange(cec.BuildGetCECVersion(cec.AddrPlayback1, cec.AddrTV), DefaultTimeout)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Replied || res.TimedOut || res.Aborted {
		t.Fatalf("unexpected result %+v", res)
	}
	v, err := cec.ParseCECVersion(res.Reply)
	if err != nil {
		t.Fatal(err)
	}
	if v != cec.Version2_0 {
		t.Errorf("version = %v, want 2.0", v)
	}
	if rec.recognized[cec.OpGetCECVersion] != 1 {
		t.Error("reply did not mark the sent opcode recognized")
	}
}

func TestExchangeClassifiesAbort(t *testing.T) {
	cases := []struct {
		name         string
		reason       cec.AbortReason
		unrecognized bool
		refused      bool
	}{
		{"unrecognized", cec.AbortUnrecognizedOp, true, false},
		{"refused", cec.AbortRefused, false, true},
		{"incorrect mode", cec.AbortIncorrectMode, false, false},
	}
	for _, tc := range cases {
		bus := newScript(cec.BuildFeatureAbort(cec.AddrTV, cec.AddrPlayback1, cec.OpGiveDeckStatus, tc.reason))
		rec := newMarks()
		c := New(bus, rec)

		res, err := c.Exchange(cec.BuildGiveDeckStatus(cec.AddrPlayback1, cec.AddrTV, cec.StatusReqOnce), DefaultTimeout)
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if !res.Aborted || res.TimedOut || res.Replied {
			t.Fatalf("%s: unexpected result %+v", tc.name, res)
		}
		if res.Unrecognized() != tc.unrecognized || res.Refused() != tc.refused {
			t.Errorf("%s: predicates wrong: %+v", tc.name, res)
		}
		wantRec, wantUnrec := 1, 0
		if tc.unrecognized {
			wantRec, wantUnrec = 0, 1
		}
		if rec.recognized[cec.OpGiveDeckStatus] != wantRec ||
			rec.unrecognized[cec.OpGiveDeckStatus] != wantUnrec {
			t.Errorf("%s: tracker marks recognized=%d unrecognized=%d",
				tc.name, rec.recognized[cec.OpGiveDeckStatus], rec.unrecognized[cec.OpGiveDeckStatus])
		}
	}
}

func TestExchangeIgnoresAbortForOtherOpcode(t *testing.T) {
	// An abort naming a different opcode is unsolicited traffic, not
	// the answer to this transaction.
	bus := newScript(cec.BuildFeatureAbort(cec.AddrTV, cec.AddrPlayback1, cec.OpPlay, cec.AbortRefused))
	c := New(bus, nil)

	var unsolicited int
	c.Unsolicited = func(cec.Message) { unsolicited++ }

	res, err := c.Exchange(cec.BuildGetCECVersion(cec.AddrPlayback1, cec.AddrTV), 50*time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	if !res.TimedOut {
		t.Fatalf("expected timeout, got %+v", res)
	}
	if unsolicited != 1 {
		t.Errorf("unsolicited frames observed = %d, want 1", unsolicited)
	}
}

func TestExchangeTimesOut(t *testing.T) {
	bus := newScript()
	c := New(bus, nil)

	start := time.Now()
	res, err := c.Exchange(cec.BuildGetCECVersion(cec.AddrPlayback1, cec.AddrTV), 20*time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	if !res.TimedOut || res.TimedOutOrAbort() != true {
		t.Fatalf("expected timeout, got %+v", res)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("timeout took %v, deadline not honored", elapsed)
	}
}

func TestExchangeNoAckDirected(t *testing.T) {
	bus := newScript()
	bus.ack = false
	c := New(bus, nil)

	if _, err := c.Exchange(cec.BuildGetCECVersion(cec.AddrPlayback1, cec.AddrTV), DefaultTimeout); err == nil {
		t.Error("directed transmit without ack should be an error")
	}
}

func TestExchangeBroadcastNoAckIsFine(t *testing.T) {
	bus := newScript()
	bus.ack = false
	c := New(bus, nil)

	res, err := c.Exchange(cec.BuildRequestActiveSource(cec.AddrPlayback1), 20*time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	if !res.TimedOut {
		t.Fatalf("broadcast silence should be a timeout result, got %+v", res)
	}
}

func TestExchangeBroadcastAcceptsAnyReplier(t *testing.T) {
	bus := newScript(cec.BuildActiveSource(cec.AddrTuner1, 0x2000))
	rec := newMarks()
	c := New(bus, rec)

	res, err := c.Exchange(cec.BuildRequestActiveSource(cec.AddrPlayback1), DefaultTimeout)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Replied {
		t.Fatalf("expected a reply, got %+v", res)
	}
	pa, err := cec.ParseActiveSource(res.Reply)
	if err != nil {
		t.Fatal(err)
	}
	if pa != 0x2000 {
		t.Errorf("active source = %v, want 2.0.0.0", pa)
	}
}

func TestSendPoll(t *testing.T) {
	bus := newScript()
	c := New(bus, nil)

	acked, err := c.Send(cec.BuildPoll(cec.AddrPlayback1, cec.AddrTV))
	if err != nil || !acked {
		t.Fatalf("poll: acked=%v err=%v", acked, err)
	}
	if _, err := c.Exchange(cec.BuildPoll(cec.AddrPlayback1, cec.AddrTV), DefaultTimeout); err == nil {
		t.Error("Exchange must reject polling messages")
	}
}
