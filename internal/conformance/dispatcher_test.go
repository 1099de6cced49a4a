package conformance

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/cectools/cecomply/internal/cec"
	"github.com/cectools/cecomply/internal/cec/transport"
)

func passStub(n *Node, me, la cec.LogicalAddr, interactive bool) (Outcome, error) {
	return Pass, nil
}

func failStub(n *Node, me, la cec.LogicalAddr, interactive bool) (Outcome, error) {
	return Fail, nil
}

func criticalStub(n *Node, me, la cec.LogicalAddr, interactive bool) (Outcome, error) {
	return CriticalFail, nil
}

func notApplicableStub(n *Node, me, la cec.LogicalAddr, interactive bool) (Outcome, error) {
	return NotApplicable, nil
}

func testNode(t *testing.T) (*Node, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	return NewNode(transport.NewLoopback(), &buf, nil), &buf
}

func oneFeature(tag Tag, subtests ...Subtest) []Feature {
	return []Feature{{Name: "Test feature", Tag: tag, Subtests: subtests}}
}

func TestNewDispatcherDuplicateNames(t *testing.T) {
	// The same name bound to the same function is a legitimate alias.
	features := []Feature{
		{Name: "a", Tag: TagCore, Subtests: []Subtest{{Name: "dup", LAMask: cec.MaskAll, Run: passStub}}},
		{Name: "b", Tag: TagCore, Subtests: []Subtest{{Name: "dup", LAMask: cec.MaskAll, Run: passStub}}},
	}
	if _, err := NewDispatcher(features, Options{}); err != nil {
		t.Errorf("same function under one name should be allowed: %v", err)
	}

	features[1].Subtests[0].Run = failStub
	if _, err := NewDispatcher(features, Options{}); err == nil {
		t.Error("expected error for one name bound to two functions")
	}
}

func TestNewDispatcherUnknownExpectation(t *testing.T) {
	features := oneFeature(TagCore, Subtest{Name: "known", LAMask: cec.MaskAll, Run: passStub})
	_, err := NewDispatcher(features, Options{
		Expect: map[string]Expectation{"unknown": {Outcome: Pass}},
	})
	if err == nil {
		t.Error("expected error for expectation naming no subtest")
	}
}

func TestDispatcherTagSubset(t *testing.T) {
	n, buf := testNode(t)
	features := []Feature{
		{Name: "core only", Tag: TagCore, Subtests: []Subtest{{Name: "a", LAMask: cec.MaskAll, Run: passStub}}},
		{Name: "deck only", Tag: TagDeckControl, Subtests: []Subtest{{Name: "b", LAMask: cec.MaskAll, Run: passStub}}},
	}

	d, err := NewDispatcher(features, Options{Tags: TagCore})
	if err != nil {
		t.Fatalf("NewDispatcher: %v", err)
	}
	results, err := d.Run(n, cec.AddrPlayback1, cec.AddrRecord1)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(results) != 1 || results[0].Name != "a" {
		t.Fatalf("results = %+v, want only subtest a", results)
	}
	if strings.Contains(buf.String(), "deck only") {
		t.Error("unselected feature should not be announced")
	}
}

func TestDispatcherZeroTagsMeansAll(t *testing.T) {
	n, _ := testNode(t)
	features := []Feature{
		{Name: "f1", Tag: TagCore, Subtests: []Subtest{{Name: "a", LAMask: cec.MaskAll, Run: passStub}}},
		{Name: "f2", Tag: TagTimerProgramming, Subtests: []Subtest{{Name: "b", LAMask: cec.MaskAll, Run: passStub}}},
	}
	d, err := NewDispatcher(features, Options{})
	if err != nil {
		t.Fatalf("NewDispatcher: %v", err)
	}
	results, err := d.Run(n, cec.AddrPlayback1, cec.AddrRecord1)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("got %d results, want 2", len(results))
	}
}

func TestDispatcherEscalatesOutsideLAMask(t *testing.T) {
	n, _ := testNode(t)
	// A TV-only subtest passing against a recording device is suspicious.
	features := oneFeature(TagCore, Subtest{Name: "tv only", LAMask: cec.MaskTV, Run: passStub})
	d, _ := NewDispatcher(features, Options{})
	results, err := d.Run(n, cec.AddrPlayback1, cec.AddrRecord1)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if results[0].Outcome != Unexpected {
		t.Errorf("outcome = %s, want %s", results[0].Outcome, Unexpected)
	}
}

func TestDispatcherDoesNotEscalateNonPass(t *testing.T) {
	n, _ := testNode(t)
	features := oneFeature(TagCore, Subtest{Name: "tv only", LAMask: cec.MaskTV, Run: notApplicableStub})
	d, _ := NewDispatcher(features, Options{})
	results, err := d.Run(n, cec.AddrPlayback1, cec.AddrRecord1)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if results[0].Outcome != NotApplicable {
		t.Errorf("outcome = %s, want %s", results[0].Outcome, NotApplicable)
	}
}

func TestDispatcherNotApplicableSuppressed(t *testing.T) {
	n, buf := testNode(t)
	features := oneFeature(TagCore, Subtest{Name: "quiet one", LAMask: cec.MaskAll, Run: notApplicableStub})
	d, _ := NewDispatcher(features, Options{})
	if _, err := d.Run(n, cec.AddrPlayback1, cec.AddrRecord1); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if strings.Contains(buf.String(), "quiet one") {
		t.Error("NotApplicable without a declared expectation should not be printed")
	}

	// With a declared expectation the line is printed.
	n2, buf2 := testNode(t)
	d2, err := NewDispatcher(features, Options{
		Expect: map[string]Expectation{"quiet one": {Outcome: NotApplicable}},
	})
	if err != nil {
		t.Fatalf("NewDispatcher: %v", err)
	}
	if _, err := d2.Run(n2, cec.AddrPlayback1, cec.AddrRecord1); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(buf2.String(), "quiet one") {
		t.Error("NotApplicable with a declared expectation should be printed")
	}
}

func TestDispatcherExpectationMismatch(t *testing.T) {
	n, _ := testNode(t)
	features := oneFeature(TagCore, Subtest{Name: "x", LAMask: cec.MaskAll, Run: passStub})
	d, _ := NewDispatcher(features, Options{
		Expect: map[string]Expectation{"x": {Outcome: NotSupported}},
	})
	results, err := d.Run(n, cec.AddrPlayback1, cec.AddrRecord1)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if results[0].Outcome != Fail {
		t.Errorf("outcome = %s, want %s on expectation mismatch", results[0].Outcome, Fail)
	}
}

func TestDispatcherExpectedFail(t *testing.T) {
	n, _ := testNode(t)
	features := oneFeature(TagCore, Subtest{Name: "x", LAMask: cec.MaskAll, Run: failStub})
	d, _ := NewDispatcher(features, Options{
		Expect: map[string]Expectation{"x": {Outcome: Fail}},
	})
	results, err := d.Run(n, cec.AddrPlayback1, cec.AddrRecord1)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if results[0].Outcome != ExpectedFail {
		t.Errorf("outcome = %s, want %s", results[0].Outcome, ExpectedFail)
	}
}

func TestDispatcherNoWarningsExpectation(t *testing.T) {
	warnStub := func(n *Node, me, la cec.LogicalAddr, interactive bool) (Outcome, error) {
		n.Warn("something odd")
		return Pass, nil
	}
	n, _ := testNode(t)
	features := oneFeature(TagCore, Subtest{Name: "x", LAMask: cec.MaskAll, Run: warnStub})
	d, err := NewDispatcher(features, Options{
		Expect: map[string]Expectation{"x": {Outcome: Pass, NoWarnings: true}},
	})
	if err != nil {
		t.Fatalf("NewDispatcher: %v", err)
	}
	results, err := d.Run(n, cec.AddrPlayback1, cec.AddrRecord1)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if results[0].Outcome != Fail {
		t.Errorf("outcome = %s, want %s when warnings were forbidden", results[0].Outcome, Fail)
	}
	if results[0].Warnings != 1 {
		t.Errorf("warnings = %d, want 1", results[0].Warnings)
	}
}

func TestDispatcherCriticalHalts(t *testing.T) {
	n, _ := testNode(t)
	features := oneFeature(TagCore,
		Subtest{Name: "first", LAMask: cec.MaskAll, Run: criticalStub},
		Subtest{Name: "second", LAMask: cec.MaskAll, Run: passStub},
	)
	d, _ := NewDispatcher(features, Options{})
	results, err := d.Run(n, cec.AddrPlayback1, cec.AddrRecord1)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1 after a critical failure", len(results))
	}
	if results[0].Outcome != CriticalFail {
		t.Errorf("outcome = %s, want %s", results[0].Outcome, CriticalFail)
	}
}

func TestDispatcherSkipsCEC20OnOlderRemote(t *testing.T) {
	n, _ := testNode(t)
	features := oneFeature(TagCore, Subtest{Name: "v2 only", LAMask: cec.MaskAll, ForCEC20: true, Run: passStub})
	d, _ := NewDispatcher(features, Options{})

	// Remote version defaults to unknown, below 2.0.
	results, err := d.Run(n, cec.AddrPlayback1, cec.AddrRecord1)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("got %d results, want 0", len(results))
	}

	n.Dev(cec.AddrRecord1).CECVersion = cec.Version2_0
	results, err = d.Run(n, cec.AddrPlayback1, cec.AddrRecord1)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("got %d results, want 1 on a 2.0 remote", len(results))
	}
}

// standbyAbortBus wraps the loopback device with a firmware quirk:
// it feature-aborts every Standby message.
type standbyAbortBus struct {
	*transport.Loopback
	pending []cec.Message
}

func (b *standbyAbortBus) Transmit(msg cec.Message) (bool, error) {
	if !msg.Poll && msg.Op == cec.OpStandby {
		b.pending = append(b.pending,
			cec.BuildFeatureAbort(msg.To, msg.From, cec.OpStandby, cec.AbortUnrecognizedOp))
		return true, nil
	}
	return b.Loopback.Transmit(msg)
}

func (b *standbyAbortBus) Receive(timeout time.Duration) (cec.Message, error) {
	if len(b.pending) > 0 {
		next := b.pending[0]
		b.pending = b.pending[1:]
		return next, nil
	}
	return b.Loopback.Receive(timeout)
}

func TestDispatcherSkipsStandbyPhaseWhenStandbyUnsupported(t *testing.T) {
	var buf bytes.Buffer
	n := NewNode(&standbyAbortBus{Loopback: transport.NewLoopback()}, &buf, nil)
	if err := n.Discover(cec.AddrPlayback1); err != nil {
		t.Fatalf("Discover: %v", err)
	}

	features := []Feature{{
		Name:     "Standby/Resume and Power Status",
		Tag:      TagPowerStatus | TagStandbyResume,
		Subtests: standbyResumeSubtests,
	}}
	d, err := NewDispatcher(features, Options{})
	if err != nil {
		t.Fatalf("NewDispatcher: %v", err)
	}
	results, err := d.Run(n, cec.AddrPlayback1, cec.AddrRecord1)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(results) != 1 {
		t.Fatalf("got %d results, want only the Standby subtest: %+v", len(results), results)
	}
	if results[0].Name != "Standby" || results[0].Outcome != NotSupported {
		t.Errorf("Standby result = %s: %s, want NotSupported", results[0].Name, results[0].Outcome)
	}
	for _, r := range results {
		if r.Name == "Repeated Standby message" || r.Name == "Wakeup" {
			t.Errorf("standby-phase subtest %q ran although the device never entered standby", r.Name)
		}
	}
}

func TestDispatcherSetsStandbyFlag(t *testing.T) {
	var sawStandby, sawActive bool
	standbyStub := func(n *Node, me, la cec.LogicalAddr, interactive bool) (Outcome, error) {
		sawStandby = n.InStandby
		return Pass, nil
	}
	activeStub := func(n *Node, me, la cec.LogicalAddr, interactive bool) (Outcome, error) {
		sawActive = n.InStandby
		return Pass, nil
	}
	n, _ := testNode(t)
	n.Dev(cec.AddrRecord1).InStandby = true
	features := oneFeature(TagCore,
		Subtest{Name: "in standby", LAMask: cec.MaskAll, InStandby: true, Run: standbyStub},
		Subtest{Name: "active", LAMask: cec.MaskAll, Run: activeStub},
	)
	d, _ := NewDispatcher(features, Options{})
	if _, err := d.Run(n, cec.AddrPlayback1, cec.AddrRecord1); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !sawStandby {
		t.Error("InStandby subtest should run with the flag set")
	}
	if sawActive {
		t.Error("non-standby subtest should run with the flag clear")
	}
}

func TestParseExpectation(t *testing.T) {
	cases := []struct {
		in      string
		name    string
		outcome Outcome
		noWarn  bool
		wantErr bool
	}{
		{"Deck Status=OK", "Deck Status", Pass, false, false},
		{"Deck Status=Fail,no-warnings", "Deck Status", Fail, true, false},
		{"X=NotSupported", "X", NotSupported, false, false},
		{"no equals sign", "", 0, false, true},
		{"=Pass", "", 0, false, true},
		{"X=Bogus", "", 0, false, true},
		{"X=Pass,bogus-qualifier", "", 0, false, true},
	}
	for _, tc := range cases {
		name, exp, err := ParseExpectation(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseExpectation(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseExpectation(%q): %v", tc.in, err)
			continue
		}
		if name != tc.name || exp.Outcome != tc.outcome || exp.NoWarnings != tc.noWarn {
			t.Errorf("ParseExpectation(%q) = %q, %+v", tc.in, name, exp)
		}
	}
}
