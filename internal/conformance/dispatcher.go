package conformance

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/cectools/cecomply/internal/cec"
)

// Expectation declares what outcome the operator expects from a named
// subtest, with an optional requirement that it emit no warnings.
type Expectation struct {
	Outcome    Outcome
	NoWarnings bool
}

// ParseExpectation parses "Name=Outcome[,no-warnings]".
func ParseExpectation(s string) (string, Expectation, error) {
	name, rest, ok := strings.Cut(s, "=")
	if !ok || name == "" {
		return "", Expectation{}, fmt.Errorf("expectation %q: want Name=Outcome[,no-warnings]", s)
	}
	var exp Expectation
	outcome, qualifier, _ := strings.Cut(rest, ",")
	out, ok := ParseOutcome(strings.TrimSpace(outcome))
	if !ok {
		return "", Expectation{}, fmt.Errorf("expectation %q: unknown outcome %q", s, outcome)
	}
	exp.Outcome = out
	switch strings.TrimSpace(qualifier) {
	case "":
	case "no-warnings":
		exp.NoWarnings = true
	default:
		return "", Expectation{}, fmt.Errorf("expectation %q: unknown qualifier %q", s, qualifier)
	}
	return name, exp, nil
}

// Options configures a dispatcher run.
type Options struct {
	// Tags selects feature groups; zero means everything.
	Tags Tag
	// Expect maps subtest names to declared expectations.
	Expect map[string]Expectation
	// Interactive enables operator verifications.
	Interactive bool
	// Render turns an outcome into its display form; nil means
	// Outcome.String.
	Render func(Outcome) string
}

// SubtestResult is the dispatcher's record of one subtest.
type SubtestResult struct {
	Feature  string
	Name     string
	Outcome  Outcome
	Warnings int
}

// Dispatcher runs a validated catalogue against one remote device.
type Dispatcher struct {
	features []Feature
	opts     Options
}

// NewDispatcher validates the catalogue and expectations. A subtest
// name appearing twice is allowed only when both entries are bound to
// the same function; expectations must name a catalogued subtest.
func NewDispatcher(features []Feature, opts Options) (*Dispatcher, error) {
	fns := make(map[string]uintptr)
	for _, f := range features {
		for _, st := range f.Subtests {
			fn := reflect.ValueOf(st.Run).Pointer()
			if prev, ok := fns[st.Name]; ok && prev != fn {
				return nil, fmt.Errorf("subtest %q registered twice with different functions", st.Name)
			}
			fns[st.Name] = fn
		}
	}
	for name := range opts.Expect {
		if _, ok := fns[name]; !ok {
			return nil, fmt.Errorf("expectation for unknown subtest %q", name)
		}
	}
	if opts.Tags == 0 {
		opts.Tags = TagAll
	}
	if opts.Render == nil {
		opts.Render = Outcome.String
	}
	return &Dispatcher{features: features, opts: opts}, nil
}

// Features returns the catalogue in run order.
func (d *Dispatcher) Features() []Feature { return d.features }

// Run executes every selected subtest in catalogue order against la.
// It stops early when a subtest returns CriticalFail or when a subtest
// reports a harness error. The returned results cover everything that
// ran.
func (d *Dispatcher) Run(n *Node, me, la cec.LogicalAddr) ([]SubtestResult, error) {
	var results []SubtestResult
	dev := n.Dev(la)

	for _, f := range d.features {
		// A feature runs only when all of its tags were selected.
		if f.Tag&d.opts.Tags != f.Tag {
			continue
		}
		fmt.Fprintf(n.Out, "%s:\n", f.Name)

		for _, st := range f.Subtests {
			res := SubtestResult{Feature: f.Name, Name: st.Name, Outcome: NotRun}

			if st.ForCEC20 && dev.CECVersion < cec.Version2_0 {
				continue
			}
			// Standby-phase subtests only make sense once the device
			// actually entered standby.
			if st.InStandby && !dev.InStandby {
				continue
			}
			n.InStandby = st.InStandby

			res.Outcome = Running
			before := n.Warnings()
			outcome, err := st.Run(n, me, la, d.opts.Interactive)
			if err != nil {
				return results, fmt.Errorf("subtest %q: %w", st.Name, err)
			}
			res.Warnings = n.Warnings() - before

			if outcome == Pass && st.LAMask&la.Mask() == 0 {
				outcome = Unexpected
			}
			outcome = d.applyExpectation(n, st.Name, outcome, res.Warnings)

			res.Outcome = outcome
			results = append(results, res)
			if _, declared := d.opts.Expect[st.Name]; declared || outcome != NotApplicable {
				fmt.Fprintf(n.Out, "\t%s: %s\n", st.Name, d.opts.Render(outcome))
			}

			if outcome == CriticalFail {
				return results, nil
			}
		}
	}
	return results, nil
}

func (d *Dispatcher) applyExpectation(n *Node, name string, outcome Outcome, warnings int) Outcome {
	exp, ok := d.opts.Expect[name]
	if !ok {
		return outcome
	}
	if outcome != exp.Outcome {
		n.Info("expected %s, got %s", exp.Outcome, outcome)
		return Fail
	}
	if exp.NoWarnings && warnings > 0 {
		n.Info("expected no warnings, got %d", warnings)
		return Fail
	}
	if outcome == Fail {
		return ExpectedFail
	}
	return outcome
}
