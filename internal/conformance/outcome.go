package conformance

import "strings"

// Outcome is the terminal result of one subtest.
type Outcome int

const (
	// NotRun and Running are bookkeeping states of the dispatcher's
	// result record; subtests never return them.
	NotRun Outcome = iota
	Running

	Pass
	Fail
	CriticalFail
	Presumed
	NotApplicable
	NotSupported
	Refused
	Unexpected
	// ExpectedFail is the display form of a Fail that matched a
	// declared expectation.
	ExpectedFail
)

func (o Outcome) String() string {
	switch o {
	case NotRun:
		return "not run"
	case Running:
		return "running"
	case Pass:
		return "OK"
	case Fail:
		return "FAIL"
	case CriticalFail:
		return "FAIL (critical)"
	case Presumed:
		return "OK (Presumed)"
	case NotApplicable:
		return "OK (Not Applicable)"
	case NotSupported:
		return "OK (Not Supported)"
	case Refused:
		return "OK (Refused)"
	case Unexpected:
		return "OK (Unexpected)"
	case ExpectedFail:
		return "OK (Expected Failure)"
	default:
		return "invalid outcome"
	}
}

// Failed reports whether the outcome counts against the run verdict.
func (o Outcome) Failed() bool {
	return o == Fail || o == CriticalFail
}

// ParseOutcome maps the operator-facing outcome names used in
// expectation strings and suite files. Names are matched without
// regard to case, the same way suite config validation accepts them.
func ParseOutcome(s string) (Outcome, bool) {
	switch strings.ToLower(s) {
	case "pass", "ok":
		return Pass, true
	case "fail":
		return Fail, true
	case "presumed":
		return Presumed, true
	case "notapplicable":
		return NotApplicable, true
	case "notsupported":
		return NotSupported, true
	case "refused":
		return Refused, true
	case "unexpected":
		return Unexpected, true
	}
	return NotRun, false
}
