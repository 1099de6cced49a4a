package report

import (
	"strings"
	"time"
)

// FormatTimestamp returns the RFC3339 UTC timestamp used for
// RunReport.GeneratedAt.
func FormatTimestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// RunReport captures one conformance run against a remote device.
type RunReport struct {
	GeneratedAt string          `json:"generated_at"`
	Version     string          `json:"version"`
	Adapter     string          `json:"adapter"`
	LocalLA     int             `json:"local_la"`
	RemoteLA    int             `json:"remote_la"`
	Results     []SubtestResult `json:"results"`
}

// SubtestResult records the outcome of one subtest. Outcome holds the
// display form, e.g. "OK", "FAIL" or "OK (Presumed)".
type SubtestResult struct {
	Feature  string `json:"feature"`
	Subtest  string `json:"subtest"`
	Outcome  string `json:"outcome"`
	Warnings int    `json:"warnings,omitempty"`
}

// Failed reports whether the outcome counts against conformance.
func (r SubtestResult) Failed() bool {
	return strings.HasPrefix(r.Outcome, "FAIL")
}

// Totals summarises a run.
type Totals struct {
	Run      int `json:"run"`
	Passed   int `json:"passed"`
	Failed   int `json:"failed"`
	Warnings int `json:"warnings"`
}

// Totals tallies the recorded results.
func (r *RunReport) Totals() Totals {
	var t Totals
	for _, res := range r.Results {
		t.Run++
		if res.Failed() {
			t.Failed++
		} else {
			t.Passed++
		}
		t.Warnings += res.Warnings
	}
	return t
}

// Pass reports whether the run had no failed subtests.
func (r *RunReport) Pass() bool {
	return r.Totals().Failed == 0
}
