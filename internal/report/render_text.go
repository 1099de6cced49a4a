package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Colorize styles an outcome display string for terminal output. Failed
// outcomes render red, clean passes green, qualified passes yellow.
func Colorize(outcome string) string {
	switch {
	case strings.HasPrefix(outcome, "FAIL"):
		return lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true).Render(outcome)
	case outcome == "OK":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(outcome)
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Render(outcome)
	}
}

// WriteSummary prints run totals and the verdict line.
func WriteSummary(w io.Writer, r *RunReport) {
	t := r.Totals()
	fmt.Fprintf(w, "\nTotal for device %d: %d, Passed: %d, Failed: %d, Warnings: %d\n",
		r.RemoteLA, t.Run, t.Passed, t.Failed, t.Warnings)
	if t.Failed > 0 {
		fmt.Fprintf(w, "Verdict: %s\n", Colorize("FAIL"))
	} else {
		fmt.Fprintf(w, "Verdict: %s\n", Colorize("OK"))
	}
}

// WriteFailures lists every failed subtest, one per line.
func WriteFailures(w io.Writer, r *RunReport) {
	for _, res := range r.Results {
		if res.Failed() {
			fmt.Fprintf(w, "\t%s: %s: %s\n", res.Feature, res.Subtest, Colorize(res.Outcome))
		}
	}
}
