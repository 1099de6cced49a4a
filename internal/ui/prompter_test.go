package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/cectools/cecomply/internal/conformance"
)

var _ conformance.Prompter = (*OperatorPrompter)(nil)

func TestAnnounce(t *testing.T) {
	var buf bytes.Buffer
	p := NewOperatorPrompter(&buf)

	if err := p.Announce("Ensure the TV is displaying a live picture"); err != nil {
		t.Fatalf("Announce failed: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "Ensure the TV is displaying a live picture") {
		t.Errorf("Announcement text missing from output: %q", output)
	}
	if !strings.HasSuffix(output, "\n") {
		t.Error("Announcement should end with a newline")
	}
}
