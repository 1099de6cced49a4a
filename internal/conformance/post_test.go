package conformance

import (
	"strings"
	"testing"

	"github.com/cectools/cecomply/internal/cec"
)

func TestPostCheckRecognizedConflict(t *testing.T) {
	n, buf := testNode(t)
	dev := n.Dev(cec.AddrRecord1)
	dev.Recognized[cec.OpGiveDeckStatus] = true
	dev.Unrecognized[cec.OpGiveDeckStatus] = true

	outcome, err := postCheckRecognized(n, cec.AddrPlayback1, cec.AddrRecord1, false)
	if err != nil {
		t.Fatalf("postCheckRecognized: %v", err)
	}
	if outcome != Fail {
		t.Errorf("outcome = %s, want %s", outcome, Fail)
	}

	out := buf.String()
	if !strings.Contains(out, "fail: opcode Give Deck Status") {
		t.Errorf("conflict not reported as a failure line: %q", out)
	}
	if strings.Contains(out, "info:") {
		t.Errorf("failure line carries an info prefix: %q", out)
	}
}

func TestPostCheckRecognizedClean(t *testing.T) {
	n, _ := testNode(t)
	dev := n.Dev(cec.AddrRecord1)
	dev.Recognized[cec.OpGiveDeckStatus] = true
	dev.Unrecognized[cec.OpAbort] = true

	outcome, err := postCheckRecognized(n, cec.AddrPlayback1, cec.AddrRecord1, false)
	if err != nil {
		t.Fatalf("postCheckRecognized: %v", err)
	}
	if outcome != Pass {
		t.Errorf("outcome = %s, want %s", outcome, Pass)
	}
}
