package conformance

import (
	"fmt"

	"github.com/cectools/cecomply/internal/cec"
)

/* Post-test checks */

// postCheckRecognized flags opcodes the device both answered and
// feature aborted with Unrecognized Opcode during the run. A device
// cannot do both for the same opcode.
func postCheckRecognized(n *Node, me, la cec.LogicalAddr, interactive bool) (Outcome, error) {
	dev := n.Dev(la)
	failed := false
	for op := 0; op < 256; op++ {
		if dev.Recognized[op] && dev.Unrecognized[op] {
			fmt.Fprintf(n.Out, "\t\tfail: opcode %s was both recognized and aborted as unrecognized\n", cec.Opcode(op))
			failed = true
		}
	}
	if failed {
		return Fail, nil
	}
	return Pass, nil
}

var postTestSubtests = []Subtest{
	{Name: "Recognized/unrecognized message consistency", LAMask: cec.MaskAll, Run: postCheckRecognized},
}
