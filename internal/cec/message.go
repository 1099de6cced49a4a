package cec

import "fmt"

// Message is one CEC frame: header addresses, opcode, and operands.
// A Message is transient; it is built, transmitted, and (optionally)
// matched against a single reply.
type Message struct {
	From     LogicalAddr
	To       LogicalAddr
	Op       Opcode
	Operands []byte

	// Poll marks a polling message: header byte only, no opcode.
	Poll bool

	// WantReply is the opcode the transaction layer should correlate
	// the reply on. Zero (Feature Abort) means no reply is expected
	// beyond a possible Feature Abort.
	WantReply Opcode
}

// Broadcast reports whether the message is addressed to every device.
func (m Message) Broadcast() bool { return m.To == AddrBroadcast }

// Operand returns operand byte i, or 0 when the message is shorter.
// Parsers that need hard length checks use the Parse helpers instead.
func (m Message) Operand(i int) uint8 {
	if i < len(m.Operands) {
		return m.Operands[i]
	}
	return 0
}

func (m Message) String() string {
	if m.Poll {
		return fmt.Sprintf("poll %d->%d", m.From, m.To)
	}
	return fmt.Sprintf("%s %d->%d (%d operands)", m.Op, m.From, m.To, len(m.Operands))
}

// IsFeatureAbortFor reports whether m is a Feature Abort naming op as
// the aborted opcode.
func (m Message) IsFeatureAbortFor(op Opcode) bool {
	return m.Op == OpFeatureAbort && len(m.Operands) >= 2 && Opcode(m.Operands[0]) == op
}
