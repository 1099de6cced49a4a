package conformance

import (
	"fmt"
	"io"
	"time"

	"github.com/cectools/cecomply/internal/cec"
	"github.com/cectools/cecomply/internal/cec/client"
	"github.com/cectools/cecomply/internal/cec/transport"
)

// VendorIDUnknown marks a vendor ID that was never reported.
const VendorIDUnknown uint32 = 0xffffffff

// Prompter asks the operator to verify behavior that cannot be observed
// on the bus. Implementations live in internal/ui.
type Prompter interface {
	// Confirm asks a yes/no question and returns the answer.
	Confirm(question string) (bool, error)
	// Announce tells the operator what to do or watch for next.
	Announce(text string) error
}

// RemoteDevice accumulates everything learned about one logical address
// during discovery and the test run.
type RemoteDevice struct {
	PhysAddr   cec.PhysAddr
	CECVersion cec.Version
	VendorID   uint32
	OSDName    string
	PrimType   cec.PrimDevType

	// Report Features payload, CEC 2.0 only.
	AllDevTypes uint8
	RCProfile   uint8
	DevFeatures uint8

	Language       string
	BcastSystem    uint8
	DigBcastSystem uint8

	HasPowerStatus   bool
	HasOSD           bool
	HasRCPassthrough bool
	HasDeckCtl       bool
	HasRecTVScreen   bool
	HasSetAudioRate  bool
	HasARCRx         bool
	HasARCTx         bool
	HasCDC           bool
	InStandby        bool

	// Per-opcode capability tables. An opcode must never end up in
	// both; the post-run consistency scan fails hard if it does.
	Recognized   [256]bool
	Unrecognized [256]bool
}

// Node is the local end of the conformance run: the bus client, what we
// know about every remote address, and the operator-facing side
// channels (output writer, warning counter, prompts).
type Node struct {
	Client   *client.Client
	PhysAddr cec.PhysAddr
	PrimType cec.PrimDevType

	// RemoteMask has a bit set for every logical address that acked
	// a polling message during discovery.
	RemoteMask uint16
	Remote     [16]RemoteDevice

	// Year anchors timer validity and overlap computations.
	Year int

	// InStandby is set by the dispatcher while a standby-phase
	// subtest runs, so transmit failures there are not fatal.
	InStandby bool

	Out      io.Writer
	Prompter Prompter

	warnings int
}

// NewNode returns a Node bound to bus. The node itself is the opcode
// recorder for its client, so every Exchange updates the capability
// tables of the destination address.
func NewNode(bus transport.Transport, out io.Writer, prompter Prompter) *Node {
	n := &Node{
		PhysAddr: 0x2000,
		PrimType: cec.PrimDevTypePlayback,
		Year:     time.Now().Year(),
		Out:      out,
		Prompter: prompter,
	}
	for i := range n.Remote {
		n.Remote[i].VendorID = VendorIDUnknown
		n.Remote[i].PhysAddr = cec.PhysAddrInvalid
	}
	n.Client = client.New(bus, n)
	return n
}

// Dev returns the record for a logical address.
func (n *Node) Dev(la cec.LogicalAddr) *RemoteDevice { return &n.Remote[la&0xf] }

// MarkRecognized implements client.OpRecorder.
func (n *Node) MarkRecognized(la cec.LogicalAddr, op cec.Opcode) {
	n.Dev(la).Recognized[op] = true
}

// MarkUnrecognized implements client.OpRecorder.
func (n *Node) MarkUnrecognized(la cec.LogicalAddr, op cec.Opcode) {
	n.Dev(la).Unrecognized[op] = true
}

// Exchange sends msg and waits for its reply or Feature Abort.
func (n *Node) Exchange(msg cec.Message, timeout time.Duration) (client.Result, error) {
	return n.Client.Exchange(msg, timeout)
}

// Warn prints a warning and bumps the run's warning count.
func (n *Node) Warn(format string, args ...any) {
	n.warnings++
	fmt.Fprintf(n.Out, "\t\twarn: %s\n", fmt.Sprintf(format, args...))
}

// Info prints an informational note below the current subtest line.
func (n *Node) Info(format string, args ...any) {
	fmt.Fprintf(n.Out, "\t\tinfo: %s\n", fmt.Sprintf(format, args...))
}

// Warnings returns the number of warnings emitted so far.
func (n *Node) Warnings() int { return n.warnings }

// fail reports why a subtest failed and returns the Fail outcome. It
// exists so a subtest can end with a single return statement.
func (n *Node) fail(format string, args ...any) (Outcome, error) {
	fmt.Fprintf(n.Out, "\t\tfail: %s\n", fmt.Sprintf(format, args...))
	return Fail, nil
}

// failCritical is fail for contract breaches that make continuing the
// run pointless.
func (n *Node) failCritical(format string, args ...any) (Outcome, error) {
	fmt.Fprintf(n.Out, "\t\tfail: %s\n", fmt.Sprintf(format, args...))
	return CriticalFail, nil
}

// failOrWarn downgrades a failure to a warning while the run is in its
// standby phase, where silence from the remote is not conclusive.
func (n *Node) failOrWarn(format string, args ...any) (Outcome, error) {
	if n.InStandby {
		n.Warn(format, args...)
		return Pass, nil
	}
	return n.fail(format, args...)
}

// checkV2 reports cond as a failure on CEC 2.0 remotes, where the
// behavior is mandatory, and as a warning on older ones.
func (n *Node) checkV2(version cec.Version, cond bool, what string) bool {
	if !cond {
		return false
	}
	if version >= cec.Version2_0 {
		fmt.Fprintf(n.Out, "\t\tfail: %s\n", what)
		return true
	}
	n.Warn("%s", what)
	return false
}

// confirm routes a yes/no verification through the prompter. With no
// prompter configured the check is skipped and ok is false.
func (n *Node) confirm(interactive bool, question string) (asked, ok bool, err error) {
	if !interactive || n.Prompter == nil {
		return false, false, nil
	}
	ans, err := n.Prompter.Confirm(question)
	return true, ans, err
}

// announce tells the operator something when running interactively.
func (n *Node) announce(interactive bool, text string) error {
	if !interactive || n.Prompter == nil {
		return nil
	}
	return n.Prompter.Announce(text)
}
