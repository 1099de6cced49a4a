// Package cec defines the HDMI-CEC message model: logical addresses,
// opcodes, operand enumerations, and build/parse helpers for the
// operations the conformance suite exercises.
package cec

import "fmt"

// LogicalAddr is a device's logical address on the CEC bus (0-15).
type LogicalAddr uint8

const (
	AddrTV           LogicalAddr = 0
	AddrRecord1      LogicalAddr = 1
	AddrRecord2      LogicalAddr = 2
	AddrTuner1       LogicalAddr = 3
	AddrPlayback1    LogicalAddr = 4
	AddrAudioSystem  LogicalAddr = 5
	AddrTuner2       LogicalAddr = 6
	AddrTuner3       LogicalAddr = 7
	AddrPlayback2    LogicalAddr = 8
	AddrRecord3      LogicalAddr = 9
	AddrTuner4       LogicalAddr = 10
	AddrPlayback3    LogicalAddr = 11
	AddrBackup1      LogicalAddr = 12
	AddrBackup2      LogicalAddr = 13
	AddrSpecific     LogicalAddr = 14
	AddrUnregistered LogicalAddr = 15

	// Broadcast shares the address value with Unregistered; as a
	// destination it addresses every device on the bus.
	AddrBroadcast LogicalAddr = 15
)

// Logical address mask bits, used for subtest applicability.
const (
	MaskTV           uint16 = 1 << AddrTV
	MaskRecord       uint16 = 1<<AddrRecord1 | 1<<AddrRecord2 | 1<<AddrRecord3
	MaskTuner        uint16 = 1<<AddrTuner1 | 1<<AddrTuner2 | 1<<AddrTuner3 | 1<<AddrTuner4
	MaskPlayback     uint16 = 1<<AddrPlayback1 | 1<<AddrPlayback2 | 1<<AddrPlayback3
	MaskAudioSystem  uint16 = 1 << AddrAudioSystem
	MaskBackup       uint16 = 1<<AddrBackup1 | 1<<AddrBackup2
	MaskSpecific     uint16 = 1 << AddrSpecific
	MaskUnregistered uint16 = 1 << AddrUnregistered
	MaskAll          uint16 = 0xffff
)

func (la LogicalAddr) String() string {
	names := map[LogicalAddr]string{
		AddrTV:           "TV",
		AddrRecord1:      "Recording Device 1",
		AddrRecord2:      "Recording Device 2",
		AddrTuner1:       "Tuner 1",
		AddrPlayback1:    "Playback Device 1",
		AddrAudioSystem:  "Audio System",
		AddrTuner2:       "Tuner 2",
		AddrTuner3:       "Tuner 3",
		AddrPlayback2:    "Playback Device 2",
		AddrRecord3:      "Recording Device 3",
		AddrTuner4:       "Tuner 4",
		AddrPlayback3:    "Playback Device 3",
		AddrBackup1:      "Backup 1",
		AddrBackup2:      "Backup 2",
		AddrSpecific:     "Specific",
		AddrUnregistered: "Unregistered/Broadcast",
	}
	if s, ok := names[la]; ok {
		return s
	}
	return fmt.Sprintf("Invalid (%d)", uint8(la))
}

// Mask returns the logical address mask bit for la.
func (la LogicalAddr) Mask() uint16 { return 1 << la }

// IsTV reports whether la (or, for the catch-all addresses, the primary
// device type) identifies a TV.
func IsTV(la LogicalAddr, primType PrimDevType) bool {
	return la.Mask()&MaskTV != 0 ||
		((la.Mask()&(MaskSpecific|MaskUnregistered)) != 0 && primType == PrimDevTypeTV)
}

// HasTV reports whether the mask contains a TV address. Same shape for
// the remaining role helpers.
func HasTV(mask uint16) bool          { return mask&MaskTV != 0 }
func HasRecord(mask uint16) bool      { return mask&MaskRecord != 0 }
func HasTuner(mask uint16) bool       { return mask&MaskTuner != 0 }
func HasPlayback(mask uint16) bool    { return mask&MaskPlayback != 0 }
func HasAudioSystem(mask uint16) bool { return mask&MaskAudioSystem != 0 }
func IsUnregistered(mask uint16) bool { return mask&MaskUnregistered != 0 }

// PhysAddr is a 16-bit physical address (a.b.c.d nibbles).
type PhysAddr uint16

// PhysAddrInvalid marks an unconfigured physical address.
const PhysAddrInvalid PhysAddr = 0xffff

func (pa PhysAddr) String() string {
	return fmt.Sprintf("%x.%x.%x.%x", pa>>12&0xf, pa>>8&0xf, pa>>4&0xf, pa&0xf)
}

// PrimDevType is the primary device type operand.
type PrimDevType uint8

const (
	PrimDevTypeTV        PrimDevType = 0
	PrimDevTypeRecord    PrimDevType = 1
	PrimDevTypeTuner     PrimDevType = 3
	PrimDevTypePlayback  PrimDevType = 4
	PrimDevTypeAudio     PrimDevType = 5
	PrimDevTypeSwitch    PrimDevType = 6
	PrimDevTypeProcessor PrimDevType = 7
)

// Version is the CEC protocol version operand.
type Version uint8

const (
	Version1_3A Version = 4
	Version1_4  Version = 5
	Version2_0  Version = 6
)

func (v Version) String() string {
	switch v {
	case Version1_3A:
		return "1.3a"
	case Version1_4:
		return "1.4"
	case Version2_0:
		return "2.0"
	default:
		return fmt.Sprintf("Unknown (0x%02x)", uint8(v))
	}
}
