package cec

import "fmt"

// AbortReason is the reason operand of a Feature Abort reply.
type AbortReason uint8

const (
	AbortUnrecognizedOp    AbortReason = 0
	AbortIncorrectMode     AbortReason = 1
	AbortNoSource          AbortReason = 2
	AbortInvalidOperand    AbortReason = 3
	AbortRefused           AbortReason = 4
	AbortUndetermined      AbortReason = 5
)

func (r AbortReason) String() string {
	switch r {
	case AbortUnrecognizedOp:
		return "Unrecognized Opcode"
	case AbortIncorrectMode:
		return "Not In Correct Mode To Respond"
	case AbortNoSource:
		return "Cannot Provide Source"
	case AbortInvalidOperand:
		return "Invalid Operand"
	case AbortRefused:
		return "Refused"
	case AbortUndetermined:
		return "Unable To Determine"
	default:
		return fmt.Sprintf("Reserved (0x%02x)", uint8(r))
	}
}

// PowerStatus is the Report Power Status operand.
type PowerStatus uint8

const (
	PowerOn           PowerStatus = 0
	PowerStandby      PowerStatus = 1
	PowerToOn         PowerStatus = 2
	PowerToStandby    PowerStatus = 3
)

func (p PowerStatus) String() string {
	switch p {
	case PowerOn:
		return "On"
	case PowerStandby:
		return "Standby"
	case PowerToOn:
		return "In transition Standby to On"
	case PowerToStandby:
		return "In transition On to Standby"
	default:
		return fmt.Sprintf("Invalid (0x%02x)", uint8(p))
	}
}

// Status request operand for Give Deck Status and Give Tuner Device Status.
const (
	StatusReqOn   uint8 = 1
	StatusReqOff  uint8 = 2
	StatusReqOnce uint8 = 3
)

// Deck Info operands (Deck Status reply).
const (
	DeckInfoPlay        uint8 = 0x11
	DeckInfoRecord      uint8 = 0x12
	DeckInfoPlayReverse uint8 = 0x13
	DeckInfoStill       uint8 = 0x14
	DeckInfoSlow        uint8 = 0x15
	DeckInfoSlowReverse uint8 = 0x16
	DeckInfoFastForward uint8 = 0x17
	DeckInfoFastReverse uint8 = 0x18
	DeckInfoNoMedia     uint8 = 0x19
	DeckInfoStop        uint8 = 0x1a
	DeckInfoSkipForward uint8 = 0x1b
	DeckInfoSkipReverse uint8 = 0x1c
	DeckInfoIndexSearchForward uint8 = 0x1d
	DeckInfoIndexSearchReverse uint8 = 0x1e
	DeckInfoOther       uint8 = 0x1f
)

// Deck Control mode operands.
const (
	DeckCtlSkipForward uint8 = 1
	DeckCtlSkipReverse uint8 = 2
	DeckCtlStop        uint8 = 3
	DeckCtlEject       uint8 = 4
)

// Play mode operands.
const (
	PlayModeForward     uint8 = 0x24
	PlayModeReverse     uint8 = 0x20
	PlayModeStill       uint8 = 0x25
	PlayModeFastFwdMin  uint8 = 0x05
	PlayModeFastFwdMed  uint8 = 0x06
	PlayModeFastFwdMax  uint8 = 0x07
	PlayModeFastRevMin  uint8 = 0x09
	PlayModeFastRevMed  uint8 = 0x0a
	PlayModeFastRevMax  uint8 = 0x0b
	PlayModeSlowFwdMin  uint8 = 0x15
	PlayModeSlowFwdMed  uint8 = 0x16
	PlayModeSlowFwdMax  uint8 = 0x17
	PlayModeSlowRevMin  uint8 = 0x19
	PlayModeSlowRevMed  uint8 = 0x1a
	PlayModeSlowRevMax  uint8 = 0x1b
)

// Record Status operands.
const (
	RecordStatusCurSrc          uint8 = 0x01
	RecordStatusDigService      uint8 = 0x02
	RecordStatusAnaService      uint8 = 0x03
	RecordStatusExtInput        uint8 = 0x04
	RecordStatusNoDigService    uint8 = 0x05
	RecordStatusNoAnaService    uint8 = 0x06
	RecordStatusNoService       uint8 = 0x07
	RecordStatusInvalidExtPlug  uint8 = 0x09
	RecordStatusInvalidExtPhysAddr uint8 = 0x0a
	RecordStatusUnsupCA         uint8 = 0x0b
	RecordStatusNoCAEntitlements uint8 = 0x0c
	RecordStatusCantCopySrc     uint8 = 0x0d
	RecordStatusNoMoreCopies    uint8 = 0x0e
	RecordStatusNoMedia         uint8 = 0x10
	RecordStatusPlaying         uint8 = 0x11
	RecordStatusAlreadyRecording uint8 = 0x12
	RecordStatusMediaProtected  uint8 = 0x13
	RecordStatusNoSignal        uint8 = 0x14
	RecordStatusMediaProblem    uint8 = 0x15
	RecordStatusNoSpace         uint8 = 0x16
	RecordStatusParentalLock    uint8 = 0x17
	RecordStatusTerminatedOK    uint8 = 0x1a
	RecordStatusAlreadyTerminated uint8 = 0x1b
	RecordStatusOther           uint8 = 0x1f
)

// RecordStatusIsError reports whether status is one of the defined error
// statuses for a failed request to start recording.
func RecordStatusIsError(status uint8) bool {
	switch status {
	case RecordStatusNoDigService, RecordStatusNoAnaService, RecordStatusNoService,
		RecordStatusInvalidExtPlug, RecordStatusInvalidExtPhysAddr,
		RecordStatusUnsupCA, RecordStatusNoCAEntitlements,
		RecordStatusCantCopySrc, RecordStatusNoMoreCopies,
		RecordStatusNoMedia, RecordStatusPlaying, RecordStatusAlreadyRecording,
		RecordStatusMediaProtected, RecordStatusNoSignal, RecordStatusMediaProblem,
		RecordStatusNoSpace, RecordStatusParentalLock, RecordStatusOther:
		return true
	}
	return false
}

// Record source types.
const (
	RecordSrcOwn         uint8 = 1
	RecordSrcDigital     uint8 = 2
	RecordSrcAnalogue    uint8 = 3
	RecordSrcExtPlug     uint8 = 4
	RecordSrcExtPhysAddr uint8 = 5
)

// Analogue broadcast types.
const (
	AnaBcastTypeCable       uint8 = 0
	AnaBcastTypeSatellite   uint8 = 1
	AnaBcastTypeTerrestrial uint8 = 2
)

// Broadcast systems (analogue).
const (
	BcastSystemPALBG   uint8 = 0
	BcastSystemSECAMLq uint8 = 1
	BcastSystemPALM    uint8 = 2
	BcastSystemNTSCM   uint8 = 3
	BcastSystemPALI    uint8 = 4
	BcastSystemSECAMDK uint8 = 5
	BcastSystemSECAMBG uint8 = 6
	BcastSystemSECAML  uint8 = 7
	BcastSystemPALDK   uint8 = 8
	BcastSystemOther   uint8 = 31
)

// Digital service broadcast systems.
const (
	DigBcastSystemARIBGen  uint8 = 0x00
	DigBcastSystemATSCGen  uint8 = 0x01
	DigBcastSystemDVBGen   uint8 = 0x02
	DigBcastSystemARIBBS   uint8 = 0x08
	DigBcastSystemARIBCS   uint8 = 0x09
	DigBcastSystemARIBT    uint8 = 0x0a
	DigBcastSystemATSCCable uint8 = 0x10
	DigBcastSystemATSCSat  uint8 = 0x11
	DigBcastSystemATSCT    uint8 = 0x12
	DigBcastSystemDVBC     uint8 = 0x18
	DigBcastSystemDVBS     uint8 = 0x19
	DigBcastSystemDVBS2    uint8 = 0x1a
	DigBcastSystemDVBT     uint8 = 0x1b
)

// DigBcastSystemIsValid reports whether system is a defined digital
// broadcast system operand.
func DigBcastSystemIsValid(system uint8) bool {
	switch system {
	case DigBcastSystemARIBGen, DigBcastSystemATSCGen, DigBcastSystemDVBGen,
		DigBcastSystemARIBBS, DigBcastSystemARIBCS, DigBcastSystemARIBT,
		DigBcastSystemATSCCable, DigBcastSystemATSCSat, DigBcastSystemATSCT,
		DigBcastSystemDVBC, DigBcastSystemDVBS, DigBcastSystemDVBS2, DigBcastSystemDVBT:
		return true
	}
	return false
}

// Service ID methods for digital services.
const (
	ServiceIDMethodByDigID   uint8 = 0
	ServiceIDMethodByChannel uint8 = 1
)

// Channel number formats.
const (
	ChannelNumberFmt1Part uint8 = 0x01
	ChannelNumberFmt2Part uint8 = 0x02
)

// DigitalServiceID identifies a digital service in timer and tuner
// operands. Wire format is 7 bytes.
type DigitalServiceID struct {
	ServiceIDMethod uint8
	BcastSystem     uint8
	// By digital ID (ARIB/DVB: transport/service/orig-network,
	// ATSC: transport/program).
	TransportID   uint16
	ServiceID     uint16
	OrigNetworkID uint16
	ProgramNumber uint16
	// By channel.
	ChannelFmt   uint8
	ChannelMajor uint16
	ChannelMinor uint16
}

// Encode returns the 7-byte wire form.
func (d DigitalServiceID) Encode() []byte {
	b := make([]byte, 7)
	b[0] = d.ServiceIDMethod<<7 | d.BcastSystem&0x7f
	if d.ServiceIDMethod == ServiceIDMethodByChannel {
		b[1] = d.ChannelFmt << 2 & 0xfc
		b[1] |= uint8(d.ChannelMajor >> 8 & 0x03)
		b[2] = uint8(d.ChannelMajor)
		b[3] = uint8(d.ChannelMinor >> 8)
		b[4] = uint8(d.ChannelMinor)
		return b
	}
	switch d.BcastSystem {
	case DigBcastSystemATSCGen, DigBcastSystemATSCCable, DigBcastSystemATSCSat, DigBcastSystemATSCT:
		b[1] = uint8(d.TransportID >> 8)
		b[2] = uint8(d.TransportID)
		b[3] = uint8(d.ProgramNumber >> 8)
		b[4] = uint8(d.ProgramNumber)
	default:
		b[1] = uint8(d.TransportID >> 8)
		b[2] = uint8(d.TransportID)
		b[3] = uint8(d.ServiceID >> 8)
		b[4] = uint8(d.ServiceID)
		b[5] = uint8(d.OrigNetworkID >> 8)
		b[6] = uint8(d.OrigNetworkID)
	}
	return b
}

// DecodeDigitalServiceID parses the 7-byte wire form.
func DecodeDigitalServiceID(b []byte) (DigitalServiceID, error) {
	if len(b) < 7 {
		return DigitalServiceID{}, fmt.Errorf("digital service ID: want 7 bytes, got %d", len(b))
	}
	d := DigitalServiceID{
		ServiceIDMethod: b[0] >> 7,
		BcastSystem:     b[0] & 0x7f,
	}
	if d.ServiceIDMethod == ServiceIDMethodByChannel {
		d.ChannelFmt = b[1] >> 2 & 0x3f
		d.ChannelMajor = uint16(b[1]&0x03)<<8 | uint16(b[2])
		d.ChannelMinor = uint16(b[3])<<8 | uint16(b[4])
		return d, nil
	}
	switch d.BcastSystem {
	case DigBcastSystemATSCGen, DigBcastSystemATSCCable, DigBcastSystemATSCSat, DigBcastSystemATSCT:
		d.TransportID = uint16(b[1])<<8 | uint16(b[2])
		d.ProgramNumber = uint16(b[3])<<8 | uint16(b[4])
	default:
		d.TransportID = uint16(b[1])<<8 | uint16(b[2])
		d.ServiceID = uint16(b[3])<<8 | uint16(b[4])
		d.OrigNetworkID = uint16(b[5])<<8 | uint16(b[6])
	}
	return d, nil
}

// RecordSrc is the Record Source operand of Record On.
type RecordSrc struct {
	Type         uint8
	Digital      DigitalServiceID
	AnaBcastType uint8
	AnaFreq      uint16
	BcastSystem  uint8
	Plug         uint8
	PhysAddr     PhysAddr
}

// Encode returns the variable-length wire form.
func (s RecordSrc) Encode() []byte {
	b := []byte{s.Type}
	switch s.Type {
	case RecordSrcDigital:
		b = append(b, s.Digital.Encode()...)
	case RecordSrcAnalogue:
		b = append(b, s.AnaBcastType, uint8(s.AnaFreq>>8), uint8(s.AnaFreq), s.BcastSystem)
	case RecordSrcExtPlug:
		b = append(b, s.Plug)
	case RecordSrcExtPhysAddr:
		b = append(b, uint8(s.PhysAddr>>8), uint8(s.PhysAddr))
	}
	return b
}

// DecodeRecordSrc parses a Record Source operand.
func DecodeRecordSrc(b []byte) (RecordSrc, error) {
	if len(b) < 1 {
		return RecordSrc{}, fmt.Errorf("record source: empty operand")
	}
	s := RecordSrc{Type: b[0]}
	switch s.Type {
	case RecordSrcDigital:
		d, err := DecodeDigitalServiceID(b[1:])
		if err != nil {
			return RecordSrc{}, err
		}
		s.Digital = d
	case RecordSrcAnalogue:
		if len(b) < 5 {
			return RecordSrc{}, fmt.Errorf("record source: analogue operand too short")
		}
		s.AnaBcastType = b[1]
		s.AnaFreq = uint16(b[2])<<8 | uint16(b[3])
		s.BcastSystem = b[4]
	case RecordSrcExtPlug:
		if len(b) < 2 {
			return RecordSrc{}, fmt.Errorf("record source: plug operand missing")
		}
		s.Plug = b[1]
	case RecordSrcExtPhysAddr:
		if len(b) < 3 {
			return RecordSrc{}, fmt.Errorf("record source: physical address operand too short")
		}
		s.PhysAddr = PhysAddr(uint16(b[1])<<8 | uint16(b[2]))
	}
	return s, nil
}

// Timer operands.
const (
	RecSeqOnceOnly uint8 = 0 // otherwise a Sun..Sat day bitmask, max 0x7f
)

// Timer Status operand fields.
const (
	MediaInfoUnprotected uint8 = 0
	MediaInfoProtected   uint8 = 1
	MediaInfoNoMedia     uint8 = 2

	ProgInfoEnoughSpace         uint8 = 0x08
	ProgInfoNotEnoughSpace      uint8 = 0x09
	ProgInfoNoMediaInfo         uint8 = 0x0a
	ProgInfoMightNotBeEnoughSpace uint8 = 0x0b

	ProgErrorNoFreeTimer     uint8 = 0x01
	ProgErrorDateOutOfRange  uint8 = 0x02
	ProgErrorRecSeqError     uint8 = 0x03
	ProgErrorInvExtPlug      uint8 = 0x04
	ProgErrorInvExtPhysAddr  uint8 = 0x05
	ProgErrorCAUnsupported   uint8 = 0x06
	ProgErrorNoCAEntitlements uint8 = 0x07
	ProgErrorResolutionUnsupported uint8 = 0x08
	ProgErrorParentalLock    uint8 = 0x09
	ProgErrorClockFailure    uint8 = 0x0a
	ProgErrorDuplicate       uint8 = 0x0e
)

// Timer Cleared Status operands.
const (
	TimerClearedRecording  uint8 = 0x00
	TimerClearedNoMatching uint8 = 0x01
	TimerClearedNoInfo     uint8 = 0x02
	TimerClearedCleared    uint8 = 0x80
)

// External source specifiers for external timers.
const (
	ExtSrcPlug     uint8 = 4
	ExtSrcPhysAddr uint8 = 5
)

// Display control operands for Set OSD String.
const (
	DispCtlDefault      uint8 = 0x00
	DispCtlUntilCleared uint8 = 0x40
	DispCtlClear        uint8 = 0x80
)

// Menu request and menu state operands.
const (
	MenuRequestActivate   uint8 = 0
	MenuRequestDeactivate uint8 = 1
	MenuRequestQuery      uint8 = 2

	MenuStateActivated   uint8 = 0
	MenuStateDeactivated uint8 = 1
)

// UI command operands (Remote Control Passthrough).
const (
	UICmdVolumeUp        uint8 = 0x41
	UICmdPowerOnFunction uint8 = 0x6d
)

// Device Features bits (Report Features).
const (
	FeatDevHasRecordTVScreen  uint8 = 1 << 6
	FeatDevHasSetOSDString    uint8 = 1 << 5
	FeatDevHasDeckControl     uint8 = 1 << 4
	FeatDevHasSetAudioRate    uint8 = 1 << 3
	FeatDevSinkHasARCTx       uint8 = 1 << 2
	FeatDevSourceHasARCRx     uint8 = 1 << 1
)

// CDC message sub-opcodes.
const (
	CDCHECDiscover    uint8 = 0x00
	CDCHECReportState uint8 = 0x01
)

// CDC HEC functionality states.
const (
	HECFuncStateNotSupported   uint8 = 0
	HECFuncStateInactive       uint8 = 1
	HECFuncStateActive         uint8 = 2
	HECFuncStateActivationField uint8 = 3

	HostFuncStateNotSupported uint8 = 0
	HostFuncStateInactive     uint8 = 1
	HostFuncStateActive       uint8 = 2

	ENCFuncStateNotSupported uint8 = 0
	ENCFuncStateInactive     uint8 = 1
	ENCFuncStateActive       uint8 = 2

	CDCErrCodeNone           uint8 = 0
	CDCErrCodeCapUnsupported uint8 = 1
	CDCErrCodeWrongState     uint8 = 2
	CDCErrCodeOther          uint8 = 3
)

// System audio status operands.
const (
	SystemAudioStatusOff uint8 = 0
	SystemAudioStatusOn  uint8 = 1

	AudioMuteStatusOff uint8 = 0
	AudioMuteStatusOn  uint8 = 1
)

// Audio rates for Set Audio Rate.
const (
	AudioRateOff        uint8 = 0
	AudioRateWideStd    uint8 = 1
	AudioRateWideFast   uint8 = 2
	AudioRateWideSlow   uint8 = 3
	AudioRateNarrowStd  uint8 = 4
	AudioRateNarrowFast uint8 = 5
	AudioRateNarrowSlow uint8 = 6
)
