package cec

import "fmt"

// Parsers for the replies the conformance suite inspects. Each checks
// the operand length hard: a short reply is a protocol violation the
// caller turns into a failed subtest.

func checkOp(m Message, op Opcode, minOperands int) error {
	if m.Op != op {
		return fmt.Errorf("expected %s, got %s", op, m.Op)
	}
	if len(m.Operands) < minOperands {
		return fmt.Errorf("%s: want at least %d operands, got %d", op, minOperands, len(m.Operands))
	}
	return nil
}

// ParseFeatureAbort returns the aborted opcode and abort reason.
func ParseFeatureAbort(m Message) (Opcode, AbortReason, error) {
	if err := checkOp(m, OpFeatureAbort, 2); err != nil {
		return 0, 0, err
	}
	return Opcode(m.Operands[0]), AbortReason(m.Operands[1]), nil
}

// ParseReportPhysicalAddr returns the announced physical address and
// primary device type.
func ParseReportPhysicalAddr(m Message) (PhysAddr, PrimDevType, error) {
	if err := checkOp(m, OpReportPhysicalAddr, 3); err != nil {
		return 0, 0, err
	}
	return PhysAddr(uint16(m.Operands[0])<<8 | uint16(m.Operands[1])), PrimDevType(m.Operands[2]), nil
}

// ParseCECVersion returns the reported protocol version.
func ParseCECVersion(m Message) (Version, error) {
	if err := checkOp(m, OpCECVersion, 1); err != nil {
		return 0, err
	}
	return Version(m.Operands[0]), nil
}

// ParseSetMenuLanguage returns the 3-letter ISO 639-2 language code.
func ParseSetMenuLanguage(m Message) (string, error) {
	if err := checkOp(m, OpSetMenuLanguage, 3); err != nil {
		return "", err
	}
	return string(m.Operands[:3]), nil
}

// Features is the payload of a Report Features reply. RC profile and
// device features are assumed to be one byte each; as of CEC 2.0 only
// one byte is used.
type Features struct {
	Version        Version
	AllDeviceTypes uint8
	RCProfile      uint8
	DevFeatures    uint8
}

// ParseReportFeatures decodes Report Features, skipping extension
// bytes in the RC-profile and device-features operand runs.
func ParseReportFeatures(m Message) (Features, error) {
	if err := checkOp(m, OpReportFeatures, 4); err != nil {
		return Features{}, err
	}
	f := Features{
		Version:        Version(m.Operands[0]),
		AllDeviceTypes: m.Operands[1],
	}
	i := 2
	f.RCProfile = m.Operands[i]
	for i < len(m.Operands) && m.Operands[i]&0x80 != 0 {
		i++
	}
	i++
	if i >= len(m.Operands) {
		return Features{}, fmt.Errorf("report features: device features operand missing")
	}
	f.DevFeatures = m.Operands[i]
	return f, nil
}

// ParseReportPowerStatus returns the reported power status.
func ParseReportPowerStatus(m Message) (PowerStatus, error) {
	if err := checkOp(m, OpReportPowerStatus, 1); err != nil {
		return 0, err
	}
	return PowerStatus(m.Operands[0]), nil
}

// ParseDeviceVendorID returns the 24-bit vendor ID.
func ParseDeviceVendorID(m Message) (uint32, error) {
	if err := checkOp(m, OpDeviceVendorID, 3); err != nil {
		return 0, err
	}
	return uint32(m.Operands[0])<<16 | uint32(m.Operands[1])<<8 | uint32(m.Operands[2]), nil
}

// ParseSetOSDName returns the OSD name.
func ParseSetOSDName(m Message) (string, error) {
	if err := checkOp(m, OpSetOSDName, 1); err != nil {
		return "", err
	}
	return string(m.Operands), nil
}

// ParseMenuStatus returns the menu state.
func ParseMenuStatus(m Message) (uint8, error) {
	if err := checkOp(m, OpMenuStatus, 1); err != nil {
		return 0, err
	}
	return m.Operands[0], nil
}

// ParseDeckStatus returns the deck info operand.
func ParseDeckStatus(m Message) (uint8, error) {
	if err := checkOp(m, OpDeckStatus, 1); err != nil {
		return 0, err
	}
	return m.Operands[0], nil
}

// TunerDeviceStatus is the payload of a Tuner Device Status reply.
type TunerDeviceStatus struct {
	RecordingFlag uint8
	DisplayInfo   uint8
	IsAnalogue    bool
	AnaBcastType  uint8
	AnaFreq       uint16
	BcastSystem   uint8
	Digital       DigitalServiceID
}

// ParseTunerDeviceStatus decodes both the analogue and digital forms.
func ParseTunerDeviceStatus(m Message) (TunerDeviceStatus, error) {
	if err := checkOp(m, OpTunerDeviceStatus, 1); err != nil {
		return TunerDeviceStatus{}, err
	}
	s := TunerDeviceStatus{
		RecordingFlag: m.Operands[0] >> 7,
		DisplayInfo:   m.Operands[0] & 0x7f,
	}
	// Analogue form: 5 operands. Digital form: 8 operands.
	switch len(m.Operands) {
	case 5:
		s.IsAnalogue = true
		s.AnaBcastType = m.Operands[1]
		s.AnaFreq = uint16(m.Operands[2])<<8 | uint16(m.Operands[3])
		s.BcastSystem = m.Operands[4]
	case 8:
		d, err := DecodeDigitalServiceID(m.Operands[1:])
		if err != nil {
			return TunerDeviceStatus{}, err
		}
		s.Digital = d
	default:
		return TunerDeviceStatus{}, fmt.Errorf("tuner device status: unexpected operand count %d", len(m.Operands))
	}
	return s, nil
}

// ParseRecordStatus returns the record status operand.
func ParseRecordStatus(m Message) (uint8, error) {
	if err := checkOp(m, OpRecordStatus, 1); err != nil {
		return 0, err
	}
	return m.Operands[0], nil
}

// ParseRecordOn returns the record source a Record TV Screen reply
// carries.
func ParseRecordOn(m Message) (RecordSrc, error) {
	if err := checkOp(m, OpRecordOn, 1); err != nil {
		return RecordSrc{}, err
	}
	return DecodeRecordSrc(m.Operands)
}

// TimerStatus is the payload of a Timer Status reply.
type TimerStatus struct {
	OverlapWarning bool
	MediaInfo      uint8
	Programmed     bool
	ProgInfo       uint8 // valid when Programmed
	ProgError      uint8 // valid when !Programmed
	DurationHr     uint8
	DurationMin    uint8
}

// ParseTimerStatus decodes Timer Status.
func ParseTimerStatus(m Message) (TimerStatus, error) {
	if err := checkOp(m, OpTimerStatus, 1); err != nil {
		return TimerStatus{}, err
	}
	b := m.Operands[0]
	s := TimerStatus{
		OverlapWarning: b&0x80 != 0,
		MediaInfo:      b >> 5 & 0x03,
		Programmed:     b&0x10 != 0,
	}
	if s.Programmed {
		s.ProgInfo = b & 0x0f
	} else {
		s.ProgError = b & 0x0f
	}
	if len(m.Operands) >= 3 {
		s.DurationHr = m.Operands[1]
		s.DurationMin = m.Operands[2]
	}
	return s, nil
}

// HasError reports whether the reply carries a programme error.
func (s TimerStatus) HasError() bool { return !s.Programmed && s.ProgError != 0 }

// ParseTimerClearedStatus returns the cleared status operand.
func ParseTimerClearedStatus(m Message) (uint8, error) {
	if err := checkOp(m, OpTimerClearedStatus, 1); err != nil {
		return 0, err
	}
	return m.Operands[0], nil
}

// ParseActiveSource returns the active source's physical address.
func ParseActiveSource(m Message) (PhysAddr, error) {
	if err := checkOp(m, OpActiveSource, 2); err != nil {
		return 0, err
	}
	return PhysAddr(uint16(m.Operands[0])<<8 | uint16(m.Operands[1])), nil
}

// ParseSystemAudioModeStatus returns the system audio status operand.
func ParseSystemAudioModeStatus(m Message) (uint8, error) {
	if err := checkOp(m, OpSystemAudioModeStatus, 1); err != nil {
		return 0, err
	}
	return m.Operands[0], nil
}

// ParseSetSystemAudioMode returns the system audio mode operand.
func ParseSetSystemAudioMode(m Message) (uint8, error) {
	if err := checkOp(m, OpSetSystemAudioMode, 1); err != nil {
		return 0, err
	}
	return m.Operands[0], nil
}

// AudioStatus is the payload of a Report Audio Status reply.
type AudioStatus struct {
	Mute   bool
	Volume uint8 // 0-100, or 0x7f for unknown
}

// ParseReportAudioStatus decodes Report Audio Status.
func ParseReportAudioStatus(m Message) (AudioStatus, error) {
	if err := checkOp(m, OpReportAudioStatus, 1); err != nil {
		return AudioStatus{}, err
	}
	return AudioStatus{
		Mute:   m.Operands[0]&0x80 != 0,
		Volume: m.Operands[0] & 0x7f,
	}, nil
}

// ParseReportCurrentLatency returns the physical address and video
// latency operand of a Report Current Latency broadcast.
func ParseReportCurrentLatency(m Message) (PhysAddr, uint8, error) {
	if err := checkOp(m, OpReportCurrentLatency, 3); err != nil {
		return 0, 0, err
	}
	return PhysAddr(uint16(m.Operands[0])<<8 | uint16(m.Operands[1])), m.Operands[2], nil
}

// CDCHECState is a CDC HEC Report State payload.
type CDCHECState struct {
	PhysAddr       PhysAddr
	TargetPhysAddr PhysAddr
	HECFuncState   uint8
	HostFuncState  uint8
	ENCFuncState   uint8
	CDCErrCode     uint8
	HasField       bool
	HECField       uint16
}

// ParseCDCHECReportState decodes a CDC HEC Report State message.
func ParseCDCHECReportState(m Message) (CDCHECState, error) {
	if err := checkOp(m, OpCDCMessage, 6); err != nil {
		return CDCHECState{}, err
	}
	if m.Operands[2] != CDCHECReportState {
		return CDCHECState{}, fmt.Errorf("cdc: not a HEC Report State (sub-opcode 0x%02x)", m.Operands[2])
	}
	s := CDCHECState{
		PhysAddr:       PhysAddr(uint16(m.Operands[0])<<8 | uint16(m.Operands[1])),
		TargetPhysAddr: PhysAddr(uint16(m.Operands[3])<<8 | uint16(m.Operands[4])),
		HECFuncState:   m.Operands[5] >> 6,
		HostFuncState:  m.Operands[5] >> 4 & 0x03,
		ENCFuncState:   m.Operands[5] >> 2 & 0x03,
		CDCErrCode:     m.Operands[5] & 0x03,
	}
	if len(m.Operands) >= 8 {
		s.HasField = true
		s.HECField = uint16(m.Operands[6])<<8 | uint16(m.Operands[7])
	}
	return s, nil
}
