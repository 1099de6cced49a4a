package cec

// Builders for the operations the conformance suite transmits. Each
// returns a ready-to-send Message with WantReply set when the operation
// has a defined reply opcode.

func msg(from, to LogicalAddr, op Opcode, want Opcode, operands ...byte) Message {
	return Message{From: from, To: to, Op: op, WantReply: want, Operands: operands}
}

// BuildPoll returns a polling message (header only).
func BuildPoll(from, to LogicalAddr) Message {
	return Message{From: from, To: to, Poll: true}
}

/* Core */

func BuildAbort(from, to LogicalAddr) Message {
	return msg(from, to, OpAbort, 0)
}

func BuildFeatureAbort(from, to LogicalAddr, aborted Opcode, reason AbortReason) Message {
	return msg(from, to, OpFeatureAbort, 0, byte(aborted), byte(reason))
}

/* System Information */

func BuildGivePhysicalAddr(from, to LogicalAddr) Message {
	return msg(from, to, OpGivePhysicalAddr, OpReportPhysicalAddr)
}

func BuildReportPhysicalAddr(from LogicalAddr, pa PhysAddr, primType PrimDevType) Message {
	return msg(from, AddrBroadcast, OpReportPhysicalAddr, 0,
		byte(pa>>8), byte(pa), byte(primType))
}

func BuildGetCECVersion(from, to LogicalAddr) Message {
	return msg(from, to, OpGetCECVersion, OpCECVersion)
}

func BuildCECVersion(from, to LogicalAddr, version Version) Message {
	return msg(from, to, OpCECVersion, 0, byte(version))
}

func BuildGetMenuLanguage(from, to LogicalAddr) Message {
	return msg(from, to, OpGetMenuLanguage, OpSetMenuLanguage)
}

func BuildSetMenuLanguage(from LogicalAddr, language string) Message {
	b := []byte(language)
	if len(b) > 3 {
		b = b[:3]
	}
	return msg(from, AddrBroadcast, OpSetMenuLanguage, 0, b...)
}

func BuildGiveFeatures(from, to LogicalAddr) Message {
	return msg(from, to, OpGiveFeatures, OpReportFeatures)
}

/* Power */

func BuildGiveDevicePowerStatus(from, to LogicalAddr) Message {
	return msg(from, to, OpGiveDevicePowerStatus, OpReportPowerStatus)
}

func BuildStandby(from, to LogicalAddr) Message {
	return msg(from, to, OpStandby, 0)
}

func BuildImageViewOn(from, to LogicalAddr) Message {
	return msg(from, to, OpImageViewOn, 0)
}

/* Vendor */

func BuildGiveDeviceVendorID(from, to LogicalAddr) Message {
	return msg(from, to, OpGiveDeviceVendorID, OpDeviceVendorID)
}

/* OSD */

func BuildSetOSDName(from, to LogicalAddr, name string) Message {
	b := []byte(name)
	if len(b) > 14 {
		b = b[:14]
	}
	return msg(from, to, OpSetOSDName, 0, b...)
}

func BuildGiveOSDName(from, to LogicalAddr) Message {
	return msg(from, to, OpGiveOSDName, OpSetOSDName)
}

func BuildSetOSDString(from, to LogicalAddr, dispCtl uint8, text string) Message {
	operands := append([]byte{dispCtl}, []byte(text)...)
	return msg(from, to, OpSetOSDString, 0, operands...)
}

/* Remote Control Passthrough and Menu Control */

func BuildUserControlPressed(from, to LogicalAddr, uiCmd uint8) Message {
	return msg(from, to, OpUserControlPressed, 0, uiCmd)
}

func BuildUserControlReleased(from, to LogicalAddr) Message {
	return msg(from, to, OpUserControlReleased, 0)
}

func BuildMenuRequest(from, to LogicalAddr, request uint8) Message {
	return msg(from, to, OpMenuRequest, OpMenuStatus, request)
}

/* Deck Control */

func BuildGiveDeckStatus(from, to LogicalAddr, statusReq uint8) Message {
	m := msg(from, to, OpGiveDeckStatus, OpDeckStatus, statusReq)
	if statusReq == StatusReqOff {
		m.WantReply = 0
	}
	return m
}

func BuildDeckControl(from, to LogicalAddr, mode uint8) Message {
	return msg(from, to, OpDeckControl, 0, mode)
}

func BuildPlay(from, to LogicalAddr, mode uint8) Message {
	return msg(from, to, OpPlay, 0, mode)
}

/* Tuner Control */

func BuildGiveTunerDeviceStatus(from, to LogicalAddr, statusReq uint8) Message {
	return msg(from, to, OpGiveTunerDeviceStatus, OpTunerDeviceStatus, statusReq)
}

func BuildTunerStepIncrement(from, to LogicalAddr) Message {
	return msg(from, to, OpTunerStepIncrement, 0)
}

func BuildSelectAnalogueService(from, to LogicalAddr, bcastType uint8, freq uint16, system uint8) Message {
	return msg(from, to, OpSelectAnalogueService, 0,
		bcastType, byte(freq>>8), byte(freq), system)
}

func BuildSelectDigitalService(from, to LogicalAddr, service DigitalServiceID) Message {
	return msg(from, to, OpSelectDigitalService, 0, service.Encode()...)
}

/* One Touch Record */

func BuildRecordTVScreen(from, to LogicalAddr) Message {
	return msg(from, to, OpRecordTVScreen, OpRecordOn)
}

func BuildRecordOn(from, to LogicalAddr, src RecordSrc) Message {
	return msg(from, to, OpRecordOn, OpRecordStatus, src.Encode()...)
}

func BuildRecordOff(from, to LogicalAddr, wantStatus bool) Message {
	m := msg(from, to, OpRecordOff, 0)
	if wantStatus {
		m.WantReply = OpRecordStatus
	}
	return m
}

/* Timer Programming */

func analogueTimerOperands(day, month, startHr, startMin, durHr, durMin, recSeq uint8,
	bcastType uint8, freq uint16, system uint8) []byte {
	return []byte{day, month, startHr, startMin, durHr, durMin, recSeq,
		bcastType, byte(freq >> 8), byte(freq), system}
}

func BuildSetAnalogueTimer(from, to LogicalAddr, day, month, startHr, startMin, durHr, durMin, recSeq uint8,
	bcastType uint8, freq uint16, system uint8) Message {
	return msg(from, to, OpSetAnalogueTimer, OpTimerStatus,
		analogueTimerOperands(day, month, startHr, startMin, durHr, durMin, recSeq, bcastType, freq, system)...)
}

func BuildClearAnalogueTimer(from, to LogicalAddr, day, month, startHr, startMin, durHr, durMin, recSeq uint8,
	bcastType uint8, freq uint16, system uint8) Message {
	return msg(from, to, OpClearAnalogueTimer, OpTimerClearedStatus,
		analogueTimerOperands(day, month, startHr, startMin, durHr, durMin, recSeq, bcastType, freq, system)...)
}

func digitalTimerOperands(day, month, startHr, startMin, durHr, durMin, recSeq uint8,
	service DigitalServiceID) []byte {
	operands := []byte{day, month, startHr, startMin, durHr, durMin, recSeq}
	return append(operands, service.Encode()...)
}

func BuildSetDigitalTimer(from, to LogicalAddr, day, month, startHr, startMin, durHr, durMin, recSeq uint8,
	service DigitalServiceID) Message {
	return msg(from, to, OpSetDigitalTimer, OpTimerStatus,
		digitalTimerOperands(day, month, startHr, startMin, durHr, durMin, recSeq, service)...)
}

func BuildClearDigitalTimer(from, to LogicalAddr, day, month, startHr, startMin, durHr, durMin, recSeq uint8,
	service DigitalServiceID) Message {
	return msg(from, to, OpClearDigitalTimer, OpTimerClearedStatus,
		digitalTimerOperands(day, month, startHr, startMin, durHr, durMin, recSeq, service)...)
}

func extTimerOperands(day, month, startHr, startMin, durHr, durMin, recSeq uint8,
	extSrc, plug uint8, pa PhysAddr) []byte {
	return []byte{day, month, startHr, startMin, durHr, durMin, recSeq,
		extSrc, plug, byte(pa >> 8), byte(pa)}
}

func BuildSetExtTimer(from, to LogicalAddr, day, month, startHr, startMin, durHr, durMin, recSeq uint8,
	extSrc, plug uint8, pa PhysAddr) Message {
	return msg(from, to, OpSetExtTimer, OpTimerStatus,
		extTimerOperands(day, month, startHr, startMin, durHr, durMin, recSeq, extSrc, plug, pa)...)
}

func BuildClearExtTimer(from, to LogicalAddr, day, month, startHr, startMin, durHr, durMin, recSeq uint8,
	extSrc, plug uint8, pa PhysAddr) Message {
	return msg(from, to, OpClearExtTimer, OpTimerClearedStatus,
		extTimerOperands(day, month, startHr, startMin, durHr, durMin, recSeq, extSrc, plug, pa)...)
}

func BuildSetTimerProgramTitle(from, to LogicalAddr, title string) Message {
	b := []byte(title)
	if len(b) > 14 {
		b = b[:14]
	}
	return msg(from, to, OpSetTimerProgramTitle, 0, b...)
}

/* Routing Control */

func BuildActiveSource(from LogicalAddr, pa PhysAddr) Message {
	return msg(from, AddrBroadcast, OpActiveSource, 0, byte(pa>>8), byte(pa))
}

func BuildInactiveSource(from, to LogicalAddr, pa PhysAddr) Message {
	return msg(from, to, OpInactiveSource, 0, byte(pa>>8), byte(pa))
}

func BuildRequestActiveSource(from LogicalAddr) Message {
	return msg(from, AddrBroadcast, OpRequestActiveSource, OpActiveSource)
}

func BuildSetStreamPath(from LogicalAddr, pa PhysAddr) Message {
	m := msg(from, AddrBroadcast, OpSetStreamPath, OpActiveSource, byte(pa>>8), byte(pa))
	return m
}

/* Audio */

func BuildGiveSystemAudioModeStatus(from, to LogicalAddr) Message {
	return msg(from, to, OpGiveSystemAudioModeStatus, OpSystemAudioModeStatus)
}

func BuildSystemAudioModeRequest(from, to LogicalAddr, pa PhysAddr, hasPA bool) Message {
	if !hasPA {
		return msg(from, to, OpSystemAudioModeRequest, OpSetSystemAudioMode)
	}
	return msg(from, to, OpSystemAudioModeRequest, OpSetSystemAudioMode, byte(pa>>8), byte(pa))
}

func BuildGiveAudioStatus(from, to LogicalAddr) Message {
	return msg(from, to, OpGiveAudioStatus, OpReportAudioStatus)
}

func BuildSetAudioRate(from, to LogicalAddr, rate uint8) Message {
	return msg(from, to, OpSetAudioRate, 0, rate)
}

func BuildRequestCurrentLatency(from LogicalAddr, pa PhysAddr) Message {
	return msg(from, AddrBroadcast, OpRequestCurrentLatency, OpReportCurrentLatency,
		byte(pa>>8), byte(pa))
}

/* ARC */

func BuildRequestARCInitiation(from, to LogicalAddr) Message {
	return msg(from, to, OpRequestARCInitiation, OpInitiateARC)
}

func BuildRequestARCTermination(from, to LogicalAddr) Message {
	return msg(from, to, OpRequestARCTermination, OpTerminateARC)
}

func BuildReportARCInitiated(from, to LogicalAddr) Message {
	return msg(from, to, OpReportARCInitiated, 0)
}

func BuildReportARCTerminated(from, to LogicalAddr) Message {
	return msg(from, to, OpReportARCTerminated, 0)
}

/* CDC */

// BuildCDCHECDiscover broadcasts a CDC HEC Discover. CDC messages carry
// the initiator's physical address before the CDC opcode.
func BuildCDCHECDiscover(from LogicalAddr, pa PhysAddr) Message {
	return msg(from, AddrBroadcast, OpCDCMessage, 0,
		byte(pa>>8), byte(pa), CDCHECDiscover)
}
