package cec

import (
	"strings"
	"testing"
)

func TestParseFeatureAbort(t *testing.T) {
	m := BuildFeatureAbort(AddrTV, AddrPlayback1, OpGiveDeckStatus, AbortUnrecognizedOp)
	op, reason, err := ParseFeatureAbort(m)
	if err != nil {
		t.Fatal(err)
	}
	if op != OpGiveDeckStatus || reason != AbortUnrecognizedOp {
		t.Errorf("got op %s reason %s", op, reason)
	}

	short := Message{Op: OpFeatureAbort, Operands: []byte{0x9f}}
	if _, _, err := ParseFeatureAbort(short); err == nil {
		t.Error("short feature abort accepted")
	}
	if _, _, err := ParseFeatureAbort(BuildStandby(AddrTV, AddrPlayback1)); err == nil {
		t.Error("wrong opcode accepted")
	}
}

func TestParseReportPhysicalAddr(t *testing.T) {
	m := BuildReportPhysicalAddr(AddrRecord1, 0x1200, PrimDevTypeRecord)
	pa, primType, err := ParseReportPhysicalAddr(m)
	if err != nil {
		t.Fatal(err)
	}
	if pa != 0x1200 || primType != PrimDevTypeRecord {
		t.Errorf("got pa %s type %d", pa, primType)
	}
}

func TestParseReportFeatures(t *testing.T) {
	m := Message{Op: OpReportFeatures, Operands: []byte{
		byte(Version2_0), 1 << 1, 0x00, FeatDevHasDeckControl,
	}}
	f, err := ParseReportFeatures(m)
	if err != nil {
		t.Fatal(err)
	}
	if f.Version != Version2_0 || f.DevFeatures != FeatDevHasDeckControl {
		t.Errorf("got %+v", f)
	}
}

func TestParseReportFeaturesSkipsExtensions(t *testing.T) {
	// Two RC profile bytes, extension bit set on the first.
	m := Message{Op: OpReportFeatures, Operands: []byte{
		byte(Version2_0), 1 << 1, 0x80, 0x01, FeatDevHasSetOSDString,
	}}
	f, err := ParseReportFeatures(m)
	if err != nil {
		t.Fatal(err)
	}
	if f.RCProfile != 0x80 {
		t.Errorf("RC profile = 0x%02x", f.RCProfile)
	}
	if f.DevFeatures != FeatDevHasSetOSDString {
		t.Errorf("device features = 0x%02x", f.DevFeatures)
	}

	truncated := Message{Op: OpReportFeatures, Operands: []byte{
		byte(Version2_0), 1 << 1, 0x80, 0x80,
	}}
	if _, err := ParseReportFeatures(truncated); err == nil {
		t.Error("truncated device features accepted")
	}
}

func TestParseSetMenuLanguage(t *testing.T) {
	lang, err := ParseSetMenuLanguage(BuildSetMenuLanguage(AddrTV, "eng"))
	if err != nil {
		t.Fatal(err)
	}
	if lang != "eng" {
		t.Errorf("language = %q", lang)
	}
}

func TestParseTimerStatusProgrammed(t *testing.T) {
	m := Message{Op: OpTimerStatus, Operands: []byte{0x10 | ProgInfoEnoughSpace}}
	s, err := ParseTimerStatus(m)
	if err != nil {
		t.Fatal(err)
	}
	if !s.Programmed || s.ProgInfo != ProgInfoEnoughSpace {
		t.Errorf("got %+v", s)
	}
	if s.OverlapWarning || s.HasError() {
		t.Errorf("unexpected overlap or error in %+v", s)
	}
}

func TestParseTimerStatusError(t *testing.T) {
	m := Message{Op: OpTimerStatus, Operands: []byte{ProgErrorDuplicate, 2, 30}}
	s, err := ParseTimerStatus(m)
	if err != nil {
		t.Fatal(err)
	}
	if s.Programmed || s.ProgError != ProgErrorDuplicate || !s.HasError() {
		t.Errorf("got %+v", s)
	}
	if s.DurationHr != 2 || s.DurationMin != 30 {
		t.Errorf("duration = %d:%02d", s.DurationHr, s.DurationMin)
	}
}

func TestParseTimerStatusOverlap(t *testing.T) {
	m := Message{Op: OpTimerStatus, Operands: []byte{0x80 | 0x10 | ProgInfoEnoughSpace}}
	s, err := ParseTimerStatus(m)
	if err != nil {
		t.Fatal(err)
	}
	if !s.OverlapWarning || !s.Programmed {
		t.Errorf("got %+v", s)
	}
}

func TestParseTunerDeviceStatusAnalogue(t *testing.T) {
	m := Message{Op: OpTunerDeviceStatus, Operands: []byte{
		0x80, AnaBcastTypeTerrestrial, 0x1f, 0x40, BcastSystemPALBG,
	}}
	s, err := ParseTunerDeviceStatus(m)
	if err != nil {
		t.Fatal(err)
	}
	if !s.IsAnalogue || s.RecordingFlag != 1 || s.AnaFreq != 0x1f40 {
		t.Errorf("got %+v", s)
	}
}

func TestParseTunerDeviceStatusDigital(t *testing.T) {
	svc := DigitalServiceID{
		BcastSystem:   DigBcastSystemDVBT,
		TransportID:   0x1234,
		ServiceID:     0x5678,
		OrigNetworkID: 0x9abc,
	}
	operands := append([]byte{0x00}, svc.Encode()...)
	s, err := ParseTunerDeviceStatus(Message{Op: OpTunerDeviceStatus, Operands: operands})
	if err != nil {
		t.Fatal(err)
	}
	if s.IsAnalogue || s.Digital != svc {
		t.Errorf("got %+v", s)
	}

	bad := Message{Op: OpTunerDeviceStatus, Operands: []byte{0, 1, 2}}
	if _, err := ParseTunerDeviceStatus(bad); err == nil ||
		!strings.Contains(err.Error(), "operand count") {
		t.Errorf("bad operand count not rejected: %v", err)
	}
}

func TestParseRecordOn(t *testing.T) {
	src := RecordSrc{Type: RecordSrcExtPhysAddr, PhysAddr: 0x2100}
	got, err := ParseRecordOn(Message{Op: OpRecordOn, Operands: src.Encode()})
	if err != nil {
		t.Fatal(err)
	}
	if got != src {
		t.Errorf("got %+v, want %+v", got, src)
	}
}

func TestParseReportAudioStatus(t *testing.T) {
	s, err := ParseReportAudioStatus(Message{Op: OpReportAudioStatus, Operands: []byte{0x80 | 42}})
	if err != nil {
		t.Fatal(err)
	}
	if !s.Mute || s.Volume != 42 {
		t.Errorf("got %+v", s)
	}
}

func TestParseReportCurrentLatency(t *testing.T) {
	m := Message{Op: OpReportCurrentLatency, Operands: []byte{0x10, 0x00, 0x05}}
	pa, latency, err := ParseReportCurrentLatency(m)
	if err != nil {
		t.Fatal(err)
	}
	if pa != 0x1000 || latency != 0x05 {
		t.Errorf("got pa %s latency %d", pa, latency)
	}
}

func TestParseCDCHECReportState(t *testing.T) {
	state := byte(HECFuncStateActive<<6 | HostFuncStateInactive<<4 | ENCFuncStateNotSupported<<2 | CDCErrCodeNone)
	m := Message{Op: OpCDCMessage, Operands: []byte{0x20, 0x00, CDCHECReportState, 0x10, 0x00, state}}
	s, err := ParseCDCHECReportState(m)
	if err != nil {
		t.Fatal(err)
	}
	if s.PhysAddr != 0x2000 || s.TargetPhysAddr != 0x1000 {
		t.Errorf("addresses wrong: %+v", s)
	}
	if s.HECFuncState != HECFuncStateActive || s.HostFuncState != HostFuncStateInactive {
		t.Errorf("states wrong: %+v", s)
	}
	if s.HasField {
		t.Error("field present without field bytes")
	}

	discover := Message{Op: OpCDCMessage, Operands: []byte{0x20, 0x00, CDCHECDiscover, 0, 0, 0}}
	if _, err := ParseCDCHECReportState(discover); err == nil {
		t.Error("HEC Discover accepted as Report State")
	}
}
