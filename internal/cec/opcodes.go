package cec

import "fmt"

// Opcode is a CEC message opcode.
type Opcode uint8

const (
	OpFeatureAbort             Opcode = 0x00
	OpImageViewOn              Opcode = 0x04
	OpTunerStepIncrement       Opcode = 0x05
	OpTunerStepDecrement       Opcode = 0x06
	OpTunerDeviceStatus        Opcode = 0x07
	OpGiveTunerDeviceStatus    Opcode = 0x08
	OpRecordOn                 Opcode = 0x09
	OpRecordStatus             Opcode = 0x0a
	OpRecordOff                Opcode = 0x0b
	OpTextViewOn               Opcode = 0x0d
	OpRecordTVScreen           Opcode = 0x0f
	OpGiveDeckStatus           Opcode = 0x1a
	OpDeckStatus               Opcode = 0x1b
	OpSetMenuLanguage          Opcode = 0x32
	OpClearAnalogueTimer       Opcode = 0x33
	OpSetAnalogueTimer         Opcode = 0x34
	OpTimerStatus              Opcode = 0x35
	OpStandby                  Opcode = 0x36
	OpPlay                     Opcode = 0x41
	OpDeckControl              Opcode = 0x42
	OpTimerClearedStatus       Opcode = 0x43
	OpUserControlPressed       Opcode = 0x44
	OpUserControlReleased      Opcode = 0x45
	OpGiveOSDName              Opcode = 0x46
	OpSetOSDName               Opcode = 0x47
	OpSetOSDString             Opcode = 0x64
	OpSetTimerProgramTitle     Opcode = 0x67
	OpSystemAudioModeRequest   Opcode = 0x70
	OpGiveAudioStatus          Opcode = 0x71
	OpSetSystemAudioMode       Opcode = 0x72
	OpReportAudioStatus        Opcode = 0x7a
	OpGiveSystemAudioModeStatus Opcode = 0x7d
	OpSystemAudioModeStatus    Opcode = 0x7e
	OpRoutingChange            Opcode = 0x80
	OpRoutingInformation       Opcode = 0x81
	OpActiveSource             Opcode = 0x82
	OpGivePhysicalAddr         Opcode = 0x83
	OpReportPhysicalAddr       Opcode = 0x84
	OpRequestActiveSource      Opcode = 0x85
	OpSetStreamPath            Opcode = 0x86
	OpDeviceVendorID           Opcode = 0x87
	OpVendorCommand            Opcode = 0x89
	OpVendorRemoteButtonDown   Opcode = 0x8a
	OpVendorRemoteButtonUp     Opcode = 0x8b
	OpGiveDeviceVendorID       Opcode = 0x8c
	OpMenuRequest              Opcode = 0x8d
	OpMenuStatus               Opcode = 0x8e
	OpGiveDevicePowerStatus    Opcode = 0x8f
	OpReportPowerStatus        Opcode = 0x90
	OpGetMenuLanguage          Opcode = 0x91
	OpSelectAnalogueService    Opcode = 0x92
	OpSelectDigitalService     Opcode = 0x93
	OpSetDigitalTimer          Opcode = 0x97
	OpClearDigitalTimer        Opcode = 0x99
	OpSetAudioRate             Opcode = 0x9a
	OpInactiveSource           Opcode = 0x9d
	OpCECVersion               Opcode = 0x9e
	OpGetCECVersion            Opcode = 0x9f
	OpVendorCommandWithID      Opcode = 0xa0
	OpClearExtTimer            Opcode = 0xa1
	OpSetExtTimer              Opcode = 0xa2
	OpReportShortAudioDescriptor Opcode = 0xa3
	OpRequestShortAudioDescriptor Opcode = 0xa4
	OpGiveFeatures             Opcode = 0xa5
	OpReportFeatures           Opcode = 0xa6
	OpRequestCurrentLatency    Opcode = 0xa7
	OpReportCurrentLatency     Opcode = 0xa8
	OpInitiateARC              Opcode = 0xc0
	OpReportARCInitiated       Opcode = 0xc1
	OpReportARCTerminated      Opcode = 0xc2
	OpRequestARCInitiation     Opcode = 0xc3
	OpRequestARCTermination    Opcode = 0xc4
	OpTerminateARC             Opcode = 0xc5
	OpCDCMessage               Opcode = 0xf8
	OpAbort                    Opcode = 0xff
)

var opcodeNames = map[Opcode]string{
	OpFeatureAbort:              "Feature Abort",
	OpImageViewOn:               "Image View On",
	OpTunerStepIncrement:        "Tuner Step Increment",
	OpTunerStepDecrement:        "Tuner Step Decrement",
	OpTunerDeviceStatus:         "Tuner Device Status",
	OpGiveTunerDeviceStatus:     "Give Tuner Device Status",
	OpRecordOn:                  "Record On",
	OpRecordStatus:              "Record Status",
	OpRecordOff:                 "Record Off",
	OpTextViewOn:                "Text View On",
	OpRecordTVScreen:            "Record TV Screen",
	OpGiveDeckStatus:            "Give Deck Status",
	OpDeckStatus:                "Deck Status",
	OpSetMenuLanguage:           "Set Menu Language",
	OpClearAnalogueTimer:        "Clear Analogue Timer",
	OpSetAnalogueTimer:          "Set Analogue Timer",
	OpTimerStatus:               "Timer Status",
	OpStandby:                   "Standby",
	OpPlay:                      "Play",
	OpDeckControl:               "Deck Control",
	OpTimerClearedStatus:        "Timer Cleared Status",
	OpUserControlPressed:        "User Control Pressed",
	OpUserControlReleased:       "User Control Released",
	OpGiveOSDName:               "Give OSD Name",
	OpSetOSDName:                "Set OSD Name",
	OpSetOSDString:              "Set OSD String",
	OpSetTimerProgramTitle:      "Set Timer Program Title",
	OpSystemAudioModeRequest:    "System Audio Mode Request",
	OpGiveAudioStatus:           "Give Audio Status",
	OpSetSystemAudioMode:        "Set System Audio Mode",
	OpReportAudioStatus:         "Report Audio Status",
	OpGiveSystemAudioModeStatus: "Give System Audio Mode Status",
	OpSystemAudioModeStatus:     "System Audio Mode Status",
	OpRoutingChange:             "Routing Change",
	OpRoutingInformation:        "Routing Information",
	OpActiveSource:              "Active Source",
	OpGivePhysicalAddr:          "Give Physical Address",
	OpReportPhysicalAddr:        "Report Physical Address",
	OpRequestActiveSource:       "Request Active Source",
	OpSetStreamPath:             "Set Stream Path",
	OpDeviceVendorID:            "Device Vendor ID",
	OpVendorCommand:             "Vendor Command",
	OpVendorRemoteButtonDown:    "Vendor Remote Button Down",
	OpVendorRemoteButtonUp:      "Vendor Remote Button Up",
	OpGiveDeviceVendorID:        "Give Device Vendor ID",
	OpMenuRequest:               "Menu Request",
	OpMenuStatus:                "Menu Status",
	OpGiveDevicePowerStatus:     "Give Device Power Status",
	OpReportPowerStatus:         "Report Power Status",
	OpGetMenuLanguage:           "Get Menu Language",
	OpSelectAnalogueService:     "Select Analogue Service",
	OpSelectDigitalService:      "Select Digital Service",
	OpSetDigitalTimer:           "Set Digital Timer",
	OpClearDigitalTimer:         "Clear Digital Timer",
	OpSetAudioRate:              "Set Audio Rate",
	OpInactiveSource:            "Inactive Source",
	OpCECVersion:                "CEC Version",
	OpGetCECVersion:             "Get CEC Version",
	OpVendorCommandWithID:       "Vendor Command With ID",
	OpClearExtTimer:             "Clear External Timer",
	OpSetExtTimer:               "Set External Timer",
	OpReportShortAudioDescriptor:  "Report Short Audio Descriptor",
	OpRequestShortAudioDescriptor: "Request Short Audio Descriptor",
	OpGiveFeatures:              "Give Features",
	OpReportFeatures:            "Report Features",
	OpRequestCurrentLatency:     "Request Current Latency",
	OpReportCurrentLatency:      "Report Current Latency",
	OpInitiateARC:               "Initiate ARC",
	OpReportARCInitiated:        "Report ARC Initiated",
	OpReportARCTerminated:       "Report ARC Terminated",
	OpRequestARCInitiation:      "Request ARC Initiation",
	OpRequestARCTermination:     "Request ARC Termination",
	OpTerminateARC:              "Terminate ARC",
	OpCDCMessage:                "CDC Message",
	OpAbort:                     "Abort",
}

func (o Opcode) String() string {
	if s, ok := opcodeNames[o]; ok {
		return s
	}
	return fmt.Sprintf("Opcode 0x%02x", uint8(o))
}
