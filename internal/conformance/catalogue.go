package conformance

// Catalogue returns every feature group in run order. The order
// matters: discovery results feed later groups, and the post-test scan
// must come last.
func Catalogue() []Feature {
	return []Feature{
		{Name: "Core", Tag: TagCore, Subtests: coreSubtests},
		{Name: "Give Device Power Status feature", Tag: TagPowerStatus, Subtests: powerStatusSubtests},
		{Name: "System Information feature", Tag: TagSystemInformation, Subtests: sysInfoSubtests},
		{Name: "Vendor Specific Commands feature", Tag: TagVendorCommands, Subtests: vendorSubtests},
		{Name: "Device OSD Transfer feature", Tag: TagOSDTransfer, Subtests: osdTransferSubtests},
		{Name: "OSD String feature", Tag: TagOSDString, Subtests: osdStringSubtests},
		{Name: "Remote Control Passthrough feature", Tag: TagRCPassthrough, Subtests: rcPassthroughSubtests},
		{Name: "Device Menu Control feature", Tag: TagMenuControl, Subtests: menuCtlSubtests},
		{Name: "Deck Control feature", Tag: TagDeckControl, Subtests: deckCtlSubtests},
		{Name: "Tuner Control feature", Tag: TagTunerControl, Subtests: tunerCtlSubtests},
		{Name: "One Touch Record feature", Tag: TagOneTouchRecord, Subtests: oneTouchRecSubtests},
		{Name: "Timer Programming feature", Tag: TagTimerProgramming, Subtests: timerProgSubtests},
		{Name: "Capability Discovery and Control feature", Tag: TagCDC, Subtests: cdcSubtests},
		{Name: "Dynamic Auto Lipsync feature", Tag: TagLipsync, Subtests: dalSubtests},
		{Name: "Audio Return Channel feature", Tag: TagARC, Subtests: arcSubtests},
		{Name: "System Audio Control feature", Tag: TagSystemAudioControl, Subtests: sacSubtests},
		{Name: "Audio Rate Control feature", Tag: TagAudioRate, Subtests: audioRateSubtests},
		{Name: "Routing Control feature", Tag: TagRoutingControl, Subtests: routingSubtests},
		{Name: "Standby/Resume and Power Status", Tag: TagPowerStatus | TagStandbyResume, Subtests: standbyResumeSubtests},
		{Name: "Post-test checks", Tag: TagCore, Subtests: postTestSubtests},
	}
}
