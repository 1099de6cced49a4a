package conformance

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cectools/cecomply/internal/cec"
)

// Tag selects feature groups on the command line. A feature carries one
// primary tag and optionally TagInteractive when some of its subtests
// need an operator.
type Tag uint32

const (
	TagCore Tag = 1 << iota
	TagPowerStatus
	TagSystemInformation
	TagVendorCommands
	TagOSDTransfer
	TagOSDString
	TagRCPassthrough
	TagMenuControl
	TagDeckControl
	TagTunerControl
	TagOneTouchRecord
	TagTimerProgramming
	TagCDC
	TagLipsync
	TagAudioRate
	TagSystemAudioControl
	TagARC
	TagRoutingControl
	TagStandbyResume
	TagInteractive

	TagAll Tag = 1<<iota - 1
)

var tagNames = map[string]Tag{
	"core":                TagCore,
	"power-status":        TagPowerStatus,
	"system-information":  TagSystemInformation,
	"vendor-commands":     TagVendorCommands,
	"osd-transfer":        TagOSDTransfer,
	"osd-string":          TagOSDString,
	"rc-passthrough":      TagRCPassthrough,
	"menu-control":        TagMenuControl,
	"deck-control":        TagDeckControl,
	"tuner-control":       TagTunerControl,
	"one-touch-record":    TagOneTouchRecord,
	"timer-programming":   TagTimerProgramming,
	"cdc":                 TagCDC,
	"lipsync":             TagLipsync,
	"audio-rate":          TagAudioRate,
	"system-audio":        TagSystemAudioControl,
	"arc":                 TagARC,
	"routing-control":     TagRoutingControl,
	"standby-resume":      TagStandbyResume,
	"interactive":         TagInteractive,
}

// ParseTags turns a comma-separated tag list into a mask.
func ParseTags(s string) (Tag, error) {
	var tags Tag
	for _, name := range strings.Split(s, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		t, ok := tagNames[name]
		if !ok {
			return 0, fmt.Errorf("unknown tag %q (known: %s)", name, strings.Join(TagNames(), ", "))
		}
		tags |= t
	}
	return tags, nil
}

// TagNames lists every known tag name, sorted.
func TagNames() []string {
	names := make([]string, 0, len(tagNames))
	for name := range tagNames {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// String returns the comma-joined names of the tags set in t.
func (t Tag) String() string {
	var names []string
	for _, name := range TagNames() {
		if tag := tagNames[name]; t&tag == tag {
			names = append(names, name)
		}
	}
	return strings.Join(names, ",")
}

// Subtest is one conformance check against a remote device.
type Subtest struct {
	Name string

	// LAMask holds the logical addresses this subtest is written for.
	// Running it against an address outside the mask escalates a
	// passing outcome to Unexpected.
	LAMask uint16

	// ForCEC20 limits the subtest to remotes that announced CEC 2.0.
	ForCEC20 bool

	// InStandby runs the subtest while the remote is in standby.
	InStandby bool

	Run func(n *Node, me, la cec.LogicalAddr, interactive bool) (Outcome, error)
}

// Feature is an ordered group of subtests sharing a tag.
type Feature struct {
	Name     string
	Tag      Tag
	Subtests []Subtest
}
