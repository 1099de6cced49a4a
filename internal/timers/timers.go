// Package timers models the timer-programming scheduling rules: input
// validation of a proposed recording interval, duplicate detection, and
// the overlap test a compliant device must apply before setting its
// overlap-warning indicator.
package timers

import "fmt"

// Interval is one proposed recording slot, in the operand ranges the
// timer commands carry: day/month of start plus a start time and a
// duration. RecSeq is the recording sequence operand: 0 for a one-off
// recording, otherwise a Sunday..Saturday day bitmask (max 0x7f).
type Interval struct {
	Day      uint8
	Month    uint8
	StartHr  uint8
	StartMin uint8
	DurHr    uint8
	DurMin   uint8
	RecSeq   uint8
}

func (iv Interval) String() string {
	return fmt.Sprintf("%02d/%02d %02d:%02d+%d:%02d", iv.Day, iv.Month,
		iv.StartHr, iv.StartMin, iv.DurHr, iv.DurMin)
}

// IsLeapYear applies the Gregorian rule.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

var monthDays = [13]int{0, 31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// DaysInMonth returns the number of days in month for year, or 0 for an
// invalid month.
func DaysInMonth(month uint8, year int) int {
	if month < 1 || month > 12 {
		return 0
	}
	if month == 2 && IsLeapYear(year) {
		return 29
	}
	return monthDays[month]
}

// Validate classifies degenerate inputs. Year is the year the interval
// would be scheduled in; it only matters for February 29.
func (iv Interval) Validate(year int) error {
	if iv.Month < 1 || iv.Month > 12 {
		return fmt.Errorf("invalid month %d", iv.Month)
	}
	if iv.Day < 1 || int(iv.Day) > DaysInMonth(iv.Month, year) {
		return fmt.Errorf("invalid day %d for month %d", iv.Day, iv.Month)
	}
	if iv.StartHr > 23 {
		return fmt.Errorf("invalid start hour %d", iv.StartHr)
	}
	if iv.StartMin > 59 {
		return fmt.Errorf("invalid start minute %d", iv.StartMin)
	}
	if iv.DurHr == 0 && iv.DurMin == 0 {
		return fmt.Errorf("zero-length duration")
	}
	if iv.RecSeq > 0x7f {
		return fmt.Errorf("invalid recording sequence 0x%02x", iv.RecSeq)
	}
	return nil
}

// start returns the interval's start as minutes from the beginning of
// the scheduling year. The caller has already validated the fields.
func (iv Interval) start(year int) int {
	days := int(iv.Day) - 1
	for m := uint8(1); m < iv.Month; m++ {
		days += DaysInMonth(m, year)
	}
	return days*24*60 + int(iv.StartHr)*60 + int(iv.StartMin)
}

// duration returns the interval's length in minutes.
func (iv Interval) duration() int {
	return int(iv.DurHr)*60 + int(iv.DurMin)
}

// Overlaps applies the half-open interval intersection on the linear
// minute axis: touching endpoints do not overlap, a shared start or a
// shared end does. A recording running past the end of the year keeps
// extending on the linear axis, so a December 31 recording still
// collides with nothing in January; recurrence masks are not expanded.
func (iv Interval) Overlaps(other Interval, year int) bool {
	aStart, bStart := iv.start(year), other.start(year)
	aEnd, bEnd := aStart+iv.duration(), bStart+other.duration()
	return aStart < bEnd && bStart < aEnd
}

// sameSlot reports whether two intervals describe the identical
// day/month/start/duration slot, ignoring the recording sequence.
func sameSlot(a, b Interval) bool {
	return a.Day == b.Day && a.Month == b.Month &&
		a.StartHr == b.StartHr && a.StartMin == b.StartMin &&
		a.DurHr == b.DurHr && a.DurMin == b.DurMin
}

// Disposition classifies the outcome of proposing an interval.
type Disposition int

const (
	// Accepted: valid, no conflict with anything scheduled.
	Accepted Disposition = iota
	// AcceptedOverlap: valid and scheduled, but the device must set
	// its overlap-warning indicator.
	AcceptedOverlap
	// RejectedInvalid: a protocol-level input error; the command must
	// be rejected outright, never reported as an overlap.
	RejectedInvalid
	// RejectedDuplicate: the exact slot is already scheduled.
	RejectedDuplicate
)

func (d Disposition) String() string {
	switch d {
	case Accepted:
		return "accepted"
	case AcceptedOverlap:
		return "accepted with overlap warning"
	case RejectedInvalid:
		return "rejected: invalid interval"
	case RejectedDuplicate:
		return "rejected: duplicate timer"
	default:
		return "unknown"
	}
}

// Schedule tracks the intervals accepted so far for one device.
type Schedule struct {
	Year int
	set  []Interval
}

// NewSchedule returns an empty schedule for the given target year.
func NewSchedule(year int) *Schedule {
	return &Schedule{Year: year}
}

// Propose evaluates an interval: input validity first, then duplicate
// detection, then overlap against everything scheduled. Valid intervals
// (including overlapping ones) are added to the schedule.
func (s *Schedule) Propose(iv Interval) (Disposition, error) {
	if err := iv.Validate(s.Year); err != nil {
		return RejectedInvalid, err
	}
	for _, have := range s.set {
		if sameSlot(iv, have) {
			return RejectedDuplicate, fmt.Errorf("duplicate timer %s", iv)
		}
	}
	disp := Accepted
	for _, have := range s.set {
		if iv.Overlaps(have, s.Year) {
			disp = AcceptedOverlap
			break
		}
	}
	s.set = append(s.set, iv)
	return disp, nil
}

// Clear removes the exact interval and reports whether it was
// scheduled. A cleared interval no longer participates in duplicate or
// overlap checks.
func (s *Schedule) Clear(iv Interval) bool {
	for i, have := range s.set {
		if have == iv {
			s.set = append(s.set[:i], s.set[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of scheduled intervals.
func (s *Schedule) Len() int { return len(s.set) }
