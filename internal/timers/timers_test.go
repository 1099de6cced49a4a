package timers

import "testing"

func ivl(day, month, sh, sm, dh, dm uint8) Interval {
	return Interval{Day: day, Month: month, StartHr: sh, StartMin: sm, DurHr: dh, DurMin: dm}
}

func TestValidateRejectsDegenerateInputs(t *testing.T) {
	cases := []struct {
		name string
		iv   Interval
	}{
		{"month zero", ivl(5, 0, 6, 0, 1, 0)},
		{"month thirteen", ivl(5, 13, 6, 0, 1, 0)},
		{"day zero", ivl(0, 1, 6, 0, 1, 0)},
		{"november 31", ivl(31, 11, 6, 0, 1, 0)},
		{"december 32", ivl(32, 12, 6, 0, 1, 0)},
		{"hour 24", ivl(5, 8, 24, 0, 1, 0)},
		{"minute 60", ivl(5, 8, 0, 60, 1, 0)},
		{"zero duration", ivl(5, 8, 6, 0, 0, 0)},
		{"rec seq high bit", Interval{Day: 5, Month: 8, StartHr: 6, DurHr: 1, RecSeq: 0xff}},
	}
	for _, tc := range cases {
		if err := tc.iv.Validate(2026); err == nil {
			t.Errorf("%s: expected validation error for %v", tc.name, tc.iv)
		}
	}

	good := ivl(5, 8, 6, 0, 1, 0)
	if err := good.Validate(2026); err != nil {
		t.Errorf("valid interval rejected: %v", err)
	}
	weekly := Interval{Day: 5, Month: 8, StartHr: 6, DurHr: 1, RecSeq: 0x7f}
	if err := weekly.Validate(2026); err != nil {
		t.Errorf("valid weekly interval rejected: %v", err)
	}
}

func TestValidateFebruary29(t *testing.T) {
	feb29 := ivl(29, 2, 6, 0, 1, 0)
	feb30 := ivl(30, 2, 6, 0, 1, 0)

	// 2028 is a leap year, 2026 is not, 2100 is not (century rule),
	// 2000 is (divisible by 400).
	for _, year := range []int{2028, 2000} {
		if err := feb29.Validate(year); err != nil {
			t.Errorf("Feb 29 rejected in leap year %d: %v", year, err)
		}
		if err := feb30.Validate(year); err == nil {
			t.Errorf("Feb 30 accepted in leap year %d", year)
		}
	}
	for _, year := range []int{2026, 2100} {
		if err := feb29.Validate(year); err == nil {
			t.Errorf("Feb 29 accepted in non-leap year %d", year)
		}
	}
}

func TestOverlapBoundaries(t *testing.T) {
	base := ivl(5, 8, 8, 0, 2, 0) // Aug 5, 08:00-10:00

	cases := []struct {
		name    string
		iv      Interval
		overlap bool
	}{
		{"interior", ivl(5, 8, 9, 30, 0, 30), true},
		{"adjacent after", ivl(5, 8, 10, 0, 0, 15), false},
		{"adjacent before", ivl(5, 8, 7, 45, 0, 15), false},
		{"tail end", ivl(5, 8, 9, 0, 2, 0), true},
		{"front end", ivl(5, 8, 7, 0, 1, 30), true},
		{"same start", ivl(5, 8, 8, 0, 0, 30), true},
		{"same end", ivl(5, 8, 9, 30, 0, 30), true},
		{"containing", ivl(5, 8, 6, 0, 6, 0), true},
		{"different day", ivl(6, 8, 8, 0, 2, 0), false},
		{"different month", ivl(5, 9, 8, 0, 2, 0), false},
	}
	for _, tc := range cases {
		if got := base.Overlaps(tc.iv, 2026); got != tc.overlap {
			t.Errorf("%s: Overlaps(%v, %v) = %v, want %v", tc.name, base, tc.iv, got, tc.overlap)
		}
		// Overlap is symmetric.
		if got := tc.iv.Overlaps(base, 2026); got != tc.overlap {
			t.Errorf("%s: overlap not symmetric", tc.name)
		}
	}
}

func TestOverlapAcrossMidnightAndMonthEnd(t *testing.T) {
	// Aug 31, 23:00 for 2h runs into Sep 1 00:00-01:00.
	late := ivl(31, 8, 23, 0, 2, 0)
	sep1 := ivl(1, 9, 0, 30, 0, 15)
	if !late.Overlaps(sep1, 2026) {
		t.Error("recording crossing the month boundary should overlap the next day's slot")
	}
	sep1After := ivl(1, 9, 1, 0, 1, 0)
	if late.Overlaps(sep1After, 2026) {
		t.Error("adjacency across the month boundary must not overlap")
	}
}

func TestScheduleProposeOrder(t *testing.T) {
	s := NewSchedule(2026)

	if disp, err := s.Propose(ivl(5, 8, 8, 0, 2, 0)); disp != Accepted || err != nil {
		t.Fatalf("first interval: got %v, %v", disp, err)
	}
	// Duplicate beats overlap: the same slot must be reported as a
	// duplicate, not as an overlap.
	if disp, _ := s.Propose(ivl(5, 8, 8, 0, 2, 0)); disp != RejectedDuplicate {
		t.Errorf("resubmission: got %v, want RejectedDuplicate", disp)
	}
	// Invalid beats duplicate and overlap.
	if disp, _ := s.Propose(ivl(5, 13, 8, 0, 2, 0)); disp != RejectedInvalid {
		t.Errorf("invalid month: got %v, want RejectedInvalid", disp)
	}
	// Interior overlap.
	if disp, err := s.Propose(ivl(5, 8, 9, 30, 0, 30)); disp != AcceptedOverlap || err != nil {
		t.Errorf("interior slot: got %v, %v, want AcceptedOverlap", disp, err)
	}
	// Exact adjacency.
	if disp, err := s.Propose(ivl(5, 8, 10, 0, 0, 15)); disp != Accepted || err != nil {
		t.Errorf("adjacent slot: got %v, %v, want Accepted", disp, err)
	}
	if s.Len() != 3 {
		t.Errorf("schedule length = %d, want 3", s.Len())
	}
}

func TestScheduleClear(t *testing.T) {
	s := NewSchedule(2026)
	iv := ivl(5, 8, 8, 0, 2, 0)
	if _, err := s.Propose(iv); err != nil {
		t.Fatal(err)
	}
	if !s.Clear(iv) {
		t.Fatal("Clear did not find the scheduled interval")
	}
	if s.Clear(iv) {
		t.Error("second Clear should report no match")
	}
	// Cleared intervals no longer count as duplicates.
	if disp, err := s.Propose(iv); disp != Accepted || err != nil {
		t.Errorf("re-propose after clear: got %v, %v, want Accepted", disp, err)
	}
}
