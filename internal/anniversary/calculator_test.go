package anniversary

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestFindIntervalAnniversariesDailyInterval(t *testing.T) {
	target := date(2025, time.January, 1)
	got, err := FindIntervalAnniversaries(target, target, target.AddDate(0, 0, 2), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d occurrences, want 3", len(got))
	}
	for i, occ := range got {
		wantDate := target.AddDate(0, 0, i)
		if !occ.Date.Equal(wantDate) {
			t.Errorf("occurrence %d date = %v, want %v", i, occ.Date, wantDate)
		}
		if occ.Nth != i+1 {
			t.Errorf("occurrence %d nth = %d, want %d", i, occ.Nth, i+1)
		}
		if occ.Type != TypeIntervalDay {
			t.Errorf("occurrence %d type = %s, want %s", i, occ.Type, TypeIntervalDay)
		}
	}
}

func TestFindIntervalAnniversariesTwentyDayInterval(t *testing.T) {
	got, err := FindIntervalAnniversaries(
		date(2025, time.January, 10),
		date(2025, time.January, 1),
		date(2025, time.March, 1),
		20,
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []struct {
		date time.Time
		nth  int
	}{
		{date(2025, time.January, 29), 20},
		{date(2025, time.February, 18), 40},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d occurrences, want %d: %+v", len(got), len(want), got)
	}
	for i, w := range want {
		if !got[i].Date.Equal(w.date) || got[i].Nth != w.nth {
			t.Errorf("occurrence %d = (%v, %d), want (%v, %d)", i, got[i].Date, got[i].Nth, w.date, w.nth)
		}
	}
}

func TestFindIntervalAnniversariesStartInsideRange(t *testing.T) {
	// Window opens between anniversaries: the first in-range index must not
	// skip ahead.
	got, err := FindIntervalAnniversaries(
		date(2025, time.January, 10),
		date(2025, time.February, 1),
		date(2025, time.March, 1),
		20,
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d occurrences, want 1: %+v", len(got), got)
	}
	if !got[0].Date.Equal(date(2025, time.February, 18)) || got[0].Nth != 40 {
		t.Errorf("got (%v, %d), want (2025-02-18, 40)", got[0].Date, got[0].Nth)
	}
}

func TestFindIntervalAnniversariesEmptyRanges(t *testing.T) {
	target := date(2025, time.June, 15)
	cases := []struct {
		name       string
		start, end time.Time
	}{
		{"start_after_end", date(2025, time.July, 1), date(2025, time.June, 1)},
		{"end_before_target", date(2025, time.January, 1), date(2025, time.June, 14)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := FindIntervalAnniversaries(target, tc.start, tc.end, 100)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != 0 {
				t.Fatalf("got %d occurrences, want 0", len(got))
			}
		})
	}
}

func TestFindIntervalAnniversariesRejectsBadInterval(t *testing.T) {
	target := date(2025, time.June, 15)
	for _, interval := range []int{0, -5} {
		if _, err := FindIntervalAnniversaries(target, target, target, interval); err == nil {
			t.Errorf("interval %d: expected error, got nil", interval)
		}
	}
}

func TestFindYearlyAnniversariesLeapTargetDefaultAdjust(t *testing.T) {
	target := date(2024, time.February, 29)
	got := FindYearlyAnniversaries(target, target, target.AddDate(4, 0, 0), &Feb28)

	want := []struct {
		date     time.Time
		nth      int
		adjusted bool
	}{
		{date(2025, time.February, 28), 1, true},
		{date(2026, time.February, 28), 2, true},
		{date(2027, time.February, 28), 3, true},
		{date(2028, time.February, 29), 4, false},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d occurrences, want %d: %+v", len(got), len(want), got)
	}
	for i, w := range want {
		occ := got[i]
		if !occ.Date.Equal(w.date) || occ.Nth != w.nth || occ.LeapAdjusted != w.adjusted {
			t.Errorf("occurrence %d = (%v, %d, adjusted=%v), want (%v, %d, adjusted=%v)",
				i, occ.Date, occ.Nth, occ.LeapAdjusted, w.date, w.nth, w.adjusted)
		}
	}
}

func TestFindYearlyAnniversariesLeapTargetNilAdjustSkips(t *testing.T) {
	target := date(2024, time.February, 29)
	got := FindYearlyAnniversaries(target, target, target.AddDate(4, 0, 0), nil)

	if len(got) != 1 {
		t.Fatalf("got %d occurrences, want 1: %+v", len(got), got)
	}
	if !got[0].Date.Equal(date(2028, time.February, 29)) || got[0].Nth != 4 || got[0].LeapAdjusted {
		t.Errorf("got (%v, %d, adjusted=%v), want (2028-02-29, 4, adjusted=false)",
			got[0].Date, got[0].Nth, got[0].LeapAdjusted)
	}
}

func TestFindYearlyAnniversariesFeb29AdjustSelfCorrects(t *testing.T) {
	target := date(2024, time.February, 29)
	adjust := MonthDay{Month: time.February, Day: 29}
	got := FindYearlyAnniversaries(target, target, date(2025, time.December, 31), &adjust)

	if len(got) != 1 {
		t.Fatalf("got %d occurrences, want 1: %+v", len(got), got)
	}
	if !got[0].Date.Equal(date(2025, time.February, 28)) || !got[0].LeapAdjusted {
		t.Errorf("got (%v, adjusted=%v), want (2025-02-28, adjusted=true)", got[0].Date, got[0].LeapAdjusted)
	}
}

func TestFindYearlyAnniversariesPlainTarget(t *testing.T) {
	target := date(2023, time.May, 10)
	got := FindYearlyAnniversaries(target, date(2024, time.January, 1), date(2026, time.December, 31), &Feb28)

	if len(got) != 3 {
		t.Fatalf("got %d occurrences, want 3: %+v", len(got), got)
	}
	for i, occ := range got {
		wantYear := 2024 + i
		if occ.Date.Year() != wantYear || occ.Date.Month() != time.May || occ.Date.Day() != 10 {
			t.Errorf("occurrence %d date = %v, want %d-05-10", i, occ.Date, wantYear)
		}
		if occ.Nth != i+1 {
			t.Errorf("occurrence %d nth = %d, want %d", i, occ.Nth, i+1)
		}
		if occ.LeapAdjusted {
			t.Errorf("occurrence %d unexpectedly leap-adjusted", i)
		}
	}
}

func TestFindYearlyAnniversariesEmptyRanges(t *testing.T) {
	target := date(2020, time.March, 1)
	if got := FindYearlyAnniversaries(target, date(2025, time.July, 1), date(2025, time.June, 1), &Feb28); len(got) != 0 {
		t.Fatalf("start after end: got %d occurrences, want 0", len(got))
	}
	if got := FindYearlyAnniversaries(target, date(2019, time.January, 1), date(2020, time.February, 1), &Feb28); len(got) != 0 {
		t.Fatalf("end before target: got %d occurrences, want 0", len(got))
	}
}

func TestFindYearlyAnniversariesExcludesTargetYear(t *testing.T) {
	target := date(2023, time.May, 10)
	got := FindYearlyAnniversaries(target, target, date(2023, time.December, 31), &Feb28)
	if len(got) != 0 {
		t.Fatalf("got %d occurrences, want 0 (target year itself is not an anniversary)", len(got))
	}
}
