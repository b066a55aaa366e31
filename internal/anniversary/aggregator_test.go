package anniversary

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestAggregateFullSet(t *testing.T) {
	start := date(2024, time.January, 1)
	me := Member{ID: uuid.New(), Nickname: "dana", BirthDate: ptr(date(1995, time.March, 5))}
	partner := Member{ID: uuid.New(), Nickname: "sam", BirthDate: ptr(date(1994, time.August, 20))}
	profile := Profile{StartDate: &start, Members: []Member{me, partner}}

	set, err := Aggregate(profile, me.ID, date(2024, time.January, 1), date(2025, time.December, 31))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Interval anniversaries are capped at the 300th day even though the
	// range would hold more.
	if len(set.IntervalDays) != 3 {
		t.Fatalf("got %d interval occurrences, want 3: %+v", len(set.IntervalDays), set.IntervalDays)
	}
	for i, occ := range set.IntervalDays {
		wantNth := (i + 1) * CoupleIntervalDays
		if occ.Nth != wantNth {
			t.Errorf("interval occurrence %d nth = %d, want %d", i, occ.Nth, wantNth)
		}
	}
	if set.IntervalDays[0].Label != "100 days" {
		t.Errorf("interval label = %q, want %q", set.IntervalDays[0].Label, "100 days")
	}

	if len(set.Yearly) != 1 {
		t.Fatalf("got %d yearly occurrences, want 1: %+v", len(set.Yearly), set.Yearly)
	}
	if set.Yearly[0].Label != "1st anniversary" {
		t.Errorf("yearly label = %q, want %q", set.Yearly[0].Label, "1st anniversary")
	}

	if len(set.MyBirthdays) != 2 {
		t.Fatalf("got %d my-birthday occurrences, want 2: %+v", len(set.MyBirthdays), set.MyBirthdays)
	}
	if set.MyBirthdays[0].Type != TypeBirthday || set.MyBirthdays[0].Label != "My birthday" {
		t.Errorf("my birthday = (%s, %q), want (BIRTHDAY, \"My birthday\")",
			set.MyBirthdays[0].Type, set.MyBirthdays[0].Label)
	}

	if len(set.PartnerBirthdays) != 2 {
		t.Fatalf("got %d partner-birthday occurrences, want 2: %+v", len(set.PartnerBirthdays), set.PartnerBirthdays)
	}
	if set.PartnerBirthdays[0].Label != "sam's birthday" {
		t.Errorf("partner birthday label = %q, want %q", set.PartnerBirthdays[0].Label, "sam's birthday")
	}
}

func TestAggregatePerspectiveFollowsRequester(t *testing.T) {
	start := date(2024, time.January, 1)
	a := Member{ID: uuid.New(), Nickname: "a", BirthDate: ptr(date(1995, time.March, 5))}
	b := Member{ID: uuid.New(), Nickname: "b", BirthDate: ptr(date(1994, time.August, 20))}
	profile := Profile{StartDate: &start, Members: []Member{a, b}}

	set, err := Aggregate(profile, b.ID, date(2025, time.January, 1), date(2025, time.December, 31))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(set.MyBirthdays) != 1 || !set.MyBirthdays[0].Date.Equal(date(2025, time.August, 20)) {
		t.Errorf("requester b: my birthdays = %+v, want one on 2025-08-20", set.MyBirthdays)
	}
	if len(set.PartnerBirthdays) != 1 || !set.PartnerBirthdays[0].Date.Equal(date(2025, time.March, 5)) {
		t.Errorf("requester b: partner birthdays = %+v, want one on 2025-03-05", set.PartnerBirthdays)
	}
}

func TestAggregateAbsentDatesYieldEmptyLists(t *testing.T) {
	me := Member{ID: uuid.New(), Nickname: "dana"}
	profile := Profile{Members: []Member{me}}

	set, err := Aggregate(profile, me.ID, date(2025, time.January, 1), date(2025, time.December, 31))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(set.IntervalDays) != 0 || len(set.Yearly) != 0 || len(set.MyBirthdays) != 0 || len(set.PartnerBirthdays) != 0 {
		t.Fatalf("expected empty set, got %+v", set)
	}
}

func TestOnDate(t *testing.T) {
	start := date(2024, time.June, 1)

	// Day 100 falls on start + 99.
	day100 := start.AddDate(0, 0, 99)
	occs := OnDate(start, day100)
	if len(occs) != 1 || occs[0].Type != TypeIntervalDay || occs[0].Nth != 100 {
		t.Fatalf("day 100: got %+v, want one interval occurrence with nth 100", occs)
	}

	// First yearly anniversary.
	occs = OnDate(start, date(2025, time.June, 1))
	if len(occs) != 1 || occs[0].Type != TypeYearly || occs[0].Nth != 1 {
		t.Fatalf("first anniversary: got %+v, want one yearly occurrence with nth 1", occs)
	}

	// Beyond the interval cap nothing interval-flavored comes back.
	day400 := start.AddDate(0, 0, 399)
	for _, occ := range OnDate(start, day400) {
		if occ.Type == TypeIntervalDay {
			t.Fatalf("day 400: interval occurrence past cap: %+v", occ)
		}
	}

	// An ordinary day yields nothing.
	if occs := OnDate(start, start.AddDate(0, 0, 42)); len(occs) != 0 {
		t.Fatalf("plain day: got %+v, want none", occs)
	}
}

func ptr(t time.Time) *time.Time { return &t }
