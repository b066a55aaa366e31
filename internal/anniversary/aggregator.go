package anniversary

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	// CoupleIntervalDays is the spacing of interval-day anniversaries.
	CoupleIntervalDays = 100
	// MaxIntervalOrdinal caps interval-day anniversaries at the 300th day.
	MaxIntervalOrdinal = 300
)

// Member is the slice of a couple member the aggregator needs.
type Member struct {
	ID        uuid.UUID
	Nickname  string
	BirthDate *time.Time
}

// Profile is the couple data anniversaries are computed from.
type Profile struct {
	StartDate *time.Time
	Members   []Member
}

// Set holds every anniversary occurrence for one couple over one date range,
// with birthdays split by perspective relative to the requester.
type Set struct {
	IntervalDays     []Occurrence
	Yearly           []Occurrence
	MyBirthdays      []Occurrence
	PartnerBirthdays []Occurrence
}

// Aggregate computes the full anniversary set for a couple. Absent dates
// (no start date yet, member without a birth date) yield empty sub-lists.
func Aggregate(profile Profile, requesterID uuid.UUID, start, end time.Time) (Set, error) {
	var set Set

	if profile.StartDate != nil {
		intervals, err := FindIntervalAnniversaries(*profile.StartDate, start, end, CoupleIntervalDays)
		if err != nil {
			return Set{}, err
		}
		for _, occ := range intervals {
			if occ.Nth > MaxIntervalOrdinal {
				break
			}
			occ.Label = fmt.Sprintf("%d days", occ.Nth)
			set.IntervalDays = append(set.IntervalDays, occ)
		}

		yearly := FindYearlyAnniversaries(*profile.StartDate, start, end, &Feb28)
		for _, occ := range yearly {
			occ.Label = fmt.Sprintf("%s anniversary", ordinal(occ.Nth))
			set.Yearly = append(set.Yearly, occ)
		}
	}

	for _, member := range profile.Members {
		if member.BirthDate == nil {
			continue
		}
		for _, occ := range FindYearlyAnniversaries(*member.BirthDate, start, end, &Feb28) {
			occ.Type = TypeBirthday
			if member.ID == requesterID {
				occ.Label = "My birthday"
				set.MyBirthdays = append(set.MyBirthdays, occ)
			} else {
				occ.Label = fmt.Sprintf("%s's birthday", member.Nickname)
				set.PartnerBirthdays = append(set.PartnerBirthdays, occ)
			}
		}
	}

	return set, nil
}

// OnDate returns the couple anniversaries (interval-day up to the cap, plus
// yearly) that fall exactly on the given day. The change handler and the
// daily scheduler both key off this.
func OnDate(startDate, day time.Time) []Occurrence {
	day = DateOf(day)

	var out []Occurrence
	intervals, err := FindIntervalAnniversaries(startDate, day, day, CoupleIntervalDays)
	if err == nil {
		for _, occ := range intervals {
			if occ.Nth > MaxIntervalOrdinal {
				continue
			}
			occ.Label = fmt.Sprintf("%d days", occ.Nth)
			out = append(out, occ)
		}
	}
	for _, occ := range FindYearlyAnniversaries(startDate, day, day, &Feb28) {
		occ.Label = fmt.Sprintf("%s anniversary", ordinal(occ.Nth))
		out = append(out, occ)
	}
	return out
}

func ordinal(n int) string {
	suffix := "th"
	switch {
	case n%100 >= 11 && n%100 <= 13:
	case n%10 == 1:
		suffix = "st"
	case n%10 == 2:
		suffix = "nd"
	case n%10 == 3:
		suffix = "rd"
	}
	return fmt.Sprintf("%d%s", n, suffix)
}
