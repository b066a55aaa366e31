package anniversary

import (
	"time"

	"github.com/whatever-x/couple-backend/internal/apperr"
)

type Type string

const (
	TypeIntervalDay Type = "INTERVAL_DAY"
	TypeYearly      Type = "YEARLY"
	TypeBirthday    Type = "BIRTHDAY"
)

// AllTypes lists every anniversary type the dispatch table must cover.
var AllTypes = []Type{TypeIntervalDay, TypeYearly, TypeBirthday}

// Occurrence is a concrete calendar date marking the Nth interval, year or
// birthday since a reference date. Value-typed, never persisted.
type Occurrence struct {
	Date         time.Time
	Nth          int
	Type         Type
	Label        string
	LeapAdjusted bool
}

// MonthDay is a calendar day without a year, used for the Feb-29 substitute.
type MonthDay struct {
	Month time.Month
	Day   int
}

// Feb28 is the default substitute for a Feb-29 anniversary in non-leap years.
var Feb28 = MonthDay{Month: time.February, Day: 28}

// DateOf truncates t to a UTC calendar date. All calculator arithmetic runs
// on UTC midnights so day counting is immune to zone and DST offsets.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}

// FindIntervalAnniversaries enumerates interval-day anniversaries of target
// inside [start, end]. The target date itself counts as day 1, so the k-th
// anniversary falls on target + (k*interval - 1) days and carries
// Nth = k*interval. The convention is 1-based on purpose; do not shift it.
// No leap-year correction is applied, even for interval 365.
func FindIntervalAnniversaries(target, start, end time.Time, interval int) ([]Occurrence, error) {
	if interval <= 0 {
		return nil, apperr.New(apperr.KindInvalidArgument, "INVALID_INTERVAL", "interval must be positive")
	}
	target, start, end = DateOf(target), DateOf(start), DateOf(end)
	if start.After(end) || end.Before(target) {
		return nil, nil
	}

	lower := start
	if lower.Before(target) {
		lower = target
	}
	firstK := daysBetween(target, lower)/interval + 1
	lastK := (daysBetween(target, end) + 1) / interval

	var out []Occurrence
	for k := firstK; k <= lastK; k++ {
		out = append(out, Occurrence{
			Date: target.AddDate(0, 0, k*interval-1),
			Nth:  k * interval,
			Type: TypeIntervalDay,
		})
	}
	return out, nil
}

// FindYearlyAnniversaries enumerates yearly anniversaries of target inside
// [start, end], starting from the year after the target year. Nth is the
// number of elapsed years.
//
// When target is Feb-29 and the candidate year is not a leap year, the
// occurrence is moved to feb29Adjust and marked LeapAdjusted. A nil
// feb29Adjust skips such years entirely. Passing Feb-29 as the adjustment
// is self-correcting: it is forced back to Feb-28.
func FindYearlyAnniversaries(target, start, end time.Time, feb29Adjust *MonthDay) []Occurrence {
	target, start, end = DateOf(target), DateOf(start), DateOf(end)
	if start.After(end) || end.Before(target) {
		return nil
	}

	firstYear := target.Year() + 1
	if start.Year() > firstYear {
		firstYear = start.Year()
	}

	var out []Occurrence
	for year := firstYear; year <= end.Year(); year++ {
		month, day := target.Month(), target.Day()
		adjusted := false
		if month == time.February && day == 29 && !isLeapYear(year) {
			if feb29Adjust == nil {
				continue
			}
			adj := *feb29Adjust
			if adj.Month == time.February && adj.Day == 29 {
				adj = Feb28
			}
			month, day = adj.Month, adj.Day
			adjusted = true
		}
		candidate := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
		if candidate.Before(start) || candidate.After(end) {
			continue
		}
		out = append(out, Occurrence{
			Date:         candidate,
			Nth:          year - target.Year(),
			Type:         TypeYearly,
			LeapAdjusted: adjusted,
		})
	}
	return out
}

func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}
