// Package schedule implements the pure calendar arithmetic behind recurring
// sessions: deciding whether a student has an occurrence on a given date and
// finding the next occurrence after a reference date. It owns no state; the
// holiday set is always supplied by the caller.
package schedule

import (
	"sort"
	"time"

	"github.com/gaanavykhari/studio-api/internal/models"
)

// holidaySkipLimit bounds the forward search when consecutive computed dates
// keep landing inside holiday ranges. Each iteration advances at least one
// day, so a full year covers any realistic blackout chain.
const holidaySkipLimit = 366

// OccursOn reports whether the student has a session occurrence on the given
// date. Dates before the induction date and dates inside any supplied holiday
// range never match.
func OccursOn(student models.Student, date time.Time, holidays []models.Holiday) bool {
	d := models.DateOnly(date)
	induction := models.DateOnly(student.InductionDate)

	if d.Before(induction) {
		return false
	}
	if inHoliday(d, holidays) {
		return false
	}

	rule := student.Schedule.RecurrenceRule
	switch rule.Frequency {
	case models.FrequencyDaily:
		return true
	case models.FrequencyWeekly:
		return rule.HasWeekday(d.Weekday())
	case models.FrequencyFortnightly:
		if !rule.HasWeekday(d.Weekday()) {
			return false
		}
		// The on-fortnight is anchored to the induction date, so each
		// student's two-week phase is independent.
		return weeksBetween(induction, d)%2 == 0
	case models.FrequencyMonthly:
		// No clamping: day 31 simply never matches a 30-day month.
		return rule.HasMonthDay(d.Day())
	default:
		return false
	}
}

// NextAfter returns the first occurrence strictly after the reference date,
// starting no earlier than the induction date. The second return value is
// false when the rule can never produce an occurrence (empty day sets) or
// the holiday skip limit is exhausted.
func NextAfter(student models.Student, from time.Time, holidays []models.Holiday) (time.Time, bool) {
	induction := models.DateOnly(student.InductionDate)
	start := models.DateOnly(from)
	if induction.After(start) {
		start = induction
	}

	rule := student.Schedule.RecurrenceRule
	for i := 0; i < holidaySkipLimit; i++ {
		next, ok := nextFromRule(rule, induction, start)
		if !ok {
			return time.Time{}, false
		}
		if !inHoliday(next, holidays) {
			return next, true
		}
		start = next.AddDate(0, 0, 1)
	}
	return time.Time{}, false
}

func nextFromRule(rule models.RecurrenceRule, induction, start time.Time) (time.Time, bool) {
	switch rule.Frequency {
	case models.FrequencyDaily:
		return start.AddDate(0, 0, 1), true
	case models.FrequencyWeekly:
		return nextWeekly(start, rule.DaysOfWeek)
	case models.FrequencyFortnightly:
		return nextFortnightly(start, rule.DaysOfWeek, induction)
	case models.FrequencyMonthly:
		return nextMonthly(start, rule.DaysOfMonth)
	default:
		return time.Time{}, false
	}
}

// nextWeekly finds the earliest date after start whose weekday is in the set,
// searching the remainder of the current week before wrapping to the next
// week's earliest matching weekday.
func nextWeekly(start time.Time, daysOfWeek []int) (time.Time, bool) {
	if len(daysOfWeek) == 0 {
		return time.Time{}, false
	}

	today := int(start.Weekday())
	days := sortedDays(daysOfWeek)

	for _, day := range days {
		if day > today {
			return start.AddDate(0, 0, day-today), true
		}
	}

	first := days[0]
	return start.AddDate(0, 0, 7-today+first), true
}

// nextFortnightly mirrors the weekly search but only lands in on-fortnight
// weeks. When the current week is on and still has a matching weekday left,
// that date wins; otherwise the search jumps to the first matching weekday of
// the next on-fortnight.
func nextFortnightly(start time.Time, daysOfWeek []int, induction time.Time) (time.Time, bool) {
	if len(daysOfWeek) == 0 {
		return time.Time{}, false
	}

	onWeek := weeksBetween(induction, start)%2 == 0
	if onWeek {
		if next, ok := nextWeekly(start, daysOfWeek); ok && sameWeek(next, start) {
			return next, true
		}
	}

	advance := 7
	if onWeek {
		advance = 14
	}
	target := start.AddDate(0, 0, advance)

	first := sortedDays(daysOfWeek)[0]
	return startOfWeek(target).AddDate(0, 0, first), true
}

// nextMonthly finds the earliest matching day after start's day within the
// current month, else the earliest configured day of the following month.
func nextMonthly(start time.Time, daysOfMonth []int) (time.Time, bool) {
	if len(daysOfMonth) == 0 {
		return time.Time{}, false
	}

	currentDay := start.Day()
	days := sortedDays(daysOfMonth)

	for _, day := range days {
		if day > currentDay {
			return time.Date(start.Year(), start.Month(), day, 0, 0, 0, 0, start.Location()), true
		}
	}

	first := days[0]
	return time.Date(start.Year(), start.Month()+1, first, 0, 0, 0, 0, start.Location()), true
}

// weeksBetween counts whole 7-day weeks elapsed between two normalized dates.
func weeksBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / (24 * 7))
}

func startOfWeek(t time.Time) time.Time {
	d := models.DateOnly(t)
	return d.AddDate(0, 0, -int(d.Weekday()))
}

func sameWeek(a, b time.Time) bool {
	return startOfWeek(a).Equal(startOfWeek(b))
}

func inHoliday(date time.Time, holidays []models.Holiday) bool {
	for _, h := range holidays {
		if h.Contains(date) {
			return true
		}
	}
	return false
}

func sortedDays(days []int) []int {
	out := make([]int, len(days))
	copy(out, days)
	sort.Ints(out)
	return out
}
