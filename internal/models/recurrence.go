package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Frequency identifies the recurrence kind of a student's schedule.
type Frequency string

const (
	FrequencyDaily       Frequency = "daily"
	FrequencyWeekly      Frequency = "weekly"
	FrequencyFortnightly Frequency = "fortnightly"
	FrequencyMonthly     Frequency = "monthly"
)

// Valid reports whether the frequency is one of the supported kinds.
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyFortnightly, FrequencyMonthly:
		return true
	}
	return false
}

// RecurrenceRule is a tagged union over the four supported frequencies.
// Weekly and fortnightly rules carry days of the week (0 = Sunday .. 6 =
// Saturday, matching time.Weekday); monthly rules carry days of the month
// (1..31). An empty day set yields no occurrences rather than an error.
type RecurrenceRule struct {
	Frequency   Frequency `json:"frequency"`
	DaysOfWeek  []int     `json:"daysOfTheWeek,omitempty"`
	DaysOfMonth []int     `json:"daysOfTheMonth,omitempty"`
}

// Validate checks structural invariants of the rule. Empty day sets are
// allowed; out-of-range day values are not.
func (r RecurrenceRule) Validate() error {
	if !r.Frequency.Valid() {
		return fmt.Errorf("unsupported frequency %q", r.Frequency)
	}
	switch r.Frequency {
	case FrequencyWeekly, FrequencyFortnightly:
		for _, d := range r.DaysOfWeek {
			if d < 0 || d > 6 {
				return fmt.Errorf("day of week %d out of range 0..6", d)
			}
		}
	case FrequencyMonthly:
		for _, d := range r.DaysOfMonth {
			if d < 1 || d > 31 {
				return fmt.Errorf("day of month %d out of range 1..31", d)
			}
		}
	}
	return nil
}

// HasWeekday reports whether the weekday is in the rule's day-of-week set.
func (r RecurrenceRule) HasWeekday(day time.Weekday) bool {
	for _, d := range r.DaysOfWeek {
		if d == int(day) {
			return true
		}
	}
	return false
}

// HasMonthDay reports whether the day of month is in the rule's set.
func (r RecurrenceRule) HasMonthDay(day int) bool {
	for _, d := range r.DaysOfMonth {
		if d == day {
			return true
		}
	}
	return false
}

// Schedule couples a recurrence rule with the wall-clock class time. Stored
// as a jsonb column on students.
type Schedule struct {
	RecurrenceRule
	Time string `json:"time"`
}

// Value implements driver.Valuer for the jsonb schedule column.
func (s Schedule) Value() (driver.Value, error) {
	return json.Marshal(s)
}

// Scan implements sql.Scanner for the jsonb schedule column.
func (s *Schedule) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	case nil:
		*s = Schedule{}
		return nil
	default:
		return fmt.Errorf("unsupported schedule column type %T", src)
	}
}
