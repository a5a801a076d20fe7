package models

import "time"

// Holiday is a blackout period during which no sessions take place. The range
// is inclusive on both ends and compared at date granularity.
type Holiday struct {
	ID          string    `db:"id" json:"id"`
	FromDate    time.Time `db:"from_date" json:"from_date"`
	ToDate      time.Time `db:"to_date" json:"to_date"`
	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// Contains reports whether the date (at date granularity) falls inside the
// holiday range.
func (h Holiday) Contains(date time.Time) bool {
	d := DateOnly(date)
	return !d.Before(DateOnly(h.FromDate)) && !d.After(DateOnly(h.ToDate))
}

// DateOnly truncates a timestamp to midnight local time. All range
// comparisons in the scheduling core operate on these normalized values.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// AffectedStudent summarises one student impacted by a holiday cascade.
type AffectedStudent struct {
	StudentID string   `json:"student_id"`
	Name      string   `json:"name"`
	Phone     string   `json:"phone"`
	Dates     []string `json:"dates"`
}
