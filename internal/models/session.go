package models

import "time"

// SessionStatus enumerates lifecycle states of a persisted session record.
type SessionStatus string

const (
	SessionStatusScheduled SessionStatus = "scheduled"
	SessionStatusAttended  SessionStatus = "attended"
	SessionStatusCanceled  SessionStatus = "canceled"
	SessionStatusMissed    SessionStatus = "missed"
)

// Valid reports whether the status is a known state.
func (s SessionStatus) Valid() bool {
	switch s {
	case SessionStatusScheduled, SessionStatusAttended, SessionStatusCanceled, SessionStatusMissed:
		return true
	}
	return false
}

// Session is a persisted occurrence record. Recurring students normally have
// no stored sessions; a record exists only when something diverges from the
// recurrence rule: a manual booking, an attendance mark, a cancellation or a
// reschedule.
type Session struct {
	ID        string        `db:"id" json:"id"`
	StudentID string        `db:"student_id" json:"student_id"`
	Date      time.Time     `db:"date" json:"date"`
	Time      string        `db:"time" json:"time"`
	Status    SessionStatus `db:"status" json:"status"`
	Notes     string        `db:"notes" json:"notes"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt time.Time     `db:"updated_at" json:"updated_at"`
}

// SessionDetail joins the session with its student.
type SessionDetail struct {
	Session
	StudentName  string `db:"student_name" json:"student_name"`
	StudentPhone string `db:"student_phone" json:"student_phone"`
}

// SessionFilter narrows session listings.
type SessionFilter struct {
	StudentID string
	Status    SessionStatus
	Page      int
	PageSize  int
}
