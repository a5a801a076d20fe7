package dto

// DayEntry is one row of a single-day schedule view. Source is "schedule"
// for entries computed from a recurrence rule and "adhoc" for persisted
// session records not represented by a rule.
type DayEntry struct {
	StudentID   string `json:"student_id"`
	StudentName string `json:"student_name"`
	Time        string `json:"time"`
	Source      string `json:"source"`
	Status      string `json:"status,omitempty"`
	SessionID   string `json:"session_id,omitempty"`
}

// DayViewResponse is the payload for the day and today schedule views.
type DayViewResponse struct {
	Entries   []DayEntry `json:"entries"`
	IsHoliday bool       `json:"is_holiday"`
}

// UpcomingSession is one row of the upcoming-occurrences view.
type UpcomingSession struct {
	StudentID   string `json:"student_id"`
	StudentName string `json:"student_name"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	DaysFromNow int    `json:"days_from_now"`
	IsAdhoc     bool   `json:"is_adhoc"`
}
