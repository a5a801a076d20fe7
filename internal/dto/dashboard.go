package dto

// DashboardResponse summarizes studio activity for the landing view.
type DashboardResponse struct {
	ActiveStudents   int     `json:"active_students"`
	SessionsThisWeek int     `json:"sessions_this_week"`
	AttendedCount    int     `json:"attended_count"`
	CanceledCount    int     `json:"canceled_count"`
	MissedCount      int     `json:"missed_count"`
	AttendanceRate   float64 `json:"attendance_rate"`
	RevenueCollected float64 `json:"revenue_collected"`
	RevenuePending   float64 `json:"revenue_pending"`
}

// StudentStatsResponse summarizes one student's recent activity.
type StudentStatsResponse struct {
	StudentID      string  `json:"student_id"`
	StudentName    string  `json:"student_name"`
	AttendedCount  int     `json:"attended_count"`
	CanceledCount  int     `json:"canceled_count"`
	MissedCount    int     `json:"missed_count"`
	AttendanceRate float64 `json:"attendance_rate"`
}
