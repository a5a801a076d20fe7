package models

import "time"

// NotificationKind distinguishes composed message types.
type NotificationKind string

const (
	NotificationKindCancellation NotificationKind = "cancellation"
	NotificationKindReschedule   NotificationKind = "reschedule"
)

// Notification is a composed message waiting in the outbox. Delivery is an
// external channel's concern; this system only records the text and target.
type Notification struct {
	ID        string           `db:"id" json:"id"`
	StudentID string           `db:"student_id" json:"student_id"`
	Kind      NotificationKind `db:"kind" json:"kind"`
	Phone     string           `db:"phone" json:"phone"`
	Message   string           `db:"message" json:"message"`
	Link      string           `db:"link" json:"link"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
}
