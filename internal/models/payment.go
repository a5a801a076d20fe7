package models

import "time"

// PaymentStatus enumerates payment states.
type PaymentStatus string

const (
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusPending PaymentStatus = "pending"
)

// Payment represents a fee installment owed by a student.
type Payment struct {
	ID        string        `db:"id" json:"id"`
	StudentID string        `db:"student_id" json:"student_id"`
	DueDate   time.Time     `db:"due_date" json:"due_date"`
	Amount    float64       `db:"amount" json:"amount"`
	Status    PaymentStatus `db:"status" json:"status"`
	PaidDate  *time.Time    `db:"paid_date" json:"paid_date,omitempty"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt time.Time     `db:"updated_at" json:"updated_at"`
}

// PaymentDetail joins the payment with its student.
type PaymentDetail struct {
	Payment
	StudentName string `db:"student_name" json:"student_name"`
}

// PaymentFilter narrows payment listings.
type PaymentFilter struct {
	StudentID string
	Status    PaymentStatus
	Search    string
	Page      int
	PageSize  int
}
