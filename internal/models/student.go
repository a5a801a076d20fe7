package models

import "time"

// Student represents a learner enrolled at the studio.
type Student struct {
	ID            string     `db:"id" json:"id"`
	Name          string     `db:"name" json:"name"`
	Phone         string     `db:"phone" json:"phone"`
	Email         string     `db:"email" json:"email"`
	FeePerClasses int        `db:"fee_per_classes" json:"fee_per_classes"`
	FeeAmount     float64    `db:"fee_amount" json:"fee_amount"`
	Schedule      Schedule   `db:"schedule" json:"schedule"`
	InductionDate time.Time  `db:"induction_date" json:"induction_date"`
	LastClassDate *time.Time `db:"last_class_date" json:"last_class_date,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}

// StudentFilter encapsulates allowed search parameters for listing students.
type StudentFilter struct {
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// Pagination describes list metadata shared across responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
