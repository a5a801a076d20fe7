package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/gaanavykhari/studio-api/internal/models"
)

// PaymentRepository manages fee installments.
type PaymentRepository struct {
	db *sqlx.DB
}

// NewPaymentRepository constructs a PaymentRepository.
func NewPaymentRepository(db *sqlx.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// List returns payments joined with student names, newest first.
func (r *PaymentRepository) List(ctx context.Context, filter models.PaymentFilter) ([]models.PaymentDetail, int, error) {
	base := "FROM payments p JOIN students st ON st.id = p.student_id"
	conditions := []string{"1=1"}
	args := []interface{}{}

	if filter.StudentID != "" {
		conditions = append(conditions, fmt.Sprintf("p.student_id = $%d", len(args)+1))
		args = append(args, filter.StudentID)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("p.status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(st.name) LIKE $%d", len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	base = fmt.Sprintf("%s WHERE %s", base, strings.Join(conditions, " AND "))

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 200 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT p.id, p.student_id, p.due_date, p.amount, p.status, p.paid_date, p.created_at, p.updated_at,
st.name AS student_name %s ORDER BY p.created_at DESC LIMIT %d OFFSET %d`, base, size, offset)
	var payments []models.PaymentDetail
	if err := r.db.SelectContext(ctx, &payments, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list payments: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count payments: %w", err)
	}
	return payments, total, nil
}

// FindByID fetches a payment by ID.
func (r *PaymentRepository) FindByID(ctx context.Context, id string) (*models.Payment, error) {
	query := `SELECT id, student_id, due_date, amount, status, paid_date, created_at, updated_at
FROM payments WHERE id = $1`
	var payment models.Payment
	if err := r.db.GetContext(ctx, &payment, query, id); err != nil {
		return nil, err
	}
	return &payment, nil
}

// Create inserts a payment.
func (r *PaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	if payment.ID == "" {
		payment.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if payment.CreatedAt.IsZero() {
		payment.CreatedAt = now
	}
	payment.UpdatedAt = now
	query := `INSERT INTO payments (id, student_id, due_date, amount, status, paid_date, created_at, updated_at)
VALUES (:id, :student_id, :due_date, :amount, :status, :paid_date, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, payment); err != nil {
		return fmt.Errorf("create payment: %w", err)
	}
	return nil
}

// Update modifies a payment.
func (r *PaymentRepository) Update(ctx context.Context, payment *models.Payment) error {
	payment.UpdatedAt = time.Now().UTC()
	query := `UPDATE payments SET student_id = :student_id, due_date = :due_date, amount = :amount, status = :status, paid_date = :paid_date, updated_at = :updated_at
WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, payment); err != nil {
		return fmt.Errorf("update payment: %w", err)
	}
	return nil
}

// Delete removes a payment.
func (r *PaymentRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM payments WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete payment: %w", err)
	}
	return nil
}

// SumByStatus aggregates payment amounts grouped by status.
func (r *PaymentRepository) SumByStatus(ctx context.Context) (map[models.PaymentStatus]float64, error) {
	rows, err := r.db.QueryxContext(ctx, "SELECT status, COALESCE(SUM(amount), 0) FROM payments GROUP BY status")
	if err != nil {
		return nil, fmt.Errorf("sum payments by status: %w", err)
	}
	defer rows.Close()

	sums := make(map[models.PaymentStatus]float64)
	for rows.Next() {
		var status models.PaymentStatus
		var total float64
		if err := rows.Scan(&status, &total); err != nil {
			return nil, fmt.Errorf("scan payment sum: %w", err)
		}
		sums[status] = total
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate payment sums: %w", err)
	}
	return sums, nil
}
