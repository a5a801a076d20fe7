package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/gaanavykhari/studio-api/internal/models"
)

const sessionDetailColumns = `s.id, s.student_id, s.date, s.time, s.status, s.notes, s.created_at, s.updated_at,
st.name AS student_name, st.phone AS student_phone`

// SessionRepository manages persisted occurrence records.
type SessionRepository struct {
	db *sqlx.DB
}

// NewSessionRepository constructs a SessionRepository.
func NewSessionRepository(db *sqlx.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// List returns session records joined with their student, newest first.
func (r *SessionRepository) List(ctx context.Context, filter models.SessionFilter) ([]models.SessionDetail, int, error) {
	base := "FROM sessions s JOIN students st ON st.id = s.student_id"
	conditions := []string{"1=1"}
	args := []interface{}{}

	if filter.StudentID != "" {
		conditions = append(conditions, fmt.Sprintf("s.student_id = $%d", len(args)+1))
		args = append(args, filter.StudentID)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("s.status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}

	base = fmt.Sprintf("%s WHERE %s", base, strings.Join(conditions, " AND "))

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 200 {
		size = 50
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY s.date DESC LIMIT %d OFFSET %d", sessionDetailColumns, base, size, offset)
	var sessions []models.SessionDetail
	if err := r.db.SelectContext(ctx, &sessions, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list sessions: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count sessions: %w", err)
	}
	return sessions, total, nil
}

// ListByDate returns non-canceled session records for a single calendar date.
func (r *SessionRepository) ListByDate(ctx context.Context, date time.Time) ([]models.SessionDetail, error) {
	dayStart := models.DateOnly(date)
	dayEnd := dayStart.AddDate(0, 0, 1)
	query := fmt.Sprintf(`SELECT %s FROM sessions s JOIN students st ON st.id = s.student_id
WHERE s.date >= $1 AND s.date < $2 AND s.status <> $3 ORDER BY s.time ASC`, sessionDetailColumns)
	var sessions []models.SessionDetail
	if err := r.db.SelectContext(ctx, &sessions, query, dayStart, dayEnd, models.SessionStatusCanceled); err != nil {
		return nil, fmt.Errorf("list sessions by date: %w", err)
	}
	return sessions, nil
}

// ListScheduledAfter returns future session records with scheduled status,
// earliest first.
func (r *SessionRepository) ListScheduledAfter(ctx context.Context, after time.Time) ([]models.SessionDetail, error) {
	query := fmt.Sprintf(`SELECT %s FROM sessions s JOIN students st ON st.id = s.student_id
WHERE s.date > $1 AND s.status = $2 ORDER BY s.date ASC`, sessionDetailColumns)
	var sessions []models.SessionDetail
	if err := r.db.SelectContext(ctx, &sessions, query, models.DateOnly(after), models.SessionStatusScheduled); err != nil {
		return nil, fmt.Errorf("list scheduled sessions: %w", err)
	}
	return sessions, nil
}

// ListInRange returns session records inside an inclusive date range.
func (r *SessionRepository) ListInRange(ctx context.Context, from, to time.Time) ([]models.Session, error) {
	query := `SELECT id, student_id, date, time, status, notes, created_at, updated_at
FROM sessions WHERE date >= $1 AND date < $2`
	var sessions []models.Session
	if err := r.db.SelectContext(ctx, &sessions, query, models.DateOnly(from), models.DateOnly(to).AddDate(0, 0, 1)); err != nil {
		return nil, fmt.Errorf("list sessions in range: %w", err)
	}
	return sessions, nil
}

// FindByID fetches a session with student context.
func (r *SessionRepository) FindByID(ctx context.Context, id string) (*models.SessionDetail, error) {
	query := fmt.Sprintf("SELECT %s FROM sessions s JOIN students st ON st.id = s.student_id WHERE s.id = $1", sessionDetailColumns)
	var session models.SessionDetail
	if err := r.db.GetContext(ctx, &session, query, id); err != nil {
		return nil, err
	}
	return &session, nil
}

// Create inserts a session record.
func (r *SessionRepository) Create(ctx context.Context, session *models.Session) error {
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = now
	}
	session.UpdatedAt = now
	query := `INSERT INTO sessions (id, student_id, date, time, status, notes, created_at, updated_at)
VALUES (:id, :student_id, :date, :time, :status, :notes, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, session); err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// Update modifies a session record.
func (r *SessionRepository) Update(ctx context.Context, session *models.Session) error {
	session.UpdatedAt = time.Now().UTC()
	query := `UPDATE sessions SET student_id = :student_id, date = :date, time = :time, status = :status, notes = :notes, updated_at = :updated_at
WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, session); err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	return nil
}

// UpdateStatus flips the status of a session record.
func (r *SessionRepository) UpdateStatus(ctx context.Context, id string, status models.SessionStatus) error {
	res, err := r.db.ExecContext(ctx, "UPDATE sessions SET status = $1, updated_at = $2 WHERE id = $3", status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update session status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update session status: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// CancelInRange bulk-cancels every non-canceled session inside the inclusive
// date range, preserving the records and flipping only status and timestamp.
func (r *SessionRepository) CancelInRange(ctx context.Context, from, to time.Time) error {
	query := `UPDATE sessions SET status = $1, updated_at = $2 WHERE date >= $3 AND date < $4 AND status <> $1`
	if _, err := r.db.ExecContext(ctx, query, models.SessionStatusCanceled, time.Now().UTC(), models.DateOnly(from), models.DateOnly(to).AddDate(0, 0, 1)); err != nil {
		return fmt.Errorf("cancel sessions in range: %w", err)
	}
	return nil
}

// Delete removes a session record.
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
