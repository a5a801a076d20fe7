package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/gaanavykhari/studio-api/internal/models"
)

// HolidayRepository persists holiday blackout periods.
type HolidayRepository struct {
	db *sqlx.DB
}

// NewHolidayRepository constructs a HolidayRepository.
func NewHolidayRepository(db *sqlx.DB) *HolidayRepository {
	return &HolidayRepository{db: db}
}

// List returns all holiday periods ordered by start date ascending.
func (r *HolidayRepository) List(ctx context.Context) ([]models.Holiday, error) {
	query := `SELECT id, from_date, to_date, description, created_at, updated_at
FROM holidays ORDER BY from_date ASC`
	var holidays []models.Holiday
	if err := r.db.SelectContext(ctx, &holidays, query); err != nil {
		return nil, fmt.Errorf("list holidays: %w", err)
	}
	return holidays, nil
}

// FindOverlapping returns the first holiday whose range intersects the given
// inclusive range, or nil when no overlap exists.
func (r *HolidayRepository) FindOverlapping(ctx context.Context, from, to time.Time) (*models.Holiday, error) {
	query := `SELECT id, from_date, to_date, description, created_at, updated_at
FROM holidays WHERE from_date <= $1 AND to_date >= $2 LIMIT 1`
	var holiday models.Holiday
	err := r.db.GetContext(ctx, &holiday, query, models.DateOnly(to), models.DateOnly(from))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find overlapping holiday: %w", err)
	}
	return &holiday, nil
}

// Create inserts a holiday period.
func (r *HolidayRepository) Create(ctx context.Context, holiday *models.Holiday) error {
	if holiday.ID == "" {
		holiday.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if holiday.CreatedAt.IsZero() {
		holiday.CreatedAt = now
	}
	holiday.UpdatedAt = now
	query := `INSERT INTO holidays (id, from_date, to_date, description, created_at, updated_at)
VALUES (:id, :from_date, :to_date, :description, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, holiday); err != nil {
		return fmt.Errorf("create holiday: %w", err)
	}
	return nil
}

// Delete removes a holiday period. Returns sql.ErrNoRows when absent.
func (r *HolidayRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM holidays WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete holiday: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete holiday: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
