package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaanavykhari/studio-api/internal/models"
)

func holidayRow() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "from_date", "to_date", "description", "created_at", "updated_at"}).
		AddRow("hol-1", time.Date(2024, time.March, 10, 0, 0, 0, 0, time.Local), time.Date(2024, time.March, 12, 0, 0, 0, 0, time.Local), "Spring break", time.Now(), time.Now())
}

func TestHolidayRepositoryList(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewHolidayRepository(db)

	mock.ExpectQuery("SELECT .+ FROM holidays ORDER BY from_date ASC").
		WillReturnRows(holidayRow())

	holidays, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, holidays, 1)
	assert.Equal(t, "Spring break", holidays[0].Description)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHolidayRepositoryFindOverlapping(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewHolidayRepository(db)

	from := time.Date(2024, time.March, 11, 0, 0, 0, 0, time.Local)
	to := time.Date(2024, time.March, 13, 0, 0, 0, 0, time.Local)

	mock.ExpectQuery("SELECT .+ FROM holidays WHERE from_date").
		WithArgs(to, from).
		WillReturnRows(holidayRow())

	holiday, err := repo.FindOverlapping(context.Background(), from, to)
	require.NoError(t, err)
	require.NotNil(t, holiday)
	assert.Equal(t, "hol-1", holiday.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHolidayRepositoryFindOverlappingNone(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewHolidayRepository(db)

	mock.ExpectQuery("SELECT .+ FROM holidays WHERE from_date").
		WillReturnError(sql.ErrNoRows)

	holiday, err := repo.FindOverlapping(context.Background(), time.Now(), time.Now())
	require.NoError(t, err)
	assert.Nil(t, holiday)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHolidayRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewHolidayRepository(db)

	mock.ExpectExec("INSERT INTO holidays").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	holiday := &models.Holiday{
		FromDate: time.Date(2024, time.March, 10, 0, 0, 0, 0, time.Local),
		ToDate:   time.Date(2024, time.March, 12, 0, 0, 0, 0, time.Local),
	}
	require.NoError(t, repo.Create(context.Background(), holiday))
	assert.NotEmpty(t, holiday.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHolidayRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewHolidayRepository(db)

	mock.ExpectExec("DELETE FROM holidays WHERE id").
		WithArgs("hol-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Delete(context.Background(), "hol-1"))

	mock.ExpectExec("DELETE FROM holidays WHERE id").
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.Equal(t, sql.ErrNoRows, repo.Delete(context.Background(), "missing"))

	assert.NoError(t, mock.ExpectationsWereMet())
}
