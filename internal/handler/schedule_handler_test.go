package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaanavykhari/studio-api/internal/models"
	"github.com/gaanavykhari/studio-api/internal/service"
)

type fakeStudentLister struct {
	students []models.Student
}

func (f *fakeStudentLister) ListAll(ctx context.Context) ([]models.Student, error) {
	return f.students, nil
}

type fakeSessionLister struct{}

func (f *fakeSessionLister) ListByDate(ctx context.Context, date time.Time) ([]models.SessionDetail, error) {
	return nil, nil
}

func (f *fakeSessionLister) ListScheduledAfter(ctx context.Context, after time.Time) ([]models.SessionDetail, error) {
	return nil, nil
}

type fakeHolidaySource struct{}

func (f *fakeHolidaySource) List(ctx context.Context) []models.Holiday { return nil }

func (f *fakeHolidaySource) IsHoliday(ctx context.Context, date time.Time) bool { return false }

func newScheduleHandlerForTest(students []models.Student) *ScheduleHandler {
	svc := service.NewScheduleService(&fakeStudentLister{students: students}, &fakeSessionLister{}, &fakeHolidaySource{}, 5, nil)
	return NewScheduleHandler(svc)
}

func TestScheduleHandlerDayRejectsBadDate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newScheduleHandlerForTest(nil)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/schedule/day?date=March+4", nil)

	handler.Day(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScheduleHandlerDay(t *testing.T) {
	gin.SetMode(gin.TestMode)
	// 2024-03-04 is a Monday.
	handler := newScheduleHandlerForTest([]models.Student{{
		ID:            "stu-1",
		Name:          "Asha",
		InductionDate: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.Local),
		Schedule: models.Schedule{
			RecurrenceRule: models.RecurrenceRule{Frequency: models.FrequencyWeekly, DaysOfWeek: []int{1}},
			Time:           "10:00",
		},
	}})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/schedule/day?date=2024-03-04", nil)

	handler.Day(c)

	require.Equal(t, http.StatusOK, rec.Code)
	var envelope struct {
		Data struct {
			Entries []struct {
				StudentID string `json:"student_id"`
				Time      string `json:"time"`
				Source    string `json:"source"`
			} `json:"entries"`
			IsHoliday bool `json:"is_holiday"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data.Entries, 1)
	assert.Equal(t, "stu-1", envelope.Data.Entries[0].StudentID)
	assert.Equal(t, "schedule", envelope.Data.Entries[0].Source)
	assert.False(t, envelope.Data.IsHoliday)
}
