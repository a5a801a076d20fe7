package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaanavykhari/studio-api/internal/models"
	appErrors "github.com/gaanavykhari/studio-api/pkg/errors"
)

type mockStudentRepo struct {
	students map[string]models.Student
	created  *models.Student
	updated  *models.Student
	deleted  []string
}

func (m *mockStudentRepo) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	out := make([]models.Student, 0, len(m.students))
	for _, s := range m.students {
		out = append(out, s)
	}
	return out, len(out), nil
}

func (m *mockStudentRepo) FindByID(ctx context.Context, id string) (*models.Student, error) {
	if s, ok := m.students[id]; ok {
		return &s, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockStudentRepo) Create(ctx context.Context, student *models.Student) error {
	if student.ID == "" {
		student.ID = "stu-new"
	}
	if m.students == nil {
		m.students = make(map[string]models.Student)
	}
	m.students[student.ID] = *student
	m.created = student
	return nil
}

func (m *mockStudentRepo) Update(ctx context.Context, student *models.Student) error {
	m.students[student.ID] = *student
	m.updated = student
	return nil
}

func (m *mockStudentRepo) Delete(ctx context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	delete(m.students, id)
	return nil
}

func validCreateStudentRequest() CreateStudentRequest {
	return CreateStudentRequest{
		Name:          "Asha",
		Phone:         "9876543210",
		Email:         "asha@example.com",
		FeePerClasses: 4,
		FeeAmount:     2000,
		Schedule: SchedulePayload{
			Frequency:  string(models.FrequencyWeekly),
			DaysOfWeek: []int{1, 3},
			Time:       "10:00",
		},
		InductionDate: time.Date(2024, time.January, 1, 15, 30, 0, 0, time.Local),
	}
}

func TestStudentServiceCreate(t *testing.T) {
	repo := &mockStudentRepo{}
	svc := NewStudentService(repo, nil, nil)

	student, err := svc.Create(context.Background(), validCreateStudentRequest())
	require.NoError(t, err)
	require.NotNil(t, repo.created)
	assert.Equal(t, "Asha", student.Name)
	assert.Equal(t, models.FrequencyWeekly, student.Schedule.Frequency)

	// The induction timestamp is normalized to midnight.
	assert.Equal(t, 0, student.InductionDate.Hour())
	assert.Equal(t, 0, student.InductionDate.Minute())
}

func TestStudentServiceCreateValidation(t *testing.T) {
	svc := NewStudentService(&mockStudentRepo{}, nil, nil)
	ctx := context.Background()

	req := validCreateStudentRequest()
	req.Name = ""
	_, err := svc.Create(ctx, req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	req = validCreateStudentRequest()
	req.Schedule.Frequency = "biweekly"
	_, err = svc.Create(ctx, req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	req = validCreateStudentRequest()
	req.Schedule.DaysOfWeek = []int{7}
	_, err = svc.Create(ctx, req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	req = validCreateStudentRequest()
	req.Schedule.Time = "9am"
	_, err = svc.Create(ctx, req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestStudentServiceCreateAllowsEmptyDaySet(t *testing.T) {
	// A rule with no days yields no occurrences but is structurally valid.
	svc := NewStudentService(&mockStudentRepo{}, nil, nil)
	req := validCreateStudentRequest()
	req.Schedule.DaysOfWeek = nil

	student, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Empty(t, student.Schedule.DaysOfWeek)
}

func TestStudentServiceUpdateReplacesRule(t *testing.T) {
	repo := &mockStudentRepo{students: map[string]models.Student{
		"stu-1": weeklyStudent("stu-1", "Asha", []int{1}, date(2024, time.January, 1)),
	}}
	svc := NewStudentService(repo, nil, nil)

	req := UpdateStudentRequest{
		Name:          "Asha",
		Phone:         "9876543210",
		FeePerClasses: 4,
		FeeAmount:     2500,
		Schedule: SchedulePayload{
			Frequency:   string(models.FrequencyMonthly),
			DaysOfMonth: []int{15},
			Time:        "18:00",
		},
		InductionDate: date(2024, time.January, 1),
	}
	student, err := svc.Update(context.Background(), "stu-1", req)
	require.NoError(t, err)
	assert.Equal(t, models.FrequencyMonthly, student.Schedule.Frequency)
	assert.Equal(t, []int{15}, student.Schedule.DaysOfMonth)
	assert.Equal(t, "18:00", student.Schedule.Time)

	_, err = svc.Update(context.Background(), "missing", req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestStudentServiceDelete(t *testing.T) {
	repo := &mockStudentRepo{students: map[string]models.Student{
		"stu-1": {ID: "stu-1", Name: "Asha"},
	}}
	svc := NewStudentService(repo, nil, nil)

	require.NoError(t, svc.Delete(context.Background(), "stu-1"))
	assert.Equal(t, []string{"stu-1"}, repo.deleted)

	err := svc.Delete(context.Background(), "stu-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
