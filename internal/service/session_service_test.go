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

type mockSessionRepo struct {
	sessions map[string]models.SessionDetail
	created  *models.Session
	updated  *models.Session
	statuses map[string]models.SessionStatus
}

func (m *mockSessionRepo) List(ctx context.Context, filter models.SessionFilter) ([]models.SessionDetail, int, error) {
	out := make([]models.SessionDetail, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	return out, len(out), nil
}

func (m *mockSessionRepo) FindByID(ctx context.Context, id string) (*models.SessionDetail, error) {
	if s, ok := m.sessions[id]; ok {
		return &s, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockSessionRepo) Create(ctx context.Context, session *models.Session) error {
	if session.ID == "" {
		session.ID = "sess-new"
	}
	m.created = session
	return nil
}

func (m *mockSessionRepo) Update(ctx context.Context, session *models.Session) error {
	m.updated = session
	return nil
}

func (m *mockSessionRepo) UpdateStatus(ctx context.Context, id string, status models.SessionStatus) error {
	if _, ok := m.sessions[id]; !ok {
		return sql.ErrNoRows
	}
	if m.statuses == nil {
		m.statuses = make(map[string]models.SessionStatus)
	}
	m.statuses[id] = status
	return nil
}

func (m *mockSessionRepo) Delete(ctx context.Context, id string) error {
	delete(m.sessions, id)
	return nil
}

type mockSessionStudents struct {
	students map[string]models.Student
}

func (m *mockSessionStudents) FindByID(ctx context.Context, id string) (*models.Student, error) {
	if s, ok := m.students[id]; ok {
		return &s, nil
	}
	return nil, sql.ErrNoRows
}

type mockNotifier struct {
	cancellations []CancellationFacts
	reschedules   []RescheduleFacts
}

func (m *mockNotifier) ComposeCancellation(facts CancellationFacts) error {
	m.cancellations = append(m.cancellations, facts)
	return nil
}

func (m *mockNotifier) ComposeReschedule(facts RescheduleFacts) error {
	m.reschedules = append(m.reschedules, facts)
	return nil
}

func newSessionServiceForTest(repo *mockSessionRepo, students *mockSessionStudents, notifier *mockNotifier) *SessionService {
	return NewSessionService(repo, students, notifier, nil, nil)
}

func TestSessionServiceCreate(t *testing.T) {
	repo := &mockSessionRepo{}
	students := &mockSessionStudents{students: map[string]models.Student{
		"stu-1": {ID: "stu-1", Name: "Asha"},
	}}
	svc := newSessionServiceForTest(repo, students, &mockNotifier{})

	session, err := svc.Create(context.Background(), CreateSessionRequest{
		StudentID: "stu-1",
		Date:      time.Date(2024, time.March, 4, 16, 45, 0, 0, time.Local),
		Time:      "10:00",
	})
	require.NoError(t, err)
	assert.Equal(t, models.SessionStatusScheduled, session.Status)

	// The booking date is stored at date granularity.
	assert.Equal(t, 0, session.Date.Hour())

	_, err = svc.Create(context.Background(), CreateSessionRequest{
		StudentID: "missing",
		Date:      time.Date(2024, time.March, 4, 0, 0, 0, 0, time.Local),
		Time:      "10:00",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestSessionServiceUpdateStatus(t *testing.T) {
	repo := &mockSessionRepo{sessions: map[string]models.SessionDetail{
		"sess-1": sessionDetail("sess-1", "stu-1", "Asha", date(2024, time.March, 4), "10:00", models.SessionStatusScheduled),
	}}
	notifier := &mockNotifier{}
	svc := newSessionServiceForTest(repo, &mockSessionStudents{}, notifier)
	ctx := context.Background()

	session, err := svc.UpdateStatus(ctx, "sess-1", models.SessionStatusAttended)
	require.NoError(t, err)
	assert.Equal(t, models.SessionStatusAttended, session.Status)
	assert.Empty(t, notifier.cancellations)

	_, err = svc.UpdateStatus(ctx, "sess-1", "postponed")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.UpdateStatus(ctx, "missing", models.SessionStatusAttended)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestSessionServiceCancelQueuesNotification(t *testing.T) {
	detail := sessionDetail("sess-1", "stu-1", "Asha", date(2024, time.March, 4), "10:00", models.SessionStatusScheduled)
	detail.StudentPhone = "9876543210"
	repo := &mockSessionRepo{sessions: map[string]models.SessionDetail{"sess-1": detail}}
	notifier := &mockNotifier{}
	svc := newSessionServiceForTest(repo, &mockSessionStudents{}, notifier)

	_, err := svc.UpdateStatus(context.Background(), "sess-1", models.SessionStatusCanceled)
	require.NoError(t, err)

	require.Len(t, notifier.cancellations, 1)
	facts := notifier.cancellations[0]
	assert.Equal(t, "Asha", facts.Name)
	assert.Equal(t, "9876543210", facts.Phone)
	assert.Equal(t, "10:00", facts.Time)
	assert.Equal(t, date(2024, time.March, 4), facts.Date)
}

func TestSessionServiceReschedule(t *testing.T) {
	detail := sessionDetail("sess-1", "stu-1", "Asha", date(2024, time.March, 4), "10:00", models.SessionStatusCanceled)
	repo := &mockSessionRepo{sessions: map[string]models.SessionDetail{"sess-1": detail}}
	notifier := &mockNotifier{}
	svc := newSessionServiceForTest(repo, &mockSessionStudents{}, notifier)

	session, err := svc.Reschedule(context.Background(), "sess-1", RescheduleSessionRequest{
		NewDate: date(2024, time.March, 6),
		NewTime: "17:00",
	})
	require.NoError(t, err)
	assert.Equal(t, date(2024, time.March, 6), session.Date)
	assert.Equal(t, "17:00", session.Time)
	assert.Equal(t, models.SessionStatusScheduled, session.Status)

	// The message carries both the original and the replacement slot.
	require.Len(t, notifier.reschedules, 1)
	facts := notifier.reschedules[0]
	assert.Equal(t, date(2024, time.March, 4), facts.Date)
	assert.Equal(t, "10:00", facts.Time)
	assert.Equal(t, date(2024, time.March, 6), facts.NewDate)
	assert.Equal(t, "17:00", facts.NewTime)
}

func TestSessionServiceDelete(t *testing.T) {
	repo := &mockSessionRepo{sessions: map[string]models.SessionDetail{
		"sess-1": sessionDetail("sess-1", "stu-1", "Asha", date(2024, time.March, 4), "10:00", models.SessionStatusScheduled),
	}}
	svc := newSessionServiceForTest(repo, &mockSessionStudents{}, &mockNotifier{})

	require.NoError(t, svc.Delete(context.Background(), "sess-1"))

	err := svc.Delete(context.Background(), "sess-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
