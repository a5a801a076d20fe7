package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaanavykhari/studio-api/internal/models"
	"github.com/gaanavykhari/studio-api/pkg/config"
)

type mockNotificationRepo struct {
	mu      sync.Mutex
	created []models.Notification
}

func (m *mockNotificationRepo) Create(ctx context.Context, notification *models.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	notification.ID = "notif-1"
	m.created = append(m.created, *notification)
	return nil
}

func (m *mockNotificationRepo) ListByStudent(ctx context.Context, studentID string) ([]models.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Notification, 0, len(m.created))
	for _, n := range m.created {
		if n.StudentID == studentID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (m *mockNotificationRepo) snapshot() []models.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Notification(nil), m.created...)
}

func cancellationFactsFixture() CancellationFacts {
	return CancellationFacts{
		StudentID: "stu-1",
		Name:      "Asha",
		Phone:     "98765-43210",
		Date:      date(2024, time.March, 4),
		Time:      "10:00",
	}
}

func TestNotificationServiceComposeCancellation(t *testing.T) {
	repo := &mockNotificationRepo{}
	svc := NewNotificationService(repo, config.NotificationsConfig{Enabled: true}, nil)
	svc.Start(context.Background())
	defer svc.Stop()

	require.NoError(t, svc.ComposeCancellation(cancellationFactsFixture()))

	require.Eventually(t, func() bool {
		return len(repo.snapshot()) == 1
	}, time.Second, 10*time.Millisecond)

	notif := repo.snapshot()[0]
	assert.Equal(t, models.NotificationKindCancellation, notif.Kind)
	assert.Equal(t, "stu-1", notif.StudentID)
	assert.Contains(t, notif.Message, "Hi Asha,")
	assert.Contains(t, notif.Message, "Mon, Mar 4")
	assert.Contains(t, notif.Message, "10:00 AM")
	assert.Contains(t, notif.Message, "has been cancelled")
	assert.Contains(t, notif.Message, "- GaanaVykhari")
	assert.Equal(t, "https://wa.me/919876543210", notif.Link)
}

func TestNotificationServiceComposeReschedule(t *testing.T) {
	repo := &mockNotificationRepo{}
	svc := NewNotificationService(repo, config.NotificationsConfig{Enabled: true}, nil)
	svc.Start(context.Background())
	defer svc.Stop()

	facts := RescheduleFacts{
		CancellationFacts: cancellationFactsFixture(),
		NewDate:           date(2024, time.March, 6),
		NewTime:           "17:30",
	}
	require.NoError(t, svc.ComposeReschedule(facts))

	require.Eventually(t, func() bool {
		return len(repo.snapshot()) == 1
	}, time.Second, 10*time.Millisecond)

	notif := repo.snapshot()[0]
	assert.Equal(t, models.NotificationKindReschedule, notif.Kind)
	assert.Contains(t, notif.Message, "rescheduled to Wed, Mar 6 at 5:30 PM")
}

func TestNotificationServiceDisabled(t *testing.T) {
	repo := &mockNotificationRepo{}
	svc := NewNotificationService(repo, config.NotificationsConfig{Enabled: false}, nil)

	// Composition is a no-op when the feature flag is off; the queue does
	// not even need to be started.
	require.NoError(t, svc.ComposeCancellation(cancellationFactsFixture()))
	assert.Empty(t, repo.snapshot())
}

func TestNotificationServiceWALink(t *testing.T) {
	svc := NewNotificationService(&mockNotificationRepo{}, config.NotificationsConfig{}, nil)

	assert.Equal(t, "https://wa.me/919876543210", svc.waLink("+91 98765 43210"))
	assert.Equal(t, "https://wa.me/919876543210", svc.waLink("9876543210"))
	assert.Equal(t, "https://wa.me/919876543210", svc.waLink("919876543210"))
}

func TestFormatClockTime(t *testing.T) {
	assert.Equal(t, "9:05 AM", formatClockTime("09:05"))
	assert.Equal(t, "12:00 PM", formatClockTime("12:00"))
	assert.Equal(t, "12:30 AM", formatClockTime("00:30"))
	assert.Equal(t, "6:15 PM", formatClockTime("18:15"))
	// Unparseable values pass through untouched.
	assert.Equal(t, "morning", formatClockTime("morning"))
}
