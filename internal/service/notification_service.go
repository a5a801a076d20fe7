package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/gaanavykhari/studio-api/internal/models"
	"github.com/gaanavykhari/studio-api/pkg/config"
	"github.com/gaanavykhari/studio-api/pkg/jobs"
)

type notificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	ListByStudent(ctx context.Context, studentID string) ([]models.Notification, error)
}

// CancellationFacts carries the structured facts of a canceled session.
// Message formatting happens here; delivery is an external channel.
type CancellationFacts struct {
	StudentID string
	Name      string
	Phone     string
	Date      time.Time
	Time      string
}

// RescheduleFacts extends cancellation facts with the replacement slot.
type RescheduleFacts struct {
	CancellationFacts
	NewDate time.Time
	NewTime string
}

// NotificationService composes cancellation and reschedule messages and
// hands them to a background queue that persists them in the outbox table.
type NotificationService struct {
	repo   notificationRepository
	queue  *jobs.Queue
	cfg    config.NotificationsConfig
	logger *zap.Logger
}

// NewNotificationService constructs the composer and its dispatch queue.
func NewNotificationService(repo notificationRepository, cfg config.NotificationsConfig, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.StudioName == "" {
		cfg.StudioName = "GaanaVykhari"
	}
	if cfg.CountryCode == "" {
		cfg.CountryCode = "91"
	}
	svc := &NotificationService{repo: repo, cfg: cfg, logger: logger}
	svc.queue = jobs.NewQueue("notifications", svc.persist, jobs.QueueConfig{
		Workers:    cfg.WorkerConcurrency,
		MaxRetries: cfg.WorkerRetries,
		RetryDelay: cfg.DispatchRetryDelay,
		Logger:     logger,
	})
	return svc
}

// Start launches the outbox workers.
func (s *NotificationService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the outbox workers.
func (s *NotificationService) Stop() {
	s.queue.Stop()
}

// ComposeCancellation formats a cancellation message and queues it.
func (s *NotificationService) ComposeCancellation(facts CancellationFacts) error {
	if !s.cfg.Enabled {
		return nil
	}
	message := fmt.Sprintf("Hi %s,\n\nThis is to inform you that your class scheduled for %s at %s has been cancelled.\n\n- %s",
		facts.Name, formatShortDate(facts.Date), formatClockTime(facts.Time), s.cfg.StudioName)
	return s.enqueue(models.Notification{
		StudentID: facts.StudentID,
		Kind:      models.NotificationKindCancellation,
		Phone:     facts.Phone,
		Message:   message,
		Link:      s.waLink(facts.Phone),
	})
}

// ComposeReschedule formats a reschedule message and queues it.
func (s *NotificationService) ComposeReschedule(facts RescheduleFacts) error {
	if !s.cfg.Enabled {
		return nil
	}
	message := fmt.Sprintf("Hi %s,\n\nThis is to inform you that your class scheduled for %s at %s has been rescheduled to %s at %s.\n\n- %s",
		facts.Name, formatShortDate(facts.Date), formatClockTime(facts.Time),
		formatShortDate(facts.NewDate), formatClockTime(facts.NewTime), s.cfg.StudioName)
	return s.enqueue(models.Notification{
		StudentID: facts.StudentID,
		Kind:      models.NotificationKindReschedule,
		Phone:     facts.Phone,
		Message:   message,
		Link:      s.waLink(facts.Phone),
	})
}

// ListByStudent returns composed messages for a student.
func (s *NotificationService) ListByStudent(ctx context.Context, studentID string) ([]models.Notification, error) {
	return s.repo.ListByStudent(ctx, studentID)
}

func (s *NotificationService) enqueue(notification models.Notification) error {
	return s.queue.Enqueue(jobs.Job{Type: string(notification.Kind), Payload: notification})
}

func (s *NotificationService) persist(ctx context.Context, job jobs.Job) error {
	notification, ok := job.Payload.(models.Notification)
	if !ok {
		s.logger.Error("notification job with unexpected payload", zap.String("type", job.Type))
		return nil
	}
	return s.repo.Create(ctx, &notification)
}

func (s *NotificationService) waLink(phone string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)
	if !strings.HasPrefix(digits, s.cfg.CountryCode) {
		digits = s.cfg.CountryCode + digits
	}
	return "https://wa.me/" + digits
}

func formatShortDate(date time.Time) string {
	return date.Format("Mon, Jan 2")
}

// formatClockTime renders an HH:MM wall-clock string in 12-hour form,
// falling back to the raw value when it does not parse.
func formatClockTime(clock string) string {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return clock
	}
	return strings.TrimPrefix(t.Format("3:04 PM"), "0")
}
