package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/gaanavykhari/studio-api/internal/models"
	appErrors "github.com/gaanavykhari/studio-api/pkg/errors"
)

type sessionRepository interface {
	List(ctx context.Context, filter models.SessionFilter) ([]models.SessionDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.SessionDetail, error)
	Create(ctx context.Context, session *models.Session) error
	Update(ctx context.Context, session *models.Session) error
	UpdateStatus(ctx context.Context, id string, status models.SessionStatus) error
	Delete(ctx context.Context, id string) error
}

type sessionStudentGetter interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

type sessionNotifier interface {
	ComposeCancellation(facts CancellationFacts) error
	ComposeReschedule(facts RescheduleFacts) error
}

// CreateSessionRequest books an ad-hoc session.
type CreateSessionRequest struct {
	StudentID string    `json:"student_id" validate:"required"`
	Date      time.Time `json:"date" validate:"required"`
	Time      string    `json:"time" validate:"required,len=5"`
	Notes     string    `json:"notes"`
}

// UpdateSessionRequest edits an existing session record.
type UpdateSessionRequest struct {
	Date  time.Time `json:"date" validate:"required"`
	Time  string    `json:"time" validate:"required,len=5"`
	Notes string    `json:"notes"`
}

// RescheduleSessionRequest moves a session to a new slot.
type RescheduleSessionRequest struct {
	NewDate time.Time `json:"new_date" validate:"required"`
	NewTime string    `json:"new_time" validate:"required,len=5"`
}

// SessionService manages persisted occurrence records: ad-hoc bookings,
// attendance marks, cancellations and reschedules.
type SessionService struct {
	repo      sessionRepository
	students  sessionStudentGetter
	notifier  sessionNotifier
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSessionService constructs the session service.
func NewSessionService(repo sessionRepository, students sessionStudentGetter, notifier sessionNotifier, validate *validator.Validate, logger *zap.Logger) *SessionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionService{repo: repo, students: students, notifier: notifier, validator: validate, logger: logger}
}

// List returns session records with student context.
func (s *SessionService) List(ctx context.Context, filter models.SessionFilter) ([]models.SessionDetail, *models.Pagination, error) {
	sessions, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sessions")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 50
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return sessions, pagination, nil
}

// Get returns a session by ID.
func (s *SessionService) Get(ctx context.Context, id string) (*models.SessionDetail, error) {
	session, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "session not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session")
	}
	return session, nil
}

// Create books a new ad-hoc session in scheduled state. Records are created
// lazily: a recurring student's sessions exist only virtually until an
// exception such as this booking occurs.
func (s *SessionService) Create(ctx context.Context, req CreateSessionRequest) (*models.Session, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid session payload")
	}
	if _, err := s.students.FindByID(ctx, req.StudentID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	session := &models.Session{
		StudentID: req.StudentID,
		Date:      models.DateOnly(req.Date),
		Time:      req.Time,
		Status:    models.SessionStatusScheduled,
		Notes:     req.Notes,
	}
	if err := s.repo.Create(ctx, session); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create session")
	}
	return session, nil
}

// Update edits a session's slot and notes.
func (s *SessionService) Update(ctx context.Context, id string, req UpdateSessionRequest) (*models.SessionDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid session payload")
	}
	session, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	session.Date = models.DateOnly(req.Date)
	session.Time = req.Time
	session.Notes = req.Notes
	if err := s.repo.Update(ctx, &session.Session); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update session")
	}
	return session, nil
}

// UpdateStatus transitions a session's lifecycle state. Cancellations
// additionally compose an outbox message with the session facts.
func (s *SessionService) UpdateStatus(ctx context.Context, id string, status models.SessionStatus) (*models.SessionDetail, error) {
	if !status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown session status")
	}
	session, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "session not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update session status")
	}
	if status == models.SessionStatusCanceled && s.notifier != nil {
		if err := s.notifier.ComposeCancellation(CancellationFacts{
			StudentID: session.StudentID,
			Name:      session.StudentName,
			Phone:     session.StudentPhone,
			Date:      session.Date,
			Time:      session.Time,
		}); err != nil {
			s.logger.Warn("failed to queue cancellation message", zap.String("session_id", id), zap.Error(err))
		}
	}
	session.Status = status
	return session, nil
}

// Reschedule moves a session to a new slot and composes a reschedule
// message carrying both the original and the replacement times.
func (s *SessionService) Reschedule(ctx context.Context, id string, req RescheduleSessionRequest) (*models.SessionDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid reschedule payload")
	}
	session, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	originalDate := session.Date
	originalTime := session.Time

	session.Date = models.DateOnly(req.NewDate)
	session.Time = req.NewTime
	session.Status = models.SessionStatusScheduled
	if err := s.repo.Update(ctx, &session.Session); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reschedule session")
	}

	if s.notifier != nil {
		if err := s.notifier.ComposeReschedule(RescheduleFacts{
			CancellationFacts: CancellationFacts{
				StudentID: session.StudentID,
				Name:      session.StudentName,
				Phone:     session.StudentPhone,
				Date:      originalDate,
				Time:      originalTime,
			},
			NewDate: session.Date,
			NewTime: session.Time,
		}); err != nil {
			s.logger.Warn("failed to queue reschedule message", zap.String("session_id", id), zap.Error(err))
		}
	}
	return session, nil
}

// Delete removes a session record.
func (s *SessionService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete session")
	}
	return nil
}
