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

type studentRepository interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error)
	FindByID(ctx context.Context, id string) (*models.Student, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id string) error
}

// SchedulePayload carries the recurrence rule and class time of a student.
type SchedulePayload struct {
	Frequency   string `json:"frequency" validate:"required"`
	DaysOfWeek  []int  `json:"days_of_week"`
	DaysOfMonth []int  `json:"days_of_month"`
	Time        string `json:"time" validate:"required,len=5"`
}

// CreateStudentRequest holds payload for enrolling students.
type CreateStudentRequest struct {
	Name          string          `json:"name" validate:"required"`
	Phone         string          `json:"phone" validate:"required"`
	Email         string          `json:"email" validate:"omitempty,email"`
	FeePerClasses int             `json:"fee_per_classes" validate:"gte=0"`
	FeeAmount     float64         `json:"fee_amount" validate:"gte=0"`
	Schedule      SchedulePayload `json:"schedule" validate:"required"`
	InductionDate time.Time       `json:"induction_date" validate:"required"`
}

// UpdateStudentRequest holds payload for editing students.
type UpdateStudentRequest struct {
	Name          string          `json:"name" validate:"required"`
	Phone         string          `json:"phone" validate:"required"`
	Email         string          `json:"email" validate:"omitempty,email"`
	FeePerClasses int             `json:"fee_per_classes" validate:"gte=0"`
	FeeAmount     float64         `json:"fee_amount" validate:"gte=0"`
	Schedule      SchedulePayload `json:"schedule" validate:"required"`
	InductionDate time.Time       `json:"induction_date" validate:"required"`
	LastClassDate *time.Time      `json:"last_class_date"`
}

// StudentService handles enrollment use-cases.
type StudentService struct {
	repo      studentRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs the student service.
func NewStudentService(repo studentRepository, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, validator: validate, logger: logger}
}

// List returns students and pagination metadata.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, *models.Pagination, error) {
	students, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return students, pagination, nil
}

// Get returns a student by ID.
func (s *StudentService) Get(ctx context.Context, id string) (*models.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	return student, nil
}

// Create enrolls a new student. The induction date is normalized to midnight
// so all later date comparisons operate on calendar dates.
func (s *StudentService) Create(ctx context.Context, req CreateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	sched, err := buildSchedule(req.Schedule)
	if err != nil {
		return nil, err
	}
	student := &models.Student{
		Name:          req.Name,
		Phone:         req.Phone,
		Email:         req.Email,
		FeePerClasses: req.FeePerClasses,
		FeeAmount:     req.FeeAmount,
		Schedule:      sched,
		InductionDate: models.DateOnly(req.InductionDate),
	}
	if err := s.repo.Create(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student")
	}
	return student, nil
}

// Update replaces a student's details, including the active recurrence rule.
// A student has exactly one rule at a time; no history is kept.
func (s *StudentService) Update(ctx context.Context, id string, req UpdateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	sched, err := buildSchedule(req.Schedule)
	if err != nil {
		return nil, err
	}
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	student.Name = req.Name
	student.Phone = req.Phone
	student.Email = req.Email
	student.FeePerClasses = req.FeePerClasses
	student.FeeAmount = req.FeeAmount
	student.Schedule = sched
	student.InductionDate = models.DateOnly(req.InductionDate)
	student.LastClassDate = req.LastClassDate
	if err := s.repo.Update(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update student")
	}
	return student, nil
}

// Delete removes a student. Historic session records are left untouched.
func (s *StudentService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete student")
	}
	return nil
}

func buildSchedule(payload SchedulePayload) (models.Schedule, error) {
	sched := models.Schedule{
		RecurrenceRule: models.RecurrenceRule{
			Frequency:   models.Frequency(payload.Frequency),
			DaysOfWeek:  payload.DaysOfWeek,
			DaysOfMonth: payload.DaysOfMonth,
		},
		Time: payload.Time,
	}
	if err := sched.Validate(); err != nil {
		return models.Schedule{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule")
	}
	return sched, nil
}
