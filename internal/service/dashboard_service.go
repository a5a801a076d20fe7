package service

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"

	"github.com/gaanavykhari/studio-api/internal/dto"
	"github.com/gaanavykhari/studio-api/internal/models"
	appErrors "github.com/gaanavykhari/studio-api/pkg/errors"
)

type dashboardStudentLister interface {
	ListAll(ctx context.Context) ([]models.Student, error)
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

type dashboardSessionLister interface {
	ListInRange(ctx context.Context, from, to time.Time) ([]models.Session, error)
}

type dashboardPaymentSummer interface {
	SumByStatus(ctx context.Context) (map[models.PaymentStatus]float64, error)
}

// DashboardService aggregates studio-level and per-student activity counts.
type DashboardService struct {
	students dashboardStudentLister
	sessions dashboardSessionLister
	payments dashboardPaymentSummer
	logger   *zap.Logger
	now      func() time.Time
}

// NewDashboardService constructs the dashboard service.
func NewDashboardService(students dashboardStudentLister, sessions dashboardSessionLister, payments dashboardPaymentSummer, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		students: students,
		sessions: sessions,
		payments: payments,
		logger:   logger,
		now:      time.Now,
	}
}

// Summary reports active student count, this week's session activity and
// revenue totals. Partial storage faults degrade the affected figures to
// zero rather than failing the whole view.
func (s *DashboardService) Summary(ctx context.Context) (*dto.DashboardResponse, error) {
	out := &dto.DashboardResponse{}

	students, err := s.students.ListAll(ctx)
	if err != nil {
		s.logger.Warn("dashboard: failed to list students", zap.Error(err))
	} else {
		out.ActiveStudents = len(students)
	}

	today := models.DateOnly(s.now())
	weekStart := today.AddDate(0, 0, -int(today.Weekday()))
	// ListInRange is end-inclusive, so the week closes on Saturday.
	weekEnd := weekStart.AddDate(0, 0, 6)
	sessions, err := s.sessions.ListInRange(ctx, weekStart, weekEnd)
	if err != nil {
		s.logger.Warn("dashboard: failed to list sessions", zap.Error(err))
	} else {
		out.SessionsThisWeek = len(sessions)
		attended, canceled, missed := countByStatus(sessions)
		out.AttendedCount = attended
		out.CanceledCount = canceled
		out.MissedCount = missed
		out.AttendanceRate = attendanceRate(attended, missed)
	}

	sums, err := s.payments.SumByStatus(ctx)
	if err != nil {
		s.logger.Warn("dashboard: failed to sum payments", zap.Error(err))
	} else {
		out.RevenueCollected = sums[models.PaymentStatusPaid]
		out.RevenuePending = sums[models.PaymentStatusPending]
	}

	return out, nil
}

// StudentStats reports one student's session counts over the trailing 90 days.
func (s *DashboardService) StudentStats(ctx context.Context, studentID string) (*dto.StudentStatsResponse, error) {
	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	today := models.DateOnly(s.now())
	from := today.AddDate(0, 0, -90)
	sessions, err := s.sessions.ListInRange(ctx, from, today)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sessions")
	}

	own := make([]models.Session, 0, len(sessions))
	for _, session := range sessions {
		if session.StudentID == studentID {
			own = append(own, session)
		}
	}
	attended, canceled, missed := countByStatus(own)

	return &dto.StudentStatsResponse{
		StudentID:      student.ID,
		StudentName:    student.Name,
		AttendedCount:  attended,
		CanceledCount:  canceled,
		MissedCount:    missed,
		AttendanceRate: attendanceRate(attended, missed),
	}, nil
}

func countByStatus(sessions []models.Session) (attended, canceled, missed int) {
	for _, session := range sessions {
		switch session.Status {
		case models.SessionStatusAttended:
			attended++
		case models.SessionStatusCanceled:
			canceled++
		case models.SessionStatusMissed:
			missed++
		}
	}
	return attended, canceled, missed
}

// attendanceRate excludes cancellations: a canceled session is neither
// attended nor missed from the student's perspective.
func attendanceRate(attended, missed int) float64 {
	total := attended + missed
	if total == 0 {
		return 0
	}
	return float64(attended) / float64(total)
}
