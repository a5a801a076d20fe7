package service

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/gaanavykhari/studio-api/internal/dto"
	"github.com/gaanavykhari/studio-api/internal/models"
	"github.com/gaanavykhari/studio-api/internal/schedule"
)

type scheduleStudentRepository interface {
	ListAll(ctx context.Context) ([]models.Student, error)
}

type scheduleSessionRepository interface {
	ListByDate(ctx context.Context, date time.Time) ([]models.SessionDetail, error)
	ListScheduledAfter(ctx context.Context, after time.Time) ([]models.SessionDetail, error)
}

type holidayDirectory interface {
	List(ctx context.Context) []models.Holiday
	IsHoliday(ctx context.Context, date time.Time) bool
}

type evaluationRecorder interface {
	RecordEvaluation()
}

// ScheduleService reconciles virtual occurrences computed from recurrence
// rules with persisted session records into day, today and upcoming views.
// Storage faults degrade to under-reporting; a view never hard-fails.
type ScheduleService struct {
	students      scheduleStudentRepository
	sessions      scheduleSessionRepository
	holidays      holidayDirectory
	metrics       evaluationRecorder
	logger        *zap.Logger
	now           func() time.Time
	upcomingLimit int
}

// NewScheduleService constructs the schedule view service.
func NewScheduleService(students scheduleStudentRepository, sessions scheduleSessionRepository, holidays holidayDirectory, upcomingLimit int, logger *zap.Logger) *ScheduleService {
	if upcomingLimit <= 0 {
		upcomingLimit = 5
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{
		students:      students,
		sessions:      sessions,
		holidays:      holidays,
		logger:        logger,
		now:           time.Now,
		upcomingLimit: upcomingLimit,
	}
}

// SetMetrics attaches an evaluation recorder. Optional.
func (s *ScheduleService) SetMetrics(metrics evaluationRecorder) {
	s.metrics = metrics
}

// DayView returns the merged schedule for a single date plus whether that
// date is a holiday. Virtual entries come first; persisted non-canceled
// records are appended unless a virtual entry already holds their
// (student, time) key.
func (s *ScheduleService) DayView(ctx context.Context, date time.Time) *dto.DayViewResponse {
	return s.merge(ctx, date, "")
}

// TodayView returns the merged schedule for today, restricting persisted
// records to scheduled status. This backs the live daily worklist.
func (s *ScheduleService) TodayView(ctx context.Context) *dto.DayViewResponse {
	return s.merge(ctx, s.now(), models.SessionStatusScheduled)
}

func (s *ScheduleService) merge(ctx context.Context, date time.Time, statusFilter models.SessionStatus) *dto.DayViewResponse {
	day := models.DateOnly(date)
	holidays := s.holidays.List(ctx)

	resp := &dto.DayViewResponse{
		Entries:   []dto.DayEntry{},
		IsHoliday: s.holidays.IsHoliday(ctx, day),
	}

	seen := make(map[string]struct{})

	students, err := s.students.ListAll(ctx)
	if err != nil {
		s.logger.Warn("day view: student roster unavailable", zap.Error(err))
	}
	for _, student := range students {
		if s.metrics != nil {
			s.metrics.RecordEvaluation()
		}
		if !schedule.OccursOn(student, day, holidays) {
			continue
		}
		seen[student.ID+"|"+student.Schedule.Time] = struct{}{}
		resp.Entries = append(resp.Entries, dto.DayEntry{
			StudentID:   student.ID,
			StudentName: student.Name,
			Time:        student.Schedule.Time,
			Source:      "schedule",
			Status:      string(models.SessionStatusScheduled),
		})
	}

	records, err := s.sessions.ListByDate(ctx, day)
	if err != nil {
		s.logger.Warn("day view: session records unavailable", zap.Error(err))
	}
	for _, record := range records {
		if statusFilter != "" && record.Status != statusFilter {
			continue
		}
		key := record.StudentID + "|" + record.Time
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		resp.Entries = append(resp.Entries, dto.DayEntry{
			StudentID:   record.StudentID,
			StudentName: record.StudentName,
			Time:        record.Time,
			Source:      "adhoc",
			Status:      string(record.Status),
			SessionID:   record.ID,
		})
	}

	sort.SliceStable(resp.Entries, func(i, j int) bool {
		return resp.Entries[i].Time < resp.Entries[j].Time
	})
	return resp
}

// UpcomingView returns the next occurrence per student plus future ad-hoc
// bookings, nearest first, truncated to limit.
func (s *ScheduleService) UpcomingView(ctx context.Context, limit int) []dto.UpcomingSession {
	if limit <= 0 {
		limit = s.upcomingLimit
	}

	today := models.DateOnly(s.now())
	holidays := s.holidays.List(ctx)

	type candidate struct {
		entry dto.UpcomingSession
		date  time.Time
	}
	var candidates []candidate
	seen := make(map[string]struct{})

	students, err := s.students.ListAll(ctx)
	if err != nil {
		s.logger.Warn("upcoming view: student roster unavailable", zap.Error(err))
	}
	for _, student := range students {
		if s.metrics != nil {
			s.metrics.RecordEvaluation()
		}
		next, ok := schedule.NextAfter(student, s.now(), holidays)
		if !ok {
			continue
		}
		dateStr := next.Format("2006-01-02")
		seen[student.ID+"|"+dateStr] = struct{}{}
		candidates = append(candidates, candidate{
			date: next,
			entry: dto.UpcomingSession{
				StudentID:   student.ID,
				StudentName: student.Name,
				Date:        dateStr,
				Time:        student.Schedule.Time,
				DaysFromNow: daysBetween(today, next),
			},
		})
	}

	records, err := s.sessions.ListScheduledAfter(ctx, today)
	if err != nil {
		s.logger.Warn("upcoming view: session records unavailable", zap.Error(err))
	}
	for _, record := range records {
		day := models.DateOnly(record.Date)
		dateStr := day.Format("2006-01-02")
		key := record.StudentID + "|" + dateStr
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		candidates = append(candidates, candidate{
			date: day,
			entry: dto.UpcomingSession{
				StudentID:   record.StudentID,
				StudentName: record.StudentName,
				Date:        dateStr,
				Time:        record.Time,
				DaysFromNow: daysBetween(today, day),
				IsAdhoc:     true,
			},
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].date.Before(candidates[j].date)
	})
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	upcoming := make([]dto.UpcomingSession, len(candidates))
	for i, c := range candidates {
		upcoming[i] = c.entry
	}
	return upcoming
}

func daysBetween(from, to time.Time) int {
	return int(models.DateOnly(to).Sub(models.DateOnly(from)).Hours() / 24)
}
