package service

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/gaanavykhari/studio-api/internal/models"
	"github.com/gaanavykhari/studio-api/internal/schedule"
	appErrors "github.com/gaanavykhari/studio-api/pkg/errors"
)

const holidayCacheKey = "holidays:all"

type holidayRepository interface {
	List(ctx context.Context) ([]models.Holiday, error)
	FindOverlapping(ctx context.Context, from, to time.Time) (*models.Holiday, error)
	Create(ctx context.Context, holiday *models.Holiday) error
	Delete(ctx context.Context, id string) error
}

type holidaySessionRepository interface {
	ListInRange(ctx context.Context, from, to time.Time) ([]models.Session, error)
	CancelInRange(ctx context.Context, from, to time.Time) error
	Create(ctx context.Context, session *models.Session) error
}

type holidayStudentLister interface {
	ListAll(ctx context.Context) ([]models.Student, error)
}

type cacheLookupRecorder interface {
	RecordCacheLookup(hit bool)
}

// HolidayCache is the injectable cache used for the holiday list. Implemented
// by repository.CacheRepository; tests substitute their own.
type HolidayCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// HolidayService is the holiday directory: it stores blackout periods,
// answers date lookups through a TTL cache, and runs the cancellation cascade
// when a new period is created.
type HolidayService struct {
	repo     holidayRepository
	sessions holidaySessionRepository
	students holidayStudentLister
	cache    HolidayCache
	cacheTTL time.Duration
	metrics  cacheLookupRecorder
	logger   *zap.Logger
	now      func() time.Time

	mu        sync.Mutex
	lastKnown []models.Holiday
	hasKnown  bool
}

// NewHolidayService constructs the holiday directory.
func NewHolidayService(repo holidayRepository, sessions holidaySessionRepository, students holidayStudentLister, cache HolidayCache, cacheTTL time.Duration, logger *zap.Logger) *HolidayService {
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HolidayService{
		repo:     repo,
		sessions: sessions,
		students: students,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
		now:      time.Now,
	}
}

// SetMetrics attaches a cache lookup recorder. Optional.
func (s *HolidayService) SetMetrics(metrics cacheLookupRecorder) {
	s.metrics = metrics
}

// List returns all holiday periods ascending by start date. Lookups go
// through the cache; a storage failure degrades to the last-known list (or
// an empty one) so scheduling never hard-fails on a holiday outage.
func (s *HolidayService) List(ctx context.Context) []models.Holiday {
	if s.cache != nil {
		var cached []models.Holiday
		if err := s.cache.Get(ctx, holidayCacheKey, &cached); err == nil {
			if s.metrics != nil {
				s.metrics.RecordCacheLookup(true)
			}
			s.remember(cached)
			return cached
		}
		if s.metrics != nil {
			s.metrics.RecordCacheLookup(false)
		}
	}

	holidays, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Warn("holiday list unavailable, serving last known", zap.Error(err))
		return s.known()
	}

	s.remember(holidays)
	if s.cache != nil {
		if err := s.cache.Set(ctx, holidayCacheKey, holidays, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache holiday list", zap.Error(err))
		}
	}
	return holidays
}

// IsHoliday reports whether the date falls inside any holiday period,
// compared at date granularity.
func (s *HolidayService) IsHoliday(ctx context.Context, date time.Time) bool {
	for _, h := range s.List(ctx) {
		if h.Contains(date) {
			return true
		}
	}
	return false
}

// Invalidate clears the cached holiday list. Called on every mutation.
func (s *HolidayService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, holidayCacheKey); err != nil {
		s.logger.Warn("failed to invalidate holiday cache", zap.Error(err))
	}
}

// CreateHolidayRequest describes the holiday creation payload. Dates are ISO
// 8601 calendar dates.
type CreateHolidayRequest struct {
	FromDate    string `json:"from_date" validate:"required"`
	ToDate      string `json:"to_date" validate:"required"`
	Description string `json:"description"`
}

// HolidayCreateResult couples the stored period with the cascade outcome.
type HolidayCreateResult struct {
	Holiday          models.Holiday           `json:"holiday"`
	AffectedStudents []models.AffectedStudent `json:"affected_students"`
}

// Create validates and stores a holiday period, then cancels every session
// falling inside it. The cascade is deliberately best-effort: the holiday is
// already committed when it runs, so a cascade failure yields an empty
// affected-student list instead of rolling back.
func (s *HolidayService) Create(ctx context.Context, req CreateHolidayRequest) (*HolidayCreateResult, error) {
	from, err := time.ParseInLocation("2006-01-02", req.FromDate, time.Local)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "from_date must be an ISO date (YYYY-MM-DD)")
	}
	to, err := time.ParseInLocation("2006-01-02", req.ToDate, time.Local)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "to_date must be an ISO date (YYYY-MM-DD)")
	}
	if from.After(to) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "from_date must be before or equal to to_date")
	}
	today := models.DateOnly(s.now())
	if from.Before(today) {
		return nil, appErrors.Clone(appErrors.ErrPastHoliday, "")
	}

	overlap, err := s.repo.FindOverlapping(ctx, from, to)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check holiday overlap")
	}
	if overlap != nil {
		return nil, appErrors.Clone(appErrors.ErrHolidayOverlap, "")
	}

	holiday := &models.Holiday{FromDate: from, ToDate: to, Description: req.Description}
	if err := s.repo.Create(ctx, holiday); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create holiday")
	}

	affected, err := s.cascade(ctx, from, to, req.Description)
	if err != nil {
		s.logger.Error("holiday cascade failed", zap.String("holiday_id", holiday.ID), zap.Error(err))
		affected = []models.AffectedStudent{}
	}

	s.Invalidate(ctx)

	return &HolidayCreateResult{Holiday: *holiday, AffectedStudents: affected}, nil
}

// Delete removes a holiday period and invalidates the cache.
func (s *HolidayService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "holiday not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete holiday")
	}
	s.Invalidate(ctx)
	return nil
}

// cascade cancels persisted sessions in range and synthesizes canceled
// records for virtual occurrences that have none, returning the deduplicated
// affected students with their impacted dates.
func (s *HolidayService) cascade(ctx context.Context, from, to time.Time, description string) ([]models.AffectedStudent, error) {
	existing, err := s.sessions.ListInRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	type impact struct {
		dates map[string]struct{}
	}
	impacts := make(map[string]*impact)
	recorded := make(map[string]struct{}, len(existing))

	note := func(studentID string, date time.Time) {
		im, ok := impacts[studentID]
		if !ok {
			im = &impact{dates: make(map[string]struct{})}
			impacts[studentID] = im
		}
		im.dates[models.DateOnly(date).Format("2006-01-02")] = struct{}{}
	}

	for _, sess := range existing {
		recorded[sess.StudentID+"|"+models.DateOnly(sess.Date).Format("2006-01-02")] = struct{}{}
		if sess.Status != models.SessionStatusCanceled {
			note(sess.StudentID, sess.Date)
		}
	}

	if err := s.sessions.CancelInRange(ctx, from, to); err != nil {
		return nil, err
	}

	students, err := s.students.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	notes := description
	if notes == "" {
		notes = "Holiday"
	}

	// The holiday set is deliberately empty here: the dates being walked ARE
	// the holiday under creation, and the usual holiday skip would hide the
	// very occurrences that need cancellation records.
	for d := models.DateOnly(from); !d.After(models.DateOnly(to)); d = d.AddDate(0, 0, 1) {
		for _, student := range students {
			if !schedule.OccursOn(student, d, nil) {
				continue
			}
			key := student.ID + "|" + d.Format("2006-01-02")
			if _, ok := recorded[key]; ok {
				continue
			}
			record := &models.Session{
				StudentID: student.ID,
				Date:      d,
				Time:      student.Schedule.Time,
				Status:    models.SessionStatusCanceled,
				Notes:     notes,
			}
			if err := s.sessions.Create(ctx, record); err != nil {
				return nil, err
			}
			recorded[key] = struct{}{}
			note(student.ID, d)
		}
	}

	nameIndex := make(map[string]models.Student, len(students))
	for _, st := range students {
		nameIndex[st.ID] = st
	}

	affected := make([]models.AffectedStudent, 0, len(impacts))
	for studentID, im := range impacts {
		dates := make([]string, 0, len(im.dates))
		for date := range im.dates {
			dates = append(dates, date)
		}
		sort.Strings(dates)

		entry := models.AffectedStudent{StudentID: studentID, Dates: dates}
		if st, ok := nameIndex[studentID]; ok {
			entry.Name = st.Name
			entry.Phone = st.Phone
		}
		affected = append(affected, entry)
	}
	sort.Slice(affected, func(i, j int) bool { return affected[i].Name < affected[j].Name })

	return affected, nil
}

func (s *HolidayService) remember(holidays []models.Holiday) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastKnown = holidays
	s.hasKnown = true
}

func (s *HolidayService) known() []models.Holiday {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasKnown {
		return nil
	}
	return s.lastKnown
}
