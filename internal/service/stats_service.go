package service

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spec-kit/grievance-service/internal/auth"
	"github.com/spec-kit/grievance-service/internal/domain"
	"github.com/spec-kit/grievance-service/internal/repository"
	apperrors "github.com/spec-kit/grievance-service/pkg/util/errorutil"
)

const (
	quickStatsKey      = "stats:quick"
	departmentStatsKey = "stats:departments"
	monthlyStatsKey    = "stats:monthly"

	trendMonths = 6
)

var statsCacheKeys = []string{quickStatsKey, departmentStatsKey, monthlyStatsKey}

// QuickStats is the admin dashboard headline.
type QuickStats struct {
	Total       int64 `json:"total"`
	Active      int64 `json:"active"`
	Resolved    int64 `json:"resolved"`
	Escalated   int64 `json:"escalated"`
	Departments int   `json:"departments"`
}

// Dashboard bundles every admin aggregate.
type Dashboard struct {
	Quick       QuickStats               `json:"quick"`
	Departments []domain.DepartmentStats `json:"departments"`
	Monthly     []domain.MonthlyStats    `json:"monthly"`
}

// StatsService computes dashboard aggregates, caching admin views.
type StatsService struct {
	grievances repository.GrievanceRepository
	cache      StatsCache
	ttl        time.Duration
	logger     *zap.Logger
	now        func() time.Time
}

// StatsDependencies bundles collaborators for StatsService.
type StatsDependencies struct {
	GrievanceRepo repository.GrievanceRepository
	Cache         StatsCache
	TTL           time.Duration
	Logger        *zap.Logger
	Now           func() time.Time
}

// NewStatsService constructs the service.
func NewStatsService(deps StatsDependencies) *StatsService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatsService{
		grievances: deps.GrievanceRepo,
		cache:      deps.Cache,
		ttl:        deps.TTL,
		logger:     logger,
		now:        now,
	}
}

// Summary returns status counts scoped to the caller: own grievances for a
// petitioner, the department for an official, everything for an admin.
func (s *StatsService) Summary(ctx context.Context, p domain.Principal) (domain.StatusCounts, error) {
	if err := auth.CheckRole(p, auth.ActionRead); err != nil {
		return domain.StatusCounts{}, err
	}
	var filter repository.StatsFilter
	switch p.Role {
	case domain.RolePetitioner:
		id := p.ID
		filter.PetitionerID = &id
	case domain.RoleOfficial:
		dept := p.Department
		filter.Department = &dept
	}
	counts, err := s.grievances.CountByStatus(ctx, filter)
	if err != nil {
		return domain.StatusCounts{}, apperrors.NewInternalError(err)
	}
	return counts, nil
}

// QuickStats returns the admin headline numbers.
func (s *StatsService) QuickStats(ctx context.Context, p domain.Principal) (QuickStats, error) {
	if err := auth.CheckRole(p, auth.ActionViewStats); err != nil {
		return QuickStats{}, err
	}
	var out QuickStats
	err := s.cached(ctx, quickStatsKey, &out, func() error {
		counts, err := s.grievances.CountByStatus(ctx, repository.StatsFilter{})
		if err != nil {
			return err
		}
		out = QuickStats{
			Total:       counts.Total,
			Active:      counts.Active(),
			Resolved:    counts.Resolved,
			Escalated:   counts.Escalated,
			Departments: len(domain.Departments),
		}
		return nil
	})
	return out, err
}

// DepartmentStats returns per-department counts in display order.
func (s *StatsService) DepartmentStats(ctx context.Context, p domain.Principal) ([]domain.DepartmentStats, error) {
	if err := auth.CheckRole(p, auth.ActionViewStats); err != nil {
		return nil, err
	}
	var out []domain.DepartmentStats
	err := s.cached(ctx, departmentStatsKey, &out, func() error {
		var err error
		out, err = s.grievances.CountByDepartment(ctx)
		return err
	})
	return out, err
}

// MonthlyStats returns creation and resolution counts for the last six
// months, oldest first, with empty months filled in.
func (s *StatsService) MonthlyStats(ctx context.Context, p domain.Principal) ([]domain.MonthlyStats, error) {
	if err := auth.CheckRole(p, auth.ActionViewStats); err != nil {
		return nil, err
	}
	var out []domain.MonthlyStats
	err := s.cached(ctx, monthlyStatsKey, &out, func() error {
		months := lastMonths(s.now(), trendMonths)
		since, _ := time.Parse("2006-01", months[0])
		rows, err := s.grievances.MonthlyTrend(ctx, since)
		if err != nil {
			return err
		}
		out = fillMonths(months, rows)
		return nil
	})
	return out, err
}

// Dashboard computes all admin aggregates concurrently.
func (s *StatsService) Dashboard(ctx context.Context, p domain.Principal) (*Dashboard, error) {
	if err := auth.CheckRole(p, auth.ActionViewStats); err != nil {
		return nil, err
	}
	var d Dashboard
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		d.Quick, err = s.QuickStats(gctx, p)
		return err
	})
	g.Go(func() error {
		var err error
		d.Departments, err = s.DepartmentStats(gctx, p)
		return err
	})
	g.Go(func() error {
		var err error
		d.Monthly, err = s.MonthlyStats(gctx, p)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &d, nil
}

// cached serves dest from the cache when possible, otherwise runs compute
// and stores the result. Cache failures only degrade to recomputation.
func (s *StatsService) cached(ctx context.Context, key string, dest any, compute func() error) error {
	if s.cache != nil {
		hit, err := s.cache.GetJSON(ctx, key, dest)
		if err != nil {
			s.logger.Debug("stats cache read", zap.String("key", key), zap.Error(err))
		}
		if hit {
			return nil
		}
	}
	if err := compute(); err != nil {
		return apperrors.NewInternalError(err)
	}
	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, key, dest, s.ttl); err != nil {
			s.logger.Debug("stats cache write", zap.String("key", key), zap.Error(err))
		}
	}
	return nil
}

// lastMonths lists n month keys ending with the month of now.
func lastMonths(now time.Time, n int) []string {
	now = now.UTC()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	months := make([]string, n)
	for i := 0; i < n; i++ {
		months[i] = first.AddDate(0, i-n+1, 0).Format("2006-01")
	}
	return months
}

func fillMonths(months []string, rows []domain.MonthlyStats) []domain.MonthlyStats {
	byMonth := make(map[string]domain.MonthlyStats, len(rows))
	for _, r := range rows {
		byMonth[r.Month] = r
	}
	out := make([]domain.MonthlyStats, len(months))
	for i, m := range months {
		row, ok := byMonth[m]
		if !ok {
			row = domain.MonthlyStats{Month: m}
		}
		out[i] = row
	}
	return out
}
