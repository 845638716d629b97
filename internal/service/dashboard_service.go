package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/sma-accompaniment-dashboard/internal/dto"
	"github.com/noah-isme/sma-accompaniment-dashboard/internal/models"
	"github.com/noah-isme/sma-accompaniment-dashboard/pkg/logger"
)

const (
	unknownStudent = "Desconocido"
	unassigned     = "Sin asignar"
)

type recentReportLister interface {
	List(ctx context.Context, limit int) ([]models.Report, error)
}

type referenceProvider interface {
	AssignmentOptions(ctx context.Context) ([]dto.AssignmentOption, error)
	Courses(ctx context.Context, section string) ([]string, error)
}

// DashboardServiceConfig tunes dashboard behaviour.
type DashboardServiceConfig struct {
	CacheTTL    time.Duration
	RecentLimit int
}

// DashboardServiceParams groups constructor dependencies.
type DashboardServiceParams struct {
	Reports   recentReportLister
	Directory referenceProvider
	Cache     *CacheService
	Logger    *zap.Logger
	Config    DashboardServiceConfig
}

// DashboardService composes the dashboard: recent activity with its counters
// and the reference data the report form needs.
type DashboardService struct {
	reports   recentReportLister
	directory referenceProvider
	cache     *CacheService
	logger    *zap.Logger
	cfg       DashboardServiceConfig
}

// NewDashboardService constructs a DashboardService with sane defaults.
func NewDashboardService(params DashboardServiceParams) *DashboardService {
	cfg := params.Config
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = time.Minute
	}
	if cfg.RecentLimit <= 0 {
		cfg.RecentLimit = 10
	}
	log := params.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &DashboardService{
		reports:   params.Reports,
		directory: params.Directory,
		cache:     params.Cache,
		logger:    log,
		cfg:       cfg,
	}
}

// Summary loads the dashboard for userID. Recent reports are required; the
// assignment options and courses degrade to empty lists when unavailable.
func (s *DashboardService) Summary(ctx context.Context, userID int64, section string) (*dto.DashboardResponse, error) {
	log := logger.FromContext(ctx, s.logger)
	summary := &dto.DashboardResponse{
		Recent:    []dto.RecentReport{},
		Assignees: []dto.AssignmentOption{},
		Courses:   []string{},
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		recent, err := s.recent(gctx, userID)
		if err != nil {
			return err
		}
		summary.Recent = recent
		summary.Counters = countReports(recent)
		return nil
	})
	if s.directory != nil {
		g.Go(func() error {
			options, err := s.directory.AssignmentOptions(gctx)
			if err != nil {
				log.Warn("assignment options unavailable", zap.Error(err))
				return nil
			}
			summary.Assignees = options
			return nil
		})
		g.Go(func() error {
			courses, err := s.directory.Courses(gctx, section)
			if err != nil {
				log.Warn("courses unavailable", zap.Error(err))
				return nil
			}
			summary.Courses = courses
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return summary, nil
}

func (s *DashboardService) recent(ctx context.Context, userID int64) ([]dto.RecentReport, error) {
	key := fmt.Sprintf("dash:recent:%d", userID)
	return Remember(ctx, s.cache, key, s.cfg.CacheTTL, func(ctx context.Context) ([]dto.RecentReport, error) {
		reports, err := s.reports.List(ctx, s.cfg.RecentLimit)
		if err != nil {
			return nil, err
		}
		items := make([]dto.RecentReport, 0, len(reports))
		for _, report := range reports {
			items = append(items, recentReport(report))
		}
		return items, nil
	})
}

// Refresh drops the cached dashboard views so the next load reflects a newly
// created report.
func (s *DashboardService) Refresh(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, "dash:*"); err != nil {
		logger.FromContext(ctx, s.logger).Warn("dashboard refresh failed", zap.Error(err))
	}
}

func recentReport(report models.Report) dto.RecentReport {
	item := dto.RecentReport{
		ID:          report.ID,
		StudentName: unknownStudent,
		Purpose:     report.Purpose,
		Status:      report.Status,
		AssignedTo:  unassigned,
		CreatedAt:   report.CreatedAt,
	}
	if report.Student != nil && report.Student.FullName != "" {
		item.StudentName = report.Student.FullName
	}
	if report.AssignedTo != nil {
		if first := FirstName(report.AssignedTo.FullName); first != "" {
			item.AssignedTo = first
		}
	}
	return item
}

func countReports(items []dto.RecentReport) dto.DashboardCounters {
	counters := dto.DashboardCounters{Total: len(items)}
	for _, item := range items {
		switch item.Status {
		case models.ReportStatusScheduled:
			counters.Active++
			counters.Scheduled++
		case models.ReportStatusFollowUp:
			counters.Active++
		case models.ReportStatusAttended:
			counters.Attended++
		}
	}
	return counters
}
