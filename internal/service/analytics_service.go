package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-accompaniment-dashboard/internal/dto"
	"github.com/noah-isme/sma-accompaniment-dashboard/internal/models"
	appErrors "github.com/noah-isme/sma-accompaniment-dashboard/pkg/errors"
	"github.com/noah-isme/sma-accompaniment-dashboard/pkg/export"
)

type analyticsSource interface {
	Analytics(ctx context.Context) (*models.Analytics, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

// AnalyticsService serves the school-wide report statistics and their exports.
type AnalyticsService struct {
	source   analyticsSource
	cache    *CacheService
	csv      csvRenderer
	pdf      pdfRenderer
	logger   *zap.Logger
	cacheTTL time.Duration
	now      func() time.Time
}

// NewAnalyticsService constructs an AnalyticsService. Nil renderers default to
// the pkg/export implementations.
func NewAnalyticsService(source analyticsSource, cache *CacheService, cacheTTL time.Duration, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *AnalyticsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &AnalyticsService{
		source:   source,
		cache:    cache,
		csv:      csv,
		pdf:      pdf,
		logger:   logger,
		cacheTTL: cacheTTL,
		now:      time.Now,
	}
}

// Summary returns the aggregate statistics.
func (s *AnalyticsService) Summary(ctx context.Context) (*models.Analytics, error) {
	return Remember(ctx, s.cache, "analytics:summary", s.cacheTTL, func(ctx context.Context) (*models.Analytics, error) {
		analytics, err := s.source.Analytics(ctx)
		if err != nil {
			return nil, err
		}
		if analytics.StudentRanking == nil {
			analytics.StudentRanking = []models.StudentRanking{}
		}
		return analytics, nil
	})
}

// Export renders the statistics as csv or pdf.
func (s *AnalyticsService) Export(ctx context.Context, format string) (*dto.ExportFile, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format != "csv" && format != "pdf" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	analytics, err := s.Summary(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	dataset := analyticsDataset(analytics, now)
	filename := fmt.Sprintf("informe-acompanamiento-%s.%s", now.Format("20060102"), format)

	var (
		payload     []byte
		contentType string
	)
	switch format {
	case "csv":
		payload, err = s.csv.Render(dataset)
		contentType = "text/csv; charset=utf-8"
	default:
		payload, err = s.pdf.Render(dataset)
		contentType = "application/pdf"
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	s.logger.Info("analytics exported", zap.String("format", format), zap.Int("bytes", len(payload)))
	return &dto.ExportFile{Filename: filename, ContentType: contentType, Payload: payload}, nil
}

func analyticsDataset(a *models.Analytics, generatedAt time.Time) export.Dataset {
	totals := export.Section{
		Title:   "Resumen",
		Headers: []string{"Indicador", "Valor"},
		Rows: [][]string{
			{"Total de reportes", strconv.Itoa(a.TotalReports)},
			{"Estudiantes con reportes", strconv.Itoa(a.TotalStudents)},
			{"Generado", generatedAt.Format("2006-01-02 15:04 MST")},
		},
	}

	ranking := export.Section{
		Title:   "Estudiantes con más reportes",
		Headers: []string{"Estudiante", "Curso", "Reportes"},
	}
	for _, entry := range a.StudentRanking {
		ranking.Rows = append(ranking.Rows, []string{entry.Name, entry.Course, strconv.Itoa(entry.Count)})
	}

	return export.Dataset{
		Title: "Informe de acompañamiento",
		Sections: []export.Section{
			totals,
			countSection("Por estado", "Estado", a.ByStatus),
			countSection("Por fin educativo", "Fin educativo", a.ByPurpose),
			countSection("Por curso", "Curso", a.ByCourse),
			ranking,
		},
	}
}

// countSection lists counts sorted by descending count, then by key.
func countSection(title, label string, counts map[string]int) export.Section {
	keys := make([]string, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	section := export.Section{Title: title, Headers: []string{label, "Reportes"}}
	for _, key := range keys {
		section.Rows = append(section.Rows, []string{key, strconv.Itoa(counts[key])})
	}
	return section
}
