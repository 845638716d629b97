package service

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-accompaniment-dashboard/internal/models"
	appErrors "github.com/noah-isme/sma-accompaniment-dashboard/pkg/errors"
)

type fakeAnalyticsSource struct {
	analytics *models.Analytics
	err       error
	calls     int
}

func (f *fakeAnalyticsSource) Analytics(context.Context) (*models.Analytics, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	clone := *f.analytics
	return &clone, nil
}

func sampleAnalytics() *models.Analytics {
	return &models.Analytics{
		TotalReports:  12,
		TotalStudents: 9,
		ByStatus:      map[string]int{"PROGRAMADO": 5, "ATENDIDO": 7},
		ByPurpose:     map[string]int{"Académico": 6, "Convivencia": 6},
		ByCourse:      map[string]int{"1102": 4},
		StudentRanking: []models.StudentRanking{
			{Name: "Luis Gómez", Course: "1102", Count: 3},
		},
	}
}

func TestAnalyticsSummaryCached(t *testing.T) {
	source := &fakeAnalyticsSource{analytics: sampleAnalytics()}
	cache := NewCacheService(newMemoryCacheRepo(), nil, time.Minute, nil, true)
	svc := NewAnalyticsService(source, cache, time.Minute, nil, nil, nil)

	first, err := svc.Summary(context.Background())
	require.NoError(t, err)
	second, err := svc.Summary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, source.calls)
	assert.Equal(t, first, second)
}

func TestAnalyticsSummaryDefaultsRanking(t *testing.T) {
	source := &fakeAnalyticsSource{analytics: &models.Analytics{}}
	svc := NewAnalyticsService(source, nil, 0, nil, nil, nil)

	analytics, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, analytics.StudentRanking)
}

func TestAnalyticsExportCSV(t *testing.T) {
	svc := NewAnalyticsService(&fakeAnalyticsSource{analytics: sampleAnalytics()}, nil, 0, nil, nil, nil)
	svc.now = func() time.Time { return time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC) }

	file, err := svc.Export(context.Background(), "CSV")
	require.NoError(t, err)

	assert.Equal(t, "informe-acompanamiento-20250301.csv", file.Filename)
	assert.Equal(t, "text/csv; charset=utf-8", file.ContentType)
	body := string(bytes.TrimPrefix(file.Payload, []byte{0xEF, 0xBB, 0xBF}))
	assert.Contains(t, body, "Total de reportes,12")
	assert.Contains(t, body, "Luis Gómez,1102,3")
	// ties are ordered by key
	assert.Less(t, strings.Index(body, "Académico,6"), strings.Index(body, "Convivencia,6"))
	assert.Less(t, strings.Index(body, "ATENDIDO,7"), strings.Index(body, "PROGRAMADO,5"))
}

func TestAnalyticsExportPDF(t *testing.T) {
	svc := NewAnalyticsService(&fakeAnalyticsSource{analytics: sampleAnalytics()}, nil, 0, nil, nil, nil)

	file, err := svc.Export(context.Background(), "pdf")
	require.NoError(t, err)

	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, bytes.HasPrefix(file.Payload, []byte("%PDF")))
}

func TestAnalyticsExportRejectsFormat(t *testing.T) {
	source := &fakeAnalyticsSource{analytics: sampleAnalytics()}
	svc := NewAnalyticsService(source, nil, 0, nil, nil, nil)

	_, err := svc.Export(context.Background(), "xlsx")
	assert.ErrorIs(t, err, appErrors.ErrValidation)
	assert.Equal(t, 0, source.calls)
}

func TestAnalyticsExportPropagatesBackendError(t *testing.T) {
	svc := NewAnalyticsService(&fakeAnalyticsSource{err: appErrors.ErrBackendTimeout}, nil, 0, nil, nil, nil)

	_, err := svc.Export(context.Background(), "csv")
	assert.ErrorIs(t, err, appErrors.ErrBackendTimeout)
}
