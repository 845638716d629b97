package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-accompaniment-dashboard/internal/dto"
	"github.com/noah-isme/sma-accompaniment-dashboard/internal/models"
	appErrors "github.com/noah-isme/sma-accompaniment-dashboard/pkg/errors"
)

type fakeAnalyticsSrv struct {
	analytics *models.Analytics
	file      *dto.ExportFile
	err       error
	format    string
}

func (f *fakeAnalyticsSrv) Summary(context.Context) (*models.Analytics, error) {
	return f.analytics, f.err
}

func (f *fakeAnalyticsSrv) Export(_ context.Context, format string) (*dto.ExportFile, error) {
	f.format = format
	if f.err != nil {
		return nil, f.err
	}
	return f.file, nil
}

func TestAnalyticsHandlerSummary(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewAnalyticsHandler(&fakeAnalyticsSrv{analytics: &models.Analytics{TotalReports: 12, TotalStudents: 30}})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/analytics", nil)

	h.Summary(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total_reports":12`)
}

func TestAnalyticsHandlerExportDefaultsToCSV(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeAnalyticsSrv{file: &dto.ExportFile{
		Filename:    "informe-acompanamiento-20250301.csv",
		ContentType: "text/csv; charset=utf-8",
		Payload:     []byte("Resumen\n"),
	}}
	h := NewAnalyticsHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/analytics/export", nil)

	h.Export(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "csv", srv.format)
	assert.Equal(t, `attachment; filename="informe-acompanamiento-20250301.csv"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "Resumen\n", rec.Body.String())
}

func TestAnalyticsHandlerExportRejectsFormat(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeAnalyticsSrv{err: appErrors.Clone(appErrors.ErrValidation, "unsupported export format")}
	h := NewAnalyticsHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/analytics/export?format=xlsx", nil)

	h.Export(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "xlsx", srv.format)
}
