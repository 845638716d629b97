package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-accompaniment-dashboard/internal/dto"
	"github.com/noah-isme/sma-accompaniment-dashboard/internal/models"
	"github.com/noah-isme/sma-accompaniment-dashboard/pkg/response"
)

type analyticsService interface {
	Summary(ctx context.Context) (*models.Analytics, error)
	Export(ctx context.Context, format string) (*dto.ExportFile, error)
}

// AnalyticsHandler exposes the aggregate statistics.
type AnalyticsHandler struct {
	service analyticsService
}

// NewAnalyticsHandler constructs the handler.
func NewAnalyticsHandler(service analyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{service: service}
}

// Summary godoc
// @Summary Aggregate report statistics
// @Tags Analytics
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /api/analytics [get]
func (h *AnalyticsHandler) Summary(c *gin.Context) {
	analytics, err := h.service.Summary(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, analytics)
}

// Export godoc
// @Summary Export statistics as csv or pdf
// @Tags Analytics
// @Produce text/csv,application/pdf
// @Param format query string false "csv or pdf"
// @Success 200 {file} file
// @Router /api/analytics/export [get]
func (h *AnalyticsHandler) Export(c *gin.Context) {
	file, err := h.service.Export(c.Request.Context(), c.DefaultQuery("format", "csv"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Payload)
}
