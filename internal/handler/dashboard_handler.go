package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-accompaniment-dashboard/internal/view"
	appErrors "github.com/noah-isme/sma-accompaniment-dashboard/pkg/errors"
	"github.com/noah-isme/sma-accompaniment-dashboard/pkg/response"
)

const msgReportCreated = "Reporte creado exitosamente"

// DashboardHandler serves the dashboard page and its JSON summary.
type DashboardHandler struct {
	service dashboardService
	pages   *pageBuilder
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(service dashboardService, roster rosterService, links view.Links, logger *zap.Logger) *DashboardHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardHandler{
		service: service,
		pages:   &pageBuilder{dashboard: service, roster: roster, links: links, logger: logger},
	}
}

// Index renders the dashboard page.
func (h *DashboardHandler) Index(c *gin.Context) {
	page := h.pages.newPage(c)
	h.pages.fill(c, page, c.Query("course"))
	if c.Query("created") != "" && page.Notice == "" {
		page.Notice = msgReportCreated
	}
	c.HTML(http.StatusOK, view.DashboardTemplate, page)
}

// Summary godoc
// @Summary Dashboard summary
// @Tags Dashboard
// @Produce json
// @Param section query string false "Section filter for the course list"
// @Success 200 {object} response.Envelope
// @Router /api/dashboard [get]
func (h *DashboardHandler) Summary(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	summary, err := h.service.Summary(c.Request.Context(), userIDFromContext(c), strings.TrimSpace(c.Query("section")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary)
}
