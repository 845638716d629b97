package handler

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-accompaniment-dashboard/internal/dto"
	"github.com/noah-isme/sma-accompaniment-dashboard/internal/models"
	"github.com/noah-isme/sma-accompaniment-dashboard/internal/service"
	"github.com/noah-isme/sma-accompaniment-dashboard/internal/view"
	appErrors "github.com/noah-isme/sma-accompaniment-dashboard/pkg/errors"
	"github.com/noah-isme/sma-accompaniment-dashboard/pkg/response"
)

const msgSubmissionInFlight = "El reporte ya se está enviando. Espere la respuesta."

type reportFlow interface {
	Begin(formID string) (func(), error)
	NewController(view service.SubmissionView, navigator service.Navigator) *service.ReportSubmissionController
}

type followUpService interface {
	AddObservation(ctx context.Context, reportID int64, input models.ObservationInput) (*models.Observation, error)
	AddRecommendation(ctx context.Context, reportID int64, input models.RecommendationInput) (*models.Recommendation, error)
}

// ReportHandler drives the report creation modal, the conflict modal and the
// follow-up endpoints.
type ReportHandler struct {
	flow      reportFlow
	followUps followUpService
	pages     *pageBuilder
	links     view.Links
}

// NewReportHandler constructs the handler.
func NewReportHandler(flow reportFlow, followUps followUpService, dashboard dashboardService, roster rosterService, links view.Links, logger *zap.Logger) *ReportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportHandler{
		flow:      flow,
		followUps: followUps,
		pages:     &pageBuilder{dashboard: dashboard, roster: roster, links: links, logger: logger},
		links:     links,
	}
}

// New renders the dashboard with the creation modal open for a student.
func (h *ReportHandler) New(c *gin.Context) {
	page := h.pages.newPage(c)
	h.pages.fill(c, page, c.Query("course"))

	form := dto.ReportForm{
		StudentID:   c.Query("student_id"),
		StudentName: strings.TrimSpace(c.Query("student_name")),
	}
	draft := form.Draft()
	draft.Purpose = models.Purposes[0]

	ctrl := h.flow.NewController(page, view.NewRedirector(h.links))
	if err := ctrl.Open(draft); err != nil {
		response.Error(c, err)
		return
	}
	page.Form.FormID = uuid.NewString()
	page.Form.StudentName = form.StudentName
	c.HTML(http.StatusOK, view.DashboardTemplate, page)
}

// Create handles the posted creation form. Success redirects to the
// dashboard; a conflict or a failure re-renders the page with the matching
// modal.
func (h *ReportHandler) Create(c *gin.Context) {
	var form dto.ReportForm
	if err := c.ShouldBind(&form); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid form"))
		return
	}
	course := c.PostForm("course")

	page := h.pages.newPage(c)
	page.Form.FormID = form.FormID
	page.Form.StudentName = form.StudentName

	release, err := h.flow.Begin(form.FormID)
	if err != nil {
		page.ShowForm(form.Draft())
		page.SetBusy(true)
		page.ShowError(msgSubmissionInFlight)
		h.pages.fill(c, page, course)
		c.HTML(http.StatusTooManyRequests, view.DashboardTemplate, page)
		return
	}
	defer release()

	ctrl := h.flow.NewController(page, view.NewRedirector(h.links))
	state, err := ctrl.Submit(c.Request.Context(), form.Draft())
	if err != nil {
		response.Error(c, err)
		return
	}

	switch state {
	case models.SubmissionSuccess:
		target := url.Values{}
		if created := ctrl.Created(); created != nil && created.ID > 0 {
			target.Set("created", strconv.FormatInt(created.ID, 10))
		} else {
			target.Set("created", "1")
		}
		if course = strings.TrimSpace(course); course != "" {
			target.Set("course", course)
		}
		c.Redirect(http.StatusSeeOther, "/?"+target.Encode())
	case models.SubmissionConflict:
		h.pages.fill(c, page, course)
		c.HTML(http.StatusConflict, view.DashboardTemplate, page)
	default:
		h.pages.fill(c, page, course)
		c.HTML(failureStatus(ctrl.Failure()), view.DashboardTemplate, page)
	}
}

// DismissConflict closes the conflict modal. The conflict is not stored
// server-side, so dismissal returns to a clean dashboard.
func (h *ReportHandler) DismissConflict(c *gin.Context) {
	c.Redirect(http.StatusSeeOther, "/")
}

// OpenConflict navigates to the detail page of the conflicting report.
func (h *ReportHandler) OpenConflict(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	redirector := view.NewRedirector(h.links)
	ctrl := h.flow.NewController(nil, redirector)
	if err := ctrl.NavigateToConflict(models.ConflictDescriptor{ReportID: id}); err != nil {
		response.Error(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, redirector.Target())
}

// CreateJSON godoc
// @Summary Create report
// @Tags Reports
// @Accept json
// @Produce json
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /api/reports [post]
func (h *ReportHandler) CreateJSON(c *gin.Context) {
	var req dto.CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload"))
		return
	}

	release, err := h.flow.Begin(req.FormID)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer release()

	page := view.NewPage(h.links)
	ctrl := h.flow.NewController(page, view.NewRedirector(h.links))
	state, err := ctrl.Submit(c.Request.Context(), req.ReportDraft)
	if err != nil {
		response.Error(c, err)
		return
	}

	result := dto.SubmissionResponse{State: state}
	switch state {
	case models.SubmissionSuccess:
		result.Report = ctrl.Created()
		response.Created(c, result)
	case models.SubmissionConflict:
		result.Conflict = page.Conflict
		result.Message = page.Conflict.Message
		response.JSON(c, http.StatusConflict, result)
	default:
		result.Message = ctrl.Message()
		response.JSON(c, failureStatus(ctrl.Failure()), result)
	}
}

// AddObservation godoc
// @Summary Add observation to a report
// @Tags Reports
// @Accept json
// @Produce json
// @Param id path int true "Report ID"
// @Success 201 {object} response.Envelope
// @Router /api/reports/{id}/observations [post]
func (h *ReportHandler) AddObservation(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var input models.ObservationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload"))
		return
	}
	observation, err := h.followUps.AddObservation(c.Request.Context(), id, input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, observation)
}

// AddRecommendation godoc
// @Summary Add recommendation to a report
// @Tags Reports
// @Accept json
// @Produce json
// @Param id path int true "Report ID"
// @Success 201 {object} response.Envelope
// @Router /api/reports/{id}/recommendations [post]
func (h *ReportHandler) AddRecommendation(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var input models.RecommendationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload"))
		return
	}
	recommendation, err := h.followUps.AddRecommendation(c.Request.Context(), id, input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, recommendation)
}

// failureStatus maps the cause of a GenericError to an HTTP status.
func failureStatus(err error) int {
	if err == nil {
		return http.StatusBadRequest
	}
	var appErr *appErrors.Error
	if errors.As(err, &appErr) && appErr.Status > 0 {
		return appErr.Status
	}
	return http.StatusInternalServerError
}
