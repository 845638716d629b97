package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-accompaniment-dashboard/internal/dto"
	"github.com/noah-isme/sma-accompaniment-dashboard/internal/models"
	appErrors "github.com/noah-isme/sma-accompaniment-dashboard/pkg/errors"
	"github.com/noah-isme/sma-accompaniment-dashboard/pkg/logger"
)

// User-facing messages of the creation flow.
const (
	MsgSubmissionFailed = "No se pudo crear el reporte."
	MsgConnectivity     = "Error de conexión: no fue posible comunicarse con el servidor. Intente nuevamente."
	MsgStudentRequired  = "Seleccione un estudiante antes de crear el reporte."
	MsgConflictDefault  = "El estudiante ya tiene un reporte activo para este fin educativo."
)

const defaultSubmissionTimeout = 10 * time.Second

type reportCreator interface {
	Create(ctx context.Context, draft models.ReportDraft) (*models.Report, error)
}

// SubmissionView is the presentation the controller drives: the creation form
// and the conflict panel.
type SubmissionView interface {
	ShowForm(draft models.ReportDraft)
	SetBusy(busy bool)
	HideForm()
	ShowError(message string)
	ShowConflict(conflict models.ConflictDescriptor)
	HideConflict()
}

// Navigator performs a full navigation to a report detail page.
type Navigator interface {
	NavigateToReport(reportID int64)
}

// RefreshSignal is notified after a report has been accepted so dependent
// views (recent activity, counters) reload.
type RefreshSignal interface {
	Refresh(ctx context.Context)
}

type submissionObserver interface {
	ObserveSubmission(outcome models.SubmissionState)
}

// ReportSubmissionParams groups constructor dependencies.
type ReportSubmissionParams struct {
	Reports   reportCreator
	View      SubmissionView
	Navigator Navigator
	Refresh   RefreshSignal
	Validator *validator.Validate
	Metrics   submissionObserver
	Logger    *zap.Logger
	Timeout   time.Duration
}

// ReportSubmissionController owns one creation modal: its draft, the single
// in-flight submission and the conflict presentation that may follow.
type ReportSubmissionController struct {
	mu       sync.Mutex
	state    models.SubmissionState
	draft    *models.ReportDraft
	conflict *models.ConflictDescriptor
	message  string
	failure  error
	created  *models.Report

	reports   reportCreator
	view      SubmissionView
	navigator Navigator
	refresh   RefreshSignal
	validator *validator.Validate
	metrics   submissionObserver
	logger    *zap.Logger
	timeout   time.Duration
}

// NewReportSubmissionController constructs an idle controller.
func NewReportSubmissionController(params ReportSubmissionParams) *ReportSubmissionController {
	validate := params.Validator
	if validate == nil {
		validate = validator.New()
	}
	log := params.Logger
	if log == nil {
		log = zap.NewNop()
	}
	timeout := params.Timeout
	if timeout <= 0 {
		timeout = defaultSubmissionTimeout
	}
	view := params.View
	if view == nil {
		view = nopView{}
	}
	return &ReportSubmissionController{
		state:     models.SubmissionIdle,
		reports:   params.Reports,
		view:      view,
		navigator: params.Navigator,
		refresh:   params.Refresh,
		validator: validate,
		metrics:   params.Metrics,
		logger:    log,
		timeout:   timeout,
	}
}

// State returns the current state.
func (c *ReportSubmissionController) State() models.SubmissionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Draft returns a copy of the draft held by the open form, if any.
func (c *ReportSubmissionController) Draft() *models.ReportDraft {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.draft == nil {
		return nil
	}
	d := *c.draft
	return &d
}

// Conflict returns the descriptor currently presented, if any.
func (c *ReportSubmissionController) Conflict() *models.ConflictDescriptor {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conflict == nil {
		return nil
	}
	d := *c.conflict
	return &d
}

// Message returns the error message of the last failed attempt.
func (c *ReportSubmissionController) Message() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.message
}

// Failure returns the error behind the last GenericError, nil otherwise.
func (c *ReportSubmissionController) Failure() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.failure
}

// Created returns the report accepted by the backend after a successful submission.
func (c *ReportSubmissionController) Created() *models.Report {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.created
}

// Open shows the creation form populated with draft.
func (c *ReportSubmissionController) Open(draft models.ReportDraft) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkUsable(); err != nil {
		return err
	}
	c.openLocked(draft)
	return nil
}

func (c *ReportSubmissionController) openLocked(draft models.ReportDraft) {
	if c.conflict != nil {
		c.conflict = nil
		c.view.HideConflict()
	}
	d := draft
	c.draft = &d
	c.message = ""
	c.failure = nil
	c.created = nil
	c.state = models.SubmissionEditing
	c.view.ShowForm(d)
}

func (c *ReportSubmissionController) checkUsable() error {
	switch c.state {
	case models.SubmissionSubmitting:
		return appErrors.ErrSubmissionInFlight
	case models.SubmissionNavigated:
		return appErrors.ErrFlowFinished
	}
	return nil
}

// Submit sends draft to the backend and settles into Success, Conflict or
// GenericError. Backend and transport failures are absorbed into the resulting
// state; the returned error is non-nil only when the submission was refused
// before any request was made (another one in flight, or the flow finished).
func (c *ReportSubmissionController) Submit(ctx context.Context, draft models.ReportDraft) (models.SubmissionState, error) {
	c.mu.Lock()
	if err := c.checkUsable(); err != nil {
		state := c.state
		c.mu.Unlock()
		return state, err
	}
	if !c.state.FormOpen() {
		c.openLocked(draft)
	} else {
		d := draft
		c.draft = &d
	}

	if err := c.validator.Struct(draft); err != nil {
		c.failLocked(MsgStudentRequired, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, MsgStudentRequired))
		c.mu.Unlock()
		c.observe(models.SubmissionGenericError)
		return models.SubmissionGenericError, nil
	}

	c.state = models.SubmissionSubmitting
	c.message = ""
	c.failure = nil
	c.view.SetBusy(true)
	c.mu.Unlock()

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	report, err := c.reports.Create(reqCtx, draft)
	cancel()

	state, refresh := c.settle(ctx, report, err)
	c.observe(state)
	if refresh && c.refresh != nil {
		c.refresh.Refresh(ctx)
	}
	return state, nil
}

func (c *ReportSubmissionController) settle(ctx context.Context, report *models.Report, err error) (models.SubmissionState, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	log := logger.FromContext(ctx, c.logger)
	c.view.SetBusy(false)

	if err == nil {
		c.state = models.SubmissionSuccess
		c.created = report
		c.draft = nil
		c.view.HideForm()
		if report != nil {
			log.Info("report created", zap.Int64("report_id", report.ID))
		}
		return c.state, true
	}

	appErr := appErrors.FromError(err)
	switch {
	case errors.Is(err, appErrors.ErrConflict):
		descriptor, ok := appErr.Details.(models.ConflictDescriptor)
		if !ok || descriptor.ReportID <= 0 {
			log.Warn("conflict without descriptor", zap.Error(err))
			c.failLocked(MsgSubmissionFailed, appErrors.Wrap(err, appErrors.ErrMalformedConflict.Code, appErrors.ErrMalformedConflict.Status, appErrors.ErrMalformedConflict.Message))
			return c.state, false
		}
		if strings.TrimSpace(descriptor.Message) == "" {
			descriptor.Message = MsgConflictDefault
		}
		c.state = models.SubmissionConflict
		c.conflict = &descriptor
		c.draft = nil
		c.view.HideForm()
		c.view.ShowConflict(descriptor)
		log.Info("report conflict", zap.Int64("existing_report_id", descriptor.ReportID))
	case errors.Is(err, appErrors.ErrMalformedConflict):
		log.Warn("malformed conflict response", zap.Error(err))
		c.failLocked(MsgSubmissionFailed, err)
	case errors.Is(err, appErrors.ErrBackendUnavailable), errors.Is(err, appErrors.ErrBackendTimeout):
		log.Warn("report submission unreachable", zap.Error(err))
		c.failLocked(MsgConnectivity, err)
	case appErr.Status >= 400 && appErr.Status < 500:
		message := MsgSubmissionFailed
		if failure, ok := appErr.Details.(dto.BackendFailure); ok && failure.Detail != "" {
			message = failure.Detail
		}
		log.Info("report rejected", zap.String("code", appErr.Code), zap.String("detail", message))
		c.failLocked(message, err)
	default:
		log.Error("report submission failed", zap.Error(err))
		c.failLocked(MsgSubmissionFailed, err)
	}
	return c.state, false
}

// failLocked keeps the form open with the draft and surfaces exactly one message.
func (c *ReportSubmissionController) failLocked(message string, cause error) {
	c.state = models.SubmissionGenericError
	c.message = message
	c.failure = cause
	c.view.ShowError(message)
}

func (c *ReportSubmissionController) observe(state models.SubmissionState) {
	if c.metrics != nil {
		c.metrics.ObserveSubmission(state)
	}
}

// DismissConflict closes the conflict panel and returns to Idle. Calling it
// again, or outside the Conflict state, has no effect.
func (c *ReportSubmissionController) DismissConflict() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != models.SubmissionConflict {
		return
	}
	c.conflict = nil
	c.state = models.SubmissionIdle
	c.view.HideConflict()
}

// NavigateToConflict leaves the flow for the detail page of the conflicting
// report. The controller is finished afterwards.
func (c *ReportSubmissionController) NavigateToConflict(descriptor models.ConflictDescriptor) error {
	if descriptor.ReportID <= 0 {
		return appErrors.Clone(appErrors.ErrValidation, "conflicting report id is required")
	}
	c.mu.Lock()
	if err := c.checkUsable(); err != nil {
		c.mu.Unlock()
		return err
	}
	c.conflict = nil
	c.draft = nil
	c.state = models.SubmissionNavigated
	c.mu.Unlock()

	if c.navigator != nil {
		c.navigator.NavigateToReport(descriptor.ReportID)
	}
	return nil
}

// Cancel closes the form and discards the draft.
func (c *ReportSubmissionController) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.state.FormOpen() || c.state == models.SubmissionSubmitting {
		return
	}
	c.draft = nil
	c.message = ""
	c.failure = nil
	c.state = models.SubmissionIdle
	c.view.HideForm()
}

type nopView struct{}

func (nopView) ShowForm(models.ReportDraft)            {}
func (nopView) SetBusy(bool)                           {}
func (nopView) HideForm()                              {}
func (nopView) ShowError(string)                       {}
func (nopView) ShowConflict(models.ConflictDescriptor) {}
func (nopView) HideConflict()                          {}
