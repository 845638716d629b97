package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-accompaniment-dashboard/internal/models"
	appErrors "github.com/noah-isme/sma-accompaniment-dashboard/pkg/errors"
)

const unknownCreator = "Desconocido"

// ReportRepository talks to the backend Reports API.
type ReportRepository struct {
	backend *BackendClient
	logger  *zap.Logger
}

// NewReportRepository constructs a ReportRepository.
func NewReportRepository(backend *BackendClient, logger *zap.Logger) *ReportRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportRepository{backend: backend, logger: logger}
}

// Create issues the create-report request. A 409 yields an ErrConflict whose
// Details hold the models.ConflictDescriptor; an unreadable 409 body yields
// ErrMalformedConflict.
func (r *ReportRepository) Create(ctx context.Context, draft models.ReportDraft) (*models.Report, error) {
	resp, err := r.backend.do(ctx, "create_report", http.MethodPost, "/api/reports", nil, draft)
	if err != nil {
		return nil, err
	}

	switch {
	case resp.ok():
		var report models.Report
		if err := json.Unmarshal(resp.Body, &report); err != nil {
			// the backend accepted the report; an odd body must not turn that into a failure
			r.logger.Warn("created report payload unreadable", zap.Error(err))
			return &models.Report{StudentID: draft.StudentID, Purpose: draft.Purpose}, nil
		}
		return &report, nil
	case resp.Status == http.StatusConflict:
		descriptor, err := ParseConflict(resp.Body)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrMalformedConflict.Code, appErrors.ErrMalformedConflict.Status, appErrors.ErrMalformedConflict.Message)
		}
		return nil, appErrors.WithDetails(appErrors.Clone(appErrors.ErrConflict, descriptor.Message), *descriptor)
	default:
		return nil, statusError(resp.Status, resp.Body)
	}
}

// List returns the most recent reports visible to the caller, newest first.
func (r *ReportRepository) List(ctx context.Context, limit int) ([]models.Report, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	var reports []models.Report
	if err := r.backend.getJSON(ctx, "list_reports", "/api/reports", query, &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

// AddObservation appends an observation to a report.
func (r *ReportRepository) AddObservation(ctx context.Context, reportID int64, input models.ObservationInput) (*models.Observation, error) {
	var observation models.Observation
	path := fmt.Sprintf("/api/reports/%d/observations", reportID)
	if err := r.backend.postJSON(ctx, "create_observation", path, input, &observation); err != nil {
		return nil, err
	}
	return &observation, nil
}

// AddRecommendation appends a recommendation to a report.
func (r *ReportRepository) AddRecommendation(ctx context.Context, reportID int64, input models.RecommendationInput) (*models.Recommendation, error) {
	var recommendation models.Recommendation
	path := fmt.Sprintf("/api/reports/%d/recommendations", reportID)
	if err := r.backend.postJSON(ctx, "create_recommendation", path, input, &recommendation); err != nil {
		return nil, err
	}
	return &recommendation, nil
}

// Analytics fetches the aggregate report statistics.
func (r *ReportRepository) Analytics(ctx context.Context) (*models.Analytics, error) {
	var analytics models.Analytics
	if err := r.backend.getJSON(ctx, "analytics", "/api/stats/analytics", nil, &analytics); err != nil {
		return nil, err
	}
	return &analytics, nil
}

type conflictPayload struct {
	Message   string      `json:"message"`
	CreatedBy string      `json:"created_by"`
	CreatedAt string      `json:"created_at"`
	ReportID  json.Number `json:"report_id"`
}

// ParseConflict builds a ConflictDescriptor from a 409 body. The conflict
// object is accepted at the top level or nested under "detail".
func ParseConflict(body []byte) (*models.ConflictDescriptor, error) {
	raw := body
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decode conflict body: %w", err)
	}
	if trimmed := strings.TrimSpace(string(envelope.Detail)); strings.HasPrefix(trimmed, "{") {
		raw = envelope.Detail
	}

	var payload conflictPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("decode conflict object: %w", err)
	}
	if payload.ReportID == "" {
		return nil, errors.New("conflict body has no report_id")
	}
	reportID, err := payload.ReportID.Int64()
	if err != nil || reportID <= 0 {
		return nil, fmt.Errorf("conflict body has invalid report_id %q", payload.ReportID.String())
	}

	descriptor := &models.ConflictDescriptor{
		Message:   strings.TrimSpace(payload.Message),
		CreatedBy: strings.TrimSpace(payload.CreatedBy),
		ReportID:  reportID,
	}
	if descriptor.CreatedBy == "" {
		descriptor.CreatedBy = unknownCreator
	}
	if payload.CreatedAt != "" {
		if ts, err := models.ParseTimestamp(payload.CreatedAt); err == nil {
			descriptor.CreatedAt = ts
		}
	}
	return descriptor, nil
}
