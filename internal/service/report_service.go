package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-accompaniment-dashboard/internal/models"
	appErrors "github.com/noah-isme/sma-accompaniment-dashboard/pkg/errors"
)

type reportFollowUpRepository interface {
	AddObservation(ctx context.Context, reportID int64, input models.ObservationInput) (*models.Observation, error)
	AddRecommendation(ctx context.Context, reportID int64, input models.RecommendationInput) (*models.Recommendation, error)
}

// ReportService handles follow-up entries on existing reports. It is where a
// user lands after being told a report is already active.
type ReportService struct {
	repo      reportFollowUpRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewReportService constructs a ReportService.
func NewReportService(repo reportFollowUpRepository, validate *validator.Validate, logger *zap.Logger) *ReportService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{repo: repo, validator: validate, logger: logger}
}

// AddObservation validates and records an observation on reportID.
func (s *ReportService) AddObservation(ctx context.Context, reportID int64, input models.ObservationInput) (*models.Observation, error) {
	if reportID <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid report id")
	}
	input.Title = strings.TrimSpace(input.Title)
	input.Content = strings.TrimSpace(input.Content)
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "title and content are required")
	}
	observation, err := s.repo.AddObservation(ctx, reportID, input)
	if err != nil {
		return nil, err
	}
	s.logger.Info("observation added", zap.Int64("report_id", reportID), zap.Int64("observation_id", observation.ID))
	return observation, nil
}

// AddRecommendation validates and records a recommendation on reportID.
func (s *ReportService) AddRecommendation(ctx context.Context, reportID int64, input models.RecommendationInput) (*models.Recommendation, error) {
	if reportID <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid report id")
	}
	input.Content = strings.TrimSpace(input.Content)
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "content is required")
	}
	recommendation, err := s.repo.AddRecommendation(ctx, reportID, input)
	if err != nil {
		return nil, err
	}
	s.logger.Info("recommendation added", zap.Int64("report_id", reportID), zap.Int64("recommendation_id", recommendation.ID))
	return recommendation, nil
}
