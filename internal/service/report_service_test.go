package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-accompaniment-dashboard/internal/models"
	appErrors "github.com/noah-isme/sma-accompaniment-dashboard/pkg/errors"
)

type fakeFollowUps struct {
	observations    []models.ObservationInput
	recommendations []models.RecommendationInput
	err             error
}

func (f *fakeFollowUps) AddObservation(_ context.Context, reportID int64, input models.ObservationInput) (*models.Observation, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.observations = append(f.observations, input)
	return &models.Observation{ID: 1, ReportID: reportID, Title: input.Title, Content: input.Content}, nil
}

func (f *fakeFollowUps) AddRecommendation(_ context.Context, reportID int64, input models.RecommendationInput) (*models.Recommendation, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.recommendations = append(f.recommendations, input)
	return &models.Recommendation{ID: 2, ReportID: reportID, Content: input.Content}, nil
}

func TestReportServiceAddObservation(t *testing.T) {
	repo := &fakeFollowUps{}
	svc := NewReportService(repo, nil, nil)

	observation, err := svc.AddObservation(context.Background(), 17, models.ObservationInput{Title: " Reunión ", Content: "Acudiente citado"})
	require.NoError(t, err)

	assert.Equal(t, int64(17), observation.ReportID)
	require.Len(t, repo.observations, 1)
	assert.Equal(t, "Reunión", repo.observations[0].Title)
}

func TestReportServiceRejectsInvalidFollowUps(t *testing.T) {
	repo := &fakeFollowUps{}
	svc := NewReportService(repo, nil, nil)
	ctx := context.Background()

	_, err := svc.AddObservation(ctx, 0, models.ObservationInput{Title: "a", Content: "b"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
	_, err = svc.AddObservation(ctx, 17, models.ObservationInput{Title: "  ", Content: "b"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
	_, err = svc.AddRecommendation(ctx, 17, models.RecommendationInput{Content: ""})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	assert.Empty(t, repo.observations)
	assert.Empty(t, repo.recommendations)
}

func TestReportServiceAddRecommendationPropagatesBackendError(t *testing.T) {
	svc := NewReportService(&fakeFollowUps{err: appErrors.ErrNotFound}, nil, nil)

	_, err := svc.AddRecommendation(context.Background(), 17, models.RecommendationInput{Content: "Tutoría semanal"})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}
