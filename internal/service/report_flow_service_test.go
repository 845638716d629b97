package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-accompaniment-dashboard/internal/models"
	appErrors "github.com/noah-isme/sma-accompaniment-dashboard/pkg/errors"
)

func TestReportFlowBeginIsExclusivePerForm(t *testing.T) {
	svc := NewReportFlowService(ReportFlowParams{})

	release, err := svc.Begin("form-1")
	require.NoError(t, err)

	_, err = svc.Begin("form-1")
	assert.ErrorIs(t, err, appErrors.ErrSubmissionInFlight)

	other, err := svc.Begin("form-2")
	require.NoError(t, err)
	other()

	release()
	release()
	again, err := svc.Begin("form-1")
	require.NoError(t, err)
	again()
}

func TestReportFlowBeginUntrackedForm(t *testing.T) {
	svc := NewReportFlowService(ReportFlowParams{})

	first, err := svc.Begin("")
	require.NoError(t, err)
	second, err := svc.Begin("")
	require.NoError(t, err)
	first()
	second()
}

func TestReportFlowControllersShareCollaborators(t *testing.T) {
	creator := &fakeCreator{report: &models.Report{ID: 8}}
	refresh := &fakeRefresh{}
	svc := NewReportFlowService(ReportFlowParams{Reports: creator, Refresh: refresh})

	view := &fakeSubmissionView{}
	ctrl := svc.NewController(view, &fakeNavigator{})
	state, err := ctrl.Submit(context.Background(), scenarioDraft())

	require.NoError(t, err)
	assert.Equal(t, models.SubmissionSuccess, state)
	assert.Equal(t, 1, creator.callCount())
	assert.Equal(t, 1, refresh.count)
	assert.Equal(t, []string{"show_form", "hide_form"}, view.events)
}
