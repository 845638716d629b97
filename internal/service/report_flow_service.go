package service

import (
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/sma-accompaniment-dashboard/pkg/errors"
)

// ReportFlowParams groups the collaborators shared by every creation modal.
type ReportFlowParams struct {
	Reports   reportCreator
	Refresh   RefreshSignal
	Validator *validator.Validate
	Metrics   submissionObserver
	Logger    *zap.Logger
	Timeout   time.Duration
}

// ReportFlowService hands out one ReportSubmissionController per rendered
// modal and keeps submissions of the same form single-flight across requests.
type ReportFlowService struct {
	params ReportFlowParams

	mu       sync.Mutex
	inflight map[string]struct{}
}

// NewReportFlowService constructs a ReportFlowService.
func NewReportFlowService(params ReportFlowParams) *ReportFlowService {
	if params.Validator == nil {
		params.Validator = validator.New()
	}
	if params.Logger == nil {
		params.Logger = zap.NewNop()
	}
	return &ReportFlowService{params: params, inflight: make(map[string]struct{})}
}

// NewController builds a controller driving view and navigator.
func (s *ReportFlowService) NewController(view SubmissionView, navigator Navigator) *ReportSubmissionController {
	return NewReportSubmissionController(ReportSubmissionParams{
		Reports:   s.params.Reports,
		View:      view,
		Navigator: navigator,
		Refresh:   s.params.Refresh,
		Validator: s.params.Validator,
		Metrics:   s.params.Metrics,
		Logger:    s.params.Logger,
		Timeout:   s.params.Timeout,
	})
}

// Begin claims formID for one submission. The returned release must be called
// once the submission settles. An empty formID is not tracked.
func (s *ReportFlowService) Begin(formID string) (func(), error) {
	if formID == "" {
		return func() {}, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inflight[formID]; busy {
		return nil, appErrors.ErrSubmissionInFlight
	}
	s.inflight[formID] = struct{}{}
	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.inflight, formID)
			s.mu.Unlock()
		})
	}, nil
}
