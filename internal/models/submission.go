package models

// SubmissionState is a state of the report creation flow.
type SubmissionState string

const (
	SubmissionIdle         SubmissionState = "idle"
	SubmissionEditing      SubmissionState = "editing"
	SubmissionSubmitting   SubmissionState = "submitting"
	SubmissionSuccess      SubmissionState = "success"
	SubmissionGenericError SubmissionState = "error"
	SubmissionConflict     SubmissionState = "conflict"
	// SubmissionNavigated is terminal: the user left for the conflicting report.
	SubmissionNavigated SubmissionState = "navigated"
)

// FormOpen reports whether the creation form is shown in this state.
func (s SubmissionState) FormOpen() bool {
	return s == SubmissionEditing || s == SubmissionSubmitting || s == SubmissionGenericError
}
