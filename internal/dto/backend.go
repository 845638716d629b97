package dto

// BackendFailure is attached to errors produced by non-2xx backend responses.
type BackendFailure struct {
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}
