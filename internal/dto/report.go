package dto

import (
	"strconv"
	"strings"

	"github.com/noah-isme/sma-accompaniment-dashboard/internal/models"
)

// ReportForm is the creation form as posted by the dashboard page.
type ReportForm struct {
	FormID         string `form:"form_id"`
	StudentID      string `form:"student_id"`
	StudentName    string `form:"student_name"`
	Purpose        string `form:"purpose"`
	AssignedTo     string `form:"assigned_to"`
	AcademicPeriod string `form:"academic_period"`
	Objective      string `form:"objective"`
}

// Draft converts the posted fields. An unparsable student id becomes zero and
// an empty or unparsable assignee becomes unassigned.
func (f ReportForm) Draft() models.ReportDraft {
	draft := models.ReportDraft{
		Purpose:        models.Purpose(strings.TrimSpace(f.Purpose)),
		AcademicPeriod: strings.TrimSpace(f.AcademicPeriod),
		Objective:      strings.TrimSpace(f.Objective),
	}
	if id, err := strconv.ParseInt(strings.TrimSpace(f.StudentID), 10, 64); err == nil {
		draft.StudentID = id
	}
	if id, err := strconv.ParseInt(strings.TrimSpace(f.AssignedTo), 10, 64); err == nil && id > 0 {
		draft.AssignedToID = &id
	}
	return draft
}

// CreateReportRequest captures POST /api/reports.
type CreateReportRequest struct {
	FormID string `json:"formId"`
	models.ReportDraft
}

// SubmissionResponse reports how a submission settled.
type SubmissionResponse struct {
	State    models.SubmissionState `json:"state"`
	Report   *models.Report         `json:"report,omitempty"`
	Message  string                 `json:"message,omitempty"`
	Conflict *ConflictResponse      `json:"conflict,omitempty"`
}

// ConflictResponse describes the existing active report and where to open it.
type ConflictResponse struct {
	models.ConflictDescriptor
	ReportURL string `json:"report_url"`
}

// ExportFile is a rendered export ready to be sent as an attachment.
type ExportFile struct {
	Filename    string
	ContentType string
	Payload     []byte
}
