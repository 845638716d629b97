package view

import (
	"fmt"
	"strings"

	"github.com/noah-isme/sma-accompaniment-dashboard/internal/dto"
	"github.com/noah-isme/sma-accompaniment-dashboard/internal/models"
)

// Links builds browser-facing URLs.
type Links struct {
	PublicURL string
}

// ReportURL is the backend detail page of a report.
func (l Links) ReportURL(reportID int64) string {
	return fmt.Sprintf("%s/reports/%d", strings.TrimRight(l.PublicURL, "/"), reportID)
}

// Redirector is a Navigator recording the navigation target so the handler can
// answer with a redirect.
type Redirector struct {
	links  Links
	target string
}

// NewRedirector constructs a Redirector.
func NewRedirector(links Links) *Redirector {
	return &Redirector{links: links}
}

// NavigateToReport implements service.Navigator.
func (r *Redirector) NavigateToReport(reportID int64) {
	r.target = r.links.ReportURL(reportID)
}

// Target returns the recorded URL, empty when no navigation happened.
func (r *Redirector) Target() string {
	return r.target
}

// ReportForm is the state of the creation modal.
type ReportForm struct {
	Open        bool
	Busy        bool
	FormID      string
	StudentName string
	Draft       models.ReportDraft
	Error       string
}

// Page is the dashboard template model. It implements service.SubmissionView,
// so a submission outcome is rendered by executing the template afterwards.
type Page struct {
	User      *models.JWTClaims
	Dashboard *dto.DashboardResponse
	Course    string
	Students  []dto.StudentRow
	Purposes  []models.Purpose
	Form      ReportForm
	Conflict  *dto.ConflictResponse
	Notice    string

	links Links
}

// NewPage constructs an empty page.
func NewPage(links Links) *Page {
	return &Page{Purposes: models.Purposes, Dashboard: &dto.DashboardResponse{}, links: links}
}

// ShowForm opens the creation modal with draft.
func (p *Page) ShowForm(draft models.ReportDraft) {
	p.Form.Open = true
	p.Form.Draft = draft
	p.Form.Error = ""
}

// SetBusy toggles the submit button.
func (p *Page) SetBusy(busy bool) {
	p.Form.Busy = busy
}

// HideForm closes the creation modal.
func (p *Page) HideForm() {
	p.Form.Open = false
	p.Form.Busy = false
}

// ShowError puts message on the open form.
func (p *Page) ShowError(message string) {
	p.Form.Error = message
}

// ShowConflict opens the conflict modal for conflict.
func (p *Page) ShowConflict(conflict models.ConflictDescriptor) {
	p.Conflict = &dto.ConflictResponse{ConflictDescriptor: conflict, ReportURL: p.links.ReportURL(conflict.ReportID)}
}

// HideConflict closes the conflict modal.
func (p *Page) HideConflict() {
	p.Conflict = nil
}

// AssigneeSelected reports whether id is the draft's assignee.
func (p *Page) AssigneeSelected(id int64) bool {
	return p.Form.Draft.AssignedToID != nil && *p.Form.Draft.AssignedToID == id
}
