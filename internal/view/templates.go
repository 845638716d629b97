package view

import (
	"embed"
	"html/template"
	"strings"

	"github.com/noah-isme/sma-accompaniment-dashboard/internal/models"
)

// DashboardTemplate is the name of the page template.
const DashboardTemplate = "dashboard.tmpl"

//go:embed templates/*.tmpl
var templateFS embed.FS

// Templates parses the embedded page templates.
func Templates() *template.Template {
	return template.Must(template.New("").Funcs(template.FuncMap{
		"date":        formatDate,
		"statusClass": statusClass,
	}).ParseFS(templateFS, "templates/*.tmpl"))
}

func formatDate(ts models.Timestamp) string {
	if ts.IsZero() {
		return "-"
	}
	return ts.Format("02/01/2006")
}

func statusClass(status models.ReportStatus) string {
	switch status {
	case models.ReportStatusScheduled:
		return "badge-scheduled"
	case models.ReportStatusFollowUp:
		return "badge-followup"
	case models.ReportStatusAttended:
		return "badge-attended"
	default:
		return "badge-" + strings.ToLower(string(status))
	}
}
