package dto

import "github.com/noah-isme/sma-accompaniment-dashboard/internal/models"

// DashboardResponse is the payload behind the dashboard page.
type DashboardResponse struct {
	Counters  DashboardCounters  `json:"counters"`
	Recent    []RecentReport     `json:"recent"`
	Assignees []AssignmentOption `json:"assignees"`
	Courses   []string           `json:"courses"`
}

// DashboardCounters summarises the recent reports by status.
type DashboardCounters struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	Attended  int `json:"attended"`
	Scheduled int `json:"scheduled"`
}

// RecentReport is one row of the recent activity list.
type RecentReport struct {
	ID          int64               `json:"id"`
	StudentName string              `json:"studentName"`
	Purpose     models.Purpose      `json:"purpose"`
	Status      models.ReportStatus `json:"status"`
	AssignedTo  string              `json:"assignedTo"`
	CreatedAt   models.Timestamp    `json:"createdAt"`
}

// AssignmentOption is an entry of the "assign to" selector.
type AssignmentOption struct {
	ID    int64  `json:"id"`
	Label string `json:"label"`
}

// StudentRow is a student as listed under a course.
type StudentRow struct {
	ID            int64  `json:"id"`
	FullName      string `json:"fullName"`
	Code          string `json:"code"`
	Course        string `json:"course"`
	Initials      string `json:"initials"`
	ActiveReports int    `json:"activeReports"`
}
