package models

// UserRole represents the staff roles known to the backend.
type UserRole string

const (
	RoleTeacher     UserRole = "Docente"
	RoleCoordinator UserRole = "Coordinador"
	RoleAdmin       UserRole = "Admin Global"
)

// User is a staff member that can own or be assigned reports.
type User struct {
	ID              int64    `json:"id"`
	Email           string   `json:"email,omitempty"`
	FullName        string   `json:"full_name"`
	Role            UserRole `json:"role"`
	AssignedSection *string  `json:"assigned_section,omitempty"`
	AssignedPurpose *Purpose `json:"assigned_purpose,omitempty"`
}

// Student is a learner reports are written about.
type Student struct {
	ID            int64           `json:"id"`
	FullName      string          `json:"full_name"`
	Code          string          `json:"code"`
	Section       string          `json:"section"`
	Course        string          `json:"course"`
	Email         *string         `json:"email,omitempty"`
	ActiveReports []ReportSummary `json:"active_reports,omitempty"`
}

// ReportSummary is the compact report view attached to students.
type ReportSummary struct {
	ID      int64        `json:"id"`
	Purpose Purpose      `json:"purpose"`
	Status  ReportStatus `json:"status"`
}

// Analytics aggregates report counts across the school.
type Analytics struct {
	TotalReports   int              `json:"total_reports"`
	TotalStudents  int              `json:"total_students"`
	ByStatus       map[string]int   `json:"by_status"`
	ByPurpose      map[string]int   `json:"by_purpose"`
	ByCourse       map[string]int   `json:"by_course"`
	StudentRanking []StudentRanking `json:"student_ranking"`
}

// StudentRanking counts reports per student.
type StudentRanking struct {
	Name   string `json:"name"`
	Course string `json:"course"`
	Count  int    `json:"count"`
}
