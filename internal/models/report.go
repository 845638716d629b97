package models

// Purpose enumerates the educational purpose ("fin educativo") of a report.
type Purpose string

const (
	PurposeCoexistence     Purpose = "Convivencia"
	PurposeAcademic        Purpose = "Académico"
	PurposeSpiritual       Purpose = "Espiritual"
	PurposePsychoAffective Purpose = "Psicoafectivo"
)

// Purposes lists the purposes in the order the form offers them.
var Purposes = []Purpose{PurposeAcademic, PurposeCoexistence, PurposeSpiritual, PurposePsychoAffective}

// ReportStatus captures the accompaniment lifecycle of a report.
type ReportStatus string

const (
	ReportStatusScheduled ReportStatus = "PROGRAMADO"
	ReportStatusFollowUp  ReportStatus = "SEGUIMIENTO"
	ReportStatusAttended  ReportStatus = "ATENDIDO"
)

// Active reports are the ones that block a new report for the same student and purpose.
func (s ReportStatus) Active() bool {
	return s == ReportStatusScheduled || s == ReportStatusFollowUp
}

// ReportDraft is the unsaved report composed in the creation modal.
type ReportDraft struct {
	StudentID      int64   `json:"student_id" validate:"required,gt=0"`
	Purpose        Purpose `json:"purpose"`
	AssignedToID   *int64  `json:"assigned_to_id"`
	AcademicPeriod string  `json:"academic_period"`
	Objective      string  `json:"objective"`
}

// ConflictDescriptor describes the active report that prevented a new one from
// being created. It is built from a 409 body and never persisted.
type ConflictDescriptor struct {
	Message   string    `json:"message"`
	CreatedBy string    `json:"created_by"`
	CreatedAt Timestamp `json:"created_at"`
	ReportID  int64     `json:"report_id"`
}

// Report mirrors the backend report representation.
type Report struct {
	ID              int64            `json:"id"`
	StudentID       int64            `json:"student_id,omitempty"`
	Purpose         Purpose          `json:"purpose"`
	Objective       string           `json:"objective"`
	AcademicPeriod  string           `json:"academic_period"`
	AssignedToID    *int64           `json:"assigned_to_id"`
	Status          ReportStatus     `json:"status"`
	CreatedByID     int64            `json:"created_by_id"`
	CreatedAt       Timestamp        `json:"created_at"`
	ClosedAt        *Timestamp       `json:"closed_at"`
	Student         *Student         `json:"student,omitempty"`
	AssignedTo      *User            `json:"assigned_to,omitempty"`
	Observations    []Observation    `json:"observations"`
	Recommendations []Recommendation `json:"recommendations"`
}

// Observation is a dated follow-up note on a report.
type Observation struct {
	ID          int64     `json:"id"`
	ReportID    int64     `json:"report_id"`
	CreatedByID int64     `json:"created_by_id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	DateLog     Timestamp `json:"date_log"`
}

// ObservationInput is the payload for adding an observation.
type ObservationInput struct {
	Title   string     `json:"title" validate:"required"`
	Content string     `json:"content" validate:"required"`
	DateLog *Timestamp `json:"date_log,omitempty"`
}

// Recommendation is a dated recommendation on a report.
type Recommendation struct {
	ID          int64     `json:"id"`
	ReportID    int64     `json:"report_id"`
	CreatedByID int64     `json:"created_by_id"`
	Content     string    `json:"content"`
	DateLog     Timestamp `json:"date_log"`
}

// RecommendationInput is the payload for adding a recommendation.
type RecommendationInput struct {
	Content string     `json:"content" validate:"required"`
	DateLog *Timestamp `json:"date_log,omitempty"`
}
