package report

import (
	"time"

	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/pkg/validator"
)

type SubmitReportRequest struct {
	AttendanceID    string `json:"attendance_id"`
	ReportType      string `json:"report_type"`
	Description     string `json:"activity_description"`
	Notes           string `json:"notes"`
	TicketsResolved int    `json:"tickets_resolved"`
	CallsMade       int    `json:"calls_made"`
	IssuesEscalated int    `json:"issues_escalated"`
}

func (r *SubmitReportRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.AttendanceID) {
		errs.Add("attendance_id", "attendance_id must be a valid UUID")
	}
	if r.ReportType == "" {
		r.ReportType = string(TypeEndOfShift)
	}
	if !Type(r.ReportType).Valid() {
		errs.Add("report_type", "report_type must be one of: End_of_Shift, Emergency, Break, Other")
	}
	if validator.IsEmpty(r.Description) {
		errs.Add("activity_description", "activity_description is required")
	}

	return errs.Err()
}

// Metrics returns the submitted counters. They are checked with
// ValidateMetrics once the attendance has been accepted.
func (r SubmitReportRequest) Metrics() Metrics {
	return Metrics{
		TicketsResolved: r.TicketsResolved,
		CallsMade:       r.CallsMade,
		IssuesEscalated: r.IssuesEscalated,
	}
}

func validateMetrics(errs *validator.ValidationErrors, m Metrics) {
	if m.TicketsResolved < 0 {
		errs.Add("tickets_resolved", "tickets_resolved must not be negative")
	}
	if m.CallsMade < 0 {
		errs.Add("calls_made", "calls_made must not be negative")
	}
	if m.IssuesEscalated < 0 {
		errs.Add("issues_escalated", "issues_escalated must not be negative")
	}
	if m.IssuesEscalated > m.TicketsResolved {
		errs.Add("issues_escalated", "issues_escalated must not exceed tickets_resolved")
	}
}

// ValidateMetrics checks counters after a partial update has been applied.
func ValidateMetrics(m Metrics) error {
	var errs validator.ValidationErrors
	validateMetrics(&errs, m)
	return errs.Err()
}

type UpdateReportRequest struct {
	ReportType      *string `json:"report_type"`
	Description     *string `json:"activity_description"`
	Notes           *string `json:"notes"`
	TicketsResolved *int    `json:"tickets_resolved"`
	CallsMade       *int    `json:"calls_made"`
	IssuesEscalated *int    `json:"issues_escalated"`
}

func (r *UpdateReportRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.ReportType != nil && !Type(*r.ReportType).Valid() {
		errs.Add("report_type", "report_type must be one of: End_of_Shift, Emergency, Break, Other")
	}
	if r.Description != nil && validator.IsEmpty(*r.Description) {
		errs.Add("activity_description", "activity_description must not be empty")
	}
	return errs.Err()
}

// Apply copies the set fields onto rep.
func (r UpdateReportRequest) Apply(rep *ActivityReport) {
	if r.ReportType != nil {
		rep.Type = Type(*r.ReportType)
	}
	if r.Description != nil {
		rep.Description = *r.Description
	}
	if r.Notes != nil {
		rep.Notes = *r.Notes
	}
	if r.TicketsResolved != nil {
		rep.TicketsResolved = *r.TicketsResolved
	}
	if r.CallsMade != nil {
		rep.CallsMade = *r.CallsMade
	}
	if r.IssuesEscalated != nil {
		rep.IssuesEscalated = *r.IssuesEscalated
	}
}

type ReportFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	Approved   *bool   `json:"approved,omitempty"`
	ReportType *string `json:"report_type,omitempty"`
	StartDate  *string `json:"start_date,omitempty"`
	EndDate    *string `json:"end_date,omitempty"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *ReportFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs.Add("page", "page must be a positive number")
	}
	if f.Page == 0 {
		f.Page = 1
	}
	if f.Limit < 0 {
		errs.Add("limit", "limit must be a positive number")
	}
	if f.Limit == 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		errs.Add("limit", "limit must not exceed 100")
	}

	if f.EmployeeID != nil && !validator.IsValidUUID(*f.EmployeeID) {
		errs.Add("employee_id", "employee_id must be a valid UUID")
	}
	if f.ReportType != nil && !Type(*f.ReportType).Valid() {
		errs.Add("report_type", "report_type must be one of: End_of_Shift, Emergency, Break, Other")
	}
	if f.StartDate != nil {
		if _, ok := validator.IsValidDate(*f.StartDate); !ok {
			errs.Add("start_date", "start_date must be in YYYY-MM-DD format")
		}
	}
	if f.EndDate != nil {
		if _, ok := validator.IsValidDate(*f.EndDate); !ok {
			errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
		}
	}

	return errs.Err()
}

type ReportResponse struct {
	ID              string     `json:"id"`
	AttendanceID    string     `json:"attendance_id"`
	EmployeeID      string     `json:"employee_id"`
	EmployeeName    string     `json:"employee_name,omitempty"`
	ShiftID         *string    `json:"shift_id,omitempty"`
	ReportType      string     `json:"report_type"`
	Description     string     `json:"activity_description"`
	Notes           string     `json:"notes"`
	TicketsResolved int        `json:"tickets_resolved"`
	CallsMade       int        `json:"calls_made"`
	IssuesEscalated int        `json:"issues_escalated"`
	IsApproved      bool       `json:"is_approved"`
	ApprovedBy      *string    `json:"approved_by,omitempty"`
	ApprovedByName  *string    `json:"approved_by_name,omitempty"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty"`
	SubmittedAt     time.Time  `json:"submitted_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func NewReportResponse(r ActivityReport) ReportResponse {
	return ReportResponse{
		ID:              r.ID,
		AttendanceID:    r.AttendanceID,
		EmployeeID:      r.EmployeeID,
		EmployeeName:    r.EmployeeName,
		ShiftID:         r.ShiftID,
		ReportType:      string(r.Type),
		Description:     r.Description,
		Notes:           r.Notes,
		TicketsResolved: r.TicketsResolved,
		CallsMade:       r.CallsMade,
		IssuesEscalated: r.IssuesEscalated,
		IsApproved:      r.IsApproved,
		ApprovedBy:      r.ApprovedBy,
		ApprovedByName:  r.ApprovedByName,
		ApprovedAt:      r.ApprovedAt,
		SubmittedAt:     r.SubmittedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

type ListReportResponse struct {
	TotalCount int64            `json:"total_count"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"total_pages"`
	Showing    string           `json:"showing"`
	Reports    []ReportResponse `json:"reports"`
}
