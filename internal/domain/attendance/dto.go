package attendance

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/pkg/validator"
)

type AttendanceResponse struct {
	ID            string     `json:"id"`
	EmployeeID    string     `json:"employee_id"`
	EmployeeName  string     `json:"employee_name,omitempty"`
	ShiftID       *string    `json:"shift_id,omitempty"`
	ShiftType     *string    `json:"shift_type,omitempty"`
	ClockInTime   time.Time  `json:"clock_in_time"`
	ClockOutTime  *time.Time `json:"clock_out_time,omitempty"`
	DurationHours *float64   `json:"duration_hours,omitempty"`
	VarianceHours *float64   `json:"variance_hours,omitempty"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func NewAttendanceResponse(a Attendance) AttendanceResponse {
	return AttendanceResponse{
		ID:            a.ID,
		EmployeeID:    a.EmployeeID,
		EmployeeName:  a.EmployeeName,
		ShiftID:       a.ShiftID,
		ShiftType:     a.ShiftType,
		ClockInTime:   a.ClockInTime,
		ClockOutTime:  a.ClockOutTime,
		DurationHours: a.DurationHours,
		VarianceHours: a.VarianceHours,
		Status:        string(a.Status),
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

type StatusResponse struct {
	IsClockedIn bool                `json:"is_clocked_in"`
	OnBreak     bool                `json:"on_break"`
	Attendance  *AttendanceResponse `json:"attendance,omitempty"`
}

type TodaySummaryResponse struct {
	Date        string                `json:"date"`
	IsClockedIn bool                  `json:"is_clocked_in"`
	TotalHours  float64               `json:"total_hours"`
	Shift       *shift.ShiftResponse  `json:"shift,omitempty"`
	Attendances []AttendanceResponse `json:"attendances"`
}

type AttendanceFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	Date       *string `json:"date,omitempty"`       // YYYY-MM-DD
	StartDate  *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate    *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	Status     *string `json:"status,omitempty"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`

	// Sorting
	SortBy    string `json:"sort_by"`    // clock_in_time, employee_name, duration_hours
	SortOrder string `json:"sort_order"` // asc, desc
}

func (f *AttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs.Add("page", "page must be a positive number")
	}
	if f.Page == 0 {
		f.Page = 1 // Default page
	}
	if f.Limit < 0 {
		errs.Add("limit", "limit must be a positive number")
	}
	if f.Limit == 0 {
		f.Limit = 20 // Default limit
	}
	if f.Limit > 100 {
		errs.Add("limit", "limit must not exceed 100")
	}

	if f.EmployeeID != nil && !validator.IsValidUUID(*f.EmployeeID) {
		errs.Add("employee_id", "employee_id must be a valid UUID")
	}
	if f.Status != nil && !Status(*f.Status).Valid() {
		errs.Add("status", "status must be one of: clocked_in, clocked_out, on_break")
	}
	if f.Date != nil {
		if _, valid := validator.IsValidDate(*f.Date); !valid {
			errs.Add("date", "date must be in YYYY-MM-DD format")
		}
	}
	if f.StartDate != nil {
		if _, valid := validator.IsValidDate(*f.StartDate); !valid {
			errs.Add("start_date", "start_date must be in YYYY-MM-DD format")
		}
	}
	if f.EndDate != nil {
		if _, valid := validator.IsValidDate(*f.EndDate); !valid {
			errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
		}
	}

	if f.SortBy == "" {
		f.SortBy = "clock_in_time"
	} else if !validator.IsInSlice(f.SortBy, []string{"clock_in_time", "employee_name", "duration_hours"}) {
		errs.Add("sort_by", "sort_by must be one of: clock_in_time, employee_name, duration_hours")
	}
	if f.SortOrder == "" {
		f.SortOrder = "desc" // newest first
	} else if !validator.IsInSlice(strings.ToLower(f.SortOrder), []string{"asc", "desc"}) {
		errs.Add("sort_order", "sort_order must be one of: asc, desc")
	}

	return errs.Err()
}

type ListAttendanceResponse struct {
	TotalCount  int64                `json:"total_count"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	TotalPages  int                  `json:"total_pages"`
	Showing     string               `json:"showing"`
	Attendances []AttendanceResponse `json:"attendances"`
}
