package dashboard

import "github.com/cmlabs-hris/shiftwatch-backend-go/internal/domain/shift"

// ========== SUMMARY ==========

// SummaryResponse is the combined response for the main dashboard endpoint.
// Counts only cover records the caller may see.
type SummaryResponse struct {
	Date           string                `json:"date"`
	Role           string                `json:"role"`
	TotalEmployees int64                 `json:"total_employees"`
	ShiftsToday    ShiftStatusCounts     `json:"shifts_today"`
	ClockedInNow   int64                 `json:"clocked_in_now"`
	PendingReports *int64                `json:"pending_reports,omitempty"` // supervisors and admins only
	RecentShifts   []shift.ShiftResponse `json:"recent_shifts"`
	MyShiftToday   *shift.ShiftResponse  `json:"my_shift_today,omitempty"`
}

// ShiftStatusCounts counts today's shifts per status.
type ShiftStatusCounts struct {
	Scheduled  int64 `json:"scheduled"`
	InProgress int64 `json:"in_progress"`
	Completed  int64 `json:"completed"`
	Cancelled  int64 `json:"cancelled"`
	Missed     int64 `json:"missed"`
	NoShow     int64 `json:"no_show"`
}

// Total sums every status.
func (c ShiftStatusCounts) Total() int64 {
	return c.Scheduled + c.InProgress + c.Completed + c.Cancelled + c.Missed + c.NoShow
}

// ========== EMPLOYEE STATS ==========

type EmployeeStatsResponse struct {
	EmployeeID      string  `json:"employee_id"`
	TotalShifts     int64   `json:"total_shifts"`
	CompletedShifts int64   `json:"completed_shifts"`
	TotalReports    int64   `json:"total_reports"`
	ApprovedReports int64   `json:"approved_reports"`
	HoursWorked     float64 `json:"hours_worked"`
}
