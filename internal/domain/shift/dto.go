package shift

import (
	"time"

	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/pkg/validator"
)

type CreateShiftRequest struct {
	// AgentID defaults to the caller when omitted.
	AgentID   *string `json:"agent_id"`
	ShiftDate string  `json:"shift_date"`
	StartTime string  `json:"start_time"`
	EndTime   string  `json:"end_time"`
	ShiftType string  `json:"shift_type"`
}

func (r *CreateShiftRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.AgentID != nil && !validator.IsValidUUID(*r.AgentID) {
		errs.Add("agent_id", "agent_id must be a valid UUID")
	}
	if validator.IsEmpty(r.ShiftDate) {
		errs.Add("shift_date", "shift_date is required")
	} else if _, ok := validator.IsValidDate(r.ShiftDate); !ok {
		errs.Add("shift_date", "shift_date must be in YYYY-MM-DD format")
	}

	validateTimes(&errs, r.StartTime, r.EndTime)

	if !Type(r.ShiftType).Valid() {
		errs.Add("shift_type", "shift_type must be one of: Day_Shift, Late_Shift, Recon_Shift, Night_Shift")
	}

	return errs.Err()
}

func validateTimes(errs *validator.ValidationErrors, start, end string) {
	startOK := validator.IsValidTimeOfDay(start)
	endOK := validator.IsValidTimeOfDay(end)
	if !startOK {
		errs.Add("start_time", "start_time must be in HH:MM format")
	}
	if !endOK {
		errs.Add("end_time", "end_time must be in HH:MM format")
	}
	if startOK && endOK {
		s, _ := ParseTimeOfDay(start)
		e, _ := ParseTimeOfDay(end)
		if s == e {
			errs.Add("end_time", "end_time must differ from start_time")
		}
	}
}

// UpdateShiftRequest reschedules a shift that has not started yet.
type UpdateShiftRequest struct {
	ShiftDate *string `json:"shift_date"`
	StartTime *string `json:"start_time"`
	EndTime   *string `json:"end_time"`
	ShiftType *string `json:"shift_type"`
}

func (r *UpdateShiftRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.ShiftDate != nil {
		if _, ok := validator.IsValidDate(*r.ShiftDate); !ok {
			errs.Add("shift_date", "shift_date must be in YYYY-MM-DD format")
		}
	}
	if r.StartTime != nil && !validator.IsValidTimeOfDay(*r.StartTime) {
		errs.Add("start_time", "start_time must be in HH:MM format")
	}
	if r.EndTime != nil && !validator.IsValidTimeOfDay(*r.EndTime) {
		errs.Add("end_time", "end_time must be in HH:MM format")
	}
	if r.ShiftType != nil && !Type(*r.ShiftType).Valid() {
		errs.Add("shift_type", "shift_type must be one of: Day_Shift, Late_Shift, Recon_Shift, Night_Shift")
	}

	return errs.Err()
}

type ShiftFilter struct {
	AgentID   *string `json:"agent_id,omitempty"`
	Date      *string `json:"date,omitempty"`       // YYYY-MM-DD
	StartDate *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate   *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	Status    *string `json:"status,omitempty"`
	ShiftType *string `json:"shift_type,omitempty"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`

	// Sorting
	SortBy    string `json:"sort_by"`    // shift_date, start_time, status, agent_name
	SortOrder string `json:"sort_order"` // asc, desc
}

func (f *ShiftFilter) Validate() error {
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

	if f.AgentID != nil && !validator.IsValidUUID(*f.AgentID) {
		errs.Add("agent_id", "agent_id must be a valid UUID")
	}
	for field, value := range map[string]*string{"date": f.Date, "start_date": f.StartDate, "end_date": f.EndDate} {
		if value != nil {
			if _, ok := validator.IsValidDate(*value); !ok {
				errs.Add(field, field+" must be in YYYY-MM-DD format")
			}
		}
	}
	if f.Status != nil && !Status(*f.Status).Valid() {
		errs.Add("status", "status must be one of: Scheduled, In_Progress, Completed, Cancelled, Missed, No_Show")
	}
	if f.ShiftType != nil && !Type(*f.ShiftType).Valid() {
		errs.Add("shift_type", "shift_type must be one of: Day_Shift, Late_Shift, Recon_Shift, Night_Shift")
	}

	if f.SortBy == "" {
		f.SortBy = "shift_date"
	} else if !validator.IsInSlice(f.SortBy, []string{"shift_date", "start_time", "status", "agent_name"}) {
		errs.Add("sort_by", "sort_by must be one of: shift_date, start_time, status, agent_name")
	}
	if f.SortOrder == "" {
		f.SortOrder = "desc"
	} else if !validator.IsInSlice(f.SortOrder, []string{"asc", "desc"}) {
		errs.Add("sort_order", "sort_order must be one of: asc, desc")
	}

	return errs.Err()
}

type ShiftResponse struct {
	ID             string     `json:"id"`
	AgentID        string     `json:"agent_id"`
	AgentName      string     `json:"agent_name,omitempty"`
	ShiftDate      string     `json:"shift_date"`
	StartTime      string     `json:"start_time"`
	EndTime        string     `json:"end_time"`
	ShiftType      string     `json:"shift_type"`
	Status         string     `json:"status"`
	PreviousStatus *string    `json:"previous_status,omitempty"`
	ScheduledHours float64    `json:"scheduled_hours"`
	TimerMessage   string     `json:"timer_message"`
	ActualStart    *time.Time `json:"actual_start,omitempty"`
	ActualEnd      *time.Time `json:"actual_end,omitempty"`
	CreatedBy      *string    `json:"created_by,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func NewShiftResponse(s Shift, now time.Time, minHours float64) ShiftResponse {
	resp := ShiftResponse{
		ID:             s.ID,
		AgentID:        s.AgentID,
		AgentName:      s.AgentName,
		ShiftDate:      s.Date.Format("2006-01-02"),
		StartTime:      s.StartTime.String(),
		EndTime:        s.EndTime.String(),
		ShiftType:      string(s.Type),
		Status:         string(s.Status),
		ScheduledHours: RoundHours(s.ScheduledDuration()),
		TimerMessage:   s.TimerMessage(now, minHours),
		ActualStart:    s.ActualStart,
		ActualEnd:      s.ActualEnd,
		CreatedBy:      s.CreatedBy,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
	if s.PreviousStatus != nil {
		prev := string(*s.PreviousStatus)
		resp.PreviousStatus = &prev
	}
	return resp
}

type ListShiftResponse struct {
	TotalCount int64           `json:"total_count"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
	Showing    string          `json:"showing"`
	Shifts     []ShiftResponse `json:"shifts"`
}
