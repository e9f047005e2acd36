package shift

import "time"

type Status string

const (
	StatusScheduled  Status = "Scheduled"
	StatusInProgress Status = "In_Progress"
	StatusCompleted  Status = "Completed"
	StatusCancelled  Status = "Cancelled"
	StatusMissed     Status = "Missed"
	StatusNoShow     Status = "No_Show"
)

func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusInProgress, StatusCompleted, StatusCancelled, StatusMissed, StatusNoShow:
		return true
	}
	return false
}

type Type string

const (
	TypeDay   Type = "Day_Shift"
	TypeLate  Type = "Late_Shift"
	TypeRecon Type = "Recon_Shift"
	TypeNight Type = "Night_Shift"
)

func (t Type) Valid() bool {
	switch t {
	case TypeDay, TypeLate, TypeRecon, TypeNight:
		return true
	}
	return false
}

type Shift struct {
	ID             string
	AgentID        string
	Date           time.Time
	StartTime      TimeOfDay
	EndTime        TimeOfDay
	Type           Type
	Status         Status
	PreviousStatus *Status
	ActualStart    *time.Time
	ActualEnd      *time.Time
	CreatedBy      *string
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// joined from employees
	AgentName         string
	AgentEmail        string
	AgentSupervisorID *string
}

func (s Shift) OwnerID() string            { return s.AgentID }
func (s Shift) OwnerSupervisorID() *string { return s.AgentSupervisorID }
