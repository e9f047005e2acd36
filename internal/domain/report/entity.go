package report

import "time"

type Type string

const (
	TypeEndOfShift Type = "End_of_Shift"
	TypeEmergency  Type = "Emergency"
	TypeBreak      Type = "Break"
	TypeOther      Type = "Other"
)

func (t Type) Valid() bool {
	switch t {
	case TypeEndOfShift, TypeEmergency, TypeBreak, TypeOther:
		return true
	}
	return false
}

// Metrics are the per-attendance activity counters.
type Metrics struct {
	TicketsResolved int
	CallsMade       int
	IssuesEscalated int
}

type ActivityReport struct {
	ID           string
	AttendanceID string
	EmployeeID   string
	ShiftID      *string
	Type         Type
	Description  string
	Notes        string
	Metrics
	IsApproved  bool
	ApprovedBy  *string
	ApprovedAt  *time.Time
	SubmittedAt time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// joined
	EmployeeName         string
	EmployeeSupervisorID *string
	ApprovedByName       *string
}

func (r ActivityReport) OwnerID() string            { return r.EmployeeID }
func (r ActivityReport) OwnerSupervisorID() *string { return r.EmployeeSupervisorID }

// Approve marks the report approved by approverID. Approval cannot be undone.
func (r *ActivityReport) Approve(approverID string, at time.Time) error {
	if r.IsApproved {
		return ErrAlreadyApproved
	}
	r.IsApproved = true
	r.ApprovedBy = &approverID
	r.ApprovedAt = &at
	r.UpdatedAt = at
	return nil
}

// EnsureMutable rejects edits and deletes once approved.
func (r ActivityReport) EnsureMutable() error {
	if r.IsApproved {
		return ErrImmutableRecord
	}
	return nil
}
