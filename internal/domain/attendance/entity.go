package attendance

import (
	"math"
	"time"
)

type Status string

const (
	StatusClockedIn  Status = "clocked_in"
	StatusClockedOut Status = "clocked_out"
	StatusOnBreak    Status = "on_break"
)

func (s Status) Valid() bool {
	switch s {
	case StatusClockedIn, StatusClockedOut, StatusOnBreak:
		return true
	}
	return false
}

type Attendance struct {
	ID            string
	EmployeeID    string
	ShiftID       *string
	ClockInTime   time.Time
	ClockOutTime  *time.Time
	DurationHours *float64
	VarianceHours *float64
	Status        Status
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// joined
	EmployeeName         string
	EmployeeSupervisorID *string
	ShiftType            *string
}

func (a Attendance) OwnerID() string            { return a.EmployeeID }
func (a Attendance) OwnerSupervisorID() *string { return a.EmployeeSupervisorID }

// IsOpen reports whether the employee has not clocked out of this record.
func (a Attendance) IsOpen() bool {
	return a.ClockOutTime == nil
}

// Close stamps the clock-out and the worked duration.
func (a *Attendance) Close(at time.Time) error {
	if !a.IsOpen() {
		return ErrNotClockedIn
	}
	hours := roundHours(at.Sub(a.ClockInTime))
	a.ClockOutTime = &at
	a.DurationHours = &hours
	a.Status = StatusClockedOut
	a.UpdatedAt = at
	return nil
}

// ApplyVariance records worked minus scheduled hours. Close must run first.
func (a *Attendance) ApplyVariance(scheduled time.Duration) {
	if a.DurationHours == nil {
		return
	}
	v := math.Round((*a.DurationHours-scheduled.Hours())*100) / 100
	a.VarianceHours = &v
}

func (a *Attendance) StartBreak(at time.Time) error {
	switch a.Status {
	case StatusOnBreak:
		return ErrAlreadyOnBreak
	case StatusClockedIn:
		a.Status = StatusOnBreak
		a.UpdatedAt = at
		return nil
	default:
		return ErrNotClockedIn
	}
}

func (a *Attendance) EndBreak(at time.Time) error {
	if a.Status != StatusOnBreak {
		return ErrNotOnBreak
	}
	a.Status = StatusClockedIn
	a.UpdatedAt = at
	return nil
}

func roundHours(d time.Duration) float64 {
	return math.Round(d.Hours()*100) / 100
}
