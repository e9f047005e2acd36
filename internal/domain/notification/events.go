package notification

import (
	"fmt"

	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/domain/shift"
)

func ShiftStatusChanged(s shift.Shift) Message {
	prev := "None"
	if s.PreviousStatus != nil {
		prev = string(*s.PreviousStatus)
	}
	return Message{
		Event:       EventShiftStatusChanged,
		Subject:     "Shift status changed",
		Text:        fmt.Sprintf("Shift status changed for *%s*: `%s` → `%s`", agentLabel(s), prev, s.Status),
		RecipientID: s.AgentID,
		Data: map[string]interface{}{
			"shift_id":        s.ID,
			"agent_id":        s.AgentID,
			"shift_date":      s.Date.Format("2006-01-02"),
			"previous_status": prev,
			"status":          string(s.Status),
		},
	}
}

func ShiftCreated(s shift.Shift) Message {
	return Message{
		Event:       EventShiftCreated,
		Subject:     "New shift scheduled",
		Text:        fmt.Sprintf("New %s scheduled for *%s* on %s, %s-%s", s.Type, agentLabel(s), s.Date.Format("2006-01-02"), s.StartTime, s.EndTime),
		RecipientID: s.AgentID,
		Data: map[string]interface{}{
			"shift_id":   s.ID,
			"agent_id":   s.AgentID,
			"shift_date": s.Date.Format("2006-01-02"),
			"start_time": s.StartTime.String(),
			"end_time":   s.EndTime.String(),
			"shift_type": string(s.Type),
		},
	}
}

func ClockedIn(a attendance.Attendance, employeeName string) Message {
	return Message{
		Event:       EventClockIn,
		Subject:     "Clock in",
		Text:        fmt.Sprintf("*%s* clocked in at %s", employeeName, a.ClockInTime.Format("15:04")),
		RecipientID: a.EmployeeID,
		Data: map[string]interface{}{
			"attendance_id": a.ID,
			"employee_id":   a.EmployeeID,
			"shift_id":      a.ShiftID,
		},
	}
}

func ClockedOut(a attendance.Attendance, employeeName string) Message {
	hours := 0.0
	if a.DurationHours != nil {
		hours = *a.DurationHours
	}
	return Message{
		Event:       EventClockOut,
		Subject:     "Clock out",
		Text:        fmt.Sprintf("*%s* clocked out after %.2f hours", employeeName, hours),
		RecipientID: a.EmployeeID,
		Data: map[string]interface{}{
			"attendance_id":  a.ID,
			"employee_id":    a.EmployeeID,
			"duration_hours": a.DurationHours,
			"variance_hours": a.VarianceHours,
		},
	}
}

func ReportSubmitted(r report.ActivityReport, employeeName string) Message {
	msg := Message{
		Event:   EventReportSubmitted,
		Subject: "Activity report submitted",
		Text:    fmt.Sprintf("*%s* submitted a %s report", employeeName, r.Type),
		Data: map[string]interface{}{
			"report_id":   r.ID,
			"employee_id": r.EmployeeID,
			"report_type": string(r.Type),
		},
	}
	// the approver is the one who needs to know
	if r.EmployeeSupervisorID != nil {
		msg.RecipientID = *r.EmployeeSupervisorID
	}
	return msg
}

func ReportApproved(r report.ActivityReport) Message {
	return Message{
		Event:       EventReportApproved,
		Subject:     "Activity report approved",
		Text:        fmt.Sprintf("Your %s report was approved", r.Type),
		RecipientID: r.EmployeeID,
		Data: map[string]interface{}{
			"report_id":   r.ID,
			"approved_by": r.ApprovedBy,
		},
	}
}

func agentLabel(s shift.Shift) string {
	if s.AgentName != "" {
		return s.AgentName
	}
	if s.AgentEmail != "" {
		return s.AgentEmail
	}
	return s.AgentID
}
