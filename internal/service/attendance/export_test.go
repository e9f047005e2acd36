package attendance

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/domain/access"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func closedRecord(id, employeeID, name string, in time.Time, hours float64) attendance.Attendance {
	out := in.Add(time.Duration(hours * float64(time.Hour)))
	return attendance.Attendance{
		ID:            id,
		EmployeeID:    employeeID,
		EmployeeName:  name,
		ClockInTime:   in,
		ClockOutTime:  &out,
		DurationHours: &hours,
		Status:        attendance.StatusClockedOut,
	}
}

func TestExportTimesheet(t *testing.T) {
	repo := newMemAttendanceRepo()
	repo.records["att-1"] = closedRecord("att-1", "agent-1", "Ana", today.Add(9*time.Hour), 8.5)
	repo.records["att-2"] = closedRecord("att-2", "agent-2", "Budi", today.Add(10*time.Hour), 7)
	repo.records["att-3"] = closedRecord("att-3", "agent-1", "Ana", today.AddDate(0, 0, 1).Add(9*time.Hour), 8)
	// outside the range
	repo.records["att-4"] = closedRecord("att-4", "agent-1", "Ana", today.AddDate(0, 0, 5), 8)
	repo.seq = 4

	svc := NewExportService(repo, time.UTC)
	buf, filename, err := svc.ExportTimesheet(as("adm-1", access.RoleAdmin), attendance.ExportRequest{
		StartDate: "2025-03-10",
		EndDate:   "2025-03-11",
	})
	require.NoError(t, err)
	assert.Equal(t, "timesheet_2025-03-10_2025-03-11.xlsx", filename)

	wb, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer wb.Close()

	rows, err := wb.GetRows("Timesheet")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, timesheetHeader, rows[0])
	assert.Equal(t, []string{"Ana", "2025-03-10", "09:00", "17:30", "8.5", "-", "-", "clocked_out"}, rows[1])

	summary, err := wb.GetRows("Summary")
	require.NoError(t, err)
	require.Len(t, summary, 3)
	assert.Equal(t, []string{"Ana", "2", "16.5"}, summary[1])
	assert.Equal(t, []string{"Budi", "1", "7"}, summary[2])
}

func TestExportTimesheet_Errors(t *testing.T) {
	svc := NewExportService(newMemAttendanceRepo(), time.UTC)
	valid := attendance.ExportRequest{StartDate: "2025-03-10", EndDate: "2025-03-11"}

	_, _, err := svc.ExportTimesheet(as("agent-1", access.RoleEmployee), valid)
	assert.ErrorIs(t, err, access.ErrPermissionDenied)

	_, _, err = svc.ExportTimesheet(as("adm-1", access.RoleAdmin), valid)
	assert.ErrorIs(t, err, attendance.ErrExportEmpty)

	_, _, err = svc.ExportTimesheet(as("adm-1", access.RoleAdmin), attendance.ExportRequest{StartDate: "2025-03-11", EndDate: "2025-03-10"})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}
