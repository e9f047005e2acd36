package attendance

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/domain/access"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/domain/attendance"
	"github.com/xuri/excelize/v2"
)

const (
	timesheetSheet = "Timesheet"
	summarySheet   = "Summary"
)

var timesheetHeader = []string{"Employee", "Date", "Clock In", "Clock Out", "Duration (h)", "Variance (h)", "Shift Type", "Status"}

type ExportServiceImpl struct {
	attendance.AttendanceRepository
	loc *time.Location
}

func NewExportService(attendanceRepo attendance.AttendanceRepository, loc *time.Location) attendance.ExportService {
	if loc == nil {
		loc = time.UTC
	}
	return &ExportServiceImpl{AttendanceRepository: attendanceRepo, loc: loc}
}

// ExportTimesheet renders every visible attendance record between the two
// dates (inclusive, local time) as a workbook with a detail sheet and a
// per-employee summary sheet.
func (s *ExportServiceImpl) ExportTimesheet(ctx context.Context, req attendance.ExportRequest) (*bytes.Buffer, string, error) {
	actor, err := access.FromContext(ctx)
	if err != nil {
		return nil, "", err
	}
	if !actor.IsAdmin() && !actor.IsSupervisor() {
		return nil, "", attendance.ErrExportDenied
	}
	if err := req.Validate(); err != nil {
		return nil, "", err
	}

	start, _ := time.ParseInLocation("2006-01-02", req.StartDate, s.loc)
	end, _ := time.ParseInLocation("2006-01-02", req.EndDate, s.loc)

	records, err := s.AttendanceRepository.ListForExport(ctx, start, end.AddDate(0, 0, 1), actor.Scope())
	if err != nil {
		return nil, "", fmt.Errorf("failed to load attendance for export: %w", err)
	}
	records = access.Visible(actor, records)
	if len(records) == 0 {
		return nil, "", attendance.ErrExportEmpty
	}

	f := excelize.NewFile()
	defer f.Close()

	idx, _ := f.NewSheet(timesheetSheet)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	f.SetColWidth(timesheetSheet, "A", "A", 28)
	f.SetColWidth(timesheetSheet, "B", "D", 14)
	f.SetColWidth(timesheetSheet, "E", "H", 14)

	for i, h := range timesheetHeader {
		f.SetCellValue(timesheetSheet, cell(colName(i), 1), h)
	}
	f.SetCellStyle(timesheetSheet, "A1", cell(colName(len(timesheetHeader)-1), 1), headerStyle)

	type totals struct {
		name  string
		days  int
		hours float64
	}
	perEmployee := make(map[string]*totals)

	row := 2
	for _, rec := range records {
		in := rec.ClockInTime.In(s.loc)
		values := []interface{}{
			rec.EmployeeName,
			in.Format("2006-01-02"),
			in.Format("15:04"),
			"-",
			"-",
			"-",
			"-",
			string(rec.Status),
		}
		if rec.ClockOutTime != nil {
			values[3] = rec.ClockOutTime.In(s.loc).Format("15:04")
		}
		if rec.DurationHours != nil {
			values[4] = *rec.DurationHours
		}
		if rec.VarianceHours != nil {
			values[5] = *rec.VarianceHours
		}
		if rec.ShiftType != nil {
			values[6] = *rec.ShiftType
		}
		for i, v := range values {
			f.SetCellValue(timesheetSheet, cell(colName(i), row), v)
		}
		row++

		t, ok := perEmployee[rec.EmployeeID]
		if !ok {
			t = &totals{name: rec.EmployeeName}
			perEmployee[rec.EmployeeID] = t
		}
		t.days++
		if rec.DurationHours != nil {
			t.hours += *rec.DurationHours
		}
	}

	f.NewSheet(summarySheet)
	f.SetColWidth(summarySheet, "A", "A", 28)
	f.SetColWidth(summarySheet, "B", "C", 16)
	f.SetCellValue(summarySheet, "A1", "Employee")
	f.SetCellValue(summarySheet, "B1", "Records")
	f.SetCellValue(summarySheet, "C1", "Hours Worked")
	f.SetCellStyle(summarySheet, "A1", "C1", headerStyle)

	summaries := make([]*totals, 0, len(perEmployee))
	for _, t := range perEmployee {
		summaries = append(summaries, t)
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].name < summaries[j].name })
	for i, t := range summaries {
		r := i + 2
		f.SetCellValue(summarySheet, cell("A", r), t.name)
		f.SetCellValue(summarySheet, cell("B", r), t.days)
		f.SetCellValue(summarySheet, cell("C", r), float64(int(t.hours*100+0.5))/100)
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		slog.Error("failed to write timesheet", "error", err)
		return nil, "", attendance.ErrExportGenerate
	}

	filename := fmt.Sprintf("timesheet_%s_%s.xlsx", req.StartDate, req.EndDate)
	return buf, filename, nil
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
