package attendance

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/domain/access"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/pkg/validator"
)

const maxExportDays = 366

var (
	ErrExportEmpty    = errors.New("no attendance records in the selected range")
	ErrExportGenerate = errors.New("failed to generate timesheet")

	ErrExportDenied = fmt.Errorf("%w: only supervisors and admins may export timesheets", access.ErrPermissionDenied)
)

type ExportRequest struct {
	StartDate string `json:"start_date"` // YYYY-MM-DD
	EndDate   string `json:"end_date"`   // YYYY-MM-DD
}

func (r *ExportRequest) Validate() error {
	var errs validator.ValidationErrors

	start, okStart := validator.IsValidDate(r.StartDate)
	if !okStart {
		errs.Add("start_date", "start_date must be in YYYY-MM-DD format")
	}
	end, okEnd := validator.IsValidDate(r.EndDate)
	if !okEnd {
		errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
	}
	if okStart && okEnd {
		if end.Before(start) {
			errs.Add("end_date", "end_date must not be before start_date")
		} else if end.Sub(start) > maxExportDays*24*time.Hour {
			errs.Add("end_date", fmt.Sprintf("range must not exceed %d days", maxExportDays))
		}
	}

	return errs.Err()
}

// ExportService renders timesheets. The buffer holds an .xlsx workbook.
type ExportService interface {
	ExportTimesheet(ctx context.Context, req ExportRequest) (*bytes.Buffer, string, error)
}
