package report

import (
	"context"

	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/domain/access"
)

type ReportRepository interface {
	// Create returns ErrDuplicateReport when the attendance already has a report.
	Create(ctx context.Context, r ActivityReport) (ActivityReport, error)
	GetByID(ctx context.Context, id string) (ActivityReport, error)
	LockByID(ctx context.Context, id string) (ActivityReport, error)
	ExistsForAttendance(ctx context.Context, attendanceID string) (bool, error)
	// Approve persists the approval stamped on r by ActivityReport.Approve.
	// Only a pending row is written; otherwise ErrAlreadyApproved.
	Approve(ctx context.Context, r ActivityReport) (ActivityReport, error)
	Update(ctx context.Context, r ActivityReport) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ReportFilter, scope access.Scope) ([]ActivityReport, int64, error)
}
