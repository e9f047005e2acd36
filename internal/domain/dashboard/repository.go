package dashboard

import (
	"context"
	"time"

	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/domain/access"
)

type DashboardRepository interface {
	CountEmployees(ctx context.Context, scope access.Scope) (int64, error)
	ShiftStatusCounts(ctx context.Context, date time.Time, scope access.Scope) (ShiftStatusCounts, error)
	CountOpenAttendances(ctx context.Context, scope access.Scope) (int64, error)
	CountPendingReports(ctx context.Context, scope access.Scope) (int64, error)
	EmployeeStats(ctx context.Context, employeeID string) (EmployeeStatsResponse, error)
}
