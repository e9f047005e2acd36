package dashboard

import "context"

type DashboardService interface {
	Summary(ctx context.Context) (SummaryResponse, error)
	EmployeeStats(ctx context.Context, employeeID string) (EmployeeStatsResponse, error)
}
