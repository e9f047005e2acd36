package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/domain/access"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/pkg/database"
)

type dashboardRepositoryImpl struct {
	db *database.DB
}

func NewDashboardRepository(db *database.DB) dashboard.DashboardRepository {
	return &dashboardRepositoryImpl{db: db}
}

// CountEmployees implements dashboard.DashboardRepository.
func (r *dashboardRepositoryImpl) CountEmployees(ctx context.Context, scope access.Scope) (int64, error) {
	q := GetQuerier(ctx, r.db)

	where, args, _ := scopeClause(scope, "e.id", "e.supervisor_id", 1)

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM employees e WHERE "+where, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count employees: %w", err)
	}
	return total, nil
}

// ShiftStatusCounts returns per-status counts for one day in a single query.
func (r *dashboardRepositoryImpl) ShiftStatusCounts(ctx context.Context, date time.Time, scope access.Scope) (dashboard.ShiftStatusCounts, error) {
	q := GetQuerier(ctx, r.db)

	where, args, argIdx := scopeClause(scope, "s.agent_id", "e.supervisor_id", 1)
	args = append(args, dateOnly(date))

	query := fmt.Sprintf(`
		SELECT
			COUNT(*) FILTER (WHERE s.status = 'Scheduled'),
			COUNT(*) FILTER (WHERE s.status = 'In_Progress'),
			COUNT(*) FILTER (WHERE s.status = 'Completed'),
			COUNT(*) FILTER (WHERE s.status = 'Cancelled'),
			COUNT(*) FILTER (WHERE s.status = 'Missed'),
			COUNT(*) FILTER (WHERE s.status = 'No_Show')
		FROM shifts s
		JOIN employees e ON e.id = s.agent_id
		WHERE %s AND s.shift_date = $%d
	`, where, argIdx)

	var c dashboard.ShiftStatusCounts
	err := q.QueryRow(ctx, query, args...).Scan(
		&c.Scheduled, &c.InProgress, &c.Completed, &c.Cancelled, &c.Missed, &c.NoShow,
	)
	if err != nil {
		return dashboard.ShiftStatusCounts{}, fmt.Errorf("failed to count shifts: %w", err)
	}
	return c, nil
}

// CountOpenAttendances implements dashboard.DashboardRepository.
func (r *dashboardRepositoryImpl) CountOpenAttendances(ctx context.Context, scope access.Scope) (int64, error) {
	q := GetQuerier(ctx, r.db)

	where, args, _ := scopeClause(scope, "a.employee_id", "e.supervisor_id", 1)
	query := `
		SELECT COUNT(*)
		FROM attendances a
		JOIN employees e ON e.id = a.employee_id
		WHERE a.clock_out_time IS NULL AND ` + where

	var total int64
	if err := q.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count open attendances: %w", err)
	}
	return total, nil
}

// CountPendingReports implements dashboard.DashboardRepository.
func (r *dashboardRepositoryImpl) CountPendingReports(ctx context.Context, scope access.Scope) (int64, error) {
	q := GetQuerier(ctx, r.db)

	where, args, _ := scopeClause(scope, "r.employee_id", "e.supervisor_id", 1)
	query := `
		SELECT COUNT(*)
		FROM activity_reports r
		JOIN employees e ON e.id = r.employee_id
		WHERE r.is_approved = FALSE AND ` + where

	var total int64
	if err := q.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count pending reports: %w", err)
	}
	return total, nil
}

// EmployeeStats implements dashboard.DashboardRepository.
func (r *dashboardRepositoryImpl) EmployeeStats(ctx context.Context, employeeID string) (dashboard.EmployeeStatsResponse, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			(SELECT COUNT(*) FROM shifts WHERE agent_id = $1),
			(SELECT COUNT(*) FROM shifts WHERE agent_id = $1 AND status = 'Completed'),
			(SELECT COUNT(*) FROM activity_reports WHERE employee_id = $1),
			(SELECT COUNT(*) FROM activity_reports WHERE employee_id = $1 AND is_approved),
			(SELECT COALESCE(SUM(duration_hours), 0)::float8 FROM attendances WHERE employee_id = $1)
	`

	stats := dashboard.EmployeeStatsResponse{EmployeeID: employeeID}
	err := q.QueryRow(ctx, query, employeeID).Scan(
		&stats.TotalShifts, &stats.CompletedShifts, &stats.TotalReports, &stats.ApprovedReports, &stats.HoursWorked,
	)
	if err != nil {
		return dashboard.EmployeeStatsResponse{}, fmt.Errorf("failed to get employee stats: %w", err)
	}
	return stats, nil
}
