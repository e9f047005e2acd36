package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/domain/access"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const reportSelect = `
	SELECT r.id, r.attendance_id, r.employee_id, r.shift_id, r.report_type, r.description, r.notes,
		r.tickets_resolved, r.calls_made, r.issues_escalated,
		r.is_approved, r.approved_by, r.approved_at, r.submitted_at, r.created_at, r.updated_at,
		e.full_name, e.supervisor_id, ap.full_name
	FROM activity_reports r
	JOIN employees e ON e.id = r.employee_id
	LEFT JOIN employees ap ON ap.id = r.approved_by
`

type reportRepositoryImpl struct {
	db *database.DB
}

func NewReportRepository(db *database.DB) report.ReportRepository {
	return &reportRepositoryImpl{db: db}
}

func scanReport(row pgx.Row) (report.ActivityReport, error) {
	var (
		rep        report.ActivityReport
		reportType string
	)
	err := row.Scan(
		&rep.ID, &rep.AttendanceID, &rep.EmployeeID, &rep.ShiftID, &reportType, &rep.Description, &rep.Notes,
		&rep.TicketsResolved, &rep.CallsMade, &rep.IssuesEscalated,
		&rep.IsApproved, &rep.ApprovedBy, &rep.ApprovedAt, &rep.SubmittedAt, &rep.CreatedAt, &rep.UpdatedAt,
		&rep.EmployeeName, &rep.EmployeeSupervisorID, &rep.ApprovedByName,
	)
	rep.Type = report.Type(reportType)
	return rep, err
}

// Create implements report.ReportRepository.
func (r *reportRepositoryImpl) Create(ctx context.Context, rep report.ActivityReport) (report.ActivityReport, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO activity_reports (
			attendance_id, employee_id, shift_id, report_type, description, notes,
			tickets_resolved, calls_made, issues_escalated, submitted_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	var id string
	err := q.QueryRow(ctx, query,
		rep.AttendanceID, rep.EmployeeID, rep.ShiftID, string(rep.Type), rep.Description, rep.Notes,
		rep.TicketsResolved, rep.CallsMade, rep.IssuesEscalated, rep.SubmittedAt,
	).Scan(&id)
	if err != nil {
		switch {
		case uniqueViolation(err, "uq_activity_reports_attendance"):
			return report.ActivityReport{}, report.ErrDuplicateReport
		case checkViolation(err, "chk_activity_reports_escalations"):
			return report.ActivityReport{}, report.ValidateMetrics(rep.Metrics)
		}
		if constraint, ok := foreignKeyViolation(err); ok && constraint == "activity_reports_attendance_id_fkey" {
			return report.ActivityReport{}, attendance.ErrAttendanceNotFound
		}
		return report.ActivityReport{}, fmt.Errorf("failed to create activity report: %w", err)
	}
	return r.GetByID(ctx, id)
}

func (r *reportRepositoryImpl) getOne(ctx context.Context, query string, args ...interface{}) (report.ActivityReport, error) {
	q := GetQuerier(ctx, r.db)

	rep, err := scanReport(q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return report.ActivityReport{}, report.ErrReportNotFound
		}
		return report.ActivityReport{}, fmt.Errorf("failed to get activity report: %w", err)
	}
	return rep, nil
}

// GetByID implements report.ReportRepository.
func (r *reportRepositoryImpl) GetByID(ctx context.Context, id string) (report.ActivityReport, error) {
	return r.getOne(ctx, reportSelect+" WHERE r.id = $1", id)
}

// LockByID implements report.ReportRepository.
func (r *reportRepositoryImpl) LockByID(ctx context.Context, id string) (report.ActivityReport, error) {
	return r.getOne(ctx, reportSelect+" WHERE r.id = $1 FOR UPDATE OF r", id)
}

// ExistsForAttendance implements report.ReportRepository.
func (r *reportRepositoryImpl) ExistsForAttendance(ctx context.Context, attendanceID string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM activity_reports WHERE attendance_id = $1)`, attendanceID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check activity report: %w", err)
	}
	return exists, nil
}

// Approve implements report.ReportRepository. Only a pending row matches, so
// of two concurrent approvals one gets ErrAlreadyApproved.
func (r *reportRepositoryImpl) Approve(ctx context.Context, rep report.ActivityReport) (report.ActivityReport, error) {
	if !rep.IsApproved || rep.ApprovedBy == nil || rep.ApprovedAt == nil {
		return report.ActivityReport{}, fmt.Errorf("failed to approve activity report %s: approval not stamped", rep.ID)
	}
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE activity_reports
		SET is_approved = TRUE, approved_by = $1, approved_at = $2, updated_at = $3
		WHERE id = $4 AND is_approved = FALSE
	`
	tag, err := q.Exec(ctx, query, *rep.ApprovedBy, *rep.ApprovedAt, rep.UpdatedAt, rep.ID)
	if err != nil {
		return report.ActivityReport{}, fmt.Errorf("failed to approve activity report: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, rep.ID); err != nil {
			return report.ActivityReport{}, err
		}
		return report.ActivityReport{}, report.ErrAlreadyApproved
	}
	return r.GetByID(ctx, rep.ID)
}

// Update implements report.ReportRepository. Approved rows are never touched.
func (r *reportRepositoryImpl) Update(ctx context.Context, rep report.ActivityReport) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE activity_reports
		SET report_type = $1, description = $2, notes = $3,
			tickets_resolved = $4, calls_made = $5, issues_escalated = $6, updated_at = $7
		WHERE id = $8 AND is_approved = FALSE
	`
	tag, err := q.Exec(ctx, query,
		string(rep.Type), rep.Description, rep.Notes,
		rep.TicketsResolved, rep.CallsMade, rep.IssuesEscalated, rep.UpdatedAt, rep.ID)
	if err != nil {
		if checkViolation(err, "chk_activity_reports_escalations") {
			return report.ValidateMetrics(rep.Metrics)
		}
		return fmt.Errorf("failed to update activity report: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return report.ErrImmutableRecord
	}
	return nil
}

// Delete implements report.ReportRepository.
func (r *reportRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM activity_reports WHERE id = $1 AND is_approved = FALSE`, id)
	if err != nil {
		return fmt.Errorf("failed to delete activity report: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return report.ErrImmutableRecord
	}
	return nil
}

// List implements report.ReportRepository.
func (r *reportRepositoryImpl) List(ctx context.Context, filter report.ReportFilter, scope access.Scope) ([]report.ActivityReport, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere, args, argIdx := scopeClause(scope, "r.employee_id", "e.supervisor_id", 1)

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		baseWhere += fmt.Sprintf(" AND r.employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.Approved != nil {
		baseWhere += fmt.Sprintf(" AND r.is_approved = $%d", argIdx)
		args = append(args, *filter.Approved)
		argIdx++
	}
	if filter.ReportType != nil && *filter.ReportType != "" {
		baseWhere += fmt.Sprintf(" AND r.report_type = $%d", argIdx)
		args = append(args, *filter.ReportType)
		argIdx++
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		baseWhere += fmt.Sprintf(" AND r.submitted_at::date >= $%d", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		baseWhere += fmt.Sprintf(" AND r.submitted_at::date <= $%d", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}

	countQuery := `
		SELECT COUNT(*)
		FROM activity_reports r
		JOIN employees e ON e.id = r.employee_id
		WHERE ` + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count activity reports: %w", err)
	}

	selectQuery := fmt.Sprintf(`%s
		WHERE %s
		ORDER BY r.submitted_at DESC
		LIMIT $%d OFFSET $%d
	`, reportSelect, baseWhere, argIdx, argIdx+1)
	args = append(args, filter.Limit, offset(filter.Page, filter.Limit))

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query activity reports: %w", err)
	}
	defer rows.Close()

	var reports []report.ActivityReport
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan activity report: %w", err)
		}
		reports = append(reports, rep)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return reports, total, nil
}
