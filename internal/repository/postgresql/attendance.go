package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/domain/access"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const attendanceSelect = `
	SELECT a.id, a.employee_id, a.shift_id, a.clock_in_time, a.clock_out_time,
		a.duration_hours::float8, a.variance_hours::float8, a.status, a.created_at, a.updated_at,
		e.full_name, e.supervisor_id, s.shift_type
	FROM attendances a
	JOIN employees e ON e.id = a.employee_id
	LEFT JOIN shifts s ON s.id = a.shift_id
`

type attendanceRepository struct {
	db *database.DB
	// tz decides which calendar day a clock-in belongs to in date filters
	tz string
}

func NewAttendanceRepository(db *database.DB, loc *time.Location) attendance.AttendanceRepository {
	if loc == nil {
		loc = time.UTC
	}
	return &attendanceRepository{db: db, tz: loc.String()}
}

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var (
		a      attendance.Attendance
		status string
	)
	err := row.Scan(
		&a.ID, &a.EmployeeID, &a.ShiftID, &a.ClockInTime, &a.ClockOutTime,
		&a.DurationHours, &a.VarianceHours, &status, &a.CreatedAt, &a.UpdatedAt,
		&a.EmployeeName, &a.EmployeeSupervisorID, &a.ShiftType,
	)
	a.Status = attendance.Status(status)
	return a, err
}

// Create implements attendance.AttendanceRepository.
func (r *attendanceRepository) Create(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendances (employee_id, shift_id, clock_in_time, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		RETURNING id
	`
	var id string
	err := q.QueryRow(ctx, query, a.EmployeeID, a.ShiftID, a.ClockInTime, string(a.Status), a.ClockInTime).Scan(&id)
	if err != nil {
		if uniqueViolation(err, "uq_attendances_open_per_employee") {
			return attendance.Attendance{}, attendance.ErrAlreadyClockedIn
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}
	return r.GetByID(ctx, id)
}

func (r *attendanceRepository) getOne(ctx context.Context, query string, args ...interface{}) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	a, err := scanAttendance(q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	return a, nil
}

// GetByID implements attendance.AttendanceRepository.
func (r *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	return r.getOne(ctx, attendanceSelect+" WHERE a.id = $1", id)
}

func (r *attendanceRepository) open(ctx context.Context, employeeID string, lock bool) (*attendance.Attendance, error) {
	query := attendanceSelect + " WHERE a.employee_id = $1 AND a.clock_out_time IS NULL"
	if lock {
		query += " FOR UPDATE OF a"
	}
	a, err := r.getOne(ctx, query, employeeID)
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

// GetOpen implements attendance.AttendanceRepository.
func (r *attendanceRepository) GetOpen(ctx context.Context, employeeID string) (*attendance.Attendance, error) {
	return r.open(ctx, employeeID, false)
}

// LockOpen implements attendance.AttendanceRepository.
func (r *attendanceRepository) LockOpen(ctx context.Context, employeeID string) (*attendance.Attendance, error) {
	return r.open(ctx, employeeID, true)
}

// Update implements attendance.AttendanceRepository.
func (r *attendanceRepository) Update(ctx context.Context, a attendance.Attendance) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendances
		SET shift_id = $1, clock_out_time = $2, duration_hours = $3, variance_hours = $4,
			status = $5, updated_at = $6
		WHERE id = $7
	`
	tag, err := q.Exec(ctx, query,
		a.ShiftID, a.ClockOutTime, a.DurationHours, a.VarianceHours, string(a.Status), a.UpdatedAt, a.ID)
	if err != nil {
		return fmt.Errorf("failed to update attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}

func (r *attendanceRepository) query(ctx context.Context, query string, args ...interface{}) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendances: %w", err)
	}
	defer rows.Close()

	var attendances []attendance.Attendance
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		attendances = append(attendances, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return attendances, nil
}

// ListByEmployeeBetween implements attendance.AttendanceRepository.
func (r *attendanceRepository) ListByEmployeeBetween(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Attendance, error) {
	return r.query(ctx, attendanceSelect+`
		WHERE a.employee_id = $1 AND a.clock_in_time >= $2 AND a.clock_in_time < $3
		ORDER BY a.clock_in_time ASC
	`, employeeID, from, to)
}

// List implements attendance.AttendanceRepository.
func (r *attendanceRepository) List(ctx context.Context, filter attendance.AttendanceFilter, scope access.Scope) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere, args, argIdx := scopeClause(scope, "a.employee_id", "e.supervisor_id", 1)

	// clock-in day in the configured zone; the zone is bound on first use
	tzIdx := 0
	localDate := func() string {
		if tzIdx == 0 {
			tzIdx = argIdx
			args = append(args, r.tz)
			argIdx++
		}
		return fmt.Sprintf("(a.clock_in_time AT TIME ZONE $%d)::date", tzIdx)
	}

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		baseWhere += fmt.Sprintf(" AND a.employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.Date != nil && *filter.Date != "" {
		day := localDate()
		baseWhere += fmt.Sprintf(" AND %s = $%d", day, argIdx)
		args = append(args, *filter.Date)
		argIdx++
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		day := localDate()
		baseWhere += fmt.Sprintf(" AND %s >= $%d", day, argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		day := localDate()
		baseWhere += fmt.Sprintf(" AND %s <= $%d", day, argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		baseWhere += fmt.Sprintf(" AND a.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}

	countQuery := `
		SELECT COUNT(*)
		FROM attendances a
		JOIN employees e ON e.id = a.employee_id
		WHERE ` + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendances: %w", err)
	}

	orderByField := "a.clock_in_time"
	switch filter.SortBy {
	case "employee_name":
		orderByField = "e.full_name"
	case "duration_hours":
		orderByField = "a.duration_hours"
	}
	sortOrder := "DESC"
	if strings.ToLower(filter.SortOrder) == "asc" {
		sortOrder = "ASC"
	}

	selectQuery := fmt.Sprintf(`%s
		WHERE %s
		ORDER BY %s %s NULLS LAST
		LIMIT $%d OFFSET $%d
	`, attendanceSelect, baseWhere, orderByField, sortOrder, argIdx, argIdx+1)
	args = append(args, filter.Limit, offset(filter.Page, filter.Limit))

	attendances, err := r.query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, err
	}
	return attendances, total, nil
}

// ListForExport implements attendance.AttendanceRepository.
func (r *attendanceRepository) ListForExport(ctx context.Context, from, to time.Time, scope access.Scope) ([]attendance.Attendance, error) {
	where, args, argIdx := scopeClause(scope, "a.employee_id", "e.supervisor_id", 1)
	args = append(args, from, to)

	query := fmt.Sprintf(`%s
		WHERE %s AND a.clock_in_time >= $%d AND a.clock_in_time < $%d
		ORDER BY e.full_name ASC, a.clock_in_time ASC
	`, attendanceSelect, where, argIdx, argIdx+1)
	return r.query(ctx, query, args...)
}
