package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/domain/access"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const shiftSelect = `
	SELECT s.id, s.agent_id, s.shift_date, s.start_time, s.end_time, s.shift_type, s.status,
		s.previous_status, s.actual_start, s.actual_end, s.created_by, s.created_at, s.updated_at,
		e.full_name, e.email, e.supervisor_id
	FROM shifts s
	JOIN employees e ON e.id = s.agent_id
`

type shiftRepositoryImpl struct {
	db *database.DB
}

func NewShiftRepository(db *database.DB) shift.ShiftRepository {
	return &shiftRepositoryImpl{db: db}
}

func toPgTime(t shift.TimeOfDay) pgtype.Time {
	return pgtype.Time{Microseconds: t.Duration().Microseconds(), Valid: true}
}

func fromPgTime(t pgtype.Time) shift.TimeOfDay {
	return shift.TimeOfDay(time.Duration(t.Microseconds) * time.Microsecond)
}

// dateOnly strips the clock so DATE parameters are not shifted by time zones.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func scanShift(row pgx.Row) (shift.Shift, error) {
	var (
		s              shift.Shift
		start, end     pgtype.Time
		shiftType      string
		status         string
		previousStatus *string
	)
	err := row.Scan(
		&s.ID, &s.AgentID, &s.Date, &start, &end, &shiftType, &status,
		&previousStatus, &s.ActualStart, &s.ActualEnd, &s.CreatedBy, &s.CreatedAt, &s.UpdatedAt,
		&s.AgentName, &s.AgentEmail, &s.AgentSupervisorID,
	)
	if err != nil {
		return shift.Shift{}, err
	}
	s.StartTime = fromPgTime(start)
	s.EndTime = fromPgTime(end)
	s.Type = shift.Type(shiftType)
	s.Status = shift.Status(status)
	if previousStatus != nil {
		prev := shift.Status(*previousStatus)
		s.PreviousStatus = &prev
	}
	return s, nil
}

func mapShiftWriteError(err error) error {
	if uniqueViolation(err, "uq_shifts_agent_date") {
		return shift.ErrShiftOverlap
	}
	if constraint, ok := foreignKeyViolation(err); ok && constraint == "shifts_agent_id_fkey" {
		return employee.ErrEmployeeNotFound
	}
	return err
}

// Create implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) Create(ctx context.Context, s shift.Shift) (shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO shifts (agent_id, shift_date, start_time, end_time, shift_type, status, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	var id string
	err := q.QueryRow(ctx, query,
		s.AgentID, dateOnly(s.Date), toPgTime(s.StartTime), toPgTime(s.EndTime),
		string(s.Type), string(s.Status), s.CreatedBy,
	).Scan(&id)
	if err != nil {
		mapped := mapShiftWriteError(err)
		if mapped != err {
			return shift.Shift{}, mapped
		}
		return shift.Shift{}, fmt.Errorf("failed to create shift: %w", err)
	}
	return r.GetByID(ctx, id)
}

func (r *shiftRepositoryImpl) getOne(ctx context.Context, query string, args ...interface{}) (shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	s, err := scanShift(q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.Shift{}, shift.ErrShiftNotFound
		}
		return shift.Shift{}, fmt.Errorf("failed to get shift: %w", err)
	}
	return s, nil
}

// GetByID implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) GetByID(ctx context.Context, id string) (shift.Shift, error) {
	return r.getOne(ctx, shiftSelect+" WHERE s.id = $1", id)
}

// LockByID implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) LockByID(ctx context.Context, id string) (shift.Shift, error) {
	return r.getOne(ctx, shiftSelect+" WHERE s.id = $1 FOR UPDATE OF s", id)
}

func (r *shiftRepositoryImpl) byAgentAndDate(ctx context.Context, agentID string, date time.Time, lock bool) (*shift.Shift, error) {
	query := shiftSelect + " WHERE s.agent_id = $1 AND s.shift_date = $2"
	if lock {
		query += " FOR UPDATE OF s"
	}
	s, err := r.getOne(ctx, query, agentID, dateOnly(date))
	if err != nil {
		if errors.Is(err, shift.ErrShiftNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// LockByAgentAndDate implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) LockByAgentAndDate(ctx context.Context, agentID string, date time.Time) (*shift.Shift, error) {
	return r.byAgentAndDate(ctx, agentID, date, true)
}

// GetByAgentAndDate implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) GetByAgentAndDate(ctx context.Context, agentID string, date time.Time) (*shift.Shift, error) {
	return r.byAgentAndDate(ctx, agentID, date, false)
}

// List implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) List(ctx context.Context, filter shift.ShiftFilter, scope access.Scope) ([]shift.Shift, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere, args, argIdx := scopeClause(scope, "s.agent_id", "e.supervisor_id", 1)

	if filter.AgentID != nil && *filter.AgentID != "" {
		baseWhere += fmt.Sprintf(" AND s.agent_id = $%d", argIdx)
		args = append(args, *filter.AgentID)
		argIdx++
	}
	if filter.Date != nil && *filter.Date != "" {
		baseWhere += fmt.Sprintf(" AND s.shift_date = $%d", argIdx)
		args = append(args, *filter.Date)
		argIdx++
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		baseWhere += fmt.Sprintf(" AND s.shift_date >= $%d", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		baseWhere += fmt.Sprintf(" AND s.shift_date <= $%d", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		baseWhere += fmt.Sprintf(" AND s.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.ShiftType != nil && *filter.ShiftType != "" {
		baseWhere += fmt.Sprintf(" AND s.shift_type = $%d", argIdx)
		args = append(args, *filter.ShiftType)
		argIdx++
	}

	countQuery := `
		SELECT COUNT(*)
		FROM shifts s
		JOIN employees e ON e.id = s.agent_id
		WHERE ` + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count shifts: %w", err)
	}

	orderByField := "s.shift_date"
	switch filter.SortBy {
	case "start_time":
		orderByField = "s.start_time"
	case "status":
		orderByField = "s.status"
	case "agent_name":
		orderByField = "e.full_name"
	}
	sortOrder := "DESC"
	if strings.ToLower(filter.SortOrder) == "asc" {
		sortOrder = "ASC"
	}

	selectQuery := fmt.Sprintf(`%s
		WHERE %s
		ORDER BY %s %s, s.start_time ASC
		LIMIT $%d OFFSET $%d
	`, shiftSelect, baseWhere, orderByField, sortOrder, argIdx, argIdx+1)
	args = append(args, filter.Limit, offset(filter.Page, filter.Limit))

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query shifts: %w", err)
	}
	defer rows.Close()

	var shifts []shift.Shift
	for rows.Next() {
		s, err := scanShift(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan shift: %w", err)
		}
		shifts = append(shifts, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return shifts, total, nil
}

// Update implements shift.ShiftRepository. It rewrites the schedule only.
func (r *shiftRepositoryImpl) Update(ctx context.Context, s shift.Shift) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE shifts
		SET shift_date = $1, start_time = $2, end_time = $3, shift_type = $4, updated_at = $5
		WHERE id = $6
	`
	tag, err := q.Exec(ctx, query,
		dateOnly(s.Date), toPgTime(s.StartTime), toPgTime(s.EndTime), string(s.Type), s.UpdatedAt, s.ID)
	if err != nil {
		mapped := mapShiftWriteError(err)
		if mapped != err {
			return mapped
		}
		return fmt.Errorf("failed to update shift: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shift.ErrShiftNotFound
	}
	return nil
}

// UpdateStatus implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) UpdateStatus(ctx context.Context, s shift.Shift) error {
	q := GetQuerier(ctx, r.db)

	var previous *string
	if s.PreviousStatus != nil {
		p := string(*s.PreviousStatus)
		previous = &p
	}

	query := `
		UPDATE shifts
		SET status = $1, previous_status = $2, actual_start = $3, actual_end = $4, updated_at = $5
		WHERE id = $6
	`
	tag, err := q.Exec(ctx, query, string(s.Status), previous, s.ActualStart, s.ActualEnd, s.UpdatedAt, s.ID)
	if err != nil {
		return fmt.Errorf("failed to update shift status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shift.ErrShiftNotFound
	}
	return nil
}

// Delete implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM shifts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete shift: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shift.ErrShiftNotFound
	}
	return nil
}
