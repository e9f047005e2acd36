package postgresql_test

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/domain/access"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createEmployee(t *testing.T, ctx context.Context, db *database.DB, email string, supervisorID *string) employee.Employee {
	t.Helper()
	role := access.RoleEmployee
	if supervisorID == nil {
		role = access.RoleSupervisor
	}
	e, err := postgresql.NewEmployeeRepository(db).Create(ctx, employee.Employee{
		Email:        email,
		FullName:     email,
		Role:         role,
		SupervisorID: supervisorID,
	})
	require.NoError(t, err)
	return e
}

func TestEmployeeRepository_DuplicateEmail(t *testing.T) {
	db := NewTestDatabase(t)
	ctx := context.Background()
	createEmployee(t, ctx, db, "dup@example.com", nil)

	_, err := postgresql.NewEmployeeRepository(db).Create(ctx, employee.Employee{
		Email:    "dup@example.com",
		FullName: "Again",
		Role:     access.RoleEmployee,
	})
	assert.ErrorIs(t, err, employee.ErrEmailExists)
}

func TestEmployeeRepository_SupervisorChain(t *testing.T) {
	db := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewEmployeeRepository(db)

	top := createEmployee(t, ctx, db, "top@example.com", nil)
	mid := createEmployee(t, ctx, db, "mid@example.com", &top.ID)
	leaf := createEmployee(t, ctx, db, "leaf@example.com", &mid.ID)

	chain, err := repo.SupervisorChain(ctx, leaf.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{mid.ID, top.ID}, chain)
}

func TestEmployeeRepository_LockHierarchyHeldUntilCommit(t *testing.T) {
	db := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewEmployeeRepository(db)

	advisoryLocks := func() int {
		var n int
		require.NoError(t, db.QueryRow(ctx, `SELECT count(*) FROM pg_locks WHERE locktype = 'advisory' AND granted`).Scan(&n))
		return n
	}

	err := postgresql.NewTransactor(db).WithinTransaction(ctx, func(ctx context.Context) error {
		if err := repo.LockHierarchy(ctx); err != nil {
			return err
		}
		assert.Equal(t, 1, advisoryLocks())
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 0, advisoryLocks())
}

func TestShiftRepository_OnePerAgentPerDate(t *testing.T) {
	db := NewTestDatabase(t)
	ctx := context.Background()
	agent := createEmployee(t, ctx, db, "agent@example.com", nil)
	repo := postgresql.NewShiftRepository(db)

	s := shift.Shift{
		AgentID:   agent.ID,
		Date:      time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		StartTime: shift.NewTimeOfDay(9, 0),
		EndTime:   shift.NewTimeOfDay(17, 0),
		Type:      shift.TypeDay,
		Status:    shift.StatusScheduled,
	}
	created, err := repo.Create(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, shift.NewTimeOfDay(9, 0), created.StartTime)

	s.StartTime, s.EndTime, s.Type = shift.NewTimeOfDay(22, 0), shift.NewTimeOfDay(6, 0), shift.TypeNight
	_, err = repo.Create(ctx, s)
	assert.ErrorIs(t, err, shift.ErrShiftOverlap)

	s.Date = s.Date.AddDate(0, 0, 1)
	_, err = repo.Create(ctx, s)
	assert.NoError(t, err)
}

func TestAttendanceRepository_OneOpenRecord(t *testing.T) {
	db := NewTestDatabase(t)
	ctx := context.Background()
	agent := createEmployee(t, ctx, db, "agent@example.com", nil)
	repo := postgresql.NewAttendanceRepository(db, time.UTC)

	in := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	open, err := repo.Create(ctx, attendance.Attendance{EmployeeID: agent.ID, ClockInTime: in, Status: attendance.StatusClockedIn})
	require.NoError(t, err)

	_, err = repo.Create(ctx, attendance.Attendance{EmployeeID: agent.ID, ClockInTime: in.Add(time.Minute), Status: attendance.StatusClockedIn})
	assert.ErrorIs(t, err, attendance.ErrAlreadyClockedIn)

	require.NoError(t, open.Close(in.Add(8*time.Hour+30*time.Minute)))
	require.NoError(t, repo.Update(ctx, open))

	stored, err := repo.GetByID(ctx, open.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.DurationHours)
	assert.Equal(t, 8.5, *stored.DurationHours)

	// closed records no longer count against the open-record index
	_, err = repo.Create(ctx, attendance.Attendance{EmployeeID: agent.ID, ClockInTime: in.Add(9 * time.Hour), Status: attendance.StatusClockedIn})
	assert.NoError(t, err)
}

func TestReportRepository_OnePerAttendanceAndApproveOnce(t *testing.T) {
	db := NewTestDatabase(t)
	ctx := context.Background()
	sup := createEmployee(t, ctx, db, "sup@example.com", nil)
	agent := createEmployee(t, ctx, db, "agent@example.com", &sup.ID)

	atts := postgresql.NewAttendanceRepository(db, time.UTC)
	in := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	a, err := atts.Create(ctx, attendance.Attendance{EmployeeID: agent.ID, ClockInTime: in, Status: attendance.StatusClockedIn})
	require.NoError(t, err)
	require.NoError(t, a.Close(in.Add(8*time.Hour)))
	require.NoError(t, atts.Update(ctx, a))

	repo := postgresql.NewReportRepository(db)
	rep := report.ActivityReport{
		AttendanceID: a.ID,
		EmployeeID:   agent.ID,
		Type:         report.TypeEndOfShift,
		Description:  "Queue handled",
		Metrics:      report.Metrics{TicketsResolved: 5, CallsMade: 9, IssuesEscalated: 1},
		SubmittedAt:  in.Add(8 * time.Hour),
	}
	created, err := repo.Create(ctx, rep)
	require.NoError(t, err)
	require.NotNil(t, created.EmployeeSupervisorID)
	assert.Equal(t, sup.ID, *created.EmployeeSupervisorID)

	_, err = repo.Create(ctx, rep)
	assert.ErrorIs(t, err, report.ErrDuplicateReport)

	// two approvals stamped from the same pending row, as concurrent
	// requests would see it
	first, second := created, created
	require.NoError(t, first.Approve(sup.ID, in.Add(9*time.Hour)))
	require.NoError(t, second.Approve(sup.ID, in.Add(9*time.Hour+time.Minute)))

	approved, err := repo.Approve(ctx, first)
	require.NoError(t, err)
	assert.True(t, approved.IsApproved)
	require.NotNil(t, approved.ApprovedAt)
	assert.True(t, in.Add(9*time.Hour).Equal(*approved.ApprovedAt))

	_, err = repo.Approve(ctx, second)
	assert.ErrorIs(t, err, report.ErrAlreadyApproved)
}
