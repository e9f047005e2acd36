package shift

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/domain/access"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/domain/shift"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTx struct{ calls int }

func (f *fakeTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

type fakeDispatcher struct{ sent []notification.Message }

func (f *fakeDispatcher) Dispatch(ctx context.Context, msg notification.Message) {
	f.sent = append(f.sent, msg)
}

func (f *fakeDispatcher) Close() {}

type memShiftRepo struct {
	shift.ShiftRepository
	shifts map[string]shift.Shift
	seq    int
}

func newMemShiftRepo() *memShiftRepo {
	return &memShiftRepo{shifts: make(map[string]shift.Shift)}
}

func (m *memShiftRepo) Create(ctx context.Context, s shift.Shift) (shift.Shift, error) {
	for _, existing := range m.shifts {
		if existing.AgentID == s.AgentID && existing.Date.Equal(s.Date) {
			return shift.Shift{}, shift.ErrShiftOverlap
		}
	}
	m.seq++
	s.ID = fmt.Sprintf("shift-%d", m.seq)
	m.shifts[s.ID] = s
	return s, nil
}

func (m *memShiftRepo) GetByID(ctx context.Context, id string) (shift.Shift, error) {
	s, ok := m.shifts[id]
	if !ok {
		return shift.Shift{}, shift.ErrShiftNotFound
	}
	return s, nil
}

func (m *memShiftRepo) LockByID(ctx context.Context, id string) (shift.Shift, error) {
	return m.GetByID(ctx, id)
}

func (m *memShiftRepo) Update(ctx context.Context, s shift.Shift) error {
	m.shifts[s.ID] = s
	return nil
}

func (m *memShiftRepo) UpdateStatus(ctx context.Context, s shift.Shift) error {
	m.shifts[s.ID] = s
	return nil
}

func (m *memShiftRepo) Delete(ctx context.Context, id string) error {
	delete(m.shifts, id)
	return nil
}

type memEmployeeRepo struct {
	employee.EmployeeRepository
	employees map[string]employee.Employee
}

func (m *memEmployeeRepo) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	e, ok := m.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

const (
	agentOneID      = "0195a2f0-0000-7000-8000-000000000001"
	agentTwoID      = "0195a2f0-0000-7000-8000-000000000002"
	supervisorOneID = "0195a2f0-0000-7000-8000-000000000003"
	supervisorTwoID = "0195a2f0-0000-7000-8000-000000000004"
	adminID         = "0195a2f0-0000-7000-8000-000000000005"
)

var (
	supervisorID = supervisorOneID
	clock        = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
)

type fixture struct {
	svc        *ShiftServiceImpl
	shifts     *memShiftRepo
	dispatcher *fakeDispatcher
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	employees := &memEmployeeRepo{employees: map[string]employee.Employee{
		agentOneID: {ID: agentOneID, Role: access.RoleEmployee, SupervisorID: &supervisorID},
		agentTwoID: {ID: agentTwoID, Role: access.RoleEmployee},
		supervisorOneID:   {ID: supervisorOneID, Role: access.RoleSupervisor},
	}}
	shifts := newMemShiftRepo()
	dispatcher := &fakeDispatcher{}

	svc := NewShiftService(&fakeTx{}, shifts, employees, dispatcher, 8, time.UTC).(*ShiftServiceImpl)
	svc.now = func() time.Time { return clock }
	return fixture{svc: svc, shifts: shifts, dispatcher: dispatcher}
}

func as(id string, role access.Role) context.Context {
	return access.WithActor(context.Background(), access.Actor{EmployeeID: id, Role: role})
}

func (f fixture) seed(agentID string, status shift.Status) shift.Shift {
	s := shift.Shift{
		AgentID:   agentID,
		Date:      time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		StartTime: shift.NewTimeOfDay(9, 0),
		EndTime:   shift.NewTimeOfDay(17, 0),
		Type:      shift.TypeDay,
		Status:    status,
	}
	if agentID == agentOneID {
		s.AgentSupervisorID = &supervisorID
	}
	created, _ := f.shifts.Create(context.Background(), s)
	return created
}

func TestCreate_ForSelf(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.Create(as(agentOneID, access.RoleEmployee), shift.CreateShiftRequest{
		ShiftDate: "2025-03-11",
		StartTime: "09:00",
		EndTime:   "17:00",
		ShiftType: "Day_Shift",
	})
	require.NoError(t, err)

	assert.Equal(t, agentOneID, resp.AgentID)
	assert.Equal(t, "Scheduled", resp.Status)
	assert.Equal(t, 8.0, resp.ScheduledHours)
	assert.Equal(t, "Shift not started", resp.TimerMessage)
	require.Len(t, f.dispatcher.sent, 1)
	assert.Equal(t, notification.EventShiftCreated, f.dispatcher.sent[0].Event)
}

func TestCreate_ForOtherAgentDenied(t *testing.T) {
	f := newFixture(t)
	other := agentTwoID

	_, err := f.svc.Create(as(agentOneID, access.RoleEmployee), shift.CreateShiftRequest{
		AgentID:   &other,
		ShiftDate: "2025-03-11",
		StartTime: "09:00",
		EndTime:   "17:00",
		ShiftType: "Day_Shift",
	})
	assert.ErrorIs(t, err, access.ErrPermissionDenied)
	assert.Empty(t, f.shifts.shifts)
}

func TestCreate_SupervisorForDirectReport(t *testing.T) {
	f := newFixture(t)
	report := agentOneID

	resp, err := f.svc.Create(as(supervisorOneID, access.RoleSupervisor), shift.CreateShiftRequest{
		AgentID:   &report,
		ShiftDate: "2025-03-11",
		StartTime: "22:00",
		EndTime:   "06:00",
		ShiftType: "Night_Shift",
	})
	require.NoError(t, err)
	assert.Equal(t, agentOneID, resp.AgentID)
	assert.Equal(t, 8.0, resp.ScheduledHours)
}

func TestCreate_SupervisorForOtherTeamDenied(t *testing.T) {
	f := newFixture(t)
	other := agentTwoID

	_, err := f.svc.Create(as(supervisorOneID, access.RoleSupervisor), shift.CreateShiftRequest{
		AgentID:   &other,
		ShiftDate: "2025-03-11",
		StartTime: "09:00",
		EndTime:   "17:00",
		ShiftType: "Day_Shift",
	})
	assert.ErrorIs(t, err, access.ErrPermissionDenied)
	assert.Empty(t, f.shifts.shifts)
}

func TestCreate_Overlap(t *testing.T) {
	f := newFixture(t)
	f.seed(agentOneID, shift.StatusScheduled)

	_, err := f.svc.Create(as(agentOneID, access.RoleEmployee), shift.CreateShiftRequest{
		ShiftDate: "2025-03-10",
		StartTime: "13:00",
		EndTime:   "21:00",
		ShiftType: "Late_Shift",
	})
	assert.ErrorIs(t, err, shift.ErrShiftOverlap)
}

func TestStart_ByAgent(t *testing.T) {
	f := newFixture(t)
	s := f.seed(agentOneID, shift.StatusScheduled)

	resp, err := f.svc.Start(as(agentOneID, access.RoleEmployee), s.ID)
	require.NoError(t, err)

	assert.Equal(t, "In_Progress", resp.Status)
	require.NotNil(t, resp.PreviousStatus)
	assert.Equal(t, "Scheduled", *resp.PreviousStatus)
	assert.Equal(t, clock, *f.shifts.shifts[s.ID].ActualStart)

	require.Len(t, f.dispatcher.sent, 1)
	assert.Equal(t, notification.EventShiftStatusChanged, f.dispatcher.sent[0].Event)
}

func TestStart_ByOtherEmployeeDenied(t *testing.T) {
	f := newFixture(t)
	s := f.seed(agentOneID, shift.StatusScheduled)

	_, err := f.svc.Start(as(agentTwoID, access.RoleEmployee), s.ID)
	assert.ErrorIs(t, err, shift.ErrNotShiftAgent)
	assert.Equal(t, shift.StatusScheduled, f.shifts.shifts[s.ID].Status)
}

func TestEnd_BeforeMinimum(t *testing.T) {
	f := newFixture(t)
	s := f.seed(agentOneID, shift.StatusInProgress)
	started := clock.Add(-3 * time.Hour)
	s.ActualStart = &started
	f.shifts.shifts[s.ID] = s

	_, err := f.svc.End(as(agentOneID, access.RoleEmployee), s.ID)

	var tooShort *shift.DurationTooShortError
	require.True(t, errors.As(err, &tooShort))
	assert.Equal(t, 5.0, tooShort.HoursRemaining)
	assert.Equal(t, shift.StatusInProgress, f.shifts.shifts[s.ID].Status)
	assert.Empty(t, f.dispatcher.sent)
}

func TestEnd_AfterMinimum(t *testing.T) {
	f := newFixture(t)
	s := f.seed(agentOneID, shift.StatusInProgress)
	started := clock.Add(-8*time.Hour - time.Minute)
	s.ActualStart = &started
	f.shifts.shifts[s.ID] = s

	resp, err := f.svc.End(as(agentOneID, access.RoleEmployee), s.ID)
	require.NoError(t, err)
	assert.Equal(t, "Completed", resp.Status)
	assert.Equal(t, "Good work, shift done for today", resp.TimerMessage)
}

func TestCancel_Permissions(t *testing.T) {
	f := newFixture(t)
	s := f.seed(agentOneID, shift.StatusScheduled)

	_, err := f.svc.Cancel(as(agentOneID, access.RoleEmployee), s.ID)
	assert.ErrorIs(t, err, shift.ErrShiftManageDenied)

	// a supervisor of someone else cannot cancel either
	_, err = f.svc.Cancel(as(supervisorTwoID, access.RoleSupervisor), s.ID)
	assert.ErrorIs(t, err, shift.ErrShiftManageDenied)

	resp, err := f.svc.Cancel(as(supervisorOneID, access.RoleSupervisor), s.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cancelled", resp.Status)
}

func TestCancel_InProgressRejected(t *testing.T) {
	f := newFixture(t)
	s := f.seed(agentOneID, shift.StatusInProgress)

	_, err := f.svc.Cancel(as(adminID, access.RoleAdmin), s.ID)
	assert.ErrorIs(t, err, shift.ErrInvalidTransition)
}

func TestGet_OutOfScopeIsNotFound(t *testing.T) {
	f := newFixture(t)
	s := f.seed(agentOneID, shift.StatusScheduled)

	_, err := f.svc.Get(as(agentTwoID, access.RoleEmployee), s.ID)
	assert.ErrorIs(t, err, shift.ErrShiftNotFound)

	_, err = f.svc.Get(as(supervisorOneID, access.RoleSupervisor), s.ID)
	assert.NoError(t, err)
}

func TestUpdate_OnlyScheduled(t *testing.T) {
	f := newFixture(t)
	s := f.seed(agentOneID, shift.StatusInProgress)
	newStart := "10:00"

	_, err := f.svc.Update(as(agentOneID, access.RoleEmployee), s.ID, shift.UpdateShiftRequest{StartTime: &newStart})
	assert.ErrorIs(t, err, shift.ErrNotReschedulable)
}

func TestUpdate_Reschedule(t *testing.T) {
	f := newFixture(t)
	s := f.seed(agentOneID, shift.StatusScheduled)
	newStart, newEnd := "22:00", "06:00"

	resp, err := f.svc.Update(as(supervisorOneID, access.RoleSupervisor), s.ID, shift.UpdateShiftRequest{StartTime: &newStart, EndTime: &newEnd})
	require.NoError(t, err)
	assert.Equal(t, "22:00", resp.StartTime)
	assert.Equal(t, 8.0, resp.ScheduledHours)
}
