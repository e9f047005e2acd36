package report

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/domain/access"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTx struct{}

func (fakeTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeDispatcher struct{ sent []notification.Message }

func (f *fakeDispatcher) Dispatch(ctx context.Context, msg notification.Message) {
	f.sent = append(f.sent, msg)
}

func (f *fakeDispatcher) Close() {}

type memReportRepo struct {
	report.ReportRepository
	reports    map[string]report.ActivityReport
	supervisor map[string]*string
	seq        int
}

func (m *memReportRepo) Create(ctx context.Context, r report.ActivityReport) (report.ActivityReport, error) {
	for _, existing := range m.reports {
		if existing.AttendanceID == r.AttendanceID {
			return report.ActivityReport{}, report.ErrDuplicateReport
		}
	}
	m.seq++
	r.ID = fmt.Sprintf("rep-%d", m.seq)
	r.EmployeeSupervisorID = m.supervisor[r.EmployeeID]
	m.reports[r.ID] = r
	return r, nil
}

func (m *memReportRepo) GetByID(ctx context.Context, id string) (report.ActivityReport, error) {
	r, ok := m.reports[id]
	if !ok {
		return report.ActivityReport{}, report.ErrReportNotFound
	}
	return r, nil
}

func (m *memReportRepo) LockByID(ctx context.Context, id string) (report.ActivityReport, error) {
	return m.GetByID(ctx, id)
}

func (m *memReportRepo) ExistsForAttendance(ctx context.Context, attendanceID string) (bool, error) {
	for _, r := range m.reports {
		if r.AttendanceID == attendanceID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memReportRepo) Approve(ctx context.Context, r report.ActivityReport) (report.ActivityReport, error) {
	stored, ok := m.reports[r.ID]
	if !ok {
		return report.ActivityReport{}, report.ErrReportNotFound
	}
	if stored.IsApproved {
		return report.ActivityReport{}, report.ErrAlreadyApproved
	}
	m.reports[r.ID] = r
	return r, nil
}

func (m *memReportRepo) Update(ctx context.Context, r report.ActivityReport) error {
	m.reports[r.ID] = r
	return nil
}

func (m *memReportRepo) Delete(ctx context.Context, id string) error {
	delete(m.reports, id)
	return nil
}

type memAttendanceRepo struct {
	attendance.AttendanceRepository
	records map[string]attendance.Attendance
}

func (m *memAttendanceRepo) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	a, ok := m.records[id]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return a, nil
}

const (
	closedAttendance = "0195a2f0-0000-7000-8000-000000000001"
	openAttendance   = "0195a2f0-0000-7000-8000-000000000002"
)

var (
	supervisorID = "sup-1"
	clock        = time.Date(2025, 3, 10, 17, 0, 0, 0, time.UTC)
)

type fixture struct {
	svc        report.ReportService
	reports    *memReportRepo
	dispatcher *fakeDispatcher
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	out := clock
	atts := &memAttendanceRepo{records: map[string]attendance.Attendance{
		closedAttendance: {ID: closedAttendance, EmployeeID: "agent-1", ClockInTime: clock.Add(-8 * time.Hour), ClockOutTime: &out, Status: attendance.StatusClockedOut},
		openAttendance:   {ID: openAttendance, EmployeeID: "agent-1", ClockInTime: clock, Status: attendance.StatusClockedIn},
	}}
	reports := &memReportRepo{
		reports:    make(map[string]report.ActivityReport),
		supervisor: map[string]*string{"agent-1": &supervisorID},
	}
	dispatcher := &fakeDispatcher{}

	svc := NewReportService(fakeTx{}, reports, atts, dispatcher)
	svc.(*ReportServiceImpl).now = func() time.Time { return clock }
	return fixture{svc: svc, reports: reports, dispatcher: dispatcher}
}

func as(id string, role access.Role) context.Context {
	return access.WithActor(context.Background(), access.Actor{EmployeeID: id, Role: role})
}

func validRequest(attendanceID string) report.SubmitReportRequest {
	return report.SubmitReportRequest{
		AttendanceID:    attendanceID,
		Description:     "Handled the evening queue",
		TicketsResolved: 12,
		CallsMade:       30,
		IssuesEscalated: 2,
	}
}

func (f fixture) submit(t *testing.T) report.ReportResponse {
	t.Helper()
	resp, err := f.svc.Submit(as("agent-1", access.RoleEmployee), validRequest(closedAttendance))
	require.NoError(t, err)
	return resp
}

func TestSubmit(t *testing.T) {
	f := newFixture(t)

	resp := f.submit(t)
	assert.Equal(t, "End_of_Shift", resp.ReportType)
	assert.False(t, resp.IsApproved)
	assert.Equal(t, clock, resp.SubmittedAt)

	require.Len(t, f.dispatcher.sent, 1)
	msg := f.dispatcher.sent[0]
	assert.Equal(t, notification.EventReportSubmitted, msg.Event)
	assert.Equal(t, supervisorID, msg.RecipientID)
}

func TestSubmit_Duplicate(t *testing.T) {
	f := newFixture(t)
	f.submit(t)

	_, err := f.svc.Submit(as("agent-1", access.RoleEmployee), validRequest(closedAttendance))
	assert.ErrorIs(t, err, report.ErrDuplicateReport)
	assert.Len(t, f.reports.reports, 1)
}

func TestSubmit_OpenAttendance(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Submit(as("agent-1", access.RoleEmployee), validRequest(openAttendance))
	assert.ErrorIs(t, err, report.ErrNotClockedOut)
}

func TestSubmit_SomeoneElsesAttendance(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Submit(as("agent-2", access.RoleEmployee), validRequest(closedAttendance))
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "attendance_id")
}

func TestSubmit_EscalationsExceedTickets(t *testing.T) {
	f := newFixture(t)
	req := validRequest(closedAttendance)
	req.IssuesEscalated = 20

	_, err := f.svc.Submit(as("agent-1", access.RoleEmployee), req)
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "issues_escalated")
}

func TestSubmit_AttendanceChecksPrecedeMetrics(t *testing.T) {
	f := newFixture(t)
	f.submit(t)

	bad := validRequest(closedAttendance)
	bad.IssuesEscalated = 20
	_, err := f.svc.Submit(as("agent-1", access.RoleEmployee), bad)
	assert.ErrorIs(t, err, report.ErrDuplicateReport)

	bad.AttendanceID = openAttendance
	_, err = f.svc.Submit(as("agent-1", access.RoleEmployee), bad)
	assert.ErrorIs(t, err, report.ErrNotClockedOut)
}

func TestApprove_OnlyDirectSupervisorOrAdmin(t *testing.T) {
	f := newFixture(t)
	rep := f.submit(t)

	_, err := f.svc.Approve(as("agent-1", access.RoleEmployee), rep.ID)
	assert.ErrorIs(t, err, access.ErrPermissionDenied)

	_, err = f.svc.Approve(as("sup-2", access.RoleSupervisor), rep.ID)
	assert.ErrorIs(t, err, report.ErrApproveDenied)
	assert.False(t, f.reports.reports[rep.ID].IsApproved)

	approved, err := f.svc.Approve(as("sup-1", access.RoleSupervisor), rep.ID)
	require.NoError(t, err)
	assert.True(t, approved.IsApproved)
	require.NotNil(t, approved.ApprovedBy)
	assert.Equal(t, "sup-1", *approved.ApprovedBy)
	require.NotNil(t, approved.ApprovedAt)
	assert.Equal(t, clock, *approved.ApprovedAt)

	_, err = f.svc.Approve(as("adm-1", access.RoleAdmin), rep.ID)
	assert.ErrorIs(t, err, report.ErrAlreadyApproved)
}

func TestApprove_AlreadyApprovedReportedBeforePermission(t *testing.T) {
	f := newFixture(t)
	rep := f.submit(t)
	_, err := f.svc.Approve(as("sup-1", access.RoleSupervisor), rep.ID)
	require.NoError(t, err)

	_, err = f.svc.Approve(as("sup-2", access.RoleSupervisor), rep.ID)
	assert.ErrorIs(t, err, report.ErrAlreadyApproved)
	assert.Equal(t, "sup-1", *f.reports.reports[rep.ID].ApprovedBy)
	assert.Len(t, f.dispatcher.sent, 2)
}

func TestApprovedReportIsImmutable(t *testing.T) {
	f := newFixture(t)
	rep := f.submit(t)
	_, err := f.svc.Approve(as("adm-1", access.RoleAdmin), rep.ID)
	require.NoError(t, err)

	notes := "late edit"
	_, err = f.svc.Update(as("agent-1", access.RoleEmployee), rep.ID, report.UpdateReportRequest{Notes: &notes})
	assert.ErrorIs(t, err, report.ErrImmutableRecord)

	err = f.svc.Delete(as("agent-1", access.RoleEmployee), rep.ID)
	assert.ErrorIs(t, err, report.ErrImmutableRecord)
}

func TestUpdate_ByAuthor(t *testing.T) {
	f := newFixture(t)
	rep := f.submit(t)
	tickets := 1

	// lowering tickets below escalations breaks the counter invariant
	_, err := f.svc.Update(as("agent-1", access.RoleEmployee), rep.ID, report.UpdateReportRequest{TicketsResolved: &tickets})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)

	notes := "follow-up booked"
	updated, err := f.svc.Update(as("agent-1", access.RoleEmployee), rep.ID, report.UpdateReportRequest{Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, "follow-up booked", updated.Notes)

	_, err = f.svc.Update(as("sup-1", access.RoleSupervisor), rep.ID, report.UpdateReportRequest{Notes: &notes})
	assert.ErrorIs(t, err, report.ErrEditDenied)
}

func TestGet_HiddenFromOtherAgents(t *testing.T) {
	f := newFixture(t)
	rep := f.submit(t)

	_, err := f.svc.Get(as("agent-2", access.RoleEmployee), rep.ID)
	assert.ErrorIs(t, err, report.ErrReportNotFound)

	_, err = f.svc.Get(as("sup-1", access.RoleSupervisor), rep.ID)
	assert.NoError(t, err)
}
