package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/domain/access"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/pkg/tokenstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAttendanceService struct {
	attendance.AttendanceService
	clockIn func(ctx context.Context) (attendance.AttendanceResponse, error)
	team    func(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error)
}

func (f *fakeAttendanceService) ClockIn(ctx context.Context) (attendance.AttendanceResponse, error) {
	return f.clockIn(ctx)
}

func (f *fakeAttendanceService) Team(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	return f.team(ctx, filter)
}

type fakeExportService struct {
	gotReq attendance.ExportRequest
}

func (f *fakeExportService) ExportTimesheet(ctx context.Context, req attendance.ExportRequest) (*bytes.Buffer, string, error) {
	f.gotReq = req
	return bytes.NewBufferString("xlsx-bytes"), "timesheet_2025-03-01_2025-03-31.xlsx", nil
}

type testServer struct {
	handler http.Handler
	jwt     jwt.Service
}

func newTestServer(t *testing.T, attendanceSvc attendance.AttendanceService, exportSvc attendance.ExportService) testServer {
	t.Helper()
	jwtSvc, err := jwt.NewJWTService("test-secret", "1h", "24h", tokenstore.NewMemoryStore())
	require.NoError(t, err)

	h := Handlers{
		Auth:         NewAuthHandler(jwtSvc, nil, nil, "http://localhost:3000"),
		Employee:     NewEmployeeHandler(nil, nil),
		Shift:        NewShiftHandler(nil),
		Attendance:   NewAttendanceHandler(attendanceSvc, exportSvc),
		Report:       NewReportHandler(nil),
		Dashboard:    NewDashboardHandler(nil),
		Notification: NewNotificationHandler(nil, jwtSvc, sse.NewHub()),
	}
	return testServer{
		handler: NewRouter(jwtSvc, h, RouterOptions{AllowedOrigins: []string{"http://localhost:3000"}}),
		jwt:     jwtSvc,
	}
}

func (s testServer) token(t *testing.T, employeeID string, role access.Role) string {
	t.Helper()
	token, _, err := s.jwt.GenerateAccessToken(employeeID, employeeID+"@example.com", role, false)
	require.NoError(t, err)
	return token
}

func (s testServer) do(method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code string `json:"code"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var body envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRouter_RejectsMissingToken(t *testing.T) {
	s := newTestServer(t, &fakeAttendanceService{}, &fakeExportService{})

	rec := s.do(http.MethodPost, "/api/v1/attendance/clock-in", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestClockIn_Created(t *testing.T) {
	svc := &fakeAttendanceService{
		clockIn: func(ctx context.Context) (attendance.AttendanceResponse, error) {
			actor, err := access.FromContext(ctx)
			require.NoError(t, err)
			return attendance.AttendanceResponse{
				ID:          "att-1",
				EmployeeID:  actor.EmployeeID,
				ClockInTime: time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC),
				Status:      string(attendance.StatusClockedIn),
			}, nil
		},
	}
	s := newTestServer(t, svc, &fakeExportService{})

	rec := s.do(http.MethodPost, "/api/v1/attendance/clock-in", s.token(t, "emp-1", access.RoleEmployee))
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decodeEnvelope(t, rec)
	assert.True(t, body.Success)
	var got attendance.AttendanceResponse
	require.NoError(t, json.Unmarshal(body.Data, &got))
	assert.Equal(t, "emp-1", got.EmployeeID)
}

func TestClockIn_AlreadyClockedIn(t *testing.T) {
	svc := &fakeAttendanceService{
		clockIn: func(ctx context.Context) (attendance.AttendanceResponse, error) {
			return attendance.AttendanceResponse{}, attendance.ErrAlreadyClockedIn
		},
	}
	s := newTestServer(t, svc, &fakeExportService{})

	rec := s.do(http.MethodPost, "/api/v1/attendance/clock-in", s.token(t, "emp-1", access.RoleEmployee))
	assert.Equal(t, http.StatusConflict, rec.Code)
	body := decodeEnvelope(t, rec)
	require.NotNil(t, body.Error)
	assert.Equal(t, "ALREADY_CLOCKED_IN", body.Error.Code)
}

func TestTeam_ForbiddenForAgents(t *testing.T) {
	called := false
	svc := &fakeAttendanceService{
		team: func(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
			called = true
			return attendance.ListAttendanceResponse{}, nil
		},
	}
	s := newTestServer(t, svc, &fakeExportService{})

	rec := s.do(http.MethodGet, "/api/v1/attendance/team", s.token(t, "emp-1", access.RoleEmployee))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, called)

	rec = s.do(http.MethodGet, "/api/v1/attendance/team?page=2", s.token(t, "sup-1", access.RoleSupervisor))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)
}

func TestExport_WritesWorkbookHeaders(t *testing.T) {
	export := &fakeExportService{}
	s := newTestServer(t, &fakeAttendanceService{}, export)

	rec := s.do(http.MethodGet, "/api/v1/attendance/export?start_date=2025-03-01&end_date=2025-03-31", s.token(t, "adm-1", access.RoleAdmin))
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename*=UTF-8''timesheet_2025-03-01_2025-03-31.xlsx", rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "xlsx-bytes", rec.Body.String())
	assert.Equal(t, attendance.ExportRequest{StartDate: "2025-03-01", EndDate: "2025-03-31"}, export.gotReq)
}

func TestStream_RequiresToken(t *testing.T) {
	s := newTestServer(t, &fakeAttendanceService{}, &fakeExportService{})

	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/v1/events/stream", "").Code)

	// access tokens are not accepted as stream tokens
	rec := s.do(http.MethodGet, "/api/v1/events/stream?token="+s.token(t, "emp-1", access.RoleEmployee), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
