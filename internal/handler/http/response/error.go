package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/domain/access"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/pkg/oauth"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	var tooShort *shift.DurationTooShortError
	if errors.As(err, &tooShort) {
		Error(w, http.StatusUnprocessableEntity, "DURATION_TOO_SHORT", err.Error(), map[string]float64{
			"hours_remaining": tooShort.HoursRemaining,
			"min_hours":       tooShort.MinHours,
		})
		return
	}

	switch {
	// Access
	case errors.Is(err, access.ErrUnauthenticated):
		Unauthorized(w, "Authentication required")
	case errors.Is(err, access.ErrPermissionDenied):
		Forbidden(w, err.Error())

	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, "Refresh token revoked")
	case errors.Is(err, auth.ErrGoogleAccountNotLinked):
		Forbidden(w, err.Error())
	case errors.Is(err, oauth.ErrEmailNotVerified):
		Forbidden(w, err.Error())
	case errors.Is(err, auth.ErrGoogleLoginDisabled):
		Error(w, http.StatusNotImplemented, "NOT_IMPLEMENTED", err.Error(), nil)

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrDepartmentNotFound):
		NotFound(w, "Department not found")
	case errors.Is(err, employee.ErrSupervisorNotFound):
		NotFound(w, "Supervisor not found")
	case errors.Is(err, employee.ErrEmailExists):
		Conflict(w, "EMAIL_EXISTS", "Email already registered")
	case errors.Is(err, employee.ErrDepartmentTitleExists):
		Conflict(w, "DEPARTMENT_EXISTS", err.Error())
	case errors.Is(err, employee.ErrSelfSupervision), errors.Is(err, employee.ErrSupervisorCycle),
		errors.Is(err, employee.ErrSupervisorRole):
		ValidationError(w, map[string]string{"supervisor_id": err.Error()})

	// Shift domain errors
	case errors.Is(err, shift.ErrShiftNotFound):
		NotFound(w, "Shift not found")
	case errors.Is(err, shift.ErrShiftOverlap):
		Conflict(w, "SHIFT_OVERLAP", err.Error())
	case errors.Is(err, shift.ErrInvalidTransition):
		Conflict(w, "INVALID_TRANSITION", err.Error())
	case errors.Is(err, shift.ErrNotReschedulable):
		Conflict(w, "SHIFT_NOT_RESCHEDULABLE", err.Error())

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrAlreadyClockedIn):
		Conflict(w, "ALREADY_CLOCKED_IN", err.Error())
	case errors.Is(err, attendance.ErrNotClockedIn):
		Conflict(w, "NOT_CLOCKED_IN", err.Error())
	case errors.Is(err, attendance.ErrAlreadyOnBreak):
		Conflict(w, "ALREADY_ON_BREAK", err.Error())
	case errors.Is(err, attendance.ErrNotOnBreak):
		Conflict(w, "NOT_ON_BREAK", err.Error())
	case errors.Is(err, attendance.ErrExportEmpty):
		NotFound(w, err.Error())

	// Report domain errors
	case errors.Is(err, report.ErrReportNotFound):
		NotFound(w, "Activity report not found")
	case errors.Is(err, report.ErrDuplicateReport):
		Conflict(w, "DUPLICATE_REPORT", err.Error())
	case errors.Is(err, report.ErrAlreadyApproved):
		Conflict(w, "ALREADY_APPROVED", err.Error())
	case errors.Is(err, report.ErrImmutableRecord):
		Conflict(w, "IMMUTABLE_RECORD", err.Error())
	case errors.Is(err, report.ErrNotClockedOut):
		Conflict(w, "NOT_CLOCKED_OUT", err.Error())

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
