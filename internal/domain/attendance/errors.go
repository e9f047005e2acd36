package attendance

import (
	"errors"
	"fmt"

	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/domain/access"
)

var (
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrAlreadyClockedIn   = errors.New("already clocked in")
	ErrNotClockedIn       = errors.New("not clocked in")
	ErrAlreadyOnBreak     = errors.New("already on break")
	ErrNotOnBreak         = errors.New("not on break")

	ErrTeamViewDenied = fmt.Errorf("%w: only supervisors and admins may view team attendance", access.ErrPermissionDenied)
)
