package shift

import (
	"errors"
	"fmt"

	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/domain/access"
)

var (
	ErrShiftNotFound     = errors.New("shift not found")
	ErrShiftOverlap      = errors.New("agent already has a shift on this date")
	ErrInvalidTransition = errors.New("invalid shift status transition")
	ErrDurationTooShort  = errors.New("shift duration below minimum")
	ErrNotReschedulable  = errors.New("only scheduled shifts can be rescheduled")

	ErrNotShiftAgent     = fmt.Errorf("%w: only the assigned agent may start or end this shift", access.ErrPermissionDenied)
	ErrShiftManageDenied = fmt.Errorf("%w: only the agent's supervisor or an admin may change this shift", access.ErrPermissionDenied)
	ErrShiftCreateDenied = fmt.Errorf("%w: shifts can only be created for yourself or your direct reports", access.ErrPermissionDenied)
)

// InvalidTransitionError names the rejected move.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot move shift from %s to %s", e.From, e.To)
}

func (e *InvalidTransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

// DurationTooShortError is returned when a shift is ended before the minimum
// number of hours has elapsed.
type DurationTooShortError struct {
	MinHours       float64
	HoursRemaining float64
}

func (e *DurationTooShortError) Error() string {
	return fmt.Sprintf("shift must run at least %g hours, %.2f hours remaining", e.MinHours, e.HoursRemaining)
}

func (e *DurationTooShortError) Is(target error) bool {
	return target == ErrDurationTooShort
}
