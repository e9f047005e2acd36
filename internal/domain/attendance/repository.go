package attendance

import (
	"context"
	"time"

	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/domain/access"
)

type AttendanceRepository interface {
	// Create returns ErrAlreadyClockedIn when an open record already exists.
	Create(ctx context.Context, a Attendance) (Attendance, error)
	GetByID(ctx context.Context, id string) (Attendance, error)
	// GetOpen returns nil when the employee is not clocked in.
	GetOpen(ctx context.Context, employeeID string) (*Attendance, error)
	// LockOpen is GetOpen with a row lock; call inside a transaction.
	LockOpen(ctx context.Context, employeeID string) (*Attendance, error)
	Update(ctx context.Context, a Attendance) error
	ListByEmployeeBetween(ctx context.Context, employeeID string, from, to time.Time) ([]Attendance, error)
	List(ctx context.Context, filter AttendanceFilter, scope access.Scope) ([]Attendance, int64, error)
	ListForExport(ctx context.Context, from, to time.Time, scope access.Scope) ([]Attendance, error)
}
