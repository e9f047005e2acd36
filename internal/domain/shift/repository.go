package shift

import (
	"context"
	"time"

	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/domain/access"
)

type ShiftRepository interface {
	// Create returns ErrShiftOverlap when the agent already has a shift that day.
	Create(ctx context.Context, s Shift) (Shift, error)
	GetByID(ctx context.Context, id string) (Shift, error)
	// LockByID reads the shift with a row lock; call inside a transaction.
	LockByID(ctx context.Context, id string) (Shift, error)
	// LockByAgentAndDate returns nil when the agent has no shift on date.
	LockByAgentAndDate(ctx context.Context, agentID string, date time.Time) (*Shift, error)
	GetByAgentAndDate(ctx context.Context, agentID string, date time.Time) (*Shift, error)
	List(ctx context.Context, filter ShiftFilter, scope access.Scope) ([]Shift, int64, error)
	Update(ctx context.Context, s Shift) error
	UpdateStatus(ctx context.Context, s Shift) error
	Delete(ctx context.Context, id string) error
}
