package employee

import (
	"context"

	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/domain/access"
)

type EmployeeRepository interface {
	Create(ctx context.Context, e Employee) (Employee, error)
	GetByID(ctx context.Context, id string) (Employee, error)
	GetByEmail(ctx context.Context, email string) (Employee, error)
	GetByGoogleID(ctx context.Context, googleID string) (Employee, error)
	List(ctx context.Context, filter EmployeeFilter, scope access.Scope) ([]Employee, int64, error)
	Update(ctx context.Context, e Employee) (Employee, error)
	SetSupervisor(ctx context.Context, id string, supervisorID *string) error
	// LockHierarchy serializes reporting-line changes until the surrounding
	// transaction ends.
	LockHierarchy(ctx context.Context) error
	// SupervisorChain returns the supervisors above id, nearest first.
	SupervisorChain(ctx context.Context, id string) ([]string, error)
	LinkGoogleID(ctx context.Context, id string, googleID string) error
	Delete(ctx context.Context, id string) error
}

type DepartmentRepository interface {
	Create(ctx context.Context, d Department) (Department, error)
	GetByID(ctx context.Context, id string) (Department, error)
	GetByTitle(ctx context.Context, title string) (Department, error)
	List(ctx context.Context) ([]Department, error)
	Delete(ctx context.Context, id string) error
}
