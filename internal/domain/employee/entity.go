package employee

import (
	"time"

	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/domain/access"
)

type Employee struct {
	ID           string
	Email        string
	FullName     string
	PasswordHash *string
	GoogleID     *string
	Role         access.Role
	IsStaff      bool
	DepartmentID *string
	SupervisorID *string
	HireDate     *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// joined
	DepartmentName *string
	SupervisorName *string
}

func (e Employee) OwnerID() string            { return e.ID }
func (e Employee) OwnerSupervisorID() *string { return e.SupervisorID }

type Department struct {
	ID        string
	Title     string
	CreatedAt time.Time
}

// DefaultDepartment is where self-registered accounts land.
const DefaultDepartment = "Tech"
