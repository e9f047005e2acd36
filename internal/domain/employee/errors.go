package employee

import (
	"errors"
	"fmt"

	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/domain/access"
)

var (
	ErrEmployeeNotFound   = errors.New("employee not found")
	ErrEmailExists        = errors.New("email already registered")
	ErrSupervisorNotFound = errors.New("supervisor not found")
	ErrSelfSupervision    = errors.New("an employee cannot supervise themselves")
	ErrSupervisorCycle    = errors.New("supervisor assignment would create a reporting cycle")
	ErrSupervisorRole     = errors.New("supervisor must have the Supervisor or Admin role")

	ErrDepartmentNotFound    = errors.New("department not found")
	ErrDepartmentTitleExists = errors.New("department with this title already exists")

	ErrEmployeeManageDenied = fmt.Errorf("%w: only admins may manage employees", access.ErrPermissionDenied)
)
