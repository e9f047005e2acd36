package employee

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/domain/access"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/pkg/validator"
	"golang.org/x/crypto/bcrypt"
)

type EmployeeServiceImpl struct {
	tx database.Transactor
	employee.EmployeeRepository
	departments employee.DepartmentRepository
}

func NewEmployeeService(
	tx database.Transactor,
	employeeRepo employee.EmployeeRepository,
	departmentRepo employee.DepartmentRepository,
) employee.EmployeeService {
	return &EmployeeServiceImpl{
		tx:                 tx,
		EmployeeRepository: employeeRepo,
		departments:        departmentRepo,
	}
}

func requireAdmin(ctx context.Context) (access.Actor, error) {
	actor, err := access.FromContext(ctx)
	if err != nil {
		return access.Actor{}, err
	}
	if !actor.IsAdmin() {
		return access.Actor{}, employee.ErrEmployeeManageDenied
	}
	return actor, nil
}

// Create implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Create(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return employee.EmployeeResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}
	hashStr := string(hash)

	e := employee.Employee{
		Email:        req.Email,
		FullName:     req.FullName,
		PasswordHash: &hashStr,
		Role:         access.Role(req.Role),
		IsStaff:      req.IsStaff,
		DepartmentID: req.DepartmentID,
		SupervisorID: req.SupervisorID,
	}
	if req.HireDate != nil {
		d, _ := time.Parse("2006-01-02", *req.HireDate)
		e.HireDate = &d
	}
	if e.DepartmentID == nil {
		dept, err := s.departments.GetByTitle(ctx, employee.DefaultDepartment)
		switch {
		case err == nil:
			e.DepartmentID = &dept.ID
		case !errors.Is(err, employee.ErrDepartmentNotFound):
			return employee.EmployeeResponse{}, err
		}
	}

	created, err := s.EmployeeRepository.Create(ctx, e)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.NewEmployeeResponse(created), nil
}

// Get implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Get(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	actor, err := access.FromContext(ctx)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	e, err := s.EmployeeRepository.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	if !actor.CanView(e) {
		return employee.EmployeeResponse{}, employee.ErrEmployeeNotFound
	}
	return employee.NewEmployeeResponse(e), nil
}

// List implements employee.EmployeeService. Supervisors see themselves and
// their direct reports; agents only themselves.
func (s *EmployeeServiceImpl) List(ctx context.Context, filter employee.EmployeeFilter) (employee.ListEmployeeResponse, error) {
	actor, err := access.FromContext(ctx)
	if err != nil {
		return employee.ListEmployeeResponse{}, err
	}
	if err := filter.Validate(); err != nil {
		return employee.ListEmployeeResponse{}, err
	}

	employees, total, err := s.EmployeeRepository.List(ctx, filter, actor.Scope())
	if err != nil {
		return employee.ListEmployeeResponse{}, fmt.Errorf("failed to list employees: %w", err)
	}

	responses := make([]employee.EmployeeResponse, 0, len(employees))
	for _, e := range access.Visible(actor, employees) {
		responses = append(responses, employee.NewEmployeeResponse(e))
	}

	totalPages, _ := pagination.Summarize(total, filter.Page, filter.Limit)
	return employee.ListEmployeeResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
		Employees:  responses,
	}, nil
}

// Update implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Update(ctx context.Context, id string, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return employee.EmployeeResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	e, err := s.EmployeeRepository.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	if req.FullName != nil {
		e.FullName = *req.FullName
	}
	if req.Role != nil {
		e.Role = access.Role(*req.Role)
	}
	if req.IsStaff != nil {
		e.IsStaff = *req.IsStaff
	}
	if req.DepartmentID != nil {
		if *req.DepartmentID == "" {
			e.DepartmentID = nil
		} else {
			e.DepartmentID = req.DepartmentID
		}
	}
	if req.HireDate != nil {
		d, _ := time.Parse("2006-01-02", *req.HireDate)
		e.HireDate = &d
	}

	updated, err := s.EmployeeRepository.Update(ctx, e)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.NewEmployeeResponse(updated), nil
}

// AssignSupervisor implements employee.EmployeeService. The reporting line
// must stay a tree: no self-supervision and no cycles. Only supervisors and
// admins can have reports.
func (s *EmployeeServiceImpl) AssignSupervisor(ctx context.Context, id string, req employee.AssignSupervisorRequest) (employee.EmployeeResponse, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return employee.EmployeeResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	var updated employee.Employee
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.EmployeeRepository.GetByID(ctx, id); err != nil {
			return err
		}

		if req.SupervisorID != nil {
			supervisorID := *req.SupervisorID
			if supervisorID == id {
				return employee.ErrSelfSupervision
			}
			sup, err := s.EmployeeRepository.GetByID(ctx, supervisorID)
			if err != nil {
				if errors.Is(err, employee.ErrEmployeeNotFound) {
					return employee.ErrSupervisorNotFound
				}
				return err
			}
			if sup.Role != access.RoleSupervisor && sup.Role != access.RoleAdmin {
				return employee.ErrSupervisorRole
			}

			// concurrent assignments could each pass the walk below and
			// close a loop between them
			if err := s.EmployeeRepository.LockHierarchy(ctx); err != nil {
				return fmt.Errorf("failed to lock reporting hierarchy: %w", err)
			}
			chain, err := s.EmployeeRepository.SupervisorChain(ctx, supervisorID)
			if err != nil {
				return fmt.Errorf("failed to load supervisor chain: %w", err)
			}
			if slices.Contains(chain, id) {
				return employee.ErrSupervisorCycle
			}
		}

		if err := s.EmployeeRepository.SetSupervisor(ctx, id, req.SupervisorID); err != nil {
			return err
		}
		e, err := s.EmployeeRepository.GetByID(ctx, id)
		if err != nil {
			return err
		}
		updated = e
		return nil
	})
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.NewEmployeeResponse(updated), nil
}

// Delete implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Delete(ctx context.Context, id string) error {
	actor, err := requireAdmin(ctx)
	if err != nil {
		return err
	}
	if actor.EmployeeID == id {
		var errs validator.ValidationErrors
		errs.Add("id", "you cannot delete your own account")
		return errs
	}
	return s.EmployeeRepository.Delete(ctx, id)
}

// ListDepartments implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ListDepartments(ctx context.Context) ([]employee.DepartmentResponse, error) {
	if _, err := access.FromContext(ctx); err != nil {
		return nil, err
	}

	depts, err := s.departments.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	responses := make([]employee.DepartmentResponse, 0, len(depts))
	for _, d := range depts {
		responses = append(responses, employee.DepartmentResponse{ID: d.ID, Title: d.Title, CreatedAt: d.CreatedAt})
	}
	return responses, nil
}

// CreateDepartment implements employee.EmployeeService.
func (s *EmployeeServiceImpl) CreateDepartment(ctx context.Context, req employee.CreateDepartmentRequest) (employee.DepartmentResponse, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return employee.DepartmentResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return employee.DepartmentResponse{}, err
	}

	d, err := s.departments.Create(ctx, employee.Department{Title: req.Title})
	if err != nil {
		return employee.DepartmentResponse{}, err
	}
	return employee.DepartmentResponse{ID: d.ID, Title: d.Title, CreatedAt: d.CreatedAt}, nil
}

// DeleteDepartment implements employee.EmployeeService.
func (s *EmployeeServiceImpl) DeleteDepartment(ctx context.Context, id string) error {
	if _, err := requireAdmin(ctx); err != nil {
		return err
	}
	return s.departments.Delete(ctx, id)
}
