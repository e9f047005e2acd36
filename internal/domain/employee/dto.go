package employee

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/domain/access"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/pkg/validator"
)

type CreateEmployeeRequest struct {
	Email        string  `json:"email"`
	FullName     string  `json:"full_name"`
	Password     string  `json:"password"`
	Role         string  `json:"role"`
	IsStaff      bool    `json:"is_staff"`
	DepartmentID *string `json:"department_id"`
	SupervisorID *string `json:"supervisor_id"`
	HireDate     *string `json:"hire_date"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if validator.IsEmpty(r.Email) {
		errs.Add("email", "email is required")
	} else if !validator.IsValidEmail(r.Email) || len(r.Email) > 254 {
		errs.Add("email", "email must be a valid email address")
	}

	if validator.IsEmpty(r.FullName) {
		errs.Add("full_name", "full_name is required")
	} else if len(r.FullName) > 255 {
		errs.Add("full_name", "full_name must not exceed 255 characters")
	}

	if len(r.Password) < 8 {
		errs.Add("password", "password must be at least 8 characters long")
	} else if len(r.Password) > 72 {
		errs.Add("password", "password must not exceed 72 characters")
	}

	if r.Role == "" {
		r.Role = string(access.RoleEmployee)
	}
	if !access.Role(r.Role).Valid() {
		errs.Add("role", "role must be one of: Employee_Agent, Supervisor, Admin")
	}

	if r.DepartmentID != nil && !validator.IsValidUUID(*r.DepartmentID) {
		errs.Add("department_id", "department_id must be a valid UUID")
	}
	if r.SupervisorID != nil && !validator.IsValidUUID(*r.SupervisorID) {
		errs.Add("supervisor_id", "supervisor_id must be a valid UUID")
	}
	if r.HireDate != nil {
		if _, ok := validator.IsValidDate(*r.HireDate); !ok {
			errs.Add("hire_date", "hire_date must be in YYYY-MM-DD format")
		}
	}

	return errs.Err()
}

type UpdateEmployeeRequest struct {
	FullName     *string `json:"full_name"`
	Role         *string `json:"role"`
	IsStaff      *bool   `json:"is_staff"`
	DepartmentID *string `json:"department_id"`
	HireDate     *string `json:"hire_date"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.FullName != nil && validator.IsEmpty(*r.FullName) {
		errs.Add("full_name", "full_name must not be empty")
	}
	if r.Role != nil && !access.Role(*r.Role).Valid() {
		errs.Add("role", "role must be one of: Employee_Agent, Supervisor, Admin")
	}
	if r.DepartmentID != nil && *r.DepartmentID != "" && !validator.IsValidUUID(*r.DepartmentID) {
		errs.Add("department_id", "department_id must be a valid UUID")
	}
	if r.HireDate != nil {
		if _, ok := validator.IsValidDate(*r.HireDate); !ok {
			errs.Add("hire_date", "hire_date must be in YYYY-MM-DD format")
		}
	}

	return errs.Err()
}

// AssignSupervisorRequest sets or, with a null supervisor_id, clears the
// employee's direct supervisor.
type AssignSupervisorRequest struct {
	SupervisorID *string `json:"supervisor_id"`
}

func (r *AssignSupervisorRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.SupervisorID != nil && !validator.IsValidUUID(*r.SupervisorID) {
		errs.Add("supervisor_id", "supervisor_id must be a valid UUID")
	}
	return errs.Err()
}

type EmployeeFilter struct {
	Search       *string `json:"search,omitempty"`
	Role         *string `json:"role,omitempty"`
	DepartmentID *string `json:"department_id,omitempty"`
	SupervisorID *string `json:"supervisor_id,omitempty"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *EmployeeFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs.Add("page", "page must be a positive number")
	}
	if f.Page == 0 {
		f.Page = 1
	}
	if f.Limit < 0 {
		errs.Add("limit", "limit must be a positive number")
	}
	if f.Limit == 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		errs.Add("limit", "limit must not exceed 100")
	}

	if f.Role != nil && !access.Role(*f.Role).Valid() {
		errs.Add("role", "role must be one of: Employee_Agent, Supervisor, Admin")
	}
	if f.DepartmentID != nil && !validator.IsValidUUID(*f.DepartmentID) {
		errs.Add("department_id", "department_id must be a valid UUID")
	}
	if f.SupervisorID != nil && !validator.IsValidUUID(*f.SupervisorID) {
		errs.Add("supervisor_id", "supervisor_id must be a valid UUID")
	}

	return errs.Err()
}

type EmployeeResponse struct {
	ID             string     `json:"id"`
	Email          string     `json:"email"`
	FullName       string     `json:"full_name"`
	Role           string     `json:"role"`
	IsStaff        bool       `json:"is_staff"`
	DepartmentID   *string    `json:"department_id,omitempty"`
	DepartmentName *string    `json:"department_name,omitempty"`
	SupervisorID   *string    `json:"supervisor_id,omitempty"`
	SupervisorName *string    `json:"supervisor_name,omitempty"`
	HireDate       *string    `json:"hire_date,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`
}

func NewEmployeeResponse(e Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:             e.ID,
		Email:          e.Email,
		FullName:       e.FullName,
		Role:           string(e.Role),
		IsStaff:        e.IsStaff,
		DepartmentID:   e.DepartmentID,
		DepartmentName: e.DepartmentName,
		SupervisorID:   e.SupervisorID,
		SupervisorName: e.SupervisorName,
		CreatedAt:      e.CreatedAt,
	}
	if e.HireDate != nil {
		d := e.HireDate.Format("2006-01-02")
		resp.HireDate = &d
	}
	if !e.UpdatedAt.IsZero() {
		u := e.UpdatedAt
		resp.UpdatedAt = &u
	}
	return resp
}

type ListEmployeeResponse struct {
	TotalCount int64              `json:"total_count"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
	Employees  []EmployeeResponse `json:"employees"`
}

type CreateDepartmentRequest struct {
	Title string `json:"title"`
}

func (r *CreateDepartmentRequest) Validate() error {
	var errs validator.ValidationErrors
	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" {
		errs.Add("title", "title is required")
	} else if len(r.Title) > 100 {
		errs.Add("title", "title must not exceed 100 characters")
	}
	return errs.Err()
}

type DepartmentResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}
