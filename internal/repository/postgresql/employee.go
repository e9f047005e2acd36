package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/domain/access"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const employeeSelect = `
	SELECT e.id, e.email, e.full_name, e.password_hash, e.google_id, e.role, e.is_staff,
		e.department_id, e.supervisor_id, e.hire_date, e.created_at, e.updated_at,
		d.title, s.full_name
	FROM employees e
	LEFT JOIN departments d ON d.id = e.department_id
	LEFT JOIN employees s ON s.id = e.supervisor_id
`

// hierarchyLockKey is the advisory lock taken while the reporting line
// changes.
const hierarchyLockKey int64 = 0x5357_4843

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var emp employee.Employee
	err := row.Scan(
		&emp.ID, &emp.Email, &emp.FullName, &emp.PasswordHash, &emp.GoogleID, &emp.Role, &emp.IsStaff,
		&emp.DepartmentID, &emp.SupervisorID, &emp.HireDate, &emp.CreatedAt, &emp.UpdatedAt,
		&emp.DepartmentName, &emp.SupervisorName,
	)
	return emp, err
}

func mapEmployeeWriteError(err error) error {
	if uniqueViolation(err, "uq_employees_email") {
		return employee.ErrEmailExists
	}
	if checkViolation(err, "chk_employees_not_self_supervised") {
		return employee.ErrSelfSupervision
	}
	if constraint, ok := foreignKeyViolation(err); ok {
		switch constraint {
		case "employees_department_id_fkey":
			return employee.ErrDepartmentNotFound
		case "employees_supervisor_id_fkey":
			return employee.ErrSupervisorNotFound
		}
	}
	return err
}

// Create implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO employees (email, full_name, password_hash, google_id, role, is_staff, department_id, supervisor_id, hire_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	var id string
	err := q.QueryRow(ctx, query,
		newEmployee.Email, newEmployee.FullName, newEmployee.PasswordHash, newEmployee.GoogleID,
		newEmployee.Role, newEmployee.IsStaff, newEmployee.DepartmentID, newEmployee.SupervisorID, newEmployee.HireDate,
	).Scan(&id)
	if err != nil {
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", mapEmployeeWriteError(err))
	}
	return r.GetByID(ctx, id)
}

func (r *employeeRepositoryImpl) getOne(ctx context.Context, where string, arg interface{}) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	emp, err := scanEmployee(q.QueryRow(ctx, employeeSelect+" WHERE "+where, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return emp, nil
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	return r.getOne(ctx, "e.id = $1", id)
}

// GetByEmail implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByEmail(ctx context.Context, email string) (employee.Employee, error) {
	return r.getOne(ctx, "LOWER(e.email) = LOWER($1)", email)
}

// GetByGoogleID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByGoogleID(ctx context.Context, googleID string) (employee.Employee, error) {
	return r.getOne(ctx, "e.google_id = $1", googleID)
}

// List implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) List(ctx context.Context, filter employee.EmployeeFilter, scope access.Scope) ([]employee.Employee, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere, args, argIdx := scopeClause(scope, "e.id", "e.supervisor_id", 1)

	if filter.Search != nil && *filter.Search != "" {
		baseWhere += fmt.Sprintf(" AND (e.full_name ILIKE $%d OR e.email ILIKE $%d)", argIdx, argIdx)
		args = append(args, "%"+*filter.Search+"%")
		argIdx++
	}
	if filter.Role != nil && *filter.Role != "" {
		baseWhere += fmt.Sprintf(" AND e.role = $%d", argIdx)
		args = append(args, *filter.Role)
		argIdx++
	}
	if filter.DepartmentID != nil && *filter.DepartmentID != "" {
		baseWhere += fmt.Sprintf(" AND e.department_id = $%d", argIdx)
		args = append(args, *filter.DepartmentID)
		argIdx++
	}
	if filter.SupervisorID != nil && *filter.SupervisorID != "" {
		baseWhere += fmt.Sprintf(" AND e.supervisor_id = $%d", argIdx)
		args = append(args, *filter.SupervisorID)
		argIdx++
	}

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM employees e WHERE "+baseWhere, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count employees: %w", err)
	}

	selectQuery := fmt.Sprintf(`%s
		WHERE %s
		ORDER BY e.full_name ASC
		LIMIT $%d OFFSET $%d
	`, employeeSelect, baseWhere, argIdx, argIdx+1)
	args = append(args, filter.Limit, offset(filter.Page, filter.Limit))

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return employees, total, nil
}

// Update implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Update(ctx context.Context, emp employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE employees
		SET full_name = $1, role = $2, is_staff = $3, department_id = $4, hire_date = $5, updated_at = NOW()
		WHERE id = $6
	`
	tag, err := q.Exec(ctx, query, emp.FullName, emp.Role, emp.IsStaff, emp.DepartmentID, emp.HireDate, emp.ID)
	if err != nil {
		return employee.Employee{}, fmt.Errorf("failed to update employee: %w", mapEmployeeWriteError(err))
	}
	if tag.RowsAffected() == 0 {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return r.GetByID(ctx, emp.ID)
}

// SetSupervisor implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) SetSupervisor(ctx context.Context, id string, supervisorID *string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE employees SET supervisor_id = $1, updated_at = NOW() WHERE id = $2`, supervisorID, id)
	if err != nil {
		return fmt.Errorf("failed to set supervisor: %w", mapEmployeeWriteError(err))
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// LockHierarchy implements employee.EmployeeRepository. All reporting-line
// changes share one transaction-scoped advisory lock.
func (r *employeeRepositoryImpl) LockHierarchy(ctx context.Context) error {
	q := GetQuerier(ctx, r.db)
	if _, err := q.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, hierarchyLockKey); err != nil {
		return fmt.Errorf("failed to acquire hierarchy lock: %w", err)
	}
	return nil
}

// SupervisorChain implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) SupervisorChain(ctx context.Context, id string) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	// depth guard stops the walk should a cycle already exist
	query := `
		WITH RECURSIVE chain AS (
			SELECT supervisor_id, 1 AS depth FROM employees WHERE id = $1
			UNION ALL
			SELECT e.supervisor_id, c.depth + 1
			FROM employees e
			JOIN chain c ON e.id = c.supervisor_id
			WHERE c.depth < 64
		)
		SELECT supervisor_id FROM chain WHERE supervisor_id IS NOT NULL ORDER BY depth
	`
	rows, err := q.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to walk supervisor chain: %w", err)
	}
	defer rows.Close()

	var chain []string
	for rows.Next() {
		var supervisorID string
		if err := rows.Scan(&supervisorID); err != nil {
			return nil, err
		}
		chain = append(chain, supervisorID)
	}
	return chain, rows.Err()
}

// LinkGoogleID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) LinkGoogleID(ctx context.Context, id string, googleID string) error {
	q := GetQuerier(ctx, r.db)
	_, err := q.Exec(ctx, `UPDATE employees SET google_id = $1, updated_at = NOW() WHERE id = $2`, googleID, id)
	if err != nil {
		return fmt.Errorf("failed to link google account: %w", err)
	}
	return nil
}

// Delete implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}
