package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type departmentRepositoryImpl struct {
	db *database.DB
}

func NewDepartmentRepository(db *database.DB) employee.DepartmentRepository {
	return &departmentRepositoryImpl{db: db}
}

// Create implements employee.DepartmentRepository.
func (r *departmentRepositoryImpl) Create(ctx context.Context, d employee.Department) (employee.Department, error) {
	q := GetQuerier(ctx, r.db)

	var created employee.Department
	err := q.QueryRow(ctx, `
		INSERT INTO departments (title) VALUES ($1)
		RETURNING id, title, created_at
	`, d.Title).Scan(&created.ID, &created.Title, &created.CreatedAt)
	if err != nil {
		if uniqueViolation(err, "uq_departments_title") {
			return employee.Department{}, employee.ErrDepartmentTitleExists
		}
		return employee.Department{}, fmt.Errorf("failed to create department: %w", err)
	}
	return created, nil
}

func (r *departmentRepositoryImpl) getOne(ctx context.Context, where string, arg interface{}) (employee.Department, error) {
	q := GetQuerier(ctx, r.db)

	var d employee.Department
	err := q.QueryRow(ctx, `SELECT id, title, created_at FROM departments WHERE `+where, arg).
		Scan(&d.ID, &d.Title, &d.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Department{}, employee.ErrDepartmentNotFound
		}
		return employee.Department{}, fmt.Errorf("failed to get department: %w", err)
	}
	return d, nil
}

// GetByID implements employee.DepartmentRepository.
func (r *departmentRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Department, error) {
	return r.getOne(ctx, "id = $1", id)
}

// GetByTitle implements employee.DepartmentRepository.
func (r *departmentRepositoryImpl) GetByTitle(ctx context.Context, title string) (employee.Department, error) {
	return r.getOne(ctx, "title = $1", title)
}

// List implements employee.DepartmentRepository.
func (r *departmentRepositoryImpl) List(ctx context.Context) ([]employee.Department, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT id, title, created_at FROM departments ORDER BY title`)
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	defer rows.Close()

	var departments []employee.Department
	for rows.Next() {
		var d employee.Department
		if err := rows.Scan(&d.ID, &d.Title, &d.CreatedAt); err != nil {
			return nil, err
		}
		departments = append(departments, d)
	}
	return departments, rows.Err()
}

// Delete implements employee.DepartmentRepository.
func (r *departmentRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM departments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete department: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrDepartmentNotFound
	}
	return nil
}
