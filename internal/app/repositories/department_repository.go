package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/acoe/bonafide/internal/app/models"
	"github.com/acoe/bonafide/internal/pkg/apperrors"
	"github.com/acoe/bonafide/internal/pkg/dberrors"
)

// DepartmentRepository handles database operations for departments
type DepartmentRepository struct {
	db *pgxpool.Pool
}

// NewDepartmentRepository creates a new department repository
func NewDepartmentRepository(db *pgxpool.Pool) *DepartmentRepository {
	return &DepartmentRepository{
		db: db,
	}
}

// Create creates a new department
func (r *DepartmentRepository) Create(ctx context.Context, department *models.Department) error {
	query := `
		INSERT INTO departments (name, code, hod_id)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query, department.Name, department.Code, department.HODID).Scan(&department.ID)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrDepartmentAlreadyExists
		}
		return fmt.Errorf("error creating department: %w", err)
	}

	return nil
}

// GetByID retrieves a department by ID with its HOD resolved
func (r *DepartmentRepository) GetByID(ctx context.Context, id int64) (*models.Department, error) {
	query := `
		SELECT d.id, d.name, d.code, d.hod_id,
		       COALESCE(h.first_name, ''), COALESCE(h.last_name, '')
		FROM departments d
		LEFT JOIN profiles h ON h.id = d.hod_id
		WHERE d.id = $1
	`

	department, err := scanDepartment(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrDepartmentNotFound
		}
		return nil, fmt.Errorf("error retrieving department: %w", err)
	}

	return department, nil
}

// GetAll retrieves all departments with their HODs resolved
func (r *DepartmentRepository) GetAll(ctx context.Context) ([]*models.Department, error) {
	query := `
		SELECT d.id, d.name, d.code, d.hod_id,
		       COALESCE(h.first_name, ''), COALESCE(h.last_name, '')
		FROM departments d
		LEFT JOIN profiles h ON h.id = d.hod_id
		ORDER BY d.name
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var departments []*models.Department
	for rows.Next() {
		department, err := scanDepartment(rows)
		if err != nil {
			return nil, err
		}
		departments = append(departments, department)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return departments, nil
}

// ExistsByNameOrCode checks if a department exists by name or code,
// excluding the given id (0 to check all).
func (r *DepartmentRepository) ExistsByNameOrCode(ctx context.Context, name, code string, excludeID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM departments WHERE (name = $1 OR code = $2) AND id != $3)`,
		name, code, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking department existence: %w", err)
	}
	return exists, nil
}

// Update updates an existing department
func (r *DepartmentRepository) Update(ctx context.Context, q Querier, department *models.Department) error {
	query := `
		UPDATE departments
		SET name = $1, code = $2, hod_id = $3
		WHERE id = $4
	`

	cmdTag, err := q.Exec(ctx, query,
		department.Name, department.Code, department.HODID, department.ID)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrDepartmentAlreadyExists
		}
		return fmt.Errorf("error updating department: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrDepartmentNotFound
	}

	return nil
}

// Delete deletes a department by ID. Departments with batches or members
// cannot be deleted.
func (r *DepartmentRepository) Delete(ctx context.Context, id int64) error {
	var hasRelated bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM batches WHERE department_id = $1)
		    OR EXISTS(SELECT 1 FROM profiles WHERE department_id = $1)`,
		id).Scan(&hasRelated)
	if err != nil {
		return fmt.Errorf("error checking related entities: %w", err)
	}
	if hasRelated {
		return apperrors.ErrDepartmentHasRelations
	}

	cmdTag, err := r.db.Exec(ctx, `DELETE FROM departments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting department: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrDepartmentNotFound
	}

	return nil
}

func scanDepartment(row pgx.Row) (*models.Department, error) {
	var d models.Department
	var hodFirst, hodLast string
	err := row.Scan(&d.ID, &d.Name, &d.Code, &d.HODID, &hodFirst, &hodLast)
	if err != nil {
		return nil, err
	}
	if d.HODID != nil {
		d.HOD = &models.Profile{ID: *d.HODID, FirstName: hodFirst, LastName: hodLast}
	}
	return &d, nil
}
