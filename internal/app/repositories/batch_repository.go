package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/acoe/bonafide/internal/app/models"
	"github.com/acoe/bonafide/internal/pkg/apperrors"
	"github.com/acoe/bonafide/internal/pkg/dberrors"
)

const batchColumns = `
	b.id, b.department_id, b.name, b.section, b.total_sections, b.tutor_id,
	b.current_semester, b.semester_from_date, b.semester_to_date, b.status, b.created_at,
	COALESCE(d.name, ''),
	COALESCE(TRIM(CONCAT(t.first_name, ' ', t.last_name)), ''),
	(SELECT COUNT(*) FROM students st WHERE st.batch_id = b.id)`

const batchJoins = `
	FROM batches b
	LEFT JOIN departments d ON d.id = b.department_id
	LEFT JOIN profiles t ON t.id = b.tutor_id`

// BatchRepository handles database operations for batches
type BatchRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewBatchRepository creates a new batch repository
func NewBatchRepository(db *pgxpool.Pool) *BatchRepository {
	return &BatchRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts one batch section row
func (r *BatchRepository) Create(ctx context.Context, q Querier, batch *models.Batch) error {
	query := `
		INSERT INTO batches (department_id, name, section, total_sections, tutor_id, current_semester, semester_from_date, semester_to_date, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query,
		batch.DepartmentID, batch.Name, batch.Section, batch.TotalSections,
		batch.TutorID, batch.CurrentSemester, batch.SemesterFromDate, batch.SemesterToDate,
		batch.Status,
	).Scan(&batch.ID, &batch.CreatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "batches_department_id_name_section_key") {
			return apperrors.ErrBatchAlreadyExists
		}
		return fmt.Errorf("error creating batch: %w", err)
	}

	return nil
}

// GetByID retrieves a batch by ID with department, tutor and student count resolved
func (r *BatchRepository) GetByID(ctx context.Context, id int64) (*models.Batch, error) {
	query := `SELECT ` + batchColumns + batchJoins + ` WHERE b.id = $1`

	batch, err := scanBatch(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrBatchNotFound
		}
		return nil, fmt.Errorf("error retrieving batch: %w", err)
	}

	return batch, nil
}

// List retrieves batches, optionally scoped to a department
func (r *BatchRepository) List(ctx context.Context, departmentID *int64) ([]*models.Batch, error) {
	listQ := r.sb.Select(batchColumns).
		From("batches b").
		LeftJoin("departments d ON d.id = b.department_id").
		LeftJoin("profiles t ON t.id = b.tutor_id").
		OrderBy("b.name DESC", "b.section")

	if departmentID != nil {
		listQ = listQ.Where(squirrel.Eq{"b.department_id": *departmentID})
	}

	listSQL, listArgs, err := listQ.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build batch list query: %w", err)
	}

	rows, err := r.db.Query(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var batches []*models.Batch
	for rows.Next() {
		batch, err := scanBatch(rows)
		if err != nil {
			return nil, err
		}
		batches = append(batches, batch)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return batches, nil
}

// GetSiblings retrieves every section row sharing a batch name within a
// department, ordered by section letter.
func (r *BatchRepository) GetSiblings(ctx context.Context, q Querier, departmentID int64, name string) ([]*models.Batch, error) {
	query := `SELECT ` + batchColumns + batchJoins + ` WHERE b.department_id = $1 AND b.name = $2 ORDER BY b.section`

	rows, err := q.Query(ctx, query, departmentID, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var batches []*models.Batch
	for rows.Next() {
		batch, err := scanBatch(rows)
		if err != nil {
			return nil, err
		}
		batches = append(batches, batch)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return batches, nil
}

// Update updates one batch section row
func (r *BatchRepository) Update(ctx context.Context, q Querier, batch *models.Batch) error {
	query := `
		UPDATE batches
		SET name = $1, section = $2, total_sections = $3, tutor_id = $4,
		    current_semester = $5, semester_from_date = $6, semester_to_date = $7, status = $8
		WHERE id = $9
	`

	cmdTag, err := q.Exec(ctx, query,
		batch.Name, batch.Section, batch.TotalSections, batch.TutorID,
		batch.CurrentSemester, batch.SemesterFromDate, batch.SemesterToDate,
		batch.Status, batch.ID)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "batches_department_id_name_section_key") {
			return apperrors.ErrBatchAlreadyExists
		}
		return fmt.Errorf("error updating batch: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrBatchNotFound
	}

	return nil
}

// SyncTotalSections rewrites total_sections on every sibling of a batch name
func (r *BatchRepository) SyncTotalSections(ctx context.Context, q Querier, departmentID int64, name string, totalSections int) error {
	_, err := q.Exec(ctx,
		`UPDATE batches SET total_sections = $1 WHERE department_id = $2 AND name = $3`,
		totalSections, departmentID, name)
	if err != nil {
		return fmt.Errorf("error syncing total sections: %w", err)
	}
	return nil
}

// UpdateSemester writes the derived semester and its date range for a batch
func (r *BatchRepository) UpdateSemester(ctx context.Context, id int64, semester int, from, to time.Time) error {
	cmdTag, err := r.db.Exec(ctx, `
		UPDATE batches SET current_semester = $1, semester_from_date = $2, semester_to_date = $3
		WHERE id = $4`,
		semester, from, to, id)
	if err != nil {
		return fmt.Errorf("error updating batch semester: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrBatchNotFound
	}
	return nil
}

// Delete removes a batch section. Sections that still hold students are refused.
func (r *BatchRepository) Delete(ctx context.Context, q Querier, id int64) error {
	var hasStudents bool
	err := q.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM students WHERE batch_id = $1)`, id).Scan(&hasStudents)
	if err != nil {
		return fmt.Errorf("error checking batch students: %w", err)
	}
	if hasStudents {
		return apperrors.ErrBatchHasStudents
	}

	cmdTag, err := q.Exec(ctx, `DELETE FROM batches WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting batch: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrBatchNotFound
	}

	return nil
}

func scanBatch(row pgx.Row) (*models.Batch, error) {
	var b models.Batch
	var departmentName, tutorName string
	err := row.Scan(
		&b.ID, &b.DepartmentID, &b.Name, &b.Section, &b.TotalSections, &b.TutorID,
		&b.CurrentSemester, &b.SemesterFromDate, &b.SemesterToDate, &b.Status, &b.CreatedAt,
		&departmentName, &tutorName, &b.StudentCount,
	)
	if err != nil {
		return nil, err
	}
	if departmentName != "" {
		b.Department = &models.Department{ID: b.DepartmentID, Name: departmentName}
	}
	if b.TutorID != nil && tutorName != "" {
		b.Tutor = &models.Profile{ID: *b.TutorID, FirstName: tutorName}
	}
	return &b, nil
}
