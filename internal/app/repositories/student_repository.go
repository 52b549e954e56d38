package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/acoe/bonafide/internal/app/models"
	"github.com/acoe/bonafide/internal/pkg/apperrors"
	"github.com/acoe/bonafide/internal/pkg/dberrors"
)

// studentDetailColumns is the join projection for the flattened student view.
const studentDetailColumns = `
	s.profile_id, s.register_number, s.parent_name, s.batch_id, s.tutor_id, s.hod_id,
	s.date_of_birth, s.nationality, s.admission_date,
	p.first_name, p.last_name, p.username, p.email, p.phone_number,
	COALESCE(TRIM(CONCAT(b.name, ' ', b.section)), ''),
	COALESCE(b.current_semester, 0),
	p.department_id,
	COALESCE(d.name, ''),
	COALESCE(TRIM(CONCAT(t.first_name, ' ', t.last_name)), ''),
	COALESCE(TRIM(CONCAT(h.first_name, ' ', h.last_name)), '')`

const studentDetailJoins = `
	FROM students s
	JOIN profiles p ON p.id = s.profile_id
	LEFT JOIN batches b ON b.id = s.batch_id
	LEFT JOIN departments d ON d.id = p.department_id
	LEFT JOIN profiles t ON t.id = s.tutor_id
	LEFT JOIN profiles h ON h.id = s.hod_id`

// StudentRepository handles database operations for students
type StudentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new student repository
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts the student row for an existing profile. It is meant to
// run in the same transaction as the profile insert.
func (r *StudentRepository) Create(ctx context.Context, q Querier, student *models.Student) error {
	query := `
		INSERT INTO students (profile_id, register_number, parent_name, batch_id, tutor_id, hod_id, date_of_birth, nationality, admission_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := q.Exec(ctx, query,
		student.ProfileID, student.RegisterNumber, student.ParentName,
		student.BatchID, student.TutorID, student.HODID,
		student.DateOfBirth, student.Nationality, student.AdmissionDate)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "students_register_number_key") {
			return apperrors.ErrRegisterNumberTaken
		}
		return fmt.Errorf("error creating student: %w", err)
	}

	return nil
}

// GetDetailByProfileID retrieves the flattened student view for a profile
func (r *StudentRepository) GetDetailByProfileID(ctx context.Context, profileID int64) (*models.StudentDetail, error) {
	query := `SELECT ` + studentDetailColumns + studentDetailJoins + ` WHERE s.profile_id = $1`

	detail, err := scanStudentDetail(r.db.QueryRow(ctx, query, profileID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}

	return detail, nil
}

// StudentFilter narrows List to one scope of the student directory
type StudentFilter struct {
	DepartmentID *int64
	BatchID      *int64
	TutorID      *int64
	HODID        *int64
	Search       string // matches name or register number
}

// List retrieves the flattened student views matching the filter with pagination
func (r *StudentRepository) List(ctx context.Context, filter StudentFilter, offset uint64, limit int) ([]*models.StudentDetail, int64, error) {
	conds := squirrel.And{}
	if filter.DepartmentID != nil {
		conds = append(conds, squirrel.Eq{"p.department_id": *filter.DepartmentID})
	}
	if filter.BatchID != nil {
		conds = append(conds, squirrel.Eq{"s.batch_id": *filter.BatchID})
	}
	if filter.TutorID != nil {
		conds = append(conds, squirrel.Eq{"s.tutor_id": *filter.TutorID})
	}
	if filter.HODID != nil {
		conds = append(conds, squirrel.Eq{"s.hod_id": *filter.HODID})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		conds = append(conds, squirrel.Or{
			squirrel.ILike{"p.first_name": pattern},
			squirrel.ILike{"p.last_name": pattern},
			squirrel.ILike{"s.register_number": pattern},
		})
	}

	countQ := r.sb.Select("COUNT(*)").
		From("students s").
		Join("profiles p ON p.id = s.profile_id")
	listQ := r.sb.Select(studentDetailColumns).
		From("students s").
		Join("profiles p ON p.id = s.profile_id").
		LeftJoin("batches b ON b.id = s.batch_id").
		LeftJoin("departments d ON d.id = p.department_id").
		LeftJoin("profiles t ON t.id = s.tutor_id").
		LeftJoin("profiles h ON h.id = s.hod_id")

	if len(conds) > 0 {
		countQ = countQ.Where(conds)
		listQ = listQ.Where(conds)
	}

	var total int64
	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build student count query: %w", err)
	}
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting students: %w", err)
	}

	listSQL, listArgs, err := listQ.
		OrderBy("s.register_number").
		Offset(offset).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build student list query: %w", err)
	}

	rows, err := r.db.Query(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var details []*models.StudentDetail
	for rows.Next() {
		detail, err := scanStudentDetail(rows)
		if err != nil {
			return nil, 0, err
		}
		details = append(details, detail)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return details, total, nil
}

// Update updates the mutable student fields. The register number is immutable.
func (r *StudentRepository) Update(ctx context.Context, q Querier, student *models.Student) error {
	query := `
		UPDATE students
		SET parent_name = $1, batch_id = $2, tutor_id = $3, hod_id = $4,
		    date_of_birth = $5, nationality = $6, admission_date = $7
		WHERE profile_id = $8
	`

	cmdTag, err := q.Exec(ctx, query,
		student.ParentName, student.BatchID, student.TutorID, student.HODID,
		student.DateOfBirth, student.Nationality, student.AdmissionDate,
		student.ProfileID)
	if err != nil {
		return fmt.Errorf("error updating student: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}

	return nil
}

// SyncTutorByBatch rewrites the denormalized tutor of every student in a batch.
// Called when a batch is assigned a different tutor.
func (r *StudentRepository) SyncTutorByBatch(ctx context.Context, q Querier, batchID int64, tutorID *int64) error {
	_, err := q.Exec(ctx, `UPDATE students SET tutor_id = $1 WHERE batch_id = $2`, tutorID, batchID)
	if err != nil {
		return fmt.Errorf("error syncing batch tutor: %w", err)
	}
	return nil
}

// SyncHODByDepartment rewrites the denormalized HOD of every student in a
// department. Called when a department is assigned a different HOD.
func (r *StudentRepository) SyncHODByDepartment(ctx context.Context, q Querier, departmentID int64, hodID *int64) error {
	_, err := q.Exec(ctx, `
		UPDATE students SET hod_id = $1
		WHERE profile_id IN (SELECT id FROM profiles WHERE department_id = $2 AND role = 'student')`,
		hodID, departmentID)
	if err != nil {
		return fmt.Errorf("error syncing department hod: %w", err)
	}
	return nil
}

func scanStudentDetail(row pgx.Row) (*models.StudentDetail, error) {
	var d models.StudentDetail
	err := row.Scan(
		&d.ProfileID, &d.RegisterNumber, &d.ParentName, &d.BatchID, &d.TutorID, &d.HODID,
		&d.DateOfBirth, &d.Nationality, &d.AdmissionDate,
		&d.FirstName, &d.LastName, &d.Username, &d.Email, &d.PhoneNumber,
		&d.BatchName, &d.CurrentSemester,
		&d.DepartmentID, &d.DepartmentName,
		&d.TutorName, &d.HODName,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
