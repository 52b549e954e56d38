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
)

const requestColumns = `
	r.id, r.student_id, r.request_type, r.sub_type, r.reason, r.status,
	r.return_reason, r.template_id, r.certificate_serial, r.created_at, r.updated_at,
	COALESCE(tm.name, '')`

const requestJoins = `
	FROM requests r
	JOIN students s ON s.profile_id = r.student_id
	JOIN profiles p ON p.id = s.profile_id
	LEFT JOIN batches b ON b.id = s.batch_id
	LEFT JOIN departments d ON d.id = p.department_id
	LEFT JOIN profiles t ON t.id = s.tutor_id
	LEFT JOIN profiles h ON h.id = s.hod_id
	LEFT JOIN templates tm ON tm.id = r.template_id`

// RequestRepository handles database operations for bonafide requests
type RequestRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewRequestRepository creates a new request repository
func NewRequestRepository(db *pgxpool.Pool) *RequestRepository {
	return &RequestRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new request in its initial pending state
func (r *RequestRepository) Create(ctx context.Context, request *models.BonafideRequest) error {
	query := `
		INSERT INTO requests (student_id, request_type, sub_type, reason, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		request.StudentID, request.RequestType, request.SubType,
		request.Reason, request.Status,
	).Scan(&request.ID, &request.CreatedAt, &request.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}

	return nil
}

// GetByID retrieves a request with its student context and template resolved
func (r *RequestRepository) GetByID(ctx context.Context, id int64) (*models.BonafideRequest, error) {
	query := `SELECT ` + requestColumns + `, ` + studentDetailColumns + requestJoins + ` WHERE r.id = $1`

	request, err := scanRequest(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrRequestNotFound
		}
		return nil, fmt.Errorf("error retrieving request: %w", err)
	}

	return request, nil
}

// GetBySerial retrieves an approved request by its certificate serial
func (r *RequestRepository) GetBySerial(ctx context.Context, serial string) (*models.BonafideRequest, error) {
	query := `SELECT ` + requestColumns + `, ` + studentDetailColumns + requestJoins + ` WHERE r.certificate_serial = $1`

	request, err := scanRequest(r.db.QueryRow(ctx, query, serial))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCertificateNotFound
		}
		return nil, fmt.Errorf("error retrieving request: %w", err)
	}

	return request, nil
}

// RequestFilter narrows List to one approver's or student's queue
type RequestFilter struct {
	StudentID    *int64
	TutorID      *int64
	HODID        *int64
	DepartmentID *int64
	Statuses     []models.RequestStatus
}

// List retrieves requests matching the filter with pagination, newest first
func (r *RequestRepository) List(ctx context.Context, filter RequestFilter, offset uint64, limit int) ([]*models.BonafideRequest, int64, error) {
	conds := squirrel.And{}
	if filter.StudentID != nil {
		conds = append(conds, squirrel.Eq{"r.student_id": *filter.StudentID})
	}
	if filter.TutorID != nil {
		conds = append(conds, squirrel.Eq{"s.tutor_id": *filter.TutorID})
	}
	if filter.HODID != nil {
		conds = append(conds, squirrel.Eq{"s.hod_id": *filter.HODID})
	}
	if filter.DepartmentID != nil {
		conds = append(conds, squirrel.Eq{"p.department_id": *filter.DepartmentID})
	}
	if len(filter.Statuses) > 0 {
		conds = append(conds, squirrel.Eq{"r.status": filter.Statuses})
	}

	countQ := r.sb.Select("COUNT(*)").
		From("requests r").
		Join("students s ON s.profile_id = r.student_id").
		Join("profiles p ON p.id = s.profile_id")
	listQ := r.sb.Select(requestColumns + ", " + studentDetailColumns).
		From("requests r").
		Join("students s ON s.profile_id = r.student_id").
		Join("profiles p ON p.id = s.profile_id").
		LeftJoin("batches b ON b.id = s.batch_id").
		LeftJoin("departments d ON d.id = p.department_id").
		LeftJoin("profiles t ON t.id = s.tutor_id").
		LeftJoin("profiles h ON h.id = s.hod_id").
		LeftJoin("templates tm ON tm.id = r.template_id")

	if len(conds) > 0 {
		countQ = countQ.Where(conds)
		listQ = listQ.Where(conds)
	}

	var total int64
	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build request count query: %w", err)
	}
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting requests: %w", err)
	}

	listSQL, listArgs, err := listQ.
		OrderBy("r.created_at DESC").
		Offset(offset).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build request list query: %w", err)
	}

	rows, err := r.db.Query(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var requests []*models.BonafideRequest
	for rows.Next() {
		request, err := scanRequest(rows)
		if err != nil {
			return nil, 0, err
		}
		requests = append(requests, request)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

// TransitionSet carries the column writes accompanying a status transition
type TransitionSet struct {
	ReturnReason      *string
	ClearReturnReason bool
	TemplateID        *int64
	CertificateSerial *string
	Reason            *string
}

// Transition moves a request from one status to another atomically. The
// previous status is part of the WHERE clause; when another actor has
// already moved the request, no row matches and ErrRequestConflict is
// returned so the caller can reload and retry.
func (r *RequestRepository) Transition(ctx context.Context, id int64, from, to models.RequestStatus, set TransitionSet) error {
	update := r.sb.Update("requests").
		Set("status", to).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": from})

	if set.ReturnReason != nil {
		update = update.Set("return_reason", *set.ReturnReason)
	}
	if set.ClearReturnReason {
		update = update.Set("return_reason", "")
	}
	if set.TemplateID != nil {
		update = update.Set("template_id", *set.TemplateID)
	}
	if set.CertificateSerial != nil {
		update = update.Set("certificate_serial", *set.CertificateSerial)
	}
	if set.Reason != nil {
		update = update.Set("reason", *set.Reason)
	}

	sql, args, err := update.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build transition query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error transitioning request: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		// Distinguish a stale status from a missing row.
		var exists bool
		if checkErr := r.db.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM requests WHERE id = $1)`, id).Scan(&exists); checkErr != nil {
			return fmt.Errorf("error checking request existence: %w", checkErr)
		}
		if !exists {
			return apperrors.ErrRequestNotFound
		}
		return apperrors.ErrRequestConflict
	}

	return nil
}

// Delete removes a request. Students may withdraw only requests that have
// not advanced past the tutor stage; the service enforces that rule.
func (r *RequestRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM requests WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting request: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrRequestNotFound
	}

	return nil
}

// CountByStatus counts requests per status within an optional approver scope
func (r *RequestRepository) CountByStatus(ctx context.Context, filter RequestFilter) (map[models.RequestStatus]int64, error) {
	countQ := r.sb.Select("r.status", "COUNT(*)").
		From("requests r").
		Join("students s ON s.profile_id = r.student_id").
		Join("profiles p ON p.id = s.profile_id").
		GroupBy("r.status")

	conds := squirrel.And{}
	if filter.StudentID != nil {
		conds = append(conds, squirrel.Eq{"r.student_id": *filter.StudentID})
	}
	if filter.TutorID != nil {
		conds = append(conds, squirrel.Eq{"s.tutor_id": *filter.TutorID})
	}
	if filter.HODID != nil {
		conds = append(conds, squirrel.Eq{"s.hod_id": *filter.HODID})
	}
	if filter.DepartmentID != nil {
		conds = append(conds, squirrel.Eq{"p.department_id": *filter.DepartmentID})
	}
	if len(conds) > 0 {
		countQ = countQ.Where(conds)
	}

	sql, args, err := countQ.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build status count query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[models.RequestStatus]int64)
	for rows.Next() {
		var status models.RequestStatus
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return counts, nil
}

func scanRequest(row pgx.Row) (*models.BonafideRequest, error) {
	var req models.BonafideRequest
	var templateName string
	var d models.StudentDetail

	err := row.Scan(
		&req.ID, &req.StudentID, &req.RequestType, &req.SubType, &req.Reason, &req.Status,
		&req.ReturnReason, &req.TemplateID, &req.CertificateSerial, &req.CreatedAt, &req.UpdatedAt,
		&templateName,
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

	req.Student = &d
	if req.TemplateID != nil {
		req.Template = &models.CertificateTemplate{ID: *req.TemplateID, Name: templateName}
	}
	return &req, nil
}
