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

const profileColumns = `id, first_name, last_name, username, email, phone_number, password, role, department_id, batch_id, is_active, created_at, updated_at`

// ProfileRepository handles database operations for accounts
type ProfileRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new profile using the given querier, so callers can run
// it inside a transaction together with role-specific rows.
func (r *ProfileRepository) Create(ctx context.Context, q Querier, profile *models.Profile) error {
	query := `
		INSERT INTO profiles (first_name, last_name, username, email, phone_number, password, role, department_id, batch_id, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		profile.FirstName, profile.LastName, profile.Username, profile.Email,
		profile.PhoneNumber, profile.Password, profile.Role,
		profile.DepartmentID, profile.BatchID, profile.IsActive,
	).Scan(&profile.ID, &profile.CreatedAt, &profile.UpdatedAt)

	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "profiles_username_key") {
			return apperrors.ErrUsernameExists
		}
		if dberrors.IsDuplicateConstraintError(err, "profiles_email_key") {
			return apperrors.ErrEmailAlreadyExists
		}
		return fmt.Errorf("error creating profile: %w", err)
	}

	return nil
}

// GetByID retrieves a profile by ID
func (r *ProfileRepository) GetByID(ctx context.Context, id int64) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`
	return r.scanOne(r.db.QueryRow(ctx, query, id))
}

// GetByLogin retrieves a profile matching the identifier against username or email.
func (r *ProfileRepository) GetByLogin(ctx context.Context, login string) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE username = $1 OR email = $1`
	return r.scanOne(r.db.QueryRow(ctx, query, login))
}

// List retrieves profiles filtered by role and department with pagination
func (r *ProfileRepository) List(ctx context.Context, role models.RoleType, departmentID *int64, offset uint64, limit int) ([]*models.Profile, int64, error) {
	base := r.sb.Select(profileColumns).From("profiles")
	countQ := r.sb.Select("COUNT(*)").From("profiles")

	if role != "" {
		base = base.Where(squirrel.Eq{"role": role})
		countQ = countQ.Where(squirrel.Eq{"role": role})
	}
	if departmentID != nil {
		base = base.Where(squirrel.Eq{"department_id": *departmentID})
		countQ = countQ.Where(squirrel.Eq{"department_id": *departmentID})
	}

	var total int64
	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build profile count query: %w", err)
	}
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting profiles: %w", err)
	}

	listSQL, listArgs, err := base.
		OrderBy("first_name", "last_name").
		Offset(offset).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build profile list query: %w", err)
	}

	rows, err := r.db.Query(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var profiles []*models.Profile
	for rows.Next() {
		p, err := r.scanRow(rows)
		if err != nil {
			return nil, 0, err
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return profiles, total, nil
}

// Update updates the mutable profile fields. Role is never updated here.
func (r *ProfileRepository) Update(ctx context.Context, q Querier, profile *models.Profile) error {
	query := `
		UPDATE profiles
		SET first_name = $1, last_name = $2, email = $3, phone_number = $4,
		    department_id = $5, batch_id = $6, is_active = $7, updated_at = NOW()
		WHERE id = $8
	`

	cmdTag, err := q.Exec(ctx, query,
		profile.FirstName, profile.LastName, profile.Email, profile.PhoneNumber,
		profile.DepartmentID, profile.BatchID, profile.IsActive, profile.ID)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "profiles_email_key") {
			return apperrors.ErrEmailAlreadyExists
		}
		return fmt.Errorf("error updating profile: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrProfileNotFound
	}

	return nil
}

// UpdatePassword replaces the stored password hash
func (r *ProfileRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE profiles SET password = $1, updated_at = NOW() WHERE id = $2`,
		passwordHash, id)
	if err != nil {
		return fmt.Errorf("error updating password: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrProfileNotFound
	}
	return nil
}

// Delete removes a profile. Role-specific rows cascade at the schema level.
func (r *ProfileRepository) Delete(ctx context.Context, q Querier, id int64) error {
	cmdTag, err := q.Exec(ctx, `DELETE FROM profiles WHERE id = $1`, id)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.NewConflictError("profile has associated data and cannot be deleted")
		}
		return fmt.Errorf("error deleting profile: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrProfileNotFound
	}
	return nil
}

// UsernameExists checks if a username is already taken
func (r *ProfileRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM profiles WHERE username = $1)`, username).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking username existence: %w", err)
	}
	return exists, nil
}

func (r *ProfileRepository) scanOne(row pgx.Row) (*models.Profile, error) {
	p, err := r.scanRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, fmt.Errorf("error retrieving profile: %w", err)
	}
	return p, nil
}

func (r *ProfileRepository) scanRow(row pgx.Row) (*models.Profile, error) {
	var p models.Profile
	err := row.Scan(
		&p.ID, &p.FirstName, &p.LastName, &p.Username, &p.Email,
		&p.PhoneNumber, &p.Password, &p.Role, &p.DepartmentID, &p.BatchID,
		&p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
