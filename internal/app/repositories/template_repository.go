package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/acoe/bonafide/internal/app/models"
	"github.com/acoe/bonafide/internal/pkg/apperrors"
)

// TemplateRepository handles database operations for certificate templates
type TemplateRepository struct {
	db *pgxpool.Pool
}

// NewTemplateRepository creates a new template repository
func NewTemplateRepository(db *pgxpool.Pool) *TemplateRepository {
	return &TemplateRepository{
		db: db,
	}
}

// Create creates a new certificate template
func (r *TemplateRepository) Create(ctx context.Context, template *models.CertificateTemplate) error {
	query := `
		INSERT INTO templates (name, type, body, file_path)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		template.Name, template.Type, template.Body, template.FilePath,
	).Scan(&template.ID, &template.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating template: %w", err)
	}

	return nil
}

// GetByID retrieves a certificate template by ID
func (r *TemplateRepository) GetByID(ctx context.Context, id int64) (*models.CertificateTemplate, error) {
	query := `SELECT id, name, type, body, file_path, created_at FROM templates WHERE id = $1`

	var t models.CertificateTemplate
	err := r.db.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.Name, &t.Type, &t.Body, &t.FilePath, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTemplateNotFound
		}
		return nil, fmt.Errorf("error retrieving template: %w", err)
	}

	return &t, nil
}

// GetAll retrieves all certificate templates
func (r *TemplateRepository) GetAll(ctx context.Context) ([]*models.CertificateTemplate, error) {
	query := `SELECT id, name, type, body, file_path, created_at FROM templates ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []*models.CertificateTemplate
	for rows.Next() {
		var t models.CertificateTemplate
		if err := rows.Scan(&t.ID, &t.Name, &t.Type, &t.Body, &t.FilePath, &t.CreatedAt); err != nil {
			return nil, err
		}
		templates = append(templates, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return templates, nil
}

// Update updates an existing certificate template
func (r *TemplateRepository) Update(ctx context.Context, template *models.CertificateTemplate) error {
	query := `
		UPDATE templates
		SET name = $1, type = $2, body = $3, file_path = $4
		WHERE id = $5
	`

	cmdTag, err := r.db.Exec(ctx, query,
		template.Name, template.Type, template.Body, template.FilePath, template.ID)
	if err != nil {
		return fmt.Errorf("error updating template: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrTemplateNotFound
	}

	return nil
}

// Delete deletes a certificate template by ID. Templates referenced by
// requests keep the reference nulled at the schema level.
func (r *TemplateRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM templates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting template: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrTemplateNotFound
	}

	return nil
}
