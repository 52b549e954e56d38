package services

import (
	"context"
	"mime/multipart"
	"strings"

	"github.com/rs/zerolog"

	"github.com/acoe/bonafide/internal/app/models"
	"github.com/acoe/bonafide/internal/app/models/dto"
	"github.com/acoe/bonafide/internal/app/repositories"
	"github.com/acoe/bonafide/internal/pkg/apperrors"
	"github.com/acoe/bonafide/internal/pkg/filestorage"
)

// TemplateService handles certificate template operations
type TemplateService struct {
	templateRepo *repositories.TemplateRepository
	storage      filestorage.Storage
	logger       zerolog.Logger
}

// NewTemplateService creates a new TemplateService
func NewTemplateService(
	templateRepo *repositories.TemplateRepository,
	storage filestorage.Storage,
	logger zerolog.Logger,
) *TemplateService {
	return &TemplateService{
		templateRepo: templateRepo,
		storage:      storage,
		logger:       logger,
	}
}

// Create creates a certificate template. HTML templates carry an inline
// body; pdf and word templates carry an uploaded file instead.
func (s *TemplateService) Create(ctx context.Context, req *dto.CreateTemplateRequest, file *multipart.FileHeader) (*models.CertificateTemplate, error) {
	template := &models.CertificateTemplate{
		Name: req.Name,
		Type: models.TemplateType(req.Type),
	}

	if err := s.applyContent(template, req.Body, file); err != nil {
		return nil, err
	}

	if err := s.templateRepo.Create(ctx, template); err != nil {
		// The stored file would be orphaned otherwise.
		if template.FilePath != "" {
			if delErr := s.storage.Delete(template.FilePath); delErr != nil {
				s.logger.Warn().Err(delErr).Str("filePath", template.FilePath).Msg("Failed to clean up template file after create failure")
			}
		}
		return nil, err
	}

	return template, nil
}

// GetByID retrieves a certificate template
func (s *TemplateService) GetByID(ctx context.Context, id int64) (*models.CertificateTemplate, error) {
	return s.templateRepo.GetByID(ctx, id)
}

// GetAll retrieves all certificate templates
func (s *TemplateService) GetAll(ctx context.Context) ([]*models.CertificateTemplate, error) {
	return s.templateRepo.GetAll(ctx)
}

// Update updates a certificate template. Replacing an uploaded file
// removes the previous one from storage after the row is written.
func (s *TemplateService) Update(ctx context.Context, id int64, req *dto.UpdateTemplateRequest, file *multipart.FileHeader) (*models.CertificateTemplate, error) {
	existing, err := s.templateRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	template := &models.CertificateTemplate{
		ID:       id,
		Name:     req.Name,
		Type:     models.TemplateType(req.Type),
		Body:     existing.Body,
		FilePath: existing.FilePath,
	}

	if err := s.applyContent(template, req.Body, file); err != nil {
		return nil, err
	}

	if err := s.templateRepo.Update(ctx, template); err != nil {
		if file != nil && template.FilePath != existing.FilePath {
			if delErr := s.storage.Delete(template.FilePath); delErr != nil {
				s.logger.Warn().Err(delErr).Str("filePath", template.FilePath).Msg("Failed to clean up template file after update failure")
			}
		}
		return nil, err
	}

	if existing.FilePath != "" && existing.FilePath != template.FilePath {
		if err := s.storage.Delete(existing.FilePath); err != nil {
			s.logger.Warn().Err(err).Str("filePath", existing.FilePath).Msg("Failed to delete replaced template file")
		}
	}

	return template, nil
}

// Delete removes a certificate template and its stored file
func (s *TemplateService) Delete(ctx context.Context, id int64) error {
	template, err := s.templateRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.templateRepo.Delete(ctx, id); err != nil {
		return err
	}

	if template.FilePath != "" {
		if err := s.storage.Delete(template.FilePath); err != nil {
			s.logger.Warn().Err(err).Str("filePath", template.FilePath).Msg("Failed to delete template file")
		}
	}

	return nil
}

// applyContent fills the body or stored file according to the template type
func (s *TemplateService) applyContent(template *models.CertificateTemplate, body string, file *multipart.FileHeader) error {
	switch template.Type {
	case models.TemplateHTML:
		if strings.TrimSpace(body) == "" {
			return apperrors.NewBadRequestError("an html template requires a non-empty body")
		}
		template.Body = body
		template.FilePath = ""
	case models.TemplatePDF, models.TemplateWord:
		if file != nil {
			path, err := s.storage.Save(file)
			if err != nil {
				return err
			}
			template.FilePath = path
		}
		if template.FilePath == "" {
			return apperrors.NewBadRequestError("a file upload is required for pdf and word templates")
		}
		template.Body = ""
	default:
		return apperrors.NewBadRequestError("template type must be html, pdf or word")
	}
	return nil
}
