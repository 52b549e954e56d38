package services

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/acoe/bonafide/internal/app/models"
	"github.com/acoe/bonafide/internal/app/models/dto"
	"github.com/acoe/bonafide/internal/app/repositories"
	"github.com/acoe/bonafide/internal/db"
	"github.com/acoe/bonafide/internal/pkg/apperrors"
)

// DepartmentService handles department operations
type DepartmentService struct {
	departmentRepo *repositories.DepartmentRepository
	studentRepo    *repositories.StudentRepository
	profileRepo    *repositories.ProfileRepository
	database       *db.PostgresDB
	logger         zerolog.Logger
}

// NewDepartmentService creates a new DepartmentService
func NewDepartmentService(
	departmentRepo *repositories.DepartmentRepository,
	studentRepo *repositories.StudentRepository,
	profileRepo *repositories.ProfileRepository,
	database *db.PostgresDB,
	logger zerolog.Logger,
) *DepartmentService {
	return &DepartmentService{
		departmentRepo: departmentRepo,
		studentRepo:    studentRepo,
		profileRepo:    profileRepo,
		database:       database,
		logger:         logger,
	}
}

// Create creates a new department
func (s *DepartmentService) Create(ctx context.Context, req *dto.CreateDepartmentRequest) (*models.Department, error) {
	exists, err := s.departmentRepo.ExistsByNameOrCode(ctx, req.Name, req.Code, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.ErrDepartmentAlreadyExists
	}

	if err := s.validateHOD(ctx, req.HODID); err != nil {
		return nil, err
	}

	department := &models.Department{
		Name:  req.Name,
		Code:  req.Code,
		HODID: req.HODID,
	}

	if err := s.departmentRepo.Create(ctx, department); err != nil {
		return nil, err
	}

	return s.departmentRepo.GetByID(ctx, department.ID)
}

// GetByID retrieves a department
func (s *DepartmentService) GetByID(ctx context.Context, id int64) (*models.Department, error) {
	return s.departmentRepo.GetByID(ctx, id)
}

// GetAll retrieves all departments
func (s *DepartmentService) GetAll(ctx context.Context) ([]*models.Department, error) {
	return s.departmentRepo.GetAll(ctx)
}

// Update updates a department. Reassigning the HOD also rewrites the
// denormalized hod reference on every student in the department, in one
// transaction, so open requests land in the new HOD's queue.
func (s *DepartmentService) Update(ctx context.Context, id int64, req *dto.UpdateDepartmentRequest) (*models.Department, error) {
	existing, err := s.departmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	exists, err := s.departmentRepo.ExistsByNameOrCode(ctx, req.Name, req.Code, id)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.ErrDepartmentAlreadyExists
	}

	if err := s.validateHOD(ctx, req.HODID); err != nil {
		return nil, err
	}

	hodChanged := !int64PtrEqual(existing.HODID, req.HODID)

	department := &models.Department{
		ID:    id,
		Name:  req.Name,
		Code:  req.Code,
		HODID: req.HODID,
	}

	err = s.database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := s.departmentRepo.Update(ctx, tx, department); err != nil {
			return err
		}
		if hodChanged {
			if err := s.studentRepo.SyncHODByDepartment(ctx, tx, id, req.HODID); err != nil {
				return err
			}
			s.logger.Info().Int64("departmentID", id).Msg("Department HOD reassigned, student references synced")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.departmentRepo.GetByID(ctx, id)
}

// Delete deletes a department
func (s *DepartmentService) Delete(ctx context.Context, id int64) error {
	return s.departmentRepo.Delete(ctx, id)
}

// validateHOD checks the assigned profile exists and actually is an HOD
func (s *DepartmentService) validateHOD(ctx context.Context, hodID *int64) error {
	if hodID == nil {
		return nil
	}
	profile, err := s.profileRepo.GetByID(ctx, *hodID)
	if err != nil {
		return apperrors.NewBadRequestError(fmt.Sprintf("HOD profile %d not found", *hodID))
	}
	if profile.Role != models.RoleHOD {
		return apperrors.NewBadRequestError(fmt.Sprintf("profile %d is not an HOD", *hodID))
	}
	return nil
}

func int64PtrEqual(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
