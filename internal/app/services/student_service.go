package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/acoe/bonafide/internal/app/models"
	"github.com/acoe/bonafide/internal/app/models/dto"
	"github.com/acoe/bonafide/internal/app/repositories"
	"github.com/acoe/bonafide/internal/db"
	"github.com/acoe/bonafide/internal/pkg/apperrors"
	"github.com/acoe/bonafide/internal/pkg/auth"
	"github.com/acoe/bonafide/internal/pkg/helpers"
	"github.com/acoe/bonafide/internal/pkg/importer"
)

// generatedPasswordLength is the length of provisioning passwords for
// bulk-imported accounts.
const generatedPasswordLength = 12

// StudentService handles student and staff account operations
type StudentService struct {
	profileRepo    *repositories.ProfileRepository
	studentRepo    *repositories.StudentRepository
	batchRepo      *repositories.BatchRepository
	departmentRepo *repositories.DepartmentRepository
	database       *db.PostgresDB
	logger         zerolog.Logger
}

// NewStudentService creates a new StudentService
func NewStudentService(
	profileRepo *repositories.ProfileRepository,
	studentRepo *repositories.StudentRepository,
	batchRepo *repositories.BatchRepository,
	departmentRepo *repositories.DepartmentRepository,
	database *db.PostgresDB,
	logger zerolog.Logger,
) *StudentService {
	return &StudentService{
		profileRepo:    profileRepo,
		studentRepo:    studentRepo,
		batchRepo:      batchRepo,
		departmentRepo: departmentRepo,
		database:       database,
		logger:         logger,
	}
}

// Create provisions a student account. The profile and the student row
// are inserted in one transaction so a failure on either leaves nothing
// behind. The tutor and HOD references are denormalized from the batch
// and department at creation time.
func (s *StudentService) Create(ctx context.Context, req *dto.CreateStudentRequest) (*models.StudentDetail, error) {
	batch, err := s.batchRepo.GetByID(ctx, req.BatchID)
	if err != nil {
		return nil, apperrors.NewBadRequestError(fmt.Sprintf("batch %d not found", req.BatchID))
	}
	department, err := s.departmentRepo.GetByID(ctx, req.DepartmentID)
	if err != nil {
		return nil, apperrors.NewBadRequestError(fmt.Sprintf("department %d not found", req.DepartmentID))
	}
	if batch.DepartmentID != department.ID {
		return nil, apperrors.NewBadRequestError("batch does not belong to the given department")
	}

	dob, err := helpers.ParseDate(req.DateOfBirth)
	if err != nil {
		return nil, apperrors.NewBadRequestError("dateOfBirth must be YYYY-MM-DD")
	}
	admission, err := helpers.ParseDate(req.AdmissionDate)
	if err != nil {
		return nil, apperrors.NewBadRequestError("admissionDate must be YYYY-MM-DD")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	profile := &models.Profile{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Username:     req.Username,
		Email:        req.Email,
		PhoneNumber:  req.PhoneNumber,
		Password:     hash,
		Role:         models.RoleStudent,
		DepartmentID: &department.ID,
		BatchID:      &batch.ID,
		IsActive:     true,
	}

	err = s.database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := s.profileRepo.Create(ctx, tx, profile); err != nil {
			return err
		}
		student := &models.Student{
			ProfileID:      profile.ID,
			RegisterNumber: req.RegisterNumber,
			ParentName:     req.ParentName,
			BatchID:        &batch.ID,
			TutorID:        batch.TutorID,
			HODID:          department.HODID,
			DateOfBirth:    dob,
			Nationality:    req.Nationality,
			AdmissionDate:  admission,
		}
		return s.studentRepo.Create(ctx, tx, student)
	})
	if err != nil {
		return nil, err
	}

	return s.studentRepo.GetDetailByProfileID(ctx, profile.ID)
}

// CreateStaff provisions a tutor, HOD, admin or principal account
func (s *StudentService) CreateStaff(ctx context.Context, req *dto.CreateStaffRequest) (*models.Profile, error) {
	role := models.RoleType(req.Role)
	if !role.Valid() || role == models.RoleStudent {
		return nil, apperrors.NewBadRequestError(fmt.Sprintf("invalid staff role %q", req.Role))
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	profile := &models.Profile{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Username:     req.Username,
		Email:        req.Email,
		PhoneNumber:  req.PhoneNumber,
		Password:     hash,
		Role:         role,
		DepartmentID: req.DepartmentID,
		BatchID:      req.BatchID,
		IsActive:     true,
	}

	if err := s.profileRepo.Create(ctx, s.database.Pool, profile); err != nil {
		return nil, err
	}

	return profile, nil
}

// GetByProfileID retrieves the flattened student view
func (s *StudentService) GetByProfileID(ctx context.Context, profileID int64) (*models.StudentDetail, error) {
	return s.studentRepo.GetDetailByProfileID(ctx, profileID)
}

// List retrieves students matching the filter with pagination
func (s *StudentService) List(ctx context.Context, filter repositories.StudentFilter, page, size int) ([]*models.StudentDetail, int64, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, size)
	return s.studentRepo.List(ctx, filter, offset, limit)
}

// ListStaff retrieves staff profiles of one role
func (s *StudentService) ListStaff(ctx context.Context, role models.RoleType, departmentID *int64, page, size int) ([]*models.Profile, int64, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, size)
	return s.profileRepo.List(ctx, role, departmentID, offset, limit)
}

// Update updates a student's profile and student rows in one transaction.
// Moving the student to another batch re-denormalizes the tutor reference.
func (s *StudentService) Update(ctx context.Context, profileID int64, req *dto.UpdateStudentRequest) (*models.StudentDetail, error) {
	detail, err := s.studentRepo.GetDetailByProfileID(ctx, profileID)
	if err != nil {
		return nil, err
	}

	batch, err := s.batchRepo.GetByID(ctx, req.BatchID)
	if err != nil {
		return nil, apperrors.NewBadRequestError(fmt.Sprintf("batch %d not found", req.BatchID))
	}

	dob, err := helpers.ParseDate(req.DateOfBirth)
	if err != nil {
		return nil, apperrors.NewBadRequestError("dateOfBirth must be YYYY-MM-DD")
	}
	admission, err := helpers.ParseDate(req.AdmissionDate)
	if err != nil {
		return nil, apperrors.NewBadRequestError("admissionDate must be YYYY-MM-DD")
	}

	profile, err := s.profileRepo.GetByID(ctx, profileID)
	if err != nil {
		return nil, err
	}

	profile.FirstName = req.FirstName
	profile.LastName = req.LastName
	profile.Email = req.Email
	profile.PhoneNumber = req.PhoneNumber
	profile.DepartmentID = &batch.DepartmentID
	profile.BatchID = &batch.ID

	hodID := detail.HODID
	if detail.BatchID == nil || *detail.BatchID != batch.ID {
		department, err := s.departmentRepo.GetByID(ctx, batch.DepartmentID)
		if err != nil {
			return nil, err
		}
		hodID = department.HODID
	}

	student := &models.Student{
		ProfileID:      profileID,
		RegisterNumber: detail.RegisterNumber,
		ParentName:     req.ParentName,
		BatchID:        &batch.ID,
		TutorID:        batch.TutorID,
		HODID:          hodID,
		DateOfBirth:    dob,
		Nationality:    req.Nationality,
		AdmissionDate:  admission,
	}

	err = s.database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := s.profileRepo.Update(ctx, tx, profile); err != nil {
			return err
		}
		return s.studentRepo.Update(ctx, tx, student)
	})
	if err != nil {
		return nil, err
	}

	return s.studentRepo.GetDetailByProfileID(ctx, profileID)
}

// Delete removes a student account and its profile
func (s *StudentService) Delete(ctx context.Context, profileID int64) error {
	if _, err := s.studentRepo.GetDetailByProfileID(ctx, profileID); err != nil {
		return err
	}
	// The students row cascades from the profile delete.
	return s.profileRepo.Delete(ctx, s.database.Pool, profileID)
}

// BulkImport provisions students from a CSV upload. Every row is validated
// before any insert; rows that fail validation or collide with existing
// accounts are reported individually and do not stop the rest.
func (s *StudentService) BulkImport(ctx context.Context, r io.Reader) (*dto.ImportResultResponse, error) {
	rows, rowErrs, err := importer.ParseStudents(r)
	if err != nil {
		return nil, apperrors.NewBadRequestError(err.Error())
	}

	result := &dto.ImportResultResponse{Errors: rowErrs}

	for _, row := range rows {
		password, err := s.importRow(ctx, row)
		if err != nil {
			result.Errors = append(result.Errors, importer.RowError{
				Line:    row.Line,
				Message: importMessage(err),
			})
			continue
		}
		result.Imported++
		result.Credentials = append(result.Credentials, dto.ImportedCredential{
			Line:           row.Line,
			Username:       row.Username,
			RegisterNumber: row.RegisterNumber,
			Password:       password,
		})
	}

	result.Failed = len(result.Errors)

	s.logger.Info().
		Int("imported", result.Imported).
		Int("failed", result.Failed).
		Msg("Bulk student import finished")

	return result, nil
}

// importRow provisions one student from an upload row. The generated initial
// password is returned so the report can hand it to the administrator.
func (s *StudentService) importRow(ctx context.Context, row importer.StudentRow) (string, error) {
	password, err := auth.GeneratePassword(generatedPasswordLength)
	if err != nil {
		return "", fmt.Errorf("error generating password: %w", err)
	}

	_, err = s.Create(ctx, &dto.CreateStudentRequest{
		FirstName:      row.FirstName,
		LastName:       row.LastName,
		Username:       row.Username,
		Email:          row.Email,
		PhoneNumber:    row.PhoneNumber,
		Password:       password,
		RegisterNumber: row.RegisterNumber,
		ParentName:     row.ParentName,
		DepartmentID:   row.DepartmentID,
		BatchID:        row.BatchID,
	})
	if err != nil {
		return "", err
	}
	return password, nil
}

// importMessage maps provisioning errors to upload row messages
func importMessage(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrUsernameExists):
		return "username already exists"
	case errors.Is(err, apperrors.ErrEmailAlreadyExists):
		return "email already exists"
	case errors.Is(err, apperrors.ErrRegisterNumberTaken):
		return "register number already exists"
	default:
		return err.Error()
	}
}
