package services

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/acoe/bonafide/internal/app/models"
	"github.com/acoe/bonafide/internal/app/models/dto"
	"github.com/acoe/bonafide/internal/app/repositories"
	"github.com/acoe/bonafide/internal/db"
	"github.com/acoe/bonafide/internal/pkg/academic"
	"github.com/acoe/bonafide/internal/pkg/apperrors"
)

// BatchService handles batch operations
type BatchService struct {
	batchRepo   *repositories.BatchRepository
	studentRepo *repositories.StudentRepository
	profileRepo *repositories.ProfileRepository
	database    *db.PostgresDB
	logger      zerolog.Logger
}

// NewBatchService creates a new BatchService
func NewBatchService(
	batchRepo *repositories.BatchRepository,
	studentRepo *repositories.StudentRepository,
	profileRepo *repositories.ProfileRepository,
	database *db.PostgresDB,
	logger zerolog.Logger,
) *BatchService {
	return &BatchService{
		batchRepo:   batchRepo,
		studentRepo: studentRepo,
		profileRepo: profileRepo,
		database:    database,
		logger:      logger,
	}
}

// sectionLetter returns the letter for the i-th section (0 -> "A").
func sectionLetter(i int) string {
	return string(rune('A' + i))
}

// Create creates a batch. When totalSections is greater than one, a row
// is created per section (A, B, ...) and all rows share totalSections.
func (s *BatchService) Create(ctx context.Context, req *dto.CreateBatchRequest) ([]*models.Batch, error) {
	if err := s.validateTutor(ctx, req.TutorID); err != nil {
		return nil, err
	}

	now := time.Now()
	semester := academic.CurrentSemester(req.Name, now)
	from, to := academic.SemesterDateRange(req.Name, semester, now)

	total := req.TotalSections
	if total < 1 {
		total = 1
	}

	var created []*models.Batch
	err := s.database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		for i := 0; i < total; i++ {
			section := ""
			if total > 1 {
				section = sectionLetter(i)
			}
			batch := &models.Batch{
				DepartmentID:     req.DepartmentID,
				Name:             req.Name,
				Section:          section,
				TotalSections:    total,
				TutorID:          req.TutorID,
				CurrentSemester:  semester,
				SemesterFromDate: &from,
				SemesterToDate:   &to,
				Status:           models.BatchActive,
			}
			if err := s.batchRepo.Create(ctx, tx, batch); err != nil {
				return err
			}
			created = append(created, batch)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

// GetByID retrieves a batch
func (s *BatchService) GetByID(ctx context.Context, id int64) (*models.Batch, error) {
	return s.batchRepo.GetByID(ctx, id)
}

// List retrieves batches, optionally scoped to a department
func (s *BatchService) List(ctx context.Context, departmentID *int64) ([]*models.Batch, error) {
	return s.batchRepo.List(ctx, departmentID)
}

// Update updates one batch section. A totalSections change is propagated
// to every sibling section sharing the batch name: missing section rows
// are added and surplus empty ones removed. A tutor change also rewrites
// the denormalized tutor on the section's students.
func (s *BatchService) Update(ctx context.Context, id int64, req *dto.UpdateBatchRequest) (*models.Batch, error) {
	existing, err := s.batchRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.validateTutor(ctx, req.TutorID); err != nil {
		return nil, err
	}

	now := time.Now()
	semester := academic.CurrentSemester(req.Name, now)
	from, to := academic.SemesterDateRange(req.Name, semester, now)

	tutorChanged := !int64PtrEqual(existing.TutorID, req.TutorID)

	total := req.TotalSections
	if total < 1 {
		total = 1
	}

	status := existing.Status
	if req.Status != "" {
		status = models.BatchStatus(req.Status)
	}

	err = s.database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		updated := &models.Batch{
			ID:               id,
			Name:             req.Name,
			Section:          existing.Section,
			TotalSections:    total,
			TutorID:          req.TutorID,
			CurrentSemester:  semester,
			SemesterFromDate: &from,
			SemesterToDate:   &to,
			Status:           status,
		}
		if err := s.batchRepo.Update(ctx, tx, updated); err != nil {
			return err
		}

		if tutorChanged {
			if err := s.studentRepo.SyncTutorByBatch(ctx, tx, id, req.TutorID); err != nil {
				return err
			}
			s.logger.Info().Int64("batchID", id).Msg("Batch tutor reassigned, student references synced")
		}

		if total != existing.TotalSections {
			if err := s.syncSections(ctx, tx, existing.DepartmentID, req.Name, total, semester, from, to); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.batchRepo.GetByID(ctx, id)
}

// syncSections reconciles the sibling rows of a batch name against the new
// section count. Runs inside the update transaction.
func (s *BatchService) syncSections(ctx context.Context, tx pgx.Tx, departmentID int64, name string, total, semester int, from, to time.Time) error {
	if err := s.batchRepo.SyncTotalSections(ctx, tx, departmentID, name, total); err != nil {
		return err
	}

	siblings, err := s.batchRepo.GetSiblings(ctx, tx, departmentID, name)
	if err != nil {
		return err
	}

	have := make(map[string]*models.Batch, len(siblings))
	for _, b := range siblings {
		have[b.Section] = b
	}

	if total == 1 {
		// Collapse to a single unlettered section; surplus lettered rows
		// must be empty of students.
		for _, b := range siblings {
			if b.Section != "" && b.Section != "A" {
				if err := s.batchRepo.Delete(ctx, tx, b.ID); err != nil {
					return err
				}
			}
		}
		if b, ok := have["A"]; ok {
			b.Section = ""
			if err := s.batchRepo.Update(ctx, tx, b); err != nil {
				return err
			}
		}
		return nil
	}

	// A previously unlettered row becomes section A.
	if b, ok := have[""]; ok {
		b.Section = "A"
		if err := s.batchRepo.Update(ctx, tx, b); err != nil {
			return err
		}
		have["A"] = b
		delete(have, "")
	}

	for i := 0; i < total; i++ {
		letter := sectionLetter(i)
		if _, ok := have[letter]; ok {
			continue
		}
		batch := &models.Batch{
			DepartmentID:     departmentID,
			Name:             name,
			Section:          letter,
			TotalSections:    total,
			CurrentSemester:  semester,
			SemesterFromDate: &from,
			SemesterToDate:   &to,
			Status:           models.BatchActive,
		}
		if err := s.batchRepo.Create(ctx, tx, batch); err != nil {
			return err
		}
	}

	for section, b := range have {
		if section == "" {
			continue
		}
		if int(section[0]-'A') >= total {
			if err := s.batchRepo.Delete(ctx, tx, b.ID); err != nil {
				return err
			}
		}
	}

	return nil
}

// Delete removes a batch section. Sections still holding students are refused.
func (s *BatchService) Delete(ctx context.Context, id int64) error {
	return s.batchRepo.Delete(ctx, s.database.Pool, id)
}

// RefreshSemesters recomputes the derived semester and its date range for
// every batch. Intended to run at startup and at semester boundaries.
func (s *BatchService) RefreshSemesters(ctx context.Context) error {
	batches, err := s.batchRepo.List(ctx, nil)
	if err != nil {
		return fmt.Errorf("error listing batches for semester refresh: %w", err)
	}

	now := time.Now()
	for _, b := range batches {
		semester := academic.CurrentSemester(b.Name, now)
		from, to := academic.SemesterDateRange(b.Name, semester, now)
		if b.CurrentSemester == semester &&
			b.SemesterFromDate != nil && b.SemesterFromDate.Equal(from) {
			continue
		}
		if err := s.batchRepo.UpdateSemester(ctx, b.ID, semester, from, to); err != nil {
			return err
		}
		s.logger.Info().Int64("batchID", b.ID).Str("batch", b.FullName()).Int("semester", semester).Msg("Batch semester updated")
	}

	return nil
}

// OverrideSemester sets the semester of a batch manually and recomputes the
// matching date range. Every sibling section follows, so a batch never shows
// different semesters per section.
func (s *BatchService) OverrideSemester(ctx context.Context, id int64, semester int) (*models.Batch, error) {
	if semester < academic.MinSemester || semester > academic.MaxSemester {
		return nil, apperrors.NewBadRequestError(fmt.Sprintf("semester must be between %d and %d", academic.MinSemester, academic.MaxSemester))
	}

	batch, err := s.batchRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	from, to := academic.SemesterDateRange(batch.Name, semester, time.Now())

	siblings, err := s.batchRepo.GetSiblings(ctx, s.database.Pool, batch.DepartmentID, batch.Name)
	if err != nil {
		return nil, err
	}
	for _, sibling := range siblings {
		if err := s.batchRepo.UpdateSemester(ctx, sibling.ID, semester, from, to); err != nil {
			return nil, err
		}
	}

	s.logger.Info().Int64("batchID", id).Str("batch", batch.FullName()).Int("semester", semester).Msg("Batch semester overridden")

	return s.batchRepo.GetByID(ctx, id)
}

// validateTutor checks the assigned profile exists and actually is a tutor
func (s *BatchService) validateTutor(ctx context.Context, tutorID *int64) error {
	if tutorID == nil {
		return nil
	}
	profile, err := s.profileRepo.GetByID(ctx, *tutorID)
	if err != nil {
		return apperrors.NewBadRequestError(fmt.Sprintf("tutor profile %d not found", *tutorID))
	}
	if profile.Role != models.RoleTutor {
		return apperrors.NewBadRequestError(fmt.Sprintf("profile %d is not a tutor", *tutorID))
	}
	return nil
}
