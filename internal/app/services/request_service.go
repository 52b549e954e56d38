package services

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/acoe/bonafide/internal/app/models"
	"github.com/acoe/bonafide/internal/app/models/dto"
	"github.com/acoe/bonafide/internal/app/repositories"
	"github.com/acoe/bonafide/internal/app/workflow"
	"github.com/acoe/bonafide/internal/pkg/apperrors"
	"github.com/acoe/bonafide/internal/pkg/certificate"
	"github.com/acoe/bonafide/internal/pkg/filestorage"
	"github.com/acoe/bonafide/internal/pkg/helpers"
)

// Actor identifies who is acting on a request.
type Actor struct {
	ProfileID int64
	Role      models.RoleType
}

// Certificate is a rendered certificate ready to stream to the client.
type Certificate struct {
	Content     []byte
	Filename    string
	ContentType string
}

// RequestService handles the bonafide request workflow
type RequestService struct {
	requestRepo   *repositories.RequestRepository
	studentRepo   *repositories.StudentRepository
	templateRepo  *repositories.TemplateRepository
	storage       filestorage.Storage
	pdfConverter  certificate.PDFConverter
	verifyBaseURL string
	logger        zerolog.Logger
}

// NewRequestService creates a new RequestService
func NewRequestService(
	requestRepo *repositories.RequestRepository,
	studentRepo *repositories.StudentRepository,
	templateRepo *repositories.TemplateRepository,
	storage filestorage.Storage,
	pdfConverter certificate.PDFConverter,
	verifyBaseURL string,
	logger zerolog.Logger,
) *RequestService {
	return &RequestService{
		requestRepo:   requestRepo,
		studentRepo:   studentRepo,
		templateRepo:  templateRepo,
		storage:       storage,
		pdfConverter:  pdfConverter,
		verifyBaseURL: verifyBaseURL,
		logger:        logger,
	}
}

// Create files a new bonafide request for a student. It enters the
// pipeline at the tutor stage.
func (s *RequestService) Create(ctx context.Context, studentProfileID int64, req *dto.CreateRequestRequest) (*models.BonafideRequest, error) {
	if _, err := s.studentRepo.GetDetailByProfileID(ctx, studentProfileID); err != nil {
		return nil, err
	}

	request := &models.BonafideRequest{
		StudentID:   studentProfileID,
		RequestType: "Bonafide Certificate",
		SubType:     req.SubType,
		Reason:      req.Reason,
		Status:      models.StatusPendingTutor,
	}

	if err := s.requestRepo.Create(ctx, request); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("requestID", request.ID).Int64("studentID", studentProfileID).Msg("Bonafide request created")

	return s.requestRepo.GetByID(ctx, request.ID)
}

// Get retrieves a request the actor is allowed to see
func (s *RequestService) Get(ctx context.Context, id int64, actor Actor) (*models.BonafideRequest, error) {
	request, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeView(request, actor); err != nil {
		return nil, err
	}
	return request, nil
}

// List retrieves the requests in the actor's scope, optionally filtered
// by status, newest first.
func (s *RequestService) List(ctx context.Context, actor Actor, statuses []models.RequestStatus, page, size int) ([]*models.BonafideRequest, int64, error) {
	filter, err := s.scopeFilter(actor)
	if err != nil {
		return nil, 0, err
	}
	filter.Statuses = statuses

	offset, limit := helpers.CalculateOffsetLimit(page, size)
	return s.requestRepo.List(ctx, filter, offset, limit)
}

// PendingQueue retrieves the requests waiting on the actor's stage
func (s *RequestService) PendingQueue(ctx context.Context, actor Actor, page, size int) ([]*models.BonafideRequest, int64, error) {
	status, ok := workflow.PendingStatusFor(actor.Role)
	if !ok {
		return nil, 0, apperrors.NewForbiddenError("this role has no approval queue")
	}
	return s.List(ctx, actor, []models.RequestStatus{status}, page, size)
}

// CountByStatus summarizes the actor's scope per status for dashboards
func (s *RequestService) CountByStatus(ctx context.Context, actor Actor) (map[models.RequestStatus]int64, error) {
	filter, err := s.scopeFilter(actor)
	if err != nil {
		return nil, err
	}
	return s.requestRepo.CountByStatus(ctx, filter)
}

// Forward advances a request to the next stage. The HOD must select a
// certificate template when forwarding to the principal.
func (s *RequestService) Forward(ctx context.Context, id int64, actor Actor, templateID *int64) (*models.BonafideRequest, error) {
	request, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeAct(request, actor); err != nil {
		return nil, err
	}

	transition, err := workflow.Authorize(actor.Role, request.Status, workflow.ActionForward, workflow.Input{TemplateID: templateID})
	if err != nil {
		return nil, err
	}

	set := repositories.TransitionSet{}
	if templateID != nil {
		if _, err := s.templateRepo.GetByID(ctx, *templateID); err != nil {
			return nil, err
		}
		set.TemplateID = templateID
	}

	if err := s.requestRepo.Transition(ctx, id, transition.From, transition.To, set); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("requestID", id).Str("from", string(transition.From)).Str("to", string(transition.To)).Msg("Request forwarded")

	return s.requestRepo.GetByID(ctx, id)
}

// Return sends a request back to the student with a reason
func (s *RequestService) Return(ctx context.Context, id int64, actor Actor, reason string) (*models.BonafideRequest, error) {
	request, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeAct(request, actor); err != nil {
		return nil, err
	}

	transition, err := workflow.Authorize(actor.Role, request.Status, workflow.ActionReturn, workflow.Input{Reason: reason})
	if err != nil {
		return nil, err
	}

	set := repositories.TransitionSet{ReturnReason: &reason}
	if err := s.requestRepo.Transition(ctx, id, transition.From, transition.To, set); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("requestID", id).Str("to", string(transition.To)).Msg("Request returned to student")

	return s.requestRepo.GetByID(ctx, id)
}

// Approve is the principal's final step. The certificate is rendered
// before the status moves; a rendering failure leaves the request at the
// principal stage so nothing is approved without an issuable certificate.
func (s *RequestService) Approve(ctx context.Context, id int64, actor Actor) (*models.BonafideRequest, error) {
	request, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeAct(request, actor); err != nil {
		return nil, err
	}

	transition, err := workflow.Authorize(actor.Role, request.Status, workflow.ActionApprove, workflow.Input{})
	if err != nil {
		return nil, err
	}

	if request.TemplateID == nil {
		return nil, workflow.ErrTemplateRequired
	}
	tmpl, err := s.templateRepo.GetByID(ctx, *request.TemplateID)
	if err != nil {
		return nil, err
	}

	serial := uuid.New().String()

	// Prove the certificate renders end to end, PDF conversion included,
	// before committing the approval. Approved is terminal, so a request
	// must never reach it with an unissuable certificate.
	if tmpl.Type == models.TemplateHTML {
		if _, err := s.renderPDF(request, tmpl, serial, time.Now()); err != nil {
			return nil, err
		}
	} else if tmpl.FilePath == "" {
		return nil, apperrors.NewCustomError(apperrors.ErrRenderFailed, "template has no stored file")
	}

	set := repositories.TransitionSet{CertificateSerial: &serial}
	if err := s.requestRepo.Transition(ctx, id, transition.From, transition.To, set); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("requestID", id).Str("serial", serial).Msg("Request approved, certificate issued")

	return s.requestRepo.GetByID(ctx, id)
}

// Resubmit lets a student amend a returned request and send it back to
// the tutor stage. The stale return reason is cleared.
func (s *RequestService) Resubmit(ctx context.Context, id int64, actor Actor, reason string) (*models.BonafideRequest, error) {
	request, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role != models.RoleStudent || request.StudentID != actor.ProfileID {
		return nil, apperrors.ErrPermissionDenied
	}

	transition, err := workflow.Authorize(actor.Role, request.Status, workflow.ActionResubmit, workflow.Input{})
	if err != nil {
		return nil, err
	}

	set := repositories.TransitionSet{ClearReturnReason: transition.ClearReturnReason}
	if reason != "" {
		set.Reason = &reason
	}

	if err := s.requestRepo.Transition(ctx, id, transition.From, transition.To, set); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("requestID", id).Msg("Request resubmitted")

	return s.requestRepo.GetByID(ctx, id)
}

// Withdraw lets a student delete a request that has not advanced past the
// tutor stage.
func (s *RequestService) Withdraw(ctx context.Context, id int64, actor Actor) error {
	request, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if actor.Role != models.RoleStudent || request.StudentID != actor.ProfileID {
		return apperrors.ErrPermissionDenied
	}
	if request.Status != models.StatusPendingTutor && !request.Status.Returned() {
		return apperrors.NewConflictError("only requests at the tutor stage or returned ones can be withdrawn")
	}
	return s.requestRepo.Delete(ctx, id)
}

// Download renders the approved certificate for the student (or an
// approver in scope). HTML templates are filled and converted to PDF;
// uploaded templates are streamed as stored.
func (s *RequestService) Download(ctx context.Context, id int64, actor Actor) (*Certificate, error) {
	request, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeView(request, actor); err != nil {
		return nil, err
	}
	if request.Status != models.StatusApproved {
		return nil, apperrors.NewConflictError("certificate is available only after approval")
	}
	if request.TemplateID == nil {
		return nil, apperrors.ErrCertificateNotFound
	}

	tmpl, err := s.templateRepo.GetByID(ctx, *request.TemplateID)
	if err != nil {
		return nil, err
	}

	filename := certificate.DownloadName(tmpl, request.Student.RegisterNumber)

	if tmpl.Type == models.TemplateHTML {
		content, err := s.renderPDF(request, tmpl, request.CertificateSerial, request.UpdatedAt)
		if err != nil {
			return nil, err
		}

		return &Certificate{Content: content, Filename: filename, ContentType: "application/pdf"}, nil
	}

	content, err := os.ReadFile(s.storage.FullPath(tmpl.FilePath))
	if err != nil {
		return nil, apperrors.NewCustomError(apperrors.ErrRenderFailed, fmt.Sprintf("failed to read template file: %v", err))
	}

	contentType := "application/pdf"
	if tmpl.Type == models.TemplateWord {
		contentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	}

	return &Certificate{Content: content, Filename: filename, ContentType: contentType}, nil
}

// Verify resolves a certificate serial for public verification
func (s *RequestService) Verify(ctx context.Context, serial string) (*dto.CertificateVerification, error) {
	request, err := s.requestRepo.GetBySerial(ctx, serial)
	if err != nil {
		return nil, err
	}

	return &dto.CertificateVerification{
		Serial:         request.CertificateSerial,
		StudentName:    request.Student.FullName(),
		RegisterNumber: request.Student.RegisterNumber,
		Department:     request.Student.DepartmentName,
		Batch:          request.Student.BatchName,
		IssuedAt:       request.UpdatedAt.Format("2006-01-02"),
		Valid:          request.Status == models.StatusApproved,
	}, nil
}

// renderPDF fills the HTML template of a request and converts the result
// to a PDF. Any failure of either step surfaces as ErrRenderFailed.
func (s *RequestService) renderPDF(request *models.BonafideRequest, tmpl *models.CertificateTemplate, serial string, issuedAt time.Time) ([]byte, error) {
	html, err := certificate.Fill(request, request.Student, tmpl, certificate.Options{
		AddSignature: true,
		Serial:       serial,
		VerifyURL:    s.verifyURL(serial),
		Now:          issuedAt,
	})
	if err != nil {
		return nil, apperrors.NewCustomError(apperrors.ErrRenderFailed, err.Error())
	}

	content, err := s.pdfConverter.Convert(html)
	if err != nil {
		return nil, apperrors.NewCustomError(apperrors.ErrRenderFailed, err.Error())
	}

	return content, nil
}

// scopeFilter translates an actor into the request filter it may see
func (s *RequestService) scopeFilter(actor Actor) (repositories.RequestFilter, error) {
	switch actor.Role {
	case models.RoleStudent:
		return repositories.RequestFilter{StudentID: &actor.ProfileID}, nil
	case models.RoleTutor:
		return repositories.RequestFilter{TutorID: &actor.ProfileID}, nil
	case models.RoleHOD:
		return repositories.RequestFilter{HODID: &actor.ProfileID}, nil
	case models.RolePrincipal, models.RoleAdmin:
		return repositories.RequestFilter{}, nil
	}
	return repositories.RequestFilter{}, apperrors.ErrPermissionDenied
}

// authorizeView checks read access to one request
func (s *RequestService) authorizeView(request *models.BonafideRequest, actor Actor) error {
	switch actor.Role {
	case models.RoleStudent:
		if request.StudentID == actor.ProfileID {
			return nil
		}
	case models.RoleTutor:
		if request.Student != nil && request.Student.TutorID != nil && *request.Student.TutorID == actor.ProfileID {
			return nil
		}
	case models.RoleHOD:
		if request.Student != nil && request.Student.HODID != nil && *request.Student.HODID == actor.ProfileID {
			return nil
		}
	case models.RolePrincipal, models.RoleAdmin:
		return nil
	}
	return apperrors.ErrPermissionDenied
}

// authorizeAct checks the actor is the assigned approver for the request
func (s *RequestService) authorizeAct(request *models.BonafideRequest, actor Actor) error {
	switch actor.Role {
	case models.RoleTutor:
		if request.Student != nil && request.Student.TutorID != nil && *request.Student.TutorID == actor.ProfileID {
			return nil
		}
	case models.RoleHOD:
		if request.Student != nil && request.Student.HODID != nil && *request.Student.HODID == actor.ProfileID {
			return nil
		}
	case models.RolePrincipal:
		return nil
	}
	return apperrors.ErrPermissionDenied
}

func (s *RequestService) verifyURL(serial string) string {
	return fmt.Sprintf("%s/api/v1/certificates/verify/%s", s.verifyBaseURL, serial)
}
