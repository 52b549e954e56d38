package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/acoe/bonafide/internal/app/models"
	"github.com/acoe/bonafide/internal/app/models/dto"
	"github.com/acoe/bonafide/internal/app/services"
	"github.com/acoe/bonafide/internal/middleware"
	"github.com/acoe/bonafide/internal/pkg/helpers"
)

// RequestController handles bonafide request workflow operations
type RequestController struct {
	requestService *services.RequestService
}

// NewRequestController creates a new RequestController
func NewRequestController(requestService *services.RequestService) *RequestController {
	return &RequestController{
		requestService: requestService,
	}
}

// parseStatusFilter reads the optional comma-separated status query parameter
func parseStatusFilter(ctx *gin.Context) []models.RequestStatus {
	raw := ctx.Query("status")
	if raw == "" {
		return nil
	}
	var statuses []models.RequestStatus
	for _, part := range strings.Split(raw, ",") {
		if s := strings.TrimSpace(part); s != "" {
			statuses = append(statuses, models.RequestStatus(s))
		}
	}
	return statuses
}

// Create submits a new bonafide request
// @Summary Submit request
// @Description Creates a bonafide request that enters the tutor's pending queue
// @Tags requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateRequestRequest true "Request data"
// @Success 201 {object} dto.APIResponse{data=dto.RequestResponse} "Created request"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Router /student/requests [post]
func (c *RequestController) Create(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	var req dto.CreateRequestRequest
	if !bindJSON(ctx, &req) {
		return
	}

	request, err := c.requestService.Create(ctx, actor.ProfileID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: dto.NewRequestResponse(request), Timestamp: time.Now()})
}

// List returns the requests visible to the caller
// @Summary List requests
// @Description Students see their own requests; tutors and HODs see their assigned students'; principals and admins see all
// @Tags requests
// @Produce json
// @Security BearerAuth
// @Param status query string false "Comma-separated status filter"
// @Param page query int false "Page number"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse} "Requests"
// @Router /requests [get]
func (c *RequestController) List(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	page, size := helpers.ParsePaginationParams(ctx)
	requests, total, err := c.requestService.List(ctx, actor, parseStatusFilter(ctx), page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.PaginatedResponse{
			Items:      newRequestResponses(requests),
			Pagination: helpers.NewPaginationInfo(total, page, size),
		},
		Timestamp: time.Now(),
	})
}

// Pending returns the requests awaiting the caller's action
// @Summary Pending queue
// @Tags requests
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse} "Pending requests"
// @Router /requests/pending [get]
func (c *RequestController) Pending(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	page, size := helpers.ParsePaginationParams(ctx)
	requests, total, err := c.requestService.PendingQueue(ctx, actor, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.PaginatedResponse{
			Items:      newRequestResponses(requests),
			Pagination: helpers.NewPaginationInfo(total, page, size),
		},
		Timestamp: time.Now(),
	})
}

// Counts returns per-status request counts within the caller's scope
// @Summary Request counts
// @Tags requests
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse "Counts keyed by status"
// @Router /requests/counts [get]
func (c *RequestController) Counts(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	counts, err := c.requestService.CountByStatus(ctx, actor)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: counts, Timestamp: time.Now()})
}

// Get returns a single request
// @Summary Get request
// @Tags requests
// @Produce json
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Success 200 {object} dto.APIResponse{data=dto.RequestResponse} "Request"
// @Failure 403 {object} dto.ErrorResponse "Not within caller's scope"
// @Failure 404 {object} dto.ErrorResponse "Request not found"
// @Router /requests/{id} [get]
func (c *RequestController) Get(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	request, err := c.requestService.Get(ctx, id, actor)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.NewRequestResponse(request), Timestamp: time.Now()})
}

// Forward advances a request to the next approval stage
// @Summary Forward request
// @Description Moves the request to the next stage; the HOD must attach a certificate template
// @Tags requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Param request body dto.ForwardRequestRequest false "Forward data"
// @Success 200 {object} dto.APIResponse{data=dto.RequestResponse} "Forwarded request"
// @Failure 409 {object} dto.ErrorResponse "Request no longer in the expected stage"
// @Router /requests/{id}/forward [post]
func (c *RequestController) Forward(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.ForwardRequestRequest
	if ctx.Request.ContentLength > 0 && !bindJSON(ctx, &req) {
		return
	}

	request, err := c.requestService.Forward(ctx, id, actor, req.TemplateID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.NewRequestResponse(request), Timestamp: time.Now()})
}

// Return sends a request back to the student with a reason
// @Summary Return request
// @Tags requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Param request body dto.ReturnRequestRequest true "Return reason"
// @Success 200 {object} dto.APIResponse{data=dto.RequestResponse} "Returned request"
// @Failure 409 {object} dto.ErrorResponse "Request no longer in the expected stage"
// @Router /requests/{id}/return [post]
func (c *RequestController) Return(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.ReturnRequestRequest
	if !bindJSON(ctx, &req) {
		return
	}

	request, err := c.requestService.Return(ctx, id, actor, req.Reason)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.NewRequestResponse(request), Timestamp: time.Now()})
}

// Approve finalizes a request and issues its certificate serial
// @Summary Approve request
// @Description Renders the certificate and marks the request approved; approval fails if rendering fails
// @Tags requests
// @Produce json
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Success 200 {object} dto.APIResponse{data=dto.RequestResponse} "Approved request"
// @Failure 409 {object} dto.ErrorResponse "Request no longer in the expected stage"
// @Failure 500 {object} dto.ErrorResponse "Certificate rendering failed"
// @Router /requests/{id}/approve [post]
func (c *RequestController) Approve(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	request, err := c.requestService.Approve(ctx, id, actor)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.NewRequestResponse(request), Timestamp: time.Now()})
}

// Resubmit sends a returned request back into the tutor's queue
// @Summary Resubmit request
// @Tags requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Param request body dto.ResubmitRequestRequest true "Amended reason"
// @Success 200 {object} dto.APIResponse{data=dto.RequestResponse} "Resubmitted request"
// @Failure 409 {object} dto.ErrorResponse "Request is not in a returned state"
// @Router /student/requests/{id}/resubmit [post]
func (c *RequestController) Resubmit(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.ResubmitRequestRequest
	if !bindJSON(ctx, &req) {
		return
	}

	request, err := c.requestService.Resubmit(ctx, id, actor, req.Reason)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.NewRequestResponse(request), Timestamp: time.Now()})
}

// Withdraw removes the student's own pending or returned request
// @Summary Withdraw request
// @Tags requests
// @Produce json
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Success 200 {object} dto.SuccessResponse "Request withdrawn"
// @Failure 409 {object} dto.ErrorResponse "Request is past the tutor stage"
// @Router /student/requests/{id} [delete]
func (c *RequestController) Withdraw(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.requestService.Withdraw(ctx, id, actor); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Request withdrawn"})
}

// Download serves the issued certificate of an approved request
// @Summary Download certificate
// @Tags requests
// @Produce application/pdf
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Success 200 {file} binary "Certificate document"
// @Failure 404 {object} dto.ErrorResponse "Request not found or not approved"
// @Router /requests/{id}/download [get]
func (c *RequestController) Download(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	certificate, err := c.requestService.Download(ctx, id, actor)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Header("Content-Disposition", `attachment; filename="`+certificate.Filename+`"`)
	ctx.Data(http.StatusOK, certificate.ContentType, certificate.Content)
}

// Verify resolves a certificate serial to its issuance record
// @Summary Verify certificate
// @Description Public endpoint resolving a printed serial to the issued certificate's details
// @Tags requests
// @Produce json
// @Param serial path string true "Certificate serial"
// @Success 200 {object} dto.APIResponse{data=dto.CertificateVerification} "Verification result"
// @Failure 404 {object} dto.ErrorResponse "Certificate not found"
// @Router /certificates/verify/{serial} [get]
func (c *RequestController) Verify(ctx *gin.Context) {
	serial := strings.TrimSpace(ctx.Param("serial"))

	verification, err := c.requestService.Verify(ctx, serial)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: verification, Timestamp: time.Now()})
}

func newRequestResponses(requests []*models.BonafideRequest) []dto.RequestResponse {
	responses := make([]dto.RequestResponse, 0, len(requests))
	for _, request := range requests {
		responses = append(responses, dto.NewRequestResponse(request))
	}
	return responses
}
