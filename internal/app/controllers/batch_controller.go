package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/acoe/bonafide/internal/app/models/dto"
	"github.com/acoe/bonafide/internal/app/services"
	"github.com/acoe/bonafide/internal/middleware"
)

// BatchController handles batch management operations
type BatchController struct {
	batchService *services.BatchService
}

// NewBatchController creates a new BatchController
func NewBatchController(batchService *services.BatchService) *BatchController {
	return &BatchController{
		batchService: batchService,
	}
}

// Create registers a new batch, one row per section
// @Summary Create batch
// @Description Creates a batch; totalSections > 1 creates lettered sibling sections
// @Tags batches
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateBatchRequest true "Batch data"
// @Success 201 {object} dto.APIResponse{data=[]dto.BatchResponse} "Created sections"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 409 {object} dto.ErrorResponse "Batch already exists"
// @Router /admin/batches [post]
func (c *BatchController) Create(ctx *gin.Context) {
	var req dto.CreateBatchRequest
	if !bindJSON(ctx, &req) {
		return
	}

	batches, err := c.batchService.Create(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	responses := make([]*dto.BatchResponse, 0, len(batches))
	for _, batch := range batches {
		responses = append(responses, dto.NewBatchResponse(batch))
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: responses, Timestamp: time.Now()})
}

// Get returns a single batch
// @Summary Get batch
// @Tags batches
// @Produce json
// @Security BearerAuth
// @Param id path int true "Batch ID"
// @Success 200 {object} dto.APIResponse{data=dto.BatchResponse} "Batch"
// @Failure 404 {object} dto.ErrorResponse "Batch not found"
// @Router /admin/batches/{id} [get]
func (c *BatchController) Get(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	batch, err := c.batchService.GetByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.NewBatchResponse(batch), Timestamp: time.Now()})
}

// List returns batches, optionally filtered by department
// @Summary List batches
// @Tags batches
// @Produce json
// @Security BearerAuth
// @Param departmentId query int false "Filter by department"
// @Success 200 {object} dto.APIResponse{data=[]dto.BatchResponse} "Batches"
// @Router /admin/batches [get]
func (c *BatchController) List(ctx *gin.Context) {
	batches, err := c.batchService.List(ctx, queryInt64Ptr(ctx, "departmentId"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	responses := make([]*dto.BatchResponse, 0, len(batches))
	for _, batch := range batches {
		responses = append(responses, dto.NewBatchResponse(batch))
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: responses, Timestamp: time.Now()})
}

// Update modifies a batch and reconciles its sibling sections
// @Summary Update batch
// @Tags batches
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Batch ID"
// @Param request body dto.UpdateBatchRequest true "Batch data"
// @Success 200 {object} dto.APIResponse{data=dto.BatchResponse} "Updated batch"
// @Failure 404 {object} dto.ErrorResponse "Batch not found"
// @Failure 409 {object} dto.ErrorResponse "Section still has students"
// @Router /admin/batches/{id} [put]
func (c *BatchController) Update(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateBatchRequest
	if !bindJSON(ctx, &req) {
		return
	}

	batch, err := c.batchService.Update(ctx, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.NewBatchResponse(batch), Timestamp: time.Now()})
}

// Delete removes a batch section
// @Summary Delete batch
// @Tags batches
// @Produce json
// @Security BearerAuth
// @Param id path int true "Batch ID"
// @Success 200 {object} dto.SuccessResponse "Batch deleted"
// @Failure 404 {object} dto.ErrorResponse "Batch not found"
// @Failure 409 {object} dto.ErrorResponse "Batch still has students"
// @Router /admin/batches/{id} [delete]
func (c *BatchController) Delete(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.batchService.Delete(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Batch deleted"})
}

// RefreshSemesters recomputes the current semester of every batch
// @Summary Refresh batch semesters
// @Description Re-derives the current semester of every batch from its year range
// @Tags batches
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.SuccessResponse "Semesters refreshed"
// @Router /admin/batches/refresh-semesters [post]
func (c *BatchController) RefreshSemesters(ctx *gin.Context) {
	if err := c.batchService.RefreshSemesters(ctx); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Semesters refreshed"})
}

// OverrideSemester manually sets a batch semester
// @Summary Override batch semester
// @Tags batches
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Batch ID"
// @Param request body dto.OverrideSemesterRequest true "Semester to set"
// @Success 200 {object} dto.APIResponse{data=dto.BatchResponse} "Updated batch"
// @Failure 400 {object} dto.ErrorResponse "Semester out of range"
// @Failure 404 {object} dto.ErrorResponse "Batch not found"
// @Router /admin/batches/{id}/semester [put]
func (c *BatchController) OverrideSemester(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.OverrideSemesterRequest
	if !bindJSON(ctx, &req) {
		return
	}

	batch, err := c.batchService.OverrideSemester(ctx, id, req.Semester)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.NewBatchResponse(batch), Timestamp: time.Now()})
}
