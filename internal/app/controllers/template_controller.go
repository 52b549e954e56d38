package controllers

import (
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/acoe/bonafide/internal/app/models/dto"
	"github.com/acoe/bonafide/internal/app/services"
	"github.com/acoe/bonafide/internal/middleware"
)

// TemplateController handles certificate template operations
type TemplateController struct {
	templateService *services.TemplateService
}

// NewTemplateController creates a new TemplateController
func NewTemplateController(templateService *services.TemplateService) *TemplateController {
	return &TemplateController{
		templateService: templateService,
	}
}

// bindTemplateForm binds the multipart template form and the optional
// uploaded file (absent for html templates).
func bindTemplateForm(ctx *gin.Context, obj interface{}) (*multipart.FileHeader, bool) {
	if err := ctx.ShouldBind(obj); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return nil, false
	}
	file, err := ctx.FormFile("file")
	if err != nil {
		file = nil
	}
	return file, true
}

// Create registers a new certificate template
// @Summary Create template
// @Description Creates an html template with an inline body, or a pdf/word template from an uploaded file
// @Tags templates
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param name formData string true "Template name"
// @Param type formData string true "Template type" Enums(html, pdf, word)
// @Param body formData string false "HTML body with {placeholder} tokens"
// @Param file formData file false "Template file for pdf/word types"
// @Success 201 {object} dto.APIResponse{data=dto.TemplateResponse} "Created template"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Router /admin/templates [post]
func (c *TemplateController) Create(ctx *gin.Context) {
	var req dto.CreateTemplateRequest
	file, ok := bindTemplateForm(ctx, &req)
	if !ok {
		return
	}

	template, err := c.templateService.Create(ctx, &req, file)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: dto.NewTemplateResponse(template), Timestamp: time.Now()})
}

// Get returns a single certificate template
// @Summary Get template
// @Tags templates
// @Produce json
// @Security BearerAuth
// @Param id path int true "Template ID"
// @Success 200 {object} dto.APIResponse{data=dto.TemplateResponse} "Template"
// @Failure 404 {object} dto.ErrorResponse "Template not found"
// @Router /admin/templates/{id} [get]
func (c *TemplateController) Get(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	template, err := c.templateService.GetByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.NewTemplateResponse(template), Timestamp: time.Now()})
}

// List returns all certificate templates
// @Summary List templates
// @Tags templates
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.TemplateResponse} "Templates"
// @Router /admin/templates [get]
func (c *TemplateController) List(ctx *gin.Context) {
	templates, err := c.templateService.GetAll(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	responses := make([]*dto.TemplateResponse, 0, len(templates))
	for _, template := range templates {
		responses = append(responses, dto.NewTemplateResponse(template))
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: responses, Timestamp: time.Now()})
}

// Update modifies a certificate template
// @Summary Update template
// @Tags templates
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Template ID"
// @Param name formData string true "Template name"
// @Param type formData string true "Template type" Enums(html, pdf, word)
// @Param body formData string false "HTML body with {placeholder} tokens"
// @Param file formData file false "Replacement file for pdf/word types"
// @Success 200 {object} dto.APIResponse{data=dto.TemplateResponse} "Updated template"
// @Failure 404 {object} dto.ErrorResponse "Template not found"
// @Router /admin/templates/{id} [put]
func (c *TemplateController) Update(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateTemplateRequest
	file, ok := bindTemplateForm(ctx, &req)
	if !ok {
		return
	}

	template, err := c.templateService.Update(ctx, id, &req, file)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.NewTemplateResponse(template), Timestamp: time.Now()})
}

// Delete removes a certificate template
// @Summary Delete template
// @Tags templates
// @Produce json
// @Security BearerAuth
// @Param id path int true "Template ID"
// @Success 200 {object} dto.SuccessResponse "Template deleted"
// @Failure 404 {object} dto.ErrorResponse "Template not found"
// @Router /admin/templates/{id} [delete]
func (c *TemplateController) Delete(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.templateService.Delete(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Template deleted"})
}
