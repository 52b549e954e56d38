package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/acoe/bonafide/internal/app/models"
	"github.com/acoe/bonafide/internal/app/models/dto"
	"github.com/acoe/bonafide/internal/app/repositories"
	"github.com/acoe/bonafide/internal/app/services"
	"github.com/acoe/bonafide/internal/middleware"
	"github.com/acoe/bonafide/internal/pkg/apperrors"
	"github.com/acoe/bonafide/internal/pkg/helpers"
	"github.com/acoe/bonafide/internal/pkg/importer"
)

// maxImportFileSize caps bulk CSV uploads at 5 MB
const maxImportFileSize = 5 << 20

// StudentController handles student and staff account operations
type StudentController struct {
	studentService *services.StudentService
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService *services.StudentService) *StudentController {
	return &StudentController{
		studentService: studentService,
	}
}

// Create registers a new student together with its profile
// @Summary Create student
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateStudentRequest true "Student data"
// @Success 201 {object} dto.APIResponse{data=dto.StudentResponse} "Created student"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 409 {object} dto.ErrorResponse "Username, email or register number in use"
// @Router /admin/students [post]
func (c *StudentController) Create(ctx *gin.Context) {
	var req dto.CreateStudentRequest
	if !bindJSON(ctx, &req) {
		return
	}

	student, err := c.studentService.Create(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: dto.NewStudentResponse(student), Timestamp: time.Now()})
}

// CreateStaff registers a tutor, HOD, admin or principal account
// @Summary Create staff account
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateStaffRequest true "Staff data"
// @Success 201 {object} dto.APIResponse{data=dto.ProfileResponse} "Created account"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 409 {object} dto.ErrorResponse "Username or email in use"
// @Router /admin/staff [post]
func (c *StudentController) CreateStaff(ctx *gin.Context) {
	var req dto.CreateStaffRequest
	if !bindJSON(ctx, &req) {
		return
	}

	profile, err := c.studentService.CreateStaff(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: dto.NewProfileResponse(profile), Timestamp: time.Now()})
}

// ListStaff returns staff accounts filtered by role
// @Summary List staff accounts
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param role query string true "Role filter" Enums(tutor, hod, admin, principal)
// @Param departmentId query int false "Filter by department"
// @Param page query int false "Page number"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse} "Staff accounts"
// @Router /admin/staff [get]
func (c *StudentController) ListStaff(ctx *gin.Context) {
	role := models.RoleType(ctx.Query("role"))
	if !role.Valid() || role == models.RoleStudent {
		middleware.HandleAPIError(ctx, apperrors.NewBadRequestError("role must be one of tutor, hod, admin, principal"))
		return
	}

	page, size := helpers.ParsePaginationParams(ctx)
	profiles, total, err := c.studentService.ListStaff(ctx, role, queryInt64Ptr(ctx, "departmentId"), page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	responses := make([]dto.ProfileResponse, 0, len(profiles))
	for _, profile := range profiles {
		responses = append(responses, dto.NewProfileResponse(profile))
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.PaginatedResponse{
			Items:      responses,
			Pagination: helpers.NewPaginationInfo(total, page, size),
		},
		Timestamp: time.Now(),
	})
}

// List returns students matching the given filters
// @Summary List students
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param departmentId query int false "Filter by department"
// @Param batchId query int false "Filter by batch"
// @Param search query string false "Search by name or register number"
// @Param page query int false "Page number"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse} "Students"
// @Router /admin/students [get]
func (c *StudentController) List(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	filter := repositories.StudentFilter{
		DepartmentID: queryInt64Ptr(ctx, "departmentId"),
		BatchID:      queryInt64Ptr(ctx, "batchId"),
		Search:       ctx.Query("search"),
	}

	// Tutors and HODs only see the students assigned to them.
	switch actor.Role {
	case models.RoleTutor:
		filter.TutorID = &actor.ProfileID
	case models.RoleHOD:
		filter.HODID = &actor.ProfileID
	}

	page, size := helpers.ParsePaginationParams(ctx)
	students, total, err := c.studentService.List(ctx, filter, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	responses := make([]*dto.StudentResponse, 0, len(students))
	for _, student := range students {
		responses = append(responses, dto.NewStudentResponse(student))
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.PaginatedResponse{
			Items:      responses,
			Pagination: helpers.NewPaginationInfo(total, page, size),
		},
		Timestamp: time.Now(),
	})
}

// Get returns a single student
// @Summary Get student
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path int true "Profile ID"
// @Success 200 {object} dto.APIResponse{data=dto.StudentResponse} "Student"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /admin/students/{id} [get]
func (c *StudentController) Get(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	student, err := c.studentService.GetByProfileID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.NewStudentResponse(student), Timestamp: time.Now()})
}

// Me returns the authenticated student's own record
// @Summary Own student record
// @Tags students
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.StudentResponse} "Student"
// @Router /student/profile [get]
func (c *StudentController) Me(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	student, err := c.studentService.GetByProfileID(ctx, actor.ProfileID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.NewStudentResponse(student), Timestamp: time.Now()})
}

// Update modifies a student
// @Summary Update student
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Profile ID"
// @Param request body dto.UpdateStudentRequest true "Student data"
// @Success 200 {object} dto.APIResponse{data=dto.StudentResponse} "Updated student"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /admin/students/{id} [put]
func (c *StudentController) Update(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateStudentRequest
	if !bindJSON(ctx, &req) {
		return
	}

	student, err := c.studentService.Update(ctx, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.NewStudentResponse(student), Timestamp: time.Now()})
}

// Delete removes a student together with its profile
// @Summary Delete student
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path int true "Profile ID"
// @Success 200 {object} dto.SuccessResponse "Student deleted"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /admin/students/{id} [delete]
func (c *StudentController) Delete(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.studentService.Delete(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Student deleted"})
}

// Import bulk-creates students from an uploaded CSV file
// @Summary Import students from CSV
// @Description Creates one student per valid row; invalid rows are reported per line without aborting the rest
// @Tags students
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "CSV file"
// @Success 200 {object} dto.APIResponse{data=dto.ImportResultResponse} "Import result"
// @Failure 400 {object} dto.ErrorResponse "Missing file or malformed header"
// @Router /admin/students/import [post]
func (c *StudentController) Import(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewBadRequestError("A CSV file is required"))
		return
	}
	if fileHeader.Size > maxImportFileSize {
		middleware.HandleAPIError(ctx, apperrors.NewBadRequestError("File exceeds the 5 MB limit"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	defer file.Close()

	result, err := c.studentService.BulkImport(ctx, file)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: result, Timestamp: time.Now()})
}

// ImportTemplate serves the CSV header template for bulk imports
// @Summary Download import template
// @Tags students
// @Produce text/csv
// @Security BearerAuth
// @Success 200 {string} string "CSV template"
// @Router /admin/students/import/template [get]
func (c *StudentController) ImportTemplate(ctx *gin.Context) {
	ctx.Header("Content-Disposition", `attachment; filename="students.csv"`)
	ctx.Data(http.StatusOK, "text/csv", []byte(importer.Template()))
}
