package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/acoe/bonafide/internal/app/controllers"
	"github.com/acoe/bonafide/internal/app/models"
	"github.com/acoe/bonafide/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	studentController *controllers.StudentController,
	departmentController *controllers.DepartmentController,
	batchController *controllers.BatchController,
	templateController *controllers.TemplateController,
	requestController *controllers.RequestController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/login", authController.Login)
		auth.POST("/refresh", authController.RefreshToken)
	}

	// Anyone holding a printed certificate can verify its serial.
	v1.GET("/certificates/verify/:serial", requestController.Verify)

	v1.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.POST("/auth/logout", authController.Logout)
		authenticated.GET("/auth/me", authController.Me)
		authenticated.PUT("/auth/me", authController.UpdateMe)
		authenticated.PUT("/auth/password", authController.ChangePassword)

		// Shared read-only lookups available to every role
		authenticated.GET("/departments", departmentController.List)
		authenticated.GET("/batches", batchController.List)
		authenticated.GET("/templates", templateController.List)

		// Requests visible within the caller's scope, any role
		requests := authenticated.Group("/requests")
		{
			requests.GET("", requestController.List)
			requests.GET("/counts", requestController.Counts)
			requests.GET("/:id", requestController.Get)
			requests.GET("/:id/download", requestController.Download)
		}

		// Student-only routes
		student := authenticated.Group("/student")
		student.Use(authMiddleware.RoleRequired(models.RoleStudent))
		{
			student.GET("/profile", studentController.Me)
			student.POST("/requests", requestController.Create)
			student.POST("/requests/:id/resubmit", requestController.Resubmit)
			student.DELETE("/requests/:id", requestController.Withdraw)
		}

		// Approver routes: pending queues and workflow actions
		approvers := authenticated.Group("")
		approvers.Use(authMiddleware.RoleRequired(models.RoleTutor, models.RoleHOD, models.RolePrincipal))
		{
			approvers.GET("/requests/pending", requestController.Pending)
			approvers.POST("/requests/:id/forward", requestController.Forward)
			approvers.POST("/requests/:id/return", requestController.Return)
		}

		principal := authenticated.Group("")
		principal.Use(authMiddleware.RoleRequired(models.RolePrincipal))
		{
			principal.POST("/requests/:id/approve", requestController.Approve)
		}

		// Tutors and HODs browse the students assigned to them
		staffView := authenticated.Group("")
		staffView.Use(authMiddleware.RoleRequired(models.RoleTutor, models.RoleHOD, models.RoleAdmin, models.RolePrincipal))
		{
			staffView.GET("/students", studentController.List)
			staffView.GET("/students/:id", studentController.Get)
		}

		// Administrative routes
		admin := authenticated.Group("/admin")
		admin.Use(authMiddleware.RoleRequired(models.RoleAdmin, models.RolePrincipal))
		{
			admin.GET("/departments", departmentController.List)
			admin.GET("/departments/:id", departmentController.Get)
			admin.POST("/departments", departmentController.Create)
			admin.PUT("/departments/:id", departmentController.Update)
			admin.DELETE("/departments/:id", departmentController.Delete)

			admin.GET("/batches", batchController.List)
			admin.GET("/batches/:id", batchController.Get)
			admin.POST("/batches", batchController.Create)
			admin.PUT("/batches/:id", batchController.Update)
			admin.DELETE("/batches/:id", batchController.Delete)
			admin.PUT("/batches/:id/semester", batchController.OverrideSemester)
			admin.POST("/batches/refresh-semesters", batchController.RefreshSemesters)

			admin.GET("/students", studentController.List)
			admin.GET("/students/:id", studentController.Get)
			admin.POST("/students", studentController.Create)
			admin.PUT("/students/:id", studentController.Update)
			admin.DELETE("/students/:id", studentController.Delete)
			admin.POST("/students/import", studentController.Import)
			admin.GET("/students/import/template", studentController.ImportTemplate)

			admin.POST("/staff", studentController.CreateStaff)
			admin.GET("/staff", studentController.ListStaff)

			admin.GET("/templates", templateController.List)
			admin.GET("/templates/:id", templateController.Get)
			admin.POST("/templates", templateController.Create)
			admin.PUT("/templates/:id", templateController.Update)
			admin.DELETE("/templates/:id", templateController.Delete)
		}
	}
}
