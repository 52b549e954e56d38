package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/acoe/bonafide/docs" // generated swagger docs
	appControllers "github.com/acoe/bonafide/internal/app/controllers"
	appMigrations "github.com/acoe/bonafide/internal/app/migrations"
	appRepos "github.com/acoe/bonafide/internal/app/repositories"
	appRoutes "github.com/acoe/bonafide/internal/app/routes"
	appServices "github.com/acoe/bonafide/internal/app/services"
	"github.com/acoe/bonafide/internal/config"
	"github.com/acoe/bonafide/internal/db"
	appMiddleware "github.com/acoe/bonafide/internal/middleware"
	pkgAuth "github.com/acoe/bonafide/internal/pkg/auth"
	"github.com/acoe/bonafide/internal/pkg/certificate"
	"github.com/acoe/bonafide/internal/pkg/filestorage"
	"github.com/acoe/bonafide/internal/pkg/helpers"
	"github.com/acoe/bonafide/internal/pkg/logger"
	"github.com/acoe/bonafide/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos    *appRepos.Repositories
	Services *appServices.Services

	AuthController       *appControllers.AuthController
	StudentController    *appControllers.StudentController
	DepartmentController *appControllers.DepartmentController
	BatchController      *appControllers.BatchController
	TemplateController   *appControllers.TemplateController
	RequestController    *appControllers.RequestController

	AuthMiddleware *appMiddleware.AuthMiddleware
	JWTService     *pkgAuth.JWTService
	FileStorage    *filestorage.LocalStorage
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and
// seeds the initial accounts.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		dbPool.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		dbPool.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultData(context.Background(), cfg, dbPool, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return database, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(database.Pool)

	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	deps.Services = &appServices.Services{
		AuthService: appServices.NewAuthService(
			deps.Repos.ProfileRepository,
			deps.Repos.TokenRepository,
			deps.JWTService,
			database,
			lgr,
		),
		StudentService: appServices.NewStudentService(
			deps.Repos.ProfileRepository,
			deps.Repos.StudentRepository,
			deps.Repos.BatchRepository,
			deps.Repos.DepartmentRepository,
			database,
			lgr,
		),
		DepartmentService: appServices.NewDepartmentService(
			deps.Repos.DepartmentRepository,
			deps.Repos.StudentRepository,
			deps.Repos.ProfileRepository,
			database,
			lgr,
		),
		BatchService: appServices.NewBatchService(
			deps.Repos.BatchRepository,
			deps.Repos.StudentRepository,
			deps.Repos.ProfileRepository,
			database,
			lgr,
		),
		TemplateService: appServices.NewTemplateService(
			deps.Repos.TemplateRepository,
			deps.FileStorage,
			lgr,
		),
		RequestService: appServices.NewRequestService(
			deps.Repos.RequestRepository,
			deps.Repos.StudentRepository,
			deps.Repos.TemplateRepository,
			deps.FileStorage,
			certificate.NewWkhtmltopdfConverter(),
			cfg.Server.PublicBaseURL,
			lgr,
		),
	}

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.AuthController = appControllers.NewAuthController(deps.Services.AuthService)
	deps.StudentController = appControllers.NewStudentController(deps.Services.StudentService)
	deps.DepartmentController = appControllers.NewDepartmentController(deps.Services.DepartmentService)
	deps.BatchController = appControllers.NewBatchController(deps.Services.BatchService)
	deps.TemplateController = appControllers.NewTemplateController(deps.Services.TemplateService)
	deps.RequestController = appControllers.NewRequestController(deps.Services.RequestService)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestLogger())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORS.AllowedOrigins
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json"), ginSwagger.DefaultModelsExpandDepth(1)))

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.StudentController,
		deps.DepartmentController,
		deps.BatchController,
		deps.TemplateController,
		deps.RequestController,
		deps.AuthMiddleware,
	)

	return router
}
