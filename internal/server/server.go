package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/acoe/bonafide/internal/bootstrap"
	"github.com/acoe/bonafide/internal/config"
	"github.com/acoe/bonafide/internal/db"
)

const (
	// tokenCleanupInterval is how often expired and stale revoked refresh
	// tokens are purged from the database.
	tokenCleanupInterval = 12 * time.Hour

	// semesterRefreshInterval is how often derived batch semesters are
	// reconciled with the calendar, so a batch crossing a semester
	// boundary picks up the new value without admin intervention.
	semesterRefreshInterval = 24 * time.Hour
)

// Server holds the state for the HTTP server.
type Server struct {
	config          *config.Config
	router          *gin.Engine
	database        *db.PostgresDB
	deps            *bootstrap.Dependencies
	logger          zerolog.Logger
	http            *http.Server
	maintenanceStop chan struct{}
}

// NewServer creates and initializes a new server instance by calling
// the bootstrap functions in order.
func NewServer() (*Server, error) {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to load config or setup logger: %w", err)
	}

	database, err := bootstrap.SetupDatabase(cfg, lgr)
	if err != nil {
		return nil, fmt.Errorf("failed to setup database: %w", err)
	}

	deps, err := bootstrap.BuildDependencies(cfg, database, lgr)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to setup dependencies: %w", err)
	}

	router := bootstrap.SetupRouter(cfg, deps, lgr)

	return &Server{
		config:          cfg,
		router:          router,
		database:        database,
		deps:            deps,
		logger:          lgr,
		maintenanceStop: make(chan struct{}),
	}, nil
}

// runEvery invokes fn on every tick until stop is closed.
func runEvery(stop <-chan struct{}, interval time.Duration, fn func()) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			fn()
		case <-stop:
			return
		}
	}
}

// startMaintenance launches the recurring background jobs: purging
// expired refresh tokens and keeping derived batch semesters in line
// with the calendar.
func (s *Server) startMaintenance() {
	go runEvery(s.maintenanceStop, tokenCleanupInterval, func() {
		if _, err := s.deps.Repos.TokenRepository.CleanupExpiredTokens(context.Background()); err != nil {
			s.logger.Warn().Err(err).Msg("Refresh token cleanup failed")
		}
	})

	go runEvery(s.maintenanceStop, semesterRefreshInterval, func() {
		if err := s.deps.Services.BatchService.RefreshSemesters(context.Background()); err != nil {
			s.logger.Warn().Err(err).Msg("Batch semester refresh failed")
		}
	})
}

// Run starts the HTTP server and handles graceful shutdown.
func (s *Server) Run() error {
	s.logger.Info().Str("port", s.config.Server.Port).Msg("Starting server...")

	s.http = &http.Server{
		Addr:         ":" + s.config.Server.Port,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Bring derived semesters up to date before serving requests.
	if err := s.deps.Services.BatchService.RefreshSemesters(context.Background()); err != nil {
		s.logger.Warn().Err(err).Msg("Startup semester refresh failed")
	}

	s.startMaintenance()

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info().Str("addr", s.http.Addr).Msg("HTTP server listening")
		serverErrors <- s.http.ListenAndServe()
	}()

	osSignals := make(chan os.Signal, 1)
	signal.Notify(osSignals, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("error starting server: %w", err)
		}
	case sig := <-osSignals:
		s.logger.Info().Str("signal", sig.String()).Msg("Received OS signal, initiating shutdown...")
	}

	return s.Shutdown(context.Background())
}

// Shutdown gracefully stops the server and closes resources.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	shutdownError := false

	if s.maintenanceStop != nil {
		close(s.maintenanceStop)
		s.maintenanceStop = nil
	}

	if s.http != nil {
		s.logger.Info().Msg("Shutting down HTTP server...")
		if err := s.http.Shutdown(ctx); err != nil {
			s.logger.Error().Err(err).Msg("HTTP server shutdown error")
			shutdownError = true
		} else {
			s.logger.Info().Msg("HTTP server gracefully stopped.")
		}
	}

	if s.database != nil {
		s.logger.Info().Msg("Closing database connection pool...")
		s.database.Close()
		s.logger.Info().Msg("Database connection pool closed.")
	}

	s.logger.Info().Msg("Server shutdown process complete.")
	if shutdownError {
		return errors.New("server shutdown completed with errors")
	}
	return nil
}
