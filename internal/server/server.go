// Package server exposes the reconciled environment state and the ticket
// board over HTTP, for dashboards and editor integrations.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"ush/internal/config"
	"ush/internal/constants"
	"ush/internal/db"
	"ush/internal/lifecycle"
	"ush/internal/logger"
	"ush/internal/operations"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Config holds the server configuration
type Config struct {
	Host            string        `toml:"host"`
	Port            int           `toml:"port"`
	ReadTimeout     time.Duration `toml:"read_timeout"`
	WriteTimeout    time.Duration `toml:"write_timeout"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`

	AllowOrigins []string `toml:"allow_origins"`
	AllowHeaders []string `toml:"allow_headers"`

	LogLevel string `toml:"log_level"`
}

// DefaultConfig returns the default server configuration
func DefaultConfig() *Config {
	return &Config{
		Host:            "localhost",
		Port:            constants.DefaultServerPort,
		ReadTimeout:     constants.DefaultServerReadTimeout,
		WriteTimeout:    constants.DefaultServerWriteTimeout,
		ShutdownTimeout: constants.DefaultServerShutdownTimeout,
		AllowOrigins:    []string{"*"},
		AllowHeaders:    []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		LogLevel:        "info",
	}
}

// Server represents the ush HTTP server
type Server struct {
	config     *Config
	appCtx     *config.AppContext
	echo       *echo.Echo
	envOps     *operations.EnvironmentOperations
	ticketOps  *operations.TicketOperations
	controller *lifecycle.Controller
	db         *db.DB
	startTime  time.Time
}

// New creates a new server instance
func New(cfg *Config, appCtx *config.AppContext) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	if cfg.LogLevel != "" {
		logger.SetLevel(cfg.LogLevel)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = ErrorHandler

	return &Server{
		config:    cfg,
		appCtx:    appCtx,
		echo:      e,
		startTime: time.Now(),
	}
}

// SetDependencies sets the server dependencies
func (s *Server) SetDependencies(envOps *operations.EnvironmentOperations, ticketOps *operations.TicketOperations, controller *lifecycle.Controller, database *db.DB) {
	s.envOps = envOps
	s.ticketOps = ticketOps
	s.controller = controller
	s.db = database
}

// Echo returns the Echo instance
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// Handler returns the HTTP handler with middleware and routes installed
func (s *Server) Handler() http.Handler {
	s.setupMiddleware()
	s.setupRoutes()
	return s.echo
}

// Start starts the server and blocks until the context is cancelled
func (s *Server) Start(ctx context.Context) error {
	s.setupMiddleware()
	s.setupRoutes()

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	srv := &http.Server{
		Addr:         addr,
		Handler:      s.echo,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	errChan := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("failed to start server: %w", err)
		}
	}()

	logger.WithFields(logger.Fields{"addr": addr}).Info("Status API listening")

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("Shutting down status API")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	return nil
}

// setupMiddleware configures all middleware
func (s *Server) setupMiddleware() {
	s.echo.Use(logger.RequestLogger())
	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: s.config.AllowOrigins,
		AllowHeaders: s.config.AllowHeaders,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
	}))
}
