package server

import (
	"net/http"
	"time"

	"ush/internal/db"
	"ush/internal/errors"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	// Swagger documentation
	s.echo.GET("/swagger/*", echoSwagger.WrapHandler)

	// Health check
	s.echo.GET("/health", s.handleHealth)

	// Environment snapshot stream
	s.echo.GET("/ws", s.handleEnvironmentStream)

	api := s.echo.Group("/api")

	// Environments
	envs := api.Group("/environments")
	envs.GET("", s.handleListEnvironments)
	envs.GET("/:name", s.handleGetEnvironment)
	envs.POST("/:name/start", s.handleStartEnvironment)
	envs.POST("/:name/stop", s.handleStopEnvironment)

	// Tickets
	tickets := api.Group("/tickets")
	tickets.GET("", s.handleListTickets)
	tickets.POST("", s.handleCreateTicket)
	tickets.GET("/:id", s.handleGetTicket)
	tickets.PUT("/:id/status", s.handleUpdateTicketStatus)
	tickets.DELETE("/:id", s.handleDeleteTicket)
}

// handleHealth godoc
// @Summary Health check
// @Description Check if the API is healthy
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status: "healthy",
		Uptime: time.Since(s.startTime).String(),
	})
}

// handleListEnvironments godoc
// @Summary List environments
// @Description Get the reconciled view of every environment
// @Tags environments
// @Produce json
// @Success 200 {object} EnvironmentsResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/environments [get]
func (s *Server) handleListEnvironments(c echo.Context) error {
	environments, err := s.envOps.List(c.Request().Context())
	if err != nil {
		return handleError(err)
	}

	return c.JSON(http.StatusOK, EnvironmentsResponse{
		Environments: environments,
		Total:        len(environments),
	})
}

// handleGetEnvironment godoc
// @Summary Get environment
// @Description Get one environment by name
// @Tags environments
// @Produce json
// @Param name path string true "Environment name"
// @Success 200 {object} env.Environment
// @Failure 404 {object} ErrorResponse
// @Router /api/environments/{name} [get]
func (s *Server) handleGetEnvironment(c echo.Context) error {
	environment, err := s.envOps.Get(c.Request().Context(), c.Param("name"))
	if err != nil {
		return handleError(err)
	}
	return c.JSON(http.StatusOK, environment)
}

// handleStartEnvironment godoc
// @Summary Start environment
// @Description Start or provision the environment's containers
// @Tags environments
// @Produce json
// @Param name path string true "Environment name"
// @Success 200 {object} StartResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/environments/{name}/start [post]
func (s *Server) handleStartEnvironment(c echo.Context) error {
	result, err := s.controller.Start(c.Request().Context(), c.Param("name"))
	if err != nil {
		return handleError(err)
	}

	return c.JSON(http.StatusOK, StartResponse{
		Environment: c.Param("name"),
		Outcome:     string(result.Outcome),
		Healthy:     result.Healthy,
	})
}

// handleStopEnvironment godoc
// @Summary Stop environment
// @Description Stop every container belonging to the environment
// @Tags environments
// @Produce json
// @Param name path string true "Environment name"
// @Success 200 {object} SuccessResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/environments/{name}/stop [post]
func (s *Server) handleStopEnvironment(c echo.Context) error {
	if err := s.controller.Stop(c.Request().Context(), c.Param("name")); err != nil {
		return handleError(err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "Environment stopped"})
}

// handleListTickets godoc
// @Summary List tickets
// @Description Get tickets, optionally filtered by status
// @Tags tickets
// @Produce json
// @Param status query string false "Ticket status filter"
// @Success 200 {object} TicketsResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/tickets [get]
func (s *Server) handleListTickets(c echo.Context) error {
	tickets, err := s.ticketOps.List(c.Request().Context(), db.TicketStatus(c.QueryParam("status")))
	if err != nil {
		return handleError(err)
	}

	return c.JSON(http.StatusOK, TicketsResponse{
		Tickets: tickets,
		Total:   len(tickets),
	})
}

// handleCreateTicket godoc
// @Summary Create ticket
// @Description Create a new ticket on the board
// @Tags tickets
// @Accept json
// @Produce json
// @Param ticket body CreateTicketRequest true "Ticket to create"
// @Success 201 {object} db.Ticket
// @Failure 400 {object} ErrorResponse
// @Router /api/tickets [post]
func (s *Server) handleCreateTicket(c echo.Context) error {
	var req CreateTicketRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	ticket := &db.Ticket{
		Title:          req.Title,
		Status:         db.TicketStatus(req.Status),
		WorktreePath:   req.WorktreePath,
		BranchName:     req.BranchName,
		TmuxWindowName: req.TmuxWindowName,
	}
	if ticket.Status == "" {
		ticket.Status = db.StatusBacklog
	}

	if err := s.ticketOps.Create(c.Request().Context(), ticket); err != nil {
		return handleError(err)
	}

	return c.JSON(http.StatusCreated, ticket)
}

// handleGetTicket godoc
// @Summary Get ticket
// @Description Get one ticket by ID
// @Tags tickets
// @Produce json
// @Param id path string true "Ticket ID"
// @Success 200 {object} db.Ticket
// @Failure 404 {object} ErrorResponse
// @Router /api/tickets/{id} [get]
func (s *Server) handleGetTicket(c echo.Context) error {
	ticket, err := s.ticketOps.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return handleError(err)
	}
	return c.JSON(http.StatusOK, ticket)
}

// handleUpdateTicketStatus godoc
// @Summary Update ticket status
// @Description Move a ticket to another board column
// @Tags tickets
// @Accept json
// @Produce json
// @Param id path string true "Ticket ID"
// @Param status body UpdateTicketStatusRequest true "New status"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/tickets/{id}/status [put]
func (s *Server) handleUpdateTicketStatus(c echo.Context) error {
	var req UpdateTicketStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	status := db.TicketStatus(req.Status)
	if !status.IsValid() {
		return handleError(errors.NewWithDetails(errors.ErrInvalidTicketStatus,
			"invalid ticket status", req.Status))
	}

	if err := s.ticketOps.SetStatus(c.Request().Context(), c.Param("id"), status); err != nil {
		return handleError(err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "Ticket status updated"})
}

// handleDeleteTicket godoc
// @Summary Delete ticket
// @Description Remove a ticket from the board
// @Tags tickets
// @Produce json
// @Param id path string true "Ticket ID"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/tickets/{id} [delete]
func (s *Server) handleDeleteTicket(c echo.Context) error {
	if err := s.ticketOps.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return handleError(err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "Ticket deleted"})
}
