package server

import (
	"ush/internal/db"
	"ush/internal/env"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error" example:"Resource not found"`
}

// SuccessResponse represents a successful operation response
type SuccessResponse struct {
	Message string `json:"message" example:"Operation completed successfully"`
}

// HealthResponse represents the health endpoint payload
type HealthResponse struct {
	Status string `json:"status" example:"healthy"`
	Uptime string `json:"uptime" example:"2h30m15s"`
}

// EnvironmentsResponse represents a list of reconciled environments
type EnvironmentsResponse struct {
	Environments []env.Environment `json:"environments"`
	Total        int               `json:"total" example:"3"`
}

// StartResponse represents the outcome of starting an environment
type StartResponse struct {
	Environment string `json:"environment" example:"feature-auth"`
	Outcome     string `json:"outcome" example:"started"`
	Healthy     bool   `json:"healthy" example:"true"`
}

// CreateTicketRequest represents a request to create a ticket
type CreateTicketRequest struct {
	Title          string `json:"title" validate:"required" example:"Fix login redirect"`
	Status         string `json:"status" example:"todo"`
	WorktreePath   string `json:"worktree_path" example:"/home/user/repos/worktrees/ushadow/feature-auth"`
	BranchName     string `json:"branch_name" example:"feature/auth"`
	TmuxWindowName string `json:"tmux_window_name" example:"ushadow-feature-auth"`
}

// UpdateTicketStatusRequest represents a ticket status change
type UpdateTicketStatusRequest struct {
	Status string `json:"status" validate:"required" example:"in_review"`
}

// TicketsResponse represents a list of tickets
type TicketsResponse struct {
	Tickets []db.Ticket `json:"tickets"`
	Total   int         `json:"total" example:"10"`
}
