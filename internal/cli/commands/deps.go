// Package commands implements the individual ush CLI commands
package commands

import (
	"ush/internal/config"
	"ush/internal/db"
	"ush/internal/git"
	"ush/internal/lifecycle"
	"ush/internal/operations"
	"ush/internal/tmux"
)

// Deps bundles the shared dependencies handed to every command group
type Deps struct {
	AppCtx     *config.AppContext
	Controller *lifecycle.Controller
	EnvOps     *operations.EnvironmentOperations
	TicketOps  *operations.TicketOperations
	Tmux       *tmux.Orchestrator
	Git        *git.Manager
	Database   *db.DB
}
