// Package app wires the ush components together and dispatches execution
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"ush/internal/cli"
	"ush/internal/cli/commands"
	"ush/internal/config"
	"ush/internal/db"
	"ush/internal/git"
	"ush/internal/lifecycle"
	"ush/internal/operations"
	"ush/internal/shell"
	"ush/internal/tmux"
)

// App represents the main application
type App struct {
	AppCtx     *config.AppContext
	Controller *lifecycle.Controller
	Git        *git.Manager
	DB         *db.DB
	CLI        *cli.Manager
}

// New creates a new application instance
func New() *App {
	return &App{}
}

// Run starts the application
func (a *App) Run(args []string) error {
	return a.RunWithContext(context.Background(), args)
}

// RunWithContext initializes every component and executes the CLI
func (a *App) RunWithContext(ctx context.Context, args []string) error {
	projectRoot, err := findProjectRoot()
	if err != nil {
		return err
	}

	cfgMgr := config.New()
	if err := cfgMgr.Load(projectRoot); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfgMgr.Global == nil {
		global, err := config.LoadGlobalConfig()
		if err != nil {
			return fmt.Errorf("failed to load global config: %w", err)
		}
		cfgMgr.Global = global
	}

	a.AppCtx = config.NewAppContext(config.AppState{
		ProjectRoot: projectRoot,
		Project:     cfgMgr.Project,
		Global:      cfgMgr.Global,
	})

	runner := shell.NewRunner(shell.DetectPlatform())
	a.Git = git.New(runner)
	a.Controller = lifecycle.New(cfgMgr.Project, runner, a.Git, projectRoot)

	database, err := db.New(db.DefaultConfig())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	a.DB = database

	if err := database.Migrate(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	deps := &commands.Deps{
		AppCtx:     a.AppCtx,
		Controller: a.Controller,
		EnvOps:     operations.NewEnvironmentOperations(cfgMgr.Project, runner, projectRoot),
		TicketOps:  operations.NewTicketOperations(db.NewTicketRepository(database)),
		Tmux:       tmux.New(runner),
		Git:        a.Git,
		Database:   database,
	}

	a.CLI = cli.New(deps)

	if len(args) == 0 {
		return a.CLI.ExecuteWithContext(ctx, []string{"--help"})
	}

	return a.CLI.ExecuteWithContext(ctx, args)
}

// findProjectRoot walks upward from the working directory until it finds a
// project config file. Without one the working directory itself is the root,
// running against the default ushadow configuration.
func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}

	cwd := dir
	for {
		if _, err := os.Stat(filepath.Join(dir, config.ProjectConfigFile)); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return cwd, nil
		}
		dir = parent
	}
}
