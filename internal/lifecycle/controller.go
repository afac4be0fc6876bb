// Package lifecycle orchestrates environment state transitions. The
// controller never mutates the in-memory model; it drives docker, git and
// tmux and lets the next reconciliation pass observe the new truth.
package lifecycle

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"sort"

	"ush/internal/config"
	"ush/internal/constants"
	"ush/internal/container"
	"ush/internal/env"
	"ush/internal/errors"
	"ush/internal/git"
	"ush/internal/logger"
	"ush/internal/ports"
	"ush/internal/shell"
	"ush/internal/tmux"
	"ush/internal/validation"
)

// StartOutcome describes what a Start call did
type StartOutcome string

const (
	OutcomeStarted        StartOutcome = "started"
	OutcomeAlreadyRunning StartOutcome = "already_running"
	OutcomeProvisioned    StartOutcome = "provisioned"
)

// StartResult reports the outcome of a start operation
type StartResult struct {
	Outcome     StartOutcome
	BackendPort int
	WebUIPort   int
	Output      string
	Healthy     bool
}

// Controller drives create/start/stop/destroy workflows for environments
type Controller struct {
	cfg       *config.ProjectConfig
	runner    shell.Runner
	inspector *container.Inspector
	lifecycle *container.Lifecycle
	gitMgr    *git.Manager
	tmuxOrch  *tmux.Orchestrator
	allocator *ports.Allocator
	locks     *keyedLock

	projectRoot string
	healthURL   func(port int) string
}

// New creates a lifecycle controller
func New(cfg *config.ProjectConfig, runner shell.Runner, gitMgr *git.Manager, projectRoot string) *Controller {
	allocator := ports.New()
	allocator.SetExcluded(cfg.Ports.Exclude)

	return &Controller{
		cfg:         cfg,
		runner:      runner,
		inspector:   container.NewInspector(runner),
		lifecycle:   container.NewLifecycle(runner),
		gitMgr:      gitMgr,
		tmuxOrch:    tmux.New(runner),
		allocator:   allocator,
		locks:       newKeyedLock(),
		projectRoot: projectRoot,
		healthURL: func(port int) string {
			return fmt.Sprintf("http://localhost:%d/health", port)
		},
	}
}

// Start brings an environment up. Stopped containers are started in place;
// running ones make this a no-op; a nonexistent environment goes through the
// external provision workflow.
func (c *Controller) Start(ctx context.Context, name string) (*StartResult, error) {
	if err := validation.EnvironmentName(name); err != nil {
		return nil, err
	}

	unlock := c.locks.lock(name)
	defer unlock()

	containers, err := c.discover(ctx, name)
	if err != nil {
		return nil, err
	}

	if len(containers) == 0 {
		return c.provision(ctx, name)
	}

	var stopped, running []string
	for _, ctr := range containers {
		if ctr.IsRunning() {
			running = append(running, ctr.Name)
		} else {
			stopped = append(stopped, ctr.Name)
		}
	}

	if len(stopped) == 0 {
		logger.WithFields(logger.Fields{"environment": name}).Info("Environment already running")
		return &StartResult{Outcome: OutcomeAlreadyRunning}, nil
	}

	sort.Strings(stopped)
	if err := c.lifecycle.Start(ctx, stopped); err != nil {
		return nil, err
	}

	result := &StartResult{Outcome: OutcomeStarted}
	if port, ok := c.primaryPort(containers); ok {
		result.BackendPort = port
		result.Healthy = c.probeHealth(port)
	}

	logger.WithFields(logger.Fields{
		"environment": name,
		"containers":  len(stopped),
	}).Info("Environment started")

	return result, nil
}

// discover finds the environment's containers: labeled ones by compose
// project value, unlabeled legacy ones by name prefix through the same
// attribution rules the reconciler uses. Without the fallback a legacy
// environment would look empty here and Start would provision a duplicate
// container set next to it.
func (c *Controller) discover(ctx context.Context, name string) ([]container.Container, error) {
	containers, err := c.inspector.DiscoverForProject(ctx, c.cfg.ComposeProject(name))
	if err != nil {
		return nil, err
	}

	candidates, err := c.inspector.DiscoverByName(ctx, c.cfg.Project.Name+"-")
	if err != nil {
		return nil, err
	}

	var unlabeled []container.Container
	for _, ctr := range candidates {
		if ctr.ComposeProject == "" {
			unlabeled = append(unlabeled, ctr)
		}
	}
	grouped := env.GroupContainers(c.cfg, unlabeled)

	return append(containers, grouped[name]...), nil
}

// provision runs the external build workflow that creates containers for the
// first time. The step is opaque: one bounded command with captured output,
// receiving the environment's deterministic ports through its environment.
func (c *Controller) provision(ctx context.Context, name string) (*StartResult, error) {
	if c.cfg.Provision.Command == "" {
		return nil, errors.NewWithDetails(errors.ErrProvisionFailed,
			"no provision command configured", name)
	}

	alloc, err := c.allocator.AllocateForName(name, c.cfg.Ports.BackendBase, c.cfg.Ports.WebUIBase)
	if err != nil {
		return nil, err
	}

	env := []string{
		fmt.Sprintf("USH_ENV_NAME=%s", name),
		fmt.Sprintf("USH_PORT_OFFSET=%d", alloc.Offset),
		fmt.Sprintf("USH_BACKEND_PORT=%d", alloc.BackendPort),
		fmt.Sprintf("USH_WEBUI_PORT=%d", alloc.WebUIPort),
		fmt.Sprintf("COMPOSE_PROJECT_NAME=%s", c.cfg.ComposeProject(name)),
	}

	logger.WithFields(logger.Fields{
		"environment":  name,
		"backend_port": alloc.BackendPort,
	}).Info("Provisioning environment")

	result := c.runner.RunShellIn(ctx, c.projectRoot, env, c.cfg.Provision.Command)
	if !result.Success() {
		return nil, errors.WrapWithDetails(errors.ErrProvisionFailed,
			"provision workflow failed", result.Stderr, result.Err)
	}

	return &StartResult{
		Outcome:     OutcomeProvisioned,
		BackendPort: alloc.BackendPort,
		WebUIPort:   alloc.WebUIPort,
		Output:      result.Stdout,
		Healthy:     c.probeHealth(alloc.BackendPort),
	}, nil
}

// Stop stops every container of the environment regardless of state. No
// containers is a no-op; a failed batch propagates raw stderr to the caller.
func (c *Controller) Stop(ctx context.Context, name string) error {
	if err := validation.EnvironmentName(name); err != nil {
		return err
	}

	unlock := c.locks.lock(name)
	defer unlock()

	containers, err := c.discover(ctx, name)
	if err != nil {
		return err
	}

	if len(containers) == 0 {
		logger.WithFields(logger.Fields{"environment": name}).Info("No containers to stop")
		return nil
	}

	names := make([]string, 0, len(containers))
	for _, ctr := range containers {
		names = append(names, ctr.Name)
	}
	sort.Strings(names)

	if err := c.lifecycle.Stop(ctx, names); err != nil {
		return err
	}

	logger.WithFields(logger.Fields{
		"environment": name,
		"containers":  len(names),
	}).Info("Environment stopped")

	return nil
}

// Create makes a new worktree-backed environment on a fresh branch
func (c *Controller) Create(ctx context.Context, name, branch, base, worktreesDir string) (string, error) {
	if err := validation.EnvironmentName(name); err != nil {
		return "", err
	}

	unlock := c.locks.lock(name)
	defer unlock()

	if branch == "" {
		branch = name
	}
	if base == "" {
		base = "main"
	}

	path := filepath.Join(worktreesDir, name)
	if err := c.gitMgr.AddWorktree(ctx, c.projectRoot, path, branch, base); err != nil {
		return "", err
	}

	logger.WithFields(logger.Fields{
		"environment": name,
		"branch":      branch,
		"path":        path,
	}).Info("Worktree created")

	return path, nil
}

// Destroy stops the environment, kills its tmux session and removes its
// worktree. A dirty worktree without force fails loudly before anything is
// torn down.
func (c *Controller) Destroy(ctx context.Context, name, worktreePath string, force bool) error {
	if err := validation.EnvironmentName(name); err != nil {
		return err
	}

	unlock := c.locks.lock(name)
	defer unlock()

	if worktreePath != "" && !force {
		dirty, err := c.gitMgr.HasUncommittedChanges(worktreePath)
		if err == nil && dirty {
			return errors.NewWithDetails(errors.ErrGitUncommitted,
				"worktree has uncommitted changes, use force to destroy anyway", worktreePath)
		}
	}

	containers, err := c.discover(ctx, name)
	if err != nil {
		return err
	}
	if len(containers) > 0 {
		names := make([]string, 0, len(containers))
		for _, ctr := range containers {
			names = append(names, ctr.Name)
		}
		sort.Strings(names)
		if err := c.lifecycle.Stop(ctx, names); err != nil {
			return err
		}
	}

	if err := c.tmuxOrch.KillSession(ctx, tmux.SessionName(name)); err != nil {
		logger.WithError(err).Warn("Failed to kill tmux session")
	}

	if worktreePath != "" {
		if err := c.gitMgr.RemoveWorktree(ctx, c.projectRoot, worktreePath, force); err != nil {
			return err
		}
	}

	logger.WithFields(logger.Fields{"environment": name}).Info("Environment destroyed")
	return nil
}

// primaryPort finds the primary service's first published port among the
// discovered containers
func (c *Controller) primaryPort(containers []container.Container) (int, bool) {
	for _, ctr := range containers {
		if ctr.ServiceName == c.cfg.Services.Primary && len(ctr.Ports) > 0 {
			return int(ctr.Ports[0].HostPort), true
		}
	}
	return 0, false
}

// probeHealth checks the backend health endpoint under the probe timeout.
// A timeout is a negative result, not an error.
func (c *Controller) probeHealth(port int) bool {
	client := &http.Client{Timeout: constants.HealthProbeTimeout}
	resp, err := client.Get(c.healthURL(port))
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode < 500
}
