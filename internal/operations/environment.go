package operations

import (
	"context"

	"ush/internal/config"
	"ush/internal/container"
	"ush/internal/env"
	"ush/internal/git"
	"ush/internal/shell"
)

// EnvironmentOperations builds environment snapshots by reconciling git
// worktrees against running containers
type EnvironmentOperations struct {
	cfg         *config.ProjectConfig
	registry    *git.Registry
	inspector   *container.Inspector
	reconciler  *env.Reconciler
	projectRoot string
}

// NewEnvironmentOperations creates environment operations for a project
func NewEnvironmentOperations(cfg *config.ProjectConfig, runner shell.Runner, projectRoot string) *EnvironmentOperations {
	return &EnvironmentOperations{
		cfg:         cfg,
		registry:    git.NewRegistry(runner),
		inspector:   container.NewInspector(runner),
		reconciler:  env.NewReconciler(cfg),
		projectRoot: projectRoot,
	}
}

// List returns the reconciled view of every environment, derived fresh from
// git and docker on each call. Worktree discovery failure is fatal; container
// discovery failure degrades to a container-less report so that a stopped
// docker daemon does not hide worktrees.
func (o *EnvironmentOperations) List(ctx context.Context) ([]env.Environment, error) {
	worktrees, err := o.registry.List(ctx, o.projectRoot)
	if err != nil {
		return nil, err
	}

	containers, err := o.inspector.DiscoverLabeled(ctx)
	if err != nil {
		containers = nil
	}

	// Pre-compose legacy containers carry no labels and are invisible to
	// the label filter; a second pass finds them by name prefix so the
	// name-based attribution fallback has something to attribute.
	if legacy, err := o.inspector.DiscoverByName(ctx, o.cfg.Project.Name+"-"); err == nil {
		for _, c := range legacy {
			if c.ComposeProject == "" {
				containers = append(containers, c)
			}
		}
	}

	grouped := env.GroupContainers(o.cfg, containers)
	return o.reconciler.Reconcile(worktrees, grouped), nil
}

// Get returns a single environment by name
func (o *EnvironmentOperations) Get(ctx context.Context, name string) (*env.Environment, error) {
	environments, err := o.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range environments {
		if environments[i].Name == name {
			return &environments[i], nil
		}
	}
	return nil, env.ErrNotFound(name)
}
