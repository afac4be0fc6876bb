package env

import (
	"fmt"
	"sort"

	"ush/internal/config"
	"ush/internal/constants"
	"ush/internal/container"
	"ush/internal/git"
)

// Reconciler merges worktree and container discovery output into Environment
// aggregates keyed by environment name
type Reconciler struct {
	cfg *config.ProjectConfig
}

// NewReconciler creates a reconciler for a project
func NewReconciler(cfg *config.ProjectConfig) *Reconciler {
	return &Reconciler{cfg: cfg}
}

// Reconcile merges worktrees with containers grouped by environment name.
// Every worktree yields an Environment even with no containers, and every
// container group without a worktree still yields one: a manually started
// default environment must not vanish from the report. Output is sorted by
// name for deterministic presentation.
func (r *Reconciler) Reconcile(worktrees []git.Worktree, containersByEnv map[string][]container.Container) []Environment {
	byName := git.ByName(worktrees)

	names := make(map[string]bool, len(byName)+len(containersByEnv))
	for name := range byName {
		names[name] = true
	}
	for name := range containersByEnv {
		names[name] = true
	}

	environments := make([]Environment, 0, len(names))
	for name := range names {
		environments = append(environments, r.build(name, byName, containersByEnv[name]))
	}

	sort.Slice(environments, func(i, j int) bool {
		return environments[i].Name < environments[j].Name
	})

	return environments
}

func (r *Reconciler) build(name string, worktrees map[string]git.Worktree, containers []container.Container) Environment {
	e := Environment{
		Name:       name,
		Color:      ColorForName(name),
		Containers: containers,
		Status:     DeriveStatus(containers),
	}

	if wt, ok := worktrees[name]; ok {
		wtCopy := wt
		e.Worktree = &wtCopy
	}

	r.resolvePorts(&e)
	r.resolveTailscale(&e)

	return e
}

// resolvePorts finds the primary service's first published host port and
// derives the webui port from it. A backend port below the delta leaves the
// webui port absent: an explicit unknown, not zero and not an error.
func (r *Reconciler) resolvePorts(e *Environment) {
	for _, c := range e.Containers {
		if c.ServiceName != r.cfg.Services.Primary {
			continue
		}
		if len(c.Ports) == 0 {
			continue
		}

		backend := int(c.Ports[0].HostPort)
		e.BackendPort = &backend

		if backend >= constants.WebUIPortDelta {
			webui := backend - constants.WebUIPortDelta
			e.WebUIPort = &webui
			e.LocalhostURL = LocalhostURL(webui)
		} else {
			e.LocalhostURL = LocalhostURL(backend)
		}
		return
	}
}

// resolveTailscale marks the environment reachable over tailscale when its
// tailscale sidecar container is running
func (r *Reconciler) resolveTailscale(e *Environment) {
	for _, c := range e.Containers {
		if c.ServiceName == "tailscale" && c.IsRunning() {
			e.TailscaleActive = true
			break
		}
	}

	if e.TailscaleActive && r.cfg.Tailscale.Hostname != "" {
		e.TailscaleURL = fmt.Sprintf("https://%s-%s.%s", r.cfg.Project.Name, e.Name, r.cfg.Tailscale.Hostname)
	}
}
