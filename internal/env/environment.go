// Package env builds the merged Environment model from live git, docker and
// tmux state. Environments are rebuilt from scratch on every reconciliation
// pass and never persisted.
package env

import (
	"fmt"

	"ush/internal/container"
	"ush/internal/errors"
	"ush/internal/git"
)

// Status is the derived health of an environment, ordered from empty to
// fully running
type Status string

const (
	// StatusAvailable means no containers exist for the environment
	StatusAvailable Status = "available"
	// StatusStopped means containers exist but none are running
	StatusStopped Status = "stopped"
	// StatusPartial means some but not all containers are running
	StatusPartial Status = "partial"
	// StatusRunning means all containers are running
	StatusRunning Status = "running"
)

// Environment is the merged view of one isolated development environment
type Environment struct {
	Name            string                `json:"name"`
	Color           string                `json:"color"`
	Worktree        *git.Worktree         `json:"worktree,omitempty"`
	Containers      []container.Container `json:"containers"`
	Status          Status                `json:"status"`
	BackendPort     *int                  `json:"backend_port,omitempty"`
	WebUIPort       *int                  `json:"webui_port,omitempty"`
	LocalhostURL    string                `json:"localhost_url,omitempty"`
	TailscaleURL    string                `json:"tailscale_url,omitempty"`
	TailscaleActive bool                  `json:"tailscale_active"`
}

// HasWorktree reports whether the environment is worktree-backed
func (e *Environment) HasWorktree() bool {
	return e.Worktree != nil
}

// DeriveStatus computes environment status purely from the container list:
// Available iff empty, Running iff all running, Stopped iff none running,
// Partial otherwise.
func DeriveStatus(containers []container.Container) Status {
	if len(containers) == 0 {
		return StatusAvailable
	}

	running := 0
	for _, c := range containers {
		if c.IsRunning() {
			running++
		}
	}

	switch {
	case running == len(containers):
		return StatusRunning
	case running == 0:
		return StatusStopped
	default:
		return StatusPartial
	}
}

// palette holds the colors assigned to environments; the assignment only
// needs to be stable per name, not unique
var palette = []string{
	"#4fc3f7", "#81c784", "#ffb74d", "#e57373",
	"#ba68c8", "#4db6ac", "#f06292", "#a1887f",
}

// ColorForName deterministically picks a display color for an environment
func ColorForName(name string) string {
	sum := 0
	for _, b := range []byte(name) {
		sum += int(b)
	}
	return palette[sum%len(palette)]
}

// ErrNotFound builds the typed error for a missing environment
func ErrNotFound(name string) error {
	return errors.NewWithDetails(errors.ErrEnvironmentNotFound, "environment not found", name)
}

// LocalhostURL builds the local browser URL for a port
func LocalhostURL(port int) string {
	return fmt.Sprintf("http://localhost:%d", port)
}
