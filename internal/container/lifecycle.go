package container

import (
	"context"
	"strings"

	"ush/internal/errors"
	"ush/internal/shell"
	"ush/internal/validation"
)

// Lifecycle toggles container state through the docker CLI
type Lifecycle struct {
	runner shell.Runner
}

// NewLifecycle creates a container lifecycle handler
func NewLifecycle(runner shell.Runner) *Lifecycle {
	return &Lifecycle{runner: runner}
}

// Start starts the named containers in one docker invocation
func (l *Lifecycle) Start(ctx context.Context, names []string) error {
	if len(names) == 0 {
		return nil
	}
	if err := validateNames(names); err != nil {
		return err
	}

	args := append([]string{"start"}, names...)
	result := l.runner.Run(ctx, "docker", args...)
	if shell.IsBinaryMissing(result) {
		return errors.Wrap(errors.ErrToolUnavailable, "docker executable not found", result.Err)
	}
	if !result.Success() {
		return errors.NewWithDetails(errors.ErrContainerStart,
			"docker start failed", strings.TrimSpace(result.Stderr))
	}
	return nil
}

// Stop stops the named containers as one batch command. The batch either
// succeeds whole or is reported failed whole: on non-zero exit the raw
// stderr goes back to the caller for manual reconciliation, with no attempt
// at partial bookkeeping even if some containers did stop.
func (l *Lifecycle) Stop(ctx context.Context, names []string) error {
	if len(names) == 0 {
		return nil
	}
	if err := validateNames(names); err != nil {
		return err
	}

	args := append([]string{"stop"}, names...)
	result := l.runner.Run(ctx, "docker", args...)
	if shell.IsBinaryMissing(result) {
		return errors.Wrap(errors.ErrToolUnavailable, "docker executable not found", result.Err)
	}
	if !result.Success() {
		return errors.NewWithDetails(errors.ErrContainerStop,
			"docker stop failed", strings.TrimSpace(result.Stderr))
	}
	return nil
}

// validateNames rejects any name that could smuggle extra arguments into
// the docker command line
func validateNames(names []string) error {
	for _, name := range names {
		if err := validation.ContainerName(name); err != nil {
			return err
		}
	}
	return nil
}

// IsAvailable checks whether the docker CLI responds
func (l *Lifecycle) IsAvailable(ctx context.Context) bool {
	return l.runner.Run(ctx, "docker", "--version").Success()
}
