// Package shell executes external processes (git, docker, tmux) and reports
// their outcome as structured results instead of raised errors.
package shell

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
)

// Result captures everything a subprocess produced. Err is set only for
// failures to spawn at all (binary missing, context cancelled); a non-zero
// exit is reported through ExitCode with Err nil.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Err      error
}

// Success reports whether the command ran and exited zero
func (r Result) Success() bool {
	return r.Err == nil && r.ExitCode == 0
}

// Output returns trimmed stdout
func (r Result) Output() string {
	return strings.TrimSpace(r.Stdout)
}

// Runner executes external commands. The interface exists so tests can
// substitute a fake that replays canned output.
type Runner interface {
	// Run executes name with args and blocks until it exits
	Run(ctx context.Context, name string, args ...string) Result

	// RunIn executes name with args in the given working directory
	RunIn(ctx context.Context, dir, name string, args ...string) Result

	// RunShell wraps a raw shell line via PlatformOps and executes it
	RunShell(ctx context.Context, command string) Result

	// RunShellIn executes a shell line in dir with extra environment
	// variables appended to the inherited environment
	RunShellIn(ctx context.Context, dir string, env []string, command string) Result
}

// ExecRunner is the production Runner backed by os/exec
type ExecRunner struct {
	platform PlatformOps
}

// NewRunner creates a Runner using the given platform operations
func NewRunner(platform PlatformOps) *ExecRunner {
	if platform == nil {
		platform = DetectPlatform()
	}
	return &ExecRunner{platform: platform}
}

// Run executes name with args and blocks until it exits
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) Result {
	return r.RunIn(ctx, "", name, args...)
}

// RunIn executes name with args in the given working directory
func (r *ExecRunner) RunIn(ctx context.Context, dir, name string, args ...string) Result {
	cmd := exec.CommandContext(ctx, name, args...)
	if dir != "" {
		cmd.Dir = dir
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if err == nil {
		return result
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		return result
	}

	// Spawn failure: binary missing, context cancelled, permission denied
	result.ExitCode = -1
	result.Err = err
	return result
}

// RunShell wraps a raw shell line via PlatformOps and executes it
func (r *ExecRunner) RunShell(ctx context.Context, command string) Result {
	name, args := r.platform.WrapShell(command)
	return r.Run(ctx, name, args...)
}

// RunShellIn executes a shell line in dir with extra environment variables
func (r *ExecRunner) RunShellIn(ctx context.Context, dir string, env []string, command string) Result {
	name, args := r.platform.WrapShell(command)

	cmd := exec.CommandContext(ctx, name, args...)
	if dir != "" {
		cmd.Dir = dir
	}
	cmd.Env = append(os.Environ(), env...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if err == nil {
		return result
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		return result
	}

	result.ExitCode = -1
	result.Err = err
	return result
}

// IsBinaryMissing reports whether a Result failed because the executable
// could not be found on PATH
func IsBinaryMissing(result Result) bool {
	if result.Err == nil {
		return false
	}
	return errors.Is(result.Err, exec.ErrNotFound)
}
