// Package testutil provides shared test fakes and database helpers
package testutil

import (
	"context"
	"strings"
	"sync"

	"ush/internal/shell"
)

// FakeRunner is a shell.Runner that replays canned results keyed by the
// command line. Unmatched commands return a zero-exit empty result, so tests
// only script the commands they care about.
type FakeRunner struct {
	mu      sync.Mutex
	results map[string]shell.Result
	calls   []string
}

// NewFakeRunner creates an empty fake runner
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{results: make(map[string]shell.Result)}
}

// Stub registers the result returned for the exact command line, e.g.
// "docker ps -a".
func (f *FakeRunner) Stub(commandLine string, result shell.Result) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results[commandLine] = result
}

// StubOutput registers a successful result with the given stdout
func (f *FakeRunner) StubOutput(commandLine, stdout string) {
	f.Stub(commandLine, shell.Result{Stdout: stdout})
}

// StubFailure registers a non-zero exit with the given stderr
func (f *FakeRunner) StubFailure(commandLine, stderr string, exitCode int) {
	f.Stub(commandLine, shell.Result{Stderr: stderr, ExitCode: exitCode})
}

// Calls returns every command line executed so far
func (f *FakeRunner) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// CalledWith reports whether any recorded call starts with the given prefix
func (f *FakeRunner) CalledWith(prefix string) bool {
	for _, call := range f.Calls() {
		if strings.HasPrefix(call, prefix) {
			return true
		}
	}
	return false
}

func (f *FakeRunner) lookup(commandLine string) shell.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, commandLine)
	if result, ok := f.results[commandLine]; ok {
		return result
	}
	return shell.Result{}
}

// Run implements shell.Runner
func (f *FakeRunner) Run(ctx context.Context, name string, args ...string) shell.Result {
	return f.lookup(strings.Join(append([]string{name}, args...), " "))
}

// RunIn implements shell.Runner
func (f *FakeRunner) RunIn(ctx context.Context, dir, name string, args ...string) shell.Result {
	return f.lookup(strings.Join(append([]string{name}, args...), " "))
}

// RunShell implements shell.Runner
func (f *FakeRunner) RunShell(ctx context.Context, command string) shell.Result {
	return f.lookup(command)
}

// RunShellIn implements shell.Runner
func (f *FakeRunner) RunShellIn(ctx context.Context, dir string, env []string, command string) shell.Result {
	return f.lookup(command)
}
