// Package tmux enumerates tmux state and binds coding-agent windows to
// environments. All state is read from the tmux server on every call.
package tmux

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"ush/internal/constants"
	"ush/internal/errors"
	"ush/internal/shell"
)

// Activity describes what a pane's foreground process appears to be doing
type Activity string

const (
	ActivityWorking Activity = "working"
	ActivityWaiting Activity = "waiting"
	ActivityDone    Activity = "done"
	ActivityError   Activity = "error"
	ActivityUnknown Activity = "unknown"
)

// Pane is one tmux pane with its location and foreground command
type Pane struct {
	Path    string
	Target  string // session:window.pane
	Command string
}

// Window describes a tmux window and its derived activity
type Window struct {
	Session        string
	WindowIndex    int
	PaneIndex      int
	CurrentCommand string
	Activity       Activity
}

// listPanesFormat matches the documented external interface: one line per
// pane with path, target, and current command, tab separated.
const listPanesFormat = "#{pane_current_path}\t#{session_name}:#{window_index}.#{pane_index}\t#{pane_current_command}"

// Orchestrator drives the tmux CLI
type Orchestrator struct {
	runner shell.Runner
}

// New creates a tmux orchestrator
func New(runner shell.Runner) *Orchestrator {
	return &Orchestrator{runner: runner}
}

// ListPanes enumerates every pane across all sessions
func (o *Orchestrator) ListPanes(ctx context.Context) ([]Pane, error) {
	result := o.runner.Run(ctx, "tmux", "list-panes", "-a", "-F", listPanesFormat)
	if shell.IsBinaryMissing(result) {
		return nil, errors.Wrap(errors.ErrTmuxUnavailable, "tmux executable not found", result.Err)
	}
	if !result.Success() {
		// No server running is a normal state: no panes
		if strings.Contains(result.Stderr, "no server") || strings.Contains(result.Stderr, "No such file") {
			return nil, nil
		}
		return nil, errors.NewWithDetails(errors.ErrTmuxUnavailable,
			"tmux list-panes failed", strings.TrimSpace(result.Stderr))
	}

	return ParsePaneList(result.Stdout), nil
}

// ParsePaneList parses the tab-separated list-panes output. Malformed lines
// are skipped so one odd pane cannot blank the whole listing.
func ParsePaneList(output string) []Pane {
	var panes []Pane
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		fields := strings.SplitN(line, "\t", 3)
		if len(fields) != 3 {
			continue
		}
		panes = append(panes, Pane{Path: fields[0], Target: fields[1], Command: fields[2]})
	}
	return panes
}

// FindPaneForPath picks the pane best matching a working directory. A pane
// matches when its path and the requested path are prefix-related in either
// direction; matches rank by longest shared path, then by whether the
// foreground command looks like an agent process.
func (o *Orchestrator) FindPaneForPath(ctx context.Context, cwd string) (Pane, error) {
	panes, err := o.ListPanes(ctx)
	if err != nil {
		return Pane{}, err
	}

	best, ok := RankPanes(panes, cwd)
	if !ok {
		return Pane{}, errors.NewWithDetails(errors.ErrPaneNotFound, "no pane matches path", cwd)
	}
	return best, nil
}

// RankPanes applies the pane-matching algorithm to a pane list
func RankPanes(panes []Pane, cwd string) (Pane, bool) {
	type candidate struct {
		pane  Pane
		depth int
		agent bool
	}

	var candidates []candidate
	for _, p := range panes {
		if !pathsPrefixRelated(p.Path, cwd) {
			continue
		}
		candidates = append(candidates, candidate{
			pane:  p,
			depth: len(p.Path),
			agent: looksLikeAgent(p.Command),
		})
	}

	if len(candidates) == 0 {
		return Pane{}, false
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].depth != candidates[j].depth {
			return candidates[i].depth > candidates[j].depth
		}
		return candidates[i].agent && !candidates[j].agent
	})

	return candidates[0].pane, true
}

// pathsPrefixRelated reports whether either path is a path-prefix of the
// other, on component boundaries
func pathsPrefixRelated(a, b string) bool {
	return isPathPrefix(a, b) || isPathPrefix(b, a)
}

func isPathPrefix(prefix, path string) bool {
	if prefix == path {
		return true
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return strings.HasPrefix(path, prefix)
}

// looksLikeAgent reports whether a foreground command resembles a coding
// agent process
func looksLikeAgent(command string) bool {
	return strings.Contains(command, "claude") || strings.Contains(command, "node")
}

// SendKey sends one key to a pane followed by Enter
func (o *Orchestrator) SendKey(ctx context.Context, paneTarget, key string) error {
	result := o.runner.Run(ctx, "tmux", "send-keys", "-t", paneTarget, key, "Enter")
	if shell.IsBinaryMissing(result) {
		return errors.Wrap(errors.ErrTmuxUnavailable, "tmux executable not found", result.Err)
	}
	if !result.Success() {
		return errors.NewWithDetails(errors.ErrTmuxUnavailable,
			"tmux send-keys failed", strings.TrimSpace(result.Stderr))
	}
	return nil
}

// SessionName returns the tmux session name for an environment
func SessionName(envName string) string {
	return constants.TmuxSessionPrefix + envName
}

// WindowName returns the ticket window name for a branch. Slashes in branch
// names would break tmux targets, so they become dashes.
func WindowName(branch string) string {
	return constants.TmuxWindowPrefix + strings.ReplaceAll(branch, "/", "-")
}

// BindWindow ensures a session/window pair exists rooted at workingDir.
// Missing session: created with the window in one step. Existing session
// without the window: window added. Window already present: no-op.
func (o *Orchestrator) BindWindow(ctx context.Context, sessionName, windowName, workingDir string) error {
	if !o.hasSession(ctx, sessionName) {
		result := o.runner.Run(ctx, "tmux", "new-session", "-d",
			"-s", sessionName, "-c", workingDir, "-n", windowName)
		if shell.IsBinaryMissing(result) {
			return errors.Wrap(errors.ErrTmuxUnavailable, "tmux executable not found", result.Err)
		}
		if !result.Success() {
			return errors.NewWithDetails(errors.ErrTmuxUnavailable,
				"tmux new-session failed", strings.TrimSpace(result.Stderr))
		}
		return nil
	}

	if o.hasWindow(ctx, sessionName, windowName) {
		return nil
	}

	result := o.runner.Run(ctx, "tmux", "new-window", "-t", sessionName,
		"-n", windowName, "-c", workingDir)
	if !result.Success() {
		return errors.NewWithDetails(errors.ErrTmuxUnavailable,
			"tmux new-window failed", strings.TrimSpace(result.Stderr))
	}
	return nil
}

// KillSession terminates an environment's session if it exists
func (o *Orchestrator) KillSession(ctx context.Context, sessionName string) error {
	if !o.hasSession(ctx, sessionName) {
		return nil
	}
	result := o.runner.Run(ctx, "tmux", "kill-session", "-t", sessionName)
	if !result.Success() {
		return errors.NewWithDetails(errors.ErrTmuxUnavailable,
			"tmux kill-session failed", strings.TrimSpace(result.Stderr))
	}
	return nil
}

func (o *Orchestrator) hasSession(ctx context.Context, sessionName string) bool {
	return o.runner.Run(ctx, "tmux", "has-session", "-t", sessionName).Success()
}

func (o *Orchestrator) hasWindow(ctx context.Context, sessionName, windowName string) bool {
	result := o.runner.Run(ctx, "tmux", "list-windows", "-t", sessionName, "-F", "#{window_name}")
	if !result.Success() {
		return false
	}
	for _, name := range strings.Split(result.Stdout, "\n") {
		if strings.TrimSpace(name) == windowName {
			return true
		}
	}
	return false
}

// ListWindows enumerates the windows of one session with derived activity.
// pane_dead_status carries the exit code of dead panes (remain-on-exit);
// for live panes the field is empty and activity falls back to the
// foreground command alone.
func (o *Orchestrator) ListWindows(ctx context.Context, sessionName string) ([]Window, error) {
	format := "#{window_index}\t#{pane_index}\t#{pane_current_command}\t#{pane_dead_status}"
	result := o.runner.Run(ctx, "tmux", "list-panes", "-s", "-t", sessionName, "-F", format)
	if shell.IsBinaryMissing(result) {
		return nil, errors.Wrap(errors.ErrTmuxUnavailable, "tmux executable not found", result.Err)
	}
	if !result.Success() {
		return nil, errors.NewWithDetails(errors.ErrTmuxUnavailable,
			"tmux list-panes failed", strings.TrimSpace(result.Stderr))
	}

	var windows []Window
	for _, line := range strings.Split(result.Stdout, "\n") {
		if line == "" {
			continue
		}
		fields := strings.SplitN(line, "\t", 4)
		if len(fields) < 3 {
			continue
		}
		var windowIndex, paneIndex int
		fmt.Sscanf(fields[0], "%d", &windowIndex)
		fmt.Sscanf(fields[1], "%d", &paneIndex)

		var lastExit *int
		if len(fields) == 4 && fields[3] != "" {
			if code, err := strconv.Atoi(fields[3]); err == nil {
				lastExit = &code
			}
		}

		windows = append(windows, Window{
			Session:        sessionName,
			WindowIndex:    windowIndex,
			PaneIndex:      paneIndex,
			CurrentCommand: fields[2],
			Activity:       DeriveActivity(fields[2], lastExit),
		})
	}
	return windows, nil
}

// DeriveActivity infers pane activity from the foreground command and, when
// known, the last exit code. No signal means Unknown, never an optimistic
// guess.
func DeriveActivity(command string, lastExit *int) Activity {
	if looksLikeAgent(command) {
		return ActivityWorking
	}

	switch command {
	case "bash", "zsh", "sh", "fish":
		if lastExit == nil {
			return ActivityWaiting
		}
		if *lastExit == 0 {
			return ActivityDone
		}
		return ActivityError
	}

	if command == "" {
		return ActivityUnknown
	}
	return ActivityUnknown
}
