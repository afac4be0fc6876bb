package tmux_test

import (
	"context"
	"testing"

	"ush/internal/shell"
	"ush/internal/testutil"
	"ush/internal/tmux"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePaneList(t *testing.T) {
	output := "/home/user/repos/ushadow\tmain:0.0\tzsh\n" +
		"/home/user/repos/worktrees/ushadow/feature-auth\tush-feature-auth:1.0\tclaude\n" +
		"malformed line without tabs\n"

	panes := tmux.ParsePaneList(output)

	require.Len(t, panes, 2)
	assert.Equal(t, "/home/user/repos/ushadow", panes[0].Path)
	assert.Equal(t, "main:0.0", panes[0].Target)
	assert.Equal(t, "zsh", panes[0].Command)
	assert.Equal(t, "claude", panes[1].Command)
}

func TestRankPanesDeepestPathWins(t *testing.T) {
	panes := []tmux.Pane{
		{Path: "/home/user/repos", Target: "a:0.0", Command: "zsh"},
		{Path: "/home/user/repos/worktrees/ushadow/feature-auth", Target: "b:0.0", Command: "zsh"},
	}

	best, ok := tmux.RankPanes(panes, "/home/user/repos/worktrees/ushadow/feature-auth")
	require.True(t, ok)
	assert.Equal(t, "b:0.0", best.Target)
}

func TestRankPanesAgentBreaksTies(t *testing.T) {
	panes := []tmux.Pane{
		{Path: "/work/env", Target: "shell:0.0", Command: "zsh"},
		{Path: "/work/env", Target: "agent:0.0", Command: "claude"},
	}

	best, ok := tmux.RankPanes(panes, "/work/env")
	require.True(t, ok)
	assert.Equal(t, "agent:0.0", best.Target)
}

func TestRankPanesPrefixEitherDirection(t *testing.T) {
	// Pane sits deeper than the requested path
	panes := []tmux.Pane{
		{Path: "/work/env/src/ui", Target: "deep:0.0", Command: "node"},
	}

	best, ok := tmux.RankPanes(panes, "/work/env")
	require.True(t, ok)
	assert.Equal(t, "deep:0.0", best.Target)
}

func TestRankPanesComponentBoundary(t *testing.T) {
	// "/work/env2" is not inside "/work/env"
	panes := []tmux.Pane{
		{Path: "/work/env2", Target: "other:0.0", Command: "zsh"},
	}

	_, ok := tmux.RankPanes(panes, "/work/env")
	assert.False(t, ok)
}

func TestRankPanesNoMatch(t *testing.T) {
	_, ok := tmux.RankPanes(nil, "/nowhere")
	assert.False(t, ok)
}

func TestListPanesNoServerIsEmpty(t *testing.T) {
	runner := testutil.NewFakeRunner()
	runner.Stub("tmux list-panes -a -F #{pane_current_path}\t#{session_name}:#{window_index}.#{pane_index}\t#{pane_current_command}",
		shell.Result{Stderr: "no server running on /tmp/tmux-1000/default", ExitCode: 1})

	o := tmux.New(runner)
	panes, err := o.ListPanes(context.Background())
	require.NoError(t, err)
	assert.Empty(t, panes)
}

func TestBindWindowCreatesSession(t *testing.T) {
	runner := testutil.NewFakeRunner()
	runner.StubFailure("tmux has-session -t ush-foo", "can't find session: ush-foo", 1)

	o := tmux.New(runner)
	err := o.BindWindow(context.Background(), "ush-foo", "ushadow-foo", "/work/foo")
	require.NoError(t, err)

	assert.True(t, runner.CalledWith("tmux new-session -d -s ush-foo -c /work/foo -n ushadow-foo"))
}

func TestBindWindowAddsWindowToExistingSession(t *testing.T) {
	runner := testutil.NewFakeRunner()
	runner.StubOutput("tmux has-session -t ush-foo", "")
	runner.StubOutput("tmux list-windows -t ush-foo -F #{window_name}", "ushadow-other\n")

	o := tmux.New(runner)
	err := o.BindWindow(context.Background(), "ush-foo", "ushadow-foo", "/work/foo")
	require.NoError(t, err)

	assert.True(t, runner.CalledWith("tmux new-window -t ush-foo -n ushadow-foo -c /work/foo"))
}

func TestBindWindowIsIdempotent(t *testing.T) {
	runner := testutil.NewFakeRunner()
	runner.StubOutput("tmux has-session -t ush-foo", "")
	runner.StubOutput("tmux list-windows -t ush-foo -F #{window_name}", "ushadow-foo\n")

	o := tmux.New(runner)
	err := o.BindWindow(context.Background(), "ush-foo", "ushadow-foo", "/work/foo")
	require.NoError(t, err)

	assert.False(t, runner.CalledWith("tmux new-window"))
	assert.False(t, runner.CalledWith("tmux new-session"))
}

func TestSessionAndWindowNames(t *testing.T) {
	assert.Equal(t, "ush-feature-auth", tmux.SessionName("feature-auth"))
	assert.Equal(t, "ushadow-feature-auth", tmux.WindowName("feature/auth"))
}

func TestSendKey(t *testing.T) {
	runner := testutil.NewFakeRunner()

	o := tmux.New(runner)
	require.NoError(t, o.SendKey(context.Background(), "ush-foo:1.0", "Up"))

	calls := runner.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "tmux send-keys -t ush-foo:1.0 Up Enter", calls[0])
}

func TestListWindowsDerivesActivityFromDeadStatus(t *testing.T) {
	runner := testutil.NewFakeRunner()
	runner.StubOutput("tmux list-panes -s -t ush-foo -F #{window_index}\t#{pane_index}\t#{pane_current_command}\t#{pane_dead_status}",
		"0\t0\tclaude\t\n"+
			"1\t0\tbash\t\n"+
			"2\t0\tbash\t0\n"+
			"3\t0\tbash\t1\n")

	o := tmux.New(runner)
	windows, err := o.ListWindows(context.Background(), "ush-foo")
	require.NoError(t, err)
	require.Len(t, windows, 4)

	assert.Equal(t, tmux.ActivityWorking, windows[0].Activity)
	// Live shell pane: no exit signal
	assert.Equal(t, tmux.ActivityWaiting, windows[1].Activity)
	// Dead panes report their exit status
	assert.Equal(t, tmux.ActivityDone, windows[2].Activity)
	assert.Equal(t, tmux.ActivityError, windows[3].Activity)
	assert.Equal(t, 3, windows[3].WindowIndex)
}

func TestDeriveActivity(t *testing.T) {
	exitZero := 0
	exitOne := 1

	tests := []struct {
		command  string
		lastExit *int
		want     tmux.Activity
	}{
		{"claude", nil, tmux.ActivityWorking},
		{"node", nil, tmux.ActivityWorking},
		{"zsh", nil, tmux.ActivityWaiting},
		{"bash", &exitZero, tmux.ActivityDone},
		{"bash", &exitOne, tmux.ActivityError},
		{"vim", nil, tmux.ActivityUnknown},
		{"", nil, tmux.ActivityUnknown},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tmux.DeriveActivity(tt.command, tt.lastExit), "command %q", tt.command)
	}
}
