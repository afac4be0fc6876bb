package git

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWorktreeList(t *testing.T) {
	output := `worktree /home/user/repos/ushadow
HEAD 1234567890abcdef1234567890abcdef12345678
branch refs/heads/main

worktree /home/user/repos/worktrees/ushadow/feature-auth
HEAD abcdef1234567890abcdef1234567890abcdef12
branch refs/heads/feature/auth

`
	worktrees := ParseWorktreeList(output)

	require.Len(t, worktrees, 2)
	assert.Equal(t, "/home/user/repos/ushadow", worktrees[0].Path)
	assert.Equal(t, "main", worktrees[0].Branch)
	assert.Equal(t, "ushadow", worktrees[0].Name)

	assert.Equal(t, "feature/auth", worktrees[1].Branch)
	assert.Equal(t, "feature-auth", worktrees[1].Name)
}

func TestParseWorktreeListNoTrailingBlankLine(t *testing.T) {
	output := "worktree /home/user/repos/ushadow\nbranch refs/heads/main"

	worktrees := ParseWorktreeList(output)

	require.Len(t, worktrees, 1)
	assert.Equal(t, "main", worktrees[0].Branch)
}

func TestParseWorktreeListSkipsBare(t *testing.T) {
	output := `worktree /home/user/repos/ushadow.git
bare

worktree /home/user/repos/worktrees/ushadow/foo
HEAD abcdef1234567890abcdef1234567890abcdef12
branch refs/heads/foo
`
	worktrees := ParseWorktreeList(output)

	require.Len(t, worktrees, 1)
	assert.Equal(t, "foo", worktrees[0].Name)
}

func TestParseWorktreeListDetachedHead(t *testing.T) {
	// Detached worktrees have no branch line; they still count
	output := `worktree /home/user/repos/worktrees/ushadow/detached
HEAD abcdef1234567890abcdef1234567890abcdef12
detached
`
	worktrees := ParseWorktreeList(output)

	require.Len(t, worktrees, 1)
	assert.Empty(t, worktrees[0].Branch)
	assert.Equal(t, "detached", worktrees[0].Name)
}

func TestParseWorktreeListEmpty(t *testing.T) {
	assert.Empty(t, ParseWorktreeList(""))
}

func TestByNameLastWins(t *testing.T) {
	worktrees := []Worktree{
		{Path: "/a/same", Branch: "one", Name: "same"},
		{Path: "/b/same", Branch: "two", Name: "same"},
	}

	byName := ByName(worktrees)

	require.Len(t, byName, 1)
	assert.Equal(t, "two", byName["same"].Branch)
}
