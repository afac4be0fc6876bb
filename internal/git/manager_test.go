package git

import (
	"context"
	"testing"

	"ush/internal/errors"
	"ush/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddWorktreeRejectsTraversalPath(t *testing.T) {
	runner := testutil.NewFakeRunner()

	m := New(runner)
	err := m.AddWorktree(context.Background(), "/repo", "../outside/env", "env", "main")

	// Refused before git runs and before anything touches the filesystem
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrInvalidPath))
	assert.Empty(t, runner.Calls())
}
