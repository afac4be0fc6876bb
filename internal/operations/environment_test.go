package operations_test

import (
	"context"
	"testing"

	"ush/internal/config"
	"ush/internal/env"
	"ush/internal/operations"
	"ush/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListIncludesUnlabeledLegacyContainers(t *testing.T) {
	runner := testutil.NewFakeRunner()
	runner.StubOutput("git worktree list --porcelain", "")
	runner.StubOutput("docker ps -a --filter label=com.docker.compose.project --format {{.Names}}", "")
	runner.StubOutput("docker ps -a --filter name=ushadow- --format {{.Names}}", "ushadow-legacy-backend\n")
	runner.StubOutput("docker inspect ushadow-legacy-backend", `[{
		"Name": "/ushadow-legacy-backend",
		"State": {"Status": "running"},
		"Config": {"Labels": {}},
		"NetworkSettings": {"Ports": {}}
	}]`)

	ops := operations.NewEnvironmentOperations(config.DefaultProjectConfig(), runner, "/repo")
	environments, err := ops.List(context.Background())
	require.NoError(t, err)

	// The unlabeled container is attributed by name and still shows up
	require.Len(t, environments, 1)
	assert.Equal(t, "legacy", environments[0].Name)
	assert.Equal(t, env.StatusRunning, environments[0].Status)
}

func TestListKeepsLabeledContainersOutOfNameFallback(t *testing.T) {
	runner := testutil.NewFakeRunner()
	runner.StubOutput("git worktree list --porcelain", "")
	labeled := `[{
		"Name": "/ushadow-foo-backend",
		"State": {"Status": "running"},
		"Config": {"Labels": {
			"com.docker.compose.project": "ushadow-foo",
			"com.docker.compose.service": "backend"
		}},
		"NetworkSettings": {"Ports": {}}
	}]`
	runner.StubOutput("docker ps -a --filter label=com.docker.compose.project --format {{.Names}}", "ushadow-foo-backend\n")
	// The name pass sees the same container; its label keeps it out of
	// the fallback so it is not attributed twice
	runner.StubOutput("docker ps -a --filter name=ushadow- --format {{.Names}}", "ushadow-foo-backend\n")
	runner.StubOutput("docker inspect ushadow-foo-backend", labeled)

	ops := operations.NewEnvironmentOperations(config.DefaultProjectConfig(), runner, "/repo")
	environments, err := ops.List(context.Background())
	require.NoError(t, err)

	require.Len(t, environments, 1)
	assert.Equal(t, "foo", environments[0].Name)
	assert.Len(t, environments[0].Containers, 1)
}
