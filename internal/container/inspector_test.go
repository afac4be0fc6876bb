package container_test

import (
	"context"
	"testing"

	"ush/internal/container"
	"ush/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const backendInspectJSON = `[{
	"Name": "/ushadow-foo-backend",
	"State": {"Status": "running"},
	"Config": {"Labels": {
		"com.docker.compose.project": "ushadow-foo",
		"com.docker.compose.service": "backend"
	}},
	"NetworkSettings": {"Ports": {
		"8000/tcp": [
			{"HostIp": "0.0.0.0", "HostPort": "8120"},
			{"HostIp": "::", "HostPort": "8120"}
		]
	}}
}]`

const redisInspectJSON = `[{
	"Name": "/ushadow-foo-redis",
	"State": {"Status": "exited"},
	"Config": {"Labels": {
		"com.docker.compose.project": "ushadow-foo",
		"com.docker.compose.service": "redis"
	}},
	"NetworkSettings": {"Ports": {}}
}]`

func TestDiscoverForProject(t *testing.T) {
	runner := testutil.NewFakeRunner()
	runner.StubOutput("docker ps -a --filter label=com.docker.compose.project=ushadow-foo --format {{.Names}}",
		"ushadow-foo-backend\nushadow-foo-redis\n")
	runner.StubOutput("docker inspect ushadow-foo-backend", backendInspectJSON)
	runner.StubOutput("docker inspect ushadow-foo-redis", redisInspectJSON)

	inspector := container.NewInspector(runner)
	containers, err := inspector.DiscoverForProject(context.Background(), "ushadow-foo")
	require.NoError(t, err)
	require.Len(t, containers, 2)

	backend := containers[0]
	assert.Equal(t, "ushadow-foo-backend", backend.Name)
	assert.Equal(t, "backend", backend.ServiceName)
	assert.Equal(t, "ushadow-foo", backend.ComposeProject)
	assert.True(t, backend.IsRunning())

	// Dual-stack publish keeps both bindings
	require.Len(t, backend.Ports, 2)
	assert.Equal(t, uint16(8120), backend.Ports[0].HostPort)
	assert.Equal(t, uint16(8000), backend.Ports[0].ContainerPort)
	assert.Equal(t, "tcp", backend.Ports[0].Protocol)

	assert.False(t, containers[1].IsRunning())
	assert.Empty(t, containers[1].Ports)
}

func TestInspectPortOrderStable(t *testing.T) {
	// JSON object order must not leak into Ports: the lowest container
	// port anchors the environment's port math, whatever docker emits
	// first.
	runner := testutil.NewFakeRunner()
	runner.StubOutput("docker inspect ushadow-foo-backend", `[{
		"Name": "/ushadow-foo-backend",
		"State": {"Status": "running"},
		"Config": {"Labels": {
			"com.docker.compose.project": "ushadow-foo",
			"com.docker.compose.service": "backend"
		}},
		"NetworkSettings": {"Ports": {
			"9229/tcp": [{"HostIp": "0.0.0.0", "HostPort": "9349"}],
			"8000/tcp": [{"HostIp": "0.0.0.0", "HostPort": "8120"}]
		}}
	}]`)

	inspector := container.NewInspector(runner)
	for i := 0; i < 50; i++ {
		c, err := inspector.Inspect(context.Background(), "ushadow-foo-backend")
		require.NoError(t, err)
		require.Len(t, c.Ports, 2)
		assert.Equal(t, uint16(8000), c.Ports[0].ContainerPort)
		assert.Equal(t, uint16(8120), c.Ports[0].HostPort)
		assert.Equal(t, uint16(9229), c.Ports[1].ContainerPort)
	}
}

func TestDiscoverForProjectSkipsFailedInspect(t *testing.T) {
	runner := testutil.NewFakeRunner()
	runner.StubOutput("docker ps -a --filter label=com.docker.compose.project=ushadow-foo --format {{.Names}}",
		"ushadow-foo-backend\nushadow-foo-gone\n")
	runner.StubOutput("docker inspect ushadow-foo-backend", backendInspectJSON)
	runner.StubFailure("docker inspect ushadow-foo-gone",
		"Error: No such object: ushadow-foo-gone", 1)

	inspector := container.NewInspector(runner)
	containers, err := inspector.DiscoverForProject(context.Background(), "ushadow-foo")

	// The removal race drops one container, not the whole discovery
	require.NoError(t, err)
	require.Len(t, containers, 1)
	assert.Equal(t, "ushadow-foo-backend", containers[0].Name)
}

func TestDiscoverForProjectEmptyOutput(t *testing.T) {
	runner := testutil.NewFakeRunner()
	runner.StubOutput("docker ps -a --filter label=com.docker.compose.project=ushadow-nope --format {{.Names}}", "")

	inspector := container.NewInspector(runner)
	containers, err := inspector.DiscoverForProject(context.Background(), "ushadow-nope")
	require.NoError(t, err)
	assert.Empty(t, containers)
}

func TestDiscoverForProjectPsFailure(t *testing.T) {
	runner := testutil.NewFakeRunner()
	runner.StubFailure("docker ps -a --filter label=com.docker.compose.project=ushadow-foo --format {{.Names}}",
		"Cannot connect to the Docker daemon", 1)

	inspector := container.NewInspector(runner)
	_, err := inspector.DiscoverForProject(context.Background(), "ushadow-foo")
	assert.Error(t, err)
}

func TestInspectMissingLabels(t *testing.T) {
	runner := testutil.NewFakeRunner()
	runner.StubOutput("docker inspect plain", `[{
		"Name": "/plain",
		"State": {"Status": "running"},
		"Config": {"Labels": {}},
		"NetworkSettings": {"Ports": {}}
	}]`)

	inspector := container.NewInspector(runner)
	c, err := inspector.Inspect(context.Background(), "plain")
	require.NoError(t, err)

	assert.Equal(t, "plain", c.Name)
	assert.Equal(t, "unknown", c.ServiceName)
	assert.Empty(t, c.ComposeProject)
}

func TestInspectUnparseablePortSkipped(t *testing.T) {
	runner := testutil.NewFakeRunner()
	runner.StubOutput("docker inspect weird", `[{
		"Name": "/weird",
		"State": {"Status": "running"},
		"Config": {"Labels": {}},
		"NetworkSettings": {"Ports": {
			"bogus/tcp": [{"HostIp": "0.0.0.0", "HostPort": "8120"}],
			"8000/tcp": [{"HostIp": "0.0.0.0", "HostPort": "notaport"}],
			"9000/udp": [{"HostIp": "0.0.0.0", "HostPort": "9100"}]
		}}
	}]`)

	inspector := container.NewInspector(runner)
	c, err := inspector.Inspect(context.Background(), "weird")
	require.NoError(t, err)

	require.Len(t, c.Ports, 1)
	assert.Equal(t, uint16(9100), c.Ports[0].HostPort)
	assert.Equal(t, "udp", c.Ports[0].Protocol)
}

func TestLifecycleStopBatchFailure(t *testing.T) {
	runner := testutil.NewFakeRunner()
	runner.StubFailure("docker stop a b", "Error response from daemon: cannot stop b", 1)

	lc := container.NewLifecycle(runner)
	err := lc.Stop(context.Background(), []string{"a", "b"})

	// Whole batch reported failed with raw stderr, no partial bookkeeping
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot stop b")
}

func TestLifecycleStopNoContainers(t *testing.T) {
	runner := testutil.NewFakeRunner()

	lc := container.NewLifecycle(runner)
	require.NoError(t, lc.Stop(context.Background(), nil))
	assert.Empty(t, runner.Calls())
}

func TestLifecycleRejectsUnsafeNames(t *testing.T) {
	runner := testutil.NewFakeRunner()

	lc := container.NewLifecycle(runner)
	err := lc.Stop(context.Background(), []string{"ok", "bad name; rm -rf"})
	require.Error(t, err)
	assert.Empty(t, runner.Calls())

	err = lc.Start(context.Background(), []string{"--detach"})
	require.Error(t, err)
	assert.Empty(t, runner.Calls())
}

func TestLifecycleStartSingleInvocation(t *testing.T) {
	runner := testutil.NewFakeRunner()

	lc := container.NewLifecycle(runner)
	require.NoError(t, lc.Start(context.Background(), []string{"a", "b", "c"}))

	calls := runner.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "docker start a b c", calls[0])
}
