package config_test

import (
	"testing"

	"ush/internal/config"
	"ush/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppContextGetReturnsCopy(t *testing.T) {
	ctx := config.NewAppContext(config.AppState{ProjectRoot: "/work/app"})

	state, err := ctx.Get()
	require.NoError(t, err)
	assert.Equal(t, "/work/app", state.ProjectRoot)

	// Mutating the copy must not leak back into the cell
	state.ProjectRoot = "/elsewhere"
	again, err := ctx.Get()
	require.NoError(t, err)
	assert.Equal(t, "/work/app", again.ProjectRoot)
}

func TestAppContextUpdate(t *testing.T) {
	ctx := config.NewAppContext(config.AppState{})

	err := ctx.Update(func(s *config.AppState) error {
		s.ProjectRoot = "/work/app"
		s.Project = config.DefaultProjectConfig()
		return nil
	})
	require.NoError(t, err)

	state, err := ctx.Get()
	require.NoError(t, err)
	assert.Equal(t, "/work/app", state.ProjectRoot)
	assert.Equal(t, "ushadow", state.Project.Project.Name)
}

func TestAppContextPanicPoisonsCell(t *testing.T) {
	ctx := config.NewAppContext(config.AppState{ProjectRoot: "/work/app"})

	assert.Panics(t, func() {
		_ = ctx.Update(func(s *config.AppState) error {
			s.ProjectRoot = "/partial"
			panic("boom")
		})
	})

	_, err := ctx.Get()
	assert.ErrorIs(t, err, errors.ErrContextPoisoned)

	err = ctx.Update(func(s *config.AppState) error { return nil })
	assert.ErrorIs(t, err, errors.ErrContextPoisoned)
}
