package config

import (
	"sync"

	"ush/internal/errors"
)

// AppState is the shared project context handed to commands and handlers:
// where the project lives and how it is configured.
type AppState struct {
	ProjectRoot string
	Project     *ProjectConfig
	Global      *GlobalConfig
}

// AppContext guards the shared AppState behind a mutex. A panic inside an
// Update callback poisons the cell; every later access fails with
// ErrLockPoisoned instead of observing a half-written state.
type AppContext struct {
	mu       sync.Mutex
	poisoned bool
	state    AppState
}

// NewAppContext creates a context cell holding the initial state
func NewAppContext(state AppState) *AppContext {
	return &AppContext{state: state}
}

// Get returns a copy of the current state
func (c *AppContext) Get() (AppState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.poisoned {
		return AppState{}, errors.ErrContextPoisoned
	}
	return c.state, nil
}

// Update mutates the state under the lock. If fn panics the cell is marked
// poisoned before the panic propagates.
func (c *AppContext) Update(fn func(*AppState) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.poisoned {
		return errors.ErrContextPoisoned
	}

	defer func() {
		if r := recover(); r != nil {
			c.poisoned = true
			panic(r)
		}
	}()

	return fn(&c.state)
}
