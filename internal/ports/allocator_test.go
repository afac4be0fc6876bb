package ports

import (
	"testing"

	"ush/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOffsetForName(t *testing.T) {
	// Deterministic across calls
	assert.Equal(t, OffsetForName("feature-auth"), OffsetForName("feature-auth"))

	// Always a multiple of the step inside [0, range*step)
	for _, name := range []string{"", "a", "feature-auth", "my-long-environment-name"} {
		offset := OffsetForName(name)
		assert.GreaterOrEqual(t, offset, 0)
		assert.Less(t, offset, 500)
		assert.Zero(t, offset%10)
	}
}

func TestAllocateKeepsWebUIDelta(t *testing.T) {
	a := NewWithProbe(func(port int) bool { return true })

	alloc, err := a.Allocate(8000, 3000, 120)
	require.NoError(t, err)
	assert.Equal(t, 8120, alloc.BackendPort)
	assert.Equal(t, 3120, alloc.WebUIPort)
	assert.Equal(t, 120, alloc.Offset)
	assert.Equal(t, 5000, alloc.BackendPort-alloc.WebUIPort)
}

func TestAllocateForNameUsesDerivedOffset(t *testing.T) {
	a := NewWithProbe(func(port int) bool { return true })

	alloc, err := a.AllocateForName("feature-auth", 8000, 3000)
	require.NoError(t, err)
	assert.Equal(t, OffsetForName("feature-auth"), alloc.Offset)
	assert.Equal(t, 8000+alloc.Offset, alloc.BackendPort)
}

func TestAllocateShiftsPastOccupiedPorts(t *testing.T) {
	// 8120 and 8130 are taken; 8140 is free
	occupied := map[int]bool{8120: true, 8130: true}
	a := NewWithProbe(func(port int) bool { return !occupied[port] })

	alloc, err := a.Allocate(8000, 3000, 120)
	require.NoError(t, err)
	assert.Equal(t, 8140, alloc.BackendPort)
	assert.Equal(t, 3140, alloc.WebUIPort)
	assert.Equal(t, 140, alloc.Offset)
}

func TestAllocateChecksBothSidesOfPair(t *testing.T) {
	// Backend side free, webui side occupied: pair must shift
	a := NewWithProbe(func(port int) bool { return port != 3120 })

	alloc, err := a.Allocate(8000, 3000, 120)
	require.NoError(t, err)
	assert.Equal(t, 8130, alloc.BackendPort)
}

func TestAllocateRespectsExclusions(t *testing.T) {
	a := NewWithProbe(func(port int) bool { return true })
	a.SetExcluded([]int{8120})

	alloc, err := a.Allocate(8000, 3000, 120)
	require.NoError(t, err)
	assert.Equal(t, 8130, alloc.BackendPort)
}

func TestAllocateRejectsLowBase(t *testing.T) {
	a := NewWithProbe(func(port int) bool { return true })

	_, err := a.Allocate(4000, 3000, 0)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrInvalidPortBase))
}

func TestAllocateExhaustion(t *testing.T) {
	a := NewWithProbe(func(port int) bool { return false })

	_, err := a.Allocate(8000, 3000, 0)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrAllocationExhausted))
}
