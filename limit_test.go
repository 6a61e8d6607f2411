package memgo

import (
	"testing"

	"github.com/hupe1980/memgo/resource"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimitAllocatorBudget(t *testing.T) {
	ctrl := resource.NewController(resource.Config{MemoryLimitBytes: 128})
	l := NewLimitAllocator(nil, ctrl)

	buf := l.Allocate(64)
	require.Len(t, buf, 64)
	assert.Equal(t, int64(64), ctrl.MemoryUsage())
	assert.NoError(t, l.Err())

	assert.Nil(t, l.Allocate(65))
	assert.ErrorIs(t, l.Err(), ErrBudgetExceeded)
	assert.ErrorIs(t, l.Err(), resource.ErrMemoryLimit)
	assert.Equal(t, int64(64), ctrl.MemoryUsage(), "denied allocation must not leak budget")

	l.Free(buf)
	assert.Equal(t, int64(0), ctrl.MemoryUsage())

	buf = l.Allocate(128)
	require.Len(t, buf, 128)
	l.Free(buf)
}

func TestLimitAllocatorReallocate(t *testing.T) {
	ctrl := resource.NewController(resource.Config{MemoryLimitBytes: 128})
	l := NewLimitAllocator(nil, ctrl)

	buf := l.Allocate(32)
	require.Len(t, buf, 32)

	buf = l.Reallocate(64, buf)
	require.Len(t, buf, 64)
	assert.Equal(t, int64(64), ctrl.MemoryUsage())

	buf = l.Reallocate(16, buf)
	require.Len(t, buf, 16)
	assert.Equal(t, int64(16), ctrl.MemoryUsage())

	hog := l.Allocate(100)
	require.NotNil(t, hog)

	assert.Nil(t, l.Reallocate(64, buf), "growth past the limit is denied")
	assert.ErrorIs(t, l.Err(), ErrBudgetExceeded)
	assert.Equal(t, int64(116), ctrl.MemoryUsage(), "denied growth must not leak budget")

	assert.Nil(t, l.Reallocate(0, buf))
	assert.Equal(t, int64(100), ctrl.MemoryUsage())

	l.Free(hog)
	assert.Equal(t, int64(0), ctrl.MemoryUsage())
}

func TestLimitAllocatorNilController(t *testing.T) {
	l := NewLimitAllocator(nil, nil)

	buf := l.Allocate(1 << 20)
	require.Len(t, buf, 1<<20)
	assert.NoError(t, l.Err())

	l.Free(buf)
	assert.Nil(t, l.Allocate(0))
}

func TestLimitAllocatorPropagation(t *testing.T) {
	ctrl := resource.NewController(resource.Config{MemoryLimitBytes: 128})

	a := NewLimitAllocator(nil, ctrl)
	b := NewLimitAllocator(nil, ctrl)
	c := NewLimitAllocator(nil, resource.NewController(resource.Config{}))

	assert.Equal(t, Policy{}, a.Policy())
	assert.True(t, a.Equal(b), "same controller, interchangeable accounting")
	assert.False(t, a.Equal(c))
	assert.Same(t, ctrl, a.Controller())
}
