package resource

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_Memory(t *testing.T) {
	// Test with limit
	c := NewController(Config{MemoryLimitBytes: 100})

	// Acquire 50
	err := c.AcquireMemory(context.Background(), 50)
	require.NoError(t, err)
	assert.Equal(t, int64(50), c.MemoryUsage())

	// Acquire 40
	err = c.AcquireMemory(context.Background(), 40)
	require.NoError(t, err)
	assert.Equal(t, int64(90), c.MemoryUsage())

	// TryAcquire 20 (should fail)
	ok := c.TryAcquireMemory(20)
	assert.False(t, ok)
	assert.Equal(t, int64(90), c.MemoryUsage())

	// Acquire 20 (should block/timeout)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err = c.AcquireMemory(ctx, 20)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// Release 50
	c.ReleaseMemory(50)
	assert.Equal(t, int64(40), c.MemoryUsage())

	// Now Acquire 20 should succeed
	err = c.AcquireMemory(context.Background(), 20)
	require.NoError(t, err)
	assert.Equal(t, int64(60), c.MemoryUsage())
}

func TestController_UnlimitedMemory(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 0})

	err := c.AcquireMemory(context.Background(), 1000)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), c.MemoryUsage())

	c.ReleaseMemory(500)
	assert.Equal(t, int64(500), c.MemoryUsage())

	assert.Equal(t, int64(0), c.MemoryLimit())
}

func TestController_Growth(t *testing.T) {
	c := NewController(Config{GrowthPerSec: 1, GrowthBurst: 2})

	// Burst allows two immediate growth events.
	assert.True(t, c.AllowGrowth())
	assert.True(t, c.AllowGrowth())

	// The third must wait for the limiter.
	assert.False(t, c.AllowGrowth())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := c.AwaitGrowth(ctx)
	assert.Error(t, err)
}

func TestController_UnthrottledGrowth(t *testing.T) {
	c := NewController(Config{})

	for i := 0; i < 100; i++ {
		assert.True(t, c.AllowGrowth())
	}
	require.NoError(t, c.AwaitGrowth(context.Background()))
}

func TestController_NilReceiver(t *testing.T) {
	var c *Controller

	require.NoError(t, c.AcquireMemory(context.Background(), 1<<30))
	assert.True(t, c.TryAcquireMemory(1<<30))
	c.ReleaseMemory(1 << 30)

	assert.Equal(t, int64(0), c.MemoryUsage())
	assert.Equal(t, int64(0), c.MemoryLimit())

	assert.True(t, c.AllowGrowth())
	require.NoError(t, c.AwaitGrowth(context.Background()))
}
