// Package resource enforces process-wide limits on managed memory.
package resource

import (
	"context"
	"errors"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// ErrMemoryLimit is the sentinel wrapped by callers when a reservation is
// rejected because it would exceed the configured hard limit.
var ErrMemoryLimit = errors.New("resource: memory limit exceeded")

// Config holds resource limits.
type Config struct {
	// MemoryLimitBytes is the hard limit for managed memory.
	// If 0, no hard limit is enforced (only tracking).
	MemoryLimitBytes int64

	// GrowthPerSec caps how often backing regions may grow (new mappings
	// per second). If 0, growth is unthrottled.
	GrowthPerSec float64

	// GrowthBurst is the burst size of the growth throttle.
	// If 0, defaults to 1.
	GrowthBurst int
}

// Controller manages global resources (memory budget, growth rate).
//
// A nil *Controller is valid and enforces nothing, so optional limiting is
// plumbed through without guards at every call site.
type Controller struct {
	cfg Config

	// Memory
	memSem  *semaphore.Weighted // nil if unlimited
	memUsed atomic.Int64

	// Growth
	growth *rate.Limiter // nil if unthrottled
}

// NewController creates a new resource controller.
func NewController(cfg Config) *Controller {
	c := &Controller{cfg: cfg}

	if cfg.MemoryLimitBytes > 0 {
		c.memSem = semaphore.NewWeighted(cfg.MemoryLimitBytes)
	}

	if cfg.GrowthPerSec > 0 {
		burst := cfg.GrowthBurst
		if burst <= 0 {
			burst = 1
		}

		c.growth = rate.NewLimiter(rate.Limit(cfg.GrowthPerSec), burst)
	}

	return c
}

// AcquireMemory attempts to reserve memory.
// If a hard limit is configured and usage would exceed it,
// this blocks until memory is available or ctx is canceled.
func (c *Controller) AcquireMemory(ctx context.Context, bytes int64) error {
	if c == nil {
		return nil
	}
	if bytes <= 0 {
		return nil
	}

	if c.memSem != nil {
		if err := c.memSem.Acquire(ctx, bytes); err != nil {
			return err
		}
	}

	c.memUsed.Add(bytes)
	return nil
}

// TryAcquireMemory attempts to reserve memory without blocking.
// Returns true if acquired, false if the limit would be exceeded.
func (c *Controller) TryAcquireMemory(bytes int64) bool {
	if c == nil {
		return true
	}
	if bytes <= 0 {
		return true
	}

	if c.memSem != nil {
		if !c.memSem.TryAcquire(bytes) {
			return false
		}
	}

	c.memUsed.Add(bytes)
	return true
}

// ReleaseMemory releases reserved memory.
func (c *Controller) ReleaseMemory(bytes int64) {
	if c == nil {
		return
	}
	if bytes <= 0 {
		return
	}

	if c.memSem != nil {
		c.memSem.Release(bytes)
	}
	c.memUsed.Add(-bytes)
}

// MemoryUsage returns the current memory usage in bytes.
func (c *Controller) MemoryUsage() int64 {
	if c == nil {
		return 0
	}
	return c.memUsed.Load()
}

// MemoryLimit returns the configured hard limit, or 0 if unlimited.
func (c *Controller) MemoryLimit() int64 {
	if c == nil {
		return 0
	}
	return c.cfg.MemoryLimitBytes
}

// AwaitGrowth waits until the growth throttle permits mapping another
// backing region, or ctx is canceled.
func (c *Controller) AwaitGrowth(ctx context.Context) error {
	if c == nil || c.growth == nil {
		return nil
	}
	return c.growth.Wait(ctx)
}

// AllowGrowth reports whether the growth throttle permits mapping another
// backing region right now, consuming a token if so.
func (c *Controller) AllowGrowth() bool {
	if c == nil || c.growth == nil {
		return true
	}
	return c.growth.Allow()
}
