package banyan

import (
	"time"

	"github.com/go-logr/logr"
)

// Option configures a container during [New].
type Option func(*container)

// WithDefaultPoolCapacity sets the pool capacity used by [Pooled] recipes
// that do not declare one via [WithPoolCapacity]. The default is 8.
func WithDefaultPoolCapacity(n int) Option {
	return func(c *container) {
		if n > 0 {
			c.defaultPoolCapacity = n
		}
	}
}

// WithHandleBindTimeout sets how long [Handle.Await] waits for a forwarding
// handle to be bound before failing with [ErrBindTimeout]. The default is
// 5 seconds.
func WithHandleBindTimeout(d time.Duration) Option {
	return func(c *container) {
		if d > 0 {
			c.bindTimeout = d
		}
	}
}

// WithPooling enables or disables the object pool. When disabled, [Pooled]
// recipes behave as [Transient] and [Container.Release] is a no-op. Enabled
// by default.
func WithPooling(enabled bool) Option {
	return func(c *container) {
		c.poolingEnabled = enabled
	}
}

// WithHotSwap enables or disables live recipe replacement. When disabled,
// [Container.HotSwap] fails with [ErrHotSwapDisabled]. Enabled by default.
func WithHotSwap(enabled bool) Option {
	return func(c *container) {
		c.hotSwapEnabled = enabled
	}
}

// WithLogger sets the logger the container emits debug events to:
// constructions, cycle breaks, pool overflow, hot swaps and disposal. The
// default discards everything.
func WithLogger(log logr.Logger) Option {
	return func(c *container) {
		c.log = log
	}
}
