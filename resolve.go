package banyan

import (
	"fmt"
	"time"
)

// resolutionContext is the call-chain-scoped state of one top-level Resolve.
// It is deliberately not shared across goroutines: the in-progress set must
// only ever signal re-entrancy within a single chain, never between
// unrelated concurrent resolutions of the same name.
type resolutionContext struct {
	inProgress map[string]struct{}
	chain      []string
	pending    map[string][]*Handle
}

func newResolutionContext() *resolutionContext {
	return &resolutionContext{
		inProgress: make(map[string]struct{}),
		pending:    make(map[string][]*Handle),
	}
}

func (rc *resolutionContext) entered(name string) bool {
	_, ok := rc.inProgress[name]
	return ok
}

func (rc *resolutionContext) enter(name string) {
	rc.inProgress[name] = struct{}{}
	rc.chain = append(rc.chain, name)
}

func (rc *resolutionContext) exit(name string) {
	delete(rc.inProgress, name)
	rc.chain = rc.chain[:len(rc.chain)-1]
}

func (rc *resolutionContext) addPending(name string, h *Handle) {
	rc.pending[name] = append(rc.pending[name], h)
}

// bindPending attaches the freshly built instance to every handle issued for
// name on this chain, replaying each handle's queued operations in order.
func (rc *resolutionContext) bindPending(name string, instance any) error {
	handles := rc.pending[name]
	if len(handles) == 0 {
		return nil
	}
	delete(rc.pending, name)
	for _, h := range handles {
		if err := h.bind(instance); err != nil {
			return err
		}
	}
	return nil
}

func (c *container) Resolve(name string) (any, error) {
	c.swapMu.RLock()
	defer c.swapMu.RUnlock()

	c.mu.RLock()
	disposed := c.disposed
	c.mu.RUnlock()
	if disposed {
		return nil, ErrDisposed
	}

	return c.resolve(name, newResolutionContext())
}

// resolve is the recursive resolution step. The same context flows through
// the whole chain; dependency recursion re-enters here directly.
func (c *container) resolve(name string, rc *resolutionContext) (any, error) {
	start := time.Now()

	// Cached singletons short-circuit everything, including cycle checks: a
	// name can only be cached once its construction finished.
	c.mu.RLock()
	instance, cached := c.singletons[name]
	c.mu.RUnlock()
	if cached {
		c.metrics.cacheHit()
		c.finish(name, start)
		return instance, nil
	}

	if rc.entered(name) {
		h := newHandle(name, c.bindTimeout)
		rc.addPending(name, h)
		c.metrics.cycleBreak()
		c.log.V(1).Info("circular dependency, issuing forwarding handle",
			"name", name, "chain", rc.chain)
		return h, nil
	}

	// Serialize construction per name. Cross-chain callers of the same name
	// block here until the winner finishes; same-chain re-entry never
	// reaches this point.
	lock := c.nameLock(name)
	lock.Lock()
	defer lock.Unlock()

	c.mu.RLock()
	instance, cached = c.singletons[name]
	d, known := c.descriptors[name]
	c.mu.RUnlock()

	if cached {
		// Another chain built it while we waited on the lock.
		c.metrics.cacheHit()
		c.finish(name, start)
		return instance, nil
	}
	if !known {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDependency, name)
	}

	rc.enter(name)
	defer rc.exit(name)

	var err error
	switch {
	case d.lifecycle == Pooled && c.poolingEnabled:
		instance, err = c.acquire(d, rc)
	case d.lifecycle == Singleton:
		c.metrics.cacheMiss()
		instance, err = c.construct(d, rc)
		if err == nil {
			c.mu.Lock()
			c.singletons[name] = instance
			c.trackCloser(instance)
			c.mu.Unlock()
		}
	default:
		// Transient, or Pooled with pooling disabled.
		instance, err = c.construct(d, rc)
	}
	if err != nil {
		return nil, err
	}

	if err := rc.bindPending(name, instance); err != nil {
		return nil, err
	}

	c.finish(name, start)
	return instance, nil
}

// construct resolves the declared dependencies in order, then invokes the
// recipe's constructor with the resolved values. Constructor failures and
// panics are wrapped as [ConstructionError]; dependency failures propagate
// unchanged.
func (c *container) construct(d *descriptor, rc *resolutionContext) (instance any, err error) {
	args := make([]any, len(d.deps))
	for i, dep := range d.deps {
		v, depErr := c.resolve(dep, rc)
		if depErr != nil {
			return nil, depErr
		}
		args[i] = v
	}

	defer func() {
		if rec := recover(); rec != nil {
			instance = nil
			err = &ConstructionError{
				Name:  d.name,
				Chain: append([]string(nil), rc.chain...),
				Cause: fmt.Errorf("constructor panicked: %v", rec),
			}
		}
	}()

	instance, err = d.ctor(args...)
	if err != nil {
		return nil, &ConstructionError{
			Name:  d.name,
			Chain: append([]string(nil), rc.chain...),
			Cause: err,
		}
	}

	c.log.V(1).Info("constructed instance", "name", d.name, "lifecycle", d.lifecycle.String())
	return instance, nil
}

// finish records telemetry and per-recipe metadata for a completed resolve.
func (c *container) finish(name string, start time.Time) {
	c.metrics.resolution(time.Since(start))

	c.mu.Lock()
	if d, ok := c.descriptors[name]; ok {
		d.resolutions++
		d.lastResolved = time.Now()
	}
	c.mu.Unlock()
}

// Resolve is a generic helper that resolves a named recipe and asserts its
// type. It is the recommended way to retrieve values:
//
//	db, err := banyan.Resolve[*Database](c, "db")
func Resolve[T any](c Container, name string) (T, error) {
	var zero T

	v, err := c.Resolve(name)
	if err != nil {
		return zero, err
	}

	out, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("recipe %q: cannot convert %T to %T", name, v, zero)
	}
	return out, nil
}
