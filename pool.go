package banyan

import "reflect"

// poolEntry is the bounded reuse pool for one [Pooled] recipe.
//
// Invariant: len(available) + len(inUse) never exceeds capacity. Instances
// constructed once the pool is full are overflow instances; the pool never
// learns about them and Release ignores them.
type poolEntry struct {
	capacity  int
	available []any
	inUse     map[any]struct{}
}

// pool returns the entry for a recipe, creating it on first acquire. Caller
// holds c.mu.
func (c *container) pool(d *descriptor) *poolEntry {
	p, ok := c.pools[d.name]
	if !ok {
		capacity := d.poolCapacity
		if capacity <= 0 {
			capacity = c.defaultPoolCapacity
		}
		p = &poolEntry{
			capacity: capacity,
			inUse:    make(map[any]struct{}),
		}
		c.pools[d.name] = p
	}
	return p
}

// acquire serves a Pooled resolve: reuse an idle instance after resetting
// it, construct a tracked one while capacity remains, or fall back to an
// untracked overflow instance. Overflow never fails the caller; it is only
// visible in telemetry.
func (c *container) acquire(d *descriptor, rc *resolutionContext) (any, error) {
	c.mu.Lock()
	p := c.pool(d)
	if n := len(p.available); n > 0 {
		instance := p.available[n-1]
		p.available = p.available[:n-1]
		p.inUse[instance] = struct{}{}
		c.mu.Unlock()

		d.reset(instance)
		c.metrics.poolHit()
		return instance, nil
	}
	c.mu.Unlock()

	instance, err := c.construct(d, rc)
	if err != nil {
		return nil, err
	}

	// Pool bookkeeping needs instances usable as map keys.
	trackable := instance != nil && reflect.TypeOf(instance).Comparable()

	c.mu.Lock()
	if trackable && len(p.available)+len(p.inUse) < p.capacity {
		p.inUse[instance] = struct{}{}
		c.trackCloser(instance)
		c.mu.Unlock()

		c.metrics.poolMiss()
		return instance, nil
	}
	c.mu.Unlock()

	c.metrics.poolOverflow()
	c.log.V(1).Info("pool capacity exhausted, degrading to transient",
		"name", d.name, "capacity", p.capacity)
	return instance, nil
}

func (c *container) Release(name string, instance any) {
	if instance == nil || !c.poolingEnabled {
		return
	}
	if !reflect.TypeOf(instance).Comparable() {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.pools[name]
	if !ok {
		return
	}
	if _, owned := p.inUse[instance]; !owned {
		// Overflow instance or not from this pool.
		return
	}
	delete(p.inUse, instance)
	p.available = append(p.available, instance)
}
