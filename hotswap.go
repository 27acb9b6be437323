package banyan

import (
	"errors"
	"fmt"
)

func (c *container) HotSwap(name string, ctor Constructor, opts ...RegisterOption) error {
	if !c.hotSwapEnabled {
		return ErrHotSwapDisabled
	}
	if ctor == nil {
		return errors.New("constructor cannot be nil")
	}

	// Write barrier: no resolution chain is in flight while the descriptor,
	// singleton cache and pool are replaced, so the swap is atomic from the
	// point of view of every caller.
	c.swapMu.Lock()
	defer c.swapMu.Unlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.disposed {
		return ErrDisposed
	}

	current, ok := c.descriptors[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownDependency, name)
	}

	next := current.clone()
	next.ctor = ctor
	for _, opt := range opts {
		opt(next)
	}
	if err := validateDescriptor(next); err != nil {
		return err
	}

	c.descriptors[name] = next
	delete(c.singletons, name)
	delete(c.pools, name)

	c.metrics.hotSwap()
	c.log.V(1).Info("recipe hot-swapped", "name", name, "lifecycle", next.lifecycle.String())
	return nil
}
