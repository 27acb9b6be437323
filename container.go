package banyan

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/go-logr/logr"
)

// Container defines the interface for the dependency resolution and
// lifecycle container. Use [New] to create an instance.
type Container interface {
	// Register adds a construction recipe under a unique name. The
	// constructor is never invoked at registration time; the container is
	// lazy everywhere. Registering an existing name fails with
	// [ErrDuplicateName] — use [Container.HotSwap] to replace a recipe.
	Register(name string, ctor Constructor, opts ...RegisterOption) error

	// Resolve returns a fully-constructed instance for the named recipe,
	// recursively constructing its declared dependencies first. Prefer the
	// generic [Resolve] helper for typed access.
	//
	// Each call starts a fresh resolution chain. Within a chain, a
	// dependency that loops back onto a name still under construction is
	// satisfied with a *[Handle] instead of recursing forever; unrelated
	// concurrent chains never observe each other's in-progress state.
	Resolve(name string) (any, error)

	// Release returns a pool-owned instance to its recipe's pool so a later
	// Resolve can reuse it. Instances the pool does not track — overflow
	// instances, or anything from a non-pooled recipe — are ignored.
	Release(name string, instance any)

	// HotSwap atomically replaces the recipe's constructor (and, via
	// options, its dependencies and pool capacity) and evicts the cached
	// singleton and pool for that name. It fails with
	// [ErrUnknownDependency] if the name was never registered.
	//
	// Downstream singletons that were built against the old recipe are not
	// evicted; they keep their references to the pre-swap instance until
	// they are themselves swapped or the container is rebuilt.
	HotSwap(name string, ctor Constructor, opts ...RegisterOption) error

	// Names returns the registered recipe names, sorted.
	Names() []string

	// Describe returns a read-only snapshot of the named recipe and its
	// resolution metadata.
	Describe(name string) (Descriptor, error)

	// Tagged returns the sorted names of recipes carrying the given tag.
	Tagged(tag string) []string

	// Metrics returns an immutable snapshot of the container's counters.
	Metrics() MetricsSnapshot

	// Dispose closes every live container-owned instance that implements
	// [io.Closer], in reverse construction order, then clears all internal
	// state. Individual close errors are collected and returned together.
	// Dispose is idempotent; subsequent calls are no-ops.
	Dispose(ctx context.Context) error
}

type container struct {
	log                 logr.Logger
	defaultPoolCapacity int
	bindTimeout         time.Duration
	poolingEnabled      bool
	hotSwapEnabled      bool

	// swapMu is the hot-swap write barrier. Every top-level Resolve holds
	// the read side for its whole chain; HotSwap and Dispose take the write
	// side so they never race an in-flight resolution.
	swapMu sync.RWMutex

	mu          sync.RWMutex
	descriptors map[string]*descriptor
	singletons  map[string]any
	pools       map[string]*poolEntry
	locks       map[string]*sync.Mutex

	// closers holds container-owned instances that implement io.Closer, in
	// construction order. Dispose iterates them in reverse.
	closers  []io.Closer
	disposed bool

	metrics *telemetry
}

// New creates an empty [Container] ready for registration.
func New(opts ...Option) Container {
	c := &container{
		log:                 logr.Discard(),
		defaultPoolCapacity: 8,
		bindTimeout:         5 * time.Second,
		poolingEnabled:      true,
		hotSwapEnabled:      true,
		descriptors:         make(map[string]*descriptor),
		singletons:          make(map[string]any),
		pools:               make(map[string]*poolEntry),
		locks:               make(map[string]*sync.Mutex),
		metrics:             &telemetry{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *container) Register(name string, ctor Constructor, opts ...RegisterOption) error {
	if name == "" {
		return errors.New("name cannot be empty")
	}
	if ctor == nil {
		return errors.New("constructor cannot be nil")
	}

	d := &descriptor{
		name:         name,
		ctor:         ctor,
		lifecycle:    Singleton,
		registeredAt: time.Now(),
	}
	for _, opt := range opts {
		opt(d)
	}
	if err := validateDescriptor(d); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.disposed {
		return ErrDisposed
	}
	if _, exists := c.descriptors[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}
	c.descriptors[name] = d
	return nil
}

// validateDescriptor checks recipe invariants shared by Register and HotSwap.
func validateDescriptor(d *descriptor) error {
	if d.lifecycle == Pooled && d.reset == nil {
		return fmt.Errorf("%w: %q", ErrResetRequired, d.name)
	}
	return nil
}

// nameLock returns the construction lock for a name, creating it on first
// use. At most one constructor per name is ever in flight.
func (c *container) nameLock(name string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	lk, ok := c.locks[name]
	if !ok {
		lk = &sync.Mutex{}
		c.locks[name] = lk
	}
	return lk
}

func (c *container) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.descriptors))
	for name := range c.descriptors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (c *container) Describe(name string) (Descriptor, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	d, ok := c.descriptors[name]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: %q", ErrUnknownDependency, name)
	}
	return d.snapshot(), nil
}

func (c *container) Tagged(tag string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var names []string
	for name, d := range c.descriptors {
		for _, t := range d.tags {
			if t == tag {
				names = append(names, name)
				break
			}
		}
	}
	sort.Strings(names)
	return names
}

func (c *container) Metrics() MetricsSnapshot {
	return c.metrics.snapshot()
}

func (c *container) Dispose(ctx context.Context) error {
	c.swapMu.Lock()
	defer c.swapMu.Unlock()
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.disposed {
		return nil
	}
	c.disposed = true

	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := c.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}

	c.log.V(1).Info("container disposed", "instances", len(c.closers), "errors", len(errs))

	c.descriptors = make(map[string]*descriptor)
	c.singletons = make(map[string]any)
	c.pools = make(map[string]*poolEntry)
	c.locks = make(map[string]*sync.Mutex)
	c.closers = nil

	return errors.Join(errs...)
}

// trackCloser records a container-owned instance for disposal. Caller holds
// c.mu.
func (c *container) trackCloser(instance any) {
	if closer, ok := instance.(io.Closer); ok {
		c.closers = append(c.closers, closer)
	}
}
