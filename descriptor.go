package banyan

import "time"

// Constructor builds one instance from the resolved values of the recipe's
// declared dependencies, passed in declaration order. A dependency that is
// mid-construction on the same call chain arrives as a *[Handle] instead of
// the finished instance.
type Constructor func(deps ...any) (any, error)

// ResetFunc clears the transient state of a pooled instance before it is
// handed out again. Every [Pooled] recipe must supply one via [WithReset].
type ResetFunc func(instance any)

// descriptor holds the registered recipe for a single name plus the metadata
// the resolver maintains about it.
type descriptor struct {
	name         string
	ctor         Constructor
	lifecycle    Lifecycle
	deps         []string
	poolCapacity int
	reset        ResetFunc
	tags         []string

	// Mutated by the resolver under the container lock.
	registeredAt time.Time
	resolutions  uint64
	lastResolved time.Time
}

// clone copies the recipe fields, preserving registration metadata. Used by
// HotSwap so the replacement starts from the existing descriptor.
func (d *descriptor) clone() *descriptor {
	cp := *d
	cp.deps = append([]string(nil), d.deps...)
	cp.tags = append([]string(nil), d.tags...)
	return &cp
}

// RegisterOption configures a recipe during [Container.Register] or
// [Container.HotSwap].
type RegisterOption func(*descriptor)

// WithLifecycle sets the [Lifecycle] of the recipe. The default is
// [Singleton].
func WithLifecycle(l Lifecycle) RegisterOption {
	return func(d *descriptor) {
		d.lifecycle = l
	}
}

// WithDependencies declares the names this recipe requires, in the order the
// constructor expects them.
func WithDependencies(names ...string) RegisterOption {
	return func(d *descriptor) {
		d.deps = names
	}
}

// WithPoolCapacity sets how many instances a [Pooled] recipe actively tracks.
// It has no effect on other lifecycles. Zero means the container default.
func WithPoolCapacity(n int) RegisterOption {
	return func(d *descriptor) {
		d.poolCapacity = n
	}
}

// WithReset supplies the reset function for a [Pooled] recipe.
func WithReset(fn ResetFunc) RegisterOption {
	return func(d *descriptor) {
		d.reset = fn
	}
}

// WithTags attaches free-form diagnostic labels to the recipe. Tags have no
// behavioral effect; they exist for [Container.Tagged] and [Descriptor]
// introspection.
func WithTags(tags ...string) RegisterOption {
	return func(d *descriptor) {
		d.tags = tags
	}
}

// Descriptor is a read-only snapshot of a registered recipe, returned by
// [Container.Describe].
type Descriptor struct {
	Name         string
	Lifecycle    Lifecycle
	Dependencies []string
	PoolCapacity int
	Tags         []string

	RegisteredAt time.Time
	Resolutions  uint64
	LastResolved time.Time
}

// snapshot builds the exported view of a descriptor. Caller holds the
// container lock.
func (d *descriptor) snapshot() Descriptor {
	return Descriptor{
		Name:         d.name,
		Lifecycle:    d.lifecycle,
		Dependencies: append([]string(nil), d.deps...),
		PoolCapacity: d.poolCapacity,
		Tags:         append([]string(nil), d.tags...),
		RegisteredAt: d.registeredAt,
		Resolutions:  d.resolutions,
		LastResolved: d.lastResolved,
	}
}
