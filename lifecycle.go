package banyan

// Lifecycle controls how many instances of a recipe the container creates and
// who owns them afterwards.
type Lifecycle int

const (
	// Singleton is the default lifecycle. The constructor runs once, on the
	// first [Container.Resolve] call, and the cached instance is reused for
	// every subsequent call until a hot swap evicts it.
	Singleton Lifecycle = iota

	// Transient means a new instance is constructed on every
	// [Container.Resolve] call. The container never caches or tracks it.
	Transient

	// Pooled means instances are recycled through a bounded per-recipe pool.
	// Resolve acquires an idle instance (after resetting it) or constructs a
	// new one; [Container.Release] returns it to the pool. Once the pool is
	// at capacity, further resolves degrade to untracked transient
	// construction.
	Pooled
)

// String returns the human-readable name of the lifecycle.
func (l Lifecycle) String() string {
	switch l {
	case Singleton:
		return "singleton"
	case Transient:
		return "transient"
	case Pooled:
		return "pooled"
	default:
		return "unknown"
	}
}
