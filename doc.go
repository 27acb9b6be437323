// Package banyan provides a name-keyed dependency resolution and lifecycle
// container for Go.
//
// Recipes are registered under unique names together with their declared
// dependencies; the container resolves the graph on demand, constructing
// each dependency before the recipe that needs it. Nothing is constructed at
// registration time.
//
// # Quick Start
//
//	c := banyan.New()
//	c.Register("config", func(...any) (any, error) { return LoadConfig(), nil })
//	c.Register("db", func(deps ...any) (any, error) {
//		return OpenDB(deps[0].(*Config)), nil
//	}, banyan.WithDependencies("config"))
//
//	db, err := banyan.Resolve[*DB](c, "db")
//
// # Lifecycles
//
// [Singleton] (default) — constructed once, cached, shared by every caller.
//
// [Transient] — a fresh instance on every resolve.
//
// [Pooled] — instances recycle through a bounded per-recipe pool. Pooled
// recipes must supply a reset function via [WithReset]; a full pool degrades
// to untracked transient construction rather than failing the caller.
//
// # Circular Dependencies
//
// When a chain loops back onto a name still under construction, the
// dependent constructor receives a *[Handle] instead of the instance. Queue
// field wiring with [Handle.Defer] inside constructors, or wait for binding
// with [Handle.Await] afterwards; the container binds every handle when the
// cycle unwinds. Cycle detection is scoped to a single resolution chain, so
// concurrent resolves of the same name never misread each other as cycles.
//
// # Hot Swap
//
// [Container.HotSwap] atomically replaces a recipe's constructor and evicts
// its cached singleton, so the next resolve rebuilds it. Singletons that
// depend on the swapped name are not rebuilt automatically.
//
// # Telemetry
//
// [Container.Metrics] returns a counter snapshot; [Collector] adapts it to a
// Prometheus collector.
package banyan
