package banyan

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDuplicateName is returned when a recipe is registered under a name
	// that already exists. Use [Container.HotSwap] to replace a recipe.
	ErrDuplicateName = errors.New("duplicate recipe name")

	// ErrUnknownDependency is returned when no recipe is registered for the
	// requested name, either directly or as a declared dependency.
	ErrUnknownDependency = errors.New("unknown dependency")

	// ErrResetRequired is returned when a [Pooled] recipe is registered
	// without a reset function. Pooled instances must be explicitly
	// resettable; the container never guesses how to clear their state.
	ErrResetRequired = errors.New("pooled recipe requires a reset function")

	// ErrAlreadyBound is returned when a forwarding handle is bound twice.
	// Binding happens exactly once, when the cycle that produced the handle
	// unwinds; a second bind is a programming error.
	ErrAlreadyBound = errors.New("handle already bound")

	// ErrBindTimeout is returned by [Handle.Await] when the handle is not
	// bound within the container's configured bind timeout.
	ErrBindTimeout = errors.New("timed out waiting for handle binding")

	// ErrHotSwapDisabled is returned by [Container.HotSwap] when the
	// container was created with [WithHotSwap] set to false.
	ErrHotSwapDisabled = errors.New("hot swap disabled")

	// ErrDisposed is returned when the container is used after
	// [Container.Dispose].
	ErrDisposed = errors.New("container disposed")
)

// ConstructionError wraps any failure raised inside a recipe's constructor,
// including panics. Chain records the resolution path that led to the failing
// name, outermost first.
type ConstructionError struct {
	Name  string
	Chain []string
	Cause error
}

// Error implements the error interface.
func (e *ConstructionError) Error() string {
	if len(e.Chain) > 1 {
		return fmt.Sprintf("constructing %q (via %s): %v", e.Name, strings.Join(e.Chain, " -> "), e.Cause)
	}
	return fmt.Sprintf("constructing %q: %v", e.Name, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *ConstructionError) Unwrap() error { return e.Cause }
