package banyan

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Handle is the placeholder the resolver hands out when it detects a circular
// dependency: a recipe whose construction re-enters a name that is already
// mid-construction on the same call chain receives a *Handle for that name
// instead of the finished instance.
//
// A handle is a tagged two-state value. It starts unbound, holding only the
// target name and a queue of deferred operations; once the cycle unwinds and
// the real instance exists, the resolver binds it exactly once and replays
// the queue in order.
//
// Consumers choose between two strategies:
//
//   - [Handle.Await] suspends the calling goroutine until binding completes,
//     subject to the container's bind timeout. This is the default strategy
//     for code running after Resolve returns.
//   - [Handle.Defer] queues an operation against the eventual instance and
//     returns immediately. This is the only safe strategy inside a
//     constructor, where awaiting would deadlock the chain that must finish
//     to perform the binding.
type Handle struct {
	target  string
	timeout time.Duration
	done    chan struct{}

	mu       sync.Mutex
	bound    bool
	instance any
	queued   []func(any)
}

func newHandle(target string, timeout time.Duration) *Handle {
	return &Handle{
		target:  target,
		timeout: timeout,
		done:    make(chan struct{}),
	}
}

// Target returns the name this handle will eventually resolve to.
func (h *Handle) Target() string { return h.target }

// Bound reports whether the real instance has been attached.
func (h *Handle) Bound() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.bound
}

// Defer queues op to run against the real instance once the handle is bound.
// Operations run in the order they were queued. If the handle is already
// bound, op runs immediately.
func (h *Handle) Defer(op func(instance any)) {
	if op == nil {
		return
	}
	h.mu.Lock()
	if h.bound {
		inst := h.instance
		h.mu.Unlock()
		op(inst)
		return
	}
	h.queued = append(h.queued, op)
	h.mu.Unlock()
}

// Await blocks until the handle is bound and returns the real instance. It
// fails with [ErrBindTimeout] if the container's bind timeout elapses first,
// or with the context error if ctx is done earlier.
func (h *Handle) Await(ctx context.Context) (any, error) {
	timer := time.NewTimer(h.timeout)
	defer timer.Stop()

	select {
	case <-h.done:
	case <-timer.C:
		return nil, fmt.Errorf("%w: %q after %s", ErrBindTimeout, h.target, h.timeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	return h.instance, nil
}

// bind attaches the real instance and replays the queued operations in
// order. A second bind fails with [ErrAlreadyBound].
func (h *Handle) bind(instance any) error {
	h.mu.Lock()
	if h.bound {
		h.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrAlreadyBound, h.target)
	}
	h.bound = true
	h.instance = instance
	queued := h.queued
	h.queued = nil
	h.mu.Unlock()

	for _, op := range queued {
		op(instance)
	}
	close(h.done)
	return nil
}
