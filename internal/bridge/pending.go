package bridge

import "sync"

// Outcome is the resolution of a pending native operation.
type Outcome[T any] struct {
	Result *T
	Err    error
}

// Pending is a single-resolution handle for an in-flight native credential
// operation. The first Resolve or Reject wins; later resolutions are
// discarded, so a native result arriving after a timeout neither blocks the
// resolving goroutine nor leaks it.
type Pending[T any] struct {
	once sync.Once
	done chan Outcome[T]
}

// NewPending creates an unresolved pending operation.
func NewPending[T any]() *Pending[T] {
	return &Pending[T]{done: make(chan Outcome[T], 1)}
}

// Resolve completes the operation successfully.
func (p *Pending[T]) Resolve(result *T) {
	p.once.Do(func() { p.done <- Outcome[T]{Result: result} })
}

// Reject completes the operation with an error.
func (p *Pending[T]) Reject(err error) {
	p.once.Do(func() { p.done <- Outcome[T]{Err: err} })
}

// Done exposes the resolution for the supervisor's select.
func (p *Pending[T]) Done() <-chan Outcome[T] {
	return p.done
}
