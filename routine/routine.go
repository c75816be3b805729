package routine

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync/atomic"

	kernelError "github.com/bassbeaver/glifecycle/error"
	"go.uber.org/multierr"
)

// Routine wraps a function running in its own goroutine so it can be queried for completion
// and stopped.
type Routine struct {
	cancel   context.CancelFunc
	done     chan struct{}
	complete atomic.Bool
	stopped  atomic.Bool
	err      error
}

// Complete reports whether the routine has returned or has been stopped.
func (r *Routine) Complete() bool {
	return r.complete.Load()
}

// Stop cancels the routine context. The routine counts as complete immediately, the
// function is expected to return once it observes the cancellation.
func (r *Routine) Stop() {
	r.stopped.Store(true)
	r.cancel()
	r.complete.Store(true)
}

func (r *Routine) Done() <-chan struct{} {
	return r.done
}

// Wait blocks until the function returned or ctx is done.
func (r *Routine) Wait(ctx context.Context) error {
	select {
	case <-r.done:
		return r.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Err is the error returned by the function, nil while it is still running.
func (r *Routine) Err() error {
	select {
	case <-r.done:
		return r.err
	default:
		return nil
	}
}

func (r *Routine) run(ctx context.Context, fn func(ctx context.Context) error) {
	defer close(r.done)
	defer r.complete.Store(true)
	defer func() {
		if recovered := recover(); nil != recovered {
			runtimeError := kernelError.NewRuntimeError(recovered, debug.Stack())
			r.err = fmt.Errorf("routine panicked: %v", runtimeError.Error)
		}
	}()

	err := fn(ctx)
	if r.stopped.Load() && errors.Is(err, context.Canceled) {
		err = nil
	}
	r.err = err
}

//--------------------

// Start runs fn in a new goroutine with a context derived from ctx.
func Start(ctx context.Context, fn func(ctx context.Context) error) *Routine {
	routineCtx, cancel := context.WithCancel(ctx)

	r := &Routine{
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go func() {
		defer cancel()
		r.run(routineCtx, fn)
	}()

	return r
}

func AllComplete(routines []*Routine) bool {
	for _, r := range routines {
		if !r.Complete() {
			return false
		}
	}

	return true
}

// WaitAll waits for every routine and combines their errors.
func WaitAll(ctx context.Context, routines []*Routine) error {
	var combined error
	for _, r := range routines {
		combined = multierr.Append(combined, r.Wait(ctx))
	}

	return combined
}
