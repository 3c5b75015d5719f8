package serviceclient

import (
	"context"
	"time"
)

// Result is the outcome of a remote call: either Value or Err.
type Result[R any] struct {
	Value R
	Err   error
}

// Future is the pending Result of an asynchronous call.
type Future[R any] struct {
	done   chan struct{}
	result Result[R]
}

func newFuture[R any]() *Future[R] {
	return &Future[R]{done: make(chan struct{})}
}

// complete must be called exactly once.
func (f *Future[R]) complete(value R, err error) {
	f.result = Result[R]{Value: value, Err: err}
	close(f.done)
}

// Done is closed once the result is available.
func (f *Future[R]) Done() <-chan struct{} {
	return f.done
}

// Await blocks until the call completes and returns its value and error.
func (f *Future[R]) Await() (R, error) {
	<-f.done
	return f.result.Value, f.result.Err
}

// AwaitContext is Await bounded by ctx. The call itself is not cancelled when
// ctx ends first; cancel the context passed to the Call function for that.
func (f *Future[R]) AwaitContext(ctx context.Context) (R, error) {
	select {
	case <-f.done:
		return f.result.Value, f.result.Err
	case <-ctx.Done():
		var zero R
		return zero, ctx.Err()
	}
}

// AwaitWithTimeout is Await bounded by timeout.
func (f *Future[R]) AwaitWithTimeout(timeout time.Duration) (R, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return f.AwaitContext(ctx)
}

// Result blocks until the call completes and returns it as a union.
func (f *Future[R]) Result() Result[R] {
	<-f.done
	return f.result
}

// IsComplete reports whether the result is available without blocking.
func (f *Future[R]) IsComplete() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}
