package serviceclient

import "context"

// Dispatcher performs a validated invocation against the remote service and
// decodes the result into reply, a pointer to the result type. reply is nil
// for operations without a result.
type Dispatcher interface {
	Dispatch(ctx context.Context, inv *Invocation, reply any) error
}

// DispatcherFunc adapts a function to Dispatcher.
type DispatcherFunc func(ctx context.Context, inv *Invocation, reply any) error

func (f DispatcherFunc) Dispatch(ctx context.Context, inv *Invocation, reply any) error {
	return f(ctx, inv, reply)
}

// Decorator wraps a Dispatcher with additional behaviour.
type Decorator func(next Dispatcher) Dispatcher
