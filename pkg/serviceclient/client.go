package serviceclient

import (
	"context"

	"github.com/duccv/service-kit/pkg/logger"
	"go.uber.org/zap"
)

// Client couples a recording stub of service S with the dispatcher that
// replays its recordings. Not safe for concurrent use.
type Client[S any] struct {
	proxy        S
	stub         Stub
	dispatcher   Dispatcher
	errorHandler func(error)
}

// NewClient returns a client whose Get returns proxy. stub must observe the
// calls made on proxy; usually both are backed by the same Recorder.
func NewClient[S any](proxy S, stub Stub, dispatcher Dispatcher) *Client[S] {
	return &Client[S]{
		proxy:      proxy,
		stub:       stub,
		dispatcher: dispatcher,
	}
}

// Get returns the recording stub. Its methods return zero values; invoke
// exactly one of them and pass its result straight to a Call function.
func (c *Client[S]) Get() S {
	return c.proxy
}

// ErrorHandler returns the handler receiving failures of Call and CallVoid.
func (c *Client[S]) ErrorHandler() func(error) {
	return c.errorHandler
}

// SetErrorHandler sets the handler receiving failures that happen while
// sending the request or reading the response in Call and CallVoid. Futures
// report such failures themselves. Without a handler failures are logged.
func (c *Client[S]) SetErrorHandler(errorHandler func(error)) {
	c.errorHandler = errorHandler
}

// takeInvocation consumes the recorded invocation and validates it.
func (c *Client[S]) takeInvocation() (*Invocation, error) {
	var inv *Invocation
	if c.stub != nil {
		inv = c.stub.Invocation()
	}
	if err := validateInvocation(inv); err != nil {
		return nil, err
	}
	return inv, nil
}

func (c *Client[S]) reportError(ctx context.Context, inv *Invocation, err error) {
	if c.errorHandler != nil {
		c.errorHandler(err)
		return
	}
	logger.WithInvocation(logger.FromContext(ctx), inv.Operation.Service, inv.Operation.Name).
		Error("Service invocation failed", zap.Error(err))
}
