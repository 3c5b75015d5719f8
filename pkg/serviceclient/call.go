package serviceclient

import "context"

// Call dispatches the invocation just recorded on c.Get() and passes the
// result to handler on another goroutine. The result argument is the value
// returned by the stub method; it is ignored apart from fixing R.
//
// Contract violations are returned immediately. Transport failures go to
// the client's error handler and handler is not called.
func Call[S, R any](ctx context.Context, c *Client[S], result R, handler func(R)) error {
	inv, err := c.takeInvocation()
	if err != nil {
		return err
	}

	go func() {
		var reply R
		if err := c.dispatcher.Dispatch(ctx, inv, &reply); err != nil {
			c.reportError(ctx, inv, err)
			return
		}
		if handler != nil {
			handler(reply)
		}
	}()

	return nil
}

// CallVoid is Call for operations without a result. invoke is called with
// the stub and must invoke exactly one of its methods; handler runs once the
// remote operation completed successfully.
func CallVoid[S any](ctx context.Context, c *Client[S], invoke func(S), handler func()) error {
	if invoke != nil {
		invoke(c.proxy)
	}
	inv, err := c.takeInvocation()
	if err != nil {
		return err
	}

	go func() {
		if err := c.dispatcher.Dispatch(ctx, inv, nil); err != nil {
			c.reportError(ctx, inv, err)
			return
		}
		if handler != nil {
			handler()
		}
	}()

	return nil
}

// CallFuture dispatches the invocation just recorded on c.Get() and returns
// a Future completed with the result or the transport failure. The client's
// error handler is not used.
func CallFuture[S, R any](ctx context.Context, c *Client[S], result R) (*Future[R], error) {
	inv, err := c.takeInvocation()
	if err != nil {
		return nil, err
	}

	f := newFuture[R]()
	go func() {
		var reply R
		err := c.dispatcher.Dispatch(ctx, inv, &reply)
		f.complete(reply, err)
	}()

	return f, nil
}

// CallSync dispatches the invocation just recorded on c.Get() and waits for
// its result.
func CallSync[S, R any](ctx context.Context, c *Client[S], result R) (R, error) {
	f, err := CallFuture(ctx, c, result)
	if err != nil {
		var zero R
		return zero, err
	}
	return f.AwaitContext(ctx)
}
