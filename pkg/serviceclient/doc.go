// Package serviceclient lets callers invoke remote service operations as if
// they were local method calls.
//
// A client hands out a stub implementing the service interface. Calling a
// method on the stub only records the operation and its arguments; the
// recording is then replayed through a Dispatcher (the transport) by one of
// the Call functions:
//
//	client, err := serviceclient.Create(factory, "greeting", greeting.NewStub)
//	if err != nil {
//		return err
//	}
//	err = serviceclient.Call(ctx, client, client.Get().Hello("bob"), func(greeting string) {
//		fmt.Println(greeting)
//	})
//
// Exactly one stub method must be invoked immediately before each Call.
// The stub returns zero values; they only fix the result type of the call.
//
// Results are delivered on a separate goroutine. Call and CallVoid hand them
// to a callback and report transport failures to the client's error handler;
// CallFuture returns a Future that carries either the value or the error;
// CallSync blocks until the result is available.
//
// A Client is not safe for concurrent use: get a fresh client from the
// Factory for each logical call sequence. The Factory itself is safe for
// concurrent use.
package serviceclient
