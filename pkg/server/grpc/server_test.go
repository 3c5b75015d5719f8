package grpc_server

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/duccv/service-kit/config"
	"github.com/duccv/service-kit/internal/greeting"
	"github.com/duccv/service-kit/internal/registry"
	"github.com/duccv/service-kit/pkg/logger"
	"github.com/duccv/service-kit/pkg/serviceclient"
	grpc_transport "github.com/duccv/service-kit/pkg/transport/grpc"
)

func startServer(t *testing.T, opts ...Option) *bufconn.Listener {
	t.Helper()

	reg := registry.New()
	require.NoError(t, greeting.Register(reg, greeting.Impl{}))
	require.NoError(t, reg.Register(
		serviceclient.Operation{Service: "faulty", Name: "explode"},
		registry.Bind0(func(context.Context) (int, error) { panic("boom") }),
	))
	require.NoError(t, reg.Register(
		serviceclient.Operation{Service: "faulty", Name: "fail"},
		registry.Bind0(func(context.Context) (int, error) { return 0, errors.New("nope") }),
	))

	lis := bufconn.Listen(1 << 20)
	s := New(reg, opts...)
	s.Serve(lis)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = s.Shutdown(ctx)
	})
	return lis
}

func dialer(lis *bufconn.Listener) grpc.DialOption {
	return grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
		return lis.DialContext(ctx)
	})
}

func newFactory(t *testing.T, lis *bufconn.Listener) *serviceclient.Factory {
	t.Helper()
	f := serviceclient.NewFactory(
		map[string]config.ServiceConfig{
			"greeting": {URL: "passthrough:///bufnet", Transport: config.TransportGRPC, RetryWaitMin: 1, RetryWaitMax: 5},
		},
		serviceclient.WithTransport(config.TransportGRPC, grpc_transport.Factory(grpc_transport.DialOptions(dialer(lis)))),
	)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestServer_GreetingOverGRPC(t *testing.T) {
	f := newFactory(t, startServer(t))
	ctx := context.Background()

	c, err := serviceclient.Create(f, "greeting", greeting.NewStub)
	require.NoError(t, err)

	msg, err := serviceclient.CallSync(ctx, c, c.Get().Hello("grpc"))
	require.NoError(t, err)
	assert.Equal(t, "Hello, grpc!", msg)

	sum, err := serviceclient.CallSync(ctx, c, c.Get().Add(40, 2))
	require.NoError(t, err)
	assert.Equal(t, 42, sum)

	done := make(chan struct{})
	require.NoError(t, serviceclient.CallVoid(ctx, c, func(s greeting.Service) { s.Ping() }, func() { close(done) }))
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("ping did not complete")
	}
}

func TestServer_ErrorCodes(t *testing.T) {
	lis := startServer(t)
	d, err := grpc_transport.New(
		serviceclient.NewServiceContext("x", config.ServiceConfig{URL: "passthrough:///bufnet"}),
		grpc_transport.DialOptions(dialer(lis)),
	)
	require.NoError(t, err)
	defer d.Close()

	tests := []struct {
		name string
		op   serviceclient.Operation
		args []any
		want codes.Code
	}{
		{name: "unknown operation", op: serviceclient.Operation{Service: "greeting", Name: "bye"}, want: codes.NotFound},
		{name: "wrong arity", op: serviceclient.Operation{Service: "greeting", Name: "add", ParamCount: 1}, args: []any{1}, want: codes.InvalidArgument},
		{name: "wrong type", op: serviceclient.Operation{Service: "greeting", Name: "add", ParamCount: 2}, args: []any{"a", 1}, want: codes.InvalidArgument},
		{name: "handler error", op: serviceclient.Operation{Service: "faulty", Name: "fail"}, want: codes.Internal},
		{name: "handler panic", op: serviceclient.Operation{Service: "faulty", Name: "explode"}, want: codes.Internal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op := tt.op
			inv := &serviceclient.Invocation{
				Operation: &op,
				Args:      tt.args,
				Context:   serviceclient.NewServiceContext("x", config.ServiceConfig{}),
			}
			var out any
			err := d.Dispatch(context.Background(), inv, &out)

			var ie *serviceclient.InvocationError
			require.ErrorAs(t, err, &ie)
			assert.Equal(t, int(tt.want), ie.Status)
			assert.Equal(t, tt.want, status.Code(errors.Unwrap(err)))
		})
	}
}

func TestServer_CorrelationID(t *testing.T) {
	lis := startServer(t)
	conn, err := grpc.NewClient("passthrough:///bufnet",
		dialer(lis),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(grpc_transport.CodecName)),
	)
	require.NoError(t, err)
	defer conn.Close()

	method := grpc_transport.MethodName("greeting", "hello")
	req := map[string]any{"args": []any{"md"}}

	t.Run("echoes incoming id", func(t *testing.T) {
		var header metadata.MD
		var out string
		ctx := metadata.AppendToOutgoingContext(context.Background(), grpc_transport.CorrelationMetadataKey, "abc-123")
		require.NoError(t, conn.Invoke(ctx, method, req, &out, grpc.Header(&header)))
		assert.Equal(t, []string{"abc-123"}, header.Get(grpc_transport.CorrelationMetadataKey))
	})

	t.Run("generates id when missing or invalid", func(t *testing.T) {
		for _, incoming := range []string{"", "bad id!"} {
			var header metadata.MD
			var out string
			ctx := context.Background()
			if incoming != "" {
				ctx = metadata.AppendToOutgoingContext(ctx, grpc_transport.CorrelationMetadataKey, incoming)
			}
			require.NoError(t, conn.Invoke(ctx, method, req, &out, grpc.Header(&header)))
			got := header.Get(grpc_transport.CorrelationMetadataKey)
			require.Len(t, got, 1)
			assert.Len(t, got[0], 36)
		}
	})
}

func TestTransport_PropagatesCorrelationID(t *testing.T) {
	lis := startServer(t)
	var seen metadata.MD
	d, err := grpc_transport.New(
		serviceclient.NewServiceContext("greeting", config.ServiceConfig{URL: "passthrough:///bufnet"}),
		grpc_transport.DialOptions(dialer(lis), grpc.WithChainUnaryInterceptor(
			func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
				seen, _ = metadata.FromOutgoingContext(ctx)
				return invoker(ctx, method, req, reply, cc, opts...)
			})),
	)
	require.NoError(t, err)
	defer d.Close()

	ctx := logger.ContextWithCorrelationID(context.Background(), "trace-7")
	var out string
	require.NoError(t, d.Dispatch(ctx, &serviceclient.Invocation{
		Operation: &greeting.OpHello,
		Args:      []any{"x"},
		Context:   serviceclient.NewServiceContext("greeting", config.ServiceConfig{}),
	}, &out))

	assert.Equal(t, []string{"trace-7"}, seen.Get(grpc_transport.CorrelationMetadataKey))
}

func TestTransport_CustomCorrelationKey(t *testing.T) {
	lis := startServer(t, CorrelationKey("X-Trace-Id"))
	var sent, header metadata.MD
	d, err := grpc_transport.New(
		serviceclient.NewServiceContext("greeting", config.ServiceConfig{URL: "passthrough:///bufnet"}),
		grpc_transport.CorrelationKey("X-Trace-Id"),
		grpc_transport.DialOptions(dialer(lis), grpc.WithChainUnaryInterceptor(
			func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
				sent, _ = metadata.FromOutgoingContext(ctx)
				return invoker(ctx, method, req, reply, cc, append(opts, grpc.Header(&header))...)
			})),
	)
	require.NoError(t, err)
	defer d.Close()

	ctx := logger.ContextWithCorrelationID(context.Background(), "trace-9")
	var out string
	require.NoError(t, d.Dispatch(ctx, &serviceclient.Invocation{
		Operation: &greeting.OpHello,
		Args:      []any{"x"},
		Context:   serviceclient.NewServiceContext("greeting", config.ServiceConfig{}),
	}, &out))

	assert.Equal(t, []string{"trace-9"}, sent.Get("x-trace-id"))
	assert.Empty(t, sent.Get(grpc_transport.CorrelationMetadataKey))
	assert.Equal(t, []string{"trace-9"}, header.Get("x-trace-id"))
}

func TestTransport_RetriesUnavailable(t *testing.T) {
	lis := bufconn.Listen(1 << 10)
	require.NoError(t, lis.Close())

	d, err := grpc_transport.New(
		serviceclient.NewServiceContext("greeting", config.ServiceConfig{URL: "passthrough:///bufnet", RetryMax: 2, RetryWaitMin: 1, RetryWaitMax: 2}),
		grpc_transport.DialOptions(dialer(lis)),
	)
	require.NoError(t, err)
	defer d.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err = d.Dispatch(ctx, &serviceclient.Invocation{
		Operation: &greeting.OpPing,
		Context:   serviceclient.NewServiceContext("greeting", config.ServiceConfig{}),
	}, nil)

	var ie *serviceclient.InvocationError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, int(codes.Unavailable), ie.Status)
}
