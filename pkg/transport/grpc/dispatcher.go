// Package grpc_transport sends service invocations over gRPC using a JSON
// codec: operation op of service svc is the unary method /svc/op, the request
// is {"args": [...]} and the response is the bare result.
package grpc_transport

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	grpc_prometheus "github.com/grpc-ecosystem/go-grpc-prometheus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	"github.com/duccv/service-kit/internal/model"
	"github.com/duccv/service-kit/pkg/serviceclient"
)

const (
	_defaultRetryWaitMin = 100 * time.Millisecond
	_defaultRetryWaitMax = 2 * time.Second
)

// Option -.
type Option func(*Dispatcher)

// DialOptions appends options used when creating the connection.
func DialOptions(opts ...grpc.DialOption) Option {
	return func(d *Dispatcher) {
		d.dialOpts = append(d.dialOpts, opts...)
	}
}

// CorrelationKey sets the metadata key carrying the correlation id. Keep it
// in line with the key the receiving server reads.
func CorrelationKey(name string) Option {
	return func(d *Dispatcher) {
		d.correlationKey = MetadataKey(name)
	}
}

type Dispatcher struct {
	conn           *grpc.ClientConn
	dialOpts       []grpc.DialOption
	correlationKey string

	retryMax     int
	retryWaitMin time.Duration
	retryWaitMax time.Duration
	timeout      time.Duration
}

// New creates the dispatcher for the service described by sc. sc.URL is a
// gRPC target such as "localhost:9090" or "dns:///svc:9090". The connection
// is established lazily.
func New(sc *serviceclient.ServiceContext, opts ...Option) (*Dispatcher, error) {
	d := &Dispatcher{
		retryMax:     sc.Config.RetryMax,
		retryWaitMin: _defaultRetryWaitMin,
		retryWaitMax: _defaultRetryWaitMax,
		timeout:      time.Duration(sc.Config.Timeout) * time.Second,

		correlationKey: CorrelationMetadataKey,
	}
	if sc.Config.RetryWaitMin > 0 {
		d.retryWaitMin = time.Duration(sc.Config.RetryWaitMin) * time.Millisecond
	}
	if sc.Config.RetryWaitMax > 0 {
		d.retryWaitMax = time.Duration(sc.Config.RetryWaitMax) * time.Millisecond
	}
	for _, opt := range opts {
		opt(d)
	}

	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(CodecName)),
		grpc.WithChainUnaryInterceptor(
			grpc_prometheus.UnaryClientInterceptor,
			correlationInterceptor(d.correlationKey),
			loggingInterceptor,
		),
		grpc.WithChainStreamInterceptor(
			grpc_prometheus.StreamClientInterceptor,
		),
	}, d.dialOpts...)

	conn, err := grpc.NewClient(sc.URL, dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("creating grpc client for service %s: %w", sc.Service, err)
	}
	d.conn = conn

	return d, nil
}

// Factory returns a serviceclient.TransportFactory building gRPC dispatchers.
func Factory(opts ...Option) serviceclient.TransportFactory {
	return func(sc *serviceclient.ServiceContext) (serviceclient.Dispatcher, error) {
		return New(sc, opts...)
	}
}

func (d *Dispatcher) Dispatch(ctx context.Context, inv *serviceclient.Invocation, reply any) error {
	args := inv.Args
	if args == nil {
		args = []any{}
	}
	req := &model.InvocationRequest{Args: args}

	out := reply
	if out == nil {
		out = &json.RawMessage{}
	}
	method := MethodName(inv.Operation.Service, inv.Operation.Name)

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = d.retryWaitMin
	b.MaxInterval = d.retryWaitMax

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		callCtx := ctx
		if d.timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, d.timeout)
			defer cancel()
		}

		err := d.conn.Invoke(callCtx, method, req, out)
		if err == nil {
			return struct{}{}, nil
		}
		if status.Code(err) == codes.Unavailable {
			return struct{}{}, err
		}
		return struct{}{}, backoff.Permanent(err)
	}, backoff.WithBackOff(b), backoff.WithMaxTries(uint(d.retryMax+1)))
	if err != nil {
		return toInvocationError(inv, err)
	}
	return nil
}

func toInvocationError(inv *serviceclient.Invocation, err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return serviceclient.NewInvocationError(inv, int(codes.Unknown), "", err)
	}
	return serviceclient.NewInvocationError(inv, int(st.Code()), st.Message(), err)
}

// Close closes the connection.
func (d *Dispatcher) Close() error {
	return d.conn.Close()
}
