// Package grpc_server exposes the operations of a registry over gRPC. Every
// method /{service}/{operation} is served by one unknown-service handler
// using the JSON codec.
package grpc_server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"strings"

	grpc_prometheus "github.com/grpc-ecosystem/go-grpc-prometheus"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/duccv/service-kit/internal/middleware"
	"github.com/duccv/service-kit/internal/model"
	"github.com/duccv/service-kit/internal/registry"
	"github.com/duccv/service-kit/pkg/logger"
	grpc_transport "github.com/duccv/service-kit/pkg/transport/grpc"
)

type Server struct {
	srv      *grpc.Server
	registry *registry.Registry
	notify   chan error

	address        string
	correlationKey string
	serverOpts     []grpc.ServerOption
}

// New -.
func New(reg *registry.Registry, opts ...Option) *Server {
	s := &Server{
		registry: reg,
		notify:   make(chan error, 1),
		address:  _defaultAddr,

		correlationKey: grpc_transport.CorrelationMetadataKey,
	}

	for _, opt := range opts {
		opt(s)
	}

	serverOpts := append([]grpc.ServerOption{
		grpc.UnknownServiceHandler(s.handle),
		grpc.ChainStreamInterceptor(
			grpc_prometheus.StreamServerInterceptor,
			loggingInterceptor,
			recoveryInterceptor,
		),
	}, s.serverOpts...)

	s.srv = grpc.NewServer(serverOpts...)
	grpc_prometheus.Register(s.srv)

	return s
}

// Start listens on the configured address and serves in the background.
func (s *Server) Start() {
	lis, err := net.Listen("tcp", s.address)
	if err != nil {
		s.notify <- err
		close(s.notify)
		return
	}
	s.Serve(lis)
}

// Serve serves lis in the background.
func (s *Server) Serve(lis net.Listener) {
	zap.L().Info("gRPC server listening", zap.String("address", lis.Addr().String()))
	go func() {
		s.notify <- s.srv.Serve(lis)
		close(s.notify)
	}()
}

// Notify -.
func (s *Server) Notify() <-chan error {
	return s.notify
}

// Shutdown waits for in-flight calls until ctx ends, then stops hard.
func (s *Server) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.srv.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		s.srv.Stop()
		<-done
		return ctx.Err()
	}
}

func (s *Server) handle(_ any, stream grpc.ServerStream) error {
	method, ok := grpc.MethodFromServerStream(stream)
	if !ok {
		return status.Error(codes.Internal, "method not found in stream")
	}
	service, operation, ok := splitMethod(method)
	if !ok {
		return status.Errorf(codes.Unimplemented, "malformed method %q", method)
	}

	ctx := stream.Context()
	var incoming string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(s.correlationKey); len(values) > 0 {
			incoming = values[0]
		}
	}
	cid := middleware.ResolveCorrelationID(incoming, s.correlationKey)
	ctx = logger.ContextWithCorrelationID(ctx, cid)
	if err := stream.SetHeader(metadata.Pairs(s.correlationKey, cid)); err != nil {
		logger.FromContext(ctx).Debug("Could not set correlation header", zap.Error(err))
	}

	var req model.InvocationPayload
	if err := stream.RecvMsg(&req); err != nil {
		return status.Errorf(codes.InvalidArgument, "reading request: %v", err)
	}

	result, err := s.registry.Invoke(ctx, service, operation, req.Args)
	if err != nil {
		logger.WithInvocation(logger.FromContext(ctx), service, operation).
			Warn("Operation failed", zap.Error(err))
		return toStatus(err)
	}
	if result == nil {
		result = json.RawMessage("null")
	}
	return stream.SendMsg(result)
}

// splitMethod splits "/service/operation".
func splitMethod(method string) (string, string, bool) {
	parts := strings.Split(strings.TrimPrefix(method, "/"), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, registry.ErrUnknownOperation):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, registry.ErrBadArguments):
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
