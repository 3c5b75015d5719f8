package grpc_server

import (
	"net"

	"google.golang.org/grpc"

	grpc_transport "github.com/duccv/service-kit/pkg/transport/grpc"
)

const _defaultAddr = ":9090"

// Option -.
type Option func(*Server)

// Port -.
func Port(port string) Option {
	return func(s *Server) {
		s.address = net.JoinHostPort("", port)
	}
}

// ServerOptions appends options passed to grpc.NewServer.
func ServerOptions(opts ...grpc.ServerOption) Option {
	return func(s *Server) {
		s.serverOpts = append(s.serverOpts, opts...)
	}
}

// CorrelationKey sets the metadata key read for the correlation id and used
// to echo it back.
func CorrelationKey(name string) Option {
	return func(s *Server) {
		s.correlationKey = grpc_transport.MetadataKey(name)
	}
}
