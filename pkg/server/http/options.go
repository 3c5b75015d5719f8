package http_server

import (
	"net"
	"time"
)

const (
	_defaultAddr            = ":80"
	_defaultTimeout         = 5 * time.Second
	_defaultShutdownTimeout = 10 * time.Second
)

// Option -.
type Option func(*Server)

// Port -.
func Port(port string) Option {
	return func(s *Server) {
		s.address = net.JoinHostPort("", port)
	}
}

// Timeout bounds the handling of one request.
func Timeout(timeout time.Duration) Option {
	return func(s *Server) {
		if timeout > 0 {
			s.timeout = timeout
		}
	}
}
