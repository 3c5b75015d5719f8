package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/duccv/service-kit/config"
	"github.com/duccv/service-kit/internal/registry"
	grpc_server "github.com/duccv/service-kit/pkg/server/grpc"
	http_server "github.com/duccv/service-kit/pkg/server/http"
)

const shutdownTimeout = 10 * time.Second

// Run serves reg over HTTP, and over gRPC when enabled, until ctx ends, a
// termination signal arrives or a server fails. Both servers are then shut
// down gracefully.
func Run(ctx context.Context, env *config.Env, reg *registry.Registry) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpServer := http_server.New(env, reg,
		http_server.Port(strconv.Itoa(env.AppConfig.Port)),
		http_server.Timeout(time.Duration(env.AppConfig.Timeout)*time.Second),
	)
	httpServer.Start()

	var grpcServer *grpc_server.Server
	var grpcNotify <-chan error
	if env.GRPCConfig.Enabled {
		grpcServer = grpc_server.New(reg,
			grpc_server.Port(strconv.Itoa(env.GRPCConfig.Port)),
			grpc_server.CorrelationKey(env.DiagnosticConfig.CorrelationIDHeaderName),
		)
		grpcServer.Start()
		grpcNotify = grpcServer.Notify()
	}

	var runErr error
	select {
	case <-ctx.Done():
		zap.L().Info("Shutting down", zap.Error(context.Cause(ctx)))
	case err := <-httpServer.Notify():
		runErr = fmt.Errorf("http server: %w", err)
	case err := <-grpcNotify:
		runErr = fmt.Errorf("grpc server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("HTTP server shutdown failed", zap.Error(err))
	}
	if grpcServer != nil {
		if err := grpcServer.Shutdown(shutdownCtx); err != nil {
			zap.L().Error("gRPC server shutdown failed", zap.Error(err))
		}
	}

	return runErr
}
