package grpc_server

import (
	"runtime/debug"
	"time"

	"github.com/duccv/service-kit/pkg/logger"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// recoveryInterceptor turns a panicking handler into an Internal status.
func recoveryInterceptor(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.FromContext(ss.Context()).Error("gRPC panic recovered",
				zap.Any("panic", r),
				zap.String("method", info.FullMethod),
				zap.ByteString("stack", debug.Stack()))
			err = status.Error(codes.Internal, "internal server error")
		}
	}()
	return handler(srv, ss)
}

// loggingInterceptor runs inside the correlation handling, so it only sees
// the transport context; the handler logs with the diagnostic context.
func loggingInterceptor(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
	start := time.Now()
	err := handler(srv, ss)

	log := logger.WithComponent(zap.L(), "grpc_server").With(
		zap.String("method", info.FullMethod),
		zap.String("code", status.Code(err).String()),
		zap.Duration("duration", time.Since(start)),
	)
	if err != nil {
		log.Warn("gRPC request failed", zap.Error(err))
		return err
	}
	log.Info("gRPC request")
	return nil
}
