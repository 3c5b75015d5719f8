package grpc_transport

import (
	"context"
	"strings"
	"time"

	"github.com/duccv/service-kit/pkg/logger"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// CorrelationMetadataKey carries the correlation id in gRPC metadata unless
// another key is configured.
const CorrelationMetadataKey = "x-correlation-id"

// MetadataKey turns a header name into a metadata key, falling back to
// CorrelationMetadataKey when name is empty.
func MetadataKey(name string) string {
	if name == "" {
		return CorrelationMetadataKey
	}
	return strings.ToLower(name)
}

// correlationInterceptor copies the correlation id of the diagnostic context
// into the outgoing metadata under key.
func correlationInterceptor(key string) grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		if id := logger.CorrelationID(ctx); id != "" {
			ctx = metadata.AppendToOutgoingContext(ctx, key, id)
		}
		return invoker(ctx, method, req, reply, cc, opts...)
	}
}

// loggingInterceptor logs every attempt, retries included.
func loggingInterceptor(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
	start := time.Now()
	err := invoker(ctx, method, req, reply, cc, opts...)

	log := logger.WithComponent(logger.FromContext(ctx), "grpc_transport").With(
		zap.String("method", method),
		zap.String("target", cc.Target()),
		zap.Duration("duration", time.Since(start)),
	)
	if err != nil {
		log.Warn("gRPC call failed", zap.String("code", status.Code(err).String()), zap.Error(err))
		return err
	}
	log.Debug("Finished gRPC call")
	return nil
}
