package serviceclient

import (
	"context"
	"time"

	"github.com/duccv/service-kit/pkg/logger"
	"go.uber.org/zap"
)

// Log writes one entry per dispatch carrying the diagnostic context of ctx.
func Log() Decorator {
	return func(next Dispatcher) Dispatcher {
		return DispatcherFunc(func(ctx context.Context, inv *Invocation, reply any) error {
			start := time.Now()
			err := next.Dispatch(ctx, inv, reply)

			log := logger.WithInvocation(logger.FromContext(ctx), inv.Context.Service, inv.Operation.Name).
				With(zap.Int("args", len(inv.Args)), zap.Duration("duration", time.Since(start)))
			if err != nil {
				log.Warn("Service call failed", zap.Error(err))
				return err
			}
			log.Debug("Service call completed")
			return nil
		})
	}
}
