package serviceclient

import (
	"context"
	"time"

	"github.com/duccv/service-kit/pkg/metrics"
)

// Instrument records the count, outcome and latency of every dispatch.
func Instrument(m *metrics.ClientMetrics) Decorator {
	return func(next Dispatcher) Dispatcher {
		return DispatcherFunc(func(ctx context.Context, inv *Invocation, reply any) error {
			start := time.Now()
			err := next.Dispatch(ctx, inv, reply)
			m.Observe(inv.Context.Service, inv.Operation.Name, err, time.Since(start))
			return err
		})
	}
}
