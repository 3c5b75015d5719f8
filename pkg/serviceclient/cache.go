package serviceclient

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/duccv/service-kit/pkg/cache"
	"github.com/duccv/service-kit/util"
)

// Cache serves results of Cacheable operations from store. Results are kept
// as JSON, keyed by service, operation and a fingerprint of the arguments.
// Other operations and calls without a reply go straight to next.
func Cache(store *cache.MultiLevel) Decorator {
	return func(next Dispatcher) Dispatcher {
		return DispatcherFunc(func(ctx context.Context, inv *Invocation, reply any) error {
			if !inv.Operation.Cacheable || reply == nil {
				return next.Dispatch(ctx, inv, reply)
			}

			raw, err := store.GetOrLoad(ctx, cacheKey(inv), func(ctx context.Context) ([]byte, error) {
				var data json.RawMessage
				if err := next.Dispatch(ctx, inv, &data); err != nil {
					return nil, err
				}
				if len(data) == 0 {
					data = json.RawMessage("null")
				}
				return data, nil
			})
			if err != nil {
				return err
			}

			if err := json.Unmarshal(raw, reply); err != nil {
				return NewInvocationError(inv, 0, "decoding cached result", err)
			}
			return nil
		})
	}
}

func cacheKey(inv *Invocation) string {
	return fmt.Sprintf("svc:%s:%s:%s", inv.Context.Service, inv.Operation.FullName(), util.Fingerprint(inv.Args))
}
