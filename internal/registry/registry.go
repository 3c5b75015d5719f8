// Package registry holds the operations a server exposes and invokes them
// with JSON encoded arguments. The HTTP and gRPC servers share one registry.
package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/duccv/service-kit/pkg/serviceclient"
)

var (
	ErrUnknownOperation   = errors.New("unknown operation")
	ErrDuplicateOperation = errors.New("operation already registered")
	ErrBadArguments       = errors.New("bad arguments")
)

// Handler runs an operation. args has exactly the declared number of
// elements.
type Handler func(ctx context.Context, args []json.RawMessage) (any, error)

type entry struct {
	op      serviceclient.Operation
	handler Handler
}

type Registry struct {
	mu  sync.RWMutex
	ops map[string]entry
}

func New() *Registry {
	return &Registry{ops: make(map[string]entry)}
}

func key(service, operation string) string {
	return strings.ToLower(service) + "/" + operation
}

// Register exposes op, served by h.
func (r *Registry) Register(op serviceclient.Operation, h Handler) error {
	if op.Service == "" || op.Name == "" || h == nil {
		return fmt.Errorf("registering %q: service, name and handler are required", op.FullName())
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	k := key(op.Service, op.Name)
	if _, exists := r.ops[k]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateOperation, op.FullName())
	}
	r.ops[k] = entry{op: op, handler: h}
	return nil
}

// Lookup returns the registered description of service/operation.
func (r *Registry) Lookup(service, operation string) (serviceclient.Operation, error) {
	e, err := r.lookup(service, operation)
	if err != nil {
		return serviceclient.Operation{}, err
	}
	return e.op, nil
}

func (r *Registry) lookup(service, operation string) (entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.ops[key(service, operation)]
	if !ok {
		return entry{}, fmt.Errorf("%w: %s/%s", ErrUnknownOperation, service, operation)
	}
	return e, nil
}

// Invoke runs service/operation with args after checking their count.
func (r *Registry) Invoke(ctx context.Context, service, operation string, args []json.RawMessage) (any, error) {
	e, err := r.lookup(service, operation)
	if err != nil {
		return nil, err
	}
	if len(args) != e.op.ParamCount {
		return nil, fmt.Errorf("%w: %s expects %d arguments, got %d",
			ErrBadArguments, e.op.FullName(), e.op.ParamCount, len(args))
	}
	return e.handler(ctx, args)
}

// Operations lists the registered operations as sorted "service/name" pairs.
func (r *Registry) Operations() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.ops))
	for _, e := range r.ops {
		names = append(names, e.op.FullName())
	}
	sort.Strings(names)
	return names
}
