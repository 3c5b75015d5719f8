package serviceclient

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/duccv/service-kit/config"
	"go.uber.org/zap"
)

var (
	ErrUnknownService   = errors.New("unknown service")
	ErrUnknownTransport = errors.New("unknown transport")
	ErrFactoryClosed    = errors.New("service client factory is closed")
)

// TransportFactory builds the dispatcher talking to one service.
type TransportFactory func(sc *ServiceContext) (Dispatcher, error)

// FactoryOption configures a Factory.
type FactoryOption func(*Factory)

// WithTransport registers the transport used by services configured with name.
func WithTransport(name string, tf TransportFactory) FactoryOption {
	return func(f *Factory) {
		f.transports[name] = tf
	}
}

// WithDecorators wraps every dispatcher; the first decorator is the outermost.
func WithDecorators(decorators ...Decorator) FactoryOption {
	return func(f *Factory) {
		f.decorators = append(f.decorators, decorators...)
	}
}

// Factory creates clients for configured services. It is safe for concurrent
// use, unlike the clients it creates. Dispatchers are built on first use and
// shared by all clients of a service.
type Factory struct {
	services   map[string]config.ServiceConfig
	transports map[string]TransportFactory
	decorators []Decorator

	mu              sync.Mutex
	dispatchers     map[string]Dispatcher
	transportsInUse []Dispatcher
	closed          bool
}

// NewFactory returns a factory for services. Service names are matched case
// insensitively, as configuration keys are.
func NewFactory(services map[string]config.ServiceConfig, opts ...FactoryOption) *Factory {
	f := &Factory{
		services:    make(map[string]config.ServiceConfig, len(services)),
		transports:  make(map[string]TransportFactory),
		dispatchers: make(map[string]Dispatcher),
	}
	for name, cfg := range services {
		f.services[strings.ToLower(name)] = cfg
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// ServiceContext returns a fresh context describing service.
func (f *Factory) ServiceContext(service string) (*ServiceContext, error) {
	cfg, ok := f.services[strings.ToLower(service)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownService, service)
	}
	return NewServiceContext(service, cfg), nil
}

// Dispatcher returns the decorated dispatcher of service, building it on
// first use.
func (f *Factory) Dispatcher(service string) (Dispatcher, error) {
	key := strings.ToLower(service)

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil, ErrFactoryClosed
	}
	if d, ok := f.dispatchers[key]; ok {
		return d, nil
	}

	sc, err := f.ServiceContext(service)
	if err != nil {
		return nil, err
	}

	transport := sc.Config.TransportOrDefault()
	tf, ok := f.transports[transport]
	if !ok {
		return nil, fmt.Errorf("%w %q for service %s", ErrUnknownTransport, transport, service)
	}

	base, err := tf(sc)
	if err != nil {
		return nil, fmt.Errorf("creating %s transport for service %s: %w", transport, service, err)
	}
	f.transportsInUse = append(f.transportsInUse, base)

	d := base
	for i := len(f.decorators) - 1; i >= 0; i-- {
		d = f.decorators[i](d)
	}
	f.dispatchers[key] = d

	zap.L().Debug("Service dispatcher created",
		zap.String("service", service),
		zap.String("transport", transport),
		zap.String("url", sc.URL))

	return d, nil
}

// Create returns a new client of service. newStub builds the service stub
// on top of the recorder handed to it.
func Create[S any](f *Factory, service string, newStub func(*Recorder) S) (*Client[S], error) {
	sc, err := f.ServiceContext(service)
	if err != nil {
		return nil, err
	}
	d, err := f.Dispatcher(service)
	if err != nil {
		return nil, err
	}

	rec := NewRecorder(sc)
	return NewClient(newStub(rec), rec, d), nil
}

// Close releases every transport created so far. Clients created earlier
// must not be used afterwards.
func (f *Factory) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil
	}
	f.closed = true

	var errs []error
	for _, d := range f.transportsInUse {
		if closer, ok := d.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	f.transportsInUse = nil
	f.dispatchers = make(map[string]Dispatcher)

	return errors.Join(errs...)
}
