package serviceclient

import "github.com/duccv/service-kit/config"

// Operation identifies one remote operation of a service.
type Operation struct {
	Service string
	Name    string
	// ParamCount is the number of arguments the operation declares.
	ParamCount int
	// Cacheable marks operations whose result depends only on their
	// arguments; the Cache decorator serves those from cache.
	Cacheable bool
}

// FullName returns "service/name".
func (o Operation) FullName() string {
	return o.Service + "/" + o.Name
}

// ServiceContext describes the remote service an invocation is sent to.
type ServiceContext struct {
	Service string
	URL     string
	Config  config.ServiceConfig
}

// NewServiceContext builds the context of service from its configuration.
func NewServiceContext(service string, cfg config.ServiceConfig) *ServiceContext {
	return &ServiceContext{
		Service: service,
		URL:     cfg.URL,
		Config:  cfg,
	}
}

// Invocation is one recorded call: what to invoke, with which arguments and
// on which service. It is consumed by exactly one dispatch.
type Invocation struct {
	Operation *Operation
	Args      []any
	Context   *ServiceContext
}
