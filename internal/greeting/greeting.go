// Package greeting is a small example service exposed by the servers and
// called through the service client.
package greeting

import (
	"context"
	"fmt"
	"strings"

	"github.com/duccv/service-kit/internal/registry"
	"github.com/duccv/service-kit/pkg/logger"
	"github.com/duccv/service-kit/pkg/serviceclient"
)

// Name is the remote service name.
const Name = "greeting"

type Service interface {
	Hello(name string) string
	Add(a, b int) int
	Ping()
}

var (
	OpHello = serviceclient.Operation{Service: Name, Name: "hello", ParamCount: 1, Cacheable: true}
	OpAdd   = serviceclient.Operation{Service: Name, Name: "add", ParamCount: 2}
	OpPing  = serviceclient.Operation{Service: Name, Name: "ping"}
)

// Stub records greeting calls for a serviceclient.Client.
type Stub struct {
	rec *serviceclient.Recorder
}

// NewStub matches the constructor expected by serviceclient.Create.
func NewStub(rec *serviceclient.Recorder) Service {
	return &Stub{rec: rec}
}

func (s *Stub) Hello(name string) string {
	s.rec.Record(&OpHello, name)
	return ""
}

func (s *Stub) Add(a, b int) int {
	s.rec.Record(&OpAdd, a, b)
	return 0
}

func (s *Stub) Ping() {
	s.rec.Record(&OpPing)
}

// Impl is the server side implementation.
type Impl struct{}

func (Impl) Hello(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "world"
	}
	logger.FromContext(ctx).Debug("Greeting " + name)
	return fmt.Sprintf("Hello, %s!", name), nil
}

func (Impl) Add(_ context.Context, a, b int) (int, error) {
	return a + b, nil
}

func (Impl) Ping(context.Context) (any, error) {
	return nil, nil
}

// Register exposes impl's operations on reg.
func Register(reg *registry.Registry, impl Impl) error {
	if err := reg.Register(OpHello, registry.Bind1(impl.Hello)); err != nil {
		return err
	}
	if err := reg.Register(OpAdd, registry.Bind2(impl.Add)); err != nil {
		return err
	}
	return reg.Register(OpPing, registry.Bind0(impl.Ping))
}
