package greeting

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/duccv/service-kit/config"
	"github.com/duccv/service-kit/internal/registry"
	"github.com/duccv/service-kit/pkg/serviceclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStub_RecordsDeclaredArity(t *testing.T) {
	rec := serviceclient.NewRecorder(serviceclient.NewServiceContext(Name, config.ServiceConfig{URL: "http://x"}))
	stub := NewStub(rec)

	stub.Add(1, 2)
	inv := rec.Invocation()
	require.NotNil(t, inv)
	assert.Same(t, &OpAdd, inv.Operation)
	assert.Equal(t, []any{1, 2}, inv.Args)
	assert.Len(t, inv.Args, inv.Operation.ParamCount)

	stub.Hello("bob")
	inv = rec.Invocation()
	assert.Len(t, inv.Args, inv.Operation.ParamCount)

	stub.Ping()
	inv = rec.Invocation()
	assert.Empty(t, inv.Args)
	assert.Equal(t, 0, inv.Operation.ParamCount)
	assert.Nil(t, rec.Invocation())
}

func TestRegister(t *testing.T) {
	reg := registry.New()
	require.NoError(t, Register(reg, Impl{}))
	assert.Equal(t, []string{"greeting/add", "greeting/hello", "greeting/ping"}, reg.Operations())

	got, err := reg.Invoke(context.Background(), Name, "hello", []json.RawMessage{json.RawMessage(`"ann"`)})
	require.NoError(t, err)
	assert.Equal(t, "Hello, ann!", got)

	got, err = reg.Invoke(context.Background(), Name, "hello", []json.RawMessage{json.RawMessage(`"  "`)})
	require.NoError(t, err)
	assert.Equal(t, "Hello, world!", got)

	got, err = reg.Invoke(context.Background(), Name, "add", []json.RawMessage{json.RawMessage("2"), json.RawMessage("40")})
	require.NoError(t, err)
	assert.Equal(t, 42, got)

	got, err = reg.Invoke(context.Background(), Name, "ping", nil)
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.ErrorIs(t, Register(reg, Impl{}), registry.ErrDuplicateOperation)
}
