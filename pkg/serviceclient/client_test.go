package serviceclient

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/duccv/service-kit/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestCall_DeliversResultToHandler(t *testing.T) {
	c := newTestClient(&calculatorServer{})

	got := make(chan int, 1)
	err := Call(context.Background(), c, c.Get().Add(2, 3), func(sum int) {
		got <- sum
	})
	require.NoError(t, err)

	select {
	case sum := <-got:
		assert.Equal(t, 5, sum)
	case <-time.After(time.Second):
		t.Fatal("handler was not called")
	}
}

func TestCall_ContractViolations(t *testing.T) {
	tests := []struct {
		name   string
		record func(calculator) int
		want   error
	}{
		{
			name:   "no method invoked",
			record: func(calculator) int { return 0 },
			want:   ErrNoInvocation,
		},
		{
			name:   "argument count mismatch",
			record: func(s calculator) int { return s.Broken(1) },
			want:   ErrArgumentCount,
		},
		{
			name:   "missing service context",
			record: func(s calculator) int { return s.Orphan() },
			want:   ErrNoContext,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := &calculatorServer{}
			c := newTestClient(server)

			err := Call(context.Background(), c, tt.record(c.Get()), func(int) {
				t.Error("handler must not run")
			})

			require.Error(t, err)
			assert.ErrorIs(t, err, ErrContractViolation)
			assert.ErrorIs(t, err, tt.want)
			var ce *ContractError
			assert.True(t, errors.As(err, &ce))
			assert.Zero(t, server.calls.Load())
		})
	}
}

func TestCall_NilOperation(t *testing.T) {
	rec := NewRecorder(&ServiceContext{Service: "calc"})
	rec.Record(nil)
	c := NewClient[calculator](nil, rec, &calculatorServer{})

	_, err := CallSync(context.Background(), c, 0)
	assert.ErrorIs(t, err, ErrNoOperation)
}

func TestCall_NilStub(t *testing.T) {
	c := NewClient[calculator](nil, nil, &calculatorServer{})

	err := Call(context.Background(), c, 0, nil)
	assert.ErrorIs(t, err, ErrNoInvocation)
}

func TestCall_InvocationConsumedOnce(t *testing.T) {
	c := newTestClient(&calculatorServer{})

	sum, err := CallSync(context.Background(), c, c.Get().Add(1, 1))
	require.NoError(t, err)
	assert.Equal(t, 2, sum)

	_, err = CallSync(context.Background(), c, 0)
	assert.ErrorIs(t, err, ErrNoInvocation)
}

func TestCall_LastRecordingWins(t *testing.T) {
	c := newTestClient(&calculatorServer{})

	c.Get().Add(1, 1)
	v, err := CallSync(context.Background(), c, c.Get().Echo("hi"))
	require.NoError(t, err)
	assert.Equal(t, "hi", v)
}

func TestCall_ErrorHandlerReceivesTransportFailure(t *testing.T) {
	c := newTestClient(&calculatorServer{fail: true})

	errs := make(chan error, 1)
	c.SetErrorHandler(func(err error) { errs <- err })
	require.NotNil(t, c.ErrorHandler())

	require.NoError(t, Call(context.Background(), c, c.Get().Add(1, 2), func(int) {
		t.Error("handler must not run on failure")
	}))

	select {
	case err := <-errs:
		var ie *InvocationError
		require.ErrorAs(t, err, &ie)
		assert.Equal(t, "calc", ie.Service)
		assert.Equal(t, "add", ie.Operation)
		assert.Equal(t, 503, ie.Status)
		assert.ErrorIs(t, err, errRemote)
	case <-time.After(time.Second):
		t.Fatal("error handler was not called")
	}
}

func TestCall_DefaultErrorHandlerLogs(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	restore := zap.ReplaceGlobals(zap.New(core))
	defer restore()

	c := newTestClient(&calculatorServer{fail: true})
	ctx := logger.ContextWithCorrelationID(context.Background(), "corr-1")

	require.NoError(t, Call(ctx, c, c.Get().Add(1, 2), nil))

	require.Eventually(t, func() bool {
		return logs.FilterMessage("Service invocation failed").Len() == 1
	}, time.Second, 5*time.Millisecond)

	fields := logs.FilterMessage("Service invocation failed").All()[0].ContextMap()
	assert.Equal(t, "corr-1", fields[logger.CorrelationIDKey])
	assert.Equal(t, "calc", fields["service"])
	assert.Equal(t, "add", fields["operation"])
}

func TestCallVoid(t *testing.T) {
	server := &calculatorServer{}
	c := newTestClient(server)

	done := make(chan struct{})
	err := CallVoid(context.Background(), c, func(s calculator) { s.Reset() }, func() { close(done) })
	require.NoError(t, err)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("handler was not called")
	}
	assert.EqualValues(t, 1, server.calls.Load())

	err = CallVoid(context.Background(), c, func(calculator) {}, nil)
	assert.ErrorIs(t, err, ErrNoInvocation)
}

func TestCallFuture(t *testing.T) {
	c := newTestClient(&calculatorServer{})

	f, err := CallFuture(context.Background(), c, c.Get().Add(20, 22))
	require.NoError(t, err)

	sum, err := f.AwaitWithTimeout(time.Second)
	require.NoError(t, err)
	assert.Equal(t, 42, sum)
	assert.True(t, f.IsComplete())
	assert.Equal(t, Result[int]{Value: 42}, f.Result())
}

func TestCallFuture_ReportsFailureThroughFuture(t *testing.T) {
	c := newTestClient(&calculatorServer{fail: true})
	c.SetErrorHandler(func(error) { t.Error("error handler must not be used by futures") })

	f, err := CallFuture(context.Background(), c, c.Get().Echo("x"))
	require.NoError(t, err)

	<-f.Done()
	res := f.Result()
	assert.Empty(t, res.Value)
	assert.ErrorIs(t, res.Err, errRemote)
}

func TestFuture_AwaitContextExpires(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	c := newTestClient(DispatcherFunc(func(context.Context, *Invocation, any) error {
		<-release
		return nil
	}))

	f, err := CallFuture(context.Background(), c, c.Get().Add(1, 1))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = f.AwaitContext(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, f.IsComplete())
}
