package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestContextWithCorrelationID(t *testing.T) {
	tests := []struct {
		name          string
		ctx           context.Context
		correlationID string
		want          string
	}{
		{name: "nil context", ctx: nil, correlationID: "abc-123", want: "abc-123"},
		{name: "background context", ctx: context.Background(), correlationID: "def-456", want: "def-456"},
		{name: "empty id", ctx: context.Background(), correlationID: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := ContextWithCorrelationID(tt.ctx, tt.correlationID)
			require.Equal(t, tt.want, CorrelationID(ctx))
		})
	}
}

func TestCorrelationIDFromNilContext(t *testing.T) {
	//nolint:staticcheck
	require.Empty(t, CorrelationID(nil))
}

func TestWithDiagnosticDoesNotLeakIntoParent(t *testing.T) {
	parent := WithDiagnostic(context.Background(), "tenant", "acme")
	child := WithDiagnostic(parent, "user", "42")

	require.Equal(t, map[string]string{"tenant": "acme"}, Diagnostics(parent))
	require.Equal(t, map[string]string{"tenant": "acme", "user": "42"}, Diagnostics(child))

	removed := WithDiagnostic(child, "tenant", "")
	require.Equal(t, map[string]string{"user": "42"}, Diagnostics(removed))
	require.Equal(t, "acme", Diagnostic(child, "tenant"))
}

func TestDiagnosticsReturnsCopy(t *testing.T) {
	ctx := WithDiagnostic(context.Background(), "k", "v")

	copied := Diagnostics(ctx)
	copied["k"] = "changed"

	require.Equal(t, "v", Diagnostic(ctx, "k"))
}

func TestFromContextAddsDiagnosticFields(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	restore := zap.ReplaceGlobals(zap.New(core))
	defer restore()

	ctx := ContextWithCorrelationID(context.Background(), "corr-1")
	ctx = WithDiagnostic(ctx, "tenant", "acme")

	FromContext(ctx).Info("hello")
	FromContext(context.Background()).Info("plain")

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)
	require.Equal(t, map[string]interface{}{
		CorrelationIDKey: "corr-1",
		"tenant":         "acme",
	}, entries[0].ContextMap())
	require.Empty(t, entries[1].ContextMap())
}
