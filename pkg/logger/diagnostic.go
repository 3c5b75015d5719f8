package logger

import (
	"context"
	"sort"

	"go.uber.org/zap"
)

// CorrelationIDKey is the diagnostic key holding the correlation id of the
// current request.
const CorrelationIDKey = "correlationId"

type diagnosticKey struct{}

// diagnostics is never mutated once stored in a context; every write copies.
type diagnostics map[string]string

func diagnosticsFrom(ctx context.Context) diagnostics {
	if ctx == nil {
		return nil
	}
	d, _ := ctx.Value(diagnosticKey{}).(diagnostics)
	return d
}

// WithDiagnostic returns a copy of ctx whose diagnostic context carries key.
// An empty value removes the key.
func WithDiagnostic(ctx context.Context, key, value string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	current := diagnosticsFrom(ctx)
	next := make(diagnostics, len(current)+1)
	for k, v := range current {
		next[k] = v
	}
	if value == "" {
		delete(next, key)
	} else {
		next[key] = value
	}
	return context.WithValue(ctx, diagnosticKey{}, next)
}

// Diagnostic returns the diagnostic value stored under key, or "".
func Diagnostic(ctx context.Context, key string) string {
	return diagnosticsFrom(ctx)[key]
}

// Diagnostics returns a copy of every diagnostic value carried by ctx.
func Diagnostics(ctx context.Context) map[string]string {
	current := diagnosticsFrom(ctx)
	out := make(map[string]string, len(current))
	for k, v := range current {
		out[k] = v
	}
	return out
}

// ContextWithCorrelationID stores the correlation id in the diagnostic context.
func ContextWithCorrelationID(ctx context.Context, correlationID string) context.Context {
	return WithDiagnostic(ctx, CorrelationIDKey, correlationID)
}

// CorrelationID extracts the correlation id from the diagnostic context.
// Returns an empty string when none is set.
func CorrelationID(ctx context.Context) string {
	return Diagnostic(ctx, CorrelationIDKey)
}

// FromContext returns the global logger enriched with every diagnostic field
// of ctx, so log lines of one request can be correlated.
func FromContext(ctx context.Context) *zap.Logger {
	return WithDiagnostics(zap.L(), ctx)
}

// WithDiagnostics adds the diagnostic fields of ctx to logger.
func WithDiagnostics(logger *zap.Logger, ctx context.Context) *zap.Logger {
	current := diagnosticsFrom(ctx)
	if len(current) == 0 {
		return logger
	}

	keys := make([]string, 0, len(current))
	for k := range current {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fields := make([]zap.Field, 0, len(keys))
	for _, k := range keys {
		fields = append(fields, zap.String(k, current[k]))
	}
	return logger.With(fields...)
}
