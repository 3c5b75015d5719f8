package registry

import (
	"context"
	"encoding/json"
	"fmt"
)

func decodeArg[T any](args []json.RawMessage, i int) (T, error) {
	var v T
	if err := json.Unmarshal(args[i], &v); err != nil {
		return v, fmt.Errorf("%w: argument %d: %v", ErrBadArguments, i, err)
	}
	return v, nil
}

// Bind0 adapts an operation without parameters.
func Bind0[R any](fn func(ctx context.Context) (R, error)) Handler {
	return func(ctx context.Context, _ []json.RawMessage) (any, error) {
		return fn(ctx)
	}
}

// Bind1 adapts an operation with one parameter.
func Bind1[A, R any](fn func(ctx context.Context, a A) (R, error)) Handler {
	return func(ctx context.Context, args []json.RawMessage) (any, error) {
		a, err := decodeArg[A](args, 0)
		if err != nil {
			return nil, err
		}
		return fn(ctx, a)
	}
}

// Bind2 adapts an operation with two parameters.
func Bind2[A, B, R any](fn func(ctx context.Context, a A, b B) (R, error)) Handler {
	return func(ctx context.Context, args []json.RawMessage) (any, error) {
		a, err := decodeArg[A](args, 0)
		if err != nil {
			return nil, err
		}
		b, err := decodeArg[B](args, 1)
		if err != nil {
			return nil, err
		}
		return fn(ctx, a, b)
	}
}
