package util

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFingerprint(t *testing.T) {
	require.Equal(t, Fingerprint([]any{"bob", 1}), Fingerprint([]any{"bob", 1}))
	require.NotEqual(t, Fingerprint([]any{"bob", 1}), Fingerprint([]any{"bob", 2}))
	require.Equal(t, Fingerprint("abc"), Fingerprint([]byte("abc")))
	require.Len(t, Fingerprint(nil), 64)

	// channels cannot be marshaled; the fallback still yields a digest
	require.Len(t, Fingerprint(make(chan int)), 64)
}
