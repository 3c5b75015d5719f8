package logger

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestGetLogLevel(t *testing.T) {
	testCases := []struct {
		desc  string
		level string
		env   string
		want  zapcore.Level
	}{
		{"debug in development", "debug", "development", zapcore.DebugLevel},
		{"invalid in development", "loud", "development", zapcore.InfoLevel},
		{"debug in production", "debug", "production", zapcore.InfoLevel},
		{"warn in production", "warn", "production", zapcore.WarnLevel},
		{"invalid in production", "loud", "production", zapcore.InfoLevel},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			require.Equal(t, tc.want, getLogLevel(tc.level, tc.env).Level())
		})
	}
}
