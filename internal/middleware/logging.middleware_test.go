package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/duccv/service-kit/internal/constant"
	"github.com/duccv/service-kit/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestLoggerCarriesCorrelationID(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	restore := zap.ReplaceGlobals(zap.New(core))
	defer restore()

	logging := NewLoggingMiddleware(DefaultMiddlewareConfig())

	r := gin.New()
	r.Use(NewDiagnosticContextFilter().Handler())
	r.Use(logging.RequestLogger())
	r.Use(logging.ErrorLogger())
	r.GET("/fail", func(c *gin.Context) {
		_ = c.Error(errors.New("boom"))
		c.Status(http.StatusInternalServerError)
	})

	req := httptest.NewRequest(http.MethodGet, "/fail", nil)
	req.Header.Set(constant.CorrelationIDHeaderNameDefault, "log-me")
	r.ServeHTTP(httptest.NewRecorder(), req)

	for _, msg := range []string{"Request started", "Request completed", "Request error"} {
		entries := logs.FilterMessage(msg).All()
		require.Len(t, entries, 1, msg)
		require.Equal(t, "log-me", entries[0].ContextMap()[logger.CorrelationIDKey], msg)
	}

	completed := logs.FilterMessage("Request completed").All()[0]
	fields := completed.ContextMap()
	require.EqualValues(t, http.StatusInternalServerError, fields["statusCode"])
	require.Contains(t, fields, "responseTime")
	require.Equal(t, "GET", fields["method"])
	require.Equal(t, "/fail", fields["path"])
}

func TestRequestLoggerDisabled(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	restore := zap.ReplaceGlobals(zap.New(core))
	defer restore()

	cfg := DefaultMiddlewareConfig()
	cfg.LoggingEnabled = false

	r := gin.New()
	r.Use(NewLoggingMiddleware(cfg).RequestLogger())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.Zero(t, logs.Len())
}
