package middleware

import (
	"time"

	"github.com/duccv/service-kit/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// LoggingMiddleware provides request logging functionality.
// It must run after the diagnostic context filter so every line carries the
// correlation id.
type LoggingMiddleware struct {
	config *MiddlewareConfig
}

// NewLoggingMiddleware creates a new logging middleware
func NewLoggingMiddleware(config *MiddlewareConfig) *LoggingMiddleware {
	return &LoggingMiddleware{
		config: config,
	}
}

// RequestLogger provides request logging middleware
func (l *LoggingMiddleware) RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.config.LoggingEnabled {
			c.Next()
			return
		}

		start := time.Now()
		log := l.createRequestLogger(c)

		log.Info("Request started",
			zap.String("query", c.Request.URL.RawQuery),
			zap.String("referer", c.GetHeader("Referer")))

		c.Next()

		duration := time.Since(start)
		if l.config.LogResponseTime {
			log = logger.WithResponse(log, c.Writer.Status(), duration)
		} else {
			log = log.With(zap.Int("statusCode", c.Writer.Status()))
		}
		fields := []zap.Field{zap.Int("size", c.Writer.Size())}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("error", c.Errors.String()))
		}
		log.Info("Request completed", fields...)

		if l.config.SlowRequest > 0 && duration > l.config.SlowRequest {
			log.Warn("Slow request detected", zap.Duration("duration", duration))
		}
	}
}

// ErrorLogger logs the errors handlers attached to the gin context
func (l *LoggingMiddleware) ErrorLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		log := logger.FromContext(c.Request.Context())
		for _, err := range c.Errors {
			log.Error("Request error",
				zap.Error(err.Err),
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method))
		}
	}
}

// createRequestLogger creates a logger with request context
func (l *LoggingMiddleware) createRequestLogger(c *gin.Context) *zap.Logger {
	var fields []zap.Field

	if l.config.LogIPAddress {
		fields = append(fields, zap.String("ip", getClientIP(c)))
	}

	if l.config.LogUserAgent {
		fields = append(fields, zap.String("userAgent", c.GetHeader("User-Agent")))
	}

	return logger.WithRequest(logger.FromContext(c.Request.Context()), c.Request).With(fields...)
}
