package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

type MiddlewareConfig struct {
	// Logging Configuration
	LoggingEnabled  bool
	LogUserAgent    bool
	LogIPAddress    bool
	LogResponseTime bool
	SlowRequest     time.Duration
}

func DefaultMiddlewareConfig() *MiddlewareConfig {
	return &MiddlewareConfig{
		LoggingEnabled:  true,
		LogUserAgent:    true,
		LogIPAddress:    true,
		LogResponseTime: true,
		SlowRequest:     5 * time.Second,
	}
}

// getClientIP extracts the real client IP address
func getClientIP(c *gin.Context) string {
	// Check for forwarded headers
	if ip := c.GetHeader("X-Forwarded-For"); ip != "" {
		return ip
	}
	if ip := c.GetHeader("X-Real-IP"); ip != "" {
		return ip
	}

	return c.ClientIP()
}
