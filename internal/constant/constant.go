package constant

// Constant package provides constants used throughout the application.

const (
	// CorrelationIDHeaderNameParam is the init parameter naming the correlation header.
	CorrelationIDHeaderNameParam = "correlationIdHeaderName"
	// CorrelationIDHeaderNameDefault is used when the init parameter is absent.
	CorrelationIDHeaderNameDefault = "X-Correlation-Id"

	// Gin context keys
	GinCorrelationIDKey = "correlationId"
	GinServiceCallerKey = "serviceCaller"
)
