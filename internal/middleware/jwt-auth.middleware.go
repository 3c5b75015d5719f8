package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/duccv/service-kit/internal/constant"
	"github.com/duccv/service-kit/internal/model"
	"github.com/duccv/service-kit/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// JWTAuthMiddleware authenticates calls between services. Callers sign an
// HS256 token with the shared secret and send it as a bearer token.
type JWTAuthMiddleware struct {
	secret []byte
	issuer string
}

// NewJWTAuthMiddleware creates a new JWT authentication middleware.
// An empty issuer accepts tokens from any issuer.
func NewJWTAuthMiddleware(secret []byte, issuer string) *JWTAuthMiddleware {
	return &JWTAuthMiddleware{
		secret: secret,
		issuer: issuer,
	}
}

// Authenticate validates the bearer token and stores the calling service in
// the gin context and the diagnostic context.
func (m *JWTAuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			handleAuthError(c, http.StatusUnauthorized, constant.UNAUTHORIZED, "missing_token")
			return
		}

		claims, err := m.verifyToken(token)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				handleAuthError(c, constant.TOKEN_EXPIRED.Ec, constant.TOKEN_EXPIRED, "token_expired")
				return
			}
			logger.FromContext(c.Request.Context()).Debug("Token verification failed", zap.Error(err))
			handleAuthError(c, http.StatusUnauthorized, constant.UNAUTHORIZED, "invalid_token")
			return
		}

		c.Set(constant.GinServiceCallerKey, claims.Caller)
		c.Request = c.Request.WithContext(logger.WithDiagnostic(c.Request.Context(), "caller", claims.Caller))

		logger.FromContext(c.Request.Context()).Debug("Service authenticated",
			zap.String("path", c.Request.URL.Path))

		c.Next()
	}
}

// extractToken extracts the JWT token from the Authorization header
func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}

	return parts[1]
}

// verifyToken validates and parses the JWT token
func (m *JWTAuthMiddleware) verifyToken(tokenString string) (*model.ServiceClaims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}

	claims := &model.ServiceClaims{}
	parsedToken, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return m.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("token parsing failed: %w", err)
	}

	if !parsedToken.Valid {
		return nil, jwt.ErrSignatureInvalid
	}

	if err := validate.Struct(claims); err != nil {
		return nil, fmt.Errorf("claims validation failed: %w", err)
	}

	return claims, nil
}

// handleAuthError handles authentication errors with proper logging
func handleAuthError(c *gin.Context, statusCode int, body any, errorType string) {
	logger.FromContext(c.Request.Context()).Warn("Authentication failed",
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
		zap.String("ip", getClientIP(c)),
		zap.String("errorType", errorType))

	c.AbortWithStatusJSON(statusCode, body)
}
