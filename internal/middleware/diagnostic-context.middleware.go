package middleware

import (
	"net/http"
	"regexp"

	"github.com/duccv/service-kit/internal/constant"
	"github.com/duccv/service-kit/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxCorrelationIDLength = 128

var validCorrelationID = regexp.MustCompile(`^[A-Za-z0-9._:-]+$`)

// FilterConfig supplies init parameters to a filter. ok is false when the
// parameter is absent.
type FilterConfig interface {
	InitParameter(name string) (value string, ok bool)
}

// InitParams is a FilterConfig backed by a plain map.
type InitParams map[string]string

func (p InitParams) InitParameter(name string) (string, bool) {
	v, ok := p[name]
	return v, ok
}

// DiagnosticContextFilter puts the correlation id of every request into the
// diagnostic context, so that all log lines written while serving the request
// carry it.
//
// The header name is fixed by Init; afterwards the filter is read-only and
// may serve concurrent requests.
type DiagnosticContextFilter struct {
	correlationIDHeaderName string
}

// NewDiagnosticContextFilter returns a filter using the default header name.
func NewDiagnosticContextFilter() *DiagnosticContextFilter {
	return &DiagnosticContextFilter{
		correlationIDHeaderName: constant.CorrelationIDHeaderNameDefault,
	}
}

// Init reads the correlationIdHeaderName parameter. When it is absent or
// empty the default header name is used.
func (f *DiagnosticContextFilter) Init(cfg FilterConfig) {
	if cfg != nil {
		if name, ok := cfg.InitParameter(constant.CorrelationIDHeaderNameParam); ok && name != "" {
			f.correlationIDHeaderName = name
			zap.L().Debug("Correlation id header configured", zap.String("header", name))
			return
		}
	}

	f.correlationIDHeaderName = constant.CorrelationIDHeaderNameDefault
	zap.L().Debug("Correlation id header not configured, using default",
		zap.String("param", constant.CorrelationIDHeaderNameParam),
		zap.String("header", f.correlationIDHeaderName))
}

// CorrelationIDHeaderName returns the header the filter reads.
func (f *DiagnosticContextFilter) CorrelationIDHeaderName() string {
	return f.correlationIDHeaderName
}

// Handler is the gin flavour of the filter.
func (f *DiagnosticContextFilter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		cid := f.correlationID(c.Request)

		c.Request = c.Request.WithContext(logger.ContextWithCorrelationID(c.Request.Context(), cid))
		c.Set(constant.GinCorrelationIDKey, cid)
		c.Writer.Header().Set(f.correlationIDHeaderName, cid)

		c.Next()
	}
}

// Wrap is the net/http flavour of the filter.
func (f *DiagnosticContextFilter) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cid := f.correlationID(r)

		w.Header().Set(f.correlationIDHeaderName, cid)
		next.ServeHTTP(w, r.WithContext(logger.ContextWithCorrelationID(r.Context(), cid)))
	})
}

// correlationID returns the id sent by the caller or a fresh one when the
// header is missing or unusable.
func (f *DiagnosticContextFilter) correlationID(r *http.Request) string {
	return ResolveCorrelationID(r.Header.Get(f.correlationIDHeaderName), f.correlationIDHeaderName)
}

// ResolveCorrelationID returns cid when it is a usable correlation id and a
// new UUID otherwise. source names where cid came from, for logging.
func ResolveCorrelationID(cid, source string) string {
	if isValidCorrelationID(cid) {
		return cid
	}

	generated := uuid.New().String()
	if cid != "" {
		zap.L().Debug("Rejected correlation id from request",
			zap.String("header", source),
			zap.Int("length", len(cid)),
			zap.String("replacement", generated))
	}
	return generated
}

func isValidCorrelationID(cid string) bool {
	return cid != "" && len(cid) <= maxCorrelationIDLength && validCorrelationID.MatchString(cid)
}
