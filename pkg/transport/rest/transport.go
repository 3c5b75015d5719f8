package rest_transport

import (
	"net/http"
	"time"

	"github.com/duccv/service-kit/pkg/logger"
	"go.uber.org/zap"
)

// loggingTransport logs every HTTP round trip, retries included.
type loggingTransport struct {
	next http.RoundTripper
}

func newLoggingTransport(next http.RoundTripper) http.RoundTripper {
	return &loggingTransport{next: next}
}

func (rt *loggingTransport) RoundTrip(request *http.Request) (*http.Response, error) {
	start := time.Now()

	response, err := rt.next.RoundTrip(request)

	log := logger.WithComponent(logger.FromContext(request.Context()), "rest_transport").With(
		zap.String("method", request.Method),
		zap.String("url", request.URL.String()),
		zap.Duration("duration", time.Since(start)),
	)

	if err != nil {
		log.Error("Service unreachable", zap.Error(err))
		return response, err
	}

	log = log.With(zap.Int("status", response.StatusCode))
	if response.StatusCode >= 400 {
		log.Warn("Service returned an error status")
		return response, nil
	}

	if response.ContentLength >= 0 {
		log = log.With(zap.Int64("content_length_bytes", response.ContentLength))
	}
	log.Debug("Finished HTTP request")
	return response, nil
}

// CloseIdleConnections lets http.Client.CloseIdleConnections reach the
// wrapped transport.
func (rt *loggingTransport) CloseIdleConnections() {
	type closeIdler interface {
		CloseIdleConnections()
	}
	if tr, ok := rt.next.(closeIdler); ok {
		tr.CloseIdleConnections()
	}
}
