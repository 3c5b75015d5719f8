package rest_transport

import (
	"strings"
	"time"

	"github.com/duccv/service-kit/internal/constant"
)

const (
	_defaultTokenTTL = time.Minute
	_maxResponseSize = 10 << 20
)

type options struct {
	correlationHeader string
	secret            []byte
	issuer            string
	caller            string
	tokenTTL          time.Duration
}

func defaultOptions() options {
	return options{
		correlationHeader: constant.CorrelationIDHeaderNameDefault,
		tokenTTL:          _defaultTokenTTL,
	}
}

// Option -.
type Option func(*options)

// CorrelationHeader sets the header carrying the correlation id. Keep it in
// line with the header the receiving filter reads.
func CorrelationHeader(name string) Option {
	return func(o *options) {
		if name != "" {
			o.correlationHeader = name
		}
	}
}

// Auth signs every request with an HS256 token for caller. An empty secret
// disables signing.
func Auth(secret, issuer, caller string, ttl time.Duration) Option {
	return func(o *options) {
		o.secret = []byte(strings.TrimSpace(secret))
		o.issuer = issuer
		o.caller = caller
		if ttl > 0 {
			o.tokenTTL = ttl
		}
	}
}
