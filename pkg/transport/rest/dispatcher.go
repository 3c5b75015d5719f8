// Package rest_transport sends service invocations as JSON over HTTP.
//
// An invocation of operation op on service svc becomes
//
//	POST {url}/{svc}/{op}
//	{"args": [...]}
//
// and the server answers with the {"ec","msg","error","data"} envelope.
package rest_transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/duccv/service-kit/internal/model"
	"github.com/duccv/service-kit/internal/model/response"
	"github.com/duccv/service-kit/pkg/logger"
	"github.com/duccv/service-kit/pkg/serviceclient"
	"github.com/golang-jwt/jwt/v5"
	"github.com/hashicorp/go-retryablehttp"
)

type Dispatcher struct {
	baseURL string
	client  *retryablehttp.Client
	opts    options
}

// New creates the dispatcher for the service described by sc.
func New(sc *serviceclient.ServiceContext, opts ...Option) (*Dispatcher, error) {
	u, err := url.Parse(sc.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing url of service %s: %w", sc.Service, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("service %s: unsupported url scheme %q", sc.Service, u.Scheme)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	client := retryablehttp.NewClient()
	client.Logger = nil
	client.RetryMax = sc.Config.RetryMax
	if sc.Config.RetryWaitMin > 0 {
		client.RetryWaitMin = time.Duration(sc.Config.RetryWaitMin) * time.Millisecond
	}
	if sc.Config.RetryWaitMax > 0 {
		client.RetryWaitMax = time.Duration(sc.Config.RetryWaitMax) * time.Millisecond
	}
	client.CheckRetry = checkRetry
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler
	client.HTTPClient.Transport = newLoggingTransport(client.HTTPClient.Transport)
	if sc.Config.Timeout > 0 {
		client.HTTPClient.Timeout = time.Duration(sc.Config.Timeout) * time.Second
	}

	return &Dispatcher{
		baseURL: strings.TrimRight(sc.URL, "/"),
		client:  client,
		opts:    o,
	}, nil
}

// Factory returns a serviceclient.TransportFactory building REST dispatchers.
func Factory(opts ...Option) serviceclient.TransportFactory {
	return func(sc *serviceclient.ServiceContext) (serviceclient.Dispatcher, error) {
		return New(sc, opts...)
	}
}

// checkRetry retries connection failures and the statuses that signal a
// temporarily unavailable service. Everything else is final.
func checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if err != nil {
		return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
	}
	switch resp.StatusCode {
	case http.StatusTooManyRequests, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true, nil
	}
	return false, nil
}

func (d *Dispatcher) endpoint(op *serviceclient.Operation) string {
	return d.baseURL + "/" + url.PathEscape(op.Service) + "/" + url.PathEscape(op.Name)
}

func (d *Dispatcher) Dispatch(ctx context.Context, inv *serviceclient.Invocation, reply any) error {
	args := inv.Args
	if args == nil {
		args = []any{}
	}
	body, err := json.Marshal(model.InvocationRequest{Args: args})
	if err != nil {
		return serviceclient.NewInvocationError(inv, 0, "encoding arguments", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, d.endpoint(inv.Operation), bytes.NewReader(body))
	if err != nil {
		return serviceclient.NewInvocationError(inv, 0, "building request", err)
	}
	if err := d.setHeaders(ctx, req); err != nil {
		return serviceclient.NewInvocationError(inv, 0, "signing request", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return serviceclient.NewInvocationError(inv, 0, "request failed", err)
	}
	defer resp.Body.Close()

	return decodeResponse(inv, resp, reply)
}

func (d *Dispatcher) setHeaders(ctx context.Context, req *retryablehttp.Request) error {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if id := logger.CorrelationID(ctx); id != "" {
		req.Header.Set(d.opts.correlationHeader, id)
	}

	if len(d.opts.secret) == 0 {
		return nil
	}
	now := time.Now()
	claims := model.ServiceClaims{
		Caller: d.opts.caller,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    d.opts.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d.opts.tokenTTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(d.opts.secret)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return nil
}

func decodeResponse(inv *serviceclient.Invocation, resp *http.Response, reply any) error {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, _maxResponseSize))
	if err != nil {
		return serviceclient.NewInvocationError(inv, resp.StatusCode, "reading response", err)
	}

	var envelope response.RawResponseData
	decodeErr := json.Unmarshal(raw, &envelope)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := http.StatusText(resp.StatusCode)
		if decodeErr == nil {
			if envelope.Error != "" {
				msg = envelope.Error
			} else if envelope.Msg != "" {
				msg = envelope.Msg
			}
		}
		return serviceclient.NewInvocationError(inv, resp.StatusCode, msg, nil)
	}

	if decodeErr != nil {
		return serviceclient.NewInvocationError(inv, resp.StatusCode, "decoding response", decodeErr)
	}
	if reply == nil || len(envelope.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(envelope.Data, reply); err != nil {
		return serviceclient.NewInvocationError(inv, resp.StatusCode, "decoding result", err)
	}
	return nil
}

// Close releases idle connections.
func (d *Dispatcher) Close() error {
	d.client.HTTPClient.CloseIdleConnections()
	return nil
}
