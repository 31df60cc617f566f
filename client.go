// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package odoo

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Client issues execute_kw calls with the credential it is bound to.
// A Client is safe for concurrent use; Configure affects calls started
// after it returns.
type Client struct {
	store     *Store
	transport Transport
	codec     Codec
	logger    *slog.Logger
	telemetry *telemetry
	selection SelectionStrategy
}

// Option configures a Client
type Option func(*clientOptions)

type clientOptions struct {
	transport      Transport
	httpClient     *http.Client
	codec          Codec
	logger         *slog.Logger
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
	selection      SelectionStrategy
}

// WithTransport replaces the HTTP transport, e.g. with a fake in tests.
func WithTransport(t Transport) Option {
	return func(o *clientOptions) { o.transport = t }
}

// WithHTTPClient sets the http.Client used by the default transport.
func WithHTTPClient(h *http.Client) Option {
	return func(o *clientOptions) { o.httpClient = h }
}

// WithCodec sets a custom response codec
func WithCodec(c Codec) Option {
	return func(o *clientOptions) { o.codec = c }
}

// WithLogger sets the logger. Calls are logged at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(o *clientOptions) { o.logger = l }
}

// WithTracerProvider sets the tracer provider for call spans.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *clientOptions) { o.tracerProvider = tp }
}

// WithMeterProvider sets the meter provider for call metrics.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *clientOptions) { o.meterProvider = mp }
}

// WithSelectionStrategy chooses how Field resolves selection options.
func WithSelectionStrategy(s SelectionStrategy) Option {
	return func(o *clientOptions) { o.selection = s }
}

// New returns a Client bound to cred.
func New(cred Credential, opts ...Option) *Client {
	o := &clientOptions{
		selection: SelectionPerField,
	}
	for _, opt := range opts {
		opt(o)
	}

	c := &Client{
		store:     NewStore(cred),
		transport: o.transport,
		codec:     o.codec,
		logger:    o.logger,
		telemetry: newTelemetry(o.tracerProvider, o.meterProvider),
		selection: o.selection,
	}
	if c.transport == nil {
		c.transport = &HTTPTransport{Client: o.httpClient}
	}
	if c.codec == nil {
		c.codec = defaultCodec
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// Configure replaces the client's credential for subsequent calls.
func (c *Client) Configure(cred Credential) {
	c.store.Configure(cred)
}

// Credential returns a copy of the client's current credential.
func (c *Client) Credential() Credential {
	return c.store.Current()
}

// Call runs method on model with the given positional and keyword
// arguments. nil args and kwargs are sent as [] and {}. A server fault is
// returned as a Response, not as an error.
func (c *Client) Call(ctx context.Context, model, method string, args []interface{}, kwargs map[string]interface{}) (*Response, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	cred := c.store.Current()
	url := endpointURL(cred.ServerURI)

	body, err := BuildEnvelope(cred, method, model, args, kwargs).Encode()
	if err != nil {
		return nil, err
	}

	c.logger.Debug("odoo call", "model", model, "method", method, "url", url, "db", cred.Database, "uid", cred.UserID)

	ctx, span := c.telemetry.start(ctx, callInfo{
		Model:    model,
		Method:   method,
		Database: cred.Database,
		URL:      url,
	})
	resp, err := c.roundTrip(ctx, url, body)
	c.telemetry.end(ctx, span, err, serverFault(resp))
	if err != nil {
		c.logger.Warn("odoo call failed", "model", model, "method", method, "url", url, "err", err)
		return nil, err
	}
	return resp, nil
}

// serverFault returns the error member of resp, if any.
func serverFault(resp *Response) *ServerError {
	if resp == nil {
		return nil
	}
	var fault *ServerError
	if errors.As(resp.Err(), &fault) {
		return fault
	}
	return nil
}

func (c *Client) roundTrip(ctx context.Context, url string, body []byte) (*Response, error) {
	data, err := c.transport.Post(ctx, url, body)
	if err != nil {
		return nil, err
	}
	var tree interface{}
	if err := c.codec.Decode(data, &tree); err != nil {
		return nil, &DecodeError{Body: data, Err: err}
	}
	return &Response{Tree: tree}, nil
}
