// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package odoo

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// endpointPath is appended to the credential's server URI.
const endpointPath = "jsonrpc"

// Transport delivers one encoded envelope and returns the raw response
// body. Implementations must not retry.
type Transport interface {
	Post(ctx context.Context, url string, body []byte) ([]byte, error)
}

// HTTPTransport posts envelopes with net/http. A nil Client means
// http.DefaultClient, which imposes no timeout of its own; bound latency
// with a context deadline or a Client carrying a Timeout.
type HTTPTransport struct {
	Client *http.Client
	// Header is added to every request.
	Header http.Header
}

func (t *HTTPTransport) Post(ctx context.Context, url string, body []byte) ([]byte, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, &TransportError{URL: url, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	for k, values := range t.Header {
		for _, v := range values {
			request.Header.Add(k, v)
		}
	}
	request.Header.Set("Content-Type", "application/json")
	injectTraceContext(ctx, request.Header)

	client := t.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(request)
	if err != nil {
		return nil, &TransportError{URL: url, Err: err}
	}
	defer CleanlyCloseBody(resp.Body)

	// Return an error for any non successful status code
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{URL: url, StatusCode: resp.StatusCode, Err: ErrStatus}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{URL: url, StatusCode: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &TransportError{URL: url, StatusCode: resp.StatusCode, Err: ErrEmptyBody}
	}
	return data, nil
}

// CleanlyCloseBody drains and closes an HTTP response body to prevent
// HTTP/2 GOAWAY errors caused by closing bodies with unread data.
// See: https://github.com/golang/go/issues/46071
func CleanlyCloseBody(body io.ReadCloser) error {
	if body == nil {
		return nil
	}
	_, _ = io.Copy(io.Discard, body)
	return body.Close()
}

// endpointURL joins the server URI and the JSON-RPC path.
func endpointURL(serverURI string) string {
	return strings.TrimRight(serverURI, "/") + "/" + endpointPath
}
