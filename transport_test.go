// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package odoo_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/odoo"
)

type scriptedReply struct {
	body string
	err  error
}

// scriptedTransport answers calls in order from replies.
type scriptedTransport struct {
	mu      sync.Mutex
	replies []scriptedReply
	calls   int
	urls    []string
}

func (s *scriptedTransport) Post(_ context.Context, url string, _ []byte) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.urls = append(s.urls, url)
	if s.calls >= len(s.replies) {
		return nil, errors.New("scriptedTransport: no reply left")
	}
	r := s.replies[s.calls]
	s.calls++
	if r.err != nil {
		return nil, r.err
	}
	return []byte(r.body), nil
}

func newRawServer(t *testing.T, handler http.HandlerFunc) *odoo.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return odoo.New(odoo.Credential{Database: "mydb", UserID: 2, Password: "pw", ServerURI: srv.URL + "/"})
}

func TestNonJSONBodyIsDecodeError(t *testing.T) {
	client := newRawServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		io.WriteString(w, "<html>502 Bad Gateway</html>")
	})

	resp, err := client.Read(context.Background(), "res.partner", nil)
	require.Nil(t, resp)
	var decodeErr *odoo.DecodeError
	require.ErrorAs(t, err, &decodeErr)
	require.Contains(t, string(decodeErr.Body), "Bad Gateway")
}

func TestTrailingGarbageIsDecodeError(t *testing.T) {
	client := newRawServer(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"result": 1} trailing`)
	})

	_, err := client.Count(context.Background(), "res.partner", nil, nil)
	var decodeErr *odoo.DecodeError
	require.ErrorAs(t, err, &decodeErr)
}

func TestNon2xxIsTransportError(t *testing.T) {
	client := newRawServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	resp, err := client.Count(context.Background(), "res.partner", nil, nil)
	require.Nil(t, resp)
	var terr *odoo.TransportError
	require.ErrorAs(t, err, &terr)
	require.Equal(t, http.StatusInternalServerError, terr.StatusCode)
	require.ErrorIs(t, err, odoo.ErrStatus)
}

func TestEmptyBodyIsTransportError(t *testing.T) {
	client := newRawServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	_, err := client.Count(context.Background(), "res.partner", nil, nil)
	require.ErrorIs(t, err, odoo.ErrEmptyBody)
	var terr *odoo.TransportError
	require.ErrorAs(t, err, &terr)
}

func TestConnectionFailureIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := odoo.New(odoo.Credential{ServerURI: url})
	_, err := client.Count(context.Background(), "res.partner", nil, nil)
	var terr *odoo.TransportError
	require.ErrorAs(t, err, &terr)
	require.Equal(t, url+"/jsonrpc", terr.URL)
}

func TestUnconfiguredCredentialFailsAtTransport(t *testing.T) {
	client := odoo.New(odoo.Credential{})
	_, err := client.Count(context.Background(), "res.partner", nil, nil)
	var terr *odoo.TransportError
	require.ErrorAs(t, err, &terr)
}

func TestPostsJSONToEndpoint(t *testing.T) {
	var gotPath, gotMethod, gotType string
	client := newRawServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotMethod, gotType = r.URL.Path, r.Method, r.Header.Get("Content-Type")
		io.WriteString(w, `{"jsonrpc":"2.0","id":1,"result":[]}`)
	})

	_, err := client.Read(context.Background(), "res.partner", nil)
	require.NoError(t, err)
	require.Equal(t, "/jsonrpc", gotPath)
	require.Equal(t, http.MethodPost, gotMethod)
	require.Equal(t, "application/json", gotType)
}

func TestTransportHeaders(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("X-Odoo-Tenant")
		io.WriteString(w, `{"result": 0}`)
	}))
	t.Cleanup(srv.Close)

	client := odoo.New(odoo.Credential{ServerURI: srv.URL}, odoo.WithTransport(&odoo.HTTPTransport{
		Header: http.Header{"X-Odoo-Tenant": []string{"acme"}},
	}))
	_, err := client.Count(context.Background(), "res.partner", nil, nil)
	require.NoError(t, err)
	require.Equal(t, "acme", got)
}

func TestContextDeadlineBoundsCall(t *testing.T) {
	release := make(chan struct{})
	client := newRawServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Count(ctx, "res.partner", nil, nil)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestScriptedTransportReceivesEndpointURL(t *testing.T) {
	transport := &scriptedTransport{replies: []scriptedReply{{body: `{"result": 3}`}}}
	client := odoo.New(odoo.Credential{ServerURI: "https://erp.example.com/"}, odoo.WithTransport(transport))

	resp, err := client.Count(context.Background(), "res.partner", nil, nil)
	require.NoError(t, err)
	n, err := resp.Int()
	require.NoError(t, err)
	require.Equal(t, int64(3), n)
	require.Equal(t, []string{"https://erp.example.com/jsonrpc"}, transport.urls)
}
