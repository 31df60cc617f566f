// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package odootest provides an in-process execute_kw server for tests.
// It records every call and answers from handlers registered per model
// and method.
package odootest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
)

// Call is one decoded execute_kw request.
type Call struct {
	ID       uint64
	Database string
	UserID   int
	Password string
	Model    string
	Method   string
	Args     []interface{}
	Kwargs   map[string]interface{}
	// RawArgs is the params.args member exactly as received.
	RawArgs json.RawMessage
	Header  http.Header
}

// Fault is a server-side error, sent as the error member.
type Fault struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Handler answers a call with a result or a fault.
type Handler func(call Call) (interface{}, *Fault)

// Result returns a Handler that always answers v.
func Result(v interface{}) Handler {
	return func(Call) (interface{}, *Fault) { return v, nil }
}

// Server is an httptest.Server speaking the /jsonrpc endpoint.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	calls    []Call
	handlers map[string]Handler
}

// NewServer starts a server. Calls without a handler answer [].
func NewServer() *Server {
	s := &Server{handlers: make(map[string]Handler)}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serveHTTP))
	return s
}

// Handle registers h for method calls on model.
func (s *Server) Handle(model, method string, h Handler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[key(model, method)] = h
}

// Calls returns the calls received so far, oldest first.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// CallsTo returns the calls received for method on model.
func (s *Server) CallsTo(model, method string) []Call {
	var out []Call
	for _, c := range s.Calls() {
		if c.Model == model && c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

func key(model, method string) string {
	return model + "/" + method
}

type envelope struct {
	Version string `json:"jsonrpc"`
	Method  string `json:"method"`
	ID      uint64 `json:"id"`
	Params  struct {
		Service string          `json:"service"`
		Method  string          `json:"method"`
		Args    json.RawMessage `json:"args"`
	} `json:"params"`
}

func (s *Server) serveHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/jsonrpc" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	defer r.Body.Close()

	var env envelope
	if err := json.NewDecoder(r.Body).Decode(&env); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	call, err := decodeCall(env)
	if err != nil {
		writeJSON(w, env.ID, nil, &Fault{Code: 200, Message: err.Error()})
		return
	}
	call.Header = r.Header.Clone()

	s.mu.Lock()
	s.calls = append(s.calls, call)
	h := s.handlers[key(call.Model, call.Method)]
	s.mu.Unlock()

	if h == nil {
		h = Result([]interface{}{})
	}
	result, fault := h(call)
	writeJSON(w, env.ID, result, fault)
}

func decodeCall(env envelope) (Call, error) {
	if env.Version != "2.0" || env.Method != "call" {
		return Call{}, fmt.Errorf("unexpected envelope %q/%q", env.Version, env.Method)
	}
	if env.Params.Service != "object" || env.Params.Method != "execute_kw" {
		return Call{}, fmt.Errorf("unexpected service %q/%q", env.Params.Service, env.Params.Method)
	}

	var args []json.RawMessage
	if err := json.Unmarshal(env.Params.Args, &args); err != nil {
		return Call{}, fmt.Errorf("args: %w", err)
	}
	if len(args) != 7 {
		return Call{}, fmt.Errorf("args: want 7 elements, got %d", len(args))
	}

	call := Call{ID: env.ID, RawArgs: env.Params.Args}
	targets := []interface{}{
		&call.Database, &call.UserID, &call.Password, &call.Model, &call.Method, &call.Args, &call.Kwargs,
	}
	for i, target := range targets {
		if err := json.Unmarshal(args[i], target); err != nil {
			return Call{}, fmt.Errorf("args[%d]: %w", i, err)
		}
	}
	return call, nil
}

func writeJSON(w http.ResponseWriter, id uint64, result interface{}, fault *Fault) {
	resp := map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      id,
	}
	if fault != nil {
		resp["error"] = fault
	} else {
		resp["result"] = result
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}
