// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package odoo

import (
	"fmt"

	"github.com/gorilla/rpc/v2/json2"
)

const (
	envelopeMethod = "call"
	serviceObject  = "object"
	executeKW      = "execute_kw"
)

// Params is the params member of a call envelope. Args is the fixed
// 7-element tuple: database, uid, password, model, method, args, kwargs.
type Params struct {
	Service string        `json:"service"`
	Method  string        `json:"method"`
	Args    []interface{} `json:"args"`
}

// Envelope is a JSON-RPC 2.0 request for execute_kw. The request id is
// assigned when the envelope is encoded, a fresh random one per call.
type Envelope struct {
	Method string
	Params Params
}

// Encode serializes the envelope for the wire.
func (e Envelope) Encode() ([]byte, error) {
	body, err := json2.EncodeClientRequest(e.Method, e.Params)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	return body, nil
}

// BuildArgs returns the positional tuple execute_kw expects. Missing
// positional or keyword arguments are sent as [] and {}.
func BuildArgs(cred Credential, method, model string, args []interface{}, kwargs map[string]interface{}) []interface{} {
	return []interface{}{
		cred.Database,
		cred.UserID,
		cred.Password,
		model,
		method,
		normalizeArgs(args),
		normalizeKwargs(kwargs),
	}
}

// BuildEnvelope wraps BuildArgs in the object/execute_kw call envelope.
func BuildEnvelope(cred Credential, method, model string, args []interface{}, kwargs map[string]interface{}) Envelope {
	return Envelope{
		Method: envelopeMethod,
		Params: Params{
			Service: serviceObject,
			Method:  executeKW,
			Args:    BuildArgs(cred, method, model, args, kwargs),
		},
	}
}

func normalizeArgs(args []interface{}) []interface{} {
	if args == nil {
		return []interface{}{}
	}
	return args
}

func normalizeKwargs(kwargs map[string]interface{}) map[string]interface{} {
	if kwargs == nil {
		return map[string]interface{}{}
	}
	return kwargs
}

// normalizeContext applies the uniform empty-context default.
func normalizeContext(c Context) Context {
	if c == nil {
		return Context{}
	}
	return c
}

// domainArgs sends a present domain as the single positional argument and
// an absent one as no positional arguments at all.
func domainArgs(d Domain) []interface{} {
	if d == nil {
		return nil
	}
	return []interface{}{d}
}
