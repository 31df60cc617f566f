// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package odoo is a client for the object/execute_kw JSON-RPC surface of an
// Odoo server. It turns typed CRUD and reporting calls into call envelopes,
// posts them to {server}/jsonrpc and hands back the decoded response tree.
//
// # Usage
//
//	client := odoo.New(odoo.Credential{
//	    UserID:    2,
//	    Password:  apiKey,
//	    Database:  "prod",
//	    ServerURI: "https://erp.example.com",
//	})
//
//	resp, err := client.Read(ctx, "res.partner", &odoo.ReadOptions{
//	    Domain: odoo.Domain{[]any{"active", "=", true}},
//	    Fields: []string{"id", "name"},
//	    Limit:  10,
//	})
//	if err != nil {
//	    return err // transport or decode failure
//	}
//	records, err := resp.Records() // surfaces a server fault as *odoo.ServerError
//
// # Wire format
//
// Every call is a JSON-RPC 2.0 request with method "call" and params
// {"service": "object", "method": "execute_kw", "args": [...]} where args is
// always the 7-tuple
//
//	[database, uid, password, model, method, args, kwargs]
//
// Missing positional arguments are sent as [] and missing keyword arguments
// as {}. The request id is random per call.
//
// # Architecture
//
// The package separates concerns:
//
//   - credential.go: Credential and the per-client Store
//   - encoder.go: BuildArgs and BuildEnvelope
//   - transport.go: Transport interface and the net/http implementation
//   - codec.go: response body decoding
//   - response.go: the response tree and typed extraction helpers
//   - operations.go: Read, Create, Update, Delete, Count, Group
//   - introspect.go: Model, Field, Selection
//   - telemetry.go: OpenTelemetry spans and metrics per call
//   - config.go: YAML and ODOO_* environment configuration
//
// The client never retries and never caches. Server faults are part of a
// successful Response; only transport and decode failures are errors.
package odoo
