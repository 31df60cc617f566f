// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package odoo

import "context"

// Server method names used by the operations below.
const (
	MethodSearchRead  = "search_read"
	MethodCreate      = "create"
	MethodWrite       = "write"
	MethodUnlink      = "unlink"
	MethodSearchCount = "search_count"
	MethodReadGroup   = "read_group"
)

// Domain is a search filter: a list of [field, operator, value] clauses and
// connector tokens such as "|". It is passed through verbatim. A nil Domain
// sends no filter; a non-nil empty Domain sends [].
type Domain []interface{}

// Context is the server call context (lang, tz, active_test, ...). nil is
// sent as {}.
type Context map[string]interface{}

// ReadOptions are the optional inputs of Read. Limit and Offset of 0 mean
// no limit and no skip; nil Fields lets the server choose the columns.
type ReadOptions struct {
	Domain  Domain
	Fields  []string
	Limit   int
	Offset  int
	Context Context
}

// GroupOptions are the optional inputs of Group. A nil Lazy means true.
type GroupOptions struct {
	Domain  Domain
	GroupBy []string
	Fields  []string
	Limit   int
	Offset  int
	Lazy    *bool
	Context Context
}

// Read returns the records of model matching opts.Domain (search_read).
func (c *Client) Read(ctx context.Context, model string, opts *ReadOptions) (*Response, error) {
	if opts == nil {
		opts = &ReadOptions{}
	}
	kwargs := map[string]interface{}{
		"limit":   opts.Limit,
		"offset":  opts.Offset,
		"fields":  opts.Fields,
		"context": normalizeContext(opts.Context),
	}
	return c.Call(ctx, model, MethodSearchRead, domainArgs(opts.Domain), kwargs)
}

// Create creates one record from vals (or several, if vals is a list).
func (c *Client) Create(ctx context.Context, model string, vals interface{}, callCtx Context) (*Response, error) {
	kwargs := map[string]interface{}{
		"context": normalizeContext(callCtx),
	}
	return c.Call(ctx, model, MethodCreate, []interface{}{vals}, kwargs)
}

// Update writes vals to the records identified by ids.
func (c *Client) Update(ctx context.Context, model string, ids []int, vals interface{}, callCtx Context) (*Response, error) {
	kwargs := map[string]interface{}{
		"context": normalizeContext(callCtx),
	}
	return c.Call(ctx, model, MethodWrite, []interface{}{normalizeIDs(ids), vals}, kwargs)
}

// Delete removes the records identified by ids.
func (c *Client) Delete(ctx context.Context, model string, ids []int, callCtx Context) (*Response, error) {
	kwargs := map[string]interface{}{
		"context": normalizeContext(callCtx),
	}
	return c.Call(ctx, model, MethodUnlink, []interface{}{normalizeIDs(ids)}, kwargs)
}

// Count returns the number of records of model matching domain.
func (c *Client) Count(ctx context.Context, model string, domain Domain, callCtx Context) (*Response, error) {
	kwargs := map[string]interface{}{
		"context": normalizeContext(callCtx),
	}
	return c.Call(ctx, model, MethodSearchCount, domainArgs(domain), kwargs)
}

// Group aggregates the records of model matching opts.Domain (read_group).
func (c *Client) Group(ctx context.Context, model string, opts *GroupOptions) (*Response, error) {
	if opts == nil {
		opts = &GroupOptions{}
	}
	lazy := true
	if opts.Lazy != nil {
		lazy = *opts.Lazy
	}
	kwargs := map[string]interface{}{
		"lazy":    lazy,
		"limit":   opts.Limit,
		"offset":  opts.Offset,
		"fields":  opts.Fields,
		"groupby": opts.GroupBy,
		"context": normalizeContext(opts.Context),
	}
	return c.Call(ctx, model, MethodReadGroup, domainArgs(opts.Domain), kwargs)
}

// normalizeIDs keeps record id lists a JSON array even when empty.
func normalizeIDs(ids []int) []int {
	if ids == nil {
		return []int{}
	}
	return ids
}
