// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package odoo

import (
	"context"
	"fmt"
)

// Data model catalogs queried by the introspection calls.
const (
	ModelCatalog     = "ir.model"
	FieldCatalog     = "ir.model.fields"
	SelectionCatalog = "ir.model.fields.selection"
)

var (
	modelColumns     = []string{"id", "name", "model"}
	fieldColumns     = []string{"id", "name", "model", "ttype", "selection_ids", "relation_table"}
	selectionColumns = []string{"id", "name", "sequence", "value"}
)

// SelectionStrategy controls how Field resolves the options of selection
// fields. Both strategies produce the same result.
type SelectionStrategy int

const (
	// SelectionPerField issues one Selection call per selection field.
	SelectionPerField SelectionStrategy = iota
	// SelectionBatched issues a single Selection call covering every
	// selection field of the model.
	SelectionBatched
)

func (s SelectionStrategy) String() string {
	switch s {
	case SelectionPerField:
		return "per-field"
	case SelectionBatched:
		return "batched"
	default:
		return fmt.Sprintf("SelectionStrategy(%d)", int(s))
	}
}

// Model lists the persistent (non-transient) data models of the server.
func (c *Client) Model(ctx context.Context) (*Response, error) {
	return c.Read(ctx, ModelCatalog, &ReadOptions{
		Domain: Domain{[]interface{}{"transient", "=", false}},
		Fields: modelColumns,
	})
}

// Selection lists the options of the given selection fields.
func (c *Client) Selection(ctx context.Context, fieldIDs []int) (*Response, error) {
	return c.readSelections(ctx, fieldIDs, selectionColumns)
}

func (c *Client) readSelections(ctx context.Context, fieldIDs []int, columns []string) (*Response, error) {
	return c.Read(ctx, SelectionCatalog, &ReadOptions{
		Domain: Domain{[]interface{}{"field_id", "in", normalizeIDs(fieldIDs)}},
		Fields: columns,
	})
}

// Field lists the fields of modelRef. Every field with a non-empty
// selection_ids has it replaced by the resolved option records. Any failed
// option lookup fails the whole call. A response without a result list,
// such as a server fault, is returned as is.
func (c *Client) Field(ctx context.Context, modelRef string) (*Response, error) {
	resp, err := c.Read(ctx, FieldCatalog, &ReadOptions{
		Domain: Domain{[]interface{}{"model", "=", modelRef}},
		Fields: fieldColumns,
	})
	if err != nil {
		return nil, err
	}

	targets, err := selectionTargets(resp)
	if err != nil {
		return nil, err
	}
	if len(targets) == 0 {
		return resp, nil
	}

	var options map[int]interface{}
	switch c.selection {
	case SelectionBatched:
		options, err = c.resolveBatched(ctx, targets)
	default:
		options, err = c.resolvePerField(ctx, targets)
	}
	if err != nil {
		return nil, err
	}

	// Apply only once every lookup succeeded.
	for _, t := range targets {
		t.record["selection_ids"] = options[t.id]
	}
	return resp, nil
}

type selectionTarget struct {
	id     int
	record map[string]interface{}
}

func selectionTargets(resp *Response) ([]selectionTarget, error) {
	result, _ := resp.Result()
	list, ok := result.([]interface{})
	if !ok {
		return nil, nil
	}
	var targets []selectionTarget
	for _, item := range list {
		record, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		ids, _ := record["selection_ids"].([]interface{})
		if len(ids) == 0 {
			continue
		}
		id, ok := toInt(record["id"])
		if !ok {
			return nil, fmt.Errorf("odoo: field record has no integer id: %v", record["id"])
		}
		targets = append(targets, selectionTarget{id: int(id), record: record})
	}
	return targets, nil
}

func (c *Client) resolvePerField(ctx context.Context, targets []selectionTarget) (map[int]interface{}, error) {
	options := make(map[int]interface{}, len(targets))
	for _, t := range targets {
		resp, err := c.Selection(ctx, []int{t.id})
		if err != nil {
			return nil, fmt.Errorf("odoo: resolve selections of field %d: %w", t.id, err)
		}
		result, err := requireResult(resp)
		if err != nil {
			return nil, fmt.Errorf("odoo: resolve selections of field %d: %w", t.id, err)
		}
		options[t.id] = result
	}
	return options, nil
}

func (c *Client) resolveBatched(ctx context.Context, targets []selectionTarget) (map[int]interface{}, error) {
	ids := make([]int, 0, len(targets))
	for _, t := range targets {
		ids = append(ids, t.id)
	}
	columns := append(append([]string(nil), selectionColumns...), "field_id")

	resp, err := c.readSelections(ctx, ids, columns)
	if err != nil {
		return nil, fmt.Errorf("odoo: resolve selections of fields %v: %w", ids, err)
	}
	result, err := requireResult(resp)
	if err != nil {
		return nil, fmt.Errorf("odoo: resolve selections of fields %v: %w", ids, err)
	}
	list, ok := result.([]interface{})
	if !ok {
		return nil, fmt.Errorf("odoo: resolve selections of fields %v: result is %T, not a list", ids, result)
	}

	options := make(map[int]interface{}, len(targets))
	for _, id := range ids {
		options[id] = []interface{}{}
	}
	for _, item := range list {
		record, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		owner, ok := many2oneID(record["field_id"])
		if !ok {
			return nil, fmt.Errorf("odoo: selection record has no field_id: %v", record["field_id"])
		}
		trimmed := make(map[string]interface{}, len(record))
		for k, v := range record {
			if k != "field_id" {
				trimmed[k] = v
			}
		}
		if group, ok := options[owner].([]interface{}); ok {
			options[owner] = append(group, trimmed)
		}
	}
	return options, nil
}

// requireResult returns the result member or the fault that replaced it.
func requireResult(resp *Response) (interface{}, error) {
	if err := resp.Err(); err != nil {
		return nil, err
	}
	result, ok := resp.Result()
	if !ok || result == nil {
		return nil, ErrNullResult
	}
	return result, nil
}

// many2oneID reads a relational value, sent as id or as [id, display_name].
func many2oneID(v interface{}) (int, bool) {
	if pair, ok := v.([]interface{}); ok {
		if len(pair) == 0 {
			return 0, false
		}
		v = pair[0]
	}
	id, ok := toInt(v)
	return int(id), ok
}
