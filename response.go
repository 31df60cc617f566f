// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package odoo

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gorilla/rpc/v2/json2"
)

// Response is the decoded response body: a tree of nil, bool, json.Number,
// string, []interface{} and map[string]interface{} nodes. A server fault is
// a valid Response; use Err or the typed helpers to surface it.
type Response struct {
	Tree interface{}
}

// MarshalJSON encodes the tree back to JSON.
func (r *Response) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Tree)
}

func (r *Response) object() map[string]interface{} {
	obj, _ := r.Tree.(map[string]interface{})
	return obj
}

// Result returns the result member and whether it was present.
func (r *Response) Result() (interface{}, bool) {
	v, ok := r.object()["result"]
	return v, ok
}

// Err returns a *ServerError when the response carries an error member.
func (r *Response) Err() error {
	if r.object()["error"] == nil {
		return nil
	}
	var discard json.RawMessage
	if err := r.Decode(&discard); errors.Is(err, ErrServer) {
		return err
	}
	return nil
}

// Decode unmarshals the result member into v. It returns a *ServerError
// for error responses and ErrNullResult when no result is present.
func (r *Response) Decode(v interface{}) error {
	body, err := json.Marshal(r.Tree)
	if err != nil {
		return fmt.Errorf("odoo: re-encode response: %w", err)
	}
	err = json2.DecodeClientResponse(bytes.NewReader(body), v)
	var rpcErr *json2.Error
	if errors.As(err, &rpcErr) {
		return serverErrorFrom(rpcErr)
	}
	return err
}

// Records returns the result as a list of records, the shape of
// search_read and read_group answers.
func (r *Response) Records() ([]map[string]interface{}, error) {
	if err := r.Err(); err != nil {
		return nil, err
	}
	result, ok := r.Result()
	if !ok || result == nil {
		return nil, ErrNullResult
	}
	list, ok := result.([]interface{})
	if !ok {
		return nil, fmt.Errorf("odoo: result is %T, not a list", result)
	}
	records := make([]map[string]interface{}, 0, len(list))
	for i, item := range list {
		rec, ok := item.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("odoo: result[%d] is %T, not a record", i, item)
		}
		records = append(records, rec)
	}
	return records, nil
}

// Int returns an integer result, the shape of search_count and single
// record create answers.
func (r *Response) Int() (int64, error) {
	if err := r.Err(); err != nil {
		return 0, err
	}
	result, ok := r.Result()
	if !ok || result == nil {
		return 0, ErrNullResult
	}
	n, ok := toInt(result)
	if !ok {
		return 0, fmt.Errorf("odoo: result is %T, not an integer", result)
	}
	return n, nil
}

// toInt accepts the numeric node kinds a Codec may produce.
func toInt(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	case float64:
		return int64(n), n == float64(int64(n))
	case int:
		return int64(n), true
	case int64:
		return n, true
	default:
		return 0, false
	}
}
