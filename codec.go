// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package odoo

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Codec decodes response bodies into a generic tree
type Codec interface {
	Decode(data []byte, v interface{}) error
}

// JSONCodec is the default codec. Numbers are kept as json.Number so
// record ids round-trip without float conversion.
type JSONCodec struct{}

func (JSONCodec) Decode(data []byte, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return err
	}
	// Trailing garbage after the first value is not a valid body.
	if _, err := dec.Token(); err != io.EOF {
		return fmt.Errorf("unexpected data after top-level value")
	}
	return nil
}

// defaultCodec is used when no codec is specified
var defaultCodec Codec = JSONCodec{}
