/**
 * Copyright (c) 2024, The riverql Authors.
 *
 * Permission to use, copy, modify, and/or distribute this software for any
 * purpose with or without fee is hereby granted, provided that the above
 * copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES
 * WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF
 * MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR
 * ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES
 * WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN
 * ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF
 * OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package executor

import "github.com/vmihailenco/msgpack"

// ResponseObject is one object node of a completed response tree: the field values produced for a
// selection set, keyed by response key and carrying the key order the query declared the fields
// in (spec.md §5's "keys of the emitted object follow selection order of the query"). It replaces
// a bare map[string]interface{} everywhere evaluateSelectionSet builds an object-shaped value, at
// every nesting depth, root Snapshot.Data included -- a CombineLatest snapshot or a write-mode
// slot map supplies the values, but only the declared group order supplies the key order.
type ResponseObject struct {
	keys   []string
	values map[string]interface{}
}

// newResponseObject returns an empty ResponseObject sized for capacity keys.
func newResponseObject(capacity int) *ResponseObject {
	return &ResponseObject{values: make(map[string]interface{}, capacity)}
}

// set records value under key, appending key to the declared order the first time it's seen.
func (o *ResponseObject) set(key string, value interface{}) {
	if _, exists := o.values[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

// Keys returns o's response keys in declared selection order.
func (o *ResponseObject) Keys() []string {
	return o.keys
}

// Value returns the value stored under key and whether key is present in o.
func (o *ResponseObject) Value(key string) (interface{}, bool) {
	v, ok := o.values[key]
	return v, ok
}

// Len reports how many response keys o holds.
func (o *ResponseObject) Len() int {
	return len(o.keys)
}

var _ msgpack.Marshaler = (*ResponseObject)(nil)

// EncodeMsgpack implements msgpack.Marshaler so the binary transport encoding preserves the same
// key order as MarshalJSONTo instead of falling back to struct-tag reflection over o's unexported
// fields (which would otherwise encode as an empty map).
func (o *ResponseObject) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeMapLen(len(o.keys)); err != nil {
		return err
	}
	for _, key := range o.keys {
		if err := enc.EncodeString(key); err != nil {
			return err
		}
		if err := enc.Encode(o.values[key]); err != nil {
			return err
		}
	}
	return nil
}
