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

// Package executor implements the reactive GraphQL execution engine: it maps a query's selection
// tree over a schema.Schema, drives each field's resolver, and composes the resulting streams so
// that subscribers receive a fresh Snapshot whenever any contributing value changes.
package executor

import (
	"github.com/vmihailenco/msgpack"

	"github.com/riverql/riverql/jsonwriter"
	"github.com/riverql/riverql/schema"
)

// Snapshot is one emission of the result stream returned by Execute: a complete response object
// reflecting the latest value at every field, plus every located error observed so far.
type Snapshot struct {
	// Data holds the response tree, rooted at the operation's own selection set with its keys in
	// selection order (spec.md §5), or is nil if a non-null violation propagated all the way to the
	// root.
	Data *ResponseObject

	// Errors accumulated over the lifetime of the execution so far. Per spec, this list only
	// grows across snapshots; callers should not expect errors to be retracted.
	Errors []*schema.Error
}

var _ jsonwriter.ValueMarshaler = Snapshot{}
var _ msgpack.Marshaler = Snapshot{}

// MarshalJSONTo implements jsonwriter.ValueMarshaler, writing Snapshot in the shape the GraphQL
// response format mandates: https://spec.graphql.org/June2018/#sec-Response-Format
//
// The specification's note on field ordering suggests placing "errors" ahead of "data" so that a
// reader (or a streaming consumer that only cares about failures) sees it first. When errors
// occurred, "data" is always written too, as null if Data is nil.
func (s Snapshot) MarshalJSONTo(stream *jsonwriter.Stream) error {
	errs := schema.Errors{Errors: s.Errors}

	stream.WriteObjectStart()
	if errs.HaveOccurred() {
		stream.WriteObjectField("errors")
		stream.WriteValue(schema.NewErrorsMarshaler(errs))
		stream.WriteMore()
		if s.Data == nil {
			stream.WriteObjectField("data")
			stream.WriteNil()
		}
	}
	if s.Data != nil {
		stream.WriteObjectField("data")
		writeResponseValue(stream, s.Data)
	}
	stream.WriteObjectEnd()
	return nil
}

// MarshalJSON implements encoding/json.Marshaler, for callers outside riverql's own transports
// that expect the standard interface.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	return jsonwriter.Marshal(s)
}

// EncodeMsgpack implements msgpack.Marshaler, so the binary transport encoding goes through the
// same field set (and the same *ResponseObject key order) as MarshalJSONTo rather than through
// struct-tag reflection, which cannot see ResponseObject's unexported fields.
func (s Snapshot) EncodeMsgpack(enc *msgpack.Encoder) error {
	errs := schema.Errors{Errors: s.Errors}

	fields := 0
	if errs.HaveOccurred() {
		fields += 2
	} else if s.Data != nil {
		fields++
	}
	if err := enc.EncodeMapLen(fields); err != nil {
		return err
	}
	if errs.HaveOccurred() {
		if err := enc.EncodeString("errors"); err != nil {
			return err
		}
		if err := enc.Encode(s.Errors); err != nil {
			return err
		}
		if s.Data == nil {
			if err := enc.EncodeString("data"); err != nil {
				return err
			}
			if err := enc.EncodeNil(); err != nil {
				return err
			}
		}
	}
	if s.Data != nil {
		if err := enc.EncodeString("data"); err != nil {
			return err
		}
		if err := enc.Encode(s.Data); err != nil {
			return err
		}
	}
	return nil
}

// writeResponseValue writes one node of a response tree -- a *ResponseObject, a []interface{}, or
// a leaf value -- recursively. Execute's response tree is built during completion directly from
// ResponseObject and plain Go slices, so there is no chunked list structure to walk iteratively;
// ordinary recursion mirrors it directly and is bounded by query selection depth, not response size.
func writeResponseValue(stream *jsonwriter.Stream, value interface{}) {
	switch v := value.(type) {
	case nil:
		stream.WriteNil()

	case *ResponseObject:
		if v.Len() == 0 {
			stream.WriteEmptyObject()
			return
		}
		stream.WriteObjectStart()
		for i, key := range v.Keys() {
			if i > 0 {
				stream.WriteMore()
			}
			stream.WriteObjectField(key)
			child, _ := v.Value(key)
			writeResponseValue(stream, child)
		}
		stream.WriteObjectEnd()

	case []interface{}:
		if len(v) == 0 {
			stream.WriteEmptyArray()
			return
		}
		stream.WriteArrayStart()
		for i, child := range v {
			if i > 0 {
				stream.WriteMore()
			}
			writeResponseValue(stream, child)
		}
		stream.WriteArrayEnd()

	default:
		stream.WriteInterface(v)
	}
}
