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

package schema

import (
	"github.com/riverql/riverql/jsonwriter"
)

// errorMarshaler implements jsonwriter.ValueMarshaler to encode one Error in the shape defined by
// the GraphQL response format: https://spec.graphql.org/June2018/#sec-Errors
type errorMarshaler struct {
	err *Error
}

// NewErrorMarshaler returns a jsonwriter.ValueMarshaler for err.
func NewErrorMarshaler(err *Error) jsonwriter.ValueMarshaler {
	return errorMarshaler{err}
}

// MarshalJSONTo implements jsonwriter.ValueMarshaler.
func (m errorMarshaler) MarshalJSONTo(stream *jsonwriter.Stream) error {
	e := m.err
	stream.WriteObjectStart()

	stream.WriteObjectField("message")
	stream.WriteString(e.Message)

	if len(e.Locations) > 0 {
		stream.WriteMore()
		stream.WriteObjectField("locations")
		stream.WriteArrayStart()
		for i, loc := range e.Locations {
			if i > 0 {
				stream.WriteMore()
			}
			stream.WriteObjectStart()
			stream.WriteObjectField("line")
			stream.WriteUint(loc.Line)
			stream.WriteMore()
			stream.WriteObjectField("column")
			stream.WriteUint(loc.Column)
			stream.WriteObjectEnd()
		}
		stream.WriteArrayEnd()
	}

	if !e.Path.IsEmpty() {
		stream.WriteMore()
		stream.WriteObjectField("path")
		stream.WriteInterface(e.Path)
	}

	if len(e.Extensions) > 0 {
		stream.WriteMore()
		stream.WriteObjectField("extensions")
		stream.WriteInterface(map[string]interface{}(e.Extensions))
	}

	stream.WriteObjectEnd()
	return nil
}

// errorsMarshaler implements jsonwriter.ValueMarshaler to encode the top-level "errors" array.
type errorsMarshaler struct {
	errs Errors
}

// NewErrorsMarshaler returns a jsonwriter.ValueMarshaler for errs. Callers should check
// errs.HaveOccurred() first; an empty Errors marshals to an empty array rather than being omitted.
func NewErrorsMarshaler(errs Errors) jsonwriter.ValueMarshaler {
	return errorsMarshaler{errs}
}

// MarshalJSONTo implements jsonwriter.ValueMarshaler.
func (m errorsMarshaler) MarshalJSONTo(stream *jsonwriter.Stream) error {
	if len(m.errs.Errors) == 0 {
		stream.WriteEmptyArray()
		return nil
	}
	stream.WriteArrayStart()
	for i, err := range m.errs.Errors {
		if i > 0 {
			stream.WriteMore()
		}
		stream.WriteValue(NewErrorMarshaler(err))
	}
	stream.WriteArrayEnd()
	return nil
}
