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

import "strconv"

// PathSegment is one step of a Path: either a field name (string) or a list index (int).
type PathSegment struct {
	Key interface{}
}

// Path identifies the location, within a response, that a value or error is associated with. It
// is an immutable, singly-linked list rather than a mutable append-in-place slice, because
// evaluateSelectionSet and completeValue fork a child Path per field/element and may do so
// concurrently (read-mode fields are evaluated via CombineLatest), so each fork must not observe
// mutations made by its siblings.
type Path struct {
	segment *PathSegment
	parent  *Path
}

// Empty is the root of every response, with no segments.
var Empty = Path{}

// WithFieldName returns a new Path with name appended as the last segment.
func (p Path) WithFieldName(name string) Path {
	return Path{segment: &PathSegment{Key: name}, parent: &p}
}

// WithIndex returns a new Path with index appended as the last segment.
func (p Path) WithIndex(index int) Path {
	return Path{segment: &PathSegment{Key: index}, parent: &p}
}

// IsEmpty reports whether the path has no segments.
func (p Path) IsEmpty() bool {
	return p.segment == nil
}

// Segments returns the path's segments from root to leaf.
func (p Path) Segments() []PathSegment {
	var segments []PathSegment
	for cur := &p; cur != nil && cur.segment != nil; cur = cur.parent {
		segments = append(segments, *cur.segment)
	}
	for i, j := 0, len(segments)-1; i < j; i, j = i+1, j-1 {
		segments[i], segments[j] = segments[j], segments[i]
	}
	return segments
}

// String renders the path in "field.field[index].field" notation.
func (p Path) String() string {
	segments := p.Segments()
	var b []byte
	for _, s := range segments {
		switch key := s.Key.(type) {
		case string:
			if len(b) > 0 {
				b = append(b, '.')
			}
			b = append(b, key...)
		case int:
			b = append(b, '[')
			b = strconv.AppendInt(b, int64(key), 10)
			b = append(b, ']')
		}
	}
	return string(b)
}

// MarshalJSON renders the path as a JSON array of strings/numbers, as required by the GraphQL
// response format for the "path" entry of an error.
func (p Path) MarshalJSON() ([]byte, error) {
	segments := p.Segments()
	b := []byte{'['}
	for i, s := range segments {
		if i > 0 {
			b = append(b, ',')
		}
		switch key := s.Key.(type) {
		case string:
			b = strconv.AppendQuote(b, key)
		case int:
			b = strconv.AppendInt(b, int64(key), 10)
		}
	}
	b = append(b, ']')
	return b, nil
}
