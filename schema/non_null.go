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

import "fmt"

// NonNull represents a GraphQL non-null wrapping type, e.g. "String!". Its wrapped type must not
// itself be a NonNull — GraphQL does not permit "String!!".
type NonNull struct {
	ofType   *thunk
	notation string
}

var _ WrappingType = (*NonNull)(nil)

// NonNullOf wraps ofType in a NonNull. It panics if ofType is itself a NonNull.
func NonNullOf(ofType Type) *NonNull {
	if _, ok := ofType.(*NonNull); ok {
		panic("schema: NonNull may not wrap another NonNull")
	}
	return NonNullOfThunk(func() Type { return ofType })
}

// NonNullOfThunk wraps a lazily-resolved type in a NonNull.
func NonNullOfThunk(ofType TypeThunk) *NonNull {
	return &NonNull{ofType: newThunk(ofType)}
}

// Unwrap implements WrappingType.
func (n *NonNull) Unwrap() Type {
	inner := n.ofType.get()
	if _, ok := inner.(*NonNull); ok {
		panic("schema: NonNull may not wrap another NonNull")
	}
	return inner
}

// String implements Type.
func (n *NonNull) String() string {
	if n.notation == "" {
		n.notation = fmt.Sprintf("%s!", n.Unwrap().String())
	}
	return n.notation
}

func (*NonNull) typeMarker() {}
