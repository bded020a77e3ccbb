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

// List represents a GraphQL list wrapping type, e.g. "[String]".
type List struct {
	elementType *thunk
	notation    string
}

var _ WrappingType = (*List)(nil)

// ListOf wraps elementType in a List.
func ListOf(elementType Type) *List {
	return ListOfThunk(func() Type { return elementType })
}

// ListOfThunk wraps a lazily-resolved element type in a List. Use this to build a list of a type
// that is still being constructed (e.g. a list of the enclosing Object).
func ListOfThunk(elementType TypeThunk) *List {
	return &List{elementType: newThunk(elementType)}
}

// Unwrap implements WrappingType.
func (l *List) Unwrap() Type {
	return l.elementType.get()
}

// String implements Type.
func (l *List) String() string {
	if l.notation == "" {
		l.notation = fmt.Sprintf("[%s]", l.Unwrap().String())
	}
	return l.notation
}

func (*List) typeMarker() {}
