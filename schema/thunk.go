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

// TypeThunk lazily produces a Type. FieldConfig, ArgumentConfig, ListOfThunk and NonNullOfThunk
// accept a TypeThunk instead of a Type wherever the referenced type may not exist yet at configuration time (the common case
// being a type that refers to itself, directly or through a cycle). The thunk is invoked at most
// once, the first time the field or argument is actually needed, and its result is cached.
//
// Since schemas here are always assembled in a single Go source file (never loaded from a separate
// SDL document), a cycle can be broken simply by deferring the lookup of the cyclic reference to a
// closure instead of staging a two-pass "create then finalize" builder over the whole type map.
type TypeThunk func() Type

// Resolve invokes the thunk if t is non-nil, otherwise returns nil.
func (t TypeThunk) Resolve() Type {
	if t == nil {
		return nil
	}
	return t()
}

// thunk wraps a TypeThunk with memoization so repeated calls (e.g. once per request) don't
// re-walk the closure.
type thunk struct {
	fn       TypeThunk
	resolved Type
	done     bool
}

func newThunk(fn TypeThunk) *thunk {
	return &thunk{fn: fn}
}

func (t *thunk) get() Type {
	if !t.done {
		t.resolved = t.fn()
		t.done = true
	}
	return t.resolved
}

// FieldsThunk lazily produces a FieldConfigMap, allowing an Object's fields to refer back to the
// Object itself (e.g. a "self" or "parent" field) without a forward-declaration step.
type FieldsThunk func() FieldConfigMap

// ThunkFields wraps an already-built FieldConfigMap in a FieldsThunk, for the common case where no
// laziness is actually needed.
func ThunkFields(fields FieldConfigMap) FieldsThunk {
	return func() FieldConfigMap {
		return fields
	}
}
