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
	"context"

	"github.com/vektah/gqlparser/v2/ast"
)

// ResolveInfo exposes execution state to a FieldResolver. Its concrete implementation lives in
// package executor (executor.resolveInfo) to avoid a schema -> executor import cycle; schema only
// declares the interface that resolvers are written against.
type ResolveInfo interface {
	// Context carries request-scoped cancellation/deadlines. A resolver that performs I/O should
	// select on Context().Done() alongside its own work.
	Context() context.Context

	// Schema of the type system being executed.
	Schema() *Schema

	// Document holding every definition in the request, as parsed by gqlparser.
	Document() *ast.QueryDocument

	// Operation being executed (the one selected by name, or the sole operation in Document).
	Operation() *ast.OperationDefinition

	// RootValue supplied to Execute.
	RootValue() interface{}

	// AppContext is the application-specific value supplied to Execute, commonly used to carry an
	// authenticated user or request-scoped caches.
	AppContext() interface{}

	// VariableValues of the operation, already coerced.
	VariableValues() VariableValues

	// Object that owns the field currently being resolved.
	Object() *Object

	// Field definition currently being resolved.
	Field() *Field

	// FieldNodes are every *ast.Field in the selection set that requested this response key (more
	// than one if the query repeats the same alias/name with different sub-selections, which are
	// merged together at execution time).
	FieldNodes() []*ast.Field

	// Path to this field in the response.
	Path() Path

	// Args gives the coerced argument values supplied to this field.
	Args() ArgumentValues
}
