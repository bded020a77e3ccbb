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

import (
	"fmt"
	"sort"

	"github.com/riverql/riverql/internal/util"
	"github.com/riverql/riverql/schema"
	"github.com/vektah/gqlparser/v2/ast"
)

// locateError wraps err (which may be a plain error from a resolver, or already a *schema.Error)
// into a *schema.Error carrying path and, where available, source locations from fieldNodes.
func locateError(err error, path schema.Path, fieldNodes []*ast.Field) *schema.Error {
	located := schema.WrapError(err, schema.ErrKindExecution, path)
	if len(located.Locations) == 0 && len(fieldNodes) > 0 {
		locations := make([]schema.ErrorLocation, 0, len(fieldNodes))
		for _, node := range fieldNodes {
			if node.Position == nil {
				continue
			}
			locations = append(locations, schema.ErrorLocation{
				Line:   uint(node.Position.Line),
				Column: uint(node.Position.Column),
			})
		}
		located.Locations = locations
	}
	return located
}

// recoverResolverPanic converts a recovered panic value into an error, prefixing non-error
// offenders the same way spec.md §4.5 prescribes for thrown non-error values.
func recoverResolverPanic(r interface{}) error {
	if err, ok := r.(error); ok {
		return err
	}
	return fmt.Errorf("Unexpected error value: %#v", r)
}

// nonNullViolation builds the located error raised when a Non-Null field or list element resolves
// to null.
func nonNullViolation(path schema.Path) *schema.Error {
	return schema.NewError(
		fmt.Sprintf("cannot return null for non-nullable field at %q", path.String()),
		schema.ErrKindExecution,
		path,
	)
}

// fieldNotFoundHint builds the type-category-specific hint appended to a field-not-found message,
// per spec.md §4.8.
func fieldNotFoundHint(parentType schema.Type) string {
	if parentType == nil {
		return "The type should not be null."
	}

	switch t := schema.NullableTypeOf(parentType).(type) {
	case *schema.Scalar:
		return "The field has a scalar type, which means it supports no nesting."
	case *schema.Enum:
		return "The field has an enum type, which means it supports no nesting."
	case *schema.Object:
		fields, err := t.Fields(nil)
		if err != nil || len(fields) == 0 {
			return ""
		}
		names := make([]string, 0, len(fields))
		for name := range fields {
			names = append(names, name)
		}
		sort.Strings(names)

		var b util.StringBuilder
		util.OrList(&b, names, 5, true)
		return fmt.Sprintf("The only fields found in this Object are: %s.", b.String())
	default:
		return ""
	}
}

// fieldNotFoundError builds the full message for a root-level unresolvable field, used only when
// Config.Strict is set (see spec.md §9's compatibility note).
func fieldNotFoundError(fieldName string, parentType schema.Type, path schema.Path) *schema.Error {
	typeName := "Unknown"
	if named, ok := parentType.(schema.TypeWithName); ok {
		typeName = named.Name()
	}
	hint := fieldNotFoundHint(parentType)
	message := fmt.Sprintf("field '%s' was not found on type '%s'.", fieldName, typeName)
	if hint != "" {
		message = message + " " + hint
	}
	return schema.NewError(message, schema.ErrKindExecution, path)
}
