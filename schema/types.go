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

// Package schema describes the type system that the executor evaluates queries against: named
// types, their wrapping modifiers (List, NonNull), and the fields and arguments attached to
// composite types. It is a narrow collaborator of package executor — the executor drives
// evaluation, schema only describes shape and resolves values.
package schema

import "fmt"

// Type is implemented by every named or wrapping type that can appear in a Schema.
type Type interface {
	// String returns the type reference notation (e.g. "String", "[String!]!").
	String() string

	typeMarker()
}

// TypeWithName is implemented by every named type (every Type except List and NonNull).
type TypeWithName interface {
	Type
	Name() string
}

// TypeWithDescription is implemented by types that carry a human-readable description.
type TypeWithDescription interface {
	Type
	Description() string
}

// WrappingType is implemented by the two modifier types, List and NonNull, each of which wraps
// exactly one other Type.
type WrappingType interface {
	Type
	Unwrap() Type
}

// LeafType is implemented by Scalar and Enum: types whose values serialize directly without
// further field selection.
type LeafType interface {
	TypeWithName
	// CoerceResult converts an internal value produced by a resolver into a value suitable for
	// inclusion in the response.
	CoerceResult(value interface{}) (interface{}, error)
	leafTypeMarker()
}

// AbstractType is implemented by Interface and Union: types whose concrete Object at runtime must
// be determined by a type resolver before field selection can proceed.
type AbstractType interface {
	TypeWithName
	// ResolveType determines the concrete Object type for a resolved value. It may return nil if
	// none of the abstract type's possible types matched, in which case the executor reports an
	// error.
	ResolveType(value interface{}, info ResolveInfo) (*Object, error)
	abstractTypeMarker()
}

// CompositeType is implemented by Object, Interface and Union: any type whose values are
// described by a GraphQL selection set.
type CompositeType interface {
	TypeWithName
	compositeTypeMarker()
}

// NamedTypeOf strips all List/NonNull wrapping from t and returns the innermost named type.
func NamedTypeOf(t Type) TypeWithName {
	for {
		wrapping, ok := t.(WrappingType)
		if !ok {
			return t.(TypeWithName)
		}
		t = wrapping.Unwrap()
	}
}

// NullableTypeOf strips a single leading NonNull wrapper from t, if present.
func NullableTypeOf(t Type) Type {
	if nonNull, ok := t.(*NonNull); ok {
		return nonNull.Unwrap()
	}
	return t
}

// IsWrappingType reports whether t is a List or a NonNull.
func IsWrappingType(t Type) bool {
	_, ok := t.(WrappingType)
	return ok
}

// IsNonNullType reports whether t is a NonNull.
func IsNonNullType(t Type) bool {
	_, ok := t.(*NonNull)
	return ok
}

// IsListType reports whether t is a List.
func IsListType(t Type) bool {
	_, ok := t.(*List)
	return ok
}

// IsNullableType reports whether t is not a NonNull.
func IsNullableType(t Type) bool {
	return !IsNonNullType(t)
}

// IsNamedType reports whether t carries a Name (i.e. is not a wrapping type).
func IsNamedType(t Type) bool {
	_, ok := t.(TypeWithName)
	return ok
}

// IsLeafType reports whether t (after stripping NonNull) is a Scalar or Enum.
func IsLeafType(t Type) bool {
	_, ok := NullableTypeOf(t).(LeafType)
	return ok
}

// IsAbstractType reports whether t (after stripping NonNull) is an Interface or Union.
func IsAbstractType(t Type) bool {
	_, ok := NullableTypeOf(t).(AbstractType)
	return ok
}

// IsCompositeType reports whether t (after stripping NonNull) is an Object, Interface or Union.
func IsCompositeType(t Type) bool {
	_, ok := NullableTypeOf(t).(CompositeType)
	return ok
}

// IsScalarType reports whether t (after stripping NonNull) is a Scalar.
func IsScalarType(t Type) bool {
	_, ok := NullableTypeOf(t).(*Scalar)
	return ok
}

// IsObjectType reports whether t (after stripping NonNull) is an Object.
func IsObjectType(t Type) bool {
	_, ok := NullableTypeOf(t).(*Object)
	return ok
}

// IsInterfaceType reports whether t (after stripping NonNull) is an Interface.
func IsInterfaceType(t Type) bool {
	_, ok := NullableTypeOf(t).(*Interface)
	return ok
}

// IsUnionType reports whether t (after stripping NonNull) is a Union.
func IsUnionType(t Type) bool {
	_, ok := NullableTypeOf(t).(*Union)
	return ok
}

// IsEnumType reports whether t (after stripping NonNull) is an Enum.
func IsEnumType(t Type) bool {
	_, ok := NullableTypeOf(t).(*Enum)
	return ok
}

// TypesAreEquivalent reports whether a and b refer to the same type, following List/NonNull
// wrapping recursively.
func TypesAreEquivalent(a, b Type) bool {
	for {
		aWrap, aOk := a.(WrappingType)
		bWrap, bOk := b.(WrappingType)
		if aOk != bOk {
			return false
		}
		if !aOk {
			named, ok := a.(TypeWithName)
			if !ok {
				return false
			}
			other, ok := b.(TypeWithName)
			return ok && named.Name() == other.Name()
		}
		if fmt.Sprintf("%T", a) != fmt.Sprintf("%T", b) {
			return false
		}
		a, b = aWrap.Unwrap(), bWrap.Unwrap()
	}
}
