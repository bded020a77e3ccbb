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

// UnionConfig specifies a Union type.
type UnionConfig struct {
	Name          string
	Description   string
	PossibleTypes []*Object
	ResolveType   TypeResolver
}

// Union represents a GraphQL union type: a value that must be exactly one of a fixed set of
// Object types, with no fields of its own.
type Union struct {
	name          string
	description   string
	possibleTypes []*Object
	resolveType   TypeResolver
}

var (
	_ TypeWithName = (*Union)(nil)
	_ AbstractType = (*Union)(nil)
)

// NewUnion creates a Union type from config.
func NewUnion(config UnionConfig) *Union {
	if config.Name == "" {
		panic("schema: Union must be given a name")
	}
	if len(config.PossibleTypes) == 0 {
		panic("schema: Union " + config.Name + " must list at least one possible type")
	}
	return &Union{
		name:          config.Name,
		description:   config.Description,
		possibleTypes: config.PossibleTypes,
		resolveType:   config.ResolveType,
	}
}

// Name implements TypeWithName.
func (u *Union) Name() string { return u.name }

// Description implements TypeWithDescription.
func (u *Union) Description() string { return u.description }

// String implements Type.
func (u *Union) String() string { return u.name }

// PossibleTypes lists the member objects of the union.
func (u *Union) PossibleTypes() []*Object { return u.possibleTypes }

// ResolveType implements AbstractType.
func (u *Union) ResolveType(value interface{}, info ResolveInfo) (*Object, error) {
	if u.resolveType != nil {
		return u.resolveType(value, info)
	}
	for _, obj := range u.possibleTypes {
		if obj.IsTypeOf(value, info) {
			return obj, nil
		}
	}
	return nil, fmt.Errorf("schema: could not resolve concrete type for union %q: no possible type's IsTypeOf matched and no ResolveType was configured", u.name)
}

func (*Union) typeMarker()         {}
func (*Union) abstractTypeMarker() {}
func (*Union) compositeTypeMarker() {}
