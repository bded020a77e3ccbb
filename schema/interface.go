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

// TypeResolver determines the concrete Object type of a resolved value for an abstract type
// (Interface or Union). It may return a nil Object with a nil error to indicate "none of the
// known possible types matched," which the executor reports as an execution error.
type TypeResolver func(value interface{}, info ResolveInfo) (*Object, error)

// InterfaceConfig specifies an Interface type.
type InterfaceConfig struct {
	Name        string
	Description string
	Fields      FieldsThunk
	// PossibleTypes lists every Object expected to declare this interface. It is only required
	// when ResolveType is left nil, in which case each possible type's IsTypeOf is probed in
	// turn.
	PossibleTypes []*Object
	ResolveType   TypeResolver
}

// Interface represents a GraphQL interface type: a set of fields that every implementing Object
// must provide, plus a way to determine at runtime which Object a resolved value belongs to.
type Interface struct {
	name          string
	description   string
	fieldsThunk   FieldsThunk
	fields        FieldMap
	fieldsErr     error
	fieldsDone    bool
	possibleTypes []*Object
	resolveType   TypeResolver
}

var (
	_ TypeWithName  = (*Interface)(nil)
	_ AbstractType  = (*Interface)(nil)
	_ CompositeType = (*Interface)(nil)
)

// NewInterface creates an Interface type from config.
func NewInterface(config InterfaceConfig) *Interface {
	if config.Name == "" {
		panic("schema: Interface must be given a name")
	}
	return &Interface{
		name:          config.Name,
		description:   config.Description,
		fieldsThunk:   config.Fields,
		possibleTypes: config.PossibleTypes,
		resolveType:   config.ResolveType,
	}
}

// Name implements TypeWithName.
func (i *Interface) Name() string { return i.name }

// Description implements TypeWithDescription.
func (i *Interface) Description() string { return i.description }

// String implements Type.
func (i *Interface) String() string { return i.name }

// PossibleTypes lists the objects registered as implementing this interface.
func (i *Interface) PossibleTypes() []*Object { return i.possibleTypes }

func (i *Interface) resolveFields(defaultResolver FieldResolver) (FieldMap, error) {
	if i.fieldsDone {
		return i.fields, i.fieldsErr
	}
	i.fieldsDone = true
	if i.fieldsThunk == nil {
		i.fieldsErr = errFieldlessType(i.name)
		return nil, i.fieldsErr
	}
	i.fields, i.fieldsErr = buildFieldMap(i.name, i.fieldsThunk(), defaultResolver)
	return i.fields, i.fieldsErr
}

// Fields returns the interface's field map, building it on first use.
func (i *Interface) Fields(schemaDefaultResolver FieldResolver) (FieldMap, error) {
	return i.resolveFields(schemaDefaultResolver)
}

// ResolveType implements AbstractType.
func (i *Interface) ResolveType(value interface{}, info ResolveInfo) (*Object, error) {
	if i.resolveType != nil {
		return i.resolveType(value, info)
	}
	for _, obj := range i.possibleTypes {
		if obj.IsTypeOf(value, info) {
			return obj, nil
		}
	}
	return nil, fmt.Errorf("schema: could not resolve concrete type for interface %q: no possible type's IsTypeOf matched and no ResolveType was configured", i.name)
}

func (*Interface) typeMarker()          {}
func (*Interface) abstractTypeMarker()  {}
func (*Interface) compositeTypeMarker() {}
