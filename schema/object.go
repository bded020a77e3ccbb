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

// IsTypeOf reports whether a resolved value belongs to an Object, for use when an abstract type's
// ResolveType falls back to probing each possible type in turn.
type IsTypeOf func(value interface{}, info ResolveInfo) bool

// ObjectConfig specifies an Object type.
type ObjectConfig struct {
	Name        string
	Description string
	// Fields is evaluated lazily (at most once) so fields may reference the Object being built,
	// directly or through a cycle with other types.
	Fields FieldsThunk
	// Interfaces lists the interfaces this object declares itself to implement.
	Interfaces []*Interface
	// IsTypeOf is consulted by an enclosing Interface/Union's default ResolveType.
	IsTypeOf IsTypeOf
	// DefaultFieldResolver resolves any field of this object that doesn't specify its own
	// Resolve. Falls back to the Schema's DefaultFieldResolver when unset.
	DefaultFieldResolver FieldResolver
}

// Object represents a concrete GraphQL object type: a named set of fields, each independently
// resolved.
type Object struct {
	name        string
	description string
	isTypeOf    IsTypeOf
	interfaces  []*Interface
	fields      FieldMap
	fieldsErr   error
	fieldsDone  bool
	fieldsThunk FieldsThunk
	defaultResolver FieldResolver
}

var (
	_ TypeWithName   = (*Object)(nil)
	_ CompositeType  = (*Object)(nil)
)

// NewObject creates an Object type from config. Field resolution is deferred until Fields() is
// first called, which lets Fields reference the Object itself.
func NewObject(config ObjectConfig) *Object {
	if config.Name == "" {
		panic("schema: Object must be given a name")
	}
	return &Object{
		name:            config.Name,
		description:     config.Description,
		isTypeOf:        config.IsTypeOf,
		interfaces:      config.Interfaces,
		fieldsThunk:     config.Fields,
		defaultResolver: config.DefaultFieldResolver,
	}
}

// Name implements TypeWithName.
func (o *Object) Name() string { return o.name }

// Description implements TypeWithDescription.
func (o *Object) Description() string { return o.description }

// String implements Type.
func (o *Object) String() string { return o.name }

// Interfaces declared by this object.
func (o *Object) Interfaces() []*Interface { return o.interfaces }

// IsTypeOf reports whether value belongs to this object, as answered by its configured IsTypeOf
// probe; it reports false when no probe is configured.
func (o *Object) IsTypeOf(value interface{}, info ResolveInfo) bool {
	if o.isTypeOf == nil {
		return false
	}
	return o.isTypeOf(value, info)
}

func (o *Object) resolveFields(defaultResolver FieldResolver) (FieldMap, error) {
	if o.fieldsDone {
		return o.fields, o.fieldsErr
	}
	o.fieldsDone = true

	resolver := o.defaultResolver
	if resolver == nil {
		resolver = defaultResolver
	}

	if o.fieldsThunk == nil {
		o.fieldsErr = errFieldlessType(o.name)
		return nil, o.fieldsErr
	}

	o.fields, o.fieldsErr = buildFieldMap(o.name, o.fieldsThunk(), resolver)
	return o.fields, o.fieldsErr
}

// Fields returns the object's field map, building it on first use. schemaDefaultResolver is used
// for any field that specifies neither its own Resolve nor the object's DefaultFieldResolver; it
// is supplied by Schema when wiring up types, so direct callers outside of package executor
// ordinarily go through Schema.FieldsOf instead.
func (o *Object) Fields(schemaDefaultResolver FieldResolver) (FieldMap, error) {
	return o.resolveFields(schemaDefaultResolver)
}

func (*Object) typeMarker()          {}
func (*Object) compositeTypeMarker() {}

func errFieldlessType(name string) error {
	return &missingFieldsError{typeName: name}
}

type missingFieldsError struct {
	typeName string
}

func (e *missingFieldsError) Error() string {
	return "schema: type " + e.typeName + " must define at least one field"
}
