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

// FieldResolver produces the value for one field of an Object. The returned value may be:
//
//   - a plain Go value (or error), resolved synchronously;
//   - a future.Future, for a value that resolves once asynchronously; or
//   - a stream.Stream, for a value that may be pushed more than once over the lifetime of a
//     subscription.
//
// The executor normalizes whichever of these three shapes comes back into a stream.Stream before
// recursing into the field's own selection set, per the reactive evaluation model.
type FieldResolver interface {
	Resolve(source interface{}, args ArgumentValues, info ResolveInfo) (interface{}, error)
}

// FieldResolverFunc adapts a function to a FieldResolver.
type FieldResolverFunc func(source interface{}, args ArgumentValues, info ResolveInfo) (interface{}, error)

// Resolve implements FieldResolver.
func (f FieldResolverFunc) Resolve(source interface{}, args ArgumentValues, info ResolveInfo) (interface{}, error) {
	return f(source, args, info)
}

// ArgumentConfig specifies one argument accepted by a field.
type ArgumentConfig struct {
	Description  string
	Type         Type
	TypeThunk    TypeThunk
	DefaultValue interface{}
	// HasDefaultValue distinguishes "no default" from "default value is nil".
	HasDefaultValue bool
}

// ArgumentConfigMap specifies the arguments accepted by a field, keyed by name.
type ArgumentConfigMap map[string]ArgumentConfig

// Argument is one resolved argument definition of a Field.
type Argument struct {
	name            string
	description     string
	typ             *thunk
	defaultValue    interface{}
	hasDefaultValue bool
}

// Name of the argument.
func (a *Argument) Name() string { return a.name }

// Description of the argument.
func (a *Argument) Description() string { return a.description }

// Type of the argument.
func (a *Argument) Type() Type { return a.typ.get() }

// DefaultValue returns the argument's default value and whether one was configured.
func (a *Argument) DefaultValue() (interface{}, bool) {
	return a.defaultValue, a.hasDefaultValue
}

// IsRequired reports whether the argument is Non-Null and has no default value, and therefore
// must be supplied by every query that invokes the field.
func (a *Argument) IsRequired() bool {
	return IsNonNullType(a.Type()) && !a.hasDefaultValue
}

func buildArguments(configs ArgumentConfigMap) map[string]*Argument {
	args := make(map[string]*Argument, len(configs))
	for name, config := range configs {
		typeThunk := config.TypeThunk
		if typeThunk == nil {
			t := config.Type
			typeThunk = func() Type { return t }
		}
		args[name] = &Argument{
			name:            name,
			description:     config.Description,
			typ:             newThunk(typeThunk),
			defaultValue:    config.DefaultValue,
			hasDefaultValue: config.HasDefaultValue,
		}
	}
	return args
}

// FieldConfig specifies one field of an Object or Interface.
type FieldConfig struct {
	Description string
	Type        Type
	TypeThunk   TypeThunk
	Args        ArgumentConfigMap
	Resolve     FieldResolver
	Deprecated  string
}

// FieldConfigMap specifies the fields of an Object or Interface, keyed by field name.
type FieldConfigMap map[string]FieldConfig

// Field is one resolved field definition.
type Field struct {
	name        string
	description string
	typ         *thunk
	args        map[string]*Argument
	resolve     FieldResolver
	deprecated  string
}

// Name of the field.
func (f *Field) Name() string { return f.name }

// Description of the field.
func (f *Field) Description() string { return f.description }

// Type of the field's value.
func (f *Field) Type() Type { return f.typ.get() }

// Args declared on the field, keyed by name.
func (f *Field) Args() map[string]*Argument { return f.args }

// Resolver for the field. Never nil: a field without an explicit Resolve uses its Object's
// DefaultFieldResolver, or the schema's when the Object sets none.
func (f *Field) Resolver() FieldResolver { return f.resolve }

// Deprecated gives the deprecation reason for this field, or "" if it is not deprecated.
func (f *Field) Deprecated() string { return f.deprecated }

// FieldMap is the resolved set of fields belonging to an Object or Interface, keyed by name.
type FieldMap map[string]*Field

func buildFieldMap(typeName string, configs FieldConfigMap, defaultResolver FieldResolver) (FieldMap, error) {
	if len(configs) == 0 {
		return nil, fmt.Errorf("schema: type %q must define at least one field", typeName)
	}

	fields := make(FieldMap, len(configs))
	for name, config := range configs {
		typeThunk := config.TypeThunk
		if typeThunk == nil {
			t := config.Type
			if t == nil {
				return nil, fmt.Errorf("schema: field %q.%s must specify a Type", typeName, name)
			}
			typeThunk = func() Type { return t }
		}

		resolve := config.Resolve
		if resolve == nil {
			resolve = defaultResolver
		}

		fields[name] = &Field{
			name:        name,
			description: config.Description,
			typ:         newThunk(typeThunk),
			args:        buildArguments(config.Args),
			resolve:     resolve,
			deprecated:  config.Deprecated,
		}
	}
	return fields, nil
}
