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

// EnumValueConfig specifies one member of an Enum.
type EnumValueConfig struct {
	// Description of the value, for documentation purposes.
	Description string
	// Value is the internal Go value a resolver returns to designate this enum member (e.g. a
	// typed constant). If nil, the member's name is used as the internal value.
	Value interface{}
	// Deprecated, if non-empty, gives the reason this value should no longer be used.
	Deprecated string
}

// EnumValueConfigMap specifies the members of an Enum, keyed by name.
type EnumValueConfigMap map[string]EnumValueConfig

// EnumValue is one resolved member of an Enum.
type EnumValue struct {
	Name        string
	Description string
	Value       interface{}
	Deprecated  string
}

// EnumConfig specifies an Enum type.
type EnumConfig struct {
	Name        string
	Description string
	Values      EnumValueConfigMap
}

// Enum represents a leaf type whose values are drawn from a fixed, named set of members.
type Enum struct {
	name        string
	description string
	values      []EnumValue
	byName      map[string]*EnumValue
	byValue     map[interface{}]*EnumValue
}

var _ LeafType = (*Enum)(nil)

// NewEnum creates an Enum type from config.
func NewEnum(config EnumConfig) *Enum {
	if config.Name == "" {
		panic("schema: Enum must be given a name")
	}

	e := &Enum{
		name:        config.Name,
		description: config.Description,
		byName:      make(map[string]*EnumValue, len(config.Values)),
		byValue:     make(map[interface{}]*EnumValue, len(config.Values)),
	}

	e.values = make([]EnumValue, 0, len(config.Values))
	for name, valueConfig := range config.Values {
		internal := valueConfig.Value
		if internal == nil {
			internal = name
		}
		e.values = append(e.values, EnumValue{
			Name:        name,
			Description: valueConfig.Description,
			Value:       internal,
			Deprecated:  valueConfig.Deprecated,
		})
	}
	for i := range e.values {
		v := &e.values[i]
		e.byName[v.Name] = v
		e.byValue[v.Value] = v
	}

	return e
}

// Name implements TypeWithName.
func (e *Enum) Name() string { return e.name }

// Description implements TypeWithDescription.
func (e *Enum) Description() string { return e.description }

// String implements Type.
func (e *Enum) String() string { return e.name }

// Values returns the members of the enum.
func (e *Enum) Values() []EnumValue { return e.values }

// ValueByName looks up a member by its GraphQL name.
func (e *Enum) ValueByName(name string) (*EnumValue, bool) {
	v, ok := e.byName[name]
	return v, ok
}

// CoerceResult implements LeafType: translates the internal Go value returned by a resolver back
// into the member's GraphQL name.
func (e *Enum) CoerceResult(value interface{}) (interface{}, error) {
	if v, ok := e.byValue[value]; ok {
		return v.Name, nil
	}
	return nil, fmt.Errorf("%q is not a value of enum %q", value, e.name)
}

// CoerceInput translates a GraphQL enum name supplied in a query into the member's internal Go
// value.
func (e *Enum) CoerceInput(name string) (interface{}, error) {
	if v, ok := e.byName[name]; ok {
		return v.Value, nil
	}
	return nil, fmt.Errorf("%q is not a value of enum %q", name, e.name)
}

func (*Enum) typeMarker()     {}
func (*Enum) leafTypeMarker() {}
