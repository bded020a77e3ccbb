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
	"encoding/json"
	"fmt"

	"github.com/vektah/gqlparser/v2/ast"

	"github.com/riverql/riverql/internal/util"
)

// ArgumentValues holds coerced argument values given to a field invocation. It is immutable once
// built.
type ArgumentValues struct {
	values map[string]interface{}
}

var noArgumentValues = ArgumentValues{values: map[string]interface{}{}}

// NoArgumentValues returns an empty ArgumentValues.
func NoArgumentValues() ArgumentValues {
	return noArgumentValues
}

// NewArgumentValues wraps an already-coerced map of values.
func NewArgumentValues(values map[string]interface{}) ArgumentValues {
	if len(values) == 0 {
		return noArgumentValues
	}
	return ArgumentValues{values}
}

// Lookup returns the value for name and whether it was present.
func (a ArgumentValues) Lookup(name string) (interface{}, bool) {
	v, ok := a.values[name]
	return v, ok
}

// Get returns the value for name, or nil if absent.
func (a ArgumentValues) Get(name string) interface{} {
	return a.values[name]
}

// MarshalJSON implements json.Marshaler, primarily for use in tests.
func (a ArgumentValues) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.values)
}

// VariableValues holds the coerced values of a query's $variables. It is immutable once built.
type VariableValues struct {
	values map[string]interface{}
}

var noVariableValues = VariableValues{values: map[string]interface{}{}}

// NoVariableValues returns an empty VariableValues.
func NoVariableValues() VariableValues {
	return noVariableValues
}

// NewVariableValues wraps an already-coerced map of variable values.
func NewVariableValues(values map[string]interface{}) VariableValues {
	if values == nil {
		return noVariableValues
	}
	return VariableValues{values}
}

// Lookup returns the value of variable name and whether it was present.
func (v VariableValues) Lookup(name string) (interface{}, bool) {
	value, ok := v.values[name]
	return value, ok
}

// Get returns the value of variable name, or nil if absent.
func (v VariableValues) Get(name string) interface{} {
	return v.values[name]
}

// Keys returns the names of every variable bound in v, in no particular order.
func (v VariableValues) Keys() []string {
	names := make([]string, 0, len(v.values))
	for name := range v.values {
		names = append(names, name)
	}
	return names
}

// CoerceArgumentValues evaluates the literal/variable arguments given at a field's call site (an
// *ast.Field, from gqlparser's parsed query) against the Field's declared arguments, applying
// defaults and resolving variable references against vars. It does not perform type validation —
// that is assumed to already have been done by the query validator; riverql's executor coerces and
// resolves, it does not re-validate.
func CoerceArgumentValues(field *Field, astArgs []*ast.Argument, vars VariableValues) (ArgumentValues, error) {
	if len(field.Args()) == 0 {
		return NoArgumentValues(), nil
	}

	given := make(map[string]*ast.Argument, len(astArgs))
	for _, arg := range astArgs {
		given[arg.Name] = arg
	}

	values := make(map[string]interface{}, len(field.Args()))
	for name, argDef := range field.Args() {
		astArg, ok := given[name]
		if !ok {
			if def, hasDefault := argDef.DefaultValue(); hasDefault {
				values[name] = def
			} else if argDef.IsRequired() {
				return ArgumentValues{}, fmt.Errorf("argument %q of field %q is required but not provided", name, field.Name())
			}
			continue
		}

		value, err := coerceASTValue(astArg.Value, argDef.Type(), vars)
		if err != nil {
			return ArgumentValues{}, fmt.Errorf("argument %q of field %q: %w", name, field.Name(), err)
		}
		values[name] = value
	}

	return NewArgumentValues(values), nil
}

// coerceASTValue resolves a parsed argument value — which may be a variable reference — into a Go
// value, applying the target type's InputCoercer/Enum mapping where one is declared.
func coerceASTValue(value *ast.Value, targetType Type, vars VariableValues) (interface{}, error) {
	if value == nil {
		return nil, nil
	}

	if value.Kind == ast.Variable {
		v, ok := vars.Lookup(value.Raw)
		if !ok {
			return nil, fmt.Errorf("undefined variable $%s%s", value.Raw, didYouMeanVariable(value.Raw, vars))
		}
		return v, nil
	}

	named := NullableTypeOf(targetType)

	if value.Kind == ast.NullValue {
		return nil, nil
	}

	if list, ok := named.(*List); ok {
		if value.Kind != ast.ListValue {
			// Single value coerced into a one-element list, per the GraphQL input coercion rules.
			v, err := coerceASTValue(value, list.Unwrap(), vars)
			if err != nil {
				return nil, err
			}
			return []interface{}{v}, nil
		}
		result := make([]interface{}, 0, len(value.Children))
		for _, child := range value.Children {
			v, err := coerceASTValue(child.Value, list.Unwrap(), vars)
			if err != nil {
				return nil, err
			}
			result = append(result, v)
		}
		return result, nil
	}

	switch named := named.(type) {
	case *Enum:
		if value.Kind != ast.EnumValue {
			return nil, fmt.Errorf("expected enum value for %q, got %s", named.Name(), value.Kind)
		}
		return named.CoerceInput(value.Raw)
	case *Scalar:
		raw, err := rawLiteralValue(value)
		if err != nil {
			return nil, err
		}
		return named.CoerceInput(raw)
	default:
		raw, err := rawLiteralValue(value)
		if err != nil {
			return nil, err
		}
		return raw, nil
	}
}

// didYouMeanVariable returns ", did you mean $x or $y?" when one of vars' declared names is
// lexically close to the undefined name the query referenced, or "" when none are close enough to
// suggest.
func didYouMeanVariable(name string, vars VariableValues) string {
	suggestions := util.SuggestionList(name, vars.Keys())
	if len(suggestions) == 0 {
		return ""
	}
	for i, s := range suggestions {
		suggestions[i] = "$" + s
	}

	var b util.StringBuilder
	b.WriteString(", did you mean ")
	util.OrList(&b, suggestions, 5, false)
	b.WriteByte('?')
	return b.String()
}

// rawLiteralValue converts a non-variable, non-list ast.Value into its plain Go representation.
func rawLiteralValue(value *ast.Value) (interface{}, error) {
	switch value.Kind {
	case ast.StringValue, ast.BlockValue, ast.EnumValue:
		return value.Raw, nil
	case ast.IntValue:
		return value.Raw, nil
	case ast.FloatValue:
		return value.Raw, nil
	case ast.BooleanValue:
		return value.Raw == "true", nil
	case ast.NullValue:
		return nil, nil
	case ast.ObjectValue:
		obj := make(map[string]interface{}, len(value.Children))
		for _, child := range value.Children {
			v, err := rawLiteralValue(child.Value)
			if err != nil {
				return nil, err
			}
			obj[child.Name] = v
		}
		return obj, nil
	default:
		return nil, fmt.Errorf("unsupported literal value kind %v", value.Kind)
	}
}
