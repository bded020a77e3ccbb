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
	"fmt"
	"reflect"
	"strings"

	"github.com/riverql/riverql/internal/util"
)

// ReflectFieldResolver is used for any field that does not specify its own Resolve. It looks up
// the property on the source value with the same name as the field (after converting the field's
// camelCase GraphQL name, e.g. "ScanAnonymousFields" for "scanAnonymousFields"), or if that
// property is a function, calls it and forwards its result.
type ReflectFieldResolver struct {
	// UnresolvedAsError makes Resolve return an error (instead of a nil value) when no matching
	// field or method is found on the source.
	UnresolvedAsError bool
	// ScanAnonymousFields descends into embedded structs when looking for a matching field.
	ScanAnonymousFields bool
	// ScanMethods additionally tries a zero-argument-compatible method of the source's pointer
	// type named after the field, after struct fields have been exhausted.
	ScanMethods bool
	// FieldTagName, if non-empty, is consulted before the CamelCase name match (e.g. "json").
	FieldTagName string
}

var _ FieldResolver = ReflectFieldResolver{}

// Resolve implements FieldResolver.
func (r ReflectFieldResolver) Resolve(source interface{}, args ArgumentValues, info ResolveInfo) (interface{}, error) {
	value := reflect.ValueOf(source)
	if !value.IsValid() {
		return nil, r.unresolvedError(info)
	}

	if value.Kind() == reflect.Ptr {
		value = value.Elem()
		if !value.IsValid() {
			return nil, r.unresolvedError(info)
		}
	}

	switch value.Kind() {
	case reflect.Struct:
		return r.resolveFromStruct(source, value, args, info)
	case reflect.Map:
		return r.resolveFromMap(source, value, args, info)
	default:
		return nil, r.unresolvedError(info)
	}
}

func (r ReflectFieldResolver) unresolvedError(info ResolveInfo) error {
	if !r.UnresolvedAsError {
		return nil
	}
	return fmt.Errorf("default resolver cannot resolve value for %q.%q", info.Object().Name(), info.Field().Name())
}

func (r ReflectFieldResolver) resolveFromValueOrFunc(source interface{}, args ArgumentValues, value reflect.Value, info ResolveInfo) (interface{}, error) {
	if value.Kind() == reflect.Func {
		return r.callResolverFunc(value, args, info)
	}
	return value.Interface(), nil
}

func (r ReflectFieldResolver) callResolverFunc(value reflect.Value, args ArgumentValues, info ResolveInfo) (interface{}, error) {
	switch f := value.Interface().(type) {
	case func() (interface{}, error):
		return f()
	case func(ArgumentValues) (interface{}, error):
		return f(args)
	case func(ArgumentValues, ResolveInfo) (interface{}, error):
		return f(args, info)
	default:
		return nil, fmt.Errorf(
			"default resolver found a method for %q.%q but its signature is unsupported (got %T); "+
				"expected one of func() (interface{}, error), func(schema.ArgumentValues) (interface{}, error), "+
				"func(schema.ArgumentValues, schema.ResolveInfo) (interface{}, error)",
			info.Object().Name(), info.Field().Name(), f)
	}
}

func (r ReflectFieldResolver) resolveFromStruct(source interface{}, sourceValue reflect.Value, args ArgumentValues, info ResolveInfo) (interface{}, error) {
	camelName := util.CamelCase(info.Field().Name())
	tagName := r.FieldTagName

	queue := []reflect.Value{sourceValue}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		curType := cur.Type()
		for i := 0; i < cur.NumField(); i++ {
			field := curType.Field(i)

			if r.ScanAnonymousFields && field.Anonymous && field.Type.Kind() == reflect.Struct {
				queue = append(queue, cur.Field(i))
				continue
			}

			if tagName != "" {
				tagOptions := strings.Split(field.Tag.Get(tagName), ",")
				if len(tagOptions) > 0 && tagOptions[0] == info.Field().Name() {
					return r.resolveFromValueOrFunc(source, args, cur.Field(i), info)
				}
			}
		}

		if fieldValue := cur.FieldByName(camelName); fieldValue.IsValid() {
			return r.resolveFromValueOrFunc(source, args, fieldValue, info)
		}
	}

	if r.ScanMethods {
		if sourceValue.CanAddr() {
			sourceValue = sourceValue.Addr()
		}
		if method := sourceValue.MethodByName(camelName); method.IsValid() {
			return r.callResolverFunc(method, args, info)
		}
	}

	return nil, r.unresolvedError(info)
}

// resolveFromMap looks up the field's GraphQL name on the source map first, then -- since map
// sources are commonly plain decoded rows from a store that names its columns in snake_case -- its
// snake_case form (e.g. "firstName" falls back to "first_name"), before giving up.
func (r ReflectFieldResolver) resolveFromMap(source interface{}, sourceValue reflect.Value, args ArgumentValues, info ResolveInfo) (interface{}, error) {
	name := info.Field().Name()
	if value := sourceValue.MapIndex(reflect.ValueOf(name)); value.IsValid() {
		return r.resolveFromValueOrFunc(source, args, value, info)
	}
	if snakeName := util.SnakeCase(name); snakeName != name {
		if value := sourceValue.MapIndex(reflect.ValueOf(snakeName)); value.IsValid() {
			return r.resolveFromValueOrFunc(source, args, value, info)
		}
	}
	return nil, r.unresolvedError(info)
}
