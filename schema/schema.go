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

// SchemaConfig specifies a Schema.
type SchemaConfig struct {
	Query        *Object
	Mutation     *Object
	Subscription *Object

	// DefaultFieldResolver resolves any field that declares neither its own Resolve nor its
	// owning Object's DefaultFieldResolver. Defaults to ReflectFieldResolver if unset.
	DefaultFieldResolver FieldResolver
}

// Schema describes a GraphQL type system: its root operation types and the field resolution
// fallback used throughout.
type Schema struct {
	query                *Object
	mutation             *Object
	subscription         *Object
	defaultFieldResolver FieldResolver
}

// New validates config and builds a Schema. It eagerly walks every Object reachable from the root
// types through Object-typed fields (forcing each FieldsThunk) so that a malformed schema fails at
// startup rather than midway through serving a request. Objects reachable only as members of an
// Interface or Union, and the Interfaces themselves, are not walked.
func New(config SchemaConfig) (*Schema, error) {
	if config.Query == nil {
		return nil, fmt.Errorf("schema: a Schema must define a Query root type")
	}

	resolver := config.DefaultFieldResolver
	if resolver == nil {
		resolver = ReflectFieldResolver{}
	}

	s := &Schema{
		query:                config.Query,
		mutation:             config.Mutation,
		subscription:         config.Subscription,
		defaultFieldResolver: resolver,
	}

	seen := map[*Object]bool{}
	for _, root := range []*Object{config.Query, config.Mutation, config.Subscription} {
		if root == nil {
			continue
		}
		if err := s.walkObject(root, seen); err != nil {
			return nil, err
		}
	}

	return s, nil
}

func (s *Schema) walkObject(obj *Object, seen map[*Object]bool) error {
	if seen[obj] {
		return nil
	}
	seen[obj] = true

	fields, err := obj.Fields(s.defaultFieldResolver)
	if err != nil {
		return fmt.Errorf("schema: %s: %w", obj.Name(), err)
	}

	for _, field := range fields {
		named := NamedTypeOf(field.Type())
		if child, ok := named.(*Object); ok {
			if err := s.walkObject(child, seen); err != nil {
				return err
			}
		}
	}
	return nil
}

// Query returns the schema's root Query type. Never nil.
func (s *Schema) Query() *Object { return s.query }

// Mutation returns the schema's root Mutation type, or nil if the schema defines none.
func (s *Schema) Mutation() *Object { return s.mutation }

// Subscription returns the schema's root Subscription type, or nil if the schema defines none.
func (s *Schema) Subscription() *Object { return s.subscription }

// DefaultFieldResolver returns the resolver used for fields that don't specify their own.
func (s *Schema) DefaultFieldResolver() FieldResolver { return s.defaultFieldResolver }

// FieldsOf returns the field map of obj, resolving it against this schema's default resolver on
// first use.
func (s *Schema) FieldsOf(obj *Object) (FieldMap, error) {
	return obj.Fields(s.defaultFieldResolver)
}

// InterfaceFieldsOf returns the field map of i, resolving it against this schema's default
// resolver on first use.
func (s *Schema) InterfaceFieldsOf(i *Interface) (FieldMap, error) {
	return i.Fields(s.defaultFieldResolver)
}

// RootTypeForOperation returns the schema's root type for the given gqlparser operation kind
// ("query", "mutation" or "subscription"), or nil if the schema has none.
func (s *Schema) RootTypeForOperation(operation string) *Object {
	switch operation {
	case "query":
		return s.query
	case "mutation":
		return s.mutation
	case "subscription":
		return s.subscription
	default:
		return nil
	}
}
