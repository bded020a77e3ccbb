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
	"context"

	"github.com/pkg/errors"
	"github.com/riverql/riverql/schema"
	"github.com/riverql/riverql/stream"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
)

// ExecuteParams carries everything Execute needs to run one operation.
type ExecuteParams struct {
	Schema   *schema.Schema
	Document *ast.QueryDocument

	// OperationName selects which operation in Document to run. May be left empty when Document
	// defines exactly one operation.
	OperationName string

	RootValue            interface{}
	AppContext           interface{}
	VariableValues       schema.VariableValues
	DefaultFieldResolver schema.FieldResolver
	Config               Config
}

// Execute evaluates params against its schema and returns a Stream of Snapshots: a query produces
// a new Snapshot whenever any live field it selected produces a new value; a mutation produces
// exactly one Snapshot per settled top-level field, in declared order, followed by later updates
// from any field whose own resolved stream keeps emitting.
//
// Every error Execute can anticipate before the first subscription -- operation lookup, an
// unsupported operation kind, a fragment in the root selection set -- is reported as a single
// {Data: nil, Errors} Snapshot followed by Complete, rather than as a Go error, so that callers
// always get a uniform stream.Stream back (spec.md §4.1, §7).
func Execute(ctx context.Context, params ExecuteParams) stream.Stream {
	operation, err := findOperation(params.Document, params.OperationName)
	if err != nil {
		return singleErrorSnapshot(err)
	}

	rootType, mode, err := dispatch(params.Schema, operation)
	if err != nil {
		return singleErrorSnapshot(err)
	}

	defaultResolver := params.DefaultFieldResolver
	if defaultResolver == nil {
		defaultResolver = params.Schema.DefaultFieldResolver()
	}

	execCtx := &Context{
		ctx:                  ctx,
		schema:               params.Schema,
		document:             params.Document,
		operation:            operation,
		rootValue:            params.RootValue,
		appContext:           params.AppContext,
		variableValues:       params.VariableValues,
		defaultFieldResolver: defaultResolver,
		config:               params.Config,
		mode:                 mode,
	}

	groups, err := collectFields(operation.SelectionSet)
	if err != nil {
		return singleErrorSnapshot(err)
	}

	values := evaluateSelectionSet(execCtx, rootType, params.RootValue, schema.Empty, groups)

	// The root selection set has no enclosing field to absorb into, so an unabsorbed error from a
	// Non-Null root field (which CombineLatest turns into a stream error, same as at any nested
	// level) is absorbed here instead: recorded, and the whole response becomes data: null, per
	// spec.md §7's "top-level fatal" handling.
	topLevel := &absorbingStream{src: values, execCtx: execCtx, path: schema.Empty}

	return stream.Map(topLevel, func(v interface{}) (interface{}, error) {
		data, _ := v.(*ResponseObject)
		return Snapshot{Data: data, Errors: execCtx.snapshotErrors()}, nil
	})
}

// ExecuteSource is a thin convenience wrapper that parses source as a GraphQL query document
// before delegating to Execute. It exists only to keep Execute itself agnostic of parsing, per
// spec.md §1's "thin entry point, not a toolkit" scoping.
func ExecuteSource(ctx context.Context, source string, params ExecuteParams) stream.Stream {
	document, err := parser.ParseQuery(&ast.Source{Input: source})
	if err != nil {
		return singleErrorSnapshot(err)
	}
	params.Document = document
	return Execute(ctx, params)
}

// findOperation locates the operation to run within document, by name if given, or the sole
// operation if the document defines exactly one.
func findOperation(document *ast.QueryDocument, operationName string) (*ast.OperationDefinition, error) {
	if document == nil {
		return nil, errors.New("riverql: no query document given")
	}

	if operationName == "" {
		if len(document.Operations) == 1 {
			return document.Operations[0], nil
		}
		return nil, errors.New("riverql: must provide an operation name when a document defines more than one operation")
	}

	for _, op := range document.Operations {
		if op.Name == operationName {
			return op, nil
		}
	}
	return nil, errors.Errorf("riverql: unknown operation %q", operationName)
}

// dispatch resolves operation's root Object and evaluation mode. ast.Subscription is rejected: a
// riverql operation is already continuous by virtue of being built from resolver streams, so a
// distinct subscription operation kind is out of scope (spec.md Non-goals).
func dispatch(s *schema.Schema, operation *ast.OperationDefinition) (*schema.Object, evaluationMode, error) {
	switch operation.Operation {
	case ast.Query:
		if s.Query() == nil {
			return nil, modeRead, errors.New("riverql: schema defines no Query root type")
		}
		return s.Query(), modeRead, nil
	case ast.Mutation:
		if s.Mutation() == nil {
			return nil, modeWrite, errors.New("riverql: schema defines no Mutation root type")
		}
		return s.Mutation(), modeWrite, nil
	default:
		return nil, modeRead, errors.Errorf("riverql: unsupported operation type %q; subscriptions are not a distinct operation kind here, every query and mutation is already reactive", operation.Operation)
	}
}

// singleErrorSnapshot returns a Stream that emits exactly one Snapshot carrying err as its sole
// located error and a nil Data, then completes -- the uniform shape Execute reports synchronous,
// pre-subscription failures in.
func singleErrorSnapshot(err error) stream.Stream {
	located := schema.WrapError(err, schema.ErrKindInternal, schema.Empty)
	return stream.Of(Snapshot{Errors: []*schema.Error{located}})
}
