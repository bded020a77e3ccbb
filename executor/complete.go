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
	"fmt"
	"reflect"
	"strconv"

	"github.com/riverql/riverql/schema"
	"github.com/riverql/riverql/stream"
	"github.com/vektah/gqlparser/v2/ast"
)

// completeValue adapts raw -- the (already normalized) stream of values a field resolver or list
// element produced -- into a stream of fully type-completed values for fieldType, at info's
// current path.
//
// Every time raw emits a new value, completeValueOnce re-runs the whole completion recursively
// (object sub-selection, list-element completion, leaf coercion) for that value via SwitchMap,
// cancelling whatever completion was in flight for the value it supersedes. The result is then
// passed through absorbOrPropagate, which is where null-propagation actually happens: it is the
// consumer of *this* position (fieldType, as declared at info.Path()) that decides whether an
// error here is absorbed into a null plus a recorded error, or propagated to its own caller --
// never completeValue's recursive calls themselves.
func completeValue(execCtx *Context, fieldType schema.Type, info *resolveInfo, raw stream.Stream) stream.Stream {
	completed := stream.SwitchMap(raw, func(value interface{}) stream.Stream {
		return completeValueOnce(execCtx, fieldType, info, value)
	})
	return absorbOrPropagate(execCtx, fieldType, info.path, completed)
}

// completeValueOnce completes a single resolved value against fieldType, dispatching on the
// type's nullable form (spec.md §4.4).
func completeValueOnce(execCtx *Context, fieldType schema.Type, info *resolveInfo, value interface{}) stream.Stream {
	if value == nil {
		return stream.Of(nil)
	}

	switch t := schema.NullableTypeOf(fieldType).(type) {
	case *schema.List:
		return completeList(execCtx, t, info, value)
	case *schema.Object:
		return completeObjectValue(execCtx, t, info, value)
	case schema.AbstractType:
		return completeAbstractValue(execCtx, t, info, value)
	case schema.LeafType:
		coerced, err := t.CoerceResult(value)
		if err != nil {
			return stream.Err(locateError(err, info.path, info.fieldNodes))
		}
		return stream.Of(coerced)
	default:
		return stream.Err(locateError(fmt.Errorf("schema: %T is not a value-bearing type", fieldType), info.path, info.fieldNodes))
	}
}

// absorbOrPropagate wraps inner, the completion stream for one declared position (a field's own
// type, or a list's element type), with the position's null-propagation behavior:
//
//   - fieldType is Non-Null: a nil value is itself turned into the propagating error, and any
//     error already produced further down is forwarded unchanged -- a Non-Null position never
//     absorbs.
//   - fieldType is nullable: an error produced further down is recorded into the execution's
//     error accumulator and replaced with a value of nil, ending the stream successfully -- this
//     is where a propagating error from a Non-Null descendant finally stops.
func absorbOrPropagate(execCtx *Context, fieldType schema.Type, path schema.Path, inner stream.Stream) stream.Stream {
	if schema.IsNonNullType(fieldType) {
		return &nonNullGuardStream{src: inner, path: path}
	}
	return &absorbingStream{src: inner, execCtx: execCtx, path: path}
}

// nonNullGuardStream never absorbs: it turns a nil Next into a propagating error and otherwise
// forwards every event untouched.
type nonNullGuardStream struct {
	src  stream.Stream
	path schema.Path
}

func (s *nonNullGuardStream) Subscribe(observer stream.Observer) stream.Subscription {
	return s.src.Subscribe(stream.FuncObserver{
		NextFunc: func(value interface{}) {
			if value == nil {
				observer.Error(nonNullViolation(s.path))
				return
			}
			observer.Next(value)
		},
		ErrorFunc:    observer.Error,
		CompleteFunc: observer.Complete,
	})
}

// absorbingStream turns a downstream error into a recorded error plus a terminal nil value.
type absorbingStream struct {
	src     stream.Stream
	execCtx *Context
	path    schema.Path
}

func (s *absorbingStream) Subscribe(observer stream.Observer) stream.Subscription {
	return s.src.Subscribe(stream.FuncObserver{
		NextFunc: observer.Next,
		ErrorFunc: func(err error) {
			s.execCtx.recordError(locateError(err, s.path, nil))
			observer.Next(nil)
			observer.Complete()
		},
		CompleteFunc: observer.Complete,
	})
}

// completeList completes value, which must be a Go slice or array, against listType, element by
// element. Each element is completed independently at its own forked path (spec.md §4.4's list
// rule), and the element streams are combined so that the list as a whole re-emits whenever any
// one element does.
func completeList(execCtx *Context, listType *schema.List, info *resolveInfo, value interface{}) stream.Stream {
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return stream.Err(locateError(fmt.Errorf("resolved value for a list field must be a slice, got %T", value), info.path, info.fieldNodes))
	}

	n := rv.Len()
	if n == 0 {
		return stream.Of([]interface{}{})
	}

	elementType := listType.Unwrap()
	children := make(map[string]stream.Stream, n)
	for i := 0; i < n; i++ {
		elemInfo := info.withPath(info.path.WithIndex(i))
		children[strconv.Itoa(i)] = completeValue(execCtx, elementType, elemInfo, stream.Of(rv.Index(i).Interface()))
	}

	combined := stream.CombineLatest(children)
	return stream.Map(combined, func(v interface{}) (interface{}, error) {
		snapshot := v.(map[string]interface{})
		out := make([]interface{}, n)
		for i := 0; i < n; i++ {
			out[i] = snapshot[strconv.Itoa(i)]
		}
		return out, nil
	})
}

// completeObjectValue collects the merged sub-selection requested of objType across every field
// node in info.fieldNodes and evaluates it as a nested selection set over value.
func completeObjectValue(execCtx *Context, objType *schema.Object, info *resolveInfo, value interface{}) stream.Stream {
	groups, err := mergedFieldGroups(info.fieldNodes)
	if err != nil {
		return stream.Err(locateError(err, info.path, info.fieldNodes))
	}
	return evaluateSelectionSet(execCtx, objType, value, info.path, groups)
}

// completeAbstractValue resolves value's concrete Object type through abstractType.ResolveType and
// then completes it exactly as completeObjectValue would.
func completeAbstractValue(execCtx *Context, abstractType schema.AbstractType, info *resolveInfo, value interface{}) stream.Stream {
	concrete, err := abstractType.ResolveType(value, info)
	if err != nil {
		return stream.Err(locateError(err, info.path, info.fieldNodes))
	}
	if concrete == nil {
		return stream.Err(locateError(fmt.Errorf("abstract type %q did not resolve to a concrete type for value %#v", abstractType.Name(), value), info.path, info.fieldNodes))
	}
	return completeObjectValue(execCtx, concrete, info, value)
}

// mergedFieldGroups concatenates the sub-selection sets of every node sharing a response key (the
// GraphQL field-merging rule) and collects the result.
func mergedFieldGroups(fieldNodes []*ast.Field) ([]fieldGroup, error) {
	var merged []ast.Selection
	for _, node := range fieldNodes {
		merged = append(merged, node.SelectionSet...)
	}
	return collectFields(merged)
}
