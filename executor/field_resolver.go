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
	"github.com/riverql/riverql/future"
	"github.com/riverql/riverql/schema"
	"github.com/riverql/riverql/stream"
	"github.com/riverql/riverql/workerpool"
)

// resolveField invokes one field's resolver and normalizes whatever it returns into a stream of
// raw (not yet type-completed) values. ok is false when the field has no definition on
// objectType, meaning the caller should omit this response key entirely (spec.md §4.3 step 1).
func resolveField(execCtx *Context, objectType *schema.Object, parentValue interface{}, group fieldGroup, path schema.Path) (childStream stream.Stream, fieldDef *schema.Field, info *resolveInfo, ok bool) {
	fields, err := execCtx.schema.FieldsOf(objectType)
	if err != nil {
		return stream.Err(locateError(err, path, group.Nodes)), nil, nil, true
	}

	fieldDef, ok = fields[group.Nodes[0].Name]
	if !ok {
		return nil, nil, nil, false
	}

	args, err := schema.CoerceArgumentValues(fieldDef, group.Nodes[0].Arguments, execCtx.variableValues)
	if err != nil {
		return stream.Err(locateError(err, path, group.Nodes)), fieldDef, nil, true
	}

	info = &resolveInfo{
		execCtx:    execCtx,
		object:     objectType,
		field:      fieldDef,
		fieldNodes: group.Nodes,
		path:       path,
		args:       args,
	}

	raw, err := invokeResolver(fieldDef.Resolver(), parentValue, args, info)
	if err != nil {
		return stream.Err(locateError(err, path, group.Nodes)), fieldDef, info, true
	}

	return normalizeResolverReturn(raw, execCtx), fieldDef, info, true
}

// invokeResolver calls resolver, recovering a panic into an error the same way a returned error
// would be handled (spec.md §4.5).
func invokeResolver(resolver schema.FieldResolver, source interface{}, args schema.ArgumentValues, info schema.ResolveInfo) (result interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = recoverResolverPanic(r)
		}
	}()
	return resolver.Resolve(source, args, info)
}

// normalizeResolverReturn implements the plain/deferred/stream tagged-variant normalization named
// in spec.md §9: a stream.Stream is passed through untouched; a future.Future is adapted into a
// single-emit stream via stream.FromFuture; anything else is wrapped as a single-emit, completing
// stream with stream.Of.
func normalizeResolverReturn(value interface{}, execCtx *Context) stream.Stream {
	switch v := value.(type) {
	case stream.Stream:
		return v
	case future.Future:
		return stream.FromFuture(v, execCtx.workerExecutor())
	default:
		return stream.Of(v)
	}
}

// workerExecutor lazily creates (and caches) the worker pool used to drive resolver-returned
// Futures to completion for the lifetime of this execution.
func (c *Context) workerExecutor() workerpool.Executor {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sharedExecutor == nil {
		// Errors only on an invalid config; MaxPoolSize here is always valid, so this is
		// guaranteed to succeed.
		exec, _ := workerpool.NewWorkerPoolExecutor(workerpool.WorkerPoolExecutorConfig{MaxPoolSize: 8})
		c.sharedExecutor = exec
	}
	return c.sharedExecutor
}
