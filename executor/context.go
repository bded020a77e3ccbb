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
	"sync"

	"github.com/riverql/riverql/schema"
	"github.com/riverql/riverql/workerpool"
	"github.com/vektah/gqlparser/v2/ast"
)

// evaluationMode selects how a selection set's fields are driven relative to one another.
type evaluationMode int

const (
	// modeRead subscribes to every sibling field concurrently (spec.md §4.2): a snapshot is
	// produced whenever any field emits, once every field has emitted at least once.
	modeRead evaluationMode = iota
	// modeWrite drives sibling fields one at a time, in declared order, waiting for a field's
	// first event before starting the next (spec.md §4.2's write-mode ordering guarantee).
	modeWrite
)

// Config customizes the behavior of Execute beyond spec-mandated semantics.
type Config struct {
	// Strict turns an unresolvable field at the root of the operation into a hard error (the
	// ad-hoc engine's behavior) instead of silently omitting it from the response (the
	// reference-aligned default). Nested field lookups always omit, regardless of Strict.
	Strict bool
}

// Context is an immutable-per-execution record carrying everything the engine needs to evaluate
// one operation, plus the one piece of mutable state every field branch shares: the accumulated
// error list.
//
// Goroutines backing hot resolver streams may call Next/Error/Complete concurrently, so errs is
// guarded by a mutex here.
type Context struct {
	ctx                  context.Context
	schema               *schema.Schema
	document             *ast.QueryDocument
	operation            *ast.OperationDefinition
	rootValue            interface{}
	appContext           interface{}
	variableValues       schema.VariableValues
	defaultFieldResolver schema.FieldResolver
	config               Config
	mode                 evaluationMode

	mu             sync.Mutex
	errs           schema.Errors
	sharedExecutor workerpool.Executor
}

// recordError appends a located error to the execution's shared accumulator.
func (c *Context) recordError(err *schema.Error) {
	c.mu.Lock()
	c.errs.Append(err)
	c.mu.Unlock()
}

// snapshotErrors returns a copy of every error recorded so far, in recording order.
func (c *Context) snapshotErrors() []*schema.Error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.errs.Errors) == 0 {
		return nil
	}
	out := make([]*schema.Error, len(c.errs.Errors))
	copy(out, c.errs.Errors)
	return out
}

// resolveInfo is the concrete implementation of schema.ResolveInfo threaded through field
// resolvers. It lives in executor (not schema) to avoid an import cycle, since it needs to carry
// a *Context.
type resolveInfo struct {
	execCtx    *Context
	object     *schema.Object
	field      *schema.Field
	fieldNodes []*ast.Field
	path       schema.Path
	args       schema.ArgumentValues
}

var _ schema.ResolveInfo = (*resolveInfo)(nil)

func (i *resolveInfo) Context() context.Context                  { return i.execCtx.ctx }
func (i *resolveInfo) Schema() *schema.Schema                     { return i.execCtx.schema }
func (i *resolveInfo) Document() *ast.QueryDocument               { return i.execCtx.document }
func (i *resolveInfo) Operation() *ast.OperationDefinition        { return i.execCtx.operation }
func (i *resolveInfo) RootValue() interface{}                     { return i.execCtx.rootValue }
func (i *resolveInfo) AppContext() interface{}                    { return i.execCtx.appContext }
func (i *resolveInfo) VariableValues() schema.VariableValues      { return i.execCtx.variableValues }
func (i *resolveInfo) Object() *schema.Object                     { return i.object }
func (i *resolveInfo) Field() *schema.Field                       { return i.field }
func (i *resolveInfo) FieldNodes() []*ast.Field                   { return i.fieldNodes }
func (i *resolveInfo) Path() schema.Path                          { return i.path }
func (i *resolveInfo) Args() schema.ArgumentValues                { return i.args }

// withPath returns a shallow copy of i positioned at path, used when recursing into a list
// element or a nested selection set that shares everything about i except its location.
func (i *resolveInfo) withPath(path schema.Path) *resolveInfo {
	cp := *i
	cp.path = path
	return &cp
}
