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

	"github.com/pkg/errors"
)

// ErrKind classifies an Error for logging/metrics purposes. It is never printed as part of the
// response sent to clients.
type ErrKind uint8

// Enumeration of ErrKind.
const (
	ErrKindOther     ErrKind = iota // Unclassified.
	ErrKindCoercion                 // Argument/variable coercion failed.
	ErrKindExecution                // A resolver or the executor itself failed.
	ErrKindInternal                 // Should not happen; indicates a bug in riverql itself.
)

func (k ErrKind) String() string {
	switch k {
	case ErrKindCoercion:
		return "coercion error"
	case ErrKindExecution:
		return "execution error"
	case ErrKindInternal:
		return "internal error"
	}
	return "error"
}

// ErrorLocation is a 1-based line/column in the GraphQL source document.
type ErrorLocation struct {
	Line   uint
	Column uint
}

// ErrorExtensions carries vendor-specific data alongside an Error (serialized under the
// "extensions" key).
//
// Reference: https://github.com/facebook/graphql/pull/407
type ErrorExtensions map[string]interface{}

// Error describes a single error produced while executing a GraphQL operation, in the shape
// defined by the GraphQL response format.
//
// Reference: https://spec.graphql.org/June2018/#sec-Errors
type Error struct {
	Message    string
	Locations  []ErrorLocation
	Path       Path
	Extensions ErrorExtensions
	Kind       ErrKind

	// Err is the underlying cause, if any. When Err is built through NewError/WrapError it is
	// wrapped with github.com/pkg/errors so that %+v on the resulting Error prints a stack trace
	// captured at the point of failure — essential for tracking down which resolver actually
	// panicked or returned an error, since the executor may have recovered and re-wrapped it
	// several layers up the selection tree before it reaches a log line.
	Err error
}

var _ error = (*Error)(nil)

// NewError builds an Error with the given message, kind and path. It wraps the message with
// errors.New so the resulting Error carries a stack trace from the call site.
func NewError(message string, kind ErrKind, path Path) *Error {
	return &Error{
		Message: message,
		Kind:    kind,
		Path:    path,
		Err:     errors.New(message),
	}
}

// WrapError builds an Error from an underlying error, preserving (or attaching) its stack trace.
func WrapError(err error, kind ErrKind, path Path) *Error {
	if err == nil {
		return nil
	}
	if existing, ok := err.(*Error); ok {
		if existing.Path.IsEmpty() {
			existing.Path = path
		}
		return existing
	}
	return &Error{
		Message: err.Error(),
		Kind:    kind,
		Path:    path,
		Err:     errors.WithStack(err),
	}
}

// WithLocations attaches source locations to e and returns it, for chaining at construction time.
func (e *Error) WithLocations(locations ...ErrorLocation) *Error {
	e.Locations = locations
	return e
}

// WithExtensions attaches vendor extensions to e and returns it, for chaining at construction
// time.
func (e *Error) WithExtensions(extensions ErrorExtensions) *Error {
	e.Extensions = extensions
	return e
}

// Error implements Go's error interface.
func (e *Error) Error() string {
	if !e.Path.IsEmpty() {
		return fmt.Sprintf("%s (path: %s)", e.Message, e.Path.String())
	}
	return e.Message
}

// Unwrap supports errors.Is/errors.As against the wrapped cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// StackTrace exposes the stack captured when the error was created, if github.com/pkg/errors was
// able to attach one.
func (e *Error) StackTrace() errors.StackTrace {
	type stackTracer interface {
		StackTrace() errors.StackTrace
	}
	if tracer, ok := e.Err.(stackTracer); ok {
		return tracer.StackTrace()
	}
	return nil
}
