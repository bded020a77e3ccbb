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

// ResultCoercer converts an internal value returned by a resolver into a value safe to serialize
// in the response (e.g. clamping a Go int64 into the range a GraphQL Int permits).
type ResultCoercer interface {
	CoerceResult(value interface{}) (interface{}, error)
}

// ResultCoercerFunc adapts a function to a ResultCoercer.
type ResultCoercerFunc func(value interface{}) (interface{}, error)

// CoerceResult implements ResultCoercer.
func (f ResultCoercerFunc) CoerceResult(value interface{}) (interface{}, error) {
	return f(value)
}

// InputCoercer converts a literal or variable value supplied in a query into an internal value
// usable by resolvers.
type InputCoercer interface {
	CoerceInput(value interface{}) (interface{}, error)
}

// InputCoercerFunc adapts a function to an InputCoercer.
type InputCoercerFunc func(value interface{}) (interface{}, error)

// CoerceInput implements InputCoercer.
func (f InputCoercerFunc) CoerceInput(value interface{}) (interface{}, error) {
	return f(value)
}

// ScalarConfig specifies a Scalar type.
type ScalarConfig struct {
	Name          string
	Description   string
	ResultCoercer ResultCoercer
	InputCoercer  InputCoercer
}

// Scalar represents a leaf type whose values are opaque to the executor: it neither recurses into
// further selections nor inspects the value beyond coercion.
type Scalar struct {
	config ScalarConfig
}

var (
	_ LeafType = (*Scalar)(nil)
)

// NewScalar creates a Scalar type from config.
func NewScalar(config ScalarConfig) *Scalar {
	if config.Name == "" {
		panic("schema: Scalar must be given a name")
	}
	if config.ResultCoercer == nil {
		panic("schema: Scalar " + config.Name + " must be given a ResultCoercer")
	}
	return &Scalar{config: config}
}

// Name implements TypeWithName.
func (s *Scalar) Name() string { return s.config.Name }

// Description implements TypeWithDescription.
func (s *Scalar) Description() string { return s.config.Description }

// String implements Type.
func (s *Scalar) String() string { return s.config.Name }

// CoerceResult implements LeafType.
func (s *Scalar) CoerceResult(value interface{}) (interface{}, error) {
	return s.config.ResultCoercer.CoerceResult(value)
}

// CoerceInput coerces an input literal/variable value for this scalar. Returns the value
// unchanged if no InputCoercer was configured.
func (s *Scalar) CoerceInput(value interface{}) (interface{}, error) {
	if s.config.InputCoercer == nil {
		return value, nil
	}
	return s.config.InputCoercer.CoerceInput(value)
}

func (*Scalar) typeMarker()     {}
func (*Scalar) leafTypeMarker() {}
