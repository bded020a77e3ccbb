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
	"math"
	"strconv"
)

// The five built-in leaf scalars every schema gets for free. Internal value types follow the
// GraphQL spec's table: Int -> int, Float -> float64, String -> string, Boolean -> bool, ID ->
// string.

// String is the built-in String scalar.
var String = NewScalar(ScalarConfig{
	Name:          "String",
	Description:   "The String scalar type represents textual data, represented as UTF-8 character sequences.",
	ResultCoercer: ResultCoercerFunc(coerceStringResult),
	InputCoercer:  InputCoercerFunc(coerceStringInput),
})

func coerceStringResult(value interface{}) (interface{}, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case fmt.Stringer:
		return v.String(), nil
	default:
		return nil, fmt.Errorf("String cannot represent a non string value: %v", value)
	}
}

func coerceStringInput(value interface{}) (interface{}, error) {
	s, ok := value.(string)
	if !ok {
		return nil, fmt.Errorf("String cannot represent a non string value: %v", value)
	}
	return s, nil
}

// Boolean is the built-in Boolean scalar.
var Boolean = NewScalar(ScalarConfig{
	Name:          "Boolean",
	Description:   "The Boolean scalar type represents true or false.",
	ResultCoercer: ResultCoercerFunc(coerceBooleanValue),
	InputCoercer:  InputCoercerFunc(coerceBooleanValue),
})

func coerceBooleanValue(value interface{}) (interface{}, error) {
	b, ok := value.(bool)
	if !ok {
		return nil, fmt.Errorf("Boolean cannot represent a non boolean value: %v", value)
	}
	return b, nil
}

// Int is the built-in Int scalar: a signed 32-bit non-fractional value.
var Int = NewScalar(ScalarConfig{
	Name:          "Int",
	Description:   "The Int scalar type represents a signed 32-bit numeric non-fractional value.",
	ResultCoercer: ResultCoercerFunc(coerceIntResult),
	InputCoercer:  InputCoercerFunc(coerceIntInput),
})

func coerceIntResult(value interface{}) (interface{}, error) {
	switch v := value.(type) {
	case int:
		if v > math.MaxInt32 || v < math.MinInt32 {
			return nil, fmt.Errorf("Int cannot represent value too large or too small for 32-bit signed integer: %d", v)
		}
		return v, nil
	case int32:
		return int(v), nil
	case int64:
		return coerceIntResult(int(v))
	case float64:
		i := int(v)
		if float64(i) != v {
			return nil, fmt.Errorf("Int cannot represent a non-integer value: %v", v)
		}
		return coerceIntResult(i)
	default:
		return nil, fmt.Errorf("Int cannot represent a non numeric value: %v", value)
	}
}

// coerceIntInput accepts either a Go int/int64/float64 (the shape of a variable value already
// decoded by encoding/json) or a string (the raw text of an IntValue literal).
func coerceIntInput(value interface{}) (interface{}, error) {
	switch v := value.(type) {
	case string:
		i, err := strconv.ParseInt(v, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("Int cannot represent non-integer value: %q", v)
		}
		return int(i), nil
	default:
		return coerceIntResult(value)
	}
}

// Float is the built-in Float scalar.
var Float = NewScalar(ScalarConfig{
	Name:          "Float",
	Description:   "The Float scalar type represents signed double-precision fractional values.",
	ResultCoercer: ResultCoercerFunc(coerceFloatResult),
	InputCoercer:  InputCoercerFunc(coerceFloatInput),
})

func coerceFloatResult(value interface{}) (interface{}, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	default:
		return nil, fmt.Errorf("Float cannot represent a non numeric value: %v", value)
	}
}

func coerceFloatInput(value interface{}) (interface{}, error) {
	if s, ok := value.(string); ok {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("Float cannot represent non numeric value: %q", s)
		}
		return f, nil
	}
	return coerceFloatResult(value)
}

// ID is the built-in ID scalar: serialized as a string, but also accepts an integer literal/
// variable on input, per the GraphQL spec's ID coercion rules.
var ID = NewScalar(ScalarConfig{
	Name:          "ID",
	Description:   "The ID scalar type represents a unique identifier, serialized as a String.",
	ResultCoercer: ResultCoercerFunc(coerceIDResult),
	InputCoercer:  InputCoercerFunc(coerceIDInput),
})

func coerceIDResult(value interface{}) (interface{}, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case fmt.Stringer:
		return v.String(), nil
	default:
		return nil, fmt.Errorf("ID cannot represent value: %v", value)
	}
}

func coerceIDInput(value interface{}) (interface{}, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case int, int64, float64:
		return coerceIDResult(v)
	default:
		return nil, fmt.Errorf("ID cannot represent value: %v", value)
	}
}
