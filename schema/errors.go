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

// Errors wraps a list of *Error. Intentionally a struct rather than a bare "type Errors []*Error"
// so that callers check HaveOccurred() instead of comparing to nil — a freshly zero-valued Errors
// already satisfies that correctly, whereas a nil slice and an empty-but-allocated slice of
// *Error would otherwise be easy to confuse.
type Errors struct {
	Errors []*Error
}

// NoErrors returns an empty Errors value.
func NoErrors() Errors {
	return Errors{}
}

// Append adds errs to the list in place.
func (e *Errors) Append(errs ...*Error) {
	e.Errors = append(e.Errors, errs...)
}

// HaveOccurred reports whether the list contains at least one error.
func (e Errors) HaveOccurred() bool {
	return len(e.Errors) > 0
}
