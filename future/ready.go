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

package future

import "errors"

// readyFuture is a Future that is already resolved at construction time. Poll never returns
// PollResultPending for it.
type readyFuture struct {
	value interface{}
	err   error
}

// Poll implements Future.
func (f readyFuture) Poll(waker Waker) (PollResult, error) {
	return f.value, f.err
}

// Ready returns a Future that is immediately resolved to value.
func Ready(value interface{}) Future {
	return readyFuture{value: value}
}

// Err returns a Future that is immediately resolved to err. A nil err is turned into a non-nil
// empty error so that Err always represents a failed Future.
func Err(err error) Future {
	if err == nil {
		err = errors.New("")
	}
	return readyFuture{err: err}
}
