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

package stream

// ofStream implements Stream returned by Of.
type ofStream struct {
	values []interface{}
}

// Of creates a cold Stream that synchronously emits each of values, in order, to every subscriber
// and then completes. Each Subscribe call replays the full sequence from the start.
func Of(values ...interface{}) Stream {
	return &ofStream{values: values}
}

// ofSubscription lets an Observer cut the synchronous replay short by unsubscribing from within a
// Next callback.
type ofSubscription struct {
	cancelled bool
}

func (s *ofSubscription) Unsubscribe() {
	s.cancelled = true
}

// Subscribe implements Stream.
func (s *ofStream) Subscribe(observer Observer) Subscription {
	sub := &ofSubscription{}

	for _, value := range s.values {
		if sub.cancelled {
			return sub
		}
		observer.Next(value)
	}

	if !sub.cancelled {
		observer.Complete()
	}

	return sub
}

// Empty returns a cold Stream that completes immediately without emitting any value.
func Empty() Stream {
	return &ofStream{}
}

// errStream implements Stream returned by Err.
type errStream struct {
	err error
}

// Err creates a cold Stream that synchronously errors every subscriber with err.
func Err(err error) Stream {
	return &errStream{err: err}
}

// Subscribe implements Stream.
func (s *errStream) Subscribe(observer Observer) Subscription {
	observer.Error(s.err)
	return noopSubscription{}
}
