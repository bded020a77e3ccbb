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

// Package stream provides push-based Stream primitives that generalize future.Future to repeated
// emission.
//
// A Future resolves once; a Stream may emit any number of values over time before optionally
// completing or erroring, borrowing its shape from Rx's Observable and Rust's futures::Stream.
// Streams are not required to be "cold" (restartable per subscriber) -- a Stream backed by a
// long-lived goroutine or channel is free to be "hot" and share its underlying emissions across
// every Subscribe call; callers must not assume either behavior unless the concrete constructor
// documents it.
package stream

// Observer receives the events pushed by a Stream: zero or more calls to Next, followed by at most
// one terminal call to either Error or Complete. A Stream must not call any Observer method after a
// terminal call, and must not call Observer methods concurrently from more than one goroutine at a
// time for a single subscription.
type Observer interface {
	// Next delivers the next value produced by the Stream.
	Next(value interface{})

	// Error terminates the subscription with an error. No further calls follow.
	Error(err error)

	// Complete terminates the subscription successfully. No further calls follow.
	Complete()
}

// Subscription represents an active subscription to a Stream. Unsubscribe may be called more than
// once; calls after the first are no-ops.
type Subscription interface {
	// Unsubscribe cancels the subscription. Once Unsubscribe returns, the Observer passed to
	// Subscribe will receive no further calls from this subscription, though a call already in
	// flight on another goroutine may still be delivered.
	Unsubscribe()
}

// Stream represents a push-based source of values that may arrive over time.
type Stream interface {
	// Subscribe registers observer to receive values from the Stream and returns a Subscription
	// that can be used to stop receiving them.
	Subscribe(observer Observer) Subscription
}

// FuncObserver adapts three plain functions into an Observer. A nil field is treated as a no-op.
type FuncObserver struct {
	NextFunc     func(value interface{})
	ErrorFunc    func(err error)
	CompleteFunc func()
}

var _ Observer = FuncObserver{}

// Next implements Observer.
func (o FuncObserver) Next(value interface{}) {
	if o.NextFunc != nil {
		o.NextFunc(value)
	}
}

// Error implements Observer.
func (o FuncObserver) Error(err error) {
	if o.ErrorFunc != nil {
		o.ErrorFunc(err)
	}
}

// Complete implements Observer.
func (o FuncObserver) Complete() {
	if o.CompleteFunc != nil {
		o.CompleteFunc()
	}
}

// noopSubscription is returned where a Stream determines at Subscribe time that there is nothing
// left to cancel (e.g., it already failed synchronously).
type noopSubscription struct{}

func (noopSubscription) Unsubscribe() {}
