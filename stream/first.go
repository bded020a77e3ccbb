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

import "sync"

// FirstEvent describes the first event observed from a Stream by First: exactly one of Err being
// non-nil or Completed being true indicates a terminal first event; otherwise Value holds the
// first emitted value.
type FirstEvent struct {
	Value     interface{}
	Err       error
	Completed bool
}

// First subscribes to src, forwarding every event it produces to observer exactly as src produces
// them, and blocks the calling goroutine until the first event (Next, Error, or Complete) has been
// delivered to observer. It then returns that first event together with the live Subscription, so
// that a caller -- e.g., write-mode's serial selection-set evaluator (spec §4.2) -- can wait for
// one field to settle before starting the next, while the Stream itself keeps running for later
// emissions.
func First(src Stream, observer Observer) (FirstEvent, Subscription) {
	fo := &firstObserver{observer: observer}
	fo.ready = make(chan struct{})

	sub := src.Subscribe(fo)
	<-fo.ready

	return fo.event, sub
}

// firstObserver forwards every event to the wrapped Observer while latching the first one onto
// the ready channel exactly once.
type firstObserver struct {
	observer Observer

	mu    sync.Mutex
	fired bool
	ready chan struct{}
	event FirstEvent
}

func (o *firstObserver) settle(event FirstEvent) {
	o.mu.Lock()
	if o.fired {
		o.mu.Unlock()
		return
	}
	o.fired = true
	o.event = event
	ready := o.ready
	o.mu.Unlock()

	close(ready)
}

// Next implements Observer.
func (o *firstObserver) Next(value interface{}) {
	o.observer.Next(value)
	o.settle(FirstEvent{Value: value})
}

// Error implements Observer.
func (o *firstObserver) Error(err error) {
	o.observer.Error(err)
	o.settle(FirstEvent{Err: err})
}

// Complete implements Observer.
func (o *firstObserver) Complete() {
	o.observer.Complete()
	o.settle(FirstEvent{Completed: true})
}
