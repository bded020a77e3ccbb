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

// mapStream implements Stream returned by Map.
type mapStream struct {
	src     Stream
	project func(value interface{}) (interface{}, error)
}

// Map returns a Stream that applies project to every value emitted by src. If project returns an
// error, the returned Stream errors with it and unsubscribes from src.
func Map(src Stream, project func(value interface{}) (interface{}, error)) Stream {
	return &mapStream{src: src, project: project}
}

// Subscribe implements Stream.
func (s *mapStream) Subscribe(observer Observer) Subscription {
	mo := &mapObserver{project: s.project, observer: observer}
	mo.sub = s.src.Subscribe(mo)
	return mo
}

// mapObserver is both the Observer subscribed to src and the Subscription returned to the caller
// of mapStream.Subscribe, since unsubscribing a mapped stream is exactly unsubscribing from src.
type mapObserver struct {
	project  func(value interface{}) (interface{}, error)
	observer Observer
	sub      Subscription
	done     bool
}

// Next implements Observer.
func (o *mapObserver) Next(value interface{}) {
	if o.done {
		return
	}

	mapped, err := o.project(value)
	if err != nil {
		o.done = true
		o.observer.Error(err)
		if o.sub != nil {
			o.sub.Unsubscribe()
		}
		return
	}

	o.observer.Next(mapped)
}

// Error implements Observer.
func (o *mapObserver) Error(err error) {
	if o.done {
		return
	}
	o.done = true
	o.observer.Error(err)
}

// Complete implements Observer.
func (o *mapObserver) Complete() {
	if o.done {
		return
	}
	o.done = true
	o.observer.Complete()
}

// Unsubscribe implements Subscription.
func (o *mapObserver) Unsubscribe() {
	if o.done {
		return
	}
	o.done = true
	o.sub.Unsubscribe()
}
