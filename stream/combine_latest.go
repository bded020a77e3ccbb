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

// combineLatestSlot tracks the state of one child stream inside a combineLatest subscription.
type combineLatestSlot struct {
	hasValue  bool
	value     interface{}
	completed bool
}

// combineLatestStream implements Stream returned by CombineLatest.
type combineLatestStream struct {
	children map[string]Stream
}

// CombineLatest returns a Stream keyed by response key that emits a map[string]interface{}
// snapshot of the latest value from every child whenever any one child emits -- but only once
// every child has emitted at least once. It is the combinator behind read-mode selection-set
// evaluation (spec §4.2): every sibling field stream is subscribed before any of them is awaited,
// so "simultaneously live subscriptions" holds even though there is no parallel goroutine per
// field.
//
// CombineLatest errors as soon as any child errors, unsubscribing every other child first. It
// completes once every child has completed (regardless of whether some completed without ever
// emitting a value -- callers relying on required fields being present should surface a missing
// field as a domain-level error, not rely on CombineLatest to detect it).
func CombineLatest(children map[string]Stream) Stream {
	return &combineLatestStream{children: children}
}

// Subscribe implements Stream.
func (s *combineLatestStream) Subscribe(observer Observer) Subscription {
	cl := &combineLatestSubscription{
		observer: observer,
		slots:    make(map[string]*combineLatestSlot, len(s.children)),
		subs:     make(map[string]Subscription, len(s.children)),
	}

	for key := range s.children {
		cl.slots[key] = &combineLatestSlot{}
	}

	for key, child := range s.children {
		key := key

		cl.mu.Lock()
		if cl.done {
			cl.mu.Unlock()
			break
		}
		cl.mu.Unlock()

		sub := child.Subscribe(&combineLatestObserver{cl: cl, key: key})

		cl.mu.Lock()
		if cl.done {
			cl.mu.Unlock()
			sub.Unsubscribe()
			continue
		}
		cl.subs[key] = sub
		cl.mu.Unlock()
	}

	return cl
}

// combineLatestSubscription is both the shared state for a CombineLatest subscription and the
// Subscription value handed back to the caller.
type combineLatestSubscription struct {
	mu       sync.Mutex
	observer Observer
	slots    map[string]*combineLatestSlot
	subs     map[string]Subscription
	done     bool
}

// snapshotLocked builds the combined snapshot if every slot has a value. Caller must hold mu.
func (cl *combineLatestSubscription) snapshotLocked() (map[string]interface{}, bool) {
	out := make(map[string]interface{}, len(cl.slots))
	for key, slot := range cl.slots {
		if !slot.hasValue {
			return nil, false
		}
		out[key] = slot.value
	}
	return out, true
}

// subsLocked returns every currently-subscribed child Subscription. Caller must hold mu.
func (cl *combineLatestSubscription) subsLocked() []Subscription {
	subs := make([]Subscription, 0, len(cl.subs))
	for _, sub := range cl.subs {
		subs = append(subs, sub)
	}
	return subs
}

// Unsubscribe implements Subscription.
func (cl *combineLatestSubscription) Unsubscribe() {
	cl.mu.Lock()
	if cl.done {
		cl.mu.Unlock()
		return
	}
	cl.done = true
	subs := cl.subsLocked()
	cl.mu.Unlock()

	for _, sub := range subs {
		sub.Unsubscribe()
	}
}

// combineLatestObserver is the Observer subscribed to one child stream of a combineLatestStream.
type combineLatestObserver struct {
	cl  *combineLatestSubscription
	key string
}

// Next implements Observer.
func (o *combineLatestObserver) Next(value interface{}) {
	cl := o.cl

	cl.mu.Lock()
	if cl.done {
		cl.mu.Unlock()
		return
	}

	slot := cl.slots[o.key]
	slot.hasValue = true
	slot.value = value

	snapshot, ready := cl.snapshotLocked()
	cl.mu.Unlock()

	if ready {
		cl.observer.Next(snapshot)
	}
}

// Error implements Observer.
func (o *combineLatestObserver) Error(err error) {
	cl := o.cl

	cl.mu.Lock()
	if cl.done {
		cl.mu.Unlock()
		return
	}
	cl.done = true
	subs := cl.subsLocked()
	cl.mu.Unlock()

	for _, sub := range subs {
		sub.Unsubscribe()
	}

	cl.observer.Error(err)
}

// Complete implements Observer.
func (o *combineLatestObserver) Complete() {
	cl := o.cl

	cl.mu.Lock()
	if cl.done {
		cl.mu.Unlock()
		return
	}

	slot := cl.slots[o.key]
	slot.completed = true

	for _, s := range cl.slots {
		if !s.completed {
			cl.mu.Unlock()
			return
		}
	}

	cl.done = true
	cl.mu.Unlock()

	cl.observer.Complete()
}
