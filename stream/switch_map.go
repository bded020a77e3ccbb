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

// switchMapStream implements Stream returned by SwitchMap.
type switchMapStream struct {
	src     Stream
	project func(value interface{}) Stream
}

// SwitchMap subscribes to src and, on every value it emits, calls project to obtain an inner
// Stream and subscribes to it -- unsubscribing from whatever inner Stream was active before.
// Emissions from a stale inner stream (one superseded by a later outer value) are dropped even if
// they arrive after the switch, matching spec §4.6's cancel-on-switch contract used to re-run the
// value completer whenever a field resolver's own stream produces a new parent value.
//
// The combined stream completes once both src and the current inner stream have completed, and
// errors as soon as either one does.
func SwitchMap(src Stream, project func(value interface{}) Stream) Stream {
	return &switchMapStream{src: src, project: project}
}

// Subscribe implements Stream.
func (s *switchMapStream) Subscribe(observer Observer) Subscription {
	sm := &switchMapSubscription{project: s.project, observer: observer}
	sm.outerSub = s.src.Subscribe(&switchMapOuterObserver{sm: sm})
	return sm
}

// switchMapSubscription is the shared state for a SwitchMap subscription and the Subscription
// value returned to the caller.
type switchMapSubscription struct {
	mu        sync.Mutex
	project   func(value interface{}) Stream
	observer  Observer
	outerSub  Subscription
	innerSub  Subscription
	gen       uint64
	outerDone bool
	innerDone bool
	hasInner  bool
	done      bool
}

// switchTo tears down the current inner subscription (if any) and subscribes to next, bumping
// the generation counter so that late events from the superseded inner stream are ignored. It
// takes mu itself; actual unsubscription of the stale inner stream happens after mu is released
// to avoid calling back into this subscription while it is locked.
func (sm *switchMapSubscription) switchTo(next Stream) {
	sm.mu.Lock()
	if sm.done {
		sm.mu.Unlock()
		return
	}

	staleSub := sm.innerSub
	sm.gen++
	gen := sm.gen
	sm.innerSub = nil
	sm.innerDone = false
	sm.hasInner = true
	sm.mu.Unlock()

	if staleSub != nil {
		staleSub.Unsubscribe()
	}

	innerSub := next.Subscribe(&switchMapInnerObserver{sm: sm, gen: gen})

	sm.mu.Lock()
	if sm.done || gen != sm.gen {
		sm.mu.Unlock()
		innerSub.Unsubscribe()
		return
	}
	sm.innerSub = innerSub
	sm.mu.Unlock()
}

// Unsubscribe implements Subscription.
func (sm *switchMapSubscription) Unsubscribe() {
	sm.mu.Lock()
	if sm.done {
		sm.mu.Unlock()
		return
	}
	sm.done = true
	outerSub, innerSub := sm.outerSub, sm.innerSub
	sm.mu.Unlock()

	if outerSub != nil {
		outerSub.Unsubscribe()
	}
	if innerSub != nil {
		innerSub.Unsubscribe()
	}
}

// readyToCompleteLocked reports whether the combined stream should now terminate as complete. Caller must
// hold mu.
func (sm *switchMapSubscription) readyToCompleteLocked() bool {
	return sm.outerDone && (!sm.hasInner || sm.innerDone)
}

// switchMapOuterObserver observes src.
type switchMapOuterObserver struct {
	sm *switchMapSubscription
}

// Next implements Observer.
func (o *switchMapOuterObserver) Next(value interface{}) {
	sm := o.sm
	inner := sm.project(value)
	sm.switchTo(inner)
}

// Error implements Observer.
func (o *switchMapOuterObserver) Error(err error) {
	sm := o.sm

	sm.mu.Lock()
	if sm.done {
		sm.mu.Unlock()
		return
	}
	sm.done = true
	innerSub := sm.innerSub
	sm.mu.Unlock()

	if innerSub != nil {
		innerSub.Unsubscribe()
	}
	sm.observer.Error(err)
}

// Complete implements Observer.
func (o *switchMapOuterObserver) Complete() {
	sm := o.sm

	sm.mu.Lock()
	if sm.done {
		sm.mu.Unlock()
		return
	}
	sm.outerDone = true
	if !sm.readyToCompleteLocked() {
		sm.mu.Unlock()
		return
	}
	sm.done = true
	sm.mu.Unlock()

	sm.observer.Complete()
}

// switchMapInnerObserver observes the inner Stream produced for one outer value, tagged with the
// generation it belongs to so stale events can be dropped after a switch.
type switchMapInnerObserver struct {
	sm  *switchMapSubscription
	gen uint64
}

// Next implements Observer.
func (o *switchMapInnerObserver) Next(value interface{}) {
	sm := o.sm

	sm.mu.Lock()
	if sm.done || o.gen != sm.gen {
		sm.mu.Unlock()
		return
	}
	sm.mu.Unlock()

	sm.observer.Next(value)
}

// Error implements Observer.
func (o *switchMapInnerObserver) Error(err error) {
	sm := o.sm

	sm.mu.Lock()
	if sm.done || o.gen != sm.gen {
		sm.mu.Unlock()
		return
	}
	sm.done = true
	outerSub := sm.outerSub
	sm.mu.Unlock()

	if outerSub != nil {
		outerSub.Unsubscribe()
	}
	sm.observer.Error(err)
}

// Complete implements Observer.
func (o *switchMapInnerObserver) Complete() {
	sm := o.sm

	sm.mu.Lock()
	if sm.done || o.gen != sm.gen {
		sm.mu.Unlock()
		return
	}
	sm.innerDone = true
	if !sm.readyToCompleteLocked() {
		sm.mu.Unlock()
		return
	}
	sm.done = true
	sm.mu.Unlock()

	sm.observer.Complete()
}
