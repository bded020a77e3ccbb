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

package executor

import (
	"sync"

	"github.com/riverql/riverql/schema"
	"github.com/riverql/riverql/stream"
)

// evaluateSelectionSet maps groups over objType, evaluated against parentValue, and returns a
// Stream of *ResponseObject response snapshots for this selection set, with keys ordered to match
// groups (spec.md §5). path is the location of objType itself (Empty for the operation's own root
// selection set).
//
// Read-mode operations (queries) subscribe every sibling field concurrently via CombineLatest, so
// a later update from any one field produces a fresh snapshot of the whole set. Write-mode
// operations (mutations) instead drive fields one at a time in declared order, matching the
// GraphQL specification's serial-mutation-field guarantee, while still forwarding any later
// emissions a field's own stream produces after it settles.
func evaluateSelectionSet(execCtx *Context, objType *schema.Object, parentValue interface{}, path schema.Path, groups []fieldGroup) stream.Stream {
	if len(groups) == 0 {
		return stream.Of(newResponseObject(0))
	}

	build := func(group fieldGroup) (stream.Stream, bool) {
		childPath := path.WithFieldName(group.ResponseKey)
		raw, fieldDef, info, ok := resolveField(execCtx, objType, parentValue, group, childPath)
		if !ok {
			if path.IsEmpty() && execCtx.config.Strict {
				return stream.Err(fieldNotFoundError(group.Nodes[0].Name, objType, path)), true
			}
			return nil, false
		}
		return completeValue(execCtx, fieldDef.Type(), info, raw), true
	}

	if execCtx.mode == modeWrite {
		return newWriteSelectionSetStream(groups, build)
	}
	return newReadSelectionSetStream(groups, build)
}

// newReadSelectionSetStream builds every field's stream up front and combines them with
// CombineLatest, keyed by response key, then reshapes each combined snapshot into a
// *ResponseObject ordered by keys -- the order groups was declared in, filtered down to the
// fields build actually produced a child stream for.
func newReadSelectionSetStream(groups []fieldGroup, build func(fieldGroup) (stream.Stream, bool)) stream.Stream {
	children := make(map[string]stream.Stream, len(groups))
	keys := make([]string, 0, len(groups))
	for _, group := range groups {
		if child, ok := build(group); ok {
			children[group.ResponseKey] = child
			keys = append(keys, group.ResponseKey)
		}
	}
	if len(children) == 0 {
		return stream.Of(newResponseObject(0))
	}
	combined := stream.CombineLatest(children)
	return stream.Map(combined, func(v interface{}) (interface{}, error) {
		snapshot := v.(map[string]interface{})
		obj := newResponseObject(len(keys))
		for _, key := range keys {
			obj.set(key, snapshot[key])
		}
		return obj, nil
	})
}

// selectionSlot tracks the latest known value of one field within a write-mode selection set.
type selectionSlot struct {
	hasValue  bool
	value     interface{}
	completed bool
}

// writeSelectionSetStream implements the serial, ordered evaluation of a write-mode (mutation)
// selection set.
type writeSelectionSetStream struct {
	groups []fieldGroup
	build  func(fieldGroup) (stream.Stream, bool)
}

func newWriteSelectionSetStream(groups []fieldGroup, build func(fieldGroup) (stream.Stream, bool)) stream.Stream {
	return &writeSelectionSetStream{groups: groups, build: build}
}

func (s *writeSelectionSetStream) Subscribe(observer stream.Observer) stream.Subscription {
	ws := &writeSelectionSubscription{
		observer: observer,
		slots:    make(map[string]*selectionSlot, len(s.groups)),
		subs:     make(map[string]stream.Subscription, len(s.groups)),
	}

	go ws.run(s.groups, s.build)

	return ws
}

// writeSelectionSubscription is the shared state for one write-mode selection set subscription,
// modeled on the slot-tracking design of stream.CombineLatest but driven serially by a dedicated
// goroutine instead of by concurrent child subscriptions. Slots are added one at a time, from the
// run goroutine, as each field's turn comes up -- a field omitted by build (unresolvable, and not
// Config.Strict) never gets a slot and so can never block completion.
type writeSelectionSubscription struct {
	mu        sync.Mutex
	observer  stream.Observer
	slots     map[string]*selectionSlot
	order     []string
	subs      map[string]stream.Subscription
	total     int
	completed int
	loopDone  bool
	done      bool
}

func (ws *writeSelectionSubscription) isDone() bool {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	return ws.done
}

// run evaluates each field in declared order, blocking on stream.First for one field's first
// event before moving on to the next, so that resolvers with side effects (mutations) execute in
// the order the operation named them.
func (ws *writeSelectionSubscription) run(groups []fieldGroup, build func(fieldGroup) (stream.Stream, bool)) {
	for _, group := range groups {
		if ws.isDone() {
			return
		}

		key := group.ResponseKey
		child, ok := build(group)
		if !ok {
			continue
		}

		ws.mu.Lock()
		if ws.done {
			ws.mu.Unlock()
			return
		}
		ws.slots[key] = &selectionSlot{}
		ws.order = append(ws.order, key)
		ws.total++
		ws.mu.Unlock()

		fieldObserver := &writeFieldObserver{ws: ws, key: key}
		event, sub := stream.First(child, fieldObserver)

		ws.mu.Lock()
		if ws.done {
			ws.mu.Unlock()
			sub.Unsubscribe()
			return
		}
		ws.subs[key] = sub
		ws.mu.Unlock()

		if event.Err != nil {
			// writeFieldObserver.Error has already torn everything down and notified observer.
			return
		}
	}

	ws.mu.Lock()
	ws.loopDone = true
	ready := ws.total == 0
	finish := !ws.done && ws.completed == ws.total
	if finish {
		ws.done = true
	}
	ws.mu.Unlock()

	if ready {
		ws.observer.Next(newResponseObject(0))
	}
	if finish {
		ws.observer.Complete()
	}
}

// snapshotLocked builds a *ResponseObject from every slot that has a value, in the order fields
// were dispatched (ws.order) -- which is also groups' declared order, since run adds slots serially
// as each field's turn comes up.
func (ws *writeSelectionSubscription) snapshotLocked() *ResponseObject {
	obj := newResponseObject(len(ws.slots))
	for _, key := range ws.order {
		if slot := ws.slots[key]; slot.hasValue {
			obj.set(key, slot.value)
		}
	}
	return obj
}

func (ws *writeSelectionSubscription) subsLocked() []stream.Subscription {
	subs := make([]stream.Subscription, 0, len(ws.subs))
	for _, sub := range ws.subs {
		subs = append(subs, sub)
	}
	return subs
}

// Unsubscribe implements stream.Subscription.
func (ws *writeSelectionSubscription) Unsubscribe() {
	ws.mu.Lock()
	if ws.done {
		ws.mu.Unlock()
		return
	}
	ws.done = true
	subs := ws.subsLocked()
	ws.mu.Unlock()

	for _, sub := range subs {
		sub.Unsubscribe()
	}
}

// writeFieldObserver is subscribed (via stream.First) to one field's completed stream.
type writeFieldObserver struct {
	ws  *writeSelectionSubscription
	key string
}

// Next implements stream.Observer.
func (o *writeFieldObserver) Next(value interface{}) {
	ws := o.ws

	ws.mu.Lock()
	if ws.done {
		ws.mu.Unlock()
		return
	}
	ws.slots[o.key].hasValue = true
	ws.slots[o.key].value = value
	snapshot := ws.snapshotLocked()
	ws.mu.Unlock()

	ws.observer.Next(snapshot)
}

// Error implements stream.Observer.
func (o *writeFieldObserver) Error(err error) {
	ws := o.ws

	ws.mu.Lock()
	if ws.done {
		ws.mu.Unlock()
		return
	}
	ws.done = true
	subs := ws.subsLocked()
	ws.mu.Unlock()

	for _, sub := range subs {
		sub.Unsubscribe()
	}
	ws.observer.Error(err)
}

// Complete implements stream.Observer.
func (o *writeFieldObserver) Complete() {
	ws := o.ws

	ws.mu.Lock()
	if ws.done {
		ws.mu.Unlock()
		return
	}
	if slot := ws.slots[o.key]; !slot.completed {
		slot.completed = true
		ws.completed++
	}

	finish := ws.loopDone && ws.completed == ws.total
	if finish {
		ws.done = true
	}
	ws.mu.Unlock()

	if finish {
		ws.observer.Complete()
	}
}
