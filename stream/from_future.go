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

import (
	"sync"

	"github.com/riverql/riverql/future"
	"github.com/riverql/riverql/workerpool"
)

// futureStream implements Stream returned by FromFuture.
type futureStream struct {
	f        future.Future
	executor workerpool.Executor
}

// FromFuture adapts f into a cold, single-emit Stream: on Subscribe, f is submitted to executor
// and driven to completion on one of its pooled goroutines via future.BlockOn; the result is then
// delivered as a single Next followed by Complete, or as an Error. Unsubscribing before f resolves
// cancels the underlying task.
//
// This is the Stream-level counterpart of future.BlockOn: BlockOn blocks the calling goroutine,
// FromFuture instead reports the eventual result to an Observer without blocking its caller.
func FromFuture(f future.Future, executor workerpool.Executor) Stream {
	return &futureStream{f: f, executor: executor}
}

// futureSubscription is the Subscription returned by futureStream.Subscribe.
type futureSubscription struct {
	mu        sync.Mutex
	cancelled bool
	handle    workerpool.TaskHandle
}

// Unsubscribe implements Subscription.
func (sub *futureSubscription) Unsubscribe() {
	sub.mu.Lock()
	sub.cancelled = true
	handle := sub.handle
	sub.mu.Unlock()

	if handle != nil {
		handle.Cancel()
	}
}

// Subscribe implements Stream.
func (s *futureStream) Subscribe(observer Observer) Subscription {
	sub := &futureSubscription{}

	handle, err := s.executor.Submit(workerpool.TaskFunc(func() (interface{}, error) {
		return future.BlockOn(s.f)
	}))
	if err != nil {
		observer.Error(err)
		return noopSubscription{}
	}

	sub.mu.Lock()
	if sub.cancelled {
		sub.mu.Unlock()
		handle.Cancel()
		return sub
	}
	sub.handle = handle
	sub.mu.Unlock()

	go func() {
		result, err := handle.AwaitResult(0)

		sub.mu.Lock()
		cancelled := sub.cancelled
		sub.mu.Unlock()
		if cancelled {
			return
		}

		if err != nil {
			if err == workerpool.ErrTaskCancelled {
				return
			}
			observer.Error(err)
			return
		}

		observer.Next(result)
		observer.Complete()
	}()

	return sub
}
