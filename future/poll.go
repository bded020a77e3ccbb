/**
 * Copyright (c) 2019, The Artemis Authors.
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

// A PollResult indicates whether a value is available or not. For a dataloader key Future, the
// ready value is whatever the batch load function returned for that key (or an error, which Poll
// reports separately); PollResultPending means the owning batch hasn't been dispatched yet.
type PollResult interface{}

// pollPendingResult serves as type for PollResultPending.
type pollPendingResult int

// IsReady reports false: a pending result is never ready.
func (pollPendingResult) IsReady() bool {
	return false
}

// pollResult is a marker method with no behavior.
func (pollPendingResult) pollResult() {}

// PollResultPending is a special value which will be recognized by executor to indicate that value
// of the future is not ready yet.
const PollResultPending = pollPendingResult(0)
