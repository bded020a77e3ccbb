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

// Package transport implements a graphql-ws-style WebSocket protocol over executor.Execute: unlike
// a one-shot query server, HandleStart subscribes to the operation's stream.Stream directly and
// forwards every Snapshot the engine emits to the client as its own "data" message, for as long as
// the operation keeps producing them -- there is no separate subscription operation kind to
// dispatch to (spec.md Non-goals), because every query and mutation here is already reactive.
package transport

import (
	"encoding/json"
)

// MessageType identifies the kind of one protocol message.
type MessageType string

// The graphql-ws message types this transport understands.
const (
	MessageTypeConnectionInit      MessageType = "connection_init"
	MessageTypeConnectionAck       MessageType = "connection_ack"
	MessageTypeConnectionError     MessageType = "connection_error"
	MessageTypeConnectionKeepAlive MessageType = "ka"
	MessageTypeConnectionTerminate MessageType = "connection_terminate"
	MessageTypeStart               MessageType = "start"
	MessageTypeStop                MessageType = "stop"
	MessageTypeData                MessageType = "data"
	MessageTypeComplete            MessageType = "complete"
	MessageTypeError               MessageType = "error"
)

// Message is one graphql-ws protocol frame, used for both client and server messages.
type Message struct {
	ID      string          `json:"id,omitempty"`
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// StartPayload is the payload of a client "start" message: the operation to run.
type StartPayload struct {
	Query         string                 `json:"query"`
	Variables     map[string]interface{} `json:"variables"`
	OperationName string                 `json:"operationName"`
}

// connectionErrorPayload is sent back when HandleInit (or parsing the init payload) fails.
type connectionErrorPayload struct {
	Message string `json:"message"`
}
