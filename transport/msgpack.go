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

package transport

import (
	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack"

	"github.com/riverql/riverql/executor"
)

// msgpackMessage mirrors Message but carries its payload as a Go value instead of a pre-encoded
// json.RawMessage: unlike JSON, msgpack has no equivalent of splicing an already-encoded
// sub-document into an outer document, so a binary-encoded frame always encodes payload and
// envelope together in one pass.
type msgpackMessage struct {
	ID      string      `msgpack:"id,omitempty"`
	Type    MessageType `msgpack:"type"`
	Payload interface{} `msgpack:"payload,omitempty"`
}

// EncodeSnapshotMsgpack encodes snapshot as a complete "data" frame in MessagePack, for clients
// that negotiated the binary encoding instead of graphql-ws's default JSON.
func EncodeSnapshotMsgpack(id string, snapshot executor.Snapshot) ([]byte, error) {
	buf, err := msgpack.Marshal(&msgpackMessage{
		ID:      id,
		Type:    MessageTypeData,
		Payload: snapshot,
	})
	if err != nil {
		return nil, errors.Wrap(err, "unable to marshal snapshot as msgpack")
	}
	return buf, nil
}

// EncodeCompleteMsgpack encodes the "complete" frame for operation id in MessagePack.
func EncodeCompleteMsgpack(id string) ([]byte, error) {
	buf, err := msgpack.Marshal(&msgpackMessage{
		ID:   id,
		Type: MessageTypeComplete,
	})
	if err != nil {
		return nil, errors.Wrap(err, "unable to marshal complete message as msgpack")
	}
	return buf, nil
}

// DecodeStartPayloadMsgpack decodes a client "start" payload encoded in MessagePack.
func DecodeStartPayloadMsgpack(data []byte) (StartPayload, error) {
	var payload StartPayload
	if err := msgpack.Unmarshal(data, &payload); err != nil {
		return StartPayload{}, errors.Wrap(err, "unable to unmarshal msgpack start payload")
	}
	return payload, nil
}
