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
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/riverql/riverql/executor"
)

// ConnectionHandler reacts to protocol events on a Connection. Methods may be invoked on a
// separate goroutine from the one that created the Connection, but never concurrently with one
// another.
type ConnectionHandler interface {
	// HandleInit is called when the client sends its connection_init message. Returning an error
	// sends a connection_error to the client and closes the connection.
	HandleInit(parameters json.RawMessage) error

	// HandleStart is called when the client wants to run an operation. The handler is expected to
	// call SendData for every Snapshot the operation's stream produces and SendComplete once that
	// stream completes -- for a long-lived query or mutation whose resolvers keep emitting, that
	// may be many SendData calls spread out over the life of the connection, not just one.
	HandleStart(id string, query string, variables map[string]interface{}, operationName string)

	// HandleStop is called when the client wants to cancel a running operation. The handler should
	// unsubscribe from the operation's stream; no further SendData/SendComplete calls should follow
	// for id after this.
	HandleStop(id string)

	// HandleClose is called once, after the connection's read and write loops have both exited.
	HandleClose()
}

const connectionSendBufferSize = 100

// Connection represents one server-side graphql-ws connection.
type Connection struct {
	Logger  logrus.FieldLogger
	Handler ConnectionHandler

	conn              *websocket.Conn
	readLoopDone      chan struct{}
	writeLoopDone     chan struct{}
	outgoing          chan *websocket.PreparedMessage
	close             chan struct{}
	beginClosingOnce  sync.Once
	finishClosingOnce sync.Once
	didInit           bool
}

// Serve takes ownership of conn and begins reading and writing on it. It returns immediately;
// Handler.HandleClose is invoked once both loops have exited.
func (c *Connection) Serve(conn *websocket.Conn) {
	c.conn = conn
	c.readLoopDone = make(chan struct{})
	c.writeLoopDone = make(chan struct{})
	c.outgoing = make(chan *websocket.PreparedMessage, connectionSendBufferSize)
	c.close = make(chan struct{})
	go c.readLoop()
	go c.writeLoop()
}

// SendData sends one Snapshot to the client under operation id. Unlike a one-shot GraphQL
// transport, this may legitimately be called many times for the same id over the life of the
// operation's stream.
func (c *Connection) SendData(id string, snapshot executor.Snapshot) error {
	buf, err := jsoniter.Marshal(snapshot)
	if err != nil {
		return errors.Wrap(err, "unable to marshal snapshot")
	}
	return c.sendMessage(&Message{
		ID:      id,
		Type:    MessageTypeData,
		Payload: json.RawMessage(buf),
	})
}

// SendComplete tells the client that operation id's stream has completed and no more SendData
// calls for it will follow.
func (c *Connection) SendComplete(id string) error {
	return c.sendMessage(&Message{
		ID:   id,
		Type: MessageTypeComplete,
	})
}

// Close closes the connection. Must not be called from handler methods.
func (c *Connection) Close() error {
	c.beginClosing()
	c.finishClosing()
	return nil
}

func (c *Connection) sendMessage(msg *Message) error {
	data, err := jsoniter.Marshal(msg)
	if err != nil {
		return errors.Wrap(err, "error marshaling message")
	}
	prepared, err := websocket.NewPreparedMessage(websocket.TextMessage, data)
	if err != nil {
		return errors.Wrap(err, "error preparing message")
	}
	select {
	case c.outgoing <- prepared:
	default:
		return fmt.Errorf("send buffer full")
	}
	return nil
}

func (c *Connection) readLoop() {
	defer close(c.readLoopDone)
	defer c.beginClosing()

	for {
		_, p, err := c.conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseAbnormalClosure, websocket.CloseGoingAway) {
				select {
				case <-c.close:
				default:
					c.Logger.Error(errors.Wrap(err, "websocket read error"))
				}
			}
			return
		}

		c.handleMessage(p)
	}
}

func (c *Connection) handleMessage(data []byte) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		c.Logger.WithField("error", err.Error()).Info("malformed graphql-ws message received")
		return
	}

	switch msg.Type {
	case MessageTypeConnectionInit:
		c.handleInit(msg)

	case MessageTypeStart:
		if !c.didInit {
			return
		}
		var payload StartPayload
		if err := jsoniter.Unmarshal(msg.Payload, &payload); err != nil {
			c.Logger.WithField("error", err.Error()).Info("malformed graphql-ws start payload received")
			return
		}
		c.Handler.HandleStart(msg.ID, payload.Query, payload.Variables, payload.OperationName)

	case MessageTypeStop:
		if !c.didInit {
			return
		}
		c.Handler.HandleStop(msg.ID)

	case MessageTypeConnectionTerminate:
		c.beginClosing()

	default:
		c.Logger.WithField("type", msg.Type).Info("unknown graphql-ws message type received")
	}
}

func (c *Connection) handleInit(msg Message) {
	if err := c.Handler.HandleInit(msg.Payload); err != nil {
		payload, marshalErr := jsoniter.Marshal(connectionErrorPayload{Message: err.Error()})
		if marshalErr != nil {
			c.Logger.Error(errors.Wrap(marshalErr, "unable to marshal graphql-ws connection error payload"))
		} else if sendErr := c.sendMessage(&Message{
			ID:      msg.ID,
			Type:    MessageTypeConnectionError,
			Payload: payload,
		}); sendErr != nil {
			c.Logger.Error(errors.Wrap(sendErr, "unable to send graphql-ws connection error"))
		}
		c.beginClosing()
		return
	}

	c.didInit = true
	if err := c.sendMessage(&Message{Type: MessageTypeConnectionAck}); err != nil {
		c.Logger.Error(errors.Wrap(err, "unable to send graphql-ws connection ack"))
		c.beginClosing()
	}
}

var keepAlivePreparedMessage *websocket.PreparedMessage

func init() {
	data, err := jsoniter.Marshal(&Message{Type: MessageTypeConnectionKeepAlive})
	if err != nil {
		panic(errors.Wrap(err, "error marshaling message"))
	}
	prepared, err := websocket.NewPreparedMessage(websocket.TextMessage, data)
	if err != nil {
		panic(errors.Wrap(err, "error preparing message"))
	}
	keepAlivePreparedMessage = prepared
}

const keepAliveInterval = 15 * time.Second

func (c *Connection) writeLoop() {
	defer c.finishClosing()
	defer close(c.writeLoopDone)
	defer c.conn.Close()

	keepAliveTicker := time.NewTicker(keepAliveInterval)
	defer keepAliveTicker.Stop()

	for {
		var msg *websocket.PreparedMessage
		select {
		case outgoing, ok := <-c.outgoing:
			if !ok {
				return
			}
			msg = outgoing
		case <-keepAliveTicker.C:
			msg = keepAlivePreparedMessage
		case <-c.close:
			return
		}

		c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))

		if err := c.conn.WritePreparedMessage(msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseAbnormalClosure, websocket.CloseGoingAway) && err != websocket.ErrCloseSent {
				c.Logger.Error(errors.Wrap(err, "websocket write error"))
			}
			return
		}
	}
}

func (c *Connection) beginClosing() {
	c.beginClosingOnce.Do(func() {
		close(c.close)
	})
}

func (c *Connection) finishClosing() {
	<-c.readLoopDone
	<-c.writeLoopDone
	invokeHandler := false
	c.finishClosingOnce.Do(func() {
		invokeHandler = true
	})
	if invokeHandler {
		c.Handler.HandleClose()
	}
}
