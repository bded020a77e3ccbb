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
	"context"
	"encoding/json"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/riverql/riverql/executor"
	"github.com/riverql/riverql/schema"
	"github.com/riverql/riverql/stream"
)

// AppContextFactory builds the per-connection app context value threaded into every resolver
// (schema.ResolveInfo.AppContext) for operations run over conn, from the payload the client sent
// with connection_init.
type AppContextFactory func(conn *Connection, initPayload json.RawMessage) (interface{}, error)

// SchemaHandler is a ConnectionHandler that runs every "start"ed operation against Schema via
// executor.Execute, forwarding the resulting stream's Snapshots back to the client for as long as
// the operation (or the connection) stays open.
type SchemaHandler struct {
	Schema               *schema.Schema
	Logger               logrus.FieldLogger
	DefaultFieldResolver schema.FieldResolver
	Config               executor.Config

	// NewAppContext builds the app context for the connection once HandleInit succeeds. May be nil,
	// in which case every operation's AppContext is nil.
	NewAppContext AppContextFactory

	conn *Connection

	mu   sync.Mutex
	subs map[string]stream.Subscription
	ctx  context.Context
	stop context.CancelFunc

	appContext interface{}
}

var _ ConnectionHandler = (*SchemaHandler)(nil)

// NewSchemaHandler creates a SchemaHandler for conn, sharing one cancelable context across every
// operation it runs -- canceled once when the connection closes, so that resolvers blocking on
// ctx.Done() (the dataloader batch scheduler, notably) unwind promptly.
func NewSchemaHandler(conn *Connection, s *schema.Schema) *SchemaHandler {
	ctx, cancel := context.WithCancel(context.Background())
	h := &SchemaHandler{
		Schema: s,
		Logger: conn.Logger,
		conn:   conn,
		subs:   make(map[string]stream.Subscription),
		ctx:    ctx,
		stop:   cancel,
	}
	conn.Handler = h
	return h
}

// Context returns the context shared by every operation run over this handler's connection. It is
// canceled once, when HandleClose runs, so an AppContextFactory can derive per-connection
// background work (e.g. a dataloader dispatch loop) that stops when the connection does.
func (h *SchemaHandler) Context() context.Context {
	return h.ctx
}

// HandleInit implements ConnectionHandler.
func (h *SchemaHandler) HandleInit(parameters json.RawMessage) error {
	if h.NewAppContext == nil {
		return nil
	}
	appCtx, err := h.NewAppContext(h.conn, parameters)
	if err != nil {
		return err
	}
	h.appContext = appCtx
	return nil
}

// HandleStart implements ConnectionHandler: it runs query against h.Schema and forwards every
// Snapshot the resulting stream.Stream produces to the client, one "data" message per Snapshot,
// until the stream completes (a "complete" message follows) or the client stops it.
func (h *SchemaHandler) HandleStart(id string, query string, variables map[string]interface{}, operationName string) {
	h.mu.Lock()
	if old, alive := h.subs[id]; alive {
		// A client reusing an id without stopping the old operation first; stop the stale one.
		delete(h.subs, id)
		old.Unsubscribe()
	}
	h.mu.Unlock()

	// A plain query can settle synchronously, inside this very Subscribe call -- read-mode evaluation
	// of plain resolver values stays on the calling goroutine. done guards against storing a
	// Subscription into h.subs that finishOperation has already tried (and failed) to remove, which
	// would otherwise leak a finished operation's id in the map forever.
	var (
		doneMu sync.Mutex
		done   bool
	)

	sub := executor.ExecuteSource(h.ctx, query, executor.ExecuteParams{
		Schema:               h.Schema,
		OperationName:        operationName,
		AppContext:           h.appContext,
		VariableValues:       schema.NewVariableValues(variables),
		DefaultFieldResolver: h.DefaultFieldResolver,
		Config:               h.Config,
	}).Subscribe(stream.FuncObserver{
		NextFunc: func(value interface{}) {
			snapshot, ok := value.(executor.Snapshot)
			if !ok {
				return
			}
			if err := h.conn.SendData(id, snapshot); err != nil {
				h.Logger.WithField("error", err.Error()).Warn("failed to send snapshot to client")
			}
		},
		ErrorFunc: func(err error) {
			h.Logger.WithField("error", err.Error()).Error("operation stream reported an error outside a Snapshot")
			doneMu.Lock()
			done = true
			doneMu.Unlock()
			h.finishOperation(id)
		},
		CompleteFunc: func() {
			if err := h.conn.SendComplete(id); err != nil {
				h.Logger.WithField("error", err.Error()).Warn("failed to send complete to client")
			}
			doneMu.Lock()
			done = true
			doneMu.Unlock()
			h.finishOperation(id)
		},
	})

	doneMu.Lock()
	alreadyDone := done
	doneMu.Unlock()
	if alreadyDone {
		return
	}

	h.mu.Lock()
	h.subs[id] = sub
	h.mu.Unlock()
}

// HandleStop implements ConnectionHandler.
func (h *SchemaHandler) HandleStop(id string) {
	h.mu.Lock()
	sub, ok := h.subs[id]
	delete(h.subs, id)
	h.mu.Unlock()

	if ok {
		sub.Unsubscribe()
	}
}

// HandleClose implements ConnectionHandler: every still-running operation is unsubscribed and the
// shared context is canceled.
func (h *SchemaHandler) HandleClose() {
	h.mu.Lock()
	subs := make([]stream.Subscription, 0, len(h.subs))
	for id, sub := range h.subs {
		subs = append(subs, sub)
		delete(h.subs, id)
	}
	h.mu.Unlock()

	for _, sub := range subs {
		sub.Unsubscribe()
	}
	h.stop()
}

func (h *SchemaHandler) finishOperation(id string) {
	h.mu.Lock()
	delete(h.subs, id)
	h.mu.Unlock()
}
