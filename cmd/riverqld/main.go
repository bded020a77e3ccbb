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

// Command riverqld is a tiny demo server: it wires the demo schema (schema.go), the executor, and
// the graphql-ws transport together behind a single WebSocket endpoint.
package main

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/riverql/riverql/executor"
	"github.com/riverql/riverql/transport"
)

func main() {
	addr := pflag.String("addr", ":8080", "address to listen on")
	path := pflag.String("path", "/graphql", "path to serve the graphql-ws endpoint on")
	strict := pflag.Bool("strict", false, "treat an unresolvable root field as a hard error")
	logLevel := pflag.String("log-level", "info", "log level (debug, info, warn, error)")
	pflag.Parse()

	logger := logrus.New()
	level, err := logrus.ParseLevel(*logLevel)
	if err != nil {
		logger.WithField("error", err.Error()).Fatal("invalid -log-level")
	}
	logger.SetLevel(level)

	demoSchema, err := newDemoSchema()
	if err != nil {
		logger.WithField("error", err.Error()).Fatal("failed to build demo schema")
	}

	upgrader := websocket.Upgrader{
		CheckOrigin:     func(r *http.Request) bool { return true },
		Subprotocols:    []string{"graphql-ws"},
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
	}

	executorConfig := executor.Config{Strict: *strict}

	mux := http.NewServeMux()
	mux.HandleFunc(*path, func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.WithField("error", err.Error()).Warn("websocket upgrade failed")
			return
		}

		connLogger := logger.WithField("remote_addr", r.RemoteAddr)
		wsConn := &transport.Connection{Logger: connLogger}
		handler := transport.NewSchemaHandler(wsConn, demoSchema)
		handler.Config = executorConfig
		handler.NewAppContext = func(conn *transport.Connection, initPayload json.RawMessage) (interface{}, error) {
			return newDemoAppContext(handler.Context(), connLogger), nil
		}

		wsConn.Serve(conn)
	})

	logger.WithField("addr", *addr).WithField("path", *path).Info("riverqld listening")
	if err := http.ListenAndServe(*addr, mux); err != nil {
		logger.WithField("error", err.Error()).Fatal("server exited")
	}
}
