// Copyright 2026 The notewire Authors.
// Use of this source code is governed by a BSD 2-clause
// license that can be found in the LICENSE file.

// Package mtable implements MessageTable (C4): the flat, name-keyed
// registry of inbound message handlers shared read-only across every
// session of a given subclass. It is grounded on the message_table
// GHashTable populated in infc_session_class_init in libinfinity's
// infc-session.c and, for the dispatch idiom itself, on mellium.im/xmpp/mux's ServeMux
// registration pattern simplified to exact-name matching — this protocol
// has no wildcard or namespaced element matching to support.
//
// Table is parameterized over the session type so that it can hold
// handlers for clientsession.Session without importing that package,
// avoiding the import cycle clientsession -> mtable -> clientsession.
package mtable

import (
	"encoding/xml"

	"github.com/notewire/session/sessionerr"
	"github.com/notewire/session/transport"
	"github.com/notewire/session/wire"
)

// Handler processes one inbound frame addressed to sess over conn.
type Handler[S any] func(sess S, conn transport.Connection, frame wire.Frame, start xml.StartElement) *sessionerr.Error

// Table is a name-keyed registry of Handlers. It is written only during
// initialization and is safe to share read-only across sessions once
// construction is complete; it does not synchronize concurrent writes.
type Table[S any] struct {
	handlers map[string]Handler[S]
}

// New creates an empty Table.
func New[S any]() *Table[S] {
	return &Table[S]{handlers: make(map[string]Handler[S])}
}

// Register adds handler under name. It returns false and leaves the
// table unchanged if name is already registered — registration never
// overwrites, matching the teacher's mux.Handle behavior of refusing a
// duplicate pattern.
func (t *Table[S]) Register(name string, handler Handler[S]) bool {
	if _, exists := t.handlers[name]; exists {
		return false
	}
	t.handlers[name] = handler
	return true
}

// Lookup returns the handler registered for name, if any.
func (t *Table[S]) Lookup(name string) (Handler[S], bool) {
	h, ok := t.handlers[name]
	return h, ok
}
