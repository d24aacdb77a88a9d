// Copyright 2026 The notewire Authors.
// Use of this source code is governed by a BSD 2-clause
// license that can be found in the LICENSE file.

// Package transporttest provides a fake transport.Connection and
// transport.ConnectionManager for driving the client session state machine
// in tests without a real network, the way
// nemith.io/netconf/transport.TestTransport queues server responses and
// captures client writes for its session tests.
package transporttest

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"

	"github.com/notewire/session/transport"
)

// Sent is one frame captured by a Conn's Send method.
type Sent struct {
	Name  xml.Name
	Attrs []xml.Attr
	Raw   string
}

type subscription struct {
	conn *Conn
	f    transport.StatusFunc
	live bool
}

func (s *subscription) Unsubscribe() {
	if !s.live {
		return
	}
	s.live = false
	subs := s.conn.subs[:0]
	for _, o := range s.conn.subs {
		if o != s {
			subs = append(subs, o)
		}
	}
	s.conn.subs = subs
}

// Conn is an in-memory transport.Connection. Every frame passed to Send is
// captured in Sent for assertions.
type Conn struct {
	status transport.Status
	subs   []*subscription
	Sent   []Sent
}

// NewConn returns an open Conn.
func NewConn() *Conn {
	return &Conn{status: transport.StatusOpen}
}

// Send satisfies transport.Connection by decoding frame and recording it.
func (c *Conn) Send(frame xml.TokenReader) error {
	var buf bytes.Buffer
	enc := xml.NewEncoder(&buf)
	var name xml.Name
	var attrs []xml.Attr
	first := true
	for {
		tok, err := frame.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		if tok == nil {
			break
		}
		if first {
			if start, ok := tok.(xml.StartElement); ok {
				name = start.Name
				attrs = start.Attr
			}
			first = false
		}
		if err := enc.EncodeToken(xml.CopyToken(tok)); err != nil {
			return err
		}
	}
	if err := enc.Flush(); err != nil {
		return err
	}
	c.Sent = append(c.Sent, Sent{Name: name, Attrs: attrs, Raw: buf.String()})
	return nil
}

// Status satisfies transport.Connection.
func (c *Conn) Status() transport.Status {
	return c.status
}

// OnStatusChange satisfies transport.Connection.
func (c *Conn) OnStatusChange(f transport.StatusFunc) transport.Subscription {
	s := &subscription{conn: c, f: f, live: true}
	c.subs = append(c.subs, s)
	return s
}

// SetStatus transitions the connection to status and notifies every live
// subscriber, simulating the remote side closing or failing.
func (c *Conn) SetStatus(status transport.Status) {
	c.status = status
	for _, s := range c.subs {
		if s.live {
			s.f(status)
		}
	}
}

// Attr returns the value of the named attribute on this captured frame
// and whether it was present.
func (s Sent) Attr(name string) (string, bool) {
	for _, a := range s.Attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// route is a (connection, object) pair; the identifier the object is
// registered under is stored as the map value.
type route struct {
	conn *Conn
	obj  interface{}
}

// Manager is an in-memory transport.ConnectionManager.
type Manager struct {
	routes map[route]string
}

// NewManager returns an empty Manager.
func NewManager() *Manager {
	return &Manager{routes: make(map[route]string)}
}

// AddObject satisfies transport.ConnectionManager.
func (m *Manager) AddObject(conn transport.Connection, obj interface{}, identifier string) {
	m.routes[route{conn.(*Conn), obj}] = identifier
}

// RemoveObject satisfies transport.ConnectionManager.
func (m *Manager) RemoveObject(conn transport.Connection, obj interface{}) {
	delete(m.routes, route{conn.(*Conn), obj})
}

// Send satisfies transport.ConnectionManager by delegating to conn.Send.
func (m *Manager) Send(conn transport.Connection, obj interface{}, frame xml.TokenReader) error {
	return conn.Send(frame)
}

// Routed reports whether obj is currently registered on conn, and under
// what identifier.
func (m *Manager) Routed(conn transport.Connection, obj interface{}) (string, bool) {
	id, ok := m.routes[route{conn.(*Conn), obj}]
	return id, ok
}
