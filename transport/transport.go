// Copyright 2026 The notewire Authors.
// Use of this source code is governed by a BSD 2-clause
// license that can be found in the LICENSE file.

// Package transport defines the contracts a client session relies on but
// does not implement itself: the duplex XML channel a session is
// subscribed over, and the multiplexer that routes inbound frames between
// the sessions sharing a connection.
//
// Connection is modeled on nemith-netconf's transport.Transport (a
// message-oriented read/write abstraction) merged with the status-plus-
// change-event property mellium.im/xmpp exposes on its own Session/Conn
// types; ConnectionManager mirrors libinfinity's
// inf_connection_manager_send/add_object/remove_object calls used
// throughout infc-session.c.
package transport

import "encoding/xml"

// Status is the lifecycle state of a Connection, as observed through its
// status-change event.
type Status uint8

const (
	StatusOpen Status = iota
	StatusClosing
	StatusClosed
)

func (s Status) String() string {
	switch s {
	case StatusOpen:
		return "open"
	case StatusClosing:
		return "closing"
	case StatusClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// StatusFunc is called with a Connection's new status whenever it changes.
type StatusFunc func(Status)

// Connection is the duplex XML channel a session subscribes over. It is
// treated as an external collaborator per the session subsystem's scope:
// this package only states its contract.
type Connection interface {
	// Send writes the XML frame produced by reading frame to completion.
	Send(frame xml.TokenReader) error

	// Status returns the connection's current lifecycle state.
	Status() Status

	// OnStatusChange registers f to be called whenever Status changes and
	// returns a handle that Unsubscribe accepts to remove it again. A
	// session holds at most one such subscription at a time (spec
	// invariant 4).
	OnStatusChange(f StatusFunc) Subscription
}

// Subscription is a handle returned by Connection.OnStatusChange.
type Subscription interface {
	// Unsubscribe removes the associated status-change callback. Calling
	// it more than once is a no-op.
	Unsubscribe()
}

// ConnectionManager routes inbound frames on a Connection to the object
// registered under an identifier, and sends outbound frames tagged with
// that identifier so the remote side can route them back.
type ConnectionManager interface {
	// AddObject registers obj to receive frames routed to identifier on
	// conn.
	AddObject(conn Connection, obj interface{}, identifier string)

	// RemoveObject deregisters obj from conn's routing table.
	RemoveObject(conn Connection, obj interface{})

	// Send transmits an XML frame on behalf of obj over conn.
	Send(conn Connection, obj interface{}, frame xml.TokenReader) error
}
