// Copyright 2026 The notewire Authors.
// Use of this source code is governed by a BSD 2-clause
// license that can be found in the LICENSE file.

// Package basesession implements the minimal parent "session" that
// clientsession.Session specializes: the user roster, per-connection
// synchronization progress, and the property extraction/validation hooks
// the default message handlers call through. It deliberately does not
// implement the operational-transform document core — that remains out
// of scope.
//
// Grounded on the InfSession/InfcSession split in
// original_source/libinfinity/client/infc-session.c, generalized the way
// the teacher splits xmpp.Session's transport concerns from
// mux.ServeMux's dispatch concerns in session.go/handler.go.
package basesession

import (
	"github.com/notewire/session/roster"
	"github.com/notewire/session/transport"
)

// Status is the lifecycle stage of a session, carried by the base session
// per spec.md's data model rather than by the client specialization.
type Status int

const (
	Synchronizing Status = iota
	Running
	Closed
)

func (s Status) String() string {
	switch s {
	case Synchronizing:
		return "synchronizing"
	case Running:
		return "running"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}

// SyncStatus is the per-connection synchronization progress consulted by
// process_xml and the close procedure. Unlike Status, which is one value
// per session, a session may in principle be mid-synchronization on a
// specific connection independent of whether it is already Running.
type SyncStatus int

const (
	// SyncNone means no synchronization is in progress on this connection.
	SyncNone SyncStatus = iota
	// SyncAwaitingAck means the initial transfer has completed and only a
	// final acknowledgement is outstanding — close may still unsubscribe.
	SyncAwaitingAck
	// SyncInProgress means a bulk transfer is actively running — close
	// must not emit an explicit unsubscribe, since canceling the transfer
	// implicitly notifies the peer.
	SyncInProgress
)

// PropertyExtractor parses the user-property attributes/children of an
// inbound frame into a flat property map, the Go analogue of
// infc_session_get_property_extractor.
type PropertyExtractor func(attrs map[string]string) (map[string]string, error)

// PropertyValidator checks a candidate property set against an existing
// user (nil for a brand new join) before it is applied.
type PropertyValidator func(existing *roster.User, props map[string]string) error

// Base is the shared parent session state: the roster, the connection
// manager, per-connection sync status, and the property hooks. It has no
// notion of a bound transport connection — that is clientsession.Session.
type Base struct {
	status   Status
	roster   *roster.Roster
	connMgr  transport.ConnectionManager
	syncStat map[transport.Connection]SyncStatus

	extractProps  PropertyExtractor
	validateProps PropertyValidator
}

// New creates a Base in the Synchronizing status with an empty roster,
// the given connection manager, and the given property hooks. Either
// hook may be nil, in which case a permissive default is used: extractor
// returns the attribute map unchanged, validator accepts everything.
func New(connMgr transport.ConnectionManager, extract PropertyExtractor, validate PropertyValidator) *Base {
	if extract == nil {
		extract = func(attrs map[string]string) (map[string]string, error) { return attrs, nil }
	}
	if validate == nil {
		validate = func(existing *roster.User, props map[string]string) error { return nil }
	}
	return &Base{
		status:        Synchronizing,
		roster:        roster.New(),
		connMgr:       connMgr,
		syncStat:      make(map[transport.Connection]SyncStatus),
		extractProps:  extract,
		validateProps: validate,
	}
}

// Status reports the session's current lifecycle stage.
func (b *Base) Status() Status { return b.status }

// SetStatus transitions the session's lifecycle stage. Callers are
// responsible for only making the transitions spec.md allows
// (Synchronizing -> Running -> Closed).
func (b *Base) SetStatus(s Status) { b.status = s }

// SyncStatus reports whether a synchronization is in progress on conn.
// A connection with no recorded entry is SyncNone.
func (b *Base) SyncStatus(conn transport.Connection) SyncStatus {
	return b.syncStat[conn]
}

// SetSyncStatus records conn's synchronization progress.
func (b *Base) SetSyncStatus(conn transport.Connection, s SyncStatus) {
	if s == SyncNone {
		delete(b.syncStat, conn)
		return
	}
	b.syncStat[conn] = s
}

// Roster exposes the underlying user roster for direct iteration and
// lookup by the collaborators (clientsession handlers) that need it.
func (b *Base) Roster() *roster.Roster { return b.roster }

// ForEachUser calls f for every user currently in the roster.
func (b *Base) ForEachUser(f func(*roster.User)) { b.roster.ForEach(f) }

// LookupUserByID looks up a user by id, returning nil if absent.
func (b *Base) LookupUserByID(id uint64) *roster.User { return b.roster.Lookup(id) }

// AddUser extracts and validates properties from attrs, then adds a new
// user with the given id, status, and flags to the roster. ok is false if
// a user with that id is already present; err is non-nil if extraction or
// validation rejected the properties before the roster was touched.
func (b *Base) AddUser(id uint64, status roster.Status, flags roster.Flags, attrs map[string]string) (u *roster.User, ok bool, err error) {
	props, err := b.extractProps(attrs)
	if err != nil {
		return nil, false, err
	}
	if err := b.validateProps(nil, props); err != nil {
		return nil, false, err
	}
	u, ok = b.roster.Add(id, status, flags, props)
	return u, ok, nil
}

// ValidateAndApply validates props against existing, then applies every
// property except "id" to it. Used by the user-rejoin handler, which must
// validate against the current user state rather than a fresh one.
func (b *Base) ValidateAndApply(existing *roster.User, attrs map[string]string) error {
	props, err := b.extractProps(attrs)
	if err != nil {
		return err
	}
	if err := b.validateProps(existing, props); err != nil {
		return err
	}
	existing.Apply(props)
	return nil
}

// ConnectionManager returns the connection manager this session's
// subscription routing is registered with.
func (b *Base) ConnectionManager() transport.ConnectionManager { return b.connMgr }
