// Copyright 2026 The notewire Authors.
// Use of this source code is governed by a BSD 2-clause
// license that can be found in the LICENSE file.

// Package clientsession implements ClientSession (C5): the stateful
// client-side object that owns a connection binding, a request manager,
// and a message table, and drives the Synchronizing -> Running -> Closed
// lifecycle. Grounded on InfcSessionProxy in
// original_source/libinfinity/client/infc-session.c, structured the way
// the teacher splits a stateful core (session.go's Session) from its
// dispatch table (mux.ServeMux) and its options (conn/options.go).
package clientsession

import (
	"encoding/xml"
	"log"

	"github.com/notewire/session/basesession"
	"github.com/notewire/session/reqmgr"
	"github.com/notewire/session/request"
	"github.com/notewire/session/roster"
	"github.com/notewire/session/sessionerr"
	"github.com/notewire/session/transport"
	"github.com/notewire/session/wire"
)

// ConnectionChangeFunc is called once per coalesced change to the bound
// connection: a release, a rebind, or a release+rebind pair collapsed
// into the single notification spec.md §4.5 requires.
type ConnectionChangeFunc func(old, new transport.Connection)

// Session is the client-side session object. It is not safe for
// concurrent use; per spec.md §5 every operation runs on one logical
// thread, and cross-thread use must be serialized externally.
type Session struct {
	base       *basesession.Base
	translator sessionerr.Translator
	reqs       *reqmgr.Manager
	table      *Table
	logger     *log.Logger

	conn    transport.Connection
	connSub transport.Subscription

	onConnChanged []ConnectionChangeFunc
}

// Option configures a Session at construction.
type Option func(*Session)

// WithLogger overrides the default logger (log.Default()).
func WithLogger(l *log.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithMessageTable overrides the default message table (DefaultTable()),
// letting a caller register additional verbs the way libinfinity
// subclasses extend InfcSessionClass::message_table at type-init time.
func WithMessageTable(t *Table) Option {
	return func(s *Session) { s.table = t }
}

// WithTranslator overrides the default error translator, letting a caller
// recognize additional error domains beyond the three this protocol
// defines, the way infc_session_translate_error_impl is overridden by
// subclasses in the source.
func WithTranslator(tr sessionerr.Translator) Option {
	return func(s *Session) { s.translator = tr }
}

// New creates a Session bound to no connection, with base as its parent
// session state.
func New(base *basesession.Base, opts ...Option) *Session {
	s := &Session{
		base:   base,
		reqs:   reqmgr.New(),
		table:  DefaultTable(),
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Base returns the parent session state this Session specializes.
func (s *Session) Base() *basesession.Base { return s.base }

// Connection returns the currently bound connection, or nil.
func (s *Session) Connection() transport.Connection { return s.conn }

// OnConnectionChanged registers f to be called whenever the bound
// connection changes.
func (s *Session) OnConnectionChanged(f ConnectionChangeFunc) {
	s.onConnChanged = append(s.onConnChanged, f)
}

// SetConnection rebinds the session to conn (nil to only release),
// registering it with the connection manager under identifier. Any
// previously bound connection is unsubscribed and released first.
// At most one ConnectionChanged notification fires, reflecting the final
// state, even when this call both releases an old connection and binds a
// new one (spec.md §4.5's notification-batching requirement); none fires
// when the bound connection ends up unchanged.
func (s *Session) SetConnection(conn transport.Connection, identifier string) {
	old := s.conn
	if s.conn != nil {
		s.emitUnsubscribe()
		s.release(false)
	}
	if conn != nil {
		s.bind(conn, identifier)
	}
	if old != s.conn {
		s.notifyConnectionChanged(old, s.conn)
	}
}

func (s *Session) bind(conn transport.Connection, identifier string) {
	s.conn = conn
	s.base.ConnectionManager().AddObject(conn, s, identifier)
	s.connSub = conn.OnStatusChange(s.handleStatusChange)
}

func (s *Session) handleStatusChange(status transport.Status) {
	if status == transport.StatusClosing || status == transport.StatusClosed {
		s.release(true)
	}
}

// release runs the connection release procedure (spec.md §4.5.1). It is a
// no-op if no connection is bound. When notify is true it fires the
// ConnectionChanged notification itself; SetConnection passes false so it
// can fire a single, coalesced notification after an optional rebind.
func (s *Session) release(notify bool) {
	if s.conn == nil {
		return
	}
	old := s.conn

	s.reqs.Clear()
	s.base.Roster().SetUnavailable()
	if s.connSub != nil {
		s.connSub.Unsubscribe()
		s.connSub = nil
	}
	s.base.ConnectionManager().RemoveObject(old, s)
	s.conn = nil

	if notify {
		s.notifyConnectionChanged(old, nil)
	}
}

func (s *Session) notifyConnectionChanged(old, new_ transport.Connection) {
	for _, f := range s.onConnChanged {
		f(old, new_)
	}
}

func (s *Session) emitUnsubscribe() {
	if err := s.base.ConnectionManager().Send(s.conn, s, wire.SessionUnsubscribe()); err != nil {
		s.logger.Printf("clientsession: failed to send session-unsubscribe: %v", err)
	}
}

// Close runs the close procedure (spec.md §4.5.2): if a connection is
// bound and no synchronization is actively in flight, an explicit
// unsubscribe is sent (a transfer in progress already tells the peer
// implicitly when it is canceled); the connection is then released.
// Finally the base session's status is set to Closed, unlike an inbound
// session-close, which only releases the connection.
func (s *Session) Close() {
	if s.conn != nil {
		switch s.base.SyncStatus(s.conn) {
		case basesession.SyncNone, basesession.SyncAwaitingAck:
			s.emitUnsubscribe()
		}
		s.release(true)
	}
	s.base.SetStatus(basesession.Closed)
}

// JoinUser allocates a user-join request, transmits it, and returns the
// UserRequest the caller can observe for the server's reply. The
// precondition (status Running, a connection bound) is a programmer
// error: a violation is logged and nil is returned rather than panicking,
// per spec.md §7's "produce a diagnostic and return no-op/null" policy
// for precondition violations on public calls.
func (s *Session) JoinUser(params []xml.Attr) *request.UserRequest {
	if !s.readyForRequest("join_user") {
		return nil
	}
	req := s.reqs.AddUser("user-join")
	if err := s.base.ConnectionManager().Send(s.conn, s, wire.UserJoin(req.Seq(), params)); err != nil {
		s.logger.Printf("clientsession: failed to send user-join: %v", err)
	}
	return req
}

// LeaveUser allocates a user-leave request for user, transmits it, and
// returns the UserRequest. Same precondition as JoinUser.
func (s *Session) LeaveUser(user *roster.User) *request.UserRequest {
	if !s.readyForRequest("leave_user") {
		return nil
	}
	req := s.reqs.AddUser("user-leave")
	if err := s.base.ConnectionManager().Send(s.conn, s, wire.UserLeave(req.Seq(), user.ID)); err != nil {
		s.logger.Printf("clientsession: failed to send user-leave: %v", err)
	}
	return req
}

func (s *Session) readyForRequest(op string) bool {
	if s.base.Status() != basesession.Running || s.conn == nil {
		s.logger.Printf("clientsession: %s called while status=%v connection-bound=%v; ignoring", op, s.base.Status(), s.conn != nil)
		return false
	}
	return true
}

// ProcessXML dispatches one inbound frame (spec.md §4.5's core
// algorithm): regular messages are rejected while a synchronization is in
// progress on conn; otherwise the frame's name is looked up in the
// message table and its handler invoked. Any failure is logged and, if
// the frame's seq matches a pending request, resolves that request with a
// ReplyUnprocessed error wrapping the original failure — the "fail the
// seq-matched request if one exists, otherwise log only" resolution of
// spec.md §9's open question.
func (s *Session) ProcessXML(conn transport.Connection, f wire.Frame, start xml.StartElement) {
	if s.base.SyncStatus(conn) != basesession.SyncNone {
		s.handleFailure(f, sessionerr.New(sessionerr.Synchronizing, "a synchronization is in progress on this connection"))
		return
	}

	handler, ok := s.table.Lookup(f.Name)
	var handlerErr *sessionerr.Error
	if !ok {
		handlerErr = sessionerr.New(sessionerr.UnexpectedMessage, "no handler registered for %q", f.Name)
	} else {
		handlerErr = handler(s, conn, f, start)
	}
	if handlerErr != nil {
		s.handleFailure(f, handlerErr)
	}
}

func (s *Session) handleFailure(f wire.Frame, err *sessionerr.Error) {
	s.logger.Printf("clientsession: received bad %q frame, session may no longer be consistent: %v", f.Name, err)
	r, ok, lookupErr := s.reqs.GetByXML("", f)
	if lookupErr != nil || !ok {
		return
	}
	s.reqs.Fail(r, sessionerr.Wrap(sessionerr.ReplyUnprocessed, err, "server reply for seq could not be processed: %v", err))
}

// SynchronizationComplete is the synchronization-complete hook (spec.md
// §4.5.3). In the (Synchronizing, bound) case the source asserts the
// completing connection is the one this session is subscribed to; any
// other combination of status and connection is valid.
func (s *Session) SynchronizationComplete(conn transport.Connection) {
	if s.base.Status() == basesession.Synchronizing && s.conn != nil && s.conn != conn {
		panic("clientsession: synchronization completed on a connection other than the one bound")
	}
	s.base.SetSyncStatus(conn, basesession.SyncNone)
	if s.base.Status() == basesession.Synchronizing {
		s.base.SetStatus(basesession.Running)
	}
}

// SynchronizationFailed is the synchronization-failed hook (spec.md
// §4.5.3). While Synchronizing, the base session will close on its own
// and this method does nothing; while Running, the connection is
// released without an explicit unsubscribe, since the peer already knows
// the synchronization failed. Any other status is a programmer error.
func (s *Session) SynchronizationFailed(conn transport.Connection, err *sessionerr.Error) {
	switch s.base.Status() {
	case basesession.Synchronizing:
	case basesession.Running:
		s.release(true)
	default:
		s.logger.Printf("clientsession: synchronization_failed called while status=%v; ignoring", s.base.Status())
	}
}
