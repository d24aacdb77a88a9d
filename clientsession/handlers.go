// Copyright 2026 The notewire Authors.
// Use of this source code is governed by a BSD 2-clause
// license that can be found in the LICENSE file.

package clientsession

import (
	"encoding/xml"

	"github.com/notewire/session/mtable"
	"github.com/notewire/session/request"
	"github.com/notewire/session/roster"
	"github.com/notewire/session/sessionerr"
	"github.com/notewire/session/transport"
	"github.com/notewire/session/wire"
)

// Table is the message table a Session dispatches inbound frames
// through, shared read-only across every Session built from it.
type Table = mtable.Table[*Session]

// DefaultTable builds the message table registering the five handler
// contracts spec.md §4.5.4 names: user-join, user-rejoin, user-leave,
// request-failed, and session-close.
func DefaultTable() *Table {
	t := mtable.New[*Session]()
	t.Register("user-join", handleUserJoin)
	t.Register("user-rejoin", handleUserRejoin)
	t.Register("user-leave", handleUserLeave)
	t.Register("request-failed", handleRequestFailed)
	t.Register("session-close", handleSessionClose)
	return t
}

// asErr narrows a generic error to *sessionerr.Error, wrapping a foreign
// error (should one ever reach here) rather than panicking.
func asErr(err error) *sessionerr.Error {
	if err == nil {
		return nil
	}
	if se, ok := err.(*sessionerr.Error); ok {
		return se
	}
	return sessionerr.Wrap(sessionerr.UnexpectedMessage, err, "%v", err)
}

// attrMap flattens a Frame's attributes into a plain map, omitting any
// names in exclude (typically "seq", which is protocol bookkeeping, not a
// user property).
func attrMap(f wire.Frame, exclude ...string) map[string]string {
	skip := make(map[string]bool, len(exclude))
	for _, e := range exclude {
		skip[e] = true
	}
	m := make(map[string]string, len(f.Attrs))
	for _, a := range f.Attrs {
		if skip[a.Name.Local] {
			continue
		}
		m[a.Name.Local] = a.Value
	}
	return m
}

// resolveUserRequest looks up the request matching f's seq under verb
// and, if it is a UserRequest still pending, unregisters and finishes it
// with user. A frame without a seq resolves nothing. A seq that matches
// no request, or matches a request of a different verb, is returned as a
// NoSuchSeq or SeqVerbMismatch error; a matched request that is not a
// UserRequest is left untouched.
func resolveUserRequest(s *Session, verb string, f wire.Frame, user *roster.User) *sessionerr.Error {
	r, ok, err := s.reqs.GetByXML(verb, f)
	if err != nil {
		return asErr(err)
	}
	if !ok {
		return nil
	}
	if ur, ok := r.(*request.UserRequest); ok {
		s.reqs.Remove(r)
		ur.Finish(user, nil)
	}
	return nil
}

func handleUserJoin(s *Session, conn transport.Connection, f wire.Frame, start xml.StartElement) *sessionerr.Error {
	id, err := f.RequireUint("id", 64)
	if e := asErr(err); e != nil {
		return e
	}
	_, hasSeq, serr := f.Seq()
	if e := asErr(serr); e != nil {
		return e
	}

	flags := roster.Remote
	if hasSeq {
		flags = roster.Local
	}

	user, ok, aerr := s.base.AddUser(id, roster.Available, flags, attrMap(f, "seq", "id"))
	if e := asErr(aerr); e != nil {
		return e
	}
	if !ok {
		return sessionerr.New(sessionerr.UnexpectedMessage, "user-join: id %d is already present in the roster", id)
	}

	if hasSeq {
		return resolveUserRequest(s, "user-join", f, user)
	}
	return nil
}

func handleUserRejoin(s *Session, conn transport.Connection, f wire.Frame, start xml.StartElement) *sessionerr.Error {
	id, err := f.RequireUint("id", 64)
	if e := asErr(err); e != nil {
		return e
	}

	user := s.base.LookupUserByID(id)
	if user == nil {
		return sessionerr.New(sessionerr.NoSuchUser, "user-rejoin: no such user %d", id)
	}

	if verr := s.base.ValidateAndApply(user, attrMap(f, "seq")); verr != nil {
		return asErr(verr)
	}

	_, hasSeq, serr := f.Seq()
	if e := asErr(serr); e != nil {
		return e
	}
	user.Status = roster.Available
	if hasSeq {
		user.Flags = roster.Local
	} else {
		user.Flags = roster.Remote
	}

	if hasSeq {
		return resolveUserRequest(s, "user-rejoin", f, user)
	}
	return nil
}

func handleUserLeave(s *Session, conn transport.Connection, f wire.Frame, start xml.StartElement) *sessionerr.Error {
	if _, present := f.Attr("id"); !present {
		return sessionerr.New(sessionerr.IdNotPresent, "user-leave: id attribute is not present")
	}
	id, err := f.RequireUint("id", 64)
	if e := asErr(err); e != nil {
		return e
	}

	user := s.base.LookupUserByID(id)
	if user == nil {
		return sessionerr.New(sessionerr.NoSuchUser, "user-leave: no such user %d", id)
	}
	user.Status = roster.Unavailable

	_, hasSeq, serr := f.Seq()
	if e := asErr(serr); e != nil {
		return e
	}
	if hasSeq {
		return resolveUserRequest(s, "user-leave", f, user)
	}
	return nil
}

func handleRequestFailed(s *Session, conn transport.Connection, f wire.Frame, start xml.StartElement) *sessionerr.Error {
	code, err := f.RequireUint("code", 32)
	if e := asErr(err); e != nil {
		return e
	}
	domain, present := f.Attr("domain")
	if !present {
		return sessionerr.New(sessionerr.NoSuchAttribute, "request-failed: domain attribute is not present")
	}

	r, lerr := s.reqs.GetByXMLRequired("", f)
	if e := asErr(lerr); e != nil {
		return e
	}

	s.reqs.Fail(r, s.translator.Translate(domain, uint32(code)))
	return nil
}

func handleSessionClose(s *Session, conn transport.Connection, f wire.Frame, start xml.StartElement) *sessionerr.Error {
	s.release(true)
	return nil
}
