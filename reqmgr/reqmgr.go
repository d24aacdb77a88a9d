// Copyright 2026 The notewire Authors.
// Use of this source code is governed by a BSD 2-clause
// license that can be found in the LICENSE file.

// Package reqmgr implements RequestManager (C2): the owner of every Request
// and UserRequest pending on a session, grounded on libinfinity's
// InfcRequestManager as driven from infc-session.c (infc_request_manager_add_request,
// infc_request_manager_get_request_by_xml, infc_request_manager_fail_request,
// infc_request_manager_clear).
package reqmgr

import (
	"github.com/notewire/session/request"
	"github.com/notewire/session/sessionerr"
	"github.com/notewire/session/wire"
)

// resolver is the subset of Request and UserRequest a Manager needs: both
// satisfy it through embedding, the same way InfcRequest and
// InfcUserRequest both implement the InfcRequest interface in libinfinity.
type resolver interface {
	Name() string
	Seq() uint32
	Resolved() bool
	Fail(err *sessionerr.Error)
}

// Manager owns every live request for one session. It is not safe for
// concurrent use, matching the single-threaded, non-reentrant-locking
// model this module assumes throughout.
type Manager struct {
	nextSeq uint32
	byseq   map[uint32]resolver
}

// New creates an empty Manager whose first allocated seq is 1.
func New() *Manager {
	return &Manager{nextSeq: 1, byseq: make(map[uint32]resolver)}
}

// Add allocates a fresh Request with the given verb, registers it, and
// returns it. The returned Request's seq is strictly larger than that of
// any Request added earlier by this Manager.
func (m *Manager) Add(verb string) *request.Request {
	r := request.New(verb, m.alloc())
	m.byseq[r.Seq()] = r
	return r
}

// AddUser is Add's counterpart for requests whose outcome carries a user
// reference (join, rejoin, leave).
func (m *Manager) AddUser(verb string) *request.UserRequest {
	r := request.NewUser(verb, m.alloc())
	m.byseq[r.Seq()] = r
	return r
}

func (m *Manager) alloc() uint32 {
	seq := m.nextSeq
	m.nextSeq++
	return seq
}

// GetBySeq looks up a held request by its sequence number.
func (m *Manager) GetBySeq(seq uint32) (resolver, bool) {
	r, ok := m.byseq[seq]
	return r, ok
}

// GetByXML reads the seq attribute off frame. A frame with no seq
// attribute is not an error: it returns (nil, false, nil), meaning "this
// frame does not correlate to any request." A seq that is present but
// malformed, or present but matching no held request, or matching a held
// request of a different verb than expectedVerb, is an error.
//
// expectedVerb may be empty to skip the verb check, used by callers (such
// as the dispatcher's failure path) that accept any pending request's seq.
func (m *Manager) GetByXML(expectedVerb string, f wire.Frame) (resolver, bool, error) {
	seq, present, err := f.Seq()
	if err != nil {
		return nil, false, err
	}
	if !present {
		return nil, false, nil
	}
	return m.lookup(expectedVerb, seq)
}

// GetByXMLRequired is like GetByXML but treats an absent seq as an error
// too, the shape the request-failed handler uses.
func (m *Manager) GetByXMLRequired(expectedVerb string, f wire.Frame) (resolver, error) {
	seq, err := f.RequireSeq()
	if err != nil {
		return nil, err
	}
	r, _, err := m.lookup(expectedVerb, seq)
	return r, err
}

func (m *Manager) lookup(expectedVerb string, seq uint32) (resolver, bool, error) {
	r, ok := m.byseq[seq]
	if !ok {
		return nil, false, sessionerr.New(sessionerr.NoSuchSeq, "seq %d does not refer to an existing request", seq)
	}
	if expectedVerb != "" && r.Name() != expectedVerb {
		return nil, false, sessionerr.New(sessionerr.SeqVerbMismatch, "seq %d refers to a %q request, not %q", seq, r.Name(), expectedVerb)
	}
	return r, true, nil
}

// Remove unregisters a request without resolving it, used once a
// request's success path has already called its own Finish method.
func (m *Manager) Remove(r resolver) {
	delete(m.byseq, r.Seq())
}

// Fail resolves r with err and unregisters it, in that order: resolution
// of a request happens before that request is removed from the manager's
// index, so an observer callback invoked synchronously from r.Fail can
// still find r via GetBySeq. Calling Fail on an already-resolved request
// panics via the Request/UserRequest's own double-resolution guard.
func (m *Manager) Fail(r resolver, err *sessionerr.Error) {
	r.Fail(err)
	m.Remove(r)
}

// Clear fails every held request with sessionerr.ErrCancelled, in
// unspecified order, and empties the manager. Once cleared, a late reply
// naming one of the cancelled seqs finds no matching request and is
// logged rather than processed, because GetByXML consults the (now
// empty) map.
func (m *Manager) Clear() {
	pending := make([]resolver, 0, len(m.byseq))
	for _, r := range m.byseq {
		pending = append(pending, r)
	}
	for _, r := range pending {
		r.Fail(sessionerr.ErrCancelled)
		delete(m.byseq, r.Seq())
	}
}

// Len reports how many requests are currently pending.
func (m *Manager) Len() int { return len(m.byseq) }
