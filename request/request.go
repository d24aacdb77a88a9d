// Copyright 2026 The notewire Authors.
// Use of this source code is governed by a BSD 2-clause
// license that can be found in the LICENSE file.

// Package request implements the identity and resolution of one in-flight
// asynchronous operation (C1) and its user-carrying variant (C3), modeled
// on libinfinity's InfcRequest/InfcUserRequest
// (infc-session.c/infc-user-request.c) and generalized the way the
// teacher's functional-option constructors generalize a fixed operation
// into a reusable value.
package request

import "github.com/notewire/session/sessionerr"

// Request is the identity of one in-flight operation: the protocol verb it
// will correlate against and the sequence number that ties it to its
// reply. A Request resolves exactly once, by a component-specific Finish
// method (as on UserRequest) or by the generic Fail below.
type Request struct {
	name string
	seq  uint32

	resolved bool
	onFail   []func(*sessionerr.Error)
}

// New constructs a Request with the given verb and seq. Callers normally
// obtain Requests through a RequestManager rather than calling New
// directly, which is what guarantees seq uniqueness.
func New(name string, seq uint32) *Request {
	return &Request{name: name, seq: seq}
}

// Name returns the protocol verb this request correlates against. It is
// constant after construction.
func (r *Request) Name() string { return r.name }

// Seq returns the sequence number tying this request to its reply. It is
// constant after construction.
func (r *Request) Seq() uint32 { return r.seq }

// Resolved reports whether this request has already produced its one
// terminal outcome.
func (r *Request) Resolved() bool { return r.resolved }

// OnFail registers f to be called if this request resolves through Fail.
// UserRequest does not route failures through here: its own Fail
// delegates to Finish with a nil user, mirroring how InfcUserRequest
// implements the generic InfRequest::fail interface method through its
// `finished` signal, so callbacks registered with OnFail on a
// UserRequest's embedded Request are not called.
func (r *Request) OnFail(f func(*sessionerr.Error)) {
	r.onFail = append(r.onFail, f)
}

// Fail resolves the request with error, the default resolution path when
// no component-specific success exists. Calling Fail (or any other
// resolution) on an already-resolved request is a programmer error.
func (r *Request) Fail(err *sessionerr.Error) {
	if r.resolved {
		panic("request: Fail called on an already-resolved request")
	}
	r.resolved = true
	for _, f := range r.onFail {
		f(err)
	}
}

// markResolved is used by subtypes (UserRequest) that resolve through
// their own method instead of Fail, so that Resolved() stays accurate and
// a second resolution still panics.
func (r *Request) markResolved() {
	if r.resolved {
		panic("request: request resolved more than once")
	}
	r.resolved = true
}
