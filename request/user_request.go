// Copyright 2026 The notewire Authors.
// Use of this source code is governed by a BSD 2-clause
// license that can be found in the LICENSE file.

package request

import (
	"github.com/notewire/session/roster"
	"github.com/notewire/session/sessionerr"
)

// UserRequest is a Request whose terminal outcome carries a user reference
// (join, rejoin, leave) — the Go analogue of libinfinity's
// InfcUserRequest, whose ::finished signal carries (InfUser*, GError*).
type UserRequest struct {
	*Request

	onFinished []func(*roster.User, *sessionerr.Error)
}

// NewUser constructs a UserRequest with the given verb and seq.
func NewUser(name string, seq uint32) *UserRequest {
	return &UserRequest{Request: New(name, seq)}
}

// Finished registers f to be called exactly once, when this request
// resolves: observers see either a non-nil user (success) or a non-nil
// error (failure), never both and never neither.
func (r *UserRequest) Finished(f func(user *roster.User, err *sessionerr.Error)) {
	r.onFinished = append(r.onFinished, f)
}

// Finish resolves the request. Exactly one of user or err must be
// non-nil: for a join request that failed before a user could be created,
// user is nil and err is non-nil; for any successful join, rejoin, or
// leave, user is non-nil and err is nil.
func (r *UserRequest) Finish(user *roster.User, err *sessionerr.Error) {
	if (user == nil) == (err == nil) {
		panic("request: UserRequest.Finish requires exactly one of user or err to be non-nil")
	}
	r.Request.markResolved()
	for _, f := range r.onFinished {
		f(user, err)
	}
}

// Fail resolves the request as a failure, satisfying the generic
// Request.fail default resolution path
// (infc_user_request_request_fail delegates to finished(NULL, error) in
// the same way).
func (r *UserRequest) Fail(err *sessionerr.Error) {
	r.Finish(nil, err)
}
