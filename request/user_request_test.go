// Copyright 2026 The notewire Authors.
// Use of this source code is governed by a BSD 2-clause
// license that can be found in the LICENSE file.

package request

import (
	"testing"

	"github.com/notewire/session/roster"
	"github.com/notewire/session/sessionerr"
)

func TestUserRequestFinishSuccess(t *testing.T) {
	r := NewUser("user-join", 2)
	var gotUser *roster.User
	var gotErr *sessionerr.Error
	r.Finished(func(u *roster.User, err *sessionerr.Error) {
		gotUser, gotErr = u, err
	})

	u := &roster.User{ID: 5}
	r.Finish(u, nil)

	if !r.Resolved() {
		t.Fatal("Finish must resolve the request")
	}
	if gotUser != u || gotErr != nil {
		t.Fatalf("Finished callback got (%v, %v), want (%v, nil)", gotUser, gotErr, u)
	}
}

func TestUserRequestFinishFailure(t *testing.T) {
	r := NewUser("user-join", 2)
	var gotUser *roster.User
	var gotErr *sessionerr.Error
	r.Finished(func(u *roster.User, err *sessionerr.Error) {
		gotUser, gotErr = u, err
	})

	want := sessionerr.New(sessionerr.NoSuchUser, "no such user")
	r.Finish(nil, want)

	if gotUser != nil || gotErr != want {
		t.Fatalf("Finished callback got (%v, %v), want (nil, %v)", gotUser, gotErr, want)
	}
}

func TestUserRequestFinishRejectsBoth(t *testing.T) {
	r := NewUser("user-join", 2)
	defer func() {
		if recover() == nil {
			t.Fatal("expected Finish(user, err) with both set to panic")
		}
	}()
	r.Finish(&roster.User{ID: 1}, sessionerr.New(sessionerr.NoSuchUser, ""))
}

func TestUserRequestFinishRejectsNeither(t *testing.T) {
	r := NewUser("user-join", 2)
	defer func() {
		if recover() == nil {
			t.Fatal("expected Finish(nil, nil) to panic")
		}
	}()
	r.Finish(nil, nil)
}

func TestUserRequestFailDelegatesToFinish(t *testing.T) {
	r := NewUser("user-leave", 4)
	var gotErr *sessionerr.Error
	r.Finished(func(u *roster.User, err *sessionerr.Error) { gotErr = err })

	want := sessionerr.New(sessionerr.NoSuchUser, "")
	r.Fail(want)

	if gotErr != want || !r.Resolved() {
		t.Fatalf("Fail did not delegate correctly: err=%v resolved=%v", gotErr, r.Resolved())
	}
}
