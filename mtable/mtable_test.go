// Copyright 2026 The notewire Authors.
// Use of this source code is governed by a BSD 2-clause
// license that can be found in the LICENSE file.

package mtable

import (
	"encoding/xml"
	"testing"

	"github.com/notewire/session/sessionerr"
	"github.com/notewire/session/transport"
	"github.com/notewire/session/wire"
)

type fakeSession struct{ name string }

func TestRegisterAndLookup(t *testing.T) {
	tb := New[*fakeSession]()
	called := false
	h := func(sess *fakeSession, conn transport.Connection, f wire.Frame, start xml.StartElement) *sessionerr.Error {
		called = true
		return nil
	}
	if !tb.Register("user-join", h) {
		t.Fatal("first Register for a name must succeed")
	}

	got, ok := tb.Lookup("user-join")
	if !ok {
		t.Fatal("Lookup did not find a registered handler")
	}
	got(&fakeSession{}, nil, wire.Frame{}, xml.StartElement{})
	if !called {
		t.Fatal("looked-up handler was not the one registered")
	}
}

func TestRegisterNeverOverwrites(t *testing.T) {
	tb := New[*fakeSession]()
	noop := func(sess *fakeSession, conn transport.Connection, f wire.Frame, start xml.StartElement) *sessionerr.Error {
		return nil
	}
	if !tb.Register("user-leave", noop) {
		t.Fatal("first Register must succeed")
	}
	if tb.Register("user-leave", noop) {
		t.Fatal("second Register for the same name must fail")
	}
}

func TestLookupMissing(t *testing.T) {
	tb := New[*fakeSession]()
	if _, ok := tb.Lookup("nonexistent"); ok {
		t.Fatal("Lookup should not find an unregistered name")
	}
}
