// Copyright 2026 The notewire Authors.
// Use of this source code is governed by a BSD 2-clause
// license that can be found in the LICENSE file.

package basesession

import (
	"testing"

	"github.com/notewire/session/roster"
	"github.com/notewire/session/transport/transporttest"
)

func TestNewStartsSynchronizing(t *testing.T) {
	b := New(transporttest.NewManager(), nil, nil)
	if b.Status() != Synchronizing {
		t.Fatalf("Status() = %v, want Synchronizing", b.Status())
	}
}

func TestAddUserAndLookup(t *testing.T) {
	b := New(transporttest.NewManager(), nil, nil)
	u, ok, err := b.AddUser(7, roster.Available, roster.Local, map[string]string{"name": "alice"})
	if err != nil || !ok {
		t.Fatalf("AddUser: ok=%v err=%v", ok, err)
	}
	if got := b.LookupUserByID(7); got != u {
		t.Fatalf("LookupUserByID(7) = %v, want %v", got, u)
	}
}

func TestAddUserDuplicateIDFails(t *testing.T) {
	b := New(transporttest.NewManager(), nil, nil)
	b.AddUser(1, roster.Available, roster.Remote, nil)
	if _, ok, _ := b.AddUser(1, roster.Available, roster.Remote, nil); ok {
		t.Fatal("AddUser should refuse a duplicate id")
	}
}

func TestValidateAndApplyUpdatesExistingUser(t *testing.T) {
	b := New(transporttest.NewManager(), nil, nil)
	u, _, _ := b.AddUser(1, roster.Available, roster.Remote, map[string]string{"hue": "0.5"})
	if err := b.ValidateAndApply(u, map[string]string{"id": "99", "hue": "0.6"}); err != nil {
		t.Fatalf("ValidateAndApply: %v", err)
	}
	if v, _ := u.Prop("hue"); v != "0.6" {
		t.Errorf("hue = %q, want 0.6", v)
	}
	if u.ID != 1 {
		t.Errorf("ID changed to %d, must stay immutable", u.ID)
	}
}

func TestSyncStatusDefaultsToNone(t *testing.T) {
	b := New(transporttest.NewManager(), nil, nil)
	conn := transporttest.NewConn()
	if got := b.SyncStatus(conn); got != SyncNone {
		t.Fatalf("SyncStatus = %v, want SyncNone", got)
	}
	b.SetSyncStatus(conn, SyncInProgress)
	if got := b.SyncStatus(conn); got != SyncInProgress {
		t.Fatalf("SyncStatus = %v, want SyncInProgress", got)
	}
	b.SetSyncStatus(conn, SyncNone)
	if got := b.SyncStatus(conn); got != SyncNone {
		t.Fatalf("SyncStatus after reset = %v, want SyncNone", got)
	}
}

func TestExtractorAndValidatorRejection(t *testing.T) {
	rejectErr := errRejected{}
	b := New(transporttest.NewManager(),
		func(attrs map[string]string) (map[string]string, error) { return nil, rejectErr },
		nil,
	)
	if _, _, err := b.AddUser(1, roster.Available, roster.Remote, nil); err != rejectErr {
		t.Fatalf("AddUser err = %v, want %v", err, rejectErr)
	}

	bv := New(transporttest.NewManager(), nil,
		func(existing *roster.User, props map[string]string) error { return rejectErr },
	)
	if _, _, err := bv.AddUser(1, roster.Available, roster.Remote, nil); err != rejectErr {
		t.Fatalf("AddUser with rejecting validator err = %v, want %v", err, rejectErr)
	}
}

type errRejected struct{}

func (errRejected) Error() string { return "rejected" }
