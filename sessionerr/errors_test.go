// Copyright 2026 The notewire Authors.
// Use of this source code is governed by a BSD 2-clause
// license that can be found in the LICENSE file.

package sessionerr

import (
	"errors"
	"testing"
)

func TestTranslateKnownDomains(t *testing.T) {
	var tr Translator

	tests := []struct {
		domain string
		code   uint32
		want   Kind
	}{
		{DomainRequest, uint32(CodeRequestSynchronizing), Synchronizing},
		{DomainRequest, uint32(CodeRequestUnexpectedMessage), UnexpectedMessage},
		{DomainUserJoin, uint32(CodeUserJoinNoSuchUser), NoSuchUser},
		{DomainUserLeave, uint32(CodeUserLeaveIDNotPresent), IdNotPresent},
		{DomainUserLeave, uint32(CodeUserLeaveNoSuchUser), NoSuchUser},
	}

	for _, tc := range tests {
		got := tr.Translate(tc.domain, tc.code)
		if got.Kind != tc.want {
			t.Errorf("Translate(%q, %d) = %v, want kind %v", tc.domain, tc.code, got.Kind, tc.want)
		}
	}
}

func TestTranslateUnknownDomain(t *testing.T) {
	var tr Translator
	got := tr.Translate("inf-some-weird-error", 3)
	if got.Kind != UnknownDomain {
		t.Fatalf("Translate unknown domain = %v, want UnknownDomain", got.Kind)
	}
}

func TestTranslateExtraOverride(t *testing.T) {
	tr := Translator{
		Extra: func(domain string, code uint32) *Error {
			if domain == "app-specific" {
				return New(NoSuchUser, "custom")
			}
			return nil
		},
	}
	got := tr.Translate("app-specific", 1)
	if got.Kind != NoSuchUser {
		t.Fatalf("Translate with Extra = %v, want NoSuchUser", got.Kind)
	}

	// Falls through to built-ins when Extra declines.
	got = tr.Translate(DomainRequest, uint32(CodeRequestNoSuchSeq))
	if got.Kind != NoSuchSeq {
		t.Fatalf("Translate fallthrough = %v, want NoSuchSeq", got.Kind)
	}
}

func TestErrorIsByKind(t *testing.T) {
	e1 := New(NoSuchUser, "first")
	e2 := New(NoSuchUser, "second, different message")
	if !errors.Is(e1, e2) {
		t.Fatal("errors with same Kind should satisfy errors.Is regardless of message")
	}

	e3 := New(IdNotPresent, "third")
	if errors.Is(e1, e3) {
		t.Fatal("errors with different Kind should not satisfy errors.Is")
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	wrapped := Wrap(ReplyUnprocessed, cause, "reply unprocessed: %v", cause)
	if !errors.Is(wrapped, cause) {
		t.Fatal("Wrap should preserve the cause for errors.Is")
	}
}
