// Copyright 2026 The notewire Authors.
// Use of this source code is governed by a BSD 2-clause
// license that can be found in the LICENSE file.

package reqmgr

import (
	"encoding/xml"
	"errors"
	"testing"

	"github.com/notewire/session/sessionerr"
	"github.com/notewire/session/wire"
)

func frame(name string, attrs ...xml.Attr) wire.Frame {
	return wire.FromStart(xml.StartElement{Name: xml.Name{Local: name}, Attr: attrs})
}

func TestAddAssignsIncreasingSeq(t *testing.T) {
	m := New()
	r1 := m.Add("user-join")
	r2 := m.Add("user-leave")
	if r1.Seq() >= r2.Seq() {
		t.Fatalf("seqs not increasing: %d, %d", r1.Seq(), r2.Seq())
	}
}

func TestGetBySeq(t *testing.T) {
	m := New()
	r := m.Add("user-join")
	got, ok := m.GetBySeq(r.Seq())
	if !ok || got != resolver(r) {
		t.Fatalf("GetBySeq did not return the added request")
	}
	if _, ok := m.GetBySeq(r.Seq() + 100); ok {
		t.Fatal("GetBySeq found a request that was never added")
	}
}

func TestGetByXMLAbsentSeqIsNotAnError(t *testing.T) {
	m := New()
	r, ok, err := m.GetByXML("user-join", frame("user-join"))
	if err != nil || ok || r != nil {
		t.Fatalf("got %v, %v, %v, want nil, false, nil", r, ok, err)
	}
}

func TestGetByXMLMalformedSeqIsAnError(t *testing.T) {
	m := New()
	_, _, err := m.GetByXML("user-join", frame("user-join", xml.Attr{Name: xml.Name{Local: "seq"}, Value: "x"}))
	var se *sessionerr.Error
	if !errors.As(err, &se) || se.Kind != sessionerr.MalformedAttribute {
		t.Fatalf("err = %v, want MalformedAttribute", err)
	}
}

func TestGetByXMLNoSuchSeq(t *testing.T) {
	m := New()
	_, _, err := m.GetByXML("user-join", frame("user-join", xml.Attr{Name: xml.Name{Local: "seq"}, Value: "9"}))
	var se *sessionerr.Error
	if !errors.As(err, &se) || se.Kind != sessionerr.NoSuchSeq {
		t.Fatalf("err = %v, want NoSuchSeq", err)
	}
}

func TestGetByXMLVerbMismatch(t *testing.T) {
	m := New()
	r := m.Add("user-join")
	seqVal := xml.Attr{Name: xml.Name{Local: "seq"}, Value: itoa(r.Seq())}
	_, _, err := m.GetByXML("user-leave", frame("user-leave", seqVal))
	var se *sessionerr.Error
	if !errors.As(err, &se) || se.Kind != sessionerr.SeqVerbMismatch {
		t.Fatalf("err = %v, want SeqVerbMismatch", err)
	}
}

func TestGetByXMLRequiredAbsentSeqIsAnError(t *testing.T) {
	m := New()
	_, err := m.GetByXMLRequired("user-leave", frame("user-leave"))
	var se *sessionerr.Error
	if !errors.As(err, &se) || se.Kind != sessionerr.NoSuchAttribute {
		t.Fatalf("err = %v, want NoSuchAttribute", err)
	}
}

func TestFailUnregistersAndResolves(t *testing.T) {
	m := New()
	r := m.Add("user-join")
	m.Fail(r, sessionerr.New(sessionerr.NoSuchUser, ""))
	if !r.Resolved() {
		t.Fatal("Fail must resolve the request")
	}
	if _, ok := m.GetBySeq(r.Seq()); ok {
		t.Fatal("Fail must unregister the request")
	}
}

func TestClearFailsEveryRequestAsCancelled(t *testing.T) {
	m := New()
	r1 := m.Add("user-join")
	r2 := m.Add("user-leave")
	m.Clear()

	if !r1.Resolved() || !r2.Resolved() {
		t.Fatal("Clear must resolve every held request")
	}
	if m.Len() != 0 {
		t.Fatalf("Clear must empty the manager, Len() = %d", m.Len())
	}
}

func TestClearedRequestsNotResolvableAgain(t *testing.T) {
	m := New()
	r := m.Add("user-join")
	m.Clear()

	defer func() {
		if recover() == nil {
			t.Fatal("expected resolving an already-cleared request to panic")
		}
	}()
	r.Fail(sessionerr.New(sessionerr.NoSuchUser, ""))
}

func itoa(v uint32) string {
	if v == 0 {
		return "0"
	}
	var buf [10]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}
