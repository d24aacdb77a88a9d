// Copyright 2026 The notewire Authors.
// Use of this source code is governed by a BSD 2-clause
// license that can be found in the LICENSE file.

// Package roster implements the user roster owned by a session: the set of
// users known to it, each carrying a status and a bag of protocol-defined
// properties (name, hue, and so on).
//
// It generalizes the per-item model of mellium.im/xmpp's roster and muc
// packages (contact/occupant items with typed fields) to the session's
// arbitrary, server-defined user properties.
package roster

// Status is a user's availability within a session.
type Status uint8

// The two statuses a user may hold. A user is never removed from the
// roster on leave, only marked Unavailable, so that a later rejoin can
// find it by id.
const (
	Unavailable Status = iota
	Available
)

func (s Status) String() string {
	if s == Available {
		return "available"
	}
	return "unavailable"
}

// Flags mirrors libinfinity's INF_USER_LOCAL flag: whether this user
// object represents a party local to this client (the result of a join or
// rejoin this client itself requested) or a remote one learned about from
// the server.
type Flags uint8

const (
	// Remote is the zero value: a user we learned about, not one we
	// requested ourselves.
	Remote Flags = 0
	// Local marks a user that resulted from a request this client issued.
	Local Flags = 1 << iota
)

// User is one entry in a session's roster.
type User struct {
	ID     uint64
	Status Status
	Flags  Flags

	// Props holds the protocol-defined, session-specific properties for
	// this user (e.g. "name", "hue"), keyed by attribute name.
	Props map[string]string
}

// Prop returns the named property and whether it was set.
func (u *User) Prop(name string) (string, bool) {
	if u.Props == nil {
		return "", false
	}
	v, ok := u.Props[name]
	return v, ok
}

// Apply copies every property from props into the user except "id", which
// is immutable once the user is created (the same rule
// infc_session_handle_user_rejoin applies when batch-setting properties on
// rejoin).
func (u *User) Apply(props map[string]string) {
	if u.Props == nil {
		u.Props = make(map[string]string, len(props))
	}
	for k, v := range props {
		if k == "id" {
			continue
		}
		u.Props[k] = v
	}
}
