// Copyright 2026 The notewire Authors.
// Use of this source code is governed by a BSD 2-clause
// license that can be found in the LICENSE file.

package roster

// Roster is the set of users known to a session, indexed by id. It is not
// safe for concurrent use; per the session's single-threaded cooperative
// scheduling model (spec §5), callers serialize access externally.
type Roster struct {
	users map[uint64]*User
}

// New returns an empty Roster.
func New() *Roster {
	return &Roster{users: make(map[uint64]*User)}
}

// Lookup returns the user with the given id, or nil if none exists.
func (r *Roster) Lookup(id uint64) *User {
	return r.users[id]
}

// Add validates and inserts a new user with the given id, status, and
// flags, copying every entry of props except "id" into its properties,
// and returns it. It is the Go analogue of inf_session_add_user: the only
// validation performed here is that the id is not already present;
// richer protocols layer additional validation through the
// Extractor/Validator hooks in package basesession.
func (r *Roster) Add(id uint64, status Status, flags Flags, props map[string]string) (*User, bool) {
	if _, exists := r.users[id]; exists {
		return nil, false
	}
	u := &User{ID: id, Status: status, Flags: flags}
	u.Apply(props)
	r.users[id] = u
	return u, true
}

// SetUnavailable marks every user in the roster Unavailable, in unspecified
// order, without removing any of them — used by the connection release
// procedure so that a later rejoin can still find them by id.
func (r *Roster) SetUnavailable() {
	for _, u := range r.users {
		u.Status = Unavailable
	}
}

// ForEach calls f once for every user in the roster, in unspecified order.
func (r *Roster) ForEach(f func(*User)) {
	for _, u := range r.users {
		f(u)
	}
}

// Len returns the number of users currently in the roster.
func (r *Roster) Len() int {
	return len(r.users)
}
