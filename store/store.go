// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"database/sql"

	"github.com/votepoll/server/notify"
)

// Store owns polls, options, votes, and profiles. It is the only writer of
// poll_options.votes_count and the only place vote uniqueness is enforced.
type Store struct {
	db  *sql.DB
	hub *notify.Hub
}

// New creates a Store. hub may be nil when change notification is not
// needed (some tests).
func New(db *sql.DB, hub *notify.Hub) *Store {
	return &Store{db: db, hub: hub}
}

func (s *Store) publish(ev notify.Event) {
	if s.hub != nil {
		s.hub.Publish(ev)
	}
}
