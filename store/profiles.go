// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/votepoll/server/identity"
	"github.com/votepoll/server/models"
)

// GetProfile returns the principal's profile, or ErrNotFound if none has
// been created yet.
func (s *Store) GetProfile(ctx context.Context, principal *identity.Principal) (*models.Profile, error) {
	if principal == nil {
		return nil, ErrUnauthenticated
	}

	var profile models.Profile
	err := s.db.QueryRowContext(ctx, `
		SELECT id, username, created_at FROM profiles WHERE id = $1
	`, principal.ID).Scan(&profile.ID, &profile.Username, &profile.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query profile: %w", err)
	}
	return &profile, nil
}

// UpdateProfile creates or updates the principal's profile username.
// Usernames are unique; a conflict surfaces as ErrUsernameTaken.
func (s *Store) UpdateProfile(ctx context.Context, principal *identity.Principal, username string) (*models.Profile, error) {
	if principal == nil {
		return nil, ErrUnauthenticated
	}

	username = strings.TrimSpace(username)
	if utf8.RuneCountInString(username) < 3 {
		return nil, invalidInput("username must be at least 3 characters")
	}
	if utf8.RuneCountInString(username) > 50 {
		return nil, invalidInput("username must be at most 50 characters")
	}

	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO profiles (id, username, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET username = excluded.username
	`, principal.ID, username, now)
	if isUniqueViolation(err) {
		return nil, ErrUsernameTaken
	}
	if err != nil {
		return nil, fmt.Errorf("upsert profile: %w", err)
	}

	return s.GetProfile(ctx, principal)
}
