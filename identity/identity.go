// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"

	"github.com/votepoll/server/models"
)

var (
	// ErrInvalidToken means a token was presented but failed validation.
	// Distinct from an absent token, which resolves to Anonymous.
	ErrInvalidToken = errors.New("invalid session token")
)

// Principal is an authenticated caller. A nil *Principal is Anonymous.
type Principal struct {
	ID    string
	Admin bool
}

// Resolver validates session tokens minted by the external auth service and
// resolves role membership against the user_roles table.
type Resolver struct {
	db     *sql.DB
	secret []byte
}

func NewResolver(db *sql.DB, sessionSecret string) *Resolver {
	return &Resolver{db: db, secret: []byte(sessionSecret)}
}

// ResolvePrincipal turns a session token into a Principal. An empty token
// resolves to Anonymous (nil, nil). A malformed or expired token returns
// ErrInvalidToken. The admin flag is re-resolved on every call so a revoked
// role takes effect immediately; a failed role lookup is surfaced as an
// error, never silently downgraded to Anonymous.
func (r *Resolver) ResolvePrincipal(ctx context.Context, token string) (*Principal, error) {
	if token == "" {
		return nil, nil
	}

	claims := jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return r.secret, nil
	})
	if err != nil || !parsed.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	admin, err := r.IsAdmin(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}

	return &Principal{ID: claims.Subject, Admin: admin}, nil
}

// IsAdmin reports whether the user holds the admin role. Always a fresh
// lookup; no cached role state is trusted across requests.
func (r *Resolver) IsAdmin(ctx context.Context, userID string) (bool, error) {
	var admin bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM user_roles
			WHERE user_id = $1 AND role = $2
		)
	`, userID, models.RoleAdmin).Scan(&admin)
	if err != nil {
		return false, fmt.Errorf("role lookup unavailable: %w", err)
	}
	return admin, nil
}

// BearerToken extracts the token from an Authorization: Bearer header.
// Returns "" when the header is absent or not a Bearer scheme.
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}
