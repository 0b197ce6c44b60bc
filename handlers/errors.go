// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/votepoll/server/identity"
	"github.com/votepoll/server/middleware"
	"github.com/votepoll/server/store"
)

// respondError maps core errors onto HTTP responses. Every rejection gets
// a distinguishable message; anything unrecognized is treated as a
// transient storage/collaborator failure the caller may retry.
func respondError(w http.ResponseWriter, err error) {
	var invalid *store.InvalidInputError
	switch {
	case errors.Is(err, store.ErrUnauthenticated):
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Authentication required")
	case errors.Is(err, identity.ErrInvalidToken):
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid session token")
	case errors.Is(err, store.ErrForbidden):
		middleware.ErrorResponse(w, http.StatusForbidden, "Admin role required")
	case errors.Is(err, store.ErrNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Not found")
	case errors.Is(err, store.ErrPollClosed):
		middleware.ErrorResponse(w, http.StatusConflict, "Poll is closed")
	case errors.Is(err, store.ErrAlreadyVoted):
		middleware.ErrorResponse(w, http.StatusConflict, "You have already voted on this poll")
	case errors.Is(err, store.ErrUsernameTaken):
		middleware.ErrorResponse(w, http.StatusConflict, "Username already taken")
	case errors.Is(err, store.ErrNotVoted):
		middleware.ErrorResponse(w, http.StatusForbidden, "Vote before viewing results")
	case errors.Is(err, store.ErrPasswordRequired):
		middleware.ErrorResponse(w, http.StatusForbidden, "Results password required")
	case errors.Is(err, store.ErrIncorrectPassword):
		middleware.ErrorResponse(w, http.StatusForbidden, "Incorrect password")
	case errors.As(err, &invalid):
		middleware.ErrorResponse(w, http.StatusBadRequest, invalid.Reason)
	default:
		slog.Error("request failed", "error", err)
		middleware.ErrorResponse(w, http.StatusServiceUnavailable, "Temporarily unavailable, retry later")
	}
}

// currentPrincipal resolves the caller from the Authorization header.
// Returns (nil, nil) for anonymous requests.
func currentPrincipal(r *http.Request, ids *identity.Resolver) (*identity.Principal, error) {
	return ids.ResolvePrincipal(r.Context(), identity.BearerToken(r))
}
