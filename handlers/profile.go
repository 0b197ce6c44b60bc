// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/votepoll/server/identity"
	"github.com/votepoll/server/middleware"
	"github.com/votepoll/server/models"
	"github.com/votepoll/server/store"
)

type ProfileHandler struct {
	store *store.Store
	ids   *identity.Resolver
}

func NewProfileHandler(st *store.Store, ids *identity.Resolver) *ProfileHandler {
	return &ProfileHandler{store: st, ids: ids}
}

// GetProfile handles GET /profile
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	principal, err := currentPrincipal(r, h.ids)
	if err != nil {
		respondError(w, err)
		return
	}

	profile, err := h.store.GetProfile(r.Context(), principal)
	if err != nil {
		respondError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, profile)
}

// UpdateProfile handles PUT /profile
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	principal, err := currentPrincipal(r, h.ids)
	if err != nil {
		respondError(w, err)
		return
	}

	var req models.UpdateProfileRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	profile, err := h.store.UpdateProfile(r.Context(), principal, req.Username)
	if err != nil {
		respondError(w, err)
		return
	}

	slog.Info("profile updated", "user_id", profile.ID)

	middleware.JSONResponse(w, http.StatusOK, profile)
}
