// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/votepoll/server/identity"
	"github.com/votepoll/server/middleware"
	"github.com/votepoll/server/store"
)

type ResultsHandler struct {
	store *store.Store
	ids   *identity.Resolver
}

func NewResultsHandler(st *store.Store, ids *identity.Resolver) *ResultsHandler {
	return &ResultsHandler{store: st, ids: ids}
}

// GetResults handles GET /polls/{id}/results
// The viewer must have voted; a password-gated poll additionally requires
// the X-Results-Password header.
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll id is required")
		return
	}

	principal, err := currentPrincipal(r, h.ids)
	if err != nil {
		respondError(w, err)
		return
	}

	password := r.Header.Get("X-Results-Password")

	results, err := h.store.Results(r.Context(), principal, pollID, password)
	if err != nil {
		respondError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, results)
}
