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

type VotingHandler struct {
	store *store.Store
	ids   *identity.Resolver
}

func NewVotingHandler(st *store.Store, ids *identity.Resolver) *VotingHandler {
	return &VotingHandler{store: st, ids: ids}
}

// CastVote handles POST /polls/{id}/votes
func (h *VotingHandler) CastVote(w http.ResponseWriter, r *http.Request) {
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

	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.OptionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "option_id is required")
		return
	}

	vote, err := h.store.CastVote(r.Context(), principal, pollID, req.OptionID)
	if err != nil {
		respondError(w, err)
		return
	}

	slog.Info("vote cast", "poll_id", pollID, "option_id", vote.OptionID)

	middleware.JSONResponse(w, http.StatusCreated, vote)
}

// MyVote handles GET /polls/{id}/my-vote
func (h *VotingHandler) MyVote(w http.ResponseWriter, r *http.Request) {
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

	voted, optionID, err := h.store.HasVoted(r.Context(), principal, pollID)
	if err != nil {
		respondError(w, err)
		return
	}

	resp := models.MyVoteResponse{HasVoted: voted}
	if voted {
		resp.OptionID = &optionID
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}
