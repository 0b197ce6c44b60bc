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

type PollHandler struct {
	store *store.Store
	ids   *identity.Resolver
}

func NewPollHandler(st *store.Store, ids *identity.Resolver) *PollHandler {
	return &PollHandler{store: st, ids: ids}
}

// CreatePoll handles POST /polls
func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	principal, err := currentPrincipal(r, h.ids)
	if err != nil {
		respondError(w, err)
		return
	}

	var req models.CreatePollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	poll, err := h.store.CreatePoll(r.Context(), principal, store.CreatePollParams{
		Title:          req.Title,
		Description:    req.Description,
		Options:        req.Options,
		ResultPassword: req.ResultPassword,
		ExpiresAt:      req.ExpiresAt,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	slog.Info("poll created", "poll_id", poll.Poll.ID, "created_by", principal.ID, "options", len(poll.Options))

	middleware.JSONResponse(w, http.StatusCreated, poll)
}

// ListPolls handles GET /polls
func (h *PollHandler) ListPolls(w http.ResponseWriter, r *http.Request) {
	polls, err := h.store.ListPolls(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, polls)
}

// GetPoll handles GET /polls/{id}
func (h *PollHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll id is required")
		return
	}

	poll, err := h.store.GetPoll(r.Context(), pollID)
	if err != nil {
		respondError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, poll)
}

// DeletePoll handles DELETE /polls/{id}
func (h *PollHandler) DeletePoll(w http.ResponseWriter, r *http.Request) {
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

	if err := h.store.DeletePoll(r.Context(), principal, pollID); err != nil {
		respondError(w, err)
		return
	}

	slog.Info("poll deleted", "poll_id", pollID, "deleted_by", principal.ID)

	w.WriteHeader(http.StatusNoContent)
}
