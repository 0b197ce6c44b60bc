// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/votepoll/server/middleware"
	"github.com/votepoll/server/notify"
	"github.com/votepoll/server/store"
)

type EventsHandler struct {
	store *store.Store
	hub   *notify.Hub
}

func NewEventsHandler(st *store.Store, hub *notify.Hub) *EventsHandler {
	return &EventsHandler{store: st, hub: hub}
}

// GlobalEvents handles GET /events
// Streams poll-list invalidation hints over a websocket.
func (h *EventsHandler) GlobalEvents(w http.ResponseWriter, r *http.Request) {
	h.stream(w, r, "")
}

// PollEvents handles GET /polls/{id}/events
// Streams invalidation hints for one poll over a websocket.
func (h *EventsHandler) PollEvents(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll id is required")
		return
	}

	// Reject unknown polls before upgrading the connection.
	if _, err := h.store.GetPoll(r.Context(), pollID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			middleware.ErrorResponse(w, http.StatusNotFound, "Not found")
			return
		}
		respondError(w, err)
		return
	}

	h.stream(w, r, pollID)
}

func (h *EventsHandler) stream(w http.ResponseWriter, r *http.Request, pollID string) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		return
	}
	defer conn.CloseNow()

	// CloseRead cancels the context when the client goes away.
	ctx := conn.CloseRead(r.Context())

	events, cancel := h.hub.Subscribe(pollID)
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			conn.Close(websocket.StatusNormalClosure, "closed")
			return
		case ev := <-events:
			if err := wsjson.Write(ctx, conn, ev); err != nil {
				return
			}
		}
	}
}
