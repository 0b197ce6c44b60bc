// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/votepoll/server/cliparse"
	"github.com/votepoll/server/handlers"
	"github.com/votepoll/server/identity"
	"github.com/votepoll/server/middleware"
	"github.com/votepoll/server/notify"
	"github.com/votepoll/server/store"
)

func NewRouter(db *sql.DB, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	hub := notify.NewHub()
	st := store.New(db, hub)
	ids := identity.NewResolver(db, cfg.SessionSecret)

	// Initialize handlers
	pollHandler := handlers.NewPollHandler(st, ids)
	votingHandler := handlers.NewVotingHandler(st, ids)
	resultsHandler := handlers.NewResultsHandler(st, ids)
	profileHandler := handlers.NewProfileHandler(st, ids)
	eventsHandler := handlers.NewEventsHandler(st, hub)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Poll management
	mux.HandleFunc("GET /polls", middleware.WithLogging(pollHandler.ListPolls))
	mux.HandleFunc("POST /polls", middleware.WithLogging(pollHandler.CreatePoll))
	mux.HandleFunc("GET /polls/{id}", middleware.WithLogging(pollHandler.GetPoll))
	mux.HandleFunc("DELETE /polls/{id}", middleware.WithLogging(pollHandler.DeletePoll))

	// Voting
	mux.HandleFunc("POST /polls/{id}/votes", middleware.WithLogging(votingHandler.CastVote))
	mux.HandleFunc("GET /polls/{id}/my-vote", middleware.WithLogging(votingHandler.MyVote))

	// Results (gated)
	mux.HandleFunc("GET /polls/{id}/results", middleware.WithLogging(resultsHandler.GetResults))

	// Profile
	mux.HandleFunc("GET /profile", middleware.WithLogging(profileHandler.GetProfile))
	mux.HandleFunc("PUT /profile", middleware.WithLogging(profileHandler.UpdateProfile))

	// Live change notifications (websocket; no logging wrapper, these are
	// long-lived connections)
	mux.HandleFunc("GET /events", eventsHandler.GlobalEvents)
	mux.HandleFunc("GET /polls/{id}/events", eventsHandler.PollEvents)

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("votepoll API v1"))
	})

	return mux
}
