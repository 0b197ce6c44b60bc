// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines the HTTP route table.

NewRouter wires the store, identity resolver, and notification hub into
handlers and registers all routes on a ServeMux using Go 1.22+ method
patterns:

	mux := router.NewRouter(db, cfg)

Routes:

	GET    /health
	GET    /polls
	POST   /polls                 (admin)
	GET    /polls/{id}
	DELETE /polls/{id}            (admin)
	POST   /polls/{id}/votes      (authenticated)
	GET    /polls/{id}/my-vote    (authenticated)
	GET    /polls/{id}/results    (authenticated, gated)
	GET    /polls/{id}/events     (websocket)
	GET    /events                (websocket)
	GET    /profile               (authenticated)
	PUT    /profile               (authenticated)
*/
package router
