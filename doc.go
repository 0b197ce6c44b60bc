// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the VotePoll API server.

VotePoll lets authenticated users vote exactly once per poll and watch
aggregated results live. Admins create polls with 2-10 fixed options,
optional expiry, and an optional results password.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=postgres://... SESSION_SECRET=... go run main.go

Or with flags:

	go run main.go -p 8080 -d "postgres://..." --session-secret "..."

A .env file in the working directory is loaded automatically.

# Configuration

Required settings:

  - DATABASE_URL (-d): connection string
  - SESSION_SECRET (--session-secret): HMAC secret shared with the
    external auth service that mints session tokens

Optional settings:

  - PORT (-p): Server port (default: 8080)
  - DATABASE_TYPE (-t): "sqlite" (default) or "postgres"

# Architecture

The server uses a handler-based architecture with dependency injection:

  - store: poll/vote/result core (uniqueness, atomic counts, gating)
  - identity: session-token resolution and admin role lookup
  - notify: change-notification hub for live result views
  - handlers: HTTP request handlers (polls, voting, results, profile, events)
  - router: route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: request/response types
  - db: schema creation
  - cliparse: configuration parsing

See package documentation for each component.
*/
package main
