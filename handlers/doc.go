// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the VotePoll API.

# Handler Types

Each handler is a struct with store and identity dependencies:

  - PollHandler: poll lifecycle (create, list, get, delete)
  - VotingHandler: vote casting and my-vote lookup
  - ResultsHandler: gated result retrieval
  - ProfileHandler: profile read/update
  - EventsHandler: websocket change-notification feeds

Handlers are created via constructor functions:

	pollHandler := handlers.NewPollHandler(st, ids)

# Authentication

Callers present a Bearer session token minted by the external auth
service. A missing header is Anonymous: allowed to read polls, not to
create, vote, or view results. Admin-only operations (create, delete)
re-resolve role membership on every request.

# Voting Flow

	POST /polls/{id}/votes    → CastVote (201, or 409 AlreadyVoted/PollClosed)
	GET  /polls/{id}/my-vote  → MyVote

# Results

	GET /polls/{id}/results

Requires having voted; password-gated polls also require the
X-Results-Password header. Refusals are distinguishable: not voted,
password required, incorrect password.

# Live Updates

	GET /events             → poll-list hints (created/deleted)
	GET /polls/{id}/events  → per-poll hints (vote counts, deletion)

Both are websocket endpoints carrying notify.Event JSON. Events are
invalidation hints; clients re-fetch the REST resources on receipt.
*/
package handlers
