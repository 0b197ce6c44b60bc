// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package identity resolves the calling principal from a session token.

Authentication itself lives in an external auth service; this package only
validates the HS256 session tokens that service mints (shared
SESSION_SECRET) and looks up role membership in the user_roles table.

# Resolving a Principal

	ids := identity.NewResolver(db, cfg.SessionSecret)
	principal, err := ids.ResolvePrincipal(ctx, identity.BearerToken(r))

Three outcomes:

  - no token → (nil, nil): Anonymous, may read public polls
  - bad token → ErrInvalidToken: presented credential failed validation
  - good token → *Principal with Admin resolved from user_roles

# Role Lookups

Admin status is re-queried on every resolution. A failed lookup is an
error (identity unavailable), not Anonymous - downgrading would mask
authorization failures as anonymous access.
*/
package identity
