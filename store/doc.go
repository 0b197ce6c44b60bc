// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store is the poll/vote consistency core: poll lifecycle, the
option ledger, vote admission, and result gating.

# Vote Admission

CastVote is the one write path for votes:

	vote, err := st.CastVote(ctx, principal, pollID, optionID)

Precondition order (first failure wins): ErrUnauthenticated, ErrNotFound,
ErrPollClosed (inactive or expired), invalid input (option from another
poll), ErrAlreadyVoted.

Two mechanisms carry the correctness argument, both in the database:

  - the votes PRIMARY KEY (poll_id, user_id) makes concurrent duplicate
    submissions serialize to exactly one winner - there is no
    check-then-insert window
  - votes_count moves only via "votes_count = votes_count + 1" inside the
    same transaction as the vote insert, so counts and vote rows cannot
    drift and concurrent increments are never lost

No application-level lock is held anywhere on the vote path. A cancelled
call that has not committed leaves no partial state. CastVote never
retries on its own: a timed-out write may have committed, and retrying
could double-count - callers re-query HasVoted first.

# Result Gating

	res, err := st.Results(ctx, principal, pollID, password)

Results are disclosed iff the viewer has voted and, when the poll carries
a results password, supplies it exactly. Refusals are distinguishable:
ErrNotVoted, ErrPasswordRequired, ErrIncorrectPassword. Admins pass the
same gate.

# Poll Lifecycle

Polls are created active, by admins, with their 2-10 options in one
transaction. Deletion cascades to options and votes atomically. Expiry is
derived from the stored expires_at and the clock at read time; it is
never persisted as a transition, so no background sweeper exists.

# Change Notification

After a successful commit the store publishes an invalidation hint to the
notify hub. Events are published strictly after commit, never for rolled
back work.
*/
package store
