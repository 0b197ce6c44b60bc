// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/votepoll/server/identity"
	"github.com/votepoll/server/models"
	"github.com/votepoll/server/notify"
)

// CastVote admits at most one vote per user per poll.
//
// Preconditions are checked in order, first failure wins: authenticated,
// poll exists, poll open (active and not expired), option belongs to the
// poll. Uniqueness is NOT pre-checked: the insert races against concurrent
// duplicates and the votes primary key decides the winner, so exactly one
// of N concurrent submissions succeeds and the rest fail with
// ErrAlreadyVoted.
//
// The vote insert and the option counter increment commit in a single
// transaction: a vote never exists without its counted increment, and no
// increment happens without a backing vote row. Cancellation before commit
// rolls both back.
func (s *Store) CastVote(ctx context.Context, principal *identity.Principal, pollID, optionID string) (*models.Vote, error) {
	if principal == nil {
		return nil, ErrUnauthenticated
	}

	poll, err := s.pollByID(ctx, pollID)
	if err != nil {
		return nil, err
	}
	if !poll.IsActive || IsExpired(poll, time.Now()) {
		return nil, ErrPollClosed
	}

	var optionPollID string
	err = s.db.QueryRowContext(ctx, `SELECT poll_id FROM poll_options WHERE id = $1`, optionID).Scan(&optionPollID)
	if err == sql.ErrNoRows || (err == nil && optionPollID != pollID) {
		return nil, invalidInput("option does not belong to this poll")
	}
	if err != nil {
		return nil, fmt.Errorf("query option: %w", err)
	}

	vote := models.Vote{
		PollID:    pollID,
		OptionID:  optionID,
		UserID:    principal.ID,
		CreatedAt: time.Now().UTC(),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin cast vote: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO votes (poll_id, option_id, user_id, created_at)
		VALUES ($1, $2, $3, $4)
	`, vote.PollID, vote.OptionID, vote.UserID, vote.CreatedAt)
	if isUniqueViolation(err) {
		return nil, ErrAlreadyVoted
	}
	if err != nil {
		return nil, fmt.Errorf("insert vote: %w", err)
	}

	// In-database increment; read-modify-write from here would lose
	// updates under concurrency.
	var newCount int
	err = tx.QueryRowContext(ctx, `
		UPDATE poll_options SET votes_count = votes_count + 1
		WHERE id = $1
		RETURNING votes_count
	`, optionID).Scan(&newCount)
	if err != nil {
		return nil, fmt.Errorf("increment votes_count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit cast vote: %w", err)
	}

	s.publish(notify.Event{Kind: notify.KindVotesChanged, PollID: pollID})

	return &vote, nil
}

// HasVoted reports whether the principal has voted on the poll and, if so,
// for which option. Read-only; used to drive result gating and UI state.
func (s *Store) HasVoted(ctx context.Context, principal *identity.Principal, pollID string) (bool, string, error) {
	if principal == nil {
		return false, "", ErrUnauthenticated
	}

	var optionID string
	err := s.db.QueryRowContext(ctx, `
		SELECT option_id FROM votes WHERE poll_id = $1 AND user_id = $2
	`, pollID, principal.ID).Scan(&optionID)
	if err == sql.ErrNoRows {
		return false, "", nil
	}
	if err != nil {
		return false, "", fmt.Errorf("query vote: %w", err)
	}
	return true, optionID, nil
}
