// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/votepoll/server/models"
	"github.com/votepoll/server/testutil"
)

// optionCounts returns (vote rows for option, votes_count column) so tests
// can assert the two never drift.
func optionCounts(t *testing.T, st *Store, optionID string) (rows int, counter int) {
	t.Helper()
	if err := st.db.QueryRow(`SELECT COUNT(*) FROM votes WHERE option_id = $1`, optionID).Scan(&rows); err != nil {
		t.Fatal(err)
	}
	if err := st.db.QueryRow(`SELECT votes_count FROM poll_options WHERE id = $1`, optionID).Scan(&counter); err != nil {
		t.Fatal(err)
	}
	return rows, counter
}

func TestCastVoteScenario(t *testing.T) {
	dbc := testutil.SetupTestDB(t)
	st := New(dbc, nil)
	ctx := context.Background()

	poll, err := st.CreatePoll(ctx, admin(), CreatePollParams{
		Title:   "Lunch?",
		Options: []string{"Pizza", "Sushi"},
	})
	if err != nil {
		t.Fatal(err)
	}
	pizza, sushi := poll.Options[0], poll.Options[1]

	// User A votes Pizza
	vote, err := st.CastVote(ctx, user("user-a"), poll.Poll.ID, pizza.ID)
	if err != nil {
		t.Fatal(err)
	}
	if vote.OptionID != pizza.ID {
		t.Errorf("Vote recorded for wrong option")
	}
	if rows, counter := optionCounts(t, st, pizza.ID); rows != 1 || counter != 1 {
		t.Errorf("Pizza: expected 1/1, got rows=%d counter=%d", rows, counter)
	}

	// User A votes again - rejected, counts unchanged
	_, err = st.CastVote(ctx, user("user-a"), poll.Poll.ID, sushi.ID)
	if !errors.Is(err, ErrAlreadyVoted) {
		t.Fatalf("Expected ErrAlreadyVoted, got %v", err)
	}
	if rows, counter := optionCounts(t, st, pizza.ID); rows != 1 || counter != 1 {
		t.Errorf("Counts changed by rejected vote: rows=%d counter=%d", rows, counter)
	}
	if rows, counter := optionCounts(t, st, sushi.ID); rows != 0 || counter != 0 {
		t.Errorf("Sushi gained votes from rejected attempt: rows=%d counter=%d", rows, counter)
	}

	// User B votes Sushi
	if _, err := st.CastVote(ctx, user("user-b"), poll.Poll.ID, sushi.ID); err != nil {
		t.Fatal(err)
	}
	if rows, counter := optionCounts(t, st, sushi.ID); rows != 1 || counter != 1 {
		t.Errorf("Sushi: expected 1/1, got rows=%d counter=%d", rows, counter)
	}

	options, err := st.ListOptions(ctx, poll.Poll.ID)
	if err != nil {
		t.Fatal(err)
	}
	total := 0
	for _, opt := range options {
		total += opt.VotesCount
	}
	if total != 2 {
		t.Errorf("Expected 2 total votes, got %d", total)
	}
}

func TestCastVotePreconditions(t *testing.T) {
	dbc := testutil.SetupTestDB(t)
	st := New(dbc, nil)
	ctx := context.Background()

	past := time.Now().UTC().Add(-time.Hour)

	activeID := testutil.InsertPoll(t, dbc, models.Poll{Title: "active", CreatedBy: "u", IsActive: true})
	activeOpt := testutil.AddTestOption(t, dbc, activeID, "A", 0)
	testutil.AddTestOption(t, dbc, activeID, "B", 1)

	expiredID := testutil.InsertPoll(t, dbc, models.Poll{Title: "expired", CreatedBy: "u", IsActive: true, ExpiresAt: &past})
	expiredOpt := testutil.AddTestOption(t, dbc, expiredID, "A", 0)

	inactiveID := testutil.InsertPoll(t, dbc, models.Poll{Title: "inactive", CreatedBy: "u", IsActive: false})
	inactiveOpt := testutil.AddTestOption(t, dbc, inactiveID, "A", 0)

	t.Run("anonymous", func(t *testing.T) {
		_, err := st.CastVote(ctx, nil, activeID, activeOpt)
		if !errors.Is(err, ErrUnauthenticated) {
			t.Errorf("Expected ErrUnauthenticated, got %v", err)
		}
	})

	t.Run("unknown poll", func(t *testing.T) {
		_, err := st.CastVote(ctx, user("u1"), "no-such-poll", activeOpt)
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("expired poll rejects even when active", func(t *testing.T) {
		_, err := st.CastVote(ctx, user("u1"), expiredID, expiredOpt)
		if !errors.Is(err, ErrPollClosed) {
			t.Errorf("Expected ErrPollClosed, got %v", err)
		}
	})

	t.Run("inactive poll", func(t *testing.T) {
		_, err := st.CastVote(ctx, user("u1"), inactiveID, inactiveOpt)
		if !errors.Is(err, ErrPollClosed) {
			t.Errorf("Expected ErrPollClosed, got %v", err)
		}
	})

	t.Run("cross-poll option", func(t *testing.T) {
		_, err := st.CastVote(ctx, user("u1"), activeID, inactiveOpt)
		var invalid *InvalidInputError
		if !errors.As(err, &invalid) {
			t.Errorf("Expected InvalidInputError, got %v", err)
		}
	})

	t.Run("unknown option", func(t *testing.T) {
		_, err := st.CastVote(ctx, user("u1"), activeID, "no-such-option")
		var invalid *InvalidInputError
		if !errors.As(err, &invalid) {
			t.Errorf("Expected InvalidInputError, got %v", err)
		}
	})

	// None of the rejected attempts may have left votes behind
	var votes int
	if err := dbc.QueryRow(`SELECT COUNT(*) FROM votes`).Scan(&votes); err != nil {
		t.Fatal(err)
	}
	if votes != 0 {
		t.Errorf("Expected no votes after rejected attempts, got %d", votes)
	}
}

func TestHasVoted(t *testing.T) {
	dbc := testutil.SetupTestDB(t)
	st := New(dbc, nil)
	ctx := context.Background()

	pollID := testutil.InsertPoll(t, dbc, models.Poll{CreatedBy: "u", IsActive: true})
	optionID := testutil.AddTestOption(t, dbc, pollID, "A", 0)
	testutil.AddTestOption(t, dbc, pollID, "B", 1)

	if _, _, err := st.HasVoted(ctx, nil, pollID); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("Expected ErrUnauthenticated for anonymous")
	}

	voted, _, err := st.HasVoted(ctx, user("u1"), pollID)
	if err != nil {
		t.Fatal(err)
	}
	if voted {
		t.Error("Expected no vote yet")
	}

	if _, err := st.CastVote(ctx, user("u1"), pollID, optionID); err != nil {
		t.Fatal(err)
	}

	voted, votedOption, err := st.HasVoted(ctx, user("u1"), pollID)
	if err != nil {
		t.Fatal(err)
	}
	if !voted || votedOption != optionID {
		t.Errorf("Expected vote for %s, got voted=%v option=%s", optionID, voted, votedOption)
	}
}

// TestConcurrentDuplicateVotes drives the uniqueness guarantee: N racing
// submissions from the same user serialize to exactly one winner.
func TestConcurrentDuplicateVotes(t *testing.T) {
	dbc := testutil.SetupTestDB(t)
	st := New(dbc, nil)
	ctx := context.Background()

	pollID := testutil.InsertPoll(t, dbc, models.Poll{CreatedBy: "u", IsActive: true})
	optionID := testutil.AddTestOption(t, dbc, pollID, "A", 0)
	testutil.AddTestOption(t, dbc, pollID, "B", 1)

	const attempts = 10
	var successes, duplicates atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := st.CastVote(ctx, user("same-user"), pollID, optionID)
			switch {
			case err == nil:
				successes.Add(1)
			case errors.Is(err, ErrAlreadyVoted):
				duplicates.Add(1)
			default:
				t.Errorf("Unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if successes.Load() != 1 {
		t.Errorf("Expected exactly 1 success, got %d", successes.Load())
	}
	if duplicates.Load() != attempts-1 {
		t.Errorf("Expected %d AlreadyVoted, got %d", attempts-1, duplicates.Load())
	}

	if rows, counter := optionCounts(t, st, optionID); rows != 1 || counter != 1 {
		t.Errorf("Expected 1/1 after race, got rows=%d counter=%d", rows, counter)
	}
}

// TestConcurrentDistinctVoters checks that no increment is lost when many
// voters hit the same option at once.
func TestConcurrentDistinctVoters(t *testing.T) {
	dbc := testutil.SetupTestDB(t)
	st := New(dbc, nil)
	ctx := context.Background()

	pollID := testutil.InsertPoll(t, dbc, models.Poll{CreatedBy: "u", IsActive: true})
	optionID := testutil.AddTestOption(t, dbc, pollID, "A", 0)
	testutil.AddTestOption(t, dbc, pollID, "B", 1)

	const voters = 10
	var wg sync.WaitGroup
	for i := 0; i < voters; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			if _, err := st.CastVote(ctx, user("voter-"+string(rune('a'+n))), pollID, optionID); err != nil {
				t.Errorf("Vote failed: %v", err)
			}
		}(i)
	}
	wg.Wait()

	if rows, counter := optionCounts(t, st, optionID); rows != voters || counter != voters {
		t.Errorf("Expected %d/%d, got rows=%d counter=%d", voters, voters, rows, counter)
	}
}
