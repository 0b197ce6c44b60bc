// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/votepoll/server/identity"
	"github.com/votepoll/server/models"
	"github.com/votepoll/server/testutil"
)

func admin() *identity.Principal {
	return &identity.Principal{ID: "admin-user", Admin: true}
}

func user(id string) *identity.Principal {
	return &identity.Principal{ID: id}
}

func validParams() CreatePollParams {
	return CreatePollParams{
		Title:   "Lunch?",
		Options: []string{"Pizza", "Sushi"},
	}
}

func TestCreatePollValidation(t *testing.T) {
	dbc := testutil.SetupTestDB(t)
	st := New(dbc, nil)
	ctx := context.Background()

	past := time.Now().Add(-time.Hour)

	tests := []struct {
		name      string
		principal *identity.Principal
		mutate    func(*CreatePollParams)
		wantErr   error
		wantInput bool
	}{
		{name: "anonymous", principal: nil, wantErr: ErrUnauthenticated},
		{name: "non-admin", principal: user("u1"), wantErr: ErrForbidden},
		{name: "empty title", principal: admin(), mutate: func(p *CreatePollParams) { p.Title = "   " }, wantInput: true},
		{name: "title 201 chars", principal: admin(), mutate: func(p *CreatePollParams) { p.Title = strings.Repeat("x", 201) }, wantInput: true},
		{name: "description 501 chars", principal: admin(), mutate: func(p *CreatePollParams) { p.Description = strings.Repeat("x", 501) }, wantInput: true},
		{name: "password 101 chars", principal: admin(), mutate: func(p *CreatePollParams) { p.ResultPassword = strings.Repeat("x", 101) }, wantInput: true},
		{name: "one option", principal: admin(), mutate: func(p *CreatePollParams) { p.Options = []string{"only"} }, wantInput: true},
		{name: "eleven options", principal: admin(), mutate: func(p *CreatePollParams) {
			p.Options = make([]string, 11)
			for i := range p.Options {
				p.Options[i] = "opt"
			}
		}, wantInput: true},
		{name: "blank option", principal: admin(), mutate: func(p *CreatePollParams) { p.Options = []string{"a", "  "} }, wantInput: true},
		{name: "past expiry", principal: admin(), mutate: func(p *CreatePollParams) { p.ExpiresAt = &past }, wantInput: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			params := validParams()
			if tc.mutate != nil {
				tc.mutate(&params)
			}

			_, err := st.CreatePoll(ctx, tc.principal, params)
			if tc.wantInput {
				var invalid *InvalidInputError
				if !errors.As(err, &invalid) {
					t.Fatalf("Expected InvalidInputError, got %v", err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("Expected %v, got %v", tc.wantErr, err)
			}
		})
	}

	// Rejected requests must leave no rows behind
	var polls, options int
	if err := dbc.QueryRow(`SELECT COUNT(*) FROM polls`).Scan(&polls); err != nil {
		t.Fatal(err)
	}
	if err := dbc.QueryRow(`SELECT COUNT(*) FROM poll_options`).Scan(&options); err != nil {
		t.Fatal(err)
	}
	if polls != 0 || options != 0 {
		t.Errorf("Expected no rows after rejected creates, got %d polls %d options", polls, options)
	}
}

func TestCreatePollBoundaries(t *testing.T) {
	dbc := testutil.SetupTestDB(t)
	st := New(dbc, nil)
	ctx := context.Background()

	// Exactly 200-char title, exactly 2 options
	params := validParams()
	params.Title = strings.Repeat("x", 200)
	if _, err := st.CreatePoll(ctx, admin(), params); err != nil {
		t.Fatalf("200-char title should succeed: %v", err)
	}

	// Exactly 10 options
	params = validParams()
	params.Options = make([]string, 10)
	for i := range params.Options {
		params.Options[i] = "option"
	}
	poll, err := st.CreatePoll(ctx, admin(), params)
	if err != nil {
		t.Fatalf("10 options should succeed: %v", err)
	}
	if len(poll.Options) != 10 {
		t.Errorf("Expected 10 options, got %d", len(poll.Options))
	}
	for i, opt := range poll.Options {
		if opt.Position != i {
			t.Errorf("Option %d has position %d", i, opt.Position)
		}
		if opt.VotesCount != 0 {
			t.Errorf("New option has votes_count %d", opt.VotesCount)
		}
	}
}

func TestCreatePollTrimsAndStoresPassword(t *testing.T) {
	dbc := testutil.SetupTestDB(t)
	st := New(dbc, nil)

	params := CreatePollParams{
		Title:          "  Lunch?  ",
		Description:    " where to  ",
		Options:        []string{" Pizza ", "Sushi"},
		ResultPassword: " abc ",
	}
	poll, err := st.CreatePoll(context.Background(), admin(), params)
	if err != nil {
		t.Fatal(err)
	}
	if poll.Poll.Title != "Lunch?" {
		t.Errorf("Title not trimmed: %q", poll.Poll.Title)
	}
	if poll.Options[0].OptionText != "Pizza" {
		t.Errorf("Option not trimmed: %q", poll.Options[0].OptionText)
	}
	if !poll.Poll.HasResultPassword {
		t.Error("Expected HasResultPassword")
	}
	if poll.Poll.ResultPassword == nil || *poll.Poll.ResultPassword != "abc" {
		t.Error("Expected trimmed stored password")
	}
}

func TestGetPollNotFound(t *testing.T) {
	dbc := testutil.SetupTestDB(t)
	st := New(dbc, nil)

	_, err := st.GetPoll(context.Background(), "no-such-poll")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestListPollsNewestFirst(t *testing.T) {
	dbc := testutil.SetupTestDB(t)
	st := New(dbc, nil)

	base := time.Now().UTC().Add(-time.Hour)
	oldID := testutil.InsertPoll(t, dbc, models.Poll{Title: "old", CreatedBy: "u", IsActive: true, CreatedAt: base})
	midID := testutil.InsertPoll(t, dbc, models.Poll{Title: "mid", CreatedBy: "u", IsActive: true, CreatedAt: base.Add(time.Minute)})
	newID := testutil.InsertPoll(t, dbc, models.Poll{Title: "new", CreatedBy: "u", IsActive: true, CreatedAt: base.Add(2 * time.Minute)})
	testutil.AddTestOption(t, dbc, newID, "A", 0)
	testutil.AddTestOption(t, dbc, newID, "B", 1)

	polls, err := st.ListPolls(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(polls) != 3 {
		t.Fatalf("Expected 3 polls, got %d", len(polls))
	}
	if polls[0].Poll.ID != newID || polls[1].Poll.ID != midID || polls[2].Poll.ID != oldID {
		t.Errorf("Wrong order: %s, %s, %s", polls[0].Poll.Title, polls[1].Poll.Title, polls[2].Poll.Title)
	}
	if len(polls[0].Options) != 2 {
		t.Errorf("Expected newest poll to carry 2 options, got %d", len(polls[0].Options))
	}
}

func TestListOptionsCreationOrderAndIdempotence(t *testing.T) {
	dbc := testutil.SetupTestDB(t)
	st := New(dbc, nil)
	ctx := context.Background()

	pollID := testutil.InsertPoll(t, dbc, models.Poll{CreatedBy: "u", IsActive: true})
	testutil.AddTestOption(t, dbc, pollID, "first", 0)
	testutil.AddTestOption(t, dbc, pollID, "second", 1)
	testutil.AddTestOption(t, dbc, pollID, "third", 2)

	first, err := st.ListOptions(ctx, pollID)
	if err != nil {
		t.Fatal(err)
	}
	second, err := st.ListOptions(ctx, pollID)
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"first", "second", "third"}
	for i, opt := range first {
		if opt.OptionText != want[i] {
			t.Errorf("Position %d: expected %q, got %q", i, want[i], opt.OptionText)
		}
	}
	// Two reads with no intervening vote are identical
	for i := range first {
		if first[i].VotesCount != second[i].VotesCount {
			t.Errorf("Read not idempotent at position %d", i)
		}
	}
}

func TestDeletePollCascades(t *testing.T) {
	dbc := testutil.SetupTestDB(t)
	st := New(dbc, nil)
	ctx := context.Background()

	pollID := testutil.InsertPoll(t, dbc, models.Poll{CreatedBy: "u", IsActive: true})
	optionID := testutil.AddTestOption(t, dbc, pollID, "A", 0)
	testutil.AddTestOption(t, dbc, pollID, "B", 1)
	if _, err := st.CastVote(ctx, user("voter-1"), pollID, optionID); err != nil {
		t.Fatal(err)
	}

	if err := st.DeletePoll(ctx, user("u1"), pollID); !errors.Is(err, ErrForbidden) {
		t.Errorf("Expected ErrForbidden for non-admin, got %v", err)
	}
	if err := st.DeletePoll(ctx, admin(), "no-such-poll"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	if err := st.DeletePoll(ctx, admin(), pollID); err != nil {
		t.Fatal(err)
	}

	for _, table := range []string{"polls", "poll_options", "votes"} {
		var count int
		if err := dbc.QueryRow(`SELECT COUNT(*) FROM ` + table).Scan(&count); err != nil {
			t.Fatal(err)
		}
		if count != 0 {
			t.Errorf("Expected %s empty after delete, got %d rows", table, count)
		}
	}
}

func TestIsExpired(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	if IsExpired(&models.Poll{}, now) {
		t.Error("Poll without expiry must never expire")
	}
	if !IsExpired(&models.Poll{ExpiresAt: &past}, now) {
		t.Error("Past expiry should be expired")
	}
	if IsExpired(&models.Poll{ExpiresAt: &future}, now) {
		t.Error("Future expiry should not be expired")
	}
}

func TestCreatorNameResolution(t *testing.T) {
	dbc := testutil.SetupTestDB(t)
	st := New(dbc, nil)
	ctx := context.Background()

	userID := testutil.CreateTestUser(t, dbc, "alice")
	pollID := testutil.InsertPoll(t, dbc, models.Poll{CreatedBy: userID, IsActive: true})
	orphanID := testutil.InsertPoll(t, dbc, models.Poll{CreatedBy: "deleted-user", IsActive: true})

	poll, err := st.GetPoll(ctx, pollID)
	if err != nil {
		t.Fatal(err)
	}
	if poll.Poll.CreatorName != "alice" {
		t.Errorf("Expected creator name alice, got %q", poll.Poll.CreatorName)
	}

	orphan, err := st.GetPoll(ctx, orphanID)
	if err != nil {
		t.Fatal(err)
	}
	if orphan.Poll.CreatorName != "Anonymous" {
		t.Errorf("Expected Anonymous fallback, got %q", orphan.Poll.CreatorName)
	}
}
