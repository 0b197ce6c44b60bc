// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"

	"github.com/votepoll/server/identity"
	"github.com/votepoll/server/models"
)

// CanViewResults applies the result gate: the viewer must have voted, and
// a password-gated poll additionally requires the exact password. Admins
// get no bypass; they pass the same gate as everyone else. Returns nil
// when results may be disclosed, otherwise the specific refusal.
func CanViewResults(poll *models.Poll, hasVoted bool, suppliedPassword string) error {
	if !hasVoted {
		return ErrNotVoted
	}
	if poll.ResultPassword == nil || *poll.ResultPassword == "" {
		return nil
	}
	if suppliedPassword == "" {
		return ErrPasswordRequired
	}
	// Plain equality against the stored value, matching the observed
	// product behavior. See DESIGN.md before changing this.
	if suppliedPassword != *poll.ResultPassword {
		return ErrIncorrectPassword
	}
	return nil
}

// Results discloses the aggregated tally to an authorized viewer.
func (s *Store) Results(ctx context.Context, principal *identity.Principal, pollID, suppliedPassword string) (*models.ResultsResponse, error) {
	if principal == nil {
		return nil, ErrUnauthenticated
	}

	poll, err := s.pollByID(ctx, pollID)
	if err != nil {
		return nil, err
	}

	voted, _, err := s.HasVoted(ctx, principal, pollID)
	if err != nil {
		return nil, err
	}
	if err := CanViewResults(poll, voted, suppliedPassword); err != nil {
		return nil, err
	}

	options, err := s.ListOptions(ctx, pollID)
	if err != nil {
		return nil, err
	}
	total := 0
	for _, opt := range options {
		total += opt.VotesCount
	}

	return &models.ResultsResponse{Poll: *poll, Options: options, TotalVotes: total}, nil
}
