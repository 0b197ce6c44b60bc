// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

var (
	ErrUnauthenticated   = errors.New("authentication required")
	ErrForbidden         = errors.New("admin role required")
	ErrNotFound          = errors.New("not found")
	ErrPollClosed        = errors.New("poll is closed")
	ErrAlreadyVoted      = errors.New("already voted on this poll")
	ErrNotVoted          = errors.New("vote before viewing results")
	ErrPasswordRequired  = errors.New("results password required")
	ErrIncorrectPassword = errors.New("incorrect results password")
	ErrUsernameTaken     = errors.New("username already taken")
)

// InvalidInputError carries the specific validation failure so every
// rejected request yields a distinguishable reason.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string { return e.Reason }

func invalidInput(format string, args ...any) error {
	return &InvalidInputError{Reason: fmt.Sprintf(format, args...)}
}

// isUniqueViolation recognizes unique-constraint failures from both
// supported drivers so the engine can translate them into domain errors
// (AlreadyVoted, UsernameTaken) instead of leaking storage errors.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	// modernc.org/sqlite reports constraint failures by message
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
