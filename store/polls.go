// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/votepoll/server/identity"
	"github.com/votepoll/server/models"
	"github.com/votepoll/server/notify"
)

type CreatePollParams struct {
	Title          string
	Description    string
	Options        []string
	ResultPassword string
	ExpiresAt      *time.Time
}

// CreatePoll validates the request and creates the poll together with its
// full option set in one transaction: a poll is never observable with a
// partial option set. Admin only.
func (s *Store) CreatePoll(ctx context.Context, principal *identity.Principal, p CreatePollParams) (*models.PollWithOptions, error) {
	if principal == nil {
		return nil, ErrUnauthenticated
	}
	if !principal.Admin {
		return nil, ErrForbidden
	}

	// Validate everything before touching the database.
	title := strings.TrimSpace(p.Title)
	if n := utf8.RuneCountInString(title); n < 1 || n > models.TitleMaxLen {
		return nil, invalidInput("title must be 1-%d characters", models.TitleMaxLen)
	}
	description := strings.TrimSpace(p.Description)
	if utf8.RuneCountInString(description) > models.DescriptionMaxLen {
		return nil, invalidInput("description must be at most %d characters", models.DescriptionMaxLen)
	}
	password := strings.TrimSpace(p.ResultPassword)
	if utf8.RuneCountInString(password) > models.PasswordMaxLen {
		return nil, invalidInput("result password must be at most %d characters", models.PasswordMaxLen)
	}
	options := make([]string, 0, len(p.Options))
	for _, opt := range p.Options {
		opt = strings.TrimSpace(opt)
		if opt == "" {
			return nil, invalidInput("options cannot be empty")
		}
		options = append(options, opt)
	}
	if len(options) < models.MinOptions || len(options) > models.MaxOptions {
		return nil, invalidInput("polls must have between %d and %d options", models.MinOptions, models.MaxOptions)
	}
	now := time.Now().UTC()
	if p.ExpiresAt != nil && !p.ExpiresAt.After(now) {
		return nil, invalidInput("expiry must be in the future")
	}

	var resultPassword *string
	if password != "" {
		resultPassword = &password
	}

	poll := models.Poll{
		ID:                uuid.NewString(),
		Title:             title,
		Description:       description,
		CreatedBy:         principal.ID,
		CreatorName:       s.usernameOf(ctx, principal.ID),
		ExpiresAt:         p.ExpiresAt,
		IsActive:          true,
		CreatedAt:         now,
		ResultPassword:    resultPassword,
		HasResultPassword: resultPassword != nil,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin create poll: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO polls (id, title, description, created_by, result_password, expires_at, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, poll.ID, poll.Title, poll.Description, poll.CreatedBy, poll.ResultPassword, poll.ExpiresAt, poll.IsActive, poll.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert poll: %w", err)
	}

	opts := make([]models.Option, 0, len(options))
	for i, text := range options {
		opt := models.Option{
			ID:         uuid.NewString(),
			PollID:     poll.ID,
			OptionText: text,
			Position:   i,
			VotesCount: 0,
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO poll_options (id, poll_id, option_text, position, votes_count)
			VALUES ($1, $2, $3, $4, 0)
		`, opt.ID, opt.PollID, opt.OptionText, opt.Position)
		if err != nil {
			return nil, fmt.Errorf("insert option: %w", err)
		}
		opts = append(opts, opt)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create poll: %w", err)
	}

	s.publish(notify.Event{Kind: notify.KindPollCreated, PollID: poll.ID})

	return &models.PollWithOptions{Poll: poll, Options: opts}, nil
}

// GetPoll returns a poll with its options, or ErrNotFound.
func (s *Store) GetPoll(ctx context.Context, id string) (*models.PollWithOptions, error) {
	poll, err := s.pollByID(ctx, id)
	if err != nil {
		return nil, err
	}
	opts, err := s.ListOptions(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.PollWithOptions{Poll: *poll, Options: opts}, nil
}

// ListPolls returns every poll with its options, newest-created first.
func (s *Store) ListPolls(ctx context.Context) ([]models.PollWithOptions, error) {
	rows, err := s.db.QueryContext(ctx, pollSelect+`
		ORDER BY p.created_at DESC, p.id
	`)
	if err != nil {
		return nil, fmt.Errorf("query polls: %w", err)
	}
	defer rows.Close()

	polls := []models.PollWithOptions{}
	index := map[string]int{}
	for rows.Next() {
		poll, err := scanPoll(rows)
		if err != nil {
			return nil, err
		}
		index[poll.ID] = len(polls)
		polls = append(polls, models.PollWithOptions{Poll: *poll, Options: []models.Option{}})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate polls: %w", err)
	}
	rows.Close()

	optRows, err := s.db.QueryContext(ctx, `
		SELECT id, poll_id, option_text, position, votes_count
		FROM poll_options
		ORDER BY poll_id, position
	`)
	if err != nil {
		return nil, fmt.Errorf("query options: %w", err)
	}
	defer optRows.Close()

	for optRows.Next() {
		var opt models.Option
		if err := optRows.Scan(&opt.ID, &opt.PollID, &opt.OptionText, &opt.Position, &opt.VotesCount); err != nil {
			return nil, fmt.Errorf("scan option: %w", err)
		}
		if i, ok := index[opt.PollID]; ok {
			polls[i].Options = append(polls[i].Options, opt)
		}
	}
	if err := optRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate options: %w", err)
	}

	return polls, nil
}

// DeletePoll removes a poll and, as one atomic unit, its options and
// votes. Admin only.
func (s *Store) DeletePoll(ctx context.Context, principal *identity.Principal, id string) error {
	if principal == nil {
		return ErrUnauthenticated
	}
	if !principal.Admin {
		return ErrForbidden
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete poll: %w", err)
	}
	defer tx.Rollback()

	// Explicit cascade keeps deletion atomic without relying on the
	// SQLite foreign_keys pragma.
	if _, err := tx.ExecContext(ctx, `DELETE FROM votes WHERE poll_id = $1`, id); err != nil {
		return fmt.Errorf("delete votes: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM poll_options WHERE poll_id = $1`, id); err != nil {
		return fmt.Errorf("delete options: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM polls WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete poll: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete poll: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete poll: %w", err)
	}

	s.publish(notify.Event{Kind: notify.KindPollDeleted, PollID: id})
	return nil
}

// ListOptions returns a poll's options in creation order.
func (s *Store) ListOptions(ctx context.Context, pollID string) ([]models.Option, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, poll_id, option_text, position, votes_count
		FROM poll_options
		WHERE poll_id = $1
		ORDER BY position
	`, pollID)
	if err != nil {
		return nil, fmt.Errorf("query options: %w", err)
	}
	defer rows.Close()

	options := []models.Option{}
	for rows.Next() {
		var opt models.Option
		if err := rows.Scan(&opt.ID, &opt.PollID, &opt.OptionText, &opt.Position, &opt.VotesCount); err != nil {
			return nil, fmt.Errorf("scan option: %w", err)
		}
		options = append(options, opt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate options: %w", err)
	}
	return options, nil
}

// IsExpired reports whether the poll's expiry lies in the past. Expiry is
// never stored as a state transition; it is derived from the clock at the
// moment of observation.
func IsExpired(poll *models.Poll, now time.Time) bool {
	return poll.ExpiresAt != nil && poll.ExpiresAt.Before(now)
}

const pollSelect = `
	SELECT p.id, p.title, p.description, p.created_by,
	       COALESCE(pr.username, 'Anonymous'),
	       p.result_password, p.expires_at, p.is_active, p.created_at
	FROM polls p
	LEFT JOIN profiles pr ON pr.id = p.created_by
`

func (s *Store) pollByID(ctx context.Context, id string) (*models.Poll, error) {
	row := s.db.QueryRowContext(ctx, pollSelect+` WHERE p.id = $1`, id)
	poll, err := scanPoll(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query poll: %w", err)
	}
	return poll, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPoll(row rowScanner) (*models.Poll, error) {
	var poll models.Poll
	err := row.Scan(
		&poll.ID, &poll.Title, &poll.Description, &poll.CreatedBy,
		&poll.CreatorName, &poll.ResultPassword, &poll.ExpiresAt,
		&poll.IsActive, &poll.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	poll.HasResultPassword = poll.ResultPassword != nil && *poll.ResultPassword != ""
	return &poll, nil
}

func (s *Store) usernameOf(ctx context.Context, userID string) string {
	var username string
	err := s.db.QueryRowContext(ctx, `SELECT username FROM profiles WHERE id = $1`, userID).Scan(&username)
	if err != nil {
		return "Anonymous"
	}
	return username
}
