package models

import "time"

// Role constants
const (
	RoleAdmin = "admin"
)

// Validation bounds for poll creation
const (
	TitleMaxLen       = 200
	DescriptionMaxLen = 500
	PasswordMaxLen    = 100
	MinOptions        = 2
	MaxOptions        = 10
)

// Request types

type CreatePollRequest struct {
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Options        []string   `json:"options"`
	ResultPassword string     `json:"result_password,omitempty"`
	ExpiresAt      *time.Time `json:"expires_at,omitempty"`
}

type CastVoteRequest struct {
	OptionID string `json:"option_id"`
}

type UpdateProfileRequest struct {
	Username string `json:"username"`
}

// Response types

type MyVoteResponse struct {
	HasVoted bool    `json:"has_voted"`
	OptionID *string `json:"option_id,omitempty"`
}

type ResultsResponse struct {
	Poll       Poll     `json:"poll"`
	Options    []Option `json:"options"`
	TotalVotes int      `json:"total_votes"`
}

// Domain types

type Poll struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	CreatedBy   string     `json:"created_by"`
	CreatorName string     `json:"creator_name"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`

	// ResultPassword gates the results view. Stored and compared in
	// plaintext; never serialized.
	ResultPassword *string `json:"-"`

	// HasResultPassword tells clients a password prompt is needed without
	// disclosing the password itself.
	HasResultPassword bool `json:"has_result_password"`
}

type Option struct {
	ID         string `json:"id"`
	PollID     string `json:"poll_id"`
	OptionText string `json:"option_text"`
	Position   int    `json:"position"`
	VotesCount int    `json:"votes_count"`
}

type PollWithOptions struct {
	Poll    Poll     `json:"poll"`
	Options []Option `json:"options"`
}

type Vote struct {
	PollID    string    `json:"poll_id"`
	OptionID  string    `json:"option_id"`
	UserID    string    `json:"-"` // Never expose in JSON
	CreatedAt time.Time `json:"created_at"`
}

type Profile struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
