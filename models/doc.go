// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the VotePoll
API.

# Domain Types

  - Poll: a question with a fixed option set, optionally expiring and
    optionally result-gated by a password
  - Option: one choice within a poll, carrying its running vote count
  - Vote: the immutable record that a user chose an option in a poll
  - Profile: display identity for an authenticated user

Votes are unique per (poll, user); the votes_count on an Option always
equals the number of Vote rows referencing it.

# Validation Bounds

Poll creation enforces:

  - title: 1-200 characters after trimming
  - description: up to 500 characters
  - options: 2-10, each non-empty after trimming
  - result password: up to 100 characters

# JSON Hygiene

Poll.ResultPassword and Vote.UserID are never serialized. Clients learn
that a poll is password-gated via HasResultPassword.
*/
package models
