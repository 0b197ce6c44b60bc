// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - profiles: display identity for authenticated users
  - user_roles: role membership (admin lookup)
  - polls: poll metadata, expiry, result password
  - poll_options: options per poll with running vote counts
  - votes: one row per (poll, user); primary key enforces uniqueness

# Relationships

	polls 1──* poll_options
	polls 1──* votes
	poll_options 1──* votes

Foreign keys declare ON DELETE CASCADE, but poll deletion also removes
dependent rows explicitly inside a transaction so behavior does not depend
on SQLite's foreign_keys pragma.

# Consistency Constraints

The PRIMARY KEY (poll_id, user_id) on votes is the race-free
one-vote-per-user guarantee: a duplicate insert fails at the database no
matter how many submissions race. votes_count on poll_options is only
mutated via an in-database increment (votes_count = votes_count + 1), never
read-modify-write from application code.
*/
package db
