// Copyright (c) 2026 E-Njams.
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

  - student: accounts with role, bcrypt password hash, and the append-only
    has_voted_positions array
  - election: time window plus the admin-driven upcoming/active/closed status
  - position: offices contested within one election (cascade on delete)
  - candidate: one application per (student, position, election), with the
    cached vote tally
  - vote: append-only ballot ledger, one row per cast vote

# Integrity

Uniqueness is enforced by the store, not by pre-checks:

  - student.admin_number and student.email are UNIQUE
  - candidate (student_id, position_id, election_id) is UNIQUE
  - vote (student_id, position_id, election_id) is UNIQUE

candidate.votes is maintained inside the vote-submission transaction with an
atomic increment, so it always equals the number of ledger rows referencing
the candidate. Deleting a position cascades to its candidacies and ballots.
*/
package db
