// Copyright (c) 2026 E-Njams.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Democratic-E API.

# Handler Types

Each handler is a struct with database and config dependencies:

  - AccountHandler: Registration, login, profile, and avatar management
  - ElectionHandler: Election lifecycle and position management (admin)
  - CandidacyHandler: Candidate applications and admin review
  - VotingHandler: Ballot retrieval and vote submission
  - ResultsHandler: Public tallies and standings

Handlers are created via constructor functions that accept *sql.DB and Config:

	accountHandler := handlers.NewAccountHandler(db, cfg)

# Election Lifecycle

Elections progress through three states: upcoming → active → closed

	POST /elections               → CreateElection (upcoming)
	POST /elections/{id}/activate → Activate (opens voting)
	POST /elections/{id}/close    → Close (seals results)

Admin operations require a session belonging to an admin student.

# Voting Flow

Students authenticate once and then vote in the active election:

	POST /auth/register → Register (returns session token)
	POST /auth/login    → Login
	GET  /ballot        → GetBallot (remaining positions only)
	POST /ballot        → SubmitVotes (batch, one transaction)

Session operations require the Authorization: Bearer header.

# Vote Batches

SubmitVotes validates every selection against the active election before
writing anything, then inserts the vote rows, increments candidate tallies
in place, and replaces the student's voting history inside a single
transaction. A UNIQUE constraint on the vote table backstops concurrent
duplicate submissions; violation maps to 409.

# Results

GetResults is public and tallies the latest active or closed election.
Candidates are ordered by votes descending and the leader is flagged as
the winner, which during an active election means current leader only.
*/
package handlers
