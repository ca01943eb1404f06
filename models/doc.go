// Copyright (c) 2026 E-Njams.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - RegisterRequest: name, admin_number, email, password, faculty, course
  - LoginRequest: admin_number, password
  - ChangePasswordRequest: old_password, new_password
  - UploadAvatarRequest: data (base64), content_type
  - CreateElectionRequest: start_date, end_date
  - CreatePositionRequest: name, description
  - ApplyRequest: position_id, manifesto
  - SubmitVotesRequest: selections (map[string]string, position → candidate)

# Response Types

Types for JSON responses:

  - AuthResponse: student, token
  - AvatarResponse: avatar_url
  - SubmitVotesResponse: voted_positions, message
  - BallotResponse: election_id, positions (each with approved candidates)
  - ResultsResponse: election_id, election_status, ranked positions
  - ErrorResponse: error, message

# Domain Types

Internal data structures:

  - Student: account, role, and voting history
  - Election: time window and lifecycle status
  - Position: office contested within an election
  - Candidate: candidacy application with review status and vote tally
  - Vote: immutable ballot-ledger record

# Constants

Election status values:

	ElectionUpcoming = "upcoming"
	ElectionActive   = "active"
	ElectionClosed   = "closed"

Candidacy status values:

	CandidacyPending  = "pending"
	CandidacyApproved = "approved"
	CandidacyRejected = "rejected"

Roles:

	RoleStudent   = "student"
	RoleCandidate = "candidate"
	RoleAdmin     = "admin"
*/
package models
