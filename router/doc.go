// Copyright (c) 2026 E-Njams.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Democratic-E API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg)

# Endpoints

Health:

	GET /health

Accounts (session via Authorization: Bearer):

	POST   /auth/register - Register student
	POST   /auth/login    - Log in
	GET    /me            - Current profile
	POST   /me/password   - Change password
	POST   /me/avatar     - Upload profile picture
	DELETE /me/avatar     - Remove profile picture

Election management (admin session):

	POST   /elections                 - Create election
	GET    /elections                 - List elections
	POST   /elections/{id}/activate   - Open voting
	POST   /elections/{id}/close      - Seal results
	POST   /elections/{id}/positions  - Add position
	GET    /elections/{id}/positions  - List positions
	DELETE /positions/{id}            - Delete position

Candidacy:

	POST /candidates              - Apply for a position
	GET  /candidates              - List applications
	POST /candidates/{id}/approve - Approve (admin)
	POST /candidates/{id}/reject  - Reject (admin)

Voting (student session):

	GET  /ballot - Remaining positions with approved candidates
	POST /ballot - Submit vote batch

Results (public):

	GET /results - Tallies for the latest active or closed election

# Handler Initialization

The router creates handler instances with dependency injection:

	accountHandler := handlers.NewAccountHandler(db, cfg)
	electionHandler := handlers.NewElectionHandler(db, cfg)
	candidacyHandler := handlers.NewCandidacyHandler(db, cfg)
	votingHandler := handlers.NewVotingHandler(db, cfg)
	resultsHandler := handlers.NewResultsHandler(db)

All handlers receive the database connection; results needs no config.
*/
package router
