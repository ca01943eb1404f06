// Copyright (c) 2026 E-Njams.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/e-njams/democratic-e/cliparse"
	"github.com/e-njams/democratic-e/handlers"
	"github.com/e-njams/democratic-e/middleware"
)

func NewRouter(db *sql.DB, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	accountHandler := handlers.NewAccountHandler(db, cfg)
	electionHandler := handlers.NewElectionHandler(db, cfg)
	candidacyHandler := handlers.NewCandidacyHandler(db, cfg)
	votingHandler := handlers.NewVotingHandler(db, cfg)
	resultsHandler := handlers.NewResultsHandler(db)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Accounts
	mux.HandleFunc("POST /auth/register", middleware.WithLogging(accountHandler.Register))
	mux.HandleFunc("POST /auth/login", middleware.WithLogging(accountHandler.Login))
	mux.HandleFunc("GET /me", middleware.WithLogging(accountHandler.Me))
	mux.HandleFunc("POST /me/password", middleware.WithLogging(accountHandler.ChangePassword))
	mux.HandleFunc("POST /me/avatar", middleware.WithLogging(accountHandler.UploadAvatar))
	mux.HandleFunc("DELETE /me/avatar", middleware.WithLogging(accountHandler.DeleteAvatar))

	// Election management (admin operations)
	mux.HandleFunc("POST /elections", middleware.WithLogging(electionHandler.CreateElection))
	mux.HandleFunc("GET /elections", middleware.WithLogging(electionHandler.ListElections))
	mux.HandleFunc("POST /elections/{id}/activate", middleware.WithLogging(electionHandler.Activate))
	mux.HandleFunc("POST /elections/{id}/close", middleware.WithLogging(electionHandler.Close))
	mux.HandleFunc("POST /elections/{id}/positions", middleware.WithLogging(electionHandler.CreatePosition))
	mux.HandleFunc("GET /elections/{id}/positions", middleware.WithLogging(electionHandler.ListPositions))
	mux.HandleFunc("DELETE /positions/{id}", middleware.WithLogging(electionHandler.DeletePosition))

	// Candidacy
	mux.HandleFunc("POST /candidates", middleware.WithLogging(candidacyHandler.Apply))
	mux.HandleFunc("GET /candidates", middleware.WithLogging(candidacyHandler.List))
	mux.HandleFunc("POST /candidates/{id}/approve", middleware.WithLogging(candidacyHandler.Approve))
	mux.HandleFunc("POST /candidates/{id}/reject", middleware.WithLogging(candidacyHandler.Reject))

	// Voting
	mux.HandleFunc("GET /ballot", middleware.WithLogging(votingHandler.GetBallot))
	mux.HandleFunc("POST /ballot", middleware.WithLogging(votingHandler.SubmitVotes))

	// Results (public)
	mux.HandleFunc("GET /results", middleware.WithLogging(resultsHandler.GetResults))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("democratic-e API v1"))
	})

	return mux
}
