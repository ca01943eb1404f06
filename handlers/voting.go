// Copyright (c) 2026 E-Njams.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/lib/pq"

	"github.com/e-njams/democratic-e/auth"
	"github.com/e-njams/democratic-e/cliparse"
	"github.com/e-njams/democratic-e/middleware"
	"github.com/e-njams/democratic-e/models"
)

type VotingHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewVotingHandler(db *sql.DB, cfg cliparse.Config) *VotingHandler {
	return &VotingHandler{db: db, cfg: cfg}
}

// activeElection returns the open election. Status is admin-driven, so at
// most one election should be active; the newest wins if that is ever violated.
func activeElection(db *sql.DB) (models.Election, error) {
	var e models.Election
	err := db.QueryRow(`
		SELECT id, start_date, end_date, status, created_at
		FROM election
		WHERE status = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, models.ElectionActive).Scan(&e.ID, &e.StartDate, &e.EndDate, &e.Status, &e.CreatedAt)
	return e, err
}

// GetBallot handles GET /ballot
// Offers only positions of the active election that have at least one
// approved candidate and that the student has not yet voted for.
func (h *VotingHandler) GetBallot(w http.ResponseWriter, r *http.Request) {
	student, ok := currentStudent(h.db, h.cfg, w, r)
	if !ok {
		return
	}

	election, err := activeElection(h.db)
	if err == sql.ErrNoRows {
		middleware.JSONResponse(w, http.StatusOK, models.BallotResponse{
			Positions: []models.BallotPosition{},
		})
		return
	}
	if err != nil {
		slog.Error("failed to query active election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	voted := make(map[string]bool, len(student.HasVotedPositions))
	for _, positionID := range student.HasVotedPositions {
		voted[positionID] = true
	}

	rows, err := h.db.Query(`
		SELECT id, name, description
		FROM position
		WHERE election_id = $1
		ORDER BY name
	`, election.ID)
	if err != nil {
		slog.Error("failed to query positions", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	type positionRow struct {
		id, name, description string
	}
	var positionRows []positionRow
	for rows.Next() {
		var p positionRow
		if err := rows.Scan(&p.id, &p.name, &p.description); err != nil {
			slog.Error("failed to scan position", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		positionRows = append(positionRows, p)
	}

	positions := []models.BallotPosition{}
	for _, p := range positionRows {
		if voted[p.id] {
			continue
		}

		candidates, err := h.approvedCandidates(p.id, election.ID)
		if err != nil {
			slog.Error("failed to query candidates", "error", err, "position_id", p.id)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		if len(candidates) == 0 {
			continue
		}

		positions = append(positions, models.BallotPosition{
			ID:          p.id,
			Name:        p.name,
			Description: p.description,
			Candidates:  candidates,
		})
	}

	middleware.JSONResponse(w, http.StatusOK, models.BallotResponse{
		ElectionID: election.ID,
		Positions:  positions,
	})
}

func (h *VotingHandler) approvedCandidates(positionID, electionID string) ([]models.BallotPositionCandidate, error) {
	rows, err := h.db.Query(`
		SELECT c.id, s.name, c.manifesto
		FROM candidate c
		JOIN student s ON s.id = c.student_id
		WHERE c.position_id = $1 AND c.election_id = $2 AND c.status = $3
		ORDER BY s.name
	`, positionID, electionID, models.CandidacyApproved)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	candidates := []models.BallotPositionCandidate{}
	for rows.Next() {
		var c models.BallotPositionCandidate
		if err := rows.Scan(&c.ID, &c.StudentName, &c.Manifesto); err != nil {
			return nil, err
		}
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}

// SubmitVotes handles POST /ballot
// Commits a batch of selections in a single transaction: ballot inserts,
// tally increments, and the voter-history update are all-or-nothing.
func (h *VotingHandler) SubmitVotes(w http.ResponseWriter, r *http.Request) {
	student, ok := currentStudent(h.db, h.cfg, w, r)
	if !ok {
		return
	}

	var req models.SubmitVotesRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if len(req.Selections) == 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Please select at least one candidate to vote for")
		return
	}

	election, err := activeElection(h.db)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusConflict, "No active election")
		return
	}
	if err != nil {
		slog.Error("failed to query active election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	voted := make(map[string]bool, len(student.HasVotedPositions))
	for _, positionID := range student.HasVotedPositions {
		voted[positionID] = true
	}
	for positionID := range req.Selections {
		if voted[positionID] {
			middleware.ErrorResponse(w, http.StatusConflict, "You have already voted for one of the selected positions")
			return
		}
	}

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	// Validate every selection before writing anything
	for positionID, candidateID := range req.Selections {
		var cPositionID, cElectionID, cStatus string
		err := tx.QueryRow(`
			SELECT position_id, election_id, status FROM candidate WHERE id = $1
		`, candidateID).Scan(&cPositionID, &cElectionID, &cStatus)

		if err == sql.ErrNoRows {
			middleware.ErrorResponse(w, http.StatusNotFound, "Candidate not found")
			return
		}
		if err != nil {
			slog.Error("failed to query candidate", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}

		if cStatus != models.CandidacyApproved {
			middleware.ErrorResponse(w, http.StatusConflict, "Candidate is not approved")
			return
		}
		if cPositionID != positionID {
			middleware.ErrorResponse(w, http.StatusConflict, "Candidate is not running for the selected position")
			return
		}
		if cElectionID != election.ID {
			middleware.ErrorResponse(w, http.StatusConflict, "Candidate is not part of the active election")
			return
		}
	}

	// Commit phase: ballot row plus atomic tally increment per selection
	newVoted := append([]string{}, student.HasVotedPositions...)
	for positionID, candidateID := range req.Selections {
		_, err = tx.Exec(`
			INSERT INTO vote (id, student_id, candidate_id, position_id, election_id, cast_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, auth.NewID(), student.ID, candidateID, positionID, election.ID, time.Now())

		if err != nil {
			// The ledger's UNIQUE constraint backstops a concurrent double vote
			if isUniqueViolation(err, "vote_student_id_position_id_election_id_key") {
				middleware.ErrorResponse(w, http.StatusConflict, "You have already voted for one of the selected positions")
				return
			}
			slog.Error("failed to insert vote", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to submit votes")
			return
		}

		_, err = tx.Exec(`
			UPDATE candidate SET votes = votes + 1 WHERE id = $1
		`, candidateID)
		if err != nil {
			slog.Error("failed to increment tally", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to submit votes")
			return
		}

		newVoted = append(newVoted, positionID)
	}

	// Single replacement write of the voting history
	_, err = tx.Exec(`
		UPDATE student SET has_voted_positions = $1 WHERE id = $2
	`, pq.Array(newVoted), student.ID)
	if err != nil {
		slog.Error("failed to update voting history", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to submit votes")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to submit votes")
		return
	}

	slog.Info("votes submitted", "student_id", student.ID, "election_id", election.ID, "positions", len(req.Selections))

	middleware.JSONResponse(w, http.StatusOK, models.SubmitVotesResponse{
		VotedPositions: newVoted,
		Message:        "Your votes have been submitted successfully",
	})
}
