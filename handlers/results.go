// Copyright (c) 2026 E-Njams.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/e-njams/democratic-e/middleware"
	"github.com/e-njams/democratic-e/models"
)

type ResultsHandler struct {
	db *sql.DB
}

func NewResultsHandler(db *sql.DB) *ResultsHandler {
	return &ResultsHandler{db: db}
}

// GetResults handles GET /results
// Public: tallies for the latest active or closed election, highest first.
// During an active election these are live standings, not final results.
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	var election models.Election
	err := h.db.QueryRow(`
		SELECT id, start_date, end_date, status, created_at
		FROM election
		WHERE status IN ($1, $2)
		ORDER BY created_at DESC
		LIMIT 1
	`, models.ElectionActive, models.ElectionClosed).Scan(
		&election.ID, &election.StartDate, &election.EndDate, &election.Status, &election.CreatedAt)

	if err == sql.ErrNoRows {
		middleware.JSONResponse(w, http.StatusOK, models.ResultsResponse{
			Positions: []models.PositionResult{},
		})
		return
	}
	if err != nil {
		slog.Error("failed to query election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	rows, err := h.db.Query(`
		SELECT id, name FROM position WHERE election_id = $1 ORDER BY name
	`, election.ID)
	if err != nil {
		slog.Error("failed to query positions", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	type positionRow struct {
		id, name string
	}
	var positionRows []positionRow
	for rows.Next() {
		var p positionRow
		if err := rows.Scan(&p.id, &p.name); err != nil {
			slog.Error("failed to scan position", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		positionRows = append(positionRows, p)
	}

	positions := []models.PositionResult{}
	for _, p := range positionRows {
		result, err := h.positionResult(p.id, p.name, election.ID)
		if err != nil {
			slog.Error("failed to tally position", "error", err, "position_id", p.id)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		if len(result.Candidates) == 0 {
			continue
		}
		positions = append(positions, result)
	}

	middleware.JSONResponse(w, http.StatusOK, models.ResultsResponse{
		ElectionID:     election.ID,
		ElectionStatus: election.Status,
		Positions:      positions,
	})
}

func (h *ResultsHandler) positionResult(positionID, positionName, electionID string) (models.PositionResult, error) {
	result := models.PositionResult{
		PositionID:   positionID,
		PositionName: positionName,
		Candidates:   []models.CandidateResult{},
	}

	// Stable tie-break on id so equal tallies render in a fixed order
	rows, err := h.db.Query(`
		SELECT c.id, s.name, c.votes
		FROM candidate c
		JOIN student s ON s.id = c.student_id
		WHERE c.position_id = $1 AND c.election_id = $2 AND c.status = $3
		ORDER BY c.votes DESC, c.id
	`, positionID, electionID, models.CandidacyApproved)
	if err != nil {
		return result, err
	}
	defer rows.Close()

	for rows.Next() {
		var c models.CandidateResult
		if err := rows.Scan(&c.CandidateID, &c.Name, &c.Votes); err != nil {
			return result, err
		}
		result.TotalVotes += c.Votes
		result.Candidates = append(result.Candidates, c)
	}
	if err := rows.Err(); err != nil {
		return result, err
	}

	for i := range result.Candidates {
		if result.TotalVotes > 0 {
			pct := float64(result.Candidates[i].Votes) / float64(result.TotalVotes) * 100
			result.Candidates[i].Percentage = pct
		}
	}
	if len(result.Candidates) > 0 {
		result.Candidates[0].Winner = true
	}

	return result, nil
}
