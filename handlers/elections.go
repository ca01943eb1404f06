// Copyright (c) 2026 E-Njams.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/e-njams/democratic-e/auth"
	"github.com/e-njams/democratic-e/cliparse"
	"github.com/e-njams/democratic-e/middleware"
	"github.com/e-njams/democratic-e/models"
)

type ElectionHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewElectionHandler(db *sql.DB, cfg cliparse.Config) *ElectionHandler {
	return &ElectionHandler{db: db, cfg: cfg}
}

// CreateElection handles POST /elections
func (h *ElectionHandler) CreateElection(w http.ResponseWriter, r *http.Request) {
	if _, ok := currentAdmin(h.db, h.cfg, w, r); !ok {
		return
	}

	var req models.CreateElectionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		middleware.ErrorResponse(w, http.StatusBadRequest, "start_date and end_date are required")
		return
	}
	if !req.EndDate.After(req.StartDate) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "End date must be after start date")
		return
	}

	electionID := auth.NewID()
	createdAt := time.Now()

	_, err := h.db.Exec(`
		INSERT INTO election (id, start_date, end_date, status, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, electionID, req.StartDate, req.EndDate, models.ElectionUpcoming, createdAt)

	if err != nil {
		slog.Error("failed to insert election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create election")
		return
	}

	slog.Info("election created", "election_id", electionID)

	middleware.JSONResponse(w, http.StatusCreated, models.Election{
		ID:        electionID,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Status:    models.ElectionUpcoming,
		CreatedAt: createdAt,
	})
}

// ListElections handles GET /elections
func (h *ElectionHandler) ListElections(w http.ResponseWriter, r *http.Request) {
	if _, ok := currentStudent(h.db, h.cfg, w, r); !ok {
		return
	}

	rows, err := h.db.Query(`
		SELECT id, start_date, end_date, status, created_at
		FROM election
		ORDER BY created_at DESC
	`)
	if err != nil {
		slog.Error("failed to query elections", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	elections := []models.Election{}
	for rows.Next() {
		var e models.Election
		if err := rows.Scan(&e.ID, &e.StartDate, &e.EndDate, &e.Status, &e.CreatedAt); err != nil {
			slog.Error("failed to scan election", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		elections = append(elections, e)
	}

	middleware.JSONResponse(w, http.StatusOK, elections)
}

// Activate handles POST /elections/:id/activate
// Allowed only from the upcoming status; the status machine never moves backward.
func (h *ElectionHandler) Activate(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, models.ElectionUpcoming, models.ElectionActive, "Election is not upcoming")
}

// Close handles POST /elections/:id/close
func (h *ElectionHandler) Close(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, models.ElectionActive, models.ElectionClosed, "Election is not active")
}

func (h *ElectionHandler) transition(w http.ResponseWriter, r *http.Request, from, to, conflictMsg string) {
	if _, ok := currentAdmin(h.db, h.cfg, w, r); !ok {
		return
	}

	electionID := r.PathValue("id")
	if electionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "election_id is required")
		return
	}

	var status string
	err := h.db.QueryRow(`SELECT status FROM election WHERE id = $1`, electionID).Scan(&status)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Election not found")
		return
	}
	if err != nil {
		slog.Error("failed to query election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if status != from {
		middleware.ErrorResponse(w, http.StatusConflict, conflictMsg)
		return
	}

	// The status guard in the WHERE clause keeps the transition forward-only
	// even when two admins race.
	res, err := h.db.Exec(`
		UPDATE election SET status = $1 WHERE id = $2 AND status = $3
	`, to, electionID, from)
	if err != nil {
		slog.Error("failed to update election status", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update election")
		return
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		middleware.ErrorResponse(w, http.StatusConflict, conflictMsg)
		return
	}

	slog.Info("election status changed", "election_id", electionID, "status", to)

	middleware.JSONResponse(w, http.StatusOK, map[string]string{
		"id":     electionID,
		"status": to,
	})
}

// CreatePosition handles POST /elections/:id/positions
func (h *ElectionHandler) CreatePosition(w http.ResponseWriter, r *http.Request) {
	if _, ok := currentAdmin(h.db, h.cfg, w, r); !ok {
		return
	}

	electionID := r.PathValue("id")
	if electionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "election_id is required")
		return
	}

	var req models.CreatePositionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}

	// Check election exists
	var exists bool
	err := h.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM election WHERE id = $1)`, electionID).Scan(&exists)
	if err != nil {
		slog.Error("failed to query election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !exists {
		middleware.ErrorResponse(w, http.StatusNotFound, "Election not found")
		return
	}

	positionID := auth.NewID()
	createdAt := time.Now()

	_, err = h.db.Exec(`
		INSERT INTO position (id, name, description, election_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, positionID, req.Name, req.Description, electionID, createdAt)

	if err != nil {
		slog.Error("failed to insert position", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create position")
		return
	}

	slog.Info("position created", "position_id", positionID, "election_id", electionID)

	middleware.JSONResponse(w, http.StatusCreated, models.Position{
		ID:          positionID,
		Name:        req.Name,
		Description: req.Description,
		ElectionID:  electionID,
		CreatedAt:   createdAt,
	})
}

// ListPositions handles GET /elections/:id/positions
func (h *ElectionHandler) ListPositions(w http.ResponseWriter, r *http.Request) {
	if _, ok := currentStudent(h.db, h.cfg, w, r); !ok {
		return
	}

	electionID := r.PathValue("id")
	if electionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "election_id is required")
		return
	}

	var exists bool
	err := h.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM election WHERE id = $1)`, electionID).Scan(&exists)
	if err != nil {
		slog.Error("failed to query election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !exists {
		middleware.ErrorResponse(w, http.StatusNotFound, "Election not found")
		return
	}

	rows, err := h.db.Query(`
		SELECT id, name, description, election_id, created_at
		FROM position
		WHERE election_id = $1
		ORDER BY name
	`, electionID)
	if err != nil {
		slog.Error("failed to query positions", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	positions := []models.Position{}
	for rows.Next() {
		var p models.Position
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.ElectionID, &p.CreatedAt); err != nil {
			slog.Error("failed to scan position", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		positions = append(positions, p)
	}

	middleware.JSONResponse(w, http.StatusOK, positions)
}

// DeletePosition handles DELETE /positions/:id
// Cascades to the position's candidacies and ballots.
func (h *ElectionHandler) DeletePosition(w http.ResponseWriter, r *http.Request) {
	if _, ok := currentAdmin(h.db, h.cfg, w, r); !ok {
		return
	}

	positionID := r.PathValue("id")
	if positionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "position_id is required")
		return
	}

	res, err := h.db.Exec(`DELETE FROM position WHERE id = $1`, positionID)
	if err != nil {
		slog.Error("failed to delete position", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete position")
		return
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Position not found")
		return
	}

	slog.Info("position deleted", "position_id", positionID)

	middleware.JSONResponse(w, http.StatusOK, map[string]string{
		"message": "Position deleted",
	})
}
