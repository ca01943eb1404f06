// Copyright (c) 2026 E-Njams.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/e-njams/democratic-e/auth"
	"github.com/e-njams/democratic-e/cliparse"
	"github.com/e-njams/democratic-e/middleware"
	"github.com/e-njams/democratic-e/models"
)

type CandidacyHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewCandidacyHandler(db *sql.DB, cfg cliparse.Config) *CandidacyHandler {
	return &CandidacyHandler{db: db, cfg: cfg}
}

// latestElection returns the most recently created election, voted on or not
func latestElection(db *sql.DB) (models.Election, error) {
	var e models.Election
	err := db.QueryRow(`
		SELECT id, start_date, end_date, status, created_at
		FROM election
		ORDER BY created_at DESC
		LIMIT 1
	`).Scan(&e.ID, &e.StartDate, &e.EndDate, &e.Status, &e.CreatedAt)
	return e, err
}

// Apply handles POST /candidates
// A student applies to run for a position in the current election.
func (h *CandidacyHandler) Apply(w http.ResponseWriter, r *http.Request) {
	student, ok := currentStudent(h.db, h.cfg, w, r)
	if !ok {
		return
	}
	if student.Role == models.RoleAdmin {
		middleware.ErrorResponse(w, http.StatusForbidden, "Admins cannot apply for positions")
		return
	}

	var req models.ApplyRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.PositionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "position_id is required")
		return
	}
	manifesto := strings.TrimSpace(req.Manifesto)
	if manifesto == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "manifesto is required")
		return
	}

	election, err := latestElection(h.db)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusConflict, "No election to apply for")
		return
	}
	if err != nil {
		slog.Error("failed to query election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	var positionElectionID string
	err = h.db.QueryRow(`SELECT election_id FROM position WHERE id = $1`, req.PositionID).Scan(&positionElectionID)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Position not found")
		return
	}
	if err != nil {
		slog.Error("failed to query position", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if positionElectionID != election.ID {
		middleware.ErrorResponse(w, http.StatusConflict, "Position is not part of the current election")
		return
	}

	candidateID := auth.NewID()
	createdAt := time.Now()

	// The UNIQUE constraint on (student_id, position_id, election_id) is the
	// real duplicate guard; concurrent duplicate applications lose here.
	_, err = h.db.Exec(`
		INSERT INTO candidate (id, student_id, position_id, election_id, manifesto, status, votes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, candidateID, student.ID, req.PositionID, election.ID, manifesto,
		models.CandidacyPending, 0, createdAt)

	if err != nil {
		if isUniqueViolation(err, "candidate_student_id_position_id_election_id_key") {
			middleware.ErrorResponse(w, http.StatusConflict, "You have already applied for this position in this election")
			return
		}
		slog.Error("failed to insert candidate", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to submit application")
		return
	}

	slog.Info("candidacy submitted", "candidate_id", candidateID, "student_id", student.ID, "position_id", req.PositionID)

	middleware.JSONResponse(w, http.StatusCreated, models.Candidate{
		ID:         candidateID,
		StudentID:  student.ID,
		PositionID: req.PositionID,
		ElectionID: election.ID,
		Manifesto:  manifesto,
		Status:     models.CandidacyPending,
		Votes:      0,
		CreatedAt:  createdAt,
	})
}

// List handles GET /candidates
// Returns all applications for the current election with names resolved.
func (h *CandidacyHandler) List(w http.ResponseWriter, r *http.Request) {
	if _, ok := currentStudent(h.db, h.cfg, w, r); !ok {
		return
	}

	election, err := latestElection(h.db)
	if err == sql.ErrNoRows {
		middleware.JSONResponse(w, http.StatusOK, []models.Candidate{})
		return
	}
	if err != nil {
		slog.Error("failed to query election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	rows, err := h.db.Query(`
		SELECT c.id, c.student_id, c.position_id, c.election_id, c.manifesto,
		       c.status, c.votes, c.created_at, s.name, p.name
		FROM candidate c
		JOIN student s ON s.id = c.student_id
		JOIN position p ON p.id = c.position_id
		WHERE c.election_id = $1
		ORDER BY c.created_at DESC
	`, election.ID)
	if err != nil {
		slog.Error("failed to query candidates", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	candidates := []models.Candidate{}
	for rows.Next() {
		var c models.Candidate
		if err := rows.Scan(
			&c.ID, &c.StudentID, &c.PositionID, &c.ElectionID, &c.Manifesto,
			&c.Status, &c.Votes, &c.CreatedAt, &c.StudentName, &c.PositionName,
		); err != nil {
			slog.Error("failed to scan candidate", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		candidates = append(candidates, c)
	}

	middleware.JSONResponse(w, http.StatusOK, candidates)
}

// Approve handles POST /candidates/:id/approve
// Approval also promotes the applicant from student to candidate.
func (h *CandidacyHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, models.CandidacyApproved)
}

// Reject handles POST /candidates/:id/reject
func (h *CandidacyHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, models.CandidacyRejected)
}

func (h *CandidacyHandler) review(w http.ResponseWriter, r *http.Request, decision string) {
	if _, ok := currentAdmin(h.db, h.cfg, w, r); !ok {
		return
	}

	candidateID := r.PathValue("id")
	if candidateID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "candidate_id is required")
		return
	}

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	var studentID, status string
	err = tx.QueryRow(`
		SELECT student_id, status FROM candidate WHERE id = $1 FOR UPDATE
	`, candidateID).Scan(&studentID, &status)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Application not found")
		return
	}
	if err != nil {
		slog.Error("failed to query candidate", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	// pending is the only reviewable state; approved/rejected are terminal
	if status != models.CandidacyPending {
		middleware.ErrorResponse(w, http.StatusConflict, "Application has already been reviewed")
		return
	}

	_, err = tx.Exec(`UPDATE candidate SET status = $1 WHERE id = $2`, decision, candidateID)
	if err != nil {
		slog.Error("failed to update candidate status", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to review application")
		return
	}

	if decision == models.CandidacyApproved {
		_, err = tx.Exec(`
			UPDATE student SET role = $1 WHERE id = $2 AND role = $3
		`, models.RoleCandidate, studentID, models.RoleStudent)
		if err != nil {
			slog.Error("failed to promote student role", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to review application")
			return
		}
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to review application")
		return
	}

	slog.Info("candidacy reviewed", "candidate_id", candidateID, "decision", decision)

	middleware.JSONResponse(w, http.StatusOK, map[string]string{
		"id":     candidateID,
		"status": decision,
	})
}
