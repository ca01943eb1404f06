// Copyright (c) 2026 E-Njams.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/lib/pq"

	"github.com/e-njams/democratic-e/auth"
	"github.com/e-njams/democratic-e/cliparse"
	"github.com/e-njams/democratic-e/middleware"
	"github.com/e-njams/democratic-e/models"
)

const studentColumns = `id, admin_number, name, email, password_hash, faculty, course, role, has_voted_positions, avatar_url, created_at`

func scanStudent(row *sql.Row) (models.Student, error) {
	var s models.Student
	err := row.Scan(
		&s.ID, &s.AdminNumber, &s.Name, &s.Email, &s.PasswordHash,
		&s.Faculty, &s.Course, &s.Role, pq.Array(&s.HasVotedPositions),
		&s.AvatarURL, &s.CreatedAt,
	)
	return s, err
}

// currentStudent resolves the session token to a fresh student row, so role
// changes and voting-history updates are visible on the very next request.
// Writes a 401 and returns false when the session is missing or invalid.
func currentStudent(db *sql.DB, cfg cliparse.Config, w http.ResponseWriter, r *http.Request) (models.Student, bool) {
	token := middleware.BearerToken(r)
	if token == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Authorization required")
		return models.Student{}, false
	}

	claims, err := auth.ValidateSessionToken(token, cfg.SessionSecret)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid or expired session")
		return models.Student{}, false
	}

	student, err := scanStudent(db.QueryRow(`
		SELECT `+studentColumns+` FROM student WHERE id = $1
	`, claims.StudentID))

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid or expired session")
		return models.Student{}, false
	}
	if err != nil {
		slog.Error("failed to load session student", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return models.Student{}, false
	}

	return student, true
}

// currentAdmin is currentStudent plus an admin capability check
func currentAdmin(db *sql.DB, cfg cliparse.Config, w http.ResponseWriter, r *http.Request) (models.Student, bool) {
	student, ok := currentStudent(db, cfg, w, r)
	if !ok {
		return models.Student{}, false
	}
	if student.Role != models.RoleAdmin {
		middleware.ErrorResponse(w, http.StatusForbidden, "Admin access required")
		return models.Student{}, false
	}
	return student, true
}

// isUniqueViolation reports whether err is a Postgres unique-constraint
// violation, optionally restricted to a named constraint.
func isUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != "23505" {
		return false
	}
	return constraint == "" || pqErr.Constraint == constraint
}
