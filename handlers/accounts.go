// Copyright (c) 2026 E-Njams.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"encoding/base64"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/e-njams/democratic-e/auth"
	"github.com/e-njams/democratic-e/avatars"
	"github.com/e-njams/democratic-e/cliparse"
	"github.com/e-njams/democratic-e/middleware"
	"github.com/e-njams/democratic-e/models"
)

// Avatars larger than this are refused before touching the store
const maxAvatarBytes = 10 << 20

type AccountHandler struct {
	db    *sql.DB
	cfg   cliparse.Config
	store *avatars.Client
}

func NewAccountHandler(db *sql.DB, cfg cliparse.Config) *AccountHandler {
	h := &AccountHandler{db: db, cfg: cfg}
	if cfg.StorageURL != "" {
		h.store = avatars.New(cfg.StorageURL, cfg.StorageBucket, cfg.StorageKey)
	}
	return h
}

// Register handles POST /auth/register
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// Validate input
	if req.Name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.AdminNumber == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "admin_number is required")
		return
	}
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		middleware.ErrorResponse(w, http.StatusBadRequest, "a valid email is required")
		return
	}
	if len(req.Password) < 6 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "password must be at least 6 characters")
		return
	}
	if req.Faculty == "" || req.Course == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "faculty and course are required")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	studentID := auth.NewID()

	// Uniqueness of admin_number and email is enforced by the store;
	// a concurrent duplicate registration surfaces as a conflict here.
	_, err = h.db.Exec(`
		INSERT INTO student (id, admin_number, name, email, password_hash, faculty, course, role, has_voted_positions, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, studentID, req.AdminNumber, req.Name, req.Email, hash,
		req.Faculty, req.Course, models.RoleStudent, pq.Array([]string{}), time.Now())

	if err != nil {
		if isUniqueViolation(err, "student_admin_number_key") {
			middleware.ErrorResponse(w, http.StatusConflict, "Administration number already registered")
			return
		}
		if isUniqueViolation(err, "student_email_key") {
			middleware.ErrorResponse(w, http.StatusConflict, "Email already registered")
			return
		}
		slog.Error("failed to insert student", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	token, err := auth.GenerateSessionToken(studentID, h.cfg.SessionSecret)
	if err != nil {
		slog.Error("failed to generate session token", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	student, err := scanStudent(h.db.QueryRow(`
		SELECT `+studentColumns+` FROM student WHERE id = $1
	`, studentID))
	if err != nil {
		slog.Error("failed to load new student", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	slog.Info("student registered", "student_id", studentID, "admin_number", req.AdminNumber)

	middleware.JSONResponse(w, http.StatusCreated, models.AuthResponse{
		Student: student,
		Token:   token,
	})
}

// Login handles POST /auth/login
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.AdminNumber == "" || req.Password == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "admin_number and password are required")
		return
	}

	student, err := scanStudent(h.db.QueryRow(`
		SELECT `+studentColumns+` FROM student WHERE admin_number = $1
	`, req.AdminNumber))

	// Same message for unknown number and wrong password
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid administration number or password")
		return
	}
	if err != nil {
		slog.Error("failed to query student", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if !auth.CheckPassword(req.Password, student.PasswordHash) {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid administration number or password")
		return
	}

	token, err := auth.GenerateSessionToken(student.ID, h.cfg.SessionSecret)
	if err != nil {
		slog.Error("failed to generate session token", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Sign in failed")
		return
	}

	slog.Info("student signed in", "student_id", student.ID)

	middleware.JSONResponse(w, http.StatusOK, models.AuthResponse{
		Student: student,
		Token:   token,
	})
}

// Me handles GET /me
// Returns the fresh profile for the session student
func (h *AccountHandler) Me(w http.ResponseWriter, r *http.Request) {
	student, ok := currentStudent(h.db, h.cfg, w, r)
	if !ok {
		return
	}
	middleware.JSONResponse(w, http.StatusOK, student)
}

// ChangePassword handles POST /me/password
func (h *AccountHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	student, ok := currentStudent(h.db, h.cfg, w, r)
	if !ok {
		return
	}

	var req models.ChangePasswordRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if !auth.CheckPassword(req.OldPassword, student.PasswordHash) {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Current password is incorrect")
		return
	}
	if len(req.NewPassword) < 6 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "password must be at least 6 characters")
		return
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to change password")
		return
	}

	_, err = h.db.Exec(`UPDATE student SET password_hash = $1 WHERE id = $2`, hash, student.ID)
	if err != nil {
		slog.Error("failed to update password", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to change password")
		return
	}

	slog.Info("password changed", "student_id", student.ID)

	middleware.JSONResponse(w, http.StatusOK, map[string]string{
		"message": "Password changed successfully",
	})
}

// UploadAvatar handles POST /me/avatar
func (h *AccountHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	student, ok := currentStudent(h.db, h.cfg, w, r)
	if !ok {
		return
	}

	if h.store == nil {
		middleware.ErrorResponse(w, http.StatusServiceUnavailable, "Avatar storage is not configured")
		return
	}

	var req models.UploadAvatarRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	ext, ok := avatars.ExtensionFor(req.ContentType)
	if !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, "content_type must be image/jpeg or image/png")
		return
	}

	// Accept both raw base64 and data URLs
	payload := req.Data
	if idx := strings.Index(payload, ","); idx != -1 && strings.HasPrefix(payload, "data:") {
		payload = payload[idx+1:]
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil || len(data) == 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid image data")
		return
	}
	if len(data) > maxAvatarBytes {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Image too large")
		return
	}

	publicURL, err := h.store.Store(avatars.AvatarPath(student.ID, ext), data, req.ContentType)
	if err != nil {
		slog.Error("failed to store avatar", "error", err, "student_id", student.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to upload profile picture")
		return
	}

	_, err = h.db.Exec(`UPDATE student SET avatar_url = $1 WHERE id = $2`, publicURL, student.ID)
	if err != nil {
		slog.Error("failed to update avatar_url", "error", err, "student_id", student.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to upload profile picture")
		return
	}

	slog.Info("avatar uploaded", "student_id", student.ID)

	middleware.JSONResponse(w, http.StatusOK, models.AvatarResponse{
		AvatarURL: publicURL,
	})
}

// DeleteAvatar handles DELETE /me/avatar
func (h *AccountHandler) DeleteAvatar(w http.ResponseWriter, r *http.Request) {
	student, ok := currentStudent(h.db, h.cfg, w, r)
	if !ok {
		return
	}

	if h.store == nil {
		middleware.ErrorResponse(w, http.StatusServiceUnavailable, "Avatar storage is not configured")
		return
	}

	if err := h.store.DeleteAll(student.ID); err != nil {
		slog.Error("failed to delete avatar objects", "error", err, "student_id", student.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete profile picture")
		return
	}

	_, err := h.db.Exec(`UPDATE student SET avatar_url = NULL WHERE id = $1`, student.ID)
	if err != nil {
		slog.Error("failed to clear avatar_url", "error", err, "student_id", student.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete profile picture")
		return
	}

	slog.Info("avatar deleted", "student_id", student.ID)

	middleware.JSONResponse(w, http.StatusOK, map[string]string{
		"message": "Profile picture removed",
	})
}
