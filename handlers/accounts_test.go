// Copyright (c) 2026 E-Njams.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/e-njams/democratic-e/auth"
	"github.com/e-njams/democratic-e/models"
	"github.com/e-njams/democratic-e/testutil"
)

func TestRegister(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewAccountHandler(db, cfg)

	tests := []struct {
		name           string
		requestBody    interface{}
		expectedStatus int
		checkResponse  func(t *testing.T, resp *models.AuthResponse)
	}{
		{
			name: "valid registration",
			requestBody: models.RegisterRequest{
				AdminNumber: "SCT211-0001/2024",
				Name:        "Alice Wanjiru",
				Email:       "alice@students.test.edu",
				Password:    "secret123",
				Faculty:     "Computing",
				Course:      "Software Engineering",
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, resp *models.AuthResponse) {
				if resp.Token == "" {
					t.Error("Expected non-empty session token")
				}
				if resp.Student.ID == "" {
					t.Error("Expected non-empty student id")
				}
				if resp.Student.Role != models.RoleStudent {
					t.Errorf("Expected role 'student', got '%s'", resp.Student.Role)
				}
				if len(resp.Student.HasVotedPositions) != 0 {
					t.Errorf("Expected empty voting history, got %v", resp.Student.HasVotedPositions)
				}

				// Token must resolve back to the new student
				claims, err := auth.ValidateSessionToken(resp.Token, cfg.SessionSecret)
				if err != nil {
					t.Fatalf("Session token is invalid: %v", err)
				}
				if claims.StudentID != resp.Student.ID {
					t.Error("Session token does not match the new student")
				}

				// Password must be stored hashed
				var hash string
				err = db.QueryRow("SELECT password_hash FROM student WHERE id = $1", resp.Student.ID).Scan(&hash)
				if err != nil {
					t.Fatalf("Failed to query student: %v", err)
				}
				if hash == "secret123" {
					t.Error("Password stored in plaintext")
				}
				if !auth.CheckPassword("secret123", hash) {
					t.Error("Stored hash does not verify the password")
				}
			},
		},
		{
			name: "missing name",
			requestBody: models.RegisterRequest{
				AdminNumber: "SCT211-0002/2024",
				Email:       "noname@students.test.edu",
				Password:    "secret123",
				Faculty:     "Computing",
				Course:      "Software Engineering",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "invalid email",
			requestBody: models.RegisterRequest{
				AdminNumber: "SCT211-0003/2024",
				Name:        "Bob",
				Email:       "not-an-email",
				Password:    "secret123",
				Faculty:     "Computing",
				Course:      "Software Engineering",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "short password",
			requestBody: models.RegisterRequest{
				AdminNumber: "SCT211-0004/2024",
				Name:        "Carol",
				Email:       "carol@students.test.edu",
				Password:    "abc",
				Faculty:     "Computing",
				Course:      "Software Engineering",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid JSON",
			requestBody:    "invalid json",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body []byte
			var err error

			if str, ok := tt.requestBody.(string); ok {
				body = []byte(str)
			} else {
				body, err = json.Marshal(tt.requestBody)
				if err != nil {
					t.Fatalf("Failed to marshal request body: %v", err)
				}
			}

			req := httptest.NewRequest("POST", "/auth/register", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			handler.Register(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d. Body: %s", tt.expectedStatus, w.Code, w.Body.String())
			}

			if tt.expectedStatus == http.StatusCreated && tt.checkResponse != nil {
				var resp models.AuthResponse
				if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
					t.Fatalf("Failed to decode response: %v", err)
				}
				tt.checkResponse(t, &resp)
			}
		})
	}
}

func TestRegister_Duplicates(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewAccountHandler(db, cfg)

	register := func(adminNumber, email string) *httptest.ResponseRecorder {
		req := testutil.MakeRequest("POST", "/auth/register", models.RegisterRequest{
			AdminNumber: adminNumber,
			Name:        "Duplicate Test",
			Email:       email,
			Password:    "secret123",
			Faculty:     "Computing",
			Course:      "Software Engineering",
		}, nil)
		w := httptest.NewRecorder()
		handler.Register(w, req)
		return w
	}

	testutil.AssertStatus(t, register("SCT211-0100/2024", "dup1@students.test.edu"), http.StatusCreated)

	t.Run("duplicate admin number", func(t *testing.T) {
		w := register("SCT211-0100/2024", "other@students.test.edu")
		testutil.AssertStatus(t, w, http.StatusConflict)

		var resp models.ErrorResponse
		testutil.AssertJSON(t, w, &resp)
		if resp.Message != "Administration number already registered" {
			t.Errorf("Unexpected message: %q", resp.Message)
		}
	})

	t.Run("duplicate email", func(t *testing.T) {
		w := register("SCT211-0101/2024", "dup1@students.test.edu")
		testutil.AssertStatus(t, w, http.StatusConflict)

		var resp models.ErrorResponse
		testutil.AssertJSON(t, w, &resp)
		if resp.Message != "Email already registered" {
			t.Errorf("Unexpected message: %q", resp.Message)
		}
	})
}

func TestLogin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewAccountHandler(db, cfg)

	// CreateTestStudent hashes "password123"
	studentID, _ := testutil.CreateTestStudent(t, db, cfg, "SCT211-0001/2024", "student")

	tests := []struct {
		name           string
		requestBody    models.LoginRequest
		expectedStatus int
	}{
		{
			name:           "valid login",
			requestBody:    models.LoginRequest{AdminNumber: "SCT211-0001/2024", Password: "password123"},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "wrong password",
			requestBody:    models.LoginRequest{AdminNumber: "SCT211-0001/2024", Password: "wrongpass"},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "unknown admin number",
			requestBody:    models.LoginRequest{AdminNumber: "SCT211-9999/2024", Password: "password123"},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "missing password",
			requestBody:    models.LoginRequest{AdminNumber: "SCT211-0001/2024"},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/auth/login", tt.requestBody, nil)
			w := httptest.NewRecorder()

			handler.Login(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)

			if tt.expectedStatus == http.StatusOK {
				var resp models.AuthResponse
				testutil.AssertJSON(t, w, &resp)
				if resp.Student.ID != studentID {
					t.Errorf("Expected student %s, got %s", studentID, resp.Student.ID)
				}
				if resp.Token == "" {
					t.Error("Expected non-empty session token")
				}
			}
		})
	}

	// Unknown number and wrong password must be indistinguishable
	t.Run("identical error messages", func(t *testing.T) {
		w1 := httptest.NewRecorder()
		handler.Login(w1, testutil.MakeRequest("POST", "/auth/login",
			models.LoginRequest{AdminNumber: "SCT211-0001/2024", Password: "wrongpass"}, nil))

		w2 := httptest.NewRecorder()
		handler.Login(w2, testutil.MakeRequest("POST", "/auth/login",
			models.LoginRequest{AdminNumber: "SCT211-9999/2024", Password: "password123"}, nil))

		var r1, r2 models.ErrorResponse
		testutil.AssertJSON(t, w1, &r1)
		testutil.AssertJSON(t, w2, &r2)
		if r1.Message != r2.Message {
			t.Errorf("Login errors differ: %q vs %q", r1.Message, r2.Message)
		}
	})
}

func TestMe(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewAccountHandler(db, cfg)

	studentID, token := testutil.CreateTestStudent(t, db, cfg, "SCT211-0001/2024", "student")

	t.Run("valid session", func(t *testing.T) {
		req := testutil.MakeRequest("GET", "/me", nil, testutil.AuthHeader(token))
		w := httptest.NewRecorder()

		handler.Me(w, req)

		testutil.AssertStatus(t, w, http.StatusOK)

		var student models.Student
		testutil.AssertJSON(t, w, &student)
		if student.ID != studentID {
			t.Errorf("Expected student %s, got %s", studentID, student.ID)
		}
	})

	t.Run("no session", func(t *testing.T) {
		req := testutil.MakeRequest("GET", "/me", nil, nil)
		w := httptest.NewRecorder()

		handler.Me(w, req)

		testutil.AssertStatus(t, w, http.StatusUnauthorized)
	})

	t.Run("garbage token", func(t *testing.T) {
		req := testutil.MakeRequest("GET", "/me", nil, testutil.AuthHeader("not.a.token"))
		w := httptest.NewRecorder()

		handler.Me(w, req)

		testutil.AssertStatus(t, w, http.StatusUnauthorized)
	})

	t.Run("password hash never serialized", func(t *testing.T) {
		req := testutil.MakeRequest("GET", "/me", nil, testutil.AuthHeader(token))
		w := httptest.NewRecorder()

		handler.Me(w, req)

		if bytes.Contains(w.Body.Bytes(), []byte("password_hash")) {
			t.Error("Response leaked the password hash")
		}
	})
}

func TestChangePassword(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewAccountHandler(db, cfg)

	_, token := testutil.CreateTestStudent(t, db, cfg, "SCT211-0001/2024", "student")

	t.Run("wrong current password", func(t *testing.T) {
		req := testutil.MakeRequest("POST", "/me/password", models.ChangePasswordRequest{
			OldPassword: "wrongpass",
			NewPassword: "newsecret1",
		}, testutil.AuthHeader(token))
		w := httptest.NewRecorder()

		handler.ChangePassword(w, req)

		testutil.AssertStatus(t, w, http.StatusUnauthorized)
	})

	t.Run("short new password", func(t *testing.T) {
		req := testutil.MakeRequest("POST", "/me/password", models.ChangePasswordRequest{
			OldPassword: "password123",
			NewPassword: "abc",
		}, testutil.AuthHeader(token))
		w := httptest.NewRecorder()

		handler.ChangePassword(w, req)

		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})

	t.Run("successful change", func(t *testing.T) {
		req := testutil.MakeRequest("POST", "/me/password", models.ChangePasswordRequest{
			OldPassword: "password123",
			NewPassword: "newsecret1",
		}, testutil.AuthHeader(token))
		w := httptest.NewRecorder()

		handler.ChangePassword(w, req)

		testutil.AssertStatus(t, w, http.StatusOK)

		// Old password stops working, new one signs in
		wOld := httptest.NewRecorder()
		handler.Login(wOld, testutil.MakeRequest("POST", "/auth/login",
			models.LoginRequest{AdminNumber: "SCT211-0001/2024", Password: "password123"}, nil))
		testutil.AssertStatus(t, wOld, http.StatusUnauthorized)

		wNew := httptest.NewRecorder()
		handler.Login(wNew, testutil.MakeRequest("POST", "/auth/login",
			models.LoginRequest{AdminNumber: "SCT211-0001/2024", Password: "newsecret1"}, nil))
		testutil.AssertStatus(t, wNew, http.StatusOK)
	})
}

func TestUploadAvatar(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	// Fake object store
	store := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer store.Close()

	cfg := testutil.GetTestConfig()
	cfg.StorageURL = store.URL
	cfg.StorageBucket = "profile-pictures"
	cfg.StorageKey = "test-key"
	handler := NewAccountHandler(db, cfg)

	studentID, token := testutil.CreateTestStudent(t, db, cfg, "SCT211-0001/2024", "student")

	imageData := base64.StdEncoding.EncodeToString([]byte("fake-png-bytes"))

	t.Run("successful upload", func(t *testing.T) {
		req := testutil.MakeRequest("POST", "/me/avatar", models.UploadAvatarRequest{
			Data:        imageData,
			ContentType: "image/png",
		}, testutil.AuthHeader(token))
		w := httptest.NewRecorder()

		handler.UploadAvatar(w, req)

		testutil.AssertStatus(t, w, http.StatusOK)

		var resp models.AvatarResponse
		testutil.AssertJSON(t, w, &resp)
		if resp.AvatarURL == "" {
			t.Fatal("Expected non-empty avatar URL")
		}

		var url *string
		if err := db.QueryRow("SELECT avatar_url FROM student WHERE id = $1", studentID).Scan(&url); err != nil {
			t.Fatalf("Failed to query avatar_url: %v", err)
		}
		if url == nil || *url != resp.AvatarURL {
			t.Errorf("avatar_url not persisted: %v", url)
		}
	})

	t.Run("data URL accepted", func(t *testing.T) {
		req := testutil.MakeRequest("POST", "/me/avatar", models.UploadAvatarRequest{
			Data:        "data:image/png;base64," + imageData,
			ContentType: "image/png",
		}, testutil.AuthHeader(token))
		w := httptest.NewRecorder()

		handler.UploadAvatar(w, req)

		testutil.AssertStatus(t, w, http.StatusOK)
	})

	t.Run("unsupported content type", func(t *testing.T) {
		req := testutil.MakeRequest("POST", "/me/avatar", models.UploadAvatarRequest{
			Data:        imageData,
			ContentType: "image/gif",
		}, testutil.AuthHeader(token))
		w := httptest.NewRecorder()

		handler.UploadAvatar(w, req)

		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})

	t.Run("invalid base64", func(t *testing.T) {
		req := testutil.MakeRequest("POST", "/me/avatar", models.UploadAvatarRequest{
			Data:        "!!not-base64!!",
			ContentType: "image/png",
		}, testutil.AuthHeader(token))
		w := httptest.NewRecorder()

		handler.UploadAvatar(w, req)

		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})

	t.Run("storage not configured", func(t *testing.T) {
		bare := NewAccountHandler(db, testutil.GetTestConfig())

		req := testutil.MakeRequest("POST", "/me/avatar", models.UploadAvatarRequest{
			Data:        imageData,
			ContentType: "image/png",
		}, testutil.AuthHeader(token))
		w := httptest.NewRecorder()

		bare.UploadAvatar(w, req)

		testutil.AssertStatus(t, w, http.StatusServiceUnavailable)
	})
}

func TestDeleteAvatar(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	store := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer store.Close()

	cfg := testutil.GetTestConfig()
	cfg.StorageURL = store.URL
	cfg.StorageKey = "test-key"
	handler := NewAccountHandler(db, cfg)

	studentID, token := testutil.CreateTestStudent(t, db, cfg, "SCT211-0001/2024", "student")

	if _, err := db.Exec("UPDATE student SET avatar_url = 'https://store.test/a.png' WHERE id = $1", studentID); err != nil {
		t.Fatalf("Failed to seed avatar_url: %v", err)
	}

	req := testutil.MakeRequest("DELETE", "/me/avatar", nil, testutil.AuthHeader(token))
	w := httptest.NewRecorder()

	handler.DeleteAvatar(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var url *string
	if err := db.QueryRow("SELECT avatar_url FROM student WHERE id = $1", studentID).Scan(&url); err != nil {
		t.Fatalf("Failed to query avatar_url: %v", err)
	}
	if url != nil {
		t.Errorf("Expected avatar_url cleared, got %q", *url)
	}
}
