// Copyright (c) 2026 E-Njams.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/e-njams/democratic-e/models"
	"github.com/e-njams/democratic-e/testutil"
)

// TestConcurrentVotes_SameStudent verifies that simultaneous submissions
// from one student for the same position produce exactly one counted vote.
// The UNIQUE constraint on the vote table is the arbiter.
func TestConcurrentVotes_SameStudent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewVotingHandler(db, cfg)

	_, token := testutil.CreateTestStudent(t, db, cfg, "SCT211-0001/2024", "student")
	runnerID, _ := testutil.CreateTestStudent(t, db, cfg, "SCT211-0002/2024", "candidate")

	electionID := testutil.CreateTestElection(t, db, "active")
	positionID := testutil.CreateTestPosition(t, db, electionID, "President")
	candidateID := testutil.CreateTestCandidate(t, db, runnerID, positionID, electionID, "approved")

	const attempts = 10
	var successes, conflicts int64
	var wg sync.WaitGroup

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			req := testutil.MakeRequest("POST", "/ballot", models.SubmitVotesRequest{
				Selections: map[string]string{positionID: candidateID},
			}, testutil.AuthHeader(token))
			w := httptest.NewRecorder()

			handler.SubmitVotes(w, req)

			switch w.Code {
			case http.StatusOK:
				atomic.AddInt64(&successes, 1)
			case http.StatusConflict:
				atomic.AddInt64(&conflicts, 1)
			default:
				t.Errorf("Unexpected status %d: %s", w.Code, w.Body.String())
			}
		}()
	}
	wg.Wait()

	if successes != 1 {
		t.Errorf("Expected exactly 1 successful submission, got %d", successes)
	}
	if successes+conflicts != attempts {
		t.Errorf("Expected %d total outcomes, got %d", attempts, successes+conflicts)
	}

	var votes, ledger int
	if err := db.QueryRow("SELECT votes FROM candidate WHERE id = $1", candidateID).Scan(&votes); err != nil {
		t.Fatalf("Failed to query tally: %v", err)
	}
	if err := db.QueryRow("SELECT COUNT(*) FROM vote WHERE candidate_id = $1", candidateID).Scan(&ledger); err != nil {
		t.Fatalf("Failed to query ledger: %v", err)
	}
	if votes != 1 {
		t.Errorf("Tally = %d, want 1", votes)
	}
	if ledger != 1 {
		t.Errorf("Ledger rows = %d, want 1", ledger)
	}
}

// TestConcurrentVotes_DifferentStudents verifies that parallel submissions
// from distinct students are all counted without losing increments.
func TestConcurrentVotes_DifferentStudents(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewVotingHandler(db, cfg)

	runnerID, _ := testutil.CreateTestStudent(t, db, cfg, "SCT211-0002/2024", "candidate")
	electionID := testutil.CreateTestElection(t, db, "active")
	positionID := testutil.CreateTestPosition(t, db, electionID, "President")
	candidateID := testutil.CreateTestCandidate(t, db, runnerID, positionID, electionID, "approved")

	const numVoters = 10
	tokens := make([]string, numVoters)
	for i := 0; i < numVoters; i++ {
		_, tokens[i] = testutil.CreateTestStudent(t, db, cfg, fmt.Sprintf("SCT211-01%02d/2024", i), "student")
	}

	var wg sync.WaitGroup
	for i := 0; i < numVoters; i++ {
		wg.Add(1)
		go func(token string) {
			defer wg.Done()

			req := testutil.MakeRequest("POST", "/ballot", models.SubmitVotesRequest{
				Selections: map[string]string{positionID: candidateID},
			}, testutil.AuthHeader(token))
			w := httptest.NewRecorder()

			handler.SubmitVotes(w, req)

			if w.Code != http.StatusOK {
				t.Errorf("Expected status 200, got %d: %s", w.Code, w.Body.String())
			}
		}(tokens[i])
	}
	wg.Wait()

	var votes, ledger int
	if err := db.QueryRow("SELECT votes FROM candidate WHERE id = $1", candidateID).Scan(&votes); err != nil {
		t.Fatalf("Failed to query tally: %v", err)
	}
	if err := db.QueryRow("SELECT COUNT(*) FROM vote WHERE candidate_id = $1", candidateID).Scan(&ledger); err != nil {
		t.Fatalf("Failed to query ledger: %v", err)
	}
	if votes != numVoters {
		t.Errorf("Tally = %d, want %d (lost increments)", votes, numVoters)
	}
	if ledger != numVoters {
		t.Errorf("Ledger rows = %d, want %d", ledger, numVoters)
	}
}

// TestConcurrentApplications verifies that a student racing against
// themselves can hold at most one application per position.
func TestConcurrentApplications(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewCandidacyHandler(db, cfg)

	studentID, token := testutil.CreateTestStudent(t, db, cfg, "SCT211-0001/2024", "student")
	electionID := testutil.CreateTestElection(t, db, "upcoming")
	positionID := testutil.CreateTestPosition(t, db, electionID, "President")

	const attempts = 10
	var successes int64
	var wg sync.WaitGroup

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			req := testutil.MakeRequest("POST", "/candidates", models.ApplyRequest{
				PositionID: positionID,
				Manifesto:  "Concurrent application",
			}, testutil.AuthHeader(token))
			w := httptest.NewRecorder()

			handler.Apply(w, req)

			switch w.Code {
			case http.StatusCreated:
				atomic.AddInt64(&successes, 1)
			case http.StatusConflict:
				// expected for the losers
			default:
				t.Errorf("Unexpected status %d: %s", w.Code, w.Body.String())
			}
		}()
	}
	wg.Wait()

	if successes != 1 {
		t.Errorf("Expected exactly 1 created application, got %d", successes)
	}

	var count int
	if err := db.QueryRow(
		"SELECT COUNT(*) FROM candidate WHERE student_id = $1 AND position_id = $2", studentID, positionID,
	).Scan(&count); err != nil {
		t.Fatalf("Failed to query applications: %v", err)
	}
	if count != 1 {
		t.Errorf("Applications in store = %d, want 1", count)
	}
}
