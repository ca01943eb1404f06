package models

import "time"

// Election status constants
const (
	ElectionUpcoming = "upcoming"
	ElectionActive   = "active"
	ElectionClosed   = "closed"
)

// Candidacy status constants
const (
	CandidacyPending  = "pending"
	CandidacyApproved = "approved"
	CandidacyRejected = "rejected"
)

// Student role constants
const (
	RoleStudent   = "student"
	RoleCandidate = "candidate"
	RoleAdmin     = "admin"
)

// Request types

type RegisterRequest struct {
	Name        string `json:"name"`
	AdminNumber string `json:"admin_number"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Faculty     string `json:"faculty"`
	Course      string `json:"course"`
}

type LoginRequest struct {
	AdminNumber string `json:"admin_number"`
	Password    string `json:"password"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// Data is the raw image, base64 encoded
type UploadAvatarRequest struct {
	Data        string `json:"data"`
	ContentType string `json:"content_type"`
}

type CreateElectionRequest struct {
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

type CreatePositionRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type ApplyRequest struct {
	PositionID string `json:"position_id"`
	Manifesto  string `json:"manifesto"`
}

// position_id -> candidate_id, one choice per position
type SubmitVotesRequest struct {
	Selections map[string]string `json:"selections"`
}

// Response types

type AuthResponse struct {
	Student Student `json:"student"`
	Token   string  `json:"token"`
}

type AvatarResponse struct {
	AvatarURL string `json:"avatar_url"`
}

type SubmitVotesResponse struct {
	VotedPositions []string `json:"voted_positions"`
	Message        string   `json:"message"`
}

type BallotPositionCandidate struct {
	ID          string `json:"id"`
	StudentName string `json:"student_name"`
	Manifesto   string `json:"manifesto"`
}

type BallotPosition struct {
	ID          string                    `json:"id"`
	Name        string                    `json:"name"`
	Description string                    `json:"description"`
	Candidates  []BallotPositionCandidate `json:"candidates"`
}

type BallotResponse struct {
	ElectionID string           `json:"election_id,omitempty"`
	Positions  []BallotPosition `json:"positions"`
}

type CandidateResult struct {
	CandidateID string  `json:"candidate_id"`
	Name        string  `json:"name"`
	Votes       int     `json:"votes"`
	Percentage  float64 `json:"percentage"`
	Winner      bool    `json:"winner"`
}

type PositionResult struct {
	PositionID   string            `json:"position_id"`
	PositionName string            `json:"position_name"`
	TotalVotes   int               `json:"total_votes"`
	Candidates   []CandidateResult `json:"candidates"`
}

type ResultsResponse struct {
	ElectionID     string           `json:"election_id,omitempty"`
	ElectionStatus string           `json:"election_status,omitempty"`
	Positions      []PositionResult `json:"positions"`
}

// Domain types

type Student struct {
	ID                string    `json:"id"`
	AdminNumber       string    `json:"admin_number"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	PasswordHash      string    `json:"-"` // Never expose in JSON
	Faculty           string    `json:"faculty"`
	Course            string    `json:"course"`
	Role              string    `json:"role"`
	HasVotedPositions []string  `json:"has_voted_positions"`
	AvatarURL         *string   `json:"avatar_url,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

type Election struct {
	ID        string    `json:"id"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type Position struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ElectionID  string    `json:"election_id"`
	CreatedAt   time.Time `json:"created_at"`
}

type Candidate struct {
	ID         string    `json:"id"`
	StudentID  string    `json:"student_id"`
	PositionID string    `json:"position_id"`
	ElectionID string    `json:"election_id"`
	Manifesto  string    `json:"manifesto"`
	Status     string    `json:"status"`
	Votes      int       `json:"votes"`
	CreatedAt  time.Time `json:"created_at"`

	// Joined fields, populated on listings
	StudentName  string `json:"student_name,omitempty"`
	PositionName string `json:"position_name,omitempty"`
}

type Vote struct {
	ID          string    `json:"id"`
	StudentID   string    `json:"-"` // Never expose in JSON: ballots are secret
	CandidateID string    `json:"candidate_id"`
	PositionID  string    `json:"position_id"`
	ElectionID  string    `json:"election_id"`
	CastAt      time.Time `json:"cast_at"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
