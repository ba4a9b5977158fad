package http

import "time"

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CreateElectionRequest struct {
	Manager              string    `json:"manager,omitempty"`
	Name                 string    `json:"name"`
	Description          string    `json:"description"`
	StartTime            time.Time `json:"start_time"`
	EndTime              time.Time `json:"end_time"`
	RegistrationDeadline time.Time `json:"registration_deadline"`
}

type CreateElectionResponse struct {
	ElectionID uint64 `json:"election_id"`
	Address    string `json:"address"`
	Replayed   bool   `json:"replayed"`
}

type ElectionSummaryResponse struct {
	ID                   uint64    `json:"id"`
	Address              string    `json:"address"`
	Name                 string    `json:"name"`
	Manager              string    `json:"manager"`
	Status               string    `json:"status"`
	IsActive             bool      `json:"is_active"`
	StartTime            time.Time `json:"start_time"`
	EndTime              time.Time `json:"end_time"`
	RegistrationDeadline time.Time `json:"registration_deadline"`
	CreatedAt            time.Time `json:"created_at"`
	Version              uint64    `json:"version"`
}

type ListElectionsResponse struct {
	Total int                       `json:"total"`
	Items []ElectionSummaryResponse `json:"items"`
}

type ElectionInfoResponse struct {
	ElectionSummaryResponse
	Description               string `json:"description"`
	Creator                   string `json:"creator"`
	TotalVotes                uint64 `json:"total_votes"`
	TotalCandidates           uint64 `json:"total_candidates"`
	TotalRegisteredCandidates int    `json:"total_registered_candidates"`
	WinnerID                  uint64 `json:"winner_id"`
}

type ActivationResponse struct {
	IsActive bool   `json:"is_active"`
	Changed  bool   `json:"changed"`
	Version  uint64 `json:"version"`
}

type TransitionResponse struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Version  uint64 `json:"version"`
	Replayed bool   `json:"replayed"`
}

type DeclareResultResponse struct {
	WinnerID   uint64 `json:"winner_id"`
	TotalVotes uint64 `json:"total_votes"`
	Version    uint64 `json:"version"`
	Replayed   bool   `json:"replayed"`
}

type RegisterCandidateRequest struct {
	Name      string `json:"name"`
	Party     string `json:"party"`
	Manifesto string `json:"manifesto"`
	ImageHash string `json:"image_hash"`
}

type RegisterCandidateResponse struct {
	CandidateID uint64 `json:"candidate_id"`
	Version     uint64 `json:"version"`
	Replayed    bool   `json:"replayed"`
}

type ValidateCandidateRequest struct {
	Approve bool `json:"approve"`
}

type ValidateCandidateResponse struct {
	CandidateID uint64 `json:"candidate_id"`
	Status      string `json:"status"`
	Version     uint64 `json:"version"`
	Replayed    bool   `json:"replayed"`
}

type CastVoteRequest struct {
	CandidateID uint64 `json:"candidate_id"`
}

type CastVoteResponse struct {
	CandidateID uint64 `json:"candidate_id"`
	TotalVotes  uint64 `json:"total_votes"`
	Version     uint64 `json:"version"`
	Replayed    bool   `json:"replayed"`
}

type CandidateResponse struct {
	ID           uint64     `json:"id"`
	Owner        string     `json:"owner"`
	Name         string     `json:"name"`
	Party        string     `json:"party"`
	Manifesto    string     `json:"manifesto"`
	ImageHash    string     `json:"image_hash"`
	Status       string     `json:"status"`
	VoteCount    uint64     `json:"vote_count"`
	RegisteredAt time.Time  `json:"registered_at"`
	ValidatedAt  *time.Time `json:"validated_at,omitempty"`
}

type CandidateListResponse struct {
	Items []CandidateResponse `json:"items"`
}

type VoterStatusResponse struct {
	Voter       string `json:"voter"`
	IsRoleVoter bool   `json:"is_role_voter"`
	HasVoted    bool   `json:"has_voted"`
	VotedFor    uint64 `json:"voted_for"`
}

type WinnerResponse struct {
	WinnerID uint64 `json:"winner_id"`
}
