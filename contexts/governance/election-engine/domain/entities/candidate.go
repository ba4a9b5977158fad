package entities

import (
	"time"

	"ledgervote/contexts/governance/election-engine/domain/valueobjects"
)

// Candidate ids are scoped to one election and start at 1.
type Candidate struct {
	ID           uint64               `json:"id"`
	Owner        valueobjects.Address `json:"owner"`
	Name         string               `json:"name"`
	Party        string               `json:"party"`
	Manifesto    string               `json:"manifesto"`
	ImageHash    string               `json:"image_hash"`
	Status       CandidateStatus      `json:"status"`
	VoteCount    uint64               `json:"vote_count"`
	RegisteredAt time.Time            `json:"registered_at"`
	ValidatedAt  *time.Time           `json:"validated_at,omitempty"`
}

// CandidateProfile is the caller-supplied part of a registration.
type CandidateProfile struct {
	Name      string
	Party     string
	Manifesto string
	ImageHash string
}

// VoterRecord is written once per voter and election and never reset.
type VoterRecord struct {
	Voter    valueobjects.Address `json:"voter"`
	HasVoted bool                 `json:"has_voted"`
	VotedFor uint64               `json:"voted_for"`
	VotedAt  time.Time            `json:"voted_at"`
}
