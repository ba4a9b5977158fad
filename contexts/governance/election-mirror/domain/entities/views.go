package entities

import (
	"strings"
	"time"
)

// ElectionView is the denormalized read copy of one election. Version is the
// core's commit counter; a view is only ever replaced by a higher version.
type ElectionView struct {
	Address              string          `json:"address"`
	ElectionID           uint64          `json:"election_id"`
	Name                 string          `json:"name"`
	Description          string          `json:"description"`
	Manager              string          `json:"manager"`
	Status               string          `json:"status"`
	IsActive             bool            `json:"is_active"`
	StartTime            time.Time       `json:"start_time"`
	EndTime              time.Time       `json:"end_time"`
	RegistrationDeadline time.Time       `json:"registration_deadline"`
	TotalVotes           uint64          `json:"total_votes"`
	TotalCandidates      uint64          `json:"total_candidates"`
	WinnerID             uint64          `json:"winner_id"`
	Version              uint64          `json:"version"`
	Candidates           []CandidateView `json:"candidates"`
	SyncedAt             time.Time       `json:"synced_at"`
}

type CandidateView struct {
	ID        uint64 `json:"id"`
	Owner     string `json:"owner"`
	Name      string `json:"name"`
	Party     string `json:"party"`
	Manifesto string `json:"manifesto"`
	ImageHash string `json:"image_hash"`
	Status    string `json:"status"`
	VoteCount uint64 `json:"vote_count"`
}

// PrincipalRoles is the mirrored role set of one principal.
type PrincipalRoles struct {
	Principal string    `json:"principal"`
	Roles     []string  `json:"roles"`
	SyncedAt  time.Time `json:"synced_at"`
}

// NewerThan reports whether v should replace current.
func (v ElectionView) NewerThan(current ElectionView) bool {
	return v.Version > current.Version
}

// NormalizeKey lower-cases addresses used as read-model keys.
func NormalizeKey(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
