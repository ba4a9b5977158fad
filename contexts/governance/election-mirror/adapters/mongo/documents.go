package mongoadapter

import (
	"time"

	"ledgervote/contexts/governance/election-mirror/domain/entities"
)

type electionDocument struct {
	Address              string              `bson:"_id"`
	ElectionID           uint64              `bson:"election_id"`
	Name                 string              `bson:"name"`
	Description          string              `bson:"description"`
	Manager              string              `bson:"manager"`
	Status               string              `bson:"status"`
	IsActive             bool                `bson:"is_active"`
	StartTime            time.Time           `bson:"start_time"`
	EndTime              time.Time           `bson:"end_time"`
	RegistrationDeadline time.Time           `bson:"registration_deadline"`
	TotalVotes           uint64              `bson:"total_votes"`
	TotalCandidates      uint64              `bson:"total_candidates"`
	WinnerID             uint64              `bson:"winner_id"`
	Version              uint64              `bson:"version"`
	Candidates           []candidateDocument `bson:"candidates"`
	SyncedAt             time.Time           `bson:"synced_at"`
}

type candidateDocument struct {
	ID        uint64 `bson:"id"`
	Owner     string `bson:"owner"`
	Name      string `bson:"name"`
	Party     string `bson:"party"`
	Manifesto string `bson:"manifesto"`
	ImageHash string `bson:"image_hash"`
	Status    string `bson:"status"`
	VoteCount uint64 `bson:"vote_count"`
}

type principalDocument struct {
	Principal string    `bson:"_id"`
	Roles     []string  `bson:"roles"`
	SyncedAt  time.Time `bson:"synced_at"`
}

type dedupDocument struct {
	EventID     string    `bson:"_id"`
	PayloadHash string    `bson:"payload_hash"`
	ExpiresAt   time.Time `bson:"expires_at"`
}

func toElectionDocument(view entities.ElectionView) electionDocument {
	candidates := make([]candidateDocument, 0, len(view.Candidates))
	for _, candidate := range view.Candidates {
		candidates = append(candidates, candidateDocument(candidate))
	}
	return electionDocument{
		Address:              entities.NormalizeKey(view.Address),
		ElectionID:           view.ElectionID,
		Name:                 view.Name,
		Description:          view.Description,
		Manager:              view.Manager,
		Status:               view.Status,
		IsActive:             view.IsActive,
		StartTime:            view.StartTime.UTC(),
		EndTime:              view.EndTime.UTC(),
		RegistrationDeadline: view.RegistrationDeadline.UTC(),
		TotalVotes:           view.TotalVotes,
		TotalCandidates:      view.TotalCandidates,
		WinnerID:             view.WinnerID,
		Version:              view.Version,
		Candidates:           candidates,
		SyncedAt:             view.SyncedAt.UTC(),
	}
}

func (d electionDocument) toView() entities.ElectionView {
	candidates := make([]entities.CandidateView, 0, len(d.Candidates))
	for _, candidate := range d.Candidates {
		candidates = append(candidates, entities.CandidateView(candidate))
	}
	return entities.ElectionView{
		Address:              d.Address,
		ElectionID:           d.ElectionID,
		Name:                 d.Name,
		Description:          d.Description,
		Manager:              d.Manager,
		Status:               d.Status,
		IsActive:             d.IsActive,
		StartTime:            d.StartTime.UTC(),
		EndTime:              d.EndTime.UTC(),
		RegistrationDeadline: d.RegistrationDeadline.UTC(),
		TotalVotes:           d.TotalVotes,
		TotalCandidates:      d.TotalCandidates,
		WinnerID:             d.WinnerID,
		Version:              d.Version,
		Candidates:           candidates,
		SyncedAt:             d.SyncedAt.UTC(),
	}
}
