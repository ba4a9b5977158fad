package postgresadapter

import (
	"time"

	"ledgervote/contexts/governance/election-engine/domain/entities"
	"ledgervote/contexts/governance/election-engine/domain/valueobjects"
)

const factoryStateID = 1

type factoryStateModel struct {
	ID     int    `gorm:"column:id;primaryKey"`
	LastID uint64 `gorm:"column:last_id"`
}

func (factoryStateModel) TableName() string {
	return "election_factory_state"
}

type electionModel struct {
	Address              string    `gorm:"column:address;primaryKey"`
	ElectionID           uint64    `gorm:"column:election_id;uniqueIndex"`
	Name                 string    `gorm:"column:name"`
	Description          string    `gorm:"column:description"`
	Manager              string    `gorm:"column:manager;index"`
	Creator              string    `gorm:"column:creator"`
	StartTime            time.Time `gorm:"column:start_time"`
	EndTime              time.Time `gorm:"column:end_time"`
	RegistrationDeadline time.Time `gorm:"column:registration_deadline"`
	Status               string    `gorm:"column:status"`
	TotalVotes           uint64    `gorm:"column:total_votes"`
	TotalCandidates      uint64    `gorm:"column:total_candidates"`
	IsActive             bool      `gorm:"column:is_active"`
	WinnerID             uint64    `gorm:"column:winner_id"`
	CreatedAt            time.Time `gorm:"column:created_at"`
	UpdatedAt            time.Time `gorm:"column:updated_at"`
	Version              uint64    `gorm:"column:version"`
}

func (electionModel) TableName() string {
	return "elections"
}

type candidateModel struct {
	ElectionAddress string     `gorm:"column:election_address;primaryKey;uniqueIndex:idx_election_candidate_owner,priority:1"`
	CandidateID     uint64     `gorm:"column:candidate_id;primaryKey"`
	Owner           string     `gorm:"column:owner;uniqueIndex:idx_election_candidate_owner,priority:2"`
	Name            string     `gorm:"column:name"`
	Party           string     `gorm:"column:party"`
	Manifesto       string     `gorm:"column:manifesto"`
	ImageHash       string     `gorm:"column:image_hash"`
	Status          string     `gorm:"column:status"`
	VoteCount       uint64     `gorm:"column:vote_count"`
	RegisteredAt    time.Time  `gorm:"column:registered_at"`
	ValidatedAt     *time.Time `gorm:"column:validated_at"`
}

func (candidateModel) TableName() string {
	return "election_candidates"
}

type voterRecordModel struct {
	ElectionAddress string    `gorm:"column:election_address;primaryKey"`
	Voter           string    `gorm:"column:voter;primaryKey"`
	VotedFor        uint64    `gorm:"column:voted_for"`
	VotedAt         time.Time `gorm:"column:voted_at"`
}

func (voterRecordModel) TableName() string {
	return "election_voter_records"
}

type idempotencyModel struct {
	Key             string    `gorm:"column:key;primaryKey"`
	Operation       string    `gorm:"column:operation"`
	RequestHash     string    `gorm:"column:request_hash"`
	ResponsePayload []byte    `gorm:"column:response_payload"`
	ExpiresAt       time.Time `gorm:"column:expires_at"`
}

func (idempotencyModel) TableName() string {
	return "election_idempotency"
}

type outboxModel struct {
	Sequence     int64      `gorm:"column:sequence;autoIncrement;uniqueIndex"`
	OutboxID     string     `gorm:"column:outbox_id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key;index"`
	Payload      []byte     `gorm:"column:payload"`
	Status       string     `gorm:"column:status;index"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	PublishedAt  *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string {
	return "election_outbox"
}

func fromElection(election entities.Election) electionModel {
	return electionModel{
		Address:              election.Address.String(),
		ElectionID:           election.ID,
		Name:                 election.Name,
		Description:          election.Description,
		Manager:              election.Manager.String(),
		Creator:              election.Creator.String(),
		StartTime:            election.StartTime.UTC(),
		EndTime:              election.EndTime.UTC(),
		RegistrationDeadline: election.RegistrationDeadline.UTC(),
		Status:               string(election.Status),
		TotalVotes:           election.TotalVotes,
		TotalCandidates:      election.TotalCandidates,
		IsActive:             election.IsActive,
		WinnerID:             election.WinnerID,
		CreatedAt:            election.CreatedAt.UTC(),
		UpdatedAt:            election.UpdatedAt.UTC(),
		Version:              election.Version,
	}
}

func (m electionModel) toEntity(candidates []candidateModel) entities.Election {
	items := make([]entities.Candidate, 0, len(candidates))
	for _, row := range candidates {
		items = append(items, row.toEntity())
	}
	return entities.Election{
		ID:                   m.ElectionID,
		Address:              valueobjects.Address(m.Address),
		Name:                 m.Name,
		Description:          m.Description,
		Manager:              valueobjects.Address(m.Manager),
		Creator:              valueobjects.Address(m.Creator),
		StartTime:            m.StartTime.UTC(),
		EndTime:              m.EndTime.UTC(),
		RegistrationDeadline: m.RegistrationDeadline.UTC(),
		Status:               entities.ElectionStatus(m.Status),
		TotalVotes:           m.TotalVotes,
		TotalCandidates:      m.TotalCandidates,
		IsActive:             m.IsActive,
		WinnerID:             m.WinnerID,
		CreatedAt:            m.CreatedAt.UTC(),
		UpdatedAt:            m.UpdatedAt.UTC(),
		Version:              m.Version,
		Candidates:           items,
	}
}

func fromCandidate(address valueobjects.Address, candidate entities.Candidate) candidateModel {
	return candidateModel{
		ElectionAddress: address.String(),
		CandidateID:     candidate.ID,
		Owner:           candidate.Owner.String(),
		Name:            candidate.Name,
		Party:           candidate.Party,
		Manifesto:       candidate.Manifesto,
		ImageHash:       candidate.ImageHash,
		Status:          string(candidate.Status),
		VoteCount:       candidate.VoteCount,
		RegisteredAt:    candidate.RegisteredAt.UTC(),
		ValidatedAt:     normalizeOptionalTime(candidate.ValidatedAt),
	}
}

func (m candidateModel) toEntity() entities.Candidate {
	return entities.Candidate{
		ID:           m.CandidateID,
		Owner:        valueobjects.Address(m.Owner),
		Name:         m.Name,
		Party:        m.Party,
		Manifesto:    m.Manifesto,
		ImageHash:    m.ImageHash,
		Status:       entities.CandidateStatus(m.Status),
		VoteCount:    m.VoteCount,
		RegisteredAt: m.RegisteredAt.UTC(),
		ValidatedAt:  normalizeOptionalTime(m.ValidatedAt),
	}
}

func (m voterRecordModel) toEntity() entities.VoterRecord {
	return entities.VoterRecord{
		Voter:    valueobjects.Address(m.Voter),
		HasVoted: true,
		VotedFor: m.VotedFor,
		VotedAt:  m.VotedAt.UTC(),
	}
}

func normalizeOptionalTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	timestamp := value.UTC()
	return &timestamp
}
