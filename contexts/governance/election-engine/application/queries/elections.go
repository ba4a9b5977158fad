package queries

import (
	"context"
	"sort"
	"time"

	"ledgervote/contexts/governance/election-engine/domain/entities"
	domainerrors "ledgervote/contexts/governance/election-engine/domain/errors"
	"ledgervote/contexts/governance/election-engine/domain/valueobjects"
	"ledgervote/contexts/governance/election-engine/ports"

	"github.com/samber/lo"
)

// ElectionQueries serves read-only factory and election lookups from the
// last committed snapshot. None of them take the election lock.
type ElectionQueries struct {
	Elections ports.Repository
	Roles     ports.RoleDirectory
}

// ElectionSummary is the factory view of one election.
type ElectionSummary struct {
	ID                   uint64                  `json:"id"`
	Address              string                  `json:"address"`
	Name                 string                  `json:"name"`
	Manager              string                  `json:"manager"`
	Status               entities.ElectionStatus `json:"status"`
	IsActive             bool                    `json:"is_active"`
	StartTime            time.Time               `json:"start_time"`
	EndTime              time.Time               `json:"end_time"`
	RegistrationDeadline time.Time               `json:"registration_deadline"`
	CreatedAt            time.Time               `json:"created_at"`
	Version              uint64                  `json:"version"`
}

// ElectionInfo is the full header of one election without candidates.
type ElectionInfo struct {
	ElectionSummary
	Description     string `json:"description"`
	Creator         string `json:"creator"`
	TotalVotes      uint64 `json:"total_votes"`
	TotalCandidates uint64 `json:"total_candidates"`
	WinnerID        uint64 `json:"winner_id"`
}

type VoterStatus struct {
	IsRoleVoter bool   `json:"is_role_voter"`
	HasVoted    bool   `json:"has_voted"`
	VotedFor    uint64 `json:"voted_for"`
}

func (q ElectionQueries) GetElection(ctx context.Context, address string) (ElectionSummary, error) {
	election, err := q.load(ctx, address)
	if err != nil {
		return ElectionSummary{}, err
	}
	return summarize(election), nil
}

// ListElections returns every election in creation order.
func (q ElectionQueries) ListElections(ctx context.Context) ([]ElectionSummary, error) {
	items, err := q.Elections.ListElections(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return lo.Map(items, func(item entities.Election, _ int) ElectionSummary {
		return summarize(item)
	}), nil
}

func (q ElectionQueries) TotalElections(ctx context.Context) (int, error) {
	return q.Elections.CountElections(ctx)
}

func (q ElectionQueries) ElectionInfo(ctx context.Context, address string) (ElectionInfo, error) {
	election, err := q.load(ctx, address)
	if err != nil {
		return ElectionInfo{}, err
	}
	return ElectionInfo{
		ElectionSummary: summarize(election),
		Description:     election.Description,
		Creator:         election.Creator.String(),
		TotalVotes:      election.TotalVotes,
		TotalCandidates: election.TotalCandidates,
		WinnerID:        election.WinnerID,
	}, nil
}

// Snapshot returns the committed aggregate including candidates.
func (q ElectionQueries) Snapshot(ctx context.Context, address string) (entities.Election, error) {
	return q.load(ctx, address)
}

func (q ElectionQueries) GetCandidate(ctx context.Context, address string, candidateID uint64) (entities.Candidate, error) {
	election, err := q.load(ctx, address)
	if err != nil {
		return entities.Candidate{}, err
	}
	return election.Candidate(candidateID)
}

func (q ElectionQueries) ApprovedCandidates(ctx context.Context, address string) ([]entities.Candidate, error) {
	return q.candidatesWithStatus(ctx, address, entities.CandidateStatusApproved)
}

func (q ElectionQueries) PendingCandidates(ctx context.Context, address string) ([]entities.Candidate, error) {
	return q.candidatesWithStatus(ctx, address, entities.CandidateStatusPending)
}

// TotalRegisteredCandidates counts every registration regardless of status.
func (q ElectionQueries) TotalRegisteredCandidates(ctx context.Context, address string) (int, error) {
	election, err := q.load(ctx, address)
	if err != nil {
		return 0, err
	}
	return len(election.Candidates), nil
}

func (q ElectionQueries) Winner(ctx context.Context, address string) (uint64, error) {
	election, err := q.load(ctx, address)
	if err != nil {
		return entities.NoWinner, err
	}
	return election.Winner()
}

func (q ElectionQueries) Results(ctx context.Context, address string) ([]entities.Candidate, error) {
	election, err := q.load(ctx, address)
	if err != nil {
		return nil, err
	}
	return election.Results()
}

func (q ElectionQueries) HasVoted(ctx context.Context, address string, voter string) (bool, error) {
	record, _, err := q.voterRecord(ctx, address, voter)
	if err != nil {
		return false, err
	}
	return record.HasVoted, nil
}

func (q ElectionQueries) VoterStatus(ctx context.Context, address string, voter string) (VoterStatus, error) {
	record, principal, err := q.voterRecord(ctx, address, voter)
	if err != nil {
		return VoterStatus{}, err
	}
	roles, err := q.Roles.RolesOf(ctx, principal)
	if err != nil {
		return VoterStatus{}, err
	}
	return VoterStatus{
		IsRoleVoter: lo.Contains(roles, entities.RoleVoter),
		HasVoted:    record.HasVoted,
		VotedFor:    record.VotedFor,
	}, nil
}

func (q ElectionQueries) candidatesWithStatus(ctx context.Context, address string, status entities.CandidateStatus) ([]entities.Candidate, error) {
	election, err := q.load(ctx, address)
	if err != nil {
		return nil, err
	}
	return election.CandidatesWithStatus(status), nil
}

// voterRecord also returns the parsed voter so callers do not parse it twice.
func (q ElectionQueries) voterRecord(ctx context.Context, address string, voter string) (entities.VoterRecord, valueobjects.Address, error) {
	electionAddress, err := valueobjects.NewAddress(address)
	if err != nil {
		return entities.VoterRecord{}, "", domainerrors.ErrElectionNotFound
	}
	principal, err := valueobjects.NewAddress(voter)
	if err != nil {
		return entities.VoterRecord{}, "", domainerrors.ErrInvalidAddress
	}
	record, err := q.Elections.GetVoterRecord(ctx, electionAddress, principal)
	if err != nil {
		return entities.VoterRecord{}, "", err
	}
	return record, principal, nil
}

func (q ElectionQueries) load(ctx context.Context, address string) (entities.Election, error) {
	electionAddress, err := valueobjects.NewAddress(address)
	if err != nil {
		return entities.Election{}, domainerrors.ErrElectionNotFound
	}
	return q.Elections.GetElection(ctx, electionAddress)
}

func summarize(election entities.Election) ElectionSummary {
	return ElectionSummary{
		ID:                   election.ID,
		Address:              election.Address.String(),
		Name:                 election.Name,
		Manager:              election.Manager.String(),
		Status:               election.Status,
		IsActive:             election.IsActive,
		StartTime:            election.StartTime,
		EndTime:              election.EndTime,
		RegistrationDeadline: election.RegistrationDeadline,
		CreatedAt:            election.CreatedAt,
		Version:              election.Version,
	}
}
