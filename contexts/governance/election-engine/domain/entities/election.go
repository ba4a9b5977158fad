package entities

import (
	"strings"
	"time"

	domainerrors "ledgervote/contexts/governance/election-engine/domain/errors"
	"ledgervote/contexts/governance/election-engine/domain/valueobjects"
)

// NoWinner is returned by Winner when no vote was cast.
const NoWinner uint64 = 0

// Election is the per-election aggregate. Every mutating method either
// applies its whole effect and bumps Version, or returns an error and leaves
// the receiver untouched.
type Election struct {
	ID                   uint64               `json:"id"`
	Address              valueobjects.Address `json:"address"`
	Name                 string               `json:"name"`
	Description          string               `json:"description"`
	Manager              valueobjects.Address `json:"manager"`
	Creator              valueobjects.Address `json:"creator"`
	StartTime            time.Time            `json:"start_time"`
	EndTime              time.Time            `json:"end_time"`
	RegistrationDeadline time.Time            `json:"registration_deadline"`
	Status               ElectionStatus       `json:"status"`
	TotalVotes           uint64               `json:"total_votes"`
	TotalCandidates      uint64               `json:"total_candidates"`
	IsActive             bool                 `json:"is_active"`
	WinnerID             uint64               `json:"winner_id"`
	CreatedAt            time.Time            `json:"created_at"`
	UpdatedAt            time.Time            `json:"updated_at"`
	Version              uint64               `json:"version"`
	Candidates           []Candidate          `json:"candidates"`
}

// Clone returns a copy that shares no mutable state with e.
func (e Election) Clone() Election {
	out := e
	out.Candidates = make([]Candidate, len(e.Candidates))
	for i, candidate := range e.Candidates {
		if candidate.ValidatedAt != nil {
			validatedAt := *candidate.ValidatedAt
			candidate.ValidatedAt = &validatedAt
		}
		out.Candidates[i] = candidate
	}
	return out
}

func (e *Election) StartCandidateRegistration(now time.Time) error {
	if !e.IsActive {
		return domainerrors.ErrElectionInactive
	}
	if e.Status != ElectionStatusCreated {
		return domainerrors.ErrNotInCreated
	}
	if !now.Before(e.RegistrationDeadline) {
		return domainerrors.ErrRegistrationDeadline
	}
	e.Status = ElectionStatusRegistration
	e.touch(now)
	return nil
}

func (e *Election) RegisterCandidate(owner valueobjects.Address, profile CandidateProfile, now time.Time) (Candidate, error) {
	if !e.IsActive {
		return Candidate{}, domainerrors.ErrElectionInactive
	}
	if e.Status != ElectionStatusRegistration {
		return Candidate{}, domainerrors.ErrRegistrationNotOpen
	}
	if !now.Before(e.RegistrationDeadline) {
		return Candidate{}, domainerrors.ErrRegistrationClosed
	}
	for _, existing := range e.Candidates {
		if existing.Owner == owner {
			return Candidate{}, domainerrors.ErrAlreadyRegistered
		}
	}
	name := strings.TrimSpace(profile.Name)
	party := strings.TrimSpace(profile.Party)
	if name == "" {
		return Candidate{}, domainerrors.ErrNameRequired
	}
	if party == "" {
		return Candidate{}, domainerrors.ErrPartyRequired
	}

	candidate := Candidate{
		ID:           uint64(len(e.Candidates)) + 1,
		Owner:        owner,
		Name:         name,
		Party:        party,
		Manifesto:    strings.TrimSpace(profile.Manifesto),
		ImageHash:    strings.TrimSpace(profile.ImageHash),
		Status:       CandidateStatusPending,
		RegisteredAt: now.UTC(),
	}
	e.Candidates = append(e.Candidates, candidate)
	e.touch(now)
	return candidate, nil
}

func (e *Election) ValidateCandidate(candidateID uint64, approve bool, now time.Time) (Candidate, error) {
	if !e.IsActive {
		return Candidate{}, domainerrors.ErrElectionInactive
	}
	if e.Status != ElectionStatusRegistration && e.Status != ElectionStatusVoting {
		return Candidate{}, domainerrors.ErrValidationNotOpen
	}
	idx, ok := e.candidateIndex(candidateID)
	if !ok {
		return Candidate{}, domainerrors.ErrCandidateNotFound
	}
	candidate := &e.Candidates[idx]
	if candidate.Status != CandidateStatusPending {
		return Candidate{}, domainerrors.ErrAlreadyValidated
	}
	validatedAt := now.UTC()
	candidate.ValidatedAt = &validatedAt
	if approve {
		candidate.Status = CandidateStatusApproved
		e.TotalCandidates++
	} else {
		candidate.Status = CandidateStatusRejected
	}
	e.touch(now)
	return *candidate, nil
}

func (e *Election) StartVoting(now time.Time) error {
	if !e.IsActive {
		return domainerrors.ErrElectionInactive
	}
	if e.Status != ElectionStatusRegistration {
		return domainerrors.ErrRegistrationNotOpen
	}
	if now.Before(e.StartTime) {
		return domainerrors.ErrVotingNotStarted
	}
	if e.TotalCandidates == 0 {
		return domainerrors.ErrNoApprovedCandidates
	}
	e.Status = ElectionStatusVoting
	e.touch(now)
	return nil
}

// CastVote records one vote. record is the voter's current record for this
// election; the returned record replaces it.
func (e *Election) CastVote(voter valueobjects.Address, record VoterRecord, candidateID uint64, now time.Time) (VoterRecord, error) {
	if !e.IsActive {
		return VoterRecord{}, domainerrors.ErrElectionInactive
	}
	if e.Status != ElectionStatusVoting {
		return VoterRecord{}, domainerrors.ErrVotingNotOpen
	}
	if !now.Before(e.EndTime) {
		return VoterRecord{}, domainerrors.ErrVotingEnded
	}
	if record.HasVoted {
		return VoterRecord{}, domainerrors.ErrAlreadyVoted
	}
	idx, ok := e.candidateIndex(candidateID)
	if !ok {
		return VoterRecord{}, domainerrors.ErrCandidateNotFound
	}
	if e.Candidates[idx].Status != CandidateStatusApproved {
		return VoterRecord{}, domainerrors.ErrCandidateNotApproved
	}

	e.Candidates[idx].VoteCount++
	e.TotalVotes++
	e.touch(now)
	return VoterRecord{
		Voter:    voter,
		HasVoted: true,
		VotedFor: candidateID,
		VotedAt:  now.UTC(),
	}, nil
}

func (e *Election) EndElection(now time.Time) error {
	if !e.IsActive {
		return domainerrors.ErrElectionInactive
	}
	if e.Status != ElectionStatusVoting {
		return domainerrors.ErrVotingNotOpen
	}
	if now.Before(e.EndTime) {
		return domainerrors.ErrElectionNotOver
	}
	e.Status = ElectionStatusEnded
	e.touch(now)
	return nil
}

func (e *Election) DeclareResult(now time.Time) (uint64, error) {
	if !e.IsActive {
		return NoWinner, domainerrors.ErrElectionInactive
	}
	if e.Status != ElectionStatusEnded {
		return NoWinner, domainerrors.ErrNotEnded
	}
	e.WinnerID = e.leader()
	e.Status = ElectionStatusResultDeclared
	e.touch(now)
	return e.WinnerID, nil
}

// SetActive flips the activation flag and reports whether it changed.
func (e *Election) SetActive(active bool, now time.Time) bool {
	if e.IsActive == active {
		return false
	}
	e.IsActive = active
	e.touch(now)
	return true
}

// Winner is the approved candidate with the most votes, ties going to the
// lowest id. It is NoWinner when no votes were cast.
func (e Election) Winner() (uint64, error) {
	if !e.Status.ResultsAvailable() {
		return NoWinner, domainerrors.ErrResultsNotAvailable
	}
	return e.leader(), nil
}

// Results lists approved candidates ordered by id.
func (e Election) Results() ([]Candidate, error) {
	if !e.Status.ResultsAvailable() {
		return nil, domainerrors.ErrResultsNotAvailable
	}
	return e.CandidatesWithStatus(CandidateStatusApproved), nil
}

func (e Election) Candidate(candidateID uint64) (Candidate, error) {
	idx, ok := e.candidateIndex(candidateID)
	if !ok {
		return Candidate{}, domainerrors.ErrCandidateNotFound
	}
	return e.Candidates[idx], nil
}

func (e Election) CandidatesWithStatus(status CandidateStatus) []Candidate {
	out := make([]Candidate, 0, len(e.Candidates))
	for _, candidate := range e.Candidates {
		if candidate.Status == status {
			out = append(out, candidate)
		}
	}
	return out
}

func (e Election) leader() uint64 {
	if e.TotalVotes == 0 {
		return NoWinner
	}
	winner := NoWinner
	var best uint64
	for _, candidate := range e.Candidates {
		if candidate.Status != CandidateStatusApproved {
			continue
		}
		if winner == NoWinner || candidate.VoteCount > best {
			winner = candidate.ID
			best = candidate.VoteCount
		}
	}
	return winner
}

// Candidates are stored densely by id, so the index is id-1.
func (e Election) candidateIndex(candidateID uint64) (int, bool) {
	if candidateID == 0 || candidateID > uint64(len(e.Candidates)) {
		return 0, false
	}
	return int(candidateID - 1), true
}

func (e *Election) touch(now time.Time) {
	e.UpdatedAt = now.UTC()
	e.Version++
}
