package commands

import (
	"context"
	"time"

	"ledgervote/contexts/governance/election-engine/domain/entities"
	"ledgervote/contexts/governance/election-engine/domain/services"
	"ledgervote/contexts/governance/election-engine/ports"
	contractsv1 "ledgervote/contracts/gen/events/v1"
)

type CastVoteCommand struct {
	Caller         string
	Election       string
	CandidateID    uint64
	IdempotencyKey string
}

type CastVoteResult struct {
	CandidateID uint64 `json:"candidate_id"`
	TotalVotes  uint64 `json:"total_votes"`
	Version     uint64 `json:"version"`
	Replayed    bool   `json:"replayed"`
}

// CastVote records the caller's single vote. The voter record and the tally
// are written in the same election transaction.
func (uc ElectionUseCase) CastVote(ctx context.Context, cmd CastVoteCommand) (CastVoteResult, error) {
	caller, address, err := parseTargets(cmd.Caller, cmd.Election)
	if err != nil {
		return CastVoteResult{}, err
	}
	op := services.OpCastVote
	result, replayed, err := withIdempotency(ctx, uc, scopedKey(op, caller, cmd.IdempotencyKey), string(op),
		struct {
			Election    string `json:"election"`
			CandidateID uint64 `json:"candidate_id"`
		}{Election: address.String(), CandidateID: cmd.CandidateID},
		func() (CastVoteResult, error) {
			committed, err := uc.mutate(ctx, mutation{
				op:      op,
				caller:  caller,
				address: address,
				apply: func(ctx context.Context, tx ports.ElectionTx, election *entities.Election, now time.Time) (string, any, error) {
					record, err := tx.VoterRecord(ctx, caller)
					if err != nil {
						return "", nil, err
					}
					updated, err := election.CastVote(caller, record, cmd.CandidateID, now)
					if err != nil {
						return "", nil, err
					}
					if err := tx.SaveVoterRecord(ctx, updated); err != nil {
						return "", nil, err
					}
					return contractsv1.EventTypeVoteCasted, contractsv1.VoteCastedData{
						ElectionRef: electionRef(*election),
						Voter:       caller.String(),
						CandidateID: cmd.CandidateID,
					}, nil
				},
			})
			if err != nil {
				return CastVoteResult{}, err
			}
			return CastVoteResult{
				CandidateID: cmd.CandidateID,
				TotalVotes:  committed.TotalVotes,
				Version:     committed.Version,
			}, nil
		},
	)
	if err != nil {
		return CastVoteResult{}, err
	}
	result.Replayed = replayed
	return result, nil
}
