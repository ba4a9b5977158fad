package commands

import (
	"context"
	"time"

	"ledgervote/contexts/governance/election-engine/domain/entities"
	"ledgervote/contexts/governance/election-engine/domain/services"
	"ledgervote/contexts/governance/election-engine/ports"
	contractsv1 "ledgervote/contracts/gen/events/v1"
)

// RegisterCandidateCommand registers Caller as a candidate.
type RegisterCandidateCommand struct {
	Caller         string
	Election       string
	Name           string
	Party          string
	Manifesto      string
	ImageHash      string
	IdempotencyKey string
}

type RegisterCandidateResult struct {
	CandidateID uint64 `json:"candidate_id"`
	Version     uint64 `json:"version"`
	Replayed    bool   `json:"replayed"`
}

type ValidateCandidateCommand struct {
	Caller         string
	Election       string
	CandidateID    uint64
	Approve        bool
	IdempotencyKey string
}

type ValidateCandidateResult struct {
	CandidateID uint64                   `json:"candidate_id"`
	Status      entities.CandidateStatus `json:"status"`
	Version     uint64                   `json:"version"`
	Replayed    bool                     `json:"replayed"`
}

func (uc ElectionUseCase) RegisterCandidate(ctx context.Context, cmd RegisterCandidateCommand) (RegisterCandidateResult, error) {
	caller, address, err := parseTargets(cmd.Caller, cmd.Election)
	if err != nil {
		return RegisterCandidateResult{}, err
	}
	profile := entities.CandidateProfile{
		Name:      cmd.Name,
		Party:     cmd.Party,
		Manifesto: cmd.Manifesto,
		ImageHash: cmd.ImageHash,
	}
	op := services.OpRegisterCandidate
	result, replayed, err := withIdempotency(ctx, uc, scopedKey(op, caller, cmd.IdempotencyKey), string(op),
		struct {
			Election string                    `json:"election"`
			Profile  entities.CandidateProfile `json:"profile"`
		}{Election: address.String(), Profile: profile},
		func() (RegisterCandidateResult, error) {
			var registered entities.Candidate
			committed, err := uc.mutate(ctx, mutation{
				op:      op,
				caller:  caller,
				address: address,
				apply: func(_ context.Context, _ ports.ElectionTx, election *entities.Election, now time.Time) (string, any, error) {
					candidate, err := election.RegisterCandidate(caller, profile, now)
					if err != nil {
						return "", nil, err
					}
					registered = candidate
					return contractsv1.EventTypeCandidateRegistered, contractsv1.CandidateRegisteredData{
						ElectionRef: electionRef(*election),
						CandidateID: candidate.ID,
						Address:     candidate.Owner.String(),
						Name:        candidate.Name,
					}, nil
				},
			})
			if err != nil {
				return RegisterCandidateResult{}, err
			}
			return RegisterCandidateResult{CandidateID: registered.ID, Version: committed.Version}, nil
		},
	)
	if err != nil {
		return RegisterCandidateResult{}, err
	}
	result.Replayed = replayed
	return result, nil
}

func (uc ElectionUseCase) ValidateCandidate(ctx context.Context, cmd ValidateCandidateCommand) (ValidateCandidateResult, error) {
	caller, address, err := parseTargets(cmd.Caller, cmd.Election)
	if err != nil {
		return ValidateCandidateResult{}, err
	}
	op := services.OpValidateCandidate
	result, replayed, err := withIdempotency(ctx, uc, scopedKey(op, caller, cmd.IdempotencyKey), string(op),
		struct {
			Election    string `json:"election"`
			CandidateID uint64 `json:"candidate_id"`
			Approve     bool   `json:"approve"`
		}{Election: address.String(), CandidateID: cmd.CandidateID, Approve: cmd.Approve},
		func() (ValidateCandidateResult, error) {
			var validated entities.Candidate
			committed, err := uc.mutate(ctx, mutation{
				op:      op,
				caller:  caller,
				address: address,
				apply: func(_ context.Context, _ ports.ElectionTx, election *entities.Election, now time.Time) (string, any, error) {
					candidate, err := election.ValidateCandidate(cmd.CandidateID, cmd.Approve, now)
					if err != nil {
						return "", nil, err
					}
					validated = candidate
					return contractsv1.EventTypeCandidateValidated, contractsv1.CandidateValidatedData{
						ElectionRef: electionRef(*election),
						CandidateID: candidate.ID,
						NewStatus:   string(candidate.Status),
					}, nil
				},
			})
			if err != nil {
				return ValidateCandidateResult{}, err
			}
			return ValidateCandidateResult{
				CandidateID: validated.ID,
				Status:      validated.Status,
				Version:     committed.Version,
			}, nil
		},
	)
	if err != nil {
		return ValidateCandidateResult{}, err
	}
	result.Replayed = replayed
	return result, nil
}
