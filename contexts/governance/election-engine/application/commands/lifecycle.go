package commands

import (
	"context"
	"time"

	"ledgervote/contexts/governance/election-engine/domain/entities"
	"ledgervote/contexts/governance/election-engine/domain/services"
	"ledgervote/contexts/governance/election-engine/ports"
	contractsv1 "ledgervote/contracts/gen/events/v1"
)

// LifecycleCommand targets one election on behalf of Caller.
type LifecycleCommand struct {
	Caller         string
	Election       string
	IdempotencyKey string
}

type TransitionResult struct {
	From     entities.ElectionStatus `json:"from"`
	To       entities.ElectionStatus `json:"to"`
	Version  uint64                  `json:"version"`
	Replayed bool                    `json:"replayed"`
}

type DeclareResultResult struct {
	WinnerID   uint64 `json:"winner_id"`
	TotalVotes uint64 `json:"total_votes"`
	Version    uint64 `json:"version"`
	Replayed   bool   `json:"replayed"`
}

func (uc ElectionUseCase) StartCandidateRegistration(ctx context.Context, cmd LifecycleCommand) (TransitionResult, error) {
	return uc.transition(ctx, cmd, services.OpStartCandidateRegistration, (*entities.Election).StartCandidateRegistration)
}

func (uc ElectionUseCase) StartVoting(ctx context.Context, cmd LifecycleCommand) (TransitionResult, error) {
	return uc.transition(ctx, cmd, services.OpStartVoting, (*entities.Election).StartVoting)
}

func (uc ElectionUseCase) EndElection(ctx context.Context, cmd LifecycleCommand) (TransitionResult, error) {
	return uc.transition(ctx, cmd, services.OpEndElection, (*entities.Election).EndElection)
}

func (uc ElectionUseCase) transition(
	ctx context.Context,
	cmd LifecycleCommand,
	op services.Operation,
	step func(*entities.Election, time.Time) error,
) (TransitionResult, error) {
	caller, address, err := parseTargets(cmd.Caller, cmd.Election)
	if err != nil {
		return TransitionResult{}, err
	}
	result, replayed, err := withIdempotency(ctx, uc, scopedKey(op, caller, cmd.IdempotencyKey), string(op),
		struct {
			Election string `json:"election"`
		}{Election: address.String()},
		func() (TransitionResult, error) {
			var from entities.ElectionStatus
			committed, err := uc.mutate(ctx, mutation{
				op:      op,
				caller:  caller,
				address: address,
				apply: func(_ context.Context, _ ports.ElectionTx, election *entities.Election, now time.Time) (string, any, error) {
					from = election.Status
					if err := step(election, now); err != nil {
						return "", nil, err
					}
					return contractsv1.EventTypeElectionStatusChanged, contractsv1.ElectionStatusChangedData{
						ElectionRef: electionRef(*election),
						From:        string(from),
						To:          string(election.Status),
					}, nil
				},
			})
			if err != nil {
				return TransitionResult{}, err
			}
			return TransitionResult{From: from, To: committed.Status, Version: committed.Version}, nil
		},
	)
	if err != nil {
		return TransitionResult{}, err
	}
	result.Replayed = replayed
	return result, nil
}

func (uc ElectionUseCase) DeclareResult(ctx context.Context, cmd LifecycleCommand) (DeclareResultResult, error) {
	caller, address, err := parseTargets(cmd.Caller, cmd.Election)
	if err != nil {
		return DeclareResultResult{}, err
	}
	op := services.OpDeclareResult
	result, replayed, err := withIdempotency(ctx, uc, scopedKey(op, caller, cmd.IdempotencyKey), string(op),
		struct {
			Election string `json:"election"`
		}{Election: address.String()},
		func() (DeclareResultResult, error) {
			committed, err := uc.mutate(ctx, mutation{
				op:      op,
				caller:  caller,
				address: address,
				apply: func(_ context.Context, _ ports.ElectionTx, election *entities.Election, now time.Time) (string, any, error) {
					winner, err := election.DeclareResult(now)
					if err != nil {
						return "", nil, err
					}
					return contractsv1.EventTypeResultDeclared, contractsv1.ResultDeclaredData{
						ElectionRef: electionRef(*election),
						WinnerID:    winner,
						TotalVotes:  election.TotalVotes,
					}, nil
				},
			})
			if err != nil {
				return DeclareResultResult{}, err
			}
			return DeclareResultResult{
				WinnerID:   committed.WinnerID,
				TotalVotes: committed.TotalVotes,
				Version:    committed.Version,
			}, nil
		},
	)
	if err != nil {
		return DeclareResultResult{}, err
	}
	result.Replayed = replayed
	return result, nil
}
