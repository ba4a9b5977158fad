package commands

import (
	"context"
	"time"

	"ledgervote/contexts/governance/election-engine/domain/entities"
	"ledgervote/contexts/governance/election-engine/domain/services"
	"ledgervote/contexts/governance/election-engine/ports"
	contractsv1 "ledgervote/contracts/gen/events/v1"
)

type ActivationCommand struct {
	Caller   string
	Election string
}

type ActivationResult struct {
	IsActive bool   `json:"is_active"`
	Changed  bool   `json:"changed"`
	Version  uint64 `json:"version"`
}

// Deactivate freezes every mutating operation on the election until it is
// reactivated. Deactivating an inactive election is a no-op.
func (uc ElectionUseCase) Deactivate(ctx context.Context, cmd ActivationCommand) (ActivationResult, error) {
	return uc.setActive(ctx, cmd, false)
}

func (uc ElectionUseCase) Reactivate(ctx context.Context, cmd ActivationCommand) (ActivationResult, error) {
	return uc.setActive(ctx, cmd, true)
}

func (uc ElectionUseCase) setActive(ctx context.Context, cmd ActivationCommand, active bool) (ActivationResult, error) {
	caller, address, err := parseTargets(cmd.Caller, cmd.Election)
	if err != nil {
		return ActivationResult{}, err
	}
	changed := false
	committed, err := uc.mutate(ctx, mutation{
		op:      services.OpChangeActivation,
		caller:  caller,
		address: address,
		apply: func(_ context.Context, _ ports.ElectionTx, election *entities.Election, now time.Time) (string, any, error) {
			if !election.SetActive(active, now) {
				return "", nil, nil
			}
			changed = true
			return contractsv1.EventTypeElectionActivationChanged, contractsv1.ElectionActivationChangedData{
				ElectionRef: electionRef(*election),
				IsActive:    election.IsActive,
			}, nil
		},
	})
	if err != nil {
		return ActivationResult{}, err
	}
	return ActivationResult{IsActive: committed.IsActive, Changed: changed, Version: committed.Version}, nil
}
