package commands

import (
	"context"
	"strings"
	"time"

	application "ledgervote/contexts/governance/election-engine/application"
	domainerrors "ledgervote/contexts/governance/election-engine/domain/errors"
	"ledgervote/contexts/governance/election-engine/domain/services"
	"ledgervote/contexts/governance/election-engine/domain/valueobjects"
	"ledgervote/contexts/governance/election-engine/ports"
	contractsv1 "ledgervote/contracts/gen/events/v1"
)

// CreateElectionCommand is the factory input. An empty Manager defaults to
// the caller; any other manager is rejected.
type CreateElectionCommand struct {
	Caller               string
	Manager              string
	Name                 string
	Description          string
	StartTime            time.Time
	EndTime              time.Time
	RegistrationDeadline time.Time
	IdempotencyKey       string
}

type CreateElectionResult struct {
	ElectionID uint64 `json:"election_id"`
	Address    string `json:"address"`
	Replayed   bool   `json:"replayed"`
}

func (uc ElectionUseCase) CreateElection(ctx context.Context, cmd CreateElectionCommand) (CreateElectionResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	caller, err := parseCaller(cmd.Caller)
	if err != nil {
		return CreateElectionResult{}, err
	}
	manager := caller
	if strings.TrimSpace(cmd.Manager) != "" {
		manager, err = valueobjects.NewAddress(cmd.Manager)
		if err != nil {
			return CreateElectionResult{}, domainerrors.ErrInvalidAddress
		}
	}

	roles, err := uc.Roles.RolesOf(ctx, caller)
	if err != nil {
		return CreateElectionResult{}, err
	}
	if err := uc.capabilities().Authorize(services.OpCreateElection, services.Actor{Principal: caller, Roles: roles}); err != nil {
		logger.Warn("create election denied",
			"event", "election_create_denied",
			"module", "governance/election-engine",
			"layer", "application",
			"caller", caller.String(),
		)
		return CreateElectionResult{}, err
	}
	if manager != caller {
		return CreateElectionResult{}, domainerrors.ErrManagerMustBeCaller
	}

	now := uc.now()
	draft, err := services.ValidateDraft(services.ElectionDraft{
		Name:                 cmd.Name,
		Description:          cmd.Description,
		Manager:              manager,
		Creator:              caller,
		StartTime:            cmd.StartTime,
		EndTime:              cmd.EndTime,
		RegistrationDeadline: cmd.RegistrationDeadline,
	}, now)
	if err != nil {
		logger.Warn("create election validation failed",
			"event", "election_create_validation_failed",
			"module", "governance/election-engine",
			"layer", "application",
			"caller", caller.String(),
			"error", err.Error(),
		)
		return CreateElectionResult{}, err
	}

	result, replayed, err := withIdempotency(ctx, uc,
		scopedKey(services.OpCreateElection, caller, cmd.IdempotencyKey),
		string(services.OpCreateElection),
		draft,
		func() (CreateElectionResult, error) {
			return uc.createElection(ctx, draft, now)
		},
	)
	if err != nil {
		return CreateElectionResult{}, err
	}
	result.Replayed = replayed
	return result, nil
}

func (uc ElectionUseCase) createElection(ctx context.Context, draft services.ElectionDraft, now time.Time) (CreateElectionResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	var result CreateElectionResult
	err := uc.Elections.WithinFactory(ctx, func(tx ports.FactoryTx) error {
		id, err := tx.NextElectionID(ctx)
		if err != nil {
			return err
		}
		address, err := uc.Addresses.ElectionAddress(id)
		if err != nil {
			return err
		}
		election := services.NewElection(draft, id, address, now)
		if err := tx.CreateElection(ctx, election); err != nil {
			return err
		}
		envelope, err := newElectionEnvelope(ctx, uc.IDGen, contractsv1.EventTypeElectionCreated, address.String(), now,
			contractsv1.ElectionCreatedData{
				ElectionRef: electionRef(election),
				ElectionID:  election.ID,
				Manager:     election.Manager.String(),
				Name:        election.Name,
				StartTime:   election.StartTime,
				EndTime:     election.EndTime,
			})
		if err != nil {
			return err
		}
		if err := tx.AppendOutbox(ctx, envelope); err != nil {
			return err
		}
		result = CreateElectionResult{ElectionID: id, Address: address.String()}
		return nil
	})
	if err != nil {
		logger.Error("create election failed",
			"event", "election_create_failed",
			"module", "governance/election-engine",
			"layer", "application",
			"manager", draft.Manager.String(),
			"error", err.Error(),
		)
		return CreateElectionResult{}, err
	}
	logger.Info("election created",
		"event", "election_created",
		"module", "governance/election-engine",
		"layer", "application",
		"election_id", result.ElectionID,
		"election_address", result.Address,
		"manager", draft.Manager.String(),
	)
	return result, nil
}
