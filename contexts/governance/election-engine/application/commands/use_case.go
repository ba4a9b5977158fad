package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "ledgervote/contexts/governance/election-engine/application"
	"ledgervote/contexts/governance/election-engine/domain/entities"
	domainerrors "ledgervote/contexts/governance/election-engine/domain/errors"
	"ledgervote/contexts/governance/election-engine/domain/services"
	"ledgervote/contexts/governance/election-engine/domain/valueobjects"
	"ledgervote/contexts/governance/election-engine/ports"
)

// ElectionUseCase orchestrates every mutating factory and election
// operation. Each call runs as one unit of work: capability check, guard
// evaluation, state change and outbox append commit together or not at all.
type ElectionUseCase struct {
	Elections      ports.Repository
	Roles          ports.RoleDirectory
	Addresses      ports.AddressDeriver
	Idempotency    ports.IdempotencyStore
	Capabilities   services.CapabilityTable
	Clock          ports.Clock
	IDGen          ports.IDGenerator
	IdempotencyTTL time.Duration
	Logger         *slog.Logger
}

// applyFunc mutates the working copy and returns the event to emit. An empty
// event type means the operation was a no-op and nothing is written.
type applyFunc func(
	ctx context.Context,
	tx ports.ElectionTx,
	election *entities.Election,
	now time.Time,
) (eventType string, data any, err error)

type mutation struct {
	op      services.Operation
	caller  valueobjects.Address
	address valueobjects.Address
	apply   applyFunc
}

func (uc ElectionUseCase) mutate(ctx context.Context, m mutation) (entities.Election, error) {
	logger := application.ResolveLogger(uc.Logger)
	now := uc.now()
	roles, err := uc.Roles.RolesOf(ctx, m.caller)
	if err != nil {
		logger.Error("election role lookup failed",
			"event", "election_role_lookup_failed",
			"module", "governance/election-engine",
			"layer", "application",
			"operation", string(m.op),
			"caller", m.caller.String(),
			"error", err.Error(),
		)
		return entities.Election{}, err
	}

	var committed entities.Election
	var emitted string
	err = uc.Elections.WithinElection(ctx, m.address, func(tx ports.ElectionTx) error {
		current, err := tx.LoadElection(ctx)
		if err != nil {
			return err
		}
		actor := services.Actor{
			Principal: m.caller,
			Roles:     roles,
			IsManager: current.Manager == m.caller,
		}
		if err := uc.capabilities().Authorize(m.op, actor); err != nil {
			return err
		}

		working := current.Clone()
		eventType, data, err := m.apply(ctx, tx, &working, now)
		if err != nil {
			return err
		}
		if eventType == "" {
			committed = current
			return nil
		}
		if err := tx.SaveElection(ctx, working); err != nil {
			return err
		}
		envelope, err := newElectionEnvelope(ctx, uc.IDGen, eventType, working.Address.String(), now, data)
		if err != nil {
			return err
		}
		if err := tx.AppendOutbox(ctx, envelope); err != nil {
			return err
		}
		committed = working
		emitted = eventType
		return nil
	})
	if err != nil {
		level := slog.LevelWarn
		if _, typed := domainerrors.KindOf(err); !typed {
			level = slog.LevelError
		}
		logger.Log(ctx, level, "election operation rejected",
			"event", "election_"+string(m.op)+"_rejected",
			"module", "governance/election-engine",
			"layer", "application",
			"election_address", m.address.String(),
			"caller", m.caller.String(),
			"error", err.Error(),
		)
		return entities.Election{}, err
	}

	logger.Info("election operation committed",
		"event", "election_"+string(m.op)+"_completed",
		"module", "governance/election-engine",
		"layer", "application",
		"election_address", m.address.String(),
		"caller", m.caller.String(),
		"event_type", emitted,
		"version", committed.Version,
	)
	return committed, nil
}

func (uc ElectionUseCase) capabilities() services.CapabilityTable {
	if uc.Capabilities == nil {
		return services.DefaultCapabilities(true)
	}
	return uc.Capabilities
}

func (uc ElectionUseCase) now() time.Time {
	if uc.Clock == nil {
		return time.Now().UTC()
	}
	return uc.Clock.Now().UTC()
}

func parseCaller(raw string) (valueobjects.Address, error) {
	caller, err := valueobjects.NewAddress(raw)
	if err != nil {
		return "", domainerrors.ErrInvalidCaller
	}
	return caller, nil
}

func parseElection(raw string) (valueobjects.Address, error) {
	address, err := valueobjects.NewAddress(raw)
	if err != nil {
		return "", domainerrors.ErrElectionNotFound
	}
	return address, nil
}

func parseTargets(caller string, election string) (valueobjects.Address, valueobjects.Address, error) {
	callerAddress, err := parseCaller(caller)
	if err != nil {
		return "", "", err
	}
	electionAddress, err := parseElection(election)
	if err != nil {
		return "", "", err
	}
	return callerAddress, electionAddress, nil
}

// scopedKey namespaces a client key by operation and caller. An empty key
// stays empty so the command runs without idempotency.
func scopedKey(op services.Operation, caller valueobjects.Address, key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return ""
	}
	return "election:" + string(op) + ":" + caller.String() + ":" + key
}
