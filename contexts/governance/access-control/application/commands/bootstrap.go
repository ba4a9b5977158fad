package commands

import (
	"context"
	"log/slog"

	application "ledgervote/contexts/governance/access-control/application"
	"ledgervote/contexts/governance/access-control/domain/entities"
	domainerrors "ledgervote/contexts/governance/access-control/domain/errors"
	"ledgervote/contexts/governance/access-control/domain/valueobjects"
	"ledgervote/contexts/governance/access-control/ports"
	contractsv1 "ledgervote/contracts/gen/events/v1"
)

// BootstrapUseCase seeds the first super admin of an empty registry. Once any
// super admin exists the call is a no-op, so processes may run it on every start.
type BootstrapUseCase struct {
	Repository ports.Repository
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

func (u BootstrapUseCase) Execute(ctx context.Context, superAdmin string) (RoleMutationResult, error) {
	logger := application.ResolveLogger(u.Logger)
	subject, err := valueobjects.NewPrincipal(superAdmin)
	if err != nil {
		return RoleMutationResult{}, domainerrors.ErrInvalidSubject
	}

	result := RoleMutationResult{Role: entities.RoleSuperAdmin, Subject: subject}
	now := resolveNow(u.Clock)
	err = u.Repository.WithinTransaction(ctx, func(tx ports.RegistryTx) error {
		count, err := tx.CountHolders(ctx, entities.RoleSuperAdmin)
		if err != nil {
			return err
		}
		if count > 0 {
			return nil
		}
		if err := tx.Assign(ctx, entities.RoleAssignment{
			Role:      entities.RoleSuperAdmin,
			Subject:   subject,
			GrantedBy: subject,
			GrantedAt: now,
		}); err != nil {
			return err
		}
		envelope, err := newRoleEnvelope(ctx, u.IDGen, contractsv1.EventTypeRoleGranted, subject.String(), now,
			contractsv1.RoleGrantedData{
				Role:      string(entities.RoleSuperAdmin),
				Subject:   subject.String(),
				GrantedBy: subject.String(),
			})
		if err != nil {
			return err
		}
		if err := tx.AppendOutbox(ctx, envelope); err != nil {
			return err
		}
		result.Changed = true
		return nil
	})
	if err != nil {
		logger.Error("bootstrap super admin failed",
			"event", "access_control_bootstrap_failed",
			"module", "governance/access-control",
			"layer", "application",
			"subject", subject.String(),
			"error", err.Error(),
		)
		return RoleMutationResult{}, err
	}
	logger.Info("bootstrap super admin checked",
		"event", "access_control_bootstrap_completed",
		"module", "governance/access-control",
		"layer", "application",
		"subject", subject.String(),
		"seeded", result.Changed,
	)
	return result, nil
}
