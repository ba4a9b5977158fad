package commands

import (
	"context"
	"log/slog"

	application "ledgervote/contexts/governance/access-control/application"
	"ledgervote/contexts/governance/access-control/domain/entities"
	domainerrors "ledgervote/contexts/governance/access-control/domain/errors"
	"ledgervote/contexts/governance/access-control/ports"
	contractsv1 "ledgervote/contracts/gen/events/v1"
)

// RevokeRoleUseCase removes a role. A super admin can never drop its own
// super admin role, so the registry always keeps at least one.
type RevokeRoleUseCase struct {
	Repository ports.Repository
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

func (u RevokeRoleUseCase) Execute(ctx context.Context, cmd RoleMutationCommand) (RoleMutationResult, error) {
	logger := application.ResolveLogger(u.Logger)
	input, err := parseMutation(cmd)
	if err != nil {
		logger.Warn("revoke role rejected",
			"event", "access_control_revoke_invalid_input",
			"module", "governance/access-control",
			"layer", "application",
			"role", cmd.Role,
			"subject", cmd.Subject,
			"error", err.Error(),
		)
		return RoleMutationResult{}, err
	}

	result := RoleMutationResult{Role: input.role}
	now := resolveNow(u.Clock)
	err = u.Repository.WithinTransaction(ctx, func(tx ports.RegistryTx) error {
		callerRoles, err := tx.RolesOf(ctx, input.caller)
		if err != nil {
			return err
		}
		if err := input.authorize(callerRoles); err != nil {
			return err
		}
		result.Subject = input.subject
		if input.role == entities.RoleSuperAdmin && input.subject == input.caller {
			return domainerrors.ErrSelfRevocationDenied
		}
		subjectRoles, err := tx.RolesOf(ctx, input.subject)
		if err != nil {
			return err
		}
		if !holds(subjectRoles, input.role) {
			return nil
		}
		if input.role == entities.RoleSuperAdmin {
			count, err := tx.CountHolders(ctx, entities.RoleSuperAdmin)
			if err != nil {
				return err
			}
			if count <= 1 {
				return domainerrors.ErrLastSuperAdmin
			}
		}
		if err := tx.Remove(ctx, input.role, input.subject); err != nil {
			return err
		}
		envelope, err := newRoleEnvelope(ctx, u.IDGen, contractsv1.EventTypeRoleRevoked, input.subject.String(), now,
			contractsv1.RoleRevokedData{
				Role:      string(input.role),
				Subject:   input.subject.String(),
				RevokedBy: input.caller.String(),
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
		logger.Warn("revoke role failed",
			"event", "access_control_revoke_failed",
			"module", "governance/access-control",
			"layer", "application",
			"caller", input.caller.String(),
			"role", string(input.role),
			"subject", cmd.Subject,
			"error", err.Error(),
		)
		return RoleMutationResult{}, err
	}

	logger.Info("revoke role processed",
		"event", "access_control_revoke_completed",
		"module", "governance/access-control",
		"layer", "application",
		"caller", input.caller.String(),
		"role", string(input.role),
		"subject", input.subject.String(),
		"changed", result.Changed,
	)
	return result, nil
}
