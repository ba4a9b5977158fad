package commands

import (
	"context"
	"log/slog"

	application "ledgervote/contexts/governance/access-control/application"
	"ledgervote/contexts/governance/access-control/domain/entities"
	"ledgervote/contexts/governance/access-control/ports"
	contractsv1 "ledgervote/contracts/gen/events/v1"
)

// GrantRoleUseCase assigns a role when the caller holds a delegating role.
type GrantRoleUseCase struct {
	Repository ports.Repository
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

func (u GrantRoleUseCase) Execute(ctx context.Context, cmd RoleMutationCommand) (RoleMutationResult, error) {
	logger := application.ResolveLogger(u.Logger)
	input, err := parseMutation(cmd)
	if err != nil {
		logger.Warn("grant role rejected",
			"event", "access_control_grant_invalid_input",
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
		subjectRoles, err := tx.RolesOf(ctx, input.subject)
		if err != nil {
			return err
		}
		if holds(subjectRoles, input.role) {
			return nil
		}
		if err := tx.Assign(ctx, entities.RoleAssignment{
			Role:      input.role,
			Subject:   input.subject,
			GrantedBy: input.caller,
			GrantedAt: now,
		}); err != nil {
			return err
		}
		envelope, err := newRoleEnvelope(ctx, u.IDGen, contractsv1.EventTypeRoleGranted, input.subject.String(), now,
			contractsv1.RoleGrantedData{
				Role:      string(input.role),
				Subject:   input.subject.String(),
				GrantedBy: input.caller.String(),
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
		logger.Warn("grant role failed",
			"event", "access_control_grant_failed",
			"module", "governance/access-control",
			"layer", "application",
			"caller", input.caller.String(),
			"role", string(input.role),
			"subject", cmd.Subject,
			"error", err.Error(),
		)
		return RoleMutationResult{}, err
	}

	logger.Info("grant role processed",
		"event", "access_control_grant_completed",
		"module", "governance/access-control",
		"layer", "application",
		"caller", input.caller.String(),
		"role", string(input.role),
		"subject", input.subject.String(),
		"changed", result.Changed,
	)
	return result, nil
}
