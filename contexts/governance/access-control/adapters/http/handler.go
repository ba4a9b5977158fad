package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"ledgervote/contexts/governance/access-control/application/commands"
	"ledgervote/contexts/governance/access-control/application/queries"
	"ledgervote/contexts/governance/access-control/domain/entities"
	httptransport "ledgervote/contexts/governance/access-control/transport/http"
)

type Handler struct {
	Grants  commands.GrantRoleUseCase
	Revokes commands.RevokeRoleUseCase
	Roles   queries.RoleQueries
	Logger  *slog.Logger
}

func (h Handler) GrantRoleHandler(
	ctx context.Context,
	caller string,
	req httptransport.RoleMutationRequest,
) (httptransport.RoleMutationResponse, error) {
	result, err := h.Grants.Execute(ctx, commands.RoleMutationCommand{
		Caller:  caller,
		Role:    req.Role,
		Subject: req.Subject,
	})
	if err != nil {
		return httptransport.RoleMutationResponse{}, err
	}
	return mapMutation(result), nil
}

func (h Handler) RevokeRoleHandler(
	ctx context.Context,
	caller string,
	req httptransport.RoleMutationRequest,
) (httptransport.RoleMutationResponse, error) {
	result, err := h.Revokes.Execute(ctx, commands.RoleMutationCommand{
		Caller:  caller,
		Role:    req.Role,
		Subject: req.Subject,
	})
	if err != nil {
		return httptransport.RoleMutationResponse{}, err
	}
	return mapMutation(result), nil
}

func (h Handler) HasRoleHandler(ctx context.Context, role string, subject string) (httptransport.HasRoleResponse, error) {
	has, err := h.Roles.Has(ctx, role, subject)
	if err != nil {
		return httptransport.HasRoleResponse{}, err
	}
	parsed, _ := entities.ParseRole(role)
	return httptransport.HasRoleResponse{
		Role:    string(parsed),
		Subject: subject,
		Has:     has,
	}, nil
}

func (h Handler) ListSubjectRolesHandler(ctx context.Context, subject string) (httptransport.RoleAssignmentsResponse, error) {
	items, err := h.Roles.RolesOf(ctx, subject)
	if err != nil {
		return httptransport.RoleAssignmentsResponse{}, err
	}
	return httptransport.RoleAssignmentsResponse{Items: mapAssignments(items)}, nil
}

func (h Handler) ListRoleHoldersHandler(ctx context.Context, role string) (httptransport.RoleAssignmentsResponse, error) {
	items, err := h.Roles.Holders(ctx, role)
	if err != nil {
		return httptransport.RoleAssignmentsResponse{}, err
	}
	return httptransport.RoleAssignmentsResponse{Items: mapAssignments(items)}, nil
}

func mapMutation(result commands.RoleMutationResult) httptransport.RoleMutationResponse {
	return httptransport.RoleMutationResponse{
		Role:    string(result.Role),
		Subject: result.Subject.String(),
		Changed: result.Changed,
	}
}

func mapAssignments(items []entities.RoleAssignment) []httptransport.RoleAssignmentItem {
	out := make([]httptransport.RoleAssignmentItem, 0, len(items))
	for _, item := range items {
		out = append(out, httptransport.RoleAssignmentItem{
			Role:      string(item.Role),
			Subject:   item.Subject.String(),
			GrantedBy: item.GrantedBy.String(),
			GrantedAt: item.GrantedAt.UTC().Format(time.RFC3339),
		})
	}
	return out
}
