package bootstrap

import (
	"context"

	accessqueries "ledgervote/contexts/governance/access-control/application/queries"
	accessentities "ledgervote/contexts/governance/access-control/domain/entities"
	enginequeries "ledgervote/contexts/governance/election-engine/application/queries"
	engineentities "ledgervote/contexts/governance/election-engine/domain/entities"
	enginevalueobjects "ledgervote/contexts/governance/election-engine/domain/valueobjects"
	mirrorentities "ledgervote/contexts/governance/election-mirror/domain/entities"

	"github.com/samber/lo"
)

// electionRoleDirectory answers the election engine's role lookups from the
// access-control registry.
type electionRoleDirectory struct {
	roles accessqueries.RoleQueries
}

func (d electionRoleDirectory) RolesOf(ctx context.Context, principal enginevalueobjects.Address) ([]engineentities.Role, error) {
	items, err := d.roles.RolesOf(ctx, principal.String())
	if err != nil {
		return nil, err
	}
	return lo.Map(items, func(item accessentities.RoleAssignment, _ int) engineentities.Role {
		return engineentities.Role(item.Role)
	}), nil
}

// mirrorRoleSource feeds the mirror projector with registry roles.
type mirrorRoleSource struct {
	roles accessqueries.RoleQueries
}

func (s mirrorRoleSource) RolesOf(ctx context.Context, principal string) ([]string, error) {
	items, err := s.roles.RolesOf(ctx, principal)
	if err != nil {
		return nil, err
	}
	return lo.Map(items, func(item accessentities.RoleAssignment, _ int) string {
		return string(item.Role)
	}), nil
}

// mirrorElectionSource reads committed election snapshots for the mirror.
type mirrorElectionSource struct {
	elections enginequeries.ElectionQueries
}

func (s mirrorElectionSource) ElectionSnapshot(ctx context.Context, address string) (mirrorentities.ElectionView, error) {
	election, err := s.elections.Snapshot(ctx, address)
	if err != nil {
		return mirrorentities.ElectionView{}, err
	}
	return toElectionView(election), nil
}

func toElectionView(election engineentities.Election) mirrorentities.ElectionView {
	return mirrorentities.ElectionView{
		Address:              election.Address.String(),
		ElectionID:           election.ID,
		Name:                 election.Name,
		Description:          election.Description,
		Manager:              election.Manager.String(),
		Status:               string(election.Status),
		IsActive:             election.IsActive,
		StartTime:            election.StartTime,
		EndTime:              election.EndTime,
		RegistrationDeadline: election.RegistrationDeadline,
		TotalVotes:           election.TotalVotes,
		TotalCandidates:      election.TotalCandidates,
		WinnerID:             election.WinnerID,
		Version:              election.Version,
		Candidates: lo.Map(election.Candidates, func(c engineentities.Candidate, _ int) mirrorentities.CandidateView {
			return mirrorentities.CandidateView{
				ID:        c.ID,
				Owner:     c.Owner.String(),
				Name:      c.Name,
				Party:     c.Party,
				Manifesto: c.Manifesto,
				ImageHash: c.ImageHash,
				Status:    string(c.Status),
				VoteCount: c.VoteCount,
			}
		}),
	}
}
