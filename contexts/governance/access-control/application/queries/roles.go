package queries

import (
	"context"
	"sort"

	"ledgervote/contexts/governance/access-control/domain/entities"
	domainerrors "ledgervote/contexts/governance/access-control/domain/errors"
	"ledgervote/contexts/governance/access-control/domain/valueobjects"
	"ledgervote/contexts/governance/access-control/ports"
)

// RoleQueries serves read-only registry lookups from committed state.
type RoleQueries struct {
	Repository ports.Repository
}

func (q RoleQueries) Has(ctx context.Context, role string, subject string) (bool, error) {
	parsedRole, ok := entities.ParseRole(role)
	if !ok {
		return false, domainerrors.ErrUnknownRole
	}
	principal, err := valueobjects.NewPrincipal(subject)
	if err != nil {
		return false, domainerrors.ErrInvalidSubject
	}
	return q.Repository.HasRole(ctx, parsedRole, principal)
}

// RolesOf returns the subject's assignments ordered by role name.
func (q RoleQueries) RolesOf(ctx context.Context, subject string) ([]entities.RoleAssignment, error) {
	principal, err := valueobjects.NewPrincipal(subject)
	if err != nil {
		return nil, domainerrors.ErrInvalidSubject
	}
	items, err := q.Repository.ListAssignments(ctx, principal)
	if err != nil {
		return nil, err
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Role < items[j].Role })
	return items, nil
}

// Holders returns every principal holding role ordered by address.
func (q RoleQueries) Holders(ctx context.Context, role string) ([]entities.RoleAssignment, error) {
	parsedRole, ok := entities.ParseRole(role)
	if !ok {
		return nil, domainerrors.ErrUnknownRole
	}
	items, err := q.Repository.ListHolders(ctx, parsedRole)
	if err != nil {
		return nil, err
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Subject < items[j].Subject })
	return items, nil
}
