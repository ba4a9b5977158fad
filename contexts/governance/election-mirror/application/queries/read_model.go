package queries

import (
	"context"
	"sort"

	"ledgervote/contexts/governance/election-mirror/domain/entities"
	"ledgervote/contexts/governance/election-mirror/ports"
)

type MirrorQueries struct {
	Store ports.ReadModelStore
}

// ListElections returns mirrored elections ordered by election id.
func (q MirrorQueries) ListElections(ctx context.Context) ([]entities.ElectionView, error) {
	items, err := q.Store.ListElections(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ElectionID < items[j].ElectionID })
	return items, nil
}

func (q MirrorQueries) GetElection(ctx context.Context, address string) (entities.ElectionView, error) {
	return q.Store.GetElection(ctx, entities.NormalizeKey(address))
}

func (q MirrorQueries) PrincipalRoles(ctx context.Context, principal string) (entities.PrincipalRoles, error) {
	return q.Store.GetPrincipalRoles(ctx, entities.NormalizeKey(principal))
}
