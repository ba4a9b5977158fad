package memory

import (
	"context"
	"testing"
	"time"

	"ledgervote/contexts/governance/election-mirror/domain/entities"
	domainerrors "ledgervote/contexts/governance/election-mirror/domain/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsertElectionAppliesOnlyNewerVersions(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	applied, err := store.UpsertElection(ctx, entities.ElectionView{Address: "0xABC", Version: 2, Name: "v2"})
	require.NoError(t, err)
	assert.True(t, applied)

	applied, err = store.UpsertElection(ctx, entities.ElectionView{Address: "0xabc", Version: 2, Name: "again"})
	require.NoError(t, err)
	assert.False(t, applied)

	applied, err = store.UpsertElection(ctx, entities.ElectionView{Address: "0xabc", Version: 3, Name: "v3"})
	require.NoError(t, err)
	assert.True(t, applied)

	view, err := store.GetElection(ctx, "0xAbC")
	require.NoError(t, err)
	assert.Equal(t, "v3", view.Name)
}

func TestGetMissingReadModels(t *testing.T) {
	store := NewStore()
	_, err := store.GetElection(context.Background(), "0x1")
	require.ErrorIs(t, err, domainerrors.ErrElectionNotFound)
	_, err = store.GetPrincipalRoles(context.Background(), "0x1")
	require.ErrorIs(t, err, domainerrors.ErrPrincipalNotFound)
}

func TestReserveEventDetectsReplayAndConflict(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	expires := time.Now().Add(time.Hour)

	seen, err := store.ReserveEvent(ctx, "evt-1", "hash-a", expires)
	require.NoError(t, err)
	assert.False(t, seen)

	seen, err = store.ReserveEvent(ctx, "evt-1", "hash-a", expires)
	require.NoError(t, err)
	assert.True(t, seen)

	_, err = store.ReserveEvent(ctx, "evt-1", "hash-b", expires)
	require.ErrorIs(t, err, domainerrors.ErrDedupConflict)

	require.NoError(t, store.ReleaseEvent(ctx, "evt-1"))
	seen, err = store.ReserveEvent(ctx, "evt-1", "hash-b", expires)
	require.NoError(t, err)
	assert.False(t, seen)
}

func TestReserveEventExpires(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	_, err := store.ReserveEvent(ctx, "evt-1", "hash-a", time.Now().Add(-time.Minute))
	require.NoError(t, err)
	seen, err := store.ReserveEvent(ctx, "evt-1", "hash-a", time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, seen)
}
