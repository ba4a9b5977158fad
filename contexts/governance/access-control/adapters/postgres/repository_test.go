package postgresadapter

import (
	"context"
	"testing"
	"time"

	"ledgervote/contexts/governance/access-control/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ ports.Clock       = (*Repository)(nil)
	_ ports.IDGenerator = (*Repository)(nil)
)

func TestRepositoryClockMatchesTimestampResolution(t *testing.T) {
	repo := NewRepository(nil, nil)
	now := repo.Now()
	assert.Equal(t, time.UTC, now.Location())
	assert.Zero(t, now.Nanosecond()%int(time.Microsecond))
}

func TestRepositoryIssuesDistinctIDs(t *testing.T) {
	repo := NewRepository(nil, nil)
	first, err := repo.NewID(context.Background())
	require.NoError(t, err)
	second, err := repo.NewID(context.Background())
	require.NoError(t, err)
	assert.Len(t, first, 36)
	assert.NotEqual(t, first, second)
}
