package workers_test

import (
	"context"
	"errors"
	"testing"

	"ledgervote/contexts/governance/access-control/adapters/memory"
	"ledgervote/contexts/governance/access-control/application/commands"
	"ledgervote/contexts/governance/access-control/application/workers"
	"ledgervote/contexts/governance/access-control/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	topics []string
	failAt int
}

func (p *recordingPublisher) Publish(_ context.Context, topic string, _ ports.EventEnvelope) error {
	if p.failAt > 0 && len(p.topics)+1 == p.failAt {
		return errors.New("broker unavailable")
	}
	p.topics = append(p.topics, topic)
	return nil
}

func seedRegistry(t *testing.T) *memory.Store {
	t.Helper()
	store := memory.NewStore()
	ctx := context.Background()
	_, err := commands.BootstrapUseCase{Repository: store, Clock: store, IDGen: store}.
		Execute(ctx, "0x00000000000000000000000000000000000000a1")
	require.NoError(t, err)
	_, err = commands.GrantRoleUseCase{Repository: store, Clock: store, IDGen: store}.
		Execute(ctx, commands.RoleMutationCommand{
			Caller:  "0x00000000000000000000000000000000000000a1",
			Role:    "ELECTION_MANAGER",
			Subject: "0x00000000000000000000000000000000000000b1",
		})
	require.NoError(t, err)
	return store
}

func TestOutboxRelayPublishesAndMarksRows(t *testing.T) {
	store := seedRegistry(t)
	publisher := &recordingPublisher{}
	relay := workers.OutboxRelay{Outbox: store, Publisher: publisher, Clock: store}

	require.NoError(t, relay.RunOnce(context.Background()))
	assert.Equal(t, []string{"RoleGranted", "RoleGranted"}, publisher.topics)

	pending, err := store.ListPendingOutbox(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestOutboxRelayStopsOnFirstPublishFailure(t *testing.T) {
	store := seedRegistry(t)
	publisher := &recordingPublisher{failAt: 2}
	relay := workers.OutboxRelay{Outbox: store, Publisher: publisher, Clock: store}

	require.Error(t, relay.RunOnce(context.Background()))
	pending, err := store.ListPendingOutbox(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	publisher.failAt = 0
	require.NoError(t, relay.RunOnce(context.Background()))
	pending, err = store.ListPendingOutbox(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}
