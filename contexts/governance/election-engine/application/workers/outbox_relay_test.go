package workers_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"ledgervote/contexts/governance/election-engine/adapters/memory"
	"ledgervote/contexts/governance/election-engine/application/commands"
	"ledgervote/contexts/governance/election-engine/application/workers"
	"ledgervote/contexts/governance/election-engine/domain/entities"
	"ledgervote/contexts/governance/election-engine/domain/valueobjects"
	"ledgervote/contexts/governance/election-engine/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const manager = "0x00000000000000000000000000000000000000b1"

type managerDirectory struct{}

func (managerDirectory) RolesOf(_ context.Context, principal valueobjects.Address) ([]entities.Role, error) {
	if principal == manager {
		return []entities.Role{entities.RoleElectionManager}, nil
	}
	return nil, nil
}

type counterAddresses struct{}

func (counterAddresses) ElectionAddress(id uint64) (valueobjects.Address, error) {
	return valueobjects.NewAddress(fmt.Sprintf("0x%040x", 0xabc000+id))
}

type recordingPublisher struct {
	keys   []string
	failAt int
}

func (p *recordingPublisher) Publish(_ context.Context, topic string, event ports.EventEnvelope) error {
	if p.failAt > 0 && len(p.keys)+1 == p.failAt {
		return errors.New("broker unavailable")
	}
	p.keys = append(p.keys, topic+"@"+event.PartitionKey)
	return nil
}

func seedElections(t *testing.T, count int) (*memory.Store, []string) {
	t.Helper()
	store := memory.NewStore()
	uc := commands.ElectionUseCase{
		Elections: store,
		Roles:     managerDirectory{},
		Addresses: counterAddresses{},
		Clock:     store,
		IDGen:     store,
	}
	now := time.Now().UTC()
	addresses := make([]string, 0, count)
	for i := 0; i < count; i++ {
		result, err := uc.CreateElection(context.Background(), commands.CreateElectionCommand{
			Caller:               manager,
			Name:                 fmt.Sprintf("election %d", i),
			RegistrationDeadline: now.Add(time.Hour),
			StartTime:            now.Add(2 * time.Hour),
			EndTime:              now.Add(3 * time.Hour),
		})
		require.NoError(t, err)
		addresses = append(addresses, result.Address)
	}
	return store, addresses
}

func TestOutboxRelayPublishesInCommitOrderWithinBatch(t *testing.T) {
	store, addresses := seedElections(t, 3)
	publisher := &recordingPublisher{}
	relay := workers.OutboxRelay{Outbox: store, Publisher: publisher, Clock: store, BatchSize: 2}

	require.NoError(t, relay.RunOnce(context.Background()))
	assert.Equal(t, []string{
		"ElectionCreated@" + addresses[0],
		"ElectionCreated@" + addresses[1],
	}, publisher.keys)

	require.NoError(t, relay.RunOnce(context.Background()))
	assert.Len(t, publisher.keys, 3)
	assert.Equal(t, "ElectionCreated@"+addresses[2], publisher.keys[2])

	require.NoError(t, relay.RunOnce(context.Background()))
	assert.Len(t, publisher.keys, 3)
}

func TestOutboxRelayRetriesFromFailedRow(t *testing.T) {
	store, addresses := seedElections(t, 2)
	publisher := &recordingPublisher{failAt: 1}
	relay := workers.OutboxRelay{Outbox: store, Publisher: publisher, Clock: store}

	require.Error(t, relay.RunOnce(context.Background()))
	pending, err := store.ListPendingOutbox(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, pending, 2)

	publisher.failAt = 0
	require.NoError(t, relay.RunOnce(context.Background()))
	assert.Equal(t, []string{
		"ElectionCreated@" + addresses[0],
		"ElectionCreated@" + addresses[1],
	}, publisher.keys)
}
