package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"ledgervote/contexts/governance/election-engine/domain/entities"
	domainerrors "ledgervote/contexts/governance/election-engine/domain/errors"
	"ledgervote/contexts/governance/election-engine/domain/valueobjects"
	"ledgervote/contexts/governance/election-engine/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	electionAddress = valueobjects.Address("0x00000000000000000000000000000000000000f1")
	voterAddress    = valueobjects.Address("0x00000000000000000000000000000000000000d1")
)

func seed(t *testing.T) *Store {
	t.Helper()
	store := NewStore()
	err := store.WithinFactory(context.Background(), func(tx ports.FactoryTx) error {
		id, err := tx.NextElectionID(context.Background())
		if err != nil {
			return err
		}
		return tx.CreateElection(context.Background(), entities.Election{
			ID:         id,
			Address:    electionAddress,
			Status:     entities.ElectionStatusCreated,
			IsActive:   true,
			Version:    1,
			Candidates: []entities.Candidate{},
		})
	})
	require.NoError(t, err)
	return store
}

func TestElectionTransactionIsInvisibleUntilCommit(t *testing.T) {
	store := seed(t)
	ctx := context.Background()

	err := store.WithinElection(ctx, electionAddress, func(tx ports.ElectionTx) error {
		election, err := tx.LoadElection(ctx)
		require.NoError(t, err)
		election.Status = entities.ElectionStatusRegistration
		election.Version++
		require.NoError(t, tx.SaveElection(ctx, election))
		require.NoError(t, tx.SaveVoterRecord(ctx, entities.VoterRecord{Voter: voterAddress, HasVoted: true, VotedFor: 1}))

		committed, err := store.GetElection(ctx, electionAddress)
		require.NoError(t, err)
		assert.Equal(t, entities.ElectionStatusCreated, committed.Status)

		staged, err := tx.VoterRecord(ctx, voterAddress)
		require.NoError(t, err)
		assert.True(t, staged.HasVoted)
		return nil
	})
	require.NoError(t, err)

	committed, err := store.GetElection(ctx, electionAddress)
	require.NoError(t, err)
	assert.Equal(t, entities.ElectionStatusRegistration, committed.Status)
	record, err := store.GetVoterRecord(ctx, electionAddress, voterAddress)
	require.NoError(t, err)
	assert.True(t, record.HasVoted)
}

func TestElectionTransactionRollsBackOnError(t *testing.T) {
	store := seed(t)
	ctx := context.Background()

	err := store.WithinElection(ctx, electionAddress, func(tx ports.ElectionTx) error {
		election, _ := tx.LoadElection(ctx)
		election.TotalVotes = 5
		require.NoError(t, tx.SaveElection(ctx, election))
		require.NoError(t, tx.AppendOutbox(ctx, ports.EventEnvelope{EventID: "evt-1", EventType: "VoteCasted"}))
		return errors.New("guard failed")
	})
	require.Error(t, err)

	committed, err := store.GetElection(ctx, electionAddress)
	require.NoError(t, err)
	assert.Zero(t, committed.TotalVotes)
	pending, err := store.ListPendingOutbox(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestUnknownElection(t *testing.T) {
	store := NewStore()
	err := store.WithinElection(context.Background(), electionAddress, func(ports.ElectionTx) error { return nil })
	require.ErrorIs(t, err, domainerrors.ErrElectionNotFound)
	_, err = store.GetVoterRecord(context.Background(), electionAddress, voterAddress)
	require.ErrorIs(t, err, domainerrors.ErrElectionNotFound)
}

func TestIdempotencyRecordsExpire(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.PutRecord(ctx, ports.IdempotencyRecord{
		Key:             "k",
		RequestHash:     "h",
		ResponsePayload: []byte(`{}`),
		ExpiresAt:       now.Add(time.Hour),
	}))

	_, found, err := store.GetRecord(ctx, "k", now)
	require.NoError(t, err)
	assert.True(t, found)

	require.ErrorIs(t, store.PutRecord(ctx, ports.IdempotencyRecord{Key: "k", RequestHash: "other"}), domainerrors.ErrIdempotencyConflict)

	_, found, err = store.GetRecord(ctx, "k", now.Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, found)
}

func TestOutboxConflictOnReusedEventID(t *testing.T) {
	store := seed(t)
	ctx := context.Background()
	require.NoError(t, store.WithinElection(ctx, electionAddress, func(tx ports.ElectionTx) error {
		return tx.AppendOutbox(ctx, ports.EventEnvelope{EventID: "evt-1", EventType: "VoteCasted", PartitionKey: "a"})
	}))
	err := store.WithinElection(ctx, electionAddress, func(tx ports.ElectionTx) error {
		return tx.AppendOutbox(ctx, ports.EventEnvelope{EventID: "evt-1", EventType: "VoteCasted", PartitionKey: "b"})
	})
	require.ErrorIs(t, err, domainerrors.ErrOutboxConflict)
}
