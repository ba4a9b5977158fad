package queries_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"ledgervote/contexts/governance/election-engine/adapters/memory"
	"ledgervote/contexts/governance/election-engine/application/commands"
	"ledgervote/contexts/governance/election-engine/application/queries"
	"ledgervote/contexts/governance/election-engine/domain/entities"
	domainerrors "ledgervote/contexts/governance/election-engine/domain/errors"
	"ledgervote/contexts/governance/election-engine/domain/valueobjects"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	manager = "0x00000000000000000000000000000000000000b1"
	voter   = "0x00000000000000000000000000000000000000d1"
	alice   = "0x00000000000000000000000000000000000000e1"
	bob     = "0x00000000000000000000000000000000000000e2"
)

type stepClock struct{ now time.Time }

func (c *stepClock) Now() time.Time { return c.now }

type staticRoles map[valueobjects.Address][]entities.Role

func (s staticRoles) RolesOf(_ context.Context, principal valueobjects.Address) ([]entities.Role, error) {
	return s[principal], nil
}

type counterAddresses struct{}

func (counterAddresses) ElectionAddress(id uint64) (valueobjects.Address, error) {
	return valueobjects.NewAddress(fmt.Sprintf("0x%040x", 0xfeed00+id))
}

func setup(t *testing.T) (queries.ElectionQueries, string, *stepClock, commands.ElectionUseCase) {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	base := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	clock := &stepClock{now: base}
	roles := staticRoles{
		manager: {entities.RoleElectionManager},
		voter:   {entities.RoleVoter},
	}
	uc := commands.ElectionUseCase{
		Elections: store,
		Roles:     roles,
		Addresses: counterAddresses{},
		Clock:     clock,
		IDGen:     store,
	}
	created, err := uc.CreateElection(ctx, commands.CreateElectionCommand{
		Caller:               manager,
		Name:                 "Budget vote",
		Description:          "Allocation",
		RegistrationDeadline: base.Add(24 * time.Hour),
		StartTime:            base.Add(48 * time.Hour),
		EndTime:              base.Add(72 * time.Hour),
	})
	require.NoError(t, err)
	address := created.Address
	_, err = uc.StartCandidateRegistration(ctx, commands.LifecycleCommand{Caller: manager, Election: address})
	require.NoError(t, err)
	for _, owner := range []string{alice, bob} {
		_, err = uc.RegisterCandidate(ctx, commands.RegisterCandidateCommand{
			Caller:    owner,
			Election:  address,
			Name:      owner,
			Party:     "p",
			Manifesto: "m",
		})
		require.NoError(t, err)
	}
	_, err = uc.ValidateCandidate(ctx, commands.ValidateCandidateCommand{Caller: manager, Election: address, CandidateID: 1, Approve: true})
	require.NoError(t, err)

	return queries.ElectionQueries{Elections: store, Roles: roles}, address, clock, uc
}

func TestElectionReads(t *testing.T) {
	q, address, _, _ := setup(t)
	ctx := context.Background()

	summary, err := q.GetElection(ctx, address)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), summary.ID)
	assert.Equal(t, entities.ElectionStatusRegistration, summary.Status)

	info, err := q.ElectionInfo(ctx, address)
	require.NoError(t, err)
	assert.Equal(t, "Allocation", info.Description)
	assert.Equal(t, uint64(1), info.TotalCandidates)

	items, err := q.ListElections(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	total, err := q.TotalElections(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	registered, err := q.TotalRegisteredCandidates(ctx, address)
	require.NoError(t, err)
	assert.Equal(t, 2, registered)

	approved, err := q.ApprovedCandidates(ctx, address)
	require.NoError(t, err)
	require.Len(t, approved, 1)
	assert.Equal(t, alice, approved[0].Owner.String())

	pending, err := q.PendingCandidates(ctx, address)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, bob, pending[0].Owner.String())

	candidate, err := q.GetCandidate(ctx, address, 2)
	require.NoError(t, err)
	assert.Equal(t, "m", candidate.Manifesto)
	_, err = q.GetCandidate(ctx, address, 3)
	require.ErrorIs(t, err, domainerrors.ErrCandidateNotFound)

	_, err = q.Winner(ctx, address)
	require.ErrorIs(t, err, domainerrors.ErrResultsNotAvailable)
	_, err = q.Results(ctx, address)
	require.ErrorIs(t, err, domainerrors.ErrResultsNotAvailable)

	_, err = q.GetElection(ctx, "0x00000000000000000000000000000000000000ff")
	require.ErrorIs(t, err, domainerrors.ErrElectionNotFound)
	_, err = q.GetElection(ctx, "garbage")
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestVoterStatusAndResults(t *testing.T) {
	q, address, clock, uc := setup(t)
	ctx := context.Background()

	status, err := q.VoterStatus(ctx, address, voter)
	require.NoError(t, err)
	assert.True(t, status.IsRoleVoter)
	assert.False(t, status.HasVoted)

	clock.now = clock.now.Add(48 * time.Hour)
	_, err = uc.StartVoting(ctx, commands.LifecycleCommand{Caller: manager, Election: address})
	require.NoError(t, err)
	_, err = uc.CastVote(ctx, commands.CastVoteCommand{Caller: voter, Election: address, CandidateID: 1})
	require.NoError(t, err)

	voted, err := q.HasVoted(ctx, address, voter)
	require.NoError(t, err)
	assert.True(t, voted)
	status, err = q.VoterStatus(ctx, address, voter)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), status.VotedFor)

	status, err = q.VoterStatus(ctx, address, bob)
	require.NoError(t, err)
	assert.False(t, status.IsRoleVoter)
	assert.False(t, status.HasVoted)

	clock.now = clock.now.Add(24 * time.Hour)
	_, err = uc.EndElection(ctx, commands.LifecycleCommand{Caller: manager, Election: address})
	require.NoError(t, err)

	winner, err := q.Winner(ctx, address)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), winner)
	results, err := q.Results(ctx, address)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, uint64(1), results[0].VoteCount)

	_, err = q.VoterStatus(ctx, address, "bad")
	require.ErrorIs(t, err, domainerrors.ErrInvalidAddress)
}

func TestVoterStatusResolvesRolesForNormalizedVoter(t *testing.T) {
	q, address, _, _ := setup(t)

	status, err := q.VoterStatus(context.Background(), address, "  0x00000000000000000000000000000000000000D1 ")
	require.NoError(t, err)
	assert.True(t, status.IsRoleVoter)
	assert.False(t, status.HasVoted)
}
