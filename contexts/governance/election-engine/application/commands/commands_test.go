package commands_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"ledgervote/contexts/governance/election-engine/adapters/memory"
	"ledgervote/contexts/governance/election-engine/application/commands"
	"ledgervote/contexts/governance/election-engine/domain/entities"
	domainerrors "ledgervote/contexts/governance/election-engine/domain/errors"
	"ledgervote/contexts/governance/election-engine/domain/services"
	"ledgervote/contexts/governance/election-engine/domain/valueobjects"
	"ledgervote/contexts/governance/election-engine/ports"
	contractsv1 "ledgervote/contracts/gen/events/v1"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	superAdmin = "0x00000000000000000000000000000000000000a1"
	manager    = "0x00000000000000000000000000000000000000b1"
	manager2   = "0x00000000000000000000000000000000000000b2"
	authority  = "0x00000000000000000000000000000000000000c1"
	voter      = "0x00000000000000000000000000000000000000d1"
	candidateA = "0x00000000000000000000000000000000000000e1"
	candidateB = "0x00000000000000000000000000000000000000e2"
)

var origin = time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)

func day(n int) time.Time { return origin.Add(time.Duration(n) * 24 * time.Hour) }

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Set(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

type roleDirectory struct {
	mu    sync.RWMutex
	roles map[valueobjects.Address][]entities.Role
}

func (d *roleDirectory) RolesOf(_ context.Context, principal valueobjects.Address) ([]entities.Role, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]entities.Role(nil), d.roles[principal]...), nil
}

func (d *roleDirectory) grant(principal string, role entities.Role) {
	d.mu.Lock()
	defer d.mu.Unlock()
	address := valueobjects.Address(principal)
	d.roles[address] = append(d.roles[address], role)
}

type sequentialAddresses struct{}

func (sequentialAddresses) ElectionAddress(electionID uint64) (valueobjects.Address, error) {
	return valueobjects.NewAddress(fmt.Sprintf("0x%040x", 0xe1ec0000+electionID))
}

type abortingRepository struct {
	ports.Repository
}

func (a abortingRepository) WithinElection(ctx context.Context, address valueobjects.Address, fn func(tx ports.ElectionTx) error) error {
	return a.Repository.WithinElection(ctx, address, func(tx ports.ElectionTx) error {
		if err := fn(tx); err != nil {
			return err
		}
		return errors.New("commit aborted")
	})
}

type fixture struct {
	store *memory.Store
	clock *testClock
	roles *roleDirectory
	uc    commands.ElectionUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	clock := &testClock{now: origin}
	roles := &roleDirectory{roles: map[valueobjects.Address][]entities.Role{}}
	roles.grant(superAdmin, entities.RoleSuperAdmin)
	roles.grant(manager, entities.RoleElectionManager)
	roles.grant(manager2, entities.RoleElectionManager)
	roles.grant(authority, entities.RoleElectionAuthority)
	roles.grant(voter, entities.RoleVoter)
	return &fixture{
		store: store,
		clock: clock,
		roles: roles,
		uc: commands.ElectionUseCase{
			Elections:    store,
			Roles:        roles,
			Addresses:    sequentialAddresses{},
			Idempotency:  store,
			Capabilities: services.DefaultCapabilities(true),
			Clock:        clock,
			IDGen:        store,
		},
	}
}

func (f *fixture) create(t *testing.T) string {
	t.Helper()
	result, err := f.uc.CreateElection(context.Background(), commands.CreateElectionCommand{
		Caller:               manager,
		Name:                 "Student council",
		Description:          "Spring term",
		RegistrationDeadline: day(7),
		StartTime:            day(10),
		EndTime:              day(17),
	})
	require.NoError(t, err)
	return result.Address
}

func (f *fixture) openWithApprovedCandidate(t *testing.T) (string, uint64) {
	t.Helper()
	ctx := context.Background()
	address := f.create(t)
	_, err := f.uc.StartCandidateRegistration(ctx, commands.LifecycleCommand{Caller: manager, Election: address})
	require.NoError(t, err)
	f.clock.Set(day(1))
	registered, err := f.uc.RegisterCandidate(ctx, commands.RegisterCandidateCommand{
		Caller:   candidateA,
		Election: address,
		Name:     "Alice",
		Party:    "Blue",
	})
	require.NoError(t, err)
	_, err = f.uc.ValidateCandidate(ctx, commands.ValidateCandidateCommand{
		Caller:      manager,
		Election:    address,
		CandidateID: registered.CandidateID,
		Approve:     true,
	})
	require.NoError(t, err)
	return address, registered.CandidateID
}

func (f *fixture) election(t *testing.T, address string) entities.Election {
	t.Helper()
	election, err := f.store.GetElection(context.Background(), valueobjects.Address(address))
	require.NoError(t, err)
	return election
}

func (f *fixture) events(t *testing.T) []ports.EventEnvelope {
	t.Helper()
	rows, err := f.store.ListPendingOutbox(context.Background(), 1000)
	require.NoError(t, err)
	out := make([]ports.EventEnvelope, 0, len(rows))
	for _, row := range rows {
		var envelope ports.EventEnvelope
		require.NoError(t, json.Unmarshal(row.Payload, &envelope))
		out = append(out, envelope)
	}
	return out
}

func eventTypes(events []ports.EventEnvelope) []string {
	out := make([]string, 0, len(events))
	for _, event := range events {
		out = append(out, event.EventType)
	}
	return out
}

func TestScenarioFullElection(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	address, candidateID := f.openWithApprovedCandidate(t)

	f.clock.Set(day(10))
	_, err := f.uc.StartVoting(ctx, commands.LifecycleCommand{Caller: manager, Election: address})
	require.NoError(t, err)

	vote, err := f.uc.CastVote(ctx, commands.CastVoteCommand{Caller: voter, Election: address, CandidateID: candidateID})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), vote.TotalVotes)

	election := f.election(t, address)
	assert.Equal(t, uint64(1), election.Candidates[0].VoteCount)
	assert.Equal(t, uint64(1), election.TotalVotes)

	f.clock.Set(day(17))
	ended, err := f.uc.EndElection(ctx, commands.LifecycleCommand{Caller: manager, Election: address})
	require.NoError(t, err)
	assert.Equal(t, entities.ElectionStatusVoting, ended.From)
	assert.Equal(t, entities.ElectionStatusEnded, ended.To)

	declared, err := f.uc.DeclareResult(ctx, commands.LifecycleCommand{Caller: manager, Election: address})
	require.NoError(t, err)
	assert.Equal(t, candidateID, declared.WinnerID)
	assert.Equal(t, uint64(1), declared.TotalVotes)

	winner, err := f.election(t, address).Winner()
	require.NoError(t, err)
	assert.Equal(t, candidateID, winner)

	events := f.events(t)
	assert.Equal(t, []string{
		contractsv1.EventTypeElectionCreated,
		contractsv1.EventTypeElectionStatusChanged,
		contractsv1.EventTypeCandidateRegistered,
		contractsv1.EventTypeCandidateValidated,
		contractsv1.EventTypeElectionStatusChanged,
		contractsv1.EventTypeVoteCasted,
		contractsv1.EventTypeElectionStatusChanged,
		contractsv1.EventTypeResultDeclared,
	}, eventTypes(events))

	var lastVersion uint64
	for _, event := range events {
		assert.Equal(t, address, event.PartitionKey)
		var ref contractsv1.ElectionRef
		require.NoError(t, json.Unmarshal(event.Data, &ref))
		assert.Equal(t, address, ref.ElectionAddress)
		assert.Greater(t, ref.ElectionVersion, lastVersion)
		lastVersion = ref.ElectionVersion
	}
	assert.Equal(t, f.election(t, address).Version, lastVersion)

	var result contractsv1.ResultDeclaredData
	require.NoError(t, json.Unmarshal(events[len(events)-1].Data, &result))
	assert.Equal(t, candidateID, result.WinnerID)
	assert.Equal(t, uint64(1), result.TotalVotes)
}

func TestScenarioRegistrationAfterDeadline(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	address := f.create(t)
	_, err := f.uc.StartCandidateRegistration(ctx, commands.LifecycleCommand{Caller: manager, Election: address})
	require.NoError(t, err)

	f.clock.Set(day(8))
	_, err = f.uc.RegisterCandidate(ctx, commands.RegisterCandidateCommand{
		Caller:   candidateA,
		Election: address,
		Name:     "Alice",
		Party:    "Blue",
	})
	require.ErrorIs(t, err, domainerrors.ErrTemporal)
	assert.Empty(t, f.election(t, address).Candidates)
}

func TestScenarioDoubleVote(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	address, candidateID := f.openWithApprovedCandidate(t)
	_, err := f.uc.RegisterCandidate(ctx, commands.RegisterCandidateCommand{
		Caller:   candidateB,
		Election: address,
		Name:     "Bob",
		Party:    "Green",
	})
	require.NoError(t, err)
	_, err = f.uc.ValidateCandidate(ctx, commands.ValidateCandidateCommand{Caller: authority, Election: address, CandidateID: 2, Approve: true})
	require.NoError(t, err)

	f.clock.Set(day(10))
	_, err = f.uc.StartVoting(ctx, commands.LifecycleCommand{Caller: manager, Election: address})
	require.NoError(t, err)
	_, err = f.uc.CastVote(ctx, commands.CastVoteCommand{Caller: voter, Election: address, CandidateID: candidateID})
	require.NoError(t, err)

	for _, target := range []uint64{candidateID, 2} {
		_, err = f.uc.CastVote(ctx, commands.CastVoteCommand{Caller: voter, Election: address, CandidateID: target})
		require.ErrorIs(t, err, domainerrors.ErrDuplicate)
	}

	election := f.election(t, address)
	assert.Equal(t, uint64(1), election.TotalVotes)
	assert.Equal(t, uint64(1), election.Candidates[0].VoteCount)
	assert.Zero(t, election.Candidates[1].VoteCount)

	record, err := f.store.GetVoterRecord(ctx, valueobjects.Address(address), valueobjects.Address(voter))
	require.NoError(t, err)
	assert.True(t, record.HasVoted)
	assert.Equal(t, candidateID, record.VotedFor)
}

func TestScenarioStartVotingWithoutApprovedCandidates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	address := f.create(t)
	_, err := f.uc.StartCandidateRegistration(ctx, commands.LifecycleCommand{Caller: manager, Election: address})
	require.NoError(t, err)

	f.clock.Set(day(10))
	_, err = f.uc.StartVoting(ctx, commands.LifecycleCommand{Caller: manager, Election: address})
	require.ErrorIs(t, err, domainerrors.ErrState)
	require.ErrorIs(t, err, domainerrors.ErrNoApprovedCandidates)
	assert.Equal(t, entities.ElectionStatusRegistration, f.election(t, address).Status)
}

func TestCreateElectionRules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	valid := commands.CreateElectionCommand{
		Caller:               manager,
		Name:                 "Board",
		RegistrationDeadline: day(1),
		StartTime:            day(2),
		EndTime:              day(3),
	}

	outsider := valid
	outsider.Caller = voter
	_, err := f.uc.CreateElection(ctx, outsider)
	require.ErrorIs(t, err, domainerrors.ErrAccessDenied)

	admin := valid
	admin.Caller = superAdmin
	admin.Manager = manager
	_, err = f.uc.CreateElection(ctx, admin)
	require.ErrorIs(t, err, domainerrors.ErrRestrictedToManagerRole)

	delegated := valid
	delegated.Manager = manager2
	_, err = f.uc.CreateElection(ctx, delegated)
	require.ErrorIs(t, err, domainerrors.ErrManagerMustBeCaller)

	badSchedule := valid
	badSchedule.StartTime = day(4)
	_, err = f.uc.CreateElection(ctx, badSchedule)
	require.ErrorIs(t, err, domainerrors.ErrInvalidSchedule)

	_, err = f.uc.CreateElection(ctx, commands.CreateElectionCommand{Caller: "nope"})
	require.ErrorIs(t, err, domainerrors.ErrInvalidCaller)

	total, err := f.store.CountElections(ctx)
	require.NoError(t, err)
	assert.Zero(t, total)

	first, err := f.uc.CreateElection(ctx, valid)
	require.NoError(t, err)
	second, err := f.uc.CreateElection(ctx, valid)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), first.ElectionID)
	assert.Equal(t, uint64(2), second.ElectionID)
	assert.NotEqual(t, first.Address, second.Address)

	election := f.election(t, first.Address)
	assert.Equal(t, entities.ElectionStatusCreated, election.Status)
	assert.True(t, election.IsActive)
	assert.Equal(t, valueobjects.Address(manager), election.Manager)
}

func TestOnlyManagerDrivesLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	address := f.create(t)

	for _, caller := range []string{manager2, superAdmin, authority} {
		_, err := f.uc.StartCandidateRegistration(ctx, commands.LifecycleCommand{Caller: caller, Election: address})
		require.ErrorIs(t, err, domainerrors.ErrOnlyManager)
	}
	assert.Equal(t, entities.ElectionStatusCreated, f.election(t, address).Status)
}

func TestUnknownElectionIsNotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.StartVoting(context.Background(), commands.LifecycleCommand{
		Caller:   manager,
		Election: "0x00000000000000000000000000000000000000ff",
	})
	require.ErrorIs(t, err, domainerrors.ErrElectionNotFound)
}

func TestDeactivationFreezesElection(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	address := f.create(t)

	_, err := f.uc.Deactivate(ctx, commands.ActivationCommand{Caller: authority, Election: address})
	require.ErrorIs(t, err, domainerrors.ErrAccessDenied)

	result, err := f.uc.Deactivate(ctx, commands.ActivationCommand{Caller: superAdmin, Election: address})
	require.NoError(t, err)
	assert.True(t, result.Changed)
	assert.False(t, result.IsActive)

	again, err := f.uc.Deactivate(ctx, commands.ActivationCommand{Caller: manager, Election: address})
	require.NoError(t, err)
	assert.False(t, again.Changed)

	_, err = f.uc.StartCandidateRegistration(ctx, commands.LifecycleCommand{Caller: manager, Election: address})
	require.ErrorIs(t, err, domainerrors.ErrElectionInactive)

	_, err = f.uc.Reactivate(ctx, commands.ActivationCommand{Caller: manager, Election: address})
	require.NoError(t, err)
	_, err = f.uc.StartCandidateRegistration(ctx, commands.LifecycleCommand{Caller: manager, Election: address})
	require.NoError(t, err)

	assert.Equal(t, []string{
		contractsv1.EventTypeElectionCreated,
		contractsv1.EventTypeElectionActivationChanged,
		contractsv1.EventTypeElectionActivationChanged,
		contractsv1.EventTypeElectionStatusChanged,
	}, eventTypes(f.events(t)))
}

func TestAbortedTransactionLeavesNoTrace(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	address := f.create(t)
	before := f.election(t, address)
	eventsBefore := len(f.events(t))

	aborting := f.uc
	aborting.Elections = abortingRepository{Repository: f.store}
	_, err := aborting.StartCandidateRegistration(ctx, commands.LifecycleCommand{Caller: manager, Election: address})
	require.Error(t, err)

	assert.Equal(t, before, f.election(t, address))
	assert.Len(t, f.events(t), eventsBefore)
}

func TestConcurrentVotesAreAllCounted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	address, candidateID := f.openWithApprovedCandidate(t)
	f.clock.Set(day(10))
	_, err := f.uc.StartVoting(ctx, commands.LifecycleCommand{Caller: manager, Election: address})
	require.NoError(t, err)

	const voters = 32
	callers := make([]string, 0, voters)
	for i := 0; i < voters; i++ {
		caller := fmt.Sprintf("0x%040x", 0xd000+i)
		f.roles.grant(caller, entities.RoleVoter)
		callers = append(callers, caller)
	}

	var wg sync.WaitGroup
	errs := make(chan error, voters*2)
	for _, caller := range callers {
		for attempt := 0; attempt < 2; attempt++ {
			wg.Add(1)
			go func(caller string) {
				defer wg.Done()
				_, err := f.uc.CastVote(ctx, commands.CastVoteCommand{Caller: caller, Election: address, CandidateID: candidateID})
				errs <- err
			}(caller)
		}
	}
	wg.Wait()
	close(errs)

	succeeded, duplicates := 0, 0
	for err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, domainerrors.ErrAlreadyVoted):
			duplicates++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, voters, succeeded)
	assert.Equal(t, voters, duplicates)

	election := f.election(t, address)
	assert.Equal(t, uint64(voters), election.TotalVotes)
	assert.Equal(t, uint64(voters), election.Candidates[0].VoteCount)
}

func TestIdempotentReplay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cmd := commands.CreateElectionCommand{
		Caller:               manager,
		Name:                 "Board",
		RegistrationDeadline: day(1),
		StartTime:            day(2),
		EndTime:              day(3),
		IdempotencyKey:       "create-board",
	}

	first, err := f.uc.CreateElection(ctx, cmd)
	require.NoError(t, err)
	assert.False(t, first.Replayed)

	replay, err := f.uc.CreateElection(ctx, cmd)
	require.NoError(t, err)
	assert.True(t, replay.Replayed)
	assert.Equal(t, first.Address, replay.Address)

	total, err := f.store.CountElections(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	changed := cmd
	changed.Name = "Another board"
	_, err = f.uc.CreateElection(ctx, changed)
	require.ErrorIs(t, err, domainerrors.ErrIdempotencyConflict)
}
