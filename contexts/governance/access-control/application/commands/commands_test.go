package commands_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"ledgervote/contexts/governance/access-control/adapters/memory"
	"ledgervote/contexts/governance/access-control/application/commands"
	"ledgervote/contexts/governance/access-control/domain/entities"
	domainerrors "ledgervote/contexts/governance/access-control/domain/errors"
	"ledgervote/contexts/governance/access-control/domain/valueobjects"
	"ledgervote/contexts/governance/access-control/ports"
	contractsv1 "ledgervote/contracts/gen/events/v1"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	admin     = "0x00000000000000000000000000000000000000a1"
	admin2    = "0x00000000000000000000000000000000000000a2"
	manager   = "0x00000000000000000000000000000000000000b1"
	authority = "0x00000000000000000000000000000000000000c1"
	voter     = "0x00000000000000000000000000000000000000d1"
	outsider  = "0x00000000000000000000000000000000000000e1"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type failingRepository struct {
	ports.Repository
}

func (f failingRepository) WithinTransaction(ctx context.Context, fn func(tx ports.RegistryTx) error) error {
	return f.Repository.WithinTransaction(ctx, func(tx ports.RegistryTx) error {
		if err := fn(tx); err != nil {
			return err
		}
		return errors.New("commit aborted")
	})
}

type fixture struct {
	store     *memory.Store
	bootstrap commands.BootstrapUseCase
	grant     commands.GrantRoleUseCase
	revoke    commands.RevokeRoleUseCase
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	store := memory.NewStore()
	clock := fixedClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	f := fixture{
		store:     store,
		bootstrap: commands.BootstrapUseCase{Repository: store, Clock: clock, IDGen: store},
		grant:     commands.GrantRoleUseCase{Repository: store, Clock: clock, IDGen: store},
		revoke:    commands.RevokeRoleUseCase{Repository: store, Clock: clock, IDGen: store},
	}
	_, err := f.bootstrap.Execute(context.Background(), admin)
	require.NoError(t, err)
	return f
}

func (f fixture) has(t *testing.T, role entities.Role, subject string) bool {
	t.Helper()
	principal, err := valueobjects.NewPrincipal(subject)
	require.NoError(t, err)
	ok, err := f.store.HasRole(context.Background(), role, principal)
	require.NoError(t, err)
	return ok
}

func (f fixture) pendingEvents(t *testing.T) []ports.EventEnvelope {
	t.Helper()
	rows, err := f.store.ListPendingOutbox(context.Background(), 1000)
	require.NoError(t, err)
	events := make([]ports.EventEnvelope, 0, len(rows))
	for _, row := range rows {
		var envelope ports.EventEnvelope
		require.NoError(t, json.Unmarshal(row.Payload, &envelope))
		events = append(events, envelope)
	}
	return events
}

func TestBootstrapSeedsOnlyOnce(t *testing.T) {
	f := newFixture(t)
	result, err := f.bootstrap.Execute(context.Background(), admin2)
	require.NoError(t, err)
	assert.False(t, result.Changed)
	assert.True(t, f.has(t, entities.RoleSuperAdmin, admin))
	assert.False(t, f.has(t, entities.RoleSuperAdmin, admin2))
	assert.Len(t, f.pendingEvents(t), 1)
}

func TestGrantFollowsDelegationChain(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.grant.Execute(ctx, commands.RoleMutationCommand{Caller: admin, Role: "ElectionManager", Subject: manager})
	require.NoError(t, err)
	_, err = f.grant.Execute(ctx, commands.RoleMutationCommand{Caller: manager, Role: "ElectionAuthority", Subject: authority})
	require.NoError(t, err)
	_, err = f.grant.Execute(ctx, commands.RoleMutationCommand{Caller: authority, Role: "Voter", Subject: voter})
	require.NoError(t, err)

	assert.True(t, f.has(t, entities.RoleElectionManager, manager))
	assert.True(t, f.has(t, entities.RoleElectionAuthority, authority))
	assert.True(t, f.has(t, entities.RoleVoter, voter))

	events := f.pendingEvents(t)
	require.Len(t, events, 4)
	last := events[3]
	assert.Equal(t, contractsv1.EventTypeRoleGranted, last.EventType)
	var data contractsv1.RoleGrantedData
	require.NoError(t, json.Unmarshal(last.Data, &data))
	assert.Equal(t, "VOTER", data.Role)
	assert.Equal(t, voter, data.Subject)
	assert.Equal(t, authority, data.GrantedBy)
}

func TestGrantRejectsCallerOutsideDelegationChain(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.grant.Execute(ctx, commands.RoleMutationCommand{Caller: outsider, Role: "VOTER", Subject: voter})
	require.ErrorIs(t, err, domainerrors.ErrNotDelegator)
	require.ErrorIs(t, err, domainerrors.ErrAccessDenied)

	// A super admin cannot skip the chain and hand out voter roles directly.
	_, err = f.grant.Execute(ctx, commands.RoleMutationCommand{Caller: admin, Role: "VOTER", Subject: voter})
	require.ErrorIs(t, err, domainerrors.ErrAccessDenied)

	assert.False(t, f.has(t, entities.RoleVoter, voter))
	assert.Len(t, f.pendingEvents(t), 1)
}

func TestGrantValidatesSubjectAndRole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.grant.Execute(ctx, commands.RoleMutationCommand{Caller: admin, Role: "ELECTION_MANAGER", Subject: "0x0000000000000000000000000000000000000000"})
	require.ErrorIs(t, err, domainerrors.ErrInvalidSubject)
	require.ErrorIs(t, err, domainerrors.ErrValidation)

	_, err = f.grant.Execute(ctx, commands.RoleMutationCommand{Caller: admin, Role: "AUDITOR", Subject: manager})
	require.ErrorIs(t, err, domainerrors.ErrUnknownRole)
}

func TestUnauthorizedCallerIsDeniedBeforeSubjectValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	zero := "0x0000000000000000000000000000000000000000"

	_, err := f.grant.Execute(ctx, commands.RoleMutationCommand{Caller: outsider, Role: "ELECTION_MANAGER", Subject: zero})
	require.ErrorIs(t, err, domainerrors.ErrNotDelegator)

	_, err = f.revoke.Execute(ctx, commands.RoleMutationCommand{Caller: outsider, Role: "ELECTION_MANAGER", Subject: "not-an-address"})
	require.ErrorIs(t, err, domainerrors.ErrNotDelegator)
}

func TestGrantOfHeldRoleIsNoop(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cmd := commands.RoleMutationCommand{Caller: admin, Role: "ELECTION_MANAGER", Subject: manager}

	first, err := f.grant.Execute(ctx, cmd)
	require.NoError(t, err)
	assert.True(t, first.Changed)
	second, err := f.grant.Execute(ctx, cmd)
	require.NoError(t, err)
	assert.False(t, second.Changed)
	assert.Len(t, f.pendingEvents(t), 2)
}

func TestSuperAdminCannotRevokeOwnRole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.grant.Execute(ctx, commands.RoleMutationCommand{Caller: admin, Role: "SUPER_ADMIN", Subject: admin2})
	require.NoError(t, err)

	_, err = f.revoke.Execute(ctx, commands.RoleMutationCommand{Caller: admin, Role: "SUPER_ADMIN", Subject: admin})
	require.ErrorIs(t, err, domainerrors.ErrSelfRevocationDenied)
	assert.True(t, f.has(t, entities.RoleSuperAdmin, admin))

	result, err := f.revoke.Execute(ctx, commands.RoleMutationCommand{Caller: admin, Role: "SUPER_ADMIN", Subject: admin2})
	require.NoError(t, err)
	assert.True(t, result.Changed)
	assert.False(t, f.has(t, entities.RoleSuperAdmin, admin2))

	events := f.pendingEvents(t)
	require.Len(t, events, 3)
	assert.Equal(t, contractsv1.EventTypeRoleRevoked, events[2].EventType)
}

func TestRevokeOfMissingRoleIsNoop(t *testing.T) {
	f := newFixture(t)
	result, err := f.revoke.Execute(context.Background(), commands.RoleMutationCommand{Caller: admin, Role: "ELECTION_MANAGER", Subject: manager})
	require.NoError(t, err)
	assert.False(t, result.Changed)
	assert.Len(t, f.pendingEvents(t), 1)
}

func TestAbortedTransactionLeavesNoTrace(t *testing.T) {
	f := newFixture(t)
	grant := f.grant
	grant.Repository = failingRepository{Repository: f.store}

	_, err := grant.Execute(context.Background(), commands.RoleMutationCommand{Caller: admin, Role: "ELECTION_MANAGER", Subject: manager})
	require.Error(t, err)
	assert.False(t, f.has(t, entities.RoleElectionManager, manager))
	assert.Len(t, f.pendingEvents(t), 1)
}

func TestConcurrentRevocationsKeepOneSuperAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.grant.Execute(ctx, commands.RoleMutationCommand{Caller: admin, Role: "SUPER_ADMIN", Subject: admin2})
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, _ = f.revoke.Execute(ctx, commands.RoleMutationCommand{Caller: admin, Role: "SUPER_ADMIN", Subject: admin2})
	}()
	go func() {
		defer wg.Done()
		_, _ = f.revoke.Execute(ctx, commands.RoleMutationCommand{Caller: admin2, Role: "SUPER_ADMIN", Subject: admin})
	}()
	wg.Wait()

	holders, err := f.store.ListHolders(ctx, entities.RoleSuperAdmin)
	require.NoError(t, err)
	assert.Len(t, holders, 1)
}
