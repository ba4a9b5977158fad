package services

import (
	"testing"

	"ledgervote/contexts/governance/access-control/domain/entities"

	"github.com/stretchr/testify/assert"
)

func TestCanDelegateFollowsChain(t *testing.T) {
	held := []entities.Role{entities.RoleSuperAdmin}
	assert.True(t, CanDelegate(held, entities.RoleSuperAdmin))
	assert.True(t, CanDelegate(held, entities.RoleElectionManager))
	assert.False(t, CanDelegate(held, entities.RoleVoter))

	manager := []entities.Role{entities.RoleElectionManager}
	assert.True(t, CanDelegate(manager, entities.RoleElectionAuthority))
	assert.True(t, CanDelegate(manager, entities.RoleVoter))
	assert.False(t, CanDelegate(manager, entities.RoleElectionManager))

	authority := []entities.Role{entities.RoleElectionAuthority}
	assert.True(t, CanDelegate(authority, entities.RoleVoter))
	assert.False(t, CanDelegate(authority, entities.RoleElectionAuthority))

	assert.False(t, CanDelegate([]entities.Role{entities.RoleVoter}, entities.RoleVoter))
	assert.False(t, CanDelegate(nil, entities.RoleVoter))
}

func TestDelegatorsOfVoter(t *testing.T) {
	assert.Equal(t,
		[]entities.Role{entities.RoleElectionManager, entities.RoleElectionAuthority},
		DelegatorsOf(entities.RoleVoter),
	)
}
