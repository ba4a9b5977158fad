package services

import (
	"ledgervote/contexts/governance/election-engine/domain/entities"
	domainerrors "ledgervote/contexts/governance/election-engine/domain/errors"
	"ledgervote/contexts/governance/election-engine/domain/valueobjects"
)

// Operation names every guarded engine operation.
type Operation string

const (
	OpCreateElection             Operation = "create_election"
	OpStartCandidateRegistration Operation = "start_candidate_registration"
	OpRegisterCandidate          Operation = "register_candidate"
	OpValidateCandidate          Operation = "validate_candidate"
	OpStartVoting                Operation = "start_voting"
	OpCastVote                   Operation = "cast_vote"
	OpEndElection                Operation = "end_election"
	OpDeclareResult              Operation = "declare_result"
	OpChangeActivation           Operation = "change_activation"
)

// Grant is one way of satisfying an operation: holding Role, being the
// election manager, or (Anyone) any valid principal.
type Grant struct {
	Role    entities.Role
	Manager bool
	Anyone  bool
}

// Actor is the caller as seen by the capability check.
type Actor struct {
	Principal valueobjects.Address
	Roles     []entities.Role
	IsManager bool
}

func (a Actor) Holds(role entities.Role) bool {
	for _, held := range a.Roles {
		if held == role {
			return true
		}
	}
	return false
}

type rule struct {
	grants []Grant
	denied *domainerrors.Error
}

// CapabilityTable maps operations to the grants that permit them.
type CapabilityTable map[Operation]rule

// DefaultCapabilities builds the engine's table. authorityCanValidate lets
// election authorities validate candidates alongside the manager.
func DefaultCapabilities(authorityCanValidate bool) CapabilityTable {
	validate := rule{
		grants: []Grant{{Manager: true}},
		denied: domainerrors.ErrOnlyManager,
	}
	if authorityCanValidate {
		validate = rule{
			grants: []Grant{{Manager: true}, {Role: entities.RoleElectionAuthority}},
			denied: domainerrors.ErrOnlyAuthorityOrManager,
		}
	}
	managerOnly := rule{grants: []Grant{{Manager: true}}, denied: domainerrors.ErrOnlyManager}
	return CapabilityTable{
		OpCreateElection: {
			grants: []Grant{{Role: entities.RoleElectionManager}},
			denied: domainerrors.ErrRestrictedToManagerRole,
		},
		OpStartCandidateRegistration: managerOnly,
		OpRegisterCandidate:          {grants: []Grant{{Anyone: true}}},
		OpValidateCandidate:          validate,
		OpStartVoting:                managerOnly,
		OpCastVote: {
			grants: []Grant{{Role: entities.RoleVoter}},
			denied: domainerrors.ErrOnlyVoter,
		},
		OpEndElection:   managerOnly,
		OpDeclareResult: managerOnly,
		OpChangeActivation: {
			grants: []Grant{{Manager: true}, {Role: entities.RoleSuperAdmin}},
			denied: domainerrors.ErrOnlyManagerOrSuperAdmin,
		},
	}
}

// Authorize returns nil when any grant for op is satisfied by actor. Unknown
// operations are always denied.
func (t CapabilityTable) Authorize(op Operation, actor Actor) error {
	r, ok := t[op]
	if !ok {
		return domainerrors.ErrAccessDenied
	}
	for _, grant := range r.grants {
		switch {
		case grant.Anyone:
			return nil
		case grant.Manager && actor.IsManager:
			return nil
		case grant.Role != "" && actor.Holds(grant.Role):
			return nil
		}
	}
	if r.denied != nil {
		return r.denied
	}
	return domainerrors.ErrAccessDenied
}
