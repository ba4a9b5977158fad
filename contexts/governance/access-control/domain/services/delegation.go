package services

import "ledgervote/contexts/governance/access-control/domain/entities"

var delegationTable = map[entities.Role][]entities.Role{
	entities.RoleSuperAdmin:        {entities.RoleSuperAdmin, entities.RoleElectionManager},
	entities.RoleElectionManager:   {entities.RoleElectionAuthority, entities.RoleVoter},
	entities.RoleElectionAuthority: {entities.RoleVoter},
	entities.RoleVoter:             nil,
}

// CanDelegate reports whether any held role may grant or revoke target.
func CanDelegate(held []entities.Role, target entities.Role) bool {
	for _, role := range held {
		for _, allowed := range delegationTable[role] {
			if allowed == target {
				return true
			}
		}
	}
	return false
}

// DelegatorsOf returns the roles allowed to administer target.
func DelegatorsOf(target entities.Role) []entities.Role {
	var out []entities.Role
	for _, role := range entities.AllRoles() {
		for _, allowed := range delegationTable[role] {
			if allowed == target {
				out = append(out, role)
			}
		}
	}
	return out
}
