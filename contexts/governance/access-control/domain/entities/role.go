package entities

import (
	"strings"
	"time"

	"ledgervote/contexts/governance/access-control/domain/valueobjects"
)

// Role is a named capability grant. The set is closed.
type Role string

const (
	RoleSuperAdmin        Role = "SUPER_ADMIN"
	RoleElectionManager   Role = "ELECTION_MANAGER"
	RoleElectionAuthority Role = "ELECTION_AUTHORITY"
	RoleVoter             Role = "VOTER"
)

func AllRoles() []Role {
	return []Role{RoleSuperAdmin, RoleElectionManager, RoleElectionAuthority, RoleVoter}
}

// ParseRole accepts the canonical upper-snake form as well as camel-case
// aliases such as "ElectionManager".
func ParseRole(raw string) (Role, bool) {
	normalized := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(raw), "-", "_"))
	switch normalized {
	case "SUPER_ADMIN", "SUPERADMIN":
		return RoleSuperAdmin, true
	case "ELECTION_MANAGER", "ELECTIONMANAGER":
		return RoleElectionManager, true
	case "ELECTION_AUTHORITY", "ELECTIONAUTHORITY":
		return RoleElectionAuthority, true
	case "VOTER":
		return RoleVoter, true
	default:
		return "", false
	}
}

// RoleAssignment records who holds a role and who granted it.
type RoleAssignment struct {
	Role      Role                   `json:"role"`
	Subject   valueobjects.Principal `json:"subject"`
	GrantedBy valueobjects.Principal `json:"granted_by"`
	GrantedAt time.Time              `json:"granted_at"`
}
