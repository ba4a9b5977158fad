package entities

// Role mirrors the registry role names the engine gates operations on.
type Role string

const (
	RoleSuperAdmin        Role = "SUPER_ADMIN"
	RoleElectionManager   Role = "ELECTION_MANAGER"
	RoleElectionAuthority Role = "ELECTION_AUTHORITY"
	RoleVoter             Role = "VOTER"
)
