package v1

import "time"

// Event types double as bus topics.
const (
	EventTypeRoleGranted               = "RoleGranted"
	EventTypeRoleRevoked               = "RoleRevoked"
	EventTypeElectionCreated           = "ElectionCreated"
	EventTypeElectionStatusChanged     = "ElectionStatusChanged"
	EventTypeElectionActivationChanged = "ElectionActivationChanged"
	EventTypeCandidateRegistered       = "CandidateRegistered"
	EventTypeCandidateValidated        = "CandidateValidated"
	EventTypeVoteCasted                = "VoteCasted"
	EventTypeResultDeclared            = "ResultDeclared"
)

// AccessControlEventTypes lists every topic produced by the role registry.
func AccessControlEventTypes() []string {
	return []string{EventTypeRoleGranted, EventTypeRoleRevoked}
}

// ElectionEventTypes lists every topic produced by the election engine.
func ElectionEventTypes() []string {
	return []string{
		EventTypeElectionCreated,
		EventTypeElectionStatusChanged,
		EventTypeElectionActivationChanged,
		EventTypeCandidateRegistered,
		EventTypeCandidateValidated,
		EventTypeVoteCasted,
		EventTypeResultDeclared,
	}
}

type RoleGrantedData struct {
	Role      string `json:"role"`
	Subject   string `json:"subject"`
	GrantedBy string `json:"granted_by"`
}

type RoleRevokedData struct {
	Role      string `json:"role"`
	Subject   string `json:"subject"`
	RevokedBy string `json:"revoked_by"`
}

// ElectionRef is embedded in every election event so consumers can key on
// the election address and discard stale deliveries by version.
type ElectionRef struct {
	ElectionAddress string `json:"election_address"`
	ElectionVersion uint64 `json:"election_version"`
}

type ElectionCreatedData struct {
	ElectionRef
	ElectionID uint64    `json:"id"`
	Manager    string    `json:"manager"`
	Name       string    `json:"name"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
}

type ElectionStatusChangedData struct {
	ElectionRef
	From string `json:"from"`
	To   string `json:"to"`
}

type ElectionActivationChangedData struct {
	ElectionRef
	IsActive bool `json:"is_active"`
}

type CandidateRegisteredData struct {
	ElectionRef
	CandidateID uint64 `json:"id"`
	Address     string `json:"address"`
	Name        string `json:"name"`
}

type CandidateValidatedData struct {
	ElectionRef
	CandidateID uint64 `json:"id"`
	NewStatus   string `json:"new_status"`
}

type VoteCastedData struct {
	ElectionRef
	Voter       string `json:"voter"`
	CandidateID uint64 `json:"candidate_id"`
}

type ResultDeclaredData struct {
	ElectionRef
	WinnerID   uint64 `json:"winner_id"`
	TotalVotes uint64 `json:"total_votes"`
}
