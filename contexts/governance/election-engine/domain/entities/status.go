package entities

// ElectionStatus is the lifecycle phase. Transitions only move forward.
type ElectionStatus string

const (
	ElectionStatusCreated        ElectionStatus = "created"
	ElectionStatusRegistration   ElectionStatus = "registration"
	ElectionStatusVoting         ElectionStatus = "voting"
	ElectionStatusEnded          ElectionStatus = "ended"
	ElectionStatusResultDeclared ElectionStatus = "result_declared"
)

// Next returns the single status reachable from s.
func (s ElectionStatus) Next() (ElectionStatus, bool) {
	switch s {
	case ElectionStatusCreated:
		return ElectionStatusRegistration, true
	case ElectionStatusRegistration:
		return ElectionStatusVoting, true
	case ElectionStatusVoting:
		return ElectionStatusEnded, true
	case ElectionStatusEnded:
		return ElectionStatusResultDeclared, true
	case ElectionStatusResultDeclared:
		return "", false
	default:
		return "", false
	}
}

func (s ElectionStatus) ResultsAvailable() bool {
	switch s {
	case ElectionStatusEnded, ElectionStatusResultDeclared:
		return true
	case ElectionStatusCreated, ElectionStatusRegistration, ElectionStatusVoting:
		return false
	default:
		return false
	}
}

// CandidateStatus is the validation outcome of a candidate.
type CandidateStatus string

const (
	CandidateStatusPending  CandidateStatus = "pending"
	CandidateStatusApproved CandidateStatus = "approved"
	CandidateStatusRejected CandidateStatus = "rejected"
)
