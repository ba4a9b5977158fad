package errors

import stderrors "errors"

// Kind classifies every engine failure.
type Kind string

const (
	KindAccessDenied Kind = "access_denied"
	KindState        Kind = "state"
	KindTemporal     Kind = "temporal"
	KindNotFound     Kind = "not_found"
	KindDuplicate    Kind = "duplicate"
	KindValidation   Kind = "validation"
)

// Error carries a kind and a human-readable reason.
// errors.Is matches on kind alone when the target has no reason.
type Error struct {
	Kind   Kind
	Reason string
}

func (e *Error) Error() string {
	if e.Reason == "" {
		return string(e.Kind)
	}
	return e.Reason
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Reason == "" {
		return t.Kind == e.Kind
	}
	return t.Kind == e.Kind && t.Reason == e.Reason
}

func KindOf(err error) (Kind, bool) {
	var typed *Error
	if stderrors.As(err, &typed) {
		return typed.Kind, true
	}
	return "", false
}

var (
	ErrAccessDenied = &Error{Kind: KindAccessDenied}
	ErrState        = &Error{Kind: KindState}
	ErrTemporal     = &Error{Kind: KindTemporal}
	ErrNotFound     = &Error{Kind: KindNotFound}
	ErrDuplicate    = &Error{Kind: KindDuplicate}
	ErrValidation   = &Error{Kind: KindValidation}
)

// Access.
var (
	ErrOnlyManager             = &Error{Kind: KindAccessDenied, Reason: "only election manager"}
	ErrOnlyAuthorityOrManager  = &Error{Kind: KindAccessDenied, Reason: "only authority or manager"}
	ErrOnlyVoter               = &Error{Kind: KindAccessDenied, Reason: "only registered voter"}
	ErrRestrictedToManagerRole = &Error{Kind: KindAccessDenied, Reason: "restricted to election manager"}
	ErrManagerMustBeCaller     = &Error{Kind: KindAccessDenied, Reason: "manager must be the caller"}
	ErrOnlyManagerOrSuperAdmin = &Error{Kind: KindAccessDenied, Reason: "only election manager or super admin"}
	ErrInvalidCaller           = &Error{Kind: KindAccessDenied, Reason: "caller is not a valid principal"}
)

// Lifecycle.
var (
	ErrElectionInactive     = &Error{Kind: KindState, Reason: "election is not active"}
	ErrNotInCreated         = &Error{Kind: KindState, Reason: "election is not in created status"}
	ErrRegistrationNotOpen  = &Error{Kind: KindState, Reason: "candidate registration is not open"}
	ErrValidationNotOpen    = &Error{Kind: KindState, Reason: "candidate validation is not open"}
	ErrVotingNotOpen        = &Error{Kind: KindState, Reason: "voting is not open"}
	ErrNotEnded             = &Error{Kind: KindState, Reason: "election is not ended"}
	ErrNoApprovedCandidates = &Error{Kind: KindState, Reason: "no approved candidates"}
	ErrCandidateNotApproved = &Error{Kind: KindState, Reason: "candidate not approved"}
	ErrResultsNotAvailable  = &Error{Kind: KindState, Reason: "results not available yet"}
	ErrConcurrentUpdate     = &Error{Kind: KindState, Reason: "election was modified concurrently"}
	ErrRegistrationDeadline = &Error{Kind: KindTemporal, Reason: "registration deadline passed"}
	ErrRegistrationClosed   = &Error{Kind: KindTemporal, Reason: "registration closed"}
	ErrVotingNotStarted     = &Error{Kind: KindTemporal, Reason: "voting has not started"}
	ErrVotingEnded          = &Error{Kind: KindTemporal, Reason: "voting ended"}
	ErrElectionNotOver      = &Error{Kind: KindTemporal, Reason: "election not ended"}
)

// Lookups, duplicates and input.
var (
	ErrElectionNotFound    = &Error{Kind: KindNotFound, Reason: "election not found"}
	ErrCandidateNotFound   = &Error{Kind: KindNotFound, Reason: "candidate not found"}
	ErrAlreadyRegistered   = &Error{Kind: KindDuplicate, Reason: "already registered"}
	ErrAlreadyValidated    = &Error{Kind: KindDuplicate, Reason: "already validated"}
	ErrAlreadyVoted        = &Error{Kind: KindDuplicate, Reason: "already voted"}
	ErrIdempotencyConflict = &Error{Kind: KindDuplicate, Reason: "idempotency key reused with a different request"}
	ErrOutboxConflict      = &Error{Kind: KindDuplicate, Reason: "outbox event id reused with a different payload"}
	ErrNameRequired        = &Error{Kind: KindValidation, Reason: "name required"}
	ErrPartyRequired       = &Error{Kind: KindValidation, Reason: "party required"}
	ErrInvalidSchedule     = &Error{Kind: KindValidation, Reason: "schedule must satisfy now < registration deadline <= start < end"}
	ErrInvalidAddress      = &Error{Kind: KindValidation, Reason: "invalid address"}
)
