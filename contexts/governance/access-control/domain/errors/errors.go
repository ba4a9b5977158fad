package errors

import stderrors "errors"

// Kind classifies registry failures so transports can map them uniformly.
type Kind string

const (
	KindAccessDenied Kind = "access_denied"
	KindState        Kind = "state"
	KindNotFound     Kind = "not_found"
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
	ErrNotFound     = &Error{Kind: KindNotFound}
	ErrValidation   = &Error{Kind: KindValidation}

	ErrInvalidSubject       = &Error{Kind: KindValidation, Reason: "invalid address"}
	ErrInvalidCaller        = &Error{Kind: KindAccessDenied, Reason: "caller is not a valid principal"}
	ErrUnknownRole          = &Error{Kind: KindValidation, Reason: "unknown role"}
	ErrNotDelegator         = &Error{Kind: KindAccessDenied, Reason: "caller may not grant or revoke this role"}
	ErrSelfRevocationDenied = &Error{Kind: KindAccessDenied, Reason: "cannot remove yourself"}
	ErrLastSuperAdmin       = &Error{Kind: KindState, Reason: "at least one super admin must remain"}
	ErrOutboxConflict       = &Error{Kind: KindState, Reason: "outbox event id reused with a different payload"}
)
