package errors

import "errors"

var (
	ErrElectionNotFound  = errors.New("mirrored election not found")
	ErrPrincipalNotFound = errors.New("mirrored principal not found")
	ErrInvalidEvent      = errors.New("invalid mirrored event")
	ErrDedupConflict     = errors.New("event id reused with a different payload")
)
