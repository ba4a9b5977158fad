package commands

import (
	"time"

	"ledgervote/contexts/governance/access-control/domain/entities"
	domainerrors "ledgervote/contexts/governance/access-control/domain/errors"
	"ledgervote/contexts/governance/access-control/domain/services"
	"ledgervote/contexts/governance/access-control/domain/valueobjects"
	"ledgervote/contexts/governance/access-control/ports"
)

// RoleMutationCommand is the shared input of grant and revoke.
type RoleMutationCommand struct {
	Caller  string
	Role    string
	Subject string
}

// RoleMutationResult reports whether the registry changed. Changed is false
// when the subject already held (grant) or did not hold (revoke) the role.
type RoleMutationResult struct {
	Role    entities.Role          `json:"role"`
	Subject valueobjects.Principal `json:"subject"`
	Changed bool                   `json:"changed"`
}

type parsedMutation struct {
	caller     valueobjects.Principal
	role       entities.Role
	rawSubject string
	subject    valueobjects.Principal
}

// parseMutation validates the caller and role. The subject is parsed by
// authorize, once the caller is known to administer the role.
func parseMutation(cmd RoleMutationCommand) (parsedMutation, error) {
	role, ok := entities.ParseRole(cmd.Role)
	if !ok {
		return parsedMutation{}, domainerrors.ErrUnknownRole
	}
	caller, err := valueobjects.NewPrincipal(cmd.Caller)
	if err != nil {
		return parsedMutation{}, domainerrors.ErrInvalidCaller
	}
	return parsedMutation{caller: caller, role: role, rawSubject: cmd.Subject}, nil
}

// authorize fails with ErrNotDelegator before looking at the subject, so an
// unauthorized caller learns nothing about subject validation.
func (m *parsedMutation) authorize(callerRoles []entities.Role) error {
	if !services.CanDelegate(callerRoles, m.role) {
		return domainerrors.ErrNotDelegator
	}
	subject, err := valueobjects.NewPrincipal(m.rawSubject)
	if err != nil {
		return domainerrors.ErrInvalidSubject
	}
	m.subject = subject
	return nil
}

func resolveNow(clock ports.Clock) time.Time {
	if clock == nil {
		return time.Now().UTC()
	}
	return clock.Now().UTC()
}

func holds(roles []entities.Role, target entities.Role) bool {
	for _, role := range roles {
		if role == target {
			return true
		}
	}
	return false
}
