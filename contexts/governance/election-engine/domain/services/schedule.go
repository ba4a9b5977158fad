package services

import (
	"strings"
	"time"

	"ledgervote/contexts/governance/election-engine/domain/entities"
	domainerrors "ledgervote/contexts/governance/election-engine/domain/errors"
	"ledgervote/contexts/governance/election-engine/domain/valueobjects"
)

// ElectionDraft is a validated creation request before id and address are
// allocated.
type ElectionDraft struct {
	Name                 string
	Description          string
	Manager              valueobjects.Address
	Creator              valueobjects.Address
	StartTime            time.Time
	EndTime              time.Time
	RegistrationDeadline time.Time
}

// ValidateDraft enforces a non-empty name and
// now < registrationDeadline <= startTime < endTime.
func ValidateDraft(draft ElectionDraft, now time.Time) (ElectionDraft, error) {
	draft.Name = strings.TrimSpace(draft.Name)
	draft.Description = strings.TrimSpace(draft.Description)
	if draft.Name == "" {
		return ElectionDraft{}, domainerrors.ErrNameRequired
	}
	if !now.Before(draft.RegistrationDeadline) ||
		draft.RegistrationDeadline.After(draft.StartTime) ||
		!draft.StartTime.Before(draft.EndTime) {
		return ElectionDraft{}, domainerrors.ErrInvalidSchedule
	}
	draft.StartTime = draft.StartTime.UTC()
	draft.EndTime = draft.EndTime.UTC()
	draft.RegistrationDeadline = draft.RegistrationDeadline.UTC()
	return draft, nil
}

// NewElection materializes a draft as a Created, active election.
func NewElection(draft ElectionDraft, id uint64, address valueobjects.Address, now time.Time) entities.Election {
	return entities.Election{
		ID:                   id,
		Address:              address,
		Name:                 draft.Name,
		Description:          draft.Description,
		Manager:              draft.Manager,
		Creator:              draft.Creator,
		StartTime:            draft.StartTime,
		EndTime:              draft.EndTime,
		RegistrationDeadline: draft.RegistrationDeadline,
		Status:               entities.ElectionStatusCreated,
		IsActive:             true,
		CreatedAt:            now.UTC(),
		UpdatedAt:            now.UTC(),
		Version:              1,
		Candidates:           []entities.Candidate{},
	}
}
