package services

import (
	"testing"
	"time"

	domainerrors "ledgervote/contexts/governance/election-engine/domain/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDraftOrdering(t *testing.T) {
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	d := func(n int) time.Time { return now.Add(time.Duration(n) * time.Hour) }

	cases := []struct {
		name     string
		deadline time.Time
		start    time.Time
		end      time.Time
		ok       bool
	}{
		{name: "strict", deadline: d(1), start: d(2), end: d(3), ok: true},
		{name: "deadline equals start", deadline: d(2), start: d(2), end: d(3), ok: true},
		{name: "deadline in the past", deadline: d(0), start: d(2), end: d(3)},
		{name: "deadline after start", deadline: d(3), start: d(2), end: d(4)},
		{name: "start equals end", deadline: d(1), start: d(2), end: d(2)},
		{name: "end before start", deadline: d(1), start: d(3), end: d(2)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ValidateDraft(ElectionDraft{
				Name:                 "council",
				StartTime:            tc.start,
				EndTime:              tc.end,
				RegistrationDeadline: tc.deadline,
			}, now)
			if tc.ok {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, domainerrors.ErrInvalidSchedule)
		})
	}
}

func TestValidateDraftRequiresName(t *testing.T) {
	now := time.Now().UTC()
	_, err := ValidateDraft(ElectionDraft{
		Name:                 "  ",
		RegistrationDeadline: now.Add(time.Hour),
		StartTime:            now.Add(2 * time.Hour),
		EndTime:              now.Add(3 * time.Hour),
	}, now)
	require.ErrorIs(t, err, domainerrors.ErrNameRequired)
}

func TestNewElectionStartsCreatedAndActive(t *testing.T) {
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	election := NewElection(ElectionDraft{Name: "council"}, 7, "0x00000000000000000000000000000000000000f7", now)
	assert.Equal(t, uint64(7), election.ID)
	assert.True(t, election.IsActive)
	assert.Equal(t, uint64(1), election.Version)
	assert.Equal(t, "created", string(election.Status))
	assert.NotNil(t, election.Candidates)
}
