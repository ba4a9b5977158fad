package postgresadapter

import (
	"context"

	"ledgervote/contexts/governance/election-engine/domain/entities"
	domainerrors "ledgervote/contexts/governance/election-engine/domain/errors"
	"ledgervote/contexts/governance/election-engine/domain/valueobjects"
	"ledgervote/contexts/governance/election-engine/ports"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type factoryTx struct {
	db    *gorm.DB
	repo  *Repository
	state factoryStateModel
}

func (t *factoryTx) NextElectionID(ctx context.Context) (uint64, error) {
	next := t.state.LastID + 1
	if err := t.db.WithContext(ctx).
		Model(&factoryStateModel{}).
		Where("id = ?", factoryStateID).
		Update("last_id", next).Error; err != nil {
		return 0, t.repo.logError("election_repo_factory_next_id_failed", err)
	}
	t.state.LastID = next
	return next, nil
}

func (t *factoryTx) CreateElection(ctx context.Context, election entities.Election) error {
	row := fromElection(election)
	if err := t.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrDuplicate
		}
		return t.repo.logError("election_repo_create_election_failed", err,
			"election_address", row.Address,
			"election_id", row.ElectionID,
		)
	}
	return nil
}

func (t *factoryTx) AppendOutbox(ctx context.Context, envelope ports.EventEnvelope) error {
	return t.repo.appendOutbox(t.db.WithContext(ctx), envelope)
}

type electionTx struct {
	db       *gorm.DB
	repo     *Repository
	election entities.Election
}

func (t *electionTx) LoadElection(_ context.Context) (entities.Election, error) {
	return t.election.Clone(), nil
}

func (t *electionTx) VoterRecord(ctx context.Context, voter valueobjects.Address) (entities.VoterRecord, error) {
	return t.repo.voterRecord(t.db.WithContext(ctx), t.election.Address, voter)
}

// SaveElection writes the header under the version read at lock time and
// upserts every candidate row.
func (t *electionTx) SaveElection(ctx context.Context, election entities.Election) error {
	db := t.db.WithContext(ctx)
	row := fromElection(election)
	result := db.Model(&electionModel{}).
		Where("address = ? AND version = ?", row.Address, t.election.Version).
		Updates(map[string]any{
			"status":           row.Status,
			"total_votes":      row.TotalVotes,
			"total_candidates": row.TotalCandidates,
			"is_active":        row.IsActive,
			"winner_id":        row.WinnerID,
			"updated_at":       row.UpdatedAt,
			"version":          row.Version,
		})
	if result.Error != nil {
		return t.repo.logError("election_repo_save_election_failed", result.Error, "election_address", row.Address)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrConcurrentUpdate
	}

	if len(election.Candidates) > 0 {
		candidates := make([]candidateModel, 0, len(election.Candidates))
		for _, candidate := range election.Candidates {
			candidates = append(candidates, fromCandidate(election.Address, candidate))
		}
		if err := db.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "election_address"}, {Name: "candidate_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"status", "vote_count", "validated_at",
			}),
		}).Create(&candidates).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrAlreadyRegistered
			}
			return t.repo.logError("election_repo_save_candidates_failed", err, "election_address", row.Address)
		}
	}
	t.election = election.Clone()
	return nil
}

func (t *electionTx) SaveVoterRecord(ctx context.Context, record entities.VoterRecord) error {
	row := voterRecordModel{
		ElectionAddress: t.election.Address.String(),
		Voter:           record.Voter.String(),
		VotedFor:        record.VotedFor,
		VotedAt:         record.VotedAt.UTC(),
	}
	if err := t.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrAlreadyVoted
		}
		return t.repo.logError("election_repo_save_voter_record_failed", err,
			"election_address", row.ElectionAddress,
			"voter", row.Voter,
		)
	}
	return nil
}

func (t *electionTx) AppendOutbox(ctx context.Context, envelope ports.EventEnvelope) error {
	return t.repo.appendOutbox(t.db.WithContext(ctx), envelope)
}
