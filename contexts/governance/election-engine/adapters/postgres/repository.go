package postgresadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"ledgervote/contexts/governance/election-engine/domain/entities"
	domainerrors "ledgervote/contexts/governance/election-engine/domain/errors"
	"ledgervote/contexts/governance/election-engine/domain/valueobjects"
	"ledgervote/contexts/governance/election-engine/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Now truncates to microseconds, the resolution of a postgres timestamptz,
// so values kept in memory compare equal to the rows read back.
func (r *Repository) Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// NewID returns a random UUID for event envelopes.
func (r *Repository) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

// Migrate creates or updates the election tables.
func (r *Repository) Migrate(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(
		&factoryStateModel{},
		&electionModel{},
		&candidateModel{},
		&voterRecordModel{},
		&idempotencyModel{},
		&outboxModel{},
	); err != nil {
		return r.logError("election_repo_migrate_failed", err)
	}
	return nil
}

// WithinFactory locks the factory counter row for the duration of fn.
func (r *Repository) WithinFactory(ctx context.Context, fn func(tx ports.FactoryTx) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seed := factoryStateModel{ID: factoryStateID}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoNothing: true,
		}).Create(&seed).Error; err != nil {
			return r.logError("election_repo_factory_seed_failed", err)
		}
		var state factoryStateModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", factoryStateID).
			First(&state).Error; err != nil {
			return r.logError("election_repo_factory_lock_failed", err)
		}
		return fn(&factoryTx{db: tx, repo: r, state: state})
	})
}

// WithinElection locks the election row with SELECT ... FOR UPDATE and
// guards the final write with the version read at lock time.
func (r *Repository) WithinElection(ctx context.Context, address valueobjects.Address, fn func(tx ports.ElectionTx) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row electionModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("address = ?", address.String()).
			First(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrElectionNotFound
			}
			return r.logError("election_repo_lock_election_failed", err, "election_address", address.String())
		}
		candidates, err := r.loadCandidates(tx, address)
		if err != nil {
			return err
		}
		return fn(&electionTx{
			db:       tx,
			repo:     r,
			election: row.toEntity(candidates),
		})
	})
}

func (r *Repository) GetElection(ctx context.Context, address valueobjects.Address) (entities.Election, error) {
	db := r.db.WithContext(ctx)
	var row electionModel
	if err := db.Where("address = ?", address.String()).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Election{}, domainerrors.ErrElectionNotFound
		}
		return entities.Election{}, r.logError("election_repo_get_election_failed", err, "election_address", address.String())
	}
	candidates, err := r.loadCandidates(db, address)
	if err != nil {
		return entities.Election{}, err
	}
	return row.toEntity(candidates), nil
}

// ListElections returns headers only; candidates are loaded per election.
func (r *Repository) ListElections(ctx context.Context) ([]entities.Election, error) {
	var rows []electionModel
	if err := r.db.WithContext(ctx).
		Order("election_id ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("election_repo_list_elections_failed", err)
	}
	items := make([]entities.Election, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity(nil))
	}
	return items, nil
}

func (r *Repository) CountElections(ctx context.Context) (int, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&electionModel{}).Count(&count).Error; err != nil {
		return 0, r.logError("election_repo_count_elections_failed", err)
	}
	return int(count), nil
}

func (r *Repository) GetVoterRecord(ctx context.Context, address valueobjects.Address, voter valueobjects.Address) (entities.VoterRecord, error) {
	db := r.db.WithContext(ctx)
	var count int64
	if err := db.Model(&electionModel{}).Where("address = ?", address.String()).Count(&count).Error; err != nil {
		return entities.VoterRecord{}, r.logError("election_repo_voter_election_lookup_failed", err, "election_address", address.String())
	}
	if count == 0 {
		return entities.VoterRecord{}, domainerrors.ErrElectionNotFound
	}
	return r.voterRecord(db, address, voter)
}

func (r *Repository) GetRecord(ctx context.Context, key string, now time.Time) (ports.IdempotencyRecord, bool, error) {
	var row idempotencyModel
	err := r.db.WithContext(ctx).
		Where("key = ?", strings.TrimSpace(key)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.IdempotencyRecord{}, false, nil
		}
		return ports.IdempotencyRecord{}, false, r.logError("election_repo_idempotency_get_failed", err,
			"idempotency_key", strings.TrimSpace(key),
		)
	}
	if !row.ExpiresAt.IsZero() && !now.UTC().Before(row.ExpiresAt.UTC()) {
		if err := r.db.WithContext(ctx).
			Where("key = ?", strings.TrimSpace(key)).
			Delete(&idempotencyModel{}).Error; err != nil {
			return ports.IdempotencyRecord{}, false, r.logError("election_repo_idempotency_expire_delete_failed", err,
				"idempotency_key", strings.TrimSpace(key),
			)
		}
		return ports.IdempotencyRecord{}, false, nil
	}
	return ports.IdempotencyRecord{
		Key:             row.Key,
		Operation:       row.Operation,
		RequestHash:     row.RequestHash,
		ResponsePayload: append([]byte(nil), row.ResponsePayload...),
		ExpiresAt:       row.ExpiresAt.UTC(),
	}, true, nil
}

func (r *Repository) PutRecord(ctx context.Context, record ports.IdempotencyRecord) error {
	row := idempotencyModel{
		Key:             strings.TrimSpace(record.Key),
		Operation:       strings.TrimSpace(record.Operation),
		RequestHash:     strings.TrimSpace(record.RequestHash),
		ResponsePayload: append([]byte(nil), record.ResponsePayload...),
		ExpiresAt:       record.ExpiresAt.UTC(),
	}
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoNothing: true,
	}).Create(&row)
	if create.Error != nil {
		return r.logError("election_repo_idempotency_put_failed", create.Error, "idempotency_key", row.Key)
	}
	if create.RowsAffected > 0 {
		return nil
	}

	var existing idempotencyModel
	if err := r.db.WithContext(ctx).
		Where("key = ?", row.Key).
		First(&existing).Error; err != nil {
		return r.logError("election_repo_idempotency_load_existing_failed", err, "idempotency_key", row.Key)
	}
	if existing.RequestHash != row.RequestHash || existing.Operation != row.Operation {
		return domainerrors.ErrIdempotencyConflict
	}
	return nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []outboxModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("sequence ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, r.logError("election_repo_list_pending_outbox_failed", err, "limit", limit)
	}
	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.OutboxMessage{
			OutboxID:     row.OutboxID,
			EventType:    row.EventType,
			PartitionKey: row.PartitionKey,
			Payload:      append([]byte(nil), row.Payload...),
			CreatedAt:    row.CreatedAt.UTC(),
		})
	}
	return items, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", strings.TrimSpace(outboxID)).
		Updates(map[string]any{
			"status":       outboxStatusPublished,
			"published_at": publishedAt.UTC(),
		})
	if result.Error != nil {
		return r.logError("election_repo_mark_outbox_published_failed", result.Error,
			"outbox_id", strings.TrimSpace(outboxID),
		)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *Repository) loadCandidates(db *gorm.DB, address valueobjects.Address) ([]candidateModel, error) {
	var rows []candidateModel
	if err := db.Where("election_address = ?", address.String()).
		Order("candidate_id ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("election_repo_load_candidates_failed", err, "election_address", address.String())
	}
	return rows, nil
}

func (r *Repository) voterRecord(db *gorm.DB, address valueobjects.Address, voter valueobjects.Address) (entities.VoterRecord, error) {
	var row voterRecordModel
	if err := db.Where("election_address = ? AND voter = ?", address.String(), voter.String()).
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.VoterRecord{Voter: voter}, nil
		}
		return entities.VoterRecord{}, r.logError("election_repo_voter_record_failed", err,
			"election_address", address.String(),
			"voter", voter.String(),
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) appendOutbox(db *gorm.DB, envelope ports.EventEnvelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return r.logError("election_repo_append_outbox_marshal_failed", err,
			"event_id", strings.TrimSpace(envelope.EventID),
			"event_type", strings.TrimSpace(envelope.EventType),
		)
	}
	row := outboxModel{
		OutboxID:     strings.TrimSpace(envelope.EventID),
		EventType:    strings.TrimSpace(envelope.EventType),
		PartitionKey: strings.TrimSpace(envelope.PartitionKey),
		Payload:      payload,
		Status:       outboxStatusPending,
		CreatedAt:    envelope.OccurredAt.UTC(),
	}
	if row.OutboxID == "" {
		row.OutboxID = uuid.NewString()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = r.Now()
	}
	create := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "outbox_id"}},
		DoNothing: true,
	}).Create(&row)
	if create.Error != nil {
		return r.logError("election_repo_append_outbox_insert_failed", create.Error, "outbox_id", row.OutboxID)
	}
	if create.RowsAffected > 0 {
		return nil
	}

	var existing outboxModel
	if err := db.Select("payload").
		Where("outbox_id = ?", row.OutboxID).
		First(&existing).Error; err != nil {
		return r.logError("election_repo_append_outbox_load_existing_failed", err, "outbox_id", row.OutboxID)
	}
	if !bytes.Equal(existing.Payload, row.Payload) {
		return domainerrors.ErrOutboxConflict
	}
	return nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "governance/election-engine",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("election repository operation failed", fields...)
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ ports.Repository = (*Repository)(nil)
var _ ports.OutboxRepository = (*Repository)(nil)
var _ ports.IdempotencyStore = (*Repository)(nil)
