package postgresadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"ledgervote/contexts/governance/access-control/domain/entities"
	domainerrors "ledgervote/contexts/governance/access-control/domain/errors"
	"ledgervote/contexts/governance/access-control/domain/valueobjects"
	"ledgervote/contexts/governance/access-control/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"

	// registryLockKey names the transaction-scoped advisory lock that
	// serializes every registry mutation.
	registryLockKey int64 = 0x6c76_6163
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

// NewID returns a random UUID for outbox rows.
func (r *Repository) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

// Migrate creates or updates the registry tables.
func (r *Repository) Migrate(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&roleAssignmentModel{}, &outboxModel{}); err != nil {
		return r.logError("access_control_repo_migrate_failed", err)
	}
	return nil
}

func (r *Repository) WithinTransaction(ctx context.Context, fn func(tx ports.RegistryTx) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// gorm-postgres-enforcer: allow-raw-sql advisory lock has no query-builder form
		if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", registryLockKey).Error; err != nil {
			return r.logError("access_control_repo_lock_failed", err)
		}
		return fn(&registryTx{db: tx, repo: r})
	})
}

func (r *Repository) HasRole(ctx context.Context, role entities.Role, subject valueobjects.Principal) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&roleAssignmentModel{}).
		Where("role = ? AND subject = ?", string(role), subject.String()).
		Count(&count).Error; err != nil {
		return false, r.logError("access_control_repo_has_role_failed", err,
			"role", string(role),
			"subject", subject.String(),
		)
	}
	return count > 0, nil
}

func (r *Repository) ListAssignments(ctx context.Context, subject valueobjects.Principal) ([]entities.RoleAssignment, error) {
	var rows []roleAssignmentModel
	if err := r.db.WithContext(ctx).
		Where("subject = ?", subject.String()).
		Order("role ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("access_control_repo_list_assignments_failed", err, "subject", subject.String())
	}
	return toAssignments(rows), nil
}

func (r *Repository) ListHolders(ctx context.Context, role entities.Role) ([]entities.RoleAssignment, error) {
	var rows []roleAssignmentModel
	if err := r.db.WithContext(ctx).
		Where("role = ?", string(role)).
		Order("subject ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("access_control_repo_list_holders_failed", err, "role", string(role))
	}
	return toAssignments(rows), nil
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
		return nil, r.logError("access_control_repo_list_pending_outbox_failed", err, "limit", limit)
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
		return r.logError("access_control_repo_mark_outbox_published_failed", result.Error,
			"outbox_id", strings.TrimSpace(outboxID),
		)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "governance/access-control",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("access control repository operation failed", fields...)
	return err
}

type registryTx struct {
	db   *gorm.DB
	repo *Repository
}

func (t *registryTx) RolesOf(ctx context.Context, subject valueobjects.Principal) ([]entities.Role, error) {
	var rows []roleAssignmentModel
	if err := t.db.WithContext(ctx).
		Where("subject = ?", subject.String()).
		Find(&rows).Error; err != nil {
		return nil, t.repo.logError("access_control_repo_tx_roles_of_failed", err, "subject", subject.String())
	}
	roles := make([]entities.Role, 0, len(rows))
	for _, row := range rows {
		roles = append(roles, entities.Role(row.Role))
	}
	return roles, nil
}

func (t *registryTx) CountHolders(ctx context.Context, role entities.Role) (int, error) {
	var count int64
	if err := t.db.WithContext(ctx).
		Model(&roleAssignmentModel{}).
		Where("role = ?", string(role)).
		Count(&count).Error; err != nil {
		return 0, t.repo.logError("access_control_repo_tx_count_holders_failed", err, "role", string(role))
	}
	return int(count), nil
}

func (t *registryTx) Assign(ctx context.Context, assignment entities.RoleAssignment) error {
	row := roleAssignmentModel{
		Role:      string(assignment.Role),
		Subject:   assignment.Subject.String(),
		GrantedBy: assignment.GrantedBy.String(),
		GrantedAt: assignment.GrantedAt.UTC(),
	}
	create := t.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "role"}, {Name: "subject"}},
		DoNothing: true,
	}).Create(&row)
	if create.Error != nil {
		return t.repo.logError("access_control_repo_tx_assign_failed", create.Error,
			"role", row.Role,
			"subject", row.Subject,
		)
	}
	return nil
}

func (t *registryTx) Remove(ctx context.Context, role entities.Role, subject valueobjects.Principal) error {
	if err := t.db.WithContext(ctx).
		Where("role = ? AND subject = ?", string(role), subject.String()).
		Delete(&roleAssignmentModel{}).Error; err != nil {
		return t.repo.logError("access_control_repo_tx_remove_failed", err,
			"role", string(role),
			"subject", subject.String(),
		)
	}
	return nil
}

func (t *registryTx) AppendOutbox(ctx context.Context, envelope ports.EventEnvelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
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
	create := t.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "outbox_id"}},
		DoNothing: true,
	}).Create(&row)
	if create.Error != nil {
		if isUniqueViolation(create.Error) {
			return domainerrors.ErrOutboxConflict
		}
		return t.repo.logError("access_control_repo_append_outbox_failed", create.Error, "outbox_id", row.OutboxID)
	}
	if create.RowsAffected > 0 {
		return nil
	}

	var existing outboxModel
	if err := t.db.WithContext(ctx).
		Select("payload").
		Where("outbox_id = ?", row.OutboxID).
		First(&existing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domainerrors.ErrOutboxConflict
		}
		return t.repo.logError("access_control_repo_append_outbox_load_existing_failed", err, "outbox_id", row.OutboxID)
	}
	if !bytes.Equal(existing.Payload, row.Payload) {
		return domainerrors.ErrOutboxConflict
	}
	return nil
}

type roleAssignmentModel struct {
	Role      string    `gorm:"column:role;primaryKey"`
	Subject   string    `gorm:"column:subject;primaryKey;index"`
	GrantedBy string    `gorm:"column:granted_by"`
	GrantedAt time.Time `gorm:"column:granted_at"`
}

func (roleAssignmentModel) TableName() string {
	return "role_assignments"
}

func (m roleAssignmentModel) toEntity() entities.RoleAssignment {
	return entities.RoleAssignment{
		Role:      entities.Role(m.Role),
		Subject:   valueobjects.Principal(m.Subject),
		GrantedBy: valueobjects.Principal(m.GrantedBy),
		GrantedAt: m.GrantedAt.UTC(),
	}
}

type outboxModel struct {
	Sequence     int64      `gorm:"column:sequence;autoIncrement;uniqueIndex"`
	OutboxID     string     `gorm:"column:outbox_id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload"`
	Status       string     `gorm:"column:status;index"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	PublishedAt  *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string {
	return "access_control_outbox"
}

func toAssignments(rows []roleAssignmentModel) []entities.RoleAssignment {
	items := make([]entities.RoleAssignment, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ ports.Repository = (*Repository)(nil)
var _ ports.OutboxRepository = (*Repository)(nil)
