package ports

import (
	"context"
	"time"

	"ledgervote/contexts/governance/access-control/domain/entities"
	"ledgervote/contexts/governance/access-control/domain/valueobjects"
	contractsv1 "ledgervote/contracts/gen/events/v1"
)

// Clock abstracts current time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts UUID generation for outbox rows.
type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// EventEnvelope reuses the canonical cross-runtime envelope contract.
type EventEnvelope = contractsv1.Envelope

// RegistryTx is the unit of work handed to mutating use cases. Writes become
// visible only when the enclosing WithinTransaction call returns nil.
type RegistryTx interface {
	RolesOf(ctx context.Context, subject valueobjects.Principal) ([]entities.Role, error)
	CountHolders(ctx context.Context, role entities.Role) (int, error)
	Assign(ctx context.Context, assignment entities.RoleAssignment) error
	Remove(ctx context.Context, role entities.Role, subject valueobjects.Principal) error
	AppendOutbox(ctx context.Context, envelope EventEnvelope) error
}

// Repository is the read/write boundary for role assignments. Mutations are
// serialized across the whole registry.
type Repository interface {
	WithinTransaction(ctx context.Context, fn func(tx RegistryTx) error) error
	HasRole(ctx context.Context, role entities.Role, subject valueobjects.Principal) (bool, error)
	ListAssignments(ctx context.Context, subject valueobjects.Principal) ([]entities.RoleAssignment, error)
	ListHolders(ctx context.Context, role entities.Role) ([]entities.RoleAssignment, error)
}

// OutboxMessage represents a pending relay message.
type OutboxMessage struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
}

// OutboxRepository supports worker relay polling and acknowledgement.
type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}
