package ports

import (
	"context"
	"time"

	"ledgervote/contexts/governance/election-engine/domain/entities"
	"ledgervote/contexts/governance/election-engine/domain/valueobjects"
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

// RoleDirectory answers role membership from the access control registry.
type RoleDirectory interface {
	RolesOf(ctx context.Context, principal valueobjects.Address) ([]entities.Role, error)
}

// AddressDeriver computes the deterministic address of the election with
// the given factory sequence number.
type AddressDeriver interface {
	ElectionAddress(electionID uint64) (valueobjects.Address, error)
}

// EventEnvelope reuses the canonical cross-runtime envelope contract.
type EventEnvelope = contractsv1.Envelope

// FactoryTx allocates election ids and registers new elections. Factory
// transactions are serialized against each other.
type FactoryTx interface {
	NextElectionID(ctx context.Context) (uint64, error)
	CreateElection(ctx context.Context, election entities.Election) error
	AppendOutbox(ctx context.Context, envelope EventEnvelope) error
}

// ElectionTx is an exclusive unit of work over one election. Nothing it
// writes is observable until the enclosing call commits.
type ElectionTx interface {
	LoadElection(ctx context.Context) (entities.Election, error)
	VoterRecord(ctx context.Context, voter valueobjects.Address) (entities.VoterRecord, error)
	SaveElection(ctx context.Context, election entities.Election) error
	SaveVoterRecord(ctx context.Context, record entities.VoterRecord) error
	AppendOutbox(ctx context.Context, envelope EventEnvelope) error
}

// Repository is the election store. Reads return the last committed snapshot.
type Repository interface {
	WithinFactory(ctx context.Context, fn func(tx FactoryTx) error) error
	WithinElection(ctx context.Context, address valueobjects.Address, fn func(tx ElectionTx) error) error
	GetElection(ctx context.Context, address valueobjects.Address) (entities.Election, error)
	ListElections(ctx context.Context) ([]entities.Election, error)
	CountElections(ctx context.Context) (int, error)
	GetVoterRecord(ctx context.Context, address valueobjects.Address, voter valueobjects.Address) (entities.VoterRecord, error)
}

// IdempotencyRecord stores request hash and previous response payload.
type IdempotencyRecord struct {
	Key             string
	Operation       string
	RequestHash     string
	ResponsePayload []byte
	ExpiresAt       time.Time
}

// IdempotencyStore guarantees replay/conflict behavior for keyed commands.
type IdempotencyStore interface {
	GetRecord(ctx context.Context, key string, now time.Time) (IdempotencyRecord, bool, error)
	PutRecord(ctx context.Context, record IdempotencyRecord) error
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
