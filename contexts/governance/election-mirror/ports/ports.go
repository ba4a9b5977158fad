package ports

import (
	"context"
	"time"

	"ledgervote/contexts/governance/election-mirror/domain/entities"
	contractsv1 "ledgervote/contracts/gen/events/v1"
)

type Clock interface {
	Now() time.Time
}

type EventEnvelope = contractsv1.Envelope

// EventSubscriber delivers bus events at least once per consumer group.
type EventSubscriber interface {
	Subscribe(
		ctx context.Context,
		topic string,
		consumerGroup string,
		handler func(context.Context, EventEnvelope) error,
	) error
}

// EventDedupStore gates replays. ReserveEvent reports true when the event id
// was already reserved with the same payload hash. ReleaseEvent drops a
// reservation whose processing failed so redelivery is not skipped.
type EventDedupStore interface {
	ReserveEvent(ctx context.Context, eventID string, payloadHash string, expiresAt time.Time) (bool, error)
	ReleaseEvent(ctx context.Context, eventID string) error
}

// ElectionSource reads the committed election snapshot from the core.
type ElectionSource interface {
	ElectionSnapshot(ctx context.Context, address string) (entities.ElectionView, error)
}

// RoleSource reads a principal's current roles from the registry.
type RoleSource interface {
	RolesOf(ctx context.Context, principal string) ([]string, error)
}

// ReadModelStore persists mirrored views. UpsertElection applies the view
// only when it is newer than the stored one and reports whether it did.
type ReadModelStore interface {
	UpsertElection(ctx context.Context, view entities.ElectionView) (bool, error)
	GetElection(ctx context.Context, address string) (entities.ElectionView, error)
	ListElections(ctx context.Context) ([]entities.ElectionView, error)
	UpsertPrincipalRoles(ctx context.Context, roles entities.PrincipalRoles) error
	GetPrincipalRoles(ctx context.Context, principal string) (entities.PrincipalRoles, error)
}
