package commands

import (
	"context"
	"encoding/json"
	"time"

	"ledgervote/contexts/governance/access-control/ports"
	contractsv1 "ledgervote/contracts/gen/events/v1"
)

const sourceService = "access-control"

// newRoleEnvelope builds canonical envelopes for registry events. Role events
// are partitioned by subject so per-principal ordering is preserved.
func newRoleEnvelope(
	ctx context.Context,
	idGen ports.IDGenerator,
	eventType string,
	subject string,
	occurredAt time.Time,
	data any,
) (ports.EventEnvelope, error) {
	eventID, err := idGen.NewID(ctx)
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	return contractsv1.Envelope{
		EventID:          eventID,
		EventType:        eventType,
		OccurredAt:       occurredAt.UTC(),
		SourceService:    sourceService,
		TraceID:          eventID,
		SchemaVersion:    1,
		PartitionKeyPath: "subject",
		PartitionKey:     subject,
		Data:             payload,
	}, nil
}
