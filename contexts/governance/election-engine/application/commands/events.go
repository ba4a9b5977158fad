package commands

import (
	"context"
	"encoding/json"
	"time"

	"ledgervote/contexts/governance/election-engine/domain/entities"
	"ledgervote/contexts/governance/election-engine/ports"
	contractsv1 "ledgervote/contracts/gen/events/v1"
)

const sourceService = "election-engine"

// newElectionEnvelope builds canonical envelopes for engine events. Events
// are partitioned by election address so per-election order is preserved.
func newElectionEnvelope(
	ctx context.Context,
	idGen ports.IDGenerator,
	eventType string,
	electionAddress string,
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
		PartitionKeyPath: "election_address",
		PartitionKey:     electionAddress,
		Data:             payload,
	}, nil
}

func electionRef(election entities.Election) contractsv1.ElectionRef {
	return contractsv1.ElectionRef{
		ElectionAddress: election.Address.String(),
		ElectionVersion: election.Version,
	}
}
