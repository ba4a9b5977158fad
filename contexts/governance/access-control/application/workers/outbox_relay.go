package workers

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	application "ledgervote/contexts/governance/access-control/application"
	"ledgervote/contexts/governance/access-control/ports"
)

// OutboxRelay publishes committed role events to the event bus.
type OutboxRelay struct {
	Outbox    ports.OutboxRepository
	Publisher ports.EventPublisher
	Clock     ports.Clock
	BatchSize int
	Logger    *slog.Logger
}

// RunOnce publishes a bounded batch of pending rows in commit order and marks
// each row only after the publish succeeds. It stops on the first failure so
// the next cycle retries from the same row.
func (r OutboxRelay) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(r.Logger)
	limit := r.BatchSize
	if limit <= 0 {
		limit = 100
	}

	pending, err := r.Outbox.ListPendingOutbox(ctx, limit)
	if err != nil {
		logger.Error("access control outbox list failed",
			"event", "access_control_outbox_list_failed",
			"module", "governance/access-control",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}
	if len(pending) == 0 {
		logger.Debug("access control outbox relay found no pending rows",
			"event", "access_control_outbox_relay_noop",
			"module", "governance/access-control",
			"layer", "worker",
			"batch_size", limit,
		)
		return nil
	}

	now := time.Now().UTC()
	if r.Clock != nil {
		now = r.Clock.Now().UTC()
	}

	for _, row := range pending {
		var event ports.EventEnvelope
		if err := json.Unmarshal(row.Payload, &event); err != nil {
			logger.Error("access control outbox decode failed",
				"event", "access_control_outbox_decode_failed",
				"module", "governance/access-control",
				"layer", "worker",
				"outbox_id", row.OutboxID,
				"error", err.Error(),
			)
			return err
		}
		topic := event.EventType
		if topic == "" {
			topic = row.EventType
		}
		if err := r.Publisher.Publish(ctx, topic, event); err != nil {
			logger.Error("access control outbox publish failed",
				"event", "access_control_outbox_publish_failed",
				"module", "governance/access-control",
				"layer", "worker",
				"outbox_id", row.OutboxID,
				"event_type", event.EventType,
				"error", err.Error(),
			)
			return err
		}
		if err := r.Outbox.MarkOutboxPublished(ctx, row.OutboxID, now); err != nil {
			logger.Error("access control outbox mark published failed",
				"event", "access_control_outbox_mark_published_failed",
				"module", "governance/access-control",
				"layer", "worker",
				"outbox_id", row.OutboxID,
				"error", err.Error(),
			)
			return err
		}
	}

	logger.Info("access control outbox relay cycle completed",
		"event", "access_control_outbox_relay_completed",
		"module", "governance/access-control",
		"layer", "worker",
		"published_count", len(pending),
	)
	return nil
}
