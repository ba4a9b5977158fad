package workers

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	application "ledgervote/contexts/governance/election-mirror/application"
	"ledgervote/contexts/governance/election-mirror/domain/entities"
	domainerrors "ledgervote/contexts/governance/election-mirror/domain/errors"
	"ledgervote/contexts/governance/election-mirror/ports"
	contractsv1 "ledgervote/contracts/gen/events/v1"
)

const defaultConsumerGroup = "election-mirror-cg"

// Projector keeps the read model in step with the core. It is an
// at-least-once consumer: every election event triggers a re-read of the
// committed snapshot, written only when its version is newer, and every role
// event re-reads the subject's roles.
type Projector struct {
	Subscriber    ports.EventSubscriber
	Dedup         ports.EventDedupStore
	Store         ports.ReadModelStore
	Elections     ports.ElectionSource
	Roles         ports.RoleSource
	Clock         ports.Clock
	ConsumerGroup string
	DedupTTL      time.Duration
	Disabled      bool
	Logger        *slog.Logger

	roleMu sync.Mutex
}

func (p *Projector) Start(ctx context.Context) error {
	logger := application.ResolveLogger(p.Logger)
	if p.Disabled {
		logger.Info("election mirror projector disabled by feature flag",
			"event", "election_mirror_projector_disabled",
			"module", "governance/election-mirror",
			"layer", "worker",
		)
		return nil
	}
	group := strings.TrimSpace(p.ConsumerGroup)
	if group == "" {
		group = defaultConsumerGroup
	}

	subscriptions := make(map[string]func(context.Context, ports.EventEnvelope) error)
	for _, topic := range contractsv1.ElectionEventTypes() {
		subscriptions[topic] = p.consume(p.HandleElectionEvent)
	}
	for _, topic := range contractsv1.AccessControlEventTypes() {
		subscriptions[topic] = p.consume(p.HandleRoleEvent)
	}
	for topic, handler := range subscriptions {
		if err := p.Subscriber.Subscribe(ctx, topic, group, handler); err != nil {
			logger.Error("election mirror subscribe failed",
				"event", "election_mirror_subscribe_failed",
				"module", "governance/election-mirror",
				"layer", "worker",
				"topic", topic,
				"consumer_group", group,
				"error", err.Error(),
			)
			return err
		}
	}
	logger.Info("election mirror projector subscriptions active",
		"event", "election_mirror_projector_started",
		"module", "governance/election-mirror",
		"layer", "worker",
		"consumer_group", group,
		"topics", len(subscriptions),
	)
	return nil
}

func (p *Projector) HandleElectionEvent(ctx context.Context, event ports.EventEnvelope) error {
	var ref contractsv1.ElectionRef
	if err := json.Unmarshal(event.Data, &ref); err != nil || strings.TrimSpace(ref.ElectionAddress) == "" {
		return p.rejectEvent(event, err)
	}
	return p.process(ctx, event, func() error {
		view, err := p.Elections.ElectionSnapshot(ctx, entities.NormalizeKey(ref.ElectionAddress))
		if err != nil {
			return err
		}
		view.Address = entities.NormalizeKey(view.Address)
		view.SyncedAt = p.now()
		applied, err := p.Store.UpsertElection(ctx, view)
		if err != nil {
			return err
		}
		application.ResolveLogger(p.Logger).Debug("election mirror view refreshed",
			"event", "election_mirror_election_refreshed",
			"module", "governance/election-mirror",
			"layer", "worker",
			"event_id", event.EventID,
			"election_address", view.Address,
			"event_version", ref.ElectionVersion,
			"snapshot_version", view.Version,
			"applied", applied,
		)
		return nil
	})
}

func (p *Projector) HandleRoleEvent(ctx context.Context, event ports.EventEnvelope) error {
	var payload struct {
		Subject string `json:"subject"`
	}
	if err := json.Unmarshal(event.Data, &payload); err != nil || strings.TrimSpace(payload.Subject) == "" {
		return p.rejectEvent(event, err)
	}
	principal := entities.NormalizeKey(payload.Subject)
	return p.process(ctx, event, func() error {
		p.roleMu.Lock()
		defer p.roleMu.Unlock()
		roles, err := p.Roles.RolesOf(ctx, principal)
		if err != nil {
			return err
		}
		return p.Store.UpsertPrincipalRoles(ctx, entities.PrincipalRoles{
			Principal: principal,
			Roles:     roles,
			SyncedAt:  p.now(),
		})
	})
}

// consume adapts a handler for the subscriber. Events that can never be
// applied are acknowledged so they do not stall their topic; every other
// error is returned and the event is redelivered.
func (p *Projector) consume(
	handler func(context.Context, ports.EventEnvelope) error,
) func(context.Context, ports.EventEnvelope) error {
	return func(ctx context.Context, event ports.EventEnvelope) error {
		err := handler(ctx, event)
		if errors.Is(err, domainerrors.ErrInvalidEvent) || errors.Is(err, domainerrors.ErrDedupConflict) {
			application.ResolveLogger(p.Logger).Error("election mirror event dropped",
				"event", "election_mirror_event_dropped",
				"module", "governance/election-mirror",
				"layer", "worker",
				"event_id", event.EventID,
				"event_type", event.EventType,
				"error", err.Error(),
			)
			return nil
		}
		return err
	}
}

// process runs apply once per event id. A failed apply releases the
// reservation so the next delivery is processed again.
func (p *Projector) process(ctx context.Context, event ports.EventEnvelope, apply func() error) error {
	logger := application.ResolveLogger(p.Logger)
	alreadyProcessed, err := p.Dedup.ReserveEvent(ctx, event.EventID, hashPayload(event.Data), p.now().Add(p.dedupTTL()))
	if err != nil {
		logger.Error("election mirror event dedupe failed",
			"event", "election_mirror_dedupe_failed",
			"module", "governance/election-mirror",
			"layer", "worker",
			"event_id", event.EventID,
			"event_type", event.EventType,
			"error", err.Error(),
		)
		return err
	}
	if alreadyProcessed {
		logger.Debug("election mirror replay skipped",
			"event", "election_mirror_event_replayed",
			"module", "governance/election-mirror",
			"layer", "worker",
			"event_id", event.EventID,
			"event_type", event.EventType,
		)
		return nil
	}

	if err := apply(); err != nil {
		logger.Error("election mirror projection failed",
			"event", "election_mirror_projection_failed",
			"module", "governance/election-mirror",
			"layer", "worker",
			"event_id", event.EventID,
			"event_type", event.EventType,
			"error", err.Error(),
		)
		if releaseErr := p.Dedup.ReleaseEvent(ctx, event.EventID); releaseErr != nil {
			logger.Error("election mirror dedupe release failed",
				"event", "election_mirror_dedupe_release_failed",
				"module", "governance/election-mirror",
				"layer", "worker",
				"event_id", event.EventID,
				"error", releaseErr.Error(),
			)
		}
		return err
	}
	logger.Info("election mirror event consumed",
		"event", "election_mirror_event_consumed",
		"module", "governance/election-mirror",
		"layer", "worker",
		"event_id", event.EventID,
		"event_type", event.EventType,
	)
	return nil
}

func (p *Projector) rejectEvent(event ports.EventEnvelope, cause error) error {
	attrs := []any{
		"event", "election_mirror_event_invalid",
		"module", "governance/election-mirror",
		"layer", "worker",
		"event_id", event.EventID,
		"event_type", event.EventType,
	}
	if cause != nil {
		attrs = append(attrs, "error", cause.Error())
	}
	application.ResolveLogger(p.Logger).Warn("election mirror event rejected", attrs...)
	return domainerrors.ErrInvalidEvent
}

func (p *Projector) now() time.Time {
	if p.Clock == nil {
		return time.Now().UTC()
	}
	return p.Clock.Now().UTC()
}

func (p *Projector) dedupTTL() time.Duration {
	if p.DedupTTL <= 0 {
		return 7 * 24 * time.Hour
	}
	return p.DedupTTL
}

func hashPayload(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}
