package messaging

import (
	"context"
	"log/slog"
	"sync"
	"time"

	contractsv1 "ledgervote/contracts/gen/events/v1"
)

const (
	defaultRetryBase = 50 * time.Millisecond
	defaultRetryMax  = 5 * time.Second
)

type subscriber struct {
	group string
	ch    chan contractsv1.Envelope
}

// Kafka is the event bus used by the outbox relays and the mirror projector.
// Delivery is in-process and keyed by topic; each subscription consumes its
// topic in publish order on its own goroutine. A handler error is retried
// with capped exponential backoff until the handler succeeds or the
// subscription context ends, so a failed event is never skipped.
type Kafka struct {
	mu          sync.RWMutex
	brokers     []string
	subscribers map[string][]subscriber
	logger      *slog.Logger
	retryBase   time.Duration
	retryMax    time.Duration
}

func NewKafka(brokers []string, logger *slog.Logger) (*Kafka, error) {
	return &Kafka{
		brokers:     append([]string(nil), brokers...),
		subscribers: make(map[string][]subscriber),
		logger:      logger,
		retryBase:   defaultRetryBase,
		retryMax:    defaultRetryMax,
	}, nil
}

// Publish hands the event to every subscription of topic. It blocks while a
// subscription buffer is full so relayed rows are never dropped.
func (k *Kafka) Publish(ctx context.Context, topic string, event contractsv1.Envelope) error {
	k.mu.RLock()
	subs := append([]subscriber(nil), k.subscribers[topic]...)
	k.mu.RUnlock()

	for _, sub := range subs {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case sub.ch <- event:
		}
	}

	if k.logger != nil {
		k.logger.Debug("event published",
			"event", "kafka_publish",
			"module", "internal/platform/messaging",
			"layer", "platform",
			"topic", topic,
			"event_id", event.EventID,
			"event_type", event.EventType,
			"partition_key", event.PartitionKey,
			"subscribers", len(subs),
		)
	}
	return nil
}

func (k *Kafka) Subscribe(
	ctx context.Context,
	topic string,
	consumerGroup string,
	handler func(context.Context, contractsv1.Envelope) error,
) error {
	sub := subscriber{group: consumerGroup, ch: make(chan contractsv1.Envelope, 128)}

	k.mu.Lock()
	k.subscribers[topic] = append(k.subscribers[topic], sub)
	k.mu.Unlock()

	go func() {
		defer k.removeSubscriber(topic, sub.ch)
		for {
			select {
			case <-ctx.Done():
				return
			case event := <-sub.ch:
				if !k.deliver(ctx, topic, consumerGroup, event, handler) {
					return
				}
			}
		}
	}()
	return nil
}

// deliver runs handler until it succeeds. It returns false when ctx ends
// first.
func (k *Kafka) deliver(
	ctx context.Context,
	topic string,
	consumerGroup string,
	event contractsv1.Envelope,
	handler func(context.Context, contractsv1.Envelope) error,
) bool {
	backoff := k.retryBase
	for attempt := 1; ; attempt++ {
		err := handler(ctx, event)
		if err == nil {
			return true
		}
		if ctx.Err() != nil {
			return false
		}
		if k.logger != nil {
			k.logger.Warn("consumer handler failed, retrying",
				"event", "kafka_consume_retry",
				"module", "internal/platform/messaging",
				"layer", "platform",
				"topic", topic,
				"consumer_group", consumerGroup,
				"event_id", event.EventID,
				"event_type", event.EventType,
				"attempt", attempt,
				"backoff", backoff.String(),
				"error", err.Error(),
			)
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return false
		case <-timer.C:
		}
		backoff *= 2
		if backoff > k.retryMax {
			backoff = k.retryMax
		}
	}
}

func (k *Kafka) removeSubscriber(topic string, target chan contractsv1.Envelope) {
	k.mu.Lock()
	defer k.mu.Unlock()

	items := k.subscribers[topic]
	if len(items) == 0 {
		return
	}
	filtered := make([]subscriber, 0, len(items))
	for _, item := range items {
		if item.ch != target {
			filtered = append(filtered, item)
		}
	}
	k.subscribers[topic] = filtered
}
