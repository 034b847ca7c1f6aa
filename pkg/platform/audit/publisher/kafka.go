// Package publisher ships audit outbox rows to Kafka. The outbox table is
// the durability boundary; Kafka is the distribution fabric for downstream
// compliance and SIEM consumers.
package publisher

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/twmb/franz-go/pkg/kgo"

	outbox "antygravity/pkg/platform/audit/store/postgres"
)

const (
	defaultBatchSize    = 100
	defaultPollInterval = 5 * time.Second
)

// KafkaPublisher periodically drains unpublished outbox rows into a Kafka
// topic, keyed by event category so consumers can partition by retention
// policy.
type KafkaPublisher struct {
	client   *kgo.Client
	store    *outbox.Store
	topic    string
	logger   *slog.Logger
	interval time.Duration
	batch    int
}

// Option configures a KafkaPublisher.
type Option func(*KafkaPublisher)

// WithPollInterval overrides how often the outbox is polled.
func WithPollInterval(d time.Duration) Option {
	return func(p *KafkaPublisher) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithBatchSize overrides the per-poll row limit.
func WithBatchSize(n int) Option {
	return func(p *KafkaPublisher) {
		if n > 0 {
			p.batch = n
		}
	}
}

// New connects to the brokers and returns a publisher. Returns nil when no
// brokers are configured (Kafka publishing disabled).
func New(brokers []string, topic string, store *outbox.Store, logger *slog.Logger, opts ...Option) (*KafkaPublisher, error) {
	if len(brokers) == 0 || store == nil {
		return nil, nil
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}

	p := &KafkaPublisher{
		client:   client,
		store:    store,
		topic:    topic,
		logger:   logger,
		interval: defaultPollInterval,
		batch:    defaultBatchSize,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Run polls the outbox until the context is cancelled.
func (p *KafkaPublisher) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	defer p.client.Close()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := p.publishPending(ctx); err != nil {
				p.logger.ErrorContext(ctx, "audit outbox publish failed", "error", err)
			}
		}
	}
}

func (p *KafkaPublisher) publishPending(ctx context.Context) error {
	rows, err := p.store.PendingBatch(ctx, p.batch)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}

	records := make([]*kgo.Record, len(rows))
	for i, row := range rows {
		records[i] = &kgo.Record{
			Topic: p.topic,
			Key:   []byte(row.Category),
			Value: row.Payload,
		}
	}

	// ProduceSync keeps ordering with the published_at stamp: rows are only
	// marked published after the broker acknowledged the whole batch.
	if err := p.client.ProduceSync(ctx, records...).FirstErr(); err != nil {
		return fmt.Errorf("produce audit batch: %w", err)
	}

	ids := make([]uuid.UUID, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}
	return p.store.MarkPublished(ctx, ids, time.Now().UTC())
}
