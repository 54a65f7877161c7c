package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"donorhub/pkg/platform/audit/store/postgres"
)

// Outbox is the store side of the relay.
type Outbox interface {
	FetchUnpublished(ctx context.Context, limit int) ([]postgres.OutboxEntry, error)
	MarkPublished(ctx context.Context, ids []uuid.UUID, at time.Time) error
}

// Producer delivers one outbox payload to the broker.
type Producer interface {
	Publish(ctx context.Context, key string, eventType string, payload []byte) error
}

// Relay moves outbox rows to Kafka. Delivery is at-least-once: a row is only
// marked after the broker acknowledged it.
type Relay struct {
	outbox    Outbox
	producer  Producer
	logger    *slog.Logger
	interval  time.Duration
	batchSize int
}

type Option func(*Relay)

func WithInterval(d time.Duration) Option {
	return func(r *Relay) {
		if d > 0 {
			r.interval = d
		}
	}
}

func WithBatchSize(n int) Option {
	return func(r *Relay) {
		if n > 0 {
			r.batchSize = n
		}
	}
}

func NewRelay(outbox Outbox, producer Producer, logger *slog.Logger, opts ...Option) *Relay {
	r := &Relay{
		outbox:    outbox,
		producer:  producer,
		logger:    logger,
		interval:  time.Second,
		batchSize: 100,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run polls until ctx is cancelled.
func (r *Relay) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		if _, err := r.RunOnce(ctx); err != nil && ctx.Err() == nil {
			r.logger.WarnContext(ctx, "outbox relay pass failed", "error", err)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// RunOnce publishes one batch and returns how many rows were delivered.
func (r *Relay) RunOnce(ctx context.Context) (int, error) {
	entries, err := r.outbox.FetchUnpublished(ctx, r.batchSize)
	if err != nil {
		return 0, err
	}
	delivered := make([]uuid.UUID, 0, len(entries))
	for _, e := range entries {
		if err := r.producer.Publish(ctx, e.AggregateID, e.EventType, e.Payload); err != nil {
			if markErr := r.outbox.MarkPublished(ctx, delivered, time.Now()); markErr != nil {
				return 0, markErr
			}
			return len(delivered), err
		}
		delivered = append(delivered, e.ID)
	}
	if err := r.outbox.MarkPublished(ctx, delivered, time.Now()); err != nil {
		return 0, err
	}
	return len(delivered), nil
}
