package events

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/JhonLaurens/Medicion-del-Servicio-sub002/internal/ports"
)

// OutboxOptions tunes the relay. EventTypes limits it to the types the
// publisher routes; empty relays everything. Published records older than
// Retention are purged once per retention tick; zero keeps them.
type OutboxOptions struct {
	EventTypes []string
	Interval   time.Duration
	BatchSize  int
	Retention  time.Duration
}

type OutboxWorker struct {
	logger    *slog.Logger
	outbox    ports.OutboxRepository
	publisher ports.EventPublisher
	opts      OutboxOptions
}

func NewOutboxWorker(logger *slog.Logger, outbox ports.OutboxRepository, publisher ports.EventPublisher, opts OutboxOptions) *OutboxWorker {
	if opts.Interval <= 0 {
		opts.Interval = 2 * time.Second
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 100
	}
	return &OutboxWorker{logger: logger, outbox: outbox, publisher: publisher, opts: opts}
}

func (w *OutboxWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.opts.Interval)
	defer ticker.Stop()
	var purge <-chan time.Time
	if w.opts.Retention > 0 {
		purgeTicker := time.NewTicker(w.opts.Retention)
		defer purgeTicker.Stop()
		purge = purgeTicker.C
	}
	for {
		if _, err := w.processOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
			w.logger.ErrorContext(ctx, "outbox iteration failed",
				"module", "events.outbox_worker",
				"layer", "adapter",
				"operation", "process_once",
				"outcome", "failure",
				"error", err,
			)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-purge:
			w.purgePublished(ctx, now.UTC())
		case <-ticker.C:
		}
	}
}

func (w *OutboxWorker) purgePublished(ctx context.Context, now time.Time) {
	purged, err := w.outbox.PurgePublished(ctx, now.Add(-w.opts.Retention))
	if err != nil {
		w.logger.WarnContext(ctx, "outbox purge failed",
			"module", "events.outbox_worker",
			"layer", "adapter",
			"operation", "purge",
			"outcome", "failure",
			"error", err,
		)
		return
	}
	w.logger.DebugContext(ctx, "outbox purged",
		"module", "events.outbox_worker",
		"operation", "purge",
		"purged", purged,
	)
}

// processOnce publishes one batch and returns how many records went out.
func (w *OutboxWorker) processOnce(ctx context.Context) (int, error) {
	records, err := w.outbox.FetchUnpublished(ctx, w.opts.BatchSize, w.opts.EventTypes...)
	if err != nil {
		return 0, err
	}
	published := 0
	now := time.Now().UTC()
	for _, rec := range records {
		if err := w.publisher.Publish(ctx, rec.EventType, rec.Payload, rec.PartitionKey); err != nil {
			w.logger.WarnContext(ctx, "outbox publish failed",
				"module", "events.outbox_worker",
				"operation", "publish",
				"event_type", rec.EventType,
				"retry_count", rec.RetryCount,
				"error", err,
			)
			_ = w.outbox.MarkFailed(ctx, rec.OutboxID, err.Error(), now)
			continue
		}
		if err := w.outbox.MarkPublished(ctx, rec.OutboxID, now); err != nil {
			return published, err
		}
		published++
	}
	return published, nil
}
