package events

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/JhonLaurens/Medicion-del-Servicio-sub002/internal/application"
	"github.com/JhonLaurens/Medicion-del-Servicio-sub002/internal/contracts"
	"github.com/JhonLaurens/Medicion-del-Servicio-sub002/internal/domain"
	"github.com/JhonLaurens/Medicion-del-Servicio-sub002/internal/ports"
)

// Message is one consumed record mapped onto its envelope. Err is set when
// the record could not be mapped; the worker dead-letters those.
type Message struct {
	Topic    string
	Key      string
	Envelope contracts.EventEnvelope
	Err      error
}

type Consumer interface {
	Poll(ctx context.Context, max int) ([]Message, error)
}

type ConsumerWorker struct {
	logger     *slog.Logger
	consumer   Consumer
	service    *application.Service
	dlq        ports.DLQPublisher
	interval   time.Duration
	purgeEvery time.Duration
}

func NewConsumerWorker(logger *slog.Logger, consumer Consumer, service *application.Service, dlq ports.DLQPublisher, interval, purgeEvery time.Duration) *ConsumerWorker {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	if purgeEvery <= 0 {
		purgeEvery = time.Hour
	}
	return &ConsumerWorker{
		logger: logger, consumer: consumer, service: service, dlq: dlq, interval: interval, purgeEvery: purgeEvery,
	}
}

func (w *ConsumerWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	purge := time.NewTicker(w.purgeEvery)
	defer purge.Stop()

	for {
		if err := w.processOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
			w.logger.ErrorContext(ctx, "consumer iteration failed",
				"module", "events.consumer_worker",
				"layer", "adapter",
				"operation", "process_once",
				"outcome", "failure",
				"error", err,
			)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-purge.C:
			w.purgeMarks(ctx)
		case <-ticker.C:
		}
	}
}

func (w *ConsumerWorker) purgeMarks(ctx context.Context) {
	purged, err := w.service.PurgeEventMarks(ctx)
	if err != nil {
		w.logger.WarnContext(ctx, "event mark purge failed",
			"module", "events.consumer_worker",
			"layer", "adapter",
			"operation", "purge_marks",
			"outcome", "failure",
			"error", err,
		)
		return
	}
	w.logger.DebugContext(ctx, "event marks purged",
		"module", "events.consumer_worker",
		"operation", "purge_marks",
		"purged", purged,
	)
}

func (w *ConsumerWorker) processOnce(ctx context.Context) error {
	msgs, err := w.consumer.Poll(ctx, 50)
	if err != nil {
		return err
	}
	for _, msg := range msgs {
		envelope := msg.Envelope
		if msg.Err != nil {
			w.deadLetter(ctx, msg.Topic, envelope, msg.Err)
			continue
		}
		err := w.service.HandleCanonicalEvent(ctx, envelope)
		switch {
		case err == nil:
		case errors.Is(err, domain.ErrUnsupportedEventType):
			w.logger.WarnContext(ctx, "unsupported event dropped",
				"module", "events.consumer_worker",
				"operation", "handle_event",
				"event_type", envelope.EventType,
				"event_id", envelope.EventID,
			)
		default:
			w.deadLetter(ctx, msg.Topic, envelope, err)
		}
	}
	return nil
}

func (w *ConsumerWorker) deadLetter(ctx context.Context, topic string, envelope contracts.EventEnvelope, cause error) {
	w.logger.ErrorContext(ctx, "event failed",
		"module", "events.consumer_worker",
		"layer", "adapter",
		"operation", "handle_event",
		"outcome", "failure",
		"topic", topic,
		"event_type", envelope.EventType,
		"event_id", envelope.EventID,
		"error", cause,
	)
	if w.dlq == nil {
		return
	}
	now := time.Now().UTC()
	_ = w.dlq.PublishDLQ(ctx, contracts.DLQRecord{
		OriginalEvent: envelope,
		ErrorSummary:  cause.Error(),
		RetryCount:    1,
		FirstSeenAt:   now,
		LastErrorAt:   now,
		SourceTopic:   topic,
		TraceID:       envelope.TraceID,
	})
}
