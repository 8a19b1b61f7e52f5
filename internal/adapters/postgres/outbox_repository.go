package postgres

import (
	"context"
	"time"

	"github.com/JhonLaurens/Medicion-del-Servicio-sub002/internal/ports"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// outboxRepository holds dataset and export notifications until the outbox
// worker hands them to the broker.
type outboxRepository struct {
	db *gorm.DB
}

func (r *outboxRepository) Enqueue(ctx context.Context, event ports.OutboxEvent) error {
	return r.db.WithContext(ctx).Create(&outboxModel{
		OutboxID:         event.EventID,
		EventType:        event.EventType,
		PartitionKey:     event.PartitionKey,
		PartitionKeyPath: event.PartitionKeyPath,
		Payload:          string(event.Payload),
		SchemaVersion:    event.SchemaVersion,
		TraceID:          event.TraceID,
		CreatedAt:        event.OccurredAt,
		FirstSeenAt:      event.OccurredAt,
	}).Error
}

func (r *outboxRepository) FetchUnpublished(ctx context.Context, limit int, eventTypes ...string) ([]ports.OutboxRecord, error) {
	var rows []outboxModel
	if err := pendingQuery(r.db.WithContext(ctx), limit, eventTypes).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]ports.OutboxRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.record())
	}
	return out, nil
}

// MarkPublished and MarkFailed only touch rows still pending, so a record
// published by a concurrent worker keeps its first timestamp.
func (r *outboxRepository) MarkPublished(ctx context.Context, outboxID uuid.UUID, at time.Time) error {
	return pendingRow(r.db.WithContext(ctx), outboxID).Update("published_at", at).Error
}

func (r *outboxRepository) MarkFailed(ctx context.Context, outboxID uuid.UUID, errMsg string, at time.Time) error {
	return pendingRow(r.db.WithContext(ctx), outboxID).Updates(map[string]any{
		"retry_count":   gorm.Expr("retry_count + 1"),
		"last_error":    errMsg,
		"last_error_at": at,
	}).Error
}

func (r *outboxRepository) PurgePublished(ctx context.Context, before time.Time) (int64, error) {
	res := publishedBeforeQuery(r.db.WithContext(ctx), before).Delete(&outboxModel{})
	return res.RowsAffected, res.Error
}

func pendingQuery(db *gorm.DB, limit int, eventTypes []string) *gorm.DB {
	query := db.Where("published_at IS NULL")
	if len(eventTypes) > 0 {
		query = query.Where("event_type IN ?", eventTypes)
	}
	query = query.Order("created_at asc")
	if limit > 0 {
		query = query.Limit(limit)
	}
	return query
}

func pendingRow(db *gorm.DB, outboxID uuid.UUID) *gorm.DB {
	return db.Model(&outboxModel{}).Where("outbox_id = ? AND published_at IS NULL", outboxID)
}

func publishedBeforeQuery(db *gorm.DB, before time.Time) *gorm.DB {
	return db.Where("published_at IS NOT NULL AND published_at < ?", before)
}

func (m outboxModel) record() ports.OutboxRecord {
	return ports.OutboxRecord{
		OutboxID:     m.OutboxID,
		EventType:    m.EventType,
		PartitionKey: m.PartitionKey,
		Payload:      []byte(m.Payload),
		RetryCount:   m.RetryCount,
		PublishedAt:  m.PublishedAt,
		LastError:    m.LastError,
		LastErrorAt:  m.LastErrorAt,
		FirstSeenAt:  m.FirstSeenAt,
	}
}
