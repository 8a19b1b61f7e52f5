package ports

import (
	"context"
	"time"

	"github.com/JhonLaurens/Medicion-del-Servicio-sub002/internal/domain"
	"github.com/google/uuid"
)

// DatasetRepository keeps the current survey and roster snapshots. Current*
// and *Info return domain.ErrDatasetNotLoaded until a snapshot was saved.
// The *Info reads never decode rows.
type DatasetRepository interface {
	SaveSurvey(ctx context.Context, dataset domain.SurveyDataset) error
	CurrentSurvey(ctx context.Context) (domain.SurveyDataset, error)
	SurveyInfo(ctx context.Context) (domain.DatasetInfo, error)
	SaveExecutives(ctx context.Context, dataset domain.ExecutiveDataset) error
	CurrentExecutives(ctx context.Context) (domain.ExecutiveDataset, error)
	ExecutivesInfo(ctx context.Context) (domain.DatasetInfo, error)
}

type ExportRepository interface {
	Create(ctx context.Context, row domain.ExportJob) error
	Update(ctx context.Context, row domain.ExportJob) error
	GetByID(ctx context.Context, exportID string) (domain.ExportJob, error)
}

type IdempotencyRecord struct {
	Key          string
	RequestHash  string
	ResponseCode int
	ResponseBody []byte
	ExpiresAt    time.Time
}

// IdempotencyRepository guards export requests. Reserve reports false when an
// unexpired reservation for the same hash already exists. Release drops a
// reservation that was never completed.
type IdempotencyRepository interface {
	Get(ctx context.Context, key string, now time.Time) (*IdempotencyRecord, error)
	Reserve(ctx context.Context, key, requestHash string, expiresAt time.Time) (bool, error)
	Release(ctx context.Context, key string) error
	Complete(ctx context.Context, key string, responseCode int, responseBody []byte, at time.Time) error
}

type EventDedupRepository interface {
	IsDuplicate(ctx context.Context, eventID string, now time.Time) (bool, error)
	MarkProcessed(ctx context.Context, eventID, eventType string, expiresAt time.Time) error
	// PurgeExpired deletes marks whose retention ended at or before now.
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

type OutboxEvent struct {
	EventID          uuid.UUID
	EventType        string
	PartitionKey     string
	PartitionKeyPath string
	Payload          []byte
	OccurredAt       time.Time
	SchemaVersion    string
	TraceID          string
}

type OutboxRecord struct {
	OutboxID     uuid.UUID
	EventType    string
	PartitionKey string
	Payload      []byte
	RetryCount   int
	PublishedAt  *time.Time
	LastError    *string
	LastErrorAt  *time.Time
	FirstSeenAt  time.Time
}

type OutboxRepository interface {
	Enqueue(ctx context.Context, event OutboxEvent) error
	// FetchUnpublished returns pending records oldest first, limited to the
	// given event types when any are named.
	FetchUnpublished(ctx context.Context, limit int, eventTypes ...string) ([]OutboxRecord, error)
	MarkPublished(ctx context.Context, outboxID uuid.UUID, at time.Time) error
	MarkFailed(ctx context.Context, outboxID uuid.UUID, errMsg string, at time.Time) error
	PurgePublished(ctx context.Context, before time.Time) (int64, error)
}
