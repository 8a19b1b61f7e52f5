package memory

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/JhonLaurens/Medicion-del-Servicio-sub002/internal/domain"
	"github.com/JhonLaurens/Medicion-del-Servicio-sub002/internal/ports"
	"github.com/google/uuid"
)

type Repositories struct {
	Datasets    *DatasetRepository
	Exports     *ExportRepository
	Idempotency *IdempotencyRepository
	EventDedup  *EventDedupRepository
	Outbox      *OutboxRepository
}

func NewRepositories() *Repositories {
	return &Repositories{
		Datasets:    &DatasetRepository{},
		Exports:     &ExportRepository{records: map[string]domain.ExportJob{}},
		Idempotency: &IdempotencyRepository{records: map[string]ports.IdempotencyRecord{}},
		EventDedup:  &EventDedupRepository{records: map[string]dedupRecord{}},
		Outbox:      &OutboxRepository{records: map[uuid.UUID]ports.OutboxRecord{}},
	}
}

// DatasetRepository holds the current snapshots. Saved datasets are
// treated as immutable once stored.
type DatasetRepository struct {
	mu         sync.RWMutex
	survey     *domain.SurveyDataset
	executives *domain.ExecutiveDataset
}

func (r *DatasetRepository) SaveSurvey(_ context.Context, dataset domain.SurveyDataset) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.survey = &dataset
	return nil
}

func (r *DatasetRepository) CurrentSurvey(_ context.Context) (domain.SurveyDataset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.survey == nil {
		return domain.SurveyDataset{}, domain.ErrDatasetNotLoaded
	}
	return *r.survey, nil
}

func (r *DatasetRepository) SurveyInfo(_ context.Context) (domain.DatasetInfo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.survey == nil {
		return domain.DatasetInfo{}, domain.ErrDatasetNotLoaded
	}
	return domain.DatasetInfo{
		Version:   r.survey.Version,
		Source:    r.survey.Source,
		LoadedAt:  r.survey.LoadedAt,
		TotalRows: r.survey.TotalRows,
		ValidRows: r.survey.ValidRows,
		Warnings:  r.survey.Warnings,
	}, nil
}

func (r *DatasetRepository) SaveExecutives(_ context.Context, dataset domain.ExecutiveDataset) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.executives = &dataset
	return nil
}

func (r *DatasetRepository) CurrentExecutives(_ context.Context) (domain.ExecutiveDataset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.executives == nil {
		return domain.ExecutiveDataset{}, domain.ErrDatasetNotLoaded
	}
	return *r.executives, nil
}

func (r *DatasetRepository) ExecutivesInfo(_ context.Context) (domain.DatasetInfo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.executives == nil {
		return domain.DatasetInfo{}, domain.ErrDatasetNotLoaded
	}
	return domain.DatasetInfo{
		Version:   r.executives.Version,
		Source:    r.executives.Source,
		LoadedAt:  r.executives.LoadedAt,
		TotalRows: r.executives.TotalRows,
		ValidRows: len(r.executives.Executives),
	}, nil
}

type ExportRepository struct {
	mu      sync.RWMutex
	records map[string]domain.ExportJob
}

func (r *ExportRepository) Create(_ context.Context, row domain.ExportJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[row.ExportID]; ok {
		return domain.ErrConflict
	}
	row.Content = slices.Clone(row.Content)
	r.records[row.ExportID] = row
	return nil
}

func (r *ExportRepository) Update(_ context.Context, row domain.ExportJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[row.ExportID]; !ok {
		return domain.ErrNotFound
	}
	row.Content = slices.Clone(row.Content)
	r.records[row.ExportID] = row
	return nil
}

func (r *ExportRepository) GetByID(_ context.Context, exportID string) (domain.ExportJob, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	row, ok := r.records[exportID]
	if !ok {
		return domain.ExportJob{}, domain.ErrNotFound
	}
	return row, nil
}

type IdempotencyRepository struct {
	mu      sync.Mutex
	records map[string]ports.IdempotencyRecord
}

func (r *IdempotencyRepository) Get(_ context.Context, key string, now time.Time) (*ports.IdempotencyRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[key]
	if !ok {
		return nil, nil
	}
	if now.After(rec.ExpiresAt) {
		delete(r.records, key)
		return nil, nil
	}
	clone := rec
	return &clone, nil
}

func (r *IdempotencyRepository) Reserve(_ context.Context, key, requestHash string, expiresAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.records[key]; ok && time.Now().UTC().Before(existing.ExpiresAt) {
		if existing.RequestHash != requestHash {
			return false, domain.ErrIdempotencyConflict
		}
		return false, nil
	}
	r.records[key] = ports.IdempotencyRecord{Key: key, RequestHash: requestHash, ExpiresAt: expiresAt}
	return true, nil
}

// Release keeps completed records; only a pending reservation is removed.
func (r *IdempotencyRepository) Release(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec, ok := r.records[key]; ok && rec.ResponseBody == nil {
		delete(r.records, key)
	}
	return nil
}

func (r *IdempotencyRepository) Complete(_ context.Context, key string, responseCode int, responseBody []byte, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[key]
	if !ok {
		return domain.ErrNotFound
	}
	rec.ResponseCode = responseCode
	rec.ResponseBody = slices.Clone(responseBody)
	if at.After(rec.ExpiresAt) {
		rec.ExpiresAt = at.Add(7 * 24 * time.Hour)
	}
	r.records[key] = rec
	return nil
}

type dedupRecord struct {
	EventType string
	ExpiresAt time.Time
}

type EventDedupRepository struct {
	mu      sync.Mutex
	records map[string]dedupRecord
}

func (r *EventDedupRepository) IsDuplicate(_ context.Context, eventID string, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[eventID]
	if !ok {
		return false, nil
	}
	if !rec.ExpiresAt.After(now) {
		delete(r.records, eventID)
		return false, nil
	}
	return true, nil
}

func (r *EventDedupRepository) MarkProcessed(_ context.Context, eventID, eventType string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[eventID] = dedupRecord{EventType: eventType, ExpiresAt: expiresAt}
	return nil
}

func (r *EventDedupRepository) PurgeExpired(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var purged int64
	for id, rec := range r.records {
		if !rec.ExpiresAt.After(now) {
			delete(r.records, id)
			purged++
		}
	}
	return purged, nil
}

// Marks is the number of retained marks, expired or not.
func (r *EventDedupRepository) Marks() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

type OutboxRepository struct {
	mu      sync.Mutex
	records map[uuid.UUID]ports.OutboxRecord
}

func (r *OutboxRepository) Enqueue(_ context.Context, event ports.OutboxEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := event.EventID
	if id == uuid.Nil {
		id = uuid.New()
	}
	r.records[id] = ports.OutboxRecord{
		OutboxID:     id,
		EventType:    event.EventType,
		PartitionKey: event.PartitionKey,
		Payload:      slices.Clone(event.Payload),
		FirstSeenAt:  event.OccurredAt,
	}
	return nil
}

func (r *OutboxRepository) FetchUnpublished(_ context.Context, limit int, eventTypes ...string) ([]ports.OutboxRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ports.OutboxRecord, 0, len(r.records))
	for _, rec := range r.records {
		if rec.PublishedAt != nil {
			continue
		}
		if len(eventTypes) > 0 && !slices.Contains(eventTypes, rec.EventType) {
			continue
		}
		out = append(out, rec)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].FirstSeenAt.Before(out[j].FirstSeenAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *OutboxRepository) MarkPublished(_ context.Context, outboxID uuid.UUID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[outboxID]
	if !ok {
		return domain.ErrNotFound
	}
	rec.PublishedAt = &at
	r.records[outboxID] = rec
	return nil
}

func (r *OutboxRepository) MarkFailed(_ context.Context, outboxID uuid.UUID, errMsg string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[outboxID]
	if !ok {
		return domain.ErrNotFound
	}
	rec.RetryCount++
	rec.LastError = &errMsg
	rec.LastErrorAt = &at
	r.records[outboxID] = rec
	return nil
}

func (r *OutboxRepository) PurgePublished(_ context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var purged int64
	for id, rec := range r.records {
		if rec.PublishedAt != nil && rec.PublishedAt.Before(before) {
			delete(r.records, id)
			purged++
		}
	}
	return purged, nil
}

// Len is the number of records held, published or not.
func (r *OutboxRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

// Pending is the number of records not yet published.
func (r *OutboxRepository) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, rec := range r.records {
		if rec.PublishedAt == nil {
			count++
		}
	}
	return count
}
