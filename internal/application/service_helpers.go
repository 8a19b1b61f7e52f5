package application

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/JhonLaurens/Medicion-del-Servicio-sub002/internal/contracts"
	"github.com/JhonLaurens/Medicion-del-Servicio-sub002/internal/domain"
	"github.com/JhonLaurens/Medicion-del-Servicio-sub002/internal/ports"
	"github.com/google/uuid"
)

const schemaVersion = "1.0"

func (s *Service) enqueueEvent(ctx context.Context, eventType, partitionKey, traceID string, data any) error {
	occurredAt := s.nowFn()
	encodedData, err := json.Marshal(data)
	if err != nil {
		return err
	}
	eventID := uuid.New()
	envelope := contracts.EventEnvelope{
		EventID:          eventID.String(),
		EventType:        eventType,
		OccurredAt:       occurredAt,
		PartitionKeyPath: domain.CanonicalPartitionKeyPath(eventType),
		PartitionKey:     partitionKey,
		SourceService:    s.cfg.ServiceName,
		TraceID:          traceID,
		SchemaVersion:    schemaVersion,
		Data:             encodedData,
	}
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	return s.outbox.Enqueue(ctx, ports.OutboxEvent{
		EventID:          eventID,
		EventType:        eventType,
		PartitionKey:     partitionKey,
		PartitionKeyPath: envelope.PartitionKeyPath,
		Payload:          payload,
		OccurredAt:       occurredAt,
		SchemaVersion:    schemaVersion,
		TraceID:          traceID,
	})
}

// cachedAggregate serves an aggregate from the cache keyed by dataset
// version. Cache failures fall back to computing the value.
func cachedAggregate[T any](ctx context.Context, s *Service, dataset domain.SurveyDataset, name string, compute func() T) T {
	if s.cache == nil {
		return compute()
	}
	key := aggregateKey(dataset.Version, name)
	raw, found, err := s.cache.Get(ctx, key)
	if err != nil {
		s.warnCache("get", key, err)
	}
	if err == nil && found {
		var cached T
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached
		}
	}
	value := compute()
	if encoded, err := json.Marshal(value); err == nil {
		if err := s.cache.Set(ctx, key, encoded, s.cfg.CacheTTL); err != nil {
			s.warnCache("set", key, err)
		}
	}
	return value
}

func aggregateKey(version, name string) string {
	return "aggregate:" + version + ":" + name
}

// aggregateNames lists every name passed to cachedAggregate.
func aggregateNames() []string {
	names := []string{"kpis", "cities", "departments", "segments"}
	for _, filter := range domain.FilterTypes {
		names = append(names, "filter_stats:"+string(filter))
	}
	return names
}

// purgeAggregates drops the cached aggregates of a replaced dataset version.
func (s *Service) purgeAggregates(ctx context.Context, version string) {
	if s.cache == nil || version == "" {
		return
	}
	names := aggregateNames()
	keys := make([]string, 0, len(names))
	for _, name := range names {
		keys = append(keys, aggregateKey(version, name))
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.warnCache("delete", aggregateKey(version, "*"), err)
	}
}

func (s *Service) warnCache(operation, key string, err error) {
	s.logger.Warn("aggregate cache "+operation+" failed",
		"module", "application", "layer", "service", "operation", "cache_"+operation,
		"outcome", "failure", "cache_key", key, "error", err.Error())
}

func hashPayload(value interface{}) string {
	blob, err := json.Marshal(value)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(blob)
	return hex.EncodeToString(sum[:])
}
