package application

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/JhonLaurens/Medicion-del-Servicio-sub002/internal/contracts"
	"github.com/JhonLaurens/Medicion-del-Servicio-sub002/internal/domain"
)

// HandleCanonicalEvent reloads the survey when an upload is announced.
// Events already processed are acknowledged without side effects.
func (s *Service) HandleCanonicalEvent(ctx context.Context, envelope contracts.EventEnvelope) error {
	if err := validateEnvelope(envelope); err != nil {
		return err
	}
	if !domain.IsSupportedInputEvent(envelope.EventType) {
		return domain.ErrUnsupportedEventType
	}
	if err := validatePartitionKeyInvariant(envelope, domain.CanonicalPartitionKeyPath(envelope.EventType)); err != nil {
		return err
	}
	if s.eventDedup == nil {
		return fmt.Errorf("%w: event dedup not configured", domain.ErrInvalidEnvelope)
	}

	now := s.nowFn()
	duplicate, err := s.eventDedup.IsDuplicate(ctx, envelope.EventID, now)
	if err != nil {
		return err
	}
	if duplicate {
		return nil
	}
	if err := s.applyEvent(ctx, envelope); err != nil {
		return err
	}
	return s.eventDedup.MarkProcessed(ctx, envelope.EventID, envelope.EventType, now.Add(s.cfg.EventDedupTTL))
}

func (s *Service) applyEvent(ctx context.Context, envelope contracts.EventEnvelope) error {
	switch envelope.EventType {
	case domain.EventDatasetUploaded:
		var payload contracts.DatasetUploadedPayload
		if err := json.Unmarshal(envelope.Data, &payload); err != nil {
			return fmt.Errorf("%w: decode dataset payload", domain.ErrInvalidEnvelope)
		}
		if payload.Dataset != datasetSurvey {
			return fmt.Errorf("%w: unknown dataset %q", domain.ErrInvalidEnvelope, payload.Dataset)
		}
		_, err := s.LoadDataset(ctx, LoadInput{
			Locations: payload.Locations,
			Trigger:   "event",
			TraceID:   envelope.TraceID,
		})
		return err
	default:
		return domain.ErrUnsupportedEventType
	}
}

// PurgeEventMarks drops dedup marks whose retention has ended.
func (s *Service) PurgeEventMarks(ctx context.Context) (int64, error) {
	if s.eventDedup == nil {
		return 0, nil
	}
	return s.eventDedup.PurgeExpired(ctx, s.nowFn())
}

func validateEnvelope(event contracts.EventEnvelope) error {
	if strings.TrimSpace(event.EventID) == "" {
		return domain.ErrInvalidEnvelope
	}
	if strings.TrimSpace(event.EventType) == "" {
		return domain.ErrInvalidEnvelope
	}
	if event.OccurredAt.IsZero() {
		return domain.ErrInvalidEnvelope
	}
	if strings.TrimSpace(event.SourceService) == "" {
		return domain.ErrInvalidEnvelope
	}
	if strings.TrimSpace(event.TraceID) == "" {
		return domain.ErrInvalidEnvelope
	}
	if strings.TrimSpace(event.SchemaVersion) == "" {
		return domain.ErrInvalidEnvelope
	}
	if len(event.Data) == 0 {
		return domain.ErrInvalidEnvelope
	}
	return nil
}

func validatePartitionKeyInvariant(event contracts.EventEnvelope, expectedPath string) error {
	if event.PartitionKeyPath != expectedPath || expectedPath == "" {
		return domain.ErrInvalidEnvelope
	}
	field := strings.TrimPrefix(event.PartitionKeyPath, "data.")
	var payload map[string]interface{}
	if err := json.Unmarshal(event.Data, &payload); err != nil {
		return domain.ErrInvalidEnvelope
	}
	value, ok := payload[field]
	if !ok || fmt.Sprint(value) != event.PartitionKey {
		return domain.ErrInvalidEnvelope
	}
	return nil
}
