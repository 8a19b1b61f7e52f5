package application

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/JhonLaurens/Medicion-del-Servicio-sub002/internal/contracts"
	"github.com/JhonLaurens/Medicion-del-Servicio-sub002/internal/domain"
	"github.com/google/uuid"
)

// RequestExport renders a report into a downloadable file. A repeated
// Idempotency-Key with the same payload returns the original job.
func (s *Service) RequestExport(ctx context.Context, actor Actor, input ExportInput) (domain.ExportJob, error) {
	if strings.TrimSpace(actor.SubjectID) == "" {
		return domain.ExportJob{}, domain.ErrUnauthorized
	}
	if strings.TrimSpace(actor.IdempotencyKey) == "" {
		return domain.ExportJob{}, domain.ErrIdempotencyRequired
	}
	if s.encoder == nil || s.exports == nil || s.idempotency == nil {
		return domain.ExportJob{}, fmt.Errorf("%w: exports disabled", domain.ErrNotFound)
	}
	input.ReportType = domain.NormalizeReportType(input.ReportType)
	if err := domain.ValidateReportType(input.ReportType); err != nil {
		return domain.ExportJob{}, err
	}
	input.Format = domain.NormalizeExportFormat(input.Format)
	if err := domain.ValidateExportFormat(input.Format); err != nil {
		return domain.ExportJob{}, err
	}
	input.Filters = cloneFilters(input.Filters)

	now := s.nowFn()
	requestHash := hashPayload(input)
	existing, err := s.idempotency.Get(ctx, actor.IdempotencyKey, now)
	if err != nil {
		return domain.ExportJob{}, err
	}
	if existing != nil {
		if existing.RequestHash != requestHash {
			_ = s.publishDLQIdempotencyConflict(ctx, actor.IdempotencyKey, actor.RequestID)
			return domain.ExportJob{}, domain.ErrIdempotencyConflict
		}
		if len(existing.ResponseBody) == 0 {
			return domain.ExportJob{}, domain.ErrIdempotencyInProgress
		}
		var cached domain.ExportJob
		if err := json.Unmarshal(existing.ResponseBody, &cached); err != nil {
			return domain.ExportJob{}, err
		}
		return cached, nil
	}

	dataset, err := s.currentSurvey(ctx)
	if err != nil {
		return domain.ExportJob{}, err
	}
	table, err := s.reportTable(ctx, input)
	if err != nil {
		return domain.ExportJob{}, err
	}
	created, err := s.idempotency.Reserve(ctx, actor.IdempotencyKey, requestHash, now.Add(s.cfg.IdempotencyTTL))
	if err != nil {
		return domain.ExportJob{}, err
	}
	if !created {
		return domain.ExportJob{}, domain.ErrIdempotencyInProgress
	}

	job, err := s.runExport(ctx, actor, input, dataset.Version, table, now)
	if err != nil {
		if releaseErr := s.idempotency.Release(context.WithoutCancel(ctx), actor.IdempotencyKey); releaseErr != nil {
			s.logger.Warn("idempotency key release failed",
				"module", "application", "layer", "service", "operation", "request_export",
				"outcome", "failure", "idempotency_key", actor.IdempotencyKey, "error", releaseErr.Error())
		}
		return domain.ExportJob{}, err
	}
	return job, nil
}

// runExport does the work guarded by a reservation. Completing the key is the
// last step so any earlier failure leaves the key free to retry.
func (s *Service) runExport(ctx context.Context, actor Actor, input ExportInput, version string, table domain.ReportTable, now time.Time) (domain.ExportJob, error) {
	job := domain.ExportJob{
		ExportID:       uuid.NewString(),
		RequestedBy:    actor.SubjectID,
		ReportType:     input.ReportType,
		Format:         input.Format,
		Filters:        input.Filters,
		DatasetVersion: version,
		Status:         domain.ExportStatusQueued,
		FileName:       domain.ExportFileName(input.ReportType, input.Format, now),
		IdempotencyKey: actor.IdempotencyKey,
		CreatedAt:      now,
	}
	if err := s.exports.Create(ctx, job); err != nil {
		return domain.ExportJob{}, err
	}

	content, contentType, encodeErr := s.encoder.Encode(job.Format, table)
	if encodeErr != nil {
		job.Status = domain.ExportStatusFailed
		job.FailureReason = encodeErr.Error()
	} else {
		readyAt := s.nowFn()
		job.Status = domain.ExportStatusReady
		job.ReadyAt = &readyAt
		job.Content = content
		job.ContentType = contentType
		job.SizeBytes = len(content)
		job.DownloadURL = strings.TrimRight(s.cfg.ExportBaseURL, "/") + "/" + job.ExportID + "/download"
	}
	if err := s.exports.Update(ctx, job); err != nil {
		return domain.ExportJob{}, err
	}

	encoded, err := json.Marshal(job)
	if err != nil {
		return domain.ExportJob{}, err
	}
	if job.Status == domain.ExportStatusReady && s.outbox != nil {
		if err := s.enqueueEvent(ctx, domain.EventExportCompleted, job.ExportID, actor.RequestID, contracts.ExportCompletedPayload{
			ExportID:    job.ExportID,
			ReportType:  job.ReportType,
			Format:      job.Format,
			RequestedBy: job.RequestedBy,
			SizeBytes:   job.SizeBytes,
		}); err != nil {
			return domain.ExportJob{}, err
		}
	}
	if err := s.idempotency.Complete(ctx, actor.IdempotencyKey, 202, encoded, s.nowFn()); err != nil {
		return domain.ExportJob{}, err
	}
	return job, nil
}

func (s *Service) GetExport(ctx context.Context, actor Actor, exportID string) (domain.ExportJob, error) {
	if strings.TrimSpace(actor.SubjectID) == "" {
		return domain.ExportJob{}, domain.ErrUnauthorized
	}
	if s.exports == nil {
		return domain.ExportJob{}, domain.ErrNotFound
	}
	job, err := s.exports.GetByID(ctx, strings.TrimSpace(exportID))
	if err != nil {
		return domain.ExportJob{}, err
	}
	if normalizeRole(actor.Role) != "admin" && job.RequestedBy != actor.SubjectID {
		return domain.ExportJob{}, domain.ErrForbidden
	}
	return job, nil
}

// DownloadExport returns a ready job together with its file content.
func (s *Service) DownloadExport(ctx context.Context, actor Actor, exportID string) (domain.ExportJob, error) {
	job, err := s.GetExport(ctx, actor, exportID)
	if err != nil {
		return domain.ExportJob{}, err
	}
	if job.Status != domain.ExportStatusReady {
		return domain.ExportJob{}, fmt.Errorf("%w: export is %s", domain.ErrConflict, job.Status)
	}
	return job, nil
}

func (s *Service) reportTable(ctx context.Context, input ExportInput) (domain.ReportTable, error) {
	filters := input.Filters
	switch input.ReportType {
	case domain.ReportKPIs:
		kpis, err := s.GetKPIData(ctx)
		if err != nil {
			return domain.ReportTable{}, err
		}
		return domain.KPITable(kpis), nil
	case domain.ReportCities:
		cities, err := s.GetCityData(ctx)
		if err != nil {
			return domain.ReportTable{}, err
		}
		return domain.CityTable(cities), nil
	case domain.ReportManagers:
		rosterOnly, _ := strconv.ParseBool(filters["roster_only"])
		report, err := s.GetManagerReport(ctx, ManagerReportInput{
			Category:    filters["category"],
			FilterType:  filters["filter_type"],
			FilterValue: filters["filter_value"],
			RosterOnly:  rosterOnly,
		})
		if err != nil {
			return domain.ReportTable{}, err
		}
		return domain.ManagerTable(report), nil
	case domain.ReportFilterStats:
		filter, err := domain.ParseFilterType(filters["filter_type"])
		if err != nil {
			return domain.ReportTable{}, err
		}
		stats, err := s.GetFilterStats(ctx, string(filter))
		if err != nil {
			return domain.ReportTable{}, err
		}
		return domain.FilterStatsTable(filter, stats), nil
	case domain.ReportRecords:
		dataset, err := s.currentSurvey(ctx)
		if err != nil {
			return domain.ReportTable{}, err
		}
		records, err := matchRecords(dataset.Records, RecordQuery{
			Segment: filters["segment"],
			Ciudad:  filters["ciudad"],
			Agencia: filters["agencia"],
		})
		if err != nil {
			return domain.ReportTable{}, err
		}
		return domain.RecordsTable(records), nil
	case domain.ReportDepartments:
		departments, err := s.GetDepartmentPerformance(ctx)
		if err != nil {
			return domain.ReportTable{}, err
		}
		return domain.DepartmentTable(departments), nil
	default:
		return domain.ReportTable{}, domain.ErrInvalidInput
	}
}

func cloneFilters(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for key, value := range in {
		out[strings.ToLower(strings.TrimSpace(key))] = strings.TrimSpace(value)
	}
	return out
}

func (s *Service) publishDLQIdempotencyConflict(ctx context.Context, key, traceID string) error {
	if s.dlq == nil {
		return nil
	}
	now := time.Now().UTC()
	data, _ := json.Marshal(map[string]string{"source": "api", "idempotency_key": key})
	return s.dlq.PublishDLQ(ctx, contracts.DLQRecord{
		OriginalEvent: contracts.EventEnvelope{
			EventID:          uuid.NewString(),
			EventType:        "survey.idempotency.conflict",
			OccurredAt:       now,
			PartitionKeyPath: "envelope.source_service",
			PartitionKey:     s.cfg.ServiceName,
			SourceService:    s.cfg.ServiceName,
			TraceID:          traceID,
			SchemaVersion:    schemaVersion,
			Data:             data,
		},
		ErrorSummary: "idempotency key reused with mismatched payload",
		RetryCount:   1,
		FirstSeenAt:  now,
		LastErrorAt:  now,
		SourceTopic:  "api",
		TraceID:      traceID,
	})
}
