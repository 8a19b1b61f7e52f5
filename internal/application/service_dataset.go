package application

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"slices"
	"strings"

	"github.com/JhonLaurens/Medicion-del-Servicio-sub002/internal/contracts"
	"github.com/JhonLaurens/Medicion-del-Servicio-sub002/internal/domain"
	"github.com/JhonLaurens/Medicion-del-Servicio-sub002/internal/ports"
	"github.com/google/uuid"
)

const datasetSurvey = "survey"

// LoadDataset fetches the survey export and the executive roster, replaces
// the current snapshots and announces the new version. A roster that cannot
// be fetched or stored keeps the previous one. Caller supplied locations must
// pass allowedLocations.
func (s *Service) LoadDataset(ctx context.Context, input LoadInput) (DatasetStatus, error) {
	if err := s.allowedLocations(input.Locations); err != nil {
		return DatasetStatus{}, err
	}
	s.loadMu.Lock()
	defer s.loadMu.Unlock()
	return s.loadLocked(ctx, input)
}

func (s *Service) loadLocked(ctx context.Context, input LoadInput) (DatasetStatus, error) {
	if s.source == nil || s.datasets == nil {
		return DatasetStatus{}, fmt.Errorf("%w: survey source not configured", domain.ErrSourceUnavailable)
	}
	locations := mergeLocations(input.Locations, s.cfg.SurveyLocations)
	table, err := s.source.FetchTable(ctx, locations)
	if err != nil {
		return DatasetStatus{}, err
	}
	dataset, err := s.buildSurveyDataset(table)
	if err != nil {
		return DatasetStatus{}, err
	}

	var roster *domain.ExecutiveDataset
	if len(s.cfg.ExecutiveLocations) > 0 {
		fetched, rosterErr := s.fetchExecutives(ctx)
		if rosterErr != nil {
			dataset.Warnings = append(dataset.Warnings, "executive roster not refreshed: "+rosterErr.Error())
		} else {
			roster = &fetched
		}
	}

	previous, previousErr := s.datasets.SurveyInfo(ctx)
	if err := s.datasets.SaveSurvey(ctx, dataset); err != nil {
		return DatasetStatus{}, err
	}
	if previousErr == nil {
		s.purgeAggregates(ctx, previous.Version)
	}
	if roster != nil {
		if err := s.datasets.SaveExecutives(ctx, *roster); err != nil {
			s.logger.Warn("executive roster not stored",
				"module", "application", "layer", "service", "operation", "load_dataset",
				"outcome", "failure", "error", err.Error())
		}
	}

	status, err := s.datasetStatus(ctx, datasetInfo(dataset))
	if err != nil {
		return DatasetStatus{}, err
	}
	if err := s.enqueueDatasetLoaded(ctx, status, input.TraceID); err != nil {
		return DatasetStatus{}, err
	}
	return status, nil
}

// allowedLocations accepts configured locations, relative paths that stay
// inside the data directory and http(s) URLs on an allowed host.
func (s *Service) allowedLocations(requested []string) error {
	for _, raw := range requested {
		location := strings.TrimSpace(raw)
		if location == "" || slices.Contains(s.cfg.SurveyLocations, location) {
			continue
		}
		if !s.locationAllowed(location) {
			return fmt.Errorf("%w: location %q is not allowed", domain.ErrInvalidInput, location)
		}
	}
	return nil
}

func (s *Service) locationAllowed(location string) bool {
	if strings.Contains(location, "://") {
		parsed, err := url.Parse(location)
		if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
			return false
		}
		host := parsed.Hostname()
		return slices.ContainsFunc(s.cfg.AllowedHosts, func(allowed string) bool {
			return strings.EqualFold(strings.TrimSpace(allowed), host)
		})
	}
	if filepath.IsAbs(location) || strings.HasPrefix(location, "/") || strings.HasPrefix(location, `\`) {
		return false
	}
	cleaned := filepath.ToSlash(filepath.Clean(location))
	return cleaned != ".." && !strings.HasPrefix(cleaned, "../")
}

func (s *Service) buildSurveyDataset(table ports.Table) (domain.SurveyDataset, error) {
	records := make([]domain.SatisfactionRecord, 0, len(table.Rows))
	for _, row := range table.Rows {
		if !domain.IsValidRow(row) {
			continue
		}
		records = append(records, domain.BuildRecord(row))
	}
	if len(records) == 0 {
		return domain.SurveyDataset{}, domain.ErrNoValidRecords
	}
	return domain.SurveyDataset{
		Version:   uuid.NewString(),
		Source:    table.Source,
		LoadedAt:  s.nowFn(),
		TotalRows: table.TotalRows,
		ValidRows: len(records),
		Warnings:  append([]string(nil), table.Warnings...),
		Records:   records,
	}, nil
}

func (s *Service) fetchExecutives(ctx context.Context) (domain.ExecutiveDataset, error) {
	table, err := s.source.FetchTable(ctx, s.cfg.ExecutiveLocations)
	if err != nil {
		return domain.ExecutiveDataset{}, err
	}
	executives := make([]domain.ExecutiveToAnalyze, 0, len(table.Rows))
	for _, row := range table.Rows {
		if entry, ok := domain.BuildExecutive(row); ok {
			executives = append(executives, entry)
		}
	}
	return domain.ExecutiveDataset{
		Version:    uuid.NewString(),
		Source:     table.Source,
		LoadedAt:   s.nowFn(),
		TotalRows:  table.TotalRows,
		Executives: executives,
	}, nil
}

func (s *Service) GetDatasetStatus(ctx context.Context) (DatasetStatus, error) {
	if s.datasets == nil {
		return DatasetStatus{Loaded: false}, nil
	}
	info, err := s.datasets.SurveyInfo(ctx)
	if errors.Is(err, domain.ErrDatasetNotLoaded) {
		return DatasetStatus{Loaded: false}, nil
	}
	if err != nil {
		return DatasetStatus{}, err
	}
	return s.datasetStatus(ctx, info)
}

func (s *Service) datasetStatus(ctx context.Context, info domain.DatasetInfo) (DatasetStatus, error) {
	loadedAt := info.LoadedAt
	status := DatasetStatus{
		Loaded:    true,
		Version:   info.Version,
		Source:    info.Source,
		LoadedAt:  &loadedAt,
		TotalRows: info.TotalRows,
		ValidRows: info.ValidRows,
		Warnings:  info.Warnings,
	}
	roster, err := s.datasets.ExecutivesInfo(ctx)
	switch {
	case errors.Is(err, domain.ErrDatasetNotLoaded):
	case err != nil:
		return DatasetStatus{}, err
	default:
		status.ExecutivesLoaded = true
		status.ExecutivesSource = roster.Source
		status.Executives = roster.ValidRows
	}
	return status, nil
}

func datasetInfo(dataset domain.SurveyDataset) domain.DatasetInfo {
	return domain.DatasetInfo{
		Version:   dataset.Version,
		Source:    dataset.Source,
		LoadedAt:  dataset.LoadedAt,
		TotalRows: dataset.TotalRows,
		ValidRows: dataset.ValidRows,
		Warnings:  dataset.Warnings,
	}
}

// currentSurvey returns the loaded snapshot, loading it first when AutoLoad
// is set and nothing was loaded yet.
func (s *Service) currentSurvey(ctx context.Context) (domain.SurveyDataset, error) {
	if s.datasets == nil {
		return domain.SurveyDataset{}, domain.ErrDatasetNotLoaded
	}
	dataset, err := s.datasets.CurrentSurvey(ctx)
	if err == nil || !errors.Is(err, domain.ErrDatasetNotLoaded) || !s.cfg.AutoLoad {
		return dataset, err
	}
	s.loadMu.Lock()
	defer s.loadMu.Unlock()
	if dataset, err := s.datasets.CurrentSurvey(ctx); err == nil {
		return dataset, nil
	}
	if _, err := s.loadLocked(ctx, LoadInput{Trigger: "lazy"}); err != nil {
		return domain.SurveyDataset{}, err
	}
	return s.datasets.CurrentSurvey(ctx)
}

// currentRoster returns nil when no roster was loaded. The roster is loaded
// together with the survey, so it shares the survey's lazy load.
func (s *Service) currentRoster(ctx context.Context) (*domain.ExecutiveRoster, error) {
	if _, err := s.currentSurvey(ctx); err != nil {
		return nil, err
	}
	dataset, err := s.datasets.CurrentExecutives(ctx)
	if errors.Is(err, domain.ErrDatasetNotLoaded) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	roster := domain.NewExecutiveRoster(dataset.Executives)
	return &roster, nil
}

func (s *Service) ListRecords(ctx context.Context, query RecordQuery) (RecordPage, error) {
	if query.Offset < 0 || query.Limit < 0 {
		return RecordPage{}, domain.ErrInvalidInput
	}
	dataset, err := s.currentSurvey(ctx)
	if err != nil {
		return RecordPage{}, err
	}
	matched, err := matchRecords(dataset.Records, query)
	if err != nil {
		return RecordPage{}, err
	}
	limit := query.Limit
	if limit == 0 || limit > s.cfg.MaxPageSize {
		limit = s.cfg.MaxPageSize
	}
	page := RecordPage{Total: len(matched), Limit: limit, Offset: query.Offset, Records: []domain.SatisfactionRecord{}}
	if query.Offset < len(matched) {
		end := query.Offset + limit
		if end > len(matched) {
			end = len(matched)
		}
		page.Records = make([]domain.SatisfactionRecord, 0, end-query.Offset)
		for _, record := range matched[query.Offset:end] {
			page.Records = append(page.Records, domain.RedactContact(record))
		}
	}
	return page, nil
}

// matchRecords applies the segment, city and agency filters of query.
// Paging fields are ignored.
func matchRecords(records []domain.SatisfactionRecord, query RecordQuery) ([]domain.SatisfactionRecord, error) {
	segment, filterSegment, err := domain.ParseSegment(query.Segment)
	if err != nil {
		return nil, err
	}
	ciudad := strings.TrimSpace(query.Ciudad)
	agencia := strings.TrimSpace(query.Agencia)

	matched := make([]domain.SatisfactionRecord, 0, len(records))
	for _, record := range records {
		if filterSegment && record.Segmento != segment {
			continue
		}
		if ciudad != "" && !strings.EqualFold(record.Ciudad, ciudad) {
			continue
		}
		if agencia != "" && !strings.EqualFold(record.Agencia, agencia) {
			continue
		}
		matched = append(matched, record)
	}
	return matched, nil
}

func (s *Service) enqueueDatasetLoaded(ctx context.Context, status DatasetStatus, traceID string) error {
	if s.outbox == nil {
		return nil
	}
	payload := contracts.DatasetLoadedPayload{
		Dataset:    datasetSurvey,
		Version:    status.Version,
		Source:     status.Source,
		TotalRows:  status.TotalRows,
		ValidRows:  status.ValidRows,
		Executives: status.Executives,
	}
	if status.LoadedAt != nil {
		payload.LoadedAt = *status.LoadedAt
	}
	return s.enqueueEvent(ctx, domain.EventDatasetLoaded, datasetSurvey, traceID, payload)
}

func mergeLocations(preferred, fallback []string) []string {
	out := make([]string, 0, len(preferred)+len(fallback))
	seen := map[string]struct{}{}
	for _, list := range [][]string{preferred, fallback} {
		for _, location := range list {
			location = strings.TrimSpace(location)
			if location == "" {
				continue
			}
			if _, ok := seen[location]; ok {
				continue
			}
			seen[location] = struct{}{}
			out = append(out, location)
		}
	}
	return out
}
