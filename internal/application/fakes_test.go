package application_test

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	eventsadapter "github.com/JhonLaurens/Medicion-del-Servicio-sub002/internal/adapters/events"
	"github.com/JhonLaurens/Medicion-del-Servicio-sub002/internal/adapters/memory"
	"github.com/JhonLaurens/Medicion-del-Servicio-sub002/internal/adapters/render"
	"github.com/JhonLaurens/Medicion-del-Servicio-sub002/internal/application"
	"github.com/JhonLaurens/Medicion-del-Servicio-sub002/internal/domain"
	"github.com/JhonLaurens/Medicion-del-Servicio-sub002/internal/ports"
)

const (
	surveyLocation    = "datos.csv"
	executiveLocation = "ejecutivos para analizar.csv"
)

// tableSource serves canned tables by location and counts fetches.
type tableSource struct {
	mu     sync.Mutex
	tables map[string]ports.Table
	calls  map[string]int
}

func newTableSource() *tableSource {
	return &tableSource{tables: map[string]ports.Table{}, calls: map[string]int{}}
}

func (s *tableSource) set(location string, table ports.Table) {
	s.mu.Lock()
	defer s.mu.Unlock()
	table.Source = location
	s.tables[location] = table
}

func (s *tableSource) remove(location string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tables, location)
}

func (s *tableSource) fetches(location string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[location]
}

func (s *tableSource) FetchTable(_ context.Context, locations []string) (ports.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, location := range locations {
		s.calls[location]++
		if table, ok := s.tables[location]; ok {
			return table, nil
		}
	}
	return ports.Table{}, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, locations)
}

type failingEncoder struct{}

func (failingEncoder) Encode(string, domain.ReportTable) ([]byte, string, error) {
	return nil, "", errors.New("disk full")
}

var errStorage = errors.New("storage unavailable")

// flakyExports fails the first failures calls to Create.
type flakyExports struct {
	*memory.ExportRepository
	mu       sync.Mutex
	failures int
}

func (r *flakyExports) Create(ctx context.Context, row domain.ExportJob) error {
	r.mu.Lock()
	if r.failures > 0 {
		r.failures--
		r.mu.Unlock()
		return errStorage
	}
	r.mu.Unlock()
	return r.ExportRepository.Create(ctx, row)
}

// blockingExports holds Create until release is closed and closes entered
// once the first Create started.
type blockingExports struct {
	*memory.ExportRepository
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func newBlockingExports() *blockingExports {
	return &blockingExports{
		ExportRepository: memory.NewRepositories().Exports,
		entered:          make(chan struct{}),
		release:          make(chan struct{}),
	}
}

func (r *blockingExports) Create(ctx context.Context, row domain.ExportJob) error {
	r.once.Do(func() { close(r.entered) })
	<-r.release
	return r.ExportRepository.Create(ctx, row)
}

// recordingDatasets logs the order of saves and can fail roster saves.
type recordingDatasets struct {
	*memory.DatasetRepository
	mu           sync.Mutex
	calls        []string
	failRoster bool
}

func (r *recordingDatasets) SaveSurvey(ctx context.Context, dataset domain.SurveyDataset) error {
	r.record("survey")
	return r.DatasetRepository.SaveSurvey(ctx, dataset)
}

func (r *recordingDatasets) SaveExecutives(ctx context.Context, dataset domain.ExecutiveDataset) error {
	r.record("executives")
	if r.failRoster {
		return errStorage
	}
	return r.DatasetRepository.SaveExecutives(ctx, dataset)
}

func (r *recordingDatasets) record(call string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call)
}

func (r *recordingDatasets) saves() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

// brokenCache fails every operation.
type brokenCache struct{}

func (brokenCache) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errStorage
}

func (brokenCache) Set(context.Context, string, []byte, time.Duration) error { return errStorage }

func (brokenCache) Delete(context.Context, ...string) error { return errStorage }

type fixture struct {
	svc    *application.Service
	source *tableSource
	repos  *memory.Repositories
	cache  *memory.Cache
	dlq    *eventsadapter.MemoryDLQ
}

type fixtureOption func(*application.Dependencies)

func withAutoLoad() fixtureOption {
	return func(deps *application.Dependencies) { deps.Config.AutoLoad = true }
}

func withEncoder(encoder ports.ReportEncoder) fixtureOption {
	return func(deps *application.Dependencies) { deps.Encoder = encoder }
}

func withExports(exports ports.ExportRepository) fixtureOption {
	return func(deps *application.Dependencies) { deps.Exports = exports }
}

func withDatasets(datasets ports.DatasetRepository) fixtureOption {
	return func(deps *application.Dependencies) { deps.Datasets = datasets }
}

func withCache(cache ports.Cache) fixtureOption {
	return func(deps *application.Dependencies) { deps.Cache = cache }
}

func withLogger(logger *slog.Logger) fixtureOption {
	return func(deps *application.Dependencies) { deps.Logger = logger }
}

func newFixture(opts ...fixtureOption) fixture {
	source := newTableSource()
	source.set(surveyLocation, surveyTable())
	source.set(executiveLocation, rosterTable())
	repos := memory.NewRepositories()
	cache := memory.NewCache()
	dlq := eventsadapter.NewMemoryDLQ()
	deps := application.Dependencies{
		Config: application.Config{
			ServiceName:        "satisfaction-analytics",
			SurveyLocations:    []string{surveyLocation},
			ExecutiveLocations: []string{executiveLocation},
			AllowedHosts:       []string{"files.example.co"},
			CacheTTL:           time.Hour,
			IdempotencyTTL:     7 * 24 * time.Hour,
			EventDedupTTL:      7 * 24 * time.Hour,
			MaxPageSize:        2,
		},
		Datasets:    repos.Datasets,
		Exports:     repos.Exports,
		Idempotency: repos.Idempotency,
		EventDedup:  repos.EventDedup,
		Outbox:      repos.Outbox,
		Cache:       cache,
		Source:      source,
		Charts:      render.NewBarChartRenderer(),
		Encoder:     render.NewTableEncoder(),
		DLQ:         dlq,
	}
	for _, opt := range opts {
		opt(&deps)
	}
	return fixture{
		svc:    application.NewService(deps),
		source: source,
		repos:  repos,
		cache:  cache,
		dlq:    dlq,
	}
}

func surveyRow(id, segmento, ciudad, agencia, ejecutivo string, ratings ...string) map[string]string {
	row := map[string]string{
		"ID":              id,
		"DATE_MODIFIED":   "2025-04-20 09:00:00",
		"SEGMENTO":        segmento,
		"CIUDAD":          ciudad,
		"AGENCIA":         agencia,
		"EJECUTIVO_FINAL": ejecutivo,
	}
	for i, metric := range domain.RatingMetrics {
		if i < len(ratings) {
			row[string(metric)] = ratings[i]
		}
	}
	return row
}

func surveyTable() ports.Table {
	rows := []map[string]string{
		surveyRow("1", "PERSONAS", "MEDELLIN", "SAN DIEGO", "Ana Gómez", "5", "5", "5", "5"),
		surveyRow("2", "personas", "MEDELLIN", "SAN DIEGO", "Ana Gómez", "4", "4", "4", "4"),
		surveyRow("3", "EMPRESARIAL", "BOGOTA D.C.", "BOGOTA PRINCIPAL", "Luis Pérez", "3", "2", "3", "2"),
		surveyRow("4", "EMPRESARIAL", "CALI", "CALI NORTE", "Marta Ruiz", "5", "1", "4", "5"),
		surveyRow("", "PERSONAS", "CALI", "CALI NORTE", "Marta Ruiz", "5", "5", "5", "5"),
		surveyRow("6", "PERSONAS", "CALI", "CALI NORTE", "", "x", "", "", ""),
	}
	rows[0]["sugerencias"] = "La espera es muy lenta y hay demora"
	rows[1]["sugerencias"] = "Excelente atención, gracias"
	rows[0]["EMAIL"] = "ana.cliente@correo.co"
	rows[0]["IP_ADDRESS"] = "190.85.10.4"
	rows[0]["CEDULA"] = "1020304050"
	return ports.Table{Rows: rows, TotalRows: len(rows), Warnings: []string{"line 9: expected 12 fields, got 11"}}
}

func surveyTableWithoutRatings() ports.Table {
	rows := []map[string]string{
		surveyRow("1", "PERSONAS", "MEDELLIN", "SAN DIEGO", "Ana Gómez", "", "n/a"),
		surveyRow("", "EMPRESARIAL", "CALI", "CALI NORTE", "", "5"),
	}
	return ports.Table{Rows: rows, TotalRows: len(rows)}
}

func rosterTable() ports.Table {
	return ports.Table{
		Rows: []map[string]string{
			{"EJECUTIVO_FINAL": "ANA GÓMEZ", "AGENCIA": "SAN DIEGO", "TIPO_EJECUTIVO": "Asesor", "SEGMENTO": "PERSONAS", "CIUDAD": "MEDELLIN"},
			{"EJECUTIVO_FINAL": "Luis Pérez", "SEGMENTO": "EMPRESARIAL", "CIUDAD": "Bogotá"},
			{"EJECUTIVO_FINAL": "", "AGENCIA": "OVIEDO"},
		},
		TotalRows: 3,
	}
}

func exportActor(subject, key string) application.Actor {
	return application.Actor{SubjectID: subject, Role: "analyst", RequestID: "req-" + key, IdempotencyKey: key}
}
