package application

import (
	"log/slog"
	"sync"
	"time"

	"github.com/JhonLaurens/Medicion-del-Servicio-sub002/internal/domain"
	"github.com/JhonLaurens/Medicion-del-Servicio-sub002/internal/ports"
)

type Config struct {
	ServiceName        string
	SurveyLocations    []string
	ExecutiveLocations []string
	// AutoLoad loads the survey on the first read when nothing was loaded yet.
	AutoLoad       bool
	CacheTTL       time.Duration
	IdempotencyTTL time.Duration
	EventDedupTTL  time.Duration
	ExportBaseURL  string
	// AllowedHosts are the hosts a caller supplied http(s) location may name.
	AllowedHosts []string
	MaxPageSize  int
	Profile      domain.SurveyProfile
}

type Actor struct {
	SubjectID      string
	Role           string
	RequestID      string
	IdempotencyKey string
}

type LoadInput struct {
	Locations []string
	Trigger   string
	TraceID   string
}

type DatasetStatus struct {
	Loaded           bool       `json:"loaded"`
	Version          string     `json:"version,omitempty"`
	Source           string     `json:"source,omitempty"`
	LoadedAt         *time.Time `json:"loaded_at,omitempty"`
	TotalRows        int        `json:"total_rows"`
	ValidRows        int        `json:"valid_rows"`
	Warnings         []string   `json:"warnings,omitempty"`
	ExecutivesLoaded bool       `json:"executives_loaded"`
	ExecutivesSource string     `json:"executives_source,omitempty"`
	Executives       int        `json:"executives"`
}

type RecordQuery struct {
	Segment string
	Ciudad  string
	Agencia string
	Limit   int
	Offset  int
}

type RecordPage struct {
	Total   int                         `json:"total"`
	Limit   int                         `json:"limit"`
	Offset  int                         `json:"offset"`
	Records []domain.SatisfactionRecord `json:"records"`
}

type Overview struct {
	DatasetVersion          string         `json:"dataset_version"`
	TotalResponses          int            `json:"total_responses"`
	OverallAverage          float64        `json:"overall_average"`
	OverallAverageValidOnly float64        `json:"overall_average_valid_only"`
	NPS                     domain.NPSData `json:"nps"`
}

type FilterInput struct {
	FilterType  string
	FilterValue string
}

type ManagerReportInput struct {
	Category    string
	FilterType  string
	FilterValue string
	// RosterOnly drops executives missing from the loaded roster.
	RosterOnly bool
}

type ExecutiveMatch struct {
	Name     string                     `json:"name"`
	Included bool                       `json:"included"`
	Info     *domain.ExecutiveToAnalyze `json:"info,omitempty"`
}

type SuggestionAnalysis struct {
	TotalRecords int                         `json:"total_records"`
	Analyzed     int                         `json:"analyzed"`
	Insights     []domain.CategoryInsight    `json:"insights"`
	Suggestions  []domain.AnalyzedSuggestion `json:"suggestions,omitempty"`
}

type ChartInput struct {
	Kind    string
	Metric  string
	Segment string
}

type ExportInput struct {
	ReportType string
	Format     string
	Filters    map[string]string
}

type Service struct {
	cfg Config

	datasets    ports.DatasetRepository
	exports     ports.ExportRepository
	idempotency ports.IdempotencyRepository
	eventDedup  ports.EventDedupRepository
	outbox      ports.OutboxRepository
	cache       ports.Cache

	source  ports.TableSource
	charts  ports.ChartRenderer
	encoder ports.ReportEncoder

	dlq    ports.DLQPublisher
	logger *slog.Logger
	nowFn  func() time.Time
	loadMu sync.Mutex
}

type Dependencies struct {
	Config Config

	Datasets    ports.DatasetRepository
	Exports     ports.ExportRepository
	Idempotency ports.IdempotencyRepository
	EventDedup  ports.EventDedupRepository
	Outbox      ports.OutboxRepository
	Cache       ports.Cache

	Source  ports.TableSource
	Charts  ports.ChartRenderer
	Encoder ports.ReportEncoder

	DLQ    ports.DLQPublisher
	Logger *slog.Logger
}

func NewService(deps Dependencies) *Service {
	cfg := deps.Config
	if cfg.ServiceName == "" {
		cfg.ServiceName = "satisfaction-analytics"
	}
	if len(cfg.SurveyLocations) == 0 {
		cfg.SurveyLocations = []string{"datos.csv", "Medicion-del-Servicio/datos.csv", "./datos.csv", "public/datos.csv"}
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = time.Hour
	}
	if cfg.IdempotencyTTL <= 0 {
		cfg.IdempotencyTTL = 7 * 24 * time.Hour
	}
	if cfg.EventDedupTTL <= 0 {
		cfg.EventDedupTTL = 7 * 24 * time.Hour
	}
	if cfg.ExportBaseURL == "" {
		cfg.ExportBaseURL = "/api/v1/exports"
	}
	if cfg.MaxPageSize <= 0 {
		cfg.MaxPageSize = 500
	}
	cfg.Profile = cfg.Profile.WithDefaults()
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		cfg:         cfg,
		datasets:    deps.Datasets,
		exports:     deps.Exports,
		idempotency: deps.Idempotency,
		eventDedup:  deps.EventDedup,
		outbox:      deps.Outbox,
		cache:       deps.Cache,
		source:      deps.Source,
		charts:      deps.Charts,
		encoder:     deps.Encoder,
		dlq:         deps.DLQ,
		logger:      logger,
		nowFn:       func() time.Time { return time.Now().UTC() },
	}
}

func normalizeRole(raw string) string {
	switch raw {
	case "admin":
		return "admin"
	default:
		return "analyst"
	}
}
