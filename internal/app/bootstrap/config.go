package bootstrap

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/JhonLaurens/Medicion-del-Servicio-sub002/internal/domain"
	"gopkg.in/yaml.v3"
)

type Config struct {
	ServiceID string
	LogLevel  slog.Level

	HTTPPort int
	GRPCPort int

	DatabaseURL  string
	MaxDBConns   int32
	RedisURL     string
	CachePrefix  string
	KafkaBrokers []string

	KafkaConsumerGroup        string
	KafkaTopicDatasetUploaded string
	KafkaTopicDatasetLoaded   string
	KafkaTopicExportCompleted string
	KafkaTopicDLQ             string

	OutboxPollInterval   time.Duration
	OutboxBatchSize      int
	OutboxRetention      time.Duration
	ConsumerPollInterval time.Duration
	EventPurgeInterval   time.Duration

	DataDir            string
	SurveyLocations    []string
	ExecutiveLocations []string
	AllowedHosts       []string
	FetchTimeout       time.Duration
	LoadOnStart        bool
	AutoLoad           bool

	CacheTTL       time.Duration
	IdempotencyTTL time.Duration
	EventDedupTTL  time.Duration
	ExportBaseURL  string
	MaxPageSize    int

	JWTSecret string
	JWTIssuer string

	Profile domain.SurveyProfile
}

type configFile struct {
	Service struct {
		ID       string `yaml:"id"`
		HTTPPort int    `yaml:"http_port"`
		GRPCPort int    `yaml:"grpc_port"`
		LogLevel string `yaml:"log_level"`
	} `yaml:"service"`
	Dependencies struct {
		PostgresURL               string   `yaml:"postgres_url"`
		RedisURL                  string   `yaml:"redis_url"`
		KafkaBrokers              []string `yaml:"kafka_brokers"`
		KafkaConsumerGroup        string   `yaml:"kafka_consumer_group"`
		KafkaTopicDatasetUploaded string   `yaml:"kafka_topic_dataset_uploaded"`
		KafkaTopicDatasetLoaded   string   `yaml:"kafka_topic_dataset_loaded"`
		KafkaTopicExportCompleted string   `yaml:"kafka_topic_export_completed"`
		KafkaTopicDLQ             string   `yaml:"kafka_topic_dlq"`
	} `yaml:"dependencies"`
	Data struct {
		Dir                string   `yaml:"dir"`
		SurveyLocations    []string `yaml:"survey_locations"`
		ExecutiveLocations []string `yaml:"executive_locations"`
		AllowedHosts       []string `yaml:"allowed_hosts"`
		LoadOnStart        *bool    `yaml:"load_on_start"`
		AutoLoad           *bool    `yaml:"auto_load"`
	} `yaml:"data"`
	Survey domain.SurveyProfile `yaml:"survey"`
}

func LoadConfig(path string) (Config, error) {
	cfg := Config{
		ServiceID:                 "satisfaction-analytics",
		LogLevel:                  slog.LevelInfo,
		HTTPPort:                  8080,
		GRPCPort:                  9090,
		MaxDBConns:                10,
		CachePrefix:               "satisfaction:",
		KafkaConsumerGroup:        "satisfaction-analytics",
		KafkaTopicDatasetUploaded: domain.EventDatasetUploaded,
		KafkaTopicDatasetLoaded:   domain.EventDatasetLoaded,
		KafkaTopicExportCompleted: domain.EventExportCompleted,
		KafkaTopicDLQ:             "survey.dlq",
		OutboxPollInterval:        2 * time.Second,
		OutboxBatchSize:           100,
		OutboxRetention:           7 * 24 * time.Hour,
		ConsumerPollInterval:      2 * time.Second,
		EventPurgeInterval:        time.Hour,
		SurveyLocations:           []string{"datos.csv", "Medicion-del-Servicio/datos.csv", "./datos.csv", "public/datos.csv"},
		ExecutiveLocations:        []string{"ejecutivos para analizar.csv", "public/ejecutivos para analizar.csv"},
		FetchTimeout:              15 * time.Second,
		LoadOnStart:               true,
		AutoLoad:                  true,
		CacheTTL:                  time.Hour,
		IdempotencyTTL:            7 * 24 * time.Hour,
		EventDedupTTL:             7 * 24 * time.Hour,
		ExportBaseURL:             "/api/v1/exports",
		MaxPageSize:               500,
		JWTIssuer:                 "satisfaction-analytics",
		Profile:                   domain.DefaultSurveyProfile(),
	}

	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		var f configFile
		if unmarshalErr := yaml.Unmarshal(raw, &f); unmarshalErr != nil {
			return Config{}, fmt.Errorf("parse config file: %w", unmarshalErr)
		}
		applyFile(&cfg, f)
	case !os.IsNotExist(err):
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	cfg.ServiceID = envOrDefault("SERVICE_ID", cfg.ServiceID)
	cfg.DatabaseURL = envOrDefault("DB_URL", envOrDefault("POSTGRES_URL", cfg.DatabaseURL))
	cfg.RedisURL = envOrDefault("REDIS_URL", cfg.RedisURL)
	cfg.CachePrefix = envOrDefault("CACHE_PREFIX", cfg.CachePrefix)
	cfg.KafkaBrokers = envCSV("KAFKA_BROKERS", cfg.KafkaBrokers)
	cfg.KafkaConsumerGroup = envOrDefault("KAFKA_CONSUMER_GROUP", cfg.KafkaConsumerGroup)
	cfg.KafkaTopicDatasetUploaded = envOrDefault("KAFKA_TOPIC_DATASET_UPLOADED", cfg.KafkaTopicDatasetUploaded)
	cfg.KafkaTopicDatasetLoaded = envOrDefault("KAFKA_TOPIC_DATASET_LOADED", cfg.KafkaTopicDatasetLoaded)
	cfg.KafkaTopicExportCompleted = envOrDefault("KAFKA_TOPIC_EXPORT_COMPLETED", cfg.KafkaTopicExportCompleted)
	cfg.KafkaTopicDLQ = envOrDefault("KAFKA_TOPIC_DLQ", cfg.KafkaTopicDLQ)
	cfg.HTTPPort = envInt("HTTP_PORT", cfg.HTTPPort)
	cfg.GRPCPort = envInt("GRPC_PORT", cfg.GRPCPort)
	cfg.MaxDBConns = int32(envInt("DB_MAX_CONNS", int(cfg.MaxDBConns)))
	cfg.OutboxPollInterval = envDuration("OUTBOX_POLL_INTERVAL", cfg.OutboxPollInterval)
	cfg.OutboxBatchSize = envInt("OUTBOX_BATCH_SIZE", cfg.OutboxBatchSize)
	cfg.OutboxRetention = envDuration("OUTBOX_RETENTION", cfg.OutboxRetention)
	cfg.ConsumerPollInterval = envDuration("CONSUMER_POLL_INTERVAL", cfg.ConsumerPollInterval)
	cfg.EventPurgeInterval = envDuration("EVENT_PURGE_INTERVAL", cfg.EventPurgeInterval)
	cfg.DataDir = envOrDefault("DATA_DIR", cfg.DataDir)
	cfg.SurveyLocations = envCSV("SURVEY_CSV_LOCATIONS", cfg.SurveyLocations)
	cfg.ExecutiveLocations = envCSV("EXECUTIVES_CSV_LOCATIONS", cfg.ExecutiveLocations)
	cfg.AllowedHosts = envCSV("SURVEY_ALLOWED_HOSTS", cfg.AllowedHosts)
	cfg.FetchTimeout = envDuration("FETCH_TIMEOUT", cfg.FetchTimeout)
	cfg.LoadOnStart = envBool("LOAD_ON_START", cfg.LoadOnStart)
	cfg.AutoLoad = envBool("AUTO_LOAD", cfg.AutoLoad)
	cfg.CacheTTL = envDuration("CACHE_TTL", cfg.CacheTTL)
	cfg.IdempotencyTTL = time.Duration(envInt("IDEMPOTENCY_TTL_HOURS", int(cfg.IdempotencyTTL.Hours()))) * time.Hour
	cfg.EventDedupTTL = time.Duration(envInt("EVENT_DEDUP_TTL_HOURS", int(cfg.EventDedupTTL.Hours()))) * time.Hour
	cfg.ExportBaseURL = envOrDefault("EXPORT_BASE_URL", cfg.ExportBaseURL)
	cfg.MaxPageSize = envInt("MAX_PAGE_SIZE", cfg.MaxPageSize)
	cfg.JWTSecret = envOrDefault("JWT_SECRET", cfg.JWTSecret)
	cfg.JWTIssuer = envOrDefault("JWT_ISSUER", cfg.JWTIssuer)
	if level, ok := parseLogLevel(os.Getenv("LOG_LEVEL")); ok {
		cfg.LogLevel = level
	}

	if len(cfg.SurveyLocations) == 0 {
		return Config{}, fmt.Errorf("missing SURVEY_CSV_LOCATIONS")
	}
	if cfg.JWTSecret != "" && len(cfg.JWTSecret) < 16 {
		return Config{}, fmt.Errorf("JWT_SECRET must be at least 16 bytes")
	}
	return cfg, nil
}

func applyFile(cfg *Config, f configFile) {
	if f.Service.ID != "" {
		cfg.ServiceID = f.Service.ID
	}
	if f.Service.HTTPPort > 0 {
		cfg.HTTPPort = f.Service.HTTPPort
	}
	if f.Service.GRPCPort > 0 {
		cfg.GRPCPort = f.Service.GRPCPort
	}
	if level, ok := parseLogLevel(f.Service.LogLevel); ok {
		cfg.LogLevel = level
	}
	if f.Dependencies.PostgresURL != "" {
		cfg.DatabaseURL = f.Dependencies.PostgresURL
	}
	if f.Dependencies.RedisURL != "" {
		cfg.RedisURL = f.Dependencies.RedisURL
	}
	if len(f.Dependencies.KafkaBrokers) > 0 {
		cfg.KafkaBrokers = trimNonEmpty(f.Dependencies.KafkaBrokers)
	}
	if f.Dependencies.KafkaConsumerGroup != "" {
		cfg.KafkaConsumerGroup = f.Dependencies.KafkaConsumerGroup
	}
	if f.Dependencies.KafkaTopicDatasetUploaded != "" {
		cfg.KafkaTopicDatasetUploaded = f.Dependencies.KafkaTopicDatasetUploaded
	}
	if f.Dependencies.KafkaTopicDatasetLoaded != "" {
		cfg.KafkaTopicDatasetLoaded = f.Dependencies.KafkaTopicDatasetLoaded
	}
	if f.Dependencies.KafkaTopicExportCompleted != "" {
		cfg.KafkaTopicExportCompleted = f.Dependencies.KafkaTopicExportCompleted
	}
	if f.Dependencies.KafkaTopicDLQ != "" {
		cfg.KafkaTopicDLQ = f.Dependencies.KafkaTopicDLQ
	}
	if f.Data.Dir != "" {
		cfg.DataDir = f.Data.Dir
	}
	if len(f.Data.SurveyLocations) > 0 {
		cfg.SurveyLocations = trimNonEmpty(f.Data.SurveyLocations)
	}
	if len(f.Data.ExecutiveLocations) > 0 {
		cfg.ExecutiveLocations = trimNonEmpty(f.Data.ExecutiveLocations)
	}
	if len(f.Data.AllowedHosts) > 0 {
		cfg.AllowedHosts = trimNonEmpty(f.Data.AllowedHosts)
	}
	if f.Data.LoadOnStart != nil {
		cfg.LoadOnStart = *f.Data.LoadOnStart
	}
	if f.Data.AutoLoad != nil {
		cfg.AutoLoad = *f.Data.AutoLoad
	}
	cfg.Profile = mergeProfile(cfg.Profile, f.Survey)
}

// mergeProfile overlays the non-empty fields of override.
func mergeProfile(base, override domain.SurveyProfile) domain.SurveyProfile {
	if override.Title != "" {
		base.Title = override.Title
	}
	if override.ObjetivoGeneral != "" {
		base.ObjetivoGeneral = override.ObjetivoGeneral
	}
	if override.UniversoTotal > 0 {
		base.UniversoTotal = override.UniversoTotal
	}
	if override.NivelConfianza != "" {
		base.NivelConfianza = override.NivelConfianza
	}
	if override.MargenError != "" {
		base.MargenError = override.MargenError
	}
	if override.PeriodoCampo != "" {
		base.PeriodoCampo = override.PeriodoCampo
	}
	if override.MetodoRecoleccion != "" {
		base.MetodoRecoleccion = override.MetodoRecoleccion
	}
	if len(override.MetricasEvaluadas) > 0 {
		base.MetricasEvaluadas = override.MetricasEvaluadas
	}
	if override.PeriodosMedicion != "" {
		base.PeriodosMedicion = override.PeriodosMedicion
	}
	if override.NotaMetodologica != "" {
		base.NotaMetodologica = override.NotaMetodologica
	}
	if len(override.Segments) > 0 {
		base.Segments = override.Segments
	}
	if len(override.Channels) > 0 {
		base.Channels = override.Channels
	}
	return base
}

func parseLogLevel(raw string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

func envOrDefault(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}

func envInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	switch strings.ToLower(raw) {
	case "1", "true", "yes":
		return true
	case "0", "false", "no":
		return false
	default:
		return fallback
	}
}

func envDuration(name string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func envCSV(name string, fallback []string) []string {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	items := strings.Split(raw, ",")
	return trimNonEmpty(items)
}

func trimNonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
