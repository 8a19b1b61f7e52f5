package postgres

import (
	"time"

	"github.com/google/uuid"
)

const (
	datasetKindSurvey     = "survey"
	datasetKindExecutives = "executives"
)

type datasetModel struct {
	Version   string    `gorm:"column:version;primaryKey"`
	Kind      string    `gorm:"column:kind"`
	Source    string    `gorm:"column:source"`
	LoadedAt  time.Time `gorm:"column:loaded_at"`
	TotalRows int       `gorm:"column:total_rows"`
	ValidRows int       `gorm:"column:valid_rows"`
	Warnings  string    `gorm:"column:warnings"`
	Payload   string    `gorm:"column:payload"`
}

func (datasetModel) TableName() string { return "survey_datasets" }

type exportModel struct {
	ExportID       string     `gorm:"column:export_id;primaryKey"`
	RequestedBy    string     `gorm:"column:requested_by"`
	ReportType     string     `gorm:"column:report_type"`
	Format         string     `gorm:"column:format"`
	Filters        string     `gorm:"column:filters"`
	DatasetVersion string     `gorm:"column:dataset_version"`
	Status         string     `gorm:"column:status"`
	FileName       string     `gorm:"column:file_name"`
	ContentType    string     `gorm:"column:content_type"`
	SizeBytes      int        `gorm:"column:size_bytes"`
	DownloadURL    string     `gorm:"column:download_url"`
	FailureReason  string     `gorm:"column:failure_reason"`
	IdempotencyKey string     `gorm:"column:idempotency_key"`
	Content        []byte     `gorm:"column:content"`
	CreatedAt      time.Time  `gorm:"column:created_at"`
	ReadyAt        *time.Time `gorm:"column:ready_at"`
}

func (exportModel) TableName() string { return "survey_exports" }

type idempotencyModel struct {
	IdempotencyKey string    `gorm:"column:idempotency_key;primaryKey"`
	RequestHash    string    `gorm:"column:request_hash"`
	Status         string    `gorm:"column:status"`
	ResponseCode   int       `gorm:"column:response_code"`
	ResponseBody   *string   `gorm:"column:response_body"`
	ExpiresAt      time.Time `gorm:"column:expires_at"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (idempotencyModel) TableName() string { return "survey_idempotency" }

type eventDedupModel struct {
	EventID     string    `gorm:"column:event_id;primaryKey"`
	EventType   string    `gorm:"column:event_type"`
	ProcessedAt time.Time `gorm:"column:processed_at"`
	ExpiresAt   time.Time `gorm:"column:expires_at"`
}

func (eventDedupModel) TableName() string { return "survey_event_dedup" }

type outboxModel struct {
	OutboxID         uuid.UUID  `gorm:"column:outbox_id;type:uuid;primaryKey"`
	EventType        string     `gorm:"column:event_type"`
	PartitionKey     string     `gorm:"column:partition_key"`
	PartitionKeyPath string     `gorm:"column:partition_key_path"`
	Payload          string     `gorm:"column:payload"`
	SchemaVersion    string     `gorm:"column:schema_version"`
	TraceID          string     `gorm:"column:trace_id"`
	CreatedAt        time.Time  `gorm:"column:created_at"`
	FirstSeenAt      time.Time  `gorm:"column:first_seen_at"`
	PublishedAt      *time.Time `gorm:"column:published_at"`
	RetryCount       int        `gorm:"column:retry_count"`
	LastError        *string    `gorm:"column:last_error"`
	LastErrorAt      *time.Time `gorm:"column:last_error_at"`
}

func (outboxModel) TableName() string { return "survey_outbox" }
