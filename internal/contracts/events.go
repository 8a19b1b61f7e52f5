package contracts

import (
	"encoding/json"
	"time"
)

type EventEnvelope struct {
	EventID          string          `json:"event_id"`
	EventType        string          `json:"event_type"`
	OccurredAt       time.Time       `json:"occurred_at"`
	PartitionKeyPath string          `json:"partition_key_path"`
	PartitionKey     string          `json:"partition_key"`
	SourceService    string          `json:"source_service"`
	TraceID          string          `json:"trace_id"`
	SchemaVersion    string          `json:"schema_version"`
	Data             json.RawMessage `json:"data"`
}

// DatasetUploadedPayload announces a new survey export. Locations, when
// present, are tried before the configured ones.
type DatasetUploadedPayload struct {
	Dataset    string   `json:"dataset"`
	Locations  []string `json:"locations,omitempty"`
	UploadedBy string   `json:"uploaded_by,omitempty"`
}

type DatasetLoadedPayload struct {
	Dataset    string    `json:"dataset"`
	Version    string    `json:"version"`
	Source     string    `json:"source"`
	TotalRows  int       `json:"total_rows"`
	ValidRows  int       `json:"valid_rows"`
	Executives int       `json:"executives"`
	LoadedAt   time.Time `json:"loaded_at"`
}

type ExportCompletedPayload struct {
	ExportID    string `json:"export_id"`
	ReportType  string `json:"report_type"`
	Format      string `json:"format"`
	RequestedBy string `json:"requested_by"`
	SizeBytes   int    `json:"size_bytes"`
}

type DLQRecord struct {
	OriginalEvent EventEnvelope `json:"original_event"`
	ErrorSummary  string        `json:"error_summary"`
	RetryCount    int           `json:"retry_count"`
	FirstSeenAt   time.Time     `json:"first_seen_at"`
	LastErrorAt   time.Time     `json:"last_error_at"`
	SourceTopic   string        `json:"source_topic,omitempty"`
	TraceID       string        `json:"trace_id,omitempty"`
}
