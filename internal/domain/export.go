package domain

import (
	"fmt"
	"strings"
	"time"
)

type ExportJobStatus string

const (
	ExportStatusQueued ExportJobStatus = "queued"
	ExportStatusReady  ExportJobStatus = "ready"
	ExportStatusFailed ExportJobStatus = "failed"
)

const (
	ReportKPIs        = "kpis"
	ReportCities      = "cities"
	ReportManagers    = "managers"
	ReportFilterStats = "filter_stats"
	ReportRecords     = "records"
	ReportDepartments = "departments"
)

const (
	FormatCSV  = "csv"
	FormatJSON = "json"
	FormatXLSX = "xlsx"
)

type ExportJob struct {
	ExportID       string            `json:"export_id"`
	RequestedBy    string            `json:"requested_by"`
	ReportType     string            `json:"report_type"`
	Format         string            `json:"format"`
	Filters        map[string]string `json:"filters"`
	DatasetVersion string            `json:"dataset_version"`
	Status         ExportJobStatus   `json:"status"`
	FileName       string            `json:"file_name"`
	ContentType    string            `json:"content_type"`
	SizeBytes      int               `json:"size_bytes"`
	DownloadURL    string            `json:"download_url"`
	FailureReason  string            `json:"failure_reason,omitempty"`
	IdempotencyKey string            `json:"idempotency_key"`
	CreatedAt      time.Time         `json:"created_at"`
	ReadyAt        *time.Time        `json:"ready_at,omitempty"`
	Content        []byte            `json:"-"`
}

func ValidateExportFormat(format string) error {
	switch NormalizeExportFormat(format) {
	case FormatCSV, FormatJSON, FormatXLSX:
		return nil
	default:
		return ErrInvalidInput
	}
}

func NormalizeExportFormat(format string) string {
	value := strings.ToLower(strings.TrimSpace(format))
	if value == "" {
		return FormatCSV
	}
	return value
}

func ValidateReportType(reportType string) error {
	switch strings.ToLower(strings.TrimSpace(reportType)) {
	case ReportKPIs, ReportCities, ReportManagers, ReportFilterStats, ReportRecords, ReportDepartments:
		return nil
	default:
		return ErrInvalidInput
	}
}

func NormalizeReportType(reportType string) string {
	value := strings.ToLower(strings.TrimSpace(reportType))
	if value == "" {
		return ReportKPIs
	}
	return value
}

// ExportFileName follows the dashboard download naming.
func ExportFileName(reportType, format string, at time.Time) string {
	if reportType == ReportKPIs {
		return fmt.Sprintf("dashboard-satisfaccion-%s.%s", at.Format("2006-01-02"), format)
	}
	return fmt.Sprintf("dashboard-satisfaccion-%s-%s.%s", strings.ReplaceAll(reportType, "_", "-"), at.Format("2006-01-02"), format)
}

// ReportTable is the format-neutral shape every export is rendered from.
type ReportTable struct {
	Name    string   `json:"name"`
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}
