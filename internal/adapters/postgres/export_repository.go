package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/JhonLaurens/Medicion-del-Servicio-sub002/internal/domain"
	"gorm.io/gorm"
)

type exportRepository struct {
	db *gorm.DB
}

func (r *exportRepository) Create(ctx context.Context, row domain.ExportJob) error {
	rec, err := toExportModel(row)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return err
	}
	return nil
}

func (r *exportRepository) Update(ctx context.Context, row domain.ExportJob) error {
	rec, err := toExportModel(row)
	if err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Model(&exportModel{}).Where("export_id = ?", row.ExportID).Updates(map[string]any{
		"status":          rec.Status,
		"file_name":       rec.FileName,
		"content_type":    rec.ContentType,
		"size_bytes":      rec.SizeBytes,
		"download_url":    rec.DownloadURL,
		"failure_reason":  rec.FailureReason,
		"dataset_version": rec.DatasetVersion,
		"content":         rec.Content,
		"ready_at":        rec.ReadyAt,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *exportRepository) GetByID(ctx context.Context, exportID string) (domain.ExportJob, error) {
	var rec exportModel
	if err := r.db.WithContext(ctx).Where("export_id = ?", exportID).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ExportJob{}, domain.ErrNotFound
		}
		return domain.ExportJob{}, err
	}
	return toDomainExport(rec)
}

func toExportModel(row domain.ExportJob) (exportModel, error) {
	filters, err := json.Marshal(row.Filters)
	if err != nil {
		return exportModel{}, err
	}
	if row.Filters == nil {
		filters = []byte("{}")
	}
	return exportModel{
		ExportID: row.ExportID, RequestedBy: row.RequestedBy, ReportType: row.ReportType, Format: row.Format,
		Filters: string(filters), DatasetVersion: row.DatasetVersion, Status: string(row.Status),
		FileName: row.FileName, ContentType: row.ContentType, SizeBytes: row.SizeBytes,
		DownloadURL: row.DownloadURL, FailureReason: row.FailureReason, IdempotencyKey: row.IdempotencyKey,
		Content: row.Content, CreatedAt: row.CreatedAt, ReadyAt: row.ReadyAt,
	}, nil
}

func toDomainExport(m exportModel) (domain.ExportJob, error) {
	filters := map[string]string{}
	if m.Filters != "" {
		if err := json.Unmarshal([]byte(m.Filters), &filters); err != nil {
			return domain.ExportJob{}, err
		}
	}
	return domain.ExportJob{
		ExportID: m.ExportID, RequestedBy: m.RequestedBy, ReportType: m.ReportType, Format: m.Format,
		Filters: filters, DatasetVersion: m.DatasetVersion, Status: domain.ExportJobStatus(m.Status),
		FileName: m.FileName, ContentType: m.ContentType, SizeBytes: m.SizeBytes,
		DownloadURL: m.DownloadURL, FailureReason: m.FailureReason, IdempotencyKey: m.IdempotencyKey,
		Content: m.Content, CreatedAt: m.CreatedAt, ReadyAt: m.ReadyAt,
	}, nil
}
