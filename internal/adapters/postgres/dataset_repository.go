package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/JhonLaurens/Medicion-del-Servicio-sub002/internal/domain"
	"gorm.io/gorm"
)

// metadataColumns is everything but the payload.
const metadataColumns = "version, kind, source, loaded_at, total_rows, valid_rows, warnings"

// datasetRepository stores every loaded snapshot; the current one is the
// most recently loaded of its kind. Reads look up the current version first
// and decode the payload only when it differs from the snapshot held here.
type datasetRepository struct {
	db *gorm.DB

	mu         sync.Mutex
	survey     *domain.SurveyDataset
	executives *domain.ExecutiveDataset
}

func (r *datasetRepository) SaveSurvey(ctx context.Context, dataset domain.SurveyDataset) error {
	payload, err := json.Marshal(dataset.Records)
	if err != nil {
		return fmt.Errorf("encode survey records: %w", err)
	}
	warnings, err := json.Marshal(nonNilStrings(dataset.Warnings))
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(&datasetModel{
		Version:   dataset.Version,
		Kind:      datasetKindSurvey,
		Source:    dataset.Source,
		LoadedAt:  dataset.LoadedAt,
		TotalRows: dataset.TotalRows,
		ValidRows: dataset.ValidRows,
		Warnings:  string(warnings),
		Payload:   string(payload),
	}).Error; err != nil {
		return err
	}
	r.mu.Lock()
	r.survey = &dataset
	r.mu.Unlock()
	return nil
}

func (r *datasetRepository) SurveyInfo(ctx context.Context) (domain.DatasetInfo, error) {
	row, err := r.latestInfo(ctx, datasetKindSurvey)
	if err != nil {
		return domain.DatasetInfo{}, err
	}
	return surveyInfo(row)
}

func (r *datasetRepository) CurrentSurvey(ctx context.Context) (domain.SurveyDataset, error) {
	row, err := r.latestInfo(ctx, datasetKindSurvey)
	if err != nil {
		return domain.SurveyDataset{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.survey != nil && r.survey.Version == row.Version {
		return *r.survey, nil
	}
	info, err := surveyInfo(row)
	if err != nil {
		return domain.SurveyDataset{}, err
	}
	payload, err := r.payload(ctx, row.Version)
	if err != nil {
		return domain.SurveyDataset{}, err
	}
	dataset := domain.SurveyDataset{
		Version:   info.Version,
		Source:    info.Source,
		LoadedAt:  info.LoadedAt,
		TotalRows: info.TotalRows,
		ValidRows: info.ValidRows,
		Warnings:  info.Warnings,
	}
	if err := json.Unmarshal([]byte(payload), &dataset.Records); err != nil {
		return domain.SurveyDataset{}, fmt.Errorf("decode survey records: %w", err)
	}
	r.survey = &dataset
	return dataset, nil
}

func (r *datasetRepository) SaveExecutives(ctx context.Context, dataset domain.ExecutiveDataset) error {
	payload, err := json.Marshal(dataset.Executives)
	if err != nil {
		return fmt.Errorf("encode executives: %w", err)
	}
	if err := r.db.WithContext(ctx).Create(&datasetModel{
		Version:   dataset.Version,
		Kind:      datasetKindExecutives,
		Source:    dataset.Source,
		LoadedAt:  dataset.LoadedAt,
		TotalRows: dataset.TotalRows,
		ValidRows: len(dataset.Executives),
		Warnings:  "[]",
		Payload:   string(payload),
	}).Error; err != nil {
		return err
	}
	r.mu.Lock()
	r.executives = &dataset
	r.mu.Unlock()
	return nil
}

func (r *datasetRepository) ExecutivesInfo(ctx context.Context) (domain.DatasetInfo, error) {
	row, err := r.latestInfo(ctx, datasetKindExecutives)
	if err != nil {
		return domain.DatasetInfo{}, err
	}
	return domain.DatasetInfo{
		Version:   row.Version,
		Source:    row.Source,
		LoadedAt:  row.LoadedAt.UTC(),
		TotalRows: row.TotalRows,
		ValidRows: row.ValidRows,
	}, nil
}

func (r *datasetRepository) CurrentExecutives(ctx context.Context) (domain.ExecutiveDataset, error) {
	row, err := r.latestInfo(ctx, datasetKindExecutives)
	if err != nil {
		return domain.ExecutiveDataset{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.executives != nil && r.executives.Version == row.Version {
		return *r.executives, nil
	}
	payload, err := r.payload(ctx, row.Version)
	if err != nil {
		return domain.ExecutiveDataset{}, err
	}
	dataset := domain.ExecutiveDataset{
		Version:   row.Version,
		Source:    row.Source,
		LoadedAt:  row.LoadedAt.UTC(),
		TotalRows: row.TotalRows,
	}
	if err := json.Unmarshal([]byte(payload), &dataset.Executives); err != nil {
		return domain.ExecutiveDataset{}, fmt.Errorf("decode executives: %w", err)
	}
	r.executives = &dataset
	return dataset, nil
}

func (r *datasetRepository) latestInfo(ctx context.Context, kind string) (datasetModel, error) {
	var row datasetModel
	err := latestInfoQuery(r.db.WithContext(ctx), kind).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return datasetModel{}, domain.ErrDatasetNotLoaded
	}
	return row, err
}

func (r *datasetRepository) payload(ctx context.Context, version string) (string, error) {
	var row datasetModel
	err := payloadQuery(r.db.WithContext(ctx), version).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", domain.ErrDatasetNotLoaded
	}
	return row.Payload, err
}

func latestInfoQuery(db *gorm.DB, kind string) *gorm.DB {
	return db.Model(&datasetModel{}).Select(metadataColumns).Where("kind = ?", kind).Order("loaded_at desc")
}

func payloadQuery(db *gorm.DB, version string) *gorm.DB {
	return db.Model(&datasetModel{}).Select("payload").Where("version = ?", version)
}

func surveyInfo(row datasetModel) (domain.DatasetInfo, error) {
	info := domain.DatasetInfo{
		Version:   row.Version,
		Source:    row.Source,
		LoadedAt:  row.LoadedAt.UTC(),
		TotalRows: row.TotalRows,
		ValidRows: row.ValidRows,
	}
	if err := json.Unmarshal([]byte(row.Warnings), &info.Warnings); err != nil {
		return domain.DatasetInfo{}, fmt.Errorf("decode survey warnings: %w", err)
	}
	return info, nil
}

func nonNilStrings(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
