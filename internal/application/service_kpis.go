package application

import (
	"context"

	"github.com/JhonLaurens/Medicion-del-Servicio-sub002/internal/domain"
)

func (s *Service) GetKPIData(ctx context.Context) ([]domain.KPIData, error) {
	dataset, err := s.currentSurvey(ctx)
	if err != nil {
		return nil, err
	}
	return cachedAggregate(ctx, s, dataset, "kpis", func() []domain.KPIData {
		return domain.BuildKPIData(dataset.Records)
	}), nil
}

func (s *Service) GetCityData(ctx context.Context) ([]domain.CityData, error) {
	dataset, err := s.currentSurvey(ctx)
	if err != nil {
		return nil, err
	}
	return cachedAggregate(ctx, s, dataset, "cities", func() []domain.CityData {
		return domain.BuildCityData(dataset.Records)
	}), nil
}

func (s *Service) GetOverview(ctx context.Context) (Overview, error) {
	dataset, err := s.currentSurvey(ctx)
	if err != nil {
		return Overview{}, err
	}
	return Overview{
		DatasetVersion:          dataset.Version,
		TotalResponses:          len(dataset.Records),
		OverallAverage:          domain.OverallAverage(dataset.Records),
		OverallAverageValidOnly: domain.OverallAverageValidOnly(dataset.Records),
		NPS:                     domain.ComputeNPS(dataset.Records),
	}, nil
}

func (s *Service) GetNPS(ctx context.Context, segment string) (domain.NPSData, error) {
	records, err := s.segmentRecords(ctx, segment)
	if err != nil {
		return domain.NPSData{}, err
	}
	return domain.ComputeNPS(records), nil
}

func (s *Service) GetRatingDistribution(ctx context.Context, metric, segment string) ([]domain.ChartDataPoint, error) {
	key, err := domain.ParseMetricKey(metric)
	if err != nil {
		return nil, err
	}
	records, err := s.segmentRecords(ctx, segment)
	if err != nil {
		return nil, err
	}
	return domain.RatingDistribution(records, key), nil
}

func (s *Service) GetDepartmentPerformance(ctx context.Context) ([]domain.DepartmentPerformance, error) {
	dataset, err := s.currentSurvey(ctx)
	if err != nil {
		return nil, err
	}
	return cachedAggregate(ctx, s, dataset, "departments", func() []domain.DepartmentPerformance {
		return domain.DepartmentPerformances(dataset.Records)
	}), nil
}

func (s *Service) GetMonthlyTrend(ctx context.Context) ([]domain.MonthlyTrend, error) {
	dataset, err := s.currentSurvey(ctx)
	if err != nil {
		return nil, err
	}
	return domain.MonthlyTrends(dataset.Records), nil
}

func (s *Service) GetSegmentAnalysis(ctx context.Context) (domain.SegmentAnalysis, error) {
	dataset, err := s.currentSurvey(ctx)
	if err != nil {
		return domain.SegmentAnalysis{}, err
	}
	return cachedAggregate(ctx, s, dataset, "segments", func() domain.SegmentAnalysis {
		return domain.BuildSegmentAnalysis(dataset.Records)
	}), nil
}

func (s *Service) GetTechnicalInfo(ctx context.Context) (domain.TechnicalInfo, error) {
	dataset, err := s.currentSurvey(ctx)
	if err != nil {
		return domain.TechnicalInfo{}, err
	}
	return domain.BuildTechnicalInfo(s.cfg.Profile, len(dataset.Records)), nil
}

func (s *Service) ListQuestions() []domain.Question {
	return append([]domain.Question(nil), domain.SurveyQuestions...)
}

func (s *Service) segmentRecords(ctx context.Context, segment string) ([]domain.SatisfactionRecord, error) {
	value, filter, err := domain.ParseSegment(segment)
	if err != nil {
		return nil, err
	}
	dataset, err := s.currentSurvey(ctx)
	if err != nil {
		return nil, err
	}
	if !filter {
		return dataset.Records, nil
	}
	return domain.FilterBySegment(dataset.Records, value), nil
}
