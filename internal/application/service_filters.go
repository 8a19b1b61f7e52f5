package application

import (
	"context"
	"strings"

	"github.com/JhonLaurens/Medicion-del-Servicio-sub002/internal/domain"
)

func (s *Service) GetUnifiedMetrics(ctx context.Context, input FilterInput) (domain.UnifiedMetrics, error) {
	filter, err := domain.ParseFilterType(input.FilterType)
	if err != nil {
		return domain.UnifiedMetrics{}, err
	}
	dataset, err := s.currentSurvey(ctx)
	if err != nil {
		return domain.UnifiedMetrics{}, err
	}
	return domain.ComputeUnifiedMetrics(dataset.Records, filter, strings.TrimSpace(input.FilterValue)), nil
}

func (s *Service) GetFilterStats(ctx context.Context, filterType string) ([]domain.FilterStats, error) {
	filter, err := domain.ParseFilterType(filterType)
	if err != nil {
		return nil, err
	}
	dataset, err := s.currentSurvey(ctx)
	if err != nil {
		return nil, err
	}
	return cachedAggregate(ctx, s, dataset, "filter_stats:"+string(filter), func() []domain.FilterStats {
		return domain.ComputeFilterStats(dataset.Records, filter)
	}), nil
}
