package application

import (
	"context"
	"strings"

	"github.com/JhonLaurens/Medicion-del-Servicio-sub002/internal/domain"
)

// GetManagerReport groups surveys by executive over every record. A loaded
// roster supplies executive attributes and, with RosterOnly, restricts the
// report to its members.
func (s *Service) GetManagerReport(ctx context.Context, input ManagerReportInput) (domain.ManagerReport, error) {
	category, _, err := domain.ParseManagerCategory(input.Category)
	if err != nil {
		return domain.ManagerReport{}, err
	}
	filter, err := domain.ParseFilterType(input.FilterType)
	if err != nil {
		return domain.ManagerReport{}, err
	}
	dataset, err := s.currentSurvey(ctx)
	if err != nil {
		return domain.ManagerReport{}, err
	}
	roster, err := s.currentRoster(ctx)
	if err != nil {
		return domain.ManagerReport{}, err
	}
	return domain.BuildManagerReport(dataset.Records, roster, domain.ManagerReportQuery{
		Category:    category,
		FilterType:  filter,
		FilterValue: strings.TrimSpace(input.FilterValue),
		RosterOnly:  input.RosterOnly,
	}), nil
}

func (s *Service) GetExecutiveStats(ctx context.Context) (domain.ExecutiveStats, error) {
	roster, err := s.currentRoster(ctx)
	if err != nil {
		return domain.ExecutiveStats{}, err
	}
	if roster == nil {
		return domain.ExecutiveStats{}, domain.ErrDatasetNotLoaded
	}
	return roster.Stats(), nil
}

func (s *Service) ListExecutives(ctx context.Context) ([]domain.ExecutiveToAnalyze, error) {
	roster, err := s.currentRoster(ctx)
	if err != nil {
		return nil, err
	}
	if roster == nil {
		return nil, domain.ErrDatasetNotLoaded
	}
	return roster.Entries(), nil
}

func (s *Service) CheckExecutive(ctx context.Context, name string) (ExecutiveMatch, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return ExecutiveMatch{}, domain.ErrInvalidInput
	}
	roster, err := s.currentRoster(ctx)
	if err != nil {
		return ExecutiveMatch{}, err
	}
	if roster == nil {
		return ExecutiveMatch{}, domain.ErrDatasetNotLoaded
	}
	match := ExecutiveMatch{Name: name}
	if info, ok := roster.Info(name); ok {
		match.Included = true
		match.Info = &info
	}
	return match, nil
}
