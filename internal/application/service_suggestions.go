package application

import (
	"context"

	"github.com/JhonLaurens/Medicion-del-Servicio-sub002/internal/domain"
)

func (s *Service) GetSuggestionSummary() []domain.SuggestionSummary {
	return domain.ReferenceSuggestionSummary()
}

func (s *Service) ListSuggestionCategories() []domain.SuggestionCategory {
	return append([]domain.SuggestionCategory(nil), domain.SuggestionCategories...)
}

// AnalyzeSuggestions categorises the open-text answers of the loaded survey.
func (s *Service) AnalyzeSuggestions(ctx context.Context, segment string, includeItems bool) (SuggestionAnalysis, error) {
	records, err := s.segmentRecords(ctx, segment)
	if err != nil {
		return SuggestionAnalysis{}, err
	}
	texts := make([]string, 0, len(records))
	for _, record := range records {
		texts = append(texts, record.Sugerencias)
	}
	analyzed := domain.AnalyzeSuggestions(texts)
	out := SuggestionAnalysis{
		TotalRecords: len(records),
		Analyzed:     len(analyzed),
		Insights:     domain.BuildCategoryInsights(analyzed),
	}
	if includeItems {
		out.Suggestions = analyzed
	}
	return out, nil
}
