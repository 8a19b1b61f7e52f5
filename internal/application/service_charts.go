package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/JhonLaurens/Medicion-del-Servicio-sub002/internal/domain"
	"github.com/JhonLaurens/Medicion-del-Servicio-sub002/internal/ports"
)

const (
	ChartKPIs         = "kpis"
	ChartDistribution = "distribution"
	ChartCities       = "cities"
	ChartNPS          = "nps"
	ChartDepartments  = "departments"
)

const (
	colorPersonas    = "#3b82f6"
	colorEmpresarial = "#f59e0b"
	colorNeutral     = "#6366f1"
)

const maxChartCities = 12

// RenderChart draws one of the dashboard charts as PNG.
func (s *Service) RenderChart(ctx context.Context, input ChartInput) ([]byte, error) {
	if s.charts == nil {
		return nil, fmt.Errorf("%w: chart rendering disabled", domain.ErrNotFound)
	}
	spec, err := s.chartSpec(ctx, input)
	if err != nil {
		return nil, err
	}
	return s.charts.RenderBarChart(spec)
}

func (s *Service) chartSpec(ctx context.Context, input ChartInput) (ports.BarChartSpec, error) {
	switch strings.ToLower(strings.TrimSpace(input.Kind)) {
	case ChartKPIs, "":
		kpis, err := s.GetKPIData(ctx)
		if err != nil {
			return ports.BarChartSpec{}, err
		}
		spec := ports.BarChartSpec{
			Title:    "Promedio por métrica y segmento",
			MaxValue: domain.MaxRating,
			Series: []ports.BarSeries{
				{Label: "Personas", Color: colorPersonas},
				{Label: "Empresarial", Color: colorEmpresarial},
			},
		}
		for _, kpi := range kpis {
			spec.Categories = append(spec.Categories, kpi.Metric)
			spec.Series[0].Values = append(spec.Series[0].Values, kpi.Personas.Average)
			spec.Series[1].Values = append(spec.Series[1].Values, kpi.Empresarial.Average)
		}
		return spec, nil
	case ChartDistribution:
		points, err := s.GetRatingDistribution(ctx, input.Metric, input.Segment)
		if err != nil {
			return ports.BarChartSpec{}, err
		}
		metric, _ := domain.ParseMetricKey(input.Metric)
		spec := ports.BarChartSpec{Title: "Distribución - " + domain.MetricDisplayName(metric)}
		series := ports.BarSeries{Label: "Respuestas", Color: colorNeutral}
		for _, point := range points {
			spec.Categories = append(spec.Categories, point.Name)
			series.Values = append(series.Values, point.Value)
		}
		spec.Series = []ports.BarSeries{series}
		return spec, nil
	case ChartCities:
		cities, err := s.GetCityData(ctx)
		if err != nil {
			return ports.BarChartSpec{}, err
		}
		metric, err := domain.ParseMetricKey(input.Metric)
		if err != nil {
			return ports.BarChartSpec{}, err
		}
		spec := ports.BarChartSpec{Title: "Ciudades - " + domain.MetricDisplayName(metric), MaxValue: domain.MaxRating}
		series := ports.BarSeries{Label: "Promedio", Color: colorPersonas}
		for i, city := range cities {
			if i == maxChartCities {
				break
			}
			spec.Categories = append(spec.Categories, city.Ciudad)
			series.Values = append(series.Values, cityMetric(city.Metricas, metric))
		}
		spec.Series = []ports.BarSeries{series}
		return spec, nil
	case ChartNPS:
		nps, err := s.GetNPS(ctx, input.Segment)
		if err != nil {
			return ports.BarChartSpec{}, err
		}
		return ports.BarChartSpec{
			Title:      fmt.Sprintf("NPS %d", nps.NPSScore),
			Categories: []string{"Promotores", "Pasivos", "Detractores"},
			Series: []ports.BarSeries{{
				Label:  "Respuestas",
				Color:  colorNeutral,
				Values: []float64{float64(nps.Promoters), float64(nps.Passives), float64(nps.Detractors)},
			}},
		}, nil
	case ChartDepartments:
		departments, err := s.GetDepartmentPerformance(ctx)
		if err != nil {
			return ports.BarChartSpec{}, err
		}
		spec := ports.BarChartSpec{Title: "Satisfacción por agencia", MaxValue: domain.MaxRating}
		series := ports.BarSeries{Label: "Promedio", Color: colorEmpresarial}
		for _, department := range departments {
			spec.Categories = append(spec.Categories, department.Department)
			series.Values = append(series.Values, department.AverageRating)
		}
		spec.Series = []ports.BarSeries{series}
		return spec, nil
	default:
		return ports.BarChartSpec{}, domain.ErrInvalidInput
	}
}

func cityMetric(metrics domain.CityMetrics, metric domain.MetricKey) float64 {
	switch metric {
	case domain.MetricClaridadInformacion:
		return metrics.ClaridadInformacion
	case domain.MetricRecomendacion:
		return metrics.Recomendacion
	case domain.MetricLealtad:
		return metrics.Lealtad
	default:
		return metrics.SatisfaccionGeneral
	}
}
