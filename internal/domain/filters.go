package domain

import (
	"sort"
	"strings"
)

type FilterType string

const (
	FilterTipoEjecutivo FilterType = "tipoEjecutivo"
	FilterSegmento      FilterType = "segmento"
	FilterCiudad        FilterType = "ciudad"
	FilterAgencia       FilterType = "agencia"
)

var FilterTypes = []FilterType{FilterTipoEjecutivo, FilterSegmento, FilterCiudad, FilterAgencia}

const FilterValueAll = "all"

const (
	DefaultTipo     = "Sin Tipo"
	DefaultSegmento = "Sin Segmento"
	DefaultCiudad   = "Sin Ciudad"
	DefaultAgencia  = "Sin Agencia"
)

func ParseFilterType(raw string) (FilterType, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "tipoejecutivo", "tipo_ejecutivo", "tipo":
		return FilterTipoEjecutivo, nil
	case "segmento", "segment":
		return FilterSegmento, nil
	case "ciudad", "city":
		return FilterCiudad, nil
	case "agencia", "agency":
		return FilterAgencia, nil
	default:
		return "", ErrInvalidInput
	}
}

// FilterValueOf returns the dimension value a record is grouped under.
// Executive types are compared uppercased.
func FilterValueOf(record SatisfactionRecord, filter FilterType) string {
	switch filter {
	case FilterTipoEjecutivo:
		return strings.ToUpper(orDefault(record.TipoEjecutivo, DefaultTipo))
	case FilterSegmento:
		return orDefault(string(record.Segmento), DefaultSegmento)
	case FilterCiudad:
		return orDefault(record.Ciudad, DefaultCiudad)
	case FilterAgencia:
		return orDefault(record.Agencia, DefaultAgencia)
	default:
		return ""
	}
}

func MatchesFilter(record SatisfactionRecord, filter FilterType, value string) bool {
	value = strings.TrimSpace(value)
	if value == "" || value == FilterValueAll {
		return true
	}
	if filter == FilterTipoEjecutivo {
		return FilterValueOf(record, filter) == strings.ToUpper(value)
	}
	return FilterValueOf(record, filter) == value
}

type UnifiedMetrics struct {
	AverageRating         float64 `json:"average_rating"`
	TotalResponses        int     `json:"total_responses"`
	ClaridadPromedio      float64 `json:"claridad_promedio"`
	RecomendacionPromedio float64 `json:"recomendacion_promedio"`
	SatisfaccionPromedio  float64 `json:"satisfaccion_promedio"`
	LealtadPromedio       float64 `json:"lealtad_promedio"`
}

type FilterStats struct {
	FilterValue  string `json:"filter_value"`
	TotalSurveys int    `json:"total_surveys"`
	UnifiedMetrics
}

// ComputeUnifiedMetrics averages each rating over the filtered records. The
// overall rating is the mean of the metric averages that are non-zero.
func ComputeUnifiedMetrics(records []SatisfactionRecord, filter FilterType, value string) UnifiedMetrics {
	filtered := make([]SatisfactionRecord, 0, len(records))
	for _, record := range records {
		if MatchesFilter(record, filter, value) {
			filtered = append(filtered, record)
		}
	}
	if len(filtered) == 0 {
		return UnifiedMetrics{}
	}
	averages := map[MetricKey]float64{}
	sum, nonZero := 0.0, 0
	for _, metric := range RatingMetrics {
		average := AverageRating(filtered, metric)
		averages[metric] = average
		if average > 0 {
			sum += average
			nonZero++
		}
	}
	overall := 0.0
	if nonZero > 0 {
		overall = sum / float64(nonZero)
	}
	return UnifiedMetrics{
		AverageRating:         Round(overall, 2),
		TotalResponses:        len(filtered),
		ClaridadPromedio:      Round(averages[MetricClaridadInformacion], 2),
		RecomendacionPromedio: Round(averages[MetricRecomendacion], 2),
		SatisfaccionPromedio:  Round(averages[MetricSatisfaccionGeneral], 2),
		LealtadPromedio:       Round(averages[MetricLealtad], 2),
	}
}

func ComputeFilterStats(records []SatisfactionRecord, filter FilterType) []FilterStats {
	values := []string{}
	seen := map[string]struct{}{}
	for _, record := range records {
		value := FilterValueOf(record, filter)
		if strings.TrimSpace(value) == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		values = append(values, value)
	}
	out := make([]FilterStats, 0, len(values))
	for _, value := range values {
		metrics := ComputeUnifiedMetrics(records, filter, value)
		if metrics.TotalResponses == 0 {
			continue
		}
		out = append(out, FilterStats{
			FilterValue:    value,
			TotalSurveys:   metrics.TotalResponses,
			UnifiedMetrics: metrics,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TotalSurveys > out[j].TotalSurveys })
	return out
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
