package domain

import (
	"sort"
	"strings"
)

type Comparison string

const (
	ComparisonHigher Comparison = "higher"
	ComparisonEqual  Comparison = "equal"
	ComparisonLower  Comparison = "lower"
)

// NationalTolerance is the band within which a city average counts as equal
// to the national one.
const NationalTolerance = 0.1

type CityMetrics struct {
	ClaridadInformacion float64 `json:"claridad_informacion"`
	SatisfaccionGeneral float64 `json:"satisfaccion_general"`
	Recomendacion       float64 `json:"recomendacion"`
	Lealtad             float64 `json:"lealtad"`
}

type CityComparison struct {
	ClaridadInformacion Comparison `json:"claridad_informacion"`
	SatisfaccionGeneral Comparison `json:"satisfaccion_general"`
	Recomendacion       Comparison `json:"recomendacion"`
	Lealtad             Comparison `json:"lealtad"`
}

type CityData struct {
	Ciudad           string         `json:"ciudad"`
	TotalEncuestados int            `json:"total_encuestados"`
	Metricas         CityMetrics    `json:"metricas"`
	Comparison       CityComparison `json:"comparison"`
}

func CompareToNational(cityAverage, nationalAverage float64) Comparison {
	diff := cityAverage - nationalAverage
	if diff < 0 {
		diff = -diff
	}
	if diff < NationalTolerance {
		return ComparisonEqual
	}
	if cityAverage > nationalAverage {
		return ComparisonHigher
	}
	return ComparisonLower
}

func metricAverages(records []SatisfactionRecord) CityMetrics {
	return CityMetrics{
		ClaridadInformacion: ComputeStats(records, MetricClaridadInformacion).Average,
		SatisfaccionGeneral: ComputeStats(records, MetricSatisfaccionGeneral).Average,
		Recomendacion:       ComputeStats(records, MetricRecomendacion).Average,
		Lealtad:             ComputeStats(records, MetricLealtad).Average,
	}
}

func BuildCityData(records []SatisfactionRecord) []CityData {
	national := metricAverages(records)
	order := []string{}
	byCity := map[string][]SatisfactionRecord{}
	for _, record := range records {
		city := record.Ciudad
		if strings.TrimSpace(city) == "" {
			continue
		}
		if _, ok := byCity[city]; !ok {
			order = append(order, city)
		}
		byCity[city] = append(byCity[city], record)
	}
	out := make([]CityData, 0, len(order))
	for _, city := range order {
		group := byCity[city]
		averages := metricAverages(group)
		out = append(out, CityData{
			Ciudad:           city,
			TotalEncuestados: len(group),
			Metricas:         averages,
			Comparison: CityComparison{
				ClaridadInformacion: CompareToNational(averages.ClaridadInformacion, national.ClaridadInformacion),
				SatisfaccionGeneral: CompareToNational(averages.SatisfaccionGeneral, national.SatisfaccionGeneral),
				Recomendacion:       CompareToNational(averages.Recomendacion, national.Recomendacion),
				Lealtad:             CompareToNational(averages.Lealtad, national.Lealtad),
			},
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TotalEncuestados > out[j].TotalEncuestados })
	return out
}

var agencyCity = map[string]string{
	"SAN DIEGO":                   "MEDELLIN",
	"MANIZALES":                   "MANIZALES",
	"BOGOTA PLAZA IMPERIAL":       "BOGOTA D.C.",
	"BARRANQUILLA":                "BARRANQUILLA",
	"BOGOTA PRINCIPAL":            "BOGOTA D.C.",
	"BOGOTA GRAN ESTACION":        "BOGOTA D.C.",
	"COLTEJER PRINCIPAL":          "MEDELLIN",
	"BOGOTA SANTA FE":             "BOGOTA D.C.",
	"BUCARAMANGA":                 "BUCARAMANGA",
	"UNICENTRO":                   "MEDELLIN",
	"PEREIRA":                     "PEREIRA",
	"BOGOTA EL NOGAL":             "BOGOTA D.C.",
	"BOGOTA CENTRO MAYOR":         "BOGOTA D.C.",
	"BOGOTA CENTRO INTERNACIONAL": "BOGOTA D.C.",
	"CALI NORTE":                  "CALI",
	"AGENCIA PRESTIGE":            "MEDELLIN",
	"OVIEDO":                      "MEDELLIN",
	"CUCUTA":                      "CUCUTA",
}

// CityForAgency resolves the city of a known agency. Unknown agencies are
// returned unchanged.
func CityForAgency(agencia string) string {
	if city, ok := agencyCity[strings.ToUpper(strings.TrimSpace(agencia))]; ok {
		return city
	}
	return agencia
}
