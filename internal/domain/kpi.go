package domain

import (
	"fmt"
	"sort"
)

type MetricStats struct {
	Average   float64 `json:"average"`
	Rating5   float64 `json:"rating5"`
	Rating4   float64 `json:"rating4"`
	Rating123 float64 `json:"rating123"`
	Total     int     `json:"total"`
}

type KPIData struct {
	MetricKey   MetricKey   `json:"metric_key"`
	Metric      string      `json:"metric"`
	Consolidado MetricStats `json:"consolidado"`
	Personas    MetricStats `json:"personas"`
	Empresarial MetricStats `json:"empresarial"`
}

// NPSData follows the dashboard convention: every record counts and an
// unanswered recommendation is a detractor. Answered and NPSScoreValidOnly
// restrict the same figures to in-scale answers.
type NPSData struct {
	Promoters         int `json:"promoters"`
	Passives          int `json:"passives"`
	Detractors        int `json:"detractors"`
	Total             int `json:"total"`
	NPSScore          int `json:"nps_score"`
	Answered          int `json:"answered"`
	NPSScoreValidOnly int `json:"nps_score_valid_only"`
}

type ChartDataPoint struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

type DepartmentPerformance struct {
	Department             string  `json:"department"`
	AverageRating          float64 `json:"average_rating"`
	AverageRatingValidOnly float64 `json:"average_rating_valid_only"`
	ResponseCount          int     `json:"response_count"`
}

type MonthlyTrend struct {
	Month          string  `json:"month"`
	Satisfaction   float64 `json:"satisfaction"`
	Loyalty        float64 `json:"loyalty"`
	Recommendation float64 `json:"recommendation"`
	Responses      int     `json:"responses"`
}

// ValidRatings returns the in-scale answers of a metric.
func ValidRatings(records []SatisfactionRecord, metric MetricKey) []int {
	values := make([]int, 0, len(records))
	for _, record := range records {
		if value := record.Rating(metric); IsValidRating(value) {
			values = append(values, value)
		}
	}
	return values
}

// AverageRating is the unrounded mean of the valid answers, 0 when none.
func AverageRating(records []SatisfactionRecord, metric MetricKey) float64 {
	values := ValidRatings(records, metric)
	if len(values) == 0 {
		return 0
	}
	sum := 0
	for _, value := range values {
		sum += value
	}
	return float64(sum) / float64(len(values))
}

func ComputeStats(records []SatisfactionRecord, metric MetricKey) MetricStats {
	values := ValidRatings(records, metric)
	total := len(values)
	if total == 0 {
		return MetricStats{}
	}
	sum, fives, fours, lows := 0, 0, 0, 0
	for _, value := range values {
		sum += value
		switch {
		case value == 5:
			fives++
		case value == 4:
			fours++
		default:
			lows++
		}
	}
	percent := func(count int) float64 {
		return Round(float64(count)/float64(total)*100, 1)
	}
	return MetricStats{
		Average:   Round(float64(sum)/float64(total), 2),
		Rating5:   percent(fives),
		Rating4:   percent(fours),
		Rating123: percent(lows),
		Total:     total,
	}
}

func BuildKPIData(records []SatisfactionRecord) []KPIData {
	personas := FilterBySegment(records, SegmentPersonas)
	empresarial := FilterBySegment(records, SegmentEmpresarial)
	out := make([]KPIData, 0, len(RatingMetrics))
	for _, metric := range RatingMetrics {
		out = append(out, KPIData{
			MetricKey:   metric,
			Metric:      MetricDisplayName(metric),
			Consolidado: ComputeStats(records, metric),
			Personas:    ComputeStats(personas, metric),
			Empresarial: ComputeStats(empresarial, metric),
		})
	}
	return out
}

// ComputeNPS classifies recommendation answers: 5 promotes, 4 is passive and
// anything else detracts, including records without an answer.
func ComputeNPS(records []SatisfactionRecord) NPSData {
	out := NPSData{Total: len(records)}
	validDetractors := 0
	for _, record := range records {
		switch value := record.Recomendacion; {
		case value == 5:
			out.Promoters++
		case value == 4:
			out.Passives++
		case IsValidRating(value):
			out.Detractors++
			validDetractors++
		default:
			out.Detractors++
		}
	}
	out.NPSScore = npsScore(out.Promoters, out.Detractors, out.Total)
	out.Answered = out.Promoters + out.Passives + validDetractors
	out.NPSScoreValidOnly = npsScore(out.Promoters, validDetractors, out.Answered)
	return out
}

func npsScore(promoters, detractors, total int) int {
	if total == 0 {
		return 0
	}
	promoterPct := float64(promoters) / float64(total) * 100
	detractorPct := float64(detractors) / float64(total) * 100
	return int(Round(promoterPct-detractorPct, 0))
}

func RatingDistribution(records []SatisfactionRecord, metric MetricKey) []ChartDataPoint {
	counts := [MaxRating + 1]int{}
	for _, value := range ValidRatings(records, metric) {
		counts[value]++
	}
	out := make([]ChartDataPoint, 0, MaxRating)
	for rating := MinRating; rating <= MaxRating; rating++ {
		out = append(out, ChartDataPoint{
			Name:  fmt.Sprintf("Rating %d", rating),
			Value: float64(counts[rating]),
		})
	}
	return out
}

// OverallAverage divides the general satisfaction sum by every record, so
// unanswered records pull the figure down.
func OverallAverage(records []SatisfactionRecord) float64 {
	if len(records) == 0 {
		return 0
	}
	sum := 0
	for _, record := range records {
		sum += record.SatisfaccionGeneral
	}
	return Round(float64(sum)/float64(len(records)), 2)
}

func OverallAverageValidOnly(records []SatisfactionRecord) float64 {
	return Round(AverageRating(records, MetricSatisfaccionGeneral), 2)
}

// DepartmentPerformances groups by agency, ascending by average satisfaction.
// The average is taken over every response of the agency.
func DepartmentPerformances(records []SatisfactionRecord) []DepartmentPerformance {
	type acc struct {
		sum      int
		validSum int
		valid    int
		count    int
	}
	order := []string{}
	byAgency := map[string]*acc{}
	for _, record := range records {
		current, ok := byAgency[record.Agencia]
		if !ok {
			current = &acc{}
			byAgency[record.Agencia] = current
			order = append(order, record.Agencia)
		}
		current.count++
		current.sum += record.SatisfaccionGeneral
		if IsValidRating(record.SatisfaccionGeneral) {
			current.validSum += record.SatisfaccionGeneral
			current.valid++
		}
	}
	out := make([]DepartmentPerformance, 0, len(order))
	for _, agency := range order {
		current := byAgency[agency]
		validOnly := 0.0
		if current.valid > 0 {
			validOnly = Round(float64(current.validSum)/float64(current.valid), 2)
		}
		out = append(out, DepartmentPerformance{
			Department:             agency,
			AverageRating:          Round(float64(current.sum)/float64(current.count), 2),
			AverageRatingValidOnly: validOnly,
			ResponseCount:          current.count,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].AverageRating < out[j].AverageRating })
	return out
}

// MonthlyTrends buckets responses by the month of DATE_MODIFIED. Records
// with an unparseable timestamp are skipped.
func MonthlyTrends(records []SatisfactionRecord) []MonthlyTrend {
	byMonth := map[string][]SatisfactionRecord{}
	for _, record := range records {
		at, ok := ParseSurveyTime(record.DateModified)
		if !ok {
			continue
		}
		key := at.Format("2006-01")
		byMonth[key] = append(byMonth[key], record)
	}
	months := make([]string, 0, len(byMonth))
	for month := range byMonth {
		months = append(months, month)
	}
	sort.Strings(months)
	out := make([]MonthlyTrend, 0, len(months))
	for _, month := range months {
		group := byMonth[month]
		out = append(out, MonthlyTrend{
			Month:          month,
			Satisfaction:   Round(AverageRating(group, MetricSatisfaccionGeneral), 2),
			Loyalty:        Round(AverageRating(group, MetricLealtad), 2),
			Recommendation: Round(AverageRating(group, MetricRecomendacion), 2),
			Responses:      len(group),
		})
	}
	return out
}
