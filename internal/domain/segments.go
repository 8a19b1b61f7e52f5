package domain

import "math"

type SegmentOverview struct {
	TotalResponses    int     `json:"total_responses"`
	PersonasResponses int     `json:"personas_responses"`
	EmpresasResponses int     `json:"empresas_responses"`
	PersonasAverage   float64 `json:"personas_average"`
	EmpresasAverage   float64 `json:"empresas_average"`
	Difference        float64 `json:"difference"`
}

type DistributionSlice struct {
	Rating     int     `json:"rating"`
	Name       string  `json:"name"`
	Value      int     `json:"value"`
	Percentage float64 `json:"percentage"`
	Color      string  `json:"color"`
}

type SegmentDistribution struct {
	PersonasData  []DistributionSlice `json:"personas_data"`
	EmpresasData  []DistributionSlice `json:"empresas_data"`
	PersonasTotal int                 `json:"personas_total"`
	EmpresasTotal int                 `json:"empresas_total"`
}

type SegmentLeader string

const (
	LeaderPersonas SegmentLeader = "Personas"
	LeaderEmpresas SegmentLeader = "Empresas"
	LeaderEmpate   SegmentLeader = "Empate"
)

type SegmentComparison struct {
	MetricKey MetricKey     `json:"metric_key"`
	Metric    string        `json:"metric"`
	Personas  float64       `json:"personas"`
	Empresas  float64       `json:"empresas"`
	Gap       float64       `json:"gap"`
	Leader    SegmentLeader `json:"leader"`
}

type SegmentAnalysis struct {
	Overview     SegmentOverview     `json:"overview"`
	Distribution SegmentDistribution `json:"distribution"`
	Comparison   []SegmentComparison `json:"comparison"`
}

var ratingLabels = [MaxRating]string{
	"1 - Muy Insatisfecho",
	"2 - Insatisfecho",
	"3 - Neutral",
	"4 - Satisfecho",
	"5 - Muy Satisfecho",
}

var RatingColors = [MaxRating]string{"#ef4444", "#f97316", "#eab308", "#22c55e", "#16a34a"}

func BuildSegmentAnalysis(records []SatisfactionRecord) SegmentAnalysis {
	personas := FilterBySegment(records, SegmentPersonas)
	empresas := FilterBySegment(records, SegmentEmpresarial)

	personasAverage := meanOfMetricAverages(personas)
	empresasAverage := meanOfMetricAverages(empresas)

	comparison := make([]SegmentComparison, 0, len(RatingMetrics))
	for _, metric := range RatingMetrics {
		p := ComputeStats(personas, metric).Average
		e := ComputeStats(empresas, metric).Average
		gap := Round(p-e, 2)
		leader := LeaderEmpate
		switch {
		case gap > 0:
			leader = LeaderPersonas
		case gap < 0:
			leader = LeaderEmpresas
		}
		comparison = append(comparison, SegmentComparison{
			MetricKey: metric,
			Metric:    MetricDisplayName(metric),
			Personas:  p,
			Empresas:  e,
			Gap:       math.Abs(gap),
			Leader:    leader,
		})
	}

	personasSlices, personasTotal := distributionSlices(personas)
	empresasSlices, empresasTotal := distributionSlices(empresas)
	return SegmentAnalysis{
		Overview: SegmentOverview{
			TotalResponses:    len(records),
			PersonasResponses: len(personas),
			EmpresasResponses: len(empresas),
			PersonasAverage:   Round(personasAverage, 2),
			EmpresasAverage:   Round(empresasAverage, 2),
			Difference:        Round(personasAverage-empresasAverage, 2),
		},
		Distribution: SegmentDistribution{
			PersonasData:  personasSlices,
			EmpresasData:  empresasSlices,
			PersonasTotal: personasTotal,
			EmpresasTotal: empresasTotal,
		},
		Comparison: comparison,
	}
}

// meanOfMetricAverages ignores metrics without any valid answer.
func meanOfMetricAverages(records []SatisfactionRecord) float64 {
	sum, count := 0.0, 0
	for _, metric := range RatingMetrics {
		if average := AverageRating(records, metric); average > 0 {
			sum += average
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// distributionSlices counts answers of every rating metric together.
func distributionSlices(records []SatisfactionRecord) ([]DistributionSlice, int) {
	counts := [MaxRating + 1]int{}
	total := 0
	for _, metric := range RatingMetrics {
		for _, value := range ValidRatings(records, metric) {
			counts[value]++
			total++
		}
	}
	out := make([]DistributionSlice, 0, MaxRating)
	for rating := MinRating; rating <= MaxRating; rating++ {
		slice := DistributionSlice{
			Rating: rating,
			Name:   ratingLabels[rating-1],
			Value:  counts[rating],
			Color:  RatingColors[rating-1],
		}
		if total > 0 {
			slice.Percentage = Round(float64(counts[rating])/float64(total)*100, 1)
		}
		out = append(out, slice)
	}
	return out, total
}
