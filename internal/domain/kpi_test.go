package domain_test

import (
	"testing"

	"github.com/JhonLaurens/Medicion-del-Servicio-sub002/internal/domain"
)

func sampleRecords() []domain.SatisfactionRecord {
	return []domain.SatisfactionRecord{
		{ID: "1", DateModified: "2025-04-20 09:00:00", Segmento: domain.SegmentPersonas, Ciudad: "MEDELLIN", Agencia: "SAN DIEGO", TipoEjecutivo: "asesor", ClaridadInformacion: 5, Recomendacion: 5, SatisfaccionGeneral: 5, Lealtad: 5},
		{ID: "2", DateModified: "2025-04-22 10:00:00", Segmento: domain.SegmentPersonas, Ciudad: "MEDELLIN", Agencia: "SAN DIEGO", TipoEjecutivo: "ASESOR", ClaridadInformacion: 4, Recomendacion: 4, SatisfaccionGeneral: 4, Lealtad: 4},
		{ID: "3", DateModified: "2025-05-02 11:00:00", Segmento: domain.SegmentPersonas, Ciudad: "BOGOTA D.C.", Agencia: "BOGOTA PRINCIPAL", ClaridadInformacion: 3, Recomendacion: 2, SatisfaccionGeneral: 2, Lealtad: 0},
		{ID: "4", DateModified: "2025-05-03 12:00:00", Segmento: domain.SegmentEmpresarial, Ciudad: "BOGOTA D.C.", Agencia: "BOGOTA PRINCIPAL", TipoEjecutivo: "GERENTE", ClaridadInformacion: 5, Recomendacion: 5, SatisfaccionGeneral: 4, Lealtad: 5},
		{ID: "5", DateModified: "sin fecha", Segmento: domain.SegmentEmpresarial, Ciudad: "", Agencia: "", TipoEjecutivo: "GERENTE", ClaridadInformacion: 0, Recomendacion: 1, SatisfaccionGeneral: 0, Lealtad: 3},
	}
}

func TestComputeStats(t *testing.T) {
	t.Parallel()

	stats := domain.ComputeStats(sampleRecords(), domain.MetricSatisfaccionGeneral)
	// valid answers: 5, 4, 2, 4
	if stats.Total != 4 {
		t.Fatalf("expected 4 valid answers, got %d", stats.Total)
	}
	if stats.Average != 3.75 {
		t.Fatalf("expected average 3.75, got %v", stats.Average)
	}
	if stats.Rating5 != 25 || stats.Rating4 != 50 || stats.Rating123 != 25 {
		t.Fatalf("unexpected rating shares %+v", stats)
	}
	if empty := domain.ComputeStats(nil, domain.MetricLealtad); empty != (domain.MetricStats{}) {
		t.Fatalf("expected zero stats for empty group, got %+v", empty)
	}
}

func TestBuildKPIDataOrderAndSegments(t *testing.T) {
	t.Parallel()

	kpis := domain.BuildKPIData(sampleRecords())
	if len(kpis) != 4 {
		t.Fatalf("expected 4 kpis, got %d", len(kpis))
	}
	wantNames := []string{"Claridad de Información", "Recomendación (NPS)", "Satisfacción General", "Lealtad"}
	for i, kpi := range kpis {
		if kpi.Metric != wantNames[i] {
			t.Fatalf("kpi %d: expected %q, got %q", i, wantNames[i], kpi.Metric)
		}
	}
	lealtad := kpis[3]
	if lealtad.Personas.Total != 2 || lealtad.Empresarial.Total != 2 || lealtad.Consolidado.Total != 4 {
		t.Fatalf("unexpected lealtad totals %+v", lealtad)
	}
	if lealtad.Empresarial.Average != 4 {
		t.Fatalf("expected empresarial lealtad 4, got %v", lealtad.Empresarial.Average)
	}
}

func TestComputeNPS(t *testing.T) {
	t.Parallel()

	nps := domain.ComputeNPS(sampleRecords())
	// recomendacion: 5, 4, 2, 5, 1
	if nps.Promoters != 2 || nps.Passives != 1 || nps.Detractors != 2 || nps.Total != 5 {
		t.Fatalf("unexpected nps buckets %+v", nps)
	}
	if nps.NPSScore != 0 {
		t.Fatalf("expected nps 0, got %d", nps.NPSScore)
	}

	promoters := []domain.SatisfactionRecord{{Recomendacion: 5}, {Recomendacion: 5}, {Recomendacion: 4}, {Recomendacion: 0}}
	got := domain.ComputeNPS(promoters)
	if got.Total != 4 || got.Detractors != 1 || got.NPSScore != 25 {
		t.Fatalf("expected nps 25 over 4 records, got %+v", got)
	}
	if got.Answered != 3 || got.NPSScoreValidOnly != 67 {
		t.Fatalf("expected valid-only nps 67 over 3 answers, got %+v", got)
	}
	if got := domain.ComputeNPS(nil); got != (domain.NPSData{}) {
		t.Fatalf("expected zero nps, got %+v", got)
	}
}

func TestRatingDistribution(t *testing.T) {
	t.Parallel()

	points := domain.RatingDistribution(sampleRecords(), domain.MetricRecomendacion)
	want := []float64{1, 1, 0, 1, 2}
	if len(points) != 5 {
		t.Fatalf("expected 5 points, got %d", len(points))
	}
	for i, point := range points {
		if point.Value != want[i] {
			t.Fatalf("%s: expected %v, got %v", point.Name, want[i], point.Value)
		}
	}
	if points[0].Name != "Rating 1" {
		t.Fatalf("unexpected label %q", points[0].Name)
	}
}

func TestOverallAverageCountsEveryRecord(t *testing.T) {
	t.Parallel()

	if got := domain.OverallAverage(sampleRecords()); got != 3 {
		t.Fatalf("expected 3, got %v", got)
	}
	if got := domain.OverallAverageValidOnly(sampleRecords()); got != 3.75 {
		t.Fatalf("expected valid-only 3.75, got %v", got)
	}
	if got := domain.OverallAverage(nil); got != 0 {
		t.Fatalf("expected 0 for no records, got %v", got)
	}
}

func TestUnansweredRecordsLowerHeadlineFigures(t *testing.T) {
	t.Parallel()

	records := []domain.SatisfactionRecord{
		{Agencia: "SAN DIEGO", Recomendacion: 5, SatisfaccionGeneral: 5},
		{Agencia: "SAN DIEGO", Recomendacion: 5, SatisfaccionGeneral: 5},
		{Agencia: "SAN DIEGO"},
		{Agencia: "SAN DIEGO"},
	}
	nps := domain.ComputeNPS(records)
	if nps.Detractors != 2 || nps.NPSScore != 0 || nps.Total != 4 {
		t.Fatalf("expected unanswered records as detractors, got %+v", nps)
	}
	if nps.Answered != 2 || nps.NPSScoreValidOnly != 100 {
		t.Fatalf("unexpected valid-only nps %+v", nps)
	}
	if got := domain.OverallAverage(records); got != 2.5 {
		t.Fatalf("expected overall 2.5, got %v", got)
	}
	departments := domain.DepartmentPerformances(records)
	if len(departments) != 1 || departments[0].AverageRating != 2.5 || departments[0].AverageRatingValidOnly != 5 {
		t.Fatalf("unexpected department figures %+v", departments)
	}
}

func TestDepartmentPerformancesAscending(t *testing.T) {
	t.Parallel()

	departments := domain.DepartmentPerformances(sampleRecords())
	if len(departments) != 3 {
		t.Fatalf("expected 3 agencies, got %d", len(departments))
	}
	if departments[0].Department != "" || departments[0].AverageRating != 0 {
		t.Fatalf("expected agency without answers first, got %+v", departments[0])
	}
	if departments[1].Department != "BOGOTA PRINCIPAL" || departments[1].AverageRating != 3 || departments[1].ResponseCount != 2 {
		t.Fatalf("unexpected second agency %+v", departments[1])
	}
	if departments[2].Department != "SAN DIEGO" || departments[2].AverageRating != 4.5 {
		t.Fatalf("unexpected last agency %+v", departments[2])
	}
}

func TestMonthlyTrendsFromTimestamps(t *testing.T) {
	t.Parallel()

	trends := domain.MonthlyTrends(sampleRecords())
	if len(trends) != 2 {
		t.Fatalf("expected 2 months, got %d", len(trends))
	}
	if trends[0].Month != "2025-04" || trends[0].Responses != 2 || trends[0].Satisfaction != 4.5 {
		t.Fatalf("unexpected april trend %+v", trends[0])
	}
	if trends[1].Month != "2025-05" || trends[1].Loyalty != 5 {
		t.Fatalf("unexpected may trend %+v", trends[1])
	}
}

func TestBuildCityData(t *testing.T) {
	t.Parallel()

	cities := domain.BuildCityData(sampleRecords())
	if len(cities) != 2 {
		t.Fatalf("expected 2 cities, got %d", len(cities))
	}
	if cities[0].Ciudad != "MEDELLIN" || cities[0].TotalEncuestados != 2 {
		t.Fatalf("unexpected first city %+v", cities[0])
	}
	if cities[0].Comparison.SatisfaccionGeneral != domain.ComparisonHigher {
		t.Fatalf("expected medellin above national, got %s", cities[0].Comparison.SatisfaccionGeneral)
	}
	if cities[1].Comparison.SatisfaccionGeneral != domain.ComparisonLower {
		t.Fatalf("expected bogota below national, got %s", cities[1].Comparison.SatisfaccionGeneral)
	}
}

func TestCompareToNational(t *testing.T) {
	t.Parallel()

	cases := []struct {
		city, national float64
		want           domain.Comparison
	}{
		{city: 4.05, national: 4.0, want: domain.ComparisonEqual},
		{city: 3.95, national: 4.0, want: domain.ComparisonEqual},
		{city: 4.2, national: 4.0, want: domain.ComparisonHigher},
		{city: 3.8, national: 4.0, want: domain.ComparisonLower},
	}
	for _, tc := range cases {
		if got := domain.CompareToNational(tc.city, tc.national); got != tc.want {
			t.Fatalf("CompareToNational(%v, %v) = %s, want %s", tc.city, tc.national, got, tc.want)
		}
	}
}

func TestCityForAgency(t *testing.T) {
	t.Parallel()

	if got := domain.CityForAgency("san diego"); got != "MEDELLIN" {
		t.Fatalf("expected MEDELLIN, got %s", got)
	}
	if got := domain.CityForAgency("AGENCIA NUEVA"); got != "AGENCIA NUEVA" {
		t.Fatalf("expected unknown agency echoed back, got %s", got)
	}
}
