package domain_test

import (
	"testing"

	"github.com/JhonLaurens/Medicion-del-Servicio-sub002/internal/domain"
)

func TestComputeUnifiedMetricsByTipo(t *testing.T) {
	t.Parallel()

	metrics := domain.ComputeUnifiedMetrics(sampleRecords(), domain.FilterTipoEjecutivo, "asesor")
	if metrics.TotalResponses != 2 {
		t.Fatalf("expected case-insensitive tipo match on 2 records, got %d", metrics.TotalResponses)
	}
	if metrics.AverageRating != 4.5 || metrics.ClaridadPromedio != 4.5 {
		t.Fatalf("unexpected metrics %+v", metrics)
	}
}

func TestComputeUnifiedMetricsSkipsEmptyMetrics(t *testing.T) {
	t.Parallel()

	records := []domain.SatisfactionRecord{
		{ID: "1", Ciudad: "CALI", ClaridadInformacion: 4, Recomendacion: 0, SatisfaccionGeneral: 2, Lealtad: 0},
	}
	metrics := domain.ComputeUnifiedMetrics(records, domain.FilterCiudad, "CALI")
	if metrics.AverageRating != 3 {
		t.Fatalf("expected mean of non-zero averages 3, got %v", metrics.AverageRating)
	}
	if none := domain.ComputeUnifiedMetrics(records, domain.FilterCiudad, "PASTO"); none != (domain.UnifiedMetrics{}) {
		t.Fatalf("expected zero metrics without matches, got %+v", none)
	}
	if all := domain.ComputeUnifiedMetrics(records, domain.FilterCiudad, domain.FilterValueAll); all.TotalResponses != 1 {
		t.Fatalf("expected all to match every record, got %+v", all)
	}
}

func TestComputeFilterStats(t *testing.T) {
	t.Parallel()

	stats := domain.ComputeFilterStats(sampleRecords(), domain.FilterTipoEjecutivo)
	if len(stats) != 3 {
		t.Fatalf("expected ASESOR, SIN TIPO and GERENTE rows, got %+v", stats)
	}
	if stats[0].FilterValue != "ASESOR" || stats[0].TotalSurveys != 2 {
		t.Fatalf("unexpected first row %+v", stats[0])
	}
	if stats[1].FilterValue != "GERENTE" || stats[1].TotalSurveys != 2 {
		t.Fatalf("unexpected second row %+v", stats[1])
	}
	if stats[2].FilterValue != "SIN TIPO" || stats[2].TotalSurveys != 1 {
		t.Fatalf("unexpected default row %+v", stats[2])
	}
}

func TestParseFilterType(t *testing.T) {
	t.Parallel()

	if filter, err := domain.ParseFilterType("city"); err != nil || filter != domain.FilterCiudad {
		t.Fatalf("expected ciudad, got %s err=%v", filter, err)
	}
	if filter, err := domain.ParseFilterType(""); err != nil || filter != domain.FilterTipoEjecutivo {
		t.Fatalf("expected tipoEjecutivo default, got %s err=%v", filter, err)
	}
	if _, err := domain.ParseFilterType("region"); err == nil {
		t.Fatalf("expected invalid filter error")
	}
}

func TestBuildSegmentAnalysis(t *testing.T) {
	t.Parallel()

	analysis := domain.BuildSegmentAnalysis(sampleRecords())
	if analysis.Overview.TotalResponses != 5 || analysis.Overview.PersonasResponses != 3 || analysis.Overview.EmpresasResponses != 2 {
		t.Fatalf("unexpected overview %+v", analysis.Overview)
	}
	if len(analysis.Comparison) != 4 {
		t.Fatalf("expected 4 comparisons, got %d", len(analysis.Comparison))
	}
	claridad := analysis.Comparison[0]
	if claridad.Leader != domain.LeaderEmpresas || claridad.Gap != 1 {
		t.Fatalf("unexpected claridad comparison %+v", claridad)
	}
	for _, comparison := range analysis.Comparison {
		if comparison.Gap < 0 {
			t.Fatalf("gap must be absolute, got %+v", comparison)
		}
	}
	if len(analysis.Distribution.PersonasData) != 5 || analysis.Distribution.PersonasData[4].Name != "5 - Muy Satisfecho" {
		t.Fatalf("unexpected personas distribution %+v", analysis.Distribution.PersonasData)
	}
	sum := 0
	for _, slice := range analysis.Distribution.EmpresasData {
		sum += slice.Value
	}
	if sum != analysis.Distribution.EmpresasTotal || sum != 6 {
		t.Fatalf("expected 6 empresas answers, got sum=%d total=%d", sum, analysis.Distribution.EmpresasTotal)
	}
}

func TestSegmentAnalysisTie(t *testing.T) {
	t.Parallel()

	records := []domain.SatisfactionRecord{
		{Segmento: domain.SegmentPersonas, ClaridadInformacion: 4},
		{Segmento: domain.SegmentEmpresarial, ClaridadInformacion: 4},
	}
	analysis := domain.BuildSegmentAnalysis(records)
	if analysis.Comparison[0].Leader != domain.LeaderEmpate || analysis.Comparison[0].Gap != 0 {
		t.Fatalf("expected tie, got %+v", analysis.Comparison[0])
	}
}
