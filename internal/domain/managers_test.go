package domain_test

import (
	"testing"

	"github.com/JhonLaurens/Medicion-del-Servicio-sub002/internal/domain"
)

func TestCategorizeManager(t *testing.T) {
	t.Parallel()

	cases := []struct {
		segmento, ciudad string
		want             domain.ManagerCategory
	}{
		{segmento: "PERSONAS", ciudad: "BOGOTA D.C.", want: domain.ManagerCategoryPersonas},
		{segmento: "EMPRESARIAL", ciudad: "Bogotá", want: domain.ManagerCategoryEmpresarialBogota},
		{segmento: "empresarial", ciudad: "MEDELLIN", want: domain.ManagerCategoryEmpresarialMedellin},
		{segmento: "EMPRESARIAL", ciudad: "CALI", want: domain.ManagerCategoryEmpresarialOther},
		{segmento: "Sin Segmento", ciudad: "CALI", want: domain.ManagerCategoryGeneral},
	}
	for _, tc := range cases {
		if got := domain.CategorizeManager(tc.segmento, tc.ciudad); got != tc.want {
			t.Fatalf("CategorizeManager(%q, %q) = %s, want %s", tc.segmento, tc.ciudad, got, tc.want)
		}
	}
}

func managerRecords() []domain.SatisfactionRecord {
	return []domain.SatisfactionRecord{
		{ID: "1", EjecutivoFinal: "Ana Gómez", Segmento: domain.SegmentPersonas, Ciudad: "MEDELLIN", Agencia: "SAN DIEGO", TipoEjecutivo: "asesor"},
		{ID: "2", EjecutivoFinal: "Ana Gómez", Segmento: domain.SegmentPersonas, Ciudad: "MEDELLIN", Agencia: "SAN DIEGO", TipoEjecutivo: "asesor"},
		{ID: "3", EjecutivoFinal: "ana  gómez ", Segmento: domain.SegmentPersonas, Ciudad: "MEDELLIN", Agencia: "SAN DIEGO"},
		{ID: "4", EjecutivoFinal: "Luis Pérez", Segmento: domain.SegmentEmpresarial, Ciudad: "BOGOTA D.C.", Agencia: "BOGOTA PRINCIPAL", TipoEjecutivo: "gerente"},
		{ID: "5", EjecutivoFinal: "Marta Ruiz", Segmento: domain.SegmentEmpresarial, Ciudad: "CALI", Agencia: "CALI NORTE"},
		{ID: "6", EjecutivoFinal: "", Segmento: domain.SegmentPersonas},
	}
}

func TestGroupManagersWithoutRoster(t *testing.T) {
	t.Parallel()

	managers, filtered := domain.GroupManagers(managerRecords(), nil, false)
	if filtered != 5 {
		t.Fatalf("expected 5 records with an executive, got %d", filtered)
	}
	if len(managers) != 3 {
		t.Fatalf("expected spelling variants to share a group, got %d managers", len(managers))
	}
	top := managers[0]
	if top.Name != "Ana Gómez" || top.Surveys != 3 || top.Percentage != 60 {
		t.Fatalf("unexpected top manager %+v", top)
	}
	if top.TipoEjecutivo != "ASESOR" || top.Category != domain.ManagerCategoryPersonas {
		t.Fatalf("expected uppercased tipo and personas category, got %+v", top)
	}
}

func TestGroupManagersKeepsFirstSpelling(t *testing.T) {
	t.Parallel()

	records := []domain.SatisfactionRecord{
		{ID: "1", EjecutivoFinal: "ANA  GÓMEZ", Segmento: domain.SegmentPersonas},
		{ID: "2", EjecutivoFinal: "Ana Gómez", Segmento: domain.SegmentPersonas},
		{ID: "3", EjecutivoFinal: " ana gómez", Segmento: domain.SegmentPersonas},
	}
	managers, filtered := domain.GroupManagers(records, nil, false)
	if filtered != 3 || len(managers) != 1 {
		t.Fatalf("expected one group, got filtered=%d managers=%+v", filtered, managers)
	}
	if managers[0].Name != "ANA  GÓMEZ" || managers[0].Surveys != 3 || managers[0].Percentage != 100 {
		t.Fatalf("unexpected manager %+v", managers[0])
	}
}

func TestGroupManagersWithRoster(t *testing.T) {
	t.Parallel()

	roster := domain.NewExecutiveRoster([]domain.ExecutiveToAnalyze{
		{EjecutivoFinal: "LUIS PÉREZ", Segmento: "EMPRESARIAL", Ciudad: "MEDELLIN", TipoEjecutivo: "Director"},
		{EjecutivoFinal: "Marta Ruiz"},
	})
	managers, filtered := domain.GroupManagers(managerRecords(), &roster, true)
	if filtered != 2 || len(managers) != 2 {
		t.Fatalf("expected only roster members, got filtered=%d managers=%d", filtered, len(managers))
	}
	for _, manager := range managers {
		if manager.Name == "Luis Pérez" {
			if manager.Ciudad != "MEDELLIN" || manager.Category != domain.ManagerCategoryEmpresarialMedellin || manager.TipoEjecutivo != "DIRECTOR" {
				t.Fatalf("expected roster attributes to win, got %+v", manager)
			}
			if manager.ExecutiveInfo == nil {
				t.Fatalf("expected executive info attached")
			}
		}
	}

	everyone, filtered := domain.GroupManagers(managerRecords(), &roster, false)
	if filtered != 5 || len(everyone) != 3 {
		t.Fatalf("expected every executive by default, got filtered=%d managers=%d", filtered, len(everyone))
	}
	for _, manager := range everyone {
		if manager.Name == "Luis Pérez" && manager.Ciudad != "MEDELLIN" {
			t.Fatalf("expected roster attributes without the restriction, got %+v", manager)
		}
	}
}

func TestBuildManagerReport(t *testing.T) {
	t.Parallel()

	report := domain.BuildManagerReport(managerRecords(), nil, domain.ManagerReportQuery{
		Category: domain.ManagerCategoryEmpresarialOther,
	})
	if report.TotalManagers != 1 || report.Managers[0].Name != "Marta Ruiz" {
		t.Fatalf("expected only empresarial-other managers, got %+v", report.Managers)
	}
	if len(report.Categories) != 4 {
		t.Fatalf("expected 4 category summaries, got %d", len(report.Categories))
	}
	personas := report.Categories[0]
	if personas.Name != "PERSONAS" || personas.Surveys != 3 || personas.Managers != 1 || personas.AverageSurveys != 3 {
		t.Fatalf("expected summaries over every manager, got %+v", personas)
	}
	if report.RosterApplied {
		t.Fatalf("expected roster not applied")
	}

	byAgency := domain.BuildManagerReport(managerRecords(), nil, domain.ManagerReportQuery{
		FilterType:  domain.FilterAgencia,
		FilterValue: "SAN DIEGO",
	})
	if byAgency.TotalSurveys != 3 || len(byAgency.Agencies) != 1 || byAgency.Agencies[0].TotalManagers != 1 {
		t.Fatalf("unexpected agency filtered report %+v", byAgency)
	}
}

func TestTopManagersLimit(t *testing.T) {
	t.Parallel()

	managers := make([]domain.ManagerData, 0, 12)
	for i := 0; i < 12; i++ {
		managers = append(managers, domain.ManagerData{Name: string(rune('A' + i)), Surveys: i})
	}
	top := domain.TopManagers(managers, domain.TopManagersLimit)
	if len(top) != 10 {
		t.Fatalf("expected 10 managers, got %d", len(top))
	}
	if top[0].Surveys != 11 {
		t.Fatalf("expected highest first, got %+v", top[0])
	}
	for _, manager := range top {
		if manager.Surveys == 0 {
			t.Fatalf("inactive managers must be excluded")
		}
	}
}

func TestParseManagerCategory(t *testing.T) {
	t.Parallel()

	if category, ok, err := domain.ParseManagerCategory("bogota"); err != nil || !ok || category != domain.ManagerCategoryEmpresarialBogota {
		t.Fatalf("unexpected parse result %s %v %v", category, ok, err)
	}
	if _, ok, err := domain.ParseManagerCategory("all"); err != nil || ok {
		t.Fatalf("expected all to disable the category filter")
	}
	if _, _, err := domain.ParseManagerCategory("norte"); err == nil {
		t.Fatalf("expected invalid category")
	}
}

func TestExecutiveRoster(t *testing.T) {
	t.Parallel()

	var empty domain.ExecutiveRoster
	if empty.Loaded() || empty.Includes("ana") {
		t.Fatalf("zero roster must be unloaded and empty")
	}
	roster := domain.NewExecutiveRoster([]domain.ExecutiveToAnalyze{
		{EjecutivoFinal: "  Ana   Gómez ", Agencia: "SAN DIEGO", TipoEjecutivo: "ASESOR", Segmento: "PERSONAS", Ciudad: "MEDELLIN"},
		{EjecutivoFinal: "Luis Pérez"},
	})
	if !roster.Includes("ana gómez") {
		t.Fatalf("expected normalized name match")
	}
	info, ok := roster.Info("ANA GÓMEZ")
	if !ok || info.Agencia != "SAN DIEGO" {
		t.Fatalf("unexpected info %+v ok=%v", info, ok)
	}
	stats := roster.Stats()
	if stats.Total != 2 || stats.ByTipo["Sin Tipo"] != 1 || stats.BySegmento["PERSONAS"] != 1 || stats.ByCiudad["Sin Ciudad"] != 1 || stats.ByAgencia["Sin Agencia"] != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestBuildExecutiveRequiresName(t *testing.T) {
	t.Parallel()

	if _, ok := domain.BuildExecutive(map[string]string{"AGENCIA": "SAN DIEGO"}); ok {
		t.Fatalf("expected row without EJECUTIVO_FINAL to be rejected")
	}
	entry, ok := domain.BuildExecutive(map[string]string{"EJECUTIVO_FINAL": " Ana ", "CIUDAD": " CALI "})
	if !ok || entry.EjecutivoFinal != "Ana" || entry.Ciudad != "CALI" {
		t.Fatalf("unexpected entry %+v ok=%v", entry, ok)
	}
}
