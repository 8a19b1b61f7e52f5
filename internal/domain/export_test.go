package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/JhonLaurens/Medicion-del-Servicio-sub002/internal/domain"
)

func TestExportFileName(t *testing.T) {
	t.Parallel()

	at := time.Date(2025, 6, 1, 15, 0, 0, 0, time.UTC)
	if got := domain.ExportFileName(domain.ReportKPIs, domain.FormatCSV, at); got != "dashboard-satisfaccion-2025-06-01.csv" {
		t.Fatalf("unexpected kpi file name %q", got)
	}
	if got := domain.ExportFileName(domain.ReportFilterStats, domain.FormatXLSX, at); got != "dashboard-satisfaccion-filter-stats-2025-06-01.xlsx" {
		t.Fatalf("unexpected filter stats file name %q", got)
	}
}

func TestValidateExportInput(t *testing.T) {
	t.Parallel()

	if err := domain.ValidateExportFormat(" XLSX "); err != nil {
		t.Fatalf("expected xlsx accepted: %v", err)
	}
	if err := domain.ValidateExportFormat("pdf"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input for pdf, got %v", err)
	}
	if err := domain.ValidateReportType("departments"); err != nil {
		t.Fatalf("expected departments accepted: %v", err)
	}
	if err := domain.ValidateReportType("ventas"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid report type, got %v", err)
	}
}

func TestRecordsTableOmitsContactData(t *testing.T) {
	t.Parallel()

	table := domain.RecordsTable([]domain.SatisfactionRecord{{ID: "1", Email: "a@b.co", IPAddress: "10.0.0.1", Cedula: "123"}})
	for _, column := range table.Columns {
		switch column {
		case domain.ColumnEmail, domain.ColumnIPAddress, domain.ColumnCedula:
			t.Fatalf("column %s must not be exported", column)
		}
	}
	if len(table.Rows) != 1 || len(table.Rows[0]) != len(table.Columns) {
		t.Fatalf("row width must match columns")
	}
}

func TestBuildTechnicalInfo(t *testing.T) {
	t.Parallel()

	info := domain.BuildTechnicalInfo(domain.SurveyProfile{}, 1203)
	if info.UniversoTotal != 24067 || info.NivelConfianza != "95%" || info.MargenError != "2,50%" {
		t.Fatalf("expected default profile, got %+v", info.SurveyProfile)
	}
	if info.TotalEncuestados != 1203 || info.PorcentajeRespuesta != 5 {
		t.Fatalf("unexpected respondents %d / %v", info.TotalEncuestados, info.PorcentajeRespuesta)
	}
}
