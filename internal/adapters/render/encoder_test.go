package render_test

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/JhonLaurens/Medicion-del-Servicio-sub002/internal/adapters/render"
	"github.com/JhonLaurens/Medicion-del-Servicio-sub002/internal/domain"
	"github.com/xuri/excelize/v2"
)

func sampleTable() domain.ReportTable {
	return domain.ReportTable{
		Name:    "Ciudades con cobertura nacional ampliada",
		Columns: []string{"Ciudad", "Encuestas", "Satisfacción"},
		Rows: [][]any{
			{"MEDELLÍN", 12, 4.25},
			{"BOGOTÁ D.C.; NORTE", 3, nil},
		},
	}
}

func TestEncodeCSVUsesSemicolonAndBOM(t *testing.T) {
	t.Parallel()
	content, contentType, err := render.NewTableEncoder().Encode("CSV", sampleTable())
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if contentType != render.ContentTypeCSV {
		t.Fatalf("unexpected content type %q", contentType)
	}
	if !bytes.HasPrefix(content, []byte("\ufeff")) {
		t.Fatalf("expected utf-8 bom")
	}
	reader := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(content, []byte("\ufeff"))))
	reader.Comma = ';'
	records, err := reader.ReadAll()
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(records))
	}
	if records[1][1] != "12" || records[1][2] != "4.25" {
		t.Fatalf("unexpected first row %v", records[1])
	}
	if records[2][0] != "BOGOTÁ D.C.; NORTE" || records[2][2] != "" {
		t.Fatalf("expected quoted delimiter and empty nil cell, got %v", records[2])
	}
}

func TestEncodeJSONKeysRowsByColumn(t *testing.T) {
	t.Parallel()
	content, contentType, err := render.NewTableEncoder().Encode("json", sampleTable())
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if contentType != render.ContentTypeJSON {
		t.Fatalf("unexpected content type %q", contentType)
	}
	var decoded struct {
		Report  string           `json:"report"`
		Columns []string         `json:"columns"`
		Rows    []map[string]any `json:"rows"`
	}
	if err := json.Unmarshal(content, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Report != sampleTable().Name || len(decoded.Rows) != 2 {
		t.Fatalf("unexpected payload %+v", decoded)
	}
	if decoded.Rows[0]["Ciudad"] != "MEDELLÍN" || decoded.Rows[0]["Encuestas"] != float64(12) {
		t.Fatalf("unexpected row %v", decoded.Rows[0])
	}
}

func TestEncodeXLSXWritesNamedSheet(t *testing.T) {
	t.Parallel()
	content, contentType, err := render.NewTableEncoder().Encode("xlsx", sampleTable())
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if contentType != render.ContentTypeXLSX {
		t.Fatalf("unexpected content type %q", contentType)
	}
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	sheet := string([]rune(sampleTable().Name)[:31])
	rows, err := f.GetRows(sheet)
	if err != nil {
		t.Fatalf("get rows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if strings.Join(rows[0], "|") != "Ciudad|Encuestas|Satisfacción" {
		t.Fatalf("unexpected header %v", rows[0])
	}
	if rows[1][0] != "MEDELLÍN" || rows[1][1] != "12" {
		t.Fatalf("unexpected data row %v", rows[1])
	}
}

func TestEncodeRejectsUnknownFormat(t *testing.T) {
	t.Parallel()
	if _, _, err := render.NewTableEncoder().Encode("pdf", sampleTable()); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}
