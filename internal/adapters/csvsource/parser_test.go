package csvsource_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/JhonLaurens/Medicion-del-Servicio-sub002/internal/adapters/csvsource"
	"github.com/JhonLaurens/Medicion-del-Servicio-sub002/internal/domain"
)

const surveyHeader = "ID;DATE_MODIFIED;SEGMENTO;CIUDAD;AGENCIA;TIPO EJECUTIVO;EJECUTIVO_FINAL;" +
	"En general   ¿La información suministrada en nuestros canales de atención fue clara y fácil de comprender?;" +
	"¿Qué tan probable es que usted le recomiende Coltefinanciera a sus colegas  familiares o amigos?;" +
	"En general   ¿Qué tan satisfecho se encuentra con los servicios que le ofrece Coltefinanciera?;" +
	"Asumiendo que otra entidad financiera le ofreciera al mismo precio los mismos productos y servicios que usted tiene actualmente con Coltefinanciera   ¿qué tan probable es que usted continúe siendo cliente de Coltefinanciera?;" +
	"¿Tiene alguna recomendación o sugerencia acerca del servicio que le ofrecemos en Coltefinanciera?"

func TestParseRemapsHeadersAndStripsBOM(t *testing.T) {
	t.Parallel()

	content := "\ufeff" + surveyHeader + "\n" +
		"1;2025-04-20 09:00:00;PERSONAS;MEDELLIN;SAN DIEGO;ASESOR;Ana Gómez;5;4;5;4;\"Todo bien; gracias\"\n" +
		"\n" +
		";;;;;;;;;;;\n" +
		"2;2025-04-21 09:00:00;EMPRESARIAL;BOGOTA D.C.;BOGOTA PRINCIPAL;GERENTE;Luis Pérez;3;2;3;2;\n"
	table, err := csvsource.Parse("datos.csv", []byte(content))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if table.TotalRows != 2 || len(table.Rows) != 2 {
		t.Fatalf("expected 2 data rows, got total=%d rows=%d", table.TotalRows, len(table.Rows))
	}
	want := []string{
		"ID", "DATE_MODIFIED", "SEGMENTO", "CIUDAD", "AGENCIA", "TIPO_EJECUTIVO", "EJECUTIVO_FINAL",
		"claridad_informacion", "recomendacion", "satisfaccion_general", "lealtad", "sugerencias",
	}
	if strings.Join(table.Headers, ",") != strings.Join(want, ",") {
		t.Fatalf("unexpected headers %v", table.Headers)
	}
	first := table.Rows[0]
	if first["sugerencias"] != "Todo bien; gracias" {
		t.Fatalf("expected quoted delimiter kept, got %q", first["sugerencias"])
	}
	if first["lealtad"] != "4" || first["TIPO_EJECUTIVO"] != "ASESOR" {
		t.Fatalf("unexpected first row %v", first)
	}
	if len(table.Warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", table.Warnings)
	}
}

func TestParseToleratesRaggedRows(t *testing.T) {
	t.Parallel()

	content := "ID;SEGMENTO;lealtad\n1;PERSONAS\n2;EMPRESARIAL;5;extra\n"
	table, err := csvsource.Parse("short.csv", []byte(content))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(table.Rows))
	}
	if value, ok := table.Rows[0]["lealtad"]; !ok || value != "" {
		t.Fatalf("expected missing cell padded as empty, got %q ok=%v", value, ok)
	}
	if table.Rows[1]["lealtad"] != "5" {
		t.Fatalf("expected extra cells dropped, got %v", table.Rows[1])
	}
	if len(table.Warnings) != 2 {
		t.Fatalf("expected one warning per ragged row, got %v", table.Warnings)
	}
}

func TestParseCapsWarnings(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	b.WriteString("ID;SEGMENTO;lealtad\n")
	for i := 0; i < 60; i++ {
		fmt.Fprintf(&b, "%d;PERSONAS\n", i)
	}
	table, err := csvsource.Parse("ragged.csv", []byte(b.String()))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(table.Warnings) != 51 {
		t.Fatalf("expected 50 warnings plus a summary, got %d", len(table.Warnings))
	}
	if last := table.Warnings[len(table.Warnings)-1]; last != "10 more warnings omitted" {
		t.Fatalf("unexpected summary %q", last)
	}
}

func TestParseEmptyContent(t *testing.T) {
	t.Parallel()

	if _, err := csvsource.Parse("empty.csv", []byte("\ufeff")); !errors.Is(err, domain.ErrNoValidRecords) {
		t.Fatalf("expected ErrNoValidRecords, got %v", err)
	}
}
