package render

import (
	"bytes"
	"errors"
	"testing"

	"github.com/JhonLaurens/Medicion-del-Servicio-sub002/internal/domain"
	"github.com/JhonLaurens/Medicion-del-Servicio-sub002/internal/ports"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func TestRenderBarChartProducesPNG(t *testing.T) {
	t.Parallel()
	png, err := NewBarChartRenderer().RenderBarChart(ports.BarChartSpec{
		Title:      "Promedios por segmento",
		Categories: []string{"Claridad", "Lealtad"},
		Series: []ports.BarSeries{
			{Label: "Personas", Color: "#0d47a1", Values: []float64{4.2, 3.9}},
			{Label: "Empresarial", Values: []float64{3.1}},
		},
		MaxValue: 5,
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(png, pngMagic) {
		t.Fatalf("expected png output")
	}
}

func TestRenderBarChartWithoutData(t *testing.T) {
	t.Parallel()
	_, err := NewBarChartRenderer().RenderBarChart(ports.BarChartSpec{Title: "vacío"})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRenderBarChartAllZero(t *testing.T) {
	t.Parallel()
	png, err := NewBarChartRenderer().RenderBarChart(ports.BarChartSpec{
		Categories: []string{"Rating 1", "Rating 2"},
		Series:     []ports.BarSeries{{Label: "Respuestas", Values: []float64{0, 0}}},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(png, pngMagic) {
		t.Fatalf("expected png output")
	}
}

func TestNiceCeiling(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in   float64
		want float64
	}{
		{0, 1},
		{-3, 1},
		{0.7, 1},
		{1, 1},
		{1.4, 2},
		{4.2, 5},
		{7, 10},
		{37, 50},
		{120, 200},
	}
	for _, tc := range cases {
		if got := niceCeiling(tc.in); got != tc.want {
			t.Fatalf("niceCeiling(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
