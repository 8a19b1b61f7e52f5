package render

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"github.com/JhonLaurens/Medicion-del-Servicio-sub002/internal/domain"
	"github.com/JhonLaurens/Medicion-del-Servicio-sub002/internal/ports"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	chartHeight   = 480
	minChartWidth = 720
	barSlotWidth  = 72
)

// BarChartRenderer draws bar charts as PNG. Series are interleaved per
// category since the bar chart has a single value axis.
type BarChartRenderer struct{}

func NewBarChartRenderer() *BarChartRenderer {
	return &BarChartRenderer{}
}

func (r *BarChartRenderer) RenderBarChart(spec ports.BarChartSpec) ([]byte, error) {
	bars := make([]chart.Value, 0, len(spec.Categories)*len(spec.Series))
	maxValue := 0.0
	for i, category := range spec.Categories {
		for _, series := range spec.Series {
			value := 0.0
			if i < len(series.Values) {
				value = series.Values[i]
			}
			maxValue = math.Max(maxValue, value)
			label := category
			if len(spec.Series) > 1 {
				label = category + " · " + series.Label
			}
			color := colorFromHex(series.Color)
			bars = append(bars, chart.Value{
				Label: label,
				Value: value,
				Style: chart.Style{FillColor: color, StrokeColor: color, StrokeWidth: 1},
			})
		}
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("%w: chart has no data", domain.ErrNotFound)
	}

	upper := spec.MaxValue
	if upper <= 0 {
		upper = niceCeiling(maxValue)
	}
	graph := chart.BarChart{
		Title:      spec.Title,
		Width:      max(minChartWidth, barSlotWidth*len(bars)),
		Height:     chartHeight,
		BarWidth:   40,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: upper},
		},
		Bars: bars,
	}
	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	return buf.Bytes(), nil
}

func colorFromHex(hex string) drawing.Color {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if hex == "" {
		return chart.ColorBlue
	}
	return drawing.ColorFromHex(hex)
}

// niceCeiling rounds v up to 1, 2 or 5 times a power of ten. Zero maps to 1
// so the axis range is never empty.
func niceCeiling(v float64) float64 {
	if v <= 0 {
		return 1
	}
	exp := math.Pow(10, math.Floor(math.Log10(v)))
	for _, step := range []float64{1, 2, 5, 10} {
		if v <= step*exp {
			return step * exp
		}
	}
	return 10 * exp
}
