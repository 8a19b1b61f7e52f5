package ports

import "github.com/JhonLaurens/Medicion-del-Servicio-sub002/internal/domain"

type BarSeries struct {
	Label  string
	Color  string
	Values []float64
}

// BarChartSpec describes a bar chart. With several series each category
// gets one bar per series.
type BarChartSpec struct {
	Title      string
	Categories []string
	Series     []BarSeries
	MaxValue   float64
}

type ChartRenderer interface {
	RenderBarChart(spec BarChartSpec) ([]byte, error)
}

type ReportEncoder interface {
	Encode(format string, table domain.ReportTable) (content []byte, contentType string, err error)
}
