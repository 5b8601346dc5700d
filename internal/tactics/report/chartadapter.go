package report

import (
	"bytes"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/matchforge/tactics-engine/internal/tactics/geometry"
)

// ChartAdapter renders tracking data into chart bytes for the composer's
// chart sections. It uses go-echarts rather than a raster plotting library,
// producing embeddable HTML snippets — PDF/HTML page rendering itself stays
// out of scope, delegated to an external renderer.
type ChartAdapter struct {
	Pitch geometry.Pitch
}

// NewChartAdapter builds a ChartAdapter over the canonical pitch.
func NewChartAdapter(pitch geometry.Pitch) *ChartAdapter {
	return &ChartAdapter{Pitch: pitch}
}

// Position is a single (x, y) sample in pitch meters.
type Position struct {
	X, Y float64
}

// Heatmap renders a position-density heatmap over a coarse pitch grid.
func (a *ChartAdapter) Heatmap(title string, positions []Position, gridCols, gridRows int) ChartSection {
	if gridCols <= 0 {
		gridCols = 21
	}
	if gridRows <= 0 {
		gridRows = 14
	}
	counts := make([][]int, gridCols)
	for i := range counts {
		counts[i] = make([]int, gridRows)
	}
	for _, p := range positions {
		col := clampIndex(int(p.X/a.Pitch.Length*float64(gridCols)), gridCols)
		row := clampIndex(int(p.Y/a.Pitch.Width*float64(gridRows)), gridRows)
		counts[col][row]++
	}

	xLabels := make([]string, gridCols)
	for i := range xLabels {
		xLabels[i] = intToLabel(i)
	}
	yLabels := make([]string, gridRows)
	for i := range yLabels {
		yLabels[i] = intToLabel(i)
	}

	var data []opts.HeatMapData
	for x := 0; x < gridCols; x++ {
		for y := 0; y < gridRows; y++ {
			data = append(data, opts.HeatMapData{Value: [3]interface{}{x, y, counts[x][y]}})
		}
	}

	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", Data: xLabels}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Data: yLabels}),
		charts.WithVisualMapOpts(opts.VisualMap{Calculable: true}),
	)
	hm.AddSeries("density", data)

	var buf bytes.Buffer
	hm.Render(&buf)
	return ChartSection{Title: title, Description: "Player position density across the pitch", Bytes: buf.Bytes()}
}

// PitchControlFrame renders the home/away starting positions as a scatter
// chart at a single frame.
func (a *ChartAdapter) PitchControlFrame(title string, home, away []Position) ChartSection {
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithXAxisOpts(opts.XAxis{Min: 0, Max: a.Pitch.Length}),
		charts.WithYAxisOpts(opts.YAxis{Min: 0, Max: a.Pitch.Width}),
	)
	scatter.AddSeries("home", toScatterData(home))
	scatter.AddSeries("away", toScatterData(away))

	var buf bytes.Buffer
	scatter.Render(&buf)
	return ChartSection{Title: title, Description: "Player positions at match start", Bytes: buf.Bytes()}
}

func toScatterData(positions []Position) []opts.ScatterData {
	data := make([]opts.ScatterData, 0, len(positions))
	for _, p := range positions {
		data = append(data, opts.ScatterData{Value: [2]float64{p.X, p.Y}})
	}
	return data
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

func intToLabel(i int) string {
	const digits = "0123456789"
	if i < 10 {
		return string(digits[i])
	}
	return string(digits[i/10]) + string(digits[i%10])
}
