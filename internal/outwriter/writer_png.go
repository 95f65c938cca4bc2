package outwriter

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"

	"github.com/huangsam/motionreport/schema"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Size of each chart panel in the PNG output.
const (
	chartWidth  = 1024
	chartHeight = 320
)

// seriesColors cycles through the legend colors of a chart.
var seriesColors = []drawing.Color{
	chart.ColorBlue,
	chart.ColorGreen,
	chart.ColorRed,
	chart.ColorOrange,
	chart.ColorAlternateGray,
}

// lineStyle returns a style that renders a plain line in the given color.
func lineStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: 1.5,
		StrokeColor: col,
	}
}

// writePNGCharts renders every chart group and stacks the panels into one image.
func writePNGCharts(w io.Writer, out schema.ReportOutput) error {
	var panels []image.Image
	for _, g := range out.Groups {
		if g.Len() == 0 {
			continue
		}
		img, err := renderGroupChart(g)
		if err != nil {
			return fmt.Errorf("rendering %s chart: %w", g.Key, err)
		}
		panels = append(panels, img)
	}
	if len(panels) == 0 {
		return errors.New("no frames to plot")
	}

	height := 0
	for _, p := range panels {
		height += p.Bounds().Dy()
	}
	canvas := image.NewRGBA(image.Rect(0, 0, chartWidth, height))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)

	y := 0
	for _, p := range panels {
		r := image.Rect(0, y, p.Bounds().Dx(), y+p.Bounds().Dy())
		draw.Draw(canvas, r, p, p.Bounds().Min, draw.Over)
		y += p.Bounds().Dy()
	}
	return png.Encode(w, canvas)
}

// renderGroupChart plots each series of a group against its frame index.
func renderGroupChart(g schema.ChartGroup) (image.Image, error) {
	series := make([]chart.Series, 0, len(g.Series))
	for i, s := range g.Series {
		xs := make([]float64, s.Len())
		for j := range xs {
			xs[j] = float64(j)
		}
		ys := s.Values
		// Pad to at least two X values for go-chart
		if len(xs) == 1 {
			xs = []float64{0, 1}
			ys = []float64{ys[0], ys[0]}
		}
		series = append(series, chart.ContinuousSeries{
			Name:    s.Name,
			XValues: xs,
			YValues: ys,
			Style:   lineStyle(seriesColors[i%len(seriesColors)]),
		})
	}

	ch := chart.Chart{
		Title:      groupTitle(g.Key),
		Background: chart.Style{Padding: chart.Box{Top: 30, Left: 16, Right: 12, Bottom: 14}},
		XAxis:      chart.XAxis{Name: "frame"},
		YAxis:      chart.YAxis{Name: string(g.Key)},
		Series:     series,
	}
	if lo, hi, ok := flatRange(g); ok {
		// go-chart refuses a zero-height value range
		ch.YAxis.Range = &chart.ContinuousRange{Min: lo - 1, Max: hi + 1}
	}
	ch.Width = chartWidth
	ch.Height = chartHeight
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return png.Decode(&buf)
}

// flatRange reports whether every sample of a group has the same value.
func flatRange(g schema.ChartGroup) (float64, float64, bool) {
	first := true
	var lo, hi float64
	for _, s := range g.Series {
		for _, v := range s.Values {
			if first {
				lo, hi, first = v, v, false
				continue
			}
			lo, hi = min(lo, v), max(hi, v)
		}
	}
	return lo, hi, !first && lo == hi
}
