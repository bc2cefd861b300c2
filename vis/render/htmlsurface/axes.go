package htmlsurface

import (
	"fmt"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/gotvinne/Light-weight-MPC/vis/render"
)

type series struct {
	label  string
	data   []opts.LineData
	step   bool
	style  render.LineStyle
	marker *float64 // x of a vertical mark line; data is empty
}

// axes records one panel until the page is built.
type axes struct {
	title, xLabel, yLabel string
	legend, grid          bool
	series                []series
}

func pairs(x, y []float64) ([]opts.LineData, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("x has %d samples, y has %d", len(x), len(y))
	}
	data := make([]opts.LineData, len(x))
	for i := range x {
		data[i] = opts.LineData{Value: []interface{}{x[i], y[i]}}
	}
	return data, nil
}

func (a *axes) add(x, y []float64, label string, ls render.LineStyle, step bool) error {
	data, err := pairs(x, y)
	if err != nil {
		return fmt.Errorf("%s: %w", label, err)
	}
	a.series = append(a.series, series{label: label, data: data, step: step, style: ls})
	return nil
}

func (a *axes) Line(x, y []float64, label string, ls render.LineStyle) error {
	return a.add(x, y, label, ls, false)
}

func (a *axes) Step(x, y []float64, label string, ls render.LineStyle) error {
	return a.add(x, y, label, ls, true)
}

func (a *axes) VLine(x float64, label string, ls render.LineStyle) error {
	a.series = append(a.series, series{label: label, style: ls, marker: &x})
	return nil
}

func (a *axes) SetTitle(title string)  { a.title = title }
func (a *axes) SetXLabel(label string) { a.xLabel = label }
func (a *axes) SetYLabel(label string) { a.yLabel = label }
func (a *axes) Legend()                { a.legend = true }
func (a *axes) Grid()                  { a.grid = true }

func echartsLineStyle(ls render.LineStyle) opts.LineStyle {
	style := opts.LineStyle{Color: ls.Hex(), Width: float32(ls.Width), Type: "solid"}
	if ls.Dashed {
		style.Type = "dashed"
	}
	return style
}

func (a *axes) chart(width, height string) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(chartOpts(a.title, a.xLabel, a.yLabel, width, height, a.legend, a.grid)...)

	for _, s := range a.series {
		style := echartsLineStyle(s.style)
		seriesOpts := []charts.SeriesOpts{
			charts.WithLineStyleOpts(style),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: style.Color}),
		}
		if s.marker != nil {
			seriesOpts = append(seriesOpts,
				charts.WithMarkLineNameXAxisItemOpts(opts.MarkLineNameXAxisItem{Name: s.label, XAxis: *s.marker}),
				charts.WithMarkLineStyleOpts(opts.MarkLineStyle{Symbol: []string{"none"}, LineStyle: &style}),
			)
			line.AddSeries(s.label, []opts.LineData{}, seriesOpts...)
			continue
		}
		lineOpts := opts.LineChart{ShowSymbol: opts.Bool(false)}
		if s.step {
			// "end" holds each value until the next sample.
			lineOpts.Step = "end"
		}
		seriesOpts = append(seriesOpts, charts.WithLineChartOpts(lineOpts))
		line.AddSeries(s.label, s.data, seriesOpts...)
	}
	return line
}
