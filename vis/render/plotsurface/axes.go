package plotsurface

import (
	"fmt"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/gotvinne/Light-weight-MPC/vis/render"
)

type legendEntry struct {
	label string
	thumb plot.Thumbnailer
}

// axes adapts one plot.Plot to render.Axes. Legend entries are collected as
// series are added and attached when Legend is called.
type axes struct {
	plot    *plot.Plot
	entries []legendEntry
}

func lineStyle(ls render.LineStyle) draw.LineStyle {
	style := draw.LineStyle{Color: ls.Color, Width: vg.Points(ls.Width)}
	if ls.Dashed {
		style.Dashes = []vg.Length{vg.Points(6), vg.Points(3)}
	}
	return style
}

func xys(x, y []float64) (plotter.XYs, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("x has %d samples, y has %d", len(x), len(y))
	}
	pts := make(plotter.XYs, len(x))
	for i := range x {
		pts[i].X = x[i]
		pts[i].Y = y[i]
	}
	return pts, nil
}

func (a *axes) add(x, y []float64, label string, ls render.LineStyle, step plotter.StepKind) error {
	pts, err := xys(x, y)
	if err != nil {
		return fmt.Errorf("%s: %w", label, err)
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("%s: %w", label, err)
	}
	line.LineStyle = lineStyle(ls)
	line.StepStyle = step
	a.plot.Add(line)
	a.entries = append(a.entries, legendEntry{label: label, thumb: line})
	return nil
}

func (a *axes) Line(x, y []float64, label string, ls render.LineStyle) error {
	return a.add(x, y, label, ls, plotter.NoStep)
}

// Step holds each value until the next sample.
func (a *axes) Step(x, y []float64, label string, ls render.LineStyle) error {
	return a.add(x, y, label, ls, plotter.PostStep)
}

func (a *axes) VLine(x float64, label string, ls render.LineStyle) error {
	v := &vLine{x: x, style: lineStyle(ls)}
	a.plot.Add(v)
	a.entries = append(a.entries, legendEntry{label: label, thumb: v})
	return nil
}

func (a *axes) SetTitle(title string)  { a.plot.Title.Text = title }
func (a *axes) SetXLabel(label string) { a.plot.X.Label.Text = label }
func (a *axes) SetYLabel(label string) { a.plot.Y.Label.Text = label }

func (a *axes) Legend() {
	for _, e := range a.entries {
		a.plot.Legend.Add(e.label, e.thumb)
	}
	a.entries = nil
}

func (a *axes) Grid() { a.plot.Add(plotter.NewGrid()) }

// vLine is a vertical line spanning the full y range of the plot.
type vLine struct {
	x     float64
	style draw.LineStyle
}

func (v *vLine) Plot(c draw.Canvas, p *plot.Plot) {
	trX, _ := p.Transforms(&c)
	x := trX(v.x)
	c.StrokeLine2(v.style, x, c.Min.Y, x, c.Max.Y)
}

// DataRange widens only the x range.
func (v *vLine) DataRange() (xmin, xmax, ymin, ymax float64) {
	return v.x, v.x, math.Inf(1), math.Inf(-1)
}

func (v *vLine) Thumbnail(c *draw.Canvas) {
	y := c.Center().Y
	c.StrokeLine2(v.style, c.Min.X, y, c.Max.X, y)
}
