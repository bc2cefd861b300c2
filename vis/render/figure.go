package render

import (
	"fmt"
	"strings"

	"github.com/gotvinne/Light-weight-MPC/vis/trace"
)

// Labels drawn on every figure.
const (
	XLabel              = "MPC horizon, t"
	LabelOutput         = "Output"
	LabelPredicted      = "Predicted output"
	LabelReference      = "Reference"
	LabelMeasured       = "Measured output"
	LabelActuation      = "Optimized actuation"
	LabelPlanned        = "Planned actuation"
	LabelUpperBound     = "Upper constraint"
	LabelLowerBound     = "Lower constraint"
	LabelPredictionAxis = "Prediction axis"
)

const openLoopPrefix = "sim_open_loop"

// Figure is a fully computed figure: the grid and every panel's data. It holds
// no backend state, so the same Figure can be drawn onto any Surface.
type Figure struct {
	Title  string
	Size   Size
	Layout Layout
	Panels []Panel
}

// Panel is one channel's subplot.
type Panel struct {
	Kind    string // trace.KindCV or trace.KindMV
	Channel int
	Cell    Cell
	Title   string
	XLabel  string
	YLabel  string
	Series  []Series
	Marker  *Marker
}

// Series is one drawn line. Step series are held constant between samples.
type Series struct {
	Role  Role
	Label string
	X     []float64
	Y     []float64
	Step  bool
}

// Marker is a vertical reference line.
type Marker struct {
	X     float64
	Label string
}

// Title returns the figure title for a simulation name.
func Title(simulation string) string {
	if strings.HasPrefix(simulation, openLoopPrefix) {
		return "Open loop simulation, " + simulation
	}
	return "MPC simulation data, " + simulation
}

// Compose lays out m and computes every panel without drawing anything.
func (r *Renderer) Compose(m *trace.Model, title string, size Size) (*Figure, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: no trace", ErrLayout)
	}
	layout, err := NewLayout(m.NumCV(), m.NumMV())
	if err != nil {
		return nil, err
	}
	fig := &Figure{
		Title:  title,
		Size:   size,
		Layout: layout,
		Panels: make([]Panel, 0, m.NumCV()+m.NumMV()),
	}
	for i := 0; i < m.NumCV(); i++ {
		cell, err := layout.CVCell(i)
		if err != nil {
			return nil, err
		}
		fig.Panels = append(fig.Panels, r.cvPanel(m, i, cell))
	}
	for i := 0; i < m.NumMV(); i++ {
		cell, err := layout.MVCell(i)
		if err != nil {
			return nil, err
		}
		fig.Panels = append(fig.Panels, r.mvPanel(m, i, cell))
	}
	return fig, nil
}

func (r *Renderer) cvPanel(m *trace.Model, i int, cell Cell) Panel {
	t := m.T()
	n := m.PredictionLen()
	y := m.Prediction(i)

	p := Panel{
		Kind:    trace.KindCV,
		Channel: i,
		Cell:    cell,
		Title:   r.panelTitle(m.Output(i), y, t),
		XLabel:  XLabel,
		YLabel:  m.CVUnit(i),
		Marker:  &Marker{X: float64(t), Label: LabelPredictionAxis},
	}
	p.Series = append(p.Series, splitAtNow(y, t, false, RoleOutput, LabelOutput, RolePredicted, LabelPredicted)...)
	if ref, ok := m.Reference(i); ok {
		p.Series = append(p.Series, Series{Role: RoleReference, Label: LabelReference, X: span(0, n), Y: ref})
	}
	if meas, ok := m.Measurement(i); ok {
		p.Series = append(p.Series, Series{Role: RoleMeasurement, Label: LabelMeasured, X: span(0, len(meas)), Y: meas})
	}
	if b, ok := m.CVConstraint(i); ok {
		p.Series = append(p.Series, constraintSeries(b, n)...)
	}
	return p
}

func (r *Renderer) mvPanel(m *trace.Model, i int, cell Cell) Panel {
	t := m.T()
	n := m.ActuationLen()
	u := m.Actuation(i)

	p := Panel{
		Kind:    trace.KindMV,
		Channel: i,
		Cell:    cell,
		Title:   r.panelTitle(m.Input(i), u, t),
		XLabel:  XLabel,
		YLabel:  m.MVUnit(i),
		Marker:  &Marker{X: float64(t), Label: LabelPredictionAxis},
	}
	p.Series = append(p.Series, splitAtNow(u, t, true, RoleActuation, LabelActuation, RolePlanned, LabelPlanned)...)
	if b, ok := m.MVConstraint(i); ok {
		p.Series = append(p.Series, constraintSeries(b, n)...)
	}
	return p
}

func (r *Renderer) panelTitle(name string, series []float64, t int) string {
	if !r.showLastValue {
		return name
	}
	return fmt.Sprintf("%s: %g", name, series[t-1])
}

// splitAtNow returns the realized segment [0, t) and, when the series runs past
// t, the predicted segment [t, len).
func splitAtNow(y []float64, t int, step bool, realized Role, realizedLabel string, predicted Role, predictedLabel string) []Series {
	out := []Series{{Role: realized, Label: realizedLabel, X: span(0, t), Y: y[:t:t], Step: step}}
	if len(y) > t {
		out = append(out, Series{Role: predicted, Label: predictedLabel, X: span(t, len(y)), Y: y[t:], Step: step})
	}
	return out
}

func constraintSeries(b trace.Bound, n int) []Series {
	return []Series{
		{Role: RoleConstraint, Label: LabelUpperBound, X: span(0, n), Y: constant(n, b.Upper)},
		{Role: RoleConstraint, Label: LabelLowerBound, X: span(0, n), Y: constant(n, b.Lower)},
	}
}

// span returns lo, lo+1, ..., hi-1.
func span(lo, hi int) []float64 {
	out := make([]float64, 0, hi-lo)
	for i := lo; i < hi; i++ {
		out = append(out, float64(i))
	}
	return out
}

func constant(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}
