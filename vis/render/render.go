package render

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/gotvinne/Light-weight-MPC/vis/trace"
)

var (
	// ErrLayout is returned when a trace has no channels to lay out.
	ErrLayout = errors.New("layout error")
	// ErrChannelIndex is returned when a channel maps outside the allocated grid.
	ErrChannelIndex = errors.New("channel index error")
)

// Size is a figure size in inches.
type Size struct {
	Width  float64
	Height float64
}

// Square returns a side x side figure size.
func Square(side float64) Size { return Size{Width: side, Height: side} }

// Surface is a plotting backend. A figure is created, split into a grid, each
// cell is drawn through its Axes, and Show finishes the figure without
// blocking the caller.
type Surface interface {
	NewFigure(title string, size Size) error
	Subplots(rows, cols int) error
	Axes(cell Cell) (Axes, error)
	Show() error
}

// Axes draws into one grid cell.
type Axes interface {
	Line(x, y []float64, label string, style LineStyle) error
	// Step draws y held constant from x[i] until x[i+1].
	Step(x, y []float64, label string, style LineStyle) error
	VLine(x float64, label string, style LineStyle) error
	SetTitle(title string)
	SetXLabel(label string)
	SetYLabel(label string)
	Legend()
	Grid()
}

// Config configures a Renderer.
type Config struct {
	Style Style
	// ShowLastValue suffixes each panel title with the value at T-1.
	ShowLastValue bool
}

// Renderer turns a trace.Model into a Figure and draws it onto a Surface.
type Renderer struct {
	style         Style
	showLastValue bool
}

// NewRenderer returns a Renderer. A zero Config selects DefaultStyle.
func NewRenderer(cfg Config) *Renderer {
	style := cfg.Style
	if style.lines == nil {
		style = DefaultStyle()
	}
	return &Renderer{style: style, showLastValue: cfg.ShowLastValue}
}

// Render composes the figure for m and draws it onto surface.
func (r *Renderer) Render(m *trace.Model, title string, size Size, surface Surface) (*Figure, error) {
	fig, err := r.Compose(m, title, size)
	if err != nil {
		return nil, err
	}
	if err := r.Draw(fig, surface); err != nil {
		return nil, err
	}
	return fig, nil
}

// Draw replays fig onto surface, panel by panel, then shows it.
func (r *Renderer) Draw(fig *Figure, surface Surface) error {
	if err := surface.NewFigure(fig.Title, fig.Size); err != nil {
		return fmt.Errorf("creating figure: %w", err)
	}
	if err := surface.Subplots(fig.Layout.Rows(), fig.Layout.Columns); err != nil {
		return fmt.Errorf("creating %dx%d subplots: %w", fig.Layout.Rows(), fig.Layout.Columns, err)
	}
	for _, p := range fig.Panels {
		ax, err := surface.Axes(p.Cell)
		if err != nil {
			return fmt.Errorf("%w: panel %q at %s: %v", ErrChannelIndex, p.Title, p.Cell, err)
		}
		if err := r.drawPanel(ax, p); err != nil {
			return fmt.Errorf("drawing panel %q: %w", p.Title, err)
		}
	}
	logrus.Infof("Rendered %q: %dx%d grid, %d panels", fig.Title, fig.Layout.Rows(), fig.Layout.Columns, len(fig.Panels))
	return surface.Show()
}

func (r *Renderer) drawPanel(ax Axes, p Panel) error {
	if p.Marker != nil {
		if err := ax.VLine(p.Marker.X, p.Marker.Label, r.style.Line(RolePredictionAxis)); err != nil {
			return err
		}
	}
	for _, s := range p.Series {
		style := r.style.Line(s.Role)
		var err error
		if s.Step {
			err = ax.Step(s.X, s.Y, s.Label, style)
		} else {
			err = ax.Line(s.X, s.Y, s.Label, style)
		}
		if err != nil {
			return fmt.Errorf("series %q: %w", s.Label, err)
		}
	}
	ax.SetXLabel(p.XLabel)
	ax.SetYLabel(p.YLabel)
	ax.Legend()
	ax.Grid()
	ax.SetTitle(p.Title)
	return nil
}
