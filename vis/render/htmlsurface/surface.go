// Package htmlsurface draws figures as an interactive go-echarts HTML page,
// one chart per panel in row-major order.
package htmlsurface

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/sirupsen/logrus"

	"github.com/gotvinne/Light-weight-MPC/vis/render"
)

// pixels per inch of figure size
const pixelsPerInch = 96

// Surface implements render.Surface. Charts are built and written on Show,
// since echarts axis options are set once per chart.
type Surface struct {
	path string

	title      string
	size       render.Size
	rows, cols int
	cells      map[render.Cell]*axes
}

// New returns a Surface writing an HTML page to path.
func New(path string) *Surface {
	return &Surface{path: path}
}

func (s *Surface) NewFigure(title string, size render.Size) error {
	if size.Width <= 0 || size.Height <= 0 {
		return fmt.Errorf("figure size must be positive, got %gx%g", size.Width, size.Height)
	}
	s.title = title
	s.size = size
	s.cells = nil
	return nil
}

func (s *Surface) Subplots(rows, cols int) error {
	if rows < 1 || cols < 1 {
		return fmt.Errorf("subplot grid must be at least 1x1, got %dx%d", rows, cols)
	}
	s.rows, s.cols = rows, cols
	s.cells = make(map[render.Cell]*axes)
	return nil
}

func (s *Surface) Axes(cell render.Cell) (render.Axes, error) {
	if s.cells == nil {
		return nil, fmt.Errorf("no subplot grid")
	}
	if cell.Row < 0 || cell.Row >= s.rows || cell.Col < 0 || cell.Col >= s.cols {
		return nil, fmt.Errorf("cell %s outside %dx%d subplot grid", cell, s.rows, s.cols)
	}
	a, ok := s.cells[cell]
	if !ok {
		a = &axes{}
		s.cells[cell] = a
	}
	return a, nil
}

// Show builds one chart per drawn cell and writes the page.
func (s *Surface) Show() error {
	if s.cells == nil {
		return fmt.Errorf("no subplots to draw")
	}
	width := fmt.Sprintf("%dpx", int(s.size.Width*pixelsPerInch)/s.cols)
	height := fmt.Sprintf("%dpx", int(s.size.Height*pixelsPerInch)/s.rows)

	page := components.NewPage()
	page.PageTitle = s.title
	page.SetLayout(components.PageFlexLayout)
	for row := 0; row < s.rows; row++ {
		for col := 0; col < s.cols; col++ {
			a, ok := s.cells[render.Cell{Row: row, Col: col}]
			if !ok {
				continue
			}
			page.AddCharts(a.chart(width, height))
		}
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", s.path, err)
	}
	defer func() { _ = f.Close() }()

	bw := bufio.NewWriter(f)
	if err := page.Render(bw); err != nil {
		return fmt.Errorf("rendering %s: %w", s.path, err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing %s: %w", s.path, err)
	}
	logrus.Infof("Wrote %s (%d charts)", s.path, len(s.cells))
	return nil
}

// chartOpts are the global options every panel chart shares.
func chartOpts(title, xLabel, yLabel, width, height string, legend, grid bool) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{Width: width, Height: height}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(legend), Top: "bottom"}),
		charts.WithXAxisOpts(opts.XAxis{
			Type:      "value",
			Name:      xLabel,
			SplitLine: &opts.SplitLine{Show: opts.Bool(grid)},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type:      "value",
			Name:      yLabel,
			SplitLine: &opts.SplitLine{Show: opts.Bool(grid)},
		}),
	}
}
