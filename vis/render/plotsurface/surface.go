// Package plotsurface draws figures to image and document files with gonum/plot.
// The output format follows the file extension: png, jpg, tif, svg, pdf or eps.
package plotsurface

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/gotvinne/Light-weight-MPC/vis/render"
)

const (
	defaultFontSize = 12
	defaultDPI      = 96
)

var validFormats = map[string]bool{
	"png": true, "jpg": true, "jpeg": true, "tif": true, "tiff": true,
	"svg": true, "pdf": true, "eps": true,
}

// Options tunes the output. Zero fields take defaults.
type Options struct {
	FontSize float64 // points, titles; labels and ticks scale from it
	DPI      int     // png, jpg and tif only
}

// Surface implements render.Surface. Nothing is written until Show.
type Surface struct {
	path   string
	format string
	opts   Options

	title string
	size  render.Size
	grid  [][]*plot.Plot
}

// New returns a Surface writing to path.
func New(path string, opts Options) (*Surface, error) {
	format := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if !validFormats[format] {
		return nil, fmt.Errorf("unsupported output format %q for %s; valid: png, jpg, tif, svg, pdf, eps", format, path)
	}
	if opts.FontSize <= 0 {
		opts.FontSize = defaultFontSize
	}
	if opts.DPI <= 0 {
		opts.DPI = defaultDPI
	}
	return &Surface{path: path, format: format, opts: opts}, nil
}

func (s *Surface) NewFigure(title string, size render.Size) error {
	if size.Width <= 0 || size.Height <= 0 {
		return fmt.Errorf("figure size must be positive, got %gx%g", size.Width, size.Height)
	}
	s.title = title
	s.size = size
	s.grid = nil
	return nil
}

func (s *Surface) Subplots(rows, cols int) error {
	if rows < 1 || cols < 1 {
		return fmt.Errorf("subplot grid must be at least 1x1, got %dx%d", rows, cols)
	}
	s.grid = make([][]*plot.Plot, rows)
	for j := range s.grid {
		s.grid[j] = make([]*plot.Plot, cols)
	}
	return nil
}

func (s *Surface) Axes(cell render.Cell) (render.Axes, error) {
	if cell.Row < 0 || cell.Row >= len(s.grid) || cell.Col < 0 || cell.Col >= len(s.grid[cell.Row]) {
		return nil, fmt.Errorf("cell %s outside subplot grid", cell)
	}
	p := s.grid[cell.Row][cell.Col]
	if p == nil {
		p = s.newPlot()
		s.grid[cell.Row][cell.Col] = p
	}
	return &axes{plot: p}, nil
}

func (s *Surface) newPlot() *plot.Plot {
	p := plot.New()
	size := vg.Points(s.opts.FontSize)
	p.Title.TextStyle.Font.Size = size
	p.X.Label.TextStyle.Font.Size = size * 0.9
	p.Y.Label.TextStyle.Font.Size = size * 0.9
	p.X.Tick.Label.Font.Size = size * 0.75
	p.Y.Tick.Label.Font.Size = size * 0.75
	p.Legend.TextStyle.Font.Size = size * 0.75
	p.Legend.Top = true
	return p
}

// Show lays the subplots out under the figure title and writes the file.
func (s *Surface) Show() error {
	if s.grid == nil {
		return fmt.Errorf("no subplots to draw")
	}
	w := vg.Length(s.size.Width) * vg.Inch
	h := vg.Length(s.size.Height) * vg.Inch

	c, err := s.canvas(w, h)
	if err != nil {
		return err
	}
	dc := draw.New(c)

	if s.title != "" {
		sty := plot.New().Title.TextStyle
		sty.Font.Size = vg.Points(s.opts.FontSize * 1.2)
		sty.XAlign = text.XCenter
		sty.YAlign = text.YTop
		dc.FillText(sty, vg.Point{X: dc.Center().X, Y: dc.Max.Y}, s.title)
		dc = draw.Crop(dc, 0, 0, 0, -sty.Height(s.title)*1.5)
	}

	pad := vg.Points(s.opts.FontSize)
	tiles := draw.Tiles{
		Rows:      len(s.grid),
		Cols:      len(s.grid[0]),
		PadX:      pad,
		PadY:      pad,
		PadTop:    pad / 2,
		PadBottom: pad / 2,
		PadLeft:   pad / 2,
		PadRight:  pad / 2,
	}
	canvases := plot.Align(s.grid, tiles, dc)
	for j, row := range s.grid {
		for i, p := range row {
			if p != nil {
				p.Draw(canvases[j][i])
			}
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
	if _, err := c.WriteTo(bw); err != nil {
		return fmt.Errorf("writing %s: %w", s.path, err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing %s: %w", s.path, err)
	}
	logrus.Infof("Wrote %s (%gx%g in, %s)", s.path, s.size.Width, s.size.Height, s.format)
	return nil
}

func (s *Surface) canvas(w, h vg.Length) (vg.CanvasWriterTo, error) {
	raster := func() *vgimg.Canvas { return vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(s.opts.DPI)) }
	switch s.format {
	case "png":
		return vgimg.PngCanvas{Canvas: raster()}, nil
	case "jpg", "jpeg":
		return vgimg.JpegCanvas{Canvas: raster()}, nil
	case "tif", "tiff":
		return vgimg.TiffCanvas{Canvas: raster()}, nil
	}
	c, err := draw.NewFormattedCanvas(w, h, s.format)
	if err != nil {
		return nil, fmt.Errorf("creating %s canvas: %w", s.format, err)
	}
	return c, nil
}
