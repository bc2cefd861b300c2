package htmlsurface

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gotvinne/Light-weight-MPC/vis/internal/testutil"
	"github.com/gotvinne/Light-weight-MPC/vis/render"
	"github.com/gotvinne/Light-weight-MPC/vis/trace"
)

func TestSurface_ClosedLoop_WritesOneChartPerPanel(t *testing.T) {
	// GIVEN the two-tank record (two CVs, one MV)
	m, err := trace.Load(testutil.TestdataPath(t, "sim_closed_loop.json"), trace.LoadOptions{})
	require.NoError(t, err)
	out := filepath.Join(t.TempDir(), "two_tank.html")

	// WHEN rendered to HTML
	_, err = render.NewRenderer(render.Config{}).Render(m, render.Title("two_tank"), render.Square(12), New(out))
	require.NoError(t, err)

	// THEN the page holds every panel with its series and the prediction axis mark line
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	html := string(data)
	assert.Contains(t, html, "<title>MPC simulation data, two_tank</title>")
	for _, want := range []string{"upper tank", "lower tank", "pump", render.LabelPredicted, render.LabelPlanned, render.LabelPredictionAxis} {
		assert.Contains(t, html, want)
	}
	assert.GreaterOrEqual(t, strings.Count(html, "echarts.init("), 3)
	assert.Contains(t, html, `"step":"end"`)
	assert.Contains(t, html, `"type":"dashed"`)
}

func TestSurface_AxesOutsideGrid_Error(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "f.html"))
	_, err := s.Axes(render.Cell{})
	assert.Error(t, err, "no grid yet")

	require.NoError(t, s.NewFigure("t", render.Square(4)))
	require.NoError(t, s.Subplots(1, 2))
	_, err = s.Axes(render.Cell{Row: 1, Col: 0})
	assert.Error(t, err)
}

func TestAxes_MismatchedSeries_Error(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "f.html"))
	require.NoError(t, s.NewFigure("t", render.Square(4)))
	require.NoError(t, s.Subplots(1, 1))
	ax, err := s.Axes(render.Cell{})
	require.NoError(t, err)

	err = ax.Step([]float64{0}, []float64{1, 2}, "bad", render.DefaultStyle().Line(render.RoleActuation))

	assert.Error(t, err)
}

func TestSurface_ShowWithoutGrid_Error(t *testing.T) {
	assert.Error(t, New(filepath.Join(t.TempDir(), "f.html")).Show())
}
