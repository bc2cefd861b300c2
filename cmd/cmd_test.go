package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gotvinne/Light-weight-MPC/vis/render"
	"github.com/gotvinne/Light-weight-MPC/vis/trace"
)

func fixture(name string) string {
	return filepath.Join("..", "vis", "testdata", name)
}

// resetFlags restores flag defaults; package-level flag state survives between Execute calls.
func resetFlags() {
	logLevel = "warn"
	recordFile, simulation = "", ""
	simDir = filepath.Join("data", "simulations")
	schemaName = string(trace.SchemaCurrent)
	constraintMode = string(trace.ConstraintsFirstChannel)
	outPath, stylePath, exportPath = "", "", ""
	figSize, fontSize, dpi = 12, 12, 96
	showLastValue, waitForEnter = false, false
	listDir = filepath.Join("data", "simulations")
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestErrorKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("x.json: %w", trace.ErrFileAccess), "FileAccessError"},
		{fmt.Errorf("%w: n_CV missing", trace.ErrMalformedRecord), "MalformedRecordError"},
		{trace.ErrChannelLengthMismatch, "ChannelLengthMismatchError"},
		{trace.ErrInvalidConstraint, "InvalidConstraintError"},
		{fmt.Errorf("%w: no channels", render.ErrLayout), "LayoutError"},
		{render.ErrChannelIndex, "ChannelIndexError"},
		{errors.New("boom"), "Error"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, errorKind(tt.err))
		})
	}
}

func TestResolveRecordPath(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sim_step.yaml"), []byte("{}"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "plain.json"), []byte("{}"), 0644))

	tests := []struct {
		name, file, id, want string
	}{
		{"file wins", "explicit.json", "step", "explicit.json"},
		{"prefixed yaml found", "", "step", filepath.Join(dir, "sim_step.yaml")},
		{"bare stem found", "", "plain", filepath.Join(dir, "plain.json")},
		{"explicit extension", "", "other.yml", filepath.Join(dir, "other.yml")},
		{"missing falls back to sim_<id>.json", "", "absent", filepath.Join(dir, "sim_absent.json")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveRecordPath(tt.file, tt.id, dir)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := resolveRecordPath("", "", dir)
	assert.Error(t, err)
}

func TestPlotCmd_StepTest_WritesFigure(t *testing.T) {
	// GIVEN the step_test record and an SVG output path
	out := filepath.Join(t.TempDir(), "step.svg")

	// WHEN plotted
	stdout, err := execute(t, "", "plot", "--file", fixture("step_test.json"), "--out", out, "--fig-size", "6")

	// THEN the figure is written and reported
	require.NoError(t, err)
	assert.Contains(t, stdout, "Wrote "+out+" (2 panels)")
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<svg")
}

func TestPlotCmd_SimulationID_HTMLBackend(t *testing.T) {
	// GIVEN a record in a simulation directory, addressed by its identifier
	dir := t.TempDir()
	data, err := os.ReadFile(fixture("sim_closed_loop.json"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sim_two_tank.json"), data, 0644))
	out := filepath.Join(dir, "two_tank.html")

	// WHEN plotted to HTML with --wait fed an Enter key
	stdout, err := execute(t, "\n", "plot", "-s", "two_tank", "--sim-dir", dir, "--out", out, "--wait", "--last-value")

	// THEN the page carries the figure title derived from the record name
	require.NoError(t, err)
	assert.Contains(t, stdout, "Press Enter to exit")
	page, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(page), "MPC simulation data, sim_two_tank")
	assert.Contains(t, string(page), "upper tank: 14")
}

func TestPlotCmd_MissingRecord_FileAccessError(t *testing.T) {
	_, err := execute(t, "", "plot", "-s", "nope", "--sim-dir", t.TempDir())

	require.Error(t, err)
	assert.Equal(t, "FileAccessError", errorKind(err))
}

func TestPlotCmd_LegacyRecordNeedsSchemaFlag(t *testing.T) {
	out := filepath.Join(t.TempDir(), "legacy.svg")

	_, err := execute(t, "", "plot", "--file", fixture("legacy.json"), "--out", out)
	require.Error(t, err)
	assert.Equal(t, "MalformedRecordError", errorKind(err))

	_, err = execute(t, "", "plot", "--file", fixture("legacy.json"), "--out", out, "--schema", "legacy")
	assert.NoError(t, err)
}

func TestPlotCmd_InvalidFlags_Rejected(t *testing.T) {
	out := filepath.Join(t.TempDir(), "x.png")
	for _, args := range [][]string{
		{"plot", "--file", fixture("step_test.json"), "--out", out, "--schema", "v9"},
		{"plot", "--file", fixture("step_test.json"), "--out", out, "--constraints", "strict"},
		{"plot", "--file", fixture("step_test.json"), "--out", filepath.Join(t.TempDir(), "x.gif")},
		{"plot", "--file", fixture("step_test.json"), "--out", out, "--log", "loud"},
	} {
		_, err := execute(t, "", args...)
		require.Error(t, err, args)
		assert.Equal(t, "Error", errorKind(err), args)
	}
}

func TestSummaryCmd_PrintsYAML(t *testing.T) {
	stdout, err := execute(t, "", "summary", "--file", fixture("step_test.json"))

	require.NoError(t, err)
	assert.Contains(t, stdout, "scenario: step_test")
	assert.Contains(t, stdout, "last_realized: 6.5")
	assert.Contains(t, stdout, "name: valve")
}

func TestExportCmd_WritesCSV(t *testing.T) {
	out := filepath.Join(t.TempDir(), "step.csv")

	_, err := execute(t, "", "export", "--file", fixture("step_test.json"), "--out", out)

	require.NoError(t, err)
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "t,level.y_pred,valve.u\n"))
}

func TestListCmd_PrintsRecords(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"sim_b.json", "sim_a.json", "README.md"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0644))
	}

	stdout, err := execute(t, "", "list", "--sim-dir", dir)

	require.NoError(t, err)
	assert.Equal(t, "sim_a.json\nsim_b.json\n", stdout)
}
