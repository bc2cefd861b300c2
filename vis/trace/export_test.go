package trace

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gotvinne/Light-weight-MPC/vis/internal/testutil"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestExportCSV_ClosedLoop_OneRowPerIndex(t *testing.T) {
	// GIVEN the two-tank record: predictions span 8 samples, actuation 6
	m, err := Load(testutil.TestdataPath(t, "sim_closed_loop.json"), LoadOptions{})
	require.NoError(t, err)
	out := filepath.Join(t.TempDir(), "out.csv")

	// WHEN exported
	require.NoError(t, ExportCSV(m, out))

	// THEN there is a header plus one row per time index of the longest series
	rows := readCSV(t, out)
	require.Len(t, rows, 1+8)
	assert.Equal(t, []string{
		"t",
		"upper tank.y_pred", "upper tank.ref",
		"lower tank.y_pred", "lower tank.ref",
		"pump.u",
	}, rows[0])
	assert.Equal(t, []string{"0", "10", "16", "20", "24", "6"}, rows[1])

	// AND cells past the end of the shorter actuation series are empty
	assert.Equal(t, "", rows[8][5])
	assert.Equal(t, "7", rows[8][0])
}

func TestExportCSV_UnwritablePath_Error(t *testing.T) {
	m, err := Load(testutil.TestdataPath(t, "step_test.json"), LoadOptions{})
	require.NoError(t, err)

	err = ExportCSV(m, filepath.Join(t.TempDir(), "missing", "out.csv"))

	assert.Error(t, err)
}
