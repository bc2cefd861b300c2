package trace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListSimulations_OnlyRecordFilesSorted(t *testing.T) {
	// GIVEN a directory with records, an unrelated file and a subdirectory
	dir := t.TempDir()
	for _, name := range []string{"sim_b.json", "sim_a.yaml", "notes.txt", "sim_c.YML"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "archive.json"), 0755))

	// WHEN listed
	names, err := ListSimulations(dir)

	// THEN only record files are returned, sorted by name
	require.NoError(t, err)
	assert.Equal(t, []string{"sim_a.yaml", "sim_b.json", "sim_c.YML"}, names)
}

func TestListSimulations_MissingDir_FileAccess(t *testing.T) {
	_, err := ListSimulations(filepath.Join(t.TempDir(), "nope"))

	assert.ErrorIs(t, err, ErrFileAccess)
}
