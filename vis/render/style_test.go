package render

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeStyle(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "style.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaultStyle_RealizedSolidPredictedDashed(t *testing.T) {
	s := DefaultStyle()

	assert.False(t, s.Line(RoleOutput).Dashed)
	assert.True(t, s.Line(RolePredicted).Dashed)
	assert.Equal(t, s.Line(RoleOutput).Color, s.Line(RolePredicted).Color)
	assert.NotEqual(t, s.Line(RoleOutput).Color, s.Line(RoleReference).Color)
	assert.True(t, s.Line(RoleConstraint).Dashed)
	assert.Equal(t, "#000000", s.Line(RoleConstraint).Hex())
}

func TestStyle_With_LeavesReceiverUnchanged(t *testing.T) {
	base := DefaultStyle()
	changed := base.With(RoleReference, LineStyle{Color: color.RGBA{G: 0xff, A: 0xff}, Width: 2})

	assert.Equal(t, "#ff0000", base.Line(RoleReference).Hex())
	assert.Equal(t, "#00ff00", changed.Line(RoleReference).Hex())
}

func TestStyle_ZeroValue_FallsBackToDefaults(t *testing.T) {
	var s Style
	assert.Equal(t, DefaultStyle().Line(RoleActuation), s.Line(RoleActuation))
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.RGBA
		wantErr bool
	}{
		{in: "k", want: color.RGBA{A: 0xff}},
		{in: "#1a2b3c", want: color.RGBA{R: 0x1a, G: 0x2b, B: 0x3c, A: 0xff}},
		{in: " r ", want: color.RGBA{R: 0xff, A: 0xff}},
		{in: "purple", wantErr: true},
		{in: "#12345", wantErr: true},
		{in: "#zzzzzz", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadStyle_PartialOverride(t *testing.T) {
	// GIVEN a file restyling only the reference colour and constraint width
	path := writeStyle(t, "reference:\n  color: \"#00aa00\"\nconstraint:\n  width: 2.5\n")

	// WHEN loaded
	s, err := LoadStyle(path)

	// THEN only the named fields change
	require.NoError(t, err)
	assert.Equal(t, "#00aa00", s.Line(RoleReference).Hex())
	assert.Equal(t, 2.5, s.Line(RoleConstraint).Width)
	assert.True(t, s.Line(RoleConstraint).Dashed)
	assert.Equal(t, DefaultStyle().Line(RoleOutput), s.Line(RoleOutput))
}

func TestLoadStyle_UnknownRole_Rejected(t *testing.T) {
	path := writeStyle(t, "refrence:\n  color: r\n")

	_, err := LoadStyle(path)

	assert.Error(t, err)
}

func TestLoadStyle_UnknownField_Rejected(t *testing.T) {
	path := writeStyle(t, "output:\n  colour: r\n")

	_, err := LoadStyle(path)

	assert.Error(t, err)
}

func TestLoadStyle_BadValues_Rejected(t *testing.T) {
	for _, content := range []string{
		"output:\n  color: purple\n",
		"output:\n  width: 0\n",
	} {
		_, err := LoadStyle(writeStyle(t, content))
		assert.Error(t, err, content)
	}
}

func TestLoadStyle_EmptyFile_Defaults(t *testing.T) {
	s, err := LoadStyle(writeStyle(t, ""))

	require.NoError(t, err)
	assert.Equal(t, DefaultStyle().Line(RolePlanned), s.Line(RolePlanned))
}

func TestLoadStyle_MissingFile_Error(t *testing.T) {
	_, err := LoadStyle(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
