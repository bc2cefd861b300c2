package render

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Role names what a series means on a panel. Styles are keyed by role.
type Role string

const (
	RoleOutput         Role = "output"
	RolePredicted      Role = "predicted"
	RoleReference      Role = "reference"
	RoleMeasurement    Role = "measurement"
	RoleActuation      Role = "actuation"
	RolePlanned        Role = "planned"
	RoleConstraint     Role = "constraint"
	RolePredictionAxis Role = "prediction_axis"
)

// LineStyle is how one series is stroked. Width is in points.
type LineStyle struct {
	Color  color.RGBA
	Dashed bool
	Width  float64
}

// Hex returns the colour as #rrggbb.
func (ls LineStyle) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", ls.Color.R, ls.Color.G, ls.Color.B)
}

// Style maps every role to a line style. A Style is a value; With returns a
// modified copy and never touches the receiver.
type Style struct {
	lines map[Role]LineStyle
}

// single-letter colours accepted in style files
var namedColors = map[string]color.RGBA{
	"b": {R: 0x00, G: 0x00, B: 0xff, A: 0xff},
	"g": {R: 0x00, G: 0x80, B: 0x00, A: 0xff},
	"r": {R: 0xff, G: 0x00, B: 0x00, A: 0xff},
	"c": {R: 0x00, G: 0xbf, B: 0xbf, A: 0xff},
	"m": {R: 0xbf, G: 0x00, B: 0xbf, A: 0xff},
	"y": {R: 0xbf, G: 0xbf, B: 0x00, A: 0xff},
	"k": {R: 0x00, G: 0x00, B: 0x00, A: 0xff},
	"w": {R: 0xff, G: 0xff, B: 0xff, A: 0xff},
}

// DefaultStyle returns the stock palette: magenta outputs, red reference, blue
// actuation and black constraint lines.
func DefaultStyle() Style {
	return Style{lines: map[Role]LineStyle{
		RoleOutput:         {Color: namedColors["m"], Width: 1.5},
		RolePredicted:      {Color: namedColors["m"], Dashed: true, Width: 1.5},
		RoleReference:      {Color: namedColors["r"], Width: 1.5},
		RoleMeasurement:    {Color: namedColors["c"], Width: 1.5},
		RoleActuation:      {Color: namedColors["b"], Width: 1.5},
		RolePlanned:        {Color: namedColors["b"], Dashed: true, Width: 1.5},
		RoleConstraint:     {Color: namedColors["k"], Dashed: true, Width: 1},
		RolePredictionAxis: {Color: namedColors["k"], Width: 1},
	}}
}

// Line returns the style for role. Unknown roles get the output style.
func (s Style) Line(role Role) LineStyle {
	if ls, ok := s.lines[role]; ok {
		return ls
	}
	if s.lines == nil {
		return DefaultStyle().Line(role)
	}
	return s.lines[RoleOutput]
}

// With returns a copy of s with role restyled.
func (s Style) With(role Role, ls LineStyle) Style {
	base := s.lines
	if base == nil {
		base = DefaultStyle().lines
	}
	lines := make(map[Role]LineStyle, len(base)+1)
	for r, v := range base {
		lines[r] = v
	}
	lines[role] = ls
	return Style{lines: lines}
}

// ParseColor accepts a single-letter colour (b g r c m y k w) or #rrggbb.
func ParseColor(s string) (color.RGBA, error) {
	s = strings.TrimSpace(s)
	if c, ok := namedColors[s]; ok {
		return c, nil
	}
	if len(s) != 7 || s[0] != '#' {
		return color.RGBA{}, fmt.Errorf("unknown colour %q; use one of bgrcmykw or #rrggbb", s)
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("unknown colour %q: %v", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

type lineOverride struct {
	Color  *string  `yaml:"color"`
	Dashed *bool    `yaml:"dashed"`
	Width  *float64 `yaml:"width"`
}

// styleFile lists every role so that KnownFields(true) rejects misspelt ones.
type styleFile struct {
	Output         *lineOverride `yaml:"output"`
	Predicted      *lineOverride `yaml:"predicted"`
	Reference      *lineOverride `yaml:"reference"`
	Measurement    *lineOverride `yaml:"measurement"`
	Actuation      *lineOverride `yaml:"actuation"`
	Planned        *lineOverride `yaml:"planned"`
	Constraint     *lineOverride `yaml:"constraint"`
	PredictionAxis *lineOverride `yaml:"prediction_axis"`
}

func (f *styleFile) overrides() map[Role]*lineOverride {
	return map[Role]*lineOverride{
		RoleOutput:         f.Output,
		RolePredicted:      f.Predicted,
		RoleReference:      f.Reference,
		RoleMeasurement:    f.Measurement,
		RoleActuation:      f.Actuation,
		RolePlanned:        f.Planned,
		RoleConstraint:     f.Constraint,
		RolePredictionAxis: f.PredictionAxis,
	}
}

// LoadStyle reads a YAML style file on top of DefaultStyle. Roles and fields
// left out keep their defaults; unknown keys are rejected.
func LoadStyle(path string) (Style, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Style{}, fmt.Errorf("reading style: %w", err)
	}
	var file styleFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return Style{}, fmt.Errorf("parsing style: %w", err)
	}

	style := DefaultStyle()
	for role, o := range file.overrides() {
		if o == nil {
			continue
		}
		ls := style.Line(role)
		if o.Color != nil {
			c, err := ParseColor(*o.Color)
			if err != nil {
				return Style{}, fmt.Errorf("style %s: %w", role, err)
			}
			ls.Color = c
		}
		if o.Dashed != nil {
			ls.Dashed = *o.Dashed
		}
		if o.Width != nil {
			if *o.Width <= 0 {
				return Style{}, fmt.Errorf("style %s: width must be positive, got %g", role, *o.Width)
			}
			ls.Width = *o.Width
		}
		style = style.With(role, ls)
	}
	return style, nil
}
