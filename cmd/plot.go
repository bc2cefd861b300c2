package cmd

import (
	"bufio"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/gotvinne/Light-weight-MPC/vis/render"
	"github.com/gotvinne/Light-weight-MPC/vis/render/htmlsurface"
	"github.com/gotvinne/Light-weight-MPC/vis/render/plotsurface"
)

var (
	outPath       string  // Figure output path; extension selects the backend
	figSize       float64 // Square figure side in inches
	fontSize      float64 // Title font size in points
	dpi           int     // Raster resolution
	stylePath     string  // Optional YAML style override
	showLastValue bool    // Suffix panel titles with the value at T-1
	waitForEnter  bool    // Block until Enter after writing the figure
)

// plotCmd renders one simulation record as a CV/MV panel grid
var plotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Render a simulation record as a panel grid",
	Long:  "Render a simulation record: one panel per CV (prediction, reference, constraints) and per MV (actuation steps, constraints). Output format follows the --out extension: png, jpg, tif, svg, pdf, eps or html.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, path, err := loadRecord()
		if err != nil {
			return err
		}

		style := render.DefaultStyle()
		if stylePath != "" {
			if style, err = render.LoadStyle(stylePath); err != nil {
				return err
			}
		}

		name := recordName(path)
		out := outPath
		if out == "" {
			out = name + ".png"
		}
		surface, err := newSurface(out)
		if err != nil {
			return err
		}

		r := render.NewRenderer(render.Config{Style: style, ShowLastValue: showLastValue})
		fig, err := r.Render(m, render.Title(name), render.Square(figSize), surface)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d panels)\n", out, len(fig.Panels))

		if waitForEnter {
			fmt.Fprintln(cmd.ErrOrStderr(), "Press Enter to exit")
			if _, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n'); err != nil {
				logrus.Debugf("Stopped waiting: %v", err)
			}
		}
		return nil
	},
}

// newSurface picks the rendering backend from the output extension.
func newSurface(out string) (render.Surface, error) {
	switch strings.ToLower(filepath.Ext(out)) {
	case ".html", ".htm":
		return htmlsurface.New(out), nil
	}
	s, err := plotsurface.New(out, plotsurface.Options{FontSize: fontSize, DPI: dpi})
	if err != nil {
		return nil, err
	}
	return s, nil
}

func init() {
	addRecordFlags(plotCmd)
	plotCmd.Flags().StringVar(&outPath, "out", "", "Output figure path (default <record name>.png)")
	plotCmd.Flags().Float64Var(&figSize, "fig-size", 12, "Figure side length in inches")
	plotCmd.Flags().Float64Var(&fontSize, "font-size", 12, "Title font size in points")
	plotCmd.Flags().IntVar(&dpi, "dpi", 96, "Raster output resolution")
	plotCmd.Flags().StringVar(&stylePath, "style", "", "YAML file overriding series colours and line styles")
	plotCmd.Flags().BoolVar(&showLastValue, "last-value", false, "Suffix panel titles with the last realized value")
	plotCmd.Flags().BoolVar(&waitForEnter, "wait", false, "Wait for Enter after writing the figure")

	rootCmd.AddCommand(plotCmd)
}
