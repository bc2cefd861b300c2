package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gotvinne/Light-weight-MPC/vis/trace"
)

var exportPath string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the normalised series of a simulation record as CSV",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, _, err := loadRecord()
		if err != nil {
			return err
		}
		if err := trace.ExportCSV(m, exportPath); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", exportPath)
		return nil
	},
}

func init() {
	addRecordFlags(exportCmd)
	exportCmd.Flags().StringVar(&exportPath, "out", "", "CSV output path")
	_ = exportCmd.MarkFlagRequired("out")
	rootCmd.AddCommand(exportCmd)
}
