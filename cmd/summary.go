package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/gotvinne/Light-weight-MPC/vis/trace"
)

// summaryCmd prints per-channel statistics as YAML for piping
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print per-channel statistics of a simulation record as YAML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, _, err := loadRecord()
		if err != nil {
			return err
		}
		data, err := yaml.Marshal(trace.Summarize(m))
		if err != nil {
			return fmt.Errorf("YAML marshal failed: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	addRecordFlags(summaryCmd)
	rootCmd.AddCommand(summaryCmd)
}
