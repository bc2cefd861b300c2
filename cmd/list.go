package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gotvinne/Light-weight-MPC/vis/trace"
)

var listDir string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded simulations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		names, err := trace.ListSimulations(listDir)
		if err != nil {
			return err
		}
		for _, n := range names {
			fmt.Fprintln(cmd.OutOrStdout(), n)
		}
		return nil
	},
}

func init() {
	listCmd.Flags().StringVar(&listDir, "sim-dir", filepath.Join("data", "simulations"), "Directory holding recorded simulations")
	rootCmd.AddCommand(listCmd)
}
