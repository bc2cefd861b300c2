package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/gotvinne/Light-weight-MPC/vis/trace"
)

// Record selection flags, shared by every command that loads a trace.
var (
	recordFile     string // Explicit record path
	simulation     string // Simulation identifier resolved inside simDir
	simDir         string // Directory holding recorded simulations
	schemaName     string // Record schema adapter
	constraintMode string // Constraint presence policy
)

const simulationPrefix = "sim_"

func addRecordFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&recordFile, "file", "", "Path to a simulation record (.json, .yaml, .yml)")
	cmd.Flags().StringVarP(&simulation, "simulation", "s", "", "Simulation identifier, resolved to <sim-dir>/sim_<id>.json")
	cmd.Flags().StringVar(&simDir, "sim-dir", filepath.Join("data", "simulations"), "Directory holding recorded simulations")
	cmd.Flags().StringVar(&schemaName, "schema", string(trace.SchemaCurrent), "Record schema (current, legacy)")
	cmd.Flags().StringVar(&constraintMode, "constraints", string(trace.ConstraintsFirstChannel), "Constraint policy (first-channel, per-channel)")
}

// resolveRecordPath picks the record to load. --file wins over --simulation.
// An identifier without an extension is tried as sim_<id> and <id> with each
// record extension; the first existing file is used.
func resolveRecordPath(file, id, dir string) (string, error) {
	if file != "" {
		return file, nil
	}
	if id == "" {
		return "", fmt.Errorf("no record given; use --file or --simulation")
	}
	if ext := strings.ToLower(filepath.Ext(id)); ext == ".json" || ext == ".yaml" || ext == ".yml" {
		return filepath.Join(dir, id), nil
	}
	var candidates []string
	for _, stem := range []string{simulationPrefix + id, id} {
		for _, ext := range []string{".json", ".yaml", ".yml"} {
			candidates = append(candidates, filepath.Join(dir, stem+ext))
		}
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c, nil
		}
	}
	// Let Load report the canonical location as the missing file.
	return candidates[0], nil
}

// recordName is the file name without directory or extension.
func recordName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func loadOptions() (trace.LoadOptions, error) {
	if !trace.IsValidSchema(schemaName) {
		return trace.LoadOptions{}, fmt.Errorf("unknown --schema %q; valid: current, legacy", schemaName)
	}
	if !trace.IsValidConstraintPolicy(constraintMode) {
		return trace.LoadOptions{}, fmt.Errorf("unknown --constraints %q; valid: first-channel, per-channel", constraintMode)
	}
	return trace.LoadOptions{
		Schema:      trace.Schema(schemaName),
		Constraints: trace.ConstraintPolicy(constraintMode),
	}, nil
}

// loadRecord resolves and loads the record selected by the shared flags.
func loadRecord() (*trace.Model, string, error) {
	opts, err := loadOptions()
	if err != nil {
		return nil, "", err
	}
	path, err := resolveRecordPath(recordFile, simulation, simDir)
	if err != nil {
		return nil, "", err
	}
	logrus.Debugf("Loading %s (schema %s, constraints %s)", path, schemaName, constraintMode)
	m, err := trace.Load(path, opts)
	if err != nil {
		return nil, "", err
	}
	return m, path, nil
}
