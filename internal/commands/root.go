package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chartwright/flowgraph"
	"github.com/chartwright/flowgraph/internal/config"
	"github.com/chartwright/flowgraph/internal/imaging"
	"github.com/chartwright/flowgraph/internal/output"
	"github.com/chartwright/flowgraph/internal/pipeline"
)

var (
	verbose    bool
	configPath string
)

// images caches decoded chart images across the subcommands of one
// invocation.
var images = imaging.NewImageCache()

// RootCmd is the root command for the flowgraph CLI.
var RootCmd = &cobra.Command{
	Use:   "flowgraph",
	Short: "Flowgraph - rebuild flowchart graphs from detections",
	Long: `Flowgraph turns the shape and arrow detections found on a flowchart
image into a directed graph: nodes for the shapes, edges for the
arrows, plus the NxN adjacency matrix and a plan to redraw the chart.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		output.SetVerbose(verbose)
	},
}

// Execute runs the root command.
func Execute() error {
	return RootCmd.Execute()
}

func init() {
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show detailed reconstruction output")
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to configuration file")

	RootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("flowgraph v%s\n", flowgraph.Version)
		},
	})
}

// loadConfig reads the configuration named by --config and surfaces
// its warnings without failing the run.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	for _, w := range cfg.Validate() {
		output.Warn("%s", w)
	}
	return cfg, nil
}

// reportDiagnostics relays every recoverable pipeline problem to the
// user.
func reportDiagnostics(res *pipeline.Result) {
	for _, d := range res.Diagnostics {
		output.Warn("%s", d.String())
	}
	output.Verbose("run %s: %d shapes, %d arrows, %d discarded", res.RunID, res.ShapeCount, res.ArrowCount, res.Discarded)
}

// writeOutput sends data to the named file, or stdout for "" and "-".
// A missing trailing newline is added either way.
func writeOutput(path string, data []byte) error {
	if len(data) > 0 && data[len(data)-1] != '\n' {
		data = append(data, '\n')
	}
	if path == "" || path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	output.Info("wrote %s", path)
	return nil
}
