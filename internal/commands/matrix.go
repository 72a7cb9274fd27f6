package commands

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chartwright/flowgraph/internal/export"
	"github.com/chartwright/flowgraph/internal/output"
	"github.com/chartwright/flowgraph/internal/pipeline"
)

var (
	matrixOut   string
	matrixTable bool
)

var matrixCmd = &cobra.Command{
	Use:   "matrix <detections.json>",
	Short: "Emit the adjacency matrix for a detection document",
	Long: `Reconstructs the graph and writes the NxN adjacency matrix together
with the shape mapping, the form downstream recreation tools consume.

With --table the matrix is written as a tab-separated table instead
of JSON.

Example:
  flowgraph matrix detections.json -o matrix.json
  flowgraph matrix detections.json --table`,
	Args: cobra.ExactArgs(1),
	RunE: runMatrix,
}

func init() {
	matrixCmd.Flags().StringVarP(&matrixOut, "out", "o", "", "Output file (default stdout)")
	matrixCmd.Flags().BoolVar(&matrixTable, "table", false, "Write a tab-separated table instead of JSON")

	RootCmd.AddCommand(matrixCmd)
}

func runMatrix(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading detections: %w", err)
	}

	res, err := pipeline.RunBytes(data, cfg.PipelineOptions())
	if err != nil {
		return err
	}
	reportDiagnostics(res)

	var out []byte
	if matrixTable {
		var buf bytes.Buffer
		if err := export.WriteMatrixTable(&buf, res.Matrix); err != nil {
			return err
		}
		out = buf.Bytes()
	} else {
		out, err = export.MarshalMatrixDocument(res.Graph)
		if err != nil {
			return err
		}
	}
	if err := writeOutput(matrixOut, out); err != nil {
		return err
	}

	n := res.Matrix.Size()
	output.Success("matrix %dx%d for %d shapes", n, n, res.Graph.NodeCount())
	return nil
}
