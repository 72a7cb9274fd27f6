package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/chartwright/flowgraph/internal/config"
	"github.com/chartwright/flowgraph/internal/export"
	"github.com/chartwright/flowgraph/internal/ocr"
	"github.com/chartwright/flowgraph/internal/output"
	"github.com/chartwright/flowgraph/internal/pipeline"
)

var (
	reconstructOut   string
	reconstructImage string
	collapseChains   bool
)

var reconstructCmd = &cobra.Command{
	Use:   "reconstruct <detections.json>",
	Short: "Rebuild a flowchart graph from shape and arrow detections",
	Long: `Reads a detection document, reconstructs the directed graph, and
writes the chart as JSON: nodes, edges, and the adjacency matrix.

With --image the node labels are filled in by OCR from the source
image before the chart is written.

Example:
  flowgraph reconstruct detections.json
  flowgraph reconstruct detections.json -o chart.json --image chart.png
  flowgraph reconstruct detections.json --collapse-chains`,
	Args: cobra.ExactArgs(1),
	RunE: runReconstruct,
}

func init() {
	reconstructCmd.Flags().StringVarP(&reconstructOut, "out", "o", "", "Output file (default stdout)")
	reconstructCmd.Flags().StringVarP(&reconstructImage, "image", "i", "", "Source image for OCR labels")
	reconstructCmd.Flags().BoolVar(&collapseChains, "collapse-chains", false, "Merge multi-segment arrows into single edges")

	RootCmd.AddCommand(reconstructCmd)
}

func runReconstruct(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	opts := cfg.PipelineOptions()
	if collapseChains {
		opts.CollapseChains = true
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading detections: %w", err)
	}

	res, err := pipeline.RunBytes(data, opts)
	if err != nil {
		return err
	}
	reportDiagnostics(res)

	if reconstructImage != "" && cfg.OCR.Enabled {
		if err := recognizeLabels(cmd.Context(), cfg, res, reconstructImage); err != nil {
			output.Warn("label recognition incomplete: %v", err)
		}
	}

	out, err := export.MarshalChart(res.Graph)
	if err != nil {
		return err
	}
	if err := writeOutput(reconstructOut, out); err != nil {
		return err
	}

	output.Success("reconstructed %d nodes and %d edges", res.Graph.NodeCount(), res.Graph.EdgeCount())
	output.Step("completed in %s", res.Elapsed.Round(time.Millisecond))
	if res.Discarded > 0 {
		output.Step("discarded %d low-confidence or duplicate detections", res.Discarded)
	}
	return nil
}

// recognizeLabels reads label text for every node region and merges
// it into the graph. Regions that fail to read are reported through
// the returned error, after the readable ones have been merged.
func recognizeLabels(ctx context.Context, cfg *config.Config, res *pipeline.Result, imagePath string) error {
	img, err := images.Load(imagePath)
	if err != nil {
		return err
	}

	reader := &ocr.Tesseract{
		Language:  cfg.OCR.Language,
		Threshold: uint8(cfg.OCR.Threshold),
	}
	texts, readErr := ocr.ReadAll(ctx, reader, img, res.Handles)
	if err := ocr.MergeResults(res.Graph, texts); err != nil {
		return err
	}
	return readErr
}
