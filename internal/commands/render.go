package commands

import (
	"fmt"
	"image"
	"os"

	"github.com/spf13/cobra"

	"github.com/chartwright/flowgraph/internal/output"
	"github.com/chartwright/flowgraph/internal/pipeline"
	"github.com/chartwright/flowgraph/internal/render"
)

var (
	renderOut   string
	renderImage string
)

var renderCmd = &cobra.Command{
	Use:   "render <detections.json>",
	Short: "Produce a drawing plan that recreates the chart",
	Long: `Reconstructs the graph and writes a drawing plan: shapes with class
fills and labels, plus arrowed connectors between them. Drawing tools
consume the plan to redraw the chart.

With --image, labels are filled in by OCR when enabled, and the
render.sample_fills setting colors shapes from the source image
instead of the class palette.

Example:
  flowgraph render detections.json -o plan.json
  flowgraph render detections.json --image chart.png`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "", "Output file (default stdout)")
	renderCmd.Flags().StringVarP(&renderImage, "image", "i", "", "Source image for labels and fills")

	RootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
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

	var img image.Image
	if renderImage != "" {
		img, err = images.Load(renderImage)
		if err != nil {
			return fmt.Errorf("loading image: %w", err)
		}
		if cfg.OCR.Enabled {
			if err := recognizeLabels(cmd.Context(), cfg, res, renderImage); err != nil {
				output.Warn("label recognition incomplete: %v", err)
			}
		}
	}

	plan := render.BuildPlan(res.Graph, res.Extent)
	if img != nil && cfg.Render.SampleFills {
		render.SampleFills(plan, img)
	}

	out, err := render.MarshalPlan(plan)
	if err != nil {
		return err
	}
	if err := writeOutput(renderOut, out); err != nil {
		return err
	}

	output.Success("planned %d shapes and %d connectors", len(plan.Shapes), len(plan.Connectors))
	return nil
}
