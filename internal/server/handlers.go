package server

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"os"
	"strings"

	"github.com/chartwright/flowgraph/internal/export"
	"github.com/chartwright/flowgraph/internal/imaging"
	"github.com/chartwright/flowgraph/internal/ocr"
	"github.com/chartwright/flowgraph/internal/pipeline"
	"github.com/chartwright/flowgraph/internal/render"
)

// ToolCallParams are the parameters of a tools/call request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "flowchart_reconstruct").
	Name string `json:"name"`

	// Arguments are the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall executes one tool and wraps its result in MCP's
// content format:
//
//	{"content": [{"type": "text", "text": "<JSON result>"}]}
//
// Tool failures become JSON-RPC errors with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches a tool call to its handler.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	switch name {
	// Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)

	// Chart Reconstruction
	case "flowchart_reconstruct":
		return s.handleReconstruct(args)
	case "flowchart_matrix":
		return s.handleMatrix(args)

	// Label Recovery
	case "flowchart_region_crops":
		return s.handleRegionCrops(args)
	case "flowchart_ocr_merge":
		return s.handleOCRMerge(args)

	// Recreation
	case "flowchart_render_plan":
		return s.handleRenderPlan(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON. On marshal
// failure it returns an empty string rather than panicking.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// runPipeline loads a detection document, inline or from a file, and
// reconstructs it with the server's configured options.
func (s *Server) runPipeline(path string, inline json.RawMessage, collapse bool) (*pipeline.Result, error) {
	data := []byte(inline)
	if len(data) == 0 {
		if path == "" {
			return nil, fmt.Errorf("either detections or detections_path is required")
		}
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading detections: %w", err)
		}
	}

	opts := s.cfg.PipelineOptions()
	if collapse {
		opts.CollapseChains = true
	}
	return pipeline.RunBytes(data, opts)
}

// diagStrings flattens pipeline diagnostics for tool responses.
func diagStrings(res *pipeline.Result) []string {
	if len(res.Diagnostics) == 0 {
		return nil
	}
	out := make([]string, len(res.Diagnostics))
	for i, d := range res.Diagnostics {
		out[i] = d.String()
	}
	return out
}

// === Image Information Handlers ===

type imagePathArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imagePathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imagePathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

// === Chart Reconstruction Handlers ===

type reconstructArgs struct {
	DetectionsPath string          `json:"detections_path,omitempty"`
	Detections     json.RawMessage `json:"detections,omitempty"`
	CollapseChains bool            `json:"collapse_chains,omitempty"`
}

// ReconstructResult is the flowchart_reconstruct payload.
type ReconstructResult struct {
	// RunID identifies this reconstruction in logs.
	RunID string `json:"run_id"`

	// Chart is the reconstructed graph with its adjacency matrix.
	Chart *export.ChartDocument `json:"chart"`

	// Diagnostics lists recoverable problems, in pipeline order.
	Diagnostics []string `json:"diagnostics,omitempty"`

	// NodeCount and EdgeCount summarize the graph.
	NodeCount int `json:"node_count"`
	EdgeCount int `json:"edge_count"`

	// Discarded counts detections dropped during normalization.
	Discarded int `json:"discarded"`

	// Junctions counts chain meeting points (chain collapsing only).
	Junctions int `json:"junctions,omitempty"`

	// ElapsedMS is the reconstruction time in milliseconds.
	ElapsedMS int64 `json:"elapsed_ms"`
}

func (s *Server) handleReconstruct(args json.RawMessage) (interface{}, error) {
	var a reconstructArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	res, err := s.runPipeline(a.DetectionsPath, a.Detections, a.CollapseChains)
	if err != nil {
		return nil, err
	}

	return &ReconstructResult{
		RunID:       res.RunID,
		Chart:       export.BuildChart(res.Graph),
		Diagnostics: diagStrings(res),
		NodeCount:   res.Graph.NodeCount(),
		EdgeCount:   res.Graph.EdgeCount(),
		Discarded:   res.Discarded,
		Junctions:   res.Junctions,
		ElapsedMS:   res.Elapsed.Milliseconds(),
	}, nil
}

type matrixArgs struct {
	DetectionsPath string          `json:"detections_path,omitempty"`
	Detections     json.RawMessage `json:"detections,omitempty"`
	CollapseChains bool            `json:"collapse_chains,omitempty"`
}

// MatrixResult is the flowchart_matrix payload.
type MatrixResult struct {
	// RunID identifies this reconstruction in logs.
	RunID string `json:"run_id"`

	// Document pairs the adjacency matrix with the shape mapping.
	Document *export.MatrixDocument `json:"document"`

	// Table is the matrix as a tab-separated table.
	Table string `json:"table"`

	// Diagnostics lists recoverable problems, in pipeline order.
	Diagnostics []string `json:"diagnostics,omitempty"`

	// Size is N for the NxN matrix.
	Size int `json:"size"`
}

func (s *Server) handleMatrix(args json.RawMessage) (interface{}, error) {
	var a matrixArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	res, err := s.runPipeline(a.DetectionsPath, a.Detections, a.CollapseChains)
	if err != nil {
		return nil, err
	}

	var table strings.Builder
	if err := export.WriteMatrixTable(&table, res.Matrix); err != nil {
		return nil, err
	}

	return &MatrixResult{
		RunID:       res.RunID,
		Document:    export.BuildMatrixDocument(res.Graph),
		Table:       table.String(),
		Diagnostics: diagStrings(res),
		Size:        res.Matrix.Size(),
	}, nil
}

// === Label Recovery Handlers ===

type regionCropsArgs struct {
	DetectionsPath string          `json:"detections_path,omitempty"`
	Detections     json.RawMessage `json:"detections,omitempty"`
	ImagePath      string          `json:"image_path"`
	Scale          float64         `json:"scale,omitempty"`
}

// RegionCropsResult is the flowchart_region_crops payload.
type RegionCropsResult struct {
	// RunID identifies this reconstruction in logs.
	RunID string `json:"run_id"`

	// Crops holds one base64 PNG per node region, in node id order.
	// Regions outside the image are skipped.
	Crops []*imaging.CropResult `json:"crops"`

	// Count is the number of crops produced.
	Count int `json:"count"`
}

func (s *Server) handleRegionCrops(args json.RawMessage) (interface{}, error) {
	var a regionCropsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	res, err := s.runPipeline(a.DetectionsPath, a.Detections, false)
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.ImagePath)
	if err != nil {
		return nil, err
	}

	crops, err := imaging.CropAllRegions(img, res.Handles, a.Scale)
	if err != nil {
		return nil, err
	}
	return &RegionCropsResult{
		RunID: res.RunID,
		Crops: crops,
		Count: len(crops),
	}, nil
}

type ocrMergeArgs struct {
	DetectionsPath string          `json:"detections_path,omitempty"`
	Detections     json.RawMessage `json:"detections,omitempty"`
	ImagePath      string          `json:"image_path"`
	Language       string          `json:"language,omitempty"`
}

// OCRMergeResult is the flowchart_ocr_merge payload.
type OCRMergeResult struct {
	// RunID identifies this reconstruction in logs.
	RunID string `json:"run_id"`

	// Chart is the reconstructed graph with labels filled in.
	Chart *export.ChartDocument `json:"chart"`

	// Labels maps node ids to the cleaned label text that was merged.
	Labels map[int]string `json:"labels"`

	// Warnings lists regions that failed to read; their nodes keep
	// empty labels.
	Warnings []string `json:"warnings,omitempty"`
}

func (s *Server) handleOCRMerge(args json.RawMessage) (interface{}, error) {
	var a ocrMergeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	res, err := s.runPipeline(a.DetectionsPath, a.Detections, false)
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.ImagePath)
	if err != nil {
		return nil, err
	}

	reader := &ocr.Tesseract{
		Language:  s.cfg.OCR.Language,
		Threshold: uint8(s.cfg.OCR.Threshold),
	}
	if a.Language != "" {
		reader.Language = a.Language
	}

	texts, readErr := ocr.ReadAll(context.Background(), reader, img, res.Handles)
	if err := ocr.MergeResults(res.Graph, texts); err != nil {
		return nil, err
	}

	labels := make(map[int]string, len(texts))
	for id, text := range texts {
		if label := ocr.CleanText(text); label != "" {
			labels[id] = label
		}
	}

	result := &OCRMergeResult{
		RunID:  res.RunID,
		Chart:  export.BuildChart(res.Graph),
		Labels: labels,
	}
	if readErr != nil {
		result.Warnings = strings.Split(readErr.Error(), "\n")
	}
	return result, nil
}

// === Recreation Handlers ===

type renderPlanArgs struct {
	DetectionsPath string          `json:"detections_path,omitempty"`
	Detections     json.RawMessage `json:"detections,omitempty"`
	ImagePath      string          `json:"image_path,omitempty"`
	ReadLabels     bool            `json:"read_labels,omitempty"`
	SampleFills    bool            `json:"sample_fills,omitempty"`
}

// RenderPlanResult is the flowchart_render_plan payload.
type RenderPlanResult struct {
	// RunID identifies this reconstruction in logs.
	RunID string `json:"run_id"`

	// Plan holds the shapes and connectors to draw.
	Plan *render.Plan `json:"plan"`

	// Warnings lists label regions that failed to read.
	Warnings []string `json:"warnings,omitempty"`
}

func (s *Server) handleRenderPlan(args json.RawMessage) (interface{}, error) {
	var a renderPlanArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	res, err := s.runPipeline(a.DetectionsPath, a.Detections, false)
	if err != nil {
		return nil, err
	}

	result := &RenderPlanResult{RunID: res.RunID}

	var img image.Image
	if a.ImagePath != "" {
		img, err = s.cache.Load(a.ImagePath)
		if err != nil {
			return nil, err
		}
		if a.ReadLabels && s.cfg.OCR.Enabled {
			reader := &ocr.Tesseract{
				Language:  s.cfg.OCR.Language,
				Threshold: uint8(s.cfg.OCR.Threshold),
			}
			texts, readErr := ocr.ReadAll(context.Background(), reader, img, res.Handles)
			if err := ocr.MergeResults(res.Graph, texts); err != nil {
				return nil, err
			}
			if readErr != nil {
				result.Warnings = strings.Split(readErr.Error(), "\n")
			}
		}
	}

	result.Plan = render.BuildPlan(res.Graph, res.Extent)
	if img != nil && (a.SampleFills || s.cfg.Render.SampleFills) {
		render.SampleFills(result.Plan, img)
	}
	return result, nil
}
