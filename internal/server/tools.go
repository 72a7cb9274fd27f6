package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Image Information
		{
			Name:        "image_load",
			Description: "Load a flowchart image and return its dimensions, format, and file size. The decoded image is cached for subsequent operations.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of a flowchart image.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},

		// Chart Reconstruction
		{
			Name:        "flowchart_reconstruct",
			Description: "Reconstruct a directed flowchart graph from a detection document. Takes classified shape and arrow regions, resolves each arrow to a source and target shape, and returns the graph with its adjacency matrix plus diagnostics for anything that could not be resolved.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"detections_path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to a detection document (JSON)",
					},
					"detections": map[string]interface{}{
						"type":        "object",
						"description": "Inline detection document; used when detections_path is absent",
					},
					"collapse_chains": map[string]interface{}{
						"type":        "boolean",
						"description": "Treat runs of touching arrows as single connections. Default false",
						"default":     false,
					},
				},
			},
		},
		{
			Name:        "flowchart_matrix",
			Description: "Reconstruct a flowchart and return its NxN adjacency matrix. The response carries the matrix both as a JSON document with the shape mapping and as a tab-separated table.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"detections_path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to a detection document (JSON)",
					},
					"detections": map[string]interface{}{
						"type":        "object",
						"description": "Inline detection document; used when detections_path is absent",
					},
					"collapse_chains": map[string]interface{}{
						"type":        "boolean",
						"description": "Treat runs of touching arrows as single connections. Default false",
						"default":     false,
					},
				},
			},
		},

		// Label Recovery
		{
			Name:        "flowchart_region_crops",
			Description: "Cut every node region out of the source image and return the crops as base64-encoded PNGs. Use this to inspect individual shapes or to hand their label text to an external recognizer.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"detections_path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to a detection document (JSON)",
					},
					"detections": map[string]interface{}{
						"type":        "object",
						"description": "Inline detection document; used when detections_path is absent",
					},
					"image_path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the flowchart image",
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor for the crops (e.g., 2.0 to double size). Default 1.0",
						"default":     1.0,
					},
				},
				"required": []string{"image_path"},
			},
		},
		{
			Name:        "flowchart_ocr_merge",
			Description: "Reconstruct a flowchart, read the label text inside each node region with Tesseract, and merge the cleaned text into the graph. Requires the Tesseract library to be installed. Regions that fail to read are reported as warnings and keep empty labels.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"detections_path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to a detection document (JSON)",
					},
					"detections": map[string]interface{}{
						"type":        "object",
						"description": "Inline detection document; used when detections_path is absent",
					},
					"image_path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the flowchart image",
					},
					"language": map[string]interface{}{
						"type":        "string",
						"description": "Tesseract language code (e.g., \"eng\", \"deu\"). Defaults to the server configuration",
					},
				},
				"required": []string{"image_path"},
			},
		},

		// Recreation
		{
			Name:        "flowchart_render_plan",
			Description: "Build a drawing plan for recreating the flowchart: one shape per node with its geometric kind and fill color, and one connector per edge with attachment points chosen from the relative positions of its endpoints.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"detections_path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to a detection document (JSON)",
					},
					"detections": map[string]interface{}{
						"type":        "object",
						"description": "Inline detection document; used when detections_path is absent",
					},
					"image_path": map[string]interface{}{
						"type":        "string",
						"description": "Optional path to the flowchart image, enabling label reading and fill sampling",
					},
					"read_labels": map[string]interface{}{
						"type":        "boolean",
						"description": "Read node labels with Tesseract before building the plan. Requires image_path. Default false",
						"default":     false,
					},
					"sample_fills": map[string]interface{}{
						"type":        "boolean",
						"description": "Replace palette fills with colors sampled at each shape's center. Requires image_path. Default false",
						"default":     false,
					},
				},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
