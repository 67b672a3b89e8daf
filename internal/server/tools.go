package server

import (
	"strings"

	"github.com/ironsheep/ditherpunk/internal/colors"
	"github.com/ironsheep/ditherpunk/internal/dither"
)

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// algorithmNames lists the canonical algorithm names for schema enums.
func algorithmNames() []string {
	all := dither.Algorithms()
	names := make([]string, len(all))
	for i, a := range all {
		names[i] = a.String()
	}
	return names
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Dithering
		{
			Name: "dither_apply",
			Description: "Dither an image file and write the result next to the other outputs. " +
				"Returns the output path, size, palette and a tone comparison (mean luma before and after). " +
				"Optionally returns a base64 PNG preview.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the source image (png, jpeg, gif, bmp, tiff, webp, qoi)",
					},
					"algorithm": map[string]interface{}{
						"type":        "string",
						"enum":        algorithmNames(),
						"description": "Dithering algorithm",
					},
					"colors": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "string"},
						"description": "Palette as colour names or hex codes (monochrome, quantize, palette-diffusion). Monochrome takes the light colour first. Default: white, black",
					},
					"auto_palette": map[string]interface{}{
						"type":        "integer",
						"description": "Build the palette from this many dominant colours of the image instead of colors",
					},
					"order": map[string]interface{}{
						"type":        "integer",
						"description": "Bayer matrix order for ordered dithering (matrix side 2^order, 0-8). Default 2",
						"default":     2,
					},
					"kernel": map[string]interface{}{
						"type":        "string",
						"enum":        dither.Kernels(),
						"description": "Diffusion kernel for palette-diffusion. Default floyd-steinberg",
						"default":     "floyd-steinberg",
					},
					"seed": map[string]interface{}{
						"type":        "integer",
						"description": "Seed for random dithering; 0 picks a fresh seed",
					},
					"max_width": map[string]interface{}{
						"type":        "integer",
						"description": "Scale the image down to at most this width before dithering",
					},
					"max_height": map[string]interface{}{
						"type":        "integer",
						"description": "Scale the image down to at most this height before dithering",
					},
					"gamma": map[string]interface{}{
						"type":        "number",
						"description": "Gamma correction applied before dithering (1 = none)",
					},
					"contrast": map[string]interface{}{
						"type":        "number",
						"description": "Contrast change in [-1, 1] applied before dithering",
					},
					"brightness": map[string]interface{}{
						"type":        "number",
						"description": "Brightness change in [-1, 1] applied before dithering",
					},
					"output_dir": map[string]interface{}{
						"type":        "string",
						"description": "Directory for the output; the file is named <stem>_<algorithm>[_<label>...].<format>",
					},
					"output_path": map[string]interface{}{
						"type":        "string",
						"description": "Exact output path; its extension selects the format",
					},
					"format": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"png", "jpg", "gif", "bmp", "tiff", "qoi"},
						"description": "Output format when output_path is not given",
					},
					"include_preview": map[string]interface{}{
						"type":        "boolean",
						"description": "Return a base64 PNG preview of the result (default from DITHERPUNK_PREVIEW, normally false)",
					},
				},
				"required": []string{"path", "algorithm"},
			},
		},
		{
			Name:        "dither_bayer_matrix",
			Description: "Return the Bayer threshold matrix of a given order. Values are a permutation of 0..side²-1; thresholds are value/side².",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"order": map[string]interface{}{
						"type":        "integer",
						"description": "Matrix order 0-8 (side 2^order)",
					},
				},
				"required": []string{"order"},
			},
		},
		{
			Name:        "dither_nearest_color",
			Description: "Find the palette entry closest to a colour by Euclidean RGB distance. Ties go to the first entry.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"color": map[string]interface{}{
						"type":        "string",
						"description": "Colour name or hex code to match",
					},
					"colors": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "string"},
						"description": "Palette as colour names or hex codes",
					},
				},
				"required": []string{"color", "colors"},
			},
		},

		// Catalogues
		{
			Name:        "dither_list_colors",
			Description: "List the named colours accepted wherever a colour is expected (hex codes are accepted too). Supported: " + strings.Join(colors.Names(), ", "),
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name:        "dither_list_kernels",
			Description: "List the error diffusion kernels with their taps and normalization factor.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name:        "dither_list_algorithms",
			Description: "List the dithering algorithms and which parameters each one uses.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},

		// Inspection
		{
			Name:        "dither_image_info",
			Description: "Get dimensions, format, colour depth and file size of an image.",
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
			Name:        "dither_dominant_palette",
			Description: "Extract the most frequent colours of an image, most frequent first. Useful for choosing a palette.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"count": map[string]interface{}{
						"type":        "integer",
						"description": "Number of colours to return (default 5)",
						"default":     5,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "dither_sample_color",
			Description: "Get the colour and luma at a pixel, e.g. to inspect a dithered output.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "X coordinate (0-based, from left)",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Y coordinate (0-based, from top)",
					},
				},
				"required": []string{"path", "x", "y"},
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
