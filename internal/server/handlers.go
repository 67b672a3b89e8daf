package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/ironsheep/ditherpunk/internal/colors"
	"github.com/ironsheep/ditherpunk/internal/dither"
	"github.com/ironsheep/ditherpunk/internal/imaging"
	"github.com/ironsheep/ditherpunk/internal/pipeline"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "dither_apply").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// paramError marks a failure caused by malformed or missing tool arguments.
type paramError struct {
	err error
}

func (e *paramError) Error() string { return e.err.Error() }
func (e *paramError) Unwrap() error { return e.err }

func invalidParams(format string, args ...interface{}) error {
	return &paramError{err: fmt.Errorf(format, args...)}
}

// decodeArgs unmarshals tool arguments into v. Missing arguments decode as
// an empty object.
func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 || string(args) == "null" {
		args = json.RawMessage("{}")
	}
	if err := json.Unmarshal(args, v); err != nil {
		return &paramError{err: fmt.Errorf("invalid arguments: %w", err)}
	}
	return nil
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Malformed arguments return code -32602; every other tool failure returns
// code -32000 with the error text as data.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}

	start := time.Now()
	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.logger.Warn("tool failed", "tool", params.Name, "error", err)
		var pe *paramError
		if errors.As(err, &pe) {
			return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
		}
		return s.errorResponse(req.ID, codeToolFailed, "Tool execution failed", err.Error())
	}
	s.logger.Debug("tool finished", "tool", params.Name, "duration", time.Since(start))

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

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Dithering
	case "dither_apply":
		return s.handleDitherApply(args)
	case "dither_bayer_matrix":
		return s.handleBayerMatrix(args)
	case "dither_nearest_color":
		return s.handleNearestColor(args)

	// Catalogues
	case "dither_list_colors":
		return s.handleListColors()
	case "dither_list_kernels":
		return s.handleListKernels()
	case "dither_list_algorithms":
		return s.handleListAlgorithms()

	// Inspection
	case "dither_image_info":
		return s.handleImageInfo(args)
	case "dither_dominant_palette":
		return s.handleDominantPalette(args)
	case "dither_sample_color":
		return s.handleSampleColor(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Dithering Handlers ===

type ditherApplyArgs struct {
	Path           string   `json:"path"`
	Algorithm      string   `json:"algorithm"`
	Colors         []string `json:"colors"`
	AutoPalette    int      `json:"auto_palette"`
	Order          *int     `json:"order"`
	Kernel         string   `json:"kernel"`
	Seed           uint64   `json:"seed"`
	MaxWidth       int      `json:"max_width"`
	MaxHeight      int      `json:"max_height"`
	Gamma          float64  `json:"gamma"`
	Contrast       float64  `json:"contrast"`
	Brightness     float64  `json:"brightness"`
	OutputDir      string   `json:"output_dir"`
	OutputPath     string   `json:"output_path"`
	Format         string   `json:"format"`
	IncludePreview *bool    `json:"include_preview"`
}

// Preview is a downscaled PNG of a dithered result.
type Preview struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// DitherApplyResult is the dither_apply response.
type DitherApplyResult struct {
	*pipeline.Result
	Preview *Preview `json:"preview,omitempty"`
}

func (s *Server) handleDitherApply(args json.RawMessage) (interface{}, error) {
	var a ditherApplyArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, invalidParams("path is required")
	}
	if a.Algorithm == "" {
		return nil, invalidParams("algorithm is required")
	}

	req := pipeline.Request{
		Input:       a.Path,
		Output:      a.OutputPath,
		OutputDir:   a.OutputDir,
		Format:      a.Format,
		Algorithm:   a.Algorithm,
		Colors:      a.Colors,
		AutoPalette: a.AutoPalette,
		Order:       a.Order,
		Kernel:      a.Kernel,
		Seed:        a.Seed,
		Prepare: imaging.PrepareOptions{
			MaxWidth:   a.MaxWidth,
			MaxHeight:  a.MaxHeight,
			Gamma:      a.Gamma,
			Contrast:   a.Contrast,
			Brightness: a.Brightness,
		},
	}
	if req.OutputDir == "" {
		req.OutputDir = s.cfg.OutputDir
	}
	if req.Format == "" {
		req.Format = s.cfg.OutputFormat
	}

	res, err := pipeline.Run(s.cache, req, s.cfg.JPEGQuality)
	if err != nil {
		return nil, err
	}
	s.logger.Info("dithered image",
		"input", a.Path,
		"output", res.Output,
		"algorithm", res.Algorithm,
		"delta_luma", res.Tone.Delta)

	out := &DitherApplyResult{Result: res}
	includePreview := s.cfg.Preview
	if a.IncludePreview != nil {
		includePreview = *a.IncludePreview
	}
	if includePreview {
		thumb := imaging.Thumbnail(res.Image, s.cfg.MaxPreview)
		encoded, err := imaging.EncodeBase64PNG(thumb)
		if err != nil {
			return nil, fmt.Errorf("failed to encode preview: %w", err)
		}
		out.Preview = &Preview{
			Width:       thumb.Bounds().Dx(),
			Height:      thumb.Bounds().Dy(),
			ImageBase64: encoded,
			MimeType:    "image/png",
		}
	}
	return out, nil
}

type bayerMatrixArgs struct {
	Order *int `json:"order"`
}

// BayerMatrixResult is the dither_bayer_matrix response.
type BayerMatrixResult struct {
	Order  int      `json:"order"`
	Side   int      `json:"side"`
	Levels int      `json:"levels"`
	Matrix [][]uint `json:"matrix"`
}

func (s *Server) handleBayerMatrix(args json.RawMessage) (interface{}, error) {
	var a bayerMatrixArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Order == nil {
		return nil, invalidParams("order is required")
	}
	m, err := dither.Bayer(*a.Order)
	if err != nil {
		return nil, err
	}
	return &BayerMatrixResult{
		Order:  m.Order(),
		Side:   m.Side(),
		Levels: m.Side() * m.Side(),
		Matrix: m.Rows(),
	}, nil
}

type nearestColorArgs struct {
	Color  string   `json:"color"`
	Colors []string `json:"colors"`
}

// NearestColorResult is the dither_nearest_color response.
type NearestColorResult struct {
	Input    string  `json:"input"`
	Nearest  string  `json:"nearest"`
	Label    string  `json:"label"`
	Index    int     `json:"index"`
	Distance float64 `json:"distance"`
}

func (s *Server) handleNearestColor(args json.RawMessage) (interface{}, error) {
	var a nearestColorArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Color == "" {
		return nil, invalidParams("color is required")
	}

	px, err := colors.Lookup(a.Color)
	if err != nil {
		return nil, err
	}
	palette, err := colors.Resolve(a.Colors)
	if err != nil {
		return nil, err
	}
	nearest, err := palette.Nearest(px)
	if err != nil {
		return nil, err
	}

	index := 0
	for i, c := range palette {
		if c == nearest {
			index = i
			break
		}
	}
	return &NearestColorResult{
		Input:    colors.Hex(px),
		Nearest:  colors.Hex(nearest),
		Label:    colors.Label(nearest),
		Index:    index,
		Distance: math.Round(dither.Distance(px, nearest)*1000) / 1000,
	}, nil
}

// === Catalogue Handlers ===

// NamedColor is one entry of dither_list_colors.
type NamedColor struct {
	Name string       `json:"name"`
	Hex  string       `json:"hex"`
	RGB  dither.Pixel `json:"rgb"`
	Luma float64      `json:"luma"`
}

func (s *Server) handleListColors() (interface{}, error) {
	names := colors.Names()
	list := make([]NamedColor, 0, len(names))
	for _, n := range names {
		px, err := colors.Lookup(n)
		if err != nil {
			return nil, err
		}
		list = append(list, NamedColor{
			Name: n,
			Hex:  colors.Hex(px),
			RGB:  px,
			Luma: math.Round(dither.Luma(px)*100) / 100,
		})
	}
	return map[string]interface{}{"colors": list}, nil
}

// KernelInfo is one entry of dither_list_kernels.
type KernelInfo struct {
	dither.Kernel
	// Conserving is true when the weights sum to the factor, so no error is
	// dropped away from the image edges.
	Conserving bool `json:"conserving"`
}

func (s *Server) handleListKernels() (interface{}, error) {
	names := dither.Kernels()
	list := make([]KernelInfo, 0, len(names))
	for _, n := range names {
		k, err := dither.KernelByName(n)
		if err != nil {
			return nil, err
		}
		list = append(list, KernelInfo{Kernel: k, Conserving: k.Sum() == k.Factor})
	}
	return map[string]interface{}{"kernels": list}, nil
}

// AlgorithmInfo is one entry of dither_list_algorithms.
type AlgorithmInfo struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Parameters  []string `json:"parameters,omitempty"`
}

var algorithmDetails = map[dither.Algorithm]AlgorithmInfo{
	dither.AlgorithmMonochrome: {
		Description: "Two-colour threshold: luma above 128 takes the first colour, everything else the second.",
		Parameters:  []string{"colors", "auto_palette"},
	},
	dither.AlgorithmQuantize: {
		Description: "Replace every pixel by its nearest palette colour without spreading the error.",
		Parameters:  []string{"colors", "auto_palette"},
	},
	dither.AlgorithmRandom: {
		Description: "Black and white; each pixel compares its normalized luma with a uniform random draw.",
		Parameters:  []string{"seed"},
	},
	dither.AlgorithmOrdered: {
		Description: "Black and white; normalized luma is compared with a tiled Bayer threshold matrix.",
		Parameters:  []string{"order"},
	},
	dither.AlgorithmSimpleDiffusion: {
		Description: "Black and white luma threshold with half the error sent right and half down.",
	},
	dither.AlgorithmPaletteDiffusion: {
		Description: "Nearest palette colour with the RGB error spread to neighbours by a diffusion kernel.",
		Parameters:  []string{"colors", "auto_palette", "kernel"},
	},
}

func (s *Server) handleListAlgorithms() (interface{}, error) {
	all := dither.Algorithms()
	list := make([]AlgorithmInfo, 0, len(all))
	for _, a := range all {
		info := algorithmDetails[a]
		info.Name = a.String()
		list = append(list, info)
	}
	return map[string]interface{}{"algorithms": list}, nil
}

// === Inspection Handlers ===

type imagePathArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageInfo(args json.RawMessage) (interface{}, error) {
	var a imagePathArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, invalidParams("path is required")
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

type dominantPaletteArgs struct {
	Path  string `json:"path"`
	Count int    `json:"count"`
}

func (s *Server) handleDominantPalette(args json.RawMessage) (interface{}, error) {
	var a dominantPaletteArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, invalidParams("path is required")
	}
	if a.Count == 0 {
		a.Count = 5
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	found, err := imaging.DominantColors(img, a.Count)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"colors": found}, nil
}

type sampleColorArgs struct {
	Path string `json:"path"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

func (s *Server) handleSampleColor(args json.RawMessage) (interface{}, error) {
	var a sampleColorArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, invalidParams("path is required")
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.SampleColor(img, a.X, a.Y)
}
