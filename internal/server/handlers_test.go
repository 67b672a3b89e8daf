package server

import (
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// createTestImageFile writes a uniform PNG into a per-test temp directory
// and returns its path.
func createTestImageFile(t *testing.T, width, height int, c color.Color) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}

	path := filepath.Join(t.TempDir(), "photo.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

// callTool sends a tools/call request and returns the response.
func callTool(t *testing.T, s *Server, name string, args interface{}) *MCPResponse {
	t.Helper()
	params := map[string]interface{}{"name": name, "arguments": args}
	paramsJSON, err := json.Marshal(params)
	if err != nil {
		t.Fatalf("failed to marshal params: %v", err)
	}

	resp := s.handleRequest(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  paramsJSON,
	})
	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	return resp
}

// decodeResult unmarshals the text content of a successful tool response.
func decodeResult(t *testing.T, resp *MCPResponse, v interface{}) {
	t.Helper()
	if resp.Error != nil {
		t.Fatalf("unexpected error: %+v", resp.Error)
	}
	content := resp.Result.(map[string]interface{})["content"].([]map[string]interface{})
	if len(content) != 1 || content[0]["type"] != "text" {
		t.Fatalf("unexpected content: %v", content)
	}
	if err := json.Unmarshal([]byte(content[0]["text"].(string)), v); err != nil {
		t.Fatalf("failed to decode result: %v", err)
	}
}

func TestDitherApply(t *testing.T) {
	s := newTestServer(t)
	imgPath := createTestImageFile(t, 20, 10, color.RGBA{128, 128, 128, 255})

	resp := callTool(t, s, "dither_apply", map[string]interface{}{
		"path":            imgPath,
		"algorithm":       "monochrome",
		"colors":          []string{"red", "blue"},
		"format":          "jpg",
		"include_preview": true,
	})

	var got struct {
		Output    string   `json:"output"`
		Algorithm string   `json:"algorithm"`
		Palette   []string `json:"palette"`
		Width     int      `json:"width"`
		Height    int      `json:"height"`
		Tone      struct {
			DistinctColors int `json:"distinct_colors"`
		} `json:"tone"`
		Preview *Preview `json:"preview"`
	}
	decodeResult(t, resp, &got)

	want := filepath.Join(s.cfg.OutputDir, "photo_monochrome_red_blue.jpg")
	if got.Output != want {
		t.Errorf("Output: got %q, want %q", got.Output, want)
	}
	if _, err := os.Stat(want); err != nil {
		t.Errorf("output not written: %v", err)
	}
	if got.Algorithm != "monochrome" {
		t.Errorf("Algorithm: got %q, want monochrome", got.Algorithm)
	}
	if got.Width != 20 || got.Height != 10 {
		t.Errorf("size: got %dx%d", got.Width, got.Height)
	}
	if got.Tone.DistinctColors != 1 {
		t.Errorf("DistinctColors: got %d, want 1", got.Tone.DistinctColors)
	}
	if got.Preview == nil || got.Preview.ImageBase64 == "" || got.Preview.MimeType != "image/png" {
		t.Errorf("preview missing: %+v", got.Preview)
	}
}

func TestDitherApply_PreviewBounded(t *testing.T) {
	s := newTestServer(t)
	s.cfg.MaxPreview = 8
	imgPath := createTestImageFile(t, 32, 16, color.RGBA{200, 200, 200, 255})

	var got struct {
		Preview *Preview `json:"preview"`
	}
	decodeResult(t, callTool(t, s, "dither_apply", map[string]interface{}{
		"path":            imgPath,
		"algorithm":       "ordered",
		"order":           1,
		"include_preview": true,
	}), &got)

	if got.Preview == nil || got.Preview.Width != 8 || got.Preview.Height != 4 {
		t.Errorf("preview size: got %+v, want 8x4", got.Preview)
	}
}

func TestDitherApply_PreviewDefaultFromConfig(t *testing.T) {
	tests := []struct {
		name      string
		cfgOn     bool
		include   interface{}
		wantFound bool
	}{
		{"config off, omitted", false, nil, false},
		{"config on, omitted", true, nil, true},
		{"config on, opted out", true, false, false},
		{"config off, opted in", false, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			s.cfg.Preview = tt.cfgOn
			args := map[string]interface{}{
				"path":      createTestImageFile(t, 4, 4, color.White),
				"algorithm": "simple",
			}
			if tt.include != nil {
				args["include_preview"] = tt.include
			}

			var got struct {
				Preview *Preview `json:"preview"`
			}
			decodeResult(t, callTool(t, s, "dither_apply", args), &got)
			if (got.Preview != nil) != tt.wantFound {
				t.Errorf("preview present: got %v, want %v", got.Preview != nil, tt.wantFound)
			}
		})
	}
}

func TestDitherApply_Errors(t *testing.T) {
	s := newTestServer(t)
	imgPath := createTestImageFile(t, 4, 4, color.White)

	tests := []struct {
		name     string
		args     interface{}
		wantCode int
	}{
		{"missing path", map[string]interface{}{"algorithm": "monochrome"}, codeInvalidParams},
		{"missing algorithm", map[string]interface{}{"path": imgPath}, codeInvalidParams},
		{"wrong type", map[string]interface{}{"path": imgPath, "algorithm": 3}, codeInvalidParams},
		{"unknown algorithm", map[string]interface{}{"path": imgPath, "algorithm": "sharpen"}, codeToolFailed},
		{"unknown colour", map[string]interface{}{"path": imgPath, "algorithm": "quantize", "colors": []string{"chartreuse"}}, codeToolFailed},
		{"bad order", map[string]interface{}{"path": imgPath, "algorithm": "ordered", "order": 12}, codeToolFailed},
		{"missing file", map[string]interface{}{"path": "/nonexistent.png", "algorithm": "simple"}, codeToolFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := callTool(t, s, "dither_apply", tt.args)
			if resp.Error == nil {
				t.Fatal("expected an error")
			}
			if resp.Error.Code != tt.wantCode {
				t.Errorf("code: got %d, want %d (%v)", resp.Error.Code, tt.wantCode, resp.Error.Data)
			}
		})
	}
}

func TestBayerMatrix(t *testing.T) {
	s := newTestServer(t)

	var got BayerMatrixResult
	decodeResult(t, callTool(t, s, "dither_bayer_matrix", map[string]interface{}{"order": 1}), &got)

	want := BayerMatrixResult{Order: 1, Side: 2, Levels: 4, Matrix: [][]uint{{0, 2}, {3, 1}}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	if resp := callTool(t, s, "dither_bayer_matrix", map[string]interface{}{}); resp.Error == nil || resp.Error.Code != codeInvalidParams {
		t.Errorf("missing order should be invalid params, got %+v", resp.Error)
	}
	if resp := callTool(t, s, "dither_bayer_matrix", map[string]interface{}{"order": -1}); resp.Error == nil || resp.Error.Code != codeToolFailed {
		t.Errorf("negative order should fail, got %+v", resp.Error)
	}
}

func TestNearestColor(t *testing.T) {
	s := newTestServer(t)

	var got NearestColorResult
	decodeResult(t, callTool(t, s, "dither_nearest_color", map[string]interface{}{
		"color":  "#c8beb4",
		"colors": []string{"black", "white", "sienna"},
	}), &got)

	want := NearestColorResult{Input: "#c8beb4", Nearest: "#ffffff", Label: "white", Index: 1, Distance: 113.468}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestNearestColor_Errors(t *testing.T) {
	s := newTestServer(t)

	if resp := callTool(t, s, "dither_nearest_color", map[string]interface{}{"color": "red", "colors": []string{}}); resp.Error == nil {
		t.Error("empty palette should fail")
	}
	if resp := callTool(t, s, "dither_nearest_color", map[string]interface{}{"color": "mauve", "colors": []string{"red"}}); resp.Error == nil {
		t.Error("unknown colour should fail")
	}
}

func TestListTools(t *testing.T) {
	s := newTestServer(t)

	var colorsResult struct {
		Colors []NamedColor `json:"colors"`
	}
	decodeResult(t, callTool(t, s, "dither_list_colors", nil), &colorsResult)
	if len(colorsResult.Colors) != 10 {
		t.Errorf("colors: got %d, want 10", len(colorsResult.Colors))
	}

	var kernelsResult struct {
		Kernels []struct {
			Name       string `json:"name"`
			Factor     int    `json:"factor"`
			Conserving bool   `json:"conserving"`
		} `json:"kernels"`
	}
	decodeResult(t, callTool(t, s, "dither_list_kernels", nil), &kernelsResult)
	for _, k := range kernelsResult.Kernels {
		if k.Name == "atkinson" && k.Conserving {
			t.Error("atkinson drops a quarter of the error and is not conserving")
		}
		if k.Name == "floyd-steinberg" && (!k.Conserving || k.Factor != 16) {
			t.Errorf("floyd-steinberg: got %+v", k)
		}
	}

	var algosResult struct {
		Algorithms []AlgorithmInfo `json:"algorithms"`
	}
	decodeResult(t, callTool(t, s, "dither_list_algorithms", nil), &algosResult)
	if len(algosResult.Algorithms) != 6 {
		t.Fatalf("algorithms: got %d, want 6", len(algosResult.Algorithms))
	}
	for _, a := range algosResult.Algorithms {
		if a.Description == "" {
			t.Errorf("%s has no description", a.Name)
		}
	}
}

func TestImageInfo(t *testing.T) {
	s := newTestServer(t)
	imgPath := createTestImageFile(t, 200, 150, color.RGBA{0, 255, 0, 255})

	var got struct {
		Width  int    `json:"width"`
		Height int    `json:"height"`
		Format string `json:"format"`
	}
	decodeResult(t, callTool(t, s, "dither_image_info", map[string]interface{}{"path": imgPath}), &got)

	if got.Width != 200 || got.Height != 150 || got.Format != "png" {
		t.Errorf("got %+v", got)
	}
}

func TestDominantPalette(t *testing.T) {
	s := newTestServer(t)
	imgPath := createTestImageFile(t, 10, 10, color.RGBA{160, 82, 45, 255})

	var got struct {
		Colors []struct {
			Hex        string  `json:"hex"`
			Percentage float64 `json:"percentage"`
		} `json:"colors"`
	}
	decodeResult(t, callTool(t, s, "dither_dominant_palette", map[string]interface{}{"path": imgPath}), &got)

	if len(got.Colors) != 1 || got.Colors[0].Hex != "#a0522d" || got.Colors[0].Percentage != 100 {
		t.Errorf("got %+v", got.Colors)
	}
}

func TestSampleColor(t *testing.T) {
	s := newTestServer(t)
	imgPath := createTestImageFile(t, 10, 10, color.RGBA{255, 0, 0, 255})

	var got struct {
		Hex  string  `json:"hex"`
		Luma float64 `json:"luma"`
	}
	decodeResult(t, callTool(t, s, "dither_sample_color", map[string]interface{}{"path": imgPath, "x": 5, "y": 5}), &got)
	if got.Hex != "#ff0000" || got.Luma != 54.21 {
		t.Errorf("got %+v", got)
	}

	if resp := callTool(t, s, "dither_sample_color", map[string]interface{}{"path": imgPath, "x": 10, "y": 0}); resp.Error == nil || resp.Error.Code != codeToolFailed {
		t.Errorf("out of bounds should fail with a tool error, got %+v", resp.Error)
	}
}

func TestUnknownTool(t *testing.T) {
	s := newTestServer(t)
	resp := callTool(t, s, "dither_sharpen", map[string]interface{}{})
	if resp.Error == nil || resp.Error.Code != codeToolFailed {
		t.Errorf("unknown tool should fail with %d, got %+v", codeToolFailed, resp.Error)
	}
}

func TestToolsCall_InvalidParams(t *testing.T) {
	s := newTestServer(t)
	resp := s.handleRequest(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  json.RawMessage(`"not an object"`),
	})
	if resp.Error == nil || resp.Error.Code != codeInvalidParams {
		t.Errorf("expected invalid params, got %+v", resp.Error)
	}
}
