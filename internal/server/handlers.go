package server

import (
	"encoding/json"
	"fmt"
	"image"
	"log"
	"math"

	"github.com/ironsheep/resample-mcp/internal/imaging"
	"github.com/ironsheep/resample-mcp/internal/resample"
	"github.com/ironsheep/resample-mcp/internal/voi"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "raster_load", "raster_render").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
// A result that cannot be encoded, or a panicking tool, yields -32603.
func (s *Server) handleToolsCall(req *MCPRequest) (resp *MCPResponse) {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	defer func() {
		if r := recover(); r != nil {
			log.Printf("Tool %s panicked: %v", params.Name, r)
			resp = s.errorResponse(req.ID, -32603, "Internal error", fmt.Sprint(r))
		}
	}()

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		log.Printf("Tool %s failed: %v", params.Name, err)
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	text, err := marshalResult(result)
	if err != nil {
		log.Printf("Tool %s result could not be encoded: %v", params.Name, err)
		return s.errorResponse(req.ID, -32603, "Internal error", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": text,
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Loads rasters from cache as needed
//  4. Calls the appropriate imaging function
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Raster Information
	case "raster_load":
		return s.handleRasterLoad(args)
	case "raster_evict":
		return s.handleRasterEvict(args)

	// Sampling Operations
	case "raster_sample":
		return s.handleRasterSample(args)
	case "raster_sample_multi":
		return s.handleRasterSampleMulti(args)

	// Windowing and Rendering
	case "raster_auto_window":
		return s.handleRasterAutoWindow(args)
	case "raster_render":
		return s.handleRasterRender(args)

	// Measurement Operations
	case "raster_measure_distance":
		return s.handleRasterMeasureDistance(args)
	case "raster_line_profile":
		return s.handleRasterLineProfile(args)
	case "raster_region_stats":
		return s.handleRasterRegionStats(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
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

// marshalResult converts a tool result to a pretty-printed JSON string.
func marshalResult(v interface{}) (string, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode result: %w", err)
	}
	return string(b), nil
}

// rasterArgs identifies the raster a tool operates on.
type rasterArgs struct {
	Path string           `json:"path"`
	Raw  *imaging.RawSpec `json:"raw,omitempty"`
}

// rescaleArgs carries an optional modality rescale.
type rescaleArgs struct {
	RescaleSlope     float64 `json:"rescale_slope"`
	RescaleIntercept float64 `json:"rescale_intercept"`
}

func (a rescaleArgs) rescale() voi.Rescale {
	return voi.Rescale{Slope: a.RescaleSlope, Intercept: a.RescaleIntercept}
}

// load resolves a raster through the cache.
func (s *Server) load(a rasterArgs) (*imaging.Raster, error) {
	if a.Path == "" {
		return nil, fmt.Errorf("path is required")
	}
	if a.Raw != nil {
		return s.cache.LoadRaw(a.Path, *a.Raw)
	}
	return s.cache.Load(a.Path)
}

// === Raster Information Handlers ===

func (s *Server) handleRasterLoad(args json.RawMessage) (interface{}, error) {
	var a rasterArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, fmt.Errorf("path is required")
	}
	return imaging.LoadRasterInfo(s.cache, a.Path, a.Raw)
}

func (s *Server) handleRasterEvict(args json.RawMessage) (interface{}, error) {
	var a rasterArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	s.cache.Evict(a.Path)
	return map[string]interface{}{"evicted": a.Path, "cached": s.cache.Len()}, nil
}

// === Sampling Operation Handlers ===

type rasterSampleArgs struct {
	rasterArgs
	rescaleArgs
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (s *Server) handleRasterSample(args json.RawMessage) (interface{}, error) {
	var a rasterSampleArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	r, err := s.load(a.rasterArgs)
	if err != nil {
		return nil, err
	}
	// Huge integral values fall through to the float bounds check.
	if a.X == math.Trunc(a.X) && a.Y == math.Trunc(a.Y) && math.Abs(a.X) < math.MaxInt32 && math.Abs(a.Y) < math.MaxInt32 {
		return imaging.SamplePixel(r.Source, int(a.X), int(a.Y), a.rescale())
	}
	return imaging.SampleSubpixel(r.Source, a.X, a.Y, a.rescale())
}

type rasterSampleMultiArgs struct {
	rasterArgs
	rescaleArgs
	Points []struct {
		X     int    `json:"x"`
		Y     int    `json:"y"`
		Label string `json:"label,omitempty"`
	} `json:"points"`
}

func (s *Server) handleRasterSampleMulti(args json.RawMessage) (interface{}, error) {
	var a rasterSampleMultiArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	r, err := s.load(a.rasterArgs)
	if err != nil {
		return nil, err
	}
	points := make([]imaging.LabeledPoint, len(a.Points))
	for i, p := range a.Points {
		points[i] = imaging.LabeledPoint{X: p.X, Y: p.Y, Label: p.Label}
	}
	samples, err := imaging.SamplePixelsMulti(r.Source, points, a.rescale())
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"samples": samples}, nil
}

// === Windowing and Rendering Handlers ===

type rasterAutoWindowArgs struct {
	rasterArgs
	rescaleArgs
}

func (s *Server) handleRasterAutoWindow(args json.RawMessage) (interface{}, error) {
	var a rasterAutoWindowArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	r, err := s.load(a.rasterArgs)
	if err != nil {
		return nil, err
	}
	if r.Source.Color == resample.RGB {
		return nil, fmt.Errorf("windowing is only defined for grayscale rasters")
	}
	w, err := voi.AutoWindow(r.Source, a.rescale())
	if err != nil {
		return nil, err
	}
	return w, nil
}

type rasterRenderArgs struct {
	rasterArgs
	rescaleArgs
	Region       string   `json:"region"`
	Left         *float64 `json:"left"`
	Top          *float64 `json:"top"`
	Right        *float64 `json:"right"`
	Bottom       *float64 `json:"bottom"`
	Width        int      `json:"width"`
	Height       int      `json:"height"`
	OutputBits   int      `json:"output_bits"`
	SwapXY       bool     `json:"swap_xy"`
	WindowCenter *float64 `json:"window_center"`
	WindowWidth  *float64 `json:"window_width"`
	AutoWindow   bool     `json:"auto_window"`
	Palette      string   `json:"palette"`
	GridSpacing  int      `json:"grid_spacing"`
	GridLabels   bool     `json:"grid_labels"`
	GridColor    string   `json:"grid_color"`
}

// region resolves the explicit edges or the named region of a render.
func (a *rasterRenderArgs) region(w, h int) (resample.RectF, error) {
	edges := []*float64{a.Left, a.Top, a.Right, a.Bottom}
	set := 0
	for _, e := range edges {
		if e != nil {
			set++
		}
	}
	switch set {
	case 0:
		name := a.Region
		if name == "" {
			name = "full"
		}
		return imaging.NamedRegion(name, w, h)
	case len(edges):
		return resample.RectF{Left: *a.Left, Top: *a.Top, Right: *a.Right, Bottom: *a.Bottom}, nil
	default:
		return resample.RectF{}, fmt.Errorf("left, top, right and bottom must be given together")
	}
}

func (s *Server) handleRasterRender(args json.RawMessage) (interface{}, error) {
	var a rasterRenderArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	r, err := s.load(a.rasterArgs)
	if err != nil {
		return nil, err
	}
	region, err := a.region(r.Source.Width, r.Source.Height)
	if err != nil {
		return nil, err
	}

	req := imaging.RenderRequest{
		Region:      &region,
		Width:       a.Width,
		Height:      a.Height,
		OutputBits:  a.OutputBits,
		SwapXY:      a.SwapXY,
		AutoWindow:  a.AutoWindow,
		Rescale:     a.rescale(),
		Palette:     a.Palette,
		GridSpacing: a.GridSpacing,
		GridLabels:  a.GridLabels,
		GridColor:   a.GridColor,
		Workers:     s.workers,
	}
	switch {
	case a.WindowCenter != nil && a.WindowWidth != nil:
		req.Window = &voi.Window{Center: *a.WindowCenter, Width: *a.WindowWidth}
	case a.WindowCenter != nil || a.WindowWidth != nil:
		return nil, fmt.Errorf("window_center and window_width must be given together")
	}
	return imaging.Render(r.Source, req)
}

// === Measurement Operation Handlers ===

type rasterMeasureDistanceArgs struct {
	rasterArgs
	X1                 float64 `json:"x1"`
	Y1                 float64 `json:"y1"`
	X2                 float64 `json:"x2"`
	Y2                 float64 `json:"y2"`
	PixelSpacingRow    float64 `json:"pixel_spacing_row"`
	PixelSpacingColumn float64 `json:"pixel_spacing_column"`
}

func (s *Server) handleRasterMeasureDistance(args json.RawMessage) (interface{}, error) {
	var a rasterMeasureDistanceArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	r, err := s.load(a.rasterArgs)
	if err != nil {
		return nil, err
	}
	return imaging.MeasureDistance(r.Source,
		imaging.Point{X: a.X1, Y: a.Y1},
		imaging.Point{X: a.X2, Y: a.Y2},
		imaging.PixelSpacing{Row: a.PixelSpacingRow, Column: a.PixelSpacingColumn})
}

type rasterLineProfileArgs struct {
	rasterArgs
	rescaleArgs
	X1      float64 `json:"x1"`
	Y1      float64 `json:"y1"`
	X2      float64 `json:"x2"`
	Y2      float64 `json:"y2"`
	Samples int     `json:"samples"`
}

func (s *Server) handleRasterLineProfile(args json.RawMessage) (interface{}, error) {
	var a rasterLineProfileArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Samples == 0 {
		a.Samples = 64
	}
	r, err := s.load(a.rasterArgs)
	if err != nil {
		return nil, err
	}
	profile, err := imaging.LineProfile(r.Source,
		imaging.Point{X: a.X1, Y: a.Y1},
		imaging.Point{X: a.X2, Y: a.Y2},
		a.Samples, a.rescale())
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"samples": profile}, nil
}

type rasterRegionStatsArgs struct {
	rasterArgs
	rescaleArgs
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

func (s *Server) handleRasterRegionStats(args json.RawMessage) (interface{}, error) {
	var a rasterRegionStatsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	r, err := s.load(a.rasterArgs)
	if err != nil {
		return nil, err
	}
	return imaging.MeasureRegion(r.Source, image.Rect(a.X1, a.Y1, a.X2, a.Y2), a.rescale())
}
