package server

import (
	"github.com/ironsheep/resample-mcp/internal/imaging"
)

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// namedRegions lists the region names accepted by raster_render.
var namedRegions = []string{
	"full", "top-left", "top-right", "bottom-left", "bottom-right",
	"top-half", "bottom-half", "left-half", "right-half", "center",
	"mirror-h", "mirror-v",
}

func prop(typ, description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        typ,
		"description": description,
	}
}

// rasterProperties returns the properties shared by every tool that reads a
// raster: the path and an optional raw layout.
func rasterProperties() map[string]interface{} {
	return map[string]interface{}{
		"path": prop("string", "Absolute path to the image or raw pixel file"),
		"raw": map[string]interface{}{
			"type":        "object",
			"description": "Layout of a headerless pixel file. Omit for PNG, JPEG, GIF, TIFF or BMP images.",
			"properties": map[string]interface{}{
				"width":           prop("integer", "Width in pixels"),
				"height":          prop("integer", "Height in pixels"),
				"bytes_per_pixel": prop("integer", "Bytes per sample: 1 or 2 (little-endian)"),
				"bits_stored":     prop("integer", "Significant bits per sample. Default 8*bytes_per_pixel"),
				"signed":          prop("boolean", "Samples are two's complement"),
				"rgb":             prop("boolean", "Three components per pixel"),
				"planar":          prop("boolean", "RGB stored as three planes instead of interleaved"),
				"offset":          prop("integer", "Header bytes to skip"),
			},
			"required": []string{"width", "height", "bytes_per_pixel"},
		},
	}
}

// withRescale adds the modality rescale properties to props.
func withRescale(props map[string]interface{}) map[string]interface{} {
	props["rescale_slope"] = prop("number", "Modality rescale slope. Default 1")
	props["rescale_intercept"] = prop("number", "Modality rescale intercept. Default 0")
	return props
}

// with adds extra properties to props.
func with(props map[string]interface{}, extra map[string]interface{}) map[string]interface{} {
	for k, v := range extra {
		props[k] = v
	}
	return props
}

func objectSchema(props map[string]interface{}, required ...string) map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": props,
		"required":   required,
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Raster Information
		{
			Name:        "raster_load",
			Description: "Load an image or raw pixel file and return its dimensions, encoding and stored value range. The raster is cached for subsequent operations.",
			InputSchema: objectSchema(rasterProperties(), "path"),
		},
		{
			Name:        "raster_evict",
			Description: "Drop a cached raster so the next operation re-reads it from disk.",
			InputSchema: objectSchema(map[string]interface{}{
				"path": prop("string", "Absolute path used when the raster was loaded"),
			}, "path"),
		},

		// Sampling Operations
		{
			Name:        "raster_sample",
			Description: "Get the stored values at a pixel, sign-extended and with the modality rescale applied. Fractional coordinates are bilinearly interpolated between pixel centers.",
			InputSchema: objectSchema(withRescale(with(rasterProperties(), map[string]interface{}{
				"x": prop("number", "X coordinate (0-based, from left)"),
				"y": prop("number", "Y coordinate (0-based, from top)"),
			})), "path", "x", "y"),
		},
		{
			Name:        "raster_sample_multi",
			Description: "Get the stored values at several pixels in one call.",
			InputSchema: objectSchema(withRescale(with(rasterProperties(), map[string]interface{}{
				"points": map[string]interface{}{
					"type":        "array",
					"description": "Points to sample",
					"items": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"x":     map[string]interface{}{"type": "integer"},
							"y":     map[string]interface{}{"type": "integer"},
							"label": map[string]interface{}{"type": "string"},
						},
						"required": []string{"x", "y"},
					},
				},
			})), "path", "points"),
		},

		// Windowing and Rendering
		{
			Name:        "raster_auto_window",
			Description: "Compute the window (center/width) spanning the rescaled value range of a grayscale raster.",
			InputSchema: objectSchema(withRescale(rasterProperties()), "path"),
		},
		{
			Name:        "raster_render",
			Description: "Resample a region of a raster with bilinear interpolation and return it as base64-encoded PNG. Regions may be sub-pixel, extend past the edges, or be mirrored (right < left, bottom < top).",
			InputSchema: objectSchema(withRescale(with(rasterProperties(), map[string]interface{}{
				"region": map[string]interface{}{
					"type":        "string",
					"enum":        namedRegions,
					"description": "Named source region. Ignored when left/top/right/bottom are given. Default full",
				},
				"left":          prop("number", "Source region left edge"),
				"top":           prop("number", "Source region top edge"),
				"right":         prop("number", "Source region right edge"),
				"bottom":        prop("number", "Source region bottom edge"),
				"width":         prop("integer", "Output width. Default: region width (1:1)"),
				"height":        prop("integer", "Output height. Default: region height (1:1)"),
				"output_bits":   prop("integer", "Output bit depth, 8 or 16. Default 8"),
				"swap_xy":       prop("boolean", "Transpose the output"),
				"window_center": prop("number", "VOI window center in rescaled units"),
				"window_width":  prop("number", "VOI window width in rescaled units (>= 1)"),
				"auto_window":   prop("boolean", "Use the min/max window of the raster"),
				"palette": map[string]interface{}{
					"type":        "string",
					"enum":        imaging.PaletteNames(),
					"description": "Pseudo-color palette for 8-bit grayscale output",
				},
				"grid_spacing": prop("integer", "Draw a grid every N source pixels (8-bit output only)"),
				"grid_labels":  prop("boolean", "Label grid intersections with source coordinates"),
				"grid_color": map[string]interface{}{
					"type":        "string",
					"description": "Grid color in hex format. Default #FF0000",
					"default":     imaging.DefaultGridColor,
				},
			})), "path"),
		},

		// Measurement Operations
		{
			Name:        "raster_measure_distance",
			Description: "Measure the distance and angle between two points in source pixels and, given pixel spacing, millimetres.",
			InputSchema: objectSchema(with(rasterProperties(), map[string]interface{}{
				"x1":                   prop("number", "Start point X"),
				"y1":                   prop("number", "Start point Y"),
				"x2":                   prop("number", "End point X"),
				"y2":                   prop("number", "End point Y"),
				"pixel_spacing_row":    prop("number", "Vertical pixel size in mm"),
				"pixel_spacing_column": prop("number", "Horizontal pixel size in mm"),
			}), "path", "x1", "y1", "x2", "y2"),
		},
		{
			Name:        "raster_line_profile",
			Description: "Sample interpolated values at evenly spaced points along a line.",
			InputSchema: objectSchema(withRescale(with(rasterProperties(), map[string]interface{}{
				"x1": prop("number", "Start point X"),
				"y1": prop("number", "Start point Y"),
				"x2": prop("number", "End point X"),
				"y2": prop("number", "End point Y"),
				"samples": map[string]interface{}{
					"type":        "integer",
					"description": "Number of points including both ends. Default 64",
					"default":     64,
				},
			})), "path", "x1", "y1", "x2", "y2"),
		},
		{
			Name:        "raster_region_stats",
			Description: "Min, max, mean and standard deviation of rescaled values inside a rectangle.",
			InputSchema: objectSchema(withRescale(with(rasterProperties(), map[string]interface{}{
				"x1": prop("integer", "Left edge X coordinate (0-based)"),
				"y1": prop("integer", "Top edge Y coordinate (0-based)"),
				"x2": prop("integer", "Right edge X coordinate (exclusive)"),
				"y2": prop("integer", "Bottom edge Y coordinate (exclusive)"),
			})), "path", "x1", "y1", "x2", "y2"),
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
