// Package server implements the MCP (Model Context Protocol) server for raster
// resampling tools.
//
// This package provides a JSON-RPC 2.0 server that exposes the bilinear
// resampling kernel through the MCP protocol. Clients load images or
// headerless pixel files, inspect stored values, and render arbitrary
// source regions (sub-pixel, out of bounds, mirrored or transposed) with an
// optional VOI window, pseudo-color palette and coordinate grid.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// The server provides 9 raster tools organized into categories:
//
// Raster Information:
//   - raster_load: Load a raster and report its encoding and value range
//   - raster_evict: Drop a cached raster
//
// Sampling Operations:
//   - raster_sample: Stored and rescaled values at a pixel
//   - raster_sample_multi: Sample multiple points
//
// Windowing and Rendering:
//   - raster_auto_window: Min/max VOI window of a grayscale raster
//   - raster_render: Bilinear resampling of a region to PNG
//
// Measurement Operations:
//   - raster_measure_distance: Distance and angle between points
//   - raster_line_profile: Interpolated values along a line
//   - raster_region_stats: Statistics inside a rectangle
//
// # Raster Sources
//
// Any tool that takes a path also accepts a "raw" object describing a
// headerless pixel file: width, height, bytes per sample (1 or 2,
// little-endian), stored bits, signedness, RGB and planar flags, and a header
// offset. Without it the file is decoded as PNG, JPEG, GIF, TIFF or BMP.
//
// # Raster Caching
//
// The server maintains an in-memory cache of loaded rasters keyed by path.
// Rasters are reused across tool calls until evicted with raster_evict. A raw
// raster is re-read when it is requested with a different layout.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// # Usage
//
// The server is typically started by an MCP client:
//
//	srv := server.New()
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
//
// Rendering can be split across goroutines:
//
//	srv := server.New(server.WithWorkers(runtime.NumCPU()))
package server
